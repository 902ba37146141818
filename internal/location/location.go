// Package location turns coordinates into a place location: an address when
// one can be found and a static map preview.
package location

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/naveenspark/stays/pkg/client"
	"github.com/naveenspark/stays/pkg/domain"
)

// MapZoom is the zoom level of place map previews.
const MapZoom = 14

// ErrLocationUnavailable is returned when the current position cannot be determined.
var ErrLocationUnavailable = errors.New("location unavailable")

// Locator reports the current position of this device.
type Locator interface {
	Locate(ctx context.Context) (lat, lng float64, err error)
}

// IPLocator locates this machine from its public IP address.
type IPLocator struct {
	geo *client.Geolocator
}

// NewIPLocator returns a locator querying the IP geolocation endpoint.
func NewIPLocator(endpoint string) *IPLocator {
	return &IPLocator{geo: client.NewGeolocator(endpoint)}
}

// Locate implements Locator.
func (l *IPLocator) Locate(ctx context.Context) (float64, float64, error) {
	return l.geo.Locate(ctx)
}

// FixedLocator always reports the same position.
type FixedLocator struct {
	Lat, Lng float64
}

// Locate implements Locator.
func (f FixedLocator) Locate(context.Context) (float64, float64, error) {
	return f.Lat, f.Lng, nil
}

// Resolver builds locations for picked coordinates.
type Resolver struct {
	geocoder *client.Geocoder
	locator  Locator
	log      *zap.Logger
}

// NewResolver creates a resolver. locator may be nil, in which case Locate
// always fails with ErrLocationUnavailable.
func NewResolver(geocoder *client.Geocoder, locator Locator, log *zap.Logger) *Resolver {
	return &Resolver{geocoder: geocoder, locator: locator, log: log.Named("location")}
}

// Resolve returns the location for lat/lng. It never fails: when no address
// can be found the location carries a nil Address.
func (r *Resolver) Resolve(ctx context.Context, lat, lng float64) domain.Location {
	loc := domain.Location{
		Lat:               lat,
		Lng:               lng,
		StaticMapImageURL: r.geocoder.StaticMapURL(lat, lng, MapZoom),
	}
	addr, err := r.geocoder.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		r.log.Warn("reverse geocoding failed",
			zap.Float64("lat", lat), zap.Float64("lng", lng), zap.Error(err))
		return loc
	}
	loc.Address = &addr
	return loc
}

// Locate resolves the current device position.
func (r *Resolver) Locate(ctx context.Context) (domain.Location, error) {
	if r.locator == nil {
		return domain.Location{}, ErrLocationUnavailable
	}
	lat, lng, err := r.locator.Locate(ctx)
	if err != nil {
		r.log.Warn("could not locate device", zap.Error(err))
		return domain.Location{}, fmt.Errorf("location.Locate: %w: %v", ErrLocationUnavailable, err)
	}
	return r.Resolve(ctx, lat, lng), nil
}
