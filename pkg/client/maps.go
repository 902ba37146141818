package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ErrNoResults is returned when reverse geocoding finds no address.
var ErrNoResults = errors.New("no results")

// Geocoder resolves coordinates through the maps API.
type Geocoder struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewGeocoder creates a maps client rooted at baseURL, e.g.
// https://maps.googleapis.com/maps/api.
func NewGeocoder(baseURL, apiKey string) *Geocoder {
	return &Geocoder{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// ReverseGeocode returns the formatted address of the first result for lat/lng.
func (g *Geocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	params := url.Values{}
	params.Set("latlng", latLng(lat, lng))
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/geocode/json?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("client.ReverseGeocode: create request: %w", err)
	}
	var out struct {
		Status  string `json:"status"`
		Results []struct {
			FormattedAddress string `json:"formatted_address"`
		} `json:"results"`
	}
	if err := send(g.httpClient, req, &out); err != nil {
		return "", fmt.Errorf("client.ReverseGeocode: %w", err)
	}
	if len(out.Results) == 0 || out.Results[0].FormattedAddress == "" {
		return "", fmt.Errorf("client.ReverseGeocode: %s: %w", out.Status, ErrNoResults)
	}
	return out.Results[0].FormattedAddress, nil
}

// StaticMapURL builds the static map image URL centred on lat/lng with a
// red "Place" marker. It makes no request.
func (g *Geocoder) StaticMapURL(lat, lng float64, zoom int) string {
	params := url.Values{}
	params.Set("center", latLng(lat, lng))
	params.Set("zoom", strconv.Itoa(zoom))
	params.Set("size", "500x300")
	params.Set("maptype", "roadmap")
	params.Set("markers", "color:red|label:Place|"+latLng(lat, lng))
	params.Set("key", g.apiKey)
	return g.baseURL + "/staticmap?" + params.Encode()
}

func latLng(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}

// Geolocator finds the approximate position of this machine from its
// public IP address.
type Geolocator struct {
	endpoint   string
	httpClient *http.Client
}

// NewGeolocator creates a geolocator querying endpoint, which must answer
// with {"status": "success", "lat": ..., "lon": ...}.
func NewGeolocator(endpoint string) *Geolocator {
	return &Geolocator{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// Locate returns the current latitude and longitude.
func (g *Geolocator) Locate(ctx context.Context) (float64, float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("client.Locate: create request: %w", err)
	}
	var out struct {
		Status  string  `json:"status"`
		Message string  `json:"message"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := send(g.httpClient, req, &out); err != nil {
		return 0, 0, fmt.Errorf("client.Locate: %w", err)
	}
	if out.Status != "" && out.Status != "success" {
		return 0, 0, fmt.Errorf("client.Locate: %s: %s", out.Status, out.Message)
	}
	return out.Lat, out.Lon, nil
}
