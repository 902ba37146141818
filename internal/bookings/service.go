// Package bookings keeps the signed-in user's bookings in step with the
// database.
package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/naveenspark/stays/internal/state"
	"github.com/naveenspark/stays/pkg/client"
	"github.com/naveenspark/stays/pkg/domain"
)

// Identity exposes the signed-in user to the service.
type Identity interface {
	UserID() string
	Token() string
}

// NewBooking holds what a guest enters when booking a place.
type NewBooking struct {
	Place       domain.Place
	FirstName   string
	LastName    string
	GuestNumber int
	From        time.Time
	To          time.Time
}

// Service owns the published list of bookings.
type Service struct {
	db       *client.Client
	identity Identity
	bookings *state.Cell[[]domain.Booking]
	log      *zap.Logger
}

// NewService returns a service with an empty list.
func NewService(db *client.Client, identity Identity, log *zap.Logger) *Service {
	return &Service{
		db:       db,
		identity: identity,
		bookings: state.New[[]domain.Booking](nil),
		log:      log.Named("bookings"),
	}
}

// Bookings returns a copy of the published list.
func (s *Service) Bookings() []domain.Booking {
	return clone(s.bookings.Get())
}

// Subscribe delivers the list after every change.
func (s *Service) Subscribe() (<-chan []domain.Booking, func()) {
	return s.bookings.Subscribe()
}

// Fetch replaces the published list with the signed-in user's bookings.
func (s *Service) Fetch(ctx context.Context) ([]domain.Booking, error) {
	userID, token := s.identity.UserID(), s.identity.Token()
	if userID == "" {
		return nil, fmt.Errorf("bookings.Fetch: %w", domain.ErrNoUser)
	}
	list, err := s.db.WithToken(token).ListBookings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("bookings.Fetch: %w", err)
	}
	s.bookings.Set(list)
	s.log.Debug("bookings fetched", zap.Int("count", len(list)))
	return clone(list), nil
}

// Add books a place for the signed-in user and appends the booking to the
// published list under its database id.
func (s *Service) Add(ctx context.Context, in NewBooking) (*domain.Booking, error) {
	userID, token := s.identity.UserID(), s.identity.Token()
	if userID == "" {
		return nil, fmt.Errorf("bookings.Add: %w", domain.ErrNoUser)
	}
	booking := domain.Booking{
		ID:          uuid.NewString(),
		PlaceID:     in.Place.ID,
		UserID:      userID,
		PlaceTitle:  in.Place.Title,
		PlaceImage:  in.Place.ImageURL,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		GuestNumber: in.GuestNumber,
		BookedFrom:  in.From,
		BookedTo:    in.To,
	}
	if err := booking.Validate(); err != nil {
		return nil, fmt.Errorf("bookings.Add: %w", err)
	}

	id, err := s.db.WithToken(token).CreateBooking(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("bookings.Add: %w", err)
	}
	booking.ID = id
	s.bookings.Update(func(list []domain.Booking) []domain.Booking {
		return append(clone(list), booking)
	})
	s.log.Info("booking added", zap.String("booking_id", id), zap.String("place_id", booking.PlaceID))
	return &booking, nil
}

// Cancel deletes a booking and drops it from the published list.
func (s *Service) Cancel(ctx context.Context, id string) error {
	if err := s.db.WithToken(s.identity.Token()).DeleteBooking(ctx, id); err != nil {
		return fmt.Errorf("bookings.Cancel: %w", err)
	}
	s.bookings.Update(func(list []domain.Booking) []domain.Booking {
		out := make([]domain.Booking, 0, len(list))
		for _, b := range list {
			if b.ID != id {
				out = append(out, b)
			}
		}
		return out
	})
	s.log.Info("booking cancelled", zap.String("booking_id", id))
	return nil
}

func clone(list []domain.Booking) []domain.Booking {
	if list == nil {
		return nil
	}
	return append([]domain.Booking(nil), list...)
}
