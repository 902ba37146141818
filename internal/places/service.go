// Package places keeps the local copy of the offered-places collection in
// step with the database.
package places

import (
	"context"
	"fmt"
	"io"
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

// NewPlace holds the fields a host supplies for a new offer.
type NewPlace struct {
	Title         string
	Description   string
	Price         float64
	AvailableFrom time.Time
	AvailableTo   time.Time
	Location      *domain.Location
	ImageURL      string
}

// Service owns the published list of places.
type Service struct {
	db       *client.Client
	uploader *client.Uploader
	identity Identity
	places   *state.Cell[[]domain.Place]
	log      *zap.Logger
}

// NewService returns a service with an empty list.
func NewService(db *client.Client, uploader *client.Uploader, identity Identity, log *zap.Logger) *Service {
	return &Service{
		db:       db,
		uploader: uploader,
		identity: identity,
		places:   state.New[[]domain.Place](nil),
		log:      log.Named("places"),
	}
}

// Places returns a copy of the published list.
func (s *Service) Places() []domain.Place {
	return clone(s.places.Get())
}

// Subscribe delivers the list after every change.
func (s *Service) Subscribe() (<-chan []domain.Place, func()) {
	return s.places.Subscribe()
}

// Offers returns the published places owned by the signed-in user.
func (s *Service) Offers() []domain.Place {
	userID := s.identity.UserID()
	var out []domain.Place
	for _, p := range s.places.Get() {
		if userID != "" && p.UserID == userID {
			out = append(out, p)
		}
	}
	return out
}

// Discover returns the published places, or with bookableOnly just those the
// signed-in user could book.
func (s *Service) Discover(bookableOnly bool) []domain.Place {
	if !bookableOnly {
		return s.Places()
	}
	userID := s.identity.UserID()
	var out []domain.Place
	for _, p := range s.places.Get() {
		if p.BookableBy(userID) {
			out = append(out, p)
		}
	}
	return out
}

// Fetch replaces the published list with the database contents.
func (s *Service) Fetch(ctx context.Context) ([]domain.Place, error) {
	list, err := s.db.WithToken(s.identity.Token()).ListPlaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("places.Fetch: %w", err)
	}
	s.places.Set(list)
	s.log.Debug("places fetched", zap.Int("count", len(list)))
	return clone(list), nil
}

// Get loads one place straight from the database. The published list is
// not consulted or changed.
func (s *Service) Get(ctx context.Context, id string) (*domain.Place, error) {
	p, err := s.db.WithToken(s.identity.Token()).GetPlace(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("places.Get: %w", err)
	}
	return p, nil
}

// Add stores a new offer owned by the signed-in user and appends it to the
// published list under its database id.
func (s *Service) Add(ctx context.Context, in NewPlace) (*domain.Place, error) {
	userID, token := s.identity.UserID(), s.identity.Token()
	if userID == "" {
		return nil, fmt.Errorf("places.Add: %w", domain.ErrNoUser)
	}
	place := domain.Place{
		ID:            uuid.NewString(),
		Title:         in.Title,
		Description:   in.Description,
		ImageURL:      in.ImageURL,
		Price:         in.Price,
		AvailableFrom: in.AvailableFrom,
		AvailableTo:   in.AvailableTo,
		UserID:        userID,
		Location:      in.Location,
	}
	if err := place.Validate(); err != nil {
		return nil, fmt.Errorf("places.Add: %w", err)
	}

	id, err := s.db.WithToken(token).CreatePlace(ctx, place)
	if err != nil {
		return nil, fmt.Errorf("places.Add: %w", err)
	}
	place.ID = id
	s.places.Update(func(list []domain.Place) []domain.Place {
		return append(clone(list), place)
	})
	s.log.Info("place added", zap.String("place_id", id), zap.String("user_id", userID))
	return &place, nil
}

// Update changes the title and description of a place. An empty local list
// is fetched first so the rest of the record can be carried over.
func (s *Service) Update(ctx context.Context, id, title, description string) (*domain.Place, error) {
	if err := domain.ValidateEdit(title, description); err != nil {
		return nil, fmt.Errorf("places.Update: %w", err)
	}
	token := s.identity.Token()
	list := s.places.Get()
	if len(list) == 0 {
		fetched, err := s.Fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("places.Update: %w", err)
		}
		list = fetched
	}

	idx := -1
	for i, p := range list {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("places.Update: place %s: %w", id, domain.ErrNotFound)
	}

	updated := clone(list)
	updated[idx].Title = title
	updated[idx].Description = description
	if err := s.db.WithToken(token).UpdatePlace(ctx, updated[idx]); err != nil {
		return nil, fmt.Errorf("places.Update: %w", err)
	}
	// Whole-list replace: a concurrent fetch or add that finished after
	// list was read is overwritten.
	s.places.Set(updated)
	s.log.Info("place updated", zap.String("place_id", id))
	p := updated[idx]
	return &p, nil
}

// UploadImage stores an image for a place offer and returns its location.
func (s *Service) UploadImage(ctx context.Context, filename string, r io.Reader) (*domain.ImageUpload, error) {
	up, err := s.uploader.UploadImage(ctx, s.identity.Token(), filename, r)
	if err != nil {
		return nil, fmt.Errorf("places.UploadImage: %w", err)
	}
	s.log.Info("image uploaded", zap.String("image_path", up.ImagePath))
	return up, nil
}

func clone(list []domain.Place) []domain.Place {
	if list == nil {
		return nil
	}
	return append([]domain.Place(nil), list...)
}
