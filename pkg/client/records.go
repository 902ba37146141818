package client

import (
	"time"

	"github.com/naveenspark/stays/pkg/domain"
)

// PlaceRecord is a place as stored in the offered-places collection.
// The record id is the collection key, not a field.
type PlaceRecord struct {
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	ImageURL      string           `json:"imageUrl"`
	Price         float64          `json:"price"`
	AvailableFrom time.Time        `json:"availableFrom"`
	AvailableTo   time.Time        `json:"availableTo"`
	UserID        string           `json:"userId"`
	Location      *domain.Location `json:"location,omitempty"`

	// LegacyImageURL is the misspelled key older clients wrote. Read only.
	LegacyImageURL string `json:"imageUr,omitempty"`
}

// NewPlaceRecord converts a place to its stored form.
func NewPlaceRecord(p domain.Place) PlaceRecord {
	return PlaceRecord{
		Title:         p.Title,
		Description:   p.Description,
		ImageURL:      p.ImageURL,
		Price:         p.Price,
		AvailableFrom: p.AvailableFrom,
		AvailableTo:   p.AvailableTo,
		UserID:        p.UserID,
		Location:      p.Location,
	}
}

// Place converts the record back to a place with the given id.
func (r PlaceRecord) Place(id string) domain.Place {
	imageURL := r.ImageURL
	if imageURL == "" {
		imageURL = r.LegacyImageURL
	}
	return domain.Place{
		ID:            id,
		Title:         r.Title,
		Description:   r.Description,
		ImageURL:      imageURL,
		Price:         r.Price,
		AvailableFrom: r.AvailableFrom,
		AvailableTo:   r.AvailableTo,
		UserID:        r.UserID,
		Location:      r.Location,
	}
}

// BookingRecord is a booking as stored in the bookings collection.
type BookingRecord struct {
	PlaceID     string    `json:"placeId"`
	UserID      string    `json:"userId"`
	PlaceTitle  string    `json:"placeTitle"`
	PlaceImage  string    `json:"placeImage"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	GuestNumber int       `json:"guestNumber"`
	BookedFrom  time.Time `json:"bookedFrom"`
	BookedTo    time.Time `json:"bookedTo"`
}

// NewBookingRecord converts a booking to its stored form.
func NewBookingRecord(b domain.Booking) BookingRecord {
	return BookingRecord{
		PlaceID:     b.PlaceID,
		UserID:      b.UserID,
		PlaceTitle:  b.PlaceTitle,
		PlaceImage:  b.PlaceImage,
		FirstName:   b.FirstName,
		LastName:    b.LastName,
		GuestNumber: b.GuestNumber,
		BookedFrom:  b.BookedFrom,
		BookedTo:    b.BookedTo,
	}
}

// Booking converts the record back to a booking with the given id.
func (r BookingRecord) Booking(id string) domain.Booking {
	return domain.Booking{
		ID:          id,
		PlaceID:     r.PlaceID,
		UserID:      r.UserID,
		PlaceTitle:  r.PlaceTitle,
		PlaceImage:  r.PlaceImage,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		GuestNumber: r.GuestNumber,
		BookedFrom:  r.BookedFrom,
		BookedTo:    r.BookedTo,
	}
}

// createdResponse is the database reply to a POST: the generated key.
type createdResponse struct {
	Name string `json:"name"`
}
