package domain

import (
	"fmt"
	"strings"
	"time"
)

// Place is a property offered for booking.
type Place struct {
	ID            string
	Title         string
	Description   string
	ImageURL      string
	Price         float64 // per night
	AvailableFrom time.Time
	AvailableTo   time.Time
	UserID        string // owner
	Location      *Location
}

// BookableBy reports whether userID may book the place. Owners cannot book their own places.
func (p Place) BookableBy(userID string) bool {
	return p.UserID != userID
}

// Validate checks the fields a new offer must carry.
func (p Place) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return invalid("title", "required")
	}
	if strings.TrimSpace(p.Description) == "" {
		return invalid("description", "required")
	}
	if len([]rune(p.Description)) > MaxDescriptionLen {
		return invalid("description", fmt.Sprintf("at most %d characters", MaxDescriptionLen))
	}
	if p.Price <= 0 {
		return invalid("price", "must be positive")
	}
	if !p.AvailableFrom.Before(p.AvailableTo) {
		return invalid("available_to", "must be after available_from")
	}
	return nil
}

// ValidateEdit checks the fields an owner may change on an existing place.
func ValidateEdit(title, description string) error {
	if strings.TrimSpace(title) == "" {
		return invalid("title", "required")
	}
	if strings.TrimSpace(description) == "" {
		return invalid("description", "required")
	}
	if len([]rune(description)) > MaxDescriptionLen {
		return invalid("description", fmt.Sprintf("at most %d characters", MaxDescriptionLen))
	}
	return nil
}

// MaxDescriptionLen caps offer descriptions.
const MaxDescriptionLen = 180

// FormatCoordinates renders a lat/lng pair for display.
func FormatCoordinates(lat, lng float64) string {
	return fmt.Sprintf("%.5f, %.5f", lat, lng)
}
