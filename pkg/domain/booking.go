package domain

import (
	"strings"
	"time"
)

// MaxGuests is the largest party a single booking accepts.
const MaxGuests = 4

// Booking is a reservation of a place by a user.
type Booking struct {
	ID          string
	PlaceID     string
	UserID      string
	PlaceTitle  string
	PlaceImage  string
	FirstName   string
	LastName    string
	GuestNumber int
	BookedFrom  time.Time
	BookedTo    time.Time
}

// Validate checks the guest-supplied fields of a booking.
func (b Booking) Validate() error {
	if strings.TrimSpace(b.FirstName) == "" {
		return invalid("first_name", "required")
	}
	if strings.TrimSpace(b.LastName) == "" {
		return invalid("last_name", "required")
	}
	if b.GuestNumber < 1 || b.GuestNumber > MaxGuests {
		return invalid("guest_number", "must be between 1 and 4")
	}
	if !b.BookedFrom.Before(b.BookedTo) {
		return invalid("booked_to", "must be after booked_from")
	}
	return nil
}

// Nights returns the number of whole nights between BookedFrom and BookedTo.
func (b Booking) Nights() int {
	d := b.BookedTo.Sub(b.BookedFrom)
	if d <= 0 {
		return 0
	}
	return int(d.Hours() / 24)
}

// WithinAvailability reports whether the booked range lies inside the place's
// window. Both are compared as UTC calendar days, so a stay may start on the
// first available day whatever time of day the window opens.
func (b Booking) WithinAvailability(p Place) bool {
	return !day(b.BookedFrom).Before(day(p.AvailableFrom)) && !day(b.BookedTo).After(day(p.AvailableTo))
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RandomStay picks a stay inside the place's availability window: a start day
// chosen by pick (given the number of candidate start days) and a length of
// up to seven nights, clamped to the window end.
func RandomStay(p Place, pick func(n int) int) (from, to time.Time) {
	const stay = 7 * 24 * time.Hour
	window := p.AvailableTo.Sub(p.AvailableFrom)
	days := int(window.Hours()/24) - 1
	if days < 1 {
		return p.AvailableFrom, p.AvailableTo
	}
	from = p.AvailableFrom.Add(time.Duration(pick(days)) * 24 * time.Hour)
	to = from.Add(stay)
	if to.After(p.AvailableTo) {
		to = p.AvailableTo
	}
	return from, to
}
