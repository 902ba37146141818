package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/stays/pkg/domain"
)

// fillForm types values into the inputs of f in order.
func fillForm(f form, values ...string) form {
	for i, v := range values {
		f.inputs[i].SetValue(v)
	}
	return f
}

func TestOfferFormSubmit(t *testing.T) {
	m := newOfferFormModel()
	m.form = fillForm(m.form, "Cabin", "Quiet cabin by the lake.", "80", "2026-01-01", "2026-06-30", "46.5", "8.1", "/tmp/cabin.jpg")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatalf("expected submit command, status = %q", m.status)
	}
	msg, ok := cmd().(submitOfferMsg)
	if !ok {
		t.Fatalf("cmd() = %T, want submitOfferMsg", cmd())
	}
	if msg.place.Title != "Cabin" || msg.place.Price != 80 {
		t.Errorf("place = %+v", msg.place)
	}
	if !msg.place.AvailableTo.Equal(time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("AvailableTo = %v", msg.place.AvailableTo)
	}
	if msg.lat != 46.5 || msg.lng != 8.1 || msg.imagePath != "/tmp/cabin.jpg" {
		t.Errorf("lat/lng/image = %v/%v/%q", msg.lat, msg.lng, msg.imagePath)
	}
	if !m.submitting {
		t.Error("expected submitting=true")
	}
}

func TestOfferFormValidation(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"bad price", []string{"Cabin", "Nice.", "cheap", "2026-01-01", "2026-06-30", "1", "1"}, "price must be a number"},
		{"bad date", []string{"Cabin", "Nice.", "80", "tomorrow", "2026-06-30", "1", "1"}, "available from"},
		{"no location", []string{"Cabin", "Nice.", "80", "2026-01-01", "2026-06-30", "", ""}, "pick a location"},
		{"reversed dates", []string{"Cabin", "Nice.", "80", "2026-06-30", "2026-01-01", "1", "1"}, "available to"},
		{"no title", []string{"", "Nice.", "80", "2026-01-01", "2026-06-30", "1", "1"}, "title"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := newOfferFormModel()
			m.form = fillForm(m.form, tc.values...)
			m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
			if cmd != nil {
				t.Error("invalid offer should not submit")
			}
			if !strings.Contains(m.status, tc.want) {
				t.Errorf("status = %q, want it to mention %q", m.status, tc.want)
			}
		})
	}
}

func TestOfferFormLocate(t *testing.T) {
	m := newOfferFormModel()
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	if cmd == nil || !m.locating {
		t.Fatal("ctrl+l should start locating")
	}
	if _, ok := cmd().(locateMsg); !ok {
		t.Errorf("cmd() = %T, want locateMsg", cmd())
	}

	addr := "Zurich, Switzerland"
	m, _ = m.Update(locatedMsg{location: domain.Location{Lat: 47.3769, Lng: 8.5417, Address: &addr}})
	if got := m.form.value(offerLat); got != "47.3769" {
		t.Errorf("latitude input = %q", got)
	}
	if !strings.Contains(m.View(), "Zurich") {
		t.Errorf("view missing located address:\n%s", m.View())
	}

	m, _ = m.Update(locatedMsg{err: errors.New("denied")})
	if !strings.Contains(m.status, "enter coordinates") {
		t.Errorf("status = %q after failed locate", m.status)
	}
}

func TestOfferFormCarriesLocatedAddress(t *testing.T) {
	addr := "Zurich, Switzerland"
	m := newOfferFormModel()
	m, _ = m.Update(locatedMsg{location: domain.Location{Lat: 47.3769, Lng: 8.5417, Address: &addr}})
	m.form.set(offerTitle, "Loft")
	m.form.set(offerDescription, "Old town loft.")
	m.form.set(offerPrice, "120")
	m.form.set(offerFrom, "2026-01-01")
	m.form.set(offerTo, "2026-06-30")

	_, cmd := m.submit()
	if cmd == nil {
		t.Fatal("expected submit command")
	}
	msg := cmd().(submitOfferMsg)
	if msg.location == nil || msg.location.Address == nil || *msg.location.Address != addr {
		t.Fatalf("location = %+v, want the located address", msg.location)
	}

	// Edited coordinates are no longer the located spot.
	m.form.set(offerLat, "46.5")
	_, cmd = m.submit()
	if msg := cmd().(submitOfferMsg); msg.location != nil || msg.lat != 46.5 {
		t.Errorf("after edit: location = %+v, lat = %v", msg.location, msg.lat)
	}
}

func TestEditOfferForm(t *testing.T) {
	p := makeTestPlaces()[0]
	m := newEditOfferModel(p)
	if got := m.form.value(offerTitle); got != p.Title {
		t.Errorf("title prefilled = %q, want %q", got, p.Title)
	}
	if m, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL}); m.locating {
		t.Error("edit form should not auto-locate")
	}

	m.form.set(offerTitle, "Upper East Side Mansion")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatalf("expected submit, status = %q", m.status)
	}
	msg, ok := cmd().(submitEditMsg)
	if !ok || msg.id != "p1" || msg.title != "Upper East Side Mansion" || msg.description != p.Description {
		t.Errorf("cmd() = %#v", cmd())
	}

	m, cmd = m.Update(offerSavedMsg{place: &p})
	if _, ok := cmd().(closeOverlayMsg); !ok {
		t.Error("saved offer should close the form")
	}
}

func TestBookingFormSubmit(t *testing.T) {
	p := makeTestPlaces()[1]
	m := newBookingFormModel(p, false)
	m.form = fillForm(m.form, "Ada", "Lovelace", "3", "2026-03-01", "2026-03-08")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatalf("expected submit command, status = %q", m.status)
	}
	msg, ok := cmd().(submitBookingMsg)
	if !ok {
		t.Fatalf("cmd() = %T, want submitBookingMsg", cmd())
	}
	b := msg.booking
	if b.Place.ID != "p2" || b.FirstName != "Ada" || b.GuestNumber != 3 {
		t.Errorf("booking = %+v", b)
	}
	if b.To.Sub(b.From) != 7*24*time.Hour {
		t.Errorf("stay = %v, want 7 days", b.To.Sub(b.From))
	}
}

func TestBookingFormValidation(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"too many guests", []string{"Ada", "Lovelace", "5", "2026-03-01", "2026-03-08"}, "guest number"},
		{"guests not a number", []string{"Ada", "Lovelace", "two", "2026-03-01", "2026-03-08"}, "guests must be a number"},
		{"outside window", []string{"Ada", "Lovelace", "2", "2025-12-30", "2026-01-05"}, "within"},
		{"missing last name", []string{"Ada", "", "2", "2026-03-01", "2026-03-08"}, "last name"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := newBookingFormModel(makeTestPlaces()[1], false)
			m.form = fillForm(m.form, tc.values...)
			m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
			if cmd != nil {
				t.Error("invalid booking should not submit")
			}
			if !strings.Contains(m.status, tc.want) {
				t.Errorf("status = %q, want it to mention %q", m.status, tc.want)
			}
		})
	}
}

func TestBookingFormRandomDates(t *testing.T) {
	p := makeTestPlaces()[1]
	m := newBookingFormModel(p, false)
	m.pick = func(n int) int { return 10 }
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})

	if !m.random {
		t.Error("expected random mode after ctrl+r")
	}
	if got := m.form.value(bookingFrom); got != "2026-01-11" {
		t.Errorf("from = %q, want 2026-01-11", got)
	}
	if got := m.form.value(bookingTo); got != "2026-01-18" {
		t.Errorf("to = %q, want 2026-01-18", got)
	}
}

func TestBookingFormAcceptsRandomStayInMiddayWindow(t *testing.T) {
	opens := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	p := domain.Place{ID: "p9", Title: "Noon Loft", AvailableFrom: opens, AvailableTo: opens.AddDate(0, 0, 30), UserID: "u2"}
	m := newBookingFormModel(p, false)
	m.pick = func(int) int { return 0 }
	m = m.reroll()
	m.form.set(bookingFirst, "Ada")
	m.form.set(bookingLast, "Lovelace")

	m, cmd := m.submit()
	if cmd == nil {
		t.Fatalf("random stay rejected: from=%q to=%q status=%q",
			m.form.value(bookingFrom), m.form.value(bookingTo), m.status)
	}
	msg := cmd().(submitBookingMsg)
	if got := msg.booking.From.Format(dateLayout); got != "2026-01-01" {
		t.Errorf("from = %s, want 2026-01-01", got)
	}
}

func TestBookingFormShortMiddayWindow(t *testing.T) {
	opens := time.Date(2026, 5, 1, 15, 30, 0, 0, time.UTC)
	p := domain.Place{ID: "p9", Title: "Stopover", AvailableFrom: opens, AvailableTo: opens.Add(36 * time.Hour), UserID: "u2"}
	m := newBookingFormModel(p, true)
	m.form.set(bookingFirst, "Ada")
	m.form.set(bookingLast, "Lovelace")

	if m, cmd := m.submit(); cmd == nil {
		t.Fatalf("whole-window stay rejected: status=%q", m.status)
	}

	m.form.set(bookingFrom, "2026-04-30")
	if m, cmd := m.submit(); cmd != nil || !strings.Contains(m.status, "within") {
		t.Errorf("day before the window accepted, status=%q", m.status)
	}
}

func TestBookingFormSaveError(t *testing.T) {
	m := newBookingFormModel(makeTestPlaces()[1], true)
	m.submitting = true
	m, cmd := m.Update(bookingSavedMsg{err: domain.ErrNoUser})
	if cmd != nil {
		t.Error("failed save should keep the form open")
	}
	if !strings.Contains(m.View(), "log in") {
		t.Errorf("view missing error:\n%s", m.View())
	}
}
