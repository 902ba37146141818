package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/stays/pkg/domain"
)

var (
	testFrom = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	testTo   = time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
)

func makeTestPlaces() []domain.Place {
	addr := "Times Square, New York"
	return []domain.Place{
		{ID: "p1", Title: "Manhattan Mansion", Description: "In the heart of New York City.", Price: 149.99, AvailableFrom: testFrom, AvailableTo: testTo, UserID: "u1",
			Location: &domain.Location{Lat: 40.758, Lng: -73.9855, Address: &addr, StaticMapImageURL: "https://maps.example.com/staticmap?center=40.758,-73.9855"}},
		{ID: "p2", Title: "L'Amour Toujours", Description: "A romantic place in Paris!", Price: 189.99, AvailableFrom: testFrom, AvailableTo: testTo, UserID: "u2"},
		{ID: "p3", Title: "The Foggy Palace", Description: "Not your average city trip!", Price: 99.99, AvailableFrom: testFrom, AvailableTo: testTo, UserID: "u2"},
	}
}

func TestDiscoverFilterBookable(t *testing.T) {
	m := newDiscoverModel()
	m.userID = "u1"
	m, _ = m.Update(placesFetchedMsg{list: makeTestPlaces()})

	if got := len(m.visible()); got != 3 {
		t.Fatalf("visible() = %d places, want 3", got)
	}
	m, _ = m.Update(typeText("f"))
	if !m.bookableOnly {
		t.Fatal("expected bookableOnly after f")
	}
	list := m.visible()
	if len(list) != 2 || list[0].ID != "p2" {
		t.Errorf("bookable places = %+v, want p2 and p3", list)
	}
	if strings.Contains(m.View(), "Manhattan Mansion") {
		t.Error("own place shown under bookable filter")
	}
}

func TestDiscoverOpenEmitsDetail(t *testing.T) {
	m := newDiscoverModel()
	m, _ = m.Update(placesMsg{list: makeTestPlaces()})
	m, _ = m.Update(typeText("j"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected open command")
	}
	if msg, ok := cmd().(openDetailMsg); !ok || msg.id != "p2" {
		t.Errorf("cmd() = %#v, want openDetailMsg{p2}", cmd())
	}
}

func TestDiscoverCursorClampsOnShrink(t *testing.T) {
	m := newDiscoverModel()
	m, _ = m.Update(placesMsg{list: makeTestPlaces()})
	m.cursor = 2
	m, _ = m.Update(placesMsg{list: makeTestPlaces()[:1]})
	if m.cursor != 0 {
		t.Errorf("cursor = %d after list shrank to 1, want 0", m.cursor)
	}
}

func TestDiscoverEmptyAndError(t *testing.T) {
	m := newDiscoverModel()
	m, _ = m.Update(placesFetchedMsg{})
	if !strings.Contains(m.View(), "No bookable places") {
		t.Errorf("empty view = %q", m.View())
	}
	m, _ = m.Update(placesFetchedMsg{err: errors.New("network down")})
	if !strings.Contains(m.View(), "network down") {
		t.Errorf("error view = %q", m.View())
	}
}

func TestOffersShowsOnlyOwnPlaces(t *testing.T) {
	m := newOffersModel()
	m.userID = "u2"
	m, _ = m.Update(placesMsg{list: makeTestPlaces()})

	view := m.View()
	if strings.Contains(view, "Manhattan Mansion") {
		t.Error("offers view shows another user's place")
	}
	if !strings.Contains(view, "The Foggy Palace") {
		t.Errorf("offers view missing own place:\n%s", view)
	}

	m, _ = m.Update(typeText("j"))
	_, cmd := m.Update(typeText("e"))
	if cmd == nil {
		t.Fatal("expected edit command")
	}
	if msg, ok := cmd().(editOfferMsg); !ok || msg.place.ID != "p3" {
		t.Errorf("cmd() = %#v, want editOfferMsg for p3", cmd())
	}

	_, cmd = m.Update(typeText("n"))
	if _, ok := cmd().(newOfferMsg); !ok {
		t.Error("n should emit newOfferMsg")
	}
}

func TestOffersSignedOutShowsNothing(t *testing.T) {
	m := newOffersModel()
	m, _ = m.Update(placesMsg{list: makeTestPlaces()})
	if len(m.own()) != 0 {
		t.Errorf("own() = %d places without a user, want 0", len(m.own()))
	}
}

func TestDetailBookHiddenForOwner(t *testing.T) {
	places := makeTestPlaces()

	m := newDetailModel("u1")
	m, _ = m.Update(placeLoadedMsg{place: &places[0]})
	if m.bookable() {
		t.Error("owner should not be able to book")
	}
	if _, cmd := m.Update(typeText("b")); cmd != nil {
		t.Error("b should do nothing for the owner")
	}
	if !strings.Contains(m.View(), "your offer") {
		t.Errorf("owner view missing badge:\n%s", m.View())
	}

	m = newDetailModel("u2")
	m, _ = m.Update(placeLoadedMsg{place: &places[0]})
	_, cmd := m.Update(typeText("R"))
	if cmd == nil {
		t.Fatal("expected book command for a guest")
	}
	msg, ok := cmd().(bookMsg)
	if !ok || msg.place.ID != "p1" || !msg.random {
		t.Errorf("cmd() = %#v, want random bookMsg for p1", cmd())
	}
}

func TestDetailLocationActions(t *testing.T) {
	places := makeTestPlaces()
	m := newDetailModel("u2")
	m, _ = m.Update(placeLoadedMsg{place: &places[0]})

	if !strings.Contains(m.View(), "Times Square, New York") {
		t.Errorf("detail view missing address:\n%s", m.View())
	}
	_, cmd := m.Update(typeText("o"))
	if msg, ok := cmd().(browseMsg); !ok || !strings.Contains(msg.url, "staticmap") {
		t.Errorf("o = %#v, want browseMsg with map url", cmd())
	}
	_, cmd = m.Update(typeText("y"))
	if msg, ok := cmd().(copyMsg); !ok || msg.text != "Times Square, New York" {
		t.Errorf("y = %#v, want copyMsg with address", cmd())
	}
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(closeOverlayMsg); !ok {
		t.Error("esc should close the detail")
	}
}

func TestDetailLoadError(t *testing.T) {
	m := newDetailModel("u1")
	if !strings.Contains(m.View(), "loading") {
		t.Errorf("initial view = %q, want loading", m.View())
	}
	m, _ = m.Update(placeLoadedMsg{err: domain.ErrNoUser})
	if !strings.Contains(m.View(), "could not load place") {
		t.Errorf("error view = %q", m.View())
	}
}

func makeTestBookings() []domain.Booking {
	return []domain.Booking{
		{ID: "b1", PlaceTitle: "L'Amour Toujours", FirstName: "Ada", LastName: "Lovelace", GuestNumber: 2, BookedFrom: testFrom, BookedTo: testFrom.AddDate(0, 0, 7)},
		{ID: "b2", PlaceTitle: "The Foggy Palace", FirstName: "Ada", LastName: "Lovelace", GuestNumber: 1, BookedFrom: testFrom, BookedTo: testFrom.AddDate(0, 0, 3)},
	}
}

func TestBookingListCancel(t *testing.T) {
	m := newBookingListModel()
	m, _ = m.Update(bookingsFetchedMsg{list: makeTestBookings()})
	m, _ = m.Update(typeText("j"))

	m, cmd := m.Update(typeText("x"))
	if cmd == nil {
		t.Fatal("expected cancel command")
	}
	if msg, ok := cmd().(cancelBookingMsg); !ok || msg.id != "b2" {
		t.Errorf("cmd() = %#v, want cancelBookingMsg{b2}", cmd())
	}
	if !strings.Contains(m.View(), "cancelling") {
		t.Error("view should mark the booking being cancelled")
	}

	m, _ = m.Update(bookingCancelledMsg{id: "b2"})
	if len(m.bookings) != 1 || m.bookings[0].ID != "b1" {
		t.Errorf("bookings after cancel = %+v, want only b1", m.bookings)
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d after cancel, want 0", m.cursor)
	}
}

func TestBookingListCancelFailureKeepsBooking(t *testing.T) {
	m := newBookingListModel()
	m, _ = m.Update(bookingsMsg{list: makeTestBookings()})
	m, _ = m.Update(typeText("x"))
	m, _ = m.Update(bookingCancelledMsg{id: "b1", err: errors.New("boom")})

	if len(m.bookings) != 2 {
		t.Errorf("bookings = %d after failed cancel, want 2", len(m.bookings))
	}
	if !strings.Contains(m.View(), "boom") {
		t.Errorf("view missing error:\n%s", m.View())
	}
}

func TestBookingListView(t *testing.T) {
	m := newBookingListModel()
	if _, cmd := m.Update(typeText("x")); cmd != nil {
		t.Error("x on an empty list should do nothing")
	}
	m, _ = m.Update(bookingsMsg{list: makeTestBookings()})
	view := m.View()
	for _, want := range []string{"L'Amour Toujours", "2 guests", "1 guest,", "Jan 8, 2026"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}
