package tui

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/stays/internal/bookings"
	"github.com/naveenspark/stays/pkg/domain"
)

const (
	bookingFirst = iota
	bookingLast
	bookingGuests
	bookingFrom
	bookingTo
)

// submitBookingMsg asks the App to store a booking.
type submitBookingMsg struct {
	booking bookings.NewBooking
}

// bookingSavedMsg reports a stored booking.
type bookingSavedMsg struct {
	booking *domain.Booking
	err     error
}

type bookingFormModel struct {
	place      domain.Place
	form       form
	random     bool
	pick       func(n int) int
	submitting bool
	status     string
}

func newBookingFormModel(p domain.Place, random bool) bookingFormModel {
	m := bookingFormModel{
		place:  p,
		random: random,
		pick:   rand.IntN,
		form: newForm(
			field{label: "first name", limit: 60},
			field{label: "last name", limit: 60},
			field{label: "guests", placeholder: "1-" + strconv.Itoa(domain.MaxGuests), limit: 1},
			field{label: "from", placeholder: p.AvailableFrom.Format(dateLayout), limit: 10},
			field{label: "to", placeholder: p.AvailableTo.Format(dateLayout), limit: 10},
		),
	}
	m.form.set(bookingGuests, "2")
	if random {
		m = m.reroll()
	}
	return m
}

// reroll fills the date inputs with a random stay inside the window.
func (m bookingFormModel) reroll() bookingFormModel {
	from, to := domain.RandomStay(m.place, m.pick)
	m.form.set(bookingFrom, from.Format(dateLayout))
	m.form.set(bookingTo, to.Format(dateLayout))
	return m
}

func (m bookingFormModel) Update(msg tea.Msg) (bookingFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case bookingSavedMsg:
		m.submitting = false
		if msg.err != nil {
			m.status = errorText(msg.err)
			return m, nil
		}
		return m, emit(closeOverlayMsg{})

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Back):
			return m, emit(closeOverlayMsg{})
		case key.Matches(msg, keys.Submit):
			return m.submit()
		case key.Matches(msg, keys.Reroll):
			m.random = true
			return m.reroll(), nil
		case msg.Type == tea.KeyEnter:
			if m.form.last() {
				return m.submit()
			}
			m.form = m.form.move(1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m bookingFormModel) submit() (bookingFormModel, tea.Cmd) {
	guests, err := strconv.Atoi(m.form.value(bookingGuests))
	if err != nil {
		m.status = "guests must be a number"
		return m, nil
	}
	from, err := parseDate("from", m.form.value(bookingFrom))
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	to, err := parseDate("to", m.form.value(bookingTo))
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	b := domain.Booking{
		FirstName:   m.form.value(bookingFirst),
		LastName:    m.form.value(bookingLast),
		GuestNumber: guests,
		BookedFrom:  from,
		BookedTo:    to,
	}
	if err := b.Validate(); err != nil {
		m.status = errorText(err)
		return m, nil
	}
	if !b.WithinAvailability(m.place) {
		m.status = "dates must fall within " + formatRange(m.place.AvailableFrom, m.place.AvailableTo)
		return m, nil
	}

	m.submitting = true
	m.status = ""
	return m, emit(submitBookingMsg{booking: bookings.NewBooking{
		Place:       m.place,
		FirstName:   b.FirstName,
		LastName:    b.LastName,
		GuestNumber: guests,
		From:        from,
		To:          to,
	}})
}

func (m bookingFormModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + selectedStyle.Render("Book "+m.place.Title) + "\n")
	b.WriteString("  " + dimStyle.Render("available "+formatRange(m.place.AvailableFrom, m.place.AvailableTo)) + "\n\n")
	for _, line := range strings.Split(strings.TrimRight(m.form.view(), "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}
	if m.random {
		b.WriteString("\n  " + metaStyle.Render("random dates picked, ctrl+r for another stay") + "\n")
	}
	switch {
	case m.submitting:
		b.WriteString("\n  " + dimStyle.Render("booking place..."))
	case m.status != "":
		b.WriteString("\n  " + errorStyle.Render(m.status))
	}
	return b.String()
}
