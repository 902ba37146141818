package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/stays/pkg/domain"
)

// bookingsMsg delivers a new list from the bookings feed.
type bookingsMsg struct {
	list []domain.Booking
}

// bookingsFetchedMsg reports the end of a bookings fetch.
type bookingsFetchedMsg struct {
	list []domain.Booking
	err  error
}

type cancelBookingMsg struct {
	id string
}

type bookingCancelledMsg struct {
	id  string
	err error
}

type bookingListModel struct {
	bookings   []domain.Booking
	cursor     int
	loading    bool
	cancelling string
	err        error
	width      int
}

func newBookingListModel() bookingListModel {
	return bookingListModel{}
}

func (m bookingListModel) Update(msg tea.Msg) (bookingListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case bookingsMsg:
		m.bookings = msg.list
		m.cursor = clampCursor(m.cursor, len(m.bookings))
		return m, nil

	case bookingsFetchedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.bookings = msg.list
			m.cursor = clampCursor(m.cursor, len(m.bookings))
		}
		return m, nil

	case bookingCancelledMsg:
		m.cancelling = ""
		m.err = msg.err
		if msg.err == nil {
			var kept []domain.Booking
			for _, b := range m.bookings {
				if b.ID != msg.id {
					kept = append(kept, b)
				}
			}
			m.bookings = kept
			m.cursor = clampCursor(m.cursor, len(m.bookings))
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.bookings)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Cancel):
			if m.cursor < len(m.bookings) && m.cancelling == "" {
				m.cancelling = m.bookings[m.cursor].ID
				return m, emit(cancelBookingMsg{id: m.cancelling})
			}
		case key.Matches(msg, keys.Copy):
			if m.cursor < len(m.bookings) {
				return m, emit(copyMsg{text: m.bookings[m.cursor].ID, label: "booking id"})
			}
		case key.Matches(msg, keys.Refresh):
			m.loading = true
			return m, emit(refreshMsg{})
		}
	}
	return m, nil
}

func (m bookingListModel) View() string {
	var b strings.Builder
	b.WriteString("  " + sectionHeaderStyle.Render("your bookings") + "\n\n")

	switch {
	case m.err != nil:
		b.WriteString("  " + errorStyle.Render("error: "+errorText(m.err)) + "\n")
	case m.loading && len(m.bookings) == 0:
		b.WriteString("  " + dimStyle.Render("loading bookings...") + "\n")
	case len(m.bookings) == 0:
		b.WriteString("  " + dimStyle.Render("No bookings found!") + "\n")
	}

	for i, bk := range m.bookings {
		cursor := "  "
		title := normalStyle.Render(truncStr(bk.PlaceTitle, 40))
		if i == m.cursor {
			cursor = inputPromptStyle.Render("> ")
			title = selectedStyle.Render(truncStr(bk.PlaceTitle, 40))
		}
		guests := "guest"
		if bk.GuestNumber != 1 {
			guests = "guests"
		}
		row := fmt.Sprintf("%s%s  %s  %s", cursor, title,
			dimStyle.Render(formatRange(bk.BookedFrom, bk.BookedTo)),
			metaStyle.Render(fmt.Sprintf("%d %s, %s %s", bk.GuestNumber, guests, bk.FirstName, bk.LastName)))
		if bk.ID == m.cancelling {
			row += "  " + dimStyle.Render("cancelling...")
		}
		if i == m.cursor {
			row = selectedRowBg.Render(row)
		}
		b.WriteString(row + "\n")
	}
	return b.String()
}
