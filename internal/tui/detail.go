package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/stays/pkg/domain"
)

// placeLoadedMsg carries a place fetched for the detail view.
type placeLoadedMsg struct {
	place *domain.Place
	err   error
}

// bookMsg opens the booking form for a place.
type bookMsg struct {
	place  domain.Place
	random bool
}

type copyMsg struct {
	text  string
	label string
}

type browseMsg struct {
	url string
}

type closeOverlayMsg struct{}

type detailModel struct {
	place   *domain.Place
	userID  string
	loading bool
	err     error
	width   int
}

func newDetailModel(userID string) detailModel {
	return detailModel{userID: userID, loading: true}
}

// bookable reports whether the signed-in user may book the shown place.
func (m detailModel) bookable() bool {
	return m.place != nil && m.userID != "" && m.place.BookableBy(m.userID)
}

func (m detailModel) Update(msg tea.Msg) (detailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case placeLoadedMsg:
		m.loading = false
		m.place = msg.place
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Back):
			return m, emit(closeOverlayMsg{})
		case key.Matches(msg, keys.Book):
			if m.bookable() {
				return m, emit(bookMsg{place: *m.place})
			}
		case key.Matches(msg, keys.Random):
			if m.bookable() {
				return m, emit(bookMsg{place: *m.place, random: true})
			}
		case key.Matches(msg, keys.Browse):
			if m.place != nil && m.place.Location != nil && m.place.Location.StaticMapImageURL != "" {
				return m, emit(browseMsg{url: m.place.Location.StaticMapImageURL})
			}
		case key.Matches(msg, keys.Copy):
			if m.place != nil && m.place.Location != nil {
				return m, emit(copyMsg{text: m.place.Location.DisplayAddress(), label: "address"})
			}
		}
	}
	return m, nil
}

func (m detailModel) View() string {
	if m.loading {
		return "\n  " + dimStyle.Render("loading place...")
	}
	if m.err != nil {
		return "\n  " + errorStyle.Render("error: could not load place: "+errorText(m.err))
	}
	if m.place == nil {
		return ""
	}
	p := m.place

	var b strings.Builder
	b.WriteString("\n  " + selectedStyle.Render(p.Title))
	if !p.BookableBy(m.userID) {
		b.WriteString("  " + ownerBadgeStyle.Render("your offer"))
	}
	b.WriteString("\n\n")
	b.WriteString("  " + priceStyle.Render(formatPrice(p.Price)) + metaStyle.Render(" / night") + "\n")
	b.WriteString("  " + dimStyle.Render("available "+formatRange(p.AvailableFrom, p.AvailableTo)) + "\n\n")
	if p.Description != "" {
		b.WriteString("  " + normalStyle.Render(p.Description) + "\n\n")
	}
	if p.Location != nil {
		b.WriteString("  " + sectionHeaderStyle.Render("location") + "\n")
		b.WriteString("  " + normalStyle.Render(p.Location.DisplayAddress()) + "\n")
		b.WriteString("  " + metaStyle.Render(domain.FormatCoordinates(p.Location.Lat, p.Location.Lng)) + "\n\n")
	}
	if p.ImageURL != "" {
		b.WriteString("  " + metaStyle.Render("photo "+truncStr(p.ImageURL, maxInt(m.width-10, 30))) + "\n")
	}
	return b.String()
}

// helpKeys returns the bindings the detail view offers for its place.
func (m detailModel) helpKeys() []key.Binding {
	out := []key.Binding{}
	if m.bookable() {
		out = append(out, keys.Book, keys.Random)
	}
	if m.place != nil && m.place.Location != nil {
		out = append(out, keys.Browse, keys.Copy)
	}
	return append(out, keys.Back)
}
