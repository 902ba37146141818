package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/stays/pkg/domain"
)

type newOfferMsg struct{}

type editOfferMsg struct {
	place domain.Place
}

// offersModel lists the places owned by the signed-in user.
type offersModel struct {
	places  []domain.Place
	userID  string
	cursor  int
	loading bool
	err     error
	width   int
}

func newOffersModel() offersModel {
	return offersModel{}
}

func (m offersModel) own() []domain.Place {
	var out []domain.Place
	for _, p := range m.places {
		if m.userID != "" && p.UserID == m.userID {
			out = append(out, p)
		}
	}
	return out
}

func (m offersModel) Update(msg tea.Msg) (offersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case placesMsg:
		m.places = msg.list
		m.cursor = clampCursor(m.cursor, len(m.own()))
		return m, nil

	case placesFetchedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.places = msg.list
			m.cursor = clampCursor(m.cursor, len(m.own()))
		}
		return m, nil

	case tea.KeyMsg:
		list := m.own()
		switch {
		case key.Matches(msg, keys.Down):
			if m.cursor < len(list)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.New):
			return m, emit(newOfferMsg{})
		case key.Matches(msg, keys.Edit):
			if m.cursor < len(list) {
				return m, emit(editOfferMsg{place: list[m.cursor]})
			}
		case key.Matches(msg, keys.Open):
			if m.cursor < len(list) {
				return m, emit(openDetailMsg{id: list[m.cursor].ID})
			}
		case key.Matches(msg, keys.Refresh):
			m.loading = true
			return m, emit(refreshMsg{})
		}
	}
	return m, nil
}

func (m offersModel) View() string {
	var b strings.Builder
	b.WriteString("  " + sectionHeaderStyle.Render("your offers") + "\n\n")

	list := m.own()
	switch {
	case m.err != nil:
		b.WriteString("  " + errorStyle.Render("error: "+errorText(m.err)) + "\n")
	case m.loading && len(list) == 0:
		b.WriteString("  " + dimStyle.Render("loading offers...") + "\n")
	case len(list) == 0:
		b.WriteString("  " + dimStyle.Render("No offers found! Press n to offer a place.") + "\n")
	}
	for i, p := range list {
		b.WriteString(placeRow(p, "", i == m.cursor, m.width) + "\n")
		b.WriteString("    " + metaStyle.Render("available "+formatRange(p.AvailableFrom, p.AvailableTo)) + "\n")
	}
	return b.String()
}
