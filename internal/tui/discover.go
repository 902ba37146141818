package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/stays/pkg/domain"
)

// placesMsg delivers a new list of places from the places feed or a fetch.
type placesMsg struct {
	list []domain.Place
}

// placesFetchedMsg reports the end of a places fetch.
type placesFetchedMsg struct {
	list []domain.Place
	err  error
}

type refreshMsg struct{}

type openDetailMsg struct {
	id string
}

type discoverModel struct {
	places       []domain.Place
	userID       string
	bookableOnly bool
	cursor       int
	loading      bool
	err          error
	width        int
	height       int
}

func newDiscoverModel() discoverModel {
	return discoverModel{}
}

// visible returns the places shown under the current filter.
func (m discoverModel) visible() []domain.Place {
	if !m.bookableOnly {
		return m.places
	}
	var out []domain.Place
	for _, p := range m.places {
		if p.BookableBy(m.userID) {
			out = append(out, p)
		}
	}
	return out
}

func (m discoverModel) Update(msg tea.Msg) (discoverModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case placesMsg:
		m.places = msg.list
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		return m, nil

	case placesFetchedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.places = msg.list
			m.cursor = clampCursor(m.cursor, len(m.visible()))
		}
		return m, nil

	case tea.KeyMsg:
		list := m.visible()
		switch {
		case key.Matches(msg, keys.Down):
			if m.cursor < len(list)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Filter):
			m.bookableOnly = !m.bookableOnly
			m.cursor = 0
		case key.Matches(msg, keys.Refresh):
			m.loading = true
			return m, emit(refreshMsg{})
		case key.Matches(msg, keys.Open):
			if m.cursor < len(list) {
				return m, emit(openDetailMsg{id: list[m.cursor].ID})
			}
		}
	}
	return m, nil
}

func (m discoverModel) View() string {
	var b strings.Builder
	filter := accentStyle.Render("all places") + metaStyle.Render(" / bookable places")
	if m.bookableOnly {
		filter = metaStyle.Render("all places / ") + accentStyle.Render("bookable places")
	}
	b.WriteString("  " + filter + "\n\n")

	list := m.visible()
	switch {
	case m.err != nil:
		b.WriteString("  " + errorStyle.Render("error: "+errorText(m.err)) + "\n")
	case m.loading && len(list) == 0:
		b.WriteString("  " + dimStyle.Render("loading places...") + "\n")
	case len(list) == 0:
		b.WriteString("  " + dimStyle.Render("No bookable places right now, please come back later!") + "\n")
	}

	// First place as a featured card, the rest as rows.
	for i, p := range list {
		if i == 0 {
			b.WriteString(featuredCard(p, m.userID, i == m.cursor, m.width) + "\n")
			continue
		}
		b.WriteString(placeRow(p, m.userID, i == m.cursor, m.width) + "\n")
	}
	return b.String()
}

func featuredCard(p domain.Place, userID string, selected bool, width int) string {
	title := normalStyle.Render(p.Title)
	if selected {
		title = selectedStyle.Render(p.Title)
	}
	var b strings.Builder
	b.WriteString(title)
	if p.UserID == userID && userID != "" {
		b.WriteString("  " + ownerBadgeStyle.Render("your offer"))
	}
	b.WriteString("\n" + dimStyle.Render(formatRange(p.AvailableFrom, p.AvailableTo)))
	b.WriteString("\n" + priceStyle.Render(formatPrice(p.Price)) + metaStyle.Render(" / night"))
	if p.Description != "" {
		b.WriteString("\n" + normalStyle.Render(truncStr(p.Description, maxInt(width-10, 20))))
	}
	return cardStyle.Render(b.String())
}

func placeRow(p domain.Place, userID string, selected bool, width int) string {
	cursor := "  "
	title := normalStyle.Render(truncStr(p.Title, maxInt(width-40, 16)))
	if selected {
		cursor = inputPromptStyle.Render("> ")
		title = selectedStyle.Render(truncStr(p.Title, maxInt(width-40, 16)))
	}
	row := fmt.Sprintf("%s%s  %s  %s", cursor, title,
		priceStyle.Render(formatPrice(p.Price)), dimStyle.Render(truncStr(p.Description, 40)))
	if p.UserID == userID && userID != "" {
		row += "  " + ownerBadgeStyle.Render("yours")
	}
	if selected {
		return selectedRowBg.Render(row)
	}
	return row
}

func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
