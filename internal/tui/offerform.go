package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/stays/internal/places"
	"github.com/naveenspark/stays/pkg/domain"
)

// Inputs of the new-offer form. The edit form only has title and description.
const (
	offerTitle = iota
	offerDescription
	offerPrice
	offerFrom
	offerTo
	offerLat
	offerLng
	offerImage
)

// submitOfferMsg asks the App to store a new offer. location is set when
// the coordinates are still those of an auto-locate; otherwise the App
// resolves lat/lng. The image is uploaded before the place is added.
type submitOfferMsg struct {
	place     places.NewPlace
	lat, lng  float64
	location  *domain.Location
	imagePath string
}

// submitEditMsg asks the App to update an existing offer.
type submitEditMsg struct {
	id          string
	title       string
	description string
}

type locateMsg struct{}

// locatedMsg carries the result of an auto-locate.
type locatedMsg struct {
	location domain.Location
	err      error
}

// offerSavedMsg reports a stored new offer or edit.
type offerSavedMsg struct {
	place *domain.Place
	err   error
}

type offerFormModel struct {
	form       form
	editing    *domain.Place
	location   *domain.Location
	locating   bool
	submitting bool
	status     string
}

func newOfferFormModel() offerFormModel {
	return offerFormModel{
		form: newForm(
			field{label: "title", placeholder: "Manhattan Mansion", limit: 80},
			field{label: "description", placeholder: "up to 180 characters", limit: domain.MaxDescriptionLen},
			field{label: "price", placeholder: "per night, e.g. 149.99", limit: 12},
			field{label: "available from", placeholder: dateLayout, limit: 10},
			field{label: "available to", placeholder: dateLayout, limit: 10},
			field{label: "latitude", placeholder: "ctrl+l to auto-locate", limit: 20},
			field{label: "longitude", placeholder: "ctrl+l to auto-locate", limit: 20},
			field{label: "image file", placeholder: "optional path to a photo", limit: 512},
		),
	}
}

func newEditOfferModel(p domain.Place) offerFormModel {
	m := offerFormModel{
		editing: &p,
		form: newForm(
			field{label: "title", limit: 80},
			field{label: "description", limit: domain.MaxDescriptionLen},
		),
	}
	m.form.set(offerTitle, p.Title)
	m.form.set(offerDescription, p.Description)
	return m
}

func (m offerFormModel) Update(msg tea.Msg) (offerFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case locatedMsg:
		m.locating = false
		if msg.err != nil {
			m.status = "could not fetch location, please enter coordinates"
			return m, nil
		}
		loc := msg.location
		m.location = &loc
		m.form.set(offerLat, strconv.FormatFloat(loc.Lat, 'f', -1, 64))
		m.form.set(offerLng, strconv.FormatFloat(loc.Lng, 'f', -1, 64))
		m.status = ""
		return m, nil

	case offerSavedMsg:
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
		case key.Matches(msg, keys.Locate) && m.editing == nil:
			m.locating = true
			m.status = ""
			return m, emit(locateMsg{})
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

func (m offerFormModel) submit() (offerFormModel, tea.Cmd) {
	title := m.form.value(offerTitle)
	description := m.form.value(offerDescription)

	if m.editing != nil {
		if err := domain.ValidateEdit(title, description); err != nil {
			m.status = errorText(err)
			return m, nil
		}
		m.submitting = true
		m.status = ""
		return m, emit(submitEditMsg{id: m.editing.ID, title: title, description: description})
	}

	price, err := strconv.ParseFloat(m.form.value(offerPrice), 64)
	if err != nil {
		m.status = "price must be a number"
		return m, nil
	}
	from, err := parseDate("available from", m.form.value(offerFrom))
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	to, err := parseDate("available to", m.form.value(offerTo))
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	lat, lng, err := parseCoords(m.form.value(offerLat), m.form.value(offerLng))
	if err != nil {
		m.status = "pick a location: " + err.Error()
		return m, nil
	}

	candidate := domain.Place{
		Title:         title,
		Description:   description,
		Price:         price,
		AvailableFrom: from,
		AvailableTo:   to,
	}
	if err := candidate.Validate(); err != nil {
		m.status = errorText(err)
		return m, nil
	}

	var located *domain.Location
	if m.location != nil && m.location.Lat == lat && m.location.Lng == lng {
		located = m.location
	}

	m.submitting = true
	m.status = ""
	return m, emit(submitOfferMsg{
		place: places.NewPlace{
			Title:         title,
			Description:   description,
			Price:         price,
			AvailableFrom: from,
			AvailableTo:   to,
		},
		lat:       lat,
		lng:       lng,
		location:  located,
		imagePath: m.form.value(offerImage),
	})
}

func (m offerFormModel) View() string {
	var b strings.Builder
	title := "New offer"
	if m.editing != nil {
		title = "Edit offer"
	}
	b.WriteString("\n  " + selectedStyle.Render(title) + "\n\n")
	for _, line := range strings.Split(strings.TrimRight(m.form.view(), "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}
	if m.location != nil {
		b.WriteString("\n  " + okStyle.Render("located: "+m.location.DisplayAddress()) + "\n")
	}
	switch {
	case m.locating:
		b.WriteString("\n  " + dimStyle.Render("locating..."))
	case m.submitting && m.editing != nil:
		b.WriteString("\n  " + dimStyle.Render("updating place..."))
	case m.submitting:
		b.WriteString("\n  " + dimStyle.Render("creating place..."))
	case m.status != "":
		b.WriteString("\n  " + errorStyle.Render(m.status))
	}
	return b.String()
}

func (m offerFormModel) helpKeys() []key.Binding {
	if m.editing != nil {
		return []key.Binding{keys.Next, keys.Submit, keys.Back}
	}
	return []key.Binding{keys.Next, keys.Locate, keys.Submit, keys.Back}
}
