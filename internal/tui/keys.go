package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding the screens react to. List screens use the
// single-letter actions; forms use the ctrl chords so letters stay typeable.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Back    key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
	Logout  key.Binding

	TabDiscover key.Binding
	TabOffers   key.Binding
	TabBookings key.Binding

	Filter key.Binding // discover: all / bookable
	New    key.Binding
	Edit   key.Binding
	Book   key.Binding
	Random key.Binding // book with random dates
	Cancel key.Binding
	Copy   key.Binding
	Browse key.Binding

	Next       key.Binding
	Prev       key.Binding
	Submit     key.Binding
	ToggleMode key.Binding // auth: login / signup
	Locate     key.Binding
	Reroll     key.Binding // booking form: new random dates
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Help:    key.NewBinding(key.WithKeys("h", "?"), key.WithHelp("h", "help")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Logout:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),

	TabDiscover: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "discover")),
	TabOffers:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "offers")),
	TabBookings: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "bookings")),

	Filter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
	New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new offer")),
	Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Book:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "book")),
	Random: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "random dates")),
	Cancel: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cancel booking")),
	Copy:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
	Browse: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open map")),

	Next:       key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
	Prev:       key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev")),
	Submit:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
	ToggleMode: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "login/signup")),
	Locate:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "auto-locate")),
	Reroll:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reroll dates")),
}
