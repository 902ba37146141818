package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const minPasswordLen = 6

const (
	authEmail = iota
	authPassword
)

// submitAuthMsg asks the App to log in or sign up.
type submitAuthMsg struct {
	signup   bool
	email    string
	password string
}

// authDoneMsg carries the result of a login or signup.
type authDoneMsg struct {
	err error
}

type authModel struct {
	form       form
	signup     bool
	submitting bool
	status     string
}

func newAuthModel() authModel {
	return authModel{
		form: newForm(
			field{label: "email", placeholder: "you@example.com"},
			field{label: "password", placeholder: "at least 6 characters", secret: true},
		),
	}
}

func (m authModel) Update(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.status = errorText(msg.err)
			return m, nil
		}
		m.status = ""
		m.form.set(authPassword, "")
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.ToggleMode):
			m.signup = !m.signup
			m.status = ""
			return m, nil
		case key.Matches(msg, keys.Submit), msg.Type == tea.KeyEnter && m.form.last():
			return m.submit()
		case msg.Type == tea.KeyEnter:
			m.form = m.form.move(1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m authModel) submit() (authModel, tea.Cmd) {
	email := m.form.value(authEmail)
	password := m.form.inputs[authPassword].Value()

	if !strings.Contains(email, "@") {
		m.status = "enter a valid email address"
		return m, nil
	}
	if len([]rune(password)) < minPasswordLen {
		m.status = "password must be at least 6 characters"
		return m, nil
	}
	m.status = ""
	m.submitting = true
	return m, emit(submitAuthMsg{signup: m.signup, email: email, password: password})
}

func (m authModel) View() string {
	var b strings.Builder
	title := "Log in"
	other := "no account yet? ctrl+t to sign up"
	if m.signup {
		title = "Sign up"
		other = "have an account? ctrl+t to log in"
	}
	b.WriteString("\n  " + selectedStyle.Render(title) + "\n\n")
	for _, line := range strings.Split(strings.TrimRight(m.form.view(), "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n  " + metaStyle.Render(other) + "\n")
	switch {
	case m.submitting && m.signup:
		b.WriteString("\n  " + dimStyle.Render("signing up..."))
	case m.submitting:
		b.WriteString("\n  " + dimStyle.Render("logging in..."))
	case m.status != "":
		b.WriteString("\n  " + errorStyle.Render(m.status))
	}
	return b.String()
}
