package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/naveenspark/stays/pkg/domain"
)

var errNotSignedIn = errors.New("not signed in, run stays login")

// prompter reads answers from the terminal. Passwords are read without
// echo when input is a terminal.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int // -1 when input is not a terminal
}

func newPrompter(f *os.File, out io.Writer) *prompter {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		fd = -1
	}
	return &prompter{in: bufio.NewReader(f), out: out, fd: fd}
}

func (p *prompter) line(label string) (string, error) {
	fmt.Fprint(p.out, label+": ")
	s, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || s == "") {
		return "", fmt.Errorf("read %s: %w", label, err)
	}
	return strings.TrimSpace(s), nil
}

func (p *prompter) secret(label string) (string, error) {
	if p.fd < 0 {
		return p.line(label)
	}
	fmt.Fprint(p.out, label+": ")
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", label, err)
	}
	return string(b), nil
}

func runAuth(ctx context.Context, e env, signup bool, p *prompter) error {
	email, err := p.line("Email")
	if err != nil {
		return err
	}
	password, err := p.secret("Password")
	if err != nil {
		return err
	}

	var sess *domain.Session
	if signup {
		sess, err = e.Manager.Signup(ctx, email, password)
	} else {
		sess, err = e.Manager.Login(ctx, email, password)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Signed in as %s, session valid for %s\n", sess.Email, remaining(sess, e.Clock.Now()))
	return nil
}

func runLogout(ctx context.Context, e env, out io.Writer) error {
	if !e.Gate.Allow(ctx) {
		fmt.Fprintln(out, "Already logged out.")
		return nil
	}
	if err := e.Manager.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Logged out.")
	return nil
}

func runWhoami(ctx context.Context, e env, out io.Writer) error {
	if !e.Gate.Allow(ctx) {
		fmt.Fprintln(out, "Not signed in.")
		return nil
	}
	sess := e.Store.Current()
	fmt.Fprintf(out, "%s (%s)\nsession valid for %s\n", sess.Email, sess.UserID, remaining(sess, e.Clock.Now()))
	return nil
}

func runPlaces(ctx context.Context, e env, opts options, out io.Writer) error {
	if !e.Gate.Allow(ctx) {
		return errNotSignedIn
	}
	if _, err := e.Places.Fetch(ctx); err != nil {
		return err
	}
	list := e.Places.Discover(opts.bookable)
	if opts.mine {
		list = e.Places.Offers()
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "No places found.")
		return nil
	}
	fmt.Fprintln(out, placesTable(list, e.Store.UserID()))
	return nil
}

func runBookings(ctx context.Context, e env, out io.Writer) error {
	if !e.Gate.Allow(ctx) {
		return errNotSignedIn
	}
	list, err := e.Bookings.Fetch(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "No bookings found!")
		return nil
	}
	fmt.Fprintln(out, bookingsTable(list))
	return nil
}

func runConfig(opts options, out io.Writer) error {
	cfg, err := readConfig(opts)
	if err != nil {
		return err
	}
	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	out.Write(data) //nolint:errcheck
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(out, "\nwarning: %v\n", err)
	}
	return nil
}

func placesTable(list []domain.Place, userID string) string {
	t := newTable("ID", "TITLE", "PRICE", "AVAILABLE", "")
	for _, p := range list {
		mark := ""
		if !p.BookableBy(userID) {
			mark = "yours"
		}
		t.Row(p.ID, p.Title, fmt.Sprintf("$%.2f", p.Price), dateRange(p.AvailableFrom, p.AvailableTo), mark)
	}
	return t.String()
}

func bookingsTable(list []domain.Booking) string {
	t := newTable("ID", "PLACE", "DATES", "GUESTS", "NAME")
	for _, b := range list {
		t.Row(b.ID, b.PlaceTitle, dateRange(b.BookedFrom, b.BookedTo), strconv.Itoa(b.GuestNumber), b.FirstName+" "+b.LastName)
	}
	return t.String()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderColumn(false).
		BorderRow(false).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func dateRange(from, to time.Time) string {
	return from.Format("2006-01-02") + " - " + to.Format("2006-01-02")
}

func remaining(sess *domain.Session, now time.Time) time.Duration {
	return sess.Remaining(now).Round(time.Minute)
}
