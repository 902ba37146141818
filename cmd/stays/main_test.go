package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/naveenspark/stays/pkg/domain"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantCmd string
		wantErr bool
	}{
		{"no args opens the app", nil, "", false},
		{"subcommand", []string{"login"}, "login", false},
		{"flag after subcommand", []string{"places", "--bookable"}, "places", false},
		{"flag before subcommand", []string{"--config", "/tmp/x.yaml", "whoami"}, "whoami", false},
		{"help flag", []string{"-h"}, "help", false},
		{"version flag", []string{"--version"}, "version", false},
		{"unknown flag", []string{"--nope"}, "", true},
		{"extra argument", []string{"places", "paris"}, "", true},
		{"conflicting filters", []string{"places", "--bookable", "--mine"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _, err := parseArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseArgs(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if cmd != tt.wantCmd {
				t.Errorf("parseArgs(%v) cmd = %q, want %q", tt.args, cmd, tt.wantCmd)
			}
		})
	}
}

func TestParseArgsOptions(t *testing.T) {
	_, opts, err := parseArgs([]string{"-c", "/tmp/stays.yaml", "--debug", "places", "--mine"})
	if err != nil {
		t.Fatal(err)
	}
	if opts.configPath != "/tmp/stays.yaml" || !opts.debug || !opts.mine || opts.bookable {
		t.Errorf("opts = %+v", opts)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	if err := run([]string{"teleport"}); err == nil || !strings.Contains(err.Error(), "teleport") {
		t.Errorf("run(teleport) error = %v, want unknown command", err)
	}
}

func TestPrintHelpListsCommands(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf)
	for _, cmd := range []string{"login", "signup", "logout", "whoami", "places", "bookings", "config", "version"} {
		if !strings.Contains(buf.String(), cmd) {
			t.Errorf("help missing %q", cmd)
		}
	}
}

func TestPrompterWithoutTerminal(t *testing.T) {
	var out bytes.Buffer
	p := &prompter{in: bufio.NewReader(strings.NewReader(" ada@example.com \nsecret1")), out: &out, fd: -1}

	email, err := p.line("Email")
	if err != nil || email != "ada@example.com" {
		t.Fatalf("line = %q, %v", email, err)
	}
	pw, err := p.secret("Password")
	if err != nil || pw != "secret1" {
		t.Fatalf("secret = %q, %v", pw, err)
	}
	if got := out.String(); got != "Email: Password: " {
		t.Errorf("prompts = %q", got)
	}
	if _, err := p.line("Again"); err == nil {
		t.Error("expected error at end of input")
	}
}

func TestRunConfigMasksKeys(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STAYS_API_KEY", "AIzaSecretKey")
	t.Setenv("STAYS_DATABASE_URL", "")
	t.Setenv("STAYS_DATA_DIR", dir)

	var out bytes.Buffer
	if err := runConfig(options{configPath: filepath.Join(dir, "missing.yaml")}, &out); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if strings.Contains(got, "AIzaSecretKey") {
		t.Error("config output leaks the api key")
	}
	if !strings.Contains(got, "AIza*") {
		t.Errorf("config output missing masked key:\n%s", got)
	}
	if !strings.Contains(got, "STAYS_DATABASE_URL") {
		t.Errorf("config output missing validation warning:\n%s", got)
	}
}

func TestTables(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	places := placesTable([]domain.Place{
		{ID: "p1", Title: "Manhattan Mansion", Price: 149.99, AvailableFrom: from, AvailableTo: to, UserID: "u1"},
		{ID: "p2", Title: "The Foggy Palace", Price: 99.99, AvailableFrom: from, AvailableTo: to, UserID: "u2"},
	}, "u1")
	for _, want := range []string{"Manhattan Mansion", "$149.99", "2026-01-01 - 2026-12-31", "yours"} {
		if !strings.Contains(places, want) {
			t.Errorf("places table missing %q:\n%s", want, places)
		}
	}
	if strings.Count(places, "yours") != 1 {
		t.Errorf("only p1 belongs to u1:\n%s", places)
	}

	bookings := bookingsTable([]domain.Booking{
		{ID: "b1", PlaceTitle: "The Foggy Palace", FirstName: "Ada", LastName: "Lovelace", GuestNumber: 2, BookedFrom: from, BookedTo: from.AddDate(0, 0, 3)},
	})
	for _, want := range []string{"b1", "The Foggy Palace", "Ada Lovelace", "2026-01-04"} {
		if !strings.Contains(bookings, want) {
			t.Errorf("bookings table missing %q:\n%s", want, bookings)
		}
	}
}

func TestAppGraphIsComplete(t *testing.T) {
	if err := fx.ValidateApp(appOptions(options{}), fx.Invoke(func(env) {})); err != nil {
		t.Fatalf("dependency graph: %v", err)
	}
}

// backend fakes the identity service and the database.
func backend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/accounts:"):
			var body struct {
				Email string `json:"email"`
			}
			json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
			json.NewEncoder(w).Encode(domain.AuthResponse{ //nolint:errcheck
				LocalID: "u1", IDToken: "T", Email: body.Email, ExpiresIn: "3600",
			})
		case r.URL.Query().Get("auth") != "T":
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Permission denied"}`)) //nolint:errcheck
		case r.URL.Path == "/offered-places.json":
			w.Write([]byte(`{
				"p1": {"title": "Manhattan Mansion", "price": 149.99, "availableFrom": "2026-01-01T00:00:00Z", "availableTo": "2026-12-31T00:00:00Z", "userId": "u1"},
				"p2": {"title": "The Foggy Palace", "price": 99.99, "availableFrom": "2026-01-01T00:00:00Z", "availableTo": "2026-12-31T00:00:00Z", "userId": "u2"}
			}`)) //nolint:errcheck
		case r.URL.Path == "/bookings.json":
			w.Write([]byte(`{}`)) //nolint:errcheck
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// startEnv builds the real dependency graph against url, keeping state in dir.
func startEnv(t *testing.T, url, dir string) env {
	t.Helper()
	t.Setenv("STAYS_CONFIG", filepath.Join(dir, "config.yaml"))
	t.Setenv("STAYS_API_KEY", "test-key")
	t.Setenv("STAYS_DATABASE_URL", url)
	t.Setenv("STAYS_IDENTITY_URL", url)
	t.Setenv("STAYS_DATA_DIR", dir)

	var e env
	app := fx.New(appOptions(options{}), fx.Invoke(func(d env) { e = d }))
	if err := app.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { app.Stop(context.Background()) }) //nolint:errcheck
	return e
}

func TestCommandsEndToEnd(t *testing.T) {
	srv := backend(t)
	dir := t.TempDir()
	ctx := context.Background()
	e := startEnv(t, srv.URL, dir)

	var out bytes.Buffer
	if err := runPlaces(ctx, e, options{}, &out); !errors.Is(err, errNotSignedIn) {
		t.Fatalf("places before login: err = %v, want errNotSignedIn", err)
	}
	if err := runWhoami(ctx, e, &out); err != nil || !strings.Contains(out.String(), "Not signed in.") {
		t.Fatalf("whoami before login: %q, %v", out.String(), err)
	}

	out.Reset()
	p := &prompter{in: bufio.NewReader(strings.NewReader("ada@example.com\nsecret1\n")), out: &out, fd: -1}
	if err := runAuth(ctx, e, false, p); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out.String(), "Signed in as ada@example.com") {
		t.Errorf("login output = %q", out.String())
	}

	out.Reset()
	if err := runPlaces(ctx, e, options{bookable: true}, &out); err != nil {
		t.Fatalf("places: %v", err)
	}
	if strings.Contains(out.String(), "Manhattan Mansion") || !strings.Contains(out.String(), "The Foggy Palace") {
		t.Errorf("bookable places = \n%s", out.String())
	}

	out.Reset()
	if err := runBookings(ctx, e, &out); err != nil || !strings.Contains(out.String(), "No bookings found!") {
		t.Errorf("bookings: %q, %v", out.String(), err)
	}

	// A second process restores the session from disk.
	again := startEnv(t, srv.URL, dir)
	out.Reset()
	if err := runWhoami(ctx, again, &out); err != nil || !strings.Contains(out.String(), "ada@example.com (u1)") {
		t.Fatalf("whoami after restart: %q, %v", out.String(), err)
	}

	out.Reset()
	if err := runLogout(ctx, again, &out); err != nil || !strings.Contains(out.String(), "Logged out.") {
		t.Fatalf("logout: %q, %v", out.String(), err)
	}
	fresh := startEnv(t, srv.URL, dir)
	out.Reset()
	if err := runWhoami(ctx, fresh, &out); err != nil || !strings.Contains(out.String(), "Not signed in.") {
		t.Errorf("whoami after logout: %q, %v", out.String(), err)
	}
}
