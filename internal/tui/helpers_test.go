package tui

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/naveenspark/stays/pkg/client"
	"github.com/naveenspark/stays/pkg/domain"
)

func TestTruncStr(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"Manhattan Mansion", 10, "Manhattan…"},
		{"L'Amour Toujours", 1, "…"},
		{"anything", 0, ""},
	}
	for _, tc := range tests {
		if got := truncStr(tc.in, tc.max); got != tc.want {
			t.Errorf("truncStr(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("from", " 2026-03-01 ")
	if err != nil {
		t.Fatalf("parseDate() error: %v", err)
	}
	if want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("parseDate() = %v, want %v", got, want)
	}
	if _, err := parseDate("from", "03/01/2026"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestParseCoords(t *testing.T) {
	lat, lng, err := parseCoords("40.758", "-73.9855")
	if err != nil {
		t.Fatalf("parseCoords() error: %v", err)
	}
	if lat != 40.758 || lng != -73.9855 {
		t.Errorf("parseCoords() = %v, %v", lat, lng)
	}

	bad := [][2]string{{"", "1"}, {"91", "0"}, {"0", "181"}, {"north", "east"}}
	for _, b := range bad {
		if _, _, err := parseCoords(b[0], b[1]); err == nil {
			t.Errorf("parseCoords(%q, %q) should fail", b[0], b[1])
		}
	}
}

func TestFormatPriceAndRange(t *testing.T) {
	if got := formatPrice(149.99); got != "$149.99" {
		t.Errorf("formatPrice() = %q", got)
	}
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := formatRange(from, from.AddDate(0, 0, 7)); got != "Jan 1, 2026 - Jan 8, 2026" {
		t.Errorf("formatRange() = %q", got)
	}
	if got := formatDate(time.Time{}); got != "-" {
		t.Errorf("formatDate(zero) = %q, want -", got)
	}
}

func TestErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"no user", fmt.Errorf("bookings.Fetch: %w", domain.ErrNoUser), "you need to log in first"},
		{"not found", fmt.Errorf("places.Update: %w", domain.ErrNotFound), "could not find that place"},
		{"validation", &domain.ValidationError{Field: "guest_number", Reason: "must be between 1 and 4"}, "guest number: must be between 1 and 4"},
		{"identity code", fmt.Errorf("client.SignUp: %w", &client.HTTPError{StatusCode: 400, Message: "EMAIL_EXISTS"}), "this email address exists already"},
		{"database text", &client.HTTPError{StatusCode: 401, Message: "Permission denied"}, "Permission denied"},
		{"plain", errors.New("boom"), "boom"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := errorText(tc.err); got != tc.want {
				t.Errorf("errorText() = %q, want %q", got, tc.want)
			}
		})
	}
}
