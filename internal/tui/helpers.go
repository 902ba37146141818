package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/stays/pkg/client"
	"github.com/naveenspark/stays/pkg/domain"
)

// dateLayout is how forms read and print calendar days.
const dateLayout = "2006-01-02"

// emit wraps a message as a command.
func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen < 1 {
		return ""
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

func formatPrice(p float64) string {
	return fmt.Sprintf("$%.2f", p)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 2, 2006")
}

func formatRange(from, to time.Time) string {
	return formatDate(from) + " - " + formatDate(to)
}

// parseDate reads a YYYY-MM-DD day in UTC.
func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must look like %s", field, dateLayout)
	}
	return t, nil
}

// parseCoords reads a latitude/longitude pair.
func parseCoords(latStr, lngStr string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, errors.New("latitude must be a number between -90 and 90")
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil || lng < -180 || lng > 180 {
		return 0, 0, errors.New("longitude must be a number between -180 and 180")
	}
	return lat, lng, nil
}

// errorText turns an error into the line shown in a screen's status area.
func errorText(err error) string {
	var verr *domain.ValidationError
	var httpErr *client.HTTPError
	switch {
	case errors.Is(err, domain.ErrNoUser):
		return "you need to log in first"
	case errors.Is(err, domain.ErrNotFound):
		return "could not find that place"
	case errors.As(err, &verr):
		return strings.ReplaceAll(verr.Field, "_", " ") + ": " + verr.Reason
	case errors.As(err, &httpErr):
		if msg, ok := identityMessages[httpErr.Message]; ok {
			return msg
		}
		return httpErr.Message
	}
	return err.Error()
}

// identityMessages maps identity service error codes to readable text.
var identityMessages = map[string]string{
	"EMAIL_EXISTS":              "this email address exists already",
	"EMAIL_NOT_FOUND":           "email address could not be found",
	"INVALID_PASSWORD":          "this password is not correct",
	"INVALID_LOGIN_CREDENTIALS": "email or password is not correct",
	"USER_DISABLED":             "this account has been disabled",
}
