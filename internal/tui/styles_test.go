package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestHelpEntryFormat(t *testing.T) {
	got := helpEntry("q", "quit")
	if !strings.Contains(got, "q") || !strings.Contains(got, "quit") {
		t.Errorf("helpEntry(q, quit) = %q, want key and label", got)
	}
}

func TestHelpBarSkipsDisabledBindings(t *testing.T) {
	disabled := keys.Edit
	disabled.SetEnabled(false)

	got := helpBar(keys.Book, disabled, keys.Back)
	if !strings.Contains(got, "book") || !strings.Contains(got, "back") {
		t.Errorf("helpBar missing enabled bindings: %q", got)
	}
	if strings.Contains(got, "edit") {
		t.Errorf("helpBar should skip disabled bindings: %q", got)
	}
}

func TestRenderShimmerLogoSpellsName(t *testing.T) {
	for _, frame := range []int{0, 17, 400} {
		got := renderShimmerLogo(frame)
		for _, r := range "STAYS" {
			if !strings.ContainsRune(got, r) {
				t.Errorf("frame %d: logo missing %q", frame, r)
			}
		}
		// Five letters with two spaces between each.
		if w := lipgloss.Width(got); w != 13 {
			t.Errorf("frame %d: logo width = %d, want 13", frame, w)
		}
	}
}

func TestClampByte(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{{-4, 0}, {12.7, 12}, {300, 255}}
	for _, tc := range tests {
		if got := clampByte(tc.in); got != tc.want {
			t.Errorf("clampByte(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestHelpViewListsCommands(t *testing.T) {
	view := helpView("v1.2.3")
	for _, want := range []string{"stays login", "stays bookings", "v1.2.3", "Discover"} {
		if !strings.Contains(view, want) {
			t.Errorf("helpView missing %q", want)
		}
	}
}
