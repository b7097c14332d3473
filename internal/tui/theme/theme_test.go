package theme

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestRowStyles_AreColored(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI)
	styles := Default().RowStyles()

	for name, s := range map[string]lipgloss.Style{
		"username": styles.Username,
		"rating":   styles.Rating,
		"body":     styles.Body,
		"created":  styles.Created,
		"count":    styles.Count,
	} {
		if got := s.Render("x"); !strings.Contains(got, "\x1b[") {
			t.Fatalf("expected styled %s text, got %q", name, got)
		}
	}
}

func TestRenderActiveLine(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI)
	th := Default()
	if got := th.RenderActiveLine(false, "plain"); got != "plain" {
		t.Fatalf("inactive line changed: %q", got)
	}
	if got := th.RenderActiveLine(true, "active"); !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected styled active line, got %q", got)
	}
}
