package view

import (
	"fmt"
	"strings"

	"github.com/glabrego/reviews-cli/internal/reviews"
	tuitheme "github.com/glabrego/reviews-cli/internal/tui/theme"
)

func Toolbar(showHelp bool) string {
	if showHelp {
		return "?/esc: close help | q: quit"
	}
	return "j/k move | enter expand | o open | y copy | r refresh | ? help | q quit"
}

// HelpLines is the full key reference shown in place of the list.
func HelpLines() []string {
	return []string{
		"j/k, up/down      move selection",
		"ctrl+d/ctrl+u     scroll half a screen",
		"pgdown/pgup       scroll a screen",
		"mouse wheel       scroll",
		"g/G               top/bottom",
		"enter/space       expand the selected review",
		"o                 open first photo (or avatar) in the browser",
		"y                 copy that URL",
		"r                 reload from the first page",
		"?                 toggle this help",
		"q/ctrl+c          quit",
	}
}

type HeaderParams struct {
	Loaded  int
	Total   int
	Phase   reviews.Phase
	Offline bool
	Spinner string
}

func Header(p HeaderParams, th tuitheme.Theme) string {
	mode := "live"
	if p.Offline {
		mode = "offline"
	}
	parts := []string{
		th.Title.Render("Reviews"),
		th.ModePill.Render(mode),
	}
	counts := fmt.Sprintf("%d loaded", p.Loaded)
	if p.Phase == reviews.Exhausted || p.Total > 0 {
		counts = fmt.Sprintf("%d of %d", p.Loaded, p.Total)
	}
	parts = append(parts, th.MetaValue.Render(counts))
	if p.Phase == reviews.Loading && p.Spinner != "" {
		parts = append(parts, th.Spinner.Render(p.Spinner))
	}
	return strings.Join(parts, " ")
}

// StatusLine shows the pagination phase and the latest message. A warning
// wins over the phase colour.
func StatusLine(phase reviews.Phase, status, warning string, th tuitheme.Theme) string {
	state := phase.String()
	label := th.StateIdle.Render("state")
	switch {
	case warning != "":
		state = "warning"
		label = th.StateWarn.Render("state")
	case phase == reviews.Loading:
		label = th.StateLoad.Render("state")
	}
	main := "Ready"
	switch {
	case status != "":
		main = status
	case warning != "":
		main = warning
	case phase == reviews.Exhausted:
		main = "All reviews loaded"
	}
	return fmt.Sprintf("%s: %s | %s", label, state, th.MetaValue.Render(main))
}

// EmptyState is drawn while the list has no rows yet.
func EmptyState(phase reviews.Phase, warning string) string {
	switch {
	case warning != "":
		return "No reviews loaded. Press r to retry."
	case phase == reviews.Loading:
		return "Loading reviews…"
	default:
		return "No reviews yet."
	}
}
