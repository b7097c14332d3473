// Package richtext holds styled text values for review rows and the
// terminal measurer the layout engine sizes them with.
package richtext

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// Text is a plain string paired with the style it is drawn with. Styling
// never changes the cell width of the text, so measurement only looks at
// Value.
type Text struct {
	Value string
	Style lipgloss.Style
}

func New(value string, style lipgloss.Style) Text {
	return Text{Value: value, Style: style}
}

func Plain(value string) Text {
	return Text{Value: value, Style: lipgloss.NewStyle()}
}

func (t Text) IsEmpty() bool {
	return t.Value == ""
}

// Lines wraps the text to width cells. Words longer than width are broken.
func (t Text) Lines(width int) []string {
	return WrapLines(t.Value, width)
}

// Clip wraps the text to width. maxLines > 0 keeps only the first maxLines
// lines and marks the cut with an ellipsis.
func (t Text) Clip(width, maxLines int) []string {
	lines := t.Lines(width)
	if maxLines > 0 && len(lines) > maxLines {
		lines = append([]string(nil), lines[:maxLines]...)
		last := lines[maxLines-1]
		if lipgloss.Width(last)+1 > width {
			last = truncate.String(last, uint(max(0, width-1)))
		}
		lines[maxLines-1] = last + "…"
	}
	return lines
}

// Render is Clip with the style applied to each line.
func (t Text) Render(width, maxLines int) []string {
	lines := t.Clip(width, maxLines)
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = t.Style.Render(line)
	}
	return out
}

func WrapLines(s string, width int) []string {
	if s == "" {
		return nil
	}
	if width < 1 {
		width = 1
	}
	wrapped := wrap.String(wordwrap.String(s, width), width)
	lines := strings.Split(wrapped, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return lines
}
