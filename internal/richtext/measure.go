package richtext

import "github.com/charmbracelet/lipgloss"

// Terminal measures text in terminal cells. Every line is one cell tall.
type Terminal struct{}

// Measure returns the bounding width and height of t wrapped to maxWidth.
func (Terminal) Measure(t Text, maxWidth int) (int, int) {
	lines := t.Lines(maxWidth)
	w := 0
	for _, line := range lines {
		w = max(w, lipgloss.Width(line))
	}
	return w, len(lines)
}

func (Terminal) LineHeight(Text) int {
	return 1
}
