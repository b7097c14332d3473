package view

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Thumbnail scales img into w×h cells using upper half blocks, so each cell
// carries two vertically stacked pixels. Sampling is nearest neighbour.
func Thumbnail(img image.Image, w, h int) [][]string {
	if img == nil || w <= 0 || h <= 0 {
		return nil
	}
	b := img.Bounds()
	if b.Empty() {
		return nil
	}
	sample := func(px, py int) (string, bool) {
		sx := b.Min.X + px*b.Dx()/w
		sy := b.Min.Y + py*b.Dy()/(h*2)
		r, g, bl, a := img.At(sx, sy).RGBA()
		if a < 0x8000 {
			return "", false
		}
		return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, bl>>8), true
	}

	out := make([][]string, h)
	for y := range out {
		out[y] = make([]string, w)
		for x := range out[y] {
			top, topOK := sample(x, y*2)
			bottom, bottomOK := sample(x, y*2+1)
			switch {
			case topOK && bottomOK:
				out[y][x] = lipgloss.NewStyle().
					Foreground(lipgloss.Color(top)).
					Background(lipgloss.Color(bottom)).
					Render("▀")
			case topOK:
				out[y][x] = lipgloss.NewStyle().Foreground(lipgloss.Color(top)).Render("▀")
			case bottomOK:
				out[y][x] = lipgloss.NewStyle().Foreground(lipgloss.Color(bottom)).Render("▄")
			default:
				out[y][x] = " "
			}
		}
	}
	return out
}

// Placeholder is drawn while an image is loading or after it failed. The
// label is centered and dropped when it does not fit.
func Placeholder(w, h int, label string, style lipgloss.Style) [][]string {
	if w <= 0 || h <= 0 {
		return nil
	}
	fill := style.Render("░")
	out := make([][]string, h)
	for y := range out {
		out[y] = make([]string, w)
		for x := range out[y] {
			out[y][x] = fill
		}
	}
	label = strings.TrimSpace(label)
	runes := []rune(label)
	if len(runes) == 0 || len(runes) > w || lipgloss.Width(label) != len(runes) {
		return out
	}
	x0 := (w - len(runes)) / 2
	for i, r := range runes {
		out[h/2][x0+i] = style.Render(string(r))
	}
	return out
}

// Initials picks up to two leading letters for an avatar placeholder.
func Initials(name string) string {
	var out []rune
	for _, field := range strings.Fields(name) {
		out = append(out, []rune(strings.ToUpper(field))[0])
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}
