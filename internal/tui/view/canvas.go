package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/reviews-cli/internal/layout"
)

// wide marks the cell covered by the right half of a double-width rune.
const wide = "\x00"

// Canvas is a fixed grid of terminal cells. Each cell holds one rendered
// (possibly styled) column; empty cells print as spaces.
type Canvas struct {
	w, h  int
	cells [][]string
}

func NewCanvas(w, h int) *Canvas {
	w, h = max(0, w), max(0, h)
	cells := make([][]string, h)
	for y := range cells {
		cells[y] = make([]string, w)
	}
	return &Canvas{w: w, h: h, cells: cells}
}

func (c *Canvas) Width() int  { return c.w }
func (c *Canvas) Height() int { return c.h }

func (c *Canvas) set(x, y int, cell string) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = cell
}

// DrawText writes plain lines into r, one rune per cell, clipping
// anything outside r.
func (c *Canvas) DrawText(r layout.Rect, lines []string, style lipgloss.Style) {
	for i, line := range lines {
		if i >= r.H {
			return
		}
		x := r.X
		for _, ch := range line {
			s := string(ch)
			cw := lipgloss.Width(s)
			if cw == 0 {
				continue
			}
			if x+cw > r.MaxX() {
				break
			}
			c.set(x, r.Y+i, style.Render(s))
			if cw == 2 {
				c.set(x+1, r.Y+i, wide)
			}
			x += cw
		}
	}
}

// DrawCells copies a pre-rendered cell grid to the top-left of r.
func (c *Canvas) DrawCells(r layout.Rect, cells [][]string) {
	for y, row := range cells {
		if y >= r.H {
			return
		}
		for x, cell := range row {
			if x >= r.W {
				break
			}
			c.set(r.X+x, r.Y+y, cell)
		}
	}
}

// Fill paints every cell of r with the same glyph.
func (c *Canvas) Fill(r layout.Rect, glyph string, style lipgloss.Style) {
	cell := style.Render(glyph)
	for y := r.Y; y < r.MaxY(); y++ {
		for x := r.X; x < r.MaxX(); x++ {
			c.set(x, y, cell)
		}
	}
}

func (c *Canvas) Lines() []string {
	out := make([]string, c.h)
	var b strings.Builder
	for y, row := range c.cells {
		b.Reset()
		for _, cell := range row {
			switch cell {
			case wide:
			case "":
				b.WriteByte(' ')
			default:
				b.WriteString(cell)
			}
		}
		out[y] = b.String()
	}
	return out
}
