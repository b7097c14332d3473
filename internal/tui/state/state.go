package state

import "sort"

// ChromeLines is the number of screen lines outside the list viewport:
// the header, the status line and the key hints.
const ChromeLines = 3

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

// ViewportHeight is the number of list lines that fit on a screen of the
// given height.
func ViewportHeight(height int) int {
	if height <= 0 {
		return 10
	}
	return max(1, height-ChromeLines)
}

// PageStep scrolls one viewport, keeping two lines of context.
func PageStep(viewport int) int {
	step := viewport - 2
	if step < 3 {
		step = 3
	}
	return step
}

// RowOffsets returns the first content line of each row and the total
// content height.
func RowOffsets(n int, height func(i int) int) ([]int, int) {
	offsets := make([]int, n)
	total := 0
	for i := range n {
		offsets[i] = total
		total += max(0, height(i))
	}
	return offsets, total
}

// RowAt is the index of the row covering content line, or -1 when there
// are no rows.
func RowAt(offsets []int, line int) int {
	if len(offsets) == 0 {
		return -1
	}
	i := sort.Search(len(offsets), func(i int) bool { return offsets[i] > line })
	return max(0, i-1)
}

func ClampScroll(scroll, content, viewport int) int {
	maxScroll := max(0, content-viewport)
	return min(max(0, scroll), maxScroll)
}

// EnsureVisible adjusts scroll so the row spanning [top, top+height) is on
// screen. Rows taller than the viewport are aligned to their top.
func EnsureVisible(scroll, top, height, viewport int) int {
	if top < scroll || height >= viewport {
		return top
	}
	if top+height > scroll+viewport {
		return top + height - viewport
	}
	return scroll
}
