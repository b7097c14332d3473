package view

import (
	"fmt"
	"reflect"
	"testing"
)

func numberedRows(heights []int) ListRenderInput {
	return ListRenderInput{
		RowCount: len(heights),
		Height:   func(i int) int { return heights[i] },
		RenderRow: func(i int) []string {
			lines := make([]string, heights[i])
			for y := range lines {
				lines[y] = fmt.Sprintf("%d.%d", i, y)
			}
			return lines
		},
	}
}

func TestRenderListBodyWindow(t *testing.T) {
	in := numberedRows([]int{3, 2, 4})
	in.Scroll = 2
	in.Viewport = 4

	got := RenderListBody(in)
	want := []string{"0.2", "1.0", "1.1", "2.0"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected body: %v", got)
	}
}

func TestRenderListBodyPadsShortContent(t *testing.T) {
	in := numberedRows([]int{2})
	in.Viewport = 4

	got := RenderListBody(in)
	want := []string{"0.0", "0.1", "", ""}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected body: %v", got)
	}
}

func TestRenderListBodyRendersOnlyVisibleRows(t *testing.T) {
	in := numberedRows([]int{5, 5, 5, 5})
	var rendered []int
	inner := in.RenderRow
	in.RenderRow = func(i int) []string {
		rendered = append(rendered, i)
		return inner(i)
	}
	in.Scroll = 6
	in.Viewport = 3

	RenderListBody(in)
	if !reflect.DeepEqual(rendered, []int{1}) {
		t.Fatalf("expected only row 1 to render, got %v", rendered)
	}
}

func TestRenderListBodyEmpty(t *testing.T) {
	if got := RenderListBody(ListRenderInput{Viewport: 0}); len(got) != 0 {
		t.Fatalf("expected no lines, got %v", got)
	}
}
