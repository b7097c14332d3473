package view

type ListRenderInput struct {
	RowCount int
	Scroll   int
	Viewport int
	Width    int

	Height    func(i int) int
	RenderRow func(i int) []string
}

// RenderListBody returns exactly Viewport lines starting at content line
// Scroll. Only rows intersecting the viewport are rendered.
func RenderListBody(in ListRenderInput) []string {
	out := make([]string, 0, max(0, in.Viewport))
	if in.Viewport <= 0 {
		return out
	}
	top := 0
	for i := 0; i < in.RowCount && len(out) < in.Viewport; i++ {
		h := in.Height(i)
		if top+h <= in.Scroll {
			top += h
			continue
		}
		lines := in.RenderRow(i)
		for y := max(0, in.Scroll-top); y < h && len(out) < in.Viewport; y++ {
			if y < len(lines) {
				out = append(out, lines[y])
			} else {
				out = append(out, "")
			}
		}
		top += h
	}
	for len(out) < in.Viewport {
		out = append(out, "")
	}
	return out
}
