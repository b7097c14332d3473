package layout

type Size struct {
	W int
	H int
}

// Rect is a frame in row-local cell coordinates. The zero Rect is the
// collapsed frame used for elements that are not shown.
type Rect struct {
	X int
	Y int
	W int
	H int
}

func (r Rect) MaxX() int { return r.X + r.W }
func (r Rect) MaxY() int { return r.Y + r.H }

func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

type Insets struct {
	Top    int
	Left   int
	Bottom int
	Right  int
}
