// Package layout computes review row geometry. Everything here is a pure
// function of its inputs; an Engine can be shared between goroutines as
// long as its Measurer is.
package layout

import "github.com/glabrego/reviews-cli/internal/richtext"

// MaxPhotos bounds the thumbnail strip.
const MaxPhotos = 5

// Measurer is the text sizing oracle. Measure returns the bounding size of
// t wrapped at maxWidth; LineHeight is the height of a single line of t.
type Measurer interface {
	Measure(t richtext.Text, maxWidth int) (w, h int)
	LineHeight(t richtext.Text) int
}

type Metrics struct {
	Insets           Insets
	AvatarSize       Size
	AvatarToUsername int
	UsernameToRating int
	HeaderGap        int
	PhotoSize        Size
	PhotoSpacing     int
	PhotosGap        int
	TextGap          int
	ShowMoreSize     Size
	ShowMoreGap      int
	CountInsets      Insets
}

// TerminalMetrics returns the spacing used by the terminal client. The
// "show more" control is sized once from its label.
func TerminalMetrics(m Measurer, showMore richtext.Text) Metrics {
	w, h := m.Measure(showMore, 1<<16)
	return Metrics{
		Insets:           Insets{Top: 1, Left: 2, Bottom: 1, Right: 2},
		AvatarSize:       Size{W: 6, H: 3},
		AvatarToUsername: 2,
		UsernameToRating: 0,
		HeaderGap:        1,
		PhotoSize:        Size{W: 8, H: 4},
		PhotoSpacing:     1,
		PhotosGap:        1,
		TextGap:          1,
		ShowMoreSize:     Size{W: w, H: h},
		ShowMoreGap:      1,
		CountInsets:      Insets{Top: 1, Left: 2, Bottom: 1, Right: 2},
	}
}

// ReviewInput is the subset of a review row that affects its geometry.
type ReviewInput struct {
	Username   richtext.Text
	RatingSize Size
	Body       richtext.Text
	MaxLines   int
	Created    richtext.Text
	PhotoCount int
}

type ReviewLayout struct {
	Avatar    Rect
	Username  Rect
	Rating    Rect
	Photos    []Rect
	Text      Rect
	ShowMore  Rect
	Created   Rect
	Truncated bool
	Height    int
}

type CountLayout struct {
	Label  Rect
	Height int
}

type Engine struct {
	measurer Measurer
	metrics  Metrics
}

func NewEngine(measurer Measurer, metrics Metrics) *Engine {
	return &Engine{measurer: measurer, metrics: metrics}
}

func (e *Engine) Metrics() Metrics {
	return e.metrics
}

// Review lays out one review row at the given available width. Vertical
// order is fixed: avatar/username/rating, photos, text, show-more, date.
func (e *Engine) Review(in ReviewInput, width int) ReviewLayout {
	mt := e.metrics
	contentWidth := max(1, width-mt.Insets.Left-mt.Insets.Right)
	var out ReviewLayout

	out.Avatar = Rect{X: mt.Insets.Left, Y: mt.Insets.Top, W: mt.AvatarSize.W, H: mt.AvatarSize.H}

	usernameX := out.Avatar.MaxX() + mt.AvatarToUsername
	usernameMaxWidth := max(1, contentWidth-mt.AvatarSize.W-mt.AvatarToUsername)
	uw, uh := e.measurer.Measure(in.Username, usernameMaxWidth)
	out.Username = Rect{X: usernameX, Y: mt.Insets.Top, W: uw, H: uh}

	out.Rating = Rect{
		X: usernameX,
		Y: out.Username.MaxY() + mt.UsernameToRating,
		W: in.RatingSize.W,
		H: in.RatingSize.H,
	}

	y := max(out.Avatar.MaxY(), out.Rating.MaxY()) + mt.HeaderGap

	if n := min(in.PhotoCount, MaxPhotos); n > 0 {
		out.Photos = make([]Rect, n)
		for i := range out.Photos {
			out.Photos[i] = Rect{
				X: mt.Insets.Left + i*(mt.PhotoSize.W+mt.PhotoSpacing),
				Y: y,
				W: mt.PhotoSize.W,
				H: mt.PhotoSize.H,
			}
		}
		y = out.Photos[0].MaxY() + mt.PhotosGap
	}

	if !in.Body.IsEmpty() {
		_, fullHeight := e.measurer.Measure(in.Body, contentWidth)
		maxLines := max(0, in.MaxLines)
		limitedHeight := e.measurer.LineHeight(in.Body) * maxLines
		out.Truncated = maxLines != 0 && fullHeight > limitedHeight

		textHeight := fullHeight
		if out.Truncated {
			textHeight = limitedHeight
		}
		out.Text = Rect{X: mt.Insets.Left, Y: y, W: contentWidth, H: textHeight}
		y = out.Text.MaxY() + mt.TextGap

		if out.Truncated {
			out.ShowMore = Rect{X: mt.Insets.Left, Y: y, W: mt.ShowMoreSize.W, H: mt.ShowMoreSize.H}
			y = out.ShowMore.MaxY() + mt.ShowMoreGap
		}
	}

	cw, ch := e.measurer.Measure(in.Created, contentWidth)
	out.Created = Rect{X: mt.Insets.Left, Y: y, W: cw, H: ch}

	out.Height = out.Created.MaxY() + mt.Insets.Bottom
	return out
}

// Count lays out the trailing "N reviews" row with a centered label.
func (e *Engine) Count(label richtext.Text, width int) CountLayout {
	in := e.metrics.CountInsets
	available := max(1, width-in.Left-in.Right)
	w, h := e.measurer.Measure(label, available)
	return CountLayout{
		Label:  Rect{X: in.Left + max(0, (available-w)/2), Y: in.Top, W: w, H: h},
		Height: h + in.Top + in.Bottom,
	}
}
