package reviews

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/glabrego/reviews-cli/internal/layout"
	"github.com/glabrego/reviews-cli/internal/review"
	"github.com/glabrego/reviews-cli/internal/richtext"
)

const (
	starFilled = "★"
	starEmpty  = "☆"
)

// RatingText renders rating as five stars, filled up to the clamped rating.
func RatingText(rating int, style lipgloss.Style) richtext.Text {
	n := review.ClampRating(rating)
	return richtext.New(strings.Repeat(starFilled, n)+strings.Repeat(starEmpty, 5-n), style)
}

// ratingSizes measures each rating indicator once.
type ratingSizes struct {
	measurer layout.Measurer
	sizes    [6]layout.Size
	known    [6]bool
}

func (r *ratingSizes) size(t richtext.Text, rating int) layout.Size {
	n := review.ClampRating(rating)
	if r.known[n] {
		return r.sizes[n]
	}
	w, h := r.measurer.Measure(t, 1<<16)
	r.sizes[n] = layout.Size{W: w, H: h}
	r.known[n] = true
	return r.sizes[n]
}
