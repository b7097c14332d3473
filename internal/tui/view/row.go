package view

import (
	"github.com/glabrego/reviews-cli/internal/layout"
	"github.com/glabrego/reviews-cli/internal/reviews"
	tuitheme "github.com/glabrego/reviews-cli/internal/tui/theme"
)

// ShowMoreLabel is the text of the expand control under a truncated body.
const ShowMoreLabel = "Show more…"

// ThumbnailFunc returns the rendered cells for an image identity at size,
// or false while the image is not available.
type ThumbnailFunc func(identity string, size layout.Size) ([][]string, bool)

type ReviewRowParams struct {
	Content  reviews.RowContent
	Layout   layout.ReviewLayout
	Width    int
	Selected bool
	Thumb    ThumbnailFunc
}

// RenderReviewRow paints a review into exactly Layout.Height lines.
func RenderReviewRow(p ReviewRowParams, th tuitheme.Theme) []string {
	l := p.Layout
	c := NewCanvas(p.Width, l.Height)
	content := p.Content

	c.DrawCells(l.Avatar, thumbOrPlaceholder(p.Thumb, content.AvatarURL, l.Avatar, Initials(content.Username.Value), th))
	c.DrawText(l.Username, content.Username.Clip(l.Username.W, 0), content.Username.Style)
	c.DrawText(l.Rating, content.Rating.Clip(max(1, l.Rating.W), 0), content.Rating.Style)

	for i, r := range l.Photos {
		if i >= len(content.PhotoURLs) {
			break
		}
		c.DrawCells(r, thumbOrPlaceholder(p.Thumb, content.PhotoURLs[i], r, "", th))
	}

	if !l.Text.IsEmpty() {
		maxLines := 0
		if l.Truncated {
			maxLines = content.MaxLines
		}
		c.DrawText(l.Text, content.Body.Clip(l.Text.W, maxLines), content.Body.Style)
	}
	if l.Truncated {
		c.DrawText(l.ShowMore, []string{ShowMoreLabel}, th.ShowMore)
	}
	c.DrawText(l.Created, content.Created.Clip(max(1, l.Created.W), 0), content.Created.Style)

	if p.Selected {
		c.Fill(layout.Rect{W: 1, H: l.Height}, "▌", th.Selection)
	}
	return c.Lines()
}

func RenderCountRow(row reviews.CountRow, l layout.CountLayout, width int, selected bool, th tuitheme.Theme) []string {
	c := NewCanvas(width, l.Height)
	c.DrawText(l.Label, row.Label.Clip(max(1, l.Label.W), 0), row.Label.Style)
	if selected {
		c.Fill(layout.Rect{W: 1, H: l.Height}, "▌", th.Selection)
	}
	return c.Lines()
}

func thumbOrPlaceholder(thumb ThumbnailFunc, identity string, r layout.Rect, label string, th tuitheme.Theme) [][]string {
	size := layout.Size{W: r.W, H: r.H}
	if thumb != nil && identity != "" {
		if cells, ok := thumb(identity, size); ok {
			return cells
		}
	}
	return Placeholder(size.W, size.H, label, th.Thumbnail)
}
