package reviews

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/glabrego/reviews-cli/internal/review"
	"github.com/glabrego/reviews-cli/internal/richtext"
	"github.com/google/uuid"
)

// DefaultMaxLines is the body truncation limit of a freshly loaded review.
const DefaultMaxLines = 3

type RowKind int

const (
	RowReview RowKind = iota
	RowCount
)

func (k RowKind) String() string {
	switch k {
	case RowReview:
		return "review"
	case RowCount:
		return "count"
	default:
		return fmt.Sprintf("RowKind(%d)", int(k))
	}
}

// RowContent is the display form of one review. MaxLines of 0 means the
// body is shown in full.
type RowContent struct {
	ID        uuid.UUID
	Username  richtext.Text
	Rating    richtext.Text
	RatingOf  int
	Body      richtext.Text
	MaxLines  int
	Created   richtext.Text
	AvatarURL string
	PhotoURLs []string
}

// CountRow is the trailing summary shown once the list is exhausted.
type CountRow struct {
	Total int
	Label richtext.Text
}

// Row is a tagged union over the two row kinds. Exactly one of Review and
// Count is meaningful, selected by Kind.
type Row struct {
	Kind   RowKind
	Review RowContent
	Count  CountRow
}

// ID is the stable identifier of the row. The count row has a fixed one.
func (r Row) ID() string {
	if r.Kind == RowCount {
		return "count"
	}
	return r.Review.ID.String()
}

// Identities lists the image identities of a review row, avatar first.
func (r Row) Identities() []string {
	if r.Kind != RowReview {
		return nil
	}
	out := make([]string, 0, 1+len(r.Review.PhotoURLs))
	if r.Review.AvatarURL != "" {
		out = append(out, r.Review.AvatarURL)
	}
	return append(out, r.Review.PhotoURLs...)
}

// Styles are applied to the text of built rows.
type Styles struct {
	Username lipgloss.Style
	Rating   lipgloss.Style
	Body     lipgloss.Style
	Created  lipgloss.Style
	Count    lipgloss.Style
}

func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Username: s, Rating: s, Body: s, Created: s, Count: s}
}

func newRowContent(rec review.Record, styles Styles, maxLines int) RowContent {
	rating := review.ClampRating(rec.Rating)
	return RowContent{
		ID:        uuid.New(),
		Username:  richtext.New(rec.FullName(), styles.Username),
		Rating:    RatingText(rating, styles.Rating),
		RatingOf:  rating,
		Body:      richtext.New(bodyText(rec.Text), styles.Body),
		MaxLines:  maxLines,
		Created:   richtext.New(strings.TrimSpace(rec.Created), styles.Created),
		AvatarURL: strings.TrimSpace(rec.AvatarURL),
		PhotoURLs: rec.Photos(),
	}
}

func bodyText(raw string) string {
	if strings.ContainsRune(raw, '<') {
		return richtext.FromHTML(raw)
	}
	return strings.TrimSpace(raw)
}

func CountLabel(total int) string {
	if total == 1 {
		return "1 review"
	}
	return fmt.Sprintf("%d reviews", total)
}

func newCountRow(total int, styles Styles) CountRow {
	return CountRow{Total: total, Label: richtext.New(CountLabel(total), styles.Count)}
}
