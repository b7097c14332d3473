// Package fixture serves the bundled review set, either in-process or over
// HTTP, for running the client without a real backend.
package fixture

import (
	"context"
	_ "embed"
	"fmt"
	"math/rand/v2"
	"net/url"
	"time"

	"github.com/glabrego/reviews-cli/internal/review"
)

//go:embed reviews.json
var reviewsJSON []byte

// Reviews decodes the embedded review set.
func Reviews() (review.Page, error) {
	page, err := review.DecodePage(reviewsJSON)
	if err != nil {
		return review.Page{}, fmt.Errorf("load bundled reviews: %w", err)
	}
	return page, nil
}

// Source pages through the bundled reviews after a random delay in
// [MinLatency, MaxLatency].
type Source struct {
	all        review.Page
	minLatency time.Duration
	maxLatency time.Duration
	imageBase  *url.URL
}

type SourceOptions struct {
	MinLatency time.Duration
	MaxLatency time.Duration
	// ImageBase resolves the relative image identities of the bundled
	// reviews. Leave nil to keep them relative.
	ImageBase *url.URL
}

func NewSource(opts SourceOptions) (*Source, error) {
	all, err := Reviews()
	if err != nil {
		return nil, err
	}
	if opts.MaxLatency < opts.MinLatency {
		opts.MaxLatency = opts.MinLatency
	}
	return &Source{
		all:        all,
		minLatency: opts.MinLatency,
		maxLatency: opts.MaxLatency,
		imageBase:  opts.ImageBase,
	}, nil
}

func (s *Source) Len() int {
	return len(s.all.Items)
}

func (s *Source) GetPage(ctx context.Context, offset, limit int) (review.Page, error) {
	if err := s.wait(ctx); err != nil {
		return review.Page{}, fmt.Errorf("%w: %w", review.ErrSourceUnavailable, err)
	}
	if limit < 1 {
		limit = 20
	}
	total := len(s.all.Items)
	start := min(max(offset, 0), total)
	end := min(start+limit, total)

	page := review.Page{Count: s.all.Count, Items: make([]review.Record, end-start)}
	for i, rec := range s.all.Items[start:end] {
		rec.PhotoURLs = append([]string(nil), rec.PhotoURLs...)
		page.Items[i] = rec
	}
	page.ResolveIdentities(s.imageBase)
	return page, nil
}

func (s *Source) wait(ctx context.Context) error {
	d := s.minLatency
	if spread := s.maxLatency - s.minLatency; spread > 0 {
		d += rand.N(spread)
	}
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
