// Package reviews holds the paginated review list: the state machine that
// requests and merges pages, the rows it exposes, and their layouts.
package reviews

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glabrego/reviews-cli/internal/dispatch"
	"github.com/glabrego/reviews-cli/internal/layout"
	"github.com/glabrego/reviews-cli/internal/metrics"
	"github.com/glabrego/reviews-cli/internal/review"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrLoadFailed is reported to failure observers for every failed page
// request. The request can be retried.
var ErrLoadFailed = errors.New("load reviews failed")

// DataSource supplies one page of review records.
type DataSource interface {
	GetPage(ctx context.Context, offset, limit int) (review.Page, error)
}

type Phase int

const (
	Idle Phase = iota
	Loading
	Exhausted
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

type Options struct {
	PageSize        int
	LookAhead       float64
	DefaultMaxLines int
	RequestTimeout  time.Duration
	Styles          Styles
	Logger          zerolog.Logger
}

// Controller owns the row list. Every method must be called from the main
// context, the same one its Dispatcher runs functions on; page requests run
// on their own goroutines and post results back through the Dispatcher.
type Controller struct {
	source     DataSource
	dispatcher dispatch.Dispatcher
	engine     *layout.Engine
	opts       Options
	logger     zerolog.Logger

	rows       []Row
	offset     int
	total      int
	phase      Phase
	generation uint64
	lastErr    error

	memo    *layout.Memo
	ratings ratingSizes

	onChanged []func()
	onFailed  []func(error)
}

func New(source DataSource, dispatcher dispatch.Dispatcher, engine *layout.Engine, measurer layout.Measurer, opts Options) *Controller {
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	if opts.LookAhead <= 0 {
		opts.LookAhead = DefaultLookAhead
	}
	if opts.DefaultMaxLines < 0 {
		opts.DefaultMaxLines = 0
	} else if opts.DefaultMaxLines == 0 {
		opts.DefaultMaxLines = DefaultMaxLines
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	return &Controller{
		source:     source,
		dispatcher: dispatcher,
		engine:     engine,
		opts:       opts,
		logger:     opts.Logger,
		memo:       layout.NewMemo(),
		ratings:    ratingSizes{measurer: measurer},
	}
}

// OnListChanged registers fn to run once per committed mutation: a page
// merge, a reset or a row expansion.
func (c *Controller) OnListChanged(fn func()) {
	c.onChanged = append(c.onChanged, fn)
}

// OnLoadFailed registers fn to run with ErrLoadFailed whenever a page
// request fails. Failures never commit rows.
func (c *Controller) OnLoadFailed(fn func(error)) {
	c.onFailed = append(c.onFailed, fn)
}

// RequestNextPage issues one page request when the controller is Idle and
// reports whether it did.
func (c *Controller) RequestNextPage() bool {
	if c.phase != Idle {
		return false
	}
	if c.source == nil {
		c.fail(c.generation, fmt.Errorf("%w: no data source configured", review.ErrSourceUnavailable), 0)
		return false
	}
	c.phase = Loading

	gen, offset, limit := c.generation, c.offset, c.opts.PageSize
	c.logger.Debug().Int("offset", offset).Int("limit", limit).Uint64("generation", gen).Msg("requesting review page")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.opts.RequestTimeout)
		defer cancel()
		start := time.Now()
		page, err := c.source.GetPage(ctx, offset, limit)
		elapsed := time.Since(start)
		c.dispatcher.Dispatch(func() {
			if err != nil {
				c.fail(gen, err, elapsed)
				return
			}
			c.merge(gen, offset, page, elapsed)
		})
	}()
	return true
}

// Reset drops every row, rewinds to offset 0 and requests the first page.
// Results of requests issued before the reset are discarded on arrival.
func (c *Controller) Reset() {
	c.generation++
	c.rows = nil
	c.offset = 0
	c.total = 0
	c.phase = Idle
	c.lastErr = nil
	c.memo.Reset()
	c.logger.Info().Uint64("generation", c.generation).Msg("review list reset")
	c.notifyChanged()
	c.RequestNextPage()
}

func (c *Controller) TriggerRefresh() {
	c.Reset()
}

// Expand removes the truncation limit of the review row with id. Expansion
// is one-way; expanding an expanded or unknown row does nothing.
func (c *Controller) Expand(id uuid.UUID) bool {
	i := c.IndexOf(id)
	if i < 0 {
		return false
	}
	row := &c.rows[i]
	if row.Review.MaxLines == 0 {
		return false
	}
	row.Review.MaxLines = 0
	c.notifyChanged()
	return true
}

// NotifyScrollPosition re-evaluates the look-ahead policy for the given
// scroll geometry and requests the next page when it fires.
func (c *Controller) NotifyScrollPosition(viewport, content, offset int) bool {
	if c.phase != Idle {
		return false
	}
	if !ShouldLoadMore(viewport, content, offset, c.opts.LookAhead) {
		return false
	}
	return c.RequestNextPage()
}

func (c *Controller) RowCount() int {
	return len(c.rows)
}

// Row returns a copy of the row at i.
func (c *Controller) Row(i int) (Row, bool) {
	if i < 0 || i >= len(c.rows) {
		return Row{}, false
	}
	return c.rows[i], true
}

func (c *Controller) IndexOf(id uuid.UUID) int {
	for i := range c.rows {
		if c.rows[i].Kind == RowReview && c.rows[i].Review.ID == id {
			return i
		}
	}
	return -1
}

// Height is the layout height of row i at width, or 0 when i is out of range.
func (c *Controller) Height(i, width int) int {
	row, ok := c.Row(i)
	if !ok {
		return 0
	}
	switch row.Kind {
	case RowCount:
		return c.engine.Count(row.Count.Label, width).Height
	default:
		return c.reviewLayout(row.Review, width).Height
	}
}

// ReviewLayout returns the frames of review row i at width.
func (c *Controller) ReviewLayout(i, width int) (layout.ReviewLayout, bool) {
	row, ok := c.Row(i)
	if !ok || row.Kind != RowReview {
		return layout.ReviewLayout{}, false
	}
	return c.reviewLayout(row.Review, width), true
}

// CountLayout returns the frames of the count row at i.
func (c *Controller) CountLayout(i, width int) (layout.CountLayout, bool) {
	row, ok := c.Row(i)
	if !ok || row.Kind != RowCount {
		return layout.CountLayout{}, false
	}
	return c.engine.Count(row.Count.Label, width), true
}

func (c *Controller) Phase() Phase       { return c.phase }
func (c *Controller) Offset() int        { return c.offset }
func (c *Controller) Total() int         { return c.total }
func (c *Controller) Generation() uint64 { return c.generation }
func (c *Controller) PageSize() int      { return c.opts.PageSize }

// LastError is the cause of the most recent failed request, kept for
// diagnostics. It is cleared by a successful merge or a reset.
func (c *Controller) LastError() error { return c.lastErr }

func (c *Controller) reviewLayout(content RowContent, width int) layout.ReviewLayout {
	key := layout.MemoKey{RowID: content.ID.String(), Width: width, MaxLines: content.MaxLines}
	if l, ok := c.memo.Get(key); ok {
		return l
	}
	l := c.engine.Review(layout.ReviewInput{
		Username:   content.Username,
		RatingSize: c.ratings.size(content.Rating, content.RatingOf),
		Body:       content.Body,
		MaxLines:   content.MaxLines,
		Created:    content.Created,
		PhotoCount: len(content.PhotoURLs),
	}, width)
	c.memo.Put(key, l)
	return l
}

func (c *Controller) merge(gen uint64, offset int, page review.Page, elapsed time.Duration) {
	if gen != c.generation {
		metrics.ObservePage("stale", elapsed)
		c.logger.Debug().Uint64("generation", gen).Uint64("current", c.generation).Msg("dropping stale review page")
		return
	}

	items := page.Items
	total := max(page.Count, offset)
	if offset+len(items) > total {
		items = items[:total-offset]
	}

	if n := len(c.rows); n > 0 && c.rows[n-1].Kind == RowCount {
		c.rows = c.rows[:n-1]
	}
	for _, rec := range items {
		c.rows = append(c.rows, Row{Kind: RowReview, Review: newRowContent(rec, c.opts.Styles, c.opts.DefaultMaxLines)})
	}
	c.offset = offset + len(items)
	c.total = total
	c.lastErr = nil

	outcome := "merged"
	if len(items) == 0 || c.offset >= total {
		c.phase = Exhausted
		c.rows = append(c.rows, Row{Kind: RowCount, Count: newCountRow(total, c.opts.Styles)})
		outcome = "exhausted"
	} else {
		c.phase = Idle
	}
	metrics.ObservePage(outcome, elapsed)
	c.logger.Info().
		Int("merged", len(items)).
		Int("offset", c.offset).
		Int("total", total).
		Stringer("phase", c.phase).
		Msg("review page merged")
	c.notifyChanged()
}

func (c *Controller) fail(gen uint64, err error, elapsed time.Duration) {
	if gen != c.generation {
		metrics.ObservePage("stale", elapsed)
		return
	}
	c.phase = Idle
	c.lastErr = err
	metrics.ObservePage("failed", elapsed)
	c.logger.Warn().Err(err).Int("offset", c.offset).Msg("review page request failed")
	for _, fn := range c.onFailed {
		fn(ErrLoadFailed)
	}
}

func (c *Controller) notifyChanged() {
	for _, fn := range c.onChanged {
		fn()
	}
}
