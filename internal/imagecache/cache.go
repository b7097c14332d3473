// Package imagecache resolves image identities through a memory tier, a
// disk tier and the network, in that order.
package imagecache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/glabrego/reviews-cli/internal/dispatch"
	"github.com/glabrego/reviews-cli/internal/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// ErrImageUnavailable marks an identity no tier could resolve. It only
// reaches logs; callers see a Result with a nil Image.
var ErrImageUnavailable = errors.New("image unavailable")

type Tier string

const (
	TierMemory  Tier = "memory"
	TierDisk    Tier = "disk"
	TierNetwork Tier = "network"
	TierMiss    Tier = "miss"
)

// Result is the outcome of a lookup. A nil Image means no image is
// available and callers should keep their placeholder.
type Result struct {
	Identity string
	Image    image.Image
	Tier     Tier
}

func (r Result) OK() bool { return r.Image != nil }

type Options struct {
	Dir           string
	MemoryEntries int
	Fetcher       Fetcher
	// Dispatcher receives Fetch completions. Required for Fetch.
	Dispatcher dispatch.Dispatcher
	// Coalesce shares one network request among concurrent lookups of the
	// same identity.
	Coalesce     bool
	FetchTimeout time.Duration
	Logger       zerolog.Logger
}

type Cache struct {
	memory     *memoryTier
	disk       *diskTier
	fetcher    Fetcher
	dispatcher dispatch.Dispatcher
	coalesce   bool
	timeout    time.Duration
	group      singleflight.Group
	logger     zerolog.Logger
}

func New(opts Options) (*Cache, error) {
	if opts.Dir == "" {
		return nil, errors.New("image cache dir is required")
	}
	if opts.Fetcher == nil {
		return nil, errors.New("image fetcher is required")
	}
	disk, err := newDiskTier(opts.Dir)
	if err != nil {
		return nil, err
	}
	entries := opts.MemoryEntries
	if entries <= 0 {
		entries = 128
	}
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Cache{
		memory:     newMemoryTier(entries, func(string) { metrics.ObserveEviction() }),
		disk:       disk,
		fetcher:    opts.Fetcher,
		dispatcher: opts.Dispatcher,
		coalesce:   opts.Coalesce,
		timeout:    timeout,
		logger:     opts.Logger,
	}, nil
}

// Get blocks until identity is resolved by some tier or all tiers fail.
// Disk hits are promoted to memory; network hits populate both tiers.
func (c *Cache) Get(ctx context.Context, identity string) Result {
	if img, ok := c.memory.get(identity); ok {
		return c.resolved(identity, img, TierMemory)
	}

	if data, ok := c.disk.read(identity); ok {
		img, err := decode(data)
		if err == nil {
			c.memory.add(identity, img)
			return c.resolved(identity, img, TierDisk)
		}
		c.logger.Warn().Err(err).Str("identity", identity).Msg("discarding undecodable cached image")
		c.disk.remove(identity)
	}

	if ctx.Err() != nil {
		return c.resolved(identity, nil, TierMiss)
	}

	var img image.Image
	var err error
	if c.coalesce {
		img, err = c.sharedFromNetwork(ctx, identity)
	} else {
		img, err = c.fromNetwork(ctx, identity)
	}
	if err != nil {
		c.logger.Debug().Err(err).Str("identity", identity).Msg("image unavailable")
		return c.resolved(identity, nil, TierMiss)
	}
	return c.resolved(identity, img, TierNetwork)
}

// Fetch resolves identity off the calling goroutine and delivers the result
// to onReady through the configured Dispatcher. onReady runs exactly once.
func (c *Cache) Fetch(identity string, onReady func(Result)) {
	if onReady == nil {
		return
	}
	if c.dispatcher == nil {
		panic("imagecache: Fetch requires a Dispatcher")
	}
	if img, ok := c.memory.get(identity); ok {
		res := c.resolved(identity, img, TierMemory)
		c.dispatcher.Dispatch(func() { onReady(res) })
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		res := c.Get(ctx, identity)
		c.dispatcher.Dispatch(func() { onReady(res) })
	}()
}

// Cached reports whether identity is in the memory tier.
func (c *Cache) Cached(identity string) bool {
	return c.memory.contains(identity)
}

func (c *Cache) MemoryLen() int {
	return c.memory.len()
}

func (c *Cache) Dir() string {
	return c.disk.dir
}

// sharedFromNetwork joins the in-flight request for identity, if any. The
// request runs detached from every caller under the cache timeout; a caller
// only stops waiting when its own ctx ends.
func (c *Cache) sharedFromNetwork(ctx context.Context, identity string) (image.Image, error) {
	ch := c.group.DoChan(identity, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.fromNetwork(shared, identity)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(image.Image), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrImageUnavailable, ctx.Err())
	}
}

func (c *Cache) fromNetwork(ctx context.Context, identity string) (image.Image, error) {
	data, err := c.fetcher.FetchImage(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageUnavailable, err)
	}
	img, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageUnavailable, err)
	}
	// Memory entries must also exist on disk, so a failed write skips the
	// memory insert and the image is served once.
	if err := c.disk.write(identity, data); err != nil {
		c.logger.Warn().Err(err).Str("identity", identity).Msg("image disk write failed")
		return img, nil
	}
	c.memory.add(identity, img)
	return img, nil
}

func (c *Cache) resolved(identity string, img image.Image, tier Tier) Result {
	metrics.ObserveImage(string(tier))
	return Result{Identity: identity, Image: img, Tier: tier}
}

func decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
