package imagecache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const maxImageBytes = 5 * 1024 * 1024

var ErrUnsupportedIdentity = errors.New("unsupported image identity")

// Fetcher is the network tier: it resolves an identity to raw bytes.
type Fetcher interface {
	FetchImage(ctx context.Context, identity string) ([]byte, error)
}

// HTTPFetcher downloads images over HTTP, throttled by a token bucket so a
// fast scroll cannot fan out unbounded requests.
type HTTPFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPFetcher builds a fetcher allowing rps requests per second. A zero
// or negative rps disables throttling.
func NewHTTPFetcher(client *http.Client, rps float64) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	limit := rate.Inf
	burst := 1
	if rps > 0 {
		limit = rate.Limit(rps)
		burst = max(1, int(rps))
	}
	return &HTTPFetcher{client: client, limiter: rate.NewLimiter(limit, burst)}
}

func (f *HTTPFetcher) FetchImage(ctx context.Context, identity string) ([]byte, error) {
	u, err := url.Parse(identity)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedIdentity, identity)
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for image rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	req.Header.Set("User-Agent", "reviews-cli/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch image failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}
	return data, nil
}
