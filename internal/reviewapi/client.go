// Package reviewapi is the HTTP data source for the review backend.
package reviewapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/glabrego/reviews-cli/internal/review"
)

const maxPageBytes = 4 << 20

type Client struct {
	baseURL string
	base    *url.URL
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	baseURL = strings.TrimRight(baseURL, "/")
	base, err := url.Parse(baseURL + "/")
	if err != nil {
		return nil, fmt.Errorf("parse review source url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("review source url must be http or https, got %q", baseURL)
	}
	return &Client{baseURL: baseURL, base: base, http: httpClient}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetPage fetches limit reviews starting at offset. Relative image
// identities in the payload are resolved against the base URL.
func (c *Client) GetPage(ctx context.Context, offset, limit int) (review.Page, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 20
	}

	q := make(url.Values)
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	req, err := c.newRequest(ctx, http.MethodGet, "/reviews?"+q.Encode())
	if err != nil {
		return review.Page{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return review.Page{}, fmt.Errorf("%w: list reviews request failed: %w", review.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return review.Page{}, fmt.Errorf("%w: list reviews failed with status %d: %s",
			review.ErrSourceUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return review.Page{}, fmt.Errorf("%w: read reviews response: %w", review.ErrSourceUnavailable, err)
	}
	page, err := review.DecodePage(data)
	if err != nil {
		return review.Page{}, fmt.Errorf("decode reviews response: %w", err)
	}
	page.ResolveIdentities(c.base)
	return page, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "reviews-cli/1.0")
	return req, nil
}
