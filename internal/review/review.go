package review

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// MaxPhotos is the number of photo identities a review row can show.
const MaxPhotos = 5

var (
	ErrSourceUnavailable = errors.New("review source unavailable")
	ErrDecode            = errors.New("decode review payload")
)

// Record is a single decoded review as delivered by the backend.
type Record struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Rating    int      `json:"rating"`
	Text      string   `json:"text"`
	Created   string   `json:"created"`
	AvatarURL string   `json:"avatar_url,omitempty"`
	PhotoURLs []string `json:"photo_urls,omitempty"`
}

// Page is one slice of the review list plus the total number of reviews
// the backend knows about.
type Page struct {
	Items []Record `json:"items"`
	Count int      `json:"count"`
}

func (r Record) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
}

// Photos returns at most MaxPhotos non-empty photo identities in payload order.
func (r Record) Photos() []string {
	out := make([]string, 0, min(len(r.PhotoURLs), MaxPhotos))
	for _, p := range r.PhotoURLs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
		if len(out) == MaxPhotos {
			break
		}
	}
	return out
}

func ClampRating(rating int) int {
	if rating < 1 {
		return 1
	}
	if rating > 5 {
		return 5
	}
	return rating
}

// DecodePage parses a page payload. Any syntax or shape problem is reported
// as ErrDecode.
func DecodePage(data []byte) (Page, error) {
	var page Page
	if err := json.Unmarshal(data, &page); err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if page.Count < 0 {
		return Page{}, fmt.Errorf("%w: negative count %d", ErrDecode, page.Count)
	}
	if page.Count < len(page.Items) {
		page.Count = len(page.Items)
	}
	return page, nil
}

// ResolveIdentities rewrites relative avatar and photo identities against
// base so every image identity is an absolute URL.
func (p *Page) ResolveIdentities(base *url.URL) {
	if base == nil {
		return
	}
	for i := range p.Items {
		p.Items[i].AvatarURL = resolve(base, p.Items[i].AvatarURL)
		for j := range p.Items[i].PhotoURLs {
			p.Items[i].PhotoURLs[j] = resolve(base, p.Items[i].PhotoURLs[j])
		}
	}
}

func resolve(base *url.URL, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if ref.IsAbs() {
		return raw
	}
	return base.ResolveReference(ref).String()
}
