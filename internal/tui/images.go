package tui

import (
	"image"

	"github.com/google/uuid"

	"github.com/glabrego/reviews-cli/internal/imagecache"
	"github.com/glabrego/reviews-cli/internal/layout"
	"github.com/glabrego/reviews-cli/internal/tui/view"
)

// ImageSource resolves image identities off the main context and calls
// onReady back on it. *imagecache.Cache satisfies it.
type ImageSource interface {
	Fetch(identity string, onReady func(imagecache.Result))
}

var _ ImageSource = (*imagecache.Cache)(nil)

// maxStoredImages bounds the decoded images the list keeps for drawing.
// Evicted images are fetched again, usually from the cache's memory tier.
const maxStoredImages = 256

type thumbKey struct {
	identity string
	size     layout.Size
}

// imageStore holds what the list has received from its ImageSource. It is
// only touched on the main context.
type imageStore struct {
	images  map[string]image.Image
	order   []string
	thumbs  map[thumbKey][][]string
	pending map[string]bool
	failed  map[string]bool
}

func newImageStore() *imageStore {
	return &imageStore{
		images:  make(map[string]image.Image),
		thumbs:  make(map[thumbKey][][]string),
		pending: make(map[string]bool),
		failed:  make(map[string]bool),
	}
}

// wants reports whether identity still needs a request.
func (s *imageStore) wants(identity string) bool {
	if identity == "" || s.pending[identity] || s.failed[identity] {
		return false
	}
	_, ok := s.images[identity]
	return !ok
}

func (s *imageStore) put(identity string, img image.Image) {
	if _, ok := s.images[identity]; !ok {
		s.order = append(s.order, identity)
	}
	s.images[identity] = img
	for len(s.order) > maxStoredImages {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.images, oldest)
		for k := range s.thumbs {
			if k.identity == oldest {
				delete(s.thumbs, k)
			}
		}
	}
}

func (s *imageStore) thumbnail(identity string, size layout.Size) ([][]string, bool) {
	key := thumbKey{identity: identity, size: size}
	if cells, ok := s.thumbs[key]; ok {
		return cells, true
	}
	img, ok := s.images[identity]
	if !ok {
		return nil, false
	}
	cells := view.Thumbnail(img, size.W, size.H)
	s.thumbs[key] = cells
	return cells, true
}

// forgetFailures lets failed identities be requested again.
func (s *imageStore) forgetFailures() {
	clear(s.failed)
}

// imageOwner ties an identity to the review row that displays it.
type imageOwner struct {
	identity string
	row      uuid.UUID
}

// requestImages asks src for every identity of the given rows that is not
// stored, pending or failed. Deliveries for rows that have since left the
// list are dropped.
func requestImages(src ImageSource, store *imageStore, owners []imageOwner, isLive func(uuid.UUID) bool) int {
	if src == nil {
		return 0
	}
	n := 0
	for _, o := range owners {
		identity, rowID := o.identity, o.row
		if !store.wants(identity) {
			continue
		}
		store.pending[identity] = true
		n++
		src.Fetch(identity, func(res imagecache.Result) {
			delete(store.pending, identity)
			if !res.OK() {
				store.failed[identity] = true
				return
			}
			if !isLive(rowID) {
				return
			}
			store.put(identity, res.Image)
		})
	}
	return n
}
