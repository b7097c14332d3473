package imagecache

import (
	"container/list"
	"image"
	"sync"
)

type lruEntry struct {
	key   string
	value image.Image
}

// memoryTier is a bounded least-recently-used map. All mutations go through
// mu so concurrent inserts from in-flight fetches serialize their eviction
// decisions.
type memoryTier struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	items    map[string]*list.Element
	onEvict  func(key string)
}

func newMemoryTier(capacity int, onEvict func(string)) *memoryTier {
	if capacity < 1 {
		capacity = 1
	}
	return &memoryTier{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
		onEvict:  onEvict,
	}
}

func (m *memoryTier) get(key string) (image.Image, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	el, ok := m.items[key]
	if !ok {
		return nil, false
	}
	m.order.MoveToFront(el)
	return el.Value.(*lruEntry).value, true
}

func (m *memoryTier) add(key string, img image.Image) {
	var evicted []string

	m.mu.Lock()
	if el, ok := m.items[key]; ok {
		el.Value.(*lruEntry).value = img
		m.order.MoveToFront(el)
		m.mu.Unlock()
		return
	}
	m.items[key] = m.order.PushFront(&lruEntry{key: key, value: img})
	for m.order.Len() > m.capacity {
		oldest := m.order.Back()
		entry := m.order.Remove(oldest).(*lruEntry)
		delete(m.items, entry.key)
		evicted = append(evicted, entry.key)
	}
	m.mu.Unlock()

	if m.onEvict != nil {
		for _, key := range evicted {
			m.onEvict(key)
		}
	}
}

func (m *memoryTier) contains(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.items[key]
	return ok
}

func (m *memoryTier) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}
