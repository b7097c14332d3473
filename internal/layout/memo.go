package layout

// MemoKey identifies a computed review layout. MaxLines is part of the key
// so expanding a row never serves a stale truncated layout.
type MemoKey struct {
	RowID    string
	Width    int
	MaxLines int
}

// Memo caches review layouts for a single width: storing a layout for a new
// width drops every entry of the previous one. It is not safe for concurrent
// use; the owner of the row list is expected to be its only caller.
type Memo struct {
	entries map[MemoKey]ReviewLayout
	width   int
}

func NewMemo() *Memo {
	return &Memo{entries: make(map[MemoKey]ReviewLayout)}
}

func (m *Memo) Get(key MemoKey) (ReviewLayout, bool) {
	l, ok := m.entries[key]
	return l, ok
}

func (m *Memo) Put(key MemoKey, l ReviewLayout) {
	if key.Width != m.width {
		clear(m.entries)
		m.width = key.Width
	}
	m.entries[key] = l
}

func (m *Memo) Len() int {
	return len(m.entries)
}

func (m *Memo) Reset() {
	clear(m.entries)
}
