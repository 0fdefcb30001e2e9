// Package dedupe tracks record identities so each record is ingested once.
package dedupe

import "sync"

// Tracker records seen ids per namespace, typically a collection name.
type Tracker interface {
	// SeenAndRecord reports whether id was already seen in namespace and
	// records it if not. Empty ids are never considered duplicates.
	SeenAndRecord(namespace, id string) bool
	// Size returns the number of recorded ids across namespaces.
	Size() int
	// Reset forgets every id.
	Reset()
}

type tracker struct {
	mu   sync.Mutex
	seen map[string]map[string]struct{}
	size int
	hint int
}

// New creates a tracker.
func New(opts ...Option) Tracker {
	t := &tracker{seen: make(map[string]map[string]struct{})}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *tracker) SeenAndRecord(namespace, id string) bool {
	if id == "" {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	ns, ok := t.seen[namespace]
	if !ok {
		ns = make(map[string]struct{}, t.hint)
		t.seen[namespace] = ns
	}
	if _, dup := ns[id]; dup {
		return true
	}
	ns[id] = struct{}{}
	t.size++
	return false
}

func (t *tracker) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.size
}

func (t *tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seen = make(map[string]map[string]struct{})
	t.size = 0
}
