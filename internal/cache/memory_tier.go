package cache

import "sync"

// MemoryTier is an in-memory Tier, used in tests and as a last-resort tier
// when no disk-backed tier can be constructed.
type MemoryTier struct {
	name    string
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryTier creates an empty MemoryTier with the given name.
func NewMemoryTier(name string) *MemoryTier {
	return &MemoryTier{
		name:    name,
		entries: make(map[string][]byte),
	}
}

func (t *MemoryTier) Name() string { return t.name }

func (t *MemoryTier) Get(key string) ([]byte, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	value, ok := t.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (t *MemoryTier) Set(key string, value []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	t.entries[key] = stored
	return nil
}

func (t *MemoryTier) Remove(key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.entries, key)
	return nil
}
