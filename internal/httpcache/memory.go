package httpcache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps entries in process memory. Used when no cache file is configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (*Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	return &e, true, nil
}

func (m *MemoryStore) Put(_ context.Context, e *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.Key] = *e
	return nil
}

func (m *MemoryStore) Purge(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, e := range m.entries {
		if e.StoredAt.Before(cutoff) {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) Stats(_ context.Context) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var st Stats
	for _, e := range m.entries {
		st.Entries++
		st.Bytes += int64(len(e.Response))
		if st.Oldest.IsZero() || e.StoredAt.Before(st.Oldest) {
			st.Oldest = e.StoredAt
		}
		if e.StoredAt.After(st.Newest) {
			st.Newest = e.StoredAt
		}
	}
	return st, nil
}

func (m *MemoryStore) Close() error { return nil }
