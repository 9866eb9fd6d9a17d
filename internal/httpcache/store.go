package httpcache

import (
	"context"
	"time"
)

// Entry is one cached response, serialized in HTTP/1.1 wire form.
type Entry struct {
	Key      string
	Response []byte
	StoredAt time.Time
}

// Stats summarizes the contents of a store.
type Stats struct {
	Entries int64
	Bytes   int64
	Oldest  time.Time
	Newest  time.Time
}

// Store persists cached responses keyed by request.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, bool, error)
	Put(ctx context.Context, e *Entry) error
	// Purge deletes entries stored before cutoff and returns how many were removed.
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
	Stats(ctx context.Context) (Stats, error)
	Close() error
}
