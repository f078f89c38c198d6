// Package cache holds successful GET responses for the transport's cache hint.
package cache

import (
	"fmt"
	"strings"
	"time"
)

// Entry is a cached response body and the status it arrived with.
type Entry struct {
	Body       []byte
	StatusCode int
}

// Store keeps cached responses keyed by request URL.
type Store interface {
	Close() error
	Get(key string) (Entry, bool)
	Put(key string, entry Entry)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

const (
	defaultTTL             = 5 * time.Minute
	defaultCleanupInterval = time.Minute
)

const (
	TypeMemory = "memory"
	TypeNone   = "none"
)

// NewStore creates the configured cache backend.
func NewStore(typ string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", TypeNone, "disabled":
		return noopStore{}, nil
	case TypeMemory:
		return newMemory(opts), nil
	default:
		return nil, fmt.Errorf("unsupported cache type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error             { return nil }
func (noopStore) Get(string) (Entry, bool) { return Entry{}, false }
func (noopStore) Put(string, Entry)        {}
