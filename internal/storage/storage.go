// Package storage keeps the last successful items collection per endpoint.
package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/items-fetcher/pkg/items"
)

// Snapshot is a stored collection.
type Snapshot struct {
	Endpoint string           `json:"endpoint"`
	Items    items.Collection `json:"items"`
	SavedAt  time.Time        `json:"saved_at"`
}

// Store persists snapshots keyed by endpoint URL.
type Store interface {
	Close() error
	SaveSnapshot(endpoint string, c items.Collection) error
	// LoadSnapshot returns false when no unexpired snapshot exists.
	LoadSnapshot(endpoint string) (Snapshot, bool, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	SnapshotTTL     time.Duration
	CleanupInterval time.Duration
}

const (
	TypeNone   = "none"
	TypeBBolt  = "bbolt"
	TypeSQLite = "sqlite"

	defaultSnapshotTTL     = 24 * time.Hour
	defaultCleanupInterval = 6 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", TypeNone, "disabled":
		return noopStore{}, nil
	case TypeBBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	case TypeSQLite:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("sqlite storage requires a path")
		}
		return openSQLite(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.SnapshotTTL <= 0 {
		opts.SnapshotTTL = defaultSnapshotTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                               { return nil }
func (noopStore) SaveSnapshot(string, items.Collection) error { return nil }
func (noopStore) LoadSnapshot(string) (Snapshot, bool, error) { return Snapshot{}, false, nil }
