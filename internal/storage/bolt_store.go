package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samvad-hq/items-fetcher/pkg/items"
	bolt "go.etcd.io/bbolt"
)

const (
	snapshotBucket   = "snapshots"
	expiryValueBytes = 8
)

// boltStore implements a Store backed by BoltDB. Values are an 8 byte
// big-endian expiry followed by the JSON encoded snapshot.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	snapshotTTL     time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(snapshotBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		snapshotTTL:     opts.SnapshotTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage directory: %w", err)
		}
	}
	return nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// SaveSnapshot stores c as the latest snapshot for endpoint.
func (b *boltStore) SaveSnapshot(endpoint string, c items.Collection) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	payload, err := json.Marshal(Snapshot{Endpoint: endpoint, Items: c, SavedAt: now.UTC()})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	value := make([]byte, expiryValueBytes, expiryValueBytes+len(payload))
	binary.BigEndian.PutUint64(value, uint64(now.Add(b.snapshotTTL).Unix()))
	value = append(value, payload...)

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(snapshotBucket))
		if bucket == nil {
			return fmt.Errorf("snapshot bucket missing")
		}
		return bucket.Put([]byte(endpoint), value)
	})
}

// LoadSnapshot returns the snapshot for endpoint unless it is missing or expired.
// Expired entries are removed.
func (b *boltStore) LoadSnapshot(endpoint string) (Snapshot, bool, error) {
	if b == nil || b.db == nil {
		return Snapshot{}, false, nil
	}

	var (
		snap  Snapshot
		found bool
	)
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(snapshotBucket))
		if bucket == nil {
			return fmt.Errorf("snapshot bucket missing")
		}

		key := []byte(endpoint)
		value := bucket.Get(key)
		if value == nil {
			return nil
		}

		expiry, ok := decodeExpiry(value)
		if !ok || !expiry.After(b.now()) {
			return bucket.Delete(key)
		}
		if err := json.Unmarshal(value[expiryValueBytes:], &snap); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		found = true
		return nil
	})
	if err != nil {
		return Snapshot{}, false, err
	}
	return snap, found, nil
}

// maybeCleanupExpired removes expired snapshots on a fixed cadence.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(snapshotBucket))
		if bucket == nil {
			return fmt.Errorf("snapshot bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			expiry, ok := decodeExpiry(v)
			if !ok || !expiry.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

// decodeExpiry decodes the expiry prefix of a stored value.
func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) < expiryValueBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryValueBytes]))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
