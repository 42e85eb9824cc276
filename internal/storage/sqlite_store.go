package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/items-fetcher/pkg/items"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS snapshots (
	endpoint   TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	saved_at   INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
)`

// sqliteStore implements a Store backed by SQLite.
type sqliteStore struct {
	db          *sql.DB
	snapshotTTL time.Duration
	now         func() time.Time
}

func openSQLite(path string, opts Options) (Store, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(500)", path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}

	return &sqliteStore{db: db, snapshotTTL: opts.SnapshotTTL, now: time.Now}, nil
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) SaveSnapshot(endpoint string, c items.Collection) error {
	now := s.now()
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO snapshots (endpoint, payload, saved_at, expires_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(endpoint) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at, expires_at = excluded.expires_at`,
		endpoint, payload, now.UnixNano(), now.Add(s.snapshotTTL).Unix(),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	if _, err := s.db.Exec(`DELETE FROM snapshots WHERE expires_at <= ?`, now.Unix()); err != nil {
		return fmt.Errorf("cleanup snapshots: %w", err)
	}
	return nil
}

func (s *sqliteStore) LoadSnapshot(endpoint string) (Snapshot, bool, error) {
	var (
		payload   []byte
		savedAt   int64
		expiresAt int64
	)
	err := s.db.QueryRow(
		`SELECT payload, saved_at, expires_at FROM snapshots WHERE endpoint = ?`, endpoint,
	).Scan(&payload, &savedAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("load snapshot: %w", err)
	}

	if !time.Unix(expiresAt, 0).After(s.now()) {
		if _, err := s.db.Exec(`DELETE FROM snapshots WHERE endpoint = ?`, endpoint); err != nil {
			return Snapshot{}, false, fmt.Errorf("delete expired snapshot: %w", err)
		}
		return Snapshot{}, false, nil
	}

	var c items.Collection
	if err := json.Unmarshal(payload, &c); err != nil {
		return Snapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return Snapshot{Endpoint: endpoint, Items: c, SavedAt: time.Unix(0, savedAt).UTC()}, true, nil
}
