// Package sqlitesnapshot stores snapshots in a SQLite database.
package sqlitesnapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/specialistvlad/tickgraph/internal/snapshotstore"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	key        TEXT PRIMARY KEY,
	blackboard TEXT NOT NULL,
	digest     TEXT NOT NULL,
	saved_at   TEXT NOT NULL,
	body       BLOB NOT NULL
)`

// Store wraps a SQLite connection.
type Store struct {
	conn *sql.DB
}

// Open opens or creates the database at dsn. ":memory:" gives a private
// in-memory database.
func Open(ctx context.Context, dsn string) (*Store, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serialises
	// writers.
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

func (s *Store) Save(ctx context.Context, key string, snap *snapshotstore.Snapshot) error {
	body, err := snapshotstore.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO snapshots (key, blackboard, digest, saved_at, body) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET blackboard = excluded.blackboard, digest = excluded.digest,
		 saved_at = excluded.saved_at, body = excluded.body`,
		key, snap.Blackboard, snap.Digest, snap.SavedAt.Format(time.RFC3339Nano), body,
	)
	if err != nil {
		return fmt.Errorf("saving %q: %w", key, err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, key string) (*snapshotstore.Snapshot, error) {
	var body []byte
	err := s.conn.QueryRowContext(ctx, `SELECT body FROM snapshots WHERE key = ?`, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, snapshotstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", key, err)
	}
	return snapshotstore.Unmarshal(body)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	return nil
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT key FROM snapshots ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}
