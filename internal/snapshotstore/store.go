// Package snapshotstore defines the interface for persisting blackboard
// contents between runs.
//
// # Why Snapshot Store Exists
//
// Graph structure is rebuilt from definition files on every start, but the
// values agents accumulate on their blackboards are not. A snapshot captures
// those values so that a later session can pick up where the previous one
// stopped.
//
// # Lifecycle and Usage
//
// A snapshot is:
//  1. **Taken** from a blackboard with Take, which exports every slot and
//     seals the entries with a digest.
//  2. **Saved** under a key, usually the graph instance or shared store name.
//  3. **Loaded** by a later session and applied with Restore, which refuses
//     entries whose digest no longer matches.
//
// # Backends
//
// See internal/inmemorysnapshot, internal/filesnapshot,
// internal/sqlitesnapshot, internal/redissnapshot and
// internal/badgersnapshot. internal/app picks one from its configuration.
package snapshotstore

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Load for a key that was never saved.
	ErrNotFound = errors.New("snapshot not found")
	// ErrDigestMismatch is returned when a snapshot's entries do not match
	// its recorded digest.
	ErrDigestMismatch = errors.New("snapshot digest mismatch")
)

// Store is the interface for saving and loading snapshots by key.
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent use, as every session runs on
// its own goroutine and may save at the same time.
type Store interface {
	// Save stores snap under key, replacing any previous snapshot.
	Save(ctx context.Context, key string, snap *Snapshot) error

	// Load returns the snapshot stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) (*Snapshot, error)

	// Delete removes the snapshot under key. Deleting a missing key is not
	// an error.
	Delete(ctx context.Context, key string) error

	// Keys lists the stored keys in ascending order.
	Keys(ctx context.Context) ([]string, error)

	// Close releases the backend's resources.
	Close() error
}
