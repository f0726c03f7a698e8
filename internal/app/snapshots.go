package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/tickgraph/internal/badgersnapshot"
	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/ctxlog"
	"github.com/specialistvlad/tickgraph/internal/filesnapshot"
	"github.com/specialistvlad/tickgraph/internal/inmemorysnapshot"
	"github.com/specialistvlad/tickgraph/internal/redissnapshot"
	"github.com/specialistvlad/tickgraph/internal/snapshotstore"
	"github.com/specialistvlad/tickgraph/internal/sqlitesnapshot"
)

// openSnapshots opens the configured backend. A nil store disables
// snapshots.
func openSnapshots(ctx context.Context, cfg *Config, logger *slog.Logger) (snapshotstore.Store, error) {
	var (
		store snapshotstore.Store
		err   error
	)
	switch cfg.SnapshotBackend {
	case "", "none":
		return nil, nil
	case "memory":
		store = inmemorysnapshot.New()
	case "file":
		store, err = filesnapshot.Open(cfg.SnapshotDSN)
	case "sqlite":
		store, err = sqlitesnapshot.Open(ctx, cfg.SnapshotDSN)
	case "redis":
		store, err = redissnapshot.Open(ctx, redissnapshot.Options{URL: cfg.SnapshotDSN})
	case "badger":
		bcfg := badgersnapshot.Config{Path: cfg.SnapshotDSN, Logger: logger}
		if cfg.SnapshotDSN == ":memory:" {
			bcfg = badgersnapshot.Config{InMemory: true, Logger: logger}
		}
		store, err = badgersnapshot.Open(bcfg)
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.SnapshotBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s snapshots: %w", cfg.SnapshotBackend, err)
	}
	logger.Debug("Snapshot store opened.", "backend", cfg.SnapshotBackend)
	return store, nil
}

// restore loads the snapshot under key into bb. A missing snapshot is not an
// error.
func (a *App) restore(ctx context.Context, key string, bb *blackboard.Blackboard) error {
	if a.snapshots == nil {
		return nil
	}
	snap, err := a.snapshots.Load(ctx, key)
	if errors.Is(err, snapshotstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := snap.Restore(bb); err != nil {
		return fmt.Errorf("restoring %q: %w", key, err)
	}
	ctxlog.FromContext(ctx).Debug("Blackboard restored.", "key", key, "variables", len(snap.Entries))
	return nil
}

func (a *App) save(ctx context.Context, key string, bb *blackboard.Blackboard) error {
	if a.snapshots == nil {
		return nil
	}
	snap, err := snapshotstore.Take(bb)
	if err != nil {
		return err
	}
	if err := a.snapshots.Save(ctx, key, snap); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Blackboard saved.", "key", key, "digest", snap.Digest)
	return nil
}

// Snapshots returns the snapshot store, nil when disabled.
func (a *App) Snapshots() snapshotstore.Store {
	return a.snapshots
}
