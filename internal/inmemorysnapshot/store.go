package inmemorysnapshot

import (
	"context"
	"slices"
	"sync"

	"github.com/specialistvlad/tickgraph/internal/snapshotstore"
)

// Store is an in-memory implementation of snapshotstore.Store.
type Store struct {
	snaps sync.Map // Key: snapshot key, Value: *snapshotstore.Snapshot
}

// New creates a new, empty in-memory snapshot store.
func New() *Store {
	return &Store{}
}

// Save stores a copy of snap.
func (s *Store) Save(_ context.Context, key string, snap *snapshotstore.Snapshot) error {
	s.snaps.Store(key, clone(snap))
	return nil
}

// Load returns a copy of the snapshot under key.
func (s *Store) Load(_ context.Context, key string) (*snapshotstore.Snapshot, error) {
	v, ok := s.snaps.Load(key)
	if !ok {
		return nil, snapshotstore.ErrNotFound
	}
	return clone(v.(*snapshotstore.Snapshot)), nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.snaps.Delete(key)
	return nil
}

func (s *Store) Keys(context.Context) ([]string, error) {
	var keys []string
	s.snaps.Range(func(k, _ any) bool {
		keys = append(keys, k.(string))
		return true
	})
	slices.Sort(keys)
	return keys, nil
}

func (s *Store) Close() error { return nil }

func clone(snap *snapshotstore.Snapshot) *snapshotstore.Snapshot {
	out := *snap
	out.Entries = slices.Clone(snap.Entries)
	return &out
}
