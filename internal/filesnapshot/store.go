// Package filesnapshot stores snapshots as YAML files, one per key, in a
// single directory.
package filesnapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/specialistvlad/tickgraph/internal/snapshotstore"
)

const ext = ".yaml"

// Store is a directory of snapshot files.
type Store struct {
	dir string
	mu  sync.Mutex
}

// Open uses dir as the store, creating it if needed.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("filesnapshot: a directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+ext)
}

// Save writes snap to a temporary file and renames it over the old one, so
// readers never see a partial snapshot.
func (s *Store) Save(_ context.Context, key string, snap *snapshotstore.Snapshot) error {
	data, err := snapshotstore.Marshal(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("saving %q: %w", key, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("saving %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("saving %q: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("saving %q: %w", key, err)
	}
	return nil
}

func (s *Store) Load(_ context.Context, key string) (*snapshotstore.Snapshot, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, snapshotstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", key, err)
	}
	return snapshotstore.Unmarshal(data)
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	return nil
}

func (s *Store) Keys(context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	var keys []string
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ext)
		if !ok || e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		key, err := url.PathUnescape(name)
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys, nil
}

func (s *Store) Close() error { return nil }
