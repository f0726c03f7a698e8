// Package storetest holds the behaviour every snapshotstore.Store backend
// must show, as a reusable test suite.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/snapshotstore"
)

// Run exercises a fresh store returned by open. The store is closed when the
// test ends.
func Run(t *testing.T, open func(t *testing.T) snapshotstore.Store) {
	t.Helper()

	t.Run("missing key", func(t *testing.T) {
		s := open(t)
		t.Cleanup(func() { _ = s.Close() })

		_, err := s.Load(context.Background(), "nobody")
		require.ErrorIs(t, err, snapshotstore.ErrNotFound)
	})

	t.Run("round trip", func(t *testing.T) {
		s := open(t)
		t.Cleanup(func() { _ = s.Close() })
		ctx := context.Background()

		bb := blackboard.New("npc")
		_, err := bb.SetValue("health", cty.NumberIntVal(7))
		require.NoError(t, err)
		_, err = bb.SetValue("name", cty.StringVal("guard"))
		require.NoError(t, err)
		snap, err := snapshotstore.Take(bb)
		require.NoError(t, err)

		require.NoError(t, s.Save(ctx, "npc", snap))
		got, err := s.Load(ctx, "npc")
		require.NoError(t, err)

		assert.Equal(t, snap.Digest, got.Digest)
		assert.Equal(t, snap.Entries, got.Entries)
		assert.True(t, snap.SavedAt.Equal(got.SavedAt))

		restored := blackboard.New("restored")
		require.NoError(t, got.Restore(restored))
		name, _ := restored.GetValue("name")
		assert.Equal(t, "guard", name.AsString())
	})

	t.Run("overwrite and delete", func(t *testing.T) {
		s := open(t)
		t.Cleanup(func() { _ = s.Close() })
		ctx := context.Background()

		first := sealed("one")
		second := sealed("two")
		require.NoError(t, s.Save(ctx, "k", first))
		require.NoError(t, s.Save(ctx, "k", second))
		require.NoError(t, s.Save(ctx, "a", first))

		got, err := s.Load(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, second.Digest, got.Digest)

		keys, err := s.Keys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "k"}, keys)

		require.NoError(t, s.Delete(ctx, "k"))
		require.NoError(t, s.Delete(ctx, "k"))
		_, err = s.Load(ctx, "k")
		require.ErrorIs(t, err, snapshotstore.ErrNotFound)

		keys, err = s.Keys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, keys)
	})
}

func sealed(payload string) *snapshotstore.Snapshot {
	entries := []blackboard.Entry{{Name: "v", Type: `"string"`, Payload: `"` + payload + `"`}}
	return &snapshotstore.Snapshot{Blackboard: "bb", Digest: snapshotstore.Digest(entries), Entries: entries}
}
