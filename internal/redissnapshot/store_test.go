package redissnapshot

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/snapshotstore"
	"github.com/specialistvlad/tickgraph/internal/snapshotstore/storetest"
)

func TestStore_Conformance(t *testing.T) {
	t.Parallel()

	storetest.Run(t, func(t *testing.T) snapshotstore.Store {
		mr := miniredis.RunT(t)
		s, err := Open(t.Context(), Options{URL: fmt.Sprintf("redis://%s", mr.Addr())})
		require.NoError(t, err)
		return s
	})
}

func TestStore_UsesPrefix(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	mr := miniredis.RunT(t)
	s, err := Open(context.Background(), Options{URL: fmt.Sprintf("redis://%s", mr.Addr()), Prefix: "game:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	entries := []blackboard.Entry{{Name: "x", Type: `"number"`, Payload: "1"}}

	// --- Act ---
	err = s.Save(context.Background(), "npc", &snapshotstore.Snapshot{Digest: snapshotstore.Digest(entries), Entries: entries})

	// --- Assert ---
	require.NoError(t, err)
	assert.True(t, mr.Exists("game:data:npc"))
	members, err := mr.Members("game:keys")
	require.NoError(t, err)
	assert.Equal(t, []string{"npc"}, members)
}

func TestOpen_Unreachable(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Open(context.Background(), Options{URL: "redis://" + addr})
	require.Error(t, err)
}

func TestOpen_BadURL(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Options{URL: "http://nope"})
	require.ErrorContains(t, err, "failed to parse Redis URL")
}
