package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
)

func TestSessions_AreIsolated(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	a, b := New(), New()
	worldA, err := a.SharedBlackboard("world")
	require.NoError(t, err)
	_, err = worldA.SetValue("time", cty.NumberIntVal(12))
	require.NoError(t, err)
	_, err = b.SharedBlackboard("world")
	require.NoError(t, err)

	// --- Act ---
	inA := blackboard.Ref[int]("world/time")
	inA.Bind(a.NewBlackboard("agent"))
	inB := blackboard.Ref[int]("world/time")
	inB.Bind(b.NewBlackboard("agent"))

	// --- Assert ---
	assert.Equal(t, 12, inA.Get())
	_, err = inB.Value()
	require.ErrorIs(t, err, blackboard.ErrUnresolved)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, b.Guards.Held(nil, "anything"))
}

func TestSharedBlackboard_DuplicateName(t *testing.T) {
	t.Parallel()

	s := New()
	_, err := s.SharedBlackboard("world")
	require.NoError(t, err)
	_, err = s.SharedBlackboard("world")
	require.ErrorIs(t, err, blackboard.ErrDuplicateStore)
}

func TestWithSeed_IsDeterministic(t *testing.T) {
	t.Parallel()

	a, b := New(WithSeed(42)), New(WithSeed(42))
	for range 10 {
		assert.Equal(t, a.Rand.Uint64(), b.Rand.Uint64())
	}
}
