package blackboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestParam_LiteralMode(t *testing.T) {
	t.Parallel()

	p := Literal(3)
	assert.False(t, p.UseBlackboard())
	assert.Equal(t, 3, p.Get())

	require.NoError(t, p.Set(5))
	assert.Equal(t, 5, p.Get())
	assert.Equal(t, "5", p.String())
}

func TestParam_DisablingBlackboardClearsBinding(t *testing.T) {
	t.Parallel()

	bb := New("npc")
	require.NoError(t, Set(bb, "hp", 10))

	p := Ref[int]("hp")
	p.Bind(bb)
	require.Equal(t, 10, p.Get())
	require.NotNil(t, p.slot)

	p.SetUseBlackboard(false)

	assert.False(t, p.UseBlackboard())
	assert.Empty(t, p.Name())
	assert.Nil(t, p.slot)
}

func TestParam_BlackboardOnlyIgnoresLiteralMode(t *testing.T) {
	t.Parallel()

	p := RefOnly[string]("target")
	p.SetUseBlackboard(false)

	assert.True(t, p.UseBlackboard())
	assert.Equal(t, "target", p.Name())

	q := Literal("x")
	q.MarkBlackboardOnly()
	q.SetUseBlackboard(false)
	assert.True(t, q.UseBlackboard())
	assert.True(t, q.IsNone())
}

func TestParam_RoundTripThroughFreshHandle(t *testing.T) {
	t.Parallel()

	bb := New("npc")
	_, err := bb.AddVariable("path", cty.List(cty.Number))
	require.NoError(t, err)

	writer := Ref[[]float64]("path")
	writer.Bind(bb)
	require.NoError(t, writer.Set([]float64{1, 2.5, -3}))

	reader := Ref[[]float64]("path")
	reader.Bind(bb)
	assert.Equal(t, []float64{1, 2.5, -3}, reader.Get())
}

func TestParam_SharedStorePath(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	world := New("world")
	require.NoError(t, reg.Register(world))
	require.NoError(t, Set(world, "alarm", true))

	local := New("guard", WithRegistry(reg))
	p := Ref[bool]("world/alarm")
	p.Bind(local)
	assert.True(t, p.Get())

	require.NoError(t, p.Set(false))
	got, err := Get[bool](world, "alarm")
	require.NoError(t, err)
	assert.False(t, got)

	missing := Ref[bool]("nowhere/alarm")
	missing.Bind(local)
	_, err = missing.Value()
	require.ErrorIs(t, err, ErrUnresolved)
	assert.False(t, missing.Get())
}

func TestParam_RebindInvalidatesCachedSlot(t *testing.T) {
	t.Parallel()

	a, b := New("a"), New("b")
	require.NoError(t, Set(a, "n", 1))
	require.NoError(t, Set(b, "n", 2))

	p := Ref[int]("n")
	p.Bind(a)
	assert.Equal(t, 1, p.Get())
	p.Bind(b)
	assert.Equal(t, 2, p.Get())

	// A removed slot is not served from the cache.
	b.RemoveVariable("n")
	_, err := p.Value()
	require.ErrorIs(t, err, ErrUnresolved)
	require.NoError(t, Set(b, "n", 9))
	assert.Equal(t, 9, p.Get())
}

func TestParam_UnresolvedWrites(t *testing.T) {
	t.Parallel()

	unbound := Ref[int]("hp")
	require.ErrorIs(t, unbound.Set(4), ErrUnresolved)

	bb := New("npc")
	none := Ref[int]("")
	none.Bind(bb)
	assert.True(t, none.IsNone())
	require.ErrorIs(t, none.Set(4), ErrUnresolved)
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, "<none>", none.String())
}

func TestParam_WriteCreatesMissingSlot(t *testing.T) {
	t.Parallel()

	bb := New("npc")
	p := Ref[string]("greeting")
	p.Bind(bb)
	assert.False(t, p.IsDefined())

	require.NoError(t, p.Set("hello"))
	assert.True(t, p.IsDefined())

	v, ok := bb.Variable("greeting")
	require.True(t, ok)
	assert.Equal(t, cty.String, v.Type())
	assert.Equal(t, "hello", v.Value().AsString())
}

func TestParam_TypeMismatch(t *testing.T) {
	t.Parallel()

	bb := New("npc")
	_, err := bb.AddVariable("flag", cty.Bool)
	require.NoError(t, err)

	p := Ref[int]("flag")
	p.Bind(bb)
	require.ErrorIs(t, p.Set(5), ErrTypeMismatch)

	require.NoError(t, Set(bb, "flag", true))
	_, err = p.Value()
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestParam_AnyAndCtyValue(t *testing.T) {
	t.Parallel()

	bb := New("npc")
	anyHandle := Ref[any]("loot")
	anyHandle.Bind(bb)
	require.NoError(t, anyHandle.Set([]any{"sword", 2}))
	assert.Equal(t, []any{"sword", int64(2)}, anyHandle.Get())

	raw := Ref[cty.Value]("loot")
	raw.Bind(bb)
	assert.True(t, raw.Get().Type().IsTupleType())
}

func TestParam_Assign(t *testing.T) {
	t.Parallel()

	p := Ref[int]("hp")
	require.NoError(t, p.AssignLiteral(cty.NumberIntVal(7)))
	assert.False(t, p.UseBlackboard())
	assert.Equal(t, 7, p.Get())

	p.AssignRef("shared/hp")
	assert.True(t, p.UseBlackboard())
	assert.Equal(t, "shared/hp", p.Name())

	require.Error(t, p.AssignLiteral(cty.StringVal("seven")), "type errors surface")

	only := RefOnly[string]("x")
	require.ErrorIs(t, only.AssignLiteral(cty.StringVal("y")), ErrBlackboardOnly)
}
