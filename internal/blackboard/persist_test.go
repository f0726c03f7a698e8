package blackboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := New("npc")
	_, err := src.SetValue("name", cty.StringVal("scout"))
	require.NoError(t, err)
	_, err = src.SetValue("position", cty.ListVal([]cty.Value{cty.NumberFloatVal(1.5), cty.NumberIntVal(-2)}))
	require.NoError(t, err)
	_, err = src.AddVariable("target", cty.String) // never written, null
	require.NoError(t, err)
	loose, err := src.AddVariable("anything", cty.DynamicPseudoType)
	require.NoError(t, err)
	require.NoError(t, loose.Set(cty.ObjectVal(map[string]cty.Value{"k": cty.True})))

	// --- Act ---
	entries, err := src.Save()
	require.NoError(t, err)
	dst := New("restored")
	require.NoError(t, dst.Load(entries))

	// --- Assert ---
	require.Len(t, entries, 4)
	assert.Equal(t, "name", entries[0].Name)
	assert.Equal(t, `["list","number"]`, entries[1].Type)
	assert.Equal(t, `[1.5,-2]`, entries[1].Payload)

	for _, want := range src.Variables() {
		got, ok := dst.Variable(want.Name())
		require.True(t, ok, want.Name())
		assert.True(t, want.Type().Equals(got.Type()), want.Name())
		if want.Value().IsNull() {
			assert.True(t, got.Value().IsNull(), want.Name())
			continue
		}
		assert.True(t, want.Value().Equals(got.Value()).True(), want.Name())
	}
}

func TestLoad_MalformedEntryChangesNothing(t *testing.T) {
	t.Parallel()

	bb := New("npc")
	require.NoError(t, Set(bb, "hp", 3))

	err := bb.Load([]Entry{
		{Name: "hp", Type: `"number"`, Payload: `7`},
		{Name: "broken", Type: `"number"`, Payload: `"not a number"`},
	})
	require.Error(t, err)

	hp, err := Get[int](bb, "hp")
	require.NoError(t, err)
	assert.Equal(t, 3, hp)
	_, ok := bb.Variable("broken")
	assert.False(t, ok)
}

func TestLoad_ReplacesSlotWithDifferentType(t *testing.T) {
	t.Parallel()

	bb := New("npc")
	require.NoError(t, Set(bb, "mode", 1))

	require.NoError(t, bb.Load([]Entry{{Name: "mode", Type: `"string"`, Payload: `"attack"`}}))

	v, ok := bb.Variable("mode")
	require.True(t, ok)
	assert.Equal(t, cty.String, v.Type())
	assert.Equal(t, "attack", v.Value().AsString())
}
