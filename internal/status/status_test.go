package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	for _, s := range []Status{Resting, Success, Failure, Running, Error} {
		got, err := Parse(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	got, err := Parse("  SUCCESS ")
	require.NoError(t, err)
	assert.Equal(t, Success, got)

	_, err = Parse("done")
	require.Error(t, err)
}

func TestFinishedAndInvert(t *testing.T) {
	t.Parallel()

	assert.False(t, Resting.Finished())
	assert.False(t, Running.Finished())
	assert.True(t, Success.Finished())
	assert.True(t, Failure.Finished())
	assert.True(t, Error.Finished())

	assert.Equal(t, Failure, Success.Invert())
	assert.Equal(t, Success, Failure.Invert())
	assert.Equal(t, Running, Running.Invert())
	assert.Equal(t, "status(42)", Status(42).String())
}

func TestStatus_TextRoundTrip(t *testing.T) {
	t.Parallel()

	var s Status
	require.NoError(t, s.UnmarshalText([]byte("Running")))
	assert.Equal(t, Running, s)

	b, err := Error.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "error", string(b))

	require.Error(t, s.UnmarshalText([]byte("maybe")))
	assert.Equal(t, Running, s, "failed parses leave the value alone")
}
