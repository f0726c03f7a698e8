package wait

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/config"
	"github.com/specialistvlad/tickgraph/internal/registry"
	"github.com/specialistvlad/tickgraph/internal/status"
	"github.com/specialistvlad/tickgraph/internal/task"
)

type fakeClock struct{ now time.Duration }

func (c *fakeClock) Elapsed() time.Duration { return c.now }

func TestWait(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		args   config.Args
		want   []status.Status
		period time.Duration
	}{
		{
			name:   "succeeds after the delay",
			args:   config.Args{"seconds": {Value: cty.NumberFloatVal(1)}},
			period: 400 * time.Millisecond,
			want:   []status.Status{status.Running, status.Running, status.Running, status.Success},
		},
		{
			name:   "finishes with the configured status",
			args:   config.Args{"seconds": {Value: cty.NumberFloatVal(0.5)}, "finish": {Value: cty.StringVal("failure")}},
			period: 300 * time.Millisecond,
			want:   []status.Status{status.Running, status.Running, status.Failure},
		},
		{
			name:   "zero seconds finishes at once",
			args:   config.Args{"seconds": {Value: cty.Zero}},
			period: time.Second,
			want:   []status.Status{status.Success},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			f, ok := registry.New(&Module{}).Action("wait")
			require.True(t, ok)
			a, err := f(registry.Env{}, &config.TaskDef{Kind: "wait", Args: tc.args})
			require.NoError(t, err)
			clock := &fakeClock{}
			a.(task.ClockAware).SetClock(clock)
			bb := blackboard.New("bb")
			require.NoError(t, task.Init(a, bb))
			r := task.NewRunner(a)

			// --- Act ---
			var got []status.Status
			for range tc.want {
				got = append(got, r.Execute(nil, bb))
				clock.now += tc.period
			}

			// --- Assert ---
			assert.Equal(t, tc.want, got)
		})
	}
}
