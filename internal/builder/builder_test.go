package builder_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/tickgraph/internal/bt"
	"github.com/specialistvlad/tickgraph/internal/builder"
	"github.com/specialistvlad/tickgraph/internal/fsm"
	"github.com/specialistvlad/tickgraph/internal/hcl"
	"github.com/specialistvlad/tickgraph/internal/registry"
	"github.com/specialistvlad/tickgraph/internal/session"
	"github.com/specialistvlad/tickgraph/internal/status"
	"github.com/specialistvlad/tickgraph/modules/nodes"
	"github.com/specialistvlad/tickgraph/modules/vars"
)

const counterSource = `
blackboard "world" {
  shared = true
  variable "ticks" {
    type    = number
    default = 0
  }
}

blackboard "local" {
  variable "count" {
    type    = number
    default = 0
  }
}

tree "counter" {
  blackboard = "local"

  node "sequencer" "root" {
    node "action" "inc" {
      action "set_var" {
        name  = var.count
        op    = "add"
        value = 1
      }
    }
    node "action" "tick" {
      action "set_var" {
        name  = shared.world.ticks
        op    = "add"
        value = 1
      }
    }
    node "condition" "done" {
      condition "check_var" {
        name  = var.count
        op    = ">="
        value = 1
      }
    }
  }
}

tree "weighted" {
  blackboard = "world"

  node "probability_selector" "pick" {
    node "subtree" "nested" {
      edge { weight = 3 }
      tree = "counter"
    }
  }
}

fsm "door" {
  blackboard = "local"
  initial    = "closed"

  state "open" {}
  state "closed" {
    policy = "after_finished"
    transition "open" {
      condition "check_var" {
        name  = var.count
        value = 1
      }
    }
  }

  any_state {
    retrigger = true
    transition "closed" {
      condition "not" {
        condition "probability" { chance = 1 }
      }
    }
  }
}
`

func newBuilder(t *testing.T, src string) *builder.Builder {
	t.Helper()
	model, err := hcl.NewLoader().LoadSource(context.Background(), "test.hcl", []byte(src))
	require.NoError(t, err)
	reg := registry.New(&nodes.Module{}, &vars.Module{})
	return builder.New(reg, model, session.New(session.WithSeed(1)))
}

func TestAll_BuildsEveryGraph(t *testing.T) {
	t.Parallel()

	b := newBuilder(t, counterSource)

	insts, err := b.All()

	require.NoError(t, err)
	require.Len(t, insts, 3)
	assert.Equal(t, []string{"counter", "weighted", "door"}, b.GraphNames())
	assert.Nil(t, insts[0].Machine)
	require.NotNil(t, insts[2].Machine)
	assert.Same(t, insts[2].Machine.Graph, insts[2].Graph)
}

func TestInstance_RunsTreeAgainstItsBlackboards(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	b := newBuilder(t, counterSource)
	require.NoError(t, b.SharedBlackboards())
	first, err := b.Instance("counter")
	require.NoError(t, err)
	second, err := b.Instance("counter")
	require.NoError(t, err)

	// --- Act ---
	require.NoError(t, first.Graph.Start(t.Context(), nil, first.Blackboard, nil))
	st := first.Graph.Tick()

	// --- Assert ---
	assert.Equal(t, status.Success, st)
	assert.NotSame(t, first.Blackboard, second.Blackboard, "private stores are per instance")

	count, _ := first.Blackboard.GetValue("count")
	assert.True(t, count.Equals(cty.NumberIntVal(1)).True())
	untouched, _ := second.Blackboard.GetValue("count")
	assert.True(t, untouched.Equals(cty.NumberIntVal(0)).True())

	world, _ := first.Blackboard.Registry().Lookup("world")
	ticks, _ := world.GetValue("ticks")
	assert.True(t, ticks.Equals(cty.NumberIntVal(1)).True())
}

func TestInstance_SharedBlackboardIsSingleton(t *testing.T) {
	t.Parallel()

	b := newBuilder(t, counterSource)

	one, err := b.Instance("weighted")
	require.NoError(t, err)
	two, err := b.Instance("weighted")
	require.NoError(t, err)

	assert.Same(t, one.Blackboard, two.Blackboard)
	assert.True(t, one.Blackboard.Shared())
}

func TestInstance_EdgeArguments(t *testing.T) {
	t.Parallel()

	b := newBuilder(t, counterSource)

	inst, err := b.Instance("weighted")
	require.NoError(t, err)

	root := inst.Graph.Prime()
	require.Equal(t, "pick", root.Name())
	require.Equal(t, 1, root.OutLen())
	w, ok := root.OutAt(0).Connection().(*bt.WeightedConnection)
	require.True(t, ok)
	assert.InDelta(t, 3.0, w.Weight.Get(), 1e-9)
	_, ok = root.OutAt(0).Target().Node().(*bt.SubTree)
	assert.True(t, ok)
}

func TestMachine_Structure(t *testing.T) {
	t.Parallel()

	b := newBuilder(t, counterSource)

	m, err := b.Machine("door")
	require.NoError(t, err)

	assert.Equal(t, "closed", m.Prime().Name())
	closed, ok := m.Find("closed")
	require.True(t, ok)
	st, ok := closed.Node().(*fsm.State)
	require.True(t, ok)
	assert.Equal(t, fsm.CheckAfterFinished, st.Policy)
	assert.Equal(t, 1, closed.OutLen())

	anyRef, ok := m.Find(builder.AnyStateName)
	require.True(t, ok)
	as, ok := anyRef.Node().(*fsm.AnyState)
	require.True(t, ok)
	assert.True(t, as.Retrigger)
	assert.Equal(t, "closed", anyRef.OutAt(0).Target().Name())
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		src     string
		graph   string
		wantErr error
		wantMsg string
	}{
		{
			name: "unknown graph",
			src: `tree "t" {
  node "sequencer" "root" {}
}`,
			graph:   "missing",
			wantErr: builder.ErrUnknownGraph,
		},
		{
			name: "unknown node kind",
			src: `tree "t" {
  node "teleport" "root" {}
}`,
			graph:   "t",
			wantErr: builder.ErrUnknownKind,
		},
		{
			name: "unknown action kind",
			src: `tree "t" {
  node "action" "root" {
    action "fly" {}
  }
}`,
			graph:   "t",
			wantErr: builder.ErrUnknownKind,
		},
		{
			name: "recursive sub-tree",
			src: `tree "t" {
  node "subtree" "root" { tree = "t" }
}`,
			graph:   "t",
			wantErr: builder.ErrRecursiveGraph,
		},
		{
			name: "sub-tree to missing graph",
			src: `tree "t" {
  node "subtree" "root" { tree = "nope" }
}`,
			graph:   "t",
			wantErr: builder.ErrUnknownGraph,
		},
		{
			name: "unknown blackboard",
			src: `tree "t" {
  blackboard = "ghost"
  node "sequencer" "root" {}
}`,
			graph:   "t",
			wantErr: builder.ErrUnknownBlackboard,
		},
		{
			name: "edge on a parent without weighted edges",
			src: `tree "t" {
  node "sequencer" "root" {
    node "sequencer" "child" {
      edge { weight = 2 }
    }
  }
}`,
			graph:   "t",
			wantMsg: "does not accept edge arguments",
		},
		{
			name: "transition to unknown state",
			src: `fsm "m" {
  state "a" {
    transition "b" {}
  }
}`,
			graph:   "m",
			wantMsg: `transition to unknown state "b"`,
		},
		{
			name: "unknown initial state",
			src: `fsm "m" {
  initial = "z"
  state "a" {}
}`,
			graph:   "m",
			wantMsg: `initial state "z" is not defined`,
		},
		{
			name: "bad node argument",
			src: `tree "t" {
  node "sequencer" "root" { speed = 3 }
}`,
			graph:   "t",
			wantErr: registry.ErrUnknownArgument,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := newBuilder(t, tc.src).Instance(tc.graph)

			require.Error(t, err)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			}
			if tc.wantMsg != "" {
				assert.Contains(t, err.Error(), tc.wantMsg)
			}
		})
	}
}
