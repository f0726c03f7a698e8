package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/tickgraph/internal/app"
	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/filesnapshot"
	"github.com/specialistvlad/tickgraph/internal/registry"
	"github.com/specialistvlad/tickgraph/internal/status"
	"github.com/specialistvlad/tickgraph/internal/testutil"
	"github.com/specialistvlad/tickgraph/modules/nodes"
	"github.com/specialistvlad/tickgraph/modules/vars"
)

const patrolSource = `
blackboard "npc" {
  variable "visits" {
    type    = number
    default = 0
  }
}

tree "patrol" {
  blackboard = "npc"

  node "sequencer" "root" {
    node "action" "walk" {
      action "record" {
        id      = "walk"
        results = ["running", "success"]
      }
    }
    node "action" "count" {
      action "set_var" {
        name  = var.visits
        op    = "add"
        value = 1
      }
    }
  }
}
`

func modules(rec *testutil.RecorderModule) []registry.Module {
	return []registry.Module{&nodes.Module{}, &vars.Module{}, rec}
}

func TestRun_TreeToCompletion(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	rec := testutil.NewRecorderModule()

	// --- Act ---
	res := testutil.RunApp(context.Background(), t, map[string]string{"patrol.hcl": patrolSource}, nil, modules(rec)...)

	// --- Assert ---
	require.NoError(t, res.Err)
	require.Len(t, res.Reports, 1)
	rep := res.Reports[0]
	assert.Equal(t, "agent-0", rep.Agent)
	assert.Equal(t, uint64(2), rep.Ticks)
	require.Len(t, rep.Graphs, 1)
	assert.Equal(t, app.GraphReport{Name: "patrol", Status: status.Success, Finished: true, Success: true, Ticks: 2}, rep.Graphs[0])
	assert.Equal(t, 2, rec.Calls("walk"))
	assert.Contains(t, res.LogOutput, "Execution finished.")
}

func TestRun_SessionsAreIndependent(t *testing.T) {
	t.Parallel()

	rec := testutil.NewRecorderModule()

	res := testutil.RunApp(context.Background(), t, map[string]string{"patrol.hcl": patrolSource},
		func(c *app.Config) { c.Sessions = 4 }, modules(rec)...)

	require.NoError(t, res.Err)
	require.Len(t, res.Reports, 4)
	agents := map[string]bool{}
	for _, rep := range res.Reports {
		agents[rep.Agent] = true
		require.Len(t, rep.Graphs, 1)
		assert.True(t, rep.Graphs[0].Success)
	}
	assert.Len(t, agents, 4)
	assert.Equal(t, 8, rec.Calls("walk"))
}

func TestRun_MaxTicksStopsRepeatingTree(t *testing.T) {
	t.Parallel()

	src := `
tree "forever" {
  repeat = true
  node "action" "idle" {
    action "record" {
      id      = "idle"
      results = ["running"]
    }
  }
}
`
	rec := testutil.NewRecorderModule()

	res := testutil.RunApp(context.Background(), t, map[string]string{"forever.hcl": src},
		func(c *app.Config) { c.MaxTicks = 5 }, modules(rec)...)

	require.NoError(t, res.Err)
	rep := res.Reports[0]
	assert.Equal(t, uint64(5), rep.Ticks)
	assert.False(t, rep.Graphs[0].Finished)
	assert.Equal(t, status.Running, rep.Graphs[0].Status)
	assert.Equal(t, 5, rec.Calls("idle"))
}

func TestRun_CancelledContextIsNotAnError(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := testutil.NewRecorderModule()

	res := testutil.RunApp(ctx, t, map[string]string{"patrol.hcl": patrolSource}, nil, modules(rec)...)

	require.NoError(t, res.Err)
	require.Len(t, res.Reports, 1)
	assert.Equal(t, uint64(0), res.Reports[0].Ticks)
	assert.Equal(t, 0, rec.Calls("walk"))
}

func TestRun_GraphSelection(t *testing.T) {
	t.Parallel()

	src := patrolSource + `
tree "other" {
  node "action" "x" {
    action "record" { id = "other" }
  }
}
`
	rec := testutil.NewRecorderModule()

	res := testutil.RunApp(context.Background(), t, map[string]string{"defs.hcl": src},
		func(c *app.Config) { c.Graphs = []string{"other"} }, modules(rec)...)

	require.NoError(t, res.Err)
	assert.Equal(t, 1, rec.Calls("other"))
	assert.Equal(t, 0, rec.Calls("walk"))

	unknown := testutil.RunApp(context.Background(), t, map[string]string{"defs.hcl": src},
		func(c *app.Config) { c.Graphs = []string{"ghost"} }, modules(rec)...)
	require.ErrorContains(t, unknown.Err, `unknown graph: "ghost"`)
}

func TestRun_SnapshotsCarryStateAcrossRuns(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dsn := t.TempDir()
	files := map[string]string{"patrol.hcl": patrolSource}
	useFiles := func(c *app.Config) {
		c.SnapshotBackend = "file"
		c.SnapshotDSN = dsn
	}

	// --- Act ---
	for range 2 {
		res := testutil.RunApp(context.Background(), t, files, useFiles, modules(testutil.NewRecorderModule())...)
		require.NoError(t, res.Err)
	}

	// --- Assert ---
	store, err := filesnapshot.Open(dsn)
	require.NoError(t, err)
	snap, err := store.Load(context.Background(), "agent-0/patrol")
	require.NoError(t, err)
	bb := blackboard.New("check")
	require.NoError(t, snap.Restore(bb))
	visits, ok := bb.GetValue("visits")
	require.True(t, ok)
	assert.True(t, visits.Equals(cty.NumberIntVal(2)).True(), "got %s", visits.GoString())
}

func TestNewApp_RejectsBadDefinitions(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "syntax error",
			src:     `tree "t" {`,
			wantErr: "failed to load configuration",
		},
		{
			name: "unknown kind",
			src: `tree "t" {
  node "teleport" "root" {}
}`,
			wantErr: "unknown kind",
		},
		{
			name: "missing required argument",
			src: `tree "t" {
  node "action" "root" {
    action "record" {}
  }
}`,
			wantErr: `missing required argument "id"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			res := testutil.RunApp(context.Background(), t, map[string]string{"bad.hcl": tc.src}, nil, modules(testutil.NewRecorderModule())...)

			require.ErrorContains(t, res.Err, tc.wantErr)
			assert.Nil(t, res.App)
		})
	}
}
