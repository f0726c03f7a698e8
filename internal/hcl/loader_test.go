package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/tickgraph/internal/config"
)

const guardSource = `
blackboard "world" {
  shared = true
  variable "alarm" {
    type    = bool
    default = false
  }
}

blackboard "npc" {
  variable "health" {
    type    = number
    default = "100"
  }
  variable "patrol" {
    type = list(string)
  }
  variable "stats" {
    type = object({ speed = number, "name" = string })
  }
  variable "anything" {}
}

tree "guard" {
  blackboard = "npc"
  repeat     = true
  interval   = "250ms"

  node "selector" "root" {
    dynamic = true

    node "condition" "hurt" {
      edge { weight = 3 }
      condition "expr" { expr = var.health < 30 && !shared.world.alarm }
    }
    node "action" "heal" {
      action "set_var" {
        name  = var.health
        op    = "add"
        value = 5
      }
    }
    node "gate" "alarmed" {
      condition "all" {
        condition "check_var" {
          name  = shared.world.alarm
          value = true
        }
        condition "probability" { chance = 0.5 }
      }
      node "subtree" "flee" { tree = "flee" }
    }
  }
}

fsm "flee" {
  blackboard = "npc"
  initial    = "run"

  state "run" {
    policy = "after_finished"
    action "wait" { seconds = 1.5 }
    transition "hide" {}
  }
  state "hide" {}

  any_state {
    retrigger = true
    transition "run" {
      condition "check_var" {
        name = var.health
        op   = "<"
        value = 10
      }
    }
  }
}
`

func load(t *testing.T, src string) *config.Model {
	t.Helper()
	m, err := NewLoader().LoadSource(context.Background(), "test.hcl", []byte(src))
	require.NoError(t, err)
	return m
}

func TestLoadSource_Blackboards(t *testing.T) {
	t.Parallel()

	m := load(t, guardSource)

	require.Len(t, m.Blackboards, 2)
	world, ok := m.Blackboard("world")
	require.True(t, ok)
	assert.True(t, world.Shared)
	require.Len(t, world.Variables, 1)
	assert.Equal(t, cty.Bool, world.Variables[0].Type)
	assert.True(t, world.Variables[0].Default.RawEquals(cty.False))

	npc, _ := m.Blackboard("npc")
	assert.False(t, npc.Shared)
	types := map[string]cty.Type{}
	for _, v := range npc.Variables {
		types[v.Name] = v.Type
	}
	want := map[string]cty.Type{
		"health":   cty.Number,
		"patrol":   cty.List(cty.String),
		"stats":    cty.Object(map[string]cty.Type{"speed": cty.Number, "name": cty.String}),
		"anything": cty.DynamicPseudoType,
	}
	if diff := cmp.Diff(want, types, cmp.Comparer(func(a, b cty.Type) bool { return a.Equals(b) })); diff != "" {
		t.Errorf("variable types mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, npc.Variables[0].Default.Equals(cty.NumberIntVal(100)).True(), "defaults are converted to the declared type")
	assert.Nil(t, npc.Variables[1].Default)
}

func TestLoadSource_Tree(t *testing.T) {
	t.Parallel()

	m := load(t, guardSource)

	require.Len(t, m.Trees, 1)
	tree := m.Trees[0]
	assert.Equal(t, "guard", tree.Name)
	assert.Equal(t, "npc", tree.Blackboard)
	assert.True(t, tree.Repeat)
	assert.Equal(t, 250*time.Millisecond, tree.Interval)
	assert.Equal(t, "test.hcl", tree.Source.File)

	root := tree.Root
	require.NotNil(t, root)
	assert.Equal(t, "selector", root.Kind)
	assert.True(t, root.Args["dynamic"].Value.True())
	require.Len(t, root.Children, 3)

	hurt := root.Children[0]
	assert.Equal(t, "expr", hurt.Condition.Kind)
	expr := hurt.Condition.Args["expr"]
	assert.False(t, expr.IsRef())
	assert.Equal(t, cty.NilVal, expr.Value, "scoped expressions are not evaluated at load time")
	require.NotNil(t, expr.Expr)
	assert.True(t, hurt.Edge["weight"].Value.Equals(cty.NumberIntVal(3)).True())

	heal := root.Children[1].Action
	assert.Equal(t, "set_var", heal.Kind)
	assert.Equal(t, "health", heal.Args["name"].Ref)
	assert.Equal(t, "add", heal.Args["op"].Value.AsString())

	gate := root.Children[2]
	require.Len(t, gate.Condition.Children, 2)
	assert.Equal(t, "world/alarm", gate.Condition.Children[0].Args["name"].Ref)
	require.Len(t, gate.Children, 1)
	assert.Equal(t, "flee", gate.Children[0].Args["tree"].Value.AsString())
}

func TestLoadSource_Machine(t *testing.T) {
	t.Parallel()

	m := load(t, guardSource)

	require.Len(t, m.Machines, 1)
	f := m.Machines[0]
	assert.Equal(t, "run", f.Initial)
	require.Len(t, f.States, 2)
	run := f.States[0]
	assert.Equal(t, "after_finished", run.Args["policy"].Value.AsString())
	assert.Equal(t, "wait", run.Action.Kind)
	require.Len(t, run.Transitions, 1)
	assert.Equal(t, "hide", run.Transitions[0].To)
	assert.Nil(t, run.Transitions[0].Condition)

	assert.True(t, f.AnyRetrigger)
	require.Len(t, f.Any, 1)
	assert.Equal(t, "run", f.Any[0].To)
	assert.Equal(t, "check_var", f.Any[0].Condition.Kind)
}

func TestLoadSource_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", `tree "x" {`, "failed to parse HCL file"},
		{"two roots", `tree "x" {
  node "sequencer" "a" {}
  node "sequencer" "b" {}
}`, "exactly one root node"},
		{"bad interval", `tree "x" {
  interval = "soon"
  node "sequencer" "a" {}
}`, "invalid interval"},
		{"unknown type", `blackboard "b" {
  variable "v" { type = decimal }
}`, `unknown primitive type "decimal"`},
		{"default mismatch", `blackboard "b" {
  variable "v" {
    type    = number
    default = "many"
  }
}`, "default does not match type"},
		{"two actions", `tree "x" {
  node "action" "a" {
    action "wait" { seconds = 1 }
    action "wait" { seconds = 2 }
  }
}`, "more than one action"},
		{"two conditions on a transition", `fsm "f" {
  state "a" {
    transition "a" {
      condition "expr" { expr = true }
      condition "expr" { expr = false }
    }
  }
}`, "more than one condition"},
		{"duplicate graph names", `tree "x" {
  node "sequencer" "a" {}
}
fsm "x" {
  state "a" {}
}`, `graph "x" declared twice`},
		{"unknown top-level block", `resource "x" {}`, "failed to decode HCL file"},
		{"unknown block inside a node", `tree "x" {
  node "sequencer" "a" {
    dynamic = true
    hook "log" {}
  }
}`, `Unexpected "hook" block`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewLoader().LoadSource(context.Background(), "bad.hcl", []byte(tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadSource_NestedBlocksKeepArguments(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := `
fsm "g" {
  state "idle" {
    policy = "manual"
    action "set_var" {
      name  = var.count
      op    = "add"
      value = 1
      condition "expr" { expr = true }
    }
    transition "idle" {}
  }
}

tree "t" {
  node "sequencer" "root" {
    dynamic = true
    node "selector" "inner" {
      random = true
      node "action" "leaf" {
        action "wait" { seconds = 2 }
      }
    }
  }
}
`

	// --- Act ---
	m, err := NewLoader().LoadSource(context.Background(), "nested.hcl", []byte(src))

	// --- Assert ---
	require.NoError(t, err)
	idle := m.Machines[0].States[0]
	assert.Equal(t, "manual", idle.Args["policy"].Value.AsString())
	require.NotNil(t, idle.Action)
	assert.Equal(t, "count", idle.Action.Args["name"].Ref)
	assert.Len(t, idle.Action.Args, 3)
	require.Len(t, idle.Action.Children, 1)
	assert.Equal(t, "expr", idle.Action.Children[0].Kind)

	root := m.Trees[0].Root
	assert.True(t, root.Args["dynamic"].Value.True())
	require.Len(t, root.Children, 1)
	inner := root.Children[0]
	assert.True(t, inner.Args["random"].Value.True())
	require.Len(t, inner.Children, 1)
	assert.Empty(t, inner.Children[0].Args)
	assert.Equal(t, "wait", inner.Children[0].Action.Kind)
}

func TestLoad_DiscoversFiles(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	write := func(rel, content string) {
		p := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	write("boards.hcl", `blackboard "npc" {}`)
	write("trees/a.hcl", `tree "a" {
  node "sequencer" "root" {}
}`)
	write("trees/deep/b.hcl", `tree "b" {
  node "sequencer" "root" {}
}`)
	write("notes.txt", `not hcl`)

	testCases := []struct {
		name  string
		paths []string
		trees []string
	}{
		{"directory is searched recursively", []string{dir}, []string{"a", "b"}},
		{"glob pattern", []string{filepath.Join(dir, "trees", "*.hcl")}, []string{"a"}},
		{"double star", []string{filepath.Join(dir, "**", "b.hcl")}, []string{"b"}},
		{"file listed twice", []string{filepath.Join(dir, "trees", "a.hcl"), filepath.Join(dir, "trees", "a.hcl")}, []string{"a"}},
		{"missing path is skipped", []string{filepath.Join(dir, "nope")}, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Act ---
			m, err := NewLoader().Load(context.Background(), tc.paths...)

			// --- Assert ---
			require.NoError(t, err)
			var names []string
			for _, tr := range m.Trees {
				names = append(names, tr.Name)
			}
			assert.Equal(t, tc.trees, names)
		})
	}
}

func TestRefOf(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		src    string
		want   string
		wantOK bool
	}{
		{"var.health", "health", true},
		{"shared.world.alarm", "world/alarm", true},
		{"var", "", false},
		{"var.stats.speed", "", false},
		{"local.x", "", false},
		{`"literal"`, "", false},
	}

	for _, tc := range testCases {
		expr := parseExpr(t, tc.src)
		got, ok := refOf(expr)
		assert.Equal(t, tc.wantOK, ok, tc.src)
		assert.Equal(t, tc.want, got, tc.src)
	}
}

func parseExpr(t *testing.T, src string) hcl.Expression {
	t.Helper()
	m := load(t, "tree \"t\" {\n  node \"x\" \"y\" { v = "+src+" }\n}\n")
	return m.Trees[0].Root.Args["v"].Expr
}
