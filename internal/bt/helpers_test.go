package bt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/status"
)

// script is an action returning its results in order, repeating the last.
type script struct {
	results []status.Status
	calls   int
	starts  int
	stops   int
}

func (s *script) Start(any, *blackboard.Blackboard) { s.starts++ }

func (s *script) Execute(any, *blackboard.Blackboard) status.Status {
	s.calls++
	return s.results[min(s.calls, len(s.results))-1]
}

func (s *script) Stop()  { s.stops++ }
func (s *script) Pause() {}

func act(results ...status.Status) (*script, *ActionNode) {
	s := &script{results: results}
	return s, NewAction(s)
}

// attach adds each node under parent in order.
func attach(t *testing.T, g *graph.Graph, parent graph.NodeRef, children map[string]graph.Node, order ...string) []graph.NodeRef {
	t.Helper()
	refs := make([]graph.NodeRef, 0, len(order))
	for _, name := range order {
		ref, err := g.AddNode(name, children[name])
		require.NoError(t, err)
		g.MustConnect(parent, ref)
		refs = append(refs, ref)
	}
	return refs
}

func start(t *testing.T, g *graph.Graph, agent any) {
	t.Helper()
	require.NoError(t, g.Start(context.Background(), agent, blackboard.New("bb"), nil))
}

func ticks(g *graph.Graph, n int) []status.Status {
	out := make([]status.Status, 0, n)
	for range n {
		out = append(out, g.Tick())
	}
	return out
}
