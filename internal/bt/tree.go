package bt

import (
	"time"

	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/status"
)

// Tree is the behaviour-tree flow.
type Tree struct {
	// Repeat restarts the tree after each finished pass instead of stopping.
	Repeat bool
	// Interval throttles evaluation; ticks in between report the cached status.
	Interval time.Duration

	last   time.Duration
	ticked bool
}

// New creates a behaviour-tree graph. Trees reject cycles at edit time.
func New(name string, flow *Tree, opts ...graph.Option) *graph.Graph {
	if flow == nil {
		flow = &Tree{}
	}
	base := []graph.Option{graph.WithFlow(flow), graph.WithCycleCheck()}
	return graph.New(name, append(base, opts...)...)
}

func (t *Tree) OnGraphStarted(*graph.Graph) {
	t.ticked = false
	t.last = 0
}

func (t *Tree) Tick(g *graph.Graph) status.Status {
	prime := g.Prime()
	if t.Interval > 0 && t.ticked && g.Elapsed()-t.last < t.Interval {
		return prime.Status()
	}
	t.last = g.Elapsed()
	t.ticked = true

	st := prime.Execute(g.Agent(), g.Blackboard())
	if st.Finished() {
		if t.Repeat {
			prime.Reset(true)
		} else {
			g.Stop(st == status.Success)
		}
	}
	return st
}

func (t *Tree) OnGraphStopped(*graph.Graph) {}
