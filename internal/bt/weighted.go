package bt

import (
	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/status"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// WeightedConnection is a plain forward edge that carries a weight.
// PrioritySelector and ProbabilitySelector create these for their children.
type WeightedConnection struct {
	Weight blackboard.Param[float64] `arg:"weight"`
}

func newWeighted() *WeightedConnection {
	return &WeightedConnection{Weight: blackboard.Literal(1.0)}
}

func (w *WeightedConnection) OnExecute(c graph.ConnRef, agent any, bb *blackboard.Blackboard) status.Status {
	return c.Target().Execute(agent, bb)
}

func (w *WeightedConnection) Bindings() []task.Binding {
	return []task.Binding{{Field: "weight", Param: &w.Weight}}
}

// weightOf returns the weight of c, or 1 for edges of another kind.
// Negative weights count as zero.
func weightOf(c graph.ConnRef) float64 {
	w, ok := c.Connection().(*WeightedConnection)
	if !ok {
		return 1
	}
	return max(w.Weight.Get(), 0)
}
