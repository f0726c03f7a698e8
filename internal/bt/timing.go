package bt

import (
	"fmt"
	"time"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/status"
	"github.com/specialistvlad/tickgraph/internal/task"
)

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Timeout fails and resets its child once the child has been running for
// Seconds of graph time.
type Timeout struct {
	decorator
	Seconds blackboard.Param[float64] `arg:"seconds,required"`

	started time.Duration
	timing  bool
}

func (d *Timeout) Bindings() []task.Binding {
	return []task.Binding{{Field: "seconds", Param: &d.Seconds, Required: true}}
}

func (d *Timeout) Init(*blackboard.Blackboard) error {
	if !d.Seconds.UseBlackboard() && d.Seconds.Literal() <= 0 {
		return fmt.Errorf("seconds %g: %w", d.Seconds.Literal(), ErrNotPositive)
	}
	return nil
}

func (d *Timeout) Execute(n graph.NodeRef, agent any, bb *blackboard.Blackboard) status.Status {
	c, ok := child(n)
	if !ok {
		return status.Resting
	}
	now := n.Graph().Elapsed()
	if !d.timing {
		d.started = now
		d.timing = true
	}
	if now-d.started >= seconds(d.Seconds.Get()) {
		c.Reset(true)
		return status.Failure
	}
	return c.Execute(agent, bb)
}

func (d *Timeout) OnReset(graph.NodeRef) { d.timing = false }

// Cooldown fails without running its child for Seconds of graph time after
// the child last finished. The cooldown survives resets and ends when the
// graph restarts.
type Cooldown struct {
	decorator
	Seconds blackboard.Param[float64] `arg:"seconds"`

	readyAt time.Duration
	cooling bool
}

func (d *Cooldown) Bindings() []task.Binding {
	return []task.Binding{{Field: "seconds", Param: &d.Seconds}}
}

func (d *Cooldown) Execute(n graph.NodeRef, agent any, bb *blackboard.Blackboard) status.Status {
	c, ok := child(n)
	if !ok {
		return status.Resting
	}
	now := n.Graph().Elapsed()
	if d.cooling && now < d.readyAt {
		return status.Failure
	}
	d.cooling = false

	st := c.Execute(agent, bb)
	if st.Finished() {
		d.cooling = true
		d.readyAt = now + seconds(d.Seconds.Get())
	}
	return st
}

func (d *Cooldown) OnGraphStarted(graph.NodeRef) { d.cooling = false }
