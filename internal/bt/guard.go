package bt

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/graph"
	"github.com/specialistvlad/tickgraph/internal/status"
	"github.com/specialistvlad/tickgraph/internal/task"
)

type guardKey struct {
	agent any
	token string
}

// GuardRegistry tracks which Guard node holds each (agent, token) pair.
// One registry is shared by every graph of a session; graphs of different
// sessions never see each other's guards.
type GuardRegistry struct {
	mu      sync.Mutex
	holders map[guardKey]*Guard
}

func NewGuardRegistry() *GuardRegistry {
	return &GuardRegistry{holders: make(map[guardKey]*Guard)}
}

// Identified is implemented by agents that carry their own identity. Guards
// key such agents on AgentID instead of on the agent value.
type Identified interface {
	AgentID() string
}

type agentID string

// agentKey maps an agent to a usable map key. Maps, slices and funcs are
// keyed on their pointer. Other values that cannot be compared are keyed on
// their printed contents, so equal agents share their guards.
func agentKey(agent any) any {
	if agent == nil {
		return nil
	}
	if id, ok := agent.(Identified); ok {
		return agentID(id.AgentID())
	}
	v := reflect.ValueOf(agent)
	if v.Comparable() {
		return agent
	}
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func:
		return fmt.Sprintf("%T@%#x", agent, v.Pointer())
	default:
		return fmt.Sprintf("%T%#v", agent, agent)
	}
}

func (r *GuardRegistry) acquire(agent any, token string, g *Guard) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := guardKey{agent: agentKey(agent), token: token}
	if holder, ok := r.holders[key]; ok && holder != g {
		return false
	}
	r.holders[key] = g
	return true
}

func (r *GuardRegistry) release(agent any, token string, g *Guard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := guardKey{agent: agentKey(agent), token: token}
	if r.holders[key] == g {
		delete(r.holders, key)
	}
}

// Held reports whether some guard holds token for agent.
func (r *GuardRegistry) Held(agent any, token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.holders[guardKey{agent: agentKey(agent), token: token}]
	return ok
}

// Guard lets only one guard node per agent and token run its child at a
// time. A guard that cannot acquire its token fails, or reports Running
// without touching the child when Wait is set. The token is released when
// the child finishes, the node is reset, or the graph stops.
type Guard struct {
	decorator
	Token    blackboard.Param[string] `arg:"token"`
	Wait     bool                     `arg:"wait"`
	Registry *GuardRegistry

	holding   bool
	heldAgent any
	heldToken string
}

func (d *Guard) Bindings() []task.Binding {
	return []task.Binding{{Field: "token", Param: &d.Token}}
}

func (d *Guard) Execute(n graph.NodeRef, agent any, bb *blackboard.Blackboard) status.Status {
	c, ok := child(n)
	if !ok {
		return status.Resting
	}
	if d.Registry != nil && !d.holding {
		token := d.Token.Get()
		if !d.Registry.acquire(agent, token, d) {
			if d.Wait {
				return status.Running
			}
			return status.Failure
		}
		d.holding, d.heldAgent, d.heldToken = true, agent, token
	}

	st := c.Execute(agent, bb)
	if st != status.Running {
		d.release()
	}
	return st
}

func (d *Guard) release() {
	if !d.holding {
		return
	}
	d.Registry.release(d.heldAgent, d.heldToken, d)
	d.holding, d.heldAgent, d.heldToken = false, nil, ""
}

func (d *Guard) OnReset(graph.NodeRef) { d.release() }

func (d *Guard) OnGraphStopped(graph.NodeRef) { d.release() }
