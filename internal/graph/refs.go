package graph

import (
	"fmt"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/status"
)

// NodeHandle is a stable index into a graph's node arena.
type NodeHandle int32

// ConnHandle is a stable index into a graph's connection arena.
type ConnHandle int32

// NoNode is the handle of no node.
const NoNode NodeHandle = -1

// NodeRef addresses one node of one graph. The zero value is invalid.
type NodeRef struct {
	g *Graph
	h NodeHandle
}

func (n NodeRef) Valid() bool { return n.g != nil && n.g.node(n.h) != nil }

func (n NodeRef) Handle() NodeHandle { return n.h }

func (n NodeRef) Graph() *Graph { return n.g }

// ID is the node's position in the depth-first numbering of its graph.
func (n NodeRef) ID() int {
	if s := n.slot(); s != nil {
		return s.id
	}
	return -1
}

func (n NodeRef) Name() string {
	if s := n.slot(); s != nil {
		return s.name
	}
	return ""
}

// Node returns the node's behaviour.
func (n NodeRef) Node() Node {
	if s := n.slot(); s != nil {
		return s.node
	}
	return nil
}

// Status is the status cached by the node's last execution.
func (n NodeRef) Status() status.Status {
	if s := n.slot(); s != nil {
		return s.status
	}
	return status.Resting
}

func (n NodeRef) Execute(agent any, bb *blackboard.Blackboard) status.Status {
	if n.g == nil {
		return status.Error
	}
	return n.g.executeNode(n.h, agent, bb)
}

func (n NodeRef) Reset(recursive bool) {
	if n.g != nil {
		n.g.resetNode(n.h, recursive)
	}
}

func (n NodeRef) IsPrime() bool { return n.g != nil && n.g.prime == n.h && n.h != NoNode }

// OutLen is the number of outgoing connections.
func (n NodeRef) OutLen() int {
	if s := n.slot(); s != nil {
		return len(s.out)
	}
	return 0
}

// OutAt returns the i-th outgoing connection.
func (n NodeRef) OutAt(i int) ConnRef {
	return ConnRef{g: n.g, h: n.slot().out[i]}
}

// Out returns the outgoing connections in order.
func (n NodeRef) Out() []ConnRef {
	s := n.slot()
	if s == nil {
		return nil
	}
	out := make([]ConnRef, len(s.out))
	for i, h := range s.out {
		out[i] = ConnRef{g: n.g, h: h}
	}
	return out
}

func (n NodeRef) InLen() int {
	if s := n.slot(); s != nil {
		return len(s.in)
	}
	return 0
}

func (n NodeRef) InAt(i int) ConnRef {
	return ConnRef{g: n.g, h: n.slot().in[i]}
}

func (n NodeRef) String() string {
	if s := n.slot(); s != nil {
		if s.name != "" {
			return fmt.Sprintf("%s#%d", s.name, s.id)
		}
		return fmt.Sprintf("%T#%d", s.node, s.id)
	}
	return "<invalid node>"
}

func (n NodeRef) slot() *nodeSlot {
	if n.g == nil {
		return nil
	}
	return n.g.node(n.h)
}

// ConnRef addresses one connection of one graph. The zero value is invalid.
type ConnRef struct {
	g *Graph
	h ConnHandle
}

func (c ConnRef) Valid() bool { return c.g != nil && c.g.conn(c.h) != nil }

func (c ConnRef) Handle() ConnHandle { return c.h }

// Connection returns the edge's behaviour.
func (c ConnRef) Connection() Connection {
	if s := c.slot(); s != nil {
		return s.conn
	}
	return nil
}

func (c ConnRef) Source() NodeRef {
	if s := c.slot(); s != nil {
		return NodeRef{g: c.g, h: s.source}
	}
	return NodeRef{}
}

func (c ConnRef) Target() NodeRef {
	if s := c.slot(); s != nil {
		return NodeRef{g: c.g, h: s.target}
	}
	return NodeRef{}
}

// Status mirrors the last execution of the subtree behind the connection.
func (c ConnRef) Status() status.Status {
	if s := c.slot(); s != nil {
		return s.status
	}
	return status.Resting
}

func (c ConnRef) Active() bool {
	s := c.slot()
	return s != nil && s.active
}

// SetActive enables or disables the edge. Disabling resets everything
// beyond it.
func (c ConnRef) SetActive(active bool) {
	s := c.slot()
	if s == nil || s.active == active {
		return
	}
	s.active = active
	if !active {
		c.g.resetConn(c.h, true)
	}
}

// Index is the connection's position among its source's outgoing edges.
func (c ConnRef) Index() int {
	s := c.slot()
	if s == nil {
		return -1
	}
	for i, h := range c.g.node(s.source).out {
		if h == c.h {
			return i
		}
	}
	return -1
}

func (c ConnRef) Execute(agent any, bb *blackboard.Blackboard) status.Status {
	if c.g == nil {
		return status.Error
	}
	return c.g.executeConn(c.h, agent, bb)
}

func (c ConnRef) Reset(recursive bool) {
	if c.g != nil {
		c.g.resetConn(c.h, recursive)
	}
}

func (c ConnRef) slot() *connSlot {
	if c.g == nil {
		return nil
	}
	return c.g.conn(c.h)
}
