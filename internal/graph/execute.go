package graph

import (
	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/status"
)

func (g *Graph) executeNode(h NodeHandle, agent any, bb *blackboard.Blackboard) status.Status {
	s := g.node(h)
	if s == nil {
		g.logger.Error("Executing a node that is not part of the graph.", "graph", g.name, "handle", h)
		return status.Error
	}
	if s.executing {
		g.logger.Error("Node re-entered while executing, possible infinite loop.",
			"graph", g.name, "node_id", s.id, "node", s.name)
		return status.Error
	}

	s.executing = true
	gen := g.stopGen
	st := s.node.Execute(NodeRef{g: g, h: h}, agent, bb)
	s.executing = false

	// A stop during execution already reset this node.
	if g.stopGen == gen {
		s.status = st
	}
	if st == status.Error {
		g.logger.Debug("Node returned an error status.", "graph", g.name, "node_id", s.id, "node", s.name)
	}
	return st
}

func (g *Graph) resetNode(h NodeHandle, recursive bool) {
	s := g.node(h)
	if s == nil || s.status == status.Resting || s.resetting {
		return
	}

	s.resetting = true
	if r, ok := s.node.(Resetter); ok {
		r.OnReset(NodeRef{g: g, h: h})
	}
	s.status = status.Resting
	if recursive {
		for _, c := range s.out {
			g.resetConn(c, true)
		}
	}
	s.resetting = false
}

func (g *Graph) executeConn(h ConnHandle, agent any, bb *blackboard.Blackboard) status.Status {
	c := g.conn(h)
	if c == nil {
		return status.Error
	}
	if !c.active {
		return status.Resting
	}
	if c.executing {
		g.logger.Error("Connection re-entered while executing, possible infinite loop.",
			"graph", g.name, "source_id", g.nodes[c.source].id, "target_id", g.nodes[c.target].id)
		return status.Error
	}

	c.executing = true
	gen := g.stopGen
	st := c.conn.OnExecute(ConnRef{g: g, h: h}, agent, bb)
	c.executing = false

	if g.stopGen == gen {
		c.status = st
	}
	return st
}

func (g *Graph) resetConn(h ConnHandle, recursive bool) {
	c := g.conn(h)
	if c == nil || c.status == status.Resting || c.resetting {
		return
	}

	c.resetting = true
	if r, ok := c.conn.(ConnResetter); ok {
		r.OnReset(ConnRef{g: g, h: h})
	}
	c.status = status.Resting
	if recursive {
		g.resetNode(c.target, true)
	}
	c.resetting = false
}
