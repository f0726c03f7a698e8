package graph

import (
	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/status"
)

// Unbounded is the degree limit meaning "no limit".
const Unbounded = -1

// Node is the execution unit of a graph. Execute receives a reference to its
// own slot so it can reach its connections and cached status.
type Node interface {
	Execute(n NodeRef, agent any, bb *blackboard.Blackboard) status.Status
}

// Resetter is implemented by nodes with state to clear on reset.
type Resetter interface {
	OnReset(n NodeRef)
}

// Limits bounds a node's degree. Nodes without Limits are unbounded both ways.
type Limits interface {
	MaxIn() int
	MaxOut() int
}

// GraphStarter is notified after its graph started.
type GraphStarter interface {
	OnGraphStarted(n NodeRef)
}

// GraphStopper is notified after its graph stopped and every node was reset.
type GraphStopper interface {
	OnGraphStopped(n NodeRef)
}

// GraphPauser is notified when its graph pauses and resumes.
type GraphPauser interface {
	OnGraphPaused(n NodeRef)
	OnGraphResumed(n NodeRef)
}

// EdgeObserver is notified when a connection is attached to or detached from
// the node, on either end. Detach notifications happen before unlinking.
type EdgeObserver interface {
	OnConnected(n NodeRef, c ConnRef)
	OnDisconnected(n NodeRef, c ConnRef)
}

// ConnectionFactory lets a source node choose the connection type created
// for new outgoing edges.
type ConnectionFactory interface {
	NewConnection() Connection
}

func limitsOf(n Node) (in, out int) {
	if l, ok := n.(Limits); ok {
		return l.MaxIn(), l.MaxOut()
	}
	return Unbounded, Unbounded
}
