package graph

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/status"
)

type nodeSlot struct {
	node   Node
	name   string
	id     int
	in     []ConnHandle
	out    []ConnHandle
	status status.Status

	executing bool
	resetting bool
}

type connSlot struct {
	conn   Connection
	source NodeHandle
	target NodeHandle
	active bool
	status status.Status

	executing bool
	resetting bool
}

// Flow drives a running graph once per tick. Behaviour trees and state
// machines are flows over the same node protocol.
type Flow interface {
	OnGraphStarted(g *Graph)
	Tick(g *Graph) status.Status
	OnGraphStopped(g *Graph)
}

// TickObserver is called after every tick with the tick's result.
type TickObserver func(g *Graph, st status.Status)

// Graph owns a set of nodes and connections, a prime node and the
// start/stop/pause lifecycle that ticks them.
type Graph struct {
	id          uuid.UUID
	name        string
	nodes       []*nodeSlot
	conns       []*connSlot
	order       []NodeHandle
	prime       NodeHandle
	flow        Flow
	checkCycles bool
	observers   []TickObserver

	running bool
	paused  bool
	elapsed time.Duration
	ticks   uint64
	stopGen uint64

	ctx      context.Context
	logger   *slog.Logger
	agent    any
	bb       *blackboard.Blackboard
	onFinish func(success bool)
}

// Option configures a Graph at construction.
type Option func(*Graph)

// WithFlow sets the tick driver. Without a flow each tick executes the prime
// node and a finished result stops the graph.
func WithFlow(f Flow) Option {
	return func(g *Graph) { g.flow = f }
}

// WithCycleCheck makes Connect reject edges that would close a cycle.
func WithCycleCheck() Option {
	return func(g *Graph) { g.checkCycles = true }
}

// WithLogger sets the logger used until Start replaces it with the one
// carried by the start context.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Graph) { g.logger = logger }
}

// WithTickObserver registers fn to be called after every tick.
func WithTickObserver(fn TickObserver) Option {
	return func(g *Graph) { g.observers = append(g.observers, fn) }
}

// New creates an empty graph.
func New(name string, opts ...Option) *Graph {
	g := &Graph{
		id:     uuid.New(),
		name:   name,
		prime:  NoNode,
		ctx:    context.Background(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Graph) ID() uuid.UUID { return g.id }

func (g *Graph) Name() string { return g.name }

func (g *Graph) Flow() Flow { return g.flow }

// Len is the number of live nodes.
func (g *Graph) Len() int { return len(g.order) }

func (g *Graph) node(h NodeHandle) *nodeSlot {
	if h < 0 || int(h) >= len(g.nodes) {
		return nil
	}
	return g.nodes[h]
}

func (g *Graph) conn(h ConnHandle) *connSlot {
	if h < 0 || int(h) >= len(g.conns) {
		return nil
	}
	return g.conns[h]
}

// Ref returns a reference to the node with handle h.
func (g *Graph) Ref(h NodeHandle) NodeRef { return NodeRef{g: g, h: h} }

// ConnRef returns a reference to the connection with handle h.
func (g *Graph) ConnRef(h ConnHandle) ConnRef { return ConnRef{g: g, h: h} }

// Find looks up a node by name.
func (g *Graph) Find(name string) (NodeRef, bool) {
	for _, h := range g.order {
		if g.nodes[h].name == name {
			return NodeRef{g: g, h: h}, true
		}
	}
	return NodeRef{}, false
}

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() []NodeRef {
	out := make([]NodeRef, len(g.order))
	for i, h := range g.order {
		out[i] = NodeRef{g: g, h: h}
	}
	return out
}

// NodesByID returns every node ordered by its numbering ID.
func (g *Graph) NodesByID() []NodeRef {
	out := g.Nodes()
	slices.SortFunc(out, func(a, b NodeRef) int { return a.ID() - b.ID() })
	return out
}

// Prime returns the entry node, or an invalid reference if none is set.
func (g *Graph) Prime() NodeRef {
	if g.prime == NoNode {
		return NodeRef{}
	}
	return NodeRef{g: g, h: g.prime}
}

// SetPrime makes h the entry node.
func (g *Graph) SetPrime(h NodeHandle) error {
	if h != NoNode && g.node(h) == nil {
		return fmt.Errorf("graph %q: %w: %d", g.name, ErrUnknownNode, h)
	}
	if g.running || g.paused {
		g.logger.Warn("Changing the prime node of an active graph.", "graph", g.name)
	}
	g.prime = h
	g.UpdateNodeIDs()
	return nil
}

// AddNode inserts n under name. The first node added becomes the prime node.
// Names are optional but must be unique when given.
func (g *Graph) AddNode(name string, n Node) (NodeRef, error) {
	if n == nil {
		return NodeRef{}, fmt.Errorf("graph %q: cannot add a nil node", g.name)
	}
	if name != "" {
		if _, exists := g.Find(name); exists {
			return NodeRef{}, fmt.Errorf("graph %q: %w: %q", g.name, ErrDuplicateNode, name)
		}
	}
	h := NodeHandle(len(g.nodes))
	g.nodes = append(g.nodes, &nodeSlot{node: n, name: name, id: len(g.order)})
	g.order = append(g.order, h)
	if g.prime == NoNode {
		g.prime = h
	}
	g.UpdateNodeIDs()
	return NodeRef{g: g, h: h}, nil
}

// MustAddNode is AddNode for static graph construction; it panics on error.
func (g *Graph) MustAddNode(name string, n Node) NodeRef {
	ref, err := g.AddNode(name, n)
	if err != nil {
		panic(err)
	}
	return ref
}

// RemoveNode disconnects every edge of h and then deletes it.
func (g *Graph) RemoveNode(h NodeHandle) error {
	s := g.node(h)
	if s == nil {
		return fmt.Errorf("graph %q: %w: %d", g.name, ErrUnknownNode, h)
	}
	g.resetNode(h, false)
	for len(s.in) > 0 {
		if err := g.Disconnect(s.in[len(s.in)-1]); err != nil {
			return err
		}
	}
	for len(s.out) > 0 {
		if err := g.Disconnect(s.out[len(s.out)-1]); err != nil {
			return err
		}
	}
	g.nodes[h] = nil
	g.order = slices.DeleteFunc(g.order, func(x NodeHandle) bool { return x == h })
	if g.prime == h {
		g.prime = NoNode
	}
	g.UpdateNodeIDs()
	return nil
}

// CanConnect reports why an edge from src to dst would be illegal, or nil.
func (g *Graph) CanConnect(src, dst NodeHandle) error {
	s, t := g.node(src), g.node(dst)
	if s == nil || t == nil {
		return fmt.Errorf("graph %q: %w", g.name, ErrUnknownNode)
	}
	if src == dst {
		return ErrSelfConnection
	}
	_, maxOut := limitsOf(s.node)
	if maxOut != Unbounded && len(s.out) >= maxOut {
		return ErrOutLimit
	}
	maxIn, _ := limitsOf(t.node)
	if dst == g.prime && maxIn == 1 {
		return ErrPrimeParent
	}
	if maxIn != Unbounded && len(t.in) >= maxIn {
		return ErrInLimit
	}
	if g.checkCycles && g.reaches(dst, src) {
		return ErrCycle
	}
	return nil
}

// Connect adds an edge from src to dst at position index among src's
// outgoing edges (-1 appends). A nil behaviour is supplied by the source
// node's ConnectionFactory, or defaults to Forward.
func (g *Graph) Connect(src, dst NodeHandle, index int, behaviour Connection) (ConnRef, error) {
	if err := g.CanConnect(src, dst); err != nil {
		g.logger.Debug("Connection refused.", "graph", g.name, "source", g.Ref(src).String(), "target", g.Ref(dst).String(), "error", err)
		return ConnRef{}, fmt.Errorf("graph %q: %w", g.name, err)
	}
	s, t := g.nodes[src], g.nodes[dst]
	if behaviour == nil {
		if f, ok := s.node.(ConnectionFactory); ok {
			behaviour = f.NewConnection()
		} else {
			behaviour = Forward{}
		}
	}

	h := ConnHandle(len(g.conns))
	g.conns = append(g.conns, &connSlot{conn: behaviour, source: src, target: dst, active: true})
	if index < 0 || index > len(s.out) {
		index = len(s.out)
	}
	s.out = slices.Insert(s.out, index, h)
	t.in = append(t.in, h)

	ref := ConnRef{g: g, h: h}
	if o, ok := s.node.(EdgeObserver); ok {
		o.OnConnected(NodeRef{g: g, h: src}, ref)
	}
	if o, ok := t.node.(EdgeObserver); ok {
		o.OnConnected(NodeRef{g: g, h: dst}, ref)
	}
	g.UpdateNodeIDs()
	return ref, nil
}

// MustConnect is Connect for static graph construction; it panics on error.
func (g *Graph) MustConnect(src, dst NodeRef) ConnRef {
	c, err := g.Connect(src.h, dst.h, -1, nil)
	if err != nil {
		panic(err)
	}
	return c
}

// Disconnect resets the edge, notifies both endpoints and unlinks it.
func (g *Graph) Disconnect(h ConnHandle) error {
	c := g.conn(h)
	if c == nil {
		return fmt.Errorf("graph %q: %w: %d", g.name, ErrUnknownConn, h)
	}
	g.resetConn(h, true)

	ref := ConnRef{g: g, h: h}
	if o, ok := g.nodes[c.source].node.(EdgeObserver); ok {
		o.OnDisconnected(NodeRef{g: g, h: c.source}, ref)
	}
	if o, ok := g.nodes[c.target].node.(EdgeObserver); ok {
		o.OnDisconnected(NodeRef{g: g, h: c.target}, ref)
	}

	s, t := g.nodes[c.source], g.nodes[c.target]
	s.out = slices.DeleteFunc(s.out, func(x ConnHandle) bool { return x == h })
	t.in = slices.DeleteFunc(t.in, func(x ConnHandle) bool { return x == h })
	g.conns[h] = nil
	g.UpdateNodeIDs()
	return nil
}

// MoveConnection reorders an edge among its source's outgoing edges.
func (g *Graph) MoveConnection(h ConnHandle, index int) error {
	c := g.conn(h)
	if c == nil {
		return fmt.Errorf("graph %q: %w: %d", g.name, ErrUnknownConn, h)
	}
	s := g.nodes[c.source]
	s.out = slices.DeleteFunc(s.out, func(x ConnHandle) bool { return x == h })
	if index < 0 || index > len(s.out) {
		index = len(s.out)
	}
	s.out = slices.Insert(s.out, index, h)
	g.UpdateNodeIDs()
	return nil
}

// reaches reports whether to is reachable from from.
func (g *Graph) reaches(from, to NodeHandle) bool {
	seen := make(map[NodeHandle]bool)
	stack := []NodeHandle{from}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if h == to {
			return true
		}
		if seen[h] {
			continue
		}
		seen[h] = true
		for _, c := range g.nodes[h].out {
			stack = append(stack, g.conns[c].target)
		}
	}
	return false
}
