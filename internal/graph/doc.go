// Package graph implements the tick-driven execution protocol shared by
// behaviour trees, state machines and any other node graph.
//
// # Arena
//
// A Graph owns every node and connection in two arenas. Nodes and
// connections never hold pointers to each other; they are addressed by
// NodeHandle and ConnHandle indices, and the NodeRef / ConnRef value types
// pair a handle with its graph for O(1) navigation:
//
//	Graph
//	 ├── nodes []*nodeSlot   (Node, status, in/out handles, guard flags)
//	 └── conns []*connSlot   (Connection, status, source, target, active)
//
// # Execution
//
// A tick runs the graph's Flow, which by default executes the prime node.
// Every NodeRef.Execute and ConnRef.Execute call is guarded against
// re-entry: a node reached again through a cycle while it is still
// executing returns status.Error instead of recursing. Results are cached
// on the slot until the node or connection is reset.
//
// Resetting is the only cancellation mechanism. ResetNode on a Resting
// node is a no-op; otherwise the node's OnReset hook runs, the status
// returns to Resting and, when recursive, every outgoing connection (and
// through it every target) is reset as well.
//
// # Editing
//
// Structural edits validate before changing anything: self connections,
// exceeded degree caps, a second parent for a single-parent prime node and,
// for graphs created WithCycleCheck, cycles are all rejected with an error.
//
// A Graph is driven from a single goroutine.
package graph
