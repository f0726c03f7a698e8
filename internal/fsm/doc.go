// Package fsm runs finite-state machines on the graph execution protocol.
//
// A Machine is a graph whose nodes are states and whose connections are
// transitions. Exactly one state is current at a time. Each tick the
// machine checks the transitions of the AnyState nodes and then those of
// the current state, following the first one that passes; otherwise the
// current state keeps executing.
//
//	+------+  has_target  +-------+
//	| Idle | -----------> | Chase |
//	+------+ <----------- +-------+
//	             lost
//
// A transition passes when its condition holds, or, for a transition
// without a condition, when its source state is no longer Running.
// Entering a state resets the previous one first, which runs its exit hook
// and stops its action.
package fsm
