// Package bt builds behaviour trees on top of the graph execution protocol.
//
// A tree is a graph.Graph driven by the Tree flow: every tick executes the
// prime node, and a finished result either stops the graph or, with Repeat,
// resets the tree for the next pass. Composites (Sequencer, Selector,
// PrioritySelector, ProbabilitySelector, Switch, StepIterator, Parallel)
// choose among several children; decorators (ConditionalGate, Interrupt,
// Repeat, Guard, Iterate, Optional, Inverter, Timeout, Cooldown) wrap a
// single child; ActionNode, ConditionNode and SubTree are leaves.
//
// Child errors are failure-like: a Sequencer stops and reports Error, a
// Selector moves on to the next child and reports Error instead of Failure
// when no child succeeds.
package bt
