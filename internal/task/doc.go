// Package task defines the leaf work units attached to graph nodes. Actions
// may span several ticks and expose stop and pause hooks; conditions resolve
// within one tick.
//
// Tasks declare the variable handles they use through a static Bindings
// table instead of being inspected at run time. Init binds every handle to
// the graph's blackboard and refuses to activate a task whose required
// bindings are empty.
package task
