// Package builder turns a loaded config.Model into live blackboards and
// graphs for one session.
//
// # Responsibilities
//
//   - Shared stores: every blackboard declared `shared = true` is created
//     once per session and registered so that `shared.<store>.<var>`
//     references resolve.
//   - Private stores: every graph instance gets a fresh copy of its
//     declared blackboard, with defaults applied.
//   - Trees: node kinds are looked up in the registry, children are
//     connected in declaration order and `edge` arguments configure the
//     connection the parent creates for each child.
//   - State machines: states become fsm.State nodes, transitions become
//     conditional connections and any_state transitions hang off a single
//     fsm.AnyState node.
//
// Builder also implements registry.Builder, so node factories can build
// their nested actions, conditions and sub-trees through it.
package builder
