// Package blackboard implements named stores of typed variable slots and the
// Param handle that lets any task or node parameter be either a literal value
// or a reference into a store.
//
// Slots hold cty values so that stores stay dynamically typed while every
// slot still carries a declared type. A Param resolves its variable name
// lazily: a bare name addresses the handle's own bound store, while a
// "store/name" path addresses a shared store registered in the session's
// Registry. The resolved slot is memoized until the bound store or the name
// changes.
//
// Stores are not safe for concurrent use. A session ticks its graphs from a
// single goroutine.
package blackboard
