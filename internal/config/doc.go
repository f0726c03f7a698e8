// Package config defines the format-agnostic definition model for
// blackboards, behaviour trees and state machines, along with the Loader
// interface that format-specific packages implement.
//
// The Model is the single input of the builder. Concrete loaders, such as
// the HCL one, live in separate packages.
package config
