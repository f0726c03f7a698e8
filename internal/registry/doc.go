// Package registry maps the kind names used in definition files (for
// example "sequencer" or "set_var") to the Go factories that build them.
//
// Modules populate the registry at startup through the Module interface;
// registering the same name twice is a programming error and panics. The
// builder then looks kinds up while turning the config model into graphs,
// and Validate checks a model against the registry before anything runs.
package registry
