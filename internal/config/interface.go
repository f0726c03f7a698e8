package config

import "context"

// Loader reads definition files into the format-agnostic model.
type Loader interface {
	// Load reads every file matched by paths. A path may be a file, a
	// directory (searched recursively) or a glob pattern.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
