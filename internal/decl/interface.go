package decl

import "context"

//go:generate mockgen -source=interface.go -package=decl -destination=loader_mock.go

// Loader is the interface for a format-specific declaration front-end.
type Loader interface {
	// Load reads declarations from the given files or directories and
	// translates them into the format-agnostic model. Problems that can be
	// attributed to a source position are returned as hcl.Diagnostics
	// wrapped in the error.
	Load(ctx context.Context, paths ...string) (*Model, error)

	// Parse translates a single in-memory source document.
	Parse(ctx context.Context, filename string, src []byte) (*Model, error)
}
