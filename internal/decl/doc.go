// Package decl defines the format-agnostic declaration model consumed by the
// resolution engine, and the Loader interface that front-ends implement to
// produce it.
package decl
