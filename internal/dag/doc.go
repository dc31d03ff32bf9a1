// Package dag holds the dependency graph of one resolved binding graph as an
// arena of integer node IDs. Edges are either strict or deferrable; only
// strict edges constrain construction order, so only cycles made entirely
// of strict edges are errors.
package dag
