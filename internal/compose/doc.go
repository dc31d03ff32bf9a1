// Package compose coordinates the resolution of every graph of one
// compilation. It resolves independent graphs in parallel, resolves each
// extension's parent first, validates dynamic graph arguments and caches
// resolved graphs by (graph, container set) until Close.
package compose
