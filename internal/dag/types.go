package dag

import "sync"

// Graph is a collection of nodes and their dependency edges. All operations
// on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the node maps during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by ID.
	nodes map[int]*node
	// order is node insertion order; it breaks every tie.
	order []int
	pos   map[int]int
}

// Edge is a dependency edge as seen from one endpoint.
type Edge struct {
	ID       int
	Deferred bool
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API.
type node struct {
	id int
	// deps holds the edges to nodes this node depends on, in insertion order.
	deps []Edge
	// dependents holds the edges from nodes that depend on this node.
	dependents []Edge
}
