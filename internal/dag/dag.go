package dag

import (
	"errors"
	"fmt"
)

// ErrCyclic is returned by TopologicalOrder when strict edges form a cycle.
var ErrCyclic = errors.New("graph has a cycle of strict edges")

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[int]*node),
		pos:   make(map[int]int),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id int) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &node{id: id}
	g.pos[id] = len(g.order)
	g.order = append(g.order, id)
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. Self edges are
// allowed; a strict one is a cycle. Adding an existing edge again keeps it
// strict if either addition is strict.
func (g *Graph) AddEdge(fromID, toID int, deferred bool) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %d", fromID)
	}
	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %d", toID)
	}

	for i, e := range toNode.deps {
		if e.ID == fromID {
			strict := !(e.Deferred && deferred)
			toNode.deps[i].Deferred = !strict
			for j, d := range fromNode.dependents {
				if d.ID == toID {
					fromNode.dependents[j].Deferred = !strict
				}
			}
			return nil
		}
	}
	toNode.deps = append(toNode.deps, Edge{ID: fromID, Deferred: deferred})
	fromNode.dependents = append(fromNode.dependents, Edge{ID: toID, Deferred: deferred})
	return nil
}

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id int) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns every node ID in insertion order.
func (g *Graph) Nodes() []int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return append([]int(nil), g.order...)
}

// Dependencies returns the edges to the nodes the given node depends on.
func (g *Graph) Dependencies(id int) ([]Edge, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %d", id)
	}
	return append([]Edge(nil), n.deps...), nil
}

// Dependents returns the edges from the nodes that depend on the given node.
func (g *Graph) Dependents(id int) ([]Edge, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %d", id)
	}
	return append([]Edge(nil), n.dependents...), nil
}
