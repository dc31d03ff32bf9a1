package dag

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"
)

type randomEdge struct {
	from, to int
	deferred bool
}

// genEdges generates up to 30 edges over nodes 0..7.
func genEdges() gopter.Gen {
	return func(genParams *gopter.GenParameters) *gopter.GenResult {
		n := int(genParams.NextUint64() % 30)
		edges := make([]randomEdge, n)
		for i := range edges {
			edges[i] = randomEdge{
				from:     genParams.Rng.Intn(8),
				to:       genParams.Rng.Intn(8),
				deferred: genParams.NextBool(),
			}
		}
		return gopter.NewGenResult(edges, gopter.NoShrinker)
	}
}

func build(edges []randomEdge) *Graph {
	g := New()
	for i := 0; i < 8; i++ {
		g.AddNode(i)
	}
	for _, e := range edges {
		_ = g.AddEdge(e.to, e.from, e.deferred)
	}
	return g
}

func Test_CycleLaw(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("a graph orders iff it has no strict cycle", prop.ForAll(
		func(edges []randomEdge) bool {
			g := build(edges)
			_, err := g.TopologicalOrder()
			return (err == nil) == (len(g.DetectCycles()) == 0)
		},
		genEdges(),
	))

	properties.Property("every reported cycle is a closed path of strict edges", prop.ForAll(
		func(edges []randomEdge) bool {
			g := build(edges)
			for _, c := range g.DetectCycles() {
				if len(c) < 2 || c[0] != c[len(c)-1] {
					return false
				}
				for i := 0; i+1 < len(c); i++ {
					deps, _ := g.Dependencies(c[i])
					found := false
					for _, e := range deps {
						if e.ID == c[i+1] && !e.Deferred {
							found = true
						}
					}
					if !found {
						return false
					}
				}
			}
			return true
		},
		genEdges(),
	))

	properties.Property("detection is deterministic", prop.ForAll(
		func(edges []randomEdge) bool {
			a, b := build(edges).DetectCycles(), build(edges).DetectCycles()
			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if len(a[i]) != len(b[i]) {
					return false
				}
				for j := range a[i] {
					if a[i][j] != b[i][j] {
						return false
					}
				}
			}
			return true
		},
		genEdges(),
	))

	properties.Property("cycles are elementary and start at their earliest member", prop.ForAll(
		func(edges []randomEdge) bool {
			// Nodes are inserted in id order, so earliest means smallest.
			for _, c := range build(edges).DetectCycles() {
				seen := make(map[int]bool)
				for _, id := range c[:len(c)-1] {
					if seen[id] || id < c[0] {
						return false
					}
					seen[id] = true
				}
			}
			return true
		},
		genEdges(),
	))

	properties.Property("no cycle is reported twice", prop.ForAll(
		func(edges []randomEdge) bool {
			seen := make(map[string]bool)
			for _, c := range build(edges).DetectCycles() {
				k := fmt.Sprint(c)
				if seen[k] {
					return false
				}
				seen[k] = true
			}
			return true
		},
		genEdges(),
	))

	properties.TestingRun(t)
}
