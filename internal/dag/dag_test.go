package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dependsOn records that x depends on y.
func dependsOn(t *testing.T, g *Graph, x, y int, deferred bool) {
	t.Helper()
	require.NoError(t, g.AddEdge(y, x, deferred))
}

func newGraph(ids ...int) *Graph {
	g := New()
	for _, id := range ids {
		g.AddNode(id)
	}
	return g
}

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.NotNil(t, g.nodes)
	assert.Empty(t, g.nodes)
}

func TestAddNode(t *testing.T) {
	g := New()

	g.AddNode(7)
	assert.Len(t, g.nodes, 1)
	assert.True(t, g.Has(7))

	g.AddNode(7) // Test idempotency
	assert.Len(t, g.nodes, 1)

	g.AddNode(3)
	assert.Equal(t, []int{7, 3}, g.Nodes(), "insertion order is kept")
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := newGraph(0, 1)
		dependsOn(t, g, 1, 0, false)

		deps, err := g.Dependencies(1)
		require.NoError(t, err)
		assert.Equal(t, []Edge{{ID: 0}}, deps)

		dependents, err := g.Dependents(0)
		require.NoError(t, err)
		assert.Equal(t, []Edge{{ID: 1}}, dependents)
	})

	t.Run("repeated edge stays strict", func(t *testing.T) {
		g := newGraph(0, 1)
		dependsOn(t, g, 1, 0, true)
		dependsOn(t, g, 1, 0, false)
		dependsOn(t, g, 1, 0, true)

		deps, _ := g.Dependencies(1)
		assert.Equal(t, []Edge{{ID: 0, Deferred: false}}, deps)
		dependents, _ := g.Dependents(0)
		assert.Equal(t, []Edge{{ID: 1, Deferred: false}}, dependents)
	})

	t.Run("error cases", func(t *testing.T) {
		g := newGraph(0)

		err := g.AddEdge(9, 0, false)
		assert.ErrorContains(t, err, "source node not found")

		err = g.AddEdge(0, 9, false)
		assert.ErrorContains(t, err, "destination node not found")

		_, err = g.Dependencies(9)
		assert.ErrorContains(t, err, "node not found")
	})
}

func TestDetectCycles(t *testing.T) {
	t.Run("empty graph has no cycles", func(t *testing.T) {
		assert.Empty(t, New().DetectCycles())
	})

	t.Run("valid dag has no cycles", func(t *testing.T) {
		g := newGraph(0, 1, 2, 3)
		dependsOn(t, g, 1, 0, false)
		dependsOn(t, g, 2, 1, false)
		dependsOn(t, g, 2, 0, false) // Transitive edge
		dependsOn(t, g, 3, 2, false)
		assert.Empty(t, g.DetectCycles())
	})

	t.Run("simple strict cycle is detected once", func(t *testing.T) {
		g := newGraph(0, 1)
		dependsOn(t, g, 0, 1, false)
		dependsOn(t, g, 1, 0, false)
		assert.Equal(t, [][]int{{0, 1, 0}}, g.DetectCycles())
	})

	t.Run("cycle with a deferred edge is tolerated", func(t *testing.T) {
		g := newGraph(0, 1)
		dependsOn(t, g, 0, 1, false)
		dependsOn(t, g, 1, 0, true)
		assert.Empty(t, g.DetectCycles())
	})

	t.Run("longer cycle is rendered in dependency direction", func(t *testing.T) {
		g := newGraph(0, 1, 2, 3)
		dependsOn(t, g, 0, 1, false)
		dependsOn(t, g, 1, 2, false)
		dependsOn(t, g, 2, 3, false)
		dependsOn(t, g, 3, 0, false)
		assert.Equal(t, [][]int{{0, 1, 2, 3, 0}}, g.DetectCycles())
	})

	t.Run("strict self edge is a cycle, deferred one is not", func(t *testing.T) {
		g := newGraph(0, 1)
		dependsOn(t, g, 0, 0, false)
		dependsOn(t, g, 1, 1, true)
		assert.Equal(t, [][]int{{0, 0}}, g.DetectCycles())
	})

	t.Run("every elementary cycle of a component is reported", func(t *testing.T) {
		// Component 1 (valid)
		g := newGraph(0, 1, 5, 6, 7)
		dependsOn(t, g, 1, 0, false)

		// Component 2 has two overlapping cycles through 6.
		dependsOn(t, g, 5, 6, false)
		dependsOn(t, g, 6, 5, false)
		dependsOn(t, g, 6, 7, false)
		dependsOn(t, g, 7, 6, false)

		assert.Equal(t, [][]int{{5, 6, 5}, {6, 7, 6}}, g.DetectCycles())
	})

	t.Run("cycles sharing a start are reported separately", func(t *testing.T) {
		g := newGraph(0, 1, 2)
		dependsOn(t, g, 0, 1, false)
		dependsOn(t, g, 0, 2, false)
		dependsOn(t, g, 1, 0, false)
		dependsOn(t, g, 2, 0, false)

		assert.Equal(t, [][]int{{0, 1, 0}, {0, 2, 0}}, g.DetectCycles())
	})

	t.Run("a triangle with a chord holds two cycles", func(t *testing.T) {
		g := newGraph(0, 1, 2)
		dependsOn(t, g, 0, 1, false)
		dependsOn(t, g, 1, 2, false)
		dependsOn(t, g, 2, 0, false)
		dependsOn(t, g, 1, 0, false)

		assert.Equal(t, [][]int{{0, 1, 2, 0}, {0, 1, 0}}, g.DetectCycles())
	})
}

func TestTopologicalOrder(t *testing.T) {
	t.Run("dependencies come first, ties by insertion", func(t *testing.T) {
		g := newGraph(10, 20, 30, 40)
		dependsOn(t, g, 10, 30, false)
		dependsOn(t, g, 20, 40, false)

		order, err := g.TopologicalOrder()
		require.NoError(t, err)
		assert.Equal(t, []int{30, 10, 40, 20}, order)
	})

	t.Run("deferred edges do not constrain order", func(t *testing.T) {
		g := newGraph(0, 1)
		dependsOn(t, g, 0, 1, false)
		dependsOn(t, g, 1, 0, true)

		order, err := g.TopologicalOrder()
		require.NoError(t, err)
		assert.Equal(t, []int{1, 0}, order)
	})

	t.Run("strict cycle fails", func(t *testing.T) {
		g := newGraph(0, 1)
		dependsOn(t, g, 0, 1, false)
		dependsOn(t, g, 1, 0, false)

		_, err := g.TopologicalOrder()
		assert.ErrorIs(t, err, ErrCyclic)
	})
}
