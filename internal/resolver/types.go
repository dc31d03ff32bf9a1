package resolver

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/vk/bindgraph/internal/binding"
	"github.com/vk/bindgraph/internal/container"
	"github.com/vk/bindgraph/internal/dag"
	"github.com/vk/bindgraph/internal/key"
	"github.com/vk/bindgraph/internal/multibind"
	"github.com/vk/bindgraph/internal/scope"
)

// Options configures resolution.
type Options struct {
	OptionalMode scope.OptionalMode
	// FullValidation resolves every declared candidate for diagnostics. The
	// plan still contains only what the roots reach.
	FullValidation bool
}

// RootKind classifies a graph entry point.
type RootKind int

const (
	AccessorRoot RootKind = iota
	InjectorRoot
	ExtensionRoot
)

// String returns the human-readable root kind.
func (k RootKind) String() string {
	switch k {
	case AccessorRoot:
		return "accessor"
	case InjectorRoot:
		return "injector"
	case ExtensionRoot:
		return "extension"
	default:
		return "unknown"
	}
}

// Root is one entry point of a graph with its resolved edge.
type Root struct {
	Kind RootKind
	Name string
	Edge Edge
}

// Edge is one resolved dependency request.
type Edge struct {
	Site binding.Site
	// Target indexes the arena of Graph. It is -1 for absent or missing
	// requests.
	Target key.ID
	// Graph owns Target; it is an ancestor for inherited edges.
	Graph *BindingGraph
	// Inherited is set when the request is satisfied by an ancestor graph.
	Inherited bool
	// Absent is the transient binding of an optional request without a
	// binding; its default is used verbatim.
	Absent *binding.Binding
	// Deferred is set when the target need not exist when the requester is
	// constructed.
	Deferred bool
	// Missing is set when the request could not be satisfied.
	Missing bool
}

// Resolved reports whether the edge points at a binding.
func (e Edge) Resolved() bool {
	return e.Target >= 0 && e.Graph != nil
}

// BindingGraph is the resolved, validated graph of one graph declaration.
// It is immutable once Resolve returns.
type BindingGraph struct {
	Name   string
	Parent *BindingGraph
	Scopes scope.Chain
	Range  hcl.Range
	// Dynamic lists the caller-supplied containers, sorted.
	Dynamic []string
	Roots   []Root

	keys      *key.Interner
	bindings  []*binding.Binding
	edges     [][]Edge
	reachable []key.ID
	inPlan    map[key.ID]bool
	order     []key.ID
	deferred  map[key.ID]bool
	deps      *dag.Graph
	errors    int

	set   *container.Set
	multi *multibind.Result
}

// Valid reports whether resolution produced no errors.
func (g *BindingGraph) Valid() bool {
	return g.errors == 0
}

// Key returns the key interned as id.
func (g *BindingGraph) Key(id key.ID) key.Key {
	return g.keys.Key(id)
}

// ID returns the arena id of k, if k was requested while resolving.
func (g *BindingGraph) ID(k key.Key) (key.ID, bool) {
	return g.keys.Lookup(k)
}

// BindingAt returns the binding stored at id.
func (g *BindingGraph) BindingAt(id key.ID) *binding.Binding {
	if int(id) < 0 || int(id) >= len(g.bindings) {
		return nil
	}
	return g.bindings[id]
}

// Binding returns the binding resolved for k in this graph's own arena.
func (g *BindingGraph) Binding(k key.Key) (*binding.Binding, bool) {
	id, ok := g.keys.Lookup(k)
	if !ok {
		return nil, false
	}
	b := g.BindingAt(id)
	return b, b != nil
}

// Edges returns the resolved dependency edges of the binding at id, aliases
// already redirected to their final target.
func (g *BindingGraph) Edges(id key.ID) []Edge {
	if int(id) >= len(g.edges) {
		return nil
	}
	return g.edges[id]
}

// Reachable returns the plan bindings reachable from the roots, in
// discovery order. Aliases and transient bindings are excluded.
func (g *BindingGraph) Reachable() []key.ID {
	return g.reachable
}

// InPlan reports whether id is a plan binding of this graph.
func (g *BindingGraph) InPlan(id key.ID) bool {
	return g.inPlan[id]
}

// Order returns the reachable bindings with every strict dependency before
// its dependents. It is nil when the graph is invalid.
func (g *BindingGraph) Order() []key.ID {
	return g.order
}

// IsDeferred reports whether the binding at id is requested through a
// deferrable edge anywhere in the graph, so generated code must access it
// lazily.
func (g *BindingGraph) IsDeferred(id key.ID) bool {
	return g.deferred[id]
}

// Dependencies returns the strict/deferred dependency graph of the plan.
func (g *BindingGraph) Dependencies() *dag.Graph {
	return g.deps
}

// Ancestors returns the parent chain, nearest first.
func (g *BindingGraph) Ancestors() []*BindingGraph {
	var out []*BindingGraph
	for p := g.Parent; p != nil; p = p.Parent {
		out = append(out, p)
	}
	return out
}

// lookupResolved finds a plan binding for k in g, following aliases.
func (g *BindingGraph) lookupResolved(k key.Key) (key.ID, bool) {
	id, ok := g.keys.Lookup(k)
	if !ok {
		return -1, false
	}
	if b := g.BindingAt(id); b != nil && b.IsAlias() {
		edges := g.Edges(id)
		if len(edges) != 1 || !edges[0].Resolved() || edges[0].Graph != g {
			return -1, false
		}
		id = edges[0].Target
	}
	return id, g.inPlan[id]
}
