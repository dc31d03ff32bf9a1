package resolver

import (
	"strings"

	"github.com/vk/bindgraph/internal/dag"
	"github.com/vk/bindgraph/internal/diag"
	"github.com/vk/bindgraph/internal/key"
)

const cycleHint = "request one of the dependencies in the cycle as Provider<T> or Lazy<T>"

// assemble redirects alias edges, classifies edges, prunes to what the
// roots reach, judges cycles and computes the construction order.
func (res *resolution) assemble() {
	bg := res.bg

	res.redirectAliases()
	res.classifyEdges()
	res.collectReachable()

	bg.deps = dag.New()
	for _, id := range bg.reachable {
		bg.deps.AddNode(int(id))
	}
	for _, id := range bg.reachable {
		for _, e := range bg.edges[id] {
			if e.Resolved() && e.Graph == bg && bg.inPlan[e.Target] {
				// Both endpoints are plan nodes, AddEdge cannot fail.
				_ = bg.deps.AddEdge(int(e.Target), int(id), e.Deferred)
			}
		}
	}

	cycles := bg.deps.DetectCycles()
	for _, c := range cycles {
		res.reportCycle(c)
	}
	res.logger.Debug("Checked strict cycles.", "nodes", len(bg.reachable), "cycles", len(cycles))

	res.classifyAccess()

	if bg.errors > 0 {
		return
	}
	order, err := bg.deps.TopologicalOrder()
	if err != nil {
		return
	}
	bg.order = make([]key.ID, 0, len(order))
	for _, id := range order {
		bg.order = append(bg.order, key.ID(id))
	}
}

// finalTarget follows alias edges from id. ok is false on an alias loop.
func (res *resolution) finalTarget(id key.ID) (Edge, bool) {
	bg := res.bg
	seen := map[key.ID]bool{}
	path := []key.ID{}
	for {
		b := bg.bindings[id]
		if b == nil || !b.IsAlias() {
			return Edge{Target: id, Graph: bg}, true
		}
		if seen[id] {
			res.reportAliasLoop(path, id)
			return Edge{Target: -1, Missing: true}, false
		}
		seen[id] = true
		path = append(path, id)

		edges := bg.edges[id]
		if len(edges) != 1 {
			return Edge{Target: -1, Missing: true}, false
		}
		e := edges[0]
		if !e.Resolved() || e.Graph != bg {
			return e, true
		}
		id = e.Target
	}
}

func (res *resolution) redirectAliases() {
	bg := res.bg
	redirect := func(e Edge) Edge {
		if !e.Resolved() || e.Graph != bg {
			return e
		}
		if b := bg.bindings[e.Target]; b == nil || !b.IsAlias() {
			return e
		}
		final, _ := res.finalTarget(e.Target)
		final.Site = e.Site
		return final
	}
	for id, b := range bg.bindings {
		if b == nil || b.IsAlias() {
			continue
		}
		for i, e := range bg.edges[id] {
			bg.edges[id][i] = redirect(e)
		}
	}
	for i, r := range bg.Roots {
		bg.Roots[i].Edge = redirect(r.Edge)
	}
	// Alias edges point straight at the final target too, so lookups from
	// extensions need a single hop.
	for id, b := range bg.bindings {
		if b != nil && b.IsAlias() && len(bg.edges[id]) == 1 {
			final, _ := res.finalTarget(key.ID(id))
			final.Site = bg.edges[id][0].Site
			bg.edges[id][0] = final
		}
	}
}

// deferrable reports whether e may be satisfied after its requester exists.
func deferrable(e Edge) bool {
	if e.Site.Request.IsDeferrable {
		return true
	}
	if e.Absent != nil {
		return e.Absent.IsImplicitlyDeferrable()
	}
	if !e.Resolved() {
		return false
	}
	b := e.Graph.BindingAt(e.Target)
	return b != nil && b.IsImplicitlyDeferrable()
}

func (res *resolution) classifyEdges() {
	bg := res.bg
	for id := range bg.edges {
		for i := range bg.edges[id] {
			bg.edges[id][i].Deferred = deferrable(bg.edges[id][i])
		}
	}
	for i := range bg.Roots {
		bg.Roots[i].Edge.Deferred = deferrable(bg.Roots[i].Edge)
	}
}

func (res *resolution) collectReachable() {
	bg := res.bg
	var visit func(id key.ID)
	visit = func(id key.ID) {
		if bg.inPlan[id] {
			return
		}
		b := bg.bindings[id]
		if b == nil || b.IsAlias() || b.IsTransient() {
			return
		}
		bg.inPlan[id] = true
		bg.reachable = append(bg.reachable, id)
		for _, e := range bg.edges[id] {
			if e.Resolved() && e.Graph == bg {
				visit(e.Target)
			}
		}
	}
	for _, r := range bg.Roots {
		if r.Edge.Resolved() && r.Edge.Graph == bg {
			visit(r.Edge.Target)
		}
	}
}

// classifyAccess marks bindings that generated code must reach lazily.
func (res *resolution) classifyAccess() {
	bg := res.bg
	bg.deferred = make(map[key.ID]bool)
	mark := func(e Edge) {
		if e.Deferred && e.Resolved() && e.Graph == bg {
			bg.deferred[e.Target] = true
		}
	}
	for _, r := range bg.Roots {
		mark(r.Edge)
	}
	for _, id := range bg.reachable {
		for _, e := range bg.edges[id] {
			mark(e)
		}
		req, lazy := res.lazyElems[id]
		if !lazy {
			continue
		}
		// Edges follow DependencySites, so they line up with the deps.
		deps := bg.bindings[id].DependenciesFor(req)
		for i, e := range bg.edges[id] {
			if i < len(deps) && deps[i].IsDeferrable && e.Resolved() && e.Graph == bg {
				bg.deferred[e.Target] = true
			}
		}
	}
}

func (res *resolution) reportCycle(c []int) {
	bg := res.bg
	names := make([]string, 0, len(c))
	lines := make([]string, 0, len(c))
	for i, id := range c {
		names = append(names, bg.Key(key.ID(id)).String())
		if i < len(c)-1 {
			lines = append(lines, "    "+bg.bindings[id].Describe())
		}
	}
	res.report(diag.CycleError, cycleHint,
		"found a dependency cycle: %s\n%s", strings.Join(names, " -> "), strings.Join(lines, "\n"))
}

func (res *resolution) reportAliasLoop(path []key.ID, again key.ID) {
	start := 0
	for i, id := range path {
		if id == again {
			start = i
			break
		}
	}
	cycle := path[start:]
	first := 0
	for i, id := range cycle {
		if id < cycle[first] {
			first = i
		}
	}
	loop := append(append(append([]key.ID(nil), cycle[first:]...), cycle[:first]...), cycle[first])
	names := make([]string, 0, len(loop))
	for _, id := range loop {
		names = append(names, res.bg.Key(id).String())
	}
	chain := strings.Join(names, " -> ")
	if !res.once("aliasloop|" + res.bg.Key(loop[0]).String()) {
		return
	}
	locs := make([]string, 0, len(loop)-1)
	for _, id := range loop[:len(loop)-1] {
		locs = append(locs, "    "+res.bg.bindings[id].Describe())
	}
	res.report(diag.CycleError, "an alias must eventually bind to a non-alias binding",
		"found an alias cycle: %s\n%s", chain, strings.Join(locs, "\n"))
}
