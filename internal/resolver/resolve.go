package resolver

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/vk/bindgraph/internal/binding"
	"github.com/vk/bindgraph/internal/container"
	"github.com/vk/bindgraph/internal/ctxlog"
	"github.com/vk/bindgraph/internal/decl"
	"github.com/vk/bindgraph/internal/diag"
	"github.com/vk/bindgraph/internal/key"
	"github.com/vk/bindgraph/internal/multibind"
	"github.com/vk/bindgraph/internal/scope"
)

// Resolver resolves graph declarations of one model.
type Resolver struct {
	model *decl.Model
	opts  Options
}

// New creates a resolver over model.
func New(model *decl.Model, opts Options) *Resolver {
	if opts.OptionalMode == "" {
		opts.OptionalMode = scope.Default
	}
	return &Resolver{model: model, opts: opts}
}

type status int

const (
	unvisited status = iota
	visiting
	done
)

type frame struct {
	id   key.ID
	site binding.Site
}

// resolution is the mutable state of resolving one graph. It is owned by a
// single goroutine.
type resolution struct {
	r      *Resolver
	logger *slog.Logger
	decl   *decl.Graph
	bg     *BindingGraph
	rep    *diag.Reporter

	status      []status
	stack       []frame
	reported    map[string]bool
	lazyElems   map[key.ID]key.ContextualKey
	validations int
}

// Resolve resolves graph g. parent is the already resolved parent of an
// extension, nil otherwise; dynamic names caller-supplied containers.
// Diagnostics go to rep; the returned graph is never nil.
func (r *Resolver) Resolve(ctx context.Context, g *decl.Graph, parent *BindingGraph, dynamic []string, rep *diag.Reporter) *BindingGraph {
	logger := ctxlog.FromContext(ctx).With("graph", g.Name)
	ctx = ctxlog.WithLogger(ctx, logger)

	sorted := slices.Clone(dynamic)
	slices.Sort(sorted)

	set := container.Collect(ctx, r.model, g, sorted)
	bg := &BindingGraph{
		Name:    g.Name,
		Parent:  parent,
		Range:   g.Range,
		Dynamic: sorted,
		keys:    key.NewInterner(),
		inPlan:  make(map[key.ID]bool),
		set:     set,
		multi:   multibind.Aggregate(set),
	}
	if parent != nil {
		bg.Scopes = scope.NewChain(g.Scopes, parent.Scopes)
		inherited := make([]*multibind.Result, 0, len(bg.Ancestors()))
		for _, anc := range bg.Ancestors() {
			inherited = append(inherited, anc.multi)
		}
		bg.multi.Inherit(inherited...)
	} else {
		bg.Scopes = scope.NewChain(g.Scopes)
	}

	res := &resolution{
		r:         r,
		logger:    logger,
		decl:      g,
		bg:        bg,
		rep:       rep,
		reported:  make(map[string]bool),
		lazyElems: make(map[key.ID]key.ContextualKey),
	}

	logger.Debug("Resolving graph roots.", "scopes", []string(bg.Scopes))
	res.resolveRoots()
	if r.opts.FullValidation {
		res.validateAll()
		logger.Debug("Validated declared candidates.", "count", res.validations)
	}
	res.assemble()

	logger.Debug("Graph resolved.", "bindings", len(bg.reachable), "errors", bg.errors)
	return bg
}

func (res *resolution) report(code diag.Code, hint, format string, args ...any) {
	res.bg.errors++
	res.rep.Errorf(code, res.decl.Range, res.decl.Name, hint, format, args...)
}

// reportSite reports at the request site when its range is known.
func (res *resolution) reportSite(site binding.Site, code diag.Code, hint, format string, args ...any) {
	rng := site.Range
	if rng.Filename == "" {
		rng = res.decl.Range
	}
	res.bg.errors++
	res.rep.Errorf(code, rng, res.decl.Name, hint, format, args...)
}

// once reports whether the event id is seen for the first time.
func (res *resolution) once(id string) bool {
	if res.reported[id] {
		return false
	}
	res.reported[id] = true
	return true
}

func (res *resolution) resolveRoots() {
	g := res.decl
	for _, acc := range g.Accessors {
		site, err := container.SiteFor(acc)
		if err != nil {
			res.report(diag.MissingBinding, "", "%s.%s: %v", g.Name, acc.Name, err)
			continue
		}
		site.Accessor = true
		res.bg.Roots = append(res.bg.Roots, Root{Kind: AccessorRoot, Name: acc.Name, Edge: res.resolve(site)})
	}

	for _, inj := range g.Injectors {
		k := key.New(membersInjectorType(inj.Type), "")
		site := binding.Site{Name: inj.Name, Request: key.DirectOf(k), Range: inj.Range}
		res.bg.Roots = append(res.bg.Roots, Root{Kind: InjectorRoot, Name: inj.Name, Edge: res.resolve(site)})
	}

	for _, ext := range g.Extensions {
		k := key.New(ext+".Factory", "")
		b := binding.New(binding.ExtensionFactory, k)
		b.Owner = g.Name
		b.Member = ext
		b.Range = g.Range
		site := binding.Site{Name: ext, Request: key.DirectOf(k), Range: g.Range}
		res.bg.Roots = append(res.bg.Roots, Root{Kind: ExtensionRoot, Name: ext, Edge: res.resolveWith(site, b)})
	}
}

// validateAll resolves every declared candidate not reached from a root.
func (res *resolution) validateAll() {
	keys := slices.Clone(res.bg.set.Keys())
	keys = append(keys, res.bg.multi.Keys()...)
	for _, k := range keys {
		if id, ok := res.bg.keys.Lookup(k); ok && res.statusOf(id) != unvisited {
			continue
		}
		res.validations++
		res.resolve(binding.Site{Name: "validation", Request: key.DirectOf(k), Range: res.decl.Range})
	}
}

func (res *resolution) statusOf(id key.ID) status {
	if int(id) < len(res.status) {
		return res.status[id]
	}
	return unvisited
}

func (res *resolution) intern(k key.Key) key.ID {
	id := res.bg.keys.Intern(k)
	for len(res.status) <= int(id) {
		res.status = append(res.status, unvisited)
		res.bg.bindings = append(res.bg.bindings, nil)
		res.bg.edges = append(res.bg.edges, nil)
	}
	return id
}

// resolve resolves one request site to an edge.
func (res *resolution) resolve(site binding.Site) Edge {
	k := site.Request.Key
	if id, ok := res.bg.keys.Lookup(k); ok && res.statusOf(id) != unvisited {
		res.noteElements(id, site)
		return res.localEdge(site, id)
	}

	if b, ok := res.candidate(k); ok {
		return res.resolveWith(site, b)
	}

	for _, anc := range res.bg.Ancestors() {
		if id, ok := anc.lookupResolved(k); ok {
			return Edge{Site: site, Target: id, Graph: anc, Inherited: true}
		}
	}
	for _, anc := range res.bg.Ancestors() {
		if b, ok := declaredIn(anc, k); ok {
			return res.resolveWith(site, b)
		}
	}

	if b, ok := res.implicitBinding(k); ok {
		return res.resolveWith(site, b)
	}
	if res.assistedMisuse(site) {
		return Edge{Site: site, Target: -1, Missing: true}
	}

	if scope.IsOptional(site, res.r.opts.OptionalMode) {
		owner := res.decl.Name
		if len(res.stack) > 0 {
			owner = res.bg.bindings[res.stack[len(res.stack)-1].id].Location()
		}
		return Edge{Site: site, Target: -1, Absent: binding.NewAbsent(k, site, owner)}
	}

	res.missing(site)
	return Edge{Site: site, Target: -1, Missing: true}
}

// resolveWith memoizes b for its key and resolves its dependencies.
func (res *resolution) resolveWith(site binding.Site, b *binding.Binding) Edge {
	id := res.intern(b.Key())
	if res.statusOf(id) != unvisited {
		return res.localEdge(site, id)
	}
	res.status[id] = visiting
	res.bg.bindings[id] = b
	res.noteElements(id, site)

	if res.bg.Scopes.Conflicts(b) && res.once("scope|"+b.Key().String()) {
		res.report(diag.ScopeConflict, scopeHint(b, res.bg),
			"%s is scoped %s but graph %s only accepts %s\n%s",
			b.Location(), b.Scope, res.decl.Name, scopeList(res.bg.Scopes), res.chainFor(site))
	}
	if b.Kind == binding.Multibinding {
		res.checkMultibinding(b, site)
	}

	res.stack = append(res.stack, frame{id: id, site: site})
	sites := b.DependencySites()
	edges := make([]Edge, 0, len(sites))
	for _, s := range sites {
		edges = append(edges, res.resolve(s))
	}
	res.stack = res.stack[:len(res.stack)-1]

	res.bg.edges[id] = edges
	res.status[id] = done
	return res.localEdge(site, id)
}

func (res *resolution) localEdge(site binding.Site, id key.ID) Edge {
	return Edge{Site: site, Target: id, Graph: res.bg}
}

// noteElements records a request for a collection's values in deferred
// form.
func (res *resolution) noteElements(id key.ID, site binding.Site) {
	if site.Request.Elements != key.Direct {
		res.lazyElems[id] = site.Request
	}
}

// candidate returns the declared binding for k, reporting duplicates once.
func (res *resolution) candidate(k key.Key) (*binding.Binding, bool) {
	cands := res.bg.set.Lookup(k)
	mb, isMulti := res.bg.multi.Lookup(k)

	var all []*binding.Binding
	for _, c := range cands {
		all = append(all, c.Binding)
	}
	if isMulti {
		all = append(all, mb)
	}
	if len(all) == 0 {
		return nil, false
	}
	if len(all) > 1 && res.once("dup|"+k.String()) {
		locs := make([]string, 0, len(all))
		for _, b := range all {
			locs = append(locs, "    "+b.Location())
		}
		res.report(diag.DuplicateBinding, "remove one declaration or move it into a container that replaces the other",
			"%s is bound multiple times:\n%s", k, strings.Join(locs, "\n"))
	}
	return all[0], true
}

// declaredIn returns an ancestor's declared candidate for k.
func declaredIn(anc *BindingGraph, k key.Key) (*binding.Binding, bool) {
	if cands := anc.set.Lookup(k); len(cands) > 0 {
		return cands[0].Binding, true
	}
	return anc.multi.Lookup(k)
}

func (res *resolution) checkMultibinding(b *binding.Binding, site binding.Site) {
	for _, p := range res.bg.multi.Problems(b.Key()) {
		if res.once("mb|" + p.Message) {
			res.bg.errors++
			res.rep.Errorf(p.Code, p.Range, res.decl.Name, p.Hint, "%s", p.Message)
		}
	}
	if len(b.Contributions) == 0 && !b.AllowEmpty && res.once("empty|"+b.Key().String()) {
		res.bg.errors++
		res.rep.Errorf(diag.MissingBinding, b.Range, res.decl.Name,
			"add allow_empty = true to the multibinds declaration, or contribute with into_set/into_map",
			"multibinding %s has no contributions\n%s", b.Key(), res.chainFor(site))
	}
}

func membersInjectorType(t string) string {
	return "MembersInjector<" + t + ">"
}

func scopeList(c scope.Chain) string {
	if len(c) == 0 {
		return "no scopes"
	}
	return strings.Join(c, ", ")
}

func scopeHint(b *binding.Binding, g *BindingGraph) string {
	if g.Parent == nil {
		return "add " + b.Scope + " to the graph's scopes, or install the binding in a graph that declares it"
	}
	return "install the binding in a graph or ancestor that declares " + b.Scope
}
