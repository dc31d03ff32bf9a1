package plan

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/bindgraph/internal/binding"
	"github.com/vk/bindgraph/internal/key"
	"github.com/vk/bindgraph/internal/multibind"
	"github.com/vk/bindgraph/internal/resolver"
)

// ErrInvalidGraph is returned by Build for graphs that resolved with errors.
var ErrInvalidGraph = errors.New("graph has resolution errors")

// Build creates the plan of a valid graph. files supplies the source of
// default and body expressions; without it they render as source ranges.
func Build(g *resolver.BindingGraph, files map[string]*hcl.File) (*Plan, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("plan %s: %w", g.Name, ErrInvalidGraph)
	}

	p := &Plan{
		Graph:   g.Name,
		Scopes:  append([]string(nil), g.Scopes...),
		Dynamic: append([]string(nil), g.Dynamic...),
		Entries: make([]*Entry, 0, len(g.Order())),
	}
	if g.Parent != nil {
		p.Parent = g.Parent.Name
	}

	b := &builder{files: files, index: make(map[*resolver.BindingGraph]map[key.ID]int)}
	local := b.indexOf(g)

	for i, id := range g.Order() {
		bind := g.BindingAt(id)
		entry := &Entry{
			Index:    i,
			Key:      g.Key(id).String(),
			Kind:     bind.Kind.String(),
			Location: bind.Location(),
			Scope:    bind.Scope,
			Access:   Direct,
			Body:     b.source(bind.Body),
			binding:  bind,
		}
		if g.IsDeferred(id) {
			entry.Access = Deferred
		}
		for _, e := range g.Edges(id) {
			entry.Edges = append(entry.Edges, b.edge(g, e))
		}
		if bind.Kind == binding.Multibinding {
			for _, c := range bind.Contributions {
				if bind.Collection == key.MapCollection {
					entry.Members = append(entry.Members, multibind.RenderMapKey(c.MapKey)+" = "+c.Location)
				} else {
					entry.Members = append(entry.Members, c.Location)
				}
			}
		}
		p.Entries = append(p.Entries, entry)
	}

	for _, r := range g.Roots {
		p.Roots = append(p.Roots, Root{Kind: r.Kind.String(), Name: r.Name, Edge: b.edge(g, r.Edge)})
	}

	// Sanity check: every local edge must point inside the plan.
	for _, entry := range p.Entries {
		for _, e := range entry.Edges {
			if e.Kind == Local && (e.Index < 0 || e.Index >= len(local)) {
				return nil, fmt.Errorf("plan %s: entry %s has a dangling edge %s", g.Name, entry.Key, e.Name)
			}
		}
	}
	return p, nil
}

type builder struct {
	files map[string]*hcl.File
	index map[*resolver.BindingGraph]map[key.ID]int
}

// indexOf maps the ordered bindings of g to their entry index.
func (b *builder) indexOf(g *resolver.BindingGraph) map[key.ID]int {
	if idx, ok := b.index[g]; ok {
		return idx
	}
	idx := make(map[key.ID]int, len(g.Order()))
	for i, id := range g.Order() {
		idx[id] = i
	}
	b.index[g] = idx
	return idx
}

func (b *builder) edge(g *resolver.BindingGraph, e resolver.Edge) Edge {
	out := Edge{
		Name:     e.Site.Name,
		Request:  e.Site.Request.String(),
		Index:    -1,
		Deferred: e.Deferred,
	}
	switch {
	case e.Absent != nil:
		out.Kind = DefaultValue
		out.Default = b.source(e.Absent.Default)
	case e.Resolved() && e.Graph != g:
		out.Kind = Inherited
		out.Graph = e.Graph.Name
		if i, ok := b.indexOf(e.Graph)[e.Target]; ok {
			out.Index = i
		}
	case e.Resolved():
		out.Kind = Local
		if i, ok := b.indexOf(g)[e.Target]; ok {
			out.Index = i
		}
	}
	return out
}

// source returns the source text of expr.
func (b *builder) source(expr hcl.Expression) string {
	if expr == nil {
		return ""
	}
	rng := expr.Range()
	if f, ok := b.files[rng.Filename]; ok && f != nil && rng.End.Byte <= len(f.Bytes) {
		return string(rng.SliceBytes(f.Bytes))
	}
	return rng.String()
}
