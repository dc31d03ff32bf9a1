// This file translates the HCL schema structs into the format-agnostic
// declaration model of the decl package.

package hcladapter

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/bindgraph/internal/ctxlog"
	"github.com/vk/bindgraph/internal/decl"
)

// translateContainer converts a container block. Declarations of all kinds
// are merged back into source order.
func (l *Loader) translateContainer(ctx context.Context, c *Container) (*decl.Container, error) {
	logger := ctxlog.FromContext(ctx).With("container", c.Name)
	ctx = ctxlog.WithLogger(ctx, logger)

	kind := decl.ContainerKind(c.Kind)
	if c.Kind == "" {
		kind = decl.KindObject
	}
	switch kind {
	case decl.KindObject, decl.KindInterface, decl.KindClass, decl.KindLocal, decl.KindAnonymous, decl.KindEnum:
	default:
		return nil, fmt.Errorf("container %s: unknown kind %q", c.Name, c.Kind)
	}

	out := &decl.Container{
		Name:          c.Name,
		Kind:          kind,
		Includes:      c.Includes,
		ContributesTo: c.ContributesTo,
		Replaces:      c.Replaces,
		Range:         bodyRange(c.Remain),
	}

	for _, p := range c.Provides {
		out.Declarations = append(out.Declarations, l.translateProvides(ctx, decl.DeclProvides, p))
	}
	for _, p := range c.IntoSet {
		out.Declarations = append(out.Declarations, l.translateProvides(ctx, decl.DeclIntoSet, p))
	}
	for _, p := range c.ElementsIntoSet {
		out.Declarations = append(out.Declarations, l.translateProvides(ctx, decl.DeclElementsIntoSet, p))
	}
	for _, m := range c.IntoMap {
		out.Declarations = append(out.Declarations, l.translateIntoMap(ctx, m))
	}
	for _, b := range c.Binds {
		out.Declarations = append(out.Declarations, &decl.Declaration{
			Kind:            decl.DeclBinds,
			Name:            b.Name,
			Type:            b.Type,
			Qualifier:       b.Qualifier,
			Source:          b.Source,
			SourceQualifier: b.SourceQualifier,
			Params:          l.translateParams(ctx, b.Params),
			Range:           bodyRange(b.Remain),
		})
	}
	for _, m := range c.Multibinds {
		out.Declarations = append(out.Declarations, &decl.Declaration{
			Kind:       decl.DeclMultibinds,
			Name:       m.Name,
			Type:       m.Type,
			Qualifier:  m.Qualifier,
			AllowEmpty: m.AllowEmpty,
			Range:      bodyRange(m.Remain),
		})
	}

	sort.SliceStable(out.Declarations, func(i, j int) bool {
		return out.Declarations[i].Range.Start.Byte < out.Declarations[j].Range.Start.Byte
	})

	logger.Debug("Translated container.", "kind", kind, "declarations", len(out.Declarations))
	return out, nil
}

func (l *Loader) translateProvides(ctx context.Context, kind decl.DeclKind, p *Provides) *decl.Declaration {
	return &decl.Declaration{
		Kind:      kind,
		Name:      p.Name,
		Type:      p.Type,
		Qualifier: p.Qualifier,
		Scopes:    p.Scopes,
		Params:    l.translateParams(ctx, p.Params),
		Body:      definedOrNil(ctx, p.Body, "body"),
		Range:     bodyRange(p.Remain),
	}
}

func (l *Loader) translateIntoMap(ctx context.Context, m *IntoMap) *decl.Declaration {
	d := &decl.Declaration{
		Kind:       decl.DeclIntoMap,
		Name:       m.Name,
		Type:       m.Type,
		Qualifier:  m.Qualifier,
		Scopes:     m.Scopes,
		Params:     l.translateParams(ctx, m.Params),
		MapKeyExpr: definedOrNil(ctx, m.MapKey, "map_key"),
		Body:       definedOrNil(ctx, m.Body, "body"),
		Range:      bodyRange(m.Remain),
	}
	if val, ok := literalValue(d.MapKeyExpr); ok {
		d.MapKey = &val
	}
	return d
}

func (l *Loader) translateParams(ctx context.Context, params []*Param) []*decl.Param {
	out := make([]*decl.Param, 0, len(params))
	for _, p := range params {
		out = append(out, &decl.Param{
			Name:      p.Name,
			Type:      p.Type,
			Qualifier: p.Qualifier,
			Assisted:  p.Assisted,
			Optional:  p.Optional,
			Default:   definedOrNil(ctx, p.Default, "default"),
			Range:     bodyRange(p.Remain),
		})
	}
	return out
}

func (l *Loader) translateInjectable(ctx context.Context, i *Injectable) *decl.Injectable {
	return &decl.Injectable{
		Name:      i.Name,
		Qualifier: i.Qualifier,
		Scopes:    i.Scopes,
		Object:    i.Object,
		Params:    l.translateParams(ctx, i.Params),
		Members:   l.translateParams(ctx, i.Members),
		Range:     bodyRange(i.Remain),
	}
}

func (l *Loader) translateAssistedFactory(ctx context.Context, f *AssistedFactory) *decl.AssistedFactory {
	return &decl.AssistedFactory{
		Name:   f.Name,
		Target: f.Target,
		Params: l.translateParams(ctx, f.Params),
		Range:  bodyRange(f.Remain),
	}
}

func (l *Loader) translateGraph(ctx context.Context, g *Graph, extension bool) (*decl.Graph, error) {
	switch {
	case extension && g.Parent == "":
		return nil, fmt.Errorf("graph_extension %s: parent is required", g.Name)
	case !extension && g.Parent != "":
		return nil, fmt.Errorf("graph %s: only graph_extension blocks take a parent", g.Name)
	}
	out := &decl.Graph{
		Name:         g.Name,
		Parent:       g.Parent,
		Scopes:       g.Scopes,
		Includes:     g.Includes,
		Dependencies: g.Dependencies,
		Extensions:   g.Extensions,
		Instances:    l.translateParams(ctx, g.Instances),
		Accessors:    l.translateParams(ctx, g.Accessors),
		Range:        bodyRange(g.Remain),
	}
	for _, inj := range g.Injectors {
		out.Injectors = append(out.Injectors, &decl.Injector{Name: inj.Name, Type: inj.Type, Range: bodyRange(inj.Remain)})
	}
	return out, nil
}
