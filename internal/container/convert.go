package container

import (
	"fmt"

	"github.com/vk/bindgraph/internal/binding"
	"github.com/vk/bindgraph/internal/decl"
	"github.com/vk/bindgraph/internal/key"
)

// SiteFor converts a declared parameter, member or accessor into a
// dependency site.
func SiteFor(p *decl.Param) (binding.Site, error) {
	req, err := key.ParseRequest(p.Type, p.Qualifier, p.HasDefault())
	if err != nil {
		return binding.Site{}, fmt.Errorf("%s: %w", p.Name, err)
	}
	return binding.Site{
		Name:     p.Name,
		Request:  req,
		Optional: p.Optional,
		Default:  p.Default,
		Range:    p.Range,
	}, nil
}

// SitesFor converts a parameter list, skipping assisted parameters.
func SitesFor(params []*decl.Param) ([]binding.Site, error) {
	sites := make([]binding.Site, 0, len(params))
	for _, p := range params {
		if p.Assisted {
			continue
		}
		s, err := SiteFor(p)
		if err != nil {
			return nil, err
		}
		sites = append(sites, s)
	}
	return sites, nil
}

// FirstScope returns the first declared scope, or "".
func FirstScope(scopes []string) string {
	if len(scopes) == 0 {
		return ""
	}
	return scopes[0]
}

// BindingFor converts a provides or binds declaration of container c.
func BindingFor(c *decl.Container, d *decl.Declaration) (*binding.Binding, error) {
	k, err := key.ParseKey(d.Type, d.Qualifier)
	if err != nil {
		return nil, err
	}
	switch d.Kind {
	case decl.DeclProvides:
		sites, err := SitesFor(d.Params)
		if err != nil {
			return nil, err
		}
		b := binding.New(binding.ProviderMethod, k, sites...)
		b.Owner = c.Name
		b.Member = d.Name
		b.Scope = FirstScope(d.Scopes)
		b.Body = d.Body
		b.Range = d.Range
		return b, nil
	case decl.DeclBinds:
		target, err := key.ParseKey(d.Source, d.SourceQualifier)
		if err != nil {
			return nil, err
		}
		return binding.NewAlias(k, target, c.Name, d.Name, d.Range), nil
	default:
		return nil, fmt.Errorf("%s declarations are multibindings", d.Kind)
	}
}

// InstanceBinding converts a graph instance declaration.
func InstanceBinding(g *decl.Graph, p *decl.Param) (*binding.Binding, error) {
	k, err := key.ParseKey(p.Type, p.Qualifier)
	if err != nil {
		return nil, err
	}
	b := binding.New(binding.Instance, k)
	b.Owner = g.Name
	b.Member = p.Name
	b.Range = p.Range
	return b, nil
}
