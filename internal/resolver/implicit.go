package resolver

import (
	"strings"

	"github.com/vk/bindgraph/internal/binding"
	"github.com/vk/bindgraph/internal/container"
	"github.com/vk/bindgraph/internal/decl"
	"github.com/vk/bindgraph/internal/diag"
	"github.com/vk/bindgraph/internal/key"
)

// implicitBinding is the single fallback rule for keys without a declared
// candidate. It synthesizes:
//   - a ConstructorInjected binding for an injectable class whose name and
//     qualifier match k and that takes no assisted parameters;
//   - an AssistedFactory binding for an assisted factory type;
//   - a MembersInjector binding for MembersInjector<T>;
//   - an Instance binding for the graph's own type.
func (res *resolution) implicitBinding(k key.Key) (*binding.Binding, bool) {
	model := res.r.model

	if inj, ok := model.Injectable(k.Type); ok && inj.Qualifier == k.Qualifier && !inj.IsAssisted() {
		sites, err := container.SitesFor(append(append([]*decl.Param(nil), inj.Params...), inj.Members...))
		if err != nil {
			return nil, false
		}
		b := binding.New(binding.ConstructorInjected, k, sites...)
		b.Owner = inj.Name
		b.Scope = container.FirstScope(inj.Scopes)
		b.Object = inj.Object
		b.Range = inj.Range
		return b, true
	}

	if k.Qualifier != "" {
		return nil, false
	}

	if f, ok := model.AssistedFactory(k.Type); ok {
		target, ok := model.Injectable(f.Target)
		if !ok {
			return nil, false
		}
		sites, err := container.SitesFor(target.Params)
		if err != nil {
			return nil, false
		}
		for i := range sites {
			sites[i].Request = sites[i].Request.Deferred()
		}
		b := binding.New(binding.AssistedFactory, k, sites...)
		b.Owner = f.Name
		b.Target = key.New(target.Name, target.Qualifier)
		b.Range = f.Range
		return b, true
	}

	if inner, ok := strings.CutPrefix(k.Type, "MembersInjector<"); ok && strings.HasSuffix(inner, ">") {
		typ := strings.TrimSuffix(inner, ">")
		var members []*decl.Param
		if inj, ok := model.Injectable(typ); ok {
			members = inj.Members
		}
		sites, err := container.SitesFor(members)
		if err != nil {
			return nil, false
		}
		b := binding.New(binding.MembersInjector, k, sites...)
		b.Owner = res.decl.Name
		b.Member = "inject" + typ
		if len(res.stack) == 0 {
			for _, inj := range res.decl.Injectors {
				if inj.Type == typ {
					b.Member = inj.Name
					b.Range = inj.Range
					break
				}
			}
		}
		return b, true
	}

	if k.Type == res.decl.Name {
		b := binding.New(binding.Instance, k)
		b.Owner = res.decl.Name
		b.Member = "this"
		b.Range = res.decl.Range
		return b, true
	}
	return nil, false
}

// assistedMisuse reports a direct request of an assisted-injected class.
func (res *resolution) assistedMisuse(site binding.Site) bool {
	k := site.Request.Key
	inj, ok := res.r.model.Injectable(k.Type)
	if !ok || inj.Qualifier != k.Qualifier || !inj.IsAssisted() {
		return false
	}
	if !res.once("assisted|" + k.String()) {
		return true
	}
	hint := "declare an assisted_factory targeting " + inj.Name + " and inject it instead"
	if f, ok := res.r.model.AssistedFactoryFor(inj.Name); ok {
		hint = "inject " + f.Name + " and call it with the assisted parameters"
	}
	res.reportSite(site, diag.AssistedInjectionError, hint,
		"%s is assisted-injected and cannot be requested directly\n%s", k, res.chainFor(site))
	return true
}
