package multibind

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/bindgraph/internal/binding"
	"github.com/vk/bindgraph/internal/container"
	"github.com/vk/bindgraph/internal/decl"
	"github.com/vk/bindgraph/internal/diag"
	"github.com/vk/bindgraph/internal/key"
)

// ContributionQualifierPrefix marks the synthetic keys of contributions.
const ContributionQualifierPrefix = "#contrib:"

// Problem is a resolution-time issue of one multibinding, reported when the
// multibinding is resolved.
type Problem struct {
	Code    diag.Code
	Message string
	Hint    string
	Range   hcl.Range
}

// Result holds every multibinding of one graph and the synthetic
// contribution bindings feeding them.
type Result struct {
	multibindings map[key.Key]*binding.Binding
	contributions map[key.Key]*binding.Binding
	problems      map[key.Key][]Problem
	order         []key.Key
}

// Lookup returns the multibinding or contribution binding for k.
func (r *Result) Lookup(k key.Key) (*binding.Binding, bool) {
	if b, ok := r.multibindings[k]; ok {
		return b, true
	}
	b, ok := r.contributions[k]
	return b, ok
}

// Problems returns the issues found for multibinding k.
func (r *Result) Problems(k key.Key) []Problem {
	return r.problems[k]
}

// Keys returns the multibinding keys in first-declaration order.
func (r *Result) Keys() []key.Key {
	return r.order
}

// ElementKeys returns the multibinding keys whose value type is typ; used
// for collection-shape hints.
func (r *Result) ElementKeys(typ string) []key.Key {
	var out []key.Key
	for _, k := range r.order {
		if k.ElementType() == typ {
			out = append(out, k)
		}
	}
	return out
}

// Aggregate builds the multibindings of a candidate set.
func Aggregate(set *container.Set) *Result {
	r := &Result{
		multibindings: make(map[key.Key]*binding.Binding),
		contributions: make(map[key.Key]*binding.Binding),
		problems:      make(map[key.Key][]Problem),
	}
	for _, routed := range set.Multibinds {
		d := routed.Decl
		target, ok := TargetKey(d)
		if !ok {
			continue
		}
		mb := r.multibinding(target)

		if d.Kind == decl.DeclMultibinds {
			mb.AllowEmpty = mb.AllowEmpty || d.AllowEmpty
			if mb.Owner == "" {
				mb.Owner = routed.Container
				mb.Member = d.Name
				mb.Range = d.Range
			}
			continue
		}

		c, ok := r.contribution(routed, d, target)
		if !ok {
			continue
		}
		if mb.Collection == key.MapCollection {
			if p, dup := duplicateMapKey(target, mb.Contributions, c); dup {
				r.problems[target] = append(r.problems[target], p)
			}
		}
		mb.Contributions = append(mb.Contributions, c)
		if mb.Range.Filename == "" {
			mb.Range = d.Range
		}
	}
	return r
}

// Inherit merges the contributions an ancestor graph collected into each
// multibinding of r, ahead of r's own. ancestors are nearest first; the
// nearest one declaring a key already holds its own ancestors' share. The
// inherited contribution bindings stay with the ancestor.
func (r *Result) Inherit(ancestors ...*Result) {
	for _, k := range r.order {
		for _, anc := range ancestors {
			inherited, ok := anc.multibindings[k]
			if !ok {
				continue
			}
			mb := r.multibindings[k]
			merged := make([]binding.Contribution, 0, len(inherited.Contributions)+len(mb.Contributions))
			merged = append(merged, inherited.Contributions...)
			for _, c := range mb.Contributions {
				if mb.Collection == key.MapCollection {
					if p, dup := duplicateMapKey(k, inherited.Contributions, c); dup {
						r.problems[k] = append(r.problems[k], p)
					}
				}
				merged = append(merged, c)
			}
			mb.Contributions = merged
			mb.AllowEmpty = mb.AllowEmpty || inherited.AllowEmpty
			break
		}
	}
}

// duplicateMapKey reports c when an earlier contribution used its map key.
func duplicateMapKey(target key.Key, earlier []binding.Contribution, c binding.Contribution) (Problem, bool) {
	for _, prev := range earlier {
		if sameMapKey(prev.MapKey, c.MapKey) {
			return Problem{
				Code: diag.DuplicateMapKey,
				Message: fmt.Sprintf("%s has duplicate map key %s contributed by %s and %s",
					target, RenderMapKey(c.MapKey), prev.Location, c.Location),
				Hint:  "each into_map contribution needs a distinct map_key",
				Range: c.Range,
			}, true
		}
	}
	return Problem{}, false
}

func (r *Result) multibinding(target key.Key) *binding.Binding {
	if mb, ok := r.multibindings[target]; ok {
		return mb
	}
	mb := binding.New(binding.Multibinding, target)
	mb.Collection = target.Collection()
	r.multibindings[target] = mb
	r.order = append(r.order, target)
	return mb
}

func (r *Result) contribution(routed container.Routed, d *decl.Declaration, target key.Key) (binding.Contribution, bool) {
	provided := target.ElementType()
	if d.Kind == decl.DeclElementsIntoSet {
		provided = target.Type
	}
	if d.Kind == decl.DeclIntoMap && d.MapKey == nil {
		return binding.Contribution{}, false
	}
	sites, err := container.SitesFor(d.Params)
	if err != nil {
		return binding.Contribution{}, false
	}

	qualifier := ContributionQualifierPrefix + routed.Container + "." + d.Name
	k := key.New(provided, qualifier)
	b := binding.New(binding.ProviderMethod, k, sites...)
	b.Owner = routed.Container
	b.Member = d.Name
	b.Scope = container.FirstScope(d.Scopes)
	b.Body = d.Body
	b.Range = d.Range
	r.contributions[k] = b

	c := binding.Contribution{
		Key:      k,
		Elements: d.Kind == decl.DeclElementsIntoSet,
		Location: routed.Container + "." + d.Name,
		Range:    d.Range,
	}
	if d.MapKey != nil {
		c.MapKey = *d.MapKey
	}
	return c, true
}

// TargetKey returns the multibinding key a declaration feeds.
func TargetKey(d *decl.Declaration) (key.Key, bool) {
	switch d.Kind {
	case decl.DeclIntoSet:
		elem, err := key.ParseType(d.Type)
		if err != nil {
			return key.Key{}, false
		}
		return key.New("Set<"+elem.String()+">", d.Qualifier), true
	case decl.DeclElementsIntoSet:
		k, err := key.ParseKey(d.Type, d.Qualifier)
		if err != nil || k.Collection() != key.SetCollection {
			return key.Key{}, false
		}
		return k, true
	case decl.DeclIntoMap:
		k, err := key.ParseKey(d.Type, d.Qualifier)
		if err != nil || k.Collection() != key.MapCollection {
			return key.Key{}, false
		}
		return k, true
	case decl.DeclMultibinds:
		k, err := key.ParseKey(d.Type, d.Qualifier)
		if err != nil || k.Collection() == key.NotCollection {
			return key.Key{}, false
		}
		return k, true
	default:
		return key.Key{}, false
	}
}

// mapKeyType returns the declared key type name of a Map key.
func mapKeyType(k key.Key) string {
	t, err := key.ParseType(k.Type)
	if err != nil || len(t.Args) != 2 {
		return ""
	}
	return t.Args[0].String()
}
