package resolver

import (
	"fmt"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/vk/bindgraph/internal/binding"
	"github.com/vk/bindgraph/internal/diag"
	"github.com/vk/bindgraph/internal/key"
)

// missing reports an unsatisfiable request once per key.
func (res *resolution) missing(site binding.Site) {
	k := site.Request.Key
	if !res.once("missing|" + k.String()) {
		return
	}
	res.reportSite(site, diag.MissingBinding, res.hint(k),
		"cannot find a binding for %s\n%s", k, res.chainFor(site))
}

// knownKeys lists every key the graph could bind, in a stable order.
func (res *resolution) knownKeys() []key.Key {
	var out []key.Key
	seen := make(map[key.Key]bool)
	add := func(k key.Key) {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	for g := res.bg; g != nil; g = g.Parent {
		for _, k := range g.set.Keys() {
			add(k)
		}
		for _, k := range g.multi.Keys() {
			add(k)
		}
	}
	for _, inj := range res.r.model.Injectables {
		add(key.New(inj.Name, inj.Qualifier))
	}
	for _, f := range res.r.model.AssistedFactories {
		add(key.New(f.Name, ""))
	}
	return out
}

// hint suggests what the author probably meant for a missing key.
func (res *resolution) hint(k key.Key) string {
	known := res.knownKeys()

	var sameType []string
	for _, c := range known {
		if c.Type == k.Type && c.Qualifier != k.Qualifier {
			sameType = append(sameType, c.String())
		}
	}
	if len(sameType) > 0 {
		return fmt.Sprintf("a binding exists for %s; check the qualifier", strings.Join(sameType, ", "))
	}

	if k.Collection() == key.NotCollection {
		for g := res.bg; g != nil; g = g.Parent {
			if mks := g.multi.ElementKeys(k.Type); len(mks) > 0 {
				return fmt.Sprintf("%s is only contributed into %s; request the collection", k.Type, mks[0])
			}
		}
	} else if elem := k.ElementType(); elem != "" {
		for _, c := range known {
			if c.Collection() != key.NotCollection && c.Collection() != k.Collection() && c.ElementType() == elem {
				return fmt.Sprintf("%s is declared as %s, not as a %s", elem, c, k.Collection())
			}
		}
	}

	best, bestDist := "", 0
	for _, c := range known {
		if c.Type == k.Type {
			continue
		}
		d := levenshtein.Distance(strings.ToLower(k.Type), strings.ToLower(c.Type), nil)
		limit := max(2, len(k.Type)/3)
		if d <= limit && (best == "" || d < bestDist) {
			best, bestDist = c.String(), d
		}
	}
	if best != "" {
		return "did you mean " + best + "?"
	}
	return ""
}

// chainFor renders the request path from the nearest root down to site.
func (res *resolution) chainFor(site binding.Site) string {
	lines := []string{fmt.Sprintf("    %s is requested at %s", site.Request, res.siteOwner(len(res.stack), site))}
	for i := len(res.stack) - 1; i >= 0; i-- {
		f := res.stack[i]
		lines = append(lines, fmt.Sprintf("    %s is requested at %s", f.site.Request, res.siteOwner(i, f.site)))
	}
	return strings.Join(lines, "\n")
}

// siteOwner names who requests site at stack depth depth.
func (res *resolution) siteOwner(depth int, site binding.Site) string {
	if depth == 0 {
		if site.Name == "validation" {
			return res.decl.Name + " (full validation)"
		}
		return res.decl.Name + "." + site.Name
	}
	b := res.bg.bindings[res.stack[depth-1].id]
	if site.Name == "" || b.Kind == binding.Multibinding || b.Kind == binding.Alias {
		return b.Location()
	}
	return b.Location() + " (" + site.Name + ")"
}
