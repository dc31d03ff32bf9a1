package binding

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/bindgraph/internal/key"
)

// New creates a binding of kind for k with the given dependency sites.
func New(kind Kind, k key.Key, sites ...Site) *Binding {
	return &Binding{Kind: kind, key: k, sites: sites}
}

// NewAlias creates an alias from k to target.
func NewAlias(k, target key.Key, owner, member string, rng hcl.Range) *Binding {
	b := New(Alias, k, Site{Name: "source", Request: key.DirectOf(target), Range: rng})
	b.Target = target
	b.Owner = owner
	b.Member = member
	b.Range = rng
	return b
}

// NewAbsent creates the transient binding used when an optional site has no
// binding. Its default expression is used at the call site.
func NewAbsent(k key.Key, site Site, owner string) *Binding {
	b := New(Absent, k)
	b.Owner = owner
	b.Member = site.Name
	b.Default = site.Default
	b.Range = site.Range
	return b
}

// Key returns the provided key.
func (b *Binding) Key() key.Key {
	return b.key
}

// Sites returns the dependency request sites in declaration order.
func (b *Binding) Sites() []Site {
	return b.sites
}

// DependencySites returns the sites resolution follows, in declaration
// order. A multibinding's sites are its contributions, requested directly.
func (b *Binding) DependencySites() []Site {
	switch b.Kind {
	case Multibinding:
		sites := make([]Site, 0, len(b.Contributions))
		for _, c := range b.Contributions {
			sites = append(sites, Site{Name: c.Location, Request: key.DirectOf(c.Key), Range: c.Range})
		}
		return sites
	case ConstructorInjected, ProviderMethod, Alias, AssistedFactory, MembersInjector:
		return b.sites
	case Instance, GraphDependency, Absent, ExtensionFactory:
		return nil
	default:
		panic(fmt.Sprintf("binding: unhandled kind %v", b.Kind))
	}
}

// Dependencies returns the requested contextual keys in declaration order.
func (b *Binding) Dependencies() []key.ContextualKey {
	sites := b.DependencySites()
	deps := make([]key.ContextualKey, 0, len(sites))
	for _, s := range sites {
		deps = append(deps, s.Request)
	}
	return deps
}

// DependenciesFor returns the dependencies as seen through a request. A
// multibinding requested with deferred values depends on each contribution
// through a Provider. The result is index-aligned with DependencySites.
func (b *Binding) DependenciesFor(req key.ContextualKey) []key.ContextualKey {
	deps := b.Dependencies()
	if b.Kind != Multibinding || req.Elements == key.Direct {
		return deps
	}
	for i := range deps {
		deps[i] = deps[i].Deferred()
	}
	return deps
}

// IsAlias reports whether b only redirects to another key.
func (b *Binding) IsAlias() bool {
	return b.Kind == Alias
}

// IsTransient reports whether b is diagnostic-only and excluded from the
// emitted plan.
func (b *Binding) IsTransient() bool {
	switch b.Kind {
	case Absent:
		return true
	case ConstructorInjected, ProviderMethod, Alias, Multibinding, AssistedFactory,
		Instance, GraphDependency, MembersInjector, ExtensionFactory:
		return false
	default:
		panic(fmt.Sprintf("binding: unhandled kind %v", b.Kind))
	}
}

// IsImplicitlyDeferrable reports whether b's value exists without being
// constructed in dependency order, so any edge into it may be deferred.
func (b *Binding) IsImplicitlyDeferrable() bool {
	switch b.Kind {
	case Instance, GraphDependency, Absent, MembersInjector:
		return true
	case ConstructorInjected:
		return b.Object
	case ProviderMethod, Alias, Multibinding, AssistedFactory, ExtensionFactory:
		return false
	default:
		panic(fmt.Sprintf("binding: unhandled kind %v", b.Kind))
	}
}

// Location renders the short declaration site, e.g.
// `NetworkModule.provideClient` or `class RepositoryImpl`.
func (b *Binding) Location() string {
	switch b.Kind {
	case ConstructorInjected:
		return "class " + b.Owner
	case ProviderMethod, Alias, Instance, GraphDependency, MembersInjector:
		return b.Owner + "." + b.Member
	case Multibinding:
		if b.Owner != "" {
			return b.Owner + "." + b.Member
		}
		return b.Collection.String() + " multibinding " + b.key.String()
	case AssistedFactory:
		return "assisted factory " + b.Owner
	case Absent:
		return b.Owner + "." + b.Member + " (default)"
	case ExtensionFactory:
		return b.Owner + " extension " + b.Member
	default:
		panic(fmt.Sprintf("binding: unhandled kind %v", b.Kind))
	}
}

// Describe renders the one-line form used in dependency chains.
func (b *Binding) Describe() string {
	switch b.Kind {
	case Alias:
		return fmt.Sprintf("%s is bound to %s at %s", b.key, b.Target, b.Location())
	case Multibinding:
		return fmt.Sprintf("%s is a %s multibinding of %d contribution(s)", b.key, b.Collection, len(b.Contributions))
	case Absent:
		return fmt.Sprintf("%s is absent, default used at %s", b.key, b.Location())
	case ConstructorInjected, ProviderMethod, AssistedFactory, Instance, GraphDependency,
		MembersInjector, ExtensionFactory:
		return fmt.Sprintf("%s is provided by %s [%s]", b.key, b.Location(), b.Kind)
	default:
		panic(fmt.Sprintf("binding: unhandled kind %v", b.Kind))
	}
}

// String is Describe; it keeps %v readable in logs.
func (b *Binding) String() string {
	return b.Describe()
}
