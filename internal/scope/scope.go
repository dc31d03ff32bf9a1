package scope

import (
	"slices"

	"github.com/vk/bindgraph/internal/binding"
)

// Chain is the ordered list of scopes a graph accepts: its own scopes
// followed by those of its ancestors.
type Chain []string

// NewChain builds a chain from a graph's scopes and each ancestor's scopes,
// nearest ancestor first.
func NewChain(own []string, ancestors ...[]string) Chain {
	c := append(Chain(nil), own...)
	for _, a := range ancestors {
		c = append(c, a...)
	}
	return c
}

// Allows reports whether a binding with scope s may be installed.
func (c Chain) Allows(s string) bool {
	return s == "" || slices.Contains(c, s)
}

// Conflicts reports whether b carries a scope the chain lacks.
func (c Chain) Conflicts(b *binding.Binding) bool {
	return !c.Allows(b.Scope)
}
