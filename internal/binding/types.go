package binding

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/bindgraph/internal/key"
	"github.com/zclconf/go-cty/cty"
)

// Kind tags a Binding.
type Kind int

const (
	ConstructorInjected Kind = iota
	ProviderMethod
	Alias
	Multibinding
	AssistedFactory
	Instance
	GraphDependency
	Absent
	MembersInjector
	ExtensionFactory
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case ConstructorInjected:
		return "constructor"
	case ProviderMethod:
		return "provider"
	case Alias:
		return "alias"
	case Multibinding:
		return "multibinding"
	case AssistedFactory:
		return "assisted-factory"
	case Instance:
		return "instance"
	case GraphDependency:
		return "graph-dependency"
	case Absent:
		return "absent"
	case MembersInjector:
		return "members-injector"
	case ExtensionFactory:
		return "extension-factory"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Site is one dependency request of a binding: a constructor or provider
// parameter, an injected member, or a graph accessor.
type Site struct {
	Name    string
	Request key.ContextualKey
	// Optional is the explicit optional marker.
	Optional bool
	// Default is carried verbatim, never evaluated.
	Default hcl.Expression
	// Accessor marks a graph accessor rather than a parameter.
	Accessor bool
	Range    hcl.Range
}

// Contribution is one element source of a multibinding.
type Contribution struct {
	// Key is the synthetic key of the contributing provider binding.
	Key key.Key
	// Elements is true for elements_into_set, which contributes a whole set.
	Elements bool
	// MapKey is the literal key of a map contribution.
	MapKey   cty.Value
	Location string
	Range    hcl.Range
}

// Binding is the concrete way a key is satisfied.
type Binding struct {
	Kind Kind

	key   key.Key
	sites []Site

	// Owner is the declaring container, class, factory or graph.
	Owner string
	// Member is the declaring method, accessor or instance name.
	Member string
	Scope  string

	// Target is the key an Alias binds to, or the class an AssistedFactory
	// creates.
	Target key.Key

	// Object marks a constructor-injected singleton object.
	Object bool

	Collection    key.CollectionKind
	Contributions []Contribution
	AllowEmpty    bool

	// Default is the fallback expression of an Absent binding.
	Default hcl.Expression
	// Body is a provider body, carried verbatim.
	Body hcl.Expression

	Range hcl.Range
}
