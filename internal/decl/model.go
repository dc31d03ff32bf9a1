package decl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of every declaration
// of one compilation. Slices keep declaration order; it is significant for
// multibinding contributions.
type Model struct {
	Containers        []*Container
	Injectables       []*Injectable
	AssistedFactories []*AssistedFactory
	Graphs            []*Graph
}

// ContainerKind is the declared shape of a binding container.
type ContainerKind string

const (
	KindObject    ContainerKind = "object"
	KindInterface ContainerKind = "interface"
	KindClass     ContainerKind = "class"
	KindLocal     ContainerKind = "local"
	KindAnonymous ContainerKind = "anonymous"
	KindEnum      ContainerKind = "enum"
)

// Legal reports whether a container of this kind may hold bindings.
func (k ContainerKind) Legal() bool {
	switch k {
	case KindObject, KindInterface, KindClass:
		return true
	default:
		return false
	}
}

// Container is a named grouping of binding declarations.
type Container struct {
	Name          string
	Kind          ContainerKind
	Includes      []string
	ContributesTo []string
	Replaces      []string
	Declarations  []*Declaration
	Range         hcl.Range
}

// DeclKind tags a declaration inside a container.
type DeclKind int

const (
	DeclProvides DeclKind = iota
	DeclBinds
	DeclIntoSet
	DeclElementsIntoSet
	DeclIntoMap
	DeclMultibinds
)

// String returns the block name of the declaration kind.
func (k DeclKind) String() string {
	switch k {
	case DeclProvides:
		return "provides"
	case DeclBinds:
		return "binds"
	case DeclIntoSet:
		return "into_set"
	case DeclElementsIntoSet:
		return "elements_into_set"
	case DeclIntoMap:
		return "into_map"
	case DeclMultibinds:
		return "multibinds"
	default:
		return "unknown"
	}
}

// IsMultibinding reports whether declarations of this kind feed a Set or Map.
func (k DeclKind) IsMultibinding() bool {
	return k >= DeclIntoSet
}

// Declaration is one provider-like member of a container.
type Declaration struct {
	Kind      DeclKind
	Name      string
	Type      string
	Qualifier string
	Scopes    []string
	Params    []*Param

	// Source is the bound implementation type of a `binds` declaration.
	Source          string
	SourceQualifier string

	// MapKeyExpr is the raw map_key expression of an `into_map`; MapKey is
	// its value when the expression is a literal, nil otherwise.
	MapKeyExpr hcl.Expression
	MapKey     *cty.Value

	AllowEmpty bool

	// Body is the provider body. It is carried verbatim and never evaluated.
	Body  hcl.Expression
	Range hcl.Range
}

// Param is a dependency request site: a constructor or provider parameter,
// or an injected member.
type Param struct {
	Name      string
	Type      string
	Qualifier string
	Assisted  bool
	// Optional is the explicit optional marker.
	Optional bool
	// Default is the default value expression, nil when absent.
	Default hcl.Expression
	Range   hcl.Range
}

// HasDefault reports whether the site carries a default value.
func (p *Param) HasDefault() bool {
	return p.Default != nil
}

// Injectable is a class with an injectable constructor.
type Injectable struct {
	Name      string
	Qualifier string
	Scopes    []string
	// Object marks a singleton object; its instance always exists.
	Object  bool
	Params  []*Param
	Members []*Param
	Range   hcl.Range
}

// AssistedParams returns the parameters supplied by an assisted factory.
func (i *Injectable) AssistedParams() []*Param {
	var out []*Param
	for _, p := range i.Params {
		if p.Assisted {
			out = append(out, p)
		}
	}
	return out
}

// IsAssisted reports whether constructing the class needs caller arguments.
func (i *Injectable) IsAssisted() bool {
	return len(i.AssistedParams()) > 0
}

// AssistedFactory creates an assisted-injected Target from caller-supplied
// parameters.
type AssistedFactory struct {
	Name   string
	Target string
	Params []*Param
	Range  hcl.Range
}

// Graph is a dependency graph or a graph extension declaration.
type Graph struct {
	Name string
	// Parent is set for graph extensions.
	Parent       string
	Scopes       []string
	Includes     []string
	Dependencies []string
	Extensions   []string
	Instances    []*Param
	Accessors    []*Param
	Injectors    []*Injector
	Range        hcl.Range
}

// IsExtension reports whether g extends a parent graph.
func (g *Graph) IsExtension() bool {
	return g.Parent != ""
}

// Injector is a members-injection entry point of a graph.
type Injector struct {
	Name  string
	Type  string
	Range hcl.Range
}
