package plan

import (
	"fmt"

	"github.com/vk/bindgraph/internal/binding"
)

// Access says how generated code reaches an entry's value.
type Access int

const (
	// Direct values are constructed before every dependent.
	Direct Access = iota
	// Deferred values are captured as a provider and read on first use.
	Deferred
)

// String returns the lowercase access name.
func (a Access) String() string {
	switch a {
	case Direct:
		return "direct"
	case Deferred:
		return "deferred"
	default:
		return fmt.Sprintf("access(%d)", int(a))
	}
}

// MarshalText renders the access name in JSON output.
func (a Access) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// EdgeKind says where a dependency is satisfied.
type EdgeKind int

const (
	// Local edges point at an entry of the same plan.
	Local EdgeKind = iota
	// Inherited edges point at an entry of an ancestor's plan.
	Inherited
	// DefaultValue edges use the request site's default expression.
	DefaultValue
)

// String returns the lowercase edge kind name.
func (k EdgeKind) String() string {
	switch k {
	case Local:
		return "local"
	case Inherited:
		return "inherited"
	case DefaultValue:
		return "default"
	default:
		return fmt.Sprintf("edge(%d)", int(k))
	}
}

// MarshalText renders the edge kind name in JSON output.
func (k EdgeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Plan is the ordered construction plan of one graph.
type Plan struct {
	Graph   string   `json:"graph"`
	Parent  string   `json:"parent,omitempty"`
	Scopes  []string `json:"scopes,omitempty"`
	Dynamic []string `json:"dynamic,omitempty"`
	Entries []*Entry `json:"entries"`
	Roots   []Root   `json:"roots"`
}

// Entry is one binding to construct, in dependency order.
type Entry struct {
	Index    int      `json:"index"`
	Key      string   `json:"key"`
	Kind     string   `json:"kind"`
	Location string   `json:"location"`
	Scope    string   `json:"scope,omitempty"`
	Access   Access   `json:"access"`
	Body     string   `json:"body,omitempty"`
	MapKey   string   `json:"map_key,omitempty"`
	Edges    []Edge   `json:"edges,omitempty"`
	Members  []string `json:"members,omitempty"`

	binding *binding.Binding
}

// Binding returns the binding the entry constructs.
func (e *Entry) Binding() *binding.Binding {
	return e.binding
}

// Edge is one dependency of an entry.
type Edge struct {
	Name    string   `json:"name"`
	Request string   `json:"request"`
	Kind    EdgeKind `json:"kind"`
	// Index is the target entry in the plan of Graph; -1 for default values.
	Index    int    `json:"index"`
	Graph    string `json:"graph,omitempty"`
	Deferred bool   `json:"deferred,omitempty"`
	Default  string `json:"default,omitempty"`
}

// Root is one entry point of the graph.
type Root struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
	Edge Edge   `json:"edge"`
}
