package hcladapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any
// file. It has no remain field, so unknown top-level blocks are errors.
type fileRoot struct {
	Containers        []*Container       `hcl:"container,block"`
	Injectables       []*Injectable      `hcl:"injectable,block"`
	AssistedFactories []*AssistedFactory `hcl:"assisted_factory,block"`
	Graphs            []*Graph           `hcl:"graph,block"`
	Extensions        []*Graph           `hcl:"graph_extension,block"`
}

// Container represents a `container` block.
type Container struct {
	Name            string        `hcl:"name,label"`
	Kind            string        `hcl:"kind,optional"`
	Includes        []string      `hcl:"includes,optional"`
	ContributesTo   []string      `hcl:"contributes_to,optional"`
	Replaces        []string      `hcl:"replaces,optional"`
	Provides        []*Provides   `hcl:"provides,block"`
	Binds           []*Binds      `hcl:"binds,block"`
	IntoSet         []*Provides   `hcl:"into_set,block"`
	ElementsIntoSet []*Provides   `hcl:"elements_into_set,block"`
	IntoMap         []*IntoMap    `hcl:"into_map,block"`
	Multibinds      []*Multibinds `hcl:"multibinds,block"`
	Remain          hcl.Body      `hcl:",remain"`
}

// Provides represents a `provides`, `into_set` or `elements_into_set` block.
type Provides struct {
	Name      string         `hcl:"name,label"`
	Type      string         `hcl:"type"`
	Qualifier string         `hcl:"qualifier,optional"`
	Scopes    []string       `hcl:"scopes,optional"`
	Params    []*Param       `hcl:"param,block"`
	Body      hcl.Expression `hcl:"body,optional"`
	Remain    hcl.Body       `hcl:",remain"`
}

// IntoMap represents an `into_map` block.
type IntoMap struct {
	Name      string         `hcl:"name,label"`
	Type      string         `hcl:"type"`
	Qualifier string         `hcl:"qualifier,optional"`
	Scopes    []string       `hcl:"scopes,optional"`
	MapKey    hcl.Expression `hcl:"map_key,optional"`
	Params    []*Param       `hcl:"param,block"`
	Body      hcl.Expression `hcl:"body,optional"`
	Remain    hcl.Body       `hcl:",remain"`
}

// Binds represents a `binds` block.
type Binds struct {
	Name            string   `hcl:"name,label"`
	Type            string   `hcl:"type"`
	Qualifier       string   `hcl:"qualifier,optional"`
	Source          string   `hcl:"source"`
	SourceQualifier string   `hcl:"source_qualifier,optional"`
	Params          []*Param `hcl:"param,block"`
	Remain          hcl.Body `hcl:",remain"`
}

// Multibinds represents a `multibinds` block.
type Multibinds struct {
	Name       string   `hcl:"name,label"`
	Type       string   `hcl:"type"`
	Qualifier  string   `hcl:"qualifier,optional"`
	AllowEmpty bool     `hcl:"allow_empty,optional"`
	Remain     hcl.Body `hcl:",remain"`
}

// Param represents a `param`, `member`, `instance` or `accessor` block.
type Param struct {
	Name      string         `hcl:"name,label"`
	Type      string         `hcl:"type"`
	Qualifier string         `hcl:"qualifier,optional"`
	Assisted  bool           `hcl:"assisted,optional"`
	Optional  bool           `hcl:"optional,optional"`
	Default   hcl.Expression `hcl:"default,optional"`
	Remain    hcl.Body       `hcl:",remain"`
}

// Injectable represents an `injectable` block.
type Injectable struct {
	Name      string   `hcl:"name,label"`
	Qualifier string   `hcl:"qualifier,optional"`
	Scopes    []string `hcl:"scopes,optional"`
	Object    bool     `hcl:"object,optional"`
	Params    []*Param `hcl:"param,block"`
	Members   []*Param `hcl:"member,block"`
	Remain    hcl.Body `hcl:",remain"`
}

// AssistedFactory represents an `assisted_factory` block.
type AssistedFactory struct {
	Name   string   `hcl:"name,label"`
	Target string   `hcl:"target"`
	Params []*Param `hcl:"param,block"`
	Remain hcl.Body `hcl:",remain"`
}

// Graph represents a `graph` or `graph_extension` block.
type Graph struct {
	Name         string      `hcl:"name,label"`
	Parent       string      `hcl:"parent,optional"`
	Scopes       []string    `hcl:"scopes,optional"`
	Includes     []string    `hcl:"includes,optional"`
	Dependencies []string    `hcl:"dependencies,optional"`
	Extensions   []string    `hcl:"extensions,optional"`
	Instances    []*Param    `hcl:"instance,block"`
	Accessors    []*Param    `hcl:"accessor,block"`
	Injectors    []*Injector `hcl:"injector,block"`
	Remain       hcl.Body    `hcl:",remain"`
}

// Injector represents an `injector` block.
type Injector struct {
	Name   string   `hcl:"name,label"`
	Type   string   `hcl:"type"`
	Remain hcl.Body `hcl:",remain"`
}
