package resolver_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/bindgraph/internal/binding"
	"github.com/vk/bindgraph/internal/diag"
	"github.com/vk/bindgraph/internal/key"
	"github.com/vk/bindgraph/internal/resolver"
	"github.com/vk/bindgraph/internal/scope"
	"github.com/vk/bindgraph/internal/testutil"
)

func reachableKeys(g *resolver.BindingGraph) []string {
	var out []string
	for _, id := range g.Reachable() {
		out = append(out, g.Key(id).String())
	}
	return out
}

func orderKeys(g *resolver.BindingGraph) []string {
	var out []string
	for _, id := range g.Order() {
		out = append(out, g.Key(id).String())
	}
	return out
}

func mustID(t *testing.T, g *resolver.BindingGraph, typ, qualifier string) key.ID {
	t.Helper()
	id, ok := g.ID(key.MustParseKey(typ, qualifier))
	require.True(t, ok, "key %s was never requested", typ)
	return id
}

func TestResolve_ProviderBreaksCycle(t *testing.T) {
	src := `
injectable "A" {
  param "b" {
    type = "B"
  }
}

injectable "B" {
  param "a" {
    type = "Provider<A>"
  }
}

graph "AppGraph" {
  accessor "a" {
    type = "A"
  }
}
`
	res := testutil.Resolve(t, src, "AppGraph", resolver.Options{})
	require.Empty(t, res.Diagnostics)

	g := res.Graph
	require.True(t, g.Valid())
	assert.Equal(t, []string{"A", "B"}, reachableKeys(g))
	assert.Equal(t, []string{"B", "A"}, orderKeys(g), "B is constructed first and captures A lazily")

	a := mustID(t, g, "A", "")
	b := mustID(t, g, "B", "")
	assert.True(t, g.IsDeferred(a))
	assert.False(t, g.IsDeferred(b))

	edges := g.Edges(b)
	require.Len(t, edges, 1)
	assert.True(t, edges[0].Deferred)
	assert.Equal(t, a, edges[0].Target)
	assert.Equal(t, key.DeferredProvider, edges[0].Site.Request.Wrapping)
}

func TestResolve_HardCycle(t *testing.T) {
	src := `
injectable "A" {
  param "b" {
    type = "B"
  }
}

injectable "B" {
  param "a" {
    type = "A"
  }
}

graph "AppGraph" {
  accessor "a" {
    type = "A"
  }
  accessor "b" {
    type = "B"
  }
}
`
	res := testutil.Resolve(t, src, "AppGraph", resolver.Options{})
	require.Equal(t, []diag.Code{diag.CycleError}, res.Codes())
	assert.Contains(t, res.Diagnostics[0].Message, "A -> B -> A")
	assert.Equal(t, "request one of the dependencies in the cycle as Provider<T> or Lazy<T>", res.Diagnostics[0].Hint)
	assert.False(t, res.Graph.Valid())
	assert.Nil(t, res.Graph.Order())
}

func TestResolve_LazySelfDependencyIsLegal(t *testing.T) {
	src := `
injectable "Node" {
  param "self" {
    type = "Lazy<Node>"
  }
}

graph "AppGraph" {
  accessor "node" {
    type = "Node"
  }
}
`
	res := testutil.Resolve(t, src, "AppGraph", resolver.Options{})
	require.Empty(t, res.Diagnostics)
	assert.Equal(t, []string{"Node"}, orderKeys(res.Graph))
}

func TestResolve_DuplicateBinding(t *testing.T) {
	src := `
container "First" {
  provides "provideA" {
    type = "String"
  }
}

container "Second" {
  provides "provideB" {
    type = "String"
  }
}

graph "AppGraph" {
  includes = ["First", "Second"]
  accessor "s" {
    type = "String"
  }
}

injectable "User" {
  param "name" {
    type = "String"
  }
}

graph "OtherGraph" {
  includes = ["First", "Second"]
  accessor "s" {
    type = "String"
  }
  accessor "u" {
    type = "User"
  }
}
`
	t.Run("one diagnostic naming both declarations", func(t *testing.T) {
		res := testutil.Resolve(t, src, "AppGraph", resolver.Options{})
		require.Equal(t, []diag.Code{diag.DuplicateBinding}, res.Codes())
		msg := res.Diagnostics[0].Message
		assert.Contains(t, msg, "First.provideA")
		assert.Contains(t, msg, "Second.provideB")
		assert.False(t, res.Graph.Valid())
	})

	t.Run("requesting the key twice still reports once", func(t *testing.T) {
		res := testutil.Resolve(t, src, "OtherGraph", resolver.Options{})
		assert.Equal(t, 1, res.Count(diag.DuplicateBinding))
	})
}

func TestResolve_DuplicateMapKey(t *testing.T) {
	src := `
container "Numbers" {
  into_map "first" {
    type    = "Map<String, Int>"
    map_key = "a"
  }
  into_map "second" {
    type    = "Map<String, Int>"
    map_key = "a"
  }
}

graph "AppGraph" {
  includes = ["Numbers"]
  accessor "numbers" {
    type = "Map<String, Int>"
  }
}
`
	res := testutil.Resolve(t, src, "AppGraph", resolver.Options{})
	require.Equal(t, []diag.Code{diag.DuplicateMapKey}, res.Codes())
	msg := res.Diagnostics[0].Message
	assert.Contains(t, msg, "Numbers.first")
	assert.Contains(t, msg, "Numbers.second")
	assert.Contains(t, msg, `"a"`)
}

func TestResolve_OptionalModes(t *testing.T) {
	const unmarked = `
injectable "Client" {
  param "timeout" {
    type    = "Int"
    default = 30
  }
}

graph "AppGraph" {
  accessor "client" {
    type = "Client"
  }
}
`
	const marked = `
injectable "Client" {
  param "timeout" {
    type     = "Int"
    optional = true
    default  = 30
  }
}

graph "AppGraph" {
  accessor "client" {
    type = "Client"
  }
}
`
	const accessor = `
graph "AppGraph" {
  accessor "timeout" {
    type    = "Int"
    default = 30
  }
}
`

	testCases := []struct {
		name      string
		src       string
		mode      scope.OptionalMode
		wantCodes []diag.Code
	}{
		{name: "default mode uses the default", src: unmarked, mode: scope.Default, wantCodes: nil},
		{name: "disabled mode ignores the default", src: unmarked, mode: scope.Disabled, wantCodes: []diag.Code{diag.MissingBinding}},
		{
			name:      "explicit marker mode requires the marker",
			src:       unmarked,
			mode:      scope.RequireExplicitMarker,
			wantCodes: []diag.Code{diag.OptionalBindingError, diag.MissingBinding},
		},
		{name: "explicit marker mode with marker", src: marked, mode: scope.RequireExplicitMarker, wantCodes: nil},
		{
			name:      "marker with optional bindings disabled",
			src:       marked,
			mode:      scope.Disabled,
			wantCodes: []diag.Code{diag.OptionalBindingError, diag.MissingBinding},
		},
		{name: "accessors need the marker in default mode", src: accessor, mode: scope.Default, wantCodes: []diag.Code{diag.MissingBinding}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := testutil.Resolve(t, tc.src, "AppGraph", resolver.Options{OptionalMode: tc.mode})
			if tc.wantCodes == nil {
				assert.Empty(t, res.Diagnostics)
			} else {
				assert.Equal(t, tc.wantCodes, res.Codes())
			}
		})
	}

	t.Run("absent bindings stay out of the plan", func(t *testing.T) {
		res := testutil.Resolve(t, unmarked, "AppGraph", resolver.Options{})
		require.True(t, res.Graph.Valid())
		assert.Equal(t, []string{"Client"}, reachableKeys(res.Graph))

		edges := res.Graph.Edges(mustID(t, res.Graph, "Client", ""))
		require.Len(t, edges, 1)
		require.NotNil(t, edges[0].Absent)
		assert.Equal(t, binding.Absent, edges[0].Absent.Kind)
		assert.Equal(t, "class Client.timeout (default)", edges[0].Absent.Location())
		assert.False(t, edges[0].Resolved())
	})
}

func TestResolve_MultibindingShapes(t *testing.T) {
	src := `
container "Plugins" {
  into_set "logging" {
    type = "Plugin"
  }
  elements_into_set "defaults" {
    type = "Set<Plugin>"
  }
  multibinds "declared" {
    type = "Set<Plugin>"
  }
}

graph "AppGraph" {
  includes = ["Plugins"]
  accessor "plugins" {
    type = "Set<Plugin>"
  }
}
`
	res := testutil.Resolve(t, src, "AppGraph", resolver.Options{})
	require.Empty(t, res.Diagnostics)

	g := res.Graph
	b, ok := g.Binding(key.MustParseKey("Set<Plugin>", ""))
	require.True(t, ok)
	assert.Equal(t, binding.Multibinding, b.Kind)
	assert.Equal(t, key.SetCollection, b.Collection)
	require.Len(t, b.Contributions, 2)
	assert.False(t, b.Contributions[0].Elements)
	assert.True(t, b.Contributions[1].Elements)
	assert.Len(t, g.Reachable(), 3)
}

func TestResolve_EmptyMultibinding(t *testing.T) {
	const tmpl = `
container "Plugins" {
  multibinds "declared" {
    type        = "Set<Plugin>"
    allow_empty = %s
  }
}

graph "AppGraph" {
  includes = ["Plugins"]
  accessor "plugins" {
    type = "Set<Plugin>"
  }
}
`
	t.Run("allowed", func(t *testing.T) {
		res := testutil.Resolve(t, fmt.Sprintf(tmpl, "true"), "AppGraph", resolver.Options{})
		assert.Empty(t, res.Diagnostics)
	})

	t.Run("not allowed", func(t *testing.T) {
		res := testutil.Resolve(t, fmt.Sprintf(tmpl, "false"), "AppGraph", resolver.Options{})
		require.Equal(t, []diag.Code{diag.MissingBinding}, res.Codes())
		assert.Contains(t, res.Diagnostics[0].Hint, "allow_empty")
	})
}

func TestResolve_EveryDistinctCycleIsReported(t *testing.T) {
	src := `
injectable "A" {
  param "b" {
    type = "B"
  }
  param "c" {
    type = "C"
  }
}

injectable "B" {
  param "a" {
    type = "A"
  }
}

injectable "C" {
  param "a" {
    type = "A"
  }
}

graph "AppGraph" {
  accessor "a" {
    type = "A"
  }
}
`
	res := testutil.Resolve(t, src, "AppGraph", resolver.Options{})
	require.Equal(t, []diag.Code{diag.CycleError, diag.CycleError}, res.Codes())
	assert.Contains(t, res.Diagnostics[0].Message, "found a dependency cycle: A -> B -> A\n")
	assert.Contains(t, res.Diagnostics[1].Message, "found a dependency cycle: A -> C -> A\n")
	assert.False(t, res.Graph.Valid())
}

func TestResolve_DeferredElementsBreakCycle(t *testing.T) {
	src := `
container "Plugins" {
  into_set "logging" {
    type = "Plugin"
    param "app" {
      type = "App"
    }
  }
}

injectable "App" {
  param "plugins" {
    type = "Set<Provider<Plugin>>"
  }
}

graph "AppGraph" {
  includes = ["Plugins"]
  accessor "app" {
    type = "App"
  }
}
`
	res := testutil.Resolve(t, src, "AppGraph", resolver.Options{})
	require.Empty(t, res.Diagnostics)

	g := res.Graph
	contrib := mustID(t, g, "Plugin", "#contrib:Plugins.logging")
	assert.True(t, g.IsDeferred(contrib))
	assert.Equal(t, []string{"App", "@#contrib:Plugins.logging Plugin", "Set<Plugin>"}, orderKeys(g))
}

func TestResolve_Precedence(t *testing.T) {
	src := `
container "Prod" {
  provides "systemClock" {
    type = "Clock"
  }
}

container "Fake" {
  replaces = ["Prod"]
  provides "fakeClock" {
    type = "Clock"
  }
}

container "Override" {
  provides "fixedClock" {
    type = "Clock"
  }
}

container "Extra" {
  contributes_to = ["AppGraph"]
  provides "extraClock" {
    type = "Clock"
  }
}

graph "AppGraph" {
  includes = ["Prod", "Fake"]
  accessor "clock" {
    type = "Clock"
  }
}

graph "PlainGraph" {
  includes = ["Prod"]
  accessor "clock" {
    type = "Clock"
  }
}
`
	testCases := []struct {
		name      string
		graph     string
		dynamic   []string
		wantOwner string
	}{
		{name: "replaced container drops out", graph: "AppGraph", wantOwner: "Fake"},
		{name: "included beats contributed", graph: "AppGraph", wantOwner: "Fake"},
		{name: "dynamic beats included", graph: "PlainGraph", dynamic: []string{"Override"}, wantOwner: "Override"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := testutil.ResolveDynamic(t, src, tc.graph, tc.dynamic, resolver.Options{})
			require.Empty(t, res.Diagnostics)
			b, ok := res.Graph.Binding(key.MustParseKey("Clock", ""))
			require.True(t, ok)
			assert.Equal(t, tc.wantOwner, b.Owner)
		})
	}
}

func TestResolve_AssistedInjection(t *testing.T) {
	src := `
injectable "Engine" {}

injectable "Car" {
  param "engine" {
    type = "Engine"
  }
  param "color" {
    type     = "String"
    assisted = true
  }
}

assisted_factory "CarFactory" {
  target = "Car"
  param "color" {
    type = "String"
  }
}

graph "GoodGraph" {
  accessor "factory" {
    type = "CarFactory"
  }
}

graph "BadGraph" {
  accessor "car" {
    type = "Car"
  }
}
`
	t.Run("factory resolves with deferred dependencies", func(t *testing.T) {
		res := testutil.Resolve(t, src, "GoodGraph", resolver.Options{})
		require.Empty(t, res.Diagnostics)

		g := res.Graph
		id := mustID(t, g, "CarFactory", "")
		assert.Equal(t, binding.AssistedFactory, g.BindingAt(id).Kind)
		assert.Equal(t, key.New("Car", ""), g.BindingAt(id).Target)
		edges := g.Edges(id)
		require.Len(t, edges, 1, "assisted parameters are not dependencies")
		assert.True(t, edges[0].Deferred)
	})

	t.Run("direct request is an error", func(t *testing.T) {
		res := testutil.Resolve(t, src, "BadGraph", resolver.Options{})
		require.Equal(t, []diag.Code{diag.AssistedInjectionError}, res.Codes())
		assert.Contains(t, res.Diagnostics[0].Hint, "CarFactory")
	})
}

func TestResolve_MissingBindingHints(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		wantHint string
	}{
		{
			name: "qualifier mismatch",
			src: `
container "M" {
  provides "name" {
    type      = "String"
    qualifier = "user"
  }
}
graph "G" {
  includes = ["M"]
  accessor "s" {
    type = "String"
  }
}
`,
			wantHint: "a binding exists for @user String; check the qualifier",
		},
		{
			name: "only contributed into a collection",
			src: `
container "M" {
  into_set "p" {
    type = "Plugin"
  }
}
graph "G" {
  includes = ["M"]
  accessor "p" {
    type = "Plugin"
  }
}
`,
			wantHint: "Plugin is only contributed into Set<Plugin>; request the collection",
		},
		{
			name: "wrong collection kind",
			src: `
container "M" {
  into_set "p" {
    type = "Plugin"
  }
}
graph "G" {
  includes = ["M"]
  accessor "p" {
    type = "Map<String, Plugin>"
  }
}
`,
			wantHint: "Plugin is declared as Set<Plugin>, not as a map",
		},
		{
			name: "similar name",
			src: `
injectable "Repository" {}
graph "G" {
  accessor "r" {
    type = "Repositry"
  }
}
`,
			wantHint: "did you mean Repository?",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := testutil.Resolve(t, tc.src, "G", resolver.Options{})
			require.Equal(t, []diag.Code{diag.MissingBinding}, res.Codes())
			assert.Equal(t, tc.wantHint, res.Diagnostics[0].Hint)
		})
	}

	t.Run("chain names every requester", func(t *testing.T) {
		src := `
injectable "Service" {
  param "repo" {
    type = "Repo"
  }
}
graph "G" {
  accessor "service" {
    type = "Service"
  }
}
`
		res := testutil.Resolve(t, src, "G", resolver.Options{})
		require.Equal(t, []diag.Code{diag.MissingBinding}, res.Codes())
		msg := res.Diagnostics[0].Message
		assert.Contains(t, msg, "cannot find a binding for Repo")
		assert.Contains(t, msg, "Repo is requested at class Service (repo)")
		assert.Contains(t, msg, "Service is requested at G.service")
	})
}

func TestResolve_ScopeConflict(t *testing.T) {
	src := `
container "M" {
  provides "session" {
    type   = "Session"
    scopes = ["Activity"]
  }
}
graph "G" {
  scopes   = ["Singleton"]
  includes = ["M"]
  accessor "s" {
    type = "Session"
  }
}
`
	res := testutil.Resolve(t, src, "G", resolver.Options{})
	require.Equal(t, []diag.Code{diag.ScopeConflict}, res.Codes())
	assert.Contains(t, res.Diagnostics[0].Message, "M.session is scoped Activity")
}

func TestResolve_ExtensionInheritance(t *testing.T) {
	src := `
container "Data" {
  provides "db" {
    type   = "Db"
    scopes = ["Singleton"]
  }
  provides "cache" {
    type   = "Cache"
    scopes = ["Singleton"]
  }
}

container "Web" {
  provides "handler" {
    type   = "Handler"
    scopes = ["Request"]
    param "db" {
      type = "Db"
    }
    param "cache" {
      type = "Cache"
    }
  }
}

graph "AppGraph" {
  scopes     = ["Singleton"]
  includes   = ["Data"]
  extensions = ["RequestGraph"]
  accessor "db" {
    type = "Db"
  }
}

graph_extension "RequestGraph" {
  parent   = "AppGraph"
  scopes   = ["Request"]
  includes = ["Web"]
  accessor "handler" {
    type = "Handler"
  }
}
`
	res := testutil.Resolve(t, src, "RequestGraph", resolver.Options{})
	require.Empty(t, res.Diagnostics)

	child := res.Graph
	parent := child.Parent
	require.NotNil(t, parent)
	assert.Equal(t, []string{"Request", "Singleton"}, []string(child.Scopes))

	edges := child.Edges(mustID(t, child, "Handler", ""))
	require.Len(t, edges, 2)

	assert.True(t, edges[0].Inherited, "Db is already in the parent plan")
	assert.Same(t, parent, edges[0].Graph)

	assert.False(t, edges[1].Inherited, "Cache is declared by the parent but not planned there")
	assert.Same(t, child, edges[1].Graph)
	cache, ok := child.Binding(key.MustParseKey("Cache", ""))
	require.True(t, ok)
	assert.Equal(t, "Data", cache.Owner)

	assert.Equal(t, []string{"Handler", "Cache"}, reachableKeys(child))

	require.Len(t, parent.Roots, 2)
	assert.Equal(t, resolver.ExtensionRoot, parent.Roots[1].Kind)
}

func TestResolve_ExtensionMergesParentContributions(t *testing.T) {
	src := `
container "ParentMod" {
  into_set "a" {
    type = "Plugin"
  }
  into_map "first" {
    type    = "Map<String, Int>"
    map_key = "x"
  }
}

container "ChildMod" {
  into_set "b" {
    type = "Plugin"
  }
  into_map "again" {
    type    = "Map<String, Int>"
    map_key = "x"
  }
}

graph "AppGraph" {
  includes   = ["ParentMod"]
  extensions = ["ChildGraph"]
}

graph_extension "ChildGraph" {
  parent   = "AppGraph"
  includes = ["ChildMod"]
  accessor "plugins" {
    type = "Set<Plugin>"
  }
}
`
	t.Run("set contributions of every ancestor are collected", func(t *testing.T) {
		res := testutil.Resolve(t, src, "ChildGraph", resolver.Options{})
		require.Empty(t, res.Diagnostics)

		child := res.Graph
		b, ok := child.Binding(key.MustParseKey("Set<Plugin>", ""))
		require.True(t, ok)
		require.Len(t, b.Contributions, 2)
		assert.Equal(t, "ParentMod.a", b.Contributions[0].Location)
		assert.Equal(t, "ChildMod.b", b.Contributions[1].Location)
		assert.Contains(t, b.Describe(), "set multibinding of 2 contribution(s)")

		edges := child.Edges(mustID(t, child, "Set<Plugin>", ""))
		require.Len(t, edges, 2)
		for _, e := range edges {
			assert.True(t, e.Resolved())
		}
	})

	t.Run("map keys are unique across the merged contributions", func(t *testing.T) {
		withMap := strings.Replace(src, `accessor "plugins" {`, `accessor "numbers" {
    type = "Map<String, Int>"
  }
  accessor "plugins" {`, 1)
		res := testutil.Resolve(t, withMap, "ChildGraph", resolver.Options{})
		require.Equal(t, []diag.Code{diag.DuplicateMapKey}, res.Codes())
		assert.Contains(t, res.Diagnostics[0].Message, "contributed by ParentMod.first and ChildMod.again")
	})
}

func TestResolve_FullValidation(t *testing.T) {
	src := `
container "M" {
  provides "used" {
    type = "Used"
  }
  provides "unused" {
    type = "Unused"
    param "gone" {
      type = "Gone"
    }
  }
}
graph "G" {
  includes = ["M"]
  accessor "u" {
    type = "Used"
  }
}
`
	t.Run("unreached bindings are not validated by default", func(t *testing.T) {
		res := testutil.Resolve(t, src, "G", resolver.Options{})
		assert.Empty(t, res.Diagnostics)
		assert.Equal(t, []string{"Used"}, reachableKeys(res.Graph))
	})

	t.Run("full validation reports them but does not plan them", func(t *testing.T) {
		res := testutil.Resolve(t, src, "G", resolver.Options{FullValidation: true})
		require.Equal(t, []diag.Code{diag.MissingBinding}, res.Codes())
		assert.Contains(t, res.Diagnostics[0].Message, "G (full validation)")
		assert.Equal(t, []string{"Used"}, reachableKeys(res.Graph))
	})
}

func TestResolve_NeverEvaluatesExpressions(t *testing.T) {
	src := `
container "M" {
  provides "name" {
    type = "String"
    body = panic_if_called()
  }
}
injectable "Client" {
  param "name" {
    type = "String"
  }
  param "timeout" {
    type    = "Int"
    default = panic_if_called()
  }
}
graph "G" {
  includes = ["M"]
  accessor "client" {
    type = "Client"
  }
}
`
	require.NotPanics(t, func() {
		res := testutil.Resolve(t, src, "G", resolver.Options{})
		assert.Empty(t, res.Diagnostics)
	})
}

func TestResolve_Aliases(t *testing.T) {
	t.Run("alias edges point at the final target", func(t *testing.T) {
		src := `
injectable "SqlRepo" {}
container "M" {
  binds "repo" {
    type   = "Repo"
    source = "BaseRepo"
  }
  binds "base" {
    type   = "BaseRepo"
    source = "SqlRepo"
  }
}
graph "G" {
  includes = ["M"]
  accessor "repo" {
    type = "Repo"
  }
}
`
		res := testutil.Resolve(t, src, "G", resolver.Options{})
		require.Empty(t, res.Diagnostics)
		g := res.Graph
		assert.Equal(t, []string{"SqlRepo"}, reachableKeys(g))
		assert.Equal(t, mustID(t, g, "SqlRepo", ""), g.Roots[0].Edge.Target)
	})

	t.Run("alias loop", func(t *testing.T) {
		src := `
container "M" {
  binds "a" {
    type   = "A"
    source = "B"
  }
  binds "b" {
    type   = "B"
    source = "A"
  }
}
graph "G" {
  includes = ["M"]
  accessor "a" {
    type = "A"
  }
  accessor "b" {
    type = "B"
  }
}
`
		res := testutil.Resolve(t, src, "G", resolver.Options{})
		require.Equal(t, []diag.Code{diag.CycleError}, res.Codes())
		assert.Contains(t, res.Diagnostics[0].Message, "found an alias cycle: A -> B -> A")
	})
}

func TestResolve_ImplicitBindings(t *testing.T) {
	src := `
injectable "Logger" {}

injectable "Activity" {
  member "logger" {
    type = "Logger"
  }
}

graph "AppGraph" {
  accessor "self" {
    type = "AppGraph"
  }
  injector "inject" {
    type = "Activity"
  }
}

graph "ClockGraph" {
  instance "clock" {
    type = "Clock"
  }
  accessor "clock" {
    type = "Clock"
  }
}

graph "UserGraph" {
  dependencies = ["ClockGraph"]
  accessor "clock" {
    type = "Clock"
  }
  accessor "parent" {
    type = "ClockGraph"
  }
}
`
	t.Run("graph self and members injector", func(t *testing.T) {
		res := testutil.Resolve(t, src, "AppGraph", resolver.Options{})
		require.Empty(t, res.Diagnostics)
		g := res.Graph
		require.Len(t, g.Roots, 2)

		self := g.BindingAt(g.Roots[0].Edge.Target)
		assert.Equal(t, binding.Instance, self.Kind)

		inj := g.BindingAt(g.Roots[1].Edge.Target)
		assert.Equal(t, binding.MembersInjector, inj.Kind)
		assert.Equal(t, "AppGraph.inject", inj.Location())
		assert.True(t, g.Roots[1].Edge.Deferred)
	})

	t.Run("graph instances", func(t *testing.T) {
		res := testutil.Resolve(t, src, "ClockGraph", resolver.Options{})
		require.Empty(t, res.Diagnostics)
		b, ok := res.Graph.Binding(key.New("Clock", ""))
		require.True(t, ok)
		assert.Equal(t, binding.Instance, b.Kind)
	})

	t.Run("graph dependencies", func(t *testing.T) {
		res := testutil.Resolve(t, src, "UserGraph", resolver.Options{})
		require.Empty(t, res.Diagnostics)
		clock, ok := res.Graph.Binding(key.New("Clock", ""))
		require.True(t, ok)
		assert.Equal(t, binding.GraphDependency, clock.Kind)
		assert.Equal(t, "ClockGraph.clock", clock.Location())

		dep, ok := res.Graph.Binding(key.New("ClockGraph", ""))
		require.True(t, ok)
		assert.Equal(t, binding.GraphDependency, dep.Kind)
	})
}
