package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "simple", input: "Foo", expected: "Foo"},
		{name: "dotted", input: "com.acme.Repo", expected: "com.acme.Repo"},
		{name: "nullable", input: "Int?", expected: "Int?"},
		{name: "canonical spacing", input: "Map< String ,Provider<Handler > >", expected: "Map<String, Provider<Handler>>"},
		{name: "nested generics", input: "Set<Pair<A,B>>", expected: "Set<Pair<A, B>>"},
		{name: "empty", input: "  ", wantErr: true},
		{name: "unbalanced open", input: "Set<Foo", wantErr: true},
		{name: "unbalanced close", input: "Foo>", wantErr: true},
		{name: "empty args", input: "Set<>", wantErr: true},
		{name: "bad char", input: "Set<Foo;>", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseType(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got.String())
		})
	}
}

func TestParseRequest(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		key        string
		wrapping   Wrapping
		elements   Wrapping
		deferrable bool
	}{
		{name: "direct", input: "Foo", key: "Foo", wrapping: Direct, elements: Direct},
		{name: "provider", input: "Provider<Foo>", key: "Foo", wrapping: DeferredProvider, elements: Direct, deferrable: true},
		{name: "lazy", input: "Lazy<Foo>", key: "Foo", wrapping: Lazy, elements: Direct, deferrable: true},
		{name: "provider of lazy", input: "Provider<Lazy<Foo>>", key: "Foo", wrapping: ProviderOfLazy, elements: Direct, deferrable: true},
		{name: "set", input: "Set<Plugin>", key: "Set<Plugin>", wrapping: Direct, elements: Direct},
		{name: "set of providers", input: "Set<Provider<Plugin>>", key: "Set<Plugin>", wrapping: Direct, elements: DeferredProvider, deferrable: true},
		{name: "provider of set", input: "Provider<Set<Plugin>>", key: "Set<Plugin>", wrapping: DeferredProvider, elements: Direct, deferrable: true},
		{name: "provider of set of providers", input: "Provider<Set<Provider<Plugin>>>", key: "Set<Plugin>", wrapping: DeferredProvider, elements: DeferredProvider, deferrable: true},
		{name: "map of lazy", input: "Map<String, Lazy<Handler>>", key: "Map<String, Handler>", wrapping: Direct, elements: Lazy, deferrable: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ck, err := ParseRequest(tc.input, "", false)
			require.NoError(t, err)
			assert.Equal(t, tc.key, ck.Key.Type)
			assert.Equal(t, tc.wrapping, ck.Wrapping)
			assert.Equal(t, tc.elements, ck.Elements)
			assert.Equal(t, tc.deferrable, ck.IsDeferrable)
		})
	}

	t.Run("rejects nested framework types", func(t *testing.T) {
		_, err := ParseRequest("Lazy<Provider<Foo>>", "", false)
		require.Error(t, err)
		_, err = ParseRequest("Provider<Provider<Foo>>", "", false)
		require.Error(t, err)
	})

	t.Run("carries qualifier and default", func(t *testing.T) {
		ck, err := ParseRequest("Foo", ` Named("x") `, true)
		require.NoError(t, err)
		assert.Equal(t, Key{Type: "Foo", Qualifier: `Named("x")`}, ck.Key)
		assert.True(t, ck.HasDefault)
	})
}

func TestContextualKey_TypeString(t *testing.T) {
	inputs := []string{
		"Foo",
		"Provider<Foo>",
		"Provider<Lazy<Foo>>",
		"Set<Provider<Plugin>>",
		"Provider<Map<String, Lazy<Handler>>>",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			ck, err := ParseRequest(in, "", false)
			require.NoError(t, err)
			assert.Equal(t, in, ck.TypeString())
		})
	}
}

func TestParseKey(t *testing.T) {
	k, err := ParseKey("Map<String,Int>", "")
	require.NoError(t, err)
	assert.Equal(t, "Map<String, Int>", k.Type)
	assert.Equal(t, MapCollection, k.Collection())
	assert.Equal(t, "Int", k.ElementType())

	_, err = ParseKey("Provider<Foo>", "")
	assert.Error(t, err)
}

func TestKey_String(t *testing.T) {
	assert.Equal(t, "Foo", New("Foo", "").String())
	assert.Equal(t, `@Named("x") Foo`, New("Foo", `Named("x")`).String())
	assert.NotEqual(t, New("Foo", ""), New("Foo", `Named("x")`))
}

func TestNewContextual_PanicsOnUnknownWrapping(t *testing.T) {
	assert.Panics(t, func() {
		NewContextual(New("Foo", ""), Wrapping(42), Direct, false)
	})
}

func TestInterner(t *testing.T) {
	in := NewInterner()
	a := in.Intern(New("A", ""))
	b := in.Intern(New("B", ""))
	again := in.Intern(New("A", ""))

	assert.Equal(t, ID(0), a)
	assert.Equal(t, ID(1), b)
	assert.Equal(t, a, again)
	assert.Equal(t, 2, in.Len())
	assert.Equal(t, New("B", ""), in.Key(b))

	_, ok := in.Lookup(New("C", ""))
	assert.False(t, ok)
}
