package key

import "strings"

// New creates a Key from an already canonical type and a qualifier.
func New(typ, qualifier string) Key {
	return Key{Type: typ, Qualifier: qualifier}
}

// String renders the key as `@Qualifier Type`.
func (k Key) String() string {
	if k.Qualifier == "" {
		return k.Type
	}
	return "@" + k.Qualifier + " " + k.Type
}

// Collection reports which multibinding collection k denotes.
func (k Key) Collection() CollectionKind {
	switch {
	case strings.HasPrefix(k.Type, "Set<"):
		return SetCollection
	case strings.HasPrefix(k.Type, "Map<"):
		return MapCollection
	default:
		return NotCollection
	}
}

// ElementType returns the value type of a Set or Map key, or "" when k is
// not a collection.
func (k Key) ElementType() string {
	t, err := ParseType(k.Type)
	if err != nil {
		return ""
	}
	switch {
	case t.Name == "Set" && len(t.Args) == 1:
		return t.Args[0].String()
	case t.Name == "Map" && len(t.Args) == 2:
		return t.Args[1].String()
	default:
		return ""
	}
}

// NewContextual builds a ContextualKey. It panics on a wrapping outside the
// enumerated set, which is always a programming error.
func NewContextual(k Key, wrapping, elements Wrapping, hasDefault bool) ContextualKey {
	if !wrapping.Valid() || !elements.Valid() {
		panic("key: contextual key requires a concrete wrapping")
	}
	return ContextualKey{
		Key:          k,
		Wrapping:     wrapping,
		Elements:     elements,
		IsDeferrable: wrapping.Deferred() || elements.Deferred(),
		HasDefault:   hasDefault,
	}
}

// DirectOf returns the direct, non-defaulted request for k.
func DirectOf(k Key) ContextualKey {
	return NewContextual(k, Direct, Direct, false)
}

// WithDefault returns a copy of ck with HasDefault set.
func (ck ContextualKey) WithDefault(hasDefault bool) ContextualKey {
	ck.HasDefault = hasDefault
	return ck
}

// Deferred returns a copy of ck whose whole-value wrapping is a Provider.
// Requests that already defer are returned unchanged.
func (ck ContextualKey) Deferred() ContextualKey {
	if ck.Wrapping != Direct {
		return ck
	}
	return NewContextual(ck.Key, DeferredProvider, ck.Elements, ck.HasDefault)
}

// TypeString renders the request's full type expression, framework wrappers
// included.
func (ck ContextualKey) TypeString() string {
	inner := ck.Key.Type
	if ck.Elements != Direct {
		if t, err := ParseType(inner); err == nil && len(t.Args) > 0 {
			last := len(t.Args) - 1
			t.Args[last] = TypeExpr{Name: ck.Elements.wrap(t.Args[last].String())}
			inner = t.String()
		}
	}
	return ck.Wrapping.wrap(inner)
}

// String renders the request as `@Qualifier Provider<Type>`.
func (ck ContextualKey) String() string {
	if ck.Key.Qualifier == "" {
		return ck.TypeString()
	}
	return "@" + ck.Key.Qualifier + " " + ck.TypeString()
}
