package key

import "fmt"

// Wrapping classifies how a request site receives a value.
type Wrapping int

const (
	// Direct requests the value itself.
	Direct Wrapping = iota
	// DeferredProvider requests a Provider<T> that yields the value on demand.
	DeferredProvider
	// Lazy requests a memoizing Lazy<T>.
	Lazy
	// ProviderOfLazy requests a Provider<Lazy<T>>.
	ProviderOfLazy
)

// String returns the human-readable name of the wrapping.
func (w Wrapping) String() string {
	switch w {
	case Direct:
		return "direct"
	case DeferredProvider:
		return "provider"
	case Lazy:
		return "lazy"
	case ProviderOfLazy:
		return "provider-of-lazy"
	default:
		return fmt.Sprintf("wrapping(%d)", int(w))
	}
}

// Valid reports whether w is one of the concrete wrappings.
func (w Wrapping) Valid() bool {
	return w >= Direct && w <= ProviderOfLazy
}

// Deferred reports whether a value requested with this wrapping may be
// obtained after the requesting binding is constructed.
func (w Wrapping) Deferred() bool {
	return w != Direct
}

// wrap renders t inside the framework types of w.
func (w Wrapping) wrap(t string) string {
	switch w {
	case DeferredProvider:
		return "Provider<" + t + ">"
	case Lazy:
		return "Lazy<" + t + ">"
	case ProviderOfLazy:
		return "Provider<Lazy<" + t + ">>"
	default:
		return t
	}
}

// Key identifies a value by canonical type and optional qualifier. Two keys
// are equal iff both fields are equal; an empty qualifier is its own identity.
type Key struct {
	Type      string
	Qualifier string
}

// ContextualKey is a Key as requested from one site.
type ContextualKey struct {
	Key Key
	// Wrapping is how the whole value is requested.
	Wrapping Wrapping
	// Elements is how the values of a Set or Map are requested. It is Direct
	// for anything that is not a collection.
	Elements Wrapping
	// IsDeferrable is true when the request does not need the value to exist
	// at the time the requesting binding is constructed.
	IsDeferrable bool
	// HasDefault is true when the request site carries a default value.
	HasDefault bool
}

// CollectionKind names the multibinding collection shapes.
type CollectionKind int

const (
	// NotCollection is any non-multibinding type.
	NotCollection CollectionKind = iota
	// SetCollection is Set<V>.
	SetCollection
	// MapCollection is Map<K, V>.
	MapCollection
)

// String returns the human-readable name of the collection kind.
func (c CollectionKind) String() string {
	switch c {
	case SetCollection:
		return "set"
	case MapCollection:
		return "map"
	default:
		return "none"
	}
}
