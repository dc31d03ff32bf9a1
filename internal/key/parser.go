package key

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrEmptyType is returned when a type expression is blank.
var ErrEmptyType = errors.New("type expression cannot be empty")

// identRegex matches one type name segment, e.g. `String`, `com.acme.Repo` or `Int?`.
var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*\??`)

// TypeExpr is a parsed type expression: a name with optional type arguments.
type TypeExpr struct {
	Name string
	Args []TypeExpr
}

// String renders the canonical form, e.g. `Map<String, Provider<Handler>>`.
func (t TypeExpr) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	var sb strings.Builder
	sb.WriteString(t.Name)
	sb.WriteByte('<')
	for i, a := range t.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte('>')
	return sb.String()
}

// ParseType parses a raw type expression into its canonical tree.
func ParseType(raw string) (TypeExpr, error) {
	src := strings.TrimSpace(raw)
	if src == "" {
		return TypeExpr{}, ErrEmptyType
	}
	p := &typeParser{src: src}
	t, err := p.parse()
	if err != nil {
		return TypeExpr{}, fmt.Errorf("invalid type expression %q: %w", raw, err)
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return TypeExpr{}, fmt.Errorf("invalid type expression %q: unexpected %q at offset %d", raw, p.src[p.pos:], p.pos)
	}
	return t, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n') {
		p.pos++
	}
}

func (p *typeParser) parse() (TypeExpr, error) {
	p.skipSpace()
	name := identRegex.FindString(p.src[p.pos:])
	if name == "" {
		return TypeExpr{}, fmt.Errorf("expected type name at offset %d", p.pos)
	}
	p.pos += len(name)
	t := TypeExpr{Name: name}

	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '<' {
		return t, nil
	}
	p.pos++
	for {
		arg, err := p.parse()
		if err != nil {
			return TypeExpr{}, err
		}
		t.Args = append(t.Args, arg)
		p.skipSpace()
		if p.pos >= len(p.src) {
			return TypeExpr{}, errors.New("unbalanced '<'")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case '>':
			p.pos++
			return t, nil
		default:
			return TypeExpr{}, fmt.Errorf("unexpected %q at offset %d", p.src[p.pos], p.pos)
		}
	}
}

// unwrap peels Provider/Lazy framework types off t.
func unwrap(t TypeExpr) (TypeExpr, Wrapping, error) {
	switch t.Name {
	case "Provider":
		if len(t.Args) != 1 {
			return TypeExpr{}, Direct, errors.New("Provider takes exactly one type argument")
		}
		inner := t.Args[0]
		if inner.Name == "Lazy" {
			if len(inner.Args) != 1 {
				return TypeExpr{}, Direct, errors.New("Lazy takes exactly one type argument")
			}
			return inner.Args[0], ProviderOfLazy, nil
		}
		return inner, DeferredProvider, nil
	case "Lazy":
		if len(t.Args) != 1 {
			return TypeExpr{}, Direct, errors.New("Lazy takes exactly one type argument")
		}
		if t.Args[0].Name == "Provider" {
			return TypeExpr{}, Direct, errors.New("Lazy<Provider<T>> is not a supported request shape")
		}
		return t.Args[0], Lazy, nil
	default:
		return t, Direct, nil
	}
}

func isFramework(t TypeExpr) bool {
	return t.Name == "Provider" || t.Name == "Lazy"
}

// ParseRequest classifies a request site's type expression into a
// ContextualKey. Framework wrappers around the whole value and around a
// collection's values are lifted off the underlying Key.
func ParseRequest(typeExpr, qualifier string, hasDefault bool) (ContextualKey, error) {
	t, err := ParseType(typeExpr)
	if err != nil {
		return ContextualKey{}, err
	}
	inner, wrapping, err := unwrap(t)
	if err != nil {
		return ContextualKey{}, fmt.Errorf("invalid request %q: %w", typeExpr, err)
	}
	if isFramework(inner) {
		return ContextualKey{}, fmt.Errorf("invalid request %q: nested framework types", typeExpr)
	}

	elements := Direct
	if (inner.Name == "Set" && len(inner.Args) == 1) || (inner.Name == "Map" && len(inner.Args) == 2) {
		last := len(inner.Args) - 1
		value, w, err := unwrap(inner.Args[last])
		if err != nil {
			return ContextualKey{}, fmt.Errorf("invalid request %q: %w", typeExpr, err)
		}
		args := append([]TypeExpr(nil), inner.Args...)
		args[last] = value
		inner = TypeExpr{Name: inner.Name, Args: args}
		elements = w
	}

	return NewContextual(New(inner.String(), strings.TrimSpace(qualifier)), wrapping, elements, hasDefault), nil
}

// ParseKey parses the type a declaration provides. Framework types cannot be
// provided directly.
func ParseKey(typeExpr, qualifier string) (Key, error) {
	t, err := ParseType(typeExpr)
	if err != nil {
		return Key{}, err
	}
	if isFramework(t) {
		return Key{}, fmt.Errorf("type %q cannot be provided directly: framework types are synthesized", typeExpr)
	}
	return New(t.String(), strings.TrimSpace(qualifier)), nil
}

// MustParseKey is ParseKey that panics; for tests and static tables.
func MustParseKey(typeExpr, qualifier string) Key {
	k, err := ParseKey(typeExpr, qualifier)
	if err != nil {
		panic(err)
	}
	return k
}
