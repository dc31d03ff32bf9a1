package multibind

import (
	"strconv"

	"github.com/zclconf/go-cty/cty"
)

// RenderMapKey renders a literal map key the way it was written.
func RenderMapKey(v cty.Value) string {
	if v == cty.NilVal || !v.IsKnown() || v.IsNull() {
		return "null"
	}
	switch v.Type() {
	case cty.String:
		return strconv.Quote(v.AsString())
	case cty.Number:
		return v.AsBigFloat().Text('f', -1)
	case cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	default:
		return v.GoString()
	}
}

// sameMapKey reports whether two literal keys are equal, types included.
func sameMapKey(a, b cty.Value) bool {
	if !a.Type().Equals(b.Type()) {
		return false
	}
	return a.RawEquals(b)
}

// keyTypeFor returns the literal type a map key of declared type name must
// have, or cty.DynamicPseudoType when any literal is accepted.
func keyTypeFor(name string) cty.Type {
	switch name {
	case "String":
		return cty.String
	case "Int", "Long", "Short", "Byte", "Float", "Double":
		return cty.Number
	case "Boolean":
		return cty.Bool
	default:
		return cty.DynamicPseudoType
	}
}
