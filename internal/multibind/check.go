package multibind

import (
	"github.com/vk/bindgraph/internal/decl"
	"github.com/vk/bindgraph/internal/diag"
	"github.com/zclconf/go-cty/cty"
)

// CheckDeclarations reports malformed multibinding declarations: map
// contributions without a literal map_key, keys of the wrong literal type,
// and collection declarations of the wrong shape. It runs once per
// compilation.
func CheckDeclarations(model *decl.Model, rep *diag.Reporter) {
	for _, c := range model.Containers {
		if !c.Kind.Legal() {
			continue
		}
		for _, d := range c.Declarations {
			if !d.Kind.IsMultibinding() {
				continue
			}
			loc := c.Name + "." + d.Name
			target, ok := TargetKey(d)
			if !ok {
				rep.Errorf(diag.BindingContainerError, d.Range, "", shapeHint(d.Kind),
					"%s: %s declaration has type %q", loc, d.Kind, d.Type)
				continue
			}
			if d.Kind != decl.DeclIntoMap {
				continue
			}
			switch {
			case d.MapKeyExpr == nil:
				rep.Errorf(diag.MapKeyError, d.Range, "", "add map_key = <literal>",
					"%s: into_map contribution has no map key", loc)
			case d.MapKey == nil:
				rep.Errorf(diag.MapKeyError, d.MapKeyExpr.Range(), "", "map keys must be literal values",
					"%s: map key is not a literal", loc)
			default:
				want := keyTypeFor(mapKeyType(target))
				if want != cty.DynamicPseudoType && !d.MapKey.Type().Equals(want) {
					rep.Errorf(diag.MapKeyError, d.MapKeyExpr.Range(), "", "",
						"%s: map key %s is not a %s", loc, RenderMapKey(*d.MapKey), mapKeyType(target))
				}
			}
		}
	}
}

func shapeHint(k decl.DeclKind) string {
	switch k {
	case decl.DeclElementsIntoSet:
		return "elements_into_set contributes a Set<V>"
	case decl.DeclIntoMap:
		return "into_map type must be Map<K, V>"
	case decl.DeclMultibinds:
		return "multibinds type must be Set<V> or Map<K, V>"
	default:
		return ""
	}
}
