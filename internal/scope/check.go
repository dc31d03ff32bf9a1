package scope

import (
	"strings"

	"github.com/vk/bindgraph/internal/decl"
	"github.com/vk/bindgraph/internal/diag"
	"github.com/vk/bindgraph/internal/key"
)

// CheckDeclarations reports conflicting scope literals and misused optional
// markers. It runs once per compilation for every declaration.
func CheckDeclarations(model *decl.Model, mode OptionalMode, rep *diag.Reporter) {
	classScopes := make(map[string][]string)
	for _, inj := range model.Injectables {
		classScopes[inj.Name] = inj.Scopes
		if len(inj.Scopes) > 1 {
			rep.Errorf(diag.ConflictingScope, inj.Range, "", "declare at most one scope",
				"class %s declares scopes %s", inj.Name, strings.Join(inj.Scopes, ", "))
		}
		for _, p := range inj.Params {
			checkOptional(rep, mode, "class "+inj.Name, p)
		}
		for _, p := range inj.Members {
			checkOptional(rep, mode, "class "+inj.Name, p)
		}
	}

	for _, c := range model.Containers {
		for _, d := range c.Declarations {
			loc := c.Name + "." + d.Name
			if len(d.Scopes) > 1 {
				rep.Errorf(diag.ConflictingScope, d.Range, "", "declare at most one scope",
					"%s declares scopes %s", loc, strings.Join(d.Scopes, ", "))
			} else if len(d.Scopes) == 1 && d.Kind == decl.DeclProvides {
				if k, err := key.ParseKey(d.Type, d.Qualifier); err == nil {
					if cls := classScopes[k.Type]; len(cls) == 1 && cls[0] != d.Scopes[0] {
						rep.Errorf(diag.ConflictingScope, d.Range, "", "use the scope declared on the class",
							"%s is scoped %s but class %s is scoped %s", loc, d.Scopes[0], k.Type, cls[0])
					}
				}
			}
			for _, p := range d.Params {
				checkOptional(rep, mode, loc, p)
			}
		}
	}

	for _, g := range model.Graphs {
		for _, a := range g.Accessors {
			checkOptional(rep, mode, g.Name, a)
		}
	}
}

func checkOptional(rep *diag.Reporter, mode OptionalMode, owner string, p *decl.Param) {
	site := owner + "." + p.Name
	hasDefault := p.HasDefault()
	switch {
	case p.Assisted && p.Optional:
		rep.Errorf(diag.OptionalBindingError, p.Range, "", "",
			"%s is assisted and cannot be optional", site)
	case p.Optional && mode == Disabled:
		rep.Errorf(diag.OptionalBindingError, p.Range, "", "set the optional mode to default or require-explicit-marker",
			"%s is marked optional but optional bindings are disabled", site)
	case p.Optional && !hasDefault:
		rep.Errorf(diag.OptionalBindingError, p.Range, "", "add a default value",
			"%s is marked optional but has no default", site)
	case !p.Optional && hasDefault && mode == RequireExplicitMarker:
		rep.Errorf(diag.OptionalBindingError, p.Range, "", "add optional = true or remove the default",
			"%s has a default but no optional marker", site)
	}
}
