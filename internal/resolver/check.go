package resolver

import (
	"context"
	"sort"
	"strings"

	"github.com/vk/bindgraph/internal/container"
	"github.com/vk/bindgraph/internal/ctxlog"
	"github.com/vk/bindgraph/internal/decl"
	"github.com/vk/bindgraph/internal/diag"
	"github.com/vk/bindgraph/internal/key"
	"github.com/vk/bindgraph/internal/multibind"
	"github.com/vk/bindgraph/internal/scope"
)

// CheckDeclarations runs every declaration-time check once for the whole
// model. These problems are reported whether or not any graph uses the
// offending declaration.
func CheckDeclarations(ctx context.Context, model *decl.Model, opts Options, rep *diag.Reporter) {
	logger := ctxlog.FromContext(ctx)
	mode := opts.OptionalMode
	if mode == "" {
		mode = scope.Default
	}

	container.CheckDeclarations(model, rep)
	multibind.CheckDeclarations(model, rep)
	scope.CheckDeclarations(model, mode, rep)
	checkAssisted(model, rep)
	checkInjectables(model, rep)

	logger.Debug("Declaration checks complete.",
		"containers", len(model.Containers),
		"injectables", len(model.Injectables),
		"graphs", len(model.Graphs))
}

func checkAssisted(model *decl.Model, rep *diag.Reporter) {
	for _, f := range model.AssistedFactories {
		target, ok := model.Injectable(f.Target)
		if !ok {
			rep.Errorf(diag.AssistedInjectionError, f.Range, "", "the target must be an injectable class",
				"assisted factory %s targets %s, which is not injectable", f.Name, f.Target)
			continue
		}
		if !target.IsAssisted() {
			rep.Errorf(diag.AssistedInjectionError, f.Range, "", "mark the caller-supplied parameters of "+target.Name+" with assisted = true",
				"assisted factory %s targets %s, which has no assisted parameters", f.Name, target.Name)
			continue
		}
		want := signature(target.AssistedParams())
		got := signature(f.Params)
		if want != got {
			rep.Errorf(diag.AssistedInjectionError, f.Range, "", "factory parameters must match the assisted parameters by name and type",
				"assisted factory %s takes (%s) but %s expects (%s)", f.Name, got, target.Name, want)
		}
	}
}

func signature(params []*decl.Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		typ := p.Type
		if t, err := key.ParseType(p.Type); err == nil {
			typ = t.String()
		}
		parts = append(parts, p.Name+": "+typ)
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

func checkInjectables(model *decl.Model, rep *diag.Reporter) {
	for _, inj := range model.Injectables {
		if _, err := key.ParseKey(inj.Name, inj.Qualifier); err != nil {
			rep.Errorf(diag.BindingContainerError, inj.Range, "", "", "class %s: %v", inj.Name, err)
			continue
		}
		for _, p := range append(append([]*decl.Param(nil), inj.Params...), inj.Members...) {
			if _, err := container.SiteFor(p); err != nil {
				rep.Errorf(diag.BindingContainerError, p.Range, "", "", "class %s: parameter %v", inj.Name, err)
			}
		}
		for _, m := range inj.Members {
			if m.Assisted {
				rep.Errorf(diag.AssistedInjectionError, m.Range, "", "only constructor parameters can be assisted",
					"class %s: member %s cannot be assisted", inj.Name, m.Name)
			}
		}
	}
}
