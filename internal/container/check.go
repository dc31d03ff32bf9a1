package container

import (
	"github.com/vk/bindgraph/internal/decl"
	"github.com/vk/bindgraph/internal/diag"
	"github.com/vk/bindgraph/internal/key"
)

// CheckDeclarations reports illegal container shapes and malformed
// container declarations. It runs once per compilation, independently of
// which graphs use the containers.
func CheckDeclarations(model *decl.Model, rep *diag.Reporter) {
	for _, c := range model.Containers {
		if !c.Kind.Legal() {
			rep.Errorf(diag.BindingContainerError, c.Range, "",
				"object, interface or class containers only",
				"binding container %s is declared as %s", c.Name, c.Kind)
			continue
		}
		for _, inc := range c.Includes {
			checkReference(model, rep, c.Name, inc, c)
		}
		for _, d := range c.Declarations {
			checkDeclaration(rep, c, d)
		}
	}
	for _, g := range model.Graphs {
		for _, inc := range g.Includes {
			target, ok := model.Container(inc)
			if !ok {
				rep.Errorf(diag.BindingContainerError, g.Range, g.Name, "",
					"graph %s includes unknown binding container %s", g.Name, inc)
				continue
			}
			if !target.Kind.Legal() {
				rep.Errorf(diag.BindingContainerError, g.Range, g.Name, "",
					"graph %s includes %s container %s", g.Name, target.Kind, inc)
			}
		}
	}
}

func checkReference(model *decl.Model, rep *diag.Reporter, from, name string, c *decl.Container) {
	target, ok := model.Container(name)
	if !ok {
		rep.Errorf(diag.BindingContainerError, c.Range, "", "",
			"binding container %s includes unknown container %s", from, name)
		return
	}
	if !target.Kind.Legal() {
		rep.Errorf(diag.BindingContainerError, c.Range, "", "",
			"binding container %s includes %s container %s", from, target.Kind, name)
	}
}

func checkDeclaration(rep *diag.Reporter, c *decl.Container, d *decl.Declaration) {
	loc := c.Name + "." + d.Name
	if _, err := key.ParseKey(d.Type, d.Qualifier); err != nil {
		rep.Errorf(diag.BindingContainerError, d.Range, "", "", "%s: %v", loc, err)
		return
	}
	for _, p := range d.Params {
		if _, err := SiteFor(p); err != nil {
			rep.Errorf(diag.BindingContainerError, p.Range, "", "", "%s: parameter %v", loc, err)
		}
	}
	if d.Kind == decl.DeclBinds {
		if d.Source == "" {
			rep.Errorf(diag.BindingContainerError, d.Range, "", "", "%s: binds declaration needs a source type", loc)
		} else if _, err := key.ParseKey(d.Source, d.SourceQualifier); err != nil {
			rep.Errorf(diag.BindingContainerError, d.Range, "", "", "%s: source %v", loc, err)
		}
		if len(d.Params) > 0 {
			rep.Errorf(diag.BindingContainerError, d.Range, "", "", "%s: binds declaration takes no parameters", loc)
		}
	}
}
