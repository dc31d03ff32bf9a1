package container

import (
	"context"
	"slices"

	"github.com/vk/bindgraph/internal/binding"
	"github.com/vk/bindgraph/internal/ctxlog"
	"github.com/vk/bindgraph/internal/decl"
	"github.com/vk/bindgraph/internal/key"
)

// Collect aggregates the candidate bindings of graph g. dynamic lists the
// caller-supplied container names of a dynamic graph; they are expected to
// be validated already. Unknown or illegal containers are skipped here, they
// are reported by CheckDeclarations.
func Collect(ctx context.Context, model *decl.Model, g *decl.Graph, dynamic []string) *Set {
	logger := ctxlog.FromContext(ctx).With("graph", g.Name)

	s := &Set{
		Graph:      g.Name,
		candidates: make(map[key.Key][]Candidate),
	}

	levels := make(map[string]Precedence)
	var order []string
	var visit func(name string, p Precedence)
	visit = func(name string, p Precedence) {
		c, ok := model.Container(name)
		if !ok || !c.Kind.Legal() {
			return
		}
		if prev, seen := levels[name]; seen {
			if prev >= p {
				return
			}
		} else {
			order = append(order, name)
		}
		levels[name] = p
		for _, inc := range c.Includes {
			visit(inc, p)
		}
	}

	for _, name := range g.Includes {
		visit(name, Included)
	}
	targets := append([]string{g.Name}, g.Scopes...)
	for _, c := range model.Containers {
		for _, t := range c.ContributesTo {
			if slices.Contains(targets, t) {
				visit(c.Name, Contributed)
				break
			}
		}
	}
	for _, name := range dynamic {
		visit(name, Dynamic)
	}

	replaced := make(map[string]struct{})
	for _, name := range order {
		c, _ := model.Container(name)
		for _, r := range c.Replaces {
			replaced[r] = struct{}{}
		}
	}

	for _, name := range order {
		if _, gone := replaced[name]; gone {
			logger.Debug("Container replaced.", "container", name)
			continue
		}
		c, _ := model.Container(name)
		s.Participants = append(s.Participants, Participant{Container: c, Precedence: levels[name]})
	}

	for _, p := range s.Participants {
		for _, d := range p.Container.Declarations {
			if d.Kind.IsMultibinding() {
				s.Multibinds = append(s.Multibinds, Routed{Container: p.Container.Name, Precedence: p.Precedence, Decl: d})
				continue
			}
			b, err := BindingFor(p.Container, d)
			if err != nil {
				continue
			}
			s.add(b.Key(), Candidate{Binding: b, Precedence: p.Precedence})
		}
	}

	addGraphBindings(model, g, s)

	logger.Debug("Collected candidate bindings.", "containers", len(s.Participants), "keys", len(s.order), "multibinding_declarations", len(s.Multibinds))
	return s
}

// addGraphBindings adds the graph's own instances and the accessors of the
// graphs it depends on, at Included precedence.
func addGraphBindings(model *decl.Model, g *decl.Graph, s *Set) {
	for _, inst := range g.Instances {
		b, err := InstanceBinding(g, inst)
		if err != nil {
			continue
		}
		s.add(b.Key(), Candidate{Binding: b, Precedence: Included})
	}
	for _, depName := range g.Dependencies {
		self := binding.New(binding.GraphDependency, key.New(depName, ""))
		self.Owner = g.Name
		self.Member = depName
		self.Range = g.Range
		s.add(self.Key(), Candidate{Binding: self, Precedence: Included})

		dep, ok := model.Graph(depName)
		if !ok {
			continue
		}
		for _, acc := range dep.Accessors {
			k, err := key.ParseKey(acc.Type, acc.Qualifier)
			if err != nil {
				continue
			}
			b := binding.New(binding.GraphDependency, k)
			b.Owner = dep.Name
			b.Member = acc.Name
			b.Range = acc.Range
			s.add(k, Candidate{Binding: b, Precedence: Included})
		}
	}
}
