package container

import (
	"github.com/vk/bindgraph/internal/binding"
	"github.com/vk/bindgraph/internal/decl"
	"github.com/vk/bindgraph/internal/key"
)

// Precedence orders the ways a container joins a graph.
type Precedence int

const (
	Contributed Precedence = iota
	Included
	Dynamic
)

// String returns the human-readable precedence name.
func (p Precedence) String() string {
	switch p {
	case Contributed:
		return "contributed"
	case Included:
		return "included"
	case Dynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Participant is a container that joined the graph.
type Participant struct {
	Container  *decl.Container
	Precedence Precedence
}

// Candidate is one declared binding for a key.
type Candidate struct {
	Binding    *binding.Binding
	Precedence Precedence
}

// Routed is a multibinding declaration with the container that holds it.
type Routed struct {
	Container  string
	Precedence Precedence
	Decl       *decl.Declaration
}

// Set is the aggregated candidate set of one graph.
type Set struct {
	Graph        string
	Participants []Participant
	Multibinds   []Routed

	candidates map[key.Key][]Candidate
	order      []key.Key
}

// Lookup returns the winning-precedence candidates for k, in collection
// order. More than one result is a duplicate binding.
func (s *Set) Lookup(k key.Key) []Candidate {
	return s.candidates[k]
}

// Keys returns every key with a candidate, in collection order.
func (s *Set) Keys() []key.Key {
	return s.order
}

// HasContainer reports whether a container named name participates.
func (s *Set) HasContainer(name string) bool {
	for _, p := range s.Participants {
		if p.Container.Name == name {
			return true
		}
	}
	return false
}

func (s *Set) add(k key.Key, c Candidate) {
	existing, ok := s.candidates[k]
	if !ok {
		s.order = append(s.order, k)
		s.candidates[k] = []Candidate{c}
		return
	}
	switch top := existing[0].Precedence; {
	case c.Precedence > top:
		s.candidates[k] = []Candidate{c}
	case c.Precedence == top:
		s.candidates[k] = append(existing, c)
	}
}
