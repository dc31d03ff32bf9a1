package decl

// Container returns the container named name.
func (m *Model) Container(name string) (*Container, bool) {
	for _, c := range m.Containers {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Injectable returns the injectable class named name.
func (m *Model) Injectable(name string) (*Injectable, bool) {
	for _, i := range m.Injectables {
		if i.Name == name {
			return i, true
		}
	}
	return nil, false
}

// AssistedFactoryFor returns the assisted factory whose target is typ.
func (m *Model) AssistedFactoryFor(typ string) (*AssistedFactory, bool) {
	for _, f := range m.AssistedFactories {
		if f.Target == typ {
			return f, true
		}
	}
	return nil, false
}

// AssistedFactory returns the assisted factory named name.
func (m *Model) AssistedFactory(name string) (*AssistedFactory, bool) {
	for _, f := range m.AssistedFactories {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Graph returns the graph named name.
func (m *Model) Graph(name string) (*Graph, bool) {
	for _, g := range m.Graphs {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// Merge appends other's declarations to m, preserving order.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	m.Containers = append(m.Containers, other.Containers...)
	m.Injectables = append(m.Injectables, other.Injectables...)
	m.AssistedFactories = append(m.AssistedFactories, other.AssistedFactories...)
	m.Graphs = append(m.Graphs, other.Graphs...)
}
