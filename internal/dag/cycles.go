package dag

import "sort"

// DetectCycles returns every elementary cycle of the strict subgraph,
// including strict self edges. A cycle is the node path in dependency
// direction, starting and ending at its earliest-inserted member, so each
// distinct cycle appears once. Cycles are ordered by that member, then by
// discovery along the dependency edges.
func (g *Graph) DetectCycles() [][]int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	var cycles [][]int
	for _, scc := range g.strictComponents() {
		if len(scc) == 1 && !g.hasStrictSelfEdge(scc[0]) {
			continue
		}
		cycles = append(cycles, g.cyclesIn(scc)...)
	}
	sort.SliceStable(cycles, func(i, j int) bool {
		return g.pos[cycles[i][0]] < g.pos[cycles[j][0]]
	})
	return cycles
}

func (g *Graph) hasStrictSelfEdge(id int) bool {
	for _, e := range g.nodes[id].deps {
		if e.ID == id && !e.Deferred {
			return true
		}
	}
	return false
}

// strictComponents runs Tarjan's algorithm over strict dependency edges.
func (g *Graph) strictComponents() [][]int {
	index := 0
	indices := make(map[int]int)
	lowlink := make(map[int]int)
	onStack := make(map[int]bool)
	var stack []int
	var out [][]int

	var connect func(v int)
	connect = func(v int) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, e := range g.nodes[v].deps {
			if e.Deferred {
				continue
			}
			w := e.ID
			if _, seen := indices[w]; !seen {
				connect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			out = append(out, scc)
		}
	}

	for _, id := range g.order {
		if _, seen := indices[id]; !seen {
			connect(id)
		}
	}
	return out
}

// cyclesIn enumerates the elementary cycles of one strict component with
// Johnson's algorithm. Each start only searches members inserted after it,
// which yields every cycle exactly once, rooted at its earliest member.
func (g *Graph) cyclesIn(scc []int) [][]int {
	members := append([]int(nil), scc...)
	sort.Slice(members, func(i, j int) bool {
		return g.pos[members[i]] < g.pos[members[j]]
	})
	inComponent := make(map[int]bool, len(members))
	for _, id := range members {
		inComponent[id] = true
	}

	var cycles [][]int
	for _, start := range members {
		allowed := func(id int) bool {
			return inComponent[id] && g.pos[id] >= g.pos[start]
		}
		blocked := make(map[int]bool)
		blockedBy := make(map[int]map[int]bool)
		var path []int

		var unblock func(v int)
		unblock = func(v int) {
			blocked[v] = false
			for w := range blockedBy[v] {
				delete(blockedBy[v], w)
				if blocked[w] {
					unblock(w)
				}
			}
		}

		var circuit func(v int) bool
		circuit = func(v int) bool {
			found := false
			path = append(path, v)
			blocked[v] = true
			for _, e := range g.nodes[v].deps {
				if e.Deferred || !allowed(e.ID) {
					continue
				}
				switch {
				case e.ID == start:
					cycles = append(cycles, append(append([]int(nil), path...), start))
					found = true
				case !blocked[e.ID]:
					if circuit(e.ID) {
						found = true
					}
				}
			}
			if found {
				unblock(v)
			} else {
				for _, e := range g.nodes[v].deps {
					if e.Deferred || !allowed(e.ID) {
						continue
					}
					if blockedBy[e.ID] == nil {
						blockedBy[e.ID] = make(map[int]bool)
					}
					blockedBy[e.ID][v] = true
				}
			}
			path = path[:len(path)-1]
			return found
		}
		circuit(start)
	}
	return cycles
}
