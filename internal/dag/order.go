package dag

import "container/heap"

// TopologicalOrder returns every node with all strict dependencies before
// their dependents. Ties go to the earliest-inserted node, so the order is
// a pure function of insertion order. Deferred edges do not constrain it.
func (g *Graph) TopologicalOrder() ([]int, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	pending := make(map[int]int, len(g.nodes))
	for _, id := range g.order {
		for _, e := range g.nodes[id].deps {
			if !e.Deferred {
				pending[id]++
			}
		}
	}

	ready := &posHeap{pos: g.pos}
	for _, id := range g.order {
		if pending[id] == 0 {
			heap.Push(ready, id)
		}
	}

	out := make([]int, 0, len(g.order))
	for ready.Len() > 0 {
		id := heap.Pop(ready).(int)
		out = append(out, id)
		for _, e := range g.nodes[id].dependents {
			if e.Deferred {
				continue
			}
			pending[e.ID]--
			if pending[e.ID] == 0 {
				heap.Push(ready, e.ID)
			}
		}
	}

	if len(out) != len(g.order) {
		return nil, ErrCyclic
	}
	return out, nil
}

// posHeap is a min-heap of node IDs by insertion position.
type posHeap struct {
	ids []int
	pos map[int]int
}

func (h *posHeap) Len() int           { return len(h.ids) }
func (h *posHeap) Less(i, j int) bool { return h.pos[h.ids[i]] < h.pos[h.ids[j]] }
func (h *posHeap) Swap(i, j int)      { h.ids[i], h.ids[j] = h.ids[j], h.ids[i] }
func (h *posHeap) Push(x any)         { h.ids = append(h.ids, x.(int)) }
func (h *posHeap) Pop() any {
	old := h.ids
	n := len(old)
	x := old[n-1]
	h.ids = old[:n-1]
	return x
}
