package vm

// tarjanSCC computes the strongly connected components reachable from
// roots, following compoundItem.children() edges. It is a from-scratch
// recursive rendering of Tarjan's algorithm: the reference source in
// _examples/original_source/src/vm/tarjan.rs recurses over a structure
// it is also mutating and borrows successors in a way that does not carry
// over to Go (and does not type-check as written), so this implementation
// follows the textbook algorithm directly rather than transliterating it.
func tarjanSCC(roots []Item) [][]Item {
	t := &tarjanState{
		nodes: make(map[Item]*tarjanNode),
	}
	for _, r := range roots {
		if _, ok := r.(compoundItem); !ok {
			continue
		}
		if t.nodeFor(r).index < 0 {
			t.strongConnect(r)
		}
	}
	return t.components
}

type tarjanNode struct {
	index, lowlink int
	onStack        bool
}

type tarjanState struct {
	nodes      map[Item]*tarjanNode
	stack      []Item
	nextIndex  int
	components [][]Item
}

func (t *tarjanState) nodeFor(item Item) *tarjanNode {
	n, ok := t.nodes[item]
	if !ok {
		n = &tarjanNode{index: -1}
		t.nodes[item] = n
	}
	return n
}

func (t *tarjanState) strongConnect(v Item) {
	vn := t.nodeFor(v)
	vn.index = t.nextIndex
	vn.lowlink = t.nextIndex
	t.nextIndex++
	t.stack = append(t.stack, v)
	vn.onStack = true

	ci := v.(compoundItem)
	for _, w := range ci.children() {
		if _, ok := w.(compoundItem); !ok {
			continue
		}
		wn := t.nodeFor(w)
		if wn.index < 0 {
			t.strongConnect(w)
			wn = t.nodeFor(w)
			if wn.lowlink < vn.lowlink {
				vn.lowlink = wn.lowlink
			}
		} else if wn.onStack {
			if wn.index < vn.lowlink {
				vn.lowlink = wn.index
			}
		}
	}

	if vn.lowlink == vn.index {
		var comp []Item
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.nodeFor(w).onStack = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		t.components = append(t.components, comp)
	}
}
