package graph

// UpdateNodeIDs renumbers every node: a depth-first walk from the prime node
// in outgoing-connection order numbers the reachable nodes, then unreachable
// nodes follow in insertion order.
func (g *Graph) UpdateNodeIDs() {
	numbered := make([]bool, len(g.nodes))
	next := 0

	var visit func(h NodeHandle)
	visit = func(h NodeHandle) {
		if numbered[h] {
			return
		}
		numbered[h] = true
		s := g.nodes[h]
		s.id = next
		next++
		for _, c := range s.out {
			visit(g.conns[c].target)
		}
	}

	if g.node(g.prime) != nil {
		visit(g.prime)
	}
	for _, h := range g.order {
		if !numbered[h] {
			numbered[h] = true
			g.nodes[h].id = next
			next++
		}
	}
}
