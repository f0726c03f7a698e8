package bt

import (
	"math/rand/v2"

	"github.com/specialistvlad/tickgraph/internal/graph"
)

// composite nodes have one parent and any number of children.
type composite struct{}

func (composite) MaxIn() int  { return 1 }
func (composite) MaxOut() int { return graph.Unbounded }

// decorator nodes have one parent and at most one child.
type decorator struct{}

func (decorator) MaxIn() int  { return 1 }
func (decorator) MaxOut() int { return 1 }

// leaf nodes have one parent and no children.
type leaf struct{}

func (leaf) MaxIn() int  { return 1 }
func (leaf) MaxOut() int { return 0 }

// child returns a decorator's single connection.
func child(n graph.NodeRef) (graph.ConnRef, bool) {
	if n.OutLen() == 0 {
		return graph.ConnRef{}, false
	}
	return n.OutAt(0), true
}

// identity returns order unchanged if it already covers n children, or a
// fresh 0..n-1 order.
func identity(order []int, n int) []int {
	if len(order) == n {
		return order
	}
	order = make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// shuffle is a Fisher–Yates shuffle.
func shuffle(order []int, r *rand.Rand) {
	for i := len(order) - 1; i > 0; i-- {
		j := intN(r, i+1)
		order[i], order[j] = order[j], order[i]
	}
}

func intN(r *rand.Rand, n int) int {
	if r == nil {
		return rand.IntN(n)
	}
	return r.IntN(n)
}

func float64N(r *rand.Rand) float64 {
	if r == nil {
		return rand.Float64()
	}
	return r.Float64()
}

// resetRange resets the children at order positions from..to inclusive.
func resetRange(n graph.NodeRef, order []int, from, to int) {
	for j := from; j <= to && j < len(order); j++ {
		n.OutAt(order[j]).Reset(true)
	}
}
