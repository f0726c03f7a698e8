package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/tickgraph/internal/status"
)

func TestConnect_Legality(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		build   func(g *Graph) (src, dst NodeRef)
		wantErr error
	}{
		{
			name: "self connection",
			build: func(g *Graph) (NodeRef, NodeRef) {
				n := g.MustAddNode("n", &relay{})
				return n, n
			},
			wantErr: ErrSelfConnection,
		},
		{
			name: "source at out cap",
			build: func(g *Graph) (NodeRef, NodeRef) {
				leaf := newScripted(status.Success)
				leaf.maxOut = 0
				return g.MustAddNode("leaf", leaf), g.MustAddNode("other", &relay{})
			},
			wantErr: ErrOutLimit,
		},
		{
			name: "single-parent prime",
			build: func(g *Graph) (NodeRef, NodeRef) {
				prime := newScripted(status.Success)
				prime.maxIn = 1
				p := g.MustAddNode("prime", prime)
				return g.MustAddNode("parent", &relay{}), p
			},
			wantErr: ErrPrimeParent,
		},
		{
			name: "target at in cap",
			build: func(g *Graph) (NodeRef, NodeRef) {
				root := g.MustAddNode("root", &relay{})
				child := newScripted(status.Success)
				child.maxIn = 1
				c := g.MustAddNode("child", child)
				g.MustConnect(root, c)
				return g.MustAddNode("second", &relay{}), c
			},
			wantErr: ErrInLimit,
		},
		{
			name: "legal edge",
			build: func(g *Graph) (NodeRef, NodeRef) {
				return g.MustAddNode("a", &relay{}), g.MustAddNode("b", &relay{})
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			g := New(tc.name)
			src, dst := tc.build(g)
			outBefore, inBefore := src.OutLen(), dst.InLen()

			_, err := g.Connect(src.Handle(), dst.Handle(), -1, nil)

			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, outBefore, src.OutLen(), "refused edit changes nothing")
			assert.Equal(t, inBefore, dst.InLen())
		})
	}
}

func TestConnect_CycleCheck(t *testing.T) {
	t.Parallel()

	g := New("tree", WithCycleCheck())
	a := g.MustAddNode("a", &relay{})
	b := g.MustAddNode("b", &relay{})
	c := g.MustAddNode("c", &relay{})
	g.MustConnect(a, b)
	g.MustConnect(b, c)

	_, err := g.Connect(c.Handle(), a.Handle(), -1, nil)
	require.ErrorIs(t, err, ErrCycle)

	// Without the option cycles are allowed and guarded at run time instead.
	free := New("fsm")
	x := free.MustAddNode("x", &relay{})
	y := free.MustAddNode("y", &relay{})
	free.MustConnect(x, y)
	_, err = free.Connect(y.Handle(), x.Handle(), -1, nil)
	require.NoError(t, err)
}

func TestDisconnect_NotifiesBothEndpointsBeforeUnlinking(t *testing.T) {
	t.Parallel()

	var events []edgeEvent
	g := New("edges")
	a := g.MustAddNode("a", &recorder{events: &events})
	b := g.MustAddNode("b", &recorder{events: &events})
	c := g.MustConnect(a, b)

	require.NoError(t, g.Disconnect(c.Handle()))

	want := []edgeEvent{
		{node: "a", connected: true, outgoing: true, linked: true},
		{node: "b", connected: true, outgoing: false, linked: true},
		{node: "a", connected: false, outgoing: true, linked: true},
		{node: "b", connected: false, outgoing: false, linked: true},
	}
	if diff := cmp.Diff(want, events, cmp.AllowUnexported(edgeEvent{})); diff != "" {
		t.Errorf("edge notifications mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0, a.OutLen())
	assert.Equal(t, 0, b.InLen())
	assert.False(t, c.Valid())
	require.ErrorIs(t, g.Disconnect(c.Handle()), ErrUnknownConn)
}

func TestRemoveNode_DisconnectsFirst(t *testing.T) {
	t.Parallel()

	g := New("remove")
	root := g.MustAddNode("root", &relay{})
	mid := g.MustAddNode("mid", &relay{})
	leaf := newScripted(status.Running)
	l := g.MustAddNode("leaf", leaf)
	g.MustConnect(root, mid)
	g.MustConnect(mid, l)
	require.Equal(t, status.Running, root.Execute(nil, nil))

	require.NoError(t, g.RemoveNode(mid.Handle()))

	assert.False(t, mid.Valid())
	assert.Equal(t, 0, root.OutLen())
	assert.Equal(t, 0, l.InLen())
	assert.Equal(t, status.Resting, l.Status(), "subtree behind removed edges is reset")
	assert.Equal(t, 2, g.Len())

	require.NoError(t, g.RemoveNode(root.Handle()))
	assert.False(t, g.Prime().Valid())
	require.ErrorIs(t, g.Start(t.Context(), nil, nil, nil), ErrNoPrime)
}

func TestMoveConnection(t *testing.T) {
	t.Parallel()

	g := New("order")
	root := g.MustAddNode("root", &relay{})
	a := g.MustAddNode("a", newScripted(status.Failure))
	b := g.MustAddNode("b", newScripted(status.Success))
	g.MustConnect(root, a)
	cb := g.MustConnect(root, b)

	assert.Equal(t, status.Failure, root.Execute(nil, nil))
	root.Reset(true)

	require.NoError(t, g.MoveConnection(cb.Handle(), 0))
	assert.Equal(t, 0, cb.Index())
	assert.Equal(t, status.Success, root.Execute(nil, nil))
	assert.Equal(t, 1, b.ID())
	assert.Equal(t, 2, a.ID())
}

func TestUpdateNodeIDs(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// root -> (left -> leftLeaf), right ; orphan is unreachable.
	g := New("ids")
	orphan := g.MustAddNode("orphan", &relay{})
	root := g.MustAddNode("root", &relay{})
	right := g.MustAddNode("right", &relay{})
	left := g.MustAddNode("left", &relay{})
	leftLeaf := g.MustAddNode("leftLeaf", &relay{})
	require.NoError(t, g.SetPrime(root.Handle()))
	g.MustConnect(root, left)
	g.MustConnect(root, right)
	g.MustConnect(left, leftLeaf)

	ids := func() map[string]int {
		out := map[string]int{}
		for _, n := range g.Nodes() {
			out[n.Name()] = n.ID()
		}
		return out
	}

	// --- Act ---
	first := ids()
	g.UpdateNodeIDs()
	second := ids()

	extra := g.MustAddNode("extra", &relay{})
	g.MustConnect(left, extra)
	withExtra := ids()
	require.NoError(t, g.RemoveNode(extra.Handle()))
	restored := ids()

	// --- Assert ---
	want := map[string]int{"root": 0, "left": 1, "leftLeaf": 2, "right": 3, "orphan": 4}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Errorf("depth-first numbering mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, first, second)
	assert.Equal(t, 3, withExtra["extra"])
	assert.Equal(t, 4, withExtra["right"])
	assert.Equal(t, first, restored)
	_ = orphan
}
