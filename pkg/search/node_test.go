package search_test

import (
	"testing"

	"github.com/santorini-engine/core/pkg/board"
	"github.com/santorini-engine/core/pkg/god"
	"github.com/santorini-engine/core/pkg/nnue"
	"github.com/santorini-engine/core/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNode(t *testing.T) *search.Node {
	t.Helper()
	zt := board.NewZobristTable(11)
	s := board.NewState(zt, board.Mortal, board.Mortal)
	s.ApplyWorkerXor(0, board.BitMask(board.A5)|board.BitMask(board.E5))
	s.ApplyWorkerXor(1, board.BitMask(board.A1)|board.BitMask(board.E1))
	s.Rehash()

	net := nnue.NewZeroNetwork(8)
	return search.NewNode(s, net)
}

func TestPushPopRestoresBoardAndAccumulator(t *testing.T) {
	n := newTestNode(t)
	before := n.Evaluate()

	moves := n.GenerateMoves(board.EmptyBitboard, 0)
	require.NotEmpty(t, moves)

	u := n.Push(moves[0].Move)
	n.Pop(u)

	after := n.Evaluate()
	assert.Equal(t, before, after, "evaluation should be identical once Push is undone by Pop")
}

func TestPushNullFlipsAndRestoresSideToMove(t *testing.T) {
	n := newTestNode(t)
	before := n.State.ToMove

	n.PushNull()
	assert.NotEqual(t, before, n.State.ToMove)

	n.PopNull()
	assert.Equal(t, before, n.State.ToMove)
}

func TestMustClimbReflectsOpponentPersephone(t *testing.T) {
	n := newTestNode(t)
	assert.False(t, n.MustClimb())

	n.Defs[1] = god.ByID(board.Persephone)
	assert.True(t, n.MustClimb())
}

func TestNoisePerturbsEvaluateWithinLimit(t *testing.T) {
	n := newTestNode(t)
	base := n.Evaluate()

	n.Noise = search.NewNoise(10, 99)
	for i := 0; i < 50; i++ {
		v := n.Evaluate()
		assert.InDelta(t, int(base), int(v), 5)
	}
}
