package god_test

import (
	"testing"

	"github.com/santorini-engine/core/pkg/board"
	"github.com/santorini-engine/core/pkg/god"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMortalVsMortal(t *testing.T) *board.State {
	t.Helper()
	zt := board.NewZobristTable(7)
	s := board.NewState(zt, board.Mortal, board.Mortal)
	s.ApplyWorkerXor(0, board.BitMask(board.A5)|board.BitMask(board.E5))
	s.ApplyWorkerXor(1, board.BitMask(board.A1)|board.BitMask(board.E1))
	s.Rehash()
	return s
}

func TestGenerateForTurnProducesMoves(t *testing.T) {
	s := newMortalVsMortal(t)
	self := god.ByID(board.Mortal)
	opponent := god.ByID(board.Mortal)

	moves := god.GenerateForTurn(self, opponent, s, 0, false, board.EmptyBitboard, 0)
	assert.NotEmpty(t, moves, "mortal vs mortal on an empty board should have legal moves")
}

func TestMakeUnmakeMoveRestoresState(t *testing.T) {
	s := newMortalVsMortal(t)
	self := god.ByID(board.Mortal)
	opponent := god.ByID(board.Mortal)

	before := s.Clone()
	moves := god.GenerateForTurn(self, opponent, s, 0, false, board.EmptyBitboard, 0)
	require.NotEmpty(t, moves)

	snapshot := god.MakeMove(self, s, 0, moves[0].Move)
	assert.NotEqual(t, before.Hash, s.Hash, "a legal move should change the position")

	god.UnmakeMove(s, snapshot)
	assert.Equal(t, before.Workers, s.Workers)
	assert.Equal(t, before.Heights, s.Heights)
	assert.Equal(t, before.Hash, s.Hash)
}

func TestGenerateKeepsOwnWinningMoveUnderKeySquareFilter(t *testing.T) {
	zt := board.NewZobristTable(13)
	s := board.NewState(zt, board.Mortal, board.Mortal)
	s.ApplyWorkerXor(0, board.BitMask(board.A5)|board.BitMask(board.E5))
	s.ApplyWorkerXor(1, board.BitMask(board.A1)|board.BitMask(board.E1))

	require.NoError(t, s.BuildUp(board.A5))
	require.NoError(t, s.BuildUp(board.A5))
	require.NoError(t, s.BuildUp(board.B5))
	require.NoError(t, s.BuildUp(board.B5))
	require.NoError(t, s.BuildUp(board.B5))
	s.Rehash()

	self := god.ByID(board.Mortal)
	opponent := god.ByID(board.Mortal)

	// keySquares deliberately excludes B5, the worker's own winning
	// destination -- a real opponent key square would never coincide with
	// the side-to-move's own win, so the filter must not suppress it.
	keySquares := board.BitMask(board.C1)
	moves := god.Generate(self, opponent, s, 0, keySquares, god.IncludeScore|god.InteractWithKeySquares, false)

	found := false
	for _, m := range moves {
		if m.Move.IsWinning() && m.Move.To() == board.B5 {
			found = true
		}
	}
	assert.True(t, found, "an own immediate win must survive the key-square filter")
}

func TestAthenaClimbedFlagSurvivesBuildOntoOrigin(t *testing.T) {
	zt := board.NewZobristTable(17)
	s := board.NewState(zt, board.Athena, board.Mortal)
	s.ApplyWorkerXor(0, board.BitMask(board.A5)|board.BitMask(board.E5))
	s.ApplyWorkerXor(1, board.BitMask(board.A1)|board.BitMask(board.E1))

	// A5 at height 0, B5 at height 1: moving A5 -> B5 is a climb.
	require.NoError(t, s.BuildUp(board.B5))
	s.Rehash()

	def := god.ByID(board.Athena)
	mv := board.NewMove(board.A5, board.B5, board.A5) // build back onto the vacated origin

	god.MakeMove(def, s, 0, mv)
	assert.True(t, s.God[0].Climbed(), "climbing then building back onto the origin must still record the climb")
}

func TestToActionScriptBeforeMakeMove(t *testing.T) {
	s := newMortalVsMortal(t)
	self := god.ByID(board.Mortal)
	opponent := god.ByID(board.Mortal)

	moves := god.GenerateForTurn(self, opponent, s, 0, false, board.EmptyBitboard, 0)
	require.NotEmpty(t, moves)

	actions := god.ToActionScript(self, s, 0, moves[0].Move)
	assert.NotEmpty(t, actions)
}
