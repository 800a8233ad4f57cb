package board_test

import (
	"testing"

	"github.com/santorini-engine/core/pkg/board"
	"github.com/stretchr/testify/assert"
)

func TestIncrementalHashMatchesRehash(t *testing.T) {
	zt := board.NewZobristTable(42)
	s := board.NewState(zt, board.Mortal, board.Mortal)

	s.ApplyWorkerXor(0, board.BitMask(board.A5)|board.BitMask(board.B5))
	s.ApplyWorkerXor(1, board.BitMask(board.D1)|board.BitMask(board.E1))
	assert.NoError(t, s.BuildUp(board.C3))
	assert.NoError(t, s.BuildUp(board.C3))
	s.SwapToMove()

	incremental := s.Hash
	rehashed := s.Rehash()
	assert.Equal(t, incremental, rehashed, "incremental updates should already match a full rehash")
}

func TestBuildUpRejectsDome(t *testing.T) {
	zt := board.NewZobristTable(1)
	s := board.NewState(zt, board.Mortal, board.Mortal)

	s.PlaceDome(board.C3)
	assert.True(t, s.IsDome(board.C3))
	assert.Error(t, s.BuildUp(board.C3))
}

func TestWinnerAndTerminal(t *testing.T) {
	zt := board.NewZobristTable(1)
	s := board.NewState(zt, board.Mortal, board.Mortal)

	assert.False(t, s.IsTerminal())
	s.SetWinner(1)
	assert.True(t, s.IsTerminal())
	assert.Equal(t, 2, s.Winner())
}

func TestCloneIsIndependent(t *testing.T) {
	zt := board.NewZobristTable(1)
	s := board.NewState(zt, board.Mortal, board.Mortal)
	s.ApplyWorkerXor(0, board.BitMask(board.A5))

	clone := s.Clone()
	clone.ApplyWorkerXor(0, board.BitMask(board.B5))

	assert.NotEqual(t, s.Workers[0], clone.Workers[0])
}
