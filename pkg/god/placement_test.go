package god_test

import (
	"testing"

	"github.com/santorini-engine/core/pkg/board"
	"github.com/santorini-engine/core/pkg/god"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePlacementsOnEmptyBoard(t *testing.T) {
	zt := board.NewZobristTable(3)
	s := board.NewState(zt, board.Mortal, board.Mortal)
	def := god.ByID(board.Mortal)

	placements := god.GeneratePlacements(def, s, 0)
	// C(25,2) distinct pairs on a fully empty board.
	assert.Len(t, placements, 25*24/2)
}

func TestApplyPlacementSetsWorkers(t *testing.T) {
	zt := board.NewZobristTable(3)
	s := board.NewState(zt, board.Mortal, board.Mortal)
	def := god.ByID(board.Mortal)

	placements := god.GeneratePlacements(def, s, 0)
	require.NotEmpty(t, placements)

	pl := placements[0]
	god.ApplyPlacement(def, s, 0, pl)

	assert.True(t, s.Workers[0].IsSet(pl.Squares[0]))
	assert.True(t, s.Workers[0].IsSet(pl.Squares[1]))
}
