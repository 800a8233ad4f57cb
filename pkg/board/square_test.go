package board_test

import (
	"testing"

	"github.com/santorini-engine/core/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSquareRoundTrip(t *testing.T) {
	for f := board.FileA; f <= board.FileE; f++ {
		for r := board.Rank1; r <= board.Rank5; r++ {
			sq := board.NewSquare(f, r)
			assert.Equal(t, f, sq.File())
			assert.Equal(t, r, sq.Rank())
		}
	}
}

func TestParseSquareStr(t *testing.T) {
	sq, err := board.ParseSquareStr("A5")
	require.NoError(t, err)
	assert.Equal(t, board.A5, sq)

	sq, err = board.ParseSquareStr("E1")
	require.NoError(t, err)
	assert.Equal(t, board.E1, sq)

	_, err = board.ParseSquareStr("Z9")
	assert.Error(t, err)

	_, err = board.ParseSquareStr("A")
	assert.Error(t, err)
}

func TestSquareString(t *testing.T) {
	assert.Equal(t, "A5", board.A5.String())
	assert.Equal(t, "E1", board.E1.String())
}
