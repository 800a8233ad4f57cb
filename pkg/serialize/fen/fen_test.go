package fen_test

import (
	"testing"

	"github.com/santorini-engine/core/pkg/board"
	"github.com/santorini-engine/core/pkg/serialize/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmitRoundTrip(t *testing.T) {
	tests := []string{
		"2222200000000000000000000/1/mortal:A5,B5/mortal:D1,E1",
		"0000000000000000000000000/2/apollo:A5,B5/artemis#:D1,E1",
		"0000000000000000000000000/1/athena[^]:A5,B5/mortal:D1,E1",
		"0000000000000000000000000/1/morpheus[3]:A5,B5/mortal:D1,E1",
		"0000000000000000000000000/1/aeolus[ne]:A5,B5/mortal:D1,E1",
		"0000000000000000000000000/1/aeolus[]:A5,B5/mortal:D1,E1",
		"0000000000000000000000000/1/europa[C3]:A5,B5/mortal:D1,E1",
		"0000000000000000000000000/1/clio[2|A1,B1]:C5,D5/mortal:D1,E1",
	}

	zt := board.NewZobristTable(1)
	for _, tt := range tests {
		s, err := fen.Parse(tt, zt)
		require.NoError(t, err, tt)

		got := fen.Emit(s)
		assert.Equal(t, tt, got, "round trip of %q", tt)

		before := s.Hash
		s.Rehash()
		assert.Equal(t, before, s.Hash, "incremental hash should already match a full rehash")
	}
}

func TestParseRejectsDuplicateWorkerSquare(t *testing.T) {
	zt := board.NewZobristTable(1)
	_, err := fen.Parse("0000000000000000000000000/1/mortal:A5,B5/mortal:B5,D1", zt)
	require.Error(t, err)
}

func TestParseRejectsIntraPlayerDuplicateSquare(t *testing.T) {
	zt := board.NewZobristTable(1)
	_, err := fen.Parse("0000000000000000000000000/1/mortal:A5,A5/mortal:D1,E1", zt)
	require.Error(t, err)
}

func TestParseRejectsUnknownGod(t *testing.T) {
	zt := board.NewZobristTable(1)
	_, err := fen.Parse("0000000000000000000000000/1/nobody:A5,B5/mortal:E1,D1", zt)
	require.Error(t, err)
}

func TestParseHeightsWithWhitespace(t *testing.T) {
	zt := board.NewZobristTable(1)
	s, err := fen.Parse("22222 00000 00000 00000 00000/1/mortal:A5,B5/mortal:E1,D1", zt)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Height(board.A5))
	assert.Equal(t, 0, s.Height(board.A4))
}
