package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/santorini-engine/core/pkg/board"
	"github.com/santorini-engine/core/pkg/engine"
	"github.com/santorini-engine/core/pkg/nnue"
	"github.com/santorini-engine/core/pkg/searchctl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const startFEN = "0000000000000000000000000/1/mortal:A5,E5/mortal:A1,E1"

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	ctx := context.Background()
	net := nnue.NewZeroNetwork(8)
	e, err := engine.New(ctx, net, engine.Options{Depth: 2}, startFEN, engine.WithZobrist(5))
	require.NoError(t, err)
	return e
}

func TestNewEngineReportsStartPosition(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, startFEN, e.Position())
}

func TestResetChangesPosition(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	other := "0000000000000000000000000/2/mortal:B5,D5/mortal:B1,D1"
	require.NoError(t, e.Reset(ctx, other))
	assert.Equal(t, other, e.Position())
}

func TestResetRejectsInvalidFEN(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	assert.Error(t, e.Reset(ctx, "not a fen"))
}

func TestAnalyzeAndHaltReturnsAPV(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	out, err := e.Analyze(ctx, searchctl.Options{MaxDepth: 1})
	require.NoError(t, err)

	select {
	case <-out:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a PV")
	}

	pv, err := e.Halt(ctx)
	require.NoError(t, err)
	_ = pv
}

func TestNextMovesFromTerminalPositionYieldsNoMoves(t *testing.T) {
	e := newTestEngine(t)
	terminal := "0000000000000000000000000/1/mortal#:A5,E5/mortal:A1,E1"

	states, err := e.NextMovesFrom(terminal)
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, terminal, states[0].State)
}

func TestNextMovesEnumeratesChildren(t *testing.T) {
	e := newTestEngine(t)
	states := e.NextMoves()
	assert.NotEmpty(t, states)
	for _, s := range states {
		assert.NotEmpty(t, s.Actions)
	}
}

func TestSnapshotIsIndependentOfLiveNode(t *testing.T) {
	e := newTestEngine(t)
	clone, defs, player := e.Snapshot()
	require.NotNil(t, clone)
	assert.NotNil(t, defs[0])
	assert.NotNil(t, defs[1])
	assert.Equal(t, 0, player)

	clone.ApplyWorkerXor(0, board.BitMask(board.C3))
	assert.Equal(t, startFEN, e.Position(), "mutating the snapshot must not touch the live position")
}
