package protocol_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/santorini-engine/core/pkg/engine"
	"github.com/santorini-engine/core/pkg/nnue"
	"github.com/santorini-engine/core/pkg/protocol"
	"github.com/stretchr/testify/require"
)

const startFEN = "0000000000000000000000000/1/mortal:A5,E5/mortal:A1,E1"

func newTestDriver(t *testing.T) (*protocol.Driver, chan string, <-chan string) {
	t.Helper()
	ctx := context.Background()
	net := nnue.NewZeroNetwork(8)
	e, err := engine.New(ctx, net, engine.Options{Depth: 2}, startFEN)
	require.NoError(t, err)

	in := make(chan string, 10)
	d, out := protocol.NewDriver(ctx, e, in)
	return d, in, out
}

func recvEvent(t *testing.T, out <-chan string) map[string]interface{} {
	t.Helper()
	select {
	case line := <-out:
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		return m
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for an event")
		return nil
	}
}

func TestDriverEmitsStartedOnBoot(t *testing.T) {
	_, _, out := newTestDriver(t)
	ev := recvEvent(t, out)
	require.Equal(t, "started", ev["type"])
}

func TestDriverSetPositionTriggersAnalysis(t *testing.T) {
	_, in, out := newTestDriver(t)
	recvEvent(t, out) // started

	in <- "set_position " + startFEN
	ev := recvEvent(t, out)
	require.Equal(t, "best_move", ev["type"])
	require.Equal(t, startFEN, ev["start_state"])
}

func TestDriverPingPong(t *testing.T) {
	_, in, out := newTestDriver(t)
	recvEvent(t, out) // started

	in <- "ping"
	ev := recvEvent(t, out)
	require.Equal(t, "pong", ev["type"])
}

func TestDriverNextMoves(t *testing.T) {
	_, in, out := newTestDriver(t)
	recvEvent(t, out) // started

	in <- "next_moves " + startFEN
	ev := recvEvent(t, out)
	require.Equal(t, "next_moves", ev["type"])
	require.Equal(t, startFEN, ev["start_state"])
	states, ok := ev["next_states"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, states)
}

func TestDriverQuitClosesChannels(t *testing.T) {
	d, in, out := newTestDriver(t)
	recvEvent(t, out) // started

	in <- "quit"
	select {
	case <-d.Closed():
	case <-time.After(3 * time.Second):
		t.Fatal("driver did not close after quit")
	}
}
