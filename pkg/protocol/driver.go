// Package protocol implements the line-delimited text-in/JSON-out wire
// protocol spec.md §6.2 defines: set_position, next_moves, ping, stop,
// quit. Grounded on the teacher's pkg/engine/uci.Driver -- a line-reader
// goroutine dispatching on the first token, an out channel of rendered
// lines, an atomic-bool Close/Closed pair -- generalized from UCI's text
// "info"/"bestmove" lines to this protocol's JSON events.
package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/santorini-engine/core/pkg/board"
	"github.com/santorini-engine/core/pkg/engine"
	"github.com/santorini-engine/core/pkg/god"
	"github.com/santorini-engine/core/pkg/search"
	"github.com/santorini-engine/core/pkg/searchctl"
	"github.com/santorini-engine/core/pkg/serialize/fen"
	"github.com/seekerror/logw"
	"go.uber.org/atomic"
)

// Meta carries the per-best_move diagnostic fields spec.md §6.2 names.
type Meta struct {
	Score           int          `json:"score"`
	CalculatedDepth int          `json:"calculated_depth"`
	NodesVisited    uint64       `json:"nodes_visited"`
	ElapsedSeconds  float64      `json:"elapsed_seconds"`
	Actions         []god.Action `json:"actions"`
	ActionStr       string       `json:"action_str"`
}

type startedEvent struct {
	Type string `json:"type"`
}

type bestMoveEvent struct {
	Type        string `json:"type"`
	OriginalStr string `json:"original_str"`
	StartState  string `json:"start_state"`
	NextState   string `json:"next_state"`
	Trigger     string `json:"trigger"`
	Meta        Meta   `json:"meta"`
}

type nextStateEntry struct {
	NextState string       `json:"next_state"`
	Actions   []god.Action `json:"actions"`
}

type nextMovesEvent struct {
	Type       string           `json:"type"`
	StartState string           `json:"start_state"`
	NextStates []nextStateEntry `json:"next_states"`
}

type pongEvent struct {
	Type string `json:"type"`
}

// Driver reads protocol lines from in, drives e, and writes JSON lines to
// the returned channel until a "quit" is received or in closes.
type Driver struct {
	e *engine.Engine

	out chan<- string

	mu          sync.Mutex
	originalStr string
	startState  string
	startClone  *board.State
	startDefs   [2]*god.GodDef
	startPlayer int
	startedAt   time.Time

	quit   chan struct{}
	closed atomic.Bool
}

// NewDriver starts the driver's read loop in its own goroutine.
func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{e: e, out: out, quit: make(chan struct{})}
	go d.process(ctx, in)
	return d, out
}

func (d *Driver) Close() {
	if d.closed.CAS(false, true) {
		close(d.quit)
	}
}

func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	d.emit(startedEvent{Type: "started"})
	logw.Infof(ctx, "protocol driver started")

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "input stream closed, exiting")
				return
			}
			if d.handle(ctx, line) {
				return
			}
		case <-d.quit:
			return
		}
	}
}

// handle dispatches one input line. Returns true when the driver should
// shut down (a "quit" was received).
func (d *Driver) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	parts := strings.SplitN(line, " ", 2)
	cmd := parts[0]
	var arg string
	if len(parts) == 2 {
		arg = strings.TrimSpace(parts[1])
	}

	switch cmd {
	case "set_position":
		d.setPosition(ctx, arg)
	case "next_moves":
		d.nextMoves(ctx, arg)
	case "ping":
		d.emit(pongEvent{Type: "pong"})
	case "stop":
		pv, _ := d.e.Halt(ctx)
		d.emit(d.pvToEvent(pv, search.TriggerStopFlag))
	case "quit":
		return true
	default:
		logw.Warningf(ctx, "unrecognized command: %v", line)
	}
	return false
}

func (d *Driver) setPosition(ctx context.Context, arg string) {
	if err := d.e.Reset(ctx, arg); err != nil {
		logw.Errorf(ctx, "set_position %q failed: %v", arg, err)
		return
	}

	clone, defs, player := d.e.Snapshot()

	d.mu.Lock()
	d.originalStr = arg
	d.startState = d.e.Position()
	d.startClone = clone
	d.startDefs = defs
	d.startPlayer = player
	d.startedAt = time.Now()
	d.mu.Unlock()

	if clone.IsTerminal() {
		d.emit(d.pvToEvent(search.PV{Trigger: search.TriggerEndOfLine}, search.TriggerEndOfLine))
		return
	}

	out, err := d.e.Analyze(ctx, searchctl.Options{})
	if err != nil {
		logw.Errorf(ctx, "analyze failed: %v", err)
		return
	}

	go func() {
		for pv := range out {
			d.emit(d.pvToEvent(pv, pv.Trigger))
		}
	}()
}

func (d *Driver) nextMoves(ctx context.Context, arg string) {
	var (
		states []engine.NextState
		start  string
		err    error
	)
	if arg == "" {
		states = d.e.NextMoves()
		start = d.e.Position()
	} else {
		states, err = d.e.NextMovesFrom(arg)
		start = arg
	}
	if err != nil {
		logw.Errorf(ctx, "next_moves %q failed: %v", arg, err)
		return
	}

	entries := make([]nextStateEntry, len(states))
	for i, s := range states {
		entries[i] = nextStateEntry{NextState: s.State, Actions: s.Actions}
	}
	d.emit(nextMovesEvent{Type: "next_moves", StartState: start, NextStates: entries})
}

// pvToEvent renders one search.PV as a best_move event. The reported
// next_state is reached by replaying the PV's top move from the position
// snapshotted at set_position time, never the live node -- the live node
// is owned by the background search goroutine for the duration of
// Analyze, so touching it here would race.
func (d *Driver) pvToEvent(pv search.PV, trigger search.Trigger) bestMoveEvent {
	d.mu.Lock()
	originalStr, startState := d.originalStr, d.startState
	clone, defs, player, startedAt := d.startClone, d.startDefs, d.startPlayer, d.startedAt
	d.mu.Unlock()

	ev := bestMoveEvent{
		Type:        "best_move",
		OriginalStr: originalStr,
		StartState:  startState,
		Trigger:     string(trigger),
	}

	if len(pv.Moves) == 0 {
		ev.NextState = startState
		actions := god.NoMovesScript()
		ev.Meta = Meta{Actions: actions, ActionStr: actionStr(actions)}
		return ev
	}

	next := clone.Clone()
	mv := pv.Moves[0]
	def := defs[player]

	actions := god.ToActionScript(def, next, player, mv)
	god.MakeMove(def, next, player, mv)

	ev.NextState = fen.Emit(next)
	ev.Meta = Meta{
		Score:           int(pv.Score),
		CalculatedDepth: pv.Depth,
		NodesVisited:    pv.Nodes,
		ElapsedSeconds:  time.Since(startedAt).Seconds(),
		Actions:         actions,
		ActionStr:       actionStr(actions),
	}
	return ev
}

func (d *Driver) emit(v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		// A marshal failure here means a bug in one of the event structs
		// above, not bad input -- there is no sane line to emit instead.
		panic(fmt.Sprintf("protocol: failed to marshal %T: %v", v, err))
	}
	d.out <- string(b)
}

func actionStr(actions []god.Action) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		if a.Value == nil {
			parts[i] = string(a.Type)
		} else {
			parts[i] = fmt.Sprintf("%s %v", a.Type, a.Value)
		}
	}
	return strings.Join(parts, " ")
}
