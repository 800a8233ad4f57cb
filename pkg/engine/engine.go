// Package engine is the in-process façade the wire protocol (and any
// future embedder) drives: one board, one transposition table, one NNUE
// network, one pair of gods, FEN reset, analyze/halt, move enumeration.
// Grounded on the teacher's pkg/engine.Engine -- same option shape
// (Depth/Hash/Noise), same mutex-guarded single-active-search
// discipline, same Reset/Analyze/Halt names -- generalized from a chess
// board+launcher pair to a Santorini board+god-pair+controller.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/santorini-engine/core/pkg/board"
	"github.com/santorini-engine/core/pkg/god"
	"github.com/santorini-engine/core/pkg/nnue"
	"github.com/santorini-engine/core/pkg/search"
	"github.com/santorini-engine/core/pkg/searchctl"
	"github.com/santorini-engine/core/pkg/serialize/fen"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

var version = build.NewVersion(0, 1, 0)

// Options are engine creation/runtime options (spec.md §4.N's
// -hash/-depth/-noise flags).
type Options struct {
	// Depth is the default search depth limit. Zero means unbounded
	// (other than a Duration or cancellation).
	Depth uint
	// Hash is the transposition table size in MB. Zero disables the TT.
	Hash uint
	// Noise adds millipoint randomness to leaf evaluations.
	Noise uint
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, hash=%v, noise=%v}", o.Depth, o.Hash, o.Noise)
}

// NextState is one immediate child of the current position (spec.md
// §6.2's next_moves): the resulting FEN and the action script a UI
// replays to animate the transition. Distinct moves may share a
// resulting State (e.g. two action-equivalent orderings); both are kept.
type NextState struct {
	State   string
	Actions []god.Action
}

// Engine encapsulates one game's board, god pair, TT and the background
// search controller.
type Engine struct {
	zt   *board.ZobristTable
	net  *nnue.Network
	seed int64
	opts Options

	mu   sync.Mutex
	node *search.Node
	ctl  *searchctl.Controller
}

// Option is an engine creation option.
type Option func(*Engine)

// WithZobrist configures the engine to use the given random seed instead
// of the default seed of zero.
func WithZobrist(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// New builds an engine around a loaded NNUE network, reset to the given
// starting FEN.
func New(ctx context.Context, net *nnue.Network, opts Options, startFEN string, options ...Option) (*Engine, error) {
	e := &Engine{net: net, opts: opts}
	for _, fn := range options {
		fn(e)
	}
	e.zt = board.NewZobristTable(e.seed)

	if err := e.Reset(ctx, startFEN); err != nil {
		return nil, err
	}

	logw.Infof(ctx, "Initialized engine %v, options=%v", version, e.opts)
	return e, nil
}

// Position returns the current position in FEN format.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return fen.Emit(e.node.State)
}

// Reset resets the engine to the position described by the given FEN,
// halting any active search first.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Reset %v, opts=%v", position, e.opts)

	if e.ctl != nil {
		e.ctl.End()
	}

	state, err := fen.Parse(position, e.zt)
	if err != nil {
		return err
	}

	e.node = search.NewNode(state, e.net)
	if e.opts.Noise > 0 {
		e.node.Noise = search.NewNoise(int(e.opts.Noise), e.seed)
	}

	var tt search.TranspositionTable = search.NoTranspositionTable{}
	if e.opts.Hash > 0 {
		tt = search.NewTranspositionTable(uint64(e.opts.Hash) << 20)
	}
	e.ctl = searchctl.NewController(tt)

	logw.Infof(ctx, "New position: %v", position)
	return nil
}

// Analyze starts (or restarts) a background search of the current
// position. Options.MaxDepth of zero falls back to the engine's default
// Depth.
func (e *Engine) Analyze(ctx context.Context, opt searchctl.Options) (<-chan search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if opt.MaxDepth == 0 {
		opt.MaxDepth = int(e.opts.Depth)
	}

	logw.Infof(ctx, "Analyze %v, opt=%+v", fen.Emit(e.node.State), opt)
	return e.ctl.Compute(ctx, e.node, opt), nil
}

// Halt stops the active search and returns the principal variation found
// so far.
func (e *Engine) Halt(ctx context.Context) (search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Halt")
	return e.ctl.Stop(), nil
}

// NextMoves enumerates every legal move from the current position,
// pairing each with its resulting FEN and UI action script (spec.md
// §6.2). A terminal or stuck position yields the single no_moves action
// with the unchanged state.
func (e *Engine) NextMoves() []NextState {
	e.mu.Lock()
	defer e.mu.Unlock()

	return nextMovesFor(e.node)
}

// NextMovesFrom enumerates the immediate children of an arbitrary FEN,
// independent of the engine's live position (spec.md §6.2's `next_moves
// <fen>`, as opposed to a query against whatever `set_position` last
// established).
func (e *Engine) NextMovesFrom(position string) ([]NextState, error) {
	e.mu.Lock()
	zt, net := e.zt, e.net
	e.mu.Unlock()

	state, err := fen.Parse(position, zt)
	if err != nil {
		return nil, err
	}
	return nextMovesFor(search.NewNode(state, net)), nil
}

// Snapshot returns an independent clone of the current position together
// with its god pair and the player to move, safe for a caller to apply a
// single candidate move to without racing the background search (which
// owns the live node for the duration of an Analyze call).
func (e *Engine) Snapshot() (*board.State, [2]*god.GodDef, int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.node.State.Clone(), e.node.Defs, e.node.State.ToMove
}

func nextMovesFor(n *search.Node) []NextState {
	if n.State.IsTerminal() {
		return []NextState{{State: fen.Emit(n.State), Actions: god.NoMovesScript()}}
	}

	moves := n.GenerateMoves(board.EmptyBitboard, 0)
	if len(moves) == 0 {
		return []NextState{{State: fen.Emit(n.State), Actions: god.NoMovesScript()}}
	}

	out := make([]NextState, 0, len(moves))
	def, player := n.Self(), n.State.ToMove
	for _, sm := range moves {
		actions := god.ToActionScript(def, n.State, player, sm.Move)

		u := n.Push(sm.Move)
		out = append(out, NextState{State: fen.Emit(n.State), Actions: actions})
		n.Pop(u)
	}
	return out
}
