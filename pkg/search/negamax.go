package search

import (
	"github.com/santorini-engine/core/pkg/board"
	"github.com/santorini-engine/core/pkg/god"
)

// Terminator is consulted at every node expansion (spec.md §4.H,
// "Cancellation"). A relaxed-ordering read is sufficient: a stale read
// only delays termination, it never misorders it (spec.md §5).
type Terminator interface {
	Done() bool
}

// TriggerFunc wraps a plain function as a Terminator.
type TriggerFunc func() bool

func (f TriggerFunc) Done() bool { return f() }

// Trigger names why a PV was emitted (spec.md §4.H, "Principal-variation
// streaming").
type Trigger string

const (
	TriggerImprovement Trigger = "improvement"
	TriggerSaved       Trigger = "saved"
	TriggerEndOfLine   Trigger = "end_of_line"
	TriggerStopFlag    Trigger = "stop_flag"
)

// PV is one principal-variation update.
type PV struct {
	Depth   int
	Score   Score
	Nodes   uint64
	Moves   []board.Move
	Trigger Trigger
}

// Options configures one Run call.
type Options struct {
	MaxDepth int // 0 == unbounded other than the Terminator
}

// PVCallback is invoked on every qualifying event during Run. TriggerSaved
// (a root TT hit) is not distinguished from TriggerImprovement here: both
// paths produce a root score/move pair through the identical aspiration
// loop, so a caller cannot tell a transposition-table short-circuit from
// freshly searched depth from the trigger alone, only from Nodes being
// unusually low for the depth.
type PVCallback func(PV)

// Search owns the move-ordering state (killers, history) and TT handle
// for a sequence of Run calls sharing one worker lifetime -- the
// background controller's (pkg/searchctl) persistent search object.
type Search struct {
	TT      TranspositionTable
	Killers *killers
	History *history
	Age     uint8
}

func NewSearch(tt TranspositionTable) *Search {
	return &Search{TT: tt, Killers: newKillers(), History: newHistory()}
}

// Run performs iterative deepening negamax from depth 1 to opt.MaxDepth
// (or until term fires), reporting through emit after every iteration and
// on cancellation (spec.md §4.H).
func (s *Search) Run(n *Node, term Terminator, opt Options, emit PVCallback) PV {
	var last PV
	prevScore := ZeroScore
	const initialDelta = Score(25)

	for depth := 1; opt.MaxDepth == 0 || depth <= opt.MaxDepth; depth++ {
		if term.Done() {
			last.Trigger = TriggerStopFlag
			emit(last)
			return last
		}

		delta := initialDelta
		alpha, beta := NegInfScore, InfScore
		if depth > 1 {
			alpha = prevScore - delta
			beta = prevScore + delta
		}

		var score Score
		var pv []board.Move
		var nodes uint64
		for {
			r := &run{s: s, n: n, term: term, age: s.Age}
			score, pv = r.search(depth, 0, alpha, beta)
			nodes = r.nodes

			if term.Done() {
				break
			}
			if score <= alpha && alpha > NegInfScore {
				alpha = MaxScore(NegInfScore, alpha-delta)
				delta *= 2
				continue
			}
			if score >= beta && beta < InfScore {
				beta = MinScore(InfScore, beta+delta)
				delta *= 2
				continue
			}
			break
		}

		if term.Done() {
			last.Trigger = TriggerStopFlag
			emit(last)
			return last
		}

		last = PV{Depth: depth, Score: score, Nodes: nodes, Moves: pv, Trigger: TriggerImprovement}
		if score.IsMate() {
			last.Trigger = TriggerEndOfLine
		}
		prevScore = score
		emit(last)

		if score.IsMate() {
			return last
		}
	}
	return last
}

// run carries the per-iteration mutable search state (node counter); a
// fresh run backs every depth/aspiration attempt so Nodes reports the
// count for that attempt alone.
type run struct {
	s     *Search
	n     *Node
	term  Terminator
	age   uint8
	nodes uint64
}

func (r *run) search(depth, ply int, alpha, beta Score) (Score, []board.Move) {
	if r.term.Done() {
		return ZeroScore, nil
	}

	st := r.n.State
	if st.IsTerminal() {
		return -MateScore, nil
	}

	isPV := beta-alpha > 1

	var ttMove board.Move
	if bound, ttDepth, ttScore, mv, ok := r.s.TT.Read(st.Hash); ok {
		ttMove = mv
		if ttDepth >= depth {
			switch bound {
			case ExactBound:
				return ttScore, nil
			case LowerBound:
				if ttScore >= beta {
					return ttScore, nil
				}
			case UpperBound:
				if ttScore <= alpha {
					return ttScore, nil
				}
			}
		}
	}

	if depth <= 0 {
		return r.frontier(ply, alpha, beta)
	}

	r.nodes++

	staticEval := r.n.Evaluate()

	if !isPV && depth <= 3 && !staticEval.IsMate() {
		margin := Score(80 * depth)
		if staticEval-margin >= beta {
			return staticEval, nil
		}
	}

	if !isPV && depth >= 3 && !staticEval.IsMate() {
		r.n.PushNull()
		reduced := depth - 3
		if reduced < 0 {
			reduced = 0
		}
		score, _ := r.search(reduced, ply+1, beta.Negate(), beta.Negate()+1)
		score = IncrementMateDistance(score).Negate()
		r.n.PopNull()
		if score >= beta {
			return beta, nil
		}
	}

	moves := r.n.GenerateMoves(board.FullBitboard, god.IncludeScore)
	if len(moves) == 0 {
		return -MateScore, nil
	}

	picker := r.s.order(moves, r.n.State.ToMove, ply, ttMove)

	best := NegInfScore
	var bestMove board.Move
	var pv []board.Move
	bound := UpperBound
	moveIndex := 0

	for {
		mv, ok := picker.Next()
		if !ok {
			break
		}

		undo := r.n.Push(mv)

		reduction := 0
		if moveIndex >= 3 && depth >= 3 && !mv.IsWinning() {
			reduction = 1 + (moveIndex-3)/6
			if reduction > depth-1 {
				reduction = depth - 1
			}
		}

		childDepth := depth - 1 - reduction
		if childDepth < 0 {
			childDepth = 0
		}
		score, rem := r.search(childDepth, ply+1, beta.Negate(), alpha.Negate())
		score = IncrementMateDistance(score).Negate()

		if reduction > 0 && score > alpha {
			score, rem = r.search(depth-1, ply+1, beta.Negate(), alpha.Negate())
			score = IncrementMateDistance(score).Negate()
		}

		r.n.Pop(undo)
		moveIndex++

		if score > best {
			best = score
			bestMove = mv
			pv = append([]board.Move{mv}, rem...)
		}
		if best > alpha {
			alpha = best
			bound = ExactBound
		}
		if alpha >= beta {
			bound = LowerBound
			r.s.Killers.Add(ply, mv)
			r.s.History.Bump(st.ToMove, mv, depth)
			break
		}
	}

	r.s.TT.Write(st.Hash, bound, depth, best, bestMove, r.age)
	return best, pv
}

// frontier is the quiescence-like extension at the search horizon: only
// winning moves and moves that interact with the opponent's immediate
// winning key squares are explored; everything else falls back to the
// static evaluation (spec.md §4.H, "Quiescence-like extension").
func (r *run) frontier(ply int, alpha, beta Score) (Score, []board.Move) {
	r.nodes++

	st := r.n.State
	if st.IsTerminal() {
		return -MateScore, nil
	}

	standPat := r.n.Evaluate()
	if standPat >= beta {
		return standPat, nil
	}
	alpha = MaxScore(alpha, standPat)

	keySquares := r.n.OpponentKeySquares()
	moves := r.n.GenerateMoves(keySquares, god.IncludeScore|god.InteractWithKeySquares)
	if len(moves) == 0 {
		return standPat, nil
	}

	picker := board.NewMoveList(moves)
	best := standPat
	for {
		mv, ok := picker.Next()
		if !ok {
			break
		}
		undo := r.n.Push(mv)
		score, _ := r.search(0, ply+1, beta.Negate(), alpha.Negate())
		score = IncrementMateDistance(score).Negate()
		r.n.Pop(undo)

		if score > best {
			best = score
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			break
		}
	}
	return best, nil
}

// OpponentKeySquares returns the squares where, if the opponent's worker
// arrived, they would win immediately: empty, non-domed height-3 squares
// adjacent to an opponent worker already at height 2. Used to drive the
// frontier extension's blocking-move filter (spec.md §4.H).
func (n *Node) OpponentKeySquares() board.Bitboard {
	opponent := board.Opponent(n.State.ToMove)
	var key board.Bitboard
	for wb := n.State.Workers[opponent]; wb != 0; {
		sq := wb.LastPopSquare()
		wb ^= board.BitMask(sq)
		if n.State.Height(sq) != 2 {
			continue
		}
		for nb := board.NEIGHBORS[sq] &^ n.State.Occupied(); nb != 0; {
			d := nb.LastPopSquare()
			nb ^= board.BitMask(d)
			if n.State.Height(d) == 3 && !n.State.IsDome(d) {
				key |= board.BitMask(d)
			}
		}
	}
	return key
}

// order builds the move picker for one node: TT move first (pushed with
// the highest possible priority), then the two legal killers for this
// ply, then the remainder ordered by history score -- spec.md §4.H step
// 6's staged picker, built atop the same container/heap MoveList the
// teacher uses for move ordering.
func (s *Search) order(moves []board.ScoredMove, player, ply int, ttMove board.Move) *board.MoveList {
	k1, k2 := s.Killers.Get(ply)
	out := make([]board.ScoredMove, len(moves))
	for i, sm := range moves {
		var score int32
		switch {
		case ttMove != board.Move(0) && sm.Move.Equals(ttMove):
			score = 1<<15 - 1
		case sm.Move.Equals(k1):
			score = 1<<15 - 2
		case sm.Move.Equals(k2):
			score = 1<<15 - 3
		default:
			score = int32(sm.Score) + s.History.Score(player, sm.Move)
			if score > 1<<15-4 {
				score = 1<<15 - 4
			}
		}
		out[i] = board.ScoredMove{Move: sm.Move, Score: int16(score)}
	}
	return board.NewMoveList(out)
}
