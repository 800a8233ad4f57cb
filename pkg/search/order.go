package search

import "github.com/santorini-engine/core/pkg/board"

// maxPly bounds the killer-move table; the search itself enforces no hard
// depth ceiling, but a ply index beyond this is only reachable by search
// extensions we do not implement, so it is a safe, generous bound.
const maxPly = 128

// historySize is from-square * to-square, the god-independent compact key
// spec.md §4.H calls out for the common case; gods whose extra-field
// payload matters for ordering (Artemis's second hop, etc.) still collide
// into the same from/to slot, which only blunts ordering quality, not
// correctness.
const historySize = int(board.NumSquares) * int(board.NumSquares)

// killers holds two killer moves per ply: quiet moves that caused a beta
// cutoff elsewhere at the same depth, tried before the remaining
// history-ordered moves (spec.md §4.H step 6).
type killers struct {
	slots [maxPly][2]board.Move
}

func newKillers() *killers { return &killers{} }

func (k *killers) Get(ply int) (board.Move, board.Move) {
	if ply < 0 || ply >= maxPly {
		return board.Move(0), board.Move(0)
	}
	return k.slots[ply][0], k.slots[ply][1]
}

// Add records mv as a killer at ply, shifting the previous first killer
// to second (spec.md §4.H step 9).
func (k *killers) Add(ply int, mv board.Move) {
	if ply < 0 || ply >= maxPly {
		return
	}
	if k.slots[ply][0].Equals(mv) {
		return
	}
	k.slots[ply][1] = k.slots[ply][0]
	k.slots[ply][0] = mv
}

// history is the two-dimensional history-heuristic counter, indexed by
// player and a god-dependent compact key (from-square * to-square here).
type history struct {
	counts [2][historySize]int32
}

func newHistory() *history { return &history{} }

func historyKey(mv board.Move) int {
	return int(mv.From())*int(board.NumSquares) + int(mv.To())
}

func (h *history) Score(player int, mv board.Move) int32 {
	return h.counts[player][historyKey(mv)]
}

// Bump increments a move's counter by depth^2 on a beta cutoff (spec.md
// §4.H step 9).
func (h *history) Bump(player int, mv board.Move, depth int) {
	h.counts[player][historyKey(mv)] += int32(depth * depth)
}

func (h *history) Clear() {
	h.counts = [2][historySize]int32{}
}
