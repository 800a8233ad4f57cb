package search

import (
	"math/rand"

	"github.com/santorini-engine/core/pkg/board"
	"github.com/santorini-engine/core/pkg/god"
	"github.com/santorini-engine/core/pkg/nnue"
)

// Noise adds a small amount of randomness to leaf evaluations, the same
// technique as the teacher's eval.Random: limit is the millipoint range
// [-limit/2, limit/2] added to every Evaluate call. The zero value never
// perturbs anything.
type Noise struct {
	rand  *rand.Rand
	limit int
}

func NewNoise(limit int, seed int64) Noise {
	return Noise{limit: limit, rand: rand.New(rand.NewSource(seed))}
}

func (n Noise) sample() Score {
	if n.limit <= 0 {
		return 0
	}
	return Score(n.rand.Intn(n.limit) - n.limit/2)
}

// Node is the unit search operates on: a board state, the pair of gods in
// play, and the incrementally maintained NNUE accumulator, bundled the way
// the teacher bundles position+hash+eval into its *board.Board.
type Node struct {
	State *board.State
	Defs  [2]*god.GodDef
	Net   *nnue.Network
	Acc   *nnue.Accumulator
	Noise Noise
}

// NewNode builds a Node from an already-placed state, looking up both
// players' god definitions from the registry and seeding the accumulator
// from scratch.
func NewNode(s *board.State, net *nnue.Network) *Node {
	n := &Node{State: s, Net: net}
	n.Defs[0] = god.ByID(s.GodID[0])
	n.Defs[1] = god.ByID(s.GodID[1])
	n.Acc = nnue.NewAccumulator(net, func(me int) []int { return nnue.ActiveIndices(s, me) })
	return n
}

func (n *Node) Self() *god.GodDef     { return n.Defs[n.State.ToMove] }
func (n *Node) Opponent() *god.GodDef { return n.Defs[board.Opponent(n.State.ToMove)] }

// MustClimb reports the standing Persephone constraint: for as long as the
// opponent's god is Persephone, the player to move must climb if any
// climbing move exists (spec.md §4.E) -- not a one-shot trigger from the
// previous move, a constant condition of the matchup.
func (n *Node) MustClimb() bool {
	return n.Opponent().ID == board.Persephone
}

// GenerateMoves produces the legal moves for the side to move, honoring
// the standing MUST_CLIMB constraint and falling back to unconstrained
// generation when no climbing move exists (the one permitted recursion,
// handled inside god.GenerateForTurn).
func (n *Node) GenerateMoves(keySquares board.Bitboard, flags god.Flags) []board.ScoredMove {
	return god.GenerateForTurn(n.Self(), n.Opponent(), n.State, n.State.ToMove, n.MustClimb(), keySquares, flags)
}

// Undo is what Pop needs to reverse a Push: the board snapshot. The NNUE
// side reverses via the accumulator's own delta stack (Acc.Pop).
type Undo struct {
	snapshot *board.State
}

// Push commits mv, updating the board and the NNUE accumulator together.
// The feature delta is derived by diffing ActiveIndices before and after
// the move rather than hand-deriving an add/remove set per god -- a
// documented simplification: Accumulator.Push still only touches the
// hidden-layer rows that actually changed, it's computing which those are
// that costs an extra pass over the active-feature lists.
func (n *Node) Push(mv board.Move) Undo {
	def := n.Self()
	player := n.State.ToMove

	before0 := nnue.ActiveIndices(n.State, 0)
	before1 := nnue.ActiveIndices(n.State, 1)

	snapshot := god.MakeMove(def, n.State, player, mv)

	after0 := nnue.ActiveIndices(n.State, 0)
	after1 := nnue.ActiveIndices(n.State, 1)

	var removed, added [2][]int
	removed[0], added[0] = diffIndices(before0, after0)
	removed[1], added[1] = diffIndices(before1, after1)
	n.Acc.Push(removed, added)

	return Undo{snapshot: snapshot}
}

func (n *Node) Pop(u Undo) {
	god.UnmakeMove(n.State, u.snapshot)
	n.Acc.Pop()
}

// PushNull flips the side to move for null-move pruning (spec.md §4.H
// step 5) without otherwise touching the board. The accumulator holds one
// vector per absolute player, not per side-to-move, so no feature delta
// applies; PopNull is its own inverse.
func (n *Node) PushNull() { n.State.SwapToMove() }
func (n *Node) PopNull()  { n.State.SwapToMove() }

// Evaluate runs the NNUE forward pass from the side-to-move perspective,
// perturbed by Noise if configured.
func (n *Node) Evaluate() Score {
	return Score(n.Net.Evaluate(n.Acc, n.State.ToMove)) + n.Noise.sample()
}

func diffIndices(before, after []int) (removed, added []int) {
	beforeSet := make(map[int]bool, len(before))
	for _, x := range before {
		beforeSet[x] = true
	}
	afterSet := make(map[int]bool, len(after))
	for _, x := range after {
		afterSet[x] = true
	}
	for x := range beforeSet {
		if !afterSet[x] {
			removed = append(removed, x)
		}
	}
	for x := range afterSet {
		if !beforeSet[x] {
			added = append(added, x)
		}
	}
	return removed, added
}
