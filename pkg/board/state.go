package board

// State is the full game state: heights, worker positions, per-player god
// data and god identity, side to move, and the incrementally-maintained
// Zobrist hash. God references are immutable for the life of a State; god
// swaps are not modeled (spec.md §3, "Full game state").
//
// State is a plain value plus a shared, read-only ZobristTable pointer, so
// it can be cheaply copied for search exploration -- the same role the
// teacher's Board.Fork plays for its chess position.
type State struct {
	Heights HeightMap
	cache   heightCache

	Workers [2]Bitboard
	God     [2]GodData
	GodID   [2]GodID

	ToMove int // 0 or 1
	Hash   ZobristHash

	zobrist *ZobristTable
}

// NewState returns an empty board (no heights, no workers placed) for the
// given pair of gods, ready for the placement phase.
func NewState(zt *ZobristTable, g1, g2 GodID) *State {
	s := &State{
		GodID:   [2]GodID{g1, g2},
		God:     [2]GodData{NewGodData(), NewGodData()},
		zobrist: zt,
	}
	s.cache.rebuild(s.Heights)
	s.Hash = zt.Hash(s.Heights, s.Workers, s.God, s.ToMove)
	return s
}

// Clone returns an independent deep copy, safe to mutate during search
// exploration without affecting the original.
func (s *State) Clone() *State {
	c := *s
	return &c
}

// SetHeights replaces the height map wholesale and rebuilds the lookup
// cache; used by the FEN loader, which parses all 25 heights up front and
// lets Rehash establish the hash afterward rather than threading every
// square through BuildUp/PlaceDome one call at a time.
func (s *State) SetHeights(h HeightMap) {
	s.Heights = h
	s.cache.rebuild(h)
}

// Height returns the cached height (0-4) at sq.
func (s *State) Height(sq Square) int {
	return int(s.cache[sq])
}

// IsDome reports whether sq is capped.
func (s *State) IsDome(sq Square) bool {
	return s.Heights.IsDome(sq)
}

// Winner returns the winner recorded in the height map's lowest plane: 0 =
// none, 1 = player 1 (index 0), 2 = player 2 (index 1).
func (s *State) Winner() int {
	return s.Heights[0].Winner()
}

// IsTerminal reports whether the winner bits are set; per invariant 4, no
// further moves may be generated once true.
func (s *State) IsTerminal() bool {
	return s.Winner() != 0
}

// Occupied returns the union of both players' workers.
func (s *State) Occupied() Bitboard {
	return s.Workers[0] | s.Workers[1]
}

// ApplyWorkerXor toggles worker-presence bits for both players and updates
// the Zobrist hash incrementally. Each set bit in mask flips that square's
// occupancy for the named player -- callers use this both to lift a worker
// off its origin and to place it on its destination (two calls, or one
// call with both bits set when the xor of origin and destination is
// passed directly).
func (s *State) ApplyWorkerXor(player int, mask Bitboard) {
	s.Workers[player] ^= mask
	bb := mask
	for bb != 0 {
		sq := bb.LastPopSquare()
		bb ^= BitMask(sq)
		s.Hash = s.zobrist.XorWorker(s.Hash, player, sq)
	}
}

// BuildUp increments the height at sq by one level and updates the hash.
// Returns InvalidState if sq is already a dome.
func (s *State) BuildUp(sq Square) error {
	before := s.Height(sq)
	if !s.Heights.buildUp(sq) {
		return newInvalidState("build_up", sq, "square already domed")
	}
	s.Hash = s.zobrist.XorLayer(s.Hash, before, sq)
	s.cache[sq] = uint8(before + 1)
	return nil
}

// PlaceDome forces sq straight to level 4, used by Atlas. Updates every
// layer key whose bit actually flips.
func (s *State) PlaceDome(sq Square) {
	before := s.Height(sq)
	s.Heights.placeDome(sq)
	for l := before; l < 4; l++ {
		s.Hash = s.zobrist.XorLayer(s.Hash, l, sq)
	}
	s.cache[sq] = 4
}

// SetWinner writes the winner bits in H[0] for the given player index (0
// or 1).
func (s *State) SetWinner(player int) {
	s.Heights[0] = s.Heights[0].WithWinner(player)
}

// SwapToMove flips the side to move and updates the hash. God-data is
// addressed per-player-index throughout (it does not rotate between
// slots); "rotates conceptually" in spec.md §4.B refers only to whose
// data a generator treats as "mine" versus "theirs" for the next ply, not
// to a physical swap of the God/GodData arrays.
func (s *State) SwapToMove() {
	s.Hash = s.zobrist.XorTurn(s.Hash, s.ToMove)
	s.ToMove = 1 - s.ToMove
	s.Hash = s.zobrist.XorTurn(s.Hash, s.ToMove)
}

// SetGodData replaces a player's god-data word, updating the hash for
// whichever bits changed.
func (s *State) SetGodData(player int, d GodData) {
	s.Hash = s.zobrist.XorGodData(s.Hash, player, s.God[player], d)
	s.God[player] = d
}

// Rehash recomputes the Zobrist hash from scratch; used only in tests
// verifying incremental-update correctness (spec.md §8, property 1).
func (s *State) Rehash() ZobristHash {
	s.Hash = s.zobrist.Hash(s.Heights, s.Workers, s.God, s.ToMove)
	return s.Hash
}

// Opponent returns the other player's index.
func Opponent(player int) int {
	return 1 - player
}
