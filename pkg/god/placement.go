package god

import "github.com/santorini-engine/core/pkg/board"

// Placement is a candidate initial placement for a player's two workers.
type Placement struct {
	Squares [2]board.Square
}

// GeneratePlacements enumerates legal worker placements for player given
// the current (presumably empty-for-this-player) board: every pair of
// distinct empty, non-domed squares, for every god including Clio.
// Clio's god-state is set by ApplyPlacement, not here.
func GeneratePlacements(def *GodDef, s *board.State, player int) []Placement {
	empty := board.FullBitboard &^ s.Occupied() &^ s.Heights.LevelMask(4)

	var out []Placement
	squares := empty.ToSquares()
	for i := 0; i < len(squares); i++ {
		for j := i + 1; j < len(squares); j++ {
			out = append(out, Placement{Squares: [2]board.Square{squares[i], squares[j]}})
		}
	}
	return out
}

// ApplyPlacement places a player's two workers and, for Clio, sets her
// remaining-placement counter to 2. It places no Clio coin squares; the
// coin fields keep whatever value the god-data already held.
func ApplyPlacement(def *GodDef, s *board.State, player int, pl Placement) {
	mask := board.BitMask(pl.Squares[0]) | board.BitMask(pl.Squares[1])
	s.ApplyWorkerXor(player, mask)

	if def.PlacementStyle == PlacementClio {
		d := s.God[player].WithClioRemaining(2)
		s.SetGodData(player, d)
	}
}
