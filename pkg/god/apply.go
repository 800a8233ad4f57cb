package god

import "github.com/santorini-engine/core/pkg/board"

// GenerateForTurn wraps Generate with the one matchup condition the
// generator signature itself cannot see: whether the player must climb
// if able (callers pass true whenever the opponent's god is Persephone).
// MUST_CLIMB recurses at most
// once, per spec.md's "Persephone recursion" design note -- if no
// climbing move exists, the caller falls back to an unconstrained
// generation rather than looping.
func GenerateForTurn(self, opponent *GodDef, s *board.State, player int, opponentJustForcedClimb bool, keySquares board.Bitboard, flags Flags) []board.ScoredMove {
	if opponentJustForcedClimb {
		if moves := Generate(self, opponent, s, player, keySquares, flags, true); len(moves) > 0 {
			return moves
		}
	}
	return Generate(self, opponent, s, player, keySquares, flags, false)
}

// MakeMove commits mv to s for player, including whichever god-specific
// side effects the move's packed fields encode (swap, push, second
// build, any-height dome, pre-move build, winner bits). It returns a
// snapshot the caller can hand to UnmakeMove to restore s exactly; State
// is a small flat value so snapshot-and-restore is cheap and simpler
// than threading an inverse delta through every god's hooks (the NNUE
// accumulator, which is not cheap to rebuild, keeps its own delta-based
// undo in package nnue).
func MakeMove(def *GodDef, s *board.State, player int, mv board.Move) *board.State {
	snapshot := s.Clone()

	opponent := board.Opponent(player)
	from, to, build := mv.From(), mv.To(), mv.Build()

	// Captured before any build touches the board: building back onto the
	// vacated origin (build == from) is legal and would otherwise inflate
	// Height(from) and hide a real climb from applyPostMoveGodData.
	climbed := s.Height(to) > s.Height(from)

	if def.ID == board.Prometheus {
		if pre, ok := PreBuildSquare(mv); ok {
			_ = s.BuildUp(pre)
		}
	}

	occupiedBefore := s.Workers[opponent].IsSet(to)
	if occupiedBefore {
		switch def.ID {
		case board.Apollo:
			s.ApplyWorkerXor(opponent, board.BitMask(to)|board.BitMask(from))
		case board.Minotaur:
			landing := MinotaurLanding(mv)
			s.ApplyWorkerXor(opponent, board.BitMask(to)|board.BitMask(landing))
		}
	}

	s.ApplyWorkerXor(player, board.BitMask(from)|board.BitMask(to))

	if def.ID == board.Atlas && IsAtlasDome(mv) {
		s.PlaceDome(build)
	} else {
		_ = s.BuildUp(build)
	}
	if sq, ok := SecondBuildSquare(mv); ok {
		_ = s.BuildUp(sq)
	}

	if mv.IsWinning() {
		s.SetWinner(player)
	}

	applyPostMoveGodData(def, s, player, climbed)

	s.SwapToMove()
	return snapshot
}

// UnmakeMove restores s from the snapshot MakeMove returned.
func UnmakeMove(s *board.State, snapshot *board.State) {
	*s = *snapshot
}

func applyPostMoveGodData(def *GodDef, s *board.State, player int, climbed bool) {
	switch def.ID {
	case board.Athena:
		d := s.God[player].WithClimbed(climbed)
		s.SetGodData(player, d)
	case board.Morpheus:
		n := s.God[player].MorpheusBuilds() + 1
		d := s.God[player].WithMorpheusBuilds(n)
		s.SetGodData(player, d)
	}
}
