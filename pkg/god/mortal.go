package god

import "github.com/santorini-engine/core/pkg/board"

// prelude holds the per-call masks shared by every destination and build
// computation, built once per Generate invocation (spec.md §4.E step 1).
type prelude struct {
	level   [5]board.Bitboard // level[L] = squares at exactly height L (0..4, 4 = dome)
	domed   board.Bitboard
	ownMask board.Bitboard
	oppMask board.Bitboard
}

func buildPrelude(s *board.State, player int) prelude {
	var p prelude
	for l := 0; l <= 4; l++ {
		p.level[l] = s.Heights.LevelMask(l)
	}
	p.domed = s.Heights.LevelMask(4)
	p.ownMask = s.Workers[player]
	p.oppMask = s.Workers[board.Opponent(player)]
	return p
}

// climbableFrom returns the squares of height <= h(from)+1, excluding
// domes and both players' workers (including the worker on from itself,
// which is never one of its own neighbors).
func (p prelude) climbableFrom(s *board.State, from board.Square) board.Bitboard {
	h := s.Height(from)
	var mask board.Bitboard
	for l := 0; l <= h+1 && l <= 4; l++ {
		mask |= p.level[l]
	}
	return mask &^ p.domed &^ (p.ownMask | p.oppMask)
}

// Generate implements spec.md §4.E's common algorithm, specialized by
// self's Hooks and by the cross-player hooks read from opponent.
func Generate(self, opponent *GodDef, s *board.State, player int, keySquares board.Bitboard, flags Flags, mustClimb bool) []board.ScoredMove {
	if s.IsTerminal() {
		return nil
	}

	p := buildPrelude(s, player)

	workers := s.Workers[player]
	if f := opponent.Hooks.OpponentMoveableFilter; f != nil {
		workers = f(s, player, board.Opponent(player), workers)
	}

	var out []board.ScoredMove
	for wb := workers; wb != 0; {
		w := wb.LastPopSquare()
		wb ^= board.BitMask(w)

		direct := generateFromWorker(self, opponent, s, player, p, w, keySquares, flags, mustClimb)
		if self.Hooks.PreMoveBuildOptional {
			for i := range direct {
				direct[i].Move = direct[i].Move.WithExtra(encodePreBuild(board.Square(preBuildNone)))
			}
			out = append(out, generatePreBuildMoves(self, opponent, s, player, w, keySquares, flags, mustClimb)...)
		}
		out = append(out, direct...)
		if flags.has(StopOnMate) && anyWinning(out) {
			return out
		}
	}
	return out
}

// generatePreBuildMoves handles Prometheus's optional build-before-move:
// build once adjacent to the worker, then move without climbing, using
// heights as they stand after that pre-build. The end-of-turn build
// still follows normally.
func generatePreBuildMoves(self, opponent *GodDef, s *board.State, player int, w board.Square, keySquares board.Bitboard, flags Flags, mustClimb bool) []board.ScoredMove {
	candidates := board.NEIGHBORS[w] &^ s.Heights.LevelMask(4) &^ (s.Workers[0] | s.Workers[1])

	var out []board.ScoredMove
	for cb := candidates; cb != 0; {
		pre := cb.LastPopSquare()
		cb ^= board.BitMask(pre)

		c := s.Clone()
		if err := c.BuildUp(pre); err != nil {
			continue
		}
		p := buildPrelude(c, player)
		hBefore := c.Height(w)
		moves := generateFromWorker(self, opponent, c, player, p, w, keySquares, flags, mustClimb)
		for _, sm := range moves {
			if c.Height(sm.Move.To()) > hBefore {
				continue // forfeited the right to climb by pre-building
			}
			out = append(out, board.ScoredMove{Move: sm.Move.WithExtra(encodePreBuild(pre)), Score: sm.Score})
		}
	}
	return out
}

const preBuildNone = 0x1f

func encodePreBuild(sq board.Square) uint16 {
	return uint16(sq) << 9
}

// PreBuildSquare decodes Prometheus's pre-move build square, if any.
func PreBuildSquare(m board.Move) (board.Square, bool) {
	v := (m.Extra() >> 9) & 0x1f
	return board.Square(v), v != preBuildNone
}

func anyWinning(moves []board.ScoredMove) bool {
	for _, m := range moves {
		if m.Move.IsWinning() {
			return true
		}
	}
	return false
}

func generateFromWorker(self, opponent *GodDef, s *board.State, player int, p prelude, w board.Square, keySquares board.Bitboard, flags Flags, mustClimb bool) []board.ScoredMove {
	destMask := board.NEIGHBORS[w] & p.climbableFrom(s, w)
	destMask &^= board.BitMask(w)

	if self.Hooks.AllowOccupied {
		destMask |= board.NEIGHBORS[w] &^ p.domed &^ p.ownMask
	} else {
		destMask &^= p.oppMask
	}

	if self.Hooks.DestMask != nil {
		destMask = self.Hooks.DestMask(s, player, w, destMask)
	}
	if f := opponent.Hooks.OpponentDestMask; f != nil {
		destMask = f(s, player, board.Opponent(player), w, destMask)
	}
	if mustClimb {
		hw := s.Height(w)
		strictlyHigher := p.level[minInt(hw+1, 4)]
		for l := hw + 2; l <= 4; l++ {
			strictlyHigher |= p.level[l]
		}
		destMask &= strictlyHigher
	}

	var out []board.ScoredMove
	for db := destMask; db != 0; {
		d := db.LastPopSquare()
		db ^= board.BitMask(d)

		var extra uint16
		occupied := p.oppMask.IsSet(d)
		if occupied {
			ex, ok := resolveOccupied(self, s, player, w, d)
			if !ok {
				continue
			}
			extra = ex
		}

		heightBefore, heightAfter := s.Height(w), s.Height(d)
		winning := heightAfter == 3 && !s.IsDome(d)
		if self.Hooks.IsWinning != nil {
			winning = self.Hooks.IsWinning(heightBefore, heightAfter)
		}
		if flags.has(MateOnly) && !winning {
			continue
		}

		base := board.NewMove(w, d, 0).WithWinning(winning).WithExtra(extra)

		if extraDests := self.Hooks.ExtraMoveSquares; extraDests != nil && !winning {
			for _, d2 := range extraDests(s, player, w, d, w) {
				winning2 := s.Height(d2) == 3 && !s.IsDome(d2)
				base2 := base.WithTo(d2).WithWinning(winning2)
				out = append(out, buildsFor(self, opponent, s, player, p, w, d2, base2, keySquares, flags)...)
			}
		}

		// A second-move god may also stop after the first hop.
		out = append(out, buildsFor(self, opponent, s, player, p, w, d, base, keySquares, flags)...)

		if flags.has(StopOnMate) && winning {
			return out
		}
	}
	return out
}

func resolveOccupied(self *GodDef, s *board.State, player int, w, d board.Square) (uint16, bool) {
	if self.Hooks.ResolveOccupied == nil {
		return 0, false
	}
	return self.Hooks.ResolveOccupied(s, player, w, d)
}

func buildsFor(self, opponent *GodDef, s *board.State, player int, p prelude, w, dest board.Square, base board.Move, keySquares board.Bitboard, flags Flags) []board.ScoredMove {
	if base.IsWinning() {
		// An immediate win always survives the horizon's key-square filter
		// -- the mask only ever prunes the non-winning, build-interacts-
		// with-opponent branch below.
		return []board.ScoredMove{{Move: base}}
	}

	buildMask := board.NEIGHBORS[dest] &^ p.domed &^ (p.ownMask &^ board.BitMask(w)) &^ p.oppMask

	climbed := s.Height(dest) > s.Height(w)
	if f := opponent.Hooks.OpponentBuildMask; f != nil {
		buildMask = f(s, player, board.Opponent(player), w, dest, climbed, buildMask)
	}

	if flags.has(InteractWithKeySquares) && keySquares != 0 {
		buildMask &= keySquares
	}

	var out []board.ScoredMove
	for bb := buildMask; bb != 0; {
		b := bb.LastPopSquare()
		bb ^= board.BitMask(b)

		check := wouldCheck(s, player, w, dest, b)
		mv := base.WithBuild(b).WithCheck(check)

		sm := board.ScoredMove{Move: mv}
		if flags.has(IncludeScore) {
			sm.Score = scoreMove(s, w, dest, check)
		}
		out = append(out, sm)

		if self.Hooks.AllowDomeAnyHeight && !s.IsDome(b) {
			domeMv := mv.WithExtra(mv.Extra() | domeBit)
			out = append(out, board.ScoredMove{Move: domeMv, Score: sm.Score})
		}

		if self.Hooks.SecondBuild != nil {
			for _, b2 := range self.Hooks.SecondBuild(s, player, w, dest, b) {
				mv2 := mv.WithExtra(encodeSecondBuild(mv.Extra(), b2))
				out = append(out, board.ScoredMove{Move: mv2})
			}
		}

		if flags.has(StopOnMate) {
			return out
		}
	}
	return out
}

// wouldCheck reports whether, after playing (w -> dest, build b), the
// moving player has any reachable level-3 square from either worker
// (spec.md §4.E "Check detection").
func wouldCheck(s *board.State, player int, w, dest, b board.Square) bool {
	c := s.Clone()
	c.ApplyWorkerXor(player, board.BitMask(w)|board.BitMask(dest))
	_ = c.BuildUp(b)
	return hasWinningThreat(c, player)
}

// hasWinningThreat reports whether player has a worker at level 2
// adjacent to an open, unreachable-by-dome level-3 square.
func hasWinningThreat(s *board.State, player int) bool {
	for wb := s.Workers[player]; wb != 0; {
		w := wb.LastPopSquare()
		wb ^= board.BitMask(w)
		if s.Height(w) != 2 {
			continue
		}
		targets := board.NEIGHBORS[w] &^ (s.Workers[0] | s.Workers[1])
		for tb := targets; tb != 0; {
			t := tb.LastPopSquare()
			tb ^= board.BitMask(t)
			if s.Height(t) == 3 && !s.IsDome(t) {
				return true
			}
		}
	}
	return false
}

func scoreMove(s *board.State, w, dest board.Square, check bool) int16 {
	var score int16
	if s.Height(dest) > s.Height(w) {
		score += 40
	}
	if check {
		score += 60
	}
	for nb := board.NEIGHBORS[dest]; nb != 0; {
		n := nb.LastPopSquare()
		nb ^= board.BitMask(n)
		score += int16(s.Height(n))
	}
	return score
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// domeBit marks Atlas's any-height dome (extra bit 14). encodeSecondBuild
// packs the two-build gods' second square into extra bits 0-4 and sets
// secondBuildBit (extra bit 5) to mark it present, so the low bits other
// gods use (Apollo's swap flag, Minotaur's landing square) never read as
// a second build.
const (
	domeBit        = 1 << 14
	secondBuildBit = 1 << 5
)

func encodeSecondBuild(extra uint16, sq board.Square) uint16 {
	const mask = uint16(0x1f)
	return (extra &^ mask) | (uint16(sq) & mask) | secondBuildBit
}

// SecondBuildSquare decodes a second-build square packed by
// encodeSecondBuild, if the god set one.
func SecondBuildSquare(m board.Move) (board.Square, bool) {
	ex := m.Extra()
	return board.Square(ex & 0x1f), ex&secondBuildBit != 0
}
