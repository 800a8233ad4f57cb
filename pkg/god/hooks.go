package god

import "github.com/santorini-engine/core/pkg/board"

// Hooks specializes the Mortal baseline generator (mortal.go). A nil
// field means "no deviation from Mortal behavior at this step." Most
// gods set one or two of these and leave the rest nil.
type Hooks struct {
	// DestMask further restricts or extends a worker's default move
	// destinations (neighbors intersected with climbable squares). Hermes
	// adds every square reachable by same-level steps here; Aeolus, Limus
	// and Aphrodite do not use this hook (they constrain the opponent's
	// replies, not the mover's own destinations, so they are applied from
	// the opponent's perspective when that side generates).
	DestMask func(s *board.State, player int, worker board.Square, mask board.Bitboard) board.Bitboard

	// AllowOccupied reports whether stepping onto a square occupied by an
	// opposing worker is a legal destination at all (Apollo, Minotaur).
	AllowOccupied bool

	// ResolveOccupied computes the packed Extra payload for a move onto
	// an opponent-occupied square, and whether the move is legal (a
	// Minotaur push that would land off the board is not). Only called
	// when AllowOccupied is true and the destination holds an enemy
	// worker.
	ResolveOccupied func(s *board.State, player int, worker, dest board.Square) (extra uint16, ok bool)

	// IsWinning overrides the default "reached level 3" rule. Only Pan
	// sets this (win also by descending two levels).
	IsWinning func(heightBefore, heightAfter int) bool

	// ExtraMoveSquares, when non-nil, lists the additional destinations
	// legal for a second move (Artemis) from the worker's new position,
	// not returning to its original square. Used
	// by the generator to recurse one extra hop before falling into the
	// shared build-enumeration step.
	ExtraMoveSquares func(s *board.State, player int, worker, current, origin board.Square) []board.Square

	// PreMoveBuildOptional lets the worker build once before moving,
	// forfeiting the right to climb on the subsequent move (Prometheus).
	PreMoveBuildOptional bool

	// SecondBuild, when non-nil, is invoked once a primary (worker,
	// dest, build) triple is found and yields additional scored moves
	// representing a second build this turn (Hephaestus: same square,
	// not to a dome from level 3; Demeter: a second, different square).
	SecondBuild func(s *board.State, player int, worker, dest, firstBuild board.Square) []board.Square

	// AllowDomeAnyHeight lets the build step additionally emit a
	// dome-at-any-height variant of each build square (Atlas).
	AllowDomeAnyHeight bool

	// The following three hooks are read from the *opponent's* GodDef
	// while a player generates moves -- they model gods whose power
	// constrains the other side rather than the bearer (Athena, Hypnus,
	// Limus, Aphrodite, Aeolus). Generate consults defOpponent.Hooks for these
	// even though the rest of Hooks above is read from defSelf.

	// OpponentMoveableFilter restricts which of the generating player's
	// own workers may move at all (Hypnus: the opponent's unique highest
	// worker is frozen).
	OpponentMoveableFilter func(s *board.State, godPlayer, opponent int, workers board.Bitboard) board.Bitboard

	// OpponentDestMask restricts or reorders the generating player's
	// destination choices for one worker (Athena: no climbing to level 3
	// while she has climbed; Aphrodite: must step toward her if adjacent
	// and able; Aeolus: no step in the blocked wind direction).
	OpponentDestMask func(s *board.State, godPlayer, opponent int, worker board.Square, mask board.Bitboard) board.Bitboard

	// OpponentBuildMask restricts the generating player's build-square
	// choices (Limus: no building adjacent to a Limus worker unless the
	// move itself climbed).
	OpponentBuildMask func(s *board.State, godPlayer, opponent int, worker, dest board.Square, climbed bool, mask board.Bitboard) board.Bitboard
}
