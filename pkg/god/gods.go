package god

import "github.com/santorini-engine/core/pkg/board"

func init() {
	register(mortalDef())
	register(apolloDef())
	register(artemisDef())
	register(athenaDef())
	register(atlasDef())
	register(demeterDef())
	register(hephaestusDef())
	register(hermesDef())
	register(minotaurDef())
	register(panDef())
	register(prometheusDef())
	register(persephoneDef())
	register(aphroditeDef())
	register(morpheusDef())
	register(aeolusDef())
	register(limusDef())
	register(hypnusDef())
	register(europaDef())
	register(seleneDef())
	register(hippolytaDef())
	register(clioDef())
}

func mortalDef() *GodDef {
	return &GodDef{Name: "mortal", ID: board.Mortal}
}

// --- Apollo: swaps onto an adjacent opponent worker instead of displacing it.

func apolloDef() *GodDef {
	return &GodDef{
		Name: "apollo",
		ID:   board.Apollo,
		Hooks: Hooks{
			AllowOccupied:   true,
			ResolveOccupied: func(s *board.State, player int, w, d board.Square) (uint16, bool) { return 1, true },
		},
	}
}

// IsApolloSwap reports whether an Apollo move swapped with the occupant.
func IsApolloSwap(m board.Move) bool { return m.Extra()&1 != 0 }

// --- Minotaur: pushes an adjacent opponent worker one square further in
// the same direction; fails if that landing square is occupied, domed, or
// off the board.

func minotaurDef() *GodDef {
	return &GodDef{
		Name: "minotaur",
		ID:   board.Minotaur,
		Hooks: Hooks{
			AllowOccupied:   true,
			ResolveOccupied: minotaurResolve,
		},
	}
}

func minotaurResolve(s *board.State, player int, w, d board.Square) (uint16, bool) {
	dir, ok := board.DirectionBetween(w, d)
	if !ok {
		return 0, false
	}
	landing, ok := board.DirectionTarget(d, dir)
	if !ok {
		return 0, false
	}
	if s.IsDome(landing) || s.Occupied().IsSet(landing) {
		return 0, false
	}
	return uint16(landing), true
}

// MinotaurLanding decodes the square a pushed worker lands on.
func MinotaurLanding(m board.Move) board.Square { return board.Square(m.Extra() & 0x1f) }

// --- Artemis: an optional second move, not returning to the origin.

func artemisDef() *GodDef {
	return &GodDef{
		Name: "artemis",
		ID:   board.Artemis,
		Hooks: Hooks{
			ExtraMoveSquares: func(s *board.State, player int, w, current, origin board.Square) []board.Square {
				return sameWorkerDestinations(s, player, current, origin, w)
			},
		},
	}
}

// sameWorkerDestinations recomputes the normal destination mask for a
// worker that has hypothetically already moved from origin to current,
// excluding a forbidden return square.
func sameWorkerDestinations(s *board.State, player int, current, forbidden, vacated board.Square) []board.Square {
	h := s.Height(current)
	ownMask := (s.Workers[player] &^ board.BitMask(vacated)) | board.BitMask(current)
	oppMask := s.Workers[board.Opponent(player)]
	domed := s.Heights.LevelMask(4)

	var climbable board.Bitboard
	for l := 0; l <= h+1 && l <= 4; l++ {
		climbable |= s.Heights.LevelMask(l)
	}
	climbable &^= domed
	climbable &^= ownMask | oppMask

	mask := board.NEIGHBORS[current] & climbable
	mask &^= board.BitMask(forbidden)
	return mask.ToSquares()
}

// --- Hermes: any number of same-level moves instead of one.

func hermesDef() *GodDef {
	return &GodDef{
		Name: "hermes",
		ID:   board.Hermes,
		Hooks: Hooks{
			DestMask: func(s *board.State, player int, w board.Square, mask board.Bitboard) board.Bitboard {
				return mask | floodSameLevel(s, w)
			},
		},
	}
}

func floodSameLevel(s *board.State, w board.Square) board.Bitboard {
	h := s.Height(w)
	passable := s.Heights.LevelMask(h) &^ s.Occupied()
	visited := board.BitMask(w)
	frontier := visited
	for {
		var next board.Bitboard
		for fb := frontier; fb != 0; {
			sq := fb.LastPopSquare()
			fb ^= board.BitMask(sq)
			next |= board.NEIGHBORS[sq] & passable
		}
		next |= visited
		if next == visited {
			break
		}
		frontier = next &^ visited
		visited = next
	}
	return visited &^ board.BitMask(w)
}

// --- Pan: also wins by descending two or more levels in one move.

func panDef() *GodDef {
	return &GodDef{
		Name: "pan",
		ID:   board.Pan,
		Hooks: Hooks{
			IsWinning: func(before, after int) bool {
				return after == 3 || before-after >= 2
			},
		},
	}
}

// --- Prometheus: optional build before moving, forfeiting the climb.

func prometheusDef() *GodDef {
	return &GodDef{
		Name: "prometheus",
		ID:   board.Prometheus,
		Hooks: Hooks{
			PreMoveBuildOptional: true,
		},
	}
}

// --- Hephaestus: optional second build on the same square, never to a dome.

func hephaestusDef() *GodDef {
	return &GodDef{
		Name: "hephaestus",
		ID:   board.Hephaestus,
		Hooks: Hooks{
			SecondBuild: func(s *board.State, player int, w, dest, firstBuild board.Square) []board.Square {
				after := s.Height(firstBuild) + 1
				if after >= 3 {
					return nil
				}
				return []board.Square{firstBuild}
			},
		},
	}
}

// --- Demeter: optional second build on a different square.

func demeterDef() *GodDef {
	return &GodDef{
		Name: "demeter",
		ID:   board.Demeter,
		Hooks: Hooks{
			SecondBuild: func(s *board.State, player int, w, dest, firstBuild board.Square) []board.Square {
				ownMask := (s.Workers[player] &^ board.BitMask(w)) | board.BitMask(dest)
				mask := board.NEIGHBORS[dest] &^ s.Heights.LevelMask(4)
				mask &^= ownMask | s.Workers[board.Opponent(player)]
				mask &^= board.BitMask(firstBuild)
				return mask.ToSquares()
			},
		},
	}
}

// --- Atlas: may dome a build square at any height.

func atlasDef() *GodDef {
	return &GodDef{
		Name: "atlas",
		ID:   board.Atlas,
		Hooks: Hooks{
			AllowDomeAnyHeight: true,
		},
	}
}

// IsAtlasDome reports whether a build move placed an any-height dome.
func IsAtlasDome(m board.Move) bool { return m.Extra()&domeBit != 0 }

// --- Athena: if she climbed, the opponent cannot climb to level 3 next turn.

func athenaDef() *GodDef {
	return &GodDef{
		Name: "athena",
		ID:   board.Athena,
		Hooks: Hooks{
			OpponentDestMask: func(s *board.State, godPlayer, opponent int, worker board.Square, mask board.Bitboard) board.Bitboard {
				if !s.God[opponent].Climbed() {
					return mask
				}
				if s.Height(worker) != 2 {
					return mask
				}
				return mask &^ s.Heights.LevelMask(3)
			},
		},
		ParseState: parseClimbed,
		EmitState:  emitClimbed,
	}
}

// --- Hypnus: the opponent's unique highest worker, if unique, may not move.

func hypnusDef() *GodDef {
	return &GodDef{
		Name: "hypnus",
		ID:   board.Hypnus,
		Hooks: Hooks{
			OpponentMoveableFilter: func(s *board.State, godPlayer, opponent int, workers board.Bitboard) board.Bitboard {
				maxH, maxSq, count := -1, board.Square(0), 0
				for wb := workers; wb != 0; {
					w := wb.LastPopSquare()
					wb ^= board.BitMask(w)
					h := s.Height(w)
					switch {
					case h > maxH:
						maxH, maxSq, count = h, w, 1
					case h == maxH:
						count++
					}
				}
				if count == 1 {
					return workers &^ board.BitMask(maxSq)
				}
				return workers
			},
		},
	}
}

// --- Limus: opposing workers may not build adjacent to a Limus worker
// unless their move climbed.

func limusDef() *GodDef {
	return &GodDef{
		Name: "limus",
		ID:   board.Limus,
		Hooks: Hooks{
			OpponentBuildMask: func(s *board.State, godPlayer, opponent int, w, dest board.Square, climbed bool, mask board.Bitboard) board.Bitboard {
				if climbed {
					return mask
				}
				var adj board.Bitboard
				for wb := s.Workers[opponent]; wb != 0; {
					lw := wb.LastPopSquare()
					wb ^= board.BitMask(lw)
					adj |= board.NEIGHBORS[lw]
				}
				return mask &^ adj
			},
		},
	}
}

// --- Aphrodite: an adjacent opponent worker must move toward her if a
// qualifying destination exists.

func aphroditeDef() *GodDef {
	return &GodDef{
		Name: "aphrodite",
		ID:   board.Aphrodite,
		Hooks: Hooks{
			OpponentDestMask: func(s *board.State, godPlayer, opponent int, worker board.Square, mask board.Bitboard) board.Bitboard {
				adjacent := false
				for wb := s.Workers[opponent]; wb != 0; {
					aw := wb.LastPopSquare()
					wb ^= board.BitMask(aw)
					if board.NEIGHBORS[aw].IsSet(worker) {
						adjacent = true
						break
					}
				}
				if !adjacent {
					return mask
				}
				var toward board.Bitboard
				for db := mask; db != 0; {
					d := db.LastPopSquare()
					db ^= board.BitMask(d)
					for wb := s.Workers[opponent]; wb != 0; {
						aw := wb.LastPopSquare()
						wb ^= board.BitMask(aw)
						if chebyshev(d, aw) < chebyshev(worker, aw) {
							toward |= board.BitMask(d)
							break
						}
					}
				}
				if toward != 0 {
					return toward
				}
				return mask
			},
		},
	}
}

func chebyshev(a, b board.Square) int {
	df := absInt(int(a.File()) - int(b.File()))
	dr := absInt(int(a.Rank()) - int(b.Rank()))
	if df > dr {
		return df
	}
	return dr
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// --- Morpheus: builds accumulate across turns, spent several at once.
// The accumulator counter lives in GodData (MorpheusBuilds); move
// generation itself uses the Mortal skeleton, the turn-application layer
// (pkg/god/apply.go) increments the counter once per move, and no move
// spends stored builds.

func morpheusDef() *GodDef {
	return &GodDef{
		Name:       "morpheus",
		ID:         board.Morpheus,
		ParseState: parseMorpheusBuilds,
		EmitState:  emitMorpheusBuilds,
	}
}

// --- Aeolus: blocks one compass direction of the opponent's movement.

func aeolusDef() *GodDef {
	return &GodDef{
		Name: "aeolus",
		ID:   board.Aeolus,
		Hooks: Hooks{
			OpponentDestMask: func(s *board.State, godPlayer, opponent int, worker board.Square, mask board.Bitboard) board.Bitboard {
				dir, ok := s.God[opponent].AeolusDirection()
				if !ok {
					return mask
				}
				blocked, ok := board.DirectionTarget(worker, dir)
				if !ok {
					return mask
				}
				return mask &^ board.BitMask(blocked)
			},
		},
		ParseState: parseAeolusDirection,
		EmitState:  emitAeolusDirection,
	}
}

// --- Persephone: forces the opponent to climb if any climbing move
// exists. Persephone's own generation is plain Mortal; the forcing is
// implemented in GenerateForTurn (apply.go), whose callers pass
// MUST_CLIMB as true whenever the opponent's god is Persephone.

func persephoneDef() *GodDef {
	return &GodDef{Name: "persephone", ID: board.Persephone}
}

// --- Selene/Hippolyta: a female worker tracked in god-data. The precise
// gender-matchup rule is an open question in the distilled spec (not
// stated which opposing interactions it affects); both gods run the
// Mortal skeleton. FemaleWorker is read and written only through the FEN
// god-state; placement does not set it and no move rule reads it. See
// DESIGN.md Open Questions.

func seleneDef() *GodDef {
	return &GodDef{
		Name:       "selene",
		ID:         board.Selene,
		ParseState: femaleWorkerParse,
		EmitState:  femaleWorkerEmit,
	}
}

func hippolytaDef() *GodDef {
	return &GodDef{
		Name:       "hippolyta",
		ID:         board.Hippolyta,
		ParseState: femaleWorkerParse,
		EmitState:  femaleWorkerEmit,
	}
}

// --- Europa: a third "Talus" piece tracked in god-data. Full Talus
// movement/building rules are not specified in the distilled spec; Europa
// runs the Mortal skeleton for her two workers. See DESIGN.md Open
// Questions.

func europaDef() *GodDef {
	return &GodDef{
		Name:       "europa",
		ID:         board.Europa,
		WIP:        true,
		ParseState: europaParse,
		EmitState:  europaEmit,
	}
}

// --- Clio: placement ritual (coins + remaining-placement counter) rather
// than movement differences.

func clioDef() *GodDef {
	return &GodDef{
		Name:           "clio",
		ID:             board.Clio,
		PlacementStyle: PlacementClio,
		ParseState:     clioParse,
		EmitState:      clioEmit,
	}
}
