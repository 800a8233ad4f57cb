// Package nnue implements the efficiently-updatable evaluator: a sparse
// binary input layer (worker occupancy, tower height, per-god scalar
// state), an incrementally maintained accumulator, and a quantized
// clipped-ReLU forward pass, grounded on the feature-index/accumulator
// technique in hailam-chessplay's sfnnue package (other_examples).
package nnue

import "github.com/santorini-engine/core/pkg/board"

const (
	featOwnWorker = board.NumSquares            // 25: "my" worker occupies this square
	featOppWorker = board.NumSquares            // 25: "their" worker occupies this square
	featHeight    = board.NumSquares * 5         // 25*5: this square is at height L (0..4)
	featBase      = int(featOwnWorker + featOppWorker + featHeight)
)

// godFeatureSize gives each god a fixed slot count in the per-perspective
// feature vector (spec.md §4.F's `god_name_to_nnue_size` table). Gods
// with no private state contributing to evaluation get zero slots.
var godFeatureSize = [board.NumGods]int{
	board.Athena:     1,  // climbed flag
	board.Morpheus:   16, // stored-builds count (0-15) one-hot
	board.Aeolus:     9,  // blocked direction one-hot (8) + "none"
	board.Clio:       4,  // remaining-placements (0-3) one-hot
	board.Europa:     int(board.NumSquares) + 1, // talus square one-hot + "none"
	board.Selene:     int(board.NumSquares) + 1, // female-worker square one-hot + "none"
	board.Hippolyta:  int(board.NumSquares) + 1,
}

var godFeatureOffset [board.NumGods]int

func init() {
	off := 0
	for id := board.GodID(0); id < board.NumGods; id++ {
		godFeatureOffset[id] = off
		off += godFeatureSize[id]
	}
}

// TotalGodFeatures is the combined width of every god's scalar slot
// range, appended after the worker/height features in each perspective.
var TotalGodFeatures = func() int {
	total := 0
	for _, n := range godFeatureSize {
		total += n
	}
	return total
}()

// InputDim is the per-perspective feature count; the network's actual
// input layer is 2*InputDim wide (side-to-move half, other-side half).
var InputDim = featBase + TotalGodFeatures

func ownWorkerIndex(sq board.Square) int { return int(sq) }
func oppWorkerIndex(sq board.Square) int { return int(board.NumSquares) + int(sq) }
func heightIndex(sq board.Square, level int) int {
	return int(board.NumSquares)*2 + int(sq)*5 + level
}
func godIndex(id board.GodID, slot int) int { return featBase + godFeatureOffset[id] + slot }

// ActiveIndices returns the set feature indices for perspective `me`
// (0 or 1, an absolute player index -- "own"/"other" is resolved inside
// by treating `me` as the owning perspective).
func ActiveIndices(s *board.State, me int) []int {
	other := board.Opponent(me)
	var idx []int

	for wb := s.Workers[me]; wb != 0; {
		sq := wb.LastPopSquare()
		wb ^= board.BitMask(sq)
		idx = append(idx, ownWorkerIndex(sq))
	}
	for wb := s.Workers[other]; wb != 0; {
		sq := wb.LastPopSquare()
		wb ^= board.BitMask(sq)
		idx = append(idx, oppWorkerIndex(sq))
	}
	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		idx = append(idx, heightIndex(sq, s.Height(sq)))
	}
	idx = append(idx, godScalarIndices(s.GodID[me], s.God[me])...)
	return idx
}

func godScalarIndices(id board.GodID, d board.GodData) []int {
	n := godFeatureSize[id]
	if n == 0 {
		return nil
	}
	switch id {
	case board.Athena:
		if d.Climbed() {
			return []int{godIndex(id, 0)}
		}
		return nil
	case board.Morpheus:
		slot := d.MorpheusBuilds()
		if slot >= n {
			slot = n - 1
		}
		return []int{godIndex(id, slot)}
	case board.Aeolus:
		if dir, ok := d.AeolusDirection(); ok {
			return []int{godIndex(id, int(dir))}
		}
		return []int{godIndex(id, 8)}
	case board.Clio:
		slot := d.ClioRemaining()
		if slot >= n {
			slot = n - 1
		}
		return []int{godIndex(id, slot)}
	case board.Europa:
		if sq, ok := d.EuropaTalus(); ok {
			return []int{godIndex(id, int(sq))}
		}
		return []int{godIndex(id, n-1)}
	case board.Selene, board.Hippolyta:
		if sq, ok := d.FemaleWorker(); ok {
			return []int{godIndex(id, int(sq))}
		}
		return []int{godIndex(id, n-1)}
	default:
		return nil
	}
}
