package board

// GodData is a per-player 32-bit word holding private state for whichever
// god the player is assigned. Different gods interpret disjoint bit ranges
// of the same word -- a union, not a struct -- because a given player is
// assigned exactly one god for the life of the game (see Full game state,
// spec.md §3).
//
// Layout:
//
//	bit   0       : climbed flag               (Athena, Nike)
//	bits  1-3     : blocked direction (0-7)     (Aeolus)
//	bit   4       : blocked direction valid     (Aeolus)
//	bits  5-8     : stored builds (0-15)        (Morpheus)
//	bits  9-10    : remaining placements (0-3)  (Clio)
//	bits  11-15   : coin square 1 (31 = none)   (Clio)
//	bits  16-20   : coin square 2 (31 = none)   (Clio)
//	bits  21-25   : Talus square (31 = none)    (Europa)
//	bits  26-30   : female worker square        (Selene, Hippolyta)
//	bit   31      : reserved
type GodData uint32

const noSquare5 = 31 // sentinel for "no square" in a 5-bit field

func getBits(d GodData, shift, width uint) uint32 {
	return uint32(d>>shift) & ((1 << width) - 1)
}

func setBits(d GodData, shift, width uint, v uint32) GodData {
	mask := GodData(((1 << width) - 1) << shift)
	return (d &^ mask) | (GodData(v<<shift) & mask)
}

// Climbed reports whether the Athena/Nike climbed flag is set.
func (d GodData) Climbed() bool {
	return d&1 != 0
}

func (d GodData) WithClimbed(climbed bool) GodData {
	if climbed {
		return d | 1
	}
	return d &^ 1
}

// AeolusDirection returns the compass direction Aeolus has blocked for the
// opponent, if any.
func (d GodData) AeolusDirection() (Direction, bool) {
	if getBits(d, 4, 1) == 0 {
		return 0, false
	}
	return Direction(getBits(d, 1, 3)), true
}

func (d GodData) WithAeolusDirection(dir Direction, set bool) GodData {
	d = setBits(d, 1, 3, uint32(dir))
	if set {
		return setBits(d, 4, 1, 1)
	}
	return setBits(d, 4, 1, 0)
}

// MorpheusBuilds returns the number of builds Morpheus has stored up.
func (d GodData) MorpheusBuilds() int {
	return int(getBits(d, 5, 4))
}

func (d GodData) WithMorpheusBuilds(n int) GodData {
	if n < 0 {
		n = 0
	}
	if n > 15 {
		n = 15
	}
	return setBits(d, 5, 4, uint32(n))
}

// ClioRemaining returns the number of placements Clio has left during the
// placement phase (0-3).
func (d GodData) ClioRemaining() int {
	return int(getBits(d, 9, 2))
}

func (d GodData) WithClioRemaining(n int) GodData {
	return setBits(d, 9, 2, uint32(n))
}

// ClioCoins returns Clio's coin squares, if placed.
func (d GodData) ClioCoins() (sq1, sq2 Square, ok1, ok2 bool) {
	v1, v2 := getBits(d, 11, 5), getBits(d, 16, 5)
	return Square(v1), Square(v2), v1 != noSquare5, v2 != noSquare5
}

func (d GodData) WithClioCoin1(sq Square, set bool) GodData {
	v := uint32(noSquare5)
	if set {
		v = uint32(sq)
	}
	return setBits(d, 11, 5, v)
}

func (d GodData) WithClioCoin2(sq Square, set bool) GodData {
	v := uint32(noSquare5)
	if set {
		v = uint32(sq)
	}
	return setBits(d, 16, 5, v)
}

// EuropaTalus returns the square of Europa's Talus piece, if placed.
func (d GodData) EuropaTalus() (Square, bool) {
	v := getBits(d, 21, 5)
	return Square(v), v != noSquare5
}

func (d GodData) WithEuropaTalus(sq Square, set bool) GodData {
	v := uint32(noSquare5)
	if set {
		v = uint32(sq)
	}
	return setBits(d, 21, 5, v)
}

// FemaleWorker returns the square of the identified female worker, for
// Selene/Hippolyta.
func (d GodData) FemaleWorker() (Square, bool) {
	v := getBits(d, 26, 5)
	return Square(v), v != noSquare5
}

func (d GodData) WithFemaleWorker(sq Square, set bool) GodData {
	v := uint32(noSquare5)
	if set {
		v = uint32(sq)
	}
	return setBits(d, 26, 5, v)
}

// NewGodData returns an empty god-data word with every square field
// (Talus, female worker, both Clio coins) set to its "no square"
// sentinel. The zero GodData value is not equivalent: its square fields
// all read as A5.
func NewGodData() GodData {
	var d GodData
	d = d.WithEuropaTalus(0, false)
	d = d.WithFemaleWorker(0, false)
	d = d.WithClioCoin1(0, false)
	d = d.WithClioCoin2(0, false)
	return d
}
