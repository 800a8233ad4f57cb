package board

// Direction indexes one of the 8 compass directions, used by Aeolus (wind
// block) and Minotaur (push vector).
type Direction uint8

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
	NumDirections
)

var directionNames = [NumDirections]string{"n", "ne", "e", "se", "s", "sw", "w", "nw"}

func (d Direction) String() string {
	if d >= NumDirections {
		return ""
	}
	return directionNames[d]
}

// ParseDirection parses one of "n","ne","e","se","s","sw","w","nw", or ""
// for "no direction". Returns ok=false only on an unrecognized token.
func ParseDirection(s string) (Direction, bool, bool) {
	if s == "" {
		return 0, false, true
	}
	for d, name := range directionNames {
		if name == s {
			return Direction(d), true, true
		}
	}
	return 0, false, false
}

var directionDelta = [NumDirections][2]int{
	{0, 1},   // N
	{1, 1},   // NE
	{1, 0},   // E
	{1, -1},  // SE
	{0, -1},  // S
	{-1, -1}, // SW
	{-1, 0},  // W
	{-1, 1},  // NW
}

// NEIGHBORS[s] is the up-to-8 king-move neighbors of s, masked to the board.
var NEIGHBORS [NumSquares]Bitboard

// INCLUSIVE_NEIGHBORS[s] is NEIGHBORS[s] union {s}.
var INCLUSIVE_NEIGHBORS [NumSquares]Bitboard

// directionTarget[s][d] is the square reached stepping from s in direction
// d, or NumSquares if that step falls off the board.
var directionTarget [NumSquares][NumDirections]Square

// EdgeMask is the set of squares on the outer ring of the board.
var EdgeMask Bitboard

// CornerMask is the set of the four corner squares.
var CornerMask Bitboard

func init() {
	for sq := ZeroSquare; sq < NumSquares; sq++ {
		f, r := int(sq.File()), int(sq.Rank())

		var mask Bitboard
		for d := Direction(0); d < NumDirections; d++ {
			df, dr := directionDelta[d][0], directionDelta[d][1]
			nf, nr := f+df, r+dr

			if nf < 0 || nf >= BoardSide || nr < 0 || nr >= BoardSide {
				directionTarget[sq][d] = NumSquares
				continue
			}
			target := NewSquare(File(nf), Rank(nr))
			directionTarget[sq][d] = target
			mask |= BitMask(target)
		}
		NEIGHBORS[sq] = mask
		INCLUSIVE_NEIGHBORS[sq] = mask | BitMask(sq)

		if f == 0 || f == BoardSide-1 || r == 0 || r == BoardSide-1 {
			EdgeMask |= BitMask(sq)
		}
		if (f == 0 || f == BoardSide-1) && (r == 0 || r == BoardSide-1) {
			CornerMask |= BitMask(sq)
		}
	}
}

// DirectionTarget returns the square reached stepping from sq in direction
// d, and whether that step stays on the board.
func DirectionTarget(sq Square, d Direction) (Square, bool) {
	t := directionTarget[sq][d]
	return t, t != NumSquares
}

// DirectionBetween returns the compass direction from `from` to the
// adjacent square `to`, if they are king-move neighbors.
func DirectionBetween(from, to Square) (Direction, bool) {
	for d := Direction(0); d < NumDirections; d++ {
		if t, ok := DirectionTarget(from, d); ok && t == to {
			return d, true
		}
	}
	return 0, false
}
