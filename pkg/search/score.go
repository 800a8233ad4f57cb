package search

import "fmt"

// Score is a signed evaluation in the NNUE network's quantized output
// scale. Magnitudes beyond MateThreshold are not material judgments but
// mate distances, per spec.md §4.H ("scores outside ±9000 are treated as
// mate distances") -- the same convention the teacher's eval.Score gives
// chess mate scores, just renamed to this engine's units.
type Score int32

const (
	NegInfScore   Score = -(1 << 24)
	InfScore      Score = 1 << 24
	ZeroScore     Score = 0
	MateScore     Score = 100000
	MateThreshold Score = 9000
)

func (s Score) String() string {
	if s.IsMate() {
		return fmt.Sprintf("mate(%d)", s.MateIn())
	}
	return fmt.Sprintf("%d", int32(s))
}

// IsMate reports whether s encodes a forced mate rather than a material
// or positional judgment.
func (s Score) IsMate() bool {
	return s > MateThreshold || s < -MateThreshold
}

// MateIn returns the signed ply distance to mate: positive means the side
// to move wins in that many plies, negative means it loses. Only
// meaningful when IsMate is true.
func (s Score) MateIn() int {
	if s > 0 {
		return int(MateScore - s)
	}
	return -int(MateScore + s)
}

func (s Score) Negate() Score { return -s }

// IncrementMateDistance adds one ply of distance to a mate score as it
// bubbles up through a level of negamax recursion; non-mate scores pass
// through unchanged. Grounded on the teacher's eval.IncrementMateDistance
// technique (pkg/eval in the chess engine).
func IncrementMateDistance(s Score) Score {
	switch {
	case s > MateThreshold:
		return s - 1
	case s < -MateThreshold:
		return s + 1
	default:
		return s
	}
}

func MaxScore(a, b Score) Score {
	if a > b {
		return a
	}
	return b
}

func MinScore(a, b Score) Score {
	if a < b {
		return a
	}
	return b
}

func Crop(s Score) Score {
	switch {
	case s > InfScore:
		return InfScore
	case s < NegInfScore:
		return NegInfScore
	default:
		return s
	}
}
