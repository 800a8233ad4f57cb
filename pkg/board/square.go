// Package board contains the Santorini board representation and bit-wise
// square algebra: squares, bitboards, height maps, workers and god data.
package board

import "fmt"

// Square represents one of the 25 positions on the 5x5 grid, laid out
// row-major from the top-left: A5, B5, ..., E5, A4, ..., E1. Index 0-24;
// the bit index in a Bitboard equals the square index.
type Square uint8

const (
	A5 Square = iota
	B5
	C5
	D5
	E5
	A4
	B4
	C4
	D4
	E4
	A3
	B3
	C3
	D3
	E3
	A2
	B2
	C2
	D2
	E2
	A1
	B1
	C1
	D1
	E1
)

const (
	ZeroSquare Square = 0
	NumSquares Square = 25
	BoardSide  int    = 5
)

// File represents a board column, FileA=0 .. FileE=4.
type File uint8

// Rank represents a board row, Rank1=0 .. Rank5=4 (bottom to top).
type Rank uint8

const (
	FileA File = iota
	FileB
	FileC
	FileD
	FileE
)

const (
	Rank1 Rank = iota
	Rank2
	Rank3
	Rank4
	Rank5
)

// NewSquare returns the square for the given file and rank.
func NewSquare(f File, r Rank) Square {
	row := Rank(BoardSide-1) - r // row 0 is Rank5 (top)
	return Square(int(row)*BoardSide + int(f))
}

func (s Square) IsValid() bool {
	return s < NumSquares
}

func (s Square) File() File {
	return File(int(s) % BoardSide)
}

func (s Square) Rank() Rank {
	row := int(s) / BoardSide
	return Rank(BoardSide - 1 - row)
}

func (f File) String() string {
	return string(rune('A' + int(f)))
}

func (r Rank) String() string {
	return fmt.Sprintf("%d", int(r)+1)
}

func (s Square) String() string {
	return fmt.Sprintf("%v%v", s.File(), s.Rank())
}

// ParseFile parses a file letter 'A'..'E' (case-insensitive).
func ParseFile(r rune) (File, bool) {
	switch r {
	case 'a', 'A':
		return FileA, true
	case 'b', 'B':
		return FileB, true
	case 'c', 'C':
		return FileC, true
	case 'd', 'D':
		return FileD, true
	case 'e', 'E':
		return FileE, true
	default:
		return 0, false
	}
}

// ParseRank parses a rank digit '1'..'5'.
func ParseRank(r rune) (Rank, bool) {
	switch r {
	case '1':
		return Rank1, true
	case '2':
		return Rank2, true
	case '3':
		return Rank3, true
	case '4':
		return Rank4, true
	case '5':
		return Rank5, true
	default:
		return 0, false
	}
}

// ParseSquare parses a square from its file/rank runes, e.g. 'A','5'.
func ParseSquare(f, r rune) (Square, error) {
	file, ok := ParseFile(f)
	if !ok {
		return 0, fmt.Errorf("invalid file: %q", f)
	}
	rank, ok := ParseRank(r)
	if !ok {
		return 0, fmt.Errorf("invalid rank: %q", r)
	}
	return NewSquare(file, rank), nil
}

// ParseSquareStr parses a square from a two-character string, e.g. "A5".
func ParseSquareStr(str string) (Square, error) {
	runes := []rune(str)
	if len(runes) != 2 {
		return 0, fmt.Errorf("invalid square: %q", str)
	}
	return ParseSquare(runes[0], runes[1])
}
