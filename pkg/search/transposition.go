package search

import (
	"fmt"
	"math/bits"
	"sync/atomic"
	"unsafe"

	"github.com/santorini-engine/core/pkg/board"
)

// Bound records how a stored score relates to the true value of the node,
// per spec.md §4.G's "node type" field.
type Bound uint8

const (
	ExactBound Bound = iota
	LowerBound
	UpperBound
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "Exact"
	case LowerBound:
		return "Lower"
	case UpperBound:
		return "Upper"
	default:
		return "?"
	}
}

// TranspositionTable caches search results keyed by Zobrist hash. Must be
// thread-safe: the background controller may probe it while the I/O
// thread reads Used() for diagnostics.
type TranspositionTable interface {
	// Read returns the bound, depth, score and best move for hash, if a
	// verified entry is present.
	Read(hash board.ZobristHash) (Bound, int, Score, board.Move, bool)
	// Write stores an entry, subject to the table's replacement policy.
	// age identifies the current search generation (spec.md §4.G).
	Write(hash board.ZobristHash, bound Bound, depth int, score Score, move board.Move, age uint8) bool

	Size() uint64
	Used() float64
}

// entry is one slot (budgeted at 40 bytes by NewTranspositionTable and
// Size); stored and swapped atomically as a
// pointer, grounded on the teacher's pkg/search/transposition.go
// unsafe.Pointer+CompareAndSwapPointer technique.
type entry struct {
	hash  board.ZobristHash
	move  board.Move
	score Score
	depth int16
	bound Bound
	age   uint8
}

type table struct {
	slots []*entry
	mask  uint64
	used  uint64
}

// NewTranspositionTable allocates a power-of-two-sized table that fits
// within size bytes.
func NewTranspositionTable(size uint64) TranspositionTable {
	const slotBytes = 40
	n := uint64(1)
	if size > slotBytes {
		shift := 63 - bits.LeadingZeros64(size/slotBytes)
		n = uint64(1) << uint(shift)
	}
	return &table{
		slots: make([]*entry, n),
		mask:  n - 1,
	}
}

func (t *table) Size() uint64 {
	return uint64(len(t.slots)) * 40
}

func (t *table) Used() float64 {
	return float64(t.used) / float64(len(t.slots))
}

func (t *table) Read(hash board.ZobristHash) (Bound, int, Score, board.Move, bool) {
	key := uint64(hash) & t.mask
	addr := (*unsafe.Pointer)(unsafe.Pointer(&t.slots[key]))
	ptr := (*entry)(atomic.LoadPointer(addr))
	if ptr != nil && ptr.hash == hash {
		return ptr.bound, int(ptr.depth), ptr.score, ptr.move, true
	}
	return ExactBound, 0, ZeroScore, board.Move(0), false
}

func (t *table) Write(hash board.ZobristHash, bound Bound, depth int, score Score, move board.Move, age uint8) bool {
	key := uint64(hash) & t.mask
	addr := (*unsafe.Pointer)(unsafe.Pointer(&t.slots[key]))

	fresh := &entry{hash: hash, move: move, score: score, depth: int16(depth), bound: bound, age: age}

	for {
		ptr := (*entry)(atomic.LoadPointer(addr))
		// Replacement policy (spec.md §4.G): always replace if the
		// incoming depth is at least the existing depth, or if the
		// existing entry's age no longer matches the current search.
		if ptr != nil && ptr.age == age && fresh.depth < ptr.depth {
			return false
		}
		if atomic.CompareAndSwapPointer(addr, unsafe.Pointer(ptr), unsafe.Pointer(fresh)) {
			if ptr == nil {
				t.used++
			}
			return true
		}
	}
}

func (t *table) String() string {
	return fmt.Sprintf("TT[%vB @ %d%%]", t.Size(), int(100*t.Used()))
}

// NoTranspositionTable is a Nop implementation, useful for perft-style
// move-gen consistency checks that must not share cache state.
type NoTranspositionTable struct{}

func (NoTranspositionTable) Read(board.ZobristHash) (Bound, int, Score, board.Move, bool) {
	return ExactBound, 0, ZeroScore, board.Move(0), false
}

func (NoTranspositionTable) Write(board.ZobristHash, Bound, int, Score, board.Move, uint8) bool {
	return false
}

func (NoTranspositionTable) Size() uint64    { return 0 }
func (NoTranspositionTable) Used() float64   { return 0 }
