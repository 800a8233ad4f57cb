// Package god holds the registry of Santorini god powers: one value
// record of function pointers per god, looked up by a stable id or by
// case-insensitive name. There is no sub-typing here -- every god shares
// the same Move and State types, and a generic caller (move generation,
// search, the protocol driver) never needs to know which god it is
// talking to beyond dispatching through this record.
package god

import (
	"strings"

	"github.com/santorini-engine/core/pkg/board"
)

// Flags mirrors spec.md §4.E's compile-time FLAGS bit set. Go has no
// monomorphization-on-constant the way a template language does, so this
// stays a plain runtime bit set threaded through Generate and tested
// where each option applies, including inside the per-move loops.
type Flags uint8

const (
	MateOnly Flags = 1 << iota
	StopOnMate
	IncludeScore
	InteractWithKeySquares
)

func (f Flags) has(bit Flags) bool { return f&bit != 0 }

// PlacementStyle distinguishes the few gods whose initial worker
// placement differs from "choose any two empty squares" (Clio's
// coin-and-three-square ritual).
type PlacementStyle int

const (
	PlacementStandard PlacementStyle = iota
	PlacementClio
)

// GodDef is the per-god value record: a name, a registry id, a
// work-in-progress flag, the hooks that specialize the Mortal skeleton,
// and the small set of capability predicates and state codecs spec.md
// §4.C calls out individually. Holding them as struct fields rather than
// named methods is what makes this "a value record of function pointers"
// instead of a subtype hierarchy -- swapping a god means swapping a
// struct value, never a vtable lookup through an interface.
type GodDef struct {
	Name           string
	ID             board.GodID
	WIP            bool
	PlacementStyle PlacementStyle
	Hooks          Hooks

	// ParseState/EmitState (de)serialize the god's private GodData slice
	// for the FEN god-state bracket (spec.md §6.1).
	ParseState func(s string) (board.GodData, error)
	EmitState  func(d board.GodData) string
}

var registry [board.NumGods]*GodDef
var byName = map[string]*GodDef{}

func register(d *GodDef) {
	registry[d.ID] = d
	byName[strings.ToLower(d.Name)] = d
}

// ByID looks up a god by its registry id. Panics if the id was never
// registered -- registration happens in this package's init() for every
// constant in board.GodID, so an unregistered id is a build-time bug.
func ByID(id board.GodID) *GodDef {
	d := registry[id]
	if d == nil {
		panic("god: unregistered id " + id.String())
	}
	return d
}

// ByName looks up a god by name, case-insensitive.
func ByName(name string) (*GodDef, bool) {
	d, ok := byName[strings.ToLower(name)]
	return d, ok
}

// All returns every registered god, indexed by id.
func All() []*GodDef {
	out := make([]*GodDef, 0, len(registry))
	for _, d := range registry {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}
