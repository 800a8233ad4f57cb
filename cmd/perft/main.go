// perft is a move-generation debugging tool: it counts leaf nodes of the
// real generator at increasing depth from a starting position, the same
// exhaustive-count discipline chess engines use to catch generator bugs
// (spec.md §8 property 3, "move-gen consistency"). Grounded on the
// teacher's cmd/perft/main.go almost verbatim -- same flag set, same
// depth-loop-then-print shape -- generalized from pos.PseudoLegalMoves
// over a chess.Position to god.GenerateForTurn over a board.State.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/santorini-engine/core/pkg/board"
	"github.com/santorini-engine/core/pkg/god"
	"github.com/santorini-engine/core/pkg/serialize/fen"
	"github.com/seekerror/logw"
)

const defaultFEN = "0000000000000000000000000/1/mortal:A5,E5/mortal:A1,E1"

var (
	depth    = flag.Int("depth", 4, "Search depth")
	position = flag.String("fen", "", "Start position (default to a standard mortal-vs-mortal matchup)")
	divide   = flag.Bool("divide", false, "Print per-move subtree counts at the final depth")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	if *position == "" {
		*position = defaultFEN
	}

	zt := board.NewZobristTable(0)
	state, err := fen.Parse(*position, zt)
	if err != nil {
		logw.Exitf(ctx, "Invalid fen %q: %v", *position, err)
	}

	for i := 1; i <= *depth; i++ {
		start := time.Now()
		nodes := search(state, i, *divide && i == *depth)
		duration := time.Since(start)

		fmt.Printf("perft,%v,%v,%v,%v\n", *position, i, nodes, duration.Microseconds())
	}
}

func search(s *board.State, depth int, d bool) int64 {
	if depth == 0 {
		return 1
	}
	if s.IsTerminal() {
		return 1
	}

	player := s.ToMove
	self := god.ByID(s.GodID[player])
	opponent := god.ByID(s.GodID[board.Opponent(player)])
	mustClimb := opponent.ID == board.Persephone

	var nodes int64
	for _, sm := range god.GenerateForTurn(self, opponent, s, player, mustClimb, board.EmptyBitboard, 0) {
		snapshot := god.MakeMove(self, s, player, sm.Move)
		count := search(s, depth-1, false)
		god.UnmakeMove(s, snapshot)

		if d {
			fmt.Printf("%v: %v\n", sm.Move, count)
		}
		nodes += count
	}
	return nodes
}
