package god

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/santorini-engine/core/pkg/board"
)

// ParseState/EmitState implementations for the gods whose FEN player
// field carries a bracketed state suffix (spec.md §6.1): Athena's climbed
// flag, Morpheus's stored-build count, Aeolus's blocked direction, Clio's
// placement ritual, Europa's Talus square, Selene/Hippolyta's female
// worker. Gods with no private state simply leave GodDef.ParseState/
// EmitState nil; the FEN codec (pkg/serialize/fen) treats that as "no
// bracket".

func parseClimbed(s string) (board.GodData, error) {
	var d board.GodData
	switch s {
	case "", "-":
		return d.WithClimbed(false), nil
	case "^":
		return d.WithClimbed(true), nil
	default:
		return d, fmt.Errorf("god: invalid athena state %q", s)
	}
}

func emitClimbed(d board.GodData) string {
	if d.Climbed() {
		return "^"
	}
	return ""
}

func parseMorpheusBuilds(s string) (board.GodData, error) {
	var d board.GodData
	if s == "" {
		return d, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d, fmt.Errorf("god: invalid morpheus state %q: %w", s, err)
	}
	return d.WithMorpheusBuilds(n), nil
}

func emitMorpheusBuilds(d board.GodData) string {
	return strconv.Itoa(d.MorpheusBuilds())
}

func parseAeolusDirection(s string) (board.GodData, error) {
	var d board.GodData
	dir, set, ok := board.ParseDirection(s)
	if !ok {
		return d, fmt.Errorf("god: invalid aeolus direction %q", s)
	}
	return d.WithAeolusDirection(dir, set), nil
}

func emitAeolusDirection(d board.GodData) string {
	dir, ok := d.AeolusDirection()
	if !ok {
		return ""
	}
	return dir.String()
}

func parseSquareState(set func(board.GodData, board.Square, bool) board.GodData) func(string) (board.GodData, error) {
	return func(s string) (board.GodData, error) {
		var d board.GodData
		if s == "" || s == "-" {
			return set(d, 0, false), nil
		}
		sq, err := board.ParseSquareStr(s)
		if err != nil {
			return d, err
		}
		return set(d, sq, true), nil
	}
}

func europaParse(s string) (board.GodData, error) {
	return parseSquareState(board.GodData.WithEuropaTalus)(s)
}

func europaEmit(d board.GodData) string {
	sq, ok := d.EuropaTalus()
	if !ok {
		return ""
	}
	return sq.String()
}

func femaleWorkerParse(s string) (board.GodData, error) {
	return parseSquareState(board.GodData.WithFemaleWorker)(s)
}

func femaleWorkerEmit(d board.GodData) string {
	sq, ok := d.FemaleWorker()
	if !ok {
		return ""
	}
	return sq.String()
}

// clioParse handles "<n>|<sq1>,<sq2>", with either side of the pipe
// optional: "2", "2|", "2|A5,B5", "|A5,B5".
func clioParse(s string) (board.GodData, error) {
	var d board.GodData
	parts := strings.SplitN(s, "|", 2)
	if parts[0] != "" {
		n, err := strconv.Atoi(parts[0])
		if err != nil {
			return d, fmt.Errorf("god: invalid clio remaining %q: %w", parts[0], err)
		}
		d = d.WithClioRemaining(n)
	}
	d = d.WithClioCoin1(0, false)
	d = d.WithClioCoin2(0, false)
	if len(parts) == 2 && parts[1] != "" {
		coins := strings.Split(parts[1], ",")
		if len(coins) > 0 && coins[0] != "" {
			sq, err := board.ParseSquareStr(coins[0])
			if err != nil {
				return d, err
			}
			d = d.WithClioCoin1(sq, true)
		}
		if len(coins) > 1 && coins[1] != "" {
			sq, err := board.ParseSquareStr(coins[1])
			if err != nil {
				return d, err
			}
			d = d.WithClioCoin2(sq, true)
		}
	}
	return d, nil
}

func clioEmit(d board.GodData) string {
	sq1, sq2, ok1, ok2 := d.ClioCoins()
	var coins []string
	if ok1 {
		coins = append(coins, sq1.String())
	}
	if ok2 {
		coins = append(coins, sq2.String())
	}
	return fmt.Sprintf("%d|%s", d.ClioRemaining(), strings.Join(coins, ","))
}
