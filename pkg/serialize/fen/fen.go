// Package fen reads and writes full game states in the text notation
// spec.md §6.1 defines: <heights>/<side>/<player1>/<player2>. Grounded on
// the teacher's pkg/board/fen package for the overall shape of a FEN
// codec (split into positional fields, a rune-at-a-time scan for the
// piece-placement-like field, symmetrical Parse/Emit entry points) while
// replacing chess's eight-field piece-placement grammar with Santorini's
// height grid and bracketed per-god state.
package fen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/santorini-engine/core/pkg/board"
	"github.com/santorini-engine/core/pkg/god"
)

// Parse decodes a FEN string into a fresh State. zt must be the same
// ZobristTable the caller uses for every other State in the process --
// State.Hash is only comparable across states built from the same table.
func Parse(s string, zt *board.ZobristTable) (*board.State, error) {
	fields := strings.SplitN(s, "/", 4)
	if len(fields) != 4 {
		return nil, fmt.Errorf("fen: expected 4 fields, got %d: %q", len(fields), s)
	}
	heightsField, sideField, p1Field, p2Field := fields[0], fields[1], fields[2], fields[3]

	heights, err := parseHeights(heightsField)
	if err != nil {
		return nil, err
	}

	side, err := parseSide(sideField)
	if err != nil {
		return nil, err
	}

	p1, err := parsePlayerField(p1Field)
	if err != nil {
		return nil, err
	}
	p2, err := parsePlayerField(p2Field)
	if err != nil {
		return nil, err
	}

	if dup, ok := duplicateSquare(p1.squares); ok {
		return nil, fmt.Errorf("fen: player 1 lists square %v twice", dup)
	}
	if dup, ok := duplicateSquare(p2.squares); ok {
		return nil, fmt.Errorf("fen: player 2 lists square %v twice", dup)
	}
	if dup, ok := sharedSquare(p1.squares, p2.squares); ok {
		return nil, fmt.Errorf("fen: duplicate worker square %v", dup)
	}

	def1, ok := god.ByName(p1.godName)
	if !ok {
		return nil, fmt.Errorf("fen: unknown god %q", p1.godName)
	}
	def2, ok := god.ByName(p2.godName)
	if !ok {
		return nil, fmt.Errorf("fen: unknown god %q", p2.godName)
	}

	state := board.NewState(zt, def1.ID, def2.ID)
	state.SetHeights(heights)

	data1, err := decodeGodData(def1, p1)
	if err != nil {
		return nil, fmt.Errorf("fen: player 1: %w", err)
	}
	data2, err := decodeGodData(def2, p2)
	if err != nil {
		return nil, fmt.Errorf("fen: player 2: %w", err)
	}

	state.ApplyWorkerXor(0, squareMask(p1.squares))
	state.ApplyWorkerXor(1, squareMask(p2.squares))
	state.SetGodData(0, data1)
	state.SetGodData(1, data2)
	state.ToMove = side

	if p1.won && p2.won {
		return nil, fmt.Errorf("fen: both players marked as winner")
	}
	if p1.won {
		state.SetWinner(0)
	}
	if p2.won {
		state.SetWinner(1)
	}

	state.Rehash()
	return state, nil
}

// Emit renders s in the same notation Parse accepts. Worker squares are
// emitted in ascending order, so round-tripping a state built with
// workers XORed on in a different order than they were typed still
// produces a stable string (spec.md §8 property 10, "modulo
// canonicalization of worker ordering").
func Emit(s *board.State) string {
	var sb strings.Builder
	sb.WriteString(emitHeights(s))
	sb.WriteByte('/')
	sb.WriteString(strconv.Itoa(s.ToMove + 1))
	sb.WriteByte('/')
	sb.WriteString(emitPlayerField(s, 0))
	sb.WriteByte('/')
	sb.WriteString(emitPlayerField(s, 1))
	return sb.String()
}

func parseHeights(field string) (board.HeightMap, error) {
	var hm board.HeightMap
	digits := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, field)
	if len(digits) != int(board.NumSquares) {
		return hm, fmt.Errorf("fen: expected %d height digits, got %d: %q", board.NumSquares, len(digits), field)
	}
	for i, r := range digits {
		if r < '0' || r > '4' {
			return hm, fmt.Errorf("fen: invalid height digit %q", r)
		}
		level := int(r - '0')
		sq := board.Square(i)
		for l := 0; l < level; l++ {
			hm[l] |= board.BitMask(sq)
		}
	}
	return hm, nil
}

// emitHeights always produces the dense 25-digit form with no separating
// whitespace -- Parse accepts whitespace between rows for readability, but
// Emit picks the one canonical rendering so FEN round-trips are stable.
func emitHeights(s *board.State) string {
	var sb strings.Builder
	for sq := board.Square(0); sq < board.NumSquares; sq++ {
		sb.WriteByte(byte('0' + s.Height(sq)))
	}
	return sb.String()
}

func parseSide(field string) (int, error) {
	switch field {
	case "1":
		return 0, nil
	case "2":
		return 1, nil
	default:
		return 0, fmt.Errorf("fen: invalid side %q", field)
	}
}

// playerField is the decoded shape of one `<god>[#][[<state>]]:<squares>`
// field, before the god name has been resolved against the registry.
type playerField struct {
	godName  string
	won      bool
	hasState bool
	state    string
	squares  []board.Square
}

func parsePlayerField(field string) (playerField, error) {
	var pf playerField

	parts := strings.SplitN(field, ":", 2)
	if len(parts) != 2 {
		return pf, fmt.Errorf("fen: player field missing ':': %q", field)
	}
	head, squaresStr := parts[0], parts[1]

	switch {
	case strings.IndexByte(head, '#') >= 0:
		idx := strings.IndexByte(head, '#')
		pf.godName = head[:idx]
		pf.won = true
		if rest := head[idx+1:]; rest != "" {
			state, err := parseBracket(rest)
			if err != nil {
				return pf, err
			}
			pf.hasState, pf.state = true, state
		}
	case strings.IndexByte(head, '[') >= 0:
		idx := strings.IndexByte(head, '[')
		pf.godName = head[:idx]
		state, err := parseBracket(head[idx:])
		if err != nil {
			return pf, err
		}
		pf.hasState, pf.state = true, state
	default:
		pf.godName = head
	}
	if pf.godName == "" {
		return pf, fmt.Errorf("fen: empty god name in %q", field)
	}

	if squaresStr != "" {
		for _, tok := range strings.Split(squaresStr, ",") {
			sq, err := board.ParseSquareStr(tok)
			if err != nil {
				return pf, fmt.Errorf("fen: %w", err)
			}
			pf.squares = append(pf.squares, sq)
		}
	}
	return pf, nil
}

func parseBracket(s string) (string, error) {
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return "", fmt.Errorf("fen: malformed god-state bracket %q", s)
	}
	return s[1 : len(s)-1], nil
}

func decodeGodData(def *god.GodDef, pf playerField) (board.GodData, error) {
	if def.ParseState == nil {
		return board.NewGodData(), nil
	}
	return def.ParseState(pf.state)
}

func emitPlayerField(s *board.State, player int) string {
	def := god.ByID(s.GodID[player])

	var sb strings.Builder
	sb.WriteString(def.Name)
	if s.Winner() == player+1 {
		sb.WriteByte('#')
	}
	if def.EmitState != nil {
		sb.WriteByte('[')
		sb.WriteString(def.EmitState(s.God[player]))
		sb.WriteByte(']')
	}
	sb.WriteByte(':')

	squares := s.Workers[player].ToSquares()
	names := make([]string, len(squares))
	for i, sq := range squares {
		names[i] = sq.String()
	}
	sb.WriteString(strings.Join(names, ","))
	return sb.String()
}

func squareMask(squares []board.Square) board.Bitboard {
	var mask board.Bitboard
	for _, sq := range squares {
		mask |= board.BitMask(sq)
	}
	return mask
}

func duplicateSquare(squares []board.Square) (board.Square, bool) {
	seen := make(map[board.Square]bool, len(squares))
	for _, sq := range squares {
		if seen[sq] {
			return sq, true
		}
		seen[sq] = true
	}
	return 0, false
}

func sharedSquare(a, b []board.Square) (board.Square, bool) {
	seen := make(map[board.Square]bool, len(a))
	for _, sq := range a {
		seen[sq] = true
	}
	for _, sq := range b {
		if seen[sq] {
			return sq, true
		}
	}
	return 0, false
}
