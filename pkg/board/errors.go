package board

import "fmt"

// InvalidState reports a board-state invariant violation: a generator
// asked for a mutation which cannot hold (building past a dome, toggling
// a worker bit that collides with an existing one, and so on). Generators
// must never produce moves that trigger this; its presence at runtime is
// a bug in a generator, not an expected outcome of ordinary play.
type InvalidState struct {
	Op     string
	Square Square
	Reason string
}

func (e *InvalidState) Error() string {
	return fmt.Sprintf("invalid state: %v at %v: %v", e.Op, e.Square, e.Reason)
}

func newInvalidState(op string, sq Square, reason string) *InvalidState {
	return &InvalidState{Op: op, Square: sq, Reason: reason}
}
