package god

import "github.com/santorini-engine/core/pkg/board"

// ActionType enumerates the atomic UI actions spec.md §4.D/§6.2 names.
type ActionType string

const (
	ActionSelectWorker       ActionType = "select_worker"
	ActionPlaceWorker        ActionType = "place_worker"
	ActionMoveWorker         ActionType = "move_worker"
	ActionBuild              ActionType = "build"
	ActionDome               ActionType = "dome"
	ActionDestroy            ActionType = "destroy"
	ActionSetTalusPosition   ActionType = "set_talus_position"
	ActionSetFemaleWorker    ActionType = "set_female_worker"
	ActionForceOpponent      ActionType = "force_opponent_worker"
	ActionSetWindDirection   ActionType = "set_wind_direction"
	ActionEndTurn            ActionType = "end_turn"
	ActionNoMoves            ActionType = "no_moves"
)

// Action is one atomic step of a move's action script. Value is a square
// for most types, a [from,to] pair for force_opponent_worker, and a
// direction name (or nil) for set_wind_direction.
type Action struct {
	Type  ActionType  `json:"type"`
	Value interface{} `json:"value,omitempty"`
}

// ToActionScript expands a packed Move into the sequence of atomic
// actions a UI replays to animate it (spec.md §4.D). It does not affect
// search; it exists only for the wire protocol's `actions`/`action_str`
// fields.
func ToActionScript(def *GodDef, s *board.State, player int, mv board.Move) []Action {
	from, to, build := mv.From(), mv.To(), mv.Build()

	var actions []Action
	actions = append(actions, Action{Type: ActionSelectWorker, Value: from})

	if pre, ok := PreBuildSquare(mv); def.ID == board.Prometheus && ok {
		actions = append(actions, Action{Type: ActionBuild, Value: pre})
	}

	actions = append(actions, Action{Type: ActionMoveWorker, Value: to})

	switch def.ID {
	case board.Apollo:
		if IsApolloSwap(mv) && s.Workers[board.Opponent(player)].IsSet(to) {
			actions = append(actions, Action{Type: ActionForceOpponent, Value: [2]board.Square{to, from}})
		}
	case board.Minotaur:
		if s.Workers[board.Opponent(player)].IsSet(to) {
			landing := MinotaurLanding(mv)
			actions = append(actions, Action{Type: ActionForceOpponent, Value: [2]board.Square{to, landing}})
		}
	}

	if mv.IsWinning() {
		actions = append(actions, Action{Type: ActionEndTurn})
		return actions
	}

	if def.ID == board.Atlas && IsAtlasDome(mv) {
		actions = append(actions, Action{Type: ActionDome, Value: build})
	} else {
		actions = append(actions, Action{Type: ActionBuild, Value: build})
	}

	if sq, ok := SecondBuildSquare(mv); ok {
		if def.ID == board.Hephaestus && sq == build {
			actions = append(actions, Action{Type: ActionBuild, Value: sq})
		} else if def.ID == board.Demeter {
			actions = append(actions, Action{Type: ActionBuild, Value: sq})
		}
	}

	actions = append(actions, Action{Type: ActionEndTurn})
	return actions
}

// NoMovesScript is the action script emitted when a player has no legal
// moves (spec.md §7, "Illegal input" and §6.2's `no_moves` action).
func NoMovesScript() []Action {
	return []Action{{Type: ActionNoMoves}}
}
