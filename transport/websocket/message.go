package websocket

import (
	"math"

	"github.com/rocketscienceinc/tictactoe-regret/internal/entity"
	"github.com/rocketscienceinc/tictactoe-regret/internal/tictactoe"
)

const (
	actionConnect = "connect"
	actionMove    = "game:move"
	actionUndo    = "game:undo"
	actionJump    = "game:jump"
	actionRestart = "game:restart"
	actionMode    = "game:mode"
	actionState   = "game:state"
)

// Message is what the view sends.
type Message struct {
	Action  string         `json:"action"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Response is what the server pushes back.
type Response struct {
	Action  string `json:"action"`
	Payload any    `json:"payload,omitempty"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// StatePayload is the whole view model of a match.
type StatePayload struct {
	Board       entity.Board      `json:"board"`
	Cursor      int               `json:"cursor"`
	Steps       int               `json:"steps"`
	Ended       bool              `json:"ended"`
	CanUndo     bool              `json:"can_undo"`
	Status      string            `json:"status"`
	Results     []entity.Result   `json:"results"`
	Tally       tictactoe.Tally   `json:"tally"`
	Player1Mode entity.PlayerMode `json:"player1_mode"`
	Player2Mode entity.PlayerMode `json:"player2_mode"`
	Generation  uint64            `json:"generation"`
}

func newStatePayload(state entity.MatchState) StatePayload {
	return StatePayload{
		Board:       state.Current(),
		Cursor:      state.Cursor,
		Steps:       len(state.History),
		Ended:       state.Ended,
		CanUndo:     tictactoe.CanUndo(state),
		Status:      tictactoe.StatusOf(state).String(),
		Results:     state.Results,
		Tally:       tictactoe.TallyOf(state.Results),
		Player1Mode: state.Player1Mode,
		Player2Mode: state.Player2Mode,
		Generation:  state.Generation,
	}
}

// Payloads decoded with mapstructure. Numbers arrive from JSON as float64.
type movePayload struct {
	Cell *float64 `mapstructure:"cell"`
}

type jumpPayload struct {
	Step *float64 `mapstructure:"step"`
}

type modePayload struct {
	Slot *float64 `mapstructure:"slot"`
	Mode string   `mapstructure:"mode"`
}

// wholeNumber converts a decoded JSON number that must be an integer.
func wholeNumber(value *float64) (int, bool) {
	if value == nil || math.IsInf(*value, 0) || *value != math.Trunc(*value) {
		return 0, false
	}

	if *value > math.MaxInt32 || *value < math.MinInt32 {
		return 0, false
	}

	return int(*value), true
}
