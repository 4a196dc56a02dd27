package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-regret/internal/entity"
)

// Status describes the displayed position for the view.
type Status struct {
	Winner    entity.Mark       `json:"winner,omitempty"`
	Draw      bool              `json:"draw"`
	Next      entity.Mark       `json:"next,omitempty"`
	NextMode  entity.PlayerMode `json:"next_mode,omitempty"`
	Reviewing bool              `json:"reviewing"`
}

// Tally counts completed matches by outcome.
type Tally struct {
	X    int `json:"x"`
	O    int `json:"o"`
	Draw int `json:"draw"`
}

func StatusOf(state entity.MatchState) Status {
	board := state.Current()
	status := Status{Reviewing: state.IsReviewing()}

	switch winner := EvaluateWinner(board); {
	case winner != entity.EmptyCell:
		status.Winner = winner
	case IsFull(board):
		status.Draw = true
	default:
		status.Next = NextSymbol(state.Cursor)
		status.NextMode = state.ModeOf(entity.MoverSlot(state.Cursor))
	}

	return status
}

func (that Status) String() string {
	switch {
	case that.Winner != entity.EmptyCell:
		return "Winner: " + string(that.Winner)
	case that.Draw:
		return "Draw"
	default:
		return fmt.Sprintf("Next player: %s (%s)", that.Next, that.NextMode)
	}
}

func TallyOf(results []entity.Result) Tally {
	var tally Tally
	for _, result := range results {
		switch result {
		case entity.ResultX:
			tally.X++
		case entity.ResultO:
			tally.O++
		case entity.ResultDraw:
			tally.Draw++
		}
	}

	return tally
}

// CanUndo reports whether the view should offer the undo button: the cursor is
// on the tip and at least one move has been made.
func CanUndo(state entity.MatchState) bool {
	return !state.IsReviewing() && state.Cursor > 0
}

// IsAwaitingAI reports whether the mover at the cursor is an AI that may act now.
func IsAwaitingAI(state entity.MatchState) bool {
	if state.Ended || state.IsReviewing() {
		return false
	}

	return state.ModeOf(entity.MoverSlot(state.Cursor)) == entity.ModeAI
}
