package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-regret/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-regret/internal/entity"
)

const (
	IntentMove  IntentKind = "move"
	IntentUndo  IntentKind = "undo"
	IntentJump  IntentKind = "jump"
	IntentReset IntentKind = "reset"
	IntentMode  IntentKind = "mode"
)

type IntentKind string

// Intent is a request to change the match, as issued by the view or the turn dispatcher.
type Intent struct {
	Kind IntentKind
	Cell int
	Step int
	Slot int
	Mode entity.PlayerMode
}

func Move(cell int) Intent { return Intent{Kind: IntentMove, Cell: cell} }

func Jump(step int) Intent { return Intent{Kind: IntentJump, Step: step} }

func ChooseMode(slot int, mode entity.PlayerMode) Intent {
	return Intent{Kind: IntentMode, Slot: slot, Mode: mode}
}

// Apply routes an intent to its transition.
func Apply(state entity.MatchState, intent Intent) (entity.MatchState, bool, error) {
	switch intent.Kind {
	case IntentMove:
		return ApplyMove(state, intent.Cell)
	case IntentUndo:
		return Undo(state)
	case IntentJump:
		return JumpTo(state, intent.Step)
	case IntentReset:
		return Reset(state)
	case IntentMode:
		return SetPlayerMode(state, intent.Slot, intent.Mode)
	default:
		return state, false, fmt.Errorf("%w: %q", apperror.ErrUnknownIntent, intent.Kind)
	}
}
