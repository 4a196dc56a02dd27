package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-regret/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-regret/internal/entity"
)

// Validate checks that a state could have been produced by the transitions of
// this package. It is used on snapshots read back from storage.
func Validate(state entity.MatchState) error {
	if len(state.History) == 0 {
		return fmt.Errorf("%w: empty history", apperror.ErrInvalidSnapshot)
	}

	if state.History[0].Board != (entity.Board{}) {
		return fmt.Errorf("%w: first board is not empty", apperror.ErrInvalidSnapshot)
	}

	for i := 1; i < len(state.History); i++ {
		if err := validateStep(state.History[i-1].Board, state.History[i].Board, i); err != nil {
			return err
		}
	}

	if state.Cursor < 0 || state.Cursor > state.Tip() {
		return fmt.Errorf("%w: cursor %d out of range", apperror.ErrInvalidSnapshot, state.Cursor)
	}

	if state.Ended != isTerminal(state.History[state.Tip()].Board) {
		return fmt.Errorf("%w: ended flag does not match the last board", apperror.ErrInvalidSnapshot)
	}

	if !state.Player1Mode.IsValid() || !state.Player2Mode.IsValid() {
		return fmt.Errorf("%w: unknown player mode", apperror.ErrInvalidSnapshot)
	}

	if !state.Undo.IsValid() {
		return fmt.Errorf("%w: unknown undo granularity %q", apperror.ErrInvalidSnapshot, state.Undo)
	}

	for _, result := range state.Results {
		if result != entity.ResultX && result != entity.ResultO && result != entity.ResultDraw {
			return fmt.Errorf("%w: unknown result %q", apperror.ErrInvalidSnapshot, result)
		}
	}

	return nil
}

func validateStep(prev, board entity.Board, step int) error {
	if isTerminal(prev) {
		return fmt.Errorf("%w: move %d after the match ended", apperror.ErrInvalidSnapshot, step)
	}

	changed := 0
	for cell := range board {
		if prev[cell] == board[cell] {
			continue
		}

		changed++
		if prev[cell] != entity.EmptyCell || board[cell] != NextSymbol(step-1) {
			return fmt.Errorf("%w: illegal placement at step %d", apperror.ErrInvalidSnapshot, step)
		}
	}

	if changed != 1 {
		return fmt.Errorf("%w: step %d changes %d cells", apperror.ErrInvalidSnapshot, step, changed)
	}

	return nil
}

func isTerminal(board entity.Board) bool {
	return EvaluateWinner(board) != entity.EmptyCell || IsFull(board)
}
