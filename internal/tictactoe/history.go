package tictactoe

import (
	"fmt"
	"slices"

	"github.com/rocketscienceinc/tictactoe-regret/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-regret/internal/entity"
)

// Every transition takes a state by value and returns the next one. The bool
// result reports whether anything changed; a well-formed but illegal intent
// returns the input state, false and a nil error.
//
// Slices of a returned state may share a backing array with the input. They are
// clipped, so appending always reallocates and older states stay intact.

// NewMatch returns the state a session starts with: one empty board, two humans.
func NewMatch(undo entity.UndoGranularity) entity.MatchState {
	if !undo.IsValid() {
		undo = entity.UndoPly
	}

	return entity.MatchState{
		History:     []entity.HistoryEntry{{}},
		Results:     []entity.Result{},
		Player1Mode: entity.ModeHuman,
		Player2Mode: entity.ModeHuman,
		Undo:        undo,
	}
}

// ApplyMove places the next mark on cell. Only an out-of-range cell is an error.
func ApplyMove(state entity.MatchState, cell int) (entity.MatchState, bool, error) {
	if cell < 0 || cell >= entity.BoardSize {
		return state, false, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	// review mode is read-only
	if state.Ended || state.IsReviewing() || !state.Current().IsEmpty(cell) {
		return state, false, nil
	}

	board := state.Current().With(cell, NextSymbol(state.Cursor))

	next := state
	next.History = append(slices.Clip(state.History), entity.HistoryEntry{Board: board})
	next.Cursor = next.Tip()
	next.Generation++

	switch winner := EvaluateWinner(board); {
	case winner != entity.EmptyCell:
		next.Ended = true
		next.Results = append(slices.Clip(state.Results), entity.Result(winner))
	case IsFull(board):
		next.Ended = true
		next.Results = append(slices.Clip(state.Results), entity.ResultDraw)
	}

	return next, true, nil
}

// Undo truncates the tail of history by one ply, or by two under UndoRound, and
// always reopens the match. Results are never rewritten.
func Undo(state entity.MatchState) (entity.MatchState, bool, error) {
	if state.Cursor <= 0 {
		return state, false, nil
	}

	plies := 1
	if state.Undo == entity.UndoRound && state.Cursor >= 2 {
		plies = 2
	}

	next := state
	next.History = slices.Clip(state.History[:len(state.History)-plies])
	next.Cursor = state.Cursor - plies
	next.Ended = false
	next.Generation++

	return next, true, nil
}

// JumpTo moves the cursor for review without touching history.
func JumpTo(state entity.MatchState, step int) (entity.MatchState, bool, error) {
	if step < 0 || step > state.Tip() || step == state.Cursor {
		return state, false, nil
	}

	next := state
	next.Cursor = step

	return next, true, nil
}

// Reset starts a new match. Results, player modes and the undo setting survive.
func Reset(state entity.MatchState) (entity.MatchState, bool, error) {
	next := state
	next.History = []entity.HistoryEntry{{}}
	next.Cursor = 0
	next.Ended = false
	next.Generation++

	return next, true, nil
}

// SetPlayerMode configures a slot. Reconfiguration is only possible before the
// first move of a match.
func SetPlayerMode(state entity.MatchState, slot int, mode entity.PlayerMode) (entity.MatchState, bool, error) {
	if slot != entity.Player1 && slot != entity.Player2 {
		return state, false, fmt.Errorf("%w: %d", apperror.ErrInvalidSlot, slot)
	}

	if !mode.IsValid() {
		return state, false, fmt.Errorf("%w: %q", apperror.ErrInvalidMode, mode)
	}

	if len(state.History) != 1 || state.ModeOf(slot) == mode {
		return state, false, nil
	}

	next := state
	if slot == entity.Player1 {
		next.Player1Mode = mode
	} else {
		next.Player2Mode = mode
	}
	// the mover may have changed hands, so outstanding suggestions are void
	next.Generation++

	return next, true, nil
}
