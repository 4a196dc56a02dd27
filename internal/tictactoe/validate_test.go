package tictactoe

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-regret/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-regret/internal/entity"
)

func TestValidate(t *testing.T) {
	valid := play(t, NewMatch(entity.UndoPly), 0, 4, 1)

	t.Run("States built by transitions are valid", func(t *testing.T) {
		require.NoError(t, Validate(valid))
		require.NoError(t, Validate(play(t, NewMatch(entity.UndoPly), 0, 1, 2, 4, 3, 5, 7, 6, 8)))
	})

	tests := []struct {
		name   string
		mutate func(state *entity.MatchState)
	}{
		{"empty history", func(s *entity.MatchState) { s.History = nil }},
		{"non-empty first board", func(s *entity.MatchState) { s.History[0].Board[0] = x }},
		{"wrong mark order", func(s *entity.MatchState) { s.History[1].Board[0] = o }},
		{"two cells changed", func(s *entity.MatchState) { s.History[3].Board[8] = x }},
		{"cursor out of range", func(s *entity.MatchState) { s.Cursor = 7 }},
		{"ended without a result board", func(s *entity.MatchState) { s.Ended = true }},
		{"unknown mode", func(s *entity.MatchState) { s.Player2Mode = "robot" }},
		{"unknown undo", func(s *entity.MatchState) { s.Undo = "" }},
		{"unknown result", func(s *entity.MatchState) { s.Results = []entity.Result{"?"} }},
	}

	for _, tt := range tests {
		t.Run("Rejects "+tt.name, func(t *testing.T) {
			// Given: a copy of a valid state with one invariant broken
			state := valid
			state.History = make([]entity.HistoryEntry, len(valid.History))
			copy(state.History, valid.History)
			state.Results = slices.Clone(valid.Results)
			tt.mutate(&state)

			// When: validating it
			err := Validate(state)

			// Then: it is reported as an invalid snapshot
			assert.ErrorIs(t, err, apperror.ErrInvalidSnapshot)
		})
	}

	t.Run("Rejects moves after a win", func(t *testing.T) {
		won := play(t, NewMatch(entity.UndoPly), 0, 4, 1, 3, 2)
		won.History = append(slices.Clone(won.History), entity.HistoryEntry{Board: won.Current().With(8, o)})
		won.Cursor = won.Tip()

		assert.ErrorIs(t, Validate(won), apperror.ErrInvalidSnapshot)
	})
}
