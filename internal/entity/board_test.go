package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_With(t *testing.T) {
	t.Run("Returns a new board and keeps the original", func(t *testing.T) {
		// Given: an empty board
		board := Board{}

		// When: placing X in the centre
		next := board.With(4, PlayerX)

		// Then: only the new board holds the mark
		assert.Equal(t, PlayerX, next[4])
		assert.True(t, board.IsEmpty(4))
		assert.False(t, next.IsEmpty(4))
	})
}

func TestMark_Opponent(t *testing.T) {
	assert.Equal(t, PlayerO, PlayerX.Opponent())
	assert.Equal(t, PlayerX, PlayerO.Opponent())
	assert.True(t, PlayerX.IsValid())
	assert.False(t, EmptyCell.IsValid())
}

func TestMatchState_Accessors(t *testing.T) {
	t.Run("Current follows the cursor", func(t *testing.T) {
		// Given: a state with two entries, cursor on the first
		state := MatchState{
			History: []HistoryEntry{{}, {Board: Board{}.With(0, PlayerX)}},
			Cursor:  0,
		}

		// Then: the displayed board is the empty one and the state is in review mode
		assert.Equal(t, Board{}, state.Current())
		assert.Equal(t, 1, state.Tip())
		assert.True(t, state.IsReviewing())
	})

	t.Run("ModeOf maps slots to modes", func(t *testing.T) {
		// Given: a human against an AI
		state := MatchState{Player1Mode: ModeHuman, Player2Mode: ModeAI}

		// Then: each slot reports its mode and an unknown slot reports nothing
		require.Equal(t, ModeHuman, state.ModeOf(Player1))
		require.Equal(t, ModeAI, state.ModeOf(Player2))
		require.Equal(t, PlayerMode(""), state.ModeOf(3))
	})
}

func TestMoverSlot(t *testing.T) {
	assert.Equal(t, Player1, MoverSlot(0))
	assert.Equal(t, Player2, MoverSlot(1))
	assert.Equal(t, Player1, MoverSlot(8))
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, ModeAI.IsValid())
	assert.False(t, PlayerMode("robot").IsValid())
	assert.True(t, UndoRound.IsValid())
	assert.False(t, UndoGranularity("turn").IsValid())
	assert.True(t, HardDifficulty.IsValid())
	assert.False(t, Difficulty("impossible").IsValid())
}
