package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-regret/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-regret/internal/entity"
	"github.com/rocketscienceinc/tictactoe-regret/internal/repository"
	"github.com/rocketscienceinc/tictactoe-regret/internal/tictactoe"
)

var humans = MatchDefaults{Player1Mode: entity.ModeHuman, Player2Mode: entity.ModeHuman, Undo: entity.UndoPly}

type brokenRepo struct{}

func (brokenRepo) Save(context.Context, string, entity.MatchState) error { return nil }

func (brokenRepo) GetBySessionID(context.Context, string) (entity.MatchState, error) {
	return entity.MatchState{}, errors.New("connection refused")
}

func (brokenRepo) DeleteBySessionID(context.Context, string) error { return nil }

func TestSessionManager_GetOrCreate(t *testing.T) {
	t.Run("New session starts with the configured defaults", func(t *testing.T) {
		ctx := context.Background()
		repo := repository.NewMemoryMatchRepository(time.Hour)
		manager := NewSessionManager(ctx, discardLogger(), repo, nil,
			MatchDefaults{Player1Mode: entity.ModeHuman, Player2Mode: entity.ModeAI, Undo: entity.UndoRound})
		defer manager.Shutdown()

		// When: a browser connects for the first time
		ctrl, err := manager.GetOrCreate(ctx, manager.NewSessionID())

		// Then: the match is empty and configured
		require.NoError(t, err)
		state := ctrl.State()
		assert.Len(t, state.History, 1)
		assert.Equal(t, entity.ModeAI, state.Player2Mode)
		assert.Equal(t, entity.UndoRound, state.Undo)
	})

	t.Run("Same session returns the same controller", func(t *testing.T) {
		ctx := context.Background()
		manager := NewSessionManager(ctx, discardLogger(), repository.NewMemoryMatchRepository(time.Hour), nil, humans)
		defer manager.Shutdown()

		first, err := manager.GetOrCreate(ctx, "session-1")
		require.NoError(t, err)

		second, err := manager.GetOrCreate(ctx, "session-1")
		require.NoError(t, err)

		assert.Same(t, first, second)
	})

	t.Run("Released session resumes from its snapshot", func(t *testing.T) {
		// Given: a session with two moves that is released
		ctx := context.Background()
		manager := NewSessionManager(ctx, discardLogger(), repository.NewMemoryMatchRepository(time.Hour), nil, humans)
		defer manager.Shutdown()

		ctrl, err := manager.GetOrCreate(ctx, "session-1")
		require.NoError(t, err)
		_, err = ctrl.Move(4)
		require.NoError(t, err)
		_, err = ctrl.Move(0)
		require.NoError(t, err)

		manager.Release("session-1")
		_, err = manager.Get("session-1")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)

		// When: the browser comes back
		resumed, err := manager.GetOrCreate(ctx, "session-1")

		// Then: the board is restored
		require.NoError(t, err)
		assert.NotSame(t, ctrl, resumed)
		assert.Equal(t, 2, resumed.State().Cursor)
		assert.Equal(t, entity.PlayerX, resumed.State().Current()[4])
	})

	t.Run("Expired snapshot is not restored", func(t *testing.T) {
		// Given: a session whose snapshot outlives its lifetime after release
		ctx := context.Background()
		manager := NewSessionManager(ctx, discardLogger(), repository.NewMemoryMatchRepository(20*time.Millisecond), nil, humans)
		defer manager.Shutdown()

		ctrl, err := manager.GetOrCreate(ctx, "session-1")
		require.NoError(t, err)
		_, err = ctrl.Move(4)
		require.NoError(t, err)

		manager.Release("session-1")
		time.Sleep(50 * time.Millisecond)

		// When: the browser comes back
		resumed, err := manager.GetOrCreate(ctx, "session-1")

		// Then: a fresh match starts
		require.NoError(t, err)
		assert.Equal(t, 0, resumed.State().Cursor)
		assert.Len(t, resumed.State().History, 1)
	})

	t.Run("Invalid snapshot is replaced by a fresh match", func(t *testing.T) {
		ctx := context.Background()
		repo := repository.NewMemoryMatchRepository(time.Hour)

		// Given: a snapshot with the cursor past the tip
		broken := tictactoe.NewMatch(entity.UndoPly)
		broken.Cursor = 5
		require.NoError(t, repo.Save(ctx, "session-1", broken))

		manager := NewSessionManager(ctx, discardLogger(), repo, nil, humans)
		defer manager.Shutdown()

		// When: the session is opened
		ctrl, err := manager.GetOrCreate(ctx, "session-1")

		// Then: a fresh match replaces it, in memory and in storage
		require.NoError(t, err)
		assert.Equal(t, 0, ctrl.State().Cursor)

		stored, err := repo.GetBySessionID(ctx, "session-1")
		require.NoError(t, err)
		require.NoError(t, tictactoe.Validate(stored))
	})

	t.Run("Storage failure is reported", func(t *testing.T) {
		ctx := context.Background()
		manager := NewSessionManager(ctx, discardLogger(), brokenRepo{}, nil, humans)
		defer manager.Shutdown()

		_, err := manager.GetOrCreate(ctx, "session-1")

		require.Error(t, err)
	})

	t.Run("Invalid default mode is reported", func(t *testing.T) {
		ctx := context.Background()
		manager := NewSessionManager(ctx, discardLogger(), repository.NewMemoryMatchRepository(time.Hour), nil,
			MatchDefaults{Player1Mode: "robot", Undo: entity.UndoPly})
		defer manager.Shutdown()

		_, err := manager.GetOrCreate(ctx, "session-1")

		require.ErrorIs(t, err, apperror.ErrInvalidMode)
	})
}

func TestSessionManager_Persistence(t *testing.T) {
	t.Run("Every commit is saved", func(t *testing.T) {
		ctx := context.Background()
		repo := repository.NewMemoryMatchRepository(time.Hour)
		manager := NewSessionManager(ctx, discardLogger(), repo, nil, humans)
		defer manager.Shutdown()

		ctrl, err := manager.GetOrCreate(ctx, "session-1")
		require.NoError(t, err)

		// When: a move and a jump are made
		_, err = ctrl.Move(4)
		require.NoError(t, err)
		_, err = ctrl.JumpTo(0)
		require.NoError(t, err)

		// Then: the repository holds the latest state
		stored, err := repo.GetBySessionID(ctx, "session-1")
		require.NoError(t, err)
		assert.Equal(t, ctrl.State(), stored)
	})

	t.Run("AI moves are saved too", func(t *testing.T) {
		ctx := context.Background()
		repo := repository.NewMemoryMatchRepository(time.Hour)

		suggester := &mockSuggester{}
		suggester.On("Suggest", mock.Anything, mock.Anything).Return(4, nil).Once()

		manager := NewSessionManager(ctx, discardLogger(), repo, suggester,
			MatchDefaults{Player1Mode: entity.ModeHuman, Player2Mode: entity.ModeAI, Undo: entity.UndoPly})
		defer manager.Shutdown()

		ctrl, err := manager.GetOrCreate(ctx, "session-1")
		require.NoError(t, err)
		_, err = ctrl.Move(0)
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			stored, err := repo.GetBySessionID(ctx, "session-1")
			return err == nil && stored.Cursor == 2
		}, time.Second, tick)
	})

	t.Run("Discard forgets the snapshot", func(t *testing.T) {
		ctx := context.Background()
		repo := repository.NewMemoryMatchRepository(time.Hour)
		manager := NewSessionManager(ctx, discardLogger(), repo, nil, humans)

		_, err := manager.GetOrCreate(ctx, "session-1")
		require.NoError(t, err)

		require.NoError(t, manager.Discard(ctx, "session-1"))

		_, err = repo.GetBySessionID(ctx, "session-1")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}
