package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-regret/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-regret/internal/entity"
	"github.com/rocketscienceinc/tictactoe-regret/internal/tictactoe"
)

type matchRepo interface {
	Save(ctx context.Context, sessionID string, state entity.MatchState) error
	GetBySessionID(ctx context.Context, sessionID string) (entity.MatchState, error)
	DeleteBySessionID(ctx context.Context, sessionID string) error
}

// MatchDefaults configure the match a new session starts with.
type MatchDefaults struct {
	Player1Mode entity.PlayerMode
	Player2Mode entity.PlayerMode
	Undo        entity.UndoGranularity
}

type session struct {
	controller  *MatchController
	unsubscribe func()
}

// SessionManager keeps one MatchController per browser session and mirrors
// every committed state into the repository.
type SessionManager struct {
	logger    *slog.Logger
	repo      matchRepo
	suggester suggester
	defaults  MatchDefaults

	ctx context.Context

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessionManager(ctx context.Context, logger *slog.Logger, repo matchRepo, suggester suggester, defaults MatchDefaults) *SessionManager {
	return &SessionManager{
		logger:    logger.With("component", "session_manager"),
		repo:      repo,
		suggester: suggester,
		defaults:  defaults,
		ctx:       ctx,
		sessions:  make(map[string]*session),
	}
}

// NewSessionID returns an identifier for a browser that has none yet.
func (that *SessionManager) NewSessionID() string {
	return uuid.NewString()
}

// GetOrCreate returns the live controller of a session. A session that is not
// live is restored from its stored snapshot, or started fresh.
func (that *SessionManager) GetOrCreate(ctx context.Context, sessionID string) (*MatchController, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if existing, ok := that.sessions[sessionID]; ok {
		return existing.controller, nil
	}

	initial, err := that.initialState(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare match: %w", err)
	}

	if err = that.repo.Save(ctx, sessionID, initial); err != nil {
		return nil, fmt.Errorf("failed to save match: %w", err)
	}

	controller := NewMatchController(that.ctx, that.logger.With("session", sessionID), that.suggester, initial)
	that.sessions[sessionID] = &session{
		controller:  controller,
		unsubscribe: controller.Subscribe(that.persist(sessionID)),
	}

	that.logger.Info("session started", "session", sessionID, "cursor", initial.Cursor)

	return controller, nil
}

// Get returns the live controller of a session.
func (that *SessionManager) Get(sessionID string) (*MatchController, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	existing, ok := that.sessions[sessionID]
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	return existing.controller, nil
}

// Release stops the controller of a session. The snapshot stays in the
// repository until it expires, so a returning browser resumes where it left.
func (that *SessionManager) Release(sessionID string) {
	that.mu.Lock()
	existing, ok := that.sessions[sessionID]
	delete(that.sessions, sessionID)
	that.mu.Unlock()

	if !ok {
		return
	}

	existing.controller.Close()
	existing.unsubscribe()

	that.logger.Info("session released", "session", sessionID)
}

// Discard stops a session and forgets its snapshot.
func (that *SessionManager) Discard(ctx context.Context, sessionID string) error {
	that.Release(sessionID)

	if err := that.repo.DeleteBySessionID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}

	return nil
}

// Shutdown releases every live session.
func (that *SessionManager) Shutdown() {
	that.mu.Lock()
	ids := make([]string, 0, len(that.sessions))
	for id := range that.sessions {
		ids = append(ids, id)
	}
	that.mu.Unlock()

	for _, id := range ids {
		that.Release(id)
	}
}

func (that *SessionManager) initialState(ctx context.Context, sessionID string) (entity.MatchState, error) {
	log := that.logger.With("method", "initialState", "session", sessionID)

	stored, err := that.repo.GetBySessionID(ctx, sessionID)
	switch {
	case err == nil:
		if err = tictactoe.Validate(stored); err == nil {
			return stored, nil
		}
		log.Warn("stored match is invalid, starting over", "error", err)
	case errors.Is(err, apperror.ErrSessionNotFound):
	default:
		return entity.MatchState{}, fmt.Errorf("failed to get match: %w", err)
	}

	return that.freshState()
}

func (that *SessionManager) freshState() (entity.MatchState, error) {
	state := tictactoe.NewMatch(that.defaults.Undo)

	for slot, mode := range map[int]entity.PlayerMode{
		entity.Player1: that.defaults.Player1Mode,
		entity.Player2: that.defaults.Player2Mode,
	} {
		if mode == "" {
			continue
		}

		var err error
		if state, _, err = tictactoe.SetPlayerMode(state, slot, mode); err != nil {
			return entity.MatchState{}, fmt.Errorf("failed to set mode of player %d: %w", slot, err)
		}
	}

	return state, nil
}

func (that *SessionManager) persist(sessionID string) Observer {
	log := that.logger.With("method", "persist", "session", sessionID)

	return func(state entity.MatchState) {
		if err := that.repo.Save(that.ctx, sessionID, state); err != nil {
			log.Error("failed to save match", "error", err)
		}
	}
}
