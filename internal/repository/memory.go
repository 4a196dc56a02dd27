package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-regret/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-regret/internal/entity"
)

type memoryEntry struct {
	state     entity.MatchState
	expiresAt time.Time
}

type memoryMatch struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	matches map[string]memoryEntry
}

// NewMemoryMatchRepository is used when no Redis host is configured. Snapshots
// expire ttl after their last save, like the Redis keys do. A zero ttl keeps them
// for the life of the process.
func NewMemoryMatchRepository(ttl time.Duration) MatchRepository {
	return &memoryMatch{
		ttl:     ttl,
		now:     time.Now,
		matches: make(map[string]memoryEntry),
	}
}

func (that *memoryMatch) Save(_ context.Context, sessionID string, state entity.MatchState) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	now := that.now()
	that.purge(now)

	entry := memoryEntry{state: state}
	if that.ttl > 0 {
		entry.expiresAt = now.Add(that.ttl)
	}
	that.matches[sessionID] = entry

	return nil
}

func (that *memoryMatch) GetBySessionID(_ context.Context, sessionID string) (entity.MatchState, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.matches[sessionID]
	if !ok {
		return entity.MatchState{}, apperror.ErrSessionNotFound
	}

	if entry.expired(that.now()) {
		delete(that.matches, sessionID)
		return entity.MatchState{}, apperror.ErrSessionNotFound
	}

	return entry.state, nil
}

func (that *memoryMatch) DeleteBySessionID(_ context.Context, sessionID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.matches, sessionID)

	return nil
}

// purge must be called with mu held.
func (that *memoryMatch) purge(now time.Time) {
	for id, entry := range that.matches {
		if entry.expired(now) {
			delete(that.matches, id)
		}
	}
}

func (that memoryEntry) expired(now time.Time) bool {
	return !that.expiresAt.IsZero() && !now.Before(that.expiresAt)
}
