package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-regret/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-regret/internal/entity"
)

const matchKeyPrefix = "match:"

// MatchRepository keeps the latest state of each session's match.
type MatchRepository interface {
	Save(ctx context.Context, sessionID string, state entity.MatchState) error
	GetBySessionID(ctx context.Context, sessionID string) (entity.MatchState, error)
	DeleteBySessionID(ctx context.Context, sessionID string) error
}

type dbMatch struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMatchRepository stores snapshots as JSON. A zero ttl keeps them forever.
func NewMatchRepository(client *redis.Client, ttl time.Duration) MatchRepository {
	return &dbMatch{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbMatch) Save(ctx context.Context, sessionID string, state entity.MatchState) error {
	matchJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("could not marshal match: %w", err)
	}

	if err = that.client.Set(ctx, matchKeyPrefix+sessionID, matchJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set match: %w", err)
	}

	return nil
}

func (that *dbMatch) GetBySessionID(ctx context.Context, sessionID string) (entity.MatchState, error) {
	response, err := that.client.Get(ctx, matchKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.MatchState{}, apperror.ErrSessionNotFound
	}

	if err != nil {
		return entity.MatchState{}, fmt.Errorf("failed to get match: %w", err)
	}

	var state entity.MatchState
	if err = json.Unmarshal(response, &state); err != nil {
		return entity.MatchState{}, fmt.Errorf("failed to unmarshal match: %w", err)
	}

	return state, nil
}

func (that *dbMatch) DeleteBySessionID(ctx context.Context, sessionID string) error {
	if err := that.client.Del(ctx, matchKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}

	return nil
}
