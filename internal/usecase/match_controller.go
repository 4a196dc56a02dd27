package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-regret/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-regret/internal/entity"
	"github.com/rocketscienceinc/tictactoe-regret/internal/tictactoe"
)

type suggester interface {
	Suggest(ctx context.Context, req entity.SuggestionRequest) (int, error)
}

// Observer receives every committed state, in commit order. It runs on the
// goroutine that committed the state and must not call back into the controller.
type Observer func(state entity.MatchState)

// ticket identifies the position a suggestion was requested for.
type ticket struct {
	generation uint64
	cursor     int
}

// MatchController owns the state of one session. After every committed
// transition it asks the suggester for a move when an AI is to act, and applies
// the answer only if the position it was requested for is still current.
type MatchController struct {
	logger    *slog.Logger
	suggester suggester

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	state     entity.MatchState
	pending   *ticket
	closed    bool
	observers map[int]Observer
	lastID    int

	// notifyMu is taken before mu is released so observers see commits in order.
	notifyMu sync.Mutex
}

func NewMatchController(ctx context.Context, logger *slog.Logger, suggester suggester, initial entity.MatchState) *MatchController {
	ctx, cancel := context.WithCancel(ctx)

	return &MatchController{
		logger:    logger.With("component", "match_controller"),
		suggester: suggester,
		ctx:       ctx,
		cancel:    cancel,
		state:     initial,
		observers: make(map[int]Observer),
	}
}

func (that *MatchController) State() entity.MatchState {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.state
}

func (that *MatchController) Move(cell int) (entity.MatchState, error) {
	return that.Apply(tictactoe.Move(cell))
}

func (that *MatchController) Undo() (entity.MatchState, error) {
	return that.Apply(tictactoe.Intent{Kind: tictactoe.IntentUndo})
}

func (that *MatchController) JumpTo(step int) (entity.MatchState, error) {
	return that.Apply(tictactoe.Jump(step))
}

func (that *MatchController) Reset() (entity.MatchState, error) {
	return that.Apply(tictactoe.Intent{Kind: tictactoe.IntentReset})
}

func (that *MatchController) SetPlayerMode(slot int, mode entity.PlayerMode) (entity.MatchState, error) {
	return that.Apply(tictactoe.ChooseMode(slot, mode))
}

// Apply runs an intent against the current state. Ignored intents return the
// unchanged state and a nil error.
func (that *MatchController) Apply(intent tictactoe.Intent) (entity.MatchState, error) {
	that.mu.Lock()

	if that.closed {
		that.mu.Unlock()
		return entity.MatchState{}, apperror.ErrControllerClosed
	}

	next, changed, err := tictactoe.Apply(that.state, intent)
	if err != nil {
		state := that.state
		that.mu.Unlock()
		return state, fmt.Errorf("failed to apply %s: %w", intent.Kind, err)
	}

	if !changed {
		that.mu.Unlock()
		return next, nil
	}

	that.commit(next)

	return next, nil
}

// Subscribe registers an observer and returns the function removing it.
func (that *MatchController) Subscribe(observer Observer) func() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.lastID++
	id := that.lastID
	that.observers[id] = observer

	return func() {
		that.mu.Lock()
		defer that.mu.Unlock()

		delete(that.observers, id)
	}
}

// Kick runs the dispatch hook without a transition. A stalled AI turn is
// retried this way.
func (that *MatchController) Kick() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.closed {
		that.dispatch()
	}
}

// Close stops accepting intents, cancels outstanding suggestions and waits for them.
func (that *MatchController) Close() {
	that.mu.Lock()
	that.closed = true
	that.mu.Unlock()

	that.cancel()
	that.wg.Wait()
}

// commit must be called with mu held. It releases mu.
func (that *MatchController) commit(next entity.MatchState) {
	that.state = next

	observers := make([]Observer, 0, len(that.observers))
	for _, observer := range that.observers {
		observers = append(observers, observer)
	}

	that.notifyMu.Lock()
	defer that.notifyMu.Unlock()

	that.dispatch()
	that.mu.Unlock()

	for _, observer := range observers {
		observer(next)
	}
}

// dispatch must be called with mu held.
func (that *MatchController) dispatch() {
	if that.suggester == nil || !tictactoe.IsAwaitingAI(that.state) {
		return
	}

	current := ticket{generation: that.state.Generation, cursor: that.state.Cursor}
	if that.pending != nil && *that.pending == current {
		return
	}
	that.pending = &current

	req := entity.SuggestionRequest{
		Board:  that.state.Current(),
		Symbol: tictactoe.NextSymbol(that.state.Cursor),
	}

	that.wg.Add(1)
	go that.requestSuggestion(current, req)
}

func (that *MatchController) requestSuggestion(issued ticket, req entity.SuggestionRequest) {
	defer that.wg.Done()

	log := that.logger.With("method", "requestSuggestion", "generation", issued.generation, "cursor", issued.cursor)

	cell, err := that.suggester.Suggest(that.ctx, req)

	that.mu.Lock()

	if that.pending != nil && *that.pending == issued {
		that.pending = nil
	}

	if err != nil {
		that.mu.Unlock()
		log.Warn("suggestion failed, AI turn stalled", "error", err)
		return
	}

	if that.closed || !that.isCurrent(issued) {
		that.mu.Unlock()
		log.Info("stale suggestion dropped", "cell", cell)
		return
	}

	next, changed, err := tictactoe.ApplyMove(that.state, cell)
	if err != nil || !changed {
		that.mu.Unlock()
		log.Warn("invalid suggestion dropped", "cell", cell, "error", err)
		return
	}

	log.Debug("suggestion applied", "cell", cell)
	that.commit(next)
}

// isCurrent must be called with mu held.
func (that *MatchController) isCurrent(issued ticket) bool {
	return that.state.Generation == issued.generation &&
		that.state.Cursor == issued.cursor &&
		tictactoe.IsAwaitingAI(that.state)
}
