package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/tictactoe-regret/internal/config"
	"github.com/rocketscienceinc/tictactoe-regret/internal/entity"
	"github.com/rocketscienceinc/tictactoe-regret/internal/repository"
	"github.com/rocketscienceinc/tictactoe-regret/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-regret/internal/service"
	"github.com/rocketscienceinc/tictactoe-regret/internal/suggestion"
	"github.com/rocketscienceinc/tictactoe-regret/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-regret/transport/rest"
	"github.com/rocketscienceinc/tictactoe-regret/transport/websocket"
)

type suggester interface {
	Suggest(ctx context.Context, req entity.SuggestionRequest) (int, error)
}

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	matchRepo, closeRepo, err := newMatchRepository(ctx, log, conf.Redis)
	if err != nil {
		return err
	}
	defer closeRepo()

	difficulty := entity.Difficulty(conf.Suggestion.Difficulty)
	bot := service.NewBotService(difficulty, uint64(time.Now().UnixNano()))

	var moves suggester = bot
	if conf.Suggestion.URL != "" {
		log.Info("AI turns are played by the suggestion service", "url", conf.Suggestion.URL)
		moves = suggestion.New(conf.Suggestion.URL, conf.Suggestion.Timeout, difficulty)
	}

	sessions := usecase.NewSessionManager(ctx, logger, matchRepo, moves, usecase.MatchDefaults{
		Player1Mode: entity.PlayerMode(conf.Match.Player1Mode),
		Player2Mode: entity.PlayerMode(conf.Match.Player2Mode),
		Undo:        entity.UndoGranularity(conf.Match.Undo),
	})
	defer sessions.Shutdown()

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		restServer := rest.New(logger, bot, difficulty)
		if httpErr := restServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, sessions, conf.Redis.SessionTTL)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// newMatchRepository picks Redis when a host is configured and process memory otherwise.
func newMatchRepository(ctx context.Context, log *slog.Logger, conf config.Redis) (repository.MatchRepository, func(), error) {
	addr := conf.GetRedisAddr()
	if addr == "" {
		log.Info("no Redis host configured, sessions are kept in memory")
		return repository.NewMemoryMatchRepository(conf.SessionTTL), func() {}, nil
	}

	redisStorage, err := storage.NewRedisStorage(ctx, addr)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeRepo := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewMatchRepository(redisStorage.Connection, conf.SessionTTL), closeRepo, nil
}
