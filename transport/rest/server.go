package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-regret/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type botService interface {
	SuggestWith(board entity.Board, symbol entity.Mark, difficulty entity.Difficulty) (int, error)
}

type Server struct {
	logger     *slog.Logger
	bot        botService
	difficulty entity.Difficulty
}

// New returns the REST server. difficulty is used when a request names none.
func New(logger *slog.Logger, bot botService, difficulty entity.Difficulty) *Server {
	return &Server{
		logger:     logger.With("component", "rest"),
		bot:        bot,
		difficulty: difficulty,
	}
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", pingHandler)
	mux.HandleFunc("POST /v1", that.suggestHandler)

	return mux
}

// Start - serves until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
