package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-regret/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-regret/internal/entity"
	"github.com/rocketscienceinc/tictactoe-regret/internal/suggestion"
)

const maxRequestSize = 1 << 12

// defaultSymbol is played when a request names no symbol.
const defaultSymbol = entity.PlayerO

var errInvalidDifficulty = errors.New("invalid difficulty")

// suggestHandler answers POST /v1 with the bot's move for the given board.
func (that *Server) suggestHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "suggestHandler")

	var req suggestion.Request
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestSize)).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	board, err := suggestion.DecodeBoard(req.Board)
	if err != nil {
		that.writeError(w, http.StatusBadRequest, err)
		return
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = that.difficulty
	}

	if !difficulty.IsValid() {
		that.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %q", errInvalidDifficulty, difficulty))
		return
	}

	symbol := entity.Mark(req.Symbol)
	if symbol == entity.EmptyCell {
		symbol = defaultSymbol
	}

	move, err := that.bot.SuggestWith(board, symbol, difficulty)
	switch {
	case errors.Is(err, apperror.ErrInvalidSymbol):
		that.writeError(w, http.StatusBadRequest, err)
		return
	case errors.Is(err, apperror.ErrNoAvailableMoves):
		that.writeError(w, http.StatusUnprocessableEntity, err)
		return
	case err != nil:
		log.Error("failed to suggest a move", "error", err)
		that.writeError(w, http.StatusInternalServerError, err)
		return
	}

	log.Debug("move suggested", "symbol", symbol, "difficulty", difficulty, "move", move)

	that.writeJSON(w, http.StatusOK, suggestion.Response{Move: &move})
}

func (that *Server) writeError(w http.ResponseWriter, status int, err error) {
	that.writeJSON(w, status, suggestion.Response{Error: err.Error()})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body suggestion.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "method", "writeJSON", "status", status, "error", err)
	}
}
