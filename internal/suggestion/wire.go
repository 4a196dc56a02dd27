package suggestion

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-regret/internal/entity"
)

var (
	ErrMissingBoard    = errors.New("missing board parameter")
	ErrBoardSize       = errors.New("board must have 9 elements")
	ErrMissingMove     = errors.New("response has no move")
	ErrUnexpectedReply = errors.New("unexpected response from suggestion service")
)

// Request is the JSON body of a suggestion call. Empty cells travel as null.
type Request struct {
	Board      []*string         `json:"board"`
	Symbol     string            `json:"symbol"`
	Difficulty entity.Difficulty `json:"difficulty,omitempty"`
}

type Response struct {
	Move  *int   `json:"move,omitempty"`
	Error string `json:"error,omitempty"`
}

func EncodeBoard(board entity.Board) []*string {
	cells := make([]*string, len(board))
	for i, cell := range board {
		if cell == entity.EmptyCell {
			continue
		}

		mark := string(cell)
		cells[i] = &mark
	}

	return cells
}

// DecodeBoard accepts null or "" for an empty cell. Anything but X or O counts as empty.
func DecodeBoard(cells []*string) (entity.Board, error) {
	var board entity.Board

	if cells == nil {
		return board, ErrMissingBoard
	}

	if len(cells) != entity.BoardSize {
		return board, fmt.Errorf("%w: got %d", ErrBoardSize, len(cells))
	}

	for i, cell := range cells {
		if cell == nil {
			continue
		}

		if mark := entity.Mark(*cell); mark.IsValid() {
			board[i] = mark
		}
	}

	return board, nil
}
