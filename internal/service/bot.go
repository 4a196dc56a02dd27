package service

import (
	"context"
	"fmt"
	"math"
	"sync"

	"golang.org/x/exp/rand"

	"github.com/rocketscienceinc/tictactoe-regret/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-regret/internal/entity"
	"github.com/rocketscienceinc/tictactoe-regret/internal/tictactoe"
)

const (
	centerCell = 4
	winScore   = 10
)

var (
	cornerCells = []int{0, 2, 6, 8}
	edgeCells   = []int{1, 3, 5, 7}
)

// BotService is the built-in move-suggestion collaborator.
type BotService interface {
	Suggest(ctx context.Context, req entity.SuggestionRequest) (int, error)
	SuggestWith(board entity.Board, symbol entity.Mark, difficulty entity.Difficulty) (int, error)
}

type botService struct {
	difficulty entity.Difficulty

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewBotService(difficulty entity.Difficulty, seed uint64) BotService {
	if !difficulty.IsValid() {
		difficulty = entity.NormalDifficulty
	}

	return &botService{
		difficulty: difficulty,
		rnd:        rand.New(rand.NewSource(seed)),
	}
}

func (that *botService) Suggest(ctx context.Context, req entity.SuggestionRequest) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("bot suggestion canceled: %w", err)
	}

	return that.SuggestWith(req.Board, req.Symbol, that.difficulty)
}

func (that *botService) SuggestWith(board entity.Board, symbol entity.Mark, difficulty entity.Difficulty) (int, error) {
	if !symbol.IsValid() {
		return 0, fmt.Errorf("%w: %q", apperror.ErrInvalidSymbol, symbol)
	}

	availableCells := tictactoe.EmptyCells(board)
	if len(availableCells) == 0 {
		return 0, apperror.ErrNoAvailableMoves
	}

	switch difficulty {
	case entity.EasyDifficulty:
		return that.pick(availableCells), nil
	case entity.HardDifficulty:
		if cell, ok := winOrBlock(board, symbol); ok {
			return cell, nil
		}
		return bestMove(board, symbol), nil
	default:
		return that.heuristicMove(board, symbol, availableCells), nil
	}
}

// heuristicMove wins, blocks, then prefers the centre, a corner and an edge in that order.
func (that *botService) heuristicMove(board entity.Board, symbol entity.Mark, availableCells []int) int {
	if cell, ok := winOrBlock(board, symbol); ok {
		return cell
	}

	if board.IsEmpty(centerCell) {
		return centerCell
	}

	for _, group := range [][]int{cornerCells, edgeCells} {
		free := make([]int, 0, len(group))
		for _, cell := range group {
			if board.IsEmpty(cell) {
				free = append(free, cell)
			}
		}

		if len(free) > 0 {
			return that.pick(free)
		}
	}

	return availableCells[0]
}

func (that *botService) pick(cells []int) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return cells[that.rnd.Intn(len(cells))]
}

func winOrBlock(board entity.Board, symbol entity.Mark) (int, bool) {
	if cell, ok := completingCell(board, symbol); ok {
		return cell, true
	}

	return completingCell(board, symbol.Opponent())
}

// completingCell finds the free cell of the first triple holding two marks of the given kind.
func completingCell(board entity.Board, mark entity.Mark) (int, bool) {
	for _, combo := range tictactoe.WinCombos {
		owned, free := 0, -1
		for _, cell := range combo {
			switch board[cell] {
			case mark:
				owned++
			case entity.EmptyCell:
				free = cell
			}
		}

		if owned == 2 && free >= 0 {
			return free, true
		}
	}

	return 0, false
}

// bestMove runs a full minimax search. Ties go to the lowest cell index.
func bestMove(board entity.Board, symbol entity.Mark) int {
	best, bestScore := -1, math.MinInt
	for _, cell := range tictactoe.EmptyCells(board) {
		score := -negamax(board.With(cell, symbol), symbol.Opponent(), 1, -math.MaxInt, math.MaxInt)
		if score > bestScore {
			best, bestScore = cell, score
		}
	}

	return best
}

// negamax scores the board for the side to move. Quicker wins score higher.
func negamax(board entity.Board, toMove entity.Mark, depth, alpha, beta int) int {
	if tictactoe.EvaluateWinner(board) != entity.EmptyCell {
		// the previous mover completed a triple
		return depth - winScore
	}

	availableCells := tictactoe.EmptyCells(board)
	if len(availableCells) == 0 {
		return 0
	}

	best := -math.MaxInt
	for _, cell := range availableCells {
		score := -negamax(board.With(cell, toMove), toMove.Opponent(), depth+1, -beta, -alpha)
		best = max(best, score)
		alpha = max(alpha, score)
		if alpha >= beta {
			break
		}
	}

	return best
}
