package tictactoe

import "github.com/rocketscienceinc/tictactoe-regret/internal/entity"

// WinCombos lists the winning triples in scan order: rows top to bottom,
// columns left to right, then the two diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// EvaluateWinner returns the mark of the first complete triple, or EmptyCell.
func EvaluateWinner(board entity.Board) entity.Mark {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return a
		}
	}

	return entity.EmptyCell
}

func IsFull(board entity.Board) bool {
	for _, cell := range board {
		if cell == entity.EmptyCell {
			return false
		}
	}

	return true
}

// IsDraw reports an exhausted board without a winner.
func IsDraw(board entity.Board) bool {
	return IsFull(board) && EvaluateWinner(board) == entity.EmptyCell
}

// EmptyCells returns the indexes of free cells in ascending order.
func EmptyCells(board entity.Board) []int {
	cells := make([]int, 0, len(board))
	for i, cell := range board {
		if cell == entity.EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}

// NextSymbol returns the mark placed after step n: X on even steps, O on odd ones.
func NextSymbol(n int) entity.Mark {
	if n%2 == 0 {
		return entity.PlayerX
	}
	return entity.PlayerO
}
