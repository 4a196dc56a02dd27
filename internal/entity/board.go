package entity

// Mark is the content of a single cell.
type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

// BoardSize is the number of cells on the 3x3 grid.
const BoardSize = 9

// Board is a row-major snapshot of the grid. It is a value type: placing a mark
// returns a new board and leaves the receiver intact.
type Board [BoardSize]Mark

func (that Board) With(cell int, mark Mark) Board {
	that[cell] = mark
	return that
}

func (that Board) IsEmpty(cell int) bool {
	return that[cell] == EmptyCell
}

// Opponent returns the other mark. Any value other than PlayerX maps to PlayerX.
func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that Mark) IsValid() bool {
	return that == PlayerX || that == PlayerO
}
