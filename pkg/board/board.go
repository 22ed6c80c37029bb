package board

import (
	"errors"
	"fmt"
	"strings"
)

// Size is the number of cells on the board.
const Size = 9

// Empty marks a cell no player has taken.
const Empty = " "

// ErrInvalidMove is returned when a move targets an occupied cell or an index outside the board.
var ErrInvalidMove = errors.New("invalid move")

// winLines holds the 3 rows, 3 columns and 2 diagonals.
var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Board is a 3x3 grid stored row-major. Boards are values, so passing one around never
// shares cells with the caller.
type Board [Size]string

// New returns an empty board.
func New() Board {
	var b Board
	for i := range b {
		b[i] = Empty
	}
	return b
}

// Normalize builds a Board from external cells, treating anything that is not one of the two
// active symbols as Empty. Missing trailing cells are Empty as well.
func Normalize(cells []string, a, b string) Board {
	board := New()
	for i := 0; i < Size && i < len(cells); i++ {
		if cells[i] == a || cells[i] == b {
			board[i] = cells[i]
		}
	}
	return board
}

// Winner reports whether symbol holds every cell of any winning line.
func (b Board) Winner(symbol string) bool {
	for _, line := range winLines {
		if b[line[0]] == symbol && b[line[1]] == symbol && b[line[2]] == symbol {
			return true
		}
	}
	return false
}

// IsFull reports whether no Empty cell is left.
func (b Board) IsFull() bool {
	for _, cell := range b {
		if cell == Empty {
			return false
		}
	}
	return true
}

// AvailableMoves returns the Empty cell indices in ascending order.
func (b Board) AvailableMoves() []int {
	moves := make([]int, 0, Size)
	for i, cell := range b {
		if cell == Empty {
			moves = append(moves, i)
		}
	}
	return moves
}

// IsValidMove reports whether index is on the board and Empty.
func (b Board) IsValidMove(index int) bool {
	return index >= 0 && index < Size && b[index] == Empty
}

// ApplyMove returns a copy of the board with symbol placed at index.
func (b Board) ApplyMove(index int, symbol string) (Board, error) {
	if index < 0 || index >= Size {
		return b, fmt.Errorf("%w: index %d is out of range 0-%d", ErrInvalidMove, index, Size-1)
	}
	if b[index] != Empty {
		return b, fmt.Errorf("%w: cell %d is already taken by %q", ErrInvalidMove, index, b[index])
	}

	next := b
	next[index] = symbol
	return next, nil
}

// Cells returns the board as a slice, for encoding.
func (b Board) Cells() []string {
	cells := make([]string, Size)
	copy(cells, b[:])
	return cells
}

func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString("---|---|---\n")
		}
		fmt.Fprintf(&sb, " %s | %s | %s \n", b[row*3], b[row*3+1], b[row*3+2])
	}
	return sb.String()
}
