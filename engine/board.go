package engine

import (
	"fmt"
	"strings"
)

const DefaultBoardSize = 15

type Cell int

const (
	CellEmpty Cell = iota
	CellBlack
	CellWhite
)

// Board is a square grid stored row-major. Coordinates outside [0, size)
// are a caller bug and panic.
type Board struct {
	size  int
	cells []Cell
}

func NewBoard(boardSize int) Board {
	if boardSize <= 0 {
		panic(fmt.Sprintf("engine: invalid board size %d", boardSize))
	}
	b := Board{size: boardSize}
	b.cells = make([]Cell, boardSize*boardSize)
	return b
}

func (b *Board) Reset() {
	for i := range b.cells {
		b.cells[i] = CellEmpty
	}
}

func (b Board) At(row, col int) Cell {
	return b.cells[b.index(row, col)]
}

func (b *Board) Set(row, col int, value Cell) {
	b.cells[b.index(row, col)] = value
}

func (b *Board) Remove(row, col int) {
	b.cells[b.index(row, col)] = CellEmpty
}

func (b Board) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < b.size && col < b.size
}

func (b Board) IsEmpty(row, col int) bool {
	return b.InBounds(row, col) && b.At(row, col) == CellEmpty
}

func (b Board) IsFull() bool {
	for _, cell := range b.cells {
		if cell == CellEmpty {
			return false
		}
	}
	return true
}

func (b Board) CountEmpty() int {
	count := 0
	for _, cell := range b.cells {
		if cell == CellEmpty {
			count++
		}
	}
	return count
}

func (b Board) Size() int {
	return b.size
}

func (b Board) Clone() Board {
	clone := Board{size: b.size}
	clone.cells = make([]Cell, len(b.cells))
	copy(clone.cells, b.cells)
	return clone
}

func (b Board) Equal(other Board) bool {
	if b.size != other.size || len(b.cells) != len(other.cells) {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Rows returns the board as a row-major matrix of 0 (empty), 1 (black) and 2 (white).
func (b Board) Rows() [][]int {
	rows := make([][]int, b.size)
	for row := 0; row < b.size; row++ {
		rows[row] = make([]int, b.size)
		for col := 0; col < b.size; col++ {
			rows[row][col] = int(b.At(row, col))
		}
	}
	return rows
}

func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < b.size; row++ {
		for col := 0; col < b.size; col++ {
			switch b.At(row, col) {
			case CellBlack:
				sb.WriteByte('x')
			case CellWhite:
				sb.WriteByte('o')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b Board) index(row, col int) int {
	if !b.InBounds(row, col) {
		panic(fmt.Sprintf("engine: cell (%d,%d) outside %dx%d board", row, col, b.size, b.size))
	}
	return row*b.size + col
}

func (c Cell) String() string {
	switch c {
	case CellBlack:
		return "Black"
	case CellWhite:
		return "White"
	default:
		return "Empty"
	}
}
