package engine

import "fmt"

const DefaultWinLength = 5

// directions is the fixed scan order: horizontal, vertical, diagonal-down,
// diagonal-up. Selection and win reporting depend on it staying stable.
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

type Rules struct {
	winLength int
}

func NewRules(winLength int) Rules {
	if winLength <= 0 {
		winLength = DefaultWinLength
	}
	return Rules{winLength: winLength}
}

func (r Rules) WinLength() int {
	return r.winLength
}

// CheckWin reports whether the stone of side at (row, col) completes a run of
// at least WinLength. The returned line is ordered from one end of the run
// to the other and includes (row, col).
func (r Rules) CheckWin(board Board, row, col int, side Side) ([]Point, bool) {
	target := side.Cell()
	if board.At(row, col) != target {
		return nil, false
	}
	for i := 0; i < 4; i++ {
		dr := directions[i][0]
		dc := directions[i][1]
		count := 1 + r.countDirection(board, row, col, dr, dc, target) + r.countDirection(board, row, col, -dr, -dc, target)
		if count >= r.winLength {
			return r.collectLine(board, row, col, dr, dc, target), true
		}
	}
	return nil, false
}

// Probe places a stone of side at the empty cell (row, col), runs fn and
// restores the cell before returning.
func (r Rules) Probe(board *Board, row, col int, side Side, fn func(Board) bool) bool {
	if board.At(row, col) != CellEmpty {
		panic(fmt.Sprintf("engine: probe on occupied cell (%d,%d)", row, col))
	}
	board.Set(row, col, side.Cell())
	defer board.Remove(row, col)
	return fn(*board)
}

// WinningMove scans empty cells in row-major order and returns the first one
// that would complete a line for side.
func (r Rules) WinningMove(board *Board, side Side) (Point, bool) {
	size := board.Size()
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if board.At(row, col) != CellEmpty {
				continue
			}
			wins := r.Probe(board, row, col, side, func(probed Board) bool {
				_, ok := r.CheckWin(probed, row, col, side)
				return ok
			})
			if wins {
				return Point{Row: row, Col: col}, true
			}
		}
	}
	return Point{}, false
}

func (r Rules) IsDraw(board Board) bool {
	return board.IsFull()
}

func (r Rules) countDirection(board Board, row, col, dr, dc int, target Cell) int {
	count := 0
	row += dr
	col += dc
	for board.InBounds(row, col) && board.At(row, col) == target {
		count++
		row += dr
		col += dc
	}
	return count
}

func (r Rules) collectLine(board Board, row, col, dr, dc int, target Cell) []Point {
	for board.InBounds(row-dr, col-dc) && board.At(row-dr, col-dc) == target {
		row -= dr
		col -= dc
	}
	line := []Point{}
	for board.InBounds(row, col) && board.At(row, col) == target {
		line = append(line, Point{Row: row, Col: col})
		row += dr
		col += dc
	}
	return line
}

func (r Rules) String() string {
	return fmt.Sprintf("Rules{win=%d}", r.winLength)
}
