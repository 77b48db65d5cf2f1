package engine

import (
	"strings"
	"testing"
)

func TestNewBoardStartsEmpty(t *testing.T) {
	board := NewBoard(DefaultBoardSize)
	if board.Size() != 15 {
		t.Fatalf("expected size 15, got %d", board.Size())
	}
	if board.CountEmpty() != 225 {
		t.Fatalf("expected 225 empty cells, got %d", board.CountEmpty())
	}
	if board.IsFull() {
		t.Fatalf("expected empty board not to be full")
	}
}

func TestBoardIsFullAndReset(t *testing.T) {
	board := NewBoard(3)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			board.Set(row, col, CellBlack)
		}
	}
	if !board.IsFull() {
		t.Fatalf("expected filled board to be full")
	}
	board.Remove(1, 1)
	if board.IsFull() {
		t.Fatalf("expected board with one empty cell not to be full")
	}
	board.Reset()
	if board.CountEmpty() != 9 {
		t.Fatalf("expected reset board to be empty, got %d empty", board.CountEmpty())
	}
}

func TestBoardCloneIsIndependent(t *testing.T) {
	board := NewBoard(5)
	board.Set(2, 3, CellWhite)
	clone := board.Clone()
	clone.Set(0, 0, CellBlack)
	if board.At(0, 0) != CellEmpty {
		t.Fatalf("expected clone writes not to leak into the original")
	}
	if clone.At(2, 3) != CellWhite {
		t.Fatalf("expected clone to carry existing stones")
	}
	if board.Equal(clone) {
		t.Fatalf("expected boards to differ after clone write")
	}
}

func TestBoardOutOfBoundsPanics(t *testing.T) {
	cases := []struct {
		name string
		fn   func(b *Board)
	}{
		{"at negative row", func(b *Board) { b.At(-1, 0) }},
		{"at col past edge", func(b *Board) { b.At(0, 15) }},
		{"set row past edge", func(b *Board) { b.Set(15, 0, CellBlack) }},
		{"remove negative col", func(b *Board) { b.Remove(3, -1) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			board := NewBoard(DefaultBoardSize)
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic")
				}
			}()
			tc.fn(&board)
		})
	}
}

func TestBoardIsEmptyChecksBounds(t *testing.T) {
	board := NewBoard(5)
	if board.IsEmpty(5, 0) {
		t.Fatalf("expected out-of-range cell not to report empty")
	}
	if !board.IsEmpty(4, 4) {
		t.Fatalf("expected corner to be empty")
	}
}

func TestBoardString(t *testing.T) {
	board := NewBoard(3)
	board.Set(0, 0, CellBlack)
	board.Set(1, 2, CellWhite)
	want := strings.Join([]string{"x..", "..o", "...", ""}, "\n")
	if got := board.String(); got != want {
		t.Fatalf("unexpected rendering:\n%s\nwant:\n%s", got, want)
	}
	rows := board.Rows()
	if rows[0][0] != 1 || rows[1][2] != 2 || rows[2][2] != 0 {
		t.Fatalf("unexpected rows %v", rows)
	}
}
