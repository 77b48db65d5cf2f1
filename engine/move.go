package engine

import (
	"fmt"
	"strings"
)

type Side int

const (
	SideBlack Side = iota + 1
	SideWhite
)

func (s Side) Opponent() Side {
	if s == SideBlack {
		return SideWhite
	}
	return SideBlack
}

func (s Side) Cell() Cell {
	if s == SideBlack {
		return CellBlack
	}
	return CellWhite
}

func (s Side) String() string {
	switch s {
	case SideBlack:
		return "Black"
	case SideWhite:
		return "White"
	default:
		return "None"
	}
}

// ParseSide accepts "black" or "white" in any case.
func ParseSide(value string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "black":
		return SideBlack, nil
	case "white":
		return SideWhite, nil
	}
	return 0, fmt.Errorf("unknown side %q", value)
}

func SideFromCell(cell Cell) (Side, bool) {
	switch cell {
	case CellBlack:
		return SideBlack, true
	case CellWhite:
		return SideWhite, true
	default:
		return 0, false
	}
}

type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Point) IsValid(boardSize int) bool {
	return p.Row >= 0 && p.Col >= 0 && p.Row < boardSize && p.Col < boardSize
}

type Move struct {
	Row  int  `json:"row"`
	Col  int  `json:"col"`
	Side Side `json:"side"`
}

func (m Move) Point() Point {
	return Point{Row: m.Row, Col: m.Col}
}
