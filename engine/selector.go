package engine

import (
	"math"
	"math/rand"
	"time"
)

// RandSource is the subset of *rand.Rand the selector draws from.
type RandSource interface {
	Float64() float64
	Intn(n int) int
}

func NewRandSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func NewTimeSeededRand() *rand.Rand {
	return NewRandSource(time.Now().UnixNano())
}

type SelectionRule string

const (
	RuleRandom   SelectionRule = "random"
	RuleWin      SelectionRule = "win"
	RuleBlock    SelectionRule = "block"
	RuleEvaluate SelectionRule = "evaluate"
)

type Choice struct {
	Point Point         `json:"point"`
	Rule  SelectionRule `json:"rule"`
	// Score is the evaluation of Point; only set for RuleEvaluate.
	Score float64 `json:"score,omitempty"`
}

// Selector is the computer's single-ply move policy. It is not safe for
// concurrent use: it shares the random source and probes the board in place.
type Selector struct {
	rules     Rules
	evaluator Evaluator
	rand      RandSource
}

func NewSelector(rules Rules, evaluator Evaluator, source RandSource) *Selector {
	if source == nil {
		source = NewTimeSeededRand()
	}
	return &Selector{rules: rules, evaluator: evaluator, rand: source}
}

func (s *Selector) SetEvaluator(evaluator Evaluator) {
	s.evaluator = evaluator
}

func (s *Selector) Evaluator() Evaluator {
	return s.evaluator
}

// SelectMove picks the computer's next cell. The board is probed in place and
// restored before returning. ok is false only when the board is full.
func (s *Selector) SelectMove(board *Board, computer Side, difficulty Difficulty) (Choice, bool) {
	if s.rand.Float64() < difficulty.Randomness {
		if p, ok := s.RandomMove(*board); ok {
			return Choice{Point: p, Rule: RuleRandom}, true
		}
		return Choice{}, false
	}
	if p, ok := s.rules.WinningMove(board, computer); ok {
		return Choice{Point: p, Rule: RuleWin}, true
	}
	if p, ok := s.rules.WinningMove(board, computer.Opponent()); ok {
		return Choice{Point: p, Rule: RuleBlock}, true
	}
	return s.BestEvaluatedMove(*board, computer)
}

// SelectForSession runs SelectMove against a session's own board and sides.
func (s *Selector) SelectForSession(state *GameState) (Choice, bool) {
	return s.SelectMove(&state.Board, state.ComputerSide, state.Difficulty)
}

func (s *Selector) RandomMove(board Board) (Point, bool) {
	empty := make([]Point, 0, board.CountEmpty())
	size := board.Size()
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if board.At(row, col) == CellEmpty {
				empty = append(empty, Point{Row: row, Col: col})
			}
		}
	}
	if len(empty) == 0 {
		return Point{}, false
	}
	return empty[s.rand.Intn(len(empty))], true
}

// BestEvaluatedMove returns the empty cell with the strictly greatest
// evaluation; the first one in row-major order wins ties.
func (s *Selector) BestEvaluatedMove(board Board, computer Side) (Choice, bool) {
	best := Choice{Rule: RuleEvaluate, Score: math.Inf(-1)}
	found := false
	size := board.Size()
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if board.At(row, col) != CellEmpty {
				continue
			}
			score := s.evaluator.Evaluate(board, row, col, computer)
			if !found || score > best.Score {
				best.Point = Point{Row: row, Col: col}
				best.Score = score
				found = true
			}
		}
	}
	if !found {
		return Choice{}, false
	}
	return best, true
}
