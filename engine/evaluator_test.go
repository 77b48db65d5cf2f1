package engine

import (
	"math"
	"testing"
)

func assertScore(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("expected score %.2f, got %.2f", want, got)
	}
}

func TestEvaluateEmptyBoardFavoursCenter(t *testing.T) {
	evaluator := NewEvaluator(DefaultHeuristics())
	board := NewBoard(DefaultBoardSize)
	assertScore(t, evaluator.Evaluate(board, 7, 7, SideBlack), 56)
	assertScore(t, evaluator.Evaluate(board, 0, 0, SideBlack), 28)
	assertScore(t, evaluator.Evaluate(board, 14, 14, SideWhite), 28)
	if evaluator.Evaluate(board, 7, 8, SideBlack) >= evaluator.Evaluate(board, 7, 7, SideBlack) {
		t.Fatalf("expected the center to score highest")
	}
}

func TestEvaluateOpenAndClosedThree(t *testing.T) {
	evaluator := NewEvaluator(DefaultHeuristics())
	board := NewBoard(DefaultBoardSize)
	board.Set(7, 5, CellBlack)
	board.Set(7, 6, CellBlack)
	assertScore(t, evaluator.Evaluate(board, 7, 7, SideBlack), 5056)

	board.Set(7, 4, CellWhite)
	assertScore(t, evaluator.Evaluate(board, 7, 7, SideBlack), 156)
}

func TestEvaluateWeightsDefense(t *testing.T) {
	evaluator := NewEvaluator(DefaultHeuristics())
	board := NewBoard(DefaultBoardSize)
	board.Set(7, 5, CellBlack)
	board.Set(7, 6, CellBlack)
	assertScore(t, evaluator.Evaluate(board, 7, 7, SideWhite), 5556)
}

func TestLineScoreEdgeCountsAsOpen(t *testing.T) {
	evaluator := NewEvaluator(DefaultHeuristics())
	board := NewBoard(DefaultBoardSize)
	board.Set(0, 1, CellWhite)
	board.Set(0, 2, CellWhite)
	board.Set(0, 3, CellWhite)
	assertScore(t, evaluator.LineScore(board, 0, 0, SideWhite), 50000)

	board.Set(0, 4, CellBlack)
	assertScore(t, evaluator.LineScore(board, 0, 0, SideWhite), 1000)
}

func TestLineScoreSumsDirections(t *testing.T) {
	evaluator := NewEvaluator(DefaultHeuristics())
	board := NewBoard(DefaultBoardSize)
	board.Set(7, 6, CellBlack)
	board.Set(6, 7, CellBlack)
	assertScore(t, evaluator.LineScore(board, 7, 7, SideBlack), 1000)
}

func TestLineScoreFiveOrMore(t *testing.T) {
	evaluator := NewEvaluator(DefaultHeuristics())
	board := NewBoard(DefaultBoardSize)
	for _, col := range []int{2, 3, 4, 6, 7} {
		board.Set(7, col, CellBlack)
	}
	assertScore(t, evaluator.LineScore(board, 7, 5, SideBlack), 1e6)
}

func TestCustomWeightsResolveMissingFields(t *testing.T) {
	evaluator := NewEvaluator(HeuristicConfig{Open3: 7})
	weights := evaluator.Weights()
	if weights.Open3 != 7 {
		t.Fatalf("expected custom open3 weight to survive, got %v", weights.Open3)
	}
	if weights.Five != DefaultHeuristics().Five || weights.CenterWeight != 2 {
		t.Fatalf("expected missing weights to take defaults, got %+v", weights)
	}
	if DefaultHeuristics().Fingerprint() == weights.Fingerprint() {
		t.Fatalf("expected fingerprints to differ for different weights")
	}
}
