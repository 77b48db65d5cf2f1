package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AndyCforreal/gomoku-game/engine"
)

func newTestTrainer(t *testing.T) *trainer {
	t.Helper()
	tr := newTrainer(log.New(io.Discard, "", 0))
	tr.games = 2
	tr.boardSize = 9
	tr.seed = 11
	tr.referenceLevel = 5
	tr.reportPath = ""
	return tr
}

func TestPlaySelfGameIsReproducible(t *testing.T) {
	ctx := context.Background()
	black := engine.MustDifficulty(1)
	white := engine.MustDifficulty(10)
	first, err := playSelfGame(ctx, 9, engine.DefaultHeuristics(), 42, black, white)
	if err != nil {
		t.Fatalf("playSelfGame failed: %v", err)
	}
	second, err := playSelfGame(ctx, 9, engine.DefaultHeuristics(), 42, black, white)
	if err != nil {
		t.Fatalf("playSelfGame failed: %v", err)
	}
	if first.Plies != second.Plies || (first.Winner == nil) != (second.Winner == nil) {
		t.Fatalf("expected identical games, got %+v and %+v", first, second)
	}
	if first.Winner != nil && *first.Winner != *second.Winner {
		t.Fatalf("expected identical winners")
	}
	if first.Plies < 9 || first.Plies > 81 {
		t.Fatalf("unexpected game length %d", first.Plies)
	}
}

func TestPlaySelfGameTinyBoardDraws(t *testing.T) {
	result, err := playSelfGame(context.Background(), 3, engine.DefaultHeuristics(), 1, engine.MustDifficulty(10), engine.MustDifficulty(10))
	if err != nil {
		t.Fatalf("playSelfGame failed: %v", err)
	}
	if result.Winner != nil || result.Plies != 9 {
		t.Fatalf("expected a full-board draw, got %+v", result)
	}
}

func TestPlaySelfGameHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := playSelfGame(ctx, 9, engine.DefaultHeuristics(), 1, engine.MustDifficulty(1), engine.MustDifficulty(1)); err == nil {
		t.Fatalf("expected a cancelled game to fail")
	}
}

func TestRunCalibrationWritesReport(t *testing.T) {
	tr := newTestTrainer(t)
	tr.reportPath = filepath.Join(t.TempDir(), "reports", "calibration.json")
	report, err := tr.runCalibration(context.Background())
	if err != nil {
		t.Fatalf("runCalibration failed: %v", err)
	}
	if len(report.Levels) != engine.MaxDifficultyLevel {
		t.Fatalf("expected every level, got %d", len(report.Levels))
	}
	for _, level := range report.Levels {
		if level.Wins+level.Losses+level.Draws != 2 || level.Games != 2 {
			t.Fatalf("unexpected totals %+v", level)
		}
		if level.WinRate < 0 || level.WinRate > 1 {
			t.Fatalf("unexpected win rate %+v", level)
		}
	}
	data, err := os.ReadFile(tr.reportPath)
	if err != nil {
		t.Fatalf("read report failed: %v", err)
	}
	var written calibrationReport
	if err := json.Unmarshal(data, &written); err != nil {
		t.Fatalf("decode report failed: %v", err)
	}
	if written.Seed != 11 || written.ReferenceLevel != 5 || written.HeuristicFingerprint == "" {
		t.Fatalf("unexpected report header %+v", written)
	}
	if tr.getStatus().GamesPlayed != 2*engine.MaxDifficultyLevel {
		t.Fatalf("expected progress to count every game, got %d", tr.getStatus().GamesPlayed)
	}
}

func TestStatusAPI(t *testing.T) {
	tr := newTestTrainer(t)
	handler := tr.router()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trainer/report", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected no report yet, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/trainer/stop", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected stop without a job to conflict, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/trainer/start", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected start accepted, got %d", rec.Code)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := tr.waitIdle(ctx); err != nil {
		t.Fatalf("calibration did not finish: %v", err)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trainer/status", nil))
	var status trainerStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status failed: %v", err)
	}
	if status.Running || status.Phase != "idle" || status.LastReport == nil {
		t.Fatalf("unexpected status after calibration %+v", status)
	}
}

func TestGetenvInt(t *testing.T) {
	t.Setenv("TRAINER_GAMES", "12")
	if got := getenvInt("TRAINER_GAMES", 3); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
	t.Setenv("TRAINER_GAMES", "abc")
	if got := getenvInt("TRAINER_GAMES", 3); got != 3 {
		t.Fatalf("expected fallback, got %d", got)
	}
}
