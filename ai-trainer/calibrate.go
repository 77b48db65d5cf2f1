package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AndyCforreal/gomoku-game/engine"
)

type gameResult struct {
	Winner *engine.Side
	Plies  int
}

type levelReport struct {
	Level      int     `json:"level"`
	Label      string  `json:"label"`
	Randomness float64 `json:"randomness"`
	Games      int     `json:"games"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Draws      int     `json:"draws"`
	WinRate    float64 `json:"win_rate"`
	AvgPlies   float64 `json:"avg_plies"`
}

type calibrationReport struct {
	GeneratedAt          string        `json:"generated_at"`
	Seed                 int64         `json:"seed"`
	BoardSize            int           `json:"board_size"`
	ReferenceLevel       int           `json:"reference_level"`
	GamesPerLevel        int           `json:"games_per_level"`
	HeuristicFingerprint string        `json:"heuristic_fingerprint"`
	Levels               []levelReport `json:"levels"`
}

// gameSeed gives every (level, game) pair its own reproducible stream.
func gameSeed(base int64, level, game int) int64 {
	return base + int64(level)*100003 + int64(game)
}

// playSelfGame plays one game between two difficulty levels with a single
// seeded random source. Black moves first.
func playSelfGame(ctx context.Context, boardSize int, heuristics engine.HeuristicConfig, seed int64, black, white engine.Difficulty) (gameResult, error) {
	rules := engine.NewRules(engine.DefaultWinLength)
	source := engine.NewRandSource(seed)
	selector := engine.NewSelector(rules, engine.NewEvaluator(heuristics), source)
	board := engine.NewBoard(boardSize)
	side := engine.SideBlack
	plies := 0
	for {
		if err := ctx.Err(); err != nil {
			return gameResult{}, err
		}
		difficulty := black
		if side == engine.SideWhite {
			difficulty = white
		}
		choice, ok := selector.SelectMove(&board, side, difficulty)
		if !ok {
			return gameResult{Plies: plies}, nil
		}
		board.Set(choice.Point.Row, choice.Point.Col, side.Cell())
		plies++
		if _, won := rules.CheckWin(board, choice.Point.Row, choice.Point.Col, side); won {
			winner := side
			return gameResult{Winner: &winner, Plies: plies}, nil
		}
		if rules.IsDraw(board) {
			return gameResult{Plies: plies}, nil
		}
		side = side.Opponent()
	}
}

// calibrateLevel plays t.games games of level against the reference level,
// alternating colours so the challenger opens every other game.
func (t *trainer) calibrateLevel(ctx context.Context, level int) (levelReport, error) {
	challenger := engine.MustDifficulty(level)
	reference := engine.MustDifficulty(t.referenceLevel)
	report := levelReport{Level: level, Label: challenger.Label, Randomness: challenger.Randomness}
	totalPlies := 0
	for game := 0; game < t.games; game++ {
		challengerSide := engine.SideBlack
		black, white := challenger, reference
		if game%2 == 1 {
			challengerSide = engine.SideWhite
			black, white = reference, challenger
		}
		result, err := playSelfGame(ctx, t.boardSize, t.heuristics, gameSeed(t.seed, level, game), black, white)
		if err != nil {
			return report, err
		}
		report.Games++
		totalPlies += result.Plies
		switch {
		case result.Winner == nil:
			report.Draws++
		case *result.Winner == challengerSide:
			report.Wins++
		default:
			report.Losses++
		}
		t.updateStatus(func(s *trainerStatus) {
			s.GamesPlayed++
		})
	}
	if report.Games > 0 {
		report.WinRate = (float64(report.Wins) + 0.5*float64(report.Draws)) / float64(report.Games)
		report.AvgPlies = float64(totalPlies) / float64(report.Games)
	}
	return report, nil
}

func (t *trainer) runCalibration(ctx context.Context) (calibrationReport, error) {
	report := calibrationReport{
		Seed:                 t.seed,
		BoardSize:            t.boardSize,
		ReferenceLevel:       t.referenceLevel,
		GamesPerLevel:        t.games,
		HeuristicFingerprint: fmt.Sprintf("%016x", t.heuristics.Fingerprint()),
	}
	t.updateStatus(func(s *trainerStatus) {
		s.Phase = "running"
		s.Message = "calibration running"
		s.GamesTotal = t.games * engine.MaxDifficultyLevel
	})
	for level := engine.MinDifficultyLevel; level <= engine.MaxDifficultyLevel; level++ {
		t.updateStatus(func(s *trainerStatus) {
			s.CurrentLevel = level
		})
		started := time.Now()
		result, err := t.calibrateLevel(ctx, level)
		if err != nil {
			return report, err
		}
		report.Levels = append(report.Levels, result)
		t.logf("level %d (%s) vs %d: %d-%d-%d win_rate=%.2f avg_plies=%.1f in %s",
			level, result.Label, t.referenceLevel, result.Wins, result.Losses, result.Draws,
			result.WinRate, result.AvgPlies, time.Since(started).Round(time.Millisecond))
	}
	report.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	t.updateStatus(func(s *trainerStatus) {
		s.LastReport = &report
	})
	if t.reportPath != "" {
		if err := writeReport(t.reportPath, report); err != nil {
			return report, err
		}
		t.logf("report written to %s", t.reportPath)
	}
	return report, nil
}

func writeReport(path string, report calibrationReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func readHeuristicFile(path string) (engine.HeuristicConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.HeuristicConfig{}, err
	}
	var heuristics engine.HeuristicConfig
	if err := json.Unmarshal(data, &heuristics); err != nil {
		return engine.HeuristicConfig{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return heuristics.Resolve(), nil
}
