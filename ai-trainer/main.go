package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/AndyCforreal/gomoku-game/engine"
)

type trainer struct {
	logger         *log.Logger
	games          int
	seed           int64
	boardSize      int
	referenceLevel int
	reportPath     string
	apiAddr        string
	heuristics     engine.HeuristicConfig

	statusMu  sync.RWMutex
	status    trainerStatus
	jobMu     sync.Mutex
	jobCancel context.CancelFunc
	jobDone   chan struct{}
}

type trainerStatus struct {
	Running      bool               `json:"running"`
	Phase        string             `json:"phase"`
	Message      string             `json:"message"`
	StartedAt    string             `json:"started_at"`
	UpdatedAt    string             `json:"updated_at"`
	CurrentLevel int                `json:"current_level"`
	GamesPlayed  int                `json:"games_played"`
	GamesTotal   int                `json:"games_total"`
	LastReport   *calibrationReport `json:"last_report,omitempty"`
}

func main() {
	logger, closeLog, err := buildLogger(getenv("TRAINER_LOG_PATH", ""))
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer closeLog()

	t := newTrainer(logger)
	if path := getenv("TRAINER_HEURISTICS_PATH", ""); path != "" {
		heuristics, err := readHeuristicFile(path)
		if err != nil {
			log.Fatalf("failed to read heuristics: %v", err)
		}
		t.heuristics = heuristics
	}
	t.logf("AI trainer started. games=%d seed=%d board=%d reference=%d", t.games, t.seed, t.boardSize, t.referenceLevel)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	if t.apiAddr == "" {
		if _, err := t.runCalibration(sigCtx); err != nil {
			t.logf("calibration stopped: %v", err)
		}
		return
	}

	server := &http.Server{Addr: t.apiAddr, Handler: t.router()}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.logf("trainer api server error: %v", err)
		}
	}()
	if err := t.startCalibration(); err != nil {
		t.logf("start failed: %v", err)
	}
	<-sigCtx.Done()
	_ = t.stopCalibration("shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	t.logf("Trainer service stopping")
}

func newTrainer(logger *log.Logger) *trainer {
	games := getenvInt("TRAINER_GAMES", 20)
	boardSize := getenvInt("TRAINER_BOARD_SIZE", engine.DefaultBoardSize)
	now := time.Now().UTC().Format(time.RFC3339)
	return &trainer{
		logger:         logger,
		games:          games,
		seed:           int64(getenvInt("TRAINER_SEED", 1)),
		boardSize:      boardSize,
		referenceLevel: engine.ClampLevel(getenvInt("TRAINER_REFERENCE_LEVEL", engine.NormalDifficultyLevel)),
		reportPath:     getenv("TRAINER_REPORT_PATH", ""),
		apiAddr:        getenv("TRAINER_API_ADDR", ""),
		heuristics:     engine.DefaultHeuristics(),
		status: trainerStatus{
			Phase:     "idle",
			Message:   "service ready",
			StartedAt: now,
			UpdatedAt: now,
		},
	}
}

func (t *trainer) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/api/trainer/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "running": t.getStatus().Running})
	})
	r.Get("/api/trainer/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, t.getStatus())
	})
	r.Get("/api/trainer/report", func(w http.ResponseWriter, r *http.Request) {
		status := t.getStatus()
		if status.LastReport == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no report yet"})
			return
		}
		writeJSON(w, http.StatusOK, status.LastReport)
	})
	r.Post("/api/trainer/start", func(w http.ResponseWriter, r *http.Request) {
		if err := t.startCalibration(); err != nil {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, t.getStatus())
	})
	r.Post("/api/trainer/stop", func(w http.ResponseWriter, r *http.Request) {
		if err := t.stopCalibration("requested via api"); err != nil {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, t.getStatus())
	})
	return r
}

func (t *trainer) getStatus() trainerStatus {
	t.statusMu.RLock()
	defer t.statusMu.RUnlock()
	return t.status
}

func (t *trainer) updateStatus(mutator func(*trainerStatus)) {
	t.statusMu.Lock()
	defer t.statusMu.Unlock()
	mutator(&t.status)
	t.status.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}

// startCalibration runs one calibration in the background.
func (t *trainer) startCalibration() error {
	t.jobMu.Lock()
	defer t.jobMu.Unlock()
	if t.jobCancel != nil {
		return fmt.Errorf("calibration already running")
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	t.jobCancel = cancel
	t.jobDone = done
	t.updateStatus(func(s *trainerStatus) {
		s.Running = true
		s.Phase = "starting"
		s.Message = "calibration starting"
		s.GamesPlayed = 0
		s.CurrentLevel = 0
	})
	go func() {
		defer close(done)
		if _, err := t.runCalibration(ctx); err != nil && !errors.Is(err, context.Canceled) {
			t.updateStatus(func(s *trainerStatus) {
				s.Phase = "error"
				s.Message = err.Error()
			})
		}
		t.updateStatus(func(s *trainerStatus) {
			s.Running = false
			if s.Phase != "error" {
				s.Phase = "idle"
				s.Message = "service ready"
			}
		})
		t.jobMu.Lock()
		t.jobCancel = nil
		t.jobDone = nil
		t.jobMu.Unlock()
	}()
	return nil
}

func (t *trainer) stopCalibration(reason string) error {
	t.jobMu.Lock()
	cancel := t.jobCancel
	done := t.jobDone
	t.jobMu.Unlock()
	if cancel == nil {
		return fmt.Errorf("no running calibration")
	}
	t.logf("Stopping calibration: %s", reason)
	cancel()
	if done != nil {
		<-done
	}
	return nil
}

// waitIdle blocks until the background calibration finishes or ctx ends.
func (t *trainer) waitIdle(ctx context.Context) error {
	t.jobMu.Lock()
	done := t.jobDone
	t.jobMu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// buildLogger logs to stdout, and also appends to path when one is given.
func buildLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(os.Stdout, "", 0), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := log.New(io.MultiWriter(os.Stdout, f), "", 0)
	return logger, func() { _ = f.Close() }, nil
}

func (t *trainer) logf(format string, args ...any) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	t.logger.Printf("[%s] %s", ts, fmt.Sprintf(format, args...))
}

func getenv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var parsed int
	if _, err := fmt.Sscanf(value, "%d", &parsed); err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
