package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/AndyCforreal/gomoku-game/engine"
)

type statusResponse struct {
	SessionID         string            `json:"session_id"`
	Mode              string            `json:"mode"`
	ChallengeLevel    int               `json:"challenge_level"`
	ChallengeComplete bool              `json:"challenge_complete"`
	Difficulty        engine.Difficulty `json:"difficulty"`
	PlayerColor       string            `json:"player_color"`
	ComputerColor     string            `json:"computer_color"`
	NextColor         string            `json:"next_color"`
	Status            string            `json:"status"`
	ComputerThinking  bool              `json:"computer_thinking"`
	Winner            string            `json:"winner"`
	BoardSize         int               `json:"board_size"`
	Board             [][]int           `json:"board"`
	WinningLine       []engine.Point    `json:"winning_line"`
	History           []historyEntryDTO `json:"history"`
	Config            Config            `json:"config"`
}

type historyEntryDTO struct {
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	Color      string `json:"color"`
	IsComputer bool   `json:"is_computer"`
	Rule       string `json:"rule,omitempty"`
}

type undoResponse struct {
	Undone bool           `json:"undone"`
	Status statusResponse `json:"status"`
}

type settingsPayload struct {
	Config Config `json:"config"`
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func main() {
	config := DefaultConfig()
	if path := getenv("GOMOKU_CONFIG", ""); path != "" {
		loaded, err := LoadConfigFile(path)
		if err != nil {
			log.Fatalf("[backend] %v", err)
		}
		config = loaded
		log.Printf("[backend] config loaded from %s", path)
	}
	configStore.Update(config)

	settings := engine.DefaultGameSettings()
	settings.BoardSize = getenvInt("GOMOKU_BOARD_SIZE", engine.DefaultBoardSize)
	settings.Heuristics = config.Heuristics

	hub := NewHub()
	controller, err := engine.NewGameController(settings, engine.ControllerOptions{
		Listener:      hub,
		Logger:        engineLogger(config),
		ComputerDelay: config.ComputerDelay(),
	})
	if err != nil {
		log.Fatalf("[backend] invalid game settings: %v", err)
	}
	defer controller.Close()
	hub.Attach(controller)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx.Done())
	controller.RequestNewGame()

	addr := getenv("ADDR", ":8080")
	server := &http.Server{
		Addr:    addr,
		Handler: newRouter(controller, hub),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Printf("[backend] listening on %s", addr)
	var runErr error
	select {
	case <-sigCtx.Done():
		log.Printf("[backend] shutdown signal received: %v", sigCtx.Err())
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			log.Printf("[backend] server error: %v", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[backend] graceful shutdown failed: %v", err)
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.Printf("[backend] forced close failed: %v", closeErr)
		}
	}
	controller.Close()
	cancel()
	if runErr != nil {
		log.Printf("[backend] exiting after server error: %v", runErr)
	}
}

func engineLogger(config Config) *slog.Logger {
	if !config.EngineLog {
		return nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newRouter(controller *engine.GameController, hub *Hub) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	respond := func(w http.ResponseWriter) {
		status := controllerStatus(controller)
		hub.PublishStatus(status)
		writeJSON(w, http.StatusOK, status)
	}

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Get("/api/difficulties", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, engine.Difficulties())
	})

	r.Post("/api/move", func(w http.ResponseWriter, r *http.Request) {
		var payload engine.Point
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		applied, reason := controller.RequestPlayerMove(payload.Row, payload.Col)
		if !applied {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": reason})
			return
		}
		respond(w)
	})

	r.Post("/api/new", func(w http.ResponseWriter, r *http.Request) {
		controller.RequestNewGame()
		respond(w)
	})

	r.Post("/api/restart", func(w http.ResponseWriter, r *http.Request) {
		controller.RequestRestart()
		respond(w)
	})

	r.Post("/api/undo", func(w http.ResponseWriter, r *http.Request) {
		undone := controller.RequestUndo()
		status := controllerStatus(controller)
		if undone {
			hub.PublishStatus(status)
		}
		writeJSON(w, http.StatusOK, undoResponse{Undone: undone, Status: status})
	})

	r.Post("/api/next-level", func(w http.ResponseWriter, r *http.Request) {
		advanced, reason := controller.RequestNextLevel()
		if !advanced {
			writeJSON(w, http.StatusConflict, map[string]string{"error": reason})
			return
		}
		respond(w)
	})

	r.Post("/api/mode", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Mode string `json:"mode"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		mode, err := engine.ParseMode(payload.Mode)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		controller.SetMode(mode)
		respond(w)
	})

	r.Post("/api/color", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Color string `json:"color"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		side, err := engine.ParseSide(payload.Color)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if !controller.SetPlayerColor(side) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "colour is fixed in challenge mode"})
			return
		}
		respond(w)
	})

	r.Post("/api/difficulty", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Level int `json:"level"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		changed, reason := controller.SetDifficulty(payload.Level)
		if !changed {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": reason})
			return
		}
		respond(w)
	})

	r.Get("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, settingsPayload{Config: GetConfig()})
	})

	r.Post("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Config *Config `json:"config"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Config == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		config := *payload.Config
		config.Heuristics = config.Heuristics.Resolve()
		if err := config.Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		configStore.Update(config)
		controller.SetComputerDelay(config.ComputerDelay())
		controller.UpdateHeuristics(config.Heuristics)
		result := settingsPayload{Config: GetConfig()}
		hub.publish(hubEvent{kind: "settings", payload: result})
		writeJSON(w, http.StatusOK, result)
	})

	r.Get("/ws/", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, controller, w, r)
	})

	return r
}

func serveWS(hub *Hub, controller *engine.GameController, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{hub: hub, send: make(chan []byte, 32)}
	hub.Register(client)

	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(controller))})

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			return
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(controller))})
		}
	}
}

func controllerStatus(controller *engine.GameController) statusResponse {
	state := controller.State()
	winner := ""
	if side, ok := state.Winner(); ok {
		winner = colorName(side)
	}
	line := state.WinningLine
	if line == nil {
		line = []engine.Point{}
	}
	return statusResponse{
		SessionID:         state.ID,
		Mode:              state.Mode.String(),
		ChallengeLevel:    state.ChallengeLevel,
		ChallengeComplete: state.ChallengeComplete(),
		Difficulty:        state.Difficulty,
		PlayerColor:       colorName(state.PlayerSide),
		ComputerColor:     colorName(state.ComputerSide),
		NextColor:         colorName(state.ToMove),
		Status:            state.Status.String(),
		ComputerThinking:  state.IsComputerTurn(),
		Winner:            winner,
		BoardSize:         state.Board.Size(),
		Board:             state.Board.Rows(),
		WinningLine:       line,
		History:           historyToDTO(state.History),
		Config:            GetConfig(),
	}
}

func historyToDTO(history engine.MoveHistory) []historyEntryDTO {
	entries := history.All()
	result := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		result = append(result, historyEntryDTO{
			Row:        entry.Move.Row,
			Col:        entry.Move.Col,
			Color:      colorName(entry.Move.Side),
			IsComputer: entry.IsComputer,
			Rule:       string(entry.Rule),
		})
	}
	return result
}

func colorName(side engine.Side) string {
	return strings.ToLower(side.String())
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
