package main

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/AndyCforreal/gomoku-game/engine"
)

// Hub fans engine events out to websocket clients. It is the controller's
// Listener: callbacks only queue and never block, Run does the broadcasting.
type Hub struct {
	mu        sync.Mutex
	clients   map[*Client]struct{}
	broadcast chan hubEvent
	status    func() statusResponse

	sessionMu sync.Mutex
	// session is the id of the session whose events are arriving now.
	session string
}

type Client struct {
	hub  *Hub
	send chan []byte
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type hubEvent struct {
	kind      string
	sessionID string
	payload   any
	// withStatus follows the event with a status snapshot, provided the
	// snapshot still belongs to sessionID.
	withStatus bool
}

type boardPayload struct {
	SessionID string  `json:"session_id"`
	Board     [][]int `json:"board"`
	Empty     int     `json:"empty"`
}

type turnPayload struct {
	SessionID    string `json:"session_id"`
	Color        string `json:"color"`
	ComputerTurn bool   `json:"computer_turn"`
}

type gameOverPayload struct {
	SessionID   string         `json:"session_id"`
	Winner      string         `json:"winner"`
	Draw        bool           `json:"draw"`
	WinningLine []engine.Point `json:"winning_line"`
}

type challengePayload struct {
	SessionID string `json:"session_id"`
	Level     int    `json:"level"`
	Label     string `json:"label"`
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*Client]struct{}),
		broadcast: make(chan hubEvent, 256),
	}
}

// Attach points the hub at the controller it relays, for status snapshots.
// Call it before Run and before the controller raises events.
func (h *Hub) Attach(controller *engine.GameController) {
	h.status = func() statusResponse { return controllerStatus(controller) }
	h.setSession(controller.State().ID)
}

func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case event := <-h.broadcast:
			h.fanOut(event.kind, event.payload)
			if event.withStatus && h.status != nil {
				if status := h.status(); status.SessionID == event.sessionID {
					h.fanOut("status", status)
				}
			}
		}
	}
}

func (h *Hub) PublishStatus(status statusResponse) {
	h.publish(hubEvent{kind: "status", sessionID: status.SessionID, payload: status})
}

func (h *Hub) SessionStarted(sessionID string) {
	h.setSession(sessionID)
}

func (h *Hub) BoardChanged(board engine.Board) {
	id := h.currentSession()
	h.publish(hubEvent{kind: "board", sessionID: id, payload: boardPayload{SessionID: id, Board: board.Rows(), Empty: board.CountEmpty()}})
}

func (h *Hub) TurnChanged(side engine.Side, isComputerTurn bool) {
	id := h.currentSession()
	h.publish(hubEvent{
		kind:       "turn",
		sessionID:  id,
		payload:    turnPayload{SessionID: id, Color: colorName(side), ComputerTurn: isComputerTurn},
		withStatus: true,
	})
}

func (h *Hub) GameEnded(winner *engine.Side, winningLine []engine.Point) {
	id := h.currentSession()
	payload := gameOverPayload{SessionID: id, Draw: winner == nil, WinningLine: winningLine}
	if winner != nil {
		payload.Winner = colorName(*winner)
	}
	h.publish(hubEvent{kind: "game_over", sessionID: id, payload: payload, withStatus: true})
}

func (h *Hub) ChallengeInfoChanged(level int, difficultyLabel string) {
	id := h.currentSession()
	h.publish(hubEvent{kind: "challenge", sessionID: id, payload: challengePayload{SessionID: id, Level: level, Label: difficultyLabel}})
}

func (h *Hub) publish(event hubEvent) {
	select {
	case h.broadcast <- event:
	default:
		log.Printf("[backend] hub queue full, dropped %s event", event.kind)
	}
}

func (h *Hub) setSession(id string) {
	h.sessionMu.Lock()
	h.session = id
	h.sessionMu.Unlock()
}

func (h *Hub) currentSession() string {
	h.sessionMu.Lock()
	defer h.sessionMu.Unlock()
	return h.session
}

func (h *Hub) fanOut(kind string, payload any) {
	msg := wsMessage{Type: kind, Payload: mustMarshal(payload)}
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if !client.sendJSON(msg) {
			log.Printf("[backend] ws client slow, dropped %s event", kind)
		}
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (c *Client) sendJSON(msg wsMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}
