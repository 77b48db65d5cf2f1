package main

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/AndyCforreal/gomoku-game/engine"
)

func TestHubTagsQueuedEventsWithTheirOwnSession(t *testing.T) {
	hub := NewHub()
	controller, err := engine.NewGameController(engine.DefaultGameSettings(), engine.ControllerOptions{
		Listener:      hub,
		Rand:          engine.NewRandSource(1),
		ComputerDelay: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewGameController failed: %v", err)
	}
	t.Cleanup(controller.Close)
	hub.Attach(controller)
	client := &Client{hub: hub, send: make(chan []byte, 64)}
	hub.Register(client)

	controller.RequestNewGame()
	first := controller.State().ID
	if ok, reason := controller.RequestPlayerMove(7, 7); !ok {
		t.Fatalf("expected move accepted, got %q", reason)
	}
	controller.RequestNewGame()
	second := controller.State().ID
	if first == second {
		t.Fatalf("expected two distinct sessions")
	}

	// Broadcasting starts only after the second session has begun.
	done := make(chan struct{})
	defer close(done)
	go hub.Run(done)

	tags := map[string][]string{}
	for i := 0; i < 7; i++ {
		var data []byte
		select {
		case data = <-client.send:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out after %d messages, got %v", i, tags)
		}
		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decode message failed: %v", err)
		}
		var tagged struct {
			SessionID string `json:"session_id"`
		}
		if err := json.Unmarshal(msg.Payload, &tagged); err != nil {
			t.Fatalf("decode payload failed: %v", err)
		}
		tags[msg.Type] = append(tags[msg.Type], tagged.SessionID)
	}

	want := []string{first, first, second}
	for _, kind := range []string{"board", "turn"} {
		got := tags[kind]
		if len(got) != len(want) {
			t.Fatalf("expected %d %s events, got %v", len(want), kind, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("%s event %d tagged %s, want %s", kind, i, got[i], want[i])
			}
		}
	}
	if statuses := tags["status"]; len(statuses) != 1 || statuses[0] != second {
		t.Fatalf("expected one status snapshot for the live session, got %v", statuses)
	}
}
