package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultComputerDelay lets a presentation layer render the turn change
// before the computer's stone lands.
const DefaultComputerDelay = 800 * time.Millisecond

type ControllerOptions struct {
	Listener      Listener
	Rand          RandSource
	Logger        *slog.Logger
	ComputerDelay time.Duration
}

type pendingMove struct {
	cancel     context.CancelFunc
	done       chan struct{}
	generation uint64
}

// GameController owns one game session and serialises every request against
// it. At most one computer move is pending at a time; any request that
// restarts or rewinds the session cancels it.
type GameController struct {
	mu       sync.Mutex
	emitMu   sync.Mutex
	game     Game
	listener Listener
	delay    time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	pending  *pendingMove
	logger   *slog.Logger
}

func NewGameController(settings GameSettings, options ControllerOptions) (*GameController, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	listener := options.Listener
	if listener == nil {
		listener = NopListener{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	gc := &GameController{
		game:     NewGame(settings, options.Rand, options.Logger),
		listener: listener,
		delay:    options.ComputerDelay,
		ctx:      ctx,
		cancel:   cancel,
		logger:   options.Logger,
	}
	return gc, nil
}

// RequestPlayerMove validates the coordinates at the boundary and plays the
// player's stone. Rejections leave the session unchanged.
func (gc *GameController) RequestPlayerMove(row, col int) (bool, string) {
	gc.mu.Lock()
	if !gc.game.state.Board.InBounds(row, col) {
		gc.mu.Unlock()
		return false, "out of bounds"
	}
	applied, reason := gc.game.TryApplyPlayerMove(row, col)
	if applied {
		gc.scheduleComputerMove()
	}
	gc.unlockAndDispatch()
	return applied, reason
}

func (gc *GameController) RequestNewGame() {
	gc.mu.Lock()
	gc.cancelPending()
	gc.game.NewGame()
	gc.scheduleComputerMove()
	gc.unlockAndDispatch()
}

func (gc *GameController) RequestRestart() {
	gc.mu.Lock()
	gc.cancelPending()
	gc.game.Restart()
	gc.scheduleComputerMove()
	gc.unlockAndDispatch()
}

func (gc *GameController) RequestUndo() bool {
	gc.mu.Lock()
	undone := gc.game.Undo()
	if undone {
		gc.cancelPending()
	}
	gc.unlockAndDispatch()
	return undone
}

func (gc *GameController) RequestNextLevel() (bool, string) {
	gc.mu.Lock()
	advanced, reason := gc.game.NextLevel()
	if advanced {
		gc.cancelPending()
		gc.scheduleComputerMove()
	}
	gc.unlockAndDispatch()
	return advanced, reason
}

func (gc *GameController) SetMode(mode Mode) {
	gc.mu.Lock()
	gc.cancelPending()
	gc.game.SetMode(mode)
	gc.scheduleComputerMove()
	gc.unlockAndDispatch()
}

func (gc *GameController) SetPlayerColor(side Side) bool {
	gc.mu.Lock()
	changed := gc.game.SetPlayerColor(side)
	if changed {
		gc.cancelPending()
		gc.scheduleComputerMove()
	}
	gc.unlockAndDispatch()
	return changed
}

func (gc *GameController) SetDifficulty(level int) (bool, string) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.SetDifficulty(level)
}

func (gc *GameController) UpdateHeuristics(heuristics HeuristicConfig) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.SetHeuristics(heuristics)
}

func (gc *GameController) SetComputerDelay(delay time.Duration) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.delay = delay
}

func (gc *GameController) State() GameState {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.State()
}

func (gc *GameController) Settings() GameSettings {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Settings()
}

func (gc *GameController) Heuristics() HeuristicConfig {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Heuristics()
}

func (gc *GameController) History() MoveHistory {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.state.History.Clone()
}

// ComputerPending reports whether a computer move is scheduled and not yet played.
func (gc *GameController) ComputerPending() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.pending != nil
}

// WaitIdle blocks until no computer move is pending and the events of the
// last one have been delivered, or ctx ends.
func (gc *GameController) WaitIdle(ctx context.Context) error {
	for {
		gc.mu.Lock()
		pending := gc.pending
		gc.mu.Unlock()
		if pending == nil {
			gc.emitMu.Lock()
			gc.emitMu.Unlock()
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-pending.done:
		}
	}
}

// Close cancels any pending computer move; later requests never schedule one.
func (gc *GameController) Close() {
	gc.mu.Lock()
	gc.cancelPending()
	gc.cancel()
	gc.mu.Unlock()
}

// scheduleComputerMove starts the deferred computer move when the session is
// waiting on the computer. Caller holds mu.
func (gc *GameController) scheduleComputerMove() {
	if gc.pending != nil || gc.game.state.Status != StatusComputerThinking || gc.ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithCancel(gc.ctx)
	p := &pendingMove{cancel: cancel, done: make(chan struct{}), generation: gc.game.state.Generation}
	gc.pending = p
	delay := gc.delay
	go func() {
		defer close(p.done)
		defer cancel()
		if delay > 0 {
			timer := time.NewTimer(delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
		}
		gc.mu.Lock()
		if ctx.Err() != nil || gc.pending != p || gc.game.state.Generation != p.generation {
			gc.mu.Unlock()
			return
		}
		gc.pending = nil
		if choice, ok := gc.game.PlayComputerMove(); ok && gc.logger != nil {
			gc.logger.Debug("computer moved", "row", choice.Point.Row, "col", choice.Point.Col, "rule", string(choice.Rule))
		}
		gc.unlockAndDispatch()
	}()
}

// cancelPending drops the scheduled computer move. Caller holds mu.
func (gc *GameController) cancelPending() {
	if gc.pending == nil {
		return
	}
	gc.pending.cancel()
	gc.pending = nil
}

// unlockAndDispatch releases mu and delivers queued events in order.
func (gc *GameController) unlockAndDispatch() {
	events := gc.game.TakeEvents()
	gc.emitMu.Lock()
	gc.mu.Unlock()
	defer gc.emitMu.Unlock()
	for _, e := range events {
		e(gc.listener)
	}
}
