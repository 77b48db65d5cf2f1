package engine

// Listener receives the engine's outbound events. Calls arrive in order, one
// at a time, after the controller has released its state lock; a listener
// must not call back into the controller synchronously.
type Listener interface {
	BoardChanged(board Board)
	TurnChanged(side Side, isComputerTurn bool)
	// GameEnded reports a nil winner for a draw.
	GameEnded(winner *Side, winningLine []Point)
	ChallengeInfoChanged(level int, difficultyLabel string)
}

// SessionListener is an optional extension of Listener. SessionStarted is
// delivered before any other event of the session it names, so a listener
// can tag the events that follow without reading controller state.
type SessionListener interface {
	SessionStarted(sessionID string)
}

type NopListener struct{}

func (NopListener) BoardChanged(Board)               {}
func (NopListener) TurnChanged(Side, bool)           {}
func (NopListener) GameEnded(*Side, []Point)         {}
func (NopListener) ChallengeInfoChanged(int, string) {}

// Event is a queued outbound notification.
type Event func(Listener)
