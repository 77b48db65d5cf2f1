package engine

type GameStatus int

const (
	StatusNotStarted GameStatus = iota
	StatusAwaitingPlayer
	StatusComputerThinking
	StatusBlackWon
	StatusWhiteWon
	StatusDraw
)

func (s GameStatus) IsOver() bool {
	return s == StatusBlackWon || s == StatusWhiteWon || s == StatusDraw
}

func (s GameStatus) String() string {
	switch s {
	case StatusAwaitingPlayer:
		return "awaiting_player"
	case StatusComputerThinking:
		return "computer_thinking"
	case StatusBlackWon:
		return "black_won"
	case StatusWhiteWon:
		return "white_won"
	case StatusDraw:
		return "draw"
	default:
		return "not_started"
	}
}

func wonStatus(side Side) GameStatus {
	if side == SideBlack {
		return StatusBlackWon
	}
	return StatusWhiteWon
}

// GameState is one game session. Mode, level, sides and difficulty survive a
// restart; board, history and status are rebuilt by every start.
type GameState struct {
	ID             string
	Board          Board
	ToMove         Side
	Status         GameStatus
	WinningLine    []Point
	History        MoveHistory
	Mode           Mode
	ChallengeLevel int
	PlayerSide     Side
	ComputerSide   Side
	PlayerStarts   bool
	Difficulty     Difficulty
	// Generation changes whenever a pending computer move must be discarded.
	Generation uint64
}

func (s GameState) Clone() GameState {
	clone := s
	clone.Board = s.Board.Clone()
	clone.WinningLine = append([]Point(nil), s.WinningLine...)
	clone.History = s.History.Clone()
	return clone
}

func (s GameState) GameOver() bool {
	return s.Status.IsOver()
}

// Winner returns the winning side, or false for a draw or an unfinished game.
func (s GameState) Winner() (Side, bool) {
	switch s.Status {
	case StatusBlackWon:
		return SideBlack, true
	case StatusWhiteWon:
		return SideWhite, true
	default:
		return 0, false
	}
}

func (s GameState) PlayerWon() bool {
	winner, ok := s.Winner()
	return ok && winner == s.PlayerSide
}

// ChallengeComplete is true once the player has beaten the last challenge level.
func (s GameState) ChallengeComplete() bool {
	return s.Mode == ModeChallenge && s.ChallengeLevel == MaxDifficultyLevel && s.PlayerWon()
}

func (s GameState) IsComputerTurn() bool {
	return s.Status == StatusComputerThinking
}
