package engine

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// Game is the synchronous state machine behind a GameController. It is not
// safe for concurrent use.
type Game struct {
	settings GameSettings
	rules    Rules
	selector *Selector
	state    GameState
	events   []Event
	logger   *slog.Logger
}

func NewGame(settings GameSettings, source RandSource, logger *slog.Logger) Game {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	g := Game{settings: settings, logger: logger}
	g.rules = NewRules(settings.WinLength)
	g.selector = NewSelector(g.rules, NewEvaluator(settings.Heuristics), source)
	g.state.Board = NewBoard(settings.BoardSize)
	g.state.Mode = settings.Mode
	g.state.ChallengeLevel = MinDifficultyLevel
	g.state.Difficulty = MustDifficulty(ClampLevel(settings.Difficulty))
	g.setPlayerSide(settings.PlayerSide)
	if g.state.Mode == ModeChallenge {
		g.enterChallenge()
	}
	return g
}

func (g *Game) State() GameState {
	return g.state.Clone()
}

func (g *Game) Settings() GameSettings {
	return g.settings
}

// Start begins a fresh session with the current mode, sides and difficulty.
func (g *Game) Start() {
	g.state.ID = uuid.NewString()
	g.state.Generation++
	g.state.Board.Reset()
	g.state.History.Clear()
	g.state.WinningLine = nil
	if g.state.PlayerStarts {
		g.state.ToMove = g.state.PlayerSide
		g.state.Status = StatusAwaitingPlayer
	} else {
		g.state.ToMove = g.state.ComputerSide
		g.state.Status = StatusComputerThinking
	}
	g.logMatchup()
	id := g.state.ID
	g.emit(func(l Listener) {
		if sl, ok := l.(SessionListener); ok {
			sl.SessionStarted(id)
		}
	})
	g.emitBoard()
	if g.state.Mode == ModeChallenge {
		level, label := g.state.ChallengeLevel, g.state.Difficulty.Label
		g.emit(func(l Listener) { l.ChallengeInfoChanged(level, label) })
	}
	g.emitTurn()
}

// TryApplyPlayerMove places the player's stone at (row, col). The caller is
// responsible for bounds.
func (g *Game) TryApplyPlayerMove(row, col int) (bool, string) {
	switch {
	case g.state.Status == StatusNotStarted:
		return false, "game not started"
	case g.state.Status.IsOver():
		return false, "game over"
	case g.state.Status != StatusAwaitingPlayer || g.state.ToMove != g.state.PlayerSide:
		return false, "not your turn"
	case g.state.Board.At(row, col) != CellEmpty:
		return false, "occupied"
	}
	g.applyMove(Point{Row: row, Col: col}, g.state.PlayerSide, false, "")
	return true, ""
}

// PlayComputerMove asks the selector for a move and applies it. A full board
// ends the game in a draw.
func (g *Game) PlayComputerMove() (Choice, bool) {
	if g.state.Status != StatusComputerThinking {
		return Choice{}, false
	}
	choice, ok := g.selector.SelectForSession(&g.state)
	if !ok {
		g.endGame(nil, nil)
		return Choice{}, false
	}
	g.applyMove(choice.Point, g.state.ComputerSide, true, choice.Rule)
	return choice, true
}

// Undo takes back the player's last move together with the computer reply
// that followed it, if any. It needs at least two recorded moves and a game
// in progress. While the computer is thinking only the player's pending move
// is removed, so the player is always the one to move afterwards.
func (g *Game) Undo() bool {
	if g.state.Status.IsOver() || g.state.Status == StatusNotStarted || g.state.History.Size() < 2 {
		return false
	}
	for {
		entry, ok := g.state.History.Pop()
		if !ok {
			break
		}
		g.state.Board.Remove(entry.Move.Row, entry.Move.Col)
		if !entry.IsComputer {
			break
		}
	}
	g.state.Generation++
	g.state.ToMove = g.state.PlayerSide
	g.state.Status = StatusAwaitingPlayer
	g.state.WinningLine = nil
	g.emitBoard()
	g.emitTurn()
	return true
}

func (g *Game) NewGame() {
	g.Start()
}

func (g *Game) Restart() {
	g.Start()
}

// NextLevel advances a challenge after the player won the current level.
func (g *Game) NextLevel() (bool, string) {
	if g.state.Mode != ModeChallenge {
		return false, "not in challenge mode"
	}
	if g.state.ChallengeLevel >= MaxDifficultyLevel {
		return false, "already at the last level"
	}
	if !g.state.PlayerWon() {
		return false, "current level not won"
	}
	g.state.ChallengeLevel++
	g.state.Difficulty = MustDifficulty(g.state.ChallengeLevel)
	g.Start()
	return true, ""
}

func (g *Game) SetMode(mode Mode) {
	g.state.Mode = mode
	if mode == ModeChallenge {
		g.enterChallenge()
	} else {
		g.state.Difficulty = MustDifficulty(NormalDifficultyLevel)
	}
	g.settings.Mode = mode
	g.Start()
}

// SetPlayerColor is ignored in challenge mode, where the player is always black.
func (g *Game) SetPlayerColor(side Side) bool {
	if g.state.Mode == ModeChallenge {
		return false
	}
	g.setPlayerSide(side)
	g.settings.PlayerSide = side
	g.Start()
	return true
}

// SetDifficulty changes the normal-mode level; it applies from the next
// computer move.
func (g *Game) SetDifficulty(level int) (bool, string) {
	if g.state.Mode == ModeChallenge {
		return false, "difficulty follows the challenge level"
	}
	difficulty, ok := LookupDifficulty(level)
	if !ok {
		return false, "unknown difficulty level"
	}
	g.state.Difficulty = difficulty
	g.settings.Difficulty = level
	return true, ""
}

func (g *Game) SetHeuristics(heuristics HeuristicConfig) {
	g.settings.Heuristics = heuristics.Resolve()
	g.selector.SetEvaluator(NewEvaluator(heuristics))
}

func (g *Game) Heuristics() HeuristicConfig {
	return g.selector.Evaluator().Weights()
}

// Rules exposes the win detector the game uses.
func (g *Game) Rules() Rules {
	return g.rules
}

// TakeEvents hands over the events queued since the last call.
func (g *Game) TakeEvents() []Event {
	events := g.events
	g.events = nil
	return events
}

func (g *Game) applyMove(p Point, side Side, isComputer bool, rule SelectionRule) {
	g.state.Board.Set(p.Row, p.Col, side.Cell())
	g.state.History.Push(HistoryEntry{
		Move:       Move{Row: p.Row, Col: p.Col, Side: side},
		IsComputer: isComputer,
		Rule:       rule,
	})
	g.logMovePlayed(p, side, isComputer, rule)
	g.emitBoard()

	if line, ok := g.rules.CheckWin(g.state.Board, p.Row, p.Col, side); ok {
		winner := side
		g.endGame(&winner, line)
		return
	}
	if g.rules.IsDraw(g.state.Board) {
		g.endGame(nil, nil)
		return
	}
	g.state.ToMove = side.Opponent()
	if g.state.ToMove == g.state.PlayerSide {
		g.state.Status = StatusAwaitingPlayer
	} else {
		g.state.Status = StatusComputerThinking
	}
	g.emitTurn()
}

func (g *Game) endGame(winner *Side, line []Point) {
	if winner != nil {
		g.state.Status = wonStatus(*winner)
		g.state.WinningLine = append([]Point(nil), line...)
	} else {
		g.state.Status = StatusDraw
		g.state.WinningLine = nil
	}
	g.logResult(winner)
	lineCopy := append([]Point(nil), line...)
	g.emit(func(l Listener) { l.GameEnded(winner, lineCopy) })
}

func (g *Game) enterChallenge() {
	g.state.ChallengeLevel = MinDifficultyLevel
	g.state.Difficulty = MustDifficulty(MinDifficultyLevel)
	g.setPlayerSide(SideBlack)
}

func (g *Game) setPlayerSide(side Side) {
	if side != SideWhite {
		side = SideBlack
	}
	g.state.PlayerSide = side
	g.state.ComputerSide = side.Opponent()
	g.state.PlayerStarts = side == SideBlack
}

func (g *Game) emit(e Event) {
	g.events = append(g.events, e)
}

func (g *Game) emitBoard() {
	snapshot := g.state.Board.Clone()
	g.emit(func(l Listener) { l.BoardChanged(snapshot) })
}

func (g *Game) emitTurn() {
	side, computer := g.state.ToMove, g.state.IsComputerTurn()
	g.emit(func(l Listener) { l.TurnChanged(side, computer) })
}

func (g *Game) logMatchup() {
	g.logger.Info("game started",
		"session", g.state.ID,
		"mode", g.state.Mode.String(),
		"level", g.state.ChallengeLevel,
		"difficulty", g.state.Difficulty.Level,
		"player", g.state.PlayerSide.String(),
		"computer", g.state.ComputerSide.String(),
	)
}

func (g *Game) logMovePlayed(p Point, side Side, isComputer bool, rule SelectionRule) {
	g.logger.Debug("move played",
		"session", g.state.ID,
		"row", p.Row,
		"col", p.Col,
		"side", side.String(),
		"computer", isComputer,
		"rule", string(rule),
		"ply", g.state.History.Size(),
	)
}

func (g *Game) logResult(winner *Side) {
	result := "draw"
	if winner != nil {
		result = winner.String()
	}
	g.logger.Info("game over", "session", g.state.ID, "winner", result, "moves", g.state.History.Size())
}
