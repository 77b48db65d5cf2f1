package engine

import (
	"fmt"
	"strings"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeChallenge
)

func (m Mode) String() string {
	if m == ModeChallenge {
		return "challenge"
	}
	return "normal"
}

func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "normal":
		return ModeNormal, nil
	case "challenge":
		return ModeChallenge, nil
	}
	return ModeNormal, fmt.Errorf("unknown mode %q", value)
}

type GameSettings struct {
	BoardSize  int             `json:"board_size"`
	WinLength  int             `json:"win_length"`
	Mode       Mode            `json:"-"`
	PlayerSide Side            `json:"-"`
	Difficulty int             `json:"difficulty"`
	Heuristics HeuristicConfig `json:"heuristics"`
}

func DefaultGameSettings() GameSettings {
	return GameSettings{
		BoardSize:  DefaultBoardSize,
		WinLength:  DefaultWinLength,
		Mode:       ModeNormal,
		PlayerSide: SideBlack,
		Difficulty: InitialDifficultyLevel,
		Heuristics: DefaultHeuristics(),
	}
}

func (s GameSettings) Validate() error {
	if s.BoardSize < 1 {
		return fmt.Errorf("board size %d must be positive", s.BoardSize)
	}
	if s.WinLength < 1 {
		return fmt.Errorf("win length %d must be positive", s.WinLength)
	}
	if s.PlayerSide != SideBlack && s.PlayerSide != SideWhite {
		return fmt.Errorf("player side %d is neither black nor white", s.PlayerSide)
	}
	if _, ok := LookupDifficulty(s.Difficulty); !ok {
		return fmt.Errorf("difficulty %d outside %d-%d", s.Difficulty, MinDifficultyLevel, MaxDifficultyLevel)
	}
	return nil
}
