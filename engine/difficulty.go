package engine

const (
	MinDifficultyLevel = 1
	MaxDifficultyLevel = 10

	// Levels a fresh session and a switch to normal mode start at.
	InitialDifficultyLevel = 3
	NormalDifficultyLevel  = 5
)

// Difficulty maps a level to the probability that the computer ignores its
// evaluation and plays a random empty cell.
type Difficulty struct {
	Level      int     `json:"level"`
	Randomness float64 `json:"randomness"`
	Label      string  `json:"label"`
}

var difficultyTable = [MaxDifficultyLevel]Difficulty{
	{Level: 1, Randomness: 0.5, Label: "Rookie AI"},
	{Level: 2, Randomness: 0.4, Label: "Novice AI"},
	{Level: 3, Randomness: 0.3, Label: "Beginner AI"},
	{Level: 4, Randomness: 0.2, Label: "Lower Intermediate AI"},
	{Level: 5, Randomness: 0.15, Label: "Intermediate AI"},
	{Level: 6, Randomness: 0.1, Label: "Upper Intermediate AI"},
	{Level: 7, Randomness: 0.05, Label: "Advanced AI"},
	{Level: 8, Randomness: 0.03, Label: "Expert AI"},
	{Level: 9, Randomness: 0.01, Label: "Master AI"},
	{Level: 10, Randomness: 0, Label: "Gomoku Deity"},
}

func LookupDifficulty(level int) (Difficulty, bool) {
	if level < MinDifficultyLevel || level > MaxDifficultyLevel {
		return Difficulty{}, false
	}
	return difficultyTable[level-1], true
}

// MustDifficulty is LookupDifficulty for levels already validated by the caller.
func MustDifficulty(level int) Difficulty {
	d, ok := LookupDifficulty(level)
	if !ok {
		panic("engine: difficulty level out of range")
	}
	return d
}

func Difficulties() []Difficulty {
	return append([]Difficulty(nil), difficultyTable[:]...)
}

func ClampLevel(level int) int {
	if level < MinDifficultyLevel {
		return MinDifficultyLevel
	}
	if level > MaxDifficultyLevel {
		return MaxDifficultyLevel
	}
	return level
}
