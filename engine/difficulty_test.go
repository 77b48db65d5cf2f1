package engine

import "testing"

func TestDifficultyRandomnessDecreases(t *testing.T) {
	levels := Difficulties()
	if len(levels) != MaxDifficultyLevel {
		t.Fatalf("expected %d levels, got %d", MaxDifficultyLevel, len(levels))
	}
	for i := 1; i < len(levels); i++ {
		if levels[i].Randomness >= levels[i-1].Randomness {
			t.Fatalf("expected level %d to be less random than level %d", levels[i].Level, levels[i-1].Level)
		}
	}
	if levels[0].Randomness != 0.5 || levels[9].Randomness != 0 {
		t.Fatalf("unexpected table ends %+v %+v", levels[0], levels[9])
	}
	if levels[9].Label != "Gomoku Deity" {
		t.Fatalf("unexpected top label %q", levels[9].Label)
	}
}

func TestLookupDifficultyRange(t *testing.T) {
	for _, level := range []int{0, 11, -3} {
		if _, ok := LookupDifficulty(level); ok {
			t.Fatalf("expected level %d to be rejected", level)
		}
	}
	d, ok := LookupDifficulty(5)
	if !ok || d.Randomness != 0.15 || d.Label != "Intermediate AI" {
		t.Fatalf("unexpected level 5: %+v", d)
	}
	if ClampLevel(0) != 1 || ClampLevel(42) != 10 || ClampLevel(4) != 4 {
		t.Fatalf("unexpected clamping")
	}
}

func TestDifficultiesReturnsCopy(t *testing.T) {
	levels := Difficulties()
	levels[0].Label = "changed"
	if MustDifficulty(1).Label != "Rookie AI" {
		t.Fatalf("expected table to be immutable through Difficulties")
	}
}
