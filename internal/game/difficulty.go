package game

import (
	"fmt"
	"strings"
)

// Difficulty grades checks from trivial to impossible.
type Difficulty int

const (
	Automatic Difficulty = iota
	Trivial
	ExtremelyEasy
	VeryEasy
	Easy
	Normal
	Hard
	VeryHard
	ExtremelyHard
	Insane
	Impossible
)

var difficultyNames = []string{
	"automatic", "trivial", "extremelyeasy", "veryeasy", "easy", "normal",
	"hard", "veryhard", "extremelyhard", "insane", "impossible",
}

func (d Difficulty) String() string {
	if d >= Automatic && int(d) < len(difficultyNames) {
		return difficultyNames[d]
	}
	return fmt.Sprintf("difficulty(%d)", int(d))
}

func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.ToLower(strings.ReplaceAll(s, " ", ""))
	for i, name := range difficultyNames {
		if name == s {
			return Difficulty(i), nil
		}
	}
	return Automatic, fmt.Errorf("unknown difficulty %q", s)
}

// Clamp bounds d to the defined grades.
func (d Difficulty) Clamp() Difficulty {
	if d < Automatic {
		return Automatic
	}
	if d > Impossible {
		return Impossible
	}
	return d
}

// StageUp raises the difficulty by n grades.
func (d Difficulty) StageUp(n int) Difficulty {
	return (d + Difficulty(n)).Clamp()
}

// MaxDifficulty returns the hardest of the given difficulties.
func MaxDifficulty(ds ...Difficulty) Difficulty {
	best := Automatic
	for _, d := range ds {
		if d > best {
			best = d
		}
	}
	return best
}
