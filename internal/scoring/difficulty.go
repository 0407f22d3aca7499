package scoring

import (
	"fmt"
	"strings"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Thresholds for PredictNextDifficulty. An average below EasyUpperBound is
// easy, up to and including MediumUpperBound is medium, anything above is hard.
const (
	EasyUpperBound   = 0.4
	MediumUpperBound = 0.7
)

func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// ParseDifficulty accepts the canonical tiers and the older low/high
// vocabulary some clients still send.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "low":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard", "high":
		return Hard, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// PredictNextDifficulty maps a historical average score to the tier the user
// should attempt next.
func PredictNextDifficulty(averageScore float64) Difficulty {
	switch {
	case averageScore < EasyUpperBound:
		return Easy
	case averageScore <= MediumUpperBound:
		return Medium
	default:
		return Hard
	}
}

type TestType string

const (
	MCQ   TestType = "mcq"
	Text  TestType = "text"
	Voice TestType = "voice"
	Video TestType = "video"
)

func ParseTestType(s string) (TestType, error) {
	t := TestType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case MCQ, Text, Voice, Video:
		return t, nil
	}
	return "", fmt.Errorf("unknown test type %q", s)
}

// KeywordScored reports whether answers of this type are graded by keywords.
func (t TestType) KeywordScored() bool {
	return t == Text || t == Voice || t == Video
}
