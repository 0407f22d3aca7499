package service

import (
	"fmt"
	"math"
)

const MaxPercentScore float64 = 100.0

// ScoreConverterService turns internal [0,1] scores into display percentages.
type ScoreConverterService interface {
	ToPercent(score float64) (float64, error)
}

type scoreConverterServiceImpl struct{}

func NewScoreConverterService() ScoreConverterService {
	return &scoreConverterServiceImpl{}
}

// ToPercent scales to 0-100 and rounds to one decimal, so 2/3 becomes 66.7.
func (s *scoreConverterServiceImpl) ToPercent(score float64) (float64, error) {
	if math.IsNaN(score) || score < 0 || score > 1 {
		return 0, fmt.Errorf("score %.4f is out of valid range (0-1)", score)
	}
	return math.Round(score*MaxPercentScore*10) / 10, nil
}
