package scoring

// Average returns the arithmetic mean of scores, or 0 for an empty slice.
// Scores of every test type share the [0,1] scale and are weighted equally.
func Average(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

// Scored is anything carrying a session score.
type Scored interface {
	SessionScore() float64
}

// AverageSessions averages the scores of any scored records, e.g. test sessions.
func AverageSessions[T Scored](items []T) float64 {
	scores := make([]float64, len(items))
	for i, it := range items {
		scores[i] = it.SessionScore()
	}
	return Average(scores)
}
