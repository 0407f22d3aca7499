package scoring

import "strings"

// ScoreMCQ returns 1 when the response equals the correct answer after
// trimming and case folding, 0 otherwise.
func ScoreMCQ(response, correctAnswer string) float64 {
	if fold(response) == fold(correctAnswer) {
		return 1
	}
	return 0
}

// MCQItem is the part of a multiple-choice question the scorer needs.
type MCQItem struct {
	QuestionID    uint
	CorrectAnswer string
}

// MCQResult is the outcome of grading a whole MCQ submission.
type MCQResult struct {
	Correct int
	Total   int
	Score   float64
	// PerQuestion holds the 0/1 score of every item, in item order.
	PerQuestion []float64
}

// ScoreMCQSet grades responses against every question in the set. The
// denominator is the size of the set, so questions without a response count
// as wrong. A blank response never matches, even against a blank key.
func ScoreMCQSet(items []MCQItem, responses map[uint]string) MCQResult {
	res := MCQResult{Total: len(items), PerQuestion: make([]float64, len(items))}
	if len(items) == 0 {
		return res
	}
	for i, item := range items {
		response, ok := responses[item.QuestionID]
		if !ok || strings.TrimSpace(response) == "" {
			continue
		}
		s := ScoreMCQ(response, item.CorrectAnswer)
		res.PerQuestion[i] = s
		if s == 1 {
			res.Correct++
		}
	}
	res.Score = float64(res.Correct) / float64(res.Total)
	return res
}

// TextResult is the outcome of keyword scoring, e.g. 3 of 5 keywords matched.
type TextResult struct {
	Matched int
	Total   int
	Score   float64
}

// Options tweak keyword scoring.
type Options struct {
	// DedupeKeywords collapses keywords that normalize to the same string
	// before counting. Off by default: repeated keywords each count.
	DedupeKeywords bool
}

// ScoreText scores free text by normalized substring containment of each
// keyword. An empty keyword list can never be satisfied and scores 0.
func ScoreText(answerText string, keywords []string) TextResult {
	return ScoreTextWith(answerText, keywords, Options{})
}

// ScoreTextWith is ScoreText with explicit options.
func ScoreTextWith(answerText string, keywords []string, opts Options) TextResult {
	if opts.DedupeKeywords {
		keywords = dedupe(keywords)
	}
	if len(keywords) == 0 {
		return TextResult{}
	}

	norm := Normalize(answerText)
	matched := 0
	for _, kw := range keywords {
		if strings.Contains(norm, Normalize(kw)) {
			matched++
		}
	}
	return TextResult{
		Matched: matched,
		Total:   len(keywords),
		Score:   float64(matched) / float64(len(keywords)),
	}
}

func dedupe(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		n := Normalize(kw)
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, kw)
	}
	return out
}
