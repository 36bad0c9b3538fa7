package rag

import "regexp"

var sourceRefPattern = regexp.MustCompile(`Source \d+`)

// EvaluateQuality computes a diagnostic [0,1] score for a generated answer.
// It rewards grounded answers: having sources at all, having several,
// retrieving with decent relevance, and actually citing the sources in
// the answer text.
func EvaluateQuality(answer string, sources []Source) float64 {
	score := 0.0

	if len(sources) > 0 {
		score += 0.3
	}
	if len(sources) >= 3 {
		score += 0.2
	}

	if len(sources) > 0 {
		total := 0.0
		for _, source := range sources {
			total += source.RelevanceScore
		}
		if total/float64(len(sources)) > 0.5 {
			score += 0.3
		}
	}

	if sourceRefPattern.MatchString(answer) {
		score += 0.2
	}

	return score
}
