package similarity

import (
	"unicode/utf8"

	"github.com/hbollon/go-edlib"

	"github.com/doeshing/mastopoll/internal/domain"
)

// Match is the closest history question found by the local estimator.
type Match struct {
	Score    float64
	Index    int
	Question string
}

// Score returns 1 - normalized Damerau-Levenshtein distance between the
// normalized forms of a and b, clamped to [0,1].
func Score(a, b string) float64 {
	return Clamp(1 - normalizedDistance(Normalize(a), Normalize(b)))
}

// LocalSimilarity returns the highest Score between question and every
// record in history. Empty history yields 0.
func LocalSimilarity(question string, history []domain.HistoryRecord) float64 {
	return ClosestMatch(question, history).Score
}

// ClosestMatch is LocalSimilarity that also reports which record scored highest.
// Index is -1 when history is empty.
func ClosestMatch(question string, history []domain.HistoryRecord) Match {
	best := Match{Index: -1}
	if len(history) == 0 {
		return best
	}
	normalized := Normalize(question)
	for i, rec := range history {
		score := Clamp(1 - normalizedDistance(normalized, Normalize(rec.Question)))
		if best.Index == -1 || score > best.Score {
			best = Match{Score: score, Index: i, Question: rec.Question}
		}
	}
	return best
}

// normalizedDistance divides the edit distance by the longer rune length.
// Two empty strings are identical.
func normalizedDistance(a, b string) float64 {
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	return float64(edlib.DamerauLevenshteinDistance(a, b)) / float64(longest)
}

// Clamp bounds a score to [0,1].
func Clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
