// Package similarity implements the cheap, local half of the novelty filter:
// question normalization, normalized Damerau-Levenshtein similarity against
// history, and the sliding window handed to the remote confirmer.
package similarity

import "strings"

// StopPhrases are removed from questions before comparison. Removal is a
// plain substring replace, so phrases vanish mid-word as well ("yours" -> "rs").
var StopPhrases = []string{
	"what",
	"where",
	"who",
	"which",
	"do you",
	"whom",
	"consider",
	"opinion",
	"?",
	"think",
	"you",
	"to have",
}

// Normalize lowercases text and strips every stop phrase.
// Stripping repeats until nothing changes, since a removal can splice a new
// phrase together ("wwhathat"), and Normalize must be idempotent.
func Normalize(text string) string {
	out := strings.ToLower(text)
	for {
		before := out
		for _, phrase := range StopPhrases {
			out = strings.ReplaceAll(out, phrase, "")
		}
		if out == before {
			return out
		}
	}
}
