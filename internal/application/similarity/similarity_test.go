package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/mastopoll/internal/domain"
)

func records(questions ...string) []domain.HistoryRecord {
	out := make([]domain.HistoryRecord, len(questions))
	for i, q := range questions {
		out[i] = domain.HistoryRecord{Question: q, Answers: []string{"a", "b", "c", "d"}}
	}
	return out
}

func TestNormalizeStripsStopPhrases(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"What is your favorite color?", " is r favorite color"},
		{"Do you THINK so?", "  so"},
		{"Whom would you consider wise", "m would   wise"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"What is your favorite color?",
		"wwhathat",
		"yoyouu",
		"dodo you you",
		"Which?? WHO? whom!",
		"Plain text with nothing to strip",
		"ünïcödé Opinion thinking",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestLocalSimilarityEmptyHistory(t *testing.T) {
	assert.Equal(t, 0.0, LocalSimilarity("Is pizza good?", nil))
	match := ClosestMatch("Is pizza good?", nil)
	assert.Equal(t, -1, match.Index)
}

func TestLocalSimilarityIdenticalAfterNormalization(t *testing.T) {
	history := records("Do you like cats?", "WHAT do you think about dogs")
	score := LocalSimilarity("what do you think about DOGS?", history)
	assert.Equal(t, 1.0, score)
}

func TestLocalSimilarityNearDuplicateSpelling(t *testing.T) {
	history := records("What is your favorite color?")
	score := LocalSimilarity("what is your favourite colour?", history)
	assert.Greater(t, score, 0.49)
	assert.LessOrEqual(t, score, 1.0)
}

func TestLocalSimilarityBounded(t *testing.T) {
	history := records("??", "a", "Completely different sentence about oceans", "")
	candidates := []string{"", "?", "zzzz", "Is pizza good?", "What?"}
	for _, c := range candidates {
		score := LocalSimilarity(c, history)
		assert.GreaterOrEqual(t, score, 0.0, c)
		assert.LessOrEqual(t, score, 1.0, c)
	}
}

func TestClosestMatchReportsBestRecord(t *testing.T) {
	history := records("Is tea better than coffee?", "Is pizza good?", "Best season of the year?")
	match := ClosestMatch("Is pizza great?", history)
	require.Equal(t, 1, match.Index)
	assert.Equal(t, "Is pizza good?", match.Question)
	assert.Equal(t, LocalSimilarity("Is pizza great?", history), match.Score)
}

func TestScoreIsSymmetric(t *testing.T) {
	assert.Equal(t, Score("ab cats", "ba cat"), Score("ba cat", "ab cats"))
}

func TestWindow(t *testing.T) {
	history := records("q1", "q2", "q3", "q4", "q5")

	tests := []struct {
		name string
		size int
		want []string
	}{
		{"smaller than history", 2, []string{"q4", "q5"}},
		{"equal to history", 5, []string{"q1", "q2", "q3", "q4", "q5"}},
		{"larger than history", 8, []string{"q1", "q2", "q3", "q4", "q5"}},
		{"zero", 0, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Window(history, tt.size)
			assert.LessOrEqual(t, len(got), min(tt.size, len(history)))
			assert.Equal(t, tt.want, domain.Questions(got))
		})
	}
}

func TestWindowEmptyHistory(t *testing.T) {
	assert.Empty(t, Window(nil, 8))
}

func TestWindowDoesNotAlias(t *testing.T) {
	history := records("q1", "q2")
	got := Window(history, 1)
	got[0].Question = "changed"
	assert.Equal(t, "q2", history[1].Question)
}
