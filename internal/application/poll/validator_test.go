package poll

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatorAnswerLength(t *testing.T) {
	v := NewValidator(50)

	tests := []struct {
		name    string
		answers []string
		want    bool
	}{
		{"all short", []string{"Yes", "No", "Maybe", "Only with pineapple"}, true},
		{"exactly fifty", []string{strings.Repeat("a", 50), "b", "c", "d"}, true},
		{"fifty one", []string{"a", "b", "c", strings.Repeat("x", 51)}, false},
		{"fifty runes of multibyte text", []string{strings.Repeat("é", 50), "b", "c", "d"}, true},
		{"fewer answers are not checked here", []string{"a", "b"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Valid(candidate("Q?", tt.answers...)))
		})
	}
}

func TestValidatorReportsOffendingAnswer(t *testing.T) {
	v := NewValidator(10)
	detail, ok := v.Check(candidate("Q?", "short", "this one is too long", "c", "d"))
	assert.False(t, ok)
	assert.Contains(t, detail, "answer 2")
	assert.Contains(t, detail, "limit 10")
}

func TestValidatorDefaultsLimit(t *testing.T) {
	v := NewValidator(0)
	assert.True(t, v.Valid(candidate("Q?", strings.Repeat("a", 50), "b", "c", "d")))
	assert.False(t, v.Valid(candidate("Q?", strings.Repeat("a", 51), "b", "c", "d")))
}
