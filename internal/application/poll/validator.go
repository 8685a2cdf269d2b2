package poll

import (
	"fmt"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/doeshing/mastopoll/internal/domain"
)

// Validator performs the structural check on a freshly generated candidate.
// Only answer length is checked here; answer count is enforced when the
// candidate is parsed.
type Validator struct {
	maxAnswerLength int
	rule            string
	validate        *validator.Validate
}

// NewValidator builds a validator rejecting answers longer than maxAnswerLength runes.
func NewValidator(maxAnswerLength int) *Validator {
	if maxAnswerLength <= 0 {
		maxAnswerLength = domain.DefaultMaxAnswerLength
	}
	return &Validator{
		maxAnswerLength: maxAnswerLength,
		rule:            fmt.Sprintf("max=%d", maxAnswerLength),
		validate:        validator.New(),
	}
}

// Valid reports whether every answer fits the length limit.
func (v *Validator) Valid(c domain.Candidate) bool {
	_, ok := v.Check(c)
	return ok
}

// Check is Valid with a human-readable reason for the first offending answer.
func (v *Validator) Check(c domain.Candidate) (string, bool) {
	for i, answer := range c.Answers {
		if err := v.validate.Var(answer, v.rule); err != nil {
			return fmt.Sprintf("answer %d is %d chars, limit %d", i+1, utf8.RuneCountInString(answer), v.maxAnswerLength), false
		}
	}
	return "", true
}
