package domain

import (
	"errors"
	"strings"
)

// AnswerCount is the number of poll options every candidate carries.
const AnswerCount = 4

// Candidate is a generated question with its poll options.
type Candidate struct {
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
}

// HistoryRecord is a candidate that was accepted and published.
// It shares the candidate's shape so the history file stays a flat list.
type HistoryRecord = Candidate

// HistoryDocument mirrors the persisted history file.
type HistoryDocument struct {
	Responses []HistoryRecord `json:"responses"`
}

// NewCandidate builds a candidate and enforces the structural invariants
// the publisher relies on: a non-empty question and exactly four answers.
func NewCandidate(question string, answers []string) (Candidate, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Candidate{}, errors.New("question is empty")
	}
	if len(answers) != AnswerCount {
		return Candidate{}, errors.New("expected exactly 4 answers")
	}
	cleaned := make([]string, len(answers))
	for i, answer := range answers {
		answer = strings.TrimSpace(answer)
		if answer == "" {
			return Candidate{}, errors.New("answer is empty")
		}
		cleaned[i] = answer
	}
	return Candidate{Question: question, Answers: cleaned}, nil
}

// Clone returns a deep copy so callers cannot mutate shared answer slices.
func (c Candidate) Clone() Candidate {
	answers := make([]string, len(c.Answers))
	copy(answers, c.Answers)
	return Candidate{Question: c.Question, Answers: answers}
}

// Questions extracts the question text of each record, preserving order.
func Questions(records []HistoryRecord) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.Question
	}
	return out
}
