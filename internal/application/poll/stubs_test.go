package poll

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/goleak"

	"github.com/doeshing/mastopoll/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type scriptedGenerator struct {
	candidates []domain.Candidate
	errs       []error
	calls      int
}

func (g *scriptedGenerator) Generate(context.Context) (domain.Candidate, error) {
	i := g.calls
	g.calls++
	if i < len(g.errs) && g.errs[i] != nil {
		return domain.Candidate{}, g.errs[i]
	}
	if len(g.candidates) == 0 {
		return domain.Candidate{}, errors.New("no candidates scripted")
	}
	if i >= len(g.candidates) {
		i = len(g.candidates) - 1
	}
	return g.candidates[i], nil
}

type stubJudge struct {
	scores []float64
	err    error
	calls  int
	seen   [][]string
}

func (j *stubJudge) MaxSimilarity(_ context.Context, _ string, history []string) (float64, error) {
	j.calls++
	j.seen = append(j.seen, history)
	if j.err != nil {
		return 0, j.err
	}
	if len(j.scores) == 0 {
		return 0, nil
	}
	i := j.calls - 1
	if i >= len(j.scores) {
		i = len(j.scores) - 1
	}
	return j.scores[i], nil
}

type stubPublisher struct {
	err       error
	published []domain.Candidate
}

func (p *stubPublisher) Publish(_ context.Context, c domain.Candidate) (domain.PublishResult, error) {
	if p.err != nil {
		return domain.PublishResult{}, p.err
	}
	p.published = append(p.published, c)
	return domain.PublishResult{ID: "109", URL: "https://example.social/@bot/109"}, nil
}

type memoryStore struct {
	records   []domain.HistoryRecord
	loadErr   error
	appendErr error
	appends   int
}

func (m *memoryStore) Load(context.Context) ([]domain.HistoryRecord, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]domain.HistoryRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *memoryStore) Append(_ context.Context, rec domain.HistoryRecord) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appends++
	m.records = append(m.records, rec)
	return nil
}

func (m *memoryStore) Path() string { return "memory" }

type stubLocker struct {
	locked   int
	unlocked int
}

func (l *stubLocker) Lock(context.Context) (func() error, error) {
	l.locked++
	return func() error {
		l.unlocked++
		return nil
	}, nil
}

func candidate(question string, answers ...string) domain.Candidate {
	if len(answers) == 0 {
		answers = []string{"Yes", "No", "Maybe", "Only on Tuesdays"}
	}
	return domain.Candidate{Question: question, Answers: answers}
}

func history(questions ...string) []domain.HistoryRecord {
	out := make([]domain.HistoryRecord, len(questions))
	for i, q := range questions {
		out[i] = candidate(q)
	}
	return out
}
