package poll

import (
	"context"
	"fmt"

	"github.com/doeshing/mastopoll/internal/application/similarity"
	"github.com/doeshing/mastopoll/internal/domain"
)

// Stage is one filter in the novelty pipeline. Returning an Accepted outcome
// hands the candidate to the next stage.
type Stage interface {
	Name() string
	Evaluate(ctx context.Context, c domain.Candidate, history []domain.HistoryRecord, scores *domain.Scores) domain.Outcome
}

// Pipeline runs stages in order and stops at the first non-accepting outcome.
type Pipeline struct {
	stages []Stage
}

// NewPipeline composes stages.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Evaluate runs the candidate through every stage.
func (p *Pipeline) Evaluate(ctx context.Context, c domain.Candidate, history []domain.HistoryRecord) (domain.Outcome, domain.Scores) {
	var scores domain.Scores
	for _, stage := range p.stages {
		out := stage.Evaluate(ctx, c, history, &scores)
		if out.Kind != domain.OutcomeAccepted {
			return out, scores
		}
	}
	return domain.Accepted(c), scores
}

// Stages returns the configured stage names, in order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// ValidationStage rejects candidates with over-long answers.
type ValidationStage struct {
	Validator *Validator
}

func (s ValidationStage) Name() string { return "validate" }

func (s ValidationStage) Evaluate(_ context.Context, c domain.Candidate, _ []domain.HistoryRecord, _ *domain.Scores) domain.Outcome {
	if detail, ok := s.Validator.Check(c); !ok {
		return domain.Retryable(domain.RejectValidation, detail)
	}
	return domain.Accepted(c)
}

// LocalStage compares against the entire history with edit distance.
type LocalStage struct {
	Threshold float64
}

func (s LocalStage) Name() string { return "local" }

func (s LocalStage) Evaluate(_ context.Context, c domain.Candidate, history []domain.HistoryRecord, scores *domain.Scores) domain.Outcome {
	match := similarity.ClosestMatch(c.Question, history)
	scores.Local = &match.Score
	if match.Score > s.Threshold {
		return domain.Retryable(domain.RejectLocalSimilarity,
			fmt.Sprintf("%.3f > %.2f vs %q", match.Score, s.Threshold, match.Question))
	}
	return domain.Accepted(c)
}

// RemoteStage asks the confirmer about the sliding window of recent history.
type RemoteStage struct {
	Confirmer  *RemoteConfirmer
	Threshold  float64
	WindowSize int
}

func (s RemoteStage) Name() string { return "remote" }

func (s RemoteStage) Evaluate(ctx context.Context, c domain.Candidate, history []domain.HistoryRecord, scores *domain.Scores) domain.Outcome {
	window := similarity.Window(history, s.WindowSize)
	if len(window) == 0 {
		return domain.Accepted(c)
	}
	score, err := s.Confirmer.Similarity(ctx, c.Question, window)
	if err != nil {
		return domain.Fatal(err)
	}
	scores.Remote = &score
	if score > s.Threshold {
		return domain.Retryable(domain.RejectRemoteSimilarity,
			fmt.Sprintf("%.3f > %.2f over last %d", score, s.Threshold, len(window)))
	}
	return domain.Accepted(c)
}
