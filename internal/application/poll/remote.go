package poll

import (
	"context"

	"github.com/doeshing/mastopoll/internal/application/similarity"
	"github.com/doeshing/mastopoll/internal/domain"
	"github.com/doeshing/mastopoll/internal/ports"
)

// RemoteConfirmer asks the language model whether the candidate paraphrases
// one of the most recent history questions.
type RemoteConfirmer struct {
	Judge ports.SimilarityJudge
}

// Similarity returns the judged maximum similarity against window.
// An empty window short-circuits to 0 without an external call.
func (r *RemoteConfirmer) Similarity(ctx context.Context, question string, window []domain.HistoryRecord) (float64, error) {
	if len(window) == 0 {
		return 0, nil
	}
	score, err := r.Judge.MaxSimilarity(ctx, question, domain.Questions(window))
	if err != nil {
		if _, ok := domain.KindOf(err); ok {
			return 0, err
		}
		return 0, domain.NewError(domain.KindExternalService, "remote similarity", err)
	}
	return similarity.Clamp(score), nil
}
