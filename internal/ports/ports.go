// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The application core (candidate filtering and the retry controller) depends
// only on these abstractions. Concrete adapters for the language model, the
// Mastodon API and history persistence live in the infrastructure layer, and
// tests substitute in-memory stubs.
package ports

import (
	"context"

	"github.com/doeshing/mastopoll/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.mastopoll/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ProviderFactory builds language-model providers from model definitions.
type ProviderFactory interface {
	ForModel(domain.ModelDefinition) (Provider, error)
}

// Provider sends a single prompt to a chat-completion endpoint and returns the reply text.
type Provider interface {
	Name() string
	Model() domain.ModelDefinition
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generator produces one fresh candidate per call.
// Malformed model output is reported as a domain.KindGenerationParse error.
type Generator interface {
	Generate(ctx context.Context) (domain.Candidate, error)
}

// SimilarityJudge asks an external service for the maximum semantic similarity
// between the candidate and the given history questions. It is never called
// with an empty list.
type SimilarityJudge interface {
	MaxSimilarity(ctx context.Context, candidate string, history []string) (float64, error)
}

// Publisher turns an accepted candidate into a public poll.
type Publisher interface {
	Publish(ctx context.Context, candidate domain.Candidate) (domain.PublishResult, error)
}

// HistoryStore is the ordered, append-only record of published candidates.
// Append persists the whole store before returning.
type HistoryStore interface {
	Load(ctx context.Context) ([]domain.HistoryRecord, error)
	Append(ctx context.Context, record domain.HistoryRecord) error
	Path() string
}

// RunLocker serializes batch passes across processes.
type RunLocker interface {
	Lock(ctx context.Context) (unlock func() error, err error)
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
