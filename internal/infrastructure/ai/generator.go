package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/doeshing/mastopoll/internal/domain"
	"github.com/doeshing/mastopoll/internal/ports"
)

// Generator asks the model for a new poll candidate.
type Generator struct {
	provider ports.Provider
	prompt   string
	logger   ports.Logger
}

// NewGenerator builds a generator using prompt, or the default instruction when empty.
func NewGenerator(provider ports.Provider, prompt string, logger ports.Logger) *Generator {
	if strings.TrimSpace(prompt) == "" {
		prompt = domain.DefaultGeneratePrompt
	}
	return &Generator{provider: provider, prompt: prompt, logger: logger}
}

// Generate implements ports.Generator.
func (g *Generator) Generate(ctx context.Context) (domain.Candidate, error) {
	reply, err := g.provider.Complete(ctx, g.prompt)
	if err != nil {
		return domain.Candidate{}, err
	}
	if g.logger != nil {
		g.logger.Debug("generator reply", map[string]interface{}{"model": g.provider.Model().Name, "reply": reply})
	}
	return ParseCandidate(reply)
}

type candidatePayload struct {
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
}

// ParseCandidate decodes the model reply into a candidate.
// Anything that is not {question, answers[4]} is a generation parse error.
func ParseCandidate(reply string) (domain.Candidate, error) {
	var payload candidatePayload
	if err := json.Unmarshal([]byte(extractJSON(reply)), &payload); err != nil {
		return domain.Candidate{}, domain.NewError(domain.KindGenerationParse, "parse candidate", err)
	}
	c, err := domain.NewCandidate(payload.Question, payload.Answers)
	if err != nil {
		return domain.Candidate{}, domain.NewError(domain.KindGenerationParse, "parse candidate",
			fmt.Errorf("%w (got %d answers)", err, len(payload.Answers)))
	}
	return c, nil
}

var _ ports.Generator = (*Generator)(nil)

// extractJSON unwraps a reply fenced in a markdown code block (```json ... ```).
// Other text is returned trimmed and left for the decoder to reject.
func extractJSON(reply string) string {
	reply = strings.TrimSpace(reply)
	if !strings.HasPrefix(reply, "```") {
		return reply
	}
	body := strings.TrimPrefix(reply, "```")
	end := strings.LastIndex(body, "```")
	if end == -1 {
		return reply
	}
	body = body[:end]
	if nl := strings.IndexByte(body, '\n'); nl != -1 && !strings.ContainsAny(body[:nl], "{[") {
		body = body[nl+1:]
	}
	return strings.TrimSpace(body)
}
