package ai

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/tidwall/gjson"

	"github.com/doeshing/mastopoll/internal/domain"
	"github.com/doeshing/mastopoll/internal/ports"
)

// Judge asks the model to rate semantic similarity between a candidate and history.
type Judge struct {
	provider ports.Provider
	tmpl     *template.Template
	logger   ports.Logger
}

type similarityPromptData struct {
	Sentences []string
}

var promptFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// NewJudge parses promptTemplate, falling back to the default when empty.
func NewJudge(provider ports.Provider, promptTemplate string, logger ports.Logger) (*Judge, error) {
	if strings.TrimSpace(promptTemplate) == "" {
		promptTemplate = domain.DefaultSimilarityPrompt
	}
	tmpl, err := ParseSimilarityTemplate(promptTemplate)
	if err != nil {
		return nil, err
	}
	return &Judge{provider: provider, tmpl: tmpl, logger: logger}, nil
}

// ParseSimilarityTemplate compiles a similarity prompt template.
func ParseSimilarityTemplate(text string) (*template.Template, error) {
	tmpl, err := template.New("similarity").Funcs(promptFuncs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, domain.NewError(domain.KindConfig, "similarity prompt", err)
	}
	return tmpl, nil
}

// MaxSimilarity implements ports.SimilarityJudge.
func (j *Judge) MaxSimilarity(ctx context.Context, candidate string, history []string) (float64, error) {
	prompt, err := j.BuildPrompt(candidate, history)
	if err != nil {
		return 0, err
	}
	reply, err := j.provider.Complete(ctx, prompt)
	if err != nil {
		return 0, err
	}
	if j.logger != nil {
		j.logger.Debug("similarity reply", map[string]interface{}{"reply": reply, "sentences": len(history) + 1})
	}
	return ParseSimilarity(reply)
}

// BuildPrompt renders the candidate as Sentence 1 followed by each history question.
func (j *Judge) BuildPrompt(candidate string, history []string) (string, error) {
	sentences := make([]string, 0, len(history)+1)
	sentences = append(sentences, candidate)
	sentences = append(sentences, history...)

	var buf bytes.Buffer
	if err := j.tmpl.Execute(&buf, similarityPromptData{Sentences: sentences}); err != nil {
		return "", domain.NewError(domain.KindConfig, "render similarity prompt", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// ParseSimilarity accepts only an object with exactly one numeric field "similarity".
func ParseSimilarity(reply string) (float64, error) {
	raw := extractJSON(reply)
	if !gjson.Valid(raw) {
		return 0, parseFailure("reply is not valid JSON: %q", truncate(reply, 80))
	}
	parsed := gjson.Parse(raw)
	if !parsed.IsObject() {
		return 0, parseFailure("reply is not a JSON object")
	}
	fields := 0
	parsed.ForEach(func(_, _ gjson.Result) bool {
		fields++
		return true
	})
	if fields != 1 {
		return 0, parseFailure("expected a single field, got %d", fields)
	}
	value := parsed.Get("similarity")
	if value.Type != gjson.Number {
		return 0, parseFailure("field \"similarity\" missing or not a number")
	}
	return value.Float(), nil
}

func parseFailure(format string, args ...any) error {
	return domain.NewError(domain.KindExternalService, "parse similarity", fmt.Errorf(format, args...))
}

var _ ports.SimilarityJudge = (*Judge)(nil)
