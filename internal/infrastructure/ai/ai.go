// Package ai talks to chat-completion endpoints on behalf of the poll pipeline.
//
// This package implements a configuration-driven approach to providers:
//   - Factory: Creates provider instances from model definitions
//   - HTTP Provider: Generic resty client for any OpenAI-compatible API
//   - Generator: Asks for a fresh poll candidate and parses it
//   - Judge: Asks for the maximum semantic similarity between sentences
//
// Provider-specific behavior (auth header, reply location) is controlled by
// the model's APIFormat, so no per-vendor adapters are needed.
package ai

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/doeshing/mastopoll/internal/domain"
	"github.com/doeshing/mastopoll/internal/ports"
)

const providerName = "http"

// ====================================================================================
// Factory
// ====================================================================================

// Factory creates provider instances sharing one HTTP client.
type Factory struct {
	client *resty.Client
}

// NewFactory creates a provider factory with the default timeout.
func NewFactory() *Factory {
	return NewFactoryWithClient(resty.New().SetTimeout(domain.DefaultHTTPClientTimeout))
}

// NewFactoryWithClient lets tests inject a client.
func NewFactoryWithClient(client *resty.Client) *Factory {
	return &Factory{client: client}
}

// ForModel builds a provider. A missing API key is a configuration error,
// reported before any request is made.
func (f *Factory) ForModel(model domain.ModelDefinition) (ports.Provider, error) {
	key := ""
	if model.AuthEnvVar != "" {
		key = strings.TrimSpace(os.Getenv(model.AuthEnvVar))
		if key == "" {
			return nil, domain.ConfigError("model "+model.Name, "missing API key: set %s environment variable", model.AuthEnvVar)
		}
	}
	return &httpProvider{model: model, apiKey: key, client: f.client}, nil
}

var _ ports.ProviderFactory = (*Factory)(nil)

// ====================================================================================
// HTTP Provider
// ====================================================================================

type httpProvider struct {
	model  domain.ModelDefinition
	apiKey string
	client *resty.Client
}

func (p *httpProvider) Name() string {
	return providerName
}

func (p *httpProvider) Model() domain.ModelDefinition {
	return p.model
}

// Complete sends prompt as a single user message and returns the reply text.
func (p *httpProvider) Complete(ctx context.Context, prompt string) (string, error) {
	req := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(p.buildRequestBody(prompt))

	if p.apiKey != "" {
		req.SetHeader(p.model.APIFormat.GetAuthHeaderName(), p.model.APIFormat.GetAuthHeaderPrefix()+p.apiKey)
	}
	for key, value := range p.model.APIFormat.ExtraHeaders {
		req.SetHeader(key, value)
	}

	resp, err := req.Post(p.model.Endpoint)
	if err != nil {
		return "", domain.NewError(domain.KindExternalService, p.model.Name, fmt.Errorf("HTTP request failed: %w", err))
	}
	if resp.IsError() {
		return "", domain.NewError(domain.KindExternalService, p.model.Name,
			fmt.Errorf("HTTP %d: %s", resp.StatusCode(), truncate(resp.String(), 200)))
	}

	content, err := p.parseResponse(resp.Body())
	if err != nil {
		return "", domain.NewError(domain.KindExternalService, p.model.Name, fmt.Errorf("parse response: %w", err))
	}
	return content, nil
}

// buildRequestBody constructs the chat-completion payload.
func (p *httpProvider) buildRequestBody(prompt string) map[string]interface{} {
	messages := make([]map[string]string, 0, 2)
	if p.model.SystemPrompt != "" {
		messages = append(messages, map[string]string{"role": "system", "content": p.model.SystemPrompt})
	}
	messages = append(messages, map[string]string{"role": "user", "content": prompt})

	body := map[string]interface{}{
		"model":    p.model.ModelID,
		"messages": messages,
	}
	if p.model.MaxTokens > 0 {
		body["max_tokens"] = p.model.MaxTokens
	}
	if p.model.Temperature != nil {
		body["temperature"] = *p.model.Temperature
	}
	if p.model.PresencePenalty != nil {
		body["presence_penalty"] = *p.model.PresencePenalty
	}
	if p.model.FrequencyPenalty != nil {
		body["frequency_penalty"] = *p.model.FrequencyPenalty
	}
	if p.model.APIFormat.JSONMode {
		body["response_format"] = map[string]string{"type": "json_object"}
	}
	return body
}

// parseResponse extracts the generated text at the configured gjson path.
func (p *httpProvider) parseResponse(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("response is not valid JSON")
	}
	path := p.model.APIFormat.GetResponseJSONPath()
	result := gjson.GetBytes(body, path)
	if !result.Exists() {
		return "", fmt.Errorf("path '%s' not found", path)
	}
	if result.Type != gjson.String {
		return "", fmt.Errorf("value at '%s' is not a string", path)
	}
	return strings.TrimSpace(result.String()), nil
}

// truncate keeps at most n runes.
func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
