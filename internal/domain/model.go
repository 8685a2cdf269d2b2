// Package domain defines core business entities and value objects for mastopoll.
//
// This file contains language-model definitions used by both the candidate
// generator and the remote similarity confirmer. The domain layer is
// independent of infrastructure concerns.
package domain

// ModelDefinition describes a chat-completion endpoint declared in the config file.
type ModelDefinition struct {
	Name             string    `yaml:"name" validate:"required"`
	Endpoint         string    `yaml:"endpoint" validate:"required,url"`
	AuthEnvVar       string    `yaml:"auth_env_var"`
	ModelID          string    `yaml:"model_id" validate:"required"`
	MaxTokens        int       `yaml:"max_tokens,omitempty" validate:"gte=0"`
	Temperature      *float64  `yaml:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	PresencePenalty  *float64  `yaml:"presence_penalty,omitempty" validate:"omitempty,gte=-2,lte=2"`
	FrequencyPenalty *float64  `yaml:"frequency_penalty,omitempty" validate:"omitempty,gte=-2,lte=2"`
	SystemPrompt     string    `yaml:"system_prompt,omitempty"`
	APIFormat        APIFormat `yaml:"api_format,omitempty"`
}

// APIFormat defines how to authenticate and where to find the reply text.
// All fields are optional with OpenAI-compatible defaults.
type APIFormat struct {
	// AuthHeaderName specifies the HTTP header name for authentication.
	// Default: "Authorization"
	AuthHeaderName string `yaml:"auth_header_name,omitempty"`

	// AuthHeaderPrefix is prepended to the API key value.
	// Default: "Bearer " (with trailing space), empty when AuthHeaderName is customized.
	AuthHeaderPrefix string `yaml:"auth_header_prefix,omitempty"`

	// ResponseJSONPath is a gjson path to the generated text.
	// Default: "choices.0.message.content"
	ResponseJSONPath string `yaml:"response_json_path,omitempty"`

	// JSONMode asks the endpoint for a JSON object reply (OpenAI response_format).
	JSONMode bool `yaml:"json_mode,omitempty"`

	// ExtraHeaders contains additional HTTP headers to send with each request.
	// Example: {"anthropic-version": "2023-06-01"}
	ExtraHeaders map[string]string `yaml:"extra_headers,omitempty"`
}

const (
	DefaultAuthHeaderName   = "Authorization"
	DefaultAuthHeaderPrefix = "Bearer "

	DefaultResponsePath   = "choices.0.message.content"
	AnthropicResponsePath = "content.0.text"
)

// GetAuthHeaderName returns the authentication header name with default fallback.
func (f APIFormat) GetAuthHeaderName() string {
	if f.AuthHeaderName == "" {
		return DefaultAuthHeaderName
	}
	return f.AuthHeaderName
}

// GetAuthHeaderPrefix returns the authentication header prefix.
// A customized header name with no prefix means the key is sent bare (x-api-key style).
func (f APIFormat) GetAuthHeaderPrefix() string {
	if f.AuthHeaderPrefix == "" && f.AuthHeaderName == "" {
		return DefaultAuthHeaderPrefix
	}
	return f.AuthHeaderPrefix
}

// GetResponseJSONPath returns the reply path with default fallback.
func (f APIFormat) GetResponseJSONPath() string {
	if f.ResponseJSONPath == "" {
		return DefaultResponsePath
	}
	return f.ResponseJSONPath
}
