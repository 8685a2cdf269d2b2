package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/mastopoll/internal/domain"
)

func validConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Generation:          domain.GenerationSettings{Model: "gen", MaxAttempts: 8},
		Filter: domain.FilterSettings{
			LocalThreshold:  0.49,
			RemoteThreshold: 0.35,
			WindowSize:      8,
			RemoteEnabled:   true,
			MaxAnswerLength: 50,
		},
		Prompts: domain.PromptSettings{Generate: "make a poll", Similarity: domain.DefaultSimilarityPrompt},
		Models: []domain.ModelDefinition{
			{Name: "gen", Endpoint: "https://api.example.com/v1/chat", ModelID: "m"},
		},
		Mastodon: domain.MastodonSettings{
			InstanceEnvVar: "MAST_INSTANCE",
			TokenEnvVar:    "MAST_TOKEN",
			Visibility:     "public",
			PollExpiresIn:  28800,
		},
		History: domain.HistorySettings{Backend: "json", Path: "/tmp/history.json"},
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	require.NoError(t, Validate(validConfig(), nil))
}

func TestValidateStructRules(t *testing.T) {
	cases := map[string]func(*domain.Config){
		"threshold above one": func(c *domain.Config) { c.Filter.LocalThreshold = 1.5 },
		"zero attempts":       func(c *domain.Config) { c.Generation.MaxAttempts = 0 },
		"bad visibility":      func(c *domain.Config) { c.Mastodon.Visibility = "everyone" },
		"short poll":          func(c *domain.Config) { c.Mastodon.PollExpiresIn = 60 },
		"unknown backend":     func(c *domain.Config) { c.History.Backend = "redis" },
		"no models":           func(c *domain.Config) { c.Models = nil },
		"bad endpoint":        func(c *domain.Config) { c.Models[0].Endpoint = "not a url" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(&cfg)
			err := Validate(cfg, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrConfig))
		})
	}
}

func TestValidateModelReferences(t *testing.T) {
	cfg := validConfig()
	cfg.Generation.Model = "missing"
	assert.ErrorContains(t, Validate(cfg, nil), "generation model missing")

	cfg = validConfig()
	cfg.Filter.SimilarityModel = "judge"
	assert.ErrorContains(t, Validate(cfg, nil), "similarity model judge")

	cfg.Filter.RemoteEnabled = false
	assert.NoError(t, Validate(cfg, nil))
}

func TestValidateDuplicateModel(t *testing.T) {
	cfg := validConfig()
	cfg.Models = append(cfg.Models, cfg.Models[0])
	assert.ErrorContains(t, Validate(cfg, nil), "declared twice")
}

func TestValidateTemplateCheck(t *testing.T) {
	check := func(string) error { return errors.New("unexpected EOF") }
	err := Validate(validConfig(), check)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompts.similarity")
}
