package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/mastopoll/internal/domain"
	"github.com/doeshing/mastopoll/internal/pkg/filesystem"
	"github.com/doeshing/mastopoll/internal/ports"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "MASTOPOLL_CONFIG"

// FileLoader loads YAML configuration from ~/.mastopoll/config.yaml (overridable via MASTOPOLL_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader. An empty path uses the default resolution.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. A missing file is created with defaults.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := l.Save(cfg); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, err
	}

	cfg := overlayBase()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, domain.NewError(domain.KindConfig, path, err)
	}
	return HydrateDefaults(cfg), nil
}

// Save writes cfg to the resolved path.
func (l *FileLoader) Save(cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	path := l.Path()
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

// Path returns the config file location.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.AppDir(), "config.yaml")
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() domain.Config {
	temperature := 0.99
	presence := 1.8
	return domain.Config{
		ConfigFormatVersion: "1",
		Generation: domain.GenerationSettings{
			Model:       "gpt-4o-mini",
			MaxAttempts: domain.DefaultMaxAttempts,
		},
		Filter: domain.FilterSettings{
			LocalThreshold:  domain.DefaultLocalThreshold,
			RemoteThreshold: domain.DefaultRemoteThreshold,
			WindowSize:      domain.DefaultWindowSize,
			RemoteEnabled:   true,
			MaxAnswerLength: domain.DefaultMaxAnswerLength,
		},
		Prompts: domain.PromptSettings{
			Generate:   domain.DefaultGeneratePrompt,
			Similarity: domain.DefaultSimilarityPrompt,
		},
		Models: []domain.ModelDefinition{
			{
				Name:            "gpt-4o-mini",
				Endpoint:        "https://api.openai.com/v1/chat/completions",
				AuthEnvVar:      "OPENAI_API_KEY",
				ModelID:         "gpt-4o-mini",
				MaxTokens:       256,
				Temperature:     &temperature,
				PresencePenalty: &presence,
				APIFormat:       domain.APIFormat{JSONMode: true},
			},
		},
		Mastodon: domain.MastodonSettings{
			InstanceEnvVar: domain.DefaultInstanceEnvVar,
			TokenEnvVar:    domain.DefaultTokenEnvVar,
			Visibility:     domain.DefaultVisibility,
			Language:       domain.DefaultLanguage,
			PollExpiresIn:  domain.DefaultPollExpiresIn,
			TimeoutSeconds: 30,
		},
		History: domain.HistorySettings{
			Backend: domain.HistoryBackendJSON,
			Path:    filepath.Join(filesystem.AppDir(), "history.json"),
		},
		Log: domain.LogSettings{Level: "info"},
	}
}

// overlayBase is what a config file is decoded on top of, so keys left out
// of the file keep their defaults. The generation model and history path are
// cleared because their defaults depend on other keys.
func overlayBase() domain.Config {
	cfg := DefaultConfig()
	cfg.Generation.Model = ""
	cfg.History.Path = ""
	return cfg
}

// HydrateDefaults resolves values that depend on other keys and restores
// strings a file set to empty. Numbers and booleans are taken as written.
func HydrateDefaults(cfg domain.Config) domain.Config {
	def := DefaultConfig()
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = def.ConfigFormatVersion
	}
	if len(cfg.Models) == 0 {
		cfg.Models = def.Models
	}
	if cfg.Generation.Model == "" {
		cfg.Generation.Model = cfg.Models[0].Name
	}
	if cfg.Prompts.Generate == "" {
		cfg.Prompts.Generate = def.Prompts.Generate
	}
	if cfg.Prompts.Similarity == "" {
		cfg.Prompts.Similarity = def.Prompts.Similarity
	}
	if cfg.Mastodon.InstanceEnvVar == "" {
		cfg.Mastodon.InstanceEnvVar = def.Mastodon.InstanceEnvVar
	}
	if cfg.Mastodon.TokenEnvVar == "" {
		cfg.Mastodon.TokenEnvVar = def.Mastodon.TokenEnvVar
	}
	if cfg.Mastodon.Visibility == "" {
		cfg.Mastodon.Visibility = def.Mastodon.Visibility
	}
	if cfg.Mastodon.Language == "" {
		cfg.Mastodon.Language = def.Mastodon.Language
	}
	if cfg.History.Backend == "" {
		cfg.History.Backend = def.History.Backend
	}
	if cfg.History.Path == "" {
		cfg.History.Path = def.History.Path
		if cfg.History.Backend == domain.HistoryBackendSQLite {
			cfg.History.Path = filepath.Join(filesystem.AppDir(), "history.db")
		}
	}
	cfg.History.Path = filesystem.ExpandPath(cfg.History.Path)
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
