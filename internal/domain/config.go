package domain

// Config mirrors ~/.mastopoll/config.yaml.
type Config struct {
	ConfigFormatVersion string             `yaml:"config_format_version"`
	Generation          GenerationSettings `yaml:"generation"`
	Filter              FilterSettings     `yaml:"filter"`
	Prompts             PromptSettings     `yaml:"prompts"`
	Models              []ModelDefinition  `yaml:"models" validate:"min=1,dive"`
	Mastodon            MastodonSettings   `yaml:"mastodon"`
	History             HistorySettings    `yaml:"history"`
	Log                 LogSettings        `yaml:"log"`
}

// GenerationSettings controls the attempt budget and generator model.
type GenerationSettings struct {
	Model             string `yaml:"model" validate:"required"`
	MaxAttempts       int    `yaml:"max_attempts" validate:"min=1"`
	RetryOnParseError bool   `yaml:"retry_on_parse_error"`
}

// FilterSettings holds the novelty thresholds.
type FilterSettings struct {
	LocalThreshold  float64 `yaml:"local_threshold" validate:"gte=0,lte=1"`
	RemoteThreshold float64 `yaml:"remote_threshold" validate:"gte=0,lte=1"`
	WindowSize      int     `yaml:"window_size" validate:"min=1"`
	RemoteEnabled   bool    `yaml:"remote_enabled"`
	SimilarityModel string  `yaml:"similarity_model,omitempty"`
	MaxAnswerLength int     `yaml:"max_answer_length" validate:"min=1"`
}

// PromptSettings holds the instruction texts sent to the language model.
type PromptSettings struct {
	Generate   string `yaml:"generate" validate:"required"`
	Similarity string `yaml:"similarity" validate:"required"`
}

// MastodonSettings configures the poll publisher.
// Host and token are read from the named environment variables.
type MastodonSettings struct {
	InstanceEnvVar string `yaml:"instance_env_var" validate:"required"`
	TokenEnvVar    string `yaml:"token_env_var" validate:"required"`
	Visibility     string `yaml:"visibility" validate:"oneof=public unlisted private direct"`
	Language       string `yaml:"language"`
	PollExpiresIn  int    `yaml:"poll_expires_in" validate:"min=300"`
	TimeoutSeconds int    `yaml:"timeout"`
}

// HistorySettings selects the history backend.
type HistorySettings struct {
	Backend string `yaml:"backend" validate:"oneof=json sqlite"`
	Path    string `yaml:"path" validate:"required"`
}

// LogSettings configures the logger.
type LogSettings struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	JSON  bool   `yaml:"json"`
}

// FindModel looks up a model definition by name.
func (c Config) FindModel(name string) (ModelDefinition, bool) {
	for _, model := range c.Models {
		if model.Name == name {
			return model, true
		}
	}
	return ModelDefinition{}, false
}

// SimilarityModelName returns the model used for remote confirmation,
// falling back to the generation model.
func (c Config) SimilarityModelName() string {
	if c.Filter.SimilarityModel != "" {
		return c.Filter.SimilarityModel
	}
	return c.Generation.Model
}
