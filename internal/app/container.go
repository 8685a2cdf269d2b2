package app

import (
	"context"
	"io"

	configapp "github.com/doeshing/mastopoll/internal/application/config"
	"github.com/doeshing/mastopoll/internal/application/doctor"
	"github.com/doeshing/mastopoll/internal/application/poll"
	"github.com/doeshing/mastopoll/internal/domain"
	"github.com/doeshing/mastopoll/internal/infrastructure/ai"
	"github.com/doeshing/mastopoll/internal/infrastructure/config"
	"github.com/doeshing/mastopoll/internal/infrastructure/history"
	"github.com/doeshing/mastopoll/internal/infrastructure/lock"
	"github.com/doeshing/mastopoll/internal/infrastructure/mastodon"
	"github.com/doeshing/mastopoll/internal/pkg/logger"
	"github.com/doeshing/mastopoll/internal/ports"
)

// Options are the process-level knobs the CLI passes down.
type Options struct {
	ConfigPath string
	LogLevel   string
	LogJSON    bool
	Verbose    bool
	LogOutput  io.Writer
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config          domain.Config
	ConfigLoader    *config.FileLoader
	Logger          *logger.CharmLogger
	ProviderFactory ports.ProviderFactory
	DoctorService   *doctor.Service

	historyStore ports.HistoryStore
}

// BuildContainer constructs the dependency graph.
// The history store is opened lazily so doctor can report a broken one.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	if opts.Verbose {
		level = "debug"
	}
	log := logger.New(logger.Options{
		Level:  level,
		JSON:   opts.LogJSON || cfg.Log.JSON,
		Output: opts.LogOutput,
	})

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		Validate:       Validate,
		OpenHistory:    history.Open,
	}

	return &Container{
		Config:          cfg,
		ConfigLoader:    cfgLoader,
		Logger:          log,
		ProviderFactory: ai.NewFactory(),
		DoctorService:   doctorService,
	}, nil
}

// Validate checks cfg including the similarity prompt template.
func Validate(cfg domain.Config) error {
	return configapp.Validate(cfg, func(text string) error {
		_, err := ai.ParseSimilarityTemplate(text)
		return err
	})
}

// HistoryStore opens the configured backend on first use.
func (c *Container) HistoryStore() (ports.HistoryStore, error) {
	if c.historyStore != nil {
		return c.historyStore, nil
	}
	store, err := history.Open(c.Config.History)
	if err != nil {
		return nil, err
	}
	c.historyStore = store
	return store, nil
}

// RunService assembles the retry controller. Configuration problems,
// including missing credentials, surface here before any attempt is made.
// Dry runs skip the publisher and run lock and need no Mastodon credentials.
func (c *Container) RunService(dryRun bool) (*poll.Service, error) {
	cfg := c.Config
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	genModel, _ := cfg.FindModel(cfg.Generation.Model)
	genProvider, err := c.ProviderFactory.ForModel(genModel)
	if err != nil {
		return nil, err
	}

	store, err := c.HistoryStore()
	if err != nil {
		return nil, err
	}

	svc := &poll.Service{
		Generator: ai.NewGenerator(genProvider, cfg.Prompts.Generate, c.Logger),
		History:   store,
		Logger:    c.Logger,
		Settings:  poll.SettingsFromConfig(cfg),
	}

	if cfg.Filter.RemoteEnabled {
		judgeModel, _ := cfg.FindModel(cfg.SimilarityModelName())
		judgeProvider, err := c.ProviderFactory.ForModel(judgeModel)
		if err != nil {
			return nil, err
		}
		judge, err := ai.NewJudge(judgeProvider, cfg.Prompts.Similarity, c.Logger)
		if err != nil {
			return nil, err
		}
		svc.Judge = judge
	}

	if !dryRun {
		publisher, err := mastodon.NewPublisherFromEnv(cfg.Mastodon)
		if err != nil {
			return nil, err
		}
		svc.Publisher = publisher
		svc.Locker = lock.ForHistory(store.Path(), domain.DefaultLockTimeout)
	}
	return svc, nil
}

// Close releases the history store if one was opened.
func (c *Container) Close() error {
	if c.historyStore == nil {
		return nil
	}
	return history.Close(c.historyStore)
}
