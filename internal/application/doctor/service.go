package doctor

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/doeshing/mastopoll/internal/domain"
	"github.com/doeshing/mastopoll/internal/ports"
)

// HistoryOpener opens the configured history backend.
type HistoryOpener func(domain.HistorySettings) (ports.HistoryStore, error)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Validate       func(domain.Config) error
	OpenHistory    HistoryOpener
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("loaded format %s", cfg.ConfigFormatVersion)))

	if s.Validate != nil {
		if err := s.Validate(cfg); err != nil {
			checks = append(checks, fail("Config rules", err.Error()))
		} else {
			checks = append(checks, ok("Config rules", "valid"))
		}
	}

	checks = append(checks, apiCheck(cfg))
	checks = append(checks, mastodonCheck(cfg.Mastodon))

	if s.OpenHistory != nil {
		checks = append(checks, s.historyCheck(ctx, cfg.History))
	}

	return domain.HealthReport{Checks: checks}, nil
}

func apiCheck(cfg domain.Config) domain.HealthCheck {
	names := []string{cfg.Generation.Model}
	if cfg.Filter.RemoteEnabled && cfg.SimilarityModelName() != cfg.Generation.Model {
		names = append(names, cfg.SimilarityModelName())
	}
	for _, name := range names {
		model, found := cfg.FindModel(name)
		if !found {
			return fail("API keys", fmt.Sprintf("model %s not configured", name))
		}
		if model.AuthEnvVar != "" && os.Getenv(model.AuthEnvVar) == "" {
			return warn("API keys", fmt.Sprintf("%s missing for model %s", model.AuthEnvVar, name))
		}
	}
	return ok("API keys", "detected for configured models")
}

func mastodonCheck(settings domain.MastodonSettings) domain.HealthCheck {
	var missing []string
	for _, name := range []string{settings.InstanceEnvVar, settings.TokenEnvVar} {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return warn("Mastodon", fmt.Sprintf("missing %v; only dry runs will work", missing))
	}
	return ok("Mastodon", fmt.Sprintf("instance %s", os.Getenv(settings.InstanceEnvVar)))
}

func (s *Service) historyCheck(ctx context.Context, settings domain.HistorySettings) domain.HealthCheck {
	store, err := s.OpenHistory(settings)
	if err != nil {
		return fail("History", err.Error())
	}
	if closer, isCloser := store.(io.Closer); isCloser {
		defer closer.Close()
	}
	records, err := store.Load(ctx)
	if err != nil {
		return fail("History", err.Error())
	}
	return ok("History", fmt.Sprintf("%d records in %s", len(records), store.Path()))
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
