// Package poll drives one batch pass: generate a candidate, filter it for
// novelty, and publish and record the first one that passes.
package poll

import (
	"context"
	"errors"
	"fmt"

	"github.com/doeshing/mastopoll/internal/domain"
	"github.com/doeshing/mastopoll/internal/ports"
)

// Settings holds the tunables of the retry controller.
type Settings struct {
	MaxAttempts       int
	LocalThreshold    float64
	RemoteThreshold   float64
	WindowSize        int
	RemoteEnabled     bool
	MaxAnswerLength   int
	RetryOnParseError bool
}

// DefaultSettings returns the values earlier published output was filtered with.
func DefaultSettings() Settings {
	return Settings{
		MaxAttempts:     domain.DefaultMaxAttempts,
		LocalThreshold:  domain.DefaultLocalThreshold,
		RemoteThreshold: domain.DefaultRemoteThreshold,
		WindowSize:      domain.DefaultWindowSize,
		RemoteEnabled:   true,
		MaxAnswerLength: domain.DefaultMaxAnswerLength,
	}
}

// SettingsFromConfig maps the config file onto controller settings.
func SettingsFromConfig(cfg domain.Config) Settings {
	return Settings{
		MaxAttempts:       cfg.Generation.MaxAttempts,
		LocalThreshold:    cfg.Filter.LocalThreshold,
		RemoteThreshold:   cfg.Filter.RemoteThreshold,
		WindowSize:        cfg.Filter.WindowSize,
		RemoteEnabled:     cfg.Filter.RemoteEnabled,
		MaxAnswerLength:   cfg.Filter.MaxAnswerLength,
		RetryOnParseError: cfg.Generation.RetryOnParseError,
	}
}

// RunOptions tweak a single pass.
type RunOptions struct {
	// DryRun filters normally but neither publishes nor persists.
	DryRun bool
}

// Service is the retry controller.
type Service struct {
	Generator ports.Generator
	Judge     ports.SimilarityJudge
	Publisher ports.Publisher
	History   ports.HistoryStore
	Locker    ports.RunLocker
	Logger    ports.Logger
	Settings  Settings
}

// Pipeline builds the filter stages for the current settings.
func (s *Service) Pipeline() *Pipeline {
	stages := []Stage{
		ValidationStage{Validator: NewValidator(s.Settings.MaxAnswerLength)},
		LocalStage{Threshold: s.Settings.LocalThreshold},
	}
	if s.Settings.RemoteEnabled && s.Judge != nil {
		stages = append(stages, RemoteStage{
			Confirmer:  &RemoteConfirmer{Judge: s.Judge},
			Threshold:  s.Settings.RemoteThreshold,
			WindowSize: s.Settings.WindowSize,
		})
	}
	return NewPipeline(stages...)
}

// Run performs one batch pass. Exhausting the attempt budget is a normal
// outcome reported through RunReport.Status with a nil error.
func (s *Service) Run(ctx context.Context, opts RunOptions) (domain.RunReport, error) {
	if err := s.checkDependencies(opts); err != nil {
		return domain.RunReport{}, err
	}
	maxAttempts := s.Settings.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = domain.DefaultMaxAttempts
	}

	if s.Locker != nil && !opts.DryRun {
		unlock, err := s.Locker.Lock(ctx)
		if err != nil {
			return domain.RunReport{}, err
		}
		defer func() {
			if err := unlock(); err != nil {
				s.Logger.Warn("release run lock", map[string]interface{}{"error": err.Error()})
			}
		}()
	}

	history, err := s.History.Load(ctx)
	if err != nil {
		return domain.RunReport{}, asKind(domain.KindStorage, "load history", err)
	}
	report := domain.RunReport{History: len(history)}
	s.Logger.Info("history loaded", map[string]interface{}{
		"records": len(history),
		"path":    s.History.Path(),
	})

	pipeline := s.Pipeline()
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		candidate, err := s.Generator.Generate(ctx)
		if err != nil {
			if s.Settings.RetryOnParseError && errors.Is(err, domain.ErrGenerationParse) {
				report.Attempts = append(report.Attempts, domain.AttemptReport{
					Number:  attempt,
					Outcome: domain.OutcomeRetry,
					Reason:  domain.RejectMalformed,
					Detail:  err.Error(),
				})
				s.Logger.Warn("malformed candidate", map[string]interface{}{"attempt": attempt, "error": err.Error()})
				continue
			}
			return report, asKind(domain.KindExternalService, "generate candidate", err)
		}

		outcome, scores := pipeline.Evaluate(ctx, candidate, history)
		entry := domain.AttemptReport{
			Number:    attempt,
			Candidate: candidate,
			Scores:    scores,
			Outcome:   outcome.Kind,
			Reason:    outcome.Reason,
			Detail:    outcome.Detail,
		}
		report.Attempts = append(report.Attempts, entry)
		s.logAttempt(entry)

		switch outcome.Kind {
		case domain.OutcomeRetry:
			continue
		case domain.OutcomeFatal:
			return report, outcome.Err
		case domain.OutcomeAccepted:
			return s.accept(ctx, report, outcome.Candidate, opts)
		}
	}

	report.Status = domain.RunStatusExhausted
	s.Logger.Info("attempts exhausted", map[string]interface{}{"attempts": maxAttempts})
	return report, nil
}

// accept publishes first and records second, so history only ever holds
// candidates that actually went out.
func (s *Service) accept(ctx context.Context, report domain.RunReport, c domain.Candidate, opts RunOptions) (domain.RunReport, error) {
	report.Candidate = &c
	if opts.DryRun {
		report.Status = domain.RunStatusDryRun
		return report, nil
	}

	published, err := s.Publisher.Publish(ctx, c)
	if err != nil {
		return report, asKind(domain.KindExternalService, "publish poll", err)
	}
	report.Published = &published
	s.Logger.Info("poll published", map[string]interface{}{"id": published.ID, "url": published.URL})

	if err := s.History.Append(ctx, c.Clone()); err != nil {
		return report, asKind(domain.KindStorage, "append history", err)
	}
	report.History++
	report.Status = domain.RunStatusPublished
	return report, nil
}

func (s *Service) logAttempt(entry domain.AttemptReport) {
	fields := map[string]interface{}{
		"attempt":  entry.Number,
		"question": entry.Candidate.Question,
		"outcome":  entry.Outcome.String(),
	}
	if entry.Scores.Local != nil {
		fields["local"] = fmt.Sprintf("%.3f", *entry.Scores.Local)
	}
	if entry.Scores.Remote != nil {
		fields["remote"] = fmt.Sprintf("%.3f", *entry.Scores.Remote)
	}
	if entry.Reason != domain.RejectNone {
		fields["reason"] = string(entry.Reason)
		fields["detail"] = entry.Detail
	}
	s.Logger.Info("candidate evaluated", fields)
}

func (s *Service) checkDependencies(opts RunOptions) error {
	if s.Generator == nil || s.History == nil || s.Logger == nil {
		return errors.New("poll.Service dependencies not satisfied")
	}
	if s.Publisher == nil && !opts.DryRun {
		return errors.New("poll.Service requires a publisher outside dry-run")
	}
	return nil
}

// asKind keeps an existing kind and wraps anything else.
func asKind(kind domain.ErrorKind, op string, err error) error {
	if _, ok := domain.KindOf(err); ok {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return domain.NewError(kind, op, err)
}
