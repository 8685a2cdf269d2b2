package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/doeshing/mastopoll/internal/domain"
)

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// TemplateCheck compiles a prompt template and reports syntax errors.
type TemplateCheck func(text string) error

// Validate ensures config structure is consistent. checkTemplate may be nil.
func Validate(cfg domain.Config, checkTemplate TemplateCheck) error {
	if err := structValidator.Struct(cfg); err != nil {
		return domain.NewError(domain.KindConfig, "config", describe(err))
	}
	if _, ok := cfg.FindModel(cfg.Generation.Model); !ok {
		return domain.ConfigError("config", "generation model %s not found in models list", cfg.Generation.Model)
	}
	if cfg.Filter.RemoteEnabled {
		if _, ok := cfg.FindModel(cfg.SimilarityModelName()); !ok {
			return domain.ConfigError("config", "similarity model %s not found in models list", cfg.SimilarityModelName())
		}
	}
	if err := uniqueModelNames(cfg.Models); err != nil {
		return err
	}
	if checkTemplate != nil {
		if err := checkTemplate(cfg.Prompts.Similarity); err != nil {
			return domain.ConfigError("config", "prompts.similarity: %v", err)
		}
	}
	return nil
}

func uniqueModelNames(models []domain.ModelDefinition) error {
	seen := make(map[string]struct{}, len(models))
	for _, model := range models {
		if _, dup := seen[model.Name]; dup {
			return domain.ConfigError("config", "model %s declared twice", model.Name)
		}
		seen[model.Name] = struct{}{}
	}
	return nil
}

// describe flattens validator errors into one line keyed by yaml-ish field paths.
func describe(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fmt.Sprintf("%s failed %s", strings.TrimPrefix(fe.Namespace(), "Config."), rule))
	}
	sort.Strings(parts)
	return errors.New(strings.Join(parts, "; "))
}
