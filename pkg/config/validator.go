package config

import (
	"fmt"
	"strings"
)

// Validator validates configuration comprehensively with clear error messages
type Validator struct {
	cfg *Config
}

// NewValidator creates a validator for the given configuration
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateAll performs comprehensive validation (fail-fast - stops at first error)
func (v *Validator) ValidateAll() error {
	if err := v.validateLLM(); err != nil {
		return fmt.Errorf("llm validation failed: %w", err)
	}

	if err := v.validateGraph(); err != nil {
		return fmt.Errorf("graph validation failed: %w", err)
	}

	if err := v.validateDefaults(); err != nil {
		return fmt.Errorf("defaults validation failed: %w", err)
	}

	return nil
}

func (v *Validator) validateLLM() error {
	if v.cfg.LLMAPIKey == "" {
		return NewValidationError("llm.api_key", ErrMissingRequiredField)
	}
	if v.cfg.LLMModel == "" {
		return NewValidationError("llm.model", ErrMissingRequiredField)
	}
	return nil
}

func (v *Validator) validateGraph() error {
	if v.cfg.GraphURI == "" {
		return NewValidationError("graph.uri", ErrMissingRequiredField)
	}
	if v.cfg.GraphPassword == "" {
		return NewValidationError("graph.password", fmt.Errorf("%w: GRAPH_PASSWORD is required", ErrInvalidValue))
	}
	return nil
}

func (v *Validator) validateDefaults() error {
	defaults := v.cfg.Defaults
	if defaults == nil {
		return nil
	}

	if defaults.MaxIterations != nil && *defaults.MaxIterations < 1 {
		return NewValidationError("defaults.max_iterations", fmt.Errorf("%w: must be at least 1, got %d", ErrInvalidValue, *defaults.MaxIterations))
	}

	if defaults.Mode != "" && defaults.Mode != "legacy" && defaults.Mode != "thesis" {
		return NewValidationError("defaults.mode", fmt.Errorf("%w: must be \"legacy\" or \"thesis\", got %q", ErrInvalidValue, defaults.Mode))
	}

	for _, standard := range defaults.ComplianceStandards {
		if strings.TrimSpace(standard) == "" {
			return NewValidationError("defaults.compliance_standards", fmt.Errorf("%w: empty entry", ErrInvalidValue))
		}
	}

	return nil
}
