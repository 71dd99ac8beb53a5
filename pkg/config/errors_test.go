package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("llm.model", ErrMissingRequiredField)
	assert.Contains(t, err.Error(), "llm.model")
	assert.True(t, errors.Is(err, ErrMissingRequiredField))
}

func TestLoadError(t *testing.T) {
	err := NewLoadError("scenarioforge.yaml", ErrConfigNotFound)
	assert.Contains(t, err.Error(), "scenarioforge.yaml")
	assert.True(t, errors.Is(err, ErrConfigNotFound))
}
