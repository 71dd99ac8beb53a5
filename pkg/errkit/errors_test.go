package errkit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaErrorWrapsSentinel(t *testing.T) {
	err := NewSchemaError("content", "too short")
	assert.True(t, errors.Is(err, ErrSchema))
	assert.Contains(t, err.Error(), "content")
}

func TestFSMErrorMessage(t *testing.T) {
	err := &FSMError{From: "NORMAL_OPERATION", To: "RECOVERY"}
	assert.True(t, errors.Is(err, ErrFSM))
	assert.Contains(t, err.Error(), "RECOVERY")
	assert.Contains(t, err.Error(), "NORMAL_OPERATION")
}

func TestStateErrorUnwrap(t *testing.T) {
	err := &StateError{AssetID: "SRV-NOT-EXIST"}
	assert.True(t, errors.Is(err, ErrState))
}

func TestLLMErrorIsMatchesWrappedSentinel(t *testing.T) {
	cause := errors.New("context deadline exceeded")
	err := NewLLMError("generator", cause)
	assert.True(t, errors.Is(err, ErrLLM))
	assert.True(t, errors.Is(err, cause))
}

func TestStoreErrorIs(t *testing.T) {
	err := NewStoreError("update_entity_status", errors.New("connection refused"))
	assert.True(t, errors.Is(err, ErrStore))
}

func TestConfigErrorIs(t *testing.T) {
	err := NewConfigError("LLM_API_KEY", errors.New("missing"))
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestDistinctKindsNotConfused(t *testing.T) {
	var schemaErr error = NewSchemaError("x", "y")
	assert.False(t, errors.Is(schemaErr, ErrFSM))
	assert.False(t, errors.Is(schemaErr, ErrState))
}
