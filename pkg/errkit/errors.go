// Package errkit is the scenario engine's error taxonomy. Callers classify
// a failure by kind with errors.Is; everything else wraps one of them with
// context the way the config package wraps ErrValidationFailed.
package errkit

import (
	"errors"
	"fmt"
)

// Sentinel kind markers. Every component-specific error wraps exactly one
// of these so a caller can classify a failure with errors.Is without
// knowing which component produced it.
var (
	// ErrSchema marks structurally malformed draft injects.
	ErrSchema = errors.New("schema error")
	// ErrFSM marks an illegal phase transition.
	ErrFSM = errors.New("fsm error")
	// ErrState marks a reference to an asset unknown to the state store.
	ErrState = errors.New("state error")
	// ErrTemporal marks a time_offset regression.
	ErrTemporal = errors.New("temporal error")
	// ErrCausal marks an impossible technique sequence.
	ErrCausal = errors.New("causal error")
	// ErrLLM marks an upstream generator/critic failure or malformed response.
	ErrLLM = errors.New("llm error")
	// ErrStore marks a graph backend failure.
	ErrStore = errors.New("store error")
	// ErrConfig marks missing or invalid startup configuration.
	ErrConfig = errors.New("config error")
)

// SchemaError wraps ErrSchema with the offending field.
type SchemaError struct {
	Field string
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("schema: field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("schema: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// NewSchemaError builds a SchemaError from a field name and a reason string.
func NewSchemaError(field, reason string) *SchemaError {
	return &SchemaError{Field: field, Err: errors.New(reason)}
}

// FSMError wraps ErrFSM with the attempted transition.
type FSMError struct {
	From string
	To   string
}

func (e *FSMError) Error() string {
	return fmt.Sprintf("fsm: %s is not a valid successor of %s", e.To, e.From)
}

func (e *FSMError) Unwrap() error { return ErrFSM }

// StateError wraps ErrState with the unknown asset id.
type StateError struct {
	AssetID string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("state: asset %q not found", e.AssetID)
}

func (e *StateError) Unwrap() error { return ErrState }

// TemporalError wraps ErrTemporal with the regression detail.
type TemporalError struct {
	Offset     string
	MaxOffset  string
	InjectID   string
}

func (e *TemporalError) Error() string {
	return fmt.Sprintf("temporal: inject %s at %s precedes max accepted offset %s", e.InjectID, e.Offset, e.MaxOffset)
}

func (e *TemporalError) Unwrap() error { return ErrTemporal }

// CausalError wraps ErrCausal with the implausible sequence detail.
type CausalError struct {
	Reason string
}

func (e *CausalError) Error() string { return fmt.Sprintf("causal: %s", e.Reason) }

func (e *CausalError) Unwrap() error { return ErrCausal }

// LLMError wraps ErrLLM with the component that invoked the LLM and the
// underlying transport/parse failure.
type LLMError struct {
	Component string
	Err       error
}

func (e *LLMError) Error() string {
	return fmt.Sprintf("llm: %s: %v", e.Component, e.Err)
}

func (e *LLMError) Unwrap() error { return e.Err }

// Is reports whether target is ErrLLM, so callers can classify LLMError
// with errors.Is(err, errkit.ErrLLM) regardless of the wrapped cause.
func (e *LLMError) Is(target error) bool { return target == ErrLLM }

// NewLLMError wraps err as an LLMError attributed to component.
func NewLLMError(component string, err error) *LLMError {
	return &LLMError{Component: component, Err: err}
}

// StoreError wraps ErrStore with the failing operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store: %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStore }

// NewStoreError wraps err as a StoreError attributed to op.
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

// ConfigError wraps ErrConfig with the offending key.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("config: %s: %v", e.Key, e.Err) }

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// NewConfigError wraps err as a ConfigError attributed to key.
func NewConfigError(key string, err error) *ConfigError {
	return &ConfigError{Key: key, Err: err}
}
