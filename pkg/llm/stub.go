package llm

import (
	"context"
	"fmt"
)

// StubClient is a deterministic, in-process Client used by tests and by
// local development when no backend is configured. Responses is consumed
// in order; Invoke returns an error once exhausted.
type StubClient struct {
	Responses []string
	calls     int
	Prompts   []string
}

// Invoke returns the next queued response, recording the prompt it was
// called with.
func (s *StubClient) Invoke(_ context.Context, prompt string, _ string) (string, error) {
	s.Prompts = append(s.Prompts, prompt)
	if s.calls >= len(s.Responses) {
		return "", fmt.Errorf("llm: stub exhausted after %d calls", s.calls)
	}
	resp := s.Responses[s.calls]
	s.calls++
	return resp, nil
}

// CallCount reports how many times Invoke has been called.
func (s *StubClient) CallCount() int { return s.calls }
