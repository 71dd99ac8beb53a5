// Package llm provides the narrow text-in/text-out interface the agentic
// layer (Manager, Generator, Critic) uses to reach the LLM backend. The
// backend itself is opaque: callers append a JSON-only instruction to
// their prompt and rely on pkg/jsonutil to pull structured output out of
// whatever prose surrounds it.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client is the interface Manager, Generator and Critic invoke through.
// model_hint overrides the client's configured default model for a single
// call; an empty hint uses the default.
type Client interface {
	Invoke(ctx context.Context, prompt string, modelHint string) (string, error)
}

// invokeMethod is the fully-qualified gRPC method the backend exposes.
// The service takes and returns a google.protobuf.Struct so the client
// never needs a generated stub for the backend's actual request/response
// messages — it only has to agree on field names.
const invokeMethod = "/scenarioforge.llm.v1.LLMService/Invoke"

// GRPCClient calls a backend LLM service over a plain gRPC channel.
type GRPCClient struct {
	conn         *grpc.ClientConn
	defaultModel string
	timeout      time.Duration
}

// NewGRPCClient dials addr and returns a Client using defaultModel when a
// call doesn't supply its own model hint.
func NewGRPCClient(addr, defaultModel string) (*GRPCClient, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("llm: dial %s: %w", addr, err)
	}

	slog.Info("LLM client configured", "addr", addr, "model", defaultModel)

	return &GRPCClient{
		conn:         conn,
		defaultModel: defaultModel,
		timeout:      60 * time.Second,
	}, nil
}

// Close releases the underlying gRPC connection.
func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

// Invoke sends prompt to the backend and returns its raw text response.
func (c *GRPCClient) Invoke(ctx context.Context, prompt string, modelHint string) (string, error) {
	model := modelHint
	if model == "" {
		model = c.defaultModel
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := structpb.NewStruct(map[string]any{
		"prompt": prompt,
		"model":  model,
	})
	if err != nil {
		return "", fmt.Errorf("llm: build request: %w", err)
	}

	resp := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, invokeMethod, req, resp); err != nil {
		return "", fmt.Errorf("llm: invoke: %w", err)
	}

	text, ok := resp.Fields["text"]
	if !ok {
		return "", fmt.Errorf("llm: response missing %q field", "text")
	}

	return text.GetStringValue(), nil
}
