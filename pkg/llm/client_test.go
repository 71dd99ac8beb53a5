package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGRPCClient_ConfiguresDefaults(t *testing.T) {
	client, err := NewGRPCClient("localhost:50051", "claude-sonnet")
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, "claude-sonnet", client.defaultModel)
	assert.NotZero(t, client.timeout)
}

func TestGRPCClient_ImplementsClient(t *testing.T) {
	var _ Client = (*GRPCClient)(nil)
	var _ Client = (*StubClient)(nil)
}
