// Package intel implements the IntelProvider: a ranked list of candidate
// adversary techniques (TTPs) appropriate for the scenario's current
// crisis phase, backed by a vector similarity search with a deterministic
// fallback so generation never stalls when the vector store is down.
package intel

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finhavoc/scenarioforge/pkg/domain"
)

// SearchResult is one hit from the opaque vector store (spec.md §6).
type SearchResult struct {
	ID       string
	Text     string
	Metadata map[string]string
	Score    float32
}

// VectorStore is the narrow interface IntelProvider consumes: similarity
// search over stored TTP embeddings.
type VectorStore interface {
	SimilaritySearch(ctx context.Context, queryText string, k int) ([]SearchResult, error)
}

// Provider returns candidate TTPs ranked by similarity to the current
// phase, falling back to a curated deterministic list when the backing
// vector store is unavailable.
type Provider struct {
	store VectorStore
}

// New builds a Provider over the given vector store. store may be nil, in
// which case GetTTPs always uses the curated fallback.
func New(store VectorStore) *Provider {
	return &Provider{store: store}
}

// GetTTPs returns up to k candidate TTPs appropriate for scenarioType and
// phase. A vector store failure is absorbed into the curated fallback
// rather than surfaced as an error — intel lookup never blocks generation.
func (p *Provider) GetTTPs(ctx context.Context, scenarioType domain.ScenarioType, phase domain.Phase, k int) []domain.TTP {
	if p.store == nil {
		return fallbackTTPs(phase, k)
	}

	query := phaseQuery(scenarioType, phase)
	results, err := p.store.SimilaritySearch(ctx, query, k)
	if err != nil {
		slog.Warn("vector store unavailable, using curated TTP fallback", "phase", phase, "error", err)
		return fallbackTTPs(phase, k)
	}

	if len(results) == 0 {
		return fallbackTTPs(phase, k)
	}

	ttps := make([]domain.TTP, 0, len(results))
	for _, r := range results {
		ttps = append(ttps, domain.TTP{
			ID:          r.ID,
			Name:        r.Metadata["name"],
			Tactic:      r.Metadata["tactic"],
			Description: r.Text,
		})
	}
	return ttps
}

func phaseQuery(scenarioType domain.ScenarioType, phase domain.Phase) string {
	return fmt.Sprintf("adversary techniques for %s during %s", scenarioType, phase)
}
