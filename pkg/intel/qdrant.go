package intel

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
)

// QdrantStore implements VectorStore against a Qdrant collection of TTP
// embeddings. Embedding generation itself is out of scope here (spec.md
// §1 places the vector database out of scope); QdrantStore assumes the
// collection is pre-populated and performs similarity search only.
type QdrantStore struct {
	client         *qdrant.Client
	collectionName string
	embed          func(ctx context.Context, text string) ([]float32, error)
}

// NewQdrantStore dials a Qdrant instance at host:port. embed produces the
// query vector for a piece of text; this package does not own embedding
// model selection.
func NewQdrantStore(host string, port int, collectionName string, embed func(ctx context.Context, text string) ([]float32, error)) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("intel: connect to qdrant at %s:%d: %w", host, port, err)
	}

	return &QdrantStore{
		client:         client,
		collectionName: collectionName,
		embed:          embed,
	}, nil
}

// SimilaritySearch embeds queryText and returns the k nearest stored TTPs.
func (q *QdrantStore) SimilaritySearch(ctx context.Context, queryText string, k int) ([]SearchResult, error) {
	vector, err := q.embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("intel: embed query: %w", err)
	}

	limit := uint64(k)
	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("intel: qdrant query: %w", err)
	}

	results := make([]SearchResult, 0, len(points))
	for _, p := range points {
		payload := p.GetPayload()
		results = append(results, SearchResult{
			ID:       pointIDString(p.GetId()),
			Text:     payload["description"].GetStringValue(),
			Score:    p.GetScore(),
			Metadata: map[string]string{
				"name":   payload["name"].GetStringValue(),
				"tactic": payload["tactic"].GetStringValue(),
			},
		})
	}
	return results, nil
}

// Close releases the underlying Qdrant connection.
func (q *QdrantStore) Close() error {
	return q.client.Close()
}

func pointIDString(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	switch v := id.PointIdOptions.(type) {
	case *qdrant.PointId_Uuid:
		return v.Uuid
	case *qdrant.PointId_Num:
		return fmt.Sprintf("%d", v.Num)
	default:
		return ""
	}
}
