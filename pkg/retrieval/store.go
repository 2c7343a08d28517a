package retrieval

import (
	"context"

	"github.com/Unshaft/StudyBuddy/pkg/agent/state"
	"github.com/Unshaft/StudyBuddy/pkg/embedding"
)

// ChunkSearcher runs a nearest-neighbour search over stored course
// chunks. Implemented by the pgvector repository.
type ChunkSearcher interface {
	SearchByEmbedding(ctx context.Context, queryEmbedding []float32, userID string, subject string, limit int) ([]state.ContextItem, error)
}

// ContextStore finds the course passages most relevant to a query,
// scoped to one student's library.
type ContextStore interface {
	Search(ctx context.Context, query, userID string, subject state.Subject, topK int) ([]state.ContextItem, error)
}

type vectorStore struct {
	embedder embedding.EmbeddingProvider
	searcher ChunkSearcher
}

func NewVectorStore(embedder embedding.EmbeddingProvider, searcher ChunkSearcher) ContextStore {
	return &vectorStore{embedder: embedder, searcher: searcher}
}

func (s *vectorStore) Search(ctx context.Context, query, userID string, subject state.Subject, topK int) ([]state.ContextItem, error) {
	queryEmbedding, err := s.embedder.Embed(ctx, query, embedding.InputTypeQuery)
	if err != nil {
		return nil, err
	}

	return s.searcher.SearchByEmbedding(ctx, queryEmbedding, userID, string(subject), topK)
}
