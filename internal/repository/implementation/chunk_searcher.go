package implementation

import (
	"context"

	"github.com/Unshaft/StudyBuddy/internal/repository/contract"
	"github.com/Unshaft/StudyBuddy/pkg/agent/state"
	"github.com/Unshaft/StudyBuddy/pkg/retrieval"

	"github.com/google/uuid"
)

type chunkSearcher struct {
	repo contract.CourseChunkRepository
}

// NewChunkSearcher adapts the chunk repository to the search interface
// the retrieval store expects.
func NewChunkSearcher(repo contract.CourseChunkRepository) retrieval.ChunkSearcher {
	return &chunkSearcher{repo: repo}
}

func (s *chunkSearcher) SearchByEmbedding(ctx context.Context, queryEmbedding []float32, userID string, subject string, limit int) ([]state.ContextItem, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}

	scored, err := s.repo.SearchSimilarWithScore(ctx, queryEmbedding, limit, uid, subject)
	if err != nil {
		return nil, err
	}

	items := make([]state.ContextItem, len(scored))
	for i, sc := range scored {
		items[i] = state.ContextItem{
			Content:     sc.Chunk.Content,
			CourseTitle: sc.CourseTitle,
			Subject:     sc.Subject,
			Similarity:  sc.Similarity,
			ChunkIndex:  sc.Chunk.ChunkIndex,
			CourseID:    sc.Chunk.CourseId.String(),
		}
	}
	return items, nil
}
