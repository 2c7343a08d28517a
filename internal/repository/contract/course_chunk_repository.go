package contract

import (
	"context"

	"github.com/Unshaft/StudyBuddy/internal/model"

	"github.com/google/uuid"
)

// ScoredChunk is a chunk joined with its course metadata and the
// cosine similarity against the query vector.
type ScoredChunk struct {
	Chunk       *model.CourseChunk
	CourseTitle string
	Subject     string
	Similarity  float64
}

type CourseChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*model.CourseChunk) error
	DeleteByCourseId(ctx context.Context, courseId uuid.UUID) error
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, subject string) ([]*ScoredChunk, error)
}
