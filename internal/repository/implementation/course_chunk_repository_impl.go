package implementation

import (
	"context"

	"github.com/Unshaft/StudyBuddy/internal/model"
	"github.com/Unshaft/StudyBuddy/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type CourseChunkRepositoryImpl struct {
	db *gorm.DB
}

func NewCourseChunkRepository(db *gorm.DB) contract.CourseChunkRepository {
	return &CourseChunkRepositoryImpl{db: db}
}

func (r *CourseChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*model.CourseChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	// Batched insert keeps each statement under the parameter limit
	// for vectors of 1024 floats.
	return r.db.WithContext(ctx).CreateInBatches(chunks, 50).Error
}

func (r *CourseChunkRepositoryImpl) DeleteByCourseId(ctx context.Context, courseId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("course_id = ?", courseId).Delete(&model.CourseChunk{}).Error
}

// SearchSimilarWithScore runs a cosine nearest-neighbour search scoped
// to one user's ready courses, optionally filtered by subject.
// Cosine distance in pgvector is 1 - cosine_similarity, so similarity
// is recovered as 1 - (embedding <=> query).
func (r *CourseChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, subject string) ([]*contract.ScoredChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.CourseChunk
		CourseTitle string
		Subject     string
		Similarity  float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("course_chunks").
		Select("course_chunks.*, courses.title AS course_title, courses.subject AS subject, 1 - (course_chunks.embedding <=> ?) AS similarity", queryVector).
		Joins("JOIN courses ON courses.id = course_chunks.course_id").
		Where("course_chunks.user_id = ?", userId).
		Where("courses.status = ?", model.CourseStatusReady).
		Where("course_chunks.deleted_at IS NULL").
		Where("courses.deleted_at IS NULL")

	if subject != "" {
		query = query.Where("courses.subject = ?", subject)
	}

	err := query.
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredChunk, len(results))
	for i, res := range results {
		chunk := res.CourseChunk
		scored[i] = &contract.ScoredChunk{
			Chunk:       &chunk,
			CourseTitle: res.CourseTitle,
			Subject:     res.Subject,
			Similarity:  res.Similarity,
		}
	}
	return scored, nil
}
