package implementation

import (
	"context"

	"github.com/Unshaft/StudyBuddy/internal/model"
	"github.com/Unshaft/StudyBuddy/internal/repository/contract"
	"github.com/Unshaft/StudyBuddy/internal/repository/specification"

	"gorm.io/gorm"
)

type FeedbackRepositoryImpl struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) contract.FeedbackRepository {
	return &FeedbackRepositoryImpl{db: db}
}

func (r *FeedbackRepositoryImpl) Create(ctx context.Context, feedback *model.Feedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *FeedbackRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.Feedback, error) {
	var models []*model.Feedback
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return models, nil
}
