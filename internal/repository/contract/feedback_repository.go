package contract

import (
	"context"

	"github.com/Unshaft/StudyBuddy/internal/model"
	"github.com/Unshaft/StudyBuddy/internal/repository/specification"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *model.Feedback) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.Feedback, error)
}
