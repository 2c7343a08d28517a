package contract

import (
	"context"

	"github.com/Unshaft/StudyBuddy/internal/model"
	"github.com/Unshaft/StudyBuddy/internal/repository/specification"

	"github.com/google/uuid"
)

type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*model.Course, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.Course, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
