package implementation

import (
	"context"
	"errors"

	"github.com/Unshaft/StudyBuddy/internal/model"
	"github.com/Unshaft/StudyBuddy/internal/repository/contract"
	"github.com/Unshaft/StudyBuddy/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseRepositoryImpl struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) contract.CourseRepository {
	return &CourseRepositoryImpl{db: db}
}

func (r *CourseRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CourseRepositoryImpl) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *CourseRepositoryImpl) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *CourseRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Course{}, id).Error
}

func (r *CourseRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*model.Course, error) {
	var m model.Course
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *CourseRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.Course, error) {
	var models []*model.Course
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return models, nil
}

func (r *CourseRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Course{}).Count(&count).Error
	return count, err
}
