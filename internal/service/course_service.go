package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Unshaft/StudyBuddy/internal/dto"
	"github.com/Unshaft/StudyBuddy/internal/model"
	"github.com/Unshaft/StudyBuddy/internal/pkg/logger"
	"github.com/Unshaft/StudyBuddy/internal/pkg/serverutils"
	"github.com/Unshaft/StudyBuddy/internal/repository/contract"
	"github.com/Unshaft/StudyBuddy/internal/repository/specification"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICourseService interface {
	Upload(ctx context.Context, userId uuid.UUID, image []byte) (*dto.UploadCourseResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowCourseResponse, error)
	List(ctx context.Context, userId uuid.UUID, subject string) (*dto.ListCoursesResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type courseService struct {
	courses          contract.CourseRepository
	chunks           contract.CourseChunkRepository
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewCourseService(
	courses contract.CourseRepository,
	chunks contract.CourseChunkRepository,
	publisherService IPublisherService,
	log logger.ILogger,
) ICourseService {
	return &courseService{
		courses:          courses,
		chunks:           chunks,
		publisherService: publisherService,
		logger:           log,
	}
}

// Upload registers the course immediately and defers the heavy work
// (vision read, chunking, embedding) to the ingest worker. The client
// polls the status or listens on the websocket.
func (s *courseService) Upload(ctx context.Context, userId uuid.UUID, image []byte) (*dto.UploadCourseResponse, error) {
	course := model.Course{
		Id:        uuid.New(),
		Title:     "Sans titre",
		Subject:   "",
		Status:    model.CourseStatusProcessing,
		UserId:    userId,
		CreatedAt: time.Now(),
	}

	if err := s.courses.Create(ctx, &course); err != nil {
		return nil, err
	}

	payload := dto.PublishIngestCourseMessage{
		CourseId: course.Id,
		UserId:   userId,
		Image:    image,
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	if err := s.publisherService.Publish(ctx, payloadJson); err != nil {
		return nil, err
	}

	s.logger.Info("course", "Course upload queued", map[string]interface{}{
		"course_id": course.Id,
		"user_id":   userId,
	})

	return &dto.UploadCourseResponse{
		Id:     course.Id,
		Status: course.Status,
	}, nil
}

func (s *courseService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowCourseResponse, error) {
	course, err := s.courses.FindOne(ctx, specification.ByID{ID: id}, specification.OwnedByUser{UserID: userId})
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, serverutils.NewAppError(fiber.StatusNotFound, "Course not found")
	}

	var keywords []string
	if len(course.Keywords) > 0 {
		_ = json.Unmarshal(course.Keywords, &keywords)
	}

	return &dto.ShowCourseResponse{
		Id:        course.Id,
		Title:     course.Title,
		Subject:   course.Subject,
		Level:     course.Level,
		Content:   course.Content,
		Keywords:  keywords,
		Status:    course.Status,
		CreatedAt: course.CreatedAt,
	}, nil
}

func (s *courseService) List(ctx context.Context, userId uuid.UUID, subject string) (*dto.ListCoursesResponse, error) {
	specs := []specification.Specification{
		specification.OwnedByUser{UserID: userId},
		specification.NewestFirst{},
	}
	if subject != "" {
		specs = append(specs, specification.BySubject{Subject: subject})
	}

	courses, err := s.courses.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.CourseSummary, len(courses))
	for i, course := range courses {
		summaries[i] = dto.CourseSummary{
			Id:        course.Id,
			Title:     course.Title,
			Subject:   course.Subject,
			Level:     course.Level,
			Status:    course.Status,
			CreatedAt: course.CreatedAt,
		}
	}

	return &dto.ListCoursesResponse{Courses: summaries}, nil
}

func (s *courseService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	course, err := s.courses.FindOne(ctx, specification.ByID{ID: id}, specification.OwnedByUser{UserID: userId})
	if err != nil {
		return err
	}
	if course == nil {
		return serverutils.NewAppError(fiber.StatusNotFound, "Course not found")
	}

	if err := s.chunks.DeleteByCourseId(ctx, course.Id); err != nil {
		return err
	}
	return s.courses.Delete(ctx, course.Id)
}
