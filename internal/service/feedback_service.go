package service

import (
	"context"
	"time"

	"github.com/Unshaft/StudyBuddy/internal/dto"
	"github.com/Unshaft/StudyBuddy/internal/model"
	"github.com/Unshaft/StudyBuddy/internal/pkg/logger"
	"github.com/Unshaft/StudyBuddy/internal/repository/contract"
	"github.com/Unshaft/StudyBuddy/internal/repository/memory"

	"github.com/google/uuid"
)

type IFeedbackService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateFeedbackRequest) (*dto.CreateFeedbackResponse, error)
}

type feedbackService struct {
	feedbacks contract.FeedbackRepository
	sessions  *memory.SessionRepository
	logger    logger.ILogger
}

func NewFeedbackService(feedbacks contract.FeedbackRepository, sessions *memory.SessionRepository, log logger.ILogger) IFeedbackService {
	return &feedbackService{
		feedbacks: feedbacks,
		sessions:  sessions,
		logger:    log,
	}
}

func (s *feedbackService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateFeedbackRequest) (*dto.CreateFeedbackResponse, error) {
	feedback := model.Feedback{
		Id:        uuid.New(),
		SessionId: req.SessionId,
		UserId:    userId,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}

	if err := s.feedbacks.Create(ctx, &feedback); err != nil {
		return nil, err
	}

	// Sessions expire from the cache; feedback on an expired session is
	// still worth keeping, so this is informational only.
	if _, found := s.sessions.Get(req.SessionId); !found {
		s.logger.Info("feedback", "Feedback on expired or unknown session", map[string]interface{}{
			"session_id": req.SessionId,
		})
	}

	return &dto.CreateFeedbackResponse{Id: feedback.Id}, nil
}
