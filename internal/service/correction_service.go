package service

import (
	"context"

	"github.com/Unshaft/StudyBuddy/internal/dto"
	"github.com/Unshaft/StudyBuddy/internal/pkg/logger"
	"github.com/Unshaft/StudyBuddy/internal/pkg/serverutils"
	"github.com/Unshaft/StudyBuddy/internal/repository/memory"
	"github.com/Unshaft/StudyBuddy/pkg/agent"
	"github.com/Unshaft/StudyBuddy/pkg/agent/specialist"
	"github.com/Unshaft/StudyBuddy/pkg/agent/state"
	"github.com/Unshaft/StudyBuddy/pkg/llm"
	"github.com/Unshaft/StudyBuddy/pkg/retrieval"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICorrectionService interface {
	Correct(ctx context.Context, userId uuid.UUID, image []byte, subjectOverride, studentAnswer string) (*dto.CorrectionResponse, error)
	CorrectStream(ctx context.Context, userId uuid.UUID, image []byte, subjectOverride, studentAnswer string) <-chan agent.Event
	FollowupStream(ctx context.Context, userId uuid.UUID, req *dto.FollowupRequest, onToken func(string)) error
}

type correctionService struct {
	engine           *agent.Engine
	store            retrieval.ContextStore
	corrector        llm.Provider
	sessions         *memory.SessionRepository
	topK             int
	correctorOptions []llm.Option
	logger           logger.ILogger
}

func NewCorrectionService(
	engine *agent.Engine,
	store retrieval.ContextStore,
	corrector llm.Provider,
	sessions *memory.SessionRepository,
	topK int,
	correctorOptions []llm.Option,
	log logger.ILogger,
) ICorrectionService {
	return &correctionService{
		engine:           engine,
		store:            store,
		corrector:        corrector,
		sessions:         sessions,
		topK:             topK,
		correctorOptions: correctorOptions,
		logger:           log,
	}
}

func (s *correctionService) Correct(ctx context.Context, userId uuid.UUID, image []byte, subjectOverride, studentAnswer string) (*dto.CorrectionResponse, error) {
	session := state.NewSession(image, userId.String(), studentAnswer, subjectOverride, false)

	final, err := s.engine.Run(ctx, session)
	if err != nil {
		s.logger.Error("correction", "Pipeline run failed", map[string]interface{}{
			"session_id": session.SessionID,
			"error":      err.Error(),
		})
		return nil, err
	}

	if final.Err != "" {
		return nil, serverutils.NewAppError(fiber.StatusUnprocessableEntity, final.Err)
	}

	// Keep the finished session around for follow-ups and feedback.
	s.sessions.Save(&final)

	s.logger.Info("correction", "Correction completed", map[string]interface{}{
		"session_id": final.SessionID,
		"subject":    string(final.RoutedSubject),
		"score":      final.Score,
		"items":      final.ItemsFound,
	})

	return &dto.CorrectionResponse{
		SessionId:         final.SessionID,
		ExerciseStatement: final.Statement,
		Subject:           string(final.RoutedSubject),
		Level:             string(final.RoutedLevel),
		ExerciseType:      final.ExerciseType,
		SpecialistUsed:    final.SpecialistUsed,
		Correction:        final.FinalResponse,
		SourcesUsed:       final.Sources,
		ChunksFound:       final.ItemsFound,
		EvaluationScore:   final.Score,
		RagIterations:     final.RetrievalRounds,
	}, nil
}

func (s *correctionService) CorrectStream(ctx context.Context, userId uuid.UUID, image []byte, subjectOverride, studentAnswer string) <-chan agent.Event {
	session := state.NewSession(image, userId.String(), studentAnswer, subjectOverride, true)
	return s.engine.Stream(ctx, session)
}

// FollowupStream answers a clarification question after a correction.
// It retrieves fresh context for the question and reuses the matching
// specialist's system prompt on top of the conversation history.
func (s *correctionService) FollowupStream(ctx context.Context, userId uuid.UUID, req *dto.FollowupRequest, onToken func(string)) error {
	subject := state.NormalizeSubject(req.Subject)

	items, err := s.store.Search(ctx, req.Message, userId.String(), subject, s.topK)
	if err != nil {
		s.logger.Warn("correction", "Followup retrieval failed, continuing without context", map[string]interface{}{
			"error": err.Error(),
		})
		items = []state.ContextItem{}
	}

	session := state.Session{
		RoutedSubject: subject,
		RoutedLevel:   state.Level(req.Level),
		Items:         items,
	}
	if !state.KnownLevel(req.Level) {
		session.RoutedLevel = state.DefaultLevel
	}

	tutor := specialist.ForSubject(subject)
	systemPrompt := tutor.BuildSystemPrompt(session)

	history := make([]llm.Message, 0, len(req.History)+1)
	for _, turn := range req.History {
		history = append(history, llm.Message{Role: turn.Role, Content: turn.Content})
	}
	history = append(history, llm.Message{Role: "user", Content: req.Message})

	_, err = s.corrector.StreamComplete(ctx, systemPrompt, history, onToken, s.correctorOptions...)
	return err
}
