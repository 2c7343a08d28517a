package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Unshaft/StudyBuddy/internal/dto"
	"github.com/Unshaft/StudyBuddy/internal/model"
	"github.com/Unshaft/StudyBuddy/internal/repository/contract"
	"github.com/Unshaft/StudyBuddy/internal/repository/specification"
	"github.com/Unshaft/StudyBuddy/pkg/agent/state"
	"github.com/Unshaft/StudyBuddy/pkg/embedding"
	"github.com/Unshaft/StudyBuddy/pkg/events"
	pktNats "github.com/Unshaft/StudyBuddy/pkg/nats"
	"github.com/Unshaft/StudyBuddy/pkg/utils"
	"github.com/Unshaft/StudyBuddy/pkg/vision"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// IIngestService consumes course upload jobs: it reads the image,
// chunks the content, embeds every chunk and marks the course ready.
type IIngestService interface {
	Consume(ctx context.Context) error
}

type ingestService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	courses           contract.CourseRepository
	chunks            contract.CourseChunkRepository
	extractor         vision.Extractor
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pktNats.Publisher
	chunkSize         int
	chunkOverlap      int
}

func NewIngestService(
	pubSub *gochannel.GoChannel,
	topicName string,
	courses contract.CourseRepository,
	chunks contract.CourseChunkRepository,
	extractor vision.Extractor,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pktNats.Publisher,
	chunkSize, chunkOverlap int,
) IIngestService {
	return &ingestService{
		pubSub:            pubSub,
		topicName:         topicName,
		courses:           courses,
		chunks:            chunks,
		extractor:         extractor,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		chunkSize:         chunkSize,
		chunkOverlap:      chunkOverlap,
	}
}

func (s *ingestService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *ingestService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestCourseMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal ingest message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Ingesting course %s for user %s", payload.CourseId, payload.UserId)

	course, err := s.courses.FindOne(ctx, specification.ByID{ID: payload.CourseId})
	if err != nil {
		log.Printf("[ERROR] Failed to get course %s: %v", payload.CourseId, err)
		msg.Nack()
		return
	}
	if course == nil {
		log.Printf("[ERROR] Course not found: %s", payload.CourseId)
		msg.Ack() // Course deleted? Ack.
		return
	}

	extraction, err := s.extractor.ExtractCourse(ctx, payload.Image)
	if err != nil {
		log.Printf("[ERROR] Vision extraction failed for course %s: %v", payload.CourseId, err)
		s.markFailed(ctx, course, "vision extraction failed")
		msg.Ack() // A bad photo will not get better on retry
		return
	}

	subject := state.NormalizeSubject(extraction.Subject)

	course.Title = extraction.Title
	course.Subject = string(subject)
	course.Level = extraction.Level
	course.Content = extraction.Content
	if keywordsJson, err := json.Marshal(extraction.Keywords); err == nil {
		course.Keywords = datatypes.JSON(keywordsJson)
	}

	parts := utils.SplitText(extraction.Content, s.chunkSize, s.chunkOverlap)
	log.Printf("[INFO] Course %s split into %d chunks", payload.CourseId, len(parts))

	newChunks := make([]*model.CourseChunk, 0, len(parts))
	for i, part := range parts {
		vectorValues, err := s.embeddingProvider.Embed(ctx, part, embedding.InputTypeDocument)
		if err != nil {
			log.Printf("[ERROR] Failed to embed chunk %d of course %s: %v", i, payload.CourseId, err)
			msg.Nack() // Embedding API hiccup is retriable
			return
		}

		newChunks = append(newChunks, &model.CourseChunk{
			Id:         uuid.New(),
			Content:    part,
			Embedding:  pgvector.NewVector(vectorValues),
			CourseId:   course.Id,
			UserId:     payload.UserId,
			ChunkIndex: i,
			CreatedAt:  time.Now(),
		})
	}

	if err := s.chunks.DeleteByCourseId(ctx, course.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old chunks for course %s: %v", payload.CourseId, err)
		msg.Nack()
		return
	}

	if err := s.chunks.CreateBulk(ctx, newChunks); err != nil {
		log.Printf("[ERROR] Failed to store chunks for course %s: %v", payload.CourseId, err)
		msg.Nack()
		return
	}

	course.Status = model.CourseStatusReady
	if err := s.courses.Update(ctx, course); err != nil {
		log.Printf("[ERROR] Failed to mark course %s ready: %v", payload.CourseId, err)
		msg.Nack()
		return
	}

	s.publishEvent(ctx, events.NewCourseIngestedEvent(
		course.Id.String(), payload.UserId.String(), course.Title, course.Subject, len(newChunks),
	))

	log.Printf("[SUCCESS] Course %s ingested: %d chunks, subject=%s", payload.CourseId, len(newChunks), course.Subject)
	msg.Ack()
}

func (s *ingestService) markFailed(ctx context.Context, course *model.Course, reason string) {
	course.Status = model.CourseStatusFailed
	if err := s.courses.Update(ctx, course); err != nil {
		log.Printf("[ERROR] Failed to mark course %s failed: %v", course.Id, err)
	}
	s.publishEvent(ctx, events.NewCourseIngestFailedEvent(course.Id.String(), course.UserId.String(), reason))
}

func (s *ingestService) publishEvent(ctx context.Context, evt events.Event) {
	if s.eventPublisher == nil {
		return
	}
	// Notifications are auxiliary; never fail ingestion over them.
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		log.Printf("[WARN] Failed to publish %s event: %v", evt.EventType(), err)
	}
}
