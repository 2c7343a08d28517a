package events

import "time"

// Course ingestion event codes published on the bus. The notification
// handler relays them to the owner's websocket connections.
const (
	CourseIngested     = "COURSE_INGESTED"
	CourseIngestFailed = "COURSE_INGEST_FAILED"
)

// NewCourseIngestedEvent is emitted once a course image has been read,
// chunked, embedded and stored.
func NewCourseIngestedEvent(courseID, userID, title, subject string, chunkCount int) Event {
	return BaseEvent{
		Type: CourseIngested,
		Data: map[string]interface{}{
			"course_id":   courseID,
			"user_id":     userID,
			"title":       title,
			"subject":     subject,
			"chunk_count": chunkCount,
		},
		OccurredAt: time.Now(),
	}
}

// NewCourseIngestFailedEvent is emitted when ingestion gave up on a
// course upload.
func NewCourseIngestFailedEvent(courseID, userID, reason string) Event {
	return BaseEvent{
		Type: CourseIngestFailed,
		Data: map[string]interface{}{
			"course_id": courseID,
			"user_id":   userID,
			"reason":    reason,
		},
		OccurredAt: time.Now(),
	}
}
