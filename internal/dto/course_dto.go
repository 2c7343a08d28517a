package dto

import (
	"time"

	"github.com/google/uuid"
)

type UploadCourseResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type ShowCourseResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Subject   string    `json:"subject"`
	Level     string    `json:"level"`
	Content   string    `json:"content"`
	Keywords  []string  `json:"keywords"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type CourseSummary struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Subject   string    `json:"subject"`
	Level     string    `json:"level"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type ListCoursesResponse struct {
	Courses []CourseSummary `json:"courses"`
}

// PublishIngestCourseMessage is the pub/sub payload for an upload
// waiting to be read and embedded. Image travels base64-encoded.
type PublishIngestCourseMessage struct {
	CourseId uuid.UUID `json:"course_id"`
	UserId   uuid.UUID `json:"user_id"`
	Image    []byte    `json:"image"`
}
