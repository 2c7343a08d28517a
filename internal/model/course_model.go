package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course ingestion lifecycle. Uploads start processing and flip to
// ready or failed when the ingest worker finishes.
const (
	CourseStatusProcessing = "processing"
	CourseStatusReady      = "ready"
	CourseStatusFailed     = "failed"
)

type Course struct {
	Id       uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title    string         `gorm:"type:varchar(255);not null"`
	Subject  string         `gorm:"type:varchar(64);not null;index"`
	Level    string         `gorm:"type:varchar(32)"`
	Content  string         `gorm:"type:text"`
	Keywords datatypes.JSON `gorm:"type:jsonb"`
	Status   string         `gorm:"type:varchar(32);not null;default:processing"`
	UserId   uuid.UUID      `gorm:"type:uuid;not null;index"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Course) TableName() string {
	return "courses"
}
