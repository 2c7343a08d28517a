package model

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is a student's rating of one correction session.
type Feedback struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId string    `gorm:"type:varchar(64);not null;index"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Rating    int       `gorm:"not null"` // 1-5
	Comment   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}
