package dto

import "github.com/google/uuid"

type CreateFeedbackRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

type CreateFeedbackResponse struct {
	Id uuid.UUID `json:"id"`
}
