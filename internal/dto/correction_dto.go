package dto

// CorrectionResponse is the full JSON result of one pipeline run.
type CorrectionResponse struct {
	SessionId         string   `json:"session_id"`
	ExerciseStatement string   `json:"exercise_statement"`
	Subject           string   `json:"subject"`
	Level             string   `json:"level"`
	ExerciseType      string   `json:"exercise_type"`
	SpecialistUsed    string   `json:"specialist_used"`
	Correction        string   `json:"correction"`
	SourcesUsed       []string `json:"sources_used"`
	ChunksFound       int      `json:"chunks_found"`
	EvaluationScore   float64  `json:"evaluation_score"`
	RagIterations     int      `json:"rag_iterations"`
}

// ChatTurn is one entry of a follow-up conversation history.
type ChatTurn struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

// FollowupRequest carries a clarification question after a correction.
type FollowupRequest struct {
	Subject string     `json:"subject" validate:"required"`
	Level   string     `json:"level" validate:"required"`
	History []ChatTurn `json:"history"`
	Message string     `json:"message" validate:"required"`
}
