package embedding

import "context"

// Input types steer providers that embed queries and documents differently.
const (
	InputTypeQuery    = "query"
	InputTypeDocument = "document"
)

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string, inputType string) ([]float32, error)
}
