package voyage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Unshaft/StudyBuddy/pkg/embedding"
)

const defaultEndpoint = "https://api.voyageai.com/v1/embeddings"

type VoyageProvider struct {
	ApiKey    string
	ModelName string
	Endpoint  string
	Client    *http.Client
}

var _ embedding.EmbeddingProvider = &VoyageProvider{}

func NewVoyageProvider(apiKey, modelName string) *VoyageProvider {
	return &VoyageProvider{
		ApiKey:    apiKey,
		ModelName: modelName,
		Endpoint:  defaultEndpoint,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type voyageRequest struct {
	Input     []string `json:"input"`
	Model     string   `json:"model"`
	InputType string   `json:"input_type,omitempty"`
}

type voyageResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func (p *VoyageProvider) Embed(ctx context.Context, text string, inputType string) ([]float32, error) {
	reqPayload := voyageRequest{
		Input:     []string{text},
		Model:     p.ModelName,
		InputType: inputType,
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.Endpoint, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error from voyage response, code %d, body %s", res.StatusCode, string(resBytes))
	}

	var parsed voyageResponse
	if err := json.Unmarshal(resBytes, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("voyage returned no embeddings")
	}

	return parsed.Data[0].Embedding, nil
}
