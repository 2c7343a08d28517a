package anthropic

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Unshaft/StudyBuddy/pkg/llm"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
)

type AnthropicProvider struct {
	APIKey    string
	BaseURL   string
	ModelName string
	Client    *http.Client
}

// Ensure AnthropicProvider implements both contracts
var _ llm.Provider = &AnthropicProvider{}
var _ llm.VisionProvider = &AnthropicProvider{}

func NewAnthropicProvider(apiKey, modelName string) *AnthropicProvider {
	return &AnthropicProvider{
		APIKey:    apiKey,
		BaseURL:   defaultBaseURL,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type messagesRequest struct {
	Model       string         `json:"model"`
	MaxTokens   int            `json:"max_tokens"`
	System      string         `json:"system,omitempty"`
	Messages    []apiMessage   `json:"messages"`
	Tools       []apiTool      `json:"tools,omitempty"`
	Temperature *float64       `json:"temperature,omitempty"`
	Stream      bool           `json:"stream,omitempty"`
}

type apiMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"` // string or []contentBlock
}

type apiTool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

type contentBlock struct {
	Type   string                 `json:"type"`
	Text   string                 `json:"text,omitempty"`
	Name   string                 `json:"name,omitempty"`
	Input  map[string]interface{} `json:"input,omitempty"`
	Source *imageSource           `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type messagesResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
}

// --- Interface Implementation ---

func (p *AnthropicProvider) Complete(ctx context.Context, system string, history []llm.Message, tools []llm.Tool, opts ...llm.Option) (*llm.Completion, error) {
	options := applyOptions(opts)

	reqPayload := messagesRequest{
		Model:     p.resolveModel(options),
		MaxTokens: resolveMaxTokens(options),
		System:    system,
		Messages:  mapMessages(history),
	}
	if options.Temperature > 0 {
		reqPayload.Temperature = &options.Temperature
	}
	for _, t := range tools {
		reqPayload.Tools = append(reqPayload.Tools, apiTool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		})
	}

	body, err := p.post(ctx, reqPayload)
	if err != nil {
		return nil, err
	}

	var resp messagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return buildCompletion(&resp), nil
}

func (p *AnthropicProvider) StreamComplete(ctx context.Context, system string, history []llm.Message, onToken func(string), opts ...llm.Option) (string, error) {
	options := applyOptions(opts)

	reqPayload := messagesRequest{
		Model:     p.resolveModel(options),
		MaxTokens: resolveMaxTokens(options),
		System:    system,
		Messages:  mapMessages(history),
		Stream:    true,
	}
	if options.Temperature > 0 {
		reqPayload.Temperature = &options.Temperature
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := p.newRequest(ctx, payloadBytes)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("anthropic error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			break
		}

		var ev streamEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			continue // keep-alives and unknown events are skipped
		}
		if ev.Type == "content_block_delta" && ev.Delta.Type == "text_delta" && ev.Delta.Text != "" {
			full.WriteString(ev.Delta.Text)
			if onToken != nil {
				onToken(ev.Delta.Text)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return full.String(), fmt.Errorf("read stream: %w", err)
	}

	return full.String(), nil
}

func (p *AnthropicProvider) CompleteVision(ctx context.Context, prompt string, image []byte, opts ...llm.Option) (string, error) {
	options := applyOptions(opts)

	encoded := base64.StdEncoding.EncodeToString(image)
	reqPayload := messagesRequest{
		Model:     p.resolveModel(options),
		MaxTokens: resolveMaxTokens(options),
		Messages: []apiMessage{
			{
				Role: "user",
				Content: []contentBlock{
					{
						Type: "image",
						Source: &imageSource{
							Type:      "base64",
							MediaType: DetectMediaType(image),
							Data:      encoded,
						},
					},
					{Type: "text", Text: prompt},
				},
			},
		},
	}

	body, err := p.post(ctx, reqPayload)
	if err != nil {
		return "", err
	}

	var resp messagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	return firstText(resp.Content), nil
}

// DetectMediaType sniffs the image format from its magic bytes.
func DetectMediaType(image []byte) string {
	switch {
	case len(image) >= 3 && bytes.Equal(image[:3], []byte{0xff, 0xd8, 0xff}):
		return "image/jpeg"
	case len(image) >= 8 && bytes.Equal(image[:8], []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}):
		return "image/png"
	case len(image) >= 12 && bytes.Equal(image[:4], []byte("RIFF")) && bytes.Equal(image[8:12], []byte("WEBP")):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// --- Helpers ---

func (p *AnthropicProvider) post(ctx context.Context, payload messagesRequest) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := p.newRequest(ctx, payloadBytes)
	if err != nil {
		return nil, err
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("anthropic error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	return bodyBytes, nil
}

func (p *AnthropicProvider) newRequest(ctx context.Context, payload []byte) (*http.Request, error) {
	url := p.BaseURL + "/v1/messages"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.APIKey)
	req.Header.Set("anthropic-version", apiVersion)
	return req, nil
}

func (p *AnthropicProvider) resolveModel(options *llm.Options) string {
	if options.Model != "" {
		return options.Model
	}
	return p.ModelName
}

func applyOptions(opts []llm.Option) *llm.Options {
	options := &llm.Options{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

func resolveMaxTokens(options *llm.Options) int {
	if options.MaxTokens > 0 {
		return options.MaxTokens
	}
	return 2048
}

func mapMessages(history []llm.Message) []apiMessage {
	messages := make([]apiMessage, 0, len(history))
	for _, msg := range history {
		role := msg.Role
		if role == "model" {
			role = "assistant"
		}
		messages = append(messages, apiMessage{Role: role, Content: msg.Content})
	}
	return messages
}

func buildCompletion(resp *messagesResponse) *llm.Completion {
	completion := &llm.Completion{Text: firstText(resp.Content)}

	switch resp.StopReason {
	case "end_turn":
		completion.StopReason = llm.StopEndTurn
	case "tool_use":
		completion.StopReason = llm.StopToolUse
		for _, block := range resp.Content {
			if block.Type == "tool_use" {
				completion.ToolCall = &llm.ToolCall{
					Name:      block.Name,
					Arguments: block.Input,
				}
				break
			}
		}
	default:
		completion.StopReason = llm.StopOther
	}

	return completion
}

func firstText(blocks []contentBlock) string {
	for _, block := range blocks {
		if block.Type == "text" {
			return block.Text
		}
	}
	return ""
}
