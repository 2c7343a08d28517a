package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Tool describes a capability the model may invoke instead of answering.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]interface{} // JSON schema for the tool arguments
}

// ToolCall is a capability invocation extracted from a model response.
type ToolCall struct {
	Name      string
	Arguments map[string]interface{}
}

// StopReason classifies how a completion terminated.
type StopReason string

const (
	StopEndTurn StopReason = "end_turn"
	StopToolUse StopReason = "tool_use"
	StopOther   StopReason = "other"
)

// Completion is the result of a single model call.
type Completion struct {
	StopReason StopReason
	Text       string
	ToolCall   *ToolCall // set when StopReason == StopToolUse
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Provider defines the contract for any LLM backend.
type Provider interface {
	// Complete sends a system prompt plus conversation to the model.
	// Tools may be nil; when the model invokes one, the Completion carries
	// StopToolUse and the extracted ToolCall.
	Complete(ctx context.Context, system string, history []Message, tools []Tool, options ...Option) (*Completion, error)

	// StreamComplete streams the response, calling onToken for each text
	// fragment, and returns the accumulated text. Tools are not supported
	// in streaming mode.
	StreamComplete(ctx context.Context, system string, history []Message, onToken func(string), options ...Option) (string, error)
}

// VisionProvider is implemented by providers that accept image input.
type VisionProvider interface {
	// CompleteVision sends a single prompt together with an image payload.
	CompleteVision(ctx context.Context, prompt string, image []byte, options ...Option) (string, error)
}
