package node

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Unshaft/StudyBuddy/pkg/agent/state"
	"github.com/Unshaft/StudyBuddy/pkg/llm"

	"github.com/stretchr/testify/assert"
)

// stubProvider returns a canned completion and records the prompts.
type stubProvider struct {
	completion *llm.Completion
	err        error
	lastSystem string
	lastUser   string
}

func (p *stubProvider) Complete(ctx context.Context, system string, history []llm.Message, tools []llm.Tool, options ...llm.Option) (*llm.Completion, error) {
	p.lastSystem = system
	if len(history) > 0 {
		p.lastUser = history[len(history)-1].Content
	}
	return p.completion, p.err
}

func (p *stubProvider) StreamComplete(ctx context.Context, system string, history []llm.Message, onToken func(string), options ...llm.Option) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	onToken(p.completion.Text)
	return p.completion.Text, nil
}

func TestEvaluatorParsesVerdict(t *testing.T) {
	provider := &stubProvider{completion: &llm.Completion{
		StopReason: llm.StopEndTurn,
		Text:       `{"score": 0.85, "needs_revision": false, "feedback": ""}`,
	}}
	node := EvaluatorNode{Provider: provider, FallbackScore: 0.8}

	delta := node.Run(context.Background(), state.Session{Response: "une correction"})

	assert.Equal(t, 0.85, *delta.Score)
	assert.False(t, *delta.NeedsRevision)
}

func TestEvaluatorHonorsExplicitRevisionFlag(t *testing.T) {
	provider := &stubProvider{completion: &llm.Completion{
		Text: `{"score": 0.9, "needs_revision": true, "feedback": "Cite le cours."}`,
	}}
	node := EvaluatorNode{Provider: provider, FallbackScore: 0.8}

	delta := node.Run(context.Background(), state.Session{Response: "une correction"})

	assert.Equal(t, 0.9, *delta.Score)
	assert.True(t, *delta.NeedsRevision)
	assert.Equal(t, "Cite le cours.", *delta.Feedback)
}

func TestEvaluatorDerivesRevisionFromThreshold(t *testing.T) {
	provider := &stubProvider{completion: &llm.Completion{
		Text: `{"score": 0.5, "feedback": "Trop vague."}`,
	}}
	node := EvaluatorNode{Provider: provider, FallbackScore: 0.8}

	delta := node.Run(context.Background(), state.Session{Response: "une correction"})

	assert.True(t, *delta.NeedsRevision)
}

func TestEvaluatorStripsCodeFence(t *testing.T) {
	provider := &stubProvider{completion: &llm.Completion{
		Text: "```json\n{\"score\": 0.8, \"needs_revision\": false, \"feedback\": \"\"}\n```",
	}}
	node := EvaluatorNode{Provider: provider, FallbackScore: 0.5}

	delta := node.Run(context.Background(), state.Session{Response: "une correction"})

	assert.Equal(t, 0.8, *delta.Score)
}

func TestEvaluatorFailsOpenOnProviderError(t *testing.T) {
	provider := &stubProvider{err: errors.New("api down")}
	node := EvaluatorNode{Provider: provider, FallbackScore: 0.8}

	delta := node.Run(context.Background(), state.Session{Response: "une correction"})

	assert.Equal(t, 0.8, *delta.Score)
	assert.False(t, *delta.NeedsRevision)
	assert.Equal(t, "", *delta.Feedback)
}

func TestEvaluatorFailsOpenOnGarbageJSON(t *testing.T) {
	provider := &stubProvider{completion: &llm.Completion{Text: "je ne sais pas"}}
	node := EvaluatorNode{Provider: provider, FallbackScore: 0.8}

	delta := node.Run(context.Background(), state.Session{Response: "une correction"})

	assert.Equal(t, 0.8, *delta.Score)
	assert.False(t, *delta.NeedsRevision)
}

func TestEvaluatorEmptyResponseNeedsRevision(t *testing.T) {
	provider := &stubProvider{}
	node := EvaluatorNode{Provider: provider, FallbackScore: 0.8}

	delta := node.Run(context.Background(), state.Session{Response: ""})

	assert.Equal(t, 0.0, *delta.Score)
	assert.True(t, *delta.NeedsRevision)
	// The judge is never consulted for an empty answer.
	assert.Empty(t, provider.lastSystem)
}

func TestEvaluatorCondensesSessionForTheJudge(t *testing.T) {
	provider := &stubProvider{completion: &llm.Completion{
		Text: `{"score": 0.9, "needs_revision": false, "feedback": ""}`,
	}}
	node := EvaluatorNode{Provider: provider, FallbackScore: 0.8}

	items := make([]state.ContextItem, 5)
	for i := range items {
		items[i] = item("a", i, 0.9)
	}

	node.Run(context.Background(), state.Session{
		Response:    strings.Repeat("x", 3000),
		Statement:   strings.Repeat("y", 1000),
		RoutedLevel: state.LevelSeconde,
		Items:       items,
	})

	assert.Contains(t, provider.lastUser, "NIVEAU SCOLAIRE : 2nde")
	// Only the top 3 items are summarized.
	assert.Equal(t, 3, strings.Count(provider.lastUser, "- Cours a"))
	// Statement and response are truncated.
	assert.NotContains(t, provider.lastUser, strings.Repeat("y", 501))
	assert.NotContains(t, provider.lastUser, strings.Repeat("x", 2001))
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain json untouched", in: `{"score": 1}`, want: `{"score": 1}`},
		{name: "json fence", in: "```json\n{\"score\": 1}\n```", want: `{"score": 1}`},
		{name: "bare fence", in: "```\n{\"score\": 1}\n```", want: `{"score": 1}`},
		{name: "prose before fence", in: "Voici :\n```json\n{\"score\": 1}\n```", want: `{"score": 1}`},
		{name: "unterminated fence", in: "```json\n{\"score\": 1}", want: `{"score": 1}`},
		{name: "whitespace trimmed", in: "  {\"score\": 1}  ", want: `{"score": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.in))
		})
	}
}
