package agent

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/Unshaft/StudyBuddy/pkg/agent/state"
	"github.com/Unshaft/StudyBuddy/pkg/llm"
	"github.com/Unshaft/StudyBuddy/pkg/vision"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVision struct {
	exercise *vision.ExerciseExtraction
	err      error
}

func (f fakeVision) ExtractExercise(ctx context.Context, image []byte) (*vision.ExerciseExtraction, error) {
	return f.exercise, f.err
}

func (f fakeVision) ExtractCourse(ctx context.Context, image []byte) (*vision.CourseExtraction, error) {
	return nil, errors.New("not used")
}

type fakeStore struct {
	items   []state.ContextItem
	queries []string
}

func (f *fakeStore) Search(ctx context.Context, query, userID string, subject state.Subject, topK int) ([]state.ContextItem, error) {
	f.queries = append(f.queries, query)
	return f.items, nil
}

// scriptedProvider plays back completions in order, repeating the last
// one when the script runs out.
type scriptedProvider struct {
	completions []*llm.Completion
	calls       int
}

func (p *scriptedProvider) next() *llm.Completion {
	idx := p.calls
	if idx >= len(p.completions) {
		idx = len(p.completions) - 1
	}
	p.calls++
	return p.completions[idx]
}

func (p *scriptedProvider) Complete(ctx context.Context, system string, history []llm.Message, tools []llm.Tool, options ...llm.Option) (*llm.Completion, error) {
	return p.next(), nil
}

func (p *scriptedProvider) StreamComplete(ctx context.Context, system string, history []llm.Message, onToken func(string), options ...llm.Option) (string, error) {
	c := p.next()
	for _, part := range strings.SplitAfter(c.Text, " ") {
		onToken(part)
	}
	return c.Text, nil
}

func textCompletion(text string) *llm.Completion {
	return &llm.Completion{StopReason: llm.StopEndTurn, Text: text}
}

func requeryCompletion(query string) *llm.Completion {
	return &llm.Completion{
		StopReason: llm.StopToolUse,
		ToolCall: &llm.ToolCall{
			Name:      "rag_requery",
			Arguments: map[string]interface{}{"new_query": query, "focus_concept": query},
		},
	}
}

func goodVerdict() *llm.Completion {
	return textCompletion(`{"score": 0.9, "needs_revision": false, "feedback": ""}`)
}

func testEngine(corrector, judge llm.Provider, store *fakeStore) *Engine {
	return NewEngine(
		Collaborators{
			Vision: fakeVision{exercise: &vision.ExerciseExtraction{
				Subject:      "mathématiques",
				ExerciseType: "Equation",
				Statement:    "Résoudre 2x + 3 = 11",
			}},
			Store:     store,
			Corrector: corrector,
			Judge:     judge,
		},
		Config{
			TopK:               5,
			MaxRetrievalRounds: 2,
			FallbackScore:      0.8,
			Logger:             log.New(io.Discard, "", 0),
		},
	)
}

func mathItems() []state.ContextItem {
	return []state.ContextItem{{
		Content:     "Pour résoudre ax + b = c, on isole x.",
		CourseTitle: "Equations",
		Subject:     "mathematiques",
		Similarity:  0.9,
		CourseID:    "c1",
	}}
}

func TestEngineHappyPath(t *testing.T) {
	store := &fakeStore{items: mathItems()}
	corrector := &scriptedProvider{completions: []*llm.Completion{textCompletion("La solution est x = 4.")}}
	judge := &scriptedProvider{completions: []*llm.Completion{goodVerdict()}}

	engine := testEngine(corrector, judge, store)
	final, err := engine.Run(context.Background(), state.NewSession([]byte("img"), "user-1", "x = 4", "", false))

	require.NoError(t, err)
	assert.Empty(t, final.Err)
	assert.Equal(t, "La solution est x = 4.", final.FinalResponse)
	assert.Equal(t, state.SubjectMathematiques, final.RoutedSubject)
	assert.Equal(t, state.DefaultLevel, final.RoutedLevel)
	assert.Equal(t, 0.9, final.Score)
	assert.Equal(t, []string{"Equations (mathematiques)"}, final.Sources)
	assert.Equal(t, 0, final.RetrievalRounds)
	// One initial retrieval, no requery.
	assert.Len(t, store.queries, 1)
	assert.Contains(t, store.queries[0], "Mathematiques niveau")
}

func TestEngineOCRFailure(t *testing.T) {
	store := &fakeStore{}
	engine := NewEngine(
		Collaborators{
			Vision:    fakeVision{exercise: &vision.ExerciseExtraction{Statement: ""}},
			Store:     store,
			Corrector: &scriptedProvider{completions: []*llm.Completion{textCompletion("")}},
			Judge:     &scriptedProvider{completions: []*llm.Completion{goodVerdict()}},
		},
		Config{TopK: 5, MaxRetrievalRounds: 2, FallbackScore: 0.8, Logger: log.New(io.Discard, "", 0)},
	)

	final, err := engine.Run(context.Background(), state.NewSession(nil, "user-1", "", "", false))

	require.NoError(t, err)
	assert.Equal(t, "OCR_FAILED: Impossible d'extraire l'énoncé de l'image.", final.Err)
	assert.Equal(t, "Une erreur s'est produite : OCR_FAILED: Impossible d'extraire l'énoncé de l'image.", final.FinalResponse)
	assert.Empty(t, final.Sources)
	// Pipeline never reached retrieval.
	assert.Empty(t, store.queries)
}

func TestEngineRequeryRound(t *testing.T) {
	store := &fakeStore{items: mathItems()}
	corrector := &scriptedProvider{completions: []*llm.Completion{
		requeryCompletion("théorème de Pythagore"),
		textCompletion("Avec le théorème, x = 4."),
	}}
	judge := &scriptedProvider{completions: []*llm.Completion{goodVerdict()}}

	engine := testEngine(corrector, judge, store)
	final, err := engine.Run(context.Background(), state.NewSession([]byte("img"), "user-1", "", "", false))

	require.NoError(t, err)
	assert.Equal(t, "Avec le théorème, x = 4.", final.FinalResponse)
	assert.Equal(t, 1, final.RetrievalRounds)
	assert.Equal(t, []string{"rag_requery"}, final.ToolCalls)
	// Initial query plus the refined one.
	require.Len(t, store.queries, 2)
	assert.Equal(t, "théorème de Pythagore", store.queries[1])
}

func TestEngineRequeryBudgetIsBounded(t *testing.T) {
	store := &fakeStore{items: mathItems()}
	// The specialist never stops asking for more context.
	corrector := &scriptedProvider{completions: []*llm.Completion{requeryCompletion("encore")}}
	judge := &scriptedProvider{completions: []*llm.Completion{goodVerdict()}}

	engine := testEngine(corrector, judge, store)
	final, err := engine.Run(context.Background(), state.NewSession([]byte("img"), "user-1", "", "", false))

	// The run terminates despite the stubborn specialist.
	require.NoError(t, err)
	assert.Equal(t, 2, final.RetrievalRounds)
}

func TestEngineRevisionRound(t *testing.T) {
	store := &fakeStore{items: mathItems()}
	corrector := &scriptedProvider{completions: []*llm.Completion{
		textCompletion("Première tentative."),
		textCompletion("Version révisée avec le cours."),
	}}
	judge := &scriptedProvider{completions: []*llm.Completion{
		textCompletion(`{"score": 0.4, "needs_revision": true, "feedback": "Cite le cours."}`),
		textCompletion(`{"score": 0.9, "needs_revision": false, "feedback": ""}`),
	}}

	engine := testEngine(corrector, judge, store)
	final, err := engine.Run(context.Background(), state.NewSession([]byte("img"), "user-1", "", "", false))

	require.NoError(t, err)
	assert.Equal(t, "Version révisée avec le cours.", final.FinalResponse)
	assert.Equal(t, 1, final.RevisionRounds)
	assert.Equal(t, 0.9, final.Score)
	// Revision re-runs retrieval before the retry.
	assert.Len(t, store.queries, 2)
}

func TestEngineRevisionIsBoundedToOne(t *testing.T) {
	store := &fakeStore{items: mathItems()}
	corrector := &scriptedProvider{completions: []*llm.Completion{textCompletion("Toujours pareil.")}}
	// The judge is never satisfied.
	judge := &scriptedProvider{completions: []*llm.Completion{
		textCompletion(`{"score": 0.2, "needs_revision": true, "feedback": "Non."}`),
	}}

	engine := testEngine(corrector, judge, store)
	final, err := engine.Run(context.Background(), state.NewSession([]byte("img"), "user-1", "", "", false))

	require.NoError(t, err)
	assert.Equal(t, 1, final.RevisionRounds)
	assert.Equal(t, "Toujours pareil.", final.FinalResponse)
}

func TestEngineContextCancellation(t *testing.T) {
	store := &fakeStore{items: mathItems()}
	engine := testEngine(
		&scriptedProvider{completions: []*llm.Completion{textCompletion("x")}},
		&scriptedProvider{completions: []*llm.Completion{goodVerdict()}},
		store,
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Run(ctx, state.NewSession([]byte("img"), "user-1", "", "", false))
	assert.ErrorIs(t, err, context.Canceled)
}

func collectEvents(ch <-chan Event) []Event {
	var events []Event
	for e := range ch {
		events = append(events, e)
	}
	return events
}

func TestStreamEventOrdering(t *testing.T) {
	store := &fakeStore{items: mathItems()}
	corrector := &scriptedProvider{completions: []*llm.Completion{textCompletion("La solution est x = 4.")}}
	judge := &scriptedProvider{completions: []*llm.Completion{goodVerdict()}}

	engine := testEngine(corrector, judge, store)
	events := collectEvents(engine.Stream(context.Background(), state.NewSession([]byte("img"), "user-1", "", "", true)))

	require.NotEmpty(t, events)
	assert.Equal(t, EventStart, events[0].Type)
	assert.Equal(t, EventDone, events[len(events)-1].Type)

	var phases []string
	var tokens []string
	for _, e := range events {
		switch e.Type {
		case EventPhase:
			phases = append(phases, e.Phase+":"+e.Status)
		case EventToken:
			tokens = append(tokens, e.Text)
		}
	}

	assert.Equal(t, []string{
		"ocr:running", "ocr:done",
		"rag:running", "rag:done",
		"specialist:running",
		"evaluating:running", "evaluating:done",
	}, phases)
	assert.Equal(t, "La solution est x = 4.", strings.Join(tokens, ""))

	done := events[len(events)-1]
	require.NotNil(t, done.Score)
	assert.Equal(t, 0.9, *done.Score)
	assert.Equal(t, []string{"Equations (mathematiques)"}, done.Sources)
	assert.Equal(t, string(state.SubjectMathematiques), done.Specialist)
}

func TestStreamOCRFailureEmitsErrorAndCloses(t *testing.T) {
	engine := NewEngine(
		Collaborators{
			Vision:    fakeVision{err: errors.New("blurry")},
			Store:     &fakeStore{},
			Corrector: &scriptedProvider{completions: []*llm.Completion{textCompletion("")}},
			Judge:     &scriptedProvider{completions: []*llm.Completion{goodVerdict()}},
		},
		Config{TopK: 5, MaxRetrievalRounds: 2, FallbackScore: 0.8, Logger: log.New(io.Discard, "", 0)},
	)

	events := collectEvents(engine.Stream(context.Background(), state.NewSession(nil, "user-1", "", "", true)))

	last := events[len(events)-1]
	assert.Equal(t, EventError, last.Type)
	assert.Equal(t, "OCR_FAILED", last.Code)
	assert.NotEmpty(t, last.Message)
}
