package router

import (
	"testing"

	"github.com/Unshaft/StudyBuddy/pkg/agent/state"

	"github.com/stretchr/testify/assert"
)

func TestNextTransitions(t *testing.T) {
	tests := []struct {
		name    string
		current StageID
		session state.Session
		maxRAG  int
		want    StageID
	}{
		{
			name:    "intake ok goes to orchestrator",
			current: StageIntake,
			session: state.Session{Statement: "un énoncé"},
			maxRAG:  2,
			want:    StageOrchestrator,
		},
		{
			name:    "intake failure goes to error end",
			current: StageIntake,
			session: state.Session{Err: "OCR_FAILED: illisible"},
			maxRAG:  2,
			want:    StageErrorEnd,
		},
		{
			name:    "orchestrator always goes to retrieval",
			current: StageOrchestrator,
			session: state.Session{},
			maxRAG:  2,
			want:    StageRetrieval,
		},
		{
			name:    "retrieval always goes to specialist",
			current: StageRetrieval,
			session: state.Session{},
			maxRAG:  2,
			want:    StageSpecialist,
		},
		{
			name:    "specialist with pending query and budget goes to requery",
			current: StageSpecialist,
			session: state.Session{PendingQuery: "théorème de Pythagore", RetrievalRounds: 0},
			maxRAG:  2,
			want:    StageRequery,
		},
		{
			name:    "specialist with pending query but exhausted budget goes to evaluator",
			current: StageSpecialist,
			session: state.Session{PendingQuery: "théorème de Pythagore", RetrievalRounds: 2},
			maxRAG:  2,
			want:    StageEvaluator,
		},
		{
			name:    "specialist without pending query goes to evaluator",
			current: StageSpecialist,
			session: state.Session{Response: "une correction"},
			maxRAG:  2,
			want:    StageEvaluator,
		},
		{
			name:    "requery goes back to the same specialist",
			current: StageRequery,
			session: state.Session{},
			maxRAG:  2,
			want:    StageSpecialist,
		},
		{
			name:    "evaluator needing revision with budget goes to revision",
			current: StageEvaluator,
			session: state.Session{NeedsRevision: true, RevisionRounds: 0},
			maxRAG:  2,
			want:    StageRevision,
		},
		{
			name:    "evaluator needing revision without budget goes to output",
			current: StageEvaluator,
			session: state.Session{NeedsRevision: true, RevisionRounds: MaxRevisions},
			maxRAG:  2,
			want:    StageOutput,
		},
		{
			name:    "evaluator satisfied goes to output",
			current: StageEvaluator,
			session: state.Session{Score: 0.9},
			maxRAG:  2,
			want:    StageOutput,
		},
		{
			name:    "revision re-runs retrieval",
			current: StageRevision,
			session: state.Session{},
			maxRAG:  2,
			want:    StageRetrieval,
		},
		{
			name:    "output is terminal",
			current: StageOutput,
			session: state.Session{},
			maxRAG:  2,
			want:    StageEnd,
		},
		{
			name:    "error end is terminal",
			current: StageErrorEnd,
			session: state.Session{},
			maxRAG:  2,
			want:    StageEnd,
		},
		{
			name:    "unknown stage halts",
			current: StageID("bogus"),
			session: state.Session{},
			maxRAG:  2,
			want:    StageEnd,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Next(tt.current, tt.session, tt.maxRAG))
		})
	}
}

func TestSelectSubjectIsTotal(t *testing.T) {
	for _, subject := range state.AllSubjects {
		got := SelectSubject(state.Session{RoutedSubject: subject})
		assert.Equal(t, subject, got)
	}

	assert.Equal(t, state.DefaultSubject, SelectSubject(state.Session{RoutedSubject: state.Subject("latin")}))
	assert.Equal(t, state.DefaultSubject, SelectSubject(state.Session{}))
}

func TestAfterSpecialistZeroBudgetNeverRequeries(t *testing.T) {
	s := state.Session{PendingQuery: "fractions", RetrievalRounds: 0}
	assert.Equal(t, StageEvaluator, AfterSpecialist(s, 0))
}
