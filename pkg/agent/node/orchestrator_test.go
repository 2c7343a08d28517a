package node

import (
	"context"
	"strings"
	"testing"

	"github.com/Unshaft/StudyBuddy/pkg/agent/state"

	"github.com/stretchr/testify/assert"
)

func TestOrchestratorSubjectPriority(t *testing.T) {
	tests := []struct {
		name     string
		override string
		detected string
		want     state.Subject
	}{
		{name: "override wins over detection", override: "philo", detected: "mathématiques", want: state.SubjectPhilosophie},
		{name: "detection when no override", override: "", detected: "Physique-Chimie", want: state.SubjectPhysiqueChimie},
		{name: "default when nothing known", override: "", detected: "", want: state.DefaultSubject},
		{name: "unknown override still normalizes to default", override: "musique", detected: "svt", want: state.DefaultSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := state.Session{
				Statement:       "Résoudre 2x + 3 = 11",
				SubjectOverride: tt.override,
				DetectedSubject: tt.detected,
			}

			delta := OrchestratorNode{}.Run(context.Background(), s)

			assert.NotNil(t, delta.RoutedSubject)
			assert.Equal(t, tt.want, *delta.RoutedSubject)
			assert.Equal(t, string(tt.want), *delta.SpecialistUsed)
		})
	}
}

func TestOrchestratorLevelFallback(t *testing.T) {
	s := state.Session{Statement: "un énoncé", DetectedLevel: "CE2"}
	delta := OrchestratorNode{}.Run(context.Background(), s)
	assert.Equal(t, state.DefaultLevel, *delta.RoutedLevel)

	s.DetectedLevel = "Terminale"
	delta = OrchestratorNode{}.Run(context.Background(), s)
	assert.Equal(t, state.LevelTerminale, *delta.RoutedLevel)
}

func TestOrchestratorResetsLoopCounters(t *testing.T) {
	s := state.Session{
		Statement:       "un énoncé",
		RetrievalRounds: 2,
		RevisionRounds:  1,
		ToolCalls:       []string{"rag_requery"},
	}

	delta := OrchestratorNode{}.Run(context.Background(), s)

	assert.Equal(t, 0, *delta.RetrievalRounds)
	assert.Equal(t, 0, *delta.RevisionRounds)
	assert.Empty(t, *delta.ToolCalls)
}

func TestBuildRetrievalQuery(t *testing.T) {
	query := BuildRetrievalQuery("Résoudre 2x + 3 = 11.", state.SubjectPhysiqueChimie, state.LevelSeconde)
	assert.Equal(t, "Physique Chimie niveau 2nde: Résoudre 2x + 3 = 11.", query)
}

func TestBuildRetrievalQueryTruncatesLongStatements(t *testing.T) {
	// Multi-byte runes must not be cut mid-character.
	statement := strings.Repeat("é", 400)
	query := BuildRetrievalQuery(statement, state.SubjectMathematiques, state.LevelTroisieme)

	assert.True(t, strings.HasPrefix(query, "Mathematiques niveau 3ème: "))
	excerpt := strings.TrimPrefix(query, "Mathematiques niveau 3ème: ")
	assert.Equal(t, 300, len([]rune(excerpt)))
	assert.Equal(t, strings.Repeat("é", 300), excerpt)
}
