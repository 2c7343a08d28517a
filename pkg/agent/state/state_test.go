package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSubject(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Subject
	}{
		{name: "exact match", raw: "mathematiques", want: SubjectMathematiques},
		{name: "accented", raw: "mathématiques", want: SubjectMathematiques},
		{name: "short form", raw: "maths", want: SubjectMathematiques},
		{name: "uppercase", raw: "MATHS", want: SubjectMathematiques},
		{name: "padded", raw: "  physique-chimie  ", want: SubjectPhysiqueChimie},
		{name: "physique alone", raw: "physique", want: SubjectPhysiqueChimie},
		{name: "biologie maps to svt", raw: "biologie", want: SubjectSVT},
		{name: "histoire alone", raw: "histoire", want: SubjectHistoireGeo},
		{name: "english maps to anglais", raw: "english", want: SubjectAnglais},
		{name: "philo short form", raw: "philo", want: SubjectPhilosophie},
		{name: "unknown falls back", raw: "musique", want: DefaultSubject},
		{name: "empty falls back", raw: "", want: DefaultSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSubject(tt.raw))
		})
	}
}

func TestSubjectLabel(t *testing.T) {
	assert.Equal(t, "physique chimie", SubjectPhysiqueChimie.Label())
	assert.Equal(t, "histoire geo", SubjectHistoireGeo.Label())
	assert.Equal(t, "mathematiques", SubjectMathematiques.Label())
}

func TestKnownLevel(t *testing.T) {
	for _, level := range []Level{LevelSixieme, LevelCinquieme, LevelQuatrieme, LevelTroisieme, LevelSeconde, LevelPremiere, LevelTerminale} {
		assert.True(t, KnownLevel(string(level)), "level %s should be known", level)
	}

	assert.False(t, KnownLevel("CP"))
	assert.False(t, KnownLevel(""))
	assert.False(t, KnownLevel("terminale")) // case sensitive on purpose
}

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession([]byte("img"), "user-1", "x = 4", "maths", true)

	assert.NotEmpty(t, s.SessionID)
	assert.Equal(t, "user-1", s.UserID)
	assert.Equal(t, "x = 4", s.StudentAnswer)
	assert.Equal(t, "maths", s.SubjectOverride)
	assert.True(t, s.StreamEnabled)
	assert.Equal(t, "Exercice", s.ExerciseType)
	assert.Equal(t, DefaultSubject, s.RoutedSubject)
	assert.Equal(t, DefaultLevel, s.RoutedLevel)
	assert.NotNil(t, s.Items)
	assert.NotNil(t, s.ToolCalls)
	assert.NotNil(t, s.Sources)
}

func TestApplyMergesOnlySetFields(t *testing.T) {
	s := NewSession(nil, "user-1", "", "", false)
	s.Statement = "original statement"
	s.Score = 0.5

	next := s.Apply(Delta{
		Response: Ptr("une correction"),
		Score:    Ptr(0.9),
	})

	assert.Equal(t, "une correction", next.Response)
	assert.Equal(t, 0.9, next.Score)
	// Untouched fields survive.
	assert.Equal(t, "original statement", next.Statement)
	assert.Equal(t, s.SessionID, next.SessionID)
}

func TestApplyDoesNotMutateReceiver(t *testing.T) {
	s := NewSession(nil, "user-1", "", "", false)
	s.Response = "before"
	s.Items = []ContextItem{{CourseTitle: "A"}}

	_ = s.Apply(Delta{
		Response: Ptr("after"),
		Items:    Ptr([]ContextItem{{CourseTitle: "B"}, {CourseTitle: "C"}}),
	})

	assert.Equal(t, "before", s.Response)
	assert.Len(t, s.Items, 1)
	assert.Equal(t, "A", s.Items[0].CourseTitle)
}

func TestApplySlicesReplaceWholesale(t *testing.T) {
	s := NewSession(nil, "user-1", "", "", false)
	s.ToolCalls = []string{"rag_requery"}

	next := s.Apply(Delta{ToolCalls: Ptr([]string{})})

	assert.Empty(t, next.ToolCalls)
}

func TestApplyErrMakesTerminalState(t *testing.T) {
	s := NewSession(nil, "user-1", "", "", false)

	next := s.Apply(Delta{Err: Ptr("OCR_FAILED: boom")})

	assert.Equal(t, "OCR_FAILED: boom", next.Err)
	assert.Empty(t, s.Err)
}
