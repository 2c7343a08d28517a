package node

import (
	"context"
	"errors"
	"testing"

	"github.com/Unshaft/StudyBuddy/pkg/agent/state"
	"github.com/Unshaft/StudyBuddy/pkg/vision"

	"github.com/stretchr/testify/assert"
)

func TestSourceList(t *testing.T) {
	items := []state.ContextItem{
		{CourseTitle: "Equations", Subject: "mathematiques"},
		{CourseTitle: "Fractions", Subject: "mathematiques"},
		{CourseTitle: "Equations", Subject: "mathematiques"}, // duplicate
	}

	sources := SourceList(items)

	assert.Equal(t, []string{"Equations (mathematiques)", "Fractions (mathematiques)"}, sources)
}

func TestSourceListEmpty(t *testing.T) {
	sources := SourceList(nil)
	assert.NotNil(t, sources)
	assert.Empty(t, sources)
}

func TestOutputFreezesResponseAndSources(t *testing.T) {
	s := state.Session{
		Response: "la correction finale",
		Items:    []state.ContextItem{{CourseTitle: "Equations", Subject: "mathematiques"}},
	}

	delta := OutputNode{}.Run(context.Background(), s)

	assert.Equal(t, "la correction finale", *delta.FinalResponse)
	assert.Equal(t, []string{"Equations (mathematiques)"}, *delta.Sources)
}

func TestErrorEndBuildsStudentFacingMessage(t *testing.T) {
	delta := ErrorEndNode{}.Run(context.Background(), state.Session{Err: "OCR_FAILED: illisible"})

	assert.Equal(t, "Une erreur s'est produite : OCR_FAILED: illisible", *delta.FinalResponse)
	assert.Empty(t, *delta.Sources)
}

func TestErrorEndWithoutCause(t *testing.T) {
	delta := ErrorEndNode{}.Run(context.Background(), state.Session{})
	assert.Equal(t, "Une erreur s'est produite : Erreur inconnue", *delta.FinalResponse)
}

// stubExtractor serves canned vision results.
type stubExtractor struct {
	exercise *vision.ExerciseExtraction
	err      error
}

func (s stubExtractor) ExtractExercise(ctx context.Context, image []byte) (*vision.ExerciseExtraction, error) {
	return s.exercise, s.err
}

func (s stubExtractor) ExtractCourse(ctx context.Context, image []byte) (*vision.CourseExtraction, error) {
	return nil, errors.New("not used")
}

func TestIntakeExtractsStatement(t *testing.T) {
	node := IntakeNode{Extractor: stubExtractor{exercise: &vision.ExerciseExtraction{
		Subject:      "Mathématiques",
		ExerciseType: "Equation",
		Statement:    "Résoudre 2x + 3 = 11",
	}}}

	delta := node.Run(context.Background(), state.Session{ImageBytes: []byte("img")})

	assert.Nil(t, delta.Err)
	assert.Equal(t, "Résoudre 2x + 3 = 11", *delta.Statement)
	assert.Equal(t, "Mathématiques", *delta.DetectedSubject)
	assert.Equal(t, "Equation", *delta.ExerciseType)
}

func TestIntakeEmptyStatementFails(t *testing.T) {
	node := IntakeNode{Extractor: stubExtractor{exercise: &vision.ExerciseExtraction{Statement: ""}}}

	delta := node.Run(context.Background(), state.Session{})

	assert.NotNil(t, delta.Err)
	assert.Equal(t, "OCR_FAILED: Impossible d'extraire l'énoncé de l'image.", *delta.Err)
}

func TestIntakeProviderErrorFails(t *testing.T) {
	node := IntakeNode{Extractor: stubExtractor{err: errors.New("timeout")}}

	delta := node.Run(context.Background(), state.Session{})

	assert.NotNil(t, delta.Err)
	assert.Contains(t, *delta.Err, "OCR_ERROR")
}

func TestRetrievalAbsorbsStoreFailure(t *testing.T) {
	store := &stubStore{err: errors.New("store down")}
	delta := RetrievalNode{Store: store, TopK: 5}.Run(context.Background(), state.Session{RetrievalQuery: "q"})

	assert.Empty(t, *delta.Items)
	assert.Equal(t, 0, *delta.ItemsFound)
	assert.Nil(t, delta.Err)
}

func TestRetrievalReportsItemCount(t *testing.T) {
	store := &stubStore{items: []state.ContextItem{item("a", 0, 0.9), item("a", 1, 0.8)}}
	delta := RetrievalNode{Store: store, TopK: 5}.Run(context.Background(), state.Session{RetrievalQuery: "q"})

	assert.Len(t, *delta.Items, 2)
	assert.Equal(t, 2, *delta.ItemsFound)
}
