// Package node contains the pipeline stages. Each stage receives the
// current session by value and returns a Delta; failures that should
// stop the run are reported through the Err field, never by panicking.
package node

import (
	"context"
	"fmt"

	"github.com/Unshaft/StudyBuddy/pkg/agent/state"
	"github.com/Unshaft/StudyBuddy/pkg/vision"
)

// IntakeNode reads the exercise photo and extracts the statement plus
// a first subject guess. The level is not detected here; the
// orchestrator resolves it.
type IntakeNode struct {
	Extractor vision.Extractor
}

func (n IntakeNode) Run(ctx context.Context, s state.Session) state.Delta {
	extraction, err := n.Extractor.ExtractExercise(ctx, s.ImageBytes)
	if err != nil {
		return state.Delta{Err: state.Ptr(fmt.Sprintf("OCR_ERROR: %v", err))}
	}

	if extraction.Statement == "" {
		return state.Delta{Err: state.Ptr("OCR_FAILED: Impossible d'extraire l'énoncé de l'image.")}
	}

	return state.Delta{
		Statement:       state.Ptr(extraction.Statement),
		DetectedSubject: state.Ptr(extraction.Subject),
		ExerciseType:    state.Ptr(extraction.ExerciseType),
	}
}
