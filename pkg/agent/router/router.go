package router

import (
	"github.com/Unshaft/StudyBuddy/pkg/agent/state"
)

// StageID identifies one pipeline stage. The engine drives an explicit
// finite-state machine over these identifiers; there is no graph runtime.
type StageID string

const (
	StageIntake       StageID = "intake"
	StageOrchestrator StageID = "orchestrator"
	StageRetrieval    StageID = "retrieval"
	StageRequery      StageID = "requery"
	StageSpecialist   StageID = "specialist"
	StageEvaluator    StageID = "evaluator"
	StageRevision     StageID = "revision"
	StageOutput       StageID = "output"
	StageErrorEnd     StageID = "error_end"

	// StageEnd is the terminal marker; the engine halts when it is reached.
	StageEnd StageID = "end"
)

// MaxRevisions is the hard single-revision policy.
const MaxRevisions = 1

// AfterIntake stops the pipeline when intake failed, otherwise continues
// to the orchestrator.
func AfterIntake(s state.Session) StageID {
	if s.Err != "" {
		return StageErrorEnd
	}
	return StageOrchestrator
}

// SelectSubject resolves the routed subject to a member of the closed
// subject set. It is total: unknown or empty values fall back to the
// default subject.
func SelectSubject(s state.Session) state.Subject {
	switch s.RoutedSubject {
	case state.SubjectMathematiques,
		state.SubjectFrancais,
		state.SubjectPhysiqueChimie,
		state.SubjectSVT,
		state.SubjectHistoireGeo,
		state.SubjectAnglais,
		state.SubjectPhilosophie:
		return s.RoutedSubject
	default:
		return state.DefaultSubject
	}
}

// AfterSpecialist sends the pipeline back through retrieval when the
// specialist asked for more context and the round budget allows it.
// This is the backpressure bound on re-querying.
func AfterSpecialist(s state.Session, maxRetrievalRounds int) StageID {
	if s.PendingQuery != "" && s.RetrievalRounds < maxRetrievalRounds {
		return StageRequery
	}
	return StageEvaluator
}

// AfterEvaluator grants at most one revision round.
func AfterEvaluator(s state.Session) StageID {
	if s.NeedsRevision && s.RevisionRounds < MaxRevisions {
		return StageRevision
	}
	return StageOutput
}

// Next is the full transition function (stage, state) -> next stage.
// It is deterministic given the merged state after each stage.
func Next(current StageID, s state.Session, maxRetrievalRounds int) StageID {
	switch current {
	case StageIntake:
		return AfterIntake(s)
	case StageOrchestrator:
		return StageRetrieval
	case StageRetrieval:
		return StageSpecialist
	case StageSpecialist:
		return AfterSpecialist(s, maxRetrievalRounds)
	case StageRequery:
		// Refinement never changes subject: back to the same specialist.
		return StageSpecialist
	case StageEvaluator:
		return AfterEvaluator(s)
	case StageRevision:
		// Revision re-runs retrieval first so the retry sees fresh context.
		return StageRetrieval
	case StageOutput, StageErrorEnd:
		return StageEnd
	default:
		return StageEnd
	}
}
