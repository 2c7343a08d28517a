package node

import (
	"context"

	"github.com/Unshaft/StudyBuddy/pkg/agent/state"
)

// RevisionNode books one revision round before the pipeline loops back
// through retrieval. The evaluator feedback already sits in the state
// and reaches the specialist through its user prompt.
type RevisionNode struct{}

func (n RevisionNode) Run(ctx context.Context, s state.Session) state.Delta {
	return state.Delta{
		RevisionRounds: state.Ptr(s.RevisionRounds + 1),
	}
}
