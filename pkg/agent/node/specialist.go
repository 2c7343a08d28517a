package node

import (
	"context"
	"fmt"

	"github.com/Unshaft/StudyBuddy/pkg/agent/router"
	"github.com/Unshaft/StudyBuddy/pkg/agent/state"
	"github.com/Unshaft/StudyBuddy/pkg/agent/specialist"
	"github.com/Unshaft/StudyBuddy/pkg/llm"
)

// SpecialistNode dispatches to the subject tutor selected by the
// router and records its answer or its requery request.
type SpecialistNode struct {
	Provider llm.Provider
	Options  []llm.Option
}

func (n SpecialistNode) Run(ctx context.Context, s state.Session) state.Delta {
	tutor := specialist.ForSubject(router.SelectSubject(s))

	result, err := tutor.Run(ctx, n.Provider, s, n.Options...)
	if err != nil {
		return state.Delta{Err: state.Ptr(fmt.Sprintf("SPECIALIST_ERROR: %v", err))}
	}

	return state.Delta{
		Response:     state.Ptr(result.Response),
		PendingQuery: state.Ptr(result.PendingQuery),
		ToolCalls:    state.Ptr(result.ToolCalls),
	}
}
