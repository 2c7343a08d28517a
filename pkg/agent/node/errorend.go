package node

import (
	"context"
	"fmt"

	"github.com/Unshaft/StudyBuddy/pkg/agent/state"
)

// ErrorEndNode finalizes a failed run. The Err field survives so the
// API layer can map it to a status code; the final response carries a
// student-facing message.
type ErrorEndNode struct{}

func (n ErrorEndNode) Run(ctx context.Context, s state.Session) state.Delta {
	cause := s.Err
	if cause == "" {
		cause = "Erreur inconnue"
	}

	return state.Delta{
		FinalResponse: state.Ptr(fmt.Sprintf("Une erreur s'est produite : %s", cause)),
		Sources:       state.Ptr([]string{}),
	}
}
