package node

import (
	"context"

	"github.com/Unshaft/StudyBuddy/pkg/agent/state"
	"github.com/Unshaft/StudyBuddy/pkg/retrieval"
)

// RetrievalNode fetches the context items for the current query. A
// failing or empty store is not fatal: the specialist can still answer
// without course material, it just says so.
type RetrievalNode struct {
	Store retrieval.ContextStore
	TopK  int
}

func (n RetrievalNode) Run(ctx context.Context, s state.Session) state.Delta {
	items, err := n.Store.Search(ctx, s.RetrievalQuery, s.UserID, s.RoutedSubject, n.TopK)
	if err != nil || items == nil {
		items = []state.ContextItem{}
	}

	return state.Delta{
		Items:      state.Ptr(items),
		ItemsFound: state.Ptr(len(items)),
	}
}
