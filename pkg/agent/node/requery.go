package node

import (
	"context"
	"sort"

	"github.com/Unshaft/StudyBuddy/pkg/agent/state"
	"github.com/Unshaft/StudyBuddy/pkg/retrieval"
)

// RequeryNode runs the refined search a specialist asked for and merges
// the results into the existing context. The round counter advances
// whether or not the search succeeds, so a flaky store cannot loop the
// pipeline.
type RequeryNode struct {
	Store retrieval.ContextStore
	TopK  int
}

func (n RequeryNode) Run(ctx context.Context, s state.Session) state.Delta {
	newQuery := s.PendingQuery
	if newQuery == "" {
		return state.Delta{PendingQuery: state.Ptr("")}
	}

	newItems, err := n.Store.Search(ctx, newQuery, s.UserID, s.RoutedSubject, n.TopK)
	if err != nil {
		return state.Delta{
			PendingQuery:    state.Ptr(""),
			RetrievalRounds: state.Ptr(s.RetrievalRounds + 1),
		}
	}

	merged := MergeItems(s.Items, newItems, n.TopK*2)

	return state.Delta{
		Items:           state.Ptr(merged),
		ItemsFound:      state.Ptr(len(merged)),
		RetrievalRounds: state.Ptr(s.RetrievalRounds + 1),
		PendingQuery:    state.Ptr(""),
		RetrievalQuery:  state.Ptr(newQuery),
	}
}

type itemKey struct {
	courseID   string
	chunkIndex int
}

// MergeItems appends fresh items to the existing set, dropping
// duplicates by (course, chunk index), then keeps the most similar
// ones up to limit. The sort is stable so equal scores keep their
// arrival order.
func MergeItems(existing, fresh []state.ContextItem, limit int) []state.ContextItem {
	seen := make(map[itemKey]struct{}, len(existing))
	merged := make([]state.ContextItem, 0, len(existing)+len(fresh))

	for _, item := range existing {
		seen[itemKey{item.CourseID, item.ChunkIndex}] = struct{}{}
		merged = append(merged, item)
	}
	for _, item := range fresh {
		key := itemKey{item.CourseID, item.ChunkIndex}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, item)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Similarity > merged[j].Similarity
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
