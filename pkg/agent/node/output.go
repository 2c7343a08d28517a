package node

import (
	"context"
	"fmt"

	"github.com/Unshaft/StudyBuddy/pkg/agent/state"
)

// OutputNode freezes the final answer and lists the distinct course
// sources that backed it, in first-seen order.
type OutputNode struct{}

func (n OutputNode) Run(ctx context.Context, s state.Session) state.Delta {
	return state.Delta{
		FinalResponse: state.Ptr(s.Response),
		Sources:       state.Ptr(SourceList(s.Items)),
	}
}

// SourceList renders unique "title (subject)" labels from the context
// items.
func SourceList(items []state.ContextItem) []string {
	seen := make(map[string]struct{}, len(items))
	sources := make([]string, 0, len(items))

	for _, item := range items {
		label := fmt.Sprintf("%s (%s)", item.CourseTitle, item.Subject)
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		sources = append(sources, label)
	}

	return sources
}
