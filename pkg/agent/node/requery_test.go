package node

import (
	"context"
	"errors"
	"testing"

	"github.com/Unshaft/StudyBuddy/pkg/agent/state"

	"github.com/stretchr/testify/assert"
)

// stubStore records the last query and serves canned results.
type stubStore struct {
	items     []state.ContextItem
	err       error
	lastQuery string
}

func (s *stubStore) Search(ctx context.Context, query, userID string, subject state.Subject, topK int) ([]state.ContextItem, error) {
	s.lastQuery = query
	return s.items, s.err
}

func item(courseID string, chunkIndex int, similarity float64) state.ContextItem {
	return state.ContextItem{
		Content:     "contenu",
		CourseTitle: "Cours " + courseID,
		Subject:     "mathematiques",
		Similarity:  similarity,
		ChunkIndex:  chunkIndex,
		CourseID:    courseID,
	}
}

func TestMergeItemsDedupesByCourseAndChunk(t *testing.T) {
	existing := []state.ContextItem{item("a", 0, 0.9), item("a", 1, 0.8)}
	fresh := []state.ContextItem{item("a", 0, 0.95), item("b", 0, 0.7)}

	merged := MergeItems(existing, fresh, 10)

	assert.Len(t, merged, 3)
	// The duplicate (a, 0) keeps the existing copy, score 0.9.
	for _, it := range merged {
		if it.CourseID == "a" && it.ChunkIndex == 0 {
			assert.Equal(t, 0.9, it.Similarity)
		}
	}
}

func TestMergeItemsSortsBySimilarityDesc(t *testing.T) {
	merged := MergeItems(
		[]state.ContextItem{item("a", 0, 0.5)},
		[]state.ContextItem{item("b", 0, 0.9), item("c", 0, 0.7)},
		10,
	)

	assert.Equal(t, []float64{0.9, 0.7, 0.5}, []float64{merged[0].Similarity, merged[1].Similarity, merged[2].Similarity})
}

func TestMergeItemsStableOnEqualScores(t *testing.T) {
	merged := MergeItems(
		[]state.ContextItem{item("a", 0, 0.8)},
		[]state.ContextItem{item("b", 0, 0.8)},
		10,
	)

	assert.Equal(t, "a", merged[0].CourseID)
	assert.Equal(t, "b", merged[1].CourseID)
}

func TestMergeItemsTruncatesToLimit(t *testing.T) {
	fresh := []state.ContextItem{
		item("a", 0, 0.9), item("a", 1, 0.8), item("a", 2, 0.7), item("a", 3, 0.6),
	}

	merged := MergeItems(nil, fresh, 2)

	assert.Len(t, merged, 2)
	assert.Equal(t, 0.9, merged[0].Similarity)
	assert.Equal(t, 0.8, merged[1].Similarity)
}

func TestRequeryMergesAndAdvancesRound(t *testing.T) {
	store := &stubStore{items: []state.ContextItem{item("b", 0, 0.95)}}
	node := RequeryNode{Store: store, TopK: 5}

	s := state.Session{
		UserID:          "user-1",
		RoutedSubject:   state.SubjectMathematiques,
		Items:           []state.ContextItem{item("a", 0, 0.6)},
		RetrievalRounds: 0,
		PendingQuery:    "théorème de Thalès",
	}

	delta := node.Run(context.Background(), s)

	assert.Equal(t, "théorème de Thalès", store.lastQuery)
	assert.Equal(t, 1, *delta.RetrievalRounds)
	assert.Equal(t, "", *delta.PendingQuery)
	assert.Equal(t, "théorème de Thalès", *delta.RetrievalQuery)
	assert.Len(t, *delta.Items, 2)
	assert.Equal(t, 2, *delta.ItemsFound)
	// Fresh, more similar item comes first.
	assert.Equal(t, "b", (*delta.Items)[0].CourseID)
}

func TestRequeryWithoutPendingQueryIsANoop(t *testing.T) {
	store := &stubStore{}
	delta := RequeryNode{Store: store, TopK: 5}.Run(context.Background(), state.Session{})

	assert.Equal(t, "", *delta.PendingQuery)
	assert.Nil(t, delta.Items)
	assert.Nil(t, delta.RetrievalRounds)
	assert.Empty(t, store.lastQuery)
}

func TestRequerySearchFailureStillBurnsTheRound(t *testing.T) {
	store := &stubStore{err: errors.New("store down")}
	s := state.Session{PendingQuery: "fractions", RetrievalRounds: 1}

	delta := RequeryNode{Store: store, TopK: 5}.Run(context.Background(), s)

	assert.Equal(t, 2, *delta.RetrievalRounds)
	assert.Equal(t, "", *delta.PendingQuery)
	assert.Nil(t, delta.Items)
}
