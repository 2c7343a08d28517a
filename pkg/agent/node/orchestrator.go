package node

import (
	"context"
	"fmt"
	"strings"

	"github.com/Unshaft/StudyBuddy/pkg/agent/state"
)

// statementExcerptLen caps how much of the statement seeds the first
// retrieval query.
const statementExcerptLen = 300

// OrchestratorNode arbitrates subject and level, then builds the
// initial retrieval query. Pure decision logic, no model call.
type OrchestratorNode struct{}

func (n OrchestratorNode) Run(ctx context.Context, s state.Session) state.Delta {
	routedSubject := resolveSubject(s)
	routedLevel := resolveLevel(s)
	query := BuildRetrievalQuery(s.Statement, routedSubject, routedLevel)

	return state.Delta{
		RoutedSubject:   state.Ptr(routedSubject),
		RoutedLevel:     state.Ptr(routedLevel),
		RetrievalQuery:  state.Ptr(query),
		RetrievalRounds: state.Ptr(0),
		RevisionRounds:  state.Ptr(0),
		ToolCalls:       state.Ptr([]string{}),
		SpecialistUsed:  state.Ptr(string(routedSubject)),
	}
}

// resolveSubject priority: explicit override, then the intake guess,
// then the default subject.
func resolveSubject(s state.Session) state.Subject {
	if s.SubjectOverride != "" {
		return state.NormalizeSubject(s.SubjectOverride)
	}
	if s.DetectedSubject != "" {
		return state.NormalizeSubject(s.DetectedSubject)
	}
	return state.DefaultSubject
}

func resolveLevel(s state.Session) state.Level {
	if s.DetectedLevel != "" && state.KnownLevel(s.DetectedLevel) {
		return state.Level(s.DetectedLevel)
	}
	return state.DefaultLevel
}

// BuildRetrievalQuery embeds the resolved subject and level into the
// query so retrieval lands in the right part of the library.
func BuildRetrievalQuery(statement string, subject state.Subject, level state.Level) string {
	excerpt := strings.TrimSpace(truncateRunes(statement, statementExcerptLen))
	return fmt.Sprintf("%s niveau %s: %s", titleCase(subject.Label()), level, excerpt)
}

// truncateRunes cuts at a rune boundary so accented text never ends
// mid-character.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
