package specialist

import (
	"context"
	"strings"
	"testing"

	"github.com/Unshaft/StudyBuddy/pkg/agent/state"
	"github.com/Unshaft/StudyBuddy/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForSubjectIsTotal(t *testing.T) {
	for _, subject := range state.AllSubjects {
		sp := ForSubject(subject)
		assert.Equal(t, subject, sp.Subject, "variant for %s", subject)
		assert.NotEmpty(t, sp.Instructions, "instructions for %s", subject)
	}

	// Anything outside the closed set falls back to maths.
	assert.Equal(t, state.SubjectMathematiques, ForSubject(state.Subject("latin")).Subject)
}

func TestVariantExtraTools(t *testing.T) {
	assert.Len(t, ForSubject(state.SubjectMathematiques).ExtraTools, 1)
	assert.Equal(t, "formula_checker", ForSubject(state.SubjectMathematiques).ExtraTools[0].Name)
	assert.Equal(t, "text_extractor", ForSubject(state.SubjectFrancais).ExtraTools[0].Name)
	assert.Equal(t, "timeline_context", ForSubject(state.SubjectHistoireGeo).ExtraTools[0].Name)
	assert.Empty(t, ForSubject(state.SubjectAnglais).ExtraTools)
}

func TestBuildSystemPromptLayers(t *testing.T) {
	sp := ForSubject(state.SubjectPhysiqueChimie)
	s := state.Session{
		RoutedLevel: state.LevelSeconde,
		Items: []state.ContextItem{{
			Content:     "La masse volumique est le rapport masse sur volume.",
			CourseTitle: "Masse volumique",
			Subject:     "physique_chimie",
			Similarity:  0.87,
		}},
	}

	prompt := sp.BuildSystemPrompt(s)

	assert.Contains(t, prompt, "StudyBuddy")
	assert.Contains(t, prompt, "SPÉCIALISATION — PHYSIQUE CHIMIE :")
	assert.Contains(t, prompt, "ADAPTATION PÉDAGOGIQUE — NIVEAU 2nde :")
	assert.Contains(t, prompt, "EXTRAITS DU COURS DE L'ÉLÈVE :")
	assert.Contains(t, prompt, "[Extrait 1 — Masse volumique (physique_chimie), pertinence 87%]")
	assert.Contains(t, prompt, "La masse volumique est le rapport masse sur volume.")
}

func TestBuildSystemPromptWithoutItems(t *testing.T) {
	sp := ForSubject(state.SubjectMathematiques)
	prompt := sp.BuildSystemPrompt(state.Session{RoutedLevel: state.DefaultLevel})

	assert.Contains(t, prompt, "Aucun extrait de cours trouvé")
}

func TestLevelInstructionsFallback(t *testing.T) {
	for level := range levelInstructions {
		assert.NotEmpty(t, LevelInstructionsFor(level))
	}
	// Unknown level serves the default level's instructions.
	assert.Equal(t, LevelInstructionsFor(state.DefaultLevel), LevelInstructionsFor(state.Level("CP")))
}

func TestUserPromptIncludesStudentAnswer(t *testing.T) {
	sp := ForSubject(state.SubjectMathematiques)
	prompt := sp.buildUserPrompt(state.Session{
		Statement:     "Résoudre 2x + 3 = 11",
		StudentAnswer: "x = 4",
	})

	assert.Contains(t, prompt, "**ÉNONCÉ DE L'EXERCICE :**\nRésoudre 2x + 3 = 11")
	assert.Contains(t, prompt, "**MA RÉPONSE (à corriger) :**\nx = 4")
	assert.NotContains(t, prompt, "NOTE INTERNE")
}

func TestUserPromptCarriesRevisionFeedback(t *testing.T) {
	sp := ForSubject(state.SubjectMathematiques)
	prompt := sp.buildUserPrompt(state.Session{
		Statement:     "Résoudre 2x + 3 = 11",
		NeedsRevision: true,
		Feedback:      "Cite le cours de l'élève.",
	})

	assert.Contains(t, prompt, "NOTE INTERNE")
	assert.Contains(t, prompt, "Cite le cours de l'élève.")
}

type promptRecorder struct {
	completion *llm.Completion
	tools      []llm.Tool
}

func (p *promptRecorder) Complete(ctx context.Context, system string, history []llm.Message, tools []llm.Tool, options ...llm.Option) (*llm.Completion, error) {
	p.tools = tools
	return p.completion, nil
}

func (p *promptRecorder) StreamComplete(ctx context.Context, system string, history []llm.Message, onToken func(string), options ...llm.Option) (string, error) {
	for _, part := range strings.SplitAfter(p.completion.Text, " ") {
		onToken(part)
	}
	return p.completion.Text, nil
}

func TestRunOffersRequeryPlusVariantTools(t *testing.T) {
	provider := &promptRecorder{completion: &llm.Completion{StopReason: llm.StopEndTurn, Text: "ok"}}
	sp := ForSubject(state.SubjectMathematiques)

	_, err := sp.Run(context.Background(), provider, state.Session{Statement: "x"})
	require.NoError(t, err)

	require.Len(t, provider.tools, 2)
	assert.Equal(t, "rag_requery", provider.tools[0].Name)
	assert.Equal(t, "formula_checker", provider.tools[1].Name)
}

func TestRunExtractsPendingQueryFromToolCall(t *testing.T) {
	provider := &promptRecorder{completion: &llm.Completion{
		StopReason: llm.StopToolUse,
		ToolCall: &llm.ToolCall{
			Name:      "rag_requery",
			Arguments: map[string]interface{}{"new_query": "théorème de Thalès", "focus_concept": "Thalès"},
		},
	}}
	sp := ForSubject(state.SubjectMathematiques)

	result, err := sp.Run(context.Background(), provider, state.Session{Statement: "x"})
	require.NoError(t, err)

	assert.Equal(t, "théorème de Thalès", result.PendingQuery)
	assert.Empty(t, result.Response)
	assert.Equal(t, []string{"rag_requery"}, result.ToolCalls)
}

func TestRunReturnsDirectAnswer(t *testing.T) {
	provider := &promptRecorder{completion: &llm.Completion{StopReason: llm.StopEndTurn, Text: "La solution est x = 4."}}
	sp := ForSubject(state.SubjectMathematiques)

	result, err := sp.Run(context.Background(), provider, state.Session{Statement: "x"})
	require.NoError(t, err)

	assert.Equal(t, "La solution est x = 4.", result.Response)
	assert.Empty(t, result.PendingQuery)
}

func TestRunStreamAccumulatesTokens(t *testing.T) {
	provider := &promptRecorder{completion: &llm.Completion{Text: "La solution est x = 4."}}
	sp := ForSubject(state.SubjectMathematiques)

	var tokens []string
	full, err := sp.RunStream(context.Background(), provider, state.Session{Statement: "x"}, func(tok string) {
		tokens = append(tokens, tok)
	})
	require.NoError(t, err)

	assert.Equal(t, "La solution est x = 4.", full)
	assert.Equal(t, full, strings.Join(tokens, ""))
}
