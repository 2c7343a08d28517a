package specialist

import (
	"context"
	"fmt"
	"strings"

	"github.com/Unshaft/StudyBuddy/pkg/agent/state"
	"github.com/Unshaft/StudyBuddy/pkg/llm"
)

// ragRequeryTool lets any specialist ask for one more retrieval round
// with a sharper query. The engine caps how often this is honored.
var ragRequeryTool = llm.Tool{
	Name: "rag_requery",
	Description: "Affine la recherche dans le cours de l'élève avec une requête plus précise. " +
		"À utiliser quand les extraits de cours fournis ne couvrent pas le concept " +
		"nécessaire pour résoudre l'exercice.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"new_query": map[string]interface{}{
				"type":        "string",
				"description": "Nouvelle requête de recherche plus ciblée",
			},
			"focus_concept": map[string]interface{}{
				"type":        "string",
				"description": "Concept précis recherché (ex: 'théorème de Pythagore')",
			},
			"reason": map[string]interface{}{
				"type":        "string",
				"description": "Pourquoi la requête initiale était insuffisante",
			},
		},
		"required": []string{"new_query", "focus_concept"},
	},
}

// Specialist is one subject tutor. Variants differ only by data: the
// subject tag, its teaching instructions and optional extra tools.
type Specialist struct {
	Subject      state.Subject
	Instructions string
	ExtraTools   []llm.Tool
}

// Result is what a specialist run hands back to the pipeline.
type Result struct {
	Response     string
	PendingQuery string // non-empty when the specialist wants another retrieval round
	ToolCalls    []string
}

// ForSubject returns the specialist variant for a subject. It is total
// over the closed subject set; anything else gets the default subject.
func ForSubject(subject state.Subject) Specialist {
	switch subject {
	case state.SubjectMathematiques:
		return mathematiquesSpecialist
	case state.SubjectFrancais:
		return francaisSpecialist
	case state.SubjectPhysiqueChimie:
		return physiqueChimieSpecialist
	case state.SubjectSVT:
		return svtSpecialist
	case state.SubjectHistoireGeo:
		return histoireGeoSpecialist
	case state.SubjectAnglais:
		return anglaisSpecialist
	case state.SubjectPhilosophie:
		return philosophieSpecialist
	default:
		return mathematiquesSpecialist
	}
}

func formatItems(items []state.ContextItem) string {
	if len(items) == 0 {
		return "⚠️ Aucun extrait de cours trouvé dans ta bibliothèque pour cette matière.\n" +
			"Je vais t'aider du mieux possible, mais ajoute ton cours pour une aide personnalisée."
	}

	parts := make([]string, 0, len(items))
	for i, item := range items {
		similarityPct := int(item.Similarity * 100)
		parts = append(parts, fmt.Sprintf(
			"[Extrait %d — %s (%s), pertinence %d%%]\n%s",
			i+1, item.CourseTitle, item.Subject, similarityPct, item.Content,
		))
	}

	return strings.Join(parts, "\n\n---\n\n")
}

// BuildSystemPrompt layers persona, subject instructions, level
// adaptation, retrieved course material and the shared answer format.
func (sp Specialist) BuildSystemPrompt(s state.Session) string {
	divider := "══════════════════════════════════════════"

	return fmt.Sprintf(`%s

%s
SPÉCIALISATION — %s :
%s

%s
ADAPTATION PÉDAGOGIQUE — NIVEAU %s :
%s

%s
EXTRAITS DU COURS DE L'ÉLÈVE :
%s

%s
%s`,
		BasePersona,
		divider,
		strings.ToUpper(sp.Subject.Label()),
		sp.Instructions,
		divider,
		s.RoutedLevel,
		LevelInstructionsFor(s.RoutedLevel),
		divider,
		formatItems(s.Items),
		divider,
		responseFormat,
	)
}

func (sp Specialist) buildUserPrompt(s state.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**ÉNONCÉ DE L'EXERCICE :**\n%s", s.Statement)

	if s.StudentAnswer != "" {
		fmt.Fprintf(&b, "\n\n**MA RÉPONSE (à corriger) :**\n%s", s.StudentAnswer)
	}

	if s.NeedsRevision && s.Feedback != "" {
		fmt.Fprintf(&b, "\n\n**NOTE INTERNE (amélioration demandée) :**\n%s\nRévise ta correction en tenant compte de ce retour.", s.Feedback)
	}

	return b.String()
}

// Run executes one specialist turn. A rag_requery tool call is not
// resolved here; it comes back as a PendingQuery for the engine to
// route through retrieval.
func (sp Specialist) Run(ctx context.Context, provider llm.Provider, s state.Session, options ...llm.Option) (Result, error) {
	tools := append([]llm.Tool{ragRequeryTool}, sp.ExtraTools...)
	systemPrompt := sp.BuildSystemPrompt(s)
	history := []llm.Message{{Role: "user", Content: sp.buildUserPrompt(s)}}

	toolCalls := append([]string{}, s.ToolCalls...)

	completion, err := provider.Complete(ctx, systemPrompt, history, tools, options...)
	if err != nil {
		return Result{}, err
	}

	if completion.StopReason == llm.StopToolUse && completion.ToolCall != nil && completion.ToolCall.Name == ragRequeryTool.Name {
		toolCalls = append(toolCalls, ragRequeryTool.Name)
		newQuery, _ := completion.ToolCall.Arguments["new_query"].(string)
		return Result{
			PendingQuery: newQuery,
			ToolCalls:    toolCalls,
		}, nil
	}

	return Result{
		Response:  completion.Text,
		ToolCalls: toolCalls,
	}, nil
}

// RunStream streams the specialist answer token by token. Tools are
// not offered in streaming mode, so the answer is always direct.
func (sp Specialist) RunStream(ctx context.Context, provider llm.Provider, s state.Session, onToken func(string), options ...llm.Option) (string, error) {
	systemPrompt := sp.BuildSystemPrompt(s)
	history := []llm.Message{{Role: "user", Content: sp.buildUserPrompt(s)}}

	return provider.StreamComplete(ctx, systemPrompt, history, onToken, options...)
}
