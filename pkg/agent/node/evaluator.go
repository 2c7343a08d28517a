package node

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Unshaft/StudyBuddy/pkg/agent/state"
	"github.com/Unshaft/StudyBuddy/pkg/llm"
)

const evaluatorSystemPrompt = `Tu es un expert en pédagogie scolaire. Tu évalues la qualité d'une correction d'exercice.

Réponds UNIQUEMENT en JSON valide avec ce format exact :
{
  "score": <float entre 0.0 et 1.0>,
  "needs_revision": <boolean>,
  "feedback": "<feedback concis en 1-2 phrases si révision nécessaire, sinon chaîne vide>"
}

Critères d'évaluation (chacun vaut 0.25 point) :
1. CITATIONS DU COURS : La correction cite-t-elle des passages du cours de l'élève ?
2. ÉTAPES CLAIRES : La correction est-elle structurée en étapes numérotées progressives ?
3. ADAPTATION NIVEAU : Le vocabulaire et la complexité correspondent-ils au niveau scolaire ?
4. PÉDAGOGIE : Explique-t-on le POURQUOI, pas seulement le QUOI ?

Seuil : needs_revision=true si score < 0.75`

const (
	evalStatementLen = 500
	evalResponseLen  = 2000
	evalItemLen      = 100
	evalMaxItems     = 3

	revisionThreshold = 0.75
)

// EvaluatorNode scores the specialist answer on a condensed view of
// the session. It fails open: when the judge itself errors, the answer
// is accepted with the configured fallback score rather than blocking
// the student.
type EvaluatorNode struct {
	Provider      llm.Provider
	FallbackScore float64
	Options       []llm.Option
}

type evaluation struct {
	Score         float64 `json:"score"`
	NeedsRevision *bool   `json:"needs_revision"`
	Feedback      string  `json:"feedback"`
}

func (n EvaluatorNode) Run(ctx context.Context, s state.Session) state.Delta {
	if s.Response == "" {
		return state.Delta{
			Score:         state.Ptr(0.0),
			Feedback:      state.Ptr("Aucune réponse du spécialiste."),
			NeedsRevision: state.Ptr(true),
		}
	}

	history := []llm.Message{{Role: "user", Content: n.buildUserMessage(s)}}

	completion, err := n.Provider.Complete(ctx, evaluatorSystemPrompt, history, nil, n.Options...)
	if err != nil {
		return n.fallback()
	}

	raw := StripCodeFence(completion.Text)

	var parsed evaluation
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return n.fallback()
	}

	needsRevision := parsed.Score < revisionThreshold
	if parsed.NeedsRevision != nil {
		needsRevision = *parsed.NeedsRevision
	}

	return state.Delta{
		Score:         state.Ptr(parsed.Score),
		Feedback:      state.Ptr(parsed.Feedback),
		NeedsRevision: state.Ptr(needsRevision),
	}
}

func (n EvaluatorNode) fallback() state.Delta {
	return state.Delta{
		Score:         state.Ptr(n.FallbackScore),
		Feedback:      state.Ptr(""),
		NeedsRevision: state.Ptr(false),
	}
}

// buildUserMessage condenses the session so the judge sees just enough
// context: truncated statement and answer, a summary of the top items.
func (n EvaluatorNode) buildUserMessage(s state.Session) string {
	var itemLines []string
	for i, item := range s.Items {
		if i >= evalMaxItems {
			break
		}
		itemLines = append(itemLines, fmt.Sprintf("- %s : %s...", item.CourseTitle, truncateRunes(item.Content, evalItemLen)))
	}
	itemsSummary := strings.Join(itemLines, "\n")
	if itemsSummary == "" {
		itemsSummary = "Aucun cours disponible."
	}

	return fmt.Sprintf(`NIVEAU SCOLAIRE : %s

ÉNONCÉ DE L'EXERCICE :
%s

EXTRAITS DU COURS DISPONIBLES :
%s

CORRECTION PRODUITE PAR LE SPÉCIALISTE :
%s

Évalue cette correction selon les 4 critères.`,
		s.RoutedLevel,
		truncateRunes(s.Statement, evalStatementLen),
		itemsSummary,
		truncateRunes(s.Response, evalResponseLen),
	)
}

// StripCodeFence unwraps a ```json ... ``` or ``` ... ``` block so a
// fenced model answer still parses.
func StripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)

	if idx := strings.Index(raw, "```json"); idx >= 0 {
		raw = raw[idx+len("```json"):]
		if end := strings.Index(raw, "```"); end >= 0 {
			raw = raw[:end]
		}
		return strings.TrimSpace(raw)
	}

	if idx := strings.Index(raw, "```"); idx >= 0 {
		raw = raw[idx+len("```"):]
		if end := strings.Index(raw, "```"); end >= 0 {
			raw = raw[:end]
		}
		return strings.TrimSpace(raw)
	}

	return raw
}
