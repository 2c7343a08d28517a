package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Unshaft/StudyBuddy/pkg/agent"
	"github.com/Unshaft/StudyBuddy/pkg/agent/state"
	"github.com/Unshaft/StudyBuddy/pkg/llm"
	"github.com/Unshaft/StudyBuddy/pkg/retrieval"
	"github.com/Unshaft/StudyBuddy/pkg/vision"

	"github.com/fatih/color"
)

// Offline pipeline run with canned collaborators. Useful to inspect
// routing, the requery loop and event ordering without any API key.

type cannedVision struct{}

func (cannedVision) ExtractExercise(ctx context.Context, image []byte) (*vision.ExerciseExtraction, error) {
	return &vision.ExerciseExtraction{
		Subject:      "mathematiques",
		ExerciseType: "Equation",
		Statement:    "Résoudre l'équation 2x + 3 = 11.",
	}, nil
}

func (cannedVision) ExtractCourse(ctx context.Context, image []byte) (*vision.CourseExtraction, error) {
	return &vision.CourseExtraction{
		Title:   "Equations du premier degré",
		Subject: "mathematiques",
		Level:   "5eme",
		Content: "Une équation du premier degré se résout en isolant l'inconnue.",
	}, nil
}

type cannedStore struct{}

func (cannedStore) Search(ctx context.Context, query, userID string, subject state.Subject, topK int) ([]state.ContextItem, error) {
	return []state.ContextItem{
		{
			Content:     "Pour résoudre ax + b = c, on soustrait b puis on divise par a.",
			CourseTitle: "Equations du premier degré",
			Subject:     string(subject),
			Similarity:  0.91,
			ChunkIndex:  0,
			CourseID:    "11111111-1111-1111-1111-111111111111",
		},
	}, nil
}

type cannedLLM struct {
	text string
}

func (p cannedLLM) Complete(ctx context.Context, system string, history []llm.Message, tools []llm.Tool, options ...llm.Option) (*llm.Completion, error) {
	return &llm.Completion{StopReason: llm.StopEndTurn, Text: p.text}, nil
}

func (p cannedLLM) StreamComplete(ctx context.Context, system string, history []llm.Message, onToken func(string), options ...llm.Option) (string, error) {
	for _, word := range strings.SplitAfter(p.text, " ") {
		onToken(word)
		time.Sleep(20 * time.Millisecond)
	}
	return p.text, nil
}

func main() {
	var _ retrieval.ContextStore = cannedStore{}

	engine := agent.NewEngine(
		agent.Collaborators{
			Vision:    cannedVision{},
			Store:     cannedStore{},
			Corrector: cannedLLM{text: "## ✅ Verdict\nTa réponse x = 4 est correcte. On soustrait 3 des deux côtés puis on divise par 2."},
			Judge:     cannedLLM{text: `{"score": 0.92, "feedback": "Correction claire et fidèle au cours.", "needs_revision": false}`},
		},
		agent.Config{
			TopK:               7,
			MaxRetrievalRounds: 2,
			FallbackScore:      0.8,
		},
	)

	header := color.New(color.FgCyan, color.Bold)
	phase := color.New(color.FgYellow)
	answer := color.New(color.FgGreen)
	errCol := color.New(color.FgRed, color.Bold)

	header.Println("=== StudyBuddy Pipeline Simulation ===")

	session := state.NewSession([]byte("fake-photo"), "a2b94f4c-b674-433b-90be-65a91a37e7a3", "x = 4", "", false)

	start := time.Now()
	final, err := engine.Run(context.Background(), session)
	if err != nil {
		log.Fatalf("Pipeline error: %v", err)
	}
	phase.Printf("Batch run finished in %v\n", time.Since(start))
	fmt.Printf("  subject=%s level=%s score=%.2f rounds=%d sources=%v\n",
		final.RoutedSubject, final.RoutedLevel, final.Score, final.RetrievalRounds, final.Sources)
	answer.Println(final.FinalResponse)

	header.Println("\n=== Streaming run ===")
	streamSession := state.NewSession([]byte("fake-photo"), "a2b94f4c-b674-433b-90be-65a91a37e7a3", "x = 4", "", true)
	for event := range engine.Stream(context.Background(), streamSession) {
		switch event.Type {
		case agent.EventToken:
			answer.Print(event.Text)
		case agent.EventPhase:
			phase.Printf("[phase] %s %s\n", event.Phase, event.Status)
		case agent.EventDone:
			fmt.Println()
			phase.Printf("[done] score=%.2f sources=%v\n", *event.Score, event.Sources)
		case agent.EventError:
			errCol.Printf("[error] %s: %s\n", event.Code, event.Message)
		}
	}
}
