// Package agent drives the correction pipeline: an explicit state
// machine over the stages in pkg/agent/node, with all external
// collaborators injected up front.
package agent

import (
	"context"
	"fmt"
	"log"

	"github.com/Unshaft/StudyBuddy/pkg/agent/node"
	"github.com/Unshaft/StudyBuddy/pkg/agent/router"
	"github.com/Unshaft/StudyBuddy/pkg/agent/state"
	"github.com/Unshaft/StudyBuddy/pkg/llm"
	"github.com/Unshaft/StudyBuddy/pkg/retrieval"
	"github.com/Unshaft/StudyBuddy/pkg/vision"
)

// maxSteps bounds the driver loop. The worst legal run (full requery
// and revision budgets) stays well under this; hitting it means a
// transition bug, not a long exercise.
const maxSteps = 32

// Stage is one pipeline step. Stages never mutate the session they
// receive; they describe their changes as a Delta.
type Stage interface {
	Run(ctx context.Context, s state.Session) state.Delta
}

// Collaborators are the external services the pipeline talks to.
type Collaborators struct {
	Vision    vision.Extractor
	Store     retrieval.ContextStore
	Corrector llm.Provider
	Judge     llm.Provider
}

// Config carries the tunables shared by all runs of one engine.
type Config struct {
	TopK               int
	MaxRetrievalRounds int
	FallbackScore      float64
	CorrectorOptions   []llm.Option
	JudgeOptions       []llm.Option
	Logger             *log.Logger
}

// Engine executes the correction pipeline for one session at a time.
// It is stateless between runs and safe for concurrent use.
type Engine struct {
	stages             map[router.StageID]Stage
	collab             Collaborators
	topK               int
	maxRetrievalRounds int
	fallbackScore      float64
	correctorOptions   []llm.Option
	logger             *log.Logger
}

func NewEngine(collab Collaborators, cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	e := &Engine{
		collab:             collab,
		topK:               cfg.TopK,
		maxRetrievalRounds: cfg.MaxRetrievalRounds,
		fallbackScore:      cfg.FallbackScore,
		correctorOptions:   cfg.CorrectorOptions,
		logger:             logger,
	}

	e.stages = map[router.StageID]Stage{
		router.StageIntake:       node.IntakeNode{Extractor: collab.Vision},
		router.StageOrchestrator: node.OrchestratorNode{},
		router.StageRetrieval:    node.RetrievalNode{Store: collab.Store, TopK: cfg.TopK},
		router.StageRequery:      node.RequeryNode{Store: collab.Store, TopK: cfg.TopK},
		router.StageSpecialist:   node.SpecialistNode{Provider: collab.Corrector, Options: cfg.CorrectorOptions},
		router.StageEvaluator:    node.EvaluatorNode{Provider: collab.Judge, FallbackScore: cfg.FallbackScore, Options: cfg.JudgeOptions},
		router.StageRevision:     node.RevisionNode{},
		router.StageOutput:       node.OutputNode{},
		router.StageErrorEnd:     node.ErrorEndNode{},
	}

	return e
}

// Run drives the session from intake to a terminal stage and returns
// the final state. The returned session always carries a FinalResponse
// unless the context was cancelled or the step budget tripped.
func (e *Engine) Run(ctx context.Context, s state.Session) (state.Session, error) {
	current := router.StageIntake
	e.logger.Printf("[ENGINE] session=%s start user=%s", s.SessionID, s.UserID)

	for step := 0; step < maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return s, err
		}

		stage, ok := e.stages[current]
		if !ok {
			return s, fmt.Errorf("engine: no stage registered for %q", current)
		}

		s = s.Apply(stage.Run(ctx, s))
		e.logger.Printf("[ENGINE] session=%s stage=%s done", s.SessionID, current)

		next := router.Next(current, s, e.maxRetrievalRounds)
		if s.Err != "" && current != router.StageErrorEnd {
			next = router.StageErrorEnd
		}

		if next == router.StageEnd {
			e.logger.Printf("[ENGINE] session=%s finished stage=%s score=%.2f items=%d", s.SessionID, current, s.Score, s.ItemsFound)
			return s, nil
		}
		current = next
	}

	return s, fmt.Errorf("engine: session %s exceeded %d steps, last stage %q", s.SessionID, maxSteps, current)
}
