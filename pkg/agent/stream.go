package agent

import (
	"github.com/Unshaft/StudyBuddy/pkg/agent/node"
	"github.com/Unshaft/StudyBuddy/pkg/agent/router"
	"github.com/Unshaft/StudyBuddy/pkg/agent/specialist"
	"github.com/Unshaft/StudyBuddy/pkg/agent/state"

	"context"
)

// EventType tags one streamed pipeline event.
type EventType string

const (
	EventStart EventType = "start"
	EventPhase EventType = "phase"
	EventToken EventType = "token"
	EventDone  EventType = "done"
	EventError EventType = "error"
)

// Event is one item of the streamed correction. Fields are sparse;
// which ones are set depends on the event type.
type Event struct {
	Type EventType `json:"type"`

	SessionID string `json:"session_id,omitempty"`

	Phase        string `json:"phase,omitempty"`
	Status       string `json:"status,omitempty"`
	Subject      string `json:"subject,omitempty"`
	ExerciseType string `json:"exercise_type,omitempty"`
	Specialist   string `json:"specialist,omitempty"`
	Level        string `json:"level,omitempty"`
	ItemsFound   *int   `json:"chunks_found,omitempty"`

	Text string `json:"text,omitempty"`

	Sources []string `json:"sources,omitempty"`
	Score   *float64 `json:"evaluation_score,omitempty"`

	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Stream runs the progressive variant of the pipeline and emits events
// on the returned channel. The channel is always closed, after either
// a done or an error event, or silently when the context is cancelled.
//
// The streamed path trades the requery loop for latency: the
// specialist answers in one streaming pass without tools, and the
// evaluation happens after the tokens are already out.
func (e *Engine) Stream(ctx context.Context, s state.Session) <-chan Event {
	events := make(chan Event, 16)

	go func() {
		defer close(events)

		emit := func(ev Event) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		e.logger.Printf("[STREAM] session=%s user=%s", s.SessionID, s.UserID)
		if !emit(Event{Type: EventStart, SessionID: s.SessionID}) {
			return
		}

		// Intake
		if !emit(Event{Type: EventPhase, Phase: "ocr", Status: "running"}) {
			return
		}
		s = s.Apply(e.stages[router.StageIntake].Run(ctx, s))
		if s.Err != "" {
			e.logger.Printf("[STREAM] session=%s ocr failed: %s", s.SessionID, s.Err)
			emit(Event{Type: EventError, Code: "OCR_FAILED", Message: "Impossible d'extraire l'énoncé. Vérifiez la qualité de la photo."})
			return
		}
		if !emit(Event{Type: EventPhase, Phase: "ocr", Status: "done", Subject: s.DetectedSubject, ExerciseType: s.ExerciseType}) {
			return
		}

		// Routing, no event of its own
		s = s.Apply(e.stages[router.StageOrchestrator].Run(ctx, s))

		// Retrieval
		if !emit(Event{Type: EventPhase, Phase: "rag", Status: "running"}) {
			return
		}
		s = s.Apply(e.stages[router.StageRetrieval].Run(ctx, s))
		itemsFound := s.ItemsFound
		if !emit(Event{Type: EventPhase, Phase: "rag", Status: "done", ItemsFound: &itemsFound}) {
			return
		}

		// Specialist, token by token
		tutor := specialist.ForSubject(router.SelectSubject(s))
		if !emit(Event{Type: EventPhase, Phase: "specialist", Status: "running", Specialist: string(s.RoutedSubject), Level: string(s.RoutedLevel)}) {
			return
		}

		e.logger.Printf("[STREAM] session=%s specialist=%s level=%s items=%d", s.SessionID, s.RoutedSubject, s.RoutedLevel, s.ItemsFound)
		fullResponse, err := tutor.RunStream(ctx, e.collab.Corrector, s, func(token string) {
			emit(Event{Type: EventToken, Text: token})
		}, e.correctorOptions...)
		if err != nil {
			e.logger.Printf("[STREAM] session=%s specialist failed: %v", s.SessionID, err)
			emit(Event{Type: EventError, Code: "SPECIALIST_FAILED", Message: err.Error()})
			return
		}
		s = s.Apply(state.Delta{Response: state.Ptr(fullResponse)})

		// Silent evaluation after the answer is out
		if !emit(Event{Type: EventPhase, Phase: "evaluating", Status: "running"}) {
			return
		}
		s = s.Apply(e.stages[router.StageEvaluator].Run(ctx, s))
		if !emit(Event{Type: EventPhase, Phase: "evaluating", Status: "done"}) {
			return
		}

		score := s.Score
		e.logger.Printf("[STREAM] session=%s done score=%.2f items=%d", s.SessionID, score, itemsFound)
		emit(Event{
			Type:       EventDone,
			SessionID:  s.SessionID,
			Sources:    node.SourceList(s.Items),
			ItemsFound: &itemsFound,
			Score:      &score,
			Specialist: string(s.RoutedSubject),
			Level:      string(s.RoutedLevel),
		})
	}()

	return events
}
