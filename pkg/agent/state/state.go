package state

import (
	"github.com/google/uuid"
)

// ContextItem is one retrieved passage of course material with its
// relevance score. (CourseID, ChunkIndex) identifies an item uniquely.
type ContextItem struct {
	Content     string  `json:"content"`
	CourseTitle string  `json:"course_title"`
	Subject     string  `json:"subject"`
	Similarity  float64 `json:"similarity"`
	ChunkIndex  int     `json:"chunk_index"`
	CourseID    string  `json:"course_id"`
}

// Session is the state threaded through one correction pipeline run.
// It is owned by the engine for the lifetime of the request and never
// shared across runs; stages receive a copy and return a Delta.
type Session struct {
	// Identity
	SessionID string
	UserID    string

	// Inputs (filled by the API before entering the pipeline)
	ImageBytes      []byte
	StudentAnswer   string
	SubjectOverride string
	StreamEnabled   bool

	// Intake results
	Statement       string
	DetectedSubject string
	DetectedLevel   string
	ExerciseType    string

	// Routing
	RoutedSubject Subject
	RoutedLevel   Level

	// Retrieval
	RetrievalQuery  string
	Items           []ContextItem
	RetrievalRounds int

	// Specialist
	Response     string
	ToolCalls    []string
	PendingQuery string // non-empty when the specialist wants another retrieval round

	// Evaluation
	Score         float64
	Feedback      string
	NeedsRevision bool
	RevisionRounds int

	// Output
	FinalResponse  string
	Sources        []string
	ItemsFound     int
	SpecialistUsed string

	// Control — non-empty Err makes the pipeline terminal
	Err string
}

// NewSession builds the initial state with all fields at their defaults.
func NewSession(image []byte, userID, studentAnswer, subjectOverride string, streamEnabled bool) Session {
	return Session{
		SessionID:       uuid.NewString(),
		UserID:          userID,
		ImageBytes:      image,
		StudentAnswer:   studentAnswer,
		SubjectOverride: subjectOverride,
		StreamEnabled:   streamEnabled,
		ExerciseType:    "Exercice",
		RoutedSubject:   DefaultSubject,
		RoutedLevel:     DefaultLevel,
		Items:           []ContextItem{},
		ToolCalls:       []string{},
		Sources:         []string{},
	}
}

// Delta is a partial state update returned by a stage. Only non-nil
// fields are merged, last-write-wins per field; slices replace wholesale.
type Delta struct {
	Statement       *string
	DetectedSubject *string
	DetectedLevel   *string
	ExerciseType    *string

	RoutedSubject *Subject
	RoutedLevel   *Level

	RetrievalQuery  *string
	Items           *[]ContextItem
	RetrievalRounds *int

	Response     *string
	ToolCalls    *[]string
	PendingQuery *string

	Score          *float64
	Feedback       *string
	NeedsRevision  *bool
	RevisionRounds *int

	FinalResponse  *string
	Sources        *[]string
	ItemsFound     *int
	SpecialistUsed *string

	Err *string
}

// Ptr is a convenience for building Delta literals.
func Ptr[T any](v T) *T { return &v }

// Apply merges a Delta into a copy of the session. The receiver is not
// mutated; stages can therefore never alias each other's state.
func (s Session) Apply(d Delta) Session {
	if d.Statement != nil {
		s.Statement = *d.Statement
	}
	if d.DetectedSubject != nil {
		s.DetectedSubject = *d.DetectedSubject
	}
	if d.DetectedLevel != nil {
		s.DetectedLevel = *d.DetectedLevel
	}
	if d.ExerciseType != nil {
		s.ExerciseType = *d.ExerciseType
	}
	if d.RoutedSubject != nil {
		s.RoutedSubject = *d.RoutedSubject
	}
	if d.RoutedLevel != nil {
		s.RoutedLevel = *d.RoutedLevel
	}
	if d.RetrievalQuery != nil {
		s.RetrievalQuery = *d.RetrievalQuery
	}
	if d.Items != nil {
		s.Items = *d.Items
	}
	if d.RetrievalRounds != nil {
		s.RetrievalRounds = *d.RetrievalRounds
	}
	if d.Response != nil {
		s.Response = *d.Response
	}
	if d.ToolCalls != nil {
		s.ToolCalls = *d.ToolCalls
	}
	if d.PendingQuery != nil {
		s.PendingQuery = *d.PendingQuery
	}
	if d.Score != nil {
		s.Score = *d.Score
	}
	if d.Feedback != nil {
		s.Feedback = *d.Feedback
	}
	if d.NeedsRevision != nil {
		s.NeedsRevision = *d.NeedsRevision
	}
	if d.RevisionRounds != nil {
		s.RevisionRounds = *d.RevisionRounds
	}
	if d.FinalResponse != nil {
		s.FinalResponse = *d.FinalResponse
	}
	if d.Sources != nil {
		s.Sources = *d.Sources
	}
	if d.ItemsFound != nil {
		s.ItemsFound = *d.ItemsFound
	}
	if d.SpecialistUsed != nil {
		s.SpecialistUsed = *d.SpecialistUsed
	}
	if d.Err != nil {
		s.Err = *d.Err
	}
	return s
}
