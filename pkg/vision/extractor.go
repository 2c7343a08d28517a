package vision

import (
	"context"
	"strings"

	"github.com/Unshaft/StudyBuddy/pkg/llm"
)

// ExerciseExtraction is the structured result of reading an exercise
// photo: the subject label is free-form here, routing normalizes it.
type ExerciseExtraction struct {
	Subject      string
	ExerciseType string
	Statement    string
	RawText      string
}

// CourseExtraction is the structured result of reading a course page.
type CourseExtraction struct {
	Title    string
	Subject  string
	Level    string
	Content  string
	Keywords []string
	RawText  string
}

// Extractor turns an image into structured pedagogy content.
type Extractor interface {
	ExtractExercise(ctx context.Context, image []byte) (*ExerciseExtraction, error)
	ExtractCourse(ctx context.Context, image []byte) (*CourseExtraction, error)
}

type visionExtractor struct {
	provider llm.VisionProvider
}

func NewExtractor(provider llm.VisionProvider) Extractor {
	return &visionExtractor{provider: provider}
}

func (e *visionExtractor) ExtractExercise(ctx context.Context, image []byte) (*ExerciseExtraction, error) {
	raw, err := e.provider.CompleteVision(ctx, exerciseExtractionPrompt, image, llm.WithMaxTokens(2048))
	if err != nil {
		return nil, err
	}
	return parseExerciseResponse(raw), nil
}

func (e *visionExtractor) ExtractCourse(ctx context.Context, image []byte) (*CourseExtraction, error) {
	raw, err := e.provider.CompleteVision(ctx, courseExtractionPrompt, image, llm.WithMaxTokens(4096))
	if err != nil {
		return nil, err
	}
	return parseCourseResponse(raw), nil
}

// parseExerciseResponse reads the line-tagged model output. Unknown
// fields keep safe defaults so a sloppy model answer still yields a
// usable extraction.
func parseExerciseResponse(text string) *ExerciseExtraction {
	result := &ExerciseExtraction{
		Subject:      "Inconnu",
		ExerciseType: "Exercice",
		RawText:      text,
	}

	var statementLines []string
	inStatement := false

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		switch {
		case strings.HasPrefix(line, "MATIERE:"):
			result.Subject = strings.TrimSpace(strings.TrimPrefix(line, "MATIERE:"))
		case strings.HasPrefix(line, "TYPE:"):
			result.ExerciseType = strings.TrimSpace(strings.TrimPrefix(line, "TYPE:"))
		case strings.HasPrefix(line, "ENONCE:"):
			inStatement = true
		case inStatement:
			statementLines = append(statementLines, line)
		}
	}

	result.Statement = strings.TrimSpace(strings.Join(statementLines, "\n"))
	return result
}

func parseCourseResponse(text string) *CourseExtraction {
	result := &CourseExtraction{
		Title:   "Sans titre",
		Subject: "Inconnu",
		Level:   "Inconnu",
		RawText: text,
	}

	var contentLines []string
	inContent := false

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		switch {
		case strings.HasPrefix(line, "TITRE:"):
			result.Title = strings.TrimSpace(strings.TrimPrefix(line, "TITRE:"))
		case strings.HasPrefix(line, "MATIERE:"):
			result.Subject = strings.TrimSpace(strings.TrimPrefix(line, "MATIERE:"))
		case strings.HasPrefix(line, "NIVEAU:"):
			result.Level = strings.TrimSpace(strings.TrimPrefix(line, "NIVEAU:"))
		case strings.HasPrefix(line, "MOTS_CLES:"):
			inContent = false
			for _, keyword := range strings.Split(strings.TrimSpace(strings.TrimPrefix(line, "MOTS_CLES:")), ",") {
				if trimmed := strings.TrimSpace(keyword); trimmed != "" {
					result.Keywords = append(result.Keywords, trimmed)
				}
			}
		case strings.HasPrefix(line, "CONTENU:"):
			inContent = true
		case inContent:
			contentLines = append(contentLines, line)
		}
	}

	result.Content = strings.TrimSpace(strings.Join(contentLines, "\n"))
	return result
}
