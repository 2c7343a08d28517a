package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseExerciseResponse(t *testing.T) {
	raw := `MATIERE: Mathématiques
TYPE: Equation
ENONCE:
Résoudre l'équation suivante :
2x + 3 = 11`

	result := parseExerciseResponse(raw)

	assert.Equal(t, "Mathématiques", result.Subject)
	assert.Equal(t, "Equation", result.ExerciseType)
	assert.Equal(t, "Résoudre l'équation suivante :\n2x + 3 = 11", result.Statement)
	assert.Equal(t, raw, result.RawText)
}

func TestParseExerciseResponseDefaults(t *testing.T) {
	result := parseExerciseResponse("du texte sans balises")

	assert.Equal(t, "Inconnu", result.Subject)
	assert.Equal(t, "Exercice", result.ExerciseType)
	assert.Empty(t, result.Statement)
}

func TestParseExerciseResponseStatementOnly(t *testing.T) {
	result := parseExerciseResponse("ENONCE:\nCalculer 2 + 2")

	assert.Equal(t, "Inconnu", result.Subject)
	assert.Equal(t, "Calculer 2 + 2", result.Statement)
}

func TestParseCourseResponse(t *testing.T) {
	raw := `TITRE: Equations du premier degré
MATIERE: Mathématiques
NIVEAU: 5ème
CONTENU:
Une équation du premier degré se résout en isolant l'inconnue.
On soustrait puis on divise.
MOTS_CLES: équation, inconnue, premier degré`

	result := parseCourseResponse(raw)

	assert.Equal(t, "Equations du premier degré", result.Title)
	assert.Equal(t, "Mathématiques", result.Subject)
	assert.Equal(t, "5ème", result.Level)
	assert.Equal(t, "Une équation du premier degré se résout en isolant l'inconnue.\nOn soustrait puis on divise.", result.Content)
	assert.Equal(t, []string{"équation", "inconnue", "premier degré"}, result.Keywords)
}

func TestParseCourseResponseDefaults(t *testing.T) {
	result := parseCourseResponse("")

	assert.Equal(t, "Sans titre", result.Title)
	assert.Equal(t, "Inconnu", result.Subject)
	assert.Equal(t, "Inconnu", result.Level)
	assert.Empty(t, result.Content)
	assert.Empty(t, result.Keywords)
}

func TestParseCourseResponseKeywordsStopContent(t *testing.T) {
	raw := `CONTENU:
ligne un
MOTS_CLES: a, , b
ligne orpheline`

	result := parseCourseResponse(raw)

	// MOTS_CLES closes the content block; empty keywords are dropped.
	assert.Equal(t, "ligne un", result.Content)
	assert.Equal(t, []string{"a", "b"}, result.Keywords)
}
