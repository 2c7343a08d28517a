package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTextShortInputIsOneChunk(t *testing.T) {
	chunks := SplitText("court", 100, 10)
	assert.Equal(t, []string{"court"}, chunks)
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("a", 10) + strings.Repeat("b", 10) + strings.Repeat("c", 10)
	chunks := SplitText(text, 20, 10)

	assert.Equal(t, []string{
		strings.Repeat("a", 10) + strings.Repeat("b", 10),
		strings.Repeat("b", 10) + strings.Repeat("c", 10),
	}, chunks)
}

func TestSplitTextCoversWholeInput(t *testing.T) {
	text := strings.Repeat("x", 2500)
	chunks := SplitText(text, 800, 100)

	// Last chunk ends exactly at the input's end.
	last := chunks[len(chunks)-1]
	assert.True(t, strings.HasSuffix(text, last))

	// Reassembling without the overlaps yields the original.
	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for _, chunk := range chunks[1:] {
		rebuilt.WriteString(chunk[100:])
	}
	assert.Equal(t, text, rebuilt.String())
}

func TestSplitTextDegenerateOverlap(t *testing.T) {
	text := strings.Repeat("x", 50)
	// overlap >= chunkSize must not loop forever.
	chunks := SplitText(text, 10, 10)
	assert.Equal(t, 5, len(chunks))
}

func TestSplitTextMultibyteRunes(t *testing.T) {
	text := strings.Repeat("é", 30)
	chunks := SplitText(text, 10, 0)

	for _, chunk := range chunks {
		assert.Equal(t, 10, len([]rune(chunk)))
	}
}
