package llm

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestBuildSummaryPromptShortInputUntouched(t *testing.T) {
	p := buildSummaryPrompt("short letter text")
	assert.Contains(t, p, "short letter text")
}

func TestBuildSummaryPromptTruncatesLongInput(t *testing.T) {
	long := strings.Repeat("a", summaryInputLimit+500)
	p := buildSummaryPrompt(long)
	assert.Contains(t, p, strings.Repeat("a", summaryInputLimit))
	assert.NotContains(t, p, strings.Repeat("a", summaryInputLimit+1))
}

func TestBuildSummaryPromptNeverSplitsRunes(t *testing.T) {
	// place a multi-byte rune straddling the cut point
	text := strings.Repeat("a", summaryInputLimit-1) + "é" + strings.Repeat("b", 100)
	p := buildSummaryPrompt(text)
	assert.True(t, utf8.ValidString(p))
	assert.NotContains(t, p, "�")
	// the straddling rune is dropped whole, not half-kept
	assert.NotContains(t, p, "é")
}

func TestBuildExtractionPromptEmbedsText(t *testing.T) {
	p := buildExtractionPrompt("--- PAGE 1 ---\nname: Ivan Sanchez")
	assert.Contains(t, p, "name: Ivan Sanchez")
	assert.Contains(t, p, "JSON Response:")
}
