package tonalengine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeChordProgression_Basic(t *testing.T) {
	e := NewDefault()
	result, err := e.AnalyzeChordProgression(context.Background(), []string{"Dm", "G", "C"}, Options{})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Primary.Summary)
}

func TestAnalyzeComprehensively_SplitsOnWhitespace(t *testing.T) {
	e := NewDefault()
	result, err := e.AnalyzeComprehensively(context.Background(), "  Dm   G C ", "")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Primary.Summary)
}

func TestAnalyzeScale_StripsOctaveDigits(t *testing.T) {
	e := NewDefault()
	result, err := e.AnalyzeScale(context.Background(), []string{"C4", "D4", "E4", "F4", "G4", "A4", "B4"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.ParentScales)
}

func TestAnalyzeMelody_ReturnsTonic(t *testing.T) {
	e := NewDefault()
	result, err := e.AnalyzeMelody(context.Background(), []string{"D", "E", "F", "G", "C"})
	require.NoError(t, err)
	require.NotNil(t, result.SuggestedTonic)
}

func TestSuggestKeys_NoCurrentKey(t *testing.T) {
	e := NewDefault()
	_, err := e.SuggestKeys(context.Background(), []string{"C", "G", "Am", "F"}, "")
	require.NoError(t, err)
}

func TestSuggestKeys_InvalidCurrentKey(t *testing.T) {
	e := NewDefault()
	_, err := e.SuggestKeys(context.Background(), []string{"C", "G"}, "???")
	assert.Error(t, err)
}
