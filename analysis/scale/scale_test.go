package scale

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/tonal-analysis-go/analysis/modal"
	"github.com/Conceptual-Machines/tonal-analysis-go/pitch"
)

func notesOf(t *testing.T, tokens []string) []pitch.Note {
	t.Helper()
	notes := make([]pitch.Note, len(tokens))
	for i, tok := range tokens {
		n, err := pitch.ParseNote(tok)
		require.NoError(t, err, tok)
		notes[i] = n
	}
	return notes
}

func TestAnalyzeScale_CMajorIsDiatonic(t *testing.T) {
	notes := notesOf(t, []string{"C", "D", "E", "F", "G", "A", "B"})
	result, err := AnalyzeScale(context.Background(), notes)
	require.NoError(t, err)
	assert.Equal(t, modal.ClassificationDiatonic, result.Classification)
	require.Len(t, result.ParentScales, 1)
}

func TestAnalyzeScale_SubsetMatchesMultipleParents(t *testing.T) {
	notes := notesOf(t, []string{"C", "D", "E"})
	result, err := AnalyzeScale(context.Background(), notes)
	require.NoError(t, err)
	assert.Equal(t, modal.ClassificationModalBorrowing, result.Classification)
	assert.Greater(t, len(result.ParentScales), 1)
}

func TestAnalyzeScale_EmptyInput(t *testing.T) {
	_, err := AnalyzeScale(context.Background(), nil)
	assert.Error(t, err)
}

func TestAnalyzeMelody_LastNoteWeightedHeavily(t *testing.T) {
	notes := notesOf(t, []string{"D", "E", "F", "G", "C"})
	result, err := AnalyzeMelody(context.Background(), notes)
	require.NoError(t, err)
	require.NotNil(t, result.SuggestedTonic)
	assert.Equal(t, "C", result.SuggestedTonic.String())
	assert.GreaterOrEqual(t, result.TonicConfidence, 0.0)
	assert.LessOrEqual(t, result.TonicConfidence, 1.0)
}
