package chromatic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/tonal-analysis-go/chordparse"
	"github.com/Conceptual-Machines/tonal-analysis-go/keytheory"
	"github.com/Conceptual-Machines/tonal-analysis-go/pitch"
)

func parseAll(t *testing.T, symbols []string) []chordparse.Chord {
	t.Helper()
	chords := make([]chordparse.Chord, len(symbols))
	for i, s := range symbols {
		c, err := chordparse.Parse(s)
		require.NoError(t, err, s)
		chords[i] = c
	}
	return chords
}

func cMajor(t *testing.T) keytheory.Key {
	t.Helper()
	tonic, err := pitch.ParseNote("C")
	require.NoError(t, err)
	return keytheory.NewMajor(tonic)
}

func TestAnalyze_SecondaryDominantV7OfII(t *testing.T) {
	chords := parseAll(t, []string{"C", "A7", "Dm", "G7", "C"})
	facts, err := Analyze(context.Background(), chords, cMajor(t))
	require.NoError(t, err)
	require.Len(t, facts.SecondaryDominants, 1)
	assert.Equal(t, "V7/ii", facts.SecondaryDominants[0].Roman)
	assert.Equal(t, 2, facts.SecondaryDominants[0].TargetDegree)
}

func TestAnalyze_BorrowedChord(t *testing.T) {
	chords := parseAll(t, []string{"C", "Ab", "C"})
	facts, err := Analyze(context.Background(), chords, cMajor(t))
	require.NoError(t, err)
	require.Len(t, facts.BorrowedChords, 1)
	assert.True(t, facts.BorrowedChords[0].Flat)
}

func TestAnalyze_EmptyProgression(t *testing.T) {
	_, err := Analyze(context.Background(), nil, cMajor(t))
	assert.Error(t, err)
}
