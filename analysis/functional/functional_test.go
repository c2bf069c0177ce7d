package functional

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/tonal-analysis-go/chordparse"
	"github.com/Conceptual-Machines/tonal-analysis-go/theory"
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

func TestAnalyze_EmptyProgression(t *testing.T) {
	_, err := Analyze(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestAnalyze_IVVI_AuthenticCadence(t *testing.T) {
	chords := parseAll(t, []string{"C", "F", "G", "C"})
	facts, err := Analyze(context.Background(), chords, nil)
	require.NoError(t, err)
	assert.Equal(t, "C", facts.Key.Tonic.String())
	require.Len(t, facts.Cadences, 1)
	assert.Equal(t, theory.CadenceAuthentic, facts.Cadences[0].Type)
	assert.InDelta(t, 1.0, facts.DiatonicFraction, 0.001)
}

func TestAnalyze_IIVI_StrongPattern(t *testing.T) {
	chords := parseAll(t, []string{"Dm", "G", "C"})
	facts, err := Analyze(context.Background(), chords, nil)
	require.NoError(t, err)
	require.Len(t, facts.Cadences, 1)
	assert.Equal(t, theory.CadenceAuthentic, facts.Cadences[0].Type)
	assert.Equal(t, "ii-V-I", facts.MatchesPattern)
}

func TestAnalyze_PlagalCadence(t *testing.T) {
	chords := parseAll(t, []string{"C", "F", "C"})
	facts, err := Analyze(context.Background(), chords, nil)
	require.NoError(t, err)
	require.Len(t, facts.Cadences, 1)
	assert.Equal(t, theory.CadencePlagal, facts.Cadences[0].Type)
}

func TestAnalyze_AllIdenticalChords_NoCadence(t *testing.T) {
	chords := parseAll(t, []string{"C", "C", "C", "C"})
	facts, err := Analyze(context.Background(), chords, nil)
	require.NoError(t, err)
	assert.Empty(t, facts.Cadences)
}
