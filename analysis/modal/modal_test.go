package modal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/tonal-analysis-go/chordparse"
	"github.com/Conceptual-Machines/tonal-analysis-go/keytheory"
	"github.com/Conceptual-Machines/tonal-analysis-go/pitch"
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

func TestAnalyze_GMixolydianOverC(t *testing.T) {
	chords := parseAll(t, []string{"G", "F", "C", "G"})
	cMajorTonic, err := pitch.ParseNote("C")
	require.NoError(t, err)
	parentKey := keytheory.NewMajor(cMajorTonic)

	facts, err := Analyze(context.Background(), chords, &parentKey)
	require.NoError(t, err)

	assert.Equal(t, "G", facts.LocalTonic.String())
	assert.Equal(t, theory.Mixolydian, facts.Mode)
	assert.Equal(t, ClassificationModalBorrowing, facts.Classification)
	assert.Equal(t, RelationshipMatches, facts.Relationship)
	assert.NotEmpty(t, facts.CharacteristicChords)
}

func TestAnalyze_ConflictingParentKeyIsHonest(t *testing.T) {
	chords := parseAll(t, []string{"G", "F", "C", "G"})
	dMajorTonic, err := pitch.ParseNote("D")
	require.NoError(t, err)
	parentKey := keytheory.NewMajor(dMajorTonic)

	facts, err := Analyze(context.Background(), chords, &parentKey)
	require.NoError(t, err)
	assert.Equal(t, RelationshipConflicts, facts.Relationship)
	assert.Equal(t, dMajorTonic.Class, facts.ParentKey.Tonic.Class)
}

func TestAnalyze_EmptyProgression(t *testing.T) {
	_, err := Analyze(context.Background(), nil, nil)
	assert.Error(t, err)
}
