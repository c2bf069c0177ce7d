package chordparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/tonal-analysis-go/theory"
)

func TestParse_BareRootIsMajor(t *testing.T) {
	c, err := Parse("C")
	require.NoError(t, err)
	assert.Equal(t, theory.QualityMajor, c.Quality)
	assert.Equal(t, theory.SeventhNone, c.Seventh)
}

func TestParse_LowercaseRootRejected(t *testing.T) {
	_, err := Parse("c")
	assert.Error(t, err)
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := Parse("   ")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestParse_MajMinTieBreak(t *testing.T) {
	maj, err := Parse("Cmaj7")
	require.NoError(t, err)
	assert.Equal(t, theory.QualityMajor, maj.Quality)
	assert.Equal(t, theory.SeventhMajor, maj.Seventh)

	min, err := Parse("Cm7")
	require.NoError(t, err)
	assert.Equal(t, theory.QualityMinor, min.Quality)
	assert.Equal(t, theory.SeventhMinor, min.Seventh)
}

func TestParse_SusBeatsBareSuffix(t *testing.T) {
	c, err := Parse("Csus4")
	require.NoError(t, err)
	assert.Equal(t, theory.QualitySus4, c.Quality)
	assert.Equal(t, theory.SeventhNone, c.Seventh)
}

func TestParse_DominantSeventhSus(t *testing.T) {
	c, err := Parse("G7sus4")
	require.NoError(t, err)
	assert.Equal(t, "G", c.Root.String())
	assert.Equal(t, theory.QualitySus4, c.Quality)
	assert.Equal(t, theory.SeventhMinor, c.Seventh)
}

func TestParse_DiminishedAndHalfDiminished(t *testing.T) {
	dim, err := Parse("Bdim7")
	require.NoError(t, err)
	assert.Equal(t, theory.QualityDiminished, dim.Quality)
	assert.Equal(t, theory.SeventhDiminished, dim.Seventh)

	halfDim, err := Parse("Bm7b5")
	require.NoError(t, err)
	assert.Equal(t, theory.QualityDiminished, halfDim.Quality)
	assert.Equal(t, theory.SeventhHalfDiminished, halfDim.Seventh)

	symbolForm, err := Parse("Bø7")
	require.NoError(t, err)
	assert.Equal(t, halfDim.Quality, symbolForm.Quality)
	assert.Equal(t, halfDim.Seventh, symbolForm.Seventh)
}

func TestParse_SlashBassNormalizedWhenEqualToRoot(t *testing.T) {
	c, err := Parse("C/C")
	require.NoError(t, err)
	assert.Nil(t, c.Bass)
}

func TestParse_SlashBassKeptWhenDifferent(t *testing.T) {
	c, err := Parse("F#m7b5/A")
	require.NoError(t, err)
	require.NotNil(t, c.Bass)
	assert.Equal(t, byte('A'), c.Bass.Letter)
}

func TestParse_ExtensionsImplySeventh(t *testing.T) {
	c, err := Parse("C9")
	require.NoError(t, err)
	assert.Equal(t, theory.SeventhMinor, c.Seventh)
	assert.Contains(t, c.Extensions, Ext9)
}

func TestParse_AlterationsAndExtensions(t *testing.T) {
	c, err := Parse("C7b9#11")
	require.NoError(t, err)
	assert.Equal(t, theory.SeventhMinor, c.Seventh)
	require.Len(t, c.Alterations, 2)
}

func TestParse_TrailingGarbageIsInvalid(t *testing.T) {
	_, err := Parse("Cxyz")
	require.Error(t, err)
	var invalidErr *InvalidChordError
	assert.ErrorAs(t, err, &invalidErr)
}

func TestParse_RoundTripsThroughString(t *testing.T) {
	cases := []string{"C", "Cm7", "Cmaj7", "G7sus4", "Bdim7", "Bm7b5", "F#m7"}
	for _, sym := range cases {
		c, err := Parse(sym)
		require.NoError(t, err, sym)
		again, err := Parse(c.String())
		require.NoError(t, err, c.String())
		assert.Equal(t, c.PitchClasses(), again.PitchClasses(), sym)
	}
}

func TestChord_PitchClasses_Cmaj7(t *testing.T) {
	c, err := Parse("Cmaj7")
	require.NoError(t, err)
	set := c.PitchClasses()
	assert.True(t, set.Contains(0))  // C
	assert.True(t, set.Contains(4))  // E
	assert.True(t, set.Contains(7))  // G
	assert.True(t, set.Contains(11)) // B
}
