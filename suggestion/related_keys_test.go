package suggestion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Conceptual-Machines/tonal-analysis-go/keytheory"
	"github.com/Conceptual-Machines/tonal-analysis-go/pitch"
)

func TestClosestRelatedKeys_CMajorIncludesExpectedNeighbors(t *testing.T) {
	c := keytheory.NewMajor(pitch.NoteFromClass(0, false))
	related := closestRelatedKeys(c)

	texts := make(map[string]bool, len(related))
	for _, k := range related {
		texts[k.String()] = true
	}

	assert.True(t, texts["G major"], "fifth up")
	assert.True(t, texts["F major"], "fifth down")
	assert.True(t, texts["A minor"], "relative minor")
	assert.True(t, texts["C minor"], "parallel minor")
	assert.LessOrEqual(t, len(related), 6)
}

func TestClosestRelatedKeys_NeverIncludesSelf(t *testing.T) {
	c := keytheory.NewMajor(pitch.NoteFromClass(0, false))
	for _, k := range closestRelatedKeys(c) {
		assert.NotEqual(t, c.String(), k.String())
	}
}

func TestAllTwelveMajorMinor_Has24Keys(t *testing.T) {
	assert.Len(t, allTwelveMajorMinor(), 24)
}
