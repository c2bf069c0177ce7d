package suggestion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/tonal-analysis-go/config"
	"github.com/Conceptual-Machines/tonal-analysis-go/interpretation"
	"github.com/Conceptual-Machines/tonal-analysis-go/keytheory"
	"github.com/Conceptual-Machines/tonal-analysis-go/pitch"
)

func newTestEngine() *Engine {
	return NewEngine(interpretation.NewService(config.Default()))
}

func TestSuggest_NoProvidedKeyReturnsOnlyAddKeySuggestions(t *testing.T) {
	e := newTestEngine()
	suggestions, err := e.Suggest(context.Background(), []string{"C", "G", "Am", "F"}, nil)
	require.NoError(t, err)
	for _, s := range suggestions {
		assert.Equal(t, interpretation.SuggestionAddKey, s.Kind)
		assert.GreaterOrEqual(t, s.Confidence, 0.55)
	}
}

func TestSuggest_SuggestionsNeverMixKinds(t *testing.T) {
	e := newTestEngine()
	key := keytheory.NewMajor(pitch.NoteFromClass(0, false))
	suggestions, err := e.Suggest(context.Background(), []string{"C", "G", "Am", "F"}, &key)
	require.NoError(t, err)

	kinds := map[interpretation.SuggestionKind]bool{}
	for _, s := range suggestions {
		kinds[s.Kind] = true
	}
	assert.LessOrEqual(t, len(kinds), 1, "suggestions must be mutually exclusive per request")
}
