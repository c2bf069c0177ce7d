// Package tonalengine is the documented front door of the tonal
// analysis engine (spec §6): the one primary entry point plus four
// convenience wrappers. Collaborators should only ever import this
// package — interpretation, suggestion, cache, and the analysis/*
// packages remain importable but are implementation detail, the same
// way magda-api only ever imports the top-level surface of
// magda-agents-go rather than reaching into agents/coordination
// directly.
package tonalengine

import (
	"context"
	"strings"

	"github.com/Conceptual-Machines/tonal-analysis-go/analysis/scale"
	"github.com/Conceptual-Machines/tonal-analysis-go/config"
	"github.com/Conceptual-Machines/tonal-analysis-go/errs"
	"github.com/Conceptual-Machines/tonal-analysis-go/interpretation"
	"github.com/Conceptual-Machines/tonal-analysis-go/keytheory"
	"github.com/Conceptual-Machines/tonal-analysis-go/pitch"
	"github.com/Conceptual-Machines/tonal-analysis-go/suggestion"
)

// Options is the request-scoped tuning struct from spec §6, re-exported
// here as the front door's public type.
type Options = interpretation.Options

// MultipleInterpretationResult is re-exported so callers of
// AnalyzeChordProgression never need to import the interpretation
// package directly.
type MultipleInterpretationResult = interpretation.MultipleInterpretationResult

// ScaleAnalysisResult is the result of AnalyzeScale.
type ScaleAnalysisResult = scale.Result

// MelodyAnalysisResult is the result of AnalyzeMelody.
type MelodyAnalysisResult = scale.MelodyResult

// ComprehensiveResult bundles the chord-progression analysis obtained
// from splitting a free-text progression string (spec §6
// analyze_comprehensively).
type ComprehensiveResult struct {
	interpretation.MultipleInterpretationResult
}

// Engine is the stateful front door: it owns the Interpretation
// Service's cache and metrics client so repeated calls share them.
type Engine struct {
	interp    *interpretation.Service
	suggester *suggestion.Engine
}

// New builds an Engine from process-wide configuration.
func New(cfg config.Config) *Engine {
	interp := interpretation.NewService(cfg)
	return &Engine{interp: interp, suggester: suggestion.NewEngine(interp)}
}

// NewDefault builds an Engine with config.Default().
func NewDefault() *Engine {
	return New(config.Default())
}

// AnalyzeChordProgression is the primary entry point (spec §6):
// analyze(chords, options) -> MultipleInterpretationResult.
func (e *Engine) AnalyzeChordProgression(ctx context.Context, chords []string, opts Options) (MultipleInterpretationResult, error) {
	return e.interp.Analyze(ctx, chords, opts)
}

// AnalyzeScale finds the parent scale(s) for a note collection and
// classifies the result (spec §6 analyze_scale). It takes no Options:
// no parent key or other request option is applied to scale analysis.
func (e *Engine) AnalyzeScale(ctx context.Context, notes []string) (ScaleAnalysisResult, error) {
	parsed, err := parseNotes(notes)
	if err != nil {
		return ScaleAnalysisResult{}, err
	}
	return scale.AnalyzeScale(ctx, parsed)
}

// AnalyzeMelody runs scale analysis plus tonic inference (spec §6
// analyze_melody). Unlike AnalyzeScale, note order matters.
func (e *Engine) AnalyzeMelody(ctx context.Context, notes []string) (MelodyAnalysisResult, error) {
	parsed, err := parseNotes(notes)
	if err != nil {
		return MelodyAnalysisResult{}, err
	}
	return scale.AnalyzeMelody(ctx, parsed)
}

// AnalyzeComprehensively splits a free-text progression string on
// whitespace and otherwise behaves like AnalyzeChordProgression (spec
// §6 analyze_comprehensively).
func (e *Engine) AnalyzeComprehensively(ctx context.Context, progressionInput string, parentKey string) (ComprehensiveResult, error) {
	chords := strings.Fields(progressionInput)
	result, err := e.interp.Analyze(ctx, chords, Options{ParentKey: parentKey})
	if err != nil {
		return ComprehensiveResult{}, err
	}
	return ComprehensiveResult{MultipleInterpretationResult: result}, nil
}

// SuggestKeys runs the Suggestion Engine (spec §6 suggest_keys).
// currentKey may be empty, meaning "no key supplied".
func (e *Engine) SuggestKeys(ctx context.Context, chords []string, currentKey string) ([]interpretation.Suggestion, error) {
	var key *keytheory.Key
	if currentKey != "" {
		k, err := keytheory.ParseKeyText(currentKey)
		if err != nil {
			return nil, errs.InvalidKey(currentKey)
		}
		key = &k
	}
	return e.suggester.Suggest(ctx, chords, key)
}

func parseNotes(tokens []string) ([]pitch.Note, error) {
	if len(tokens) == 0 {
		return nil, errs.EmptyProgression()
	}
	notes := make([]pitch.Note, len(tokens))
	for i, tok := range tokens {
		n, err := pitch.ParseNote(stripOctave(tok))
		if err != nil {
			return nil, errs.UnparsableNote(tok)
		}
		notes[i] = n
	}
	return notes, nil
}

// stripOctave drops an optional trailing octave digit from a note token
// (spec §6: "optional trailing octave number is accepted and ignored").
func stripOctave(tok string) string {
	i := len(tok)
	for i > 0 && tok[i-1] >= '0' && tok[i-1] <= '9' {
		i--
	}
	return tok[:i]
}
