// Package suggestion implements the Suggestion Engine (component H):
// it runs the Interpretation Service three ways — with the caller's
// key, with no key, and with each of the closest related candidate
// keys — and scores whether a different key choice would improve the
// analysis. It never duplicates interpretation.Service's internals; it
// treats Analyze as a black box, the same way the teacher's
// orchestrator treats its agents as black boxes (spec §4.H).
package suggestion

import (
	"context"
	"fmt"
	"sync"

	"github.com/Conceptual-Machines/tonal-analysis-go/interpretation"
	"github.com/Conceptual-Machines/tonal-analysis-go/keytheory"
)

// addKeyThreshold, changeKeyMargin, and suggestionMinConf back the
// decision table in spec §4.H.
const (
	addKeyThreshold    = 0.55
	changeKeyMargin    = 0.15
	suggestionMinConf  = 0.55
)

// Engine runs the suggestion pipeline over an interpretation.Service.
type Engine struct {
	interp *interpretation.Service
}

// NewEngine builds a suggestion Engine backed by the given
// Interpretation Service.
func NewEngine(interp *interpretation.Service) *Engine {
	return &Engine{interp: interp}
}

// candidateRun pairs a candidate key (nil means "no key") with the
// interpretation result obtained by analyzing with that key.
type candidateRun struct {
	key    *keytheory.Key
	result interpretation.MultipleInterpretationResult
	err    error
}

// Suggest implements spec §4.H's contract: suggest(chords, provided_key)
// -> Suggestions.
func (e *Engine) Suggest(ctx context.Context, symbols []string, providedKey *keytheory.Key) ([]interpretation.Suggestion, error) {
	var opts interpretation.Options
	if providedKey != nil {
		opts.ParentKey = providedKey.String()
	}

	runA, errA := e.interp.Analyze(ctx, symbols, opts)
	if providedKey == nil {
		// No key supplied: the only meaningful comparison is against
		// each related candidate, so A itself is the no-key baseline.
		return e.suggestAddKey(ctx, symbols, runA, errA)
	}
	if errA != nil {
		return nil, errA
	}

	runB, errB := e.interp.Analyze(ctx, symbols, interpretation.Options{})
	if errB != nil {
		return nil, errB
	}

	scoreA := keyRelevanceScore(nil, runA)
	scoreB := keyRelevanceScore(nil, runB)
	if scoreB > scoreA {
		return []interpretation.Suggestion{{
			Kind:               interpretation.SuggestionRemoveKey,
			Reason:             "the progression analyzes more clearly without a supplied parent key",
			Confidence:         renormalize(scoreB),
			ImprovementSummary: fmt.Sprintf("confidence without a key: %.2f vs %.2f with %s", runB.Primary.Confidence, runA.Primary.Confidence, providedKey),
		}}, nil
	}

	candidates := closestRelatedKeys(*providedKey)
	runs := e.analyzeCandidates(ctx, symbols, candidates)

	var best *candidateRun
	bestScore := 0.0
	for i := range runs {
		if runs[i].err != nil {
			continue
		}
		s := keyRelevanceScore(nil, runs[i].result)
		if best == nil || s > bestScore {
			best = &runs[i]
			bestScore = s
		}
	}

	if best != nil && bestScore > scoreA+changeKeyMargin {
		conf := renormalize(bestScore)
		if conf >= suggestionMinConf {
			return []interpretation.Suggestion{{
				Kind:               interpretation.SuggestionChangeKey,
				Key:                best.key,
				Reason:             fmt.Sprintf("%s analyzes more clearly than %s", best.key, providedKey),
				Confidence:         conf,
				ImprovementSummary: fmt.Sprintf("confidence %.2f vs %.2f", best.result.Primary.Confidence, runA.Primary.Confidence),
			}}, nil
		}
	}

	return nil, nil
}

// suggestAddKey handles the no-provided-key branch of the decision
// table: emit an add_key suggestion for every candidate whose score
// clears addKeyThreshold.
func (e *Engine) suggestAddKey(ctx context.Context, symbols []string, baseline interpretation.MultipleInterpretationResult, baselineErr error) ([]interpretation.Suggestion, error) {
	if baselineErr != nil {
		return nil, baselineErr
	}

	candidates := allTwelveMajorMinor()
	runs := e.analyzeCandidates(ctx, symbols, candidates)

	var suggestions []interpretation.Suggestion
	for _, run := range runs {
		if run.err != nil {
			continue
		}
		score := keyRelevanceScore(nil, run.result)
		if score <= addKeyThreshold {
			continue
		}
		conf := renormalize(score)
		if conf < suggestionMinConf {
			continue
		}
		suggestions = append(suggestions, interpretation.Suggestion{
			Kind:               interpretation.SuggestionAddKey,
			Key:                run.key,
			Reason:             fmt.Sprintf("the progression reads clearly in %s", run.key),
			Confidence:         conf,
			ImprovementSummary: fmt.Sprintf("confidence %.2f with a supplied key vs %.2f without", run.result.Primary.Confidence, baseline.Primary.Confidence),
		})
	}
	return suggestions, nil
}

// analyzeCandidates dispatches one interpretation.Service.Analyze per
// candidate key concurrently, mirroring the WaitGroup fan-out used for
// the three analyzers in interpretation.Service.dispatchAnalyzers.
func (e *Engine) analyzeCandidates(ctx context.Context, symbols []string, candidates []keytheory.Key) []candidateRun {
	runs := make([]candidateRun, len(candidates))
	var wg sync.WaitGroup
	wg.Add(len(candidates))
	for i := range candidates {
		i := i
		k := candidates[i]
		go func() {
			defer wg.Done()
			result, err := e.interp.Analyze(ctx, symbols, interpretation.Options{ParentKey: k.String()})
			runs[i] = candidateRun{key: &k, result: result, err: err}
		}()
	}
	wg.Wait()
	return runs
}

// keyRelevanceScore implements spec §4.H's weighted score. The
// "previous" result is currently unused (reserved for a future A/B
// comparison mode) — the present decision table only ever needs the
// absolute score of a single run.
func keyRelevanceScore(_ *interpretation.MultipleInterpretationResult, run interpretation.MultipleInterpretationResult) float64 {
	romanNumeralAvailable := 0.0
	if len(run.Primary.RomanNumerals) > 0 {
		romanNumeralAvailable = 1.0
	}

	confidenceImprovement := clamp01(run.Primary.Confidence)

	analysisTypeImprovement := 0.0
	if run.Primary.Type == interpretation.TypeFunctional {
		analysisTypeImprovement = 1.0
	}

	patternClarity := 0.0
	for _, e := range run.Primary.Evidence {
		if e.Description != "" && e.Strength >= 0.95 {
			patternClarity = 1.0
			break
		}
	}

	return 0.3*romanNumeralAvailable + 0.2*confidenceImprovement + 0.2*analysisTypeImprovement + 0.3*patternClarity
}

// renormalize maps a 0-1 key-relevance score into [0.55, 1.0], the
// suggestion's own confidence (spec §4.H).
func renormalize(score float64) float64 {
	return 0.55 + clamp01(score)*0.45
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
