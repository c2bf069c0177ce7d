package interpretation

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Conceptual-Machines/tonal-analysis-go/analysis/chromatic"
	"github.com/Conceptual-Machines/tonal-analysis-go/analysis/functional"
	"github.com/Conceptual-Machines/tonal-analysis-go/analysis/modal"
	"github.com/Conceptual-Machines/tonal-analysis-go/cache"
	"github.com/Conceptual-Machines/tonal-analysis-go/chordparse"
	"github.com/Conceptual-Machines/tonal-analysis-go/config"
	"github.com/Conceptual-Machines/tonal-analysis-go/errs"
	"github.com/Conceptual-Machines/tonal-analysis-go/keytheory"
	"github.com/Conceptual-Machines/tonal-analysis-go/metrics"
)

// Service is the Interpretation Service (component G): the single entry
// point that turns a chord progression into ranked interpretations. It
// holds the shared cache and metrics client the way the teacher's
// orchestrator held its LLM clients (agents/coordination/orchestrator.go).
type Service struct {
	cache   *cache.Cache
	metrics *metrics.SentryMetrics
	cfg     config.Config
}

// NewService builds a Service from process-wide configuration.
func NewService(cfg config.Config) *Service {
	return &Service{
		cache:   cache.New(cfg.CacheCapacity, cfg.CacheTTL),
		metrics: metrics.NewSentryMetrics(cfg.SentryEnabled),
		cfg:     cfg,
	}
}

// analyzerOutcome carries one analyzer's result or error back from its
// goroutine (grounded on the WaitGroup fan-out in
// agents/coordination/orchestrator.go's GenerateActions).
type analyzerOutcome struct {
	functionalFacts functional.Facts
	functionalErr   error
	modalFacts      modal.Facts
	modalErr        error
	chromaticFacts  chromatic.Facts
	chromaticErr    error
}

// Analyze runs the full pipeline described in spec §4.G.1: cache check,
// chord parsing, up-front key determination, concurrent analyzer
// dispatch, evidence collection, confidence calibration, and
// ranking/filtering.
func (s *Service) Analyze(ctx context.Context, symbols []string, opts Options) (MultipleInterpretationResult, error) {
	start := time.Now()
	traceID := metrics.NewTraceID()

	if len(symbols) == 0 {
		return MultipleInterpretationResult{}, errs.EmptyProgression()
	}

	chords := make([]chordparse.Chord, len(symbols))
	normalized := make([]string, len(symbols))
	for i, sym := range symbols {
		c, err := chordparse.Parse(sym)
		if err != nil {
			return MultipleInterpretationResult{}, errs.UnparsableChord(sym, i)
		}
		chords[i] = c
		normalized[i] = c.String()
	}

	var parentKey *keytheory.Key
	if opts.ParentKey != "" {
		k, err := keytheory.ParseKeyText(opts.ParentKey)
		if err != nil {
			return MultipleInterpretationResult{}, errs.InvalidKey(opts.ParentKey)
		}
		parentKey = &k
	}

	fp := cache.Fingerprint(normalized, opts.ParentKey, string(opts.effectiveLevel()), opts.effectiveThreshold(), opts.effectiveMaxAlternatives())
	if cached, ok := s.cache.Get(fp); ok {
		result := cached.(MultipleInterpretationResult)
		s.metrics.RecordCacheEvent(ctx, true)
		s.metrics.RecordAnalysis(ctx, traceID, len(result.Alternatives)+1, result.Primary.Confidence, true, time.Since(start))
		return result, nil
	}
	s.metrics.RecordCacheEvent(ctx, false)

	// Chromatic analysis requires a concrete key even when the caller
	// supplied none; functional/modal still get the caller's (possibly
	// nil) parentKey and may independently re-infer, per §4.C/§4.D's own
	// contracts.
	sharedKey := parentKey
	if sharedKey == nil {
		k := functional.InferKey(chords)
		sharedKey = &k
	}

	outcome := s.dispatchAnalyzers(ctx, chords, parentKey, *sharedKey)
	if ctx.Err() != nil {
		return MultipleInterpretationResult{}, ctx.Err()
	}

	interpretations := s.buildInterpretations(outcome)
	primary, alternatives := rankAndFilter(interpretations, opts)

	result := MultipleInterpretationResult{
		Input: InputSummary{
			Chords:    normalized,
			ParentKey: opts.ParentKey,
			Options:   opts,
		},
		Primary:      primary,
		Alternatives: alternatives,
		Metadata: Metadata{
			AnalysisDuration: time.Since(start),
			CountConsidered:  len(interpretations),
			ThresholdUsed:    opts.effectiveThreshold(),
			PedagogicalLevel: opts.effectiveLevel(),
		},
	}

	s.cache.Set(fp, result)
	s.metrics.RecordAnalysis(ctx, traceID, len(result.Alternatives)+1, result.Primary.Confidence, false, result.Metadata.AnalysisDuration)
	return result, nil
}

// dispatchAnalyzers runs functional, modal, and chromatic concurrently
// and merges their results tolerantly: one analyzer's error does not
// abort the others (spec §4.G.6), mirroring
// agents/coordination/orchestrator.go's GenerateActions fan-out.
func (s *Service) dispatchAnalyzers(ctx context.Context, chords []chordparse.Chord, parentKey *keytheory.Key, sharedKey keytheory.Key) analyzerOutcome {
	var wg sync.WaitGroup
	var out analyzerOutcome

	wg.Add(3)
	go func() {
		defer wg.Done()
		out.functionalFacts, out.functionalErr = functional.Analyze(ctx, chords, parentKey)
	}()
	go func() {
		defer wg.Done()
		out.modalFacts, out.modalErr = modal.Analyze(ctx, chords, parentKey)
	}()
	go func() {
		defer wg.Done()
		out.chromaticFacts, out.chromaticErr = chromatic.Analyze(ctx, chords, sharedKey)
	}()
	wg.Wait()

	return out
}

// buildInterpretations turns each analyzer's Facts (or tolerated error)
// into a single Interpretation with its own Evidence and calibrated
// confidence (spec §4.G.2, §4.G.3). This is the one place Evidence gets
// constructed, per the "facts not evidence" split (spec §9).
func (s *Service) buildInterpretations(out analyzerOutcome) []Interpretation {
	var results []Interpretation

	if out.functionalErr == nil {
		results = append(results, interpretationFromFunctional(out.functionalFacts))
	} else if !isEmptyProgressionErr(out.functionalErr) {
		results = append(results, degradedInterpretation(TypeFunctional))
	}

	if out.modalErr == nil {
		results = append(results, interpretationFromModal(out.modalFacts))
	} else if !isEmptyProgressionErr(out.modalErr) {
		results = append(results, degradedInterpretation(TypeModal))
	}

	if out.chromaticErr == nil {
		if interp, ok := interpretationFromChromatic(out.chromaticFacts, out.functionalFacts); ok {
			results = append(results, interp)
		}
	}

	sub := subConfidencesOf(results)
	for i := range results {
		results[i].SubConfidences = sub
	}

	return results
}

// subConfidencesOf builds the per-lens confidence breakdown (spec §3.1)
// from whichever lenses actually produced an interpretation; a lens
// that found nothing to report (chromatic, most often) reads 0.0 rather
// than being omitted, since every Interpretation carries the same
// three-way breakdown regardless of which lens it came from.
func subConfidencesOf(results []Interpretation) SubConfidences {
	var sub SubConfidences
	for _, r := range results {
		switch r.Type {
		case TypeFunctional:
			sub.Functional = r.Confidence
		case TypeModal:
			sub.Modal = r.Confidence
		case TypeChromatic:
			sub.Chromatic = r.Confidence
		}
	}
	return sub
}

func isEmptyProgressionErr(err error) bool {
	ie, ok := err.(*errs.InputError)
	return ok && ie.Kind == errs.KindEmptyProgression
}

// degradedInterpretation builds the floor-confidence placeholder for an
// analyzer that failed with something other than empty input (spec
// §4.G.6: treated as empty Facts, confidence floors at 0.2).
func degradedInterpretation(t InterpretationType) Interpretation {
	return Interpretation{
		Type:       t,
		Confidence: 0.2,
		Summary:    fmt.Sprintf("%s analysis unavailable", t),
	}
}

// interpretationFromFunctional builds the functional Interpretation and
// its Evidence, per spec §4.G.2's exact per-source strengths: cadential
// evidence carries the cadence's own intrinsic strength; a closing tonic
// is worth a flat 0.6 of structural evidence; the diatonic fraction
// contributes harmonic evidence scaled by 0.65 and capped at 0.60; and a
// matched strong functional pattern is worth 0.95 of (separately
// counted) structural evidence.
func interpretationFromFunctional(f functional.Facts) Interpretation {
	var evidence []Evidence

	for _, cad := range f.Cadences {
		evidence = append(evidence, Evidence{
			Type:                     EvidenceCadential,
			Strength:                 cad.IntrinsicStrength,
			SupportedInterpretations: []InterpretationType{TypeFunctional},
			Description:              fmt.Sprintf("%s cadence detected", cad.Type),
			Basis:                    "functional analyzer: cadence detection",
		})
	}

	if len(f.RomanNumerals) > 0 {
		last := f.RomanNumerals[len(f.RomanNumerals)-1]
		if last.Degree == 1 && !last.Flat && !last.Sharp {
			evidence = append(evidence, Evidence{
				Type:                     EvidenceStructural,
				Strength:                 0.6,
				SupportedInterpretations: []InterpretationType{TypeFunctional},
				Description:              "progression closes on the tonic",
				Basis:                    "functional analyzer: closing-tonic check",
			})
		}
	}

	harmonicStrength := f.DiatonicFraction * 0.65
	if harmonicStrength > 0.60 {
		harmonicStrength = 0.60
	}
	evidence = append(evidence, Evidence{
		Type:                     EvidenceHarmonic,
		Strength:                 harmonicStrength,
		SupportedInterpretations: []InterpretationType{TypeFunctional},
		Description:              "fraction of chords diatonic to the inferred key",
		Basis:                    "functional analyzer: diatonic fraction",
	})

	if f.MatchesPattern != "" {
		evidence = append(evidence, Evidence{
			Type:                     EvidenceStructural,
			Strength:                 0.95,
			SupportedInterpretations: []InterpretationType{TypeFunctional},
			Description:              fmt.Sprintf("matches strong functional pattern %s", f.MatchesPattern),
			Basis:                    "functional analyzer: strong pattern match",
		})
	}

	return Interpretation{
		Type:           TypeFunctional,
		Confidence:     calibrate(evidence),
		Summary:        fmt.Sprintf("functional analysis in %s", f.Key),
		RomanNumerals:  f.RomanNumerals,
		Key:            f.Key,
		Cadences:       f.Cadences,
		Evidence:       evidence,
		ChordFunctions: f.Functions,
	}
}

// modalCadenceChords are the characteristic-chord labels that, combined
// with the progression framing on its local tonic, stand in for the
// modal analyzer's cadential evidence (spec §4.G.2: "a modal cadence
// (bVII-I or bII-I) resolves to the local tonic"). analysis/modal does
// not itself track cadence pairs the way analysis/functional does, so
// this is read off the characteristic-chord set plus FramesProgression.
var modalCadenceChords = map[string]bool{"bVII": true, "bII": true, "bvii": true}

// interpretationFromModal builds the modal Interpretation and its
// Evidence, per spec §4.G.2: one intervallic evidence piece per
// characteristic chord (strength 0.7 each), cadential evidence
// (0.75-0.8) when a bVII-I/bII-I modal cadence resolves to the local
// tonic, and structural evidence (0.6) when the local tonic opens and
// closes the progression.
func interpretationFromModal(f modal.Facts) Interpretation {
	var evidence []Evidence
	hasModalCadence := false

	for _, c := range f.CharacteristicChords {
		evidence = append(evidence, Evidence{
			Type:                     EvidenceIntervallic,
			Strength:                 0.7,
			SupportedInterpretations: []InterpretationType{TypeModal},
			Description:              fmt.Sprintf("characteristic chord %s", c.RomanText),
			Basis:                    "modal analyzer: characteristic chord detection",
		})
		if modalCadenceChords[c.RomanText] {
			hasModalCadence = true
		}
	}

	if hasModalCadence && f.FramesProgression {
		evidence = append(evidence, Evidence{
			Type:                     EvidenceCadential,
			Strength:                 0.8,
			SupportedInterpretations: []InterpretationType{TypeModal},
			Description:              "modal cadence resolves to the local tonic",
			Basis:                    "modal analyzer: characteristic chord + framing",
		})
	}

	if f.FramesProgression {
		evidence = append(evidence, Evidence{
			Type:                     EvidenceStructural,
			Strength:                 0.6,
			SupportedInterpretations: []InterpretationType{TypeModal},
			Description:              "progression opens and closes on its local tonic",
			Basis:                    "modal analyzer: frames-progression check",
		})
	}

	mode := f.Mode
	characteristics := make([]string, len(f.CharacteristicChords))
	for i, c := range f.CharacteristicChords {
		characteristics[i] = fmt.Sprintf("%s (%s)", c.RomanText, c.Description)
	}

	return Interpretation{
		Type:                  TypeModal,
		Confidence:            calibrate(evidence),
		Summary:               fmt.Sprintf("%s %s over parent key %s", f.LocalTonic, f.Mode, f.ParentKey),
		Key:                   keytheory.NewModal(f.LocalTonic, f.Mode, f.ParentKey.Tonic),
		Mode:                  &mode,
		Evidence:              evidence,
		ModalCharacteristics:  characteristics,
		Classification:        f.Classification,
		ParentKeyRelationship: f.Relationship,
	}
}

// interpretationFromChromatic builds the chromatic Interpretation, if
// any chromatic facts were found; an empty Facts produces no
// interpretation at all rather than a zero-confidence placeholder,
// since "no chromaticism" is not itself a competing reading of the
// progression.
func interpretationFromChromatic(f chromatic.Facts, funcFacts functional.Facts) (Interpretation, bool) {
	total := len(f.SecondaryDominants) + len(f.BorrowedChords) + len(f.ChromaticMediants)
	if total == 0 {
		return Interpretation{}, false
	}

	var evidence []Evidence
	var secondaryDominants []SecondaryDominantRef
	for _, sd := range f.SecondaryDominants {
		secondaryDominants = append(secondaryDominants, SecondaryDominantRef{
			Chord:  sd.Chord.String(),
			Target: chromatic.TargetRomanText(funcFacts.Key, sd.TargetDegree),
			Roman:  sd.Roman,
		})
		evidence = append(evidence, Evidence{
			Type:                     EvidenceHarmonic,
			Strength:                 0.7,
			SupportedInterpretations: []InterpretationType{TypeChromatic},
			Description:              fmt.Sprintf("%s functions as %s", sd.Chord.String(), sd.Roman),
			Basis:                    "chromatic analyzer: secondary dominant rule",
		})
	}

	var borrowed []BorrowedChordRef
	for _, bc := range f.BorrowedChords {
		borrowed = append(borrowed, BorrowedChordRef{Chord: bc.Chord.String(), Degree: bc.Degree, Flat: bc.Flat})
		evidence = append(evidence, Evidence{
			Type:                     EvidenceHarmonic,
			Strength:                 0.6,
			SupportedInterpretations: []InterpretationType{TypeChromatic},
			Description:              fmt.Sprintf("%s borrowed from the parallel key", bc.Chord.String()),
			Basis:                    "chromatic analyzer: borrowed chord rule",
		})
	}

	var mediants []ChromaticMediantRef
	for _, cm := range f.ChromaticMediants {
		mediants = append(mediants, ChromaticMediantRef{Chord: cm.Chord.String(), Degree: cm.Degree})
		evidence = append(evidence, Evidence{
			Type:                     EvidenceHarmonic,
			Strength:                 0.5,
			SupportedInterpretations: []InterpretationType{TypeChromatic},
			Description:              fmt.Sprintf("%s is a chromatic mediant of the tonic", cm.Chord.String()),
			Basis:                    "chromatic analyzer: chromatic mediant rule",
		})
	}

	return Interpretation{
		Type:               TypeChromatic,
		Confidence:          calibrate(evidence),
		Summary:             fmt.Sprintf("%d chromatic event(s) relative to %s", total, funcFacts.Key),
		Key:                 funcFacts.Key,
		Evidence:            evidence,
		SecondaryDominants:  secondaryDominants,
		BorrowedChords:      borrowed,
		ChromaticMediants:   mediants,
	}, true
}

// calibrate implements spec §4.G.3: weighted mean of evidence strengths
// by type, plus a flat 0.1 diversity bonus when more than one distinct
// evidence type is present, clamped to [0,1], floored at 0.2 when there
// is no evidence at all.
func calibrate(evidence []Evidence) float64 {
	if len(evidence) == 0 {
		return 0.2
	}

	var weightedSum, weightTotal float64
	types := map[EvidenceType]bool{}
	for _, e := range evidence {
		w := evidenceWeights[e.Type]
		weightedSum += w * e.Strength
		weightTotal += w
		types[e.Type] = true
	}

	confidence := 0.2
	if weightTotal > 0 {
		confidence = weightedSum / weightTotal
	}
	if len(types) > 1 {
		confidence += 0.1
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}

// rankAndFilter implements spec §4.G.4: the highest-confidence reading
// becomes primary (ties within 0.05 prefer a parent-key-consistent type,
// else functional); the rest are filtered by the pedagogical-level
// threshold and truncated to max_alternatives.
func rankAndFilter(interpretations []Interpretation, opts Options) (Interpretation, []Interpretation) {
	if len(interpretations) == 0 {
		return Interpretation{Confidence: 0.2, Summary: "no analyzable structure found"}, nil
	}

	sort.SliceStable(interpretations, func(i, j int) bool {
		a, b := interpretations[i], interpretations[j]
		if diff := a.Confidence - b.Confidence; diff > 0.05 || diff < -0.05 {
			return a.Confidence > b.Confidence
		}
		aConsistent := a.ParentKeyRelationship != modal.RelationshipConflicts
		bConsistent := b.ParentKeyRelationship != modal.RelationshipConflicts
		if aConsistent != bConsistent {
			return aConsistent
		}
		if a.Type != b.Type {
			return a.Type == TypeFunctional
		}
		return a.Confidence > b.Confidence
	})

	primary := interpretations[0]
	threshold := opts.effectiveThreshold()
	maxAlt := opts.effectiveMaxAlternatives()

	var alternatives []Interpretation
	for _, interp := range interpretations[1:] {
		if len(alternatives) >= maxAlt {
			break
		}
		if interp.Confidence < threshold {
			continue
		}
		interp.RelationshipToPrimary = relationshipToPrimary(primary, interp)
		alternatives = append(alternatives, interp)
	}

	return primary, alternatives
}

// relationshipToPrimary labels how an alternative interpretation relates
// to the primary one (spec §4.G.4): "reinterpretation" when the tonal
// center itself differs, "modal reading"/"functional reading" when the
// two share a tonal center but differ in lens, "alternative lens"
// otherwise.
func relationshipToPrimary(primary, alt Interpretation) string {
	sameCenter := primary.Key.Tonic.Class == alt.Key.Tonic.Class
	if !sameCenter {
		return "reinterpretation"
	}
	if primary.Type == TypeFunctional && alt.Type == TypeModal {
		return "modal reading"
	}
	if primary.Type == TypeModal && alt.Type == TypeFunctional {
		return "functional reading"
	}
	return "alternative lens"
}
