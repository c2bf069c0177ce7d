// Package interpretation implements the Interpretation Service
// (component G): concurrent dispatch of the three analyzers, evidence
// collection, confidence calibration, and ranking/filtering into a
// MultipleInterpretationResult. It is also where Evidence values are
// constructed — analysis/functional, analysis/modal, and
// analysis/chromatic return Facts only (spec §3.3, §9 design note).
package interpretation

import (
	"time"

	"github.com/Conceptual-Machines/tonal-analysis-go/analysis/modal"
	"github.com/Conceptual-Machines/tonal-analysis-go/keytheory"
	"github.com/Conceptual-Machines/tonal-analysis-go/theory"
)

// InterpretationType tags which analytical lens an Interpretation came
// from (spec §9 design note: tagged-variant dispatch, not a class
// hierarchy).
type InterpretationType int

const (
	TypeFunctional InterpretationType = iota
	TypeModal
	TypeChromatic
)

func (t InterpretationType) String() string {
	switch t {
	case TypeFunctional:
		return "functional"
	case TypeModal:
		return "modal"
	case TypeChromatic:
		return "chromatic"
	default:
		return "unknown"
	}
}

// EvidenceType enumerates the evidence categories from spec §3.1.
type EvidenceType int

const (
	EvidenceCadential EvidenceType = iota
	EvidenceStructural
	EvidenceIntervallic
	EvidenceHarmonic
	EvidenceContextual
)

func (t EvidenceType) String() string {
	switch t {
	case EvidenceCadential:
		return "cadential"
	case EvidenceStructural:
		return "structural"
	case EvidenceIntervallic:
		return "intervallic"
	case EvidenceHarmonic:
		return "harmonic"
	case EvidenceContextual:
		return "contextual"
	default:
		return "unknown"
	}
}

// evidenceWeights backs the §4.G.3 weighted-mean confidence formula; the
// single editable table the calibration invariants trace back to (spec
// §9 design note).
var evidenceWeights = map[EvidenceType]float64{
	EvidenceCadential:   0.4,
	EvidenceStructural:  0.25,
	EvidenceIntervallic: 0.2,
	EvidenceHarmonic:    0.15,
	EvidenceContextual:  0.15,
}

// Evidence is a single theory-grounded fact contributing to a
// confidence score (spec §3.1).
type Evidence struct {
	Type                    EvidenceType
	Strength                float64 // 0.0-1.0
	SupportedInterpretations []InterpretationType
	Description             string
	Basis                   string
}

// SubConfidences is the per-lens confidence breakdown attached to every
// Interpretation (spec §3.1 "breakdown of functional/modal/chromatic
// sub-confidences").
type SubConfidences struct {
	Functional float64
	Modal      float64
	Chromatic  float64
}

// SecondaryDominantRef, BorrowedChordRef, and ChromaticMediantRef are the
// textual, caller-facing forms of analysis/chromatic's structured facts.
type SecondaryDominantRef struct {
	Chord  string
	Target string
	Roman  string
}

type BorrowedChordRef struct {
	Chord  string
	Degree int
	Flat   bool
}

type ChromaticMediantRef struct {
	Chord  string
	Degree int
}

// Interpretation is one ranked analytical reading of the input (spec
// §3.1).
type Interpretation struct {
	Type       InterpretationType
	Confidence float64
	Summary    string

	RomanNumerals  []keytheory.RomanNumeral // empty for pure modal
	Key            keytheory.Key
	Mode           *theory.ModeName
	Cadences       []keytheory.Cadence
	Evidence       []Evidence
	ChordFunctions []theory.ChordFunction

	ModalCharacteristics []string

	SecondaryDominants []SecondaryDominantRef
	BorrowedChords     []BorrowedChordRef
	ChromaticMediants  []ChromaticMediantRef

	Classification        modal.Classification
	ParentKeyRelationship modal.ParentKeyRelationship

	SubConfidences SubConfidences

	// RelationshipToPrimary is set on alternatives only (spec §4.G.4
	// step 6): "alternative lens", "reinterpretation", "modal reading",
	// or "functional reading". Empty on the primary interpretation.
	RelationshipToPrimary string
}

// SuggestionKind enumerates the three mutually-exclusive suggestion
// kinds from spec §4.H (never issued together for the same request).
type SuggestionKind int

const (
	SuggestionAddKey SuggestionKind = iota
	SuggestionRemoveKey
	SuggestionChangeKey
)

func (k SuggestionKind) String() string {
	switch k {
	case SuggestionAddKey:
		return "add_key"
	case SuggestionRemoveKey:
		return "remove_key"
	case SuggestionChangeKey:
		return "change_key"
	default:
		return "unknown"
	}
}

// Suggestion is a single key-suggestion emitted by the Suggestion
// Engine (spec §4.H).
type Suggestion struct {
	Kind               SuggestionKind
	Key                *keytheory.Key // nil for remove_key
	Reason             string
	Confidence         float64
	ImprovementSummary string
}

// PedagogicalLevel gates the default confidence threshold (spec §6).
type PedagogicalLevel string

const (
	LevelBeginner     PedagogicalLevel = "beginner"
	LevelIntermediate PedagogicalLevel = "intermediate"
	LevelAdvanced     PedagogicalLevel = "advanced"
)

// defaultThresholds backs §4.G.4's per-pedagogical-level defaults.
var defaultThresholds = map[PedagogicalLevel]float64{
	LevelBeginner:     0.70,
	LevelIntermediate: 0.50,
	LevelAdvanced:     0.40,
}

// defaultMaxAlternatives is spec §6's default for Options.MaxAlternatives.
const defaultMaxAlternatives = 2

// Options carries request-scoped tuning, distinct from the ambient
// config.Config (spec §1.1: conflating the two was a design smell in
// the teacher's own config, corrected here on purpose).
type Options struct {
	ParentKey            string // e.g. "C major"; empty = none supplied
	PedagogicalLevel     PedagogicalLevel
	ConfidenceThreshold  *float64 // overrides the pedagogical-level default
	MaxAlternatives      *int
}

func (o Options) effectiveLevel() PedagogicalLevel {
	if o.PedagogicalLevel == "" {
		return LevelIntermediate
	}
	return o.PedagogicalLevel
}

func (o Options) effectiveThreshold() float64 {
	if o.ConfidenceThreshold != nil {
		return *o.ConfidenceThreshold
	}
	if t, ok := defaultThresholds[o.effectiveLevel()]; ok {
		return t
	}
	return defaultThresholds[LevelIntermediate]
}

func (o Options) effectiveMaxAlternatives() int {
	if o.MaxAlternatives != nil {
		return *o.MaxAlternatives
	}
	return defaultMaxAlternatives
}

// InputSummary records what a result was computed from (spec §3.1
// MultipleInterpretationResult.input).
type InputSummary struct {
	Chords    []string
	ParentKey string
	Options   Options
}

// Metadata records bookkeeping about how a result was produced (spec
// §3.1 MultipleInterpretationResult.metadata).
type Metadata struct {
	AnalysisDuration time.Duration
	CountConsidered  int
	ThresholdUsed    float64
	PedagogicalLevel PedagogicalLevel
}

// MultipleInterpretationResult is the top-level result of
// analyze_chord_progression (spec §3.1).
type MultipleInterpretationResult struct {
	Input        InputSummary
	Primary      Interpretation
	Alternatives []Interpretation // descending confidence
	Suggestions  []Suggestion
	Metadata     Metadata
}

