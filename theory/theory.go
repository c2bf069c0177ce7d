// Package theory holds the static, process-wide music-constants tables
// described in spec §4.A: chord-quality and seventh interval offsets,
// modal interval patterns, characteristic scale degrees per mode, the
// cadence-intrinsic-strength table, and the Roman-numeral string tables.
// Nothing in this package mutates after init; every analyzer reads these
// tables freely without locking.
package theory

import "github.com/Conceptual-Machines/tonal-analysis-go/pitch"

// ChordQuality enumerates triad/base qualities (spec §3.1 Chord.quality).
type ChordQuality int

const (
	QualityMajor ChordQuality = iota
	QualityMinor
	QualityDiminished
	QualityAugmented
	QualitySus2
	QualitySus4
	QualityPower
)

func (q ChordQuality) String() string {
	switch q {
	case QualityMajor:
		return "major"
	case QualityMinor:
		return "minor"
	case QualityDiminished:
		return "diminished"
	case QualityAugmented:
		return "augmented"
	case QualitySus2:
		return "sus2"
	case QualitySus4:
		return "sus4"
	case QualityPower:
		return "power"
	default:
		return "unknown"
	}
}

// QualityOffsets gives the semitone offsets from the root for each quality.
var QualityOffsets = map[ChordQuality][]pitch.Interval{
	QualityMajor:      {0, 4, 7},
	QualityMinor:      {0, 3, 7},
	QualityDiminished: {0, 3, 6},
	QualityAugmented:  {0, 4, 8},
	QualitySus2:       {0, 2, 7},
	QualitySus4:       {0, 5, 7},
	QualityPower:      {0, 7},
}

// Seventh enumerates the seventh-chord variants (spec §3.1 Chord.seventh).
type Seventh int

const (
	SeventhNone Seventh = iota
	SeventhMinor
	SeventhMajor
	SeventhDiminished
	SeventhHalfDiminished
)

// SeventhOffset gives the additional semitone offset for each seventh
// variant, relative to the root (0 = no additional tone).
var SeventhOffset = map[Seventh]pitch.Interval{
	SeventhNone:           0,
	SeventhMinor:          10,
	SeventhMajor:          11,
	SeventhDiminished:     9,
	SeventhHalfDiminished: 10,
}

func (s Seventh) HasTone() bool { return s != SeventhNone }

// ModeName enumerates the seven church modes, used both as Key.Church and
// as the modal analyzer's local-tonic mode label. Plain major/minor keys
// are distinguished by keytheory.KeyMode, not by this type.
type ModeName int

const (
	Ionian ModeName = iota
	Dorian
	Phrygian
	Lydian
	Mixolydian
	Aeolian
	Locrian
)

func (m ModeName) String() string {
	switch m {
	case Ionian:
		return "Ionian"
	case Dorian:
		return "Dorian"
	case Phrygian:
		return "Phrygian"
	case Lydian:
		return "Lydian"
	case Mixolydian:
		return "Mixolydian"
	case Aeolian:
		return "Aeolian"
	case Locrian:
		return "Locrian"
	default:
		return "unknown"
	}
}

// ModeIntervals gives the ordered 7-tuple of semitone offsets from the
// local tonic for each mode (spec §4.A).
var ModeIntervals = map[ModeName][]pitch.Interval{
	Ionian:     {0, 2, 4, 5, 7, 9, 11},
	Dorian:     {0, 2, 3, 5, 7, 9, 10},
	Phrygian:   {0, 1, 3, 5, 7, 8, 10},
	Lydian:     {0, 2, 4, 6, 7, 9, 11},
	Mixolydian: {0, 2, 4, 5, 7, 9, 10},
	Aeolian:    {0, 2, 3, 5, 7, 8, 10},
	Locrian:    {0, 1, 3, 5, 6, 8, 10},
}

// modeDegreeInParent is the scale degree (1-7) of each mode's tonic
// within its parent major scale — i.e. Dorian's tonic is the 2nd degree
// of its parent major key, Mixolydian's is the 5th, etc. This is the
// other half of ModeIntervals: given (localTonic, parentTonic), one can
// derive the mode, and given (parentTonic, mode) one can derive the
// local tonic.
var modeDegreeInParent = map[ModeName]int{
	Ionian:     1,
	Dorian:     2,
	Phrygian:   3,
	Lydian:     4,
	Mixolydian: 5,
	Aeolian:    6,
	Locrian:    7,
}

// DegreeOffsetFromMajor gives the semitone offset of each scale degree
// (1-7, within one octave) above the major-scale tonic.
var DegreeOffsetFromMajor = map[int]pitch.Interval{
	1: 0, 2: 2, 3: 4, 4: 5, 5: 7, 6: 9, 7: 11,
}

// ModeForTonic returns the mode name of localTonic against parentTonic,
// which is uniquely determined per spec §3.1's Key invariant.
func ModeForTonic(parentTonic, localTonic pitch.Class) (ModeName, bool) {
	dist := parentTonic.Sub(localTonic) // ascending semitones, parent -> local
	for mode, degree := range modeDegreeInParent {
		want := DegreeOffsetFromMajor[degree]
		if dist == want {
			return mode, true
		}
	}
	return Ionian, false
}

// LocalTonicForMode returns the pitch class of the local tonic for a
// given parent tonic and mode.
func LocalTonicForMode(parentTonic pitch.Class, mode ModeName) pitch.Class {
	degree := modeDegreeInParent[mode]
	return parentTonic.Add(DegreeOffsetFromMajor[degree])
}

// CharacteristicDegree names the scale degree (relative to major) whose
// alteration distinguishes a mode from the major scale, per spec §4.A.
type CharacteristicDegree struct {
	Degree      int    // 1-7
	Description string // e.g. "natural 6", "flat 2"
}

var CharacteristicDegrees = map[ModeName][]CharacteristicDegree{
	Dorian:     {{6, "natural 6"}},
	Phrygian:   {{2, "flat 2"}},
	Lydian:     {{4, "sharp 4"}},
	Mixolydian: {{7, "flat 7"}},
	Aeolian:    {{6, "flat 6"}},
	Locrian:    {{2, "flat 2"}, {5, "flat 5"}},
}

// CadenceType enumerates the cadence variants from spec §3.1.
type CadenceType int

const (
	CadenceAuthentic CadenceType = iota
	CadencePlagal
	CadenceDeceptive
	CadenceHalf
	CadencePhrygian
	CadenceModal
)

func (c CadenceType) String() string {
	switch c {
	case CadenceAuthentic:
		return "authentic"
	case CadencePlagal:
		return "plagal"
	case CadenceDeceptive:
		return "deceptive"
	case CadenceHalf:
		return "half"
	case CadencePhrygian:
		return "phrygian"
	case CadenceModal:
		return "modal"
	default:
		return "unknown"
	}
}

// CadenceStrength is the single editable constant table backing every
// calibration invariant in spec §4.G.3 (spec §9 design note: "centralize
// these as a single table").
var CadenceStrength = map[CadenceType]float64{
	CadenceAuthentic: 0.90,
	CadencePlagal:    0.65,
	CadenceDeceptive: 0.70,
	CadenceHalf:      0.50,
	CadencePhrygian:  0.80,
	CadenceModal:     0.75,
}

// ChordFunction enumerates tonic/predominant/dominant function classes
// per spec §4.C step 3.
type ChordFunction int

const (
	FunctionTonic ChordFunction = iota
	FunctionPredominant
	FunctionDominant
)

func (f ChordFunction) String() string {
	switch f {
	case FunctionTonic:
		return "tonic"
	case FunctionPredominant:
		return "predominant"
	case FunctionDominant:
		return "dominant"
	default:
		return "unknown"
	}
}

// FunctionForDegree maps a scale degree (1-7) to its harmonic function;
// the major- and minor-key mappings coincide in this system (spec §4.C:
// "Minor-key mapping analogous").
var FunctionForDegree = map[int]ChordFunction{
	1: FunctionTonic,
	2: FunctionPredominant,
	3: FunctionTonic,
	4: FunctionPredominant,
	5: FunctionDominant,
	6: FunctionTonic,
	7: FunctionDominant,
}

// romanNumeralBase gives the uppercase Roman numeral for each degree,
// before the casing/accidental rules in spec §3.1 are applied.
var romanNumeralBase = map[int]string{
	1: "I", 2: "II", 3: "III", 4: "IV", 5: "V", 6: "VI", 7: "VII",
}

// RomanNumeralBase returns the bare (uppercase, unaccented) Roman numeral
// text for a scale degree, 1-7.
func RomanNumeralBase(degree int) string {
	return romanNumeralBase[((degree-1)%7+7)%7+1]
}

// StrongFunctionalPatterns lists the Roman-numeral sequences (major-key
// spellings; minor-key duals are checked via their own Roman spelling)
// that trigger the 0.95 pattern-structural evidence bonus in spec
// §4.G.2.
var StrongFunctionalPatterns = [][]string{
	{"I", "vi", "IV", "V"},
	{"I", "V", "vi", "IV"},
	{"ii", "V", "I"},
	{"I", "vi", "ii", "V"},
	{"vi", "IV", "I", "V"},
	// minor-key duals
	{"i", "VI", "iv", "V"},
	{"i", "V", "VI", "iv"},
	{"iio", "V", "i"},
	{"i", "VI", "iio", "V"},
	{"VI", "iv", "i", "V"},
}
