// Package functional implements the Functional Analyzer (component C):
// key inference, Roman-numeral assignment, chord-function tagging, and
// cadence detection. The analyzer returns a Facts value; it never
// constructs Evidence itself — the Interpretation Service owns that
// (see analysis/functional doc comment on Facts).
package functional

import (
	"context"
	"sort"
	"strings"

	"github.com/Conceptual-Machines/tonal-analysis-go/chordparse"
	"github.com/Conceptual-Machines/tonal-analysis-go/errs"
	"github.com/Conceptual-Machines/tonal-analysis-go/keytheory"
	"github.com/Conceptual-Machines/tonal-analysis-go/pitch"
	"github.com/Conceptual-Machines/tonal-analysis-go/theory"
)

// Facts is the structured output of the Functional Analyzer. The
// Interpretation Service turns this into weighted Evidence (spec §3.3,
// §9 design note: analyzers return facts, not evidence).
type Facts struct {
	Key              keytheory.Key
	RomanNumerals    []keytheory.RomanNumeral
	Functions        []theory.ChordFunction
	Cadences         []keytheory.Cadence
	DiatonicFraction float64
	MatchesPattern   string // non-empty if a strong functional pattern matched
	RawConfidence    float64
}

// Analyze runs the functional analysis described in spec §4.C.
func Analyze(ctx context.Context, chords []chordparse.Chord, parentKey *keytheory.Key) (Facts, error) {
	if len(chords) == 0 {
		return Facts{}, errs.EmptyProgression()
	}

	key := keytheory.Key{}
	if parentKey != nil {
		key = *parentKey
	} else {
		key = InferKey(chords)
	}

	romanNumerals := make([]keytheory.RomanNumeral, len(chords))
	functions := make([]theory.ChordFunction, len(chords))
	diatonicCount := 0

	for i, c := range chords {
		if ctx.Err() != nil {
			return Facts{}, ctx.Err()
		}
		degree, flat, sharp := key.DegreeAndAccidental(c.Root.Class)
		rn := keytheory.Render(degree, c.Quality, c.Seventh, nil, inversionFigure(c), flat, sharp)
		romanNumerals[i] = rn
		functions[i] = theory.FunctionForDegree[degree]
		if key.DiatonicSet().Contains(c.Root.Class) {
			diatonicCount++
		}
	}

	cadences := detectCadences(romanNumerals)
	diatonicFraction := float64(diatonicCount) / float64(len(chords))
	pattern := matchStrongPattern(romanNumerals)

	cadenceBonus := 1.0
	if len(cadences) > 0 {
		cadenceBonus = 0.0
		for _, cad := range cadences {
			if cad.IntrinsicStrength > cadenceBonus {
				cadenceBonus = cad.IntrinsicStrength
			}
		}
	}

	return Facts{
		Key:              key,
		RomanNumerals:    romanNumerals,
		Functions:        functions,
		Cadences:         cadences,
		DiatonicFraction: diatonicFraction,
		MatchesPattern:   pattern,
		RawConfidence:    diatonicFraction * cadenceBonus,
	}, nil
}

// inversionFigure derives the figured-bass suffix from a slash chord's
// bass note: a third in the bass is first inversion ("6"), a fifth is
// second inversion ("6/4"), a seventh is third inversion ("4/2").
func inversionFigure(c chordparse.Chord) string {
	if c.Bass == nil {
		return ""
	}
	offset := int(c.Root.Class.Sub(c.Bass.Class))
	switch offset {
	case 3, 4:
		return "6"
	case 7:
		return "6/4"
	case 9, 10, 11:
		return "4/2"
	default:
		return ""
	}
}

type keyCandidate struct {
	key         keytheory.Key
	score       float64
	lastIsTonic bool
}

// InferKey scores every major/minor key candidate by weighted diatonic
// fit, per spec §4.C step 1: first and last chords are double-weighted;
// ties prefer major over minor, then prefer a candidate whose last chord
// is its tonic. Exported so the Interpretation Service can determine a
// shared key once, up front, before dispatching the three analyzers
// concurrently (chromatic analysis requires a key as an input, per
// spec §4.E's contract).
func InferKey(chords []chordparse.Chord) keytheory.Key {
	var candidates []keyCandidate
	for class := pitch.Class(0); class < 12; class++ {
		tonic := pitch.NoteFromClass(class, false)
		for _, major := range []bool{true, false} {
			var key keytheory.Key
			if major {
				key = keytheory.NewMajor(tonic)
			} else {
				key = keytheory.NewMinor(tonic)
			}
			score := 0.0
			for i, c := range chords {
				weight := 1.0
				if i == 0 || i == len(chords)-1 {
					weight = 2.0
				}
				if key.DiatonicSet().Contains(c.Root.Class) {
					score += weight
				}
			}
			degree, ok := key.DegreeOf(chords[len(chords)-1].Root.Class)
			candidates = append(candidates, keyCandidate{
				key:         key,
				score:       score,
				lastIsTonic: ok && degree == 1,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		iMajor := candidates[i].key.KeyMode == keytheory.ModeMajorKey
		jMajor := candidates[j].key.KeyMode == keytheory.ModeMajorKey
		if iMajor != jMajor {
			return iMajor
		}
		if candidates[i].lastIsTonic != candidates[j].lastIsTonic {
			return candidates[i].lastIsTonic
		}
		return false
	})
	return candidates[0].key
}

// detectCadences scans adjacent Roman-numeral pairs per spec §4.C step 4.
func detectCadences(rn []keytheory.RomanNumeral) []keytheory.Cadence {
	var cadences []keytheory.Cadence
	for i := 1; i < len(rn); i++ {
		prev, curr := rn[i-1], rn[i]
		switch {
		case prev.Degree == 5 && !prev.Flat && curr.Degree == 1 && !curr.Flat:
			cadences = append(cadences, keytheory.NewCadence(theory.CadenceAuthentic, i-1, i))
		case prev.Degree == 4 && curr.Degree == 1 && !curr.Flat:
			cadences = append(cadences, keytheory.NewCadence(theory.CadencePlagal, i-1, i))
		case prev.Degree == 5 && !prev.Flat && curr.Degree == 6:
			cadences = append(cadences, keytheory.NewCadence(theory.CadenceDeceptive, i-1, i))
		case prev.Degree == 2 && prev.Flat && curr.Degree == 1 && !curr.Flat:
			cadences = append(cadences, keytheory.NewCadence(theory.CadencePhrygian, i-1, i))
		case prev.Degree == 7 && prev.Flat && curr.Degree == 1 && !curr.Flat:
			cadences = append(cadences, keytheory.NewCadence(theory.CadenceModal, i-1, i))
		}
	}
	if len(rn) >= 2 {
		last := rn[len(rn)-1]
		if last.Degree == 5 && !last.Flat {
			cadences = append(cadences, keytheory.NewCadence(theory.CadenceHalf, len(rn)-2, len(rn)-1))
		}
	}
	return cadences
}

// baseRomanText renders the bare degree+quality casing used by the
// strong-pattern table, ignoring seventh figures, inversions, and
// chromatic accidentals (the pattern table only lists diatonic degrees).
func baseRomanText(degree int, quality theory.ChordQuality) string {
	base := theory.RomanNumeralBase(degree)
	switch quality {
	case theory.QualityMajor, theory.QualityAugmented:
		return strings.ToUpper(base)
	case theory.QualityDiminished:
		return strings.ToLower(base) + "o"
	default:
		return strings.ToLower(base)
	}
}

// matchStrongPattern reports the first strong functional pattern (spec
// §4.G.2) found as a contiguous window within the progression, rendered
// as a hyphen-joined string, or "" if none matched.
func matchStrongPattern(rn []keytheory.RomanNumeral) string {
	baseSeq := make([]string, len(rn))
	for i, r := range rn {
		baseSeq[i] = baseRomanText(r.Degree, r.Quality)
	}
	for _, pattern := range theory.StrongFunctionalPatterns {
		if len(pattern) > len(baseSeq) {
			continue
		}
		for start := 0; start+len(pattern) <= len(baseSeq); start++ {
			match := true
			for j, want := range pattern {
				if baseSeq[start+j] != want {
					match = false
					break
				}
			}
			if match {
				return strings.Join(pattern, "-")
			}
		}
	}
	return ""
}
