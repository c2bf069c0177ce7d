// Package chromatic implements the Chromatic Analyzer (component E):
// secondary dominants, borrowed chords, and chromatic mediants. As with
// the other analyzers it returns Facts, not Evidence.
package chromatic

import (
	"context"
	"strings"

	"github.com/Conceptual-Machines/tonal-analysis-go/chordparse"
	"github.com/Conceptual-Machines/tonal-analysis-go/errs"
	"github.com/Conceptual-Machines/tonal-analysis-go/keytheory"
	"github.com/Conceptual-Machines/tonal-analysis-go/theory"
)

// SecondaryDominant is a dominant-function chord targeting a non-tonic
// degree, e.g. V/ii (spec §4.E).
type SecondaryDominant struct {
	Chord        chordparse.Chord
	TargetDegree int
	Roman        string
}

// BorrowedChord is a chord diatonic to the parallel mode but not the
// current key.
type BorrowedChord struct {
	Chord  chordparse.Chord
	Degree int
	Flat   bool
}

// ChromaticMediant is a chord a third away from the tonic sharing only
// one common tone with the tonic triad.
type ChromaticMediant struct {
	Chord  chordparse.Chord
	Degree int
}

// Facts is the structured output of the Chromatic Analyzer.
type Facts struct {
	SecondaryDominants []SecondaryDominant
	BorrowedChords     []BorrowedChord
	ChromaticMediants  []ChromaticMediant
}

// Analyze runs the chromatic analysis described in spec §4.E. Unlike the
// functional and modal analyzers, a key is required (the orchestration
// in §4.G.1 always has one available by the time this runs).
func Analyze(ctx context.Context, chords []chordparse.Chord, key keytheory.Key) (Facts, error) {
	if len(chords) == 0 {
		return Facts{}, errs.EmptyProgression()
	}

	var facts Facts
	tonicTriad := triadPitchClasses(key)
	parallel := key.ParallelKey()

	for _, c := range chords {
		if ctx.Err() != nil {
			return Facts{}, ctx.Err()
		}
		if c.PitchClasses().IsSubsetOf(key.DiatonicSet()) {
			continue
		}

		if sd, ok := secondaryDominant(c, key); ok {
			facts.SecondaryDominants = append(facts.SecondaryDominants, sd)
			continue
		}
		if c.PitchClasses().IsSubsetOf(parallel.DiatonicSet()) {
			degree, flat, _ := key.DegreeAndAccidental(c.Root.Class)
			facts.BorrowedChords = append(facts.BorrowedChords, BorrowedChord{Chord: c, Degree: degree, Flat: flat})
			continue
		}
		if mediant, ok := chromaticMediant(c, key, tonicTriad); ok {
			facts.ChromaticMediants = append(facts.ChromaticMediants, mediant)
		}
	}
	return facts, nil
}

func triadPitchClasses(key keytheory.Key) map[int]struct{} {
	quality := theory.QualityMajor
	if key.IsMinor() {
		quality = theory.QualityMinor
	}
	classes := map[int]struct{}{}
	for _, off := range theory.QualityOffsets[quality] {
		classes[int(key.Tonic.Class.Add(off))] = struct{}{}
	}
	return classes
}

// majorDegreeQuality and minorDegreeQuality give the conventional
// diatonic triad quality at each scale degree, used only to case the
// target half of an applied-chord label (e.g. "V7/ii" vs "V7/IV") —
// the applied chord itself always keeps its own written quality.
var majorDegreeQuality = map[int]theory.ChordQuality{
	1: theory.QualityMajor, 2: theory.QualityMinor, 3: theory.QualityMinor,
	4: theory.QualityMajor, 5: theory.QualityMajor, 6: theory.QualityMinor,
	7: theory.QualityDiminished,
}
var minorDegreeQuality = map[int]theory.ChordQuality{
	1: theory.QualityMinor, 2: theory.QualityDiminished, 3: theory.QualityMajor,
	4: theory.QualityMinor, 5: theory.QualityMinor, 6: theory.QualityMajor,
	7: theory.QualityMajor,
}

// TargetRomanText renders the bare target degree, lowercased for a
// minor or diminished diatonic triad, per spec §3.1's casing convention.
// Exported so the Interpretation Service can case the target label
// consistently with the Roman field it builds from SecondaryDominant.
func TargetRomanText(key keytheory.Key, degree int) string {
	table := majorDegreeQuality
	if key.IsMinor() {
		table = minorDegreeQuality
	}
	base := theory.RomanNumeralBase(degree)
	switch table[degree] {
	case theory.QualityMinor:
		return strings.ToLower(base)
	case theory.QualityDiminished:
		return strings.ToLower(base) + "°"
	default:
		return base
	}
}

// secondaryDominant implements spec §4.E's secondary dominant rule: a
// major or dominant-7 chord a perfect fifth above a diatonic target, or
// a diminished chord a half-step below one (the leading-tone dominant
// "vii°/x"). The applied chord's own dominant-7th is reflected in the
// roman label ("V7/ii"), and the target half is cased per its diatonic
// triad quality, matching the §8.3 seed ("V7/ii", not "V/II").
func secondaryDominant(c chordparse.Chord, key keytheory.Key) (SecondaryDominant, bool) {
	if c.Quality == theory.QualityMajor && (c.Seventh == theory.SeventhNone || c.Seventh == theory.SeventhMinor) {
		target := c.Root.Class.Add(-7)
		if key.DiatonicSet().Contains(target) {
			if degree, ok := key.DegreeOf(target); ok {
				applied := "V"
				if c.Seventh == theory.SeventhMinor {
					applied = "V7"
				}
				roman := applied + "/" + TargetRomanText(key, degree)
				return SecondaryDominant{Chord: c, TargetDegree: degree, Roman: roman}, true
			}
		}
	}
	if c.Quality == theory.QualityDiminished {
		target := c.Root.Class.Add(1)
		if key.DiatonicSet().Contains(target) {
			if degree, ok := key.DegreeOf(target); ok {
				roman := "vii°/" + TargetRomanText(key, degree)
				return SecondaryDominant{Chord: c, TargetDegree: degree, Roman: roman}, true
			}
		}
	}
	return SecondaryDominant{}, false
}

// chromaticMediant implements spec §4.E's chromatic mediant rule.
func chromaticMediant(c chordparse.Chord, key keytheory.Key, tonicTriad map[int]struct{}) (ChromaticMediant, bool) {
	offset := int(key.Tonic.Class.Sub(c.Root.Class))
	if offset != 3 && offset != 4 && offset != 8 && offset != 9 {
		return ChromaticMediant{}, false
	}
	common := 0
	for class := range c.PitchClasses() {
		if _, ok := tonicTriad[int(class)]; ok {
			common++
		}
	}
	if common != 1 {
		return ChromaticMediant{}, false
	}
	degree, _, _ := key.DegreeAndAccidental(c.Root.Class)
	return ChromaticMediant{Chord: c, Degree: degree}, true
}
