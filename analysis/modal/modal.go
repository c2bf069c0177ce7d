// Package modal implements the Modal Analyzer (component D): local-tonic
// hypothesis, parent-key determination, mode identification, and
// characteristic-degree detection. Like analysis/functional, it returns
// a Facts value rather than Evidence (spec §3.3, §9 design note).
package modal

import (
	"context"

	"github.com/Conceptual-Machines/tonal-analysis-go/chordparse"
	"github.com/Conceptual-Machines/tonal-analysis-go/errs"
	"github.com/Conceptual-Machines/tonal-analysis-go/keytheory"
	"github.com/Conceptual-Machines/tonal-analysis-go/pitch"
	"github.com/Conceptual-Machines/tonal-analysis-go/theory"
)

// Classification is the contextual reading of a progression against its
// parent key (spec §4.D step 5).
type Classification int

const (
	ClassificationDiatonic Classification = iota
	ClassificationModalBorrowing
	ClassificationModalCandidate
)

func (c Classification) String() string {
	switch c {
	case ClassificationDiatonic:
		return "diatonic"
	case ClassificationModalBorrowing:
		return "modal_borrowing"
	case ClassificationModalCandidate:
		return "modal_candidate"
	default:
		return "unknown"
	}
}

// ParentKeyRelationship records how a supplied parent key relates to
// what the chord material actually suggests (spec §8.1 parent-key
// honesty invariant).
type ParentKeyRelationship int

const (
	RelationshipNone ParentKeyRelationship = iota
	RelationshipMatches
	RelationshipConflicts
)

func (r ParentKeyRelationship) String() string {
	switch r {
	case RelationshipMatches:
		return "matches"
	case RelationshipConflicts:
		return "conflicts"
	default:
		return "none"
	}
}

// CharacteristicMatch names one characteristic scale-degree chord found
// for the identified mode (spec §4.D step 4).
type CharacteristicMatch struct {
	RomanText   string
	Description string
}

// Facts is the structured output of the Modal Analyzer.
type Facts struct {
	LocalTonic           pitch.Note
	ParentKey            keytheory.Key
	Mode                 theory.ModeName
	CharacteristicChords []CharacteristicMatch
	FramesProgression    bool
	Classification       Classification
	Relationship         ParentKeyRelationship
}

// Analyze runs the modal analysis described in spec §4.D.
func Analyze(ctx context.Context, chords []chordparse.Chord, parentKey *keytheory.Key) (Facts, error) {
	if len(chords) == 0 {
		return Facts{}, errs.EmptyProgression()
	}

	localTonicClass := scoreLocalTonic(chords)
	localTonic := pitch.NoteFromClass(localTonicClass, false)

	noteUnion := pitch.NewSet()
	for _, c := range chords {
		for class := range c.PitchClasses() {
			noteUnion[class] = struct{}{}
		}
	}

	relationship := RelationshipNone
	var parent keytheory.Key
	if parentKey != nil {
		if noteUnion.IsSubsetOf(parentKey.DiatonicSet()) {
			relationship = RelationshipMatches
		} else {
			relationship = RelationshipConflicts
		}
		parent = *parentKey // never silently override caller input
	} else {
		parent = findParentKey(noteUnion, localTonic)
	}

	if ctx.Err() != nil {
		return Facts{}, ctx.Err()
	}

	mode, _ := theory.ModeForTonic(parent.Tonic.Class, localTonic.Class)
	modalKey := keytheory.NewModal(localTonic, mode, parent.Tonic)

	characteristics := detectCharacteristics(chords, modalKey, mode)
	framesProgression := chords[0].Root.Class == localTonic.Class && chords[len(chords)-1].Root.Class == localTonic.Class

	diatonicToParent := true
	for _, c := range chords {
		if !parent.DiatonicSet().Contains(c.Root.Class) {
			diatonicToParent = false
			break
		}
	}

	classification := ClassificationDiatonic
	switch {
	case diatonicToParent && len(characteristics) == 0:
		classification = ClassificationDiatonic
	case diatonicToParent && len(characteristics) > 0:
		classification = ClassificationModalBorrowing
	default:
		classification = ClassificationModalCandidate
	}

	return Facts{
		LocalTonic:           localTonic,
		ParentKey:            parent,
		Mode:                 mode,
		CharacteristicChords: characteristics,
		FramesProgression:    framesProgression,
		Classification:       classification,
		Relationship:         relationship,
	}, nil
}

// scoreLocalTonic implements spec §4.D step 1: final-position weight 3,
// initial-position weight 2, frequency weight 1 per occurrence.
func scoreLocalTonic(chords []chordparse.Chord) pitch.Class {
	scores := map[pitch.Class]float64{}
	for _, c := range chords {
		scores[c.Root.Class] += 1
	}
	scores[chords[0].Root.Class] += 2
	scores[chords[len(chords)-1].Root.Class] += 3

	var best pitch.Class
	bestScore := -1.0
	for class := pitch.Class(0); class < 12; class++ {
		if s, ok := scores[class]; ok && s > bestScore {
			bestScore = s
			best = class
		}
	}
	return best
}

// findParentKey searches the 12 major diatonic collections for ones that
// contain every note in the union, per spec §4.D step 2. It prefers the
// candidate whose tonic is diatonically related to the local tonic (so a
// plain major-key progression resolves to itself rather than a distant
// relative sharing the same note set only by accident), falling back to
// the first candidate found in pitch-class order, and finally to the
// local tonic's own major key if nothing contains the full note union.
func findParentKey(noteUnion pitch.Set, localTonic pitch.Note) keytheory.Key {
	var candidates []keytheory.Key
	for class := pitch.Class(0); class < 12; class++ {
		tonic := pitch.NoteFromClass(class, false)
		key := keytheory.NewMajor(tonic)
		if noteUnion.IsSubsetOf(key.DiatonicSet()) {
			candidates = append(candidates, key)
		}
	}
	for _, cand := range candidates {
		if cand.DiatonicSet().Contains(localTonic.Class) {
			return cand
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return keytheory.NewMajor(localTonic)
}

// detectCharacteristics checks for the mode-specific characteristic
// chords listed in spec §4.D step 4.
func detectCharacteristics(chords []chordparse.Chord, modalKey keytheory.Key, mode theory.ModeName) []CharacteristicMatch {
	var matches []CharacteristicMatch
	seen := map[string]bool{}
	add := func(romanText, description string) {
		if seen[romanText] {
			return
		}
		seen[romanText] = true
		matches = append(matches, CharacteristicMatch{RomanText: romanText, Description: description})
	}

	for _, c := range chords {
		degree, flat, _ := modalKey.DegreeAndAccidental(c.Root.Class)
		switch mode {
		case theory.Mixolydian:
			if degree == 7 && flat {
				add("bVII", "flat-seven chord characteristic of Mixolydian")
			}
			if degree == 5 && c.Quality == theory.QualityMinor {
				add("v", "minor dominant characteristic of Mixolydian")
			}
		case theory.Dorian:
			if degree == 4 && !flat && c.Quality == theory.QualityMajor {
				add("IV", "natural (major) fourth characteristic of Dorian")
			}
			if degree == 2 && c.Quality == theory.QualityMinor {
				add("ii", "minor second-degree chord characteristic of Dorian")
			}
			if degree == 1 && c.Quality == theory.QualityMinor && c.Seventh == theory.SeventhMinor {
				add("i7", "minor-seventh tonic characteristic of Dorian")
			}
		case theory.Phrygian:
			if degree == 2 && flat {
				add("bII", "flat-two chord characteristic of Phrygian")
			}
			if degree == 7 && flat && c.Quality == theory.QualityMinor {
				add("bvii", "flat-seven minor chord characteristic of Phrygian")
			}
		case theory.Lydian:
			if degree == 2 && !flat && c.Quality == theory.QualityMajor {
				add("II", "major second-degree chord characteristic of Lydian")
			}
			if degree == 4 && c.Quality == theory.QualityDiminished {
				add("#iv°", "sharp-four diminished chord characteristic of Lydian")
			}
		case theory.Aeolian:
			if degree == 6 && flat {
				add("bVI", "flat-six chord characteristic of Aeolian")
			}
			if degree == 7 && flat {
				add("bVII", "flat-seven chord characteristic of Aeolian")
			}
			if degree == 1 && c.Quality == theory.QualityMinor {
				add("i", "minor tonic characteristic of Aeolian")
			}
		case theory.Locrian:
			if degree == 1 && c.Quality == theory.QualityDiminished {
				add("i°", "diminished tonic characteristic of Locrian (low confidence ceiling)")
			}
		}
	}
	return matches
}
