package chordparse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Conceptual-Machines/tonal-analysis-go/pitch"
	"github.com/Conceptual-Machines/tonal-analysis-go/theory"
)

// Extension is one of the upper-structure tones {9, 11, 13} a chord
// symbol can carry (spec §3.1).
type Extension int

const (
	Ext9 Extension = 9
	Ext11 Extension = 11
	Ext13 Extension = 13
)

// Alteration is a single altered chord tone, e.g. #5, b9 (spec §3.1).
type Alteration struct {
	Degree     int // 5, 9, 11, or 13
	Accidental pitch.Accidental
}

func (a Alteration) String() string {
	return fmt.Sprintf("%s%d", a.Accidental, a.Degree)
}

// Chord is the fully parsed, structured form of a chord symbol (spec
// §3.1). Its pitch classes are fully determined by Root, Quality,
// Seventh, Extensions, and Alterations — Chord.PitchClasses() is a pure
// derivation, never stored redundantly by the parser.
type Chord struct {
	Root       pitch.Note
	Quality    theory.ChordQuality
	Seventh    theory.Seventh
	Extensions []Extension // in written order; SortedExtensions gives them ascending
	Alterations []Alteration
	Bass       *pitch.Note // non-nil only for slash chords where Bass != Root
	Symbol     string      // original textual form
}

// extensionOffset gives the default (unaltered) semitone offset of an
// extension above the root, used unless an Alteration overrides it.
var extensionOffset = map[Extension]pitch.Interval{
	Ext9: 14, Ext11: 17, Ext13: 21,
}

// alterationBaseOffset gives the natural semitone offset for degrees
// that can be altered (5, 9, 11, 13), before the Alteration's accidental
// is applied.
var alterationBaseOffset = map[int]pitch.Interval{
	5: 7, 9: 14, 11: 17, 13: 21,
}

// PitchClasses derives the full pitch-class set implied by the chord:
// root + quality triad + seventh + extensions + alterations. The bass
// note of a slash chord contributes only as the nominal lowest pitch
// class if it differs from the root (spec §4.B Output).
func (c Chord) PitchClasses() pitch.Set {
	classes := map[pitch.Class]struct{}{}
	for _, off := range theory.QualityOffsets[c.Quality] {
		classes[c.Root.Class.Add(off)] = struct{}{}
	}
	if c.Seventh.HasTone() {
		classes[c.Root.Class.Add(theory.SeventhOffset[c.Seventh])] = struct{}{}
	}
	altered := map[int]bool{}
	for _, a := range c.Alterations {
		altered[a.Degree] = true
		offset := alterationBaseOffset[a.Degree] + pitch.Interval(accOffset(a.Accidental))
		classes[c.Root.Class.Add(offset)] = struct{}{}
	}
	for _, e := range c.Extensions {
		if altered[int(e)] {
			continue // an explicit alteration of the same degree wins
		}
		classes[c.Root.Class.Add(extensionOffset[e])] = struct{}{}
	}
	if c.Bass != nil && c.Bass.Class != c.Root.Class {
		classes[c.Bass.Class] = struct{}{}
	}
	set := pitch.Set(classes)
	return set
}

func accOffset(a pitch.Accidental) int {
	switch a {
	case pitch.Sharp:
		return 1
	case pitch.Flat:
		return -1
	default:
		return 0
	}
}

// SortedExtensions returns Extensions in ascending order, as the data
// model's "ordered set" invariant requires.
func (c Chord) SortedExtensions() []Extension {
	out := append([]Extension(nil), c.Extensions...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// String renders a normalized form of the chord (root and bass spelled
// with flat-preferred accidentals), used for cache-key normalization and
// for round-trip invariant testing (spec §8.1).
func (c Chord) String() string {
	var b strings.Builder
	b.WriteString(pitch.NoteFromClass(c.Root.Class, true).String())
	switch c.Quality {
	case theory.QualityMinor:
		b.WriteString("m")
	case theory.QualityDiminished:
		switch c.Seventh {
		case theory.SeventhDiminished:
			b.WriteString("dim7")
		case theory.SeventhHalfDiminished:
			b.WriteString("m7b5")
		default:
			b.WriteString("dim")
		}
	case theory.QualityAugmented:
		b.WriteString("aug")
	case theory.QualitySus2:
		b.WriteString("sus2")
	case theory.QualitySus4:
		b.WriteString("sus4")
	case theory.QualityPower:
		b.WriteString("5")
	}
	if c.Quality != theory.QualityDiminished {
		switch c.Seventh {
		case theory.SeventhMinor:
			b.WriteString("7")
		case theory.SeventhMajor:
			b.WriteString("maj7")
		case theory.SeventhHalfDiminished:
			b.WriteString("m7b5")
		}
	}
	for _, e := range c.SortedExtensions() {
		fmt.Fprintf(&b, "%d", e)
	}
	for _, a := range c.Alterations {
		b.WriteString(a.String())
	}
	if c.Bass != nil && c.Bass.Class != c.Root.Class {
		b.WriteString("/")
		b.WriteString(pitch.NoteFromClass(c.Bass.Class, true).String())
	}
	return b.String()
}
