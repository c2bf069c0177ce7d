// Package keytheory holds the Key, RomanNumeral, and Cadence value types
// shared by every analyzer. It exists separately from theory (which holds
// the constant tables) to keep the "parent key vs local tonic" framing
// spec §9 insists on as a single, obvious type boundary: Key is the note
// collection, a bare pitch.Class "local tonic" is the chord that feels
// like home, and a Mode is the pair of the two.
package keytheory

import (
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/tonal-analysis-go/pitch"
	"github.com/Conceptual-Machines/tonal-analysis-go/theory"
)

// KeyMode distinguishes a plain major/minor key from a named church mode
// key (spec §3.1 Key.mode).
type KeyMode int

const (
	ModeMajorKey KeyMode = iota
	ModeMinorKey
	ModeChurch // ModeName carries which church mode
)

// Key is a tonic plus a mode, plus (for modal keys) the parent-key tonic
// of the underlying diatonic collection (spec §3.1).
type Key struct {
	Tonic          pitch.Note
	KeyMode        KeyMode
	Church         theory.ModeName // valid iff KeyMode == ModeChurch
	ParentKeyTonic pitch.Note      // for modes: tonic of the underlying diatonic collection
}

// NewMajor builds a major key.
func NewMajor(tonic pitch.Note) Key {
	return Key{Tonic: tonic, KeyMode: ModeMajorKey, ParentKeyTonic: tonic}
}

// NewMinor builds a natural-minor key.
func NewMinor(tonic pitch.Note) Key {
	return Key{Tonic: tonic, KeyMode: ModeMinorKey, ParentKeyTonic: relativeMajorTonic(tonic)}
}

// NewModal builds a named-mode key; parentTonic is the tonic of the
// underlying diatonic (major) collection.
func NewModal(tonic pitch.Note, mode theory.ModeName, parentTonic pitch.Note) Key {
	return Key{Tonic: tonic, KeyMode: ModeChurch, Church: mode, ParentKeyTonic: parentTonic}
}

func relativeMajorTonic(minorTonic pitch.Note) pitch.Note {
	return pitch.NoteFromClass(minorTonic.Class.Add(3), minorTonic.Accidental == pitch.Flat)
}

// RelativeMinorTonic returns the tonic of the relative minor of a major key.
func RelativeMinorTonic(majorTonic pitch.Note) pitch.Note {
	return pitch.NoteFromClass(majorTonic.Class.Add(-3), majorTonic.Accidental == pitch.Flat)
}

// ParseKeyText parses a human-readable key string such as "C major" or
// "A minor" (spec §6 Options.parent_key) into a Key.
func ParseKeyText(text string) (Key, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Key{}, fmt.Errorf("empty key text")
	}
	tonic, err := pitch.ParseNote(fields[0])
	if err != nil {
		return Key{}, fmt.Errorf("invalid key tonic %q: %w", fields[0], err)
	}
	if len(fields) == 1 {
		return NewMajor(tonic), nil
	}
	switch strings.ToLower(fields[1]) {
	case "major":
		return NewMajor(tonic), nil
	case "minor":
		return NewMinor(tonic), nil
	default:
		return Key{}, fmt.Errorf("unrecognized key mode %q", fields[1])
	}
}

// String renders the key as e.g. "C major", "A minor", "G Mixolydian".
func (k Key) String() string {
	switch k.KeyMode {
	case ModeMajorKey:
		return fmt.Sprintf("%s major", k.Tonic)
	case ModeMinorKey:
		return fmt.Sprintf("%s minor", k.Tonic)
	case ModeChurch:
		return fmt.Sprintf("%s %s", k.Tonic, k.Church)
	default:
		return fmt.Sprintf("%s ?", k.Tonic)
	}
}

// IsMinor reports whether this key uses the minor scale-degree function
// mapping (natural minor and Aeolian/Dorian/Phrygian/Locrian share it).
func (k Key) IsMinor() bool {
	switch k.KeyMode {
	case ModeMinorKey:
		return true
	case ModeChurch:
		switch k.Church {
		case theory.Dorian, theory.Phrygian, theory.Aeolian, theory.Locrian:
			return true
		}
	}
	return false
}

// DiatonicSet returns the pitch classes belonging to the key's scale.
func (k Key) DiatonicSet() pitch.Set {
	switch k.KeyMode {
	case ModeMajorKey:
		return scaleSet(k.Tonic.Class, theory.ModeIntervals[theory.Ionian])
	case ModeMinorKey:
		return scaleSet(k.Tonic.Class, theory.ModeIntervals[theory.Aeolian])
	case ModeChurch:
		return scaleSet(k.Tonic.Class, theory.ModeIntervals[k.Church])
	default:
		return pitch.NewSet()
	}
}

func scaleSet(tonic pitch.Class, intervals []pitch.Interval) pitch.Set {
	classes := make([]pitch.Class, 0, len(intervals))
	for _, iv := range intervals {
		classes = append(classes, tonic.Add(iv))
	}
	return pitch.NewSet(classes...)
}

// DegreeOf computes the scale degree (1-7) of a root pitch class relative
// to this key's tonic, or false if root is not in the diatonic set.
func (k Key) DegreeOf(root pitch.Class) (int, bool) {
	dist := k.Tonic.Class.Sub(root)
	base := theory.ModeIntervals[theory.Ionian]
	if k.KeyMode == ModeMinorKey {
		base = theory.ModeIntervals[theory.Aeolian]
	} else if k.KeyMode == ModeChurch {
		base = theory.ModeIntervals[k.Church]
	}
	for i, iv := range base {
		if iv == dist {
			return i + 1, true
		}
	}
	return 0, false
}

// majorOffsetDegree (and minorOffsetDegree below, for minor-type keys)
// maps a semitone offset (0-11) from a key's tonic to the
// scale degree (1-7) a chord root at that offset is labeled with, plus
// whether the degree carries a flat/sharp accidental prefix. Offsets
// that fall outside the plain diatonic collection are given the
// conventional borrowed-chord spelling (bII, bIII, #IV, bVI, bVII) seen
// throughout spec §4.E's chromatic vocabulary.
var majorOffsetDegree = [12]struct {
	Degree     int
	Flat, Sharp bool
}{
	{1, false, false}, {2, true, false}, {2, false, false}, {3, true, false},
	{3, false, false}, {4, false, false}, {4, false, true}, {5, false, false},
	{6, true, false}, {6, false, false}, {7, true, false}, {7, false, false},
}

var minorOffsetDegree = [12]struct {
	Degree     int
	Flat, Sharp bool
}{
	{1, false, false}, {2, true, false}, {2, false, false}, {3, false, false},
	{3, false, true}, {4, false, false}, {4, false, true}, {5, false, false},
	{6, false, false}, {6, false, true}, {7, false, false}, {7, false, true},
}

// DegreeAndAccidental returns the scale degree (1-7) and flat/sharp
// marking for a chord root relative to this key's tonic, covering every
// semitone offset (not just the diatonic ones) so chromatic chords still
// get a sensible Roman-numeral degree.
func (k Key) DegreeAndAccidental(root pitch.Class) (degree int, flat, sharp bool) {
	offset := int(k.Tonic.Class.Sub(root))
	table := majorOffsetDegree
	if k.IsMinor() {
		table = minorOffsetDegree
	}
	e := table[offset]
	return e.Degree, e.Flat, e.Sharp
}

// ParallelKey returns the parallel minor of a major key or the parallel
// major of a minor key (spec §4.E borrowed-chord rule).
func (k Key) ParallelKey() Key {
	if k.IsMinor() {
		return NewMajor(k.Tonic)
	}
	return NewMinor(k.Tonic)
}

// RomanNumeral is a single Roman-numeral label attached to one chord in a
// progression (spec §3.1).
type RomanNumeral struct {
	Degree         int              // 1-7
	Quality        theory.ChordQuality
	AppliedTo      *int             // non-nil marks a secondary dominant, e.g. V/ii
	InversionFig   string           // e.g. "6", "6/4", "" if root position
	Flat           bool             // degree is chromatically lowered (bVII)
	Sharp          bool             // degree is chromatically raised (#iv)
	Text           string           // rendered textual form
}

// Render produces the textual Roman numeral per the casing convention in
// spec §3.1: uppercase for major/dominant quality, lowercase for
// minor/diminished, °/ø for diminished qualities, b/# prefix for
// chromatic alteration.
func Render(degree int, quality theory.ChordQuality, seventh theory.Seventh, appliedTo *int, inversion string, flat, sharp bool) RomanNumeral {
	base := theory.RomanNumeralBase(degree)
	text := base
	switch quality {
	case theory.QualityMajor, theory.QualityAugmented:
		text = strings.ToUpper(base)
	case theory.QualityMinor:
		text = strings.ToLower(base)
	case theory.QualityDiminished:
		if seventh == theory.SeventhHalfDiminished {
			text = strings.ToLower(base) + "ø"
		} else {
			text = strings.ToLower(base) + "°"
		}
	default:
		text = strings.ToLower(base)
	}
	prefix := ""
	if flat {
		prefix = "b"
	} else if sharp {
		prefix = "#"
	}
	text = prefix + text
	if seventh.HasTone() && quality != theory.QualityDiminished {
		text += "7"
	}
	if inversion != "" {
		text += inversion
	}
	if appliedTo != nil {
		text = fmt.Sprintf("%s/%s", text, theory.RomanNumeralBase(*appliedTo))
	}
	return RomanNumeral{
		Degree: degree, Quality: quality, AppliedTo: appliedTo,
		InversionFig: inversion, Flat: flat, Sharp: sharp, Text: text,
	}
}

// Cadence is a two- or three-chord resolution detected within a
// progression (spec §3.1).
type Cadence struct {
	Type           theory.CadenceType
	StartIndex     int
	EndIndex       int
	IntrinsicStrength float64
}

// NewCadence builds a Cadence, pulling the intrinsic strength from the
// single editable theory.CadenceStrength table.
func NewCadence(t theory.CadenceType, start, end int) Cadence {
	return Cadence{Type: t, StartIndex: start, EndIndex: end, IntrinsicStrength: theory.CadenceStrength[t]}
}
