// Package pitch models pitch classes, spelled notes, and intervals — the
// leaf-most layer of the music constants component. Nothing here mutates
// after package init; everything is a plain value type.
package pitch

import (
	"fmt"
	"strings"
)

// Class is an integer pitch class 0-11, C = 0.
type Class int

// Accidental distinguishes how a pitch class is spelled.
type Accidental int

const (
	Natural Accidental = iota
	Sharp
	Flat
)

func (a Accidental) String() string {
	switch a {
	case Sharp:
		return "#"
	case Flat:
		return "b"
	default:
		return ""
	}
}

// letterPitchClass gives the natural (unaltered) pitch class for each
// letter name, A-G.
var letterPitchClass = map[byte]Class{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// Note is a pitch class plus the letter/accidental spelling used to
// write it, so enharmonic equivalents (C# vs Db) are preserved rather
// than collapsed until a caller explicitly asks for the pitch class.
type Note struct {
	Letter     byte // 'A'..'G'
	Accidental Accidental
	Class      Class
}

// String renders the note in standard letter+accidental form, e.g. "F#".
func (n Note) String() string {
	return fmt.Sprintf("%c%s", n.Letter, n.Accidental)
}

// Interval is a signed semitone count between two pitches.
type Interval int

// ParseNote parses a single note token: a letter A-G optionally followed
// by '#' or 'b', with an optional trailing octave digit string which is
// accepted and ignored (§6: "optional trailing octave number is accepted
// and ignored by the core").
func ParseNote(token string) (Note, error) {
	s := strings.TrimSpace(token)
	if s == "" {
		return Note{}, fmt.Errorf("empty note token")
	}
	letter := byte(0)
	if c := s[0]; c >= 'a' && c <= 'g' {
		letter = c - 'a' + 'A'
	} else if c >= 'A' && c <= 'G' {
		letter = c
	} else {
		return Note{}, fmt.Errorf("invalid note letter in %q", token)
	}
	base, ok := letterPitchClass[letter]
	if !ok {
		return Note{}, fmt.Errorf("invalid note letter in %q", token)
	}

	acc := Natural
	rest := s[1:]
	if len(rest) > 0 {
		switch rest[0] {
		case '#':
			acc = Sharp
			rest = rest[1:]
		case 'b':
			acc = Flat
			rest = rest[1:]
		}
	}
	// Trailing octave digits (e.g. "C4", "F#5") are accepted and ignored.
	for len(rest) > 0 && rest[0] >= '0' && rest[0] <= '9' {
		rest = rest[1:]
	}
	if rest != "" {
		return Note{}, fmt.Errorf("unexpected trailing characters in note %q", token)
	}

	class := Class((int(base) + accidentalOffset(acc) + 12) % 12)
	return Note{Letter: letter, Accidental: acc, Class: class}, nil
}

func accidentalOffset(a Accidental) int {
	switch a {
	case Sharp:
		return 1
	case Flat:
		return -1
	default:
		return 0
	}
}

// sharpNames and flatNames are the two canonical spellings for every
// pitch class, used when a parser or analyzer needs to synthesize a Note
// from a bare pitch class (e.g. a computed chord root) rather than from
// user text.
var sharpNames = [12]struct {
	Letter byte
	Acc    Accidental
}{
	{'C', Natural}, {'C', Sharp}, {'D', Natural}, {'D', Sharp}, {'E', Natural},
	{'F', Natural}, {'F', Sharp}, {'G', Natural}, {'G', Sharp}, {'A', Natural},
	{'A', Sharp}, {'B', Natural},
}

var flatNames = [12]struct {
	Letter byte
	Acc    Accidental
}{
	{'C', Natural}, {'D', Flat}, {'D', Natural}, {'E', Flat}, {'E', Natural},
	{'F', Natural}, {'G', Flat}, {'G', Natural}, {'A', Flat}, {'A', Natural},
	{'B', Flat}, {'B', Natural},
}

// NoteFromClass builds a Note for a pitch class using the sharp spelling
// by default, or the flat spelling when preferFlat is true.
func NoteFromClass(c Class, preferFlat bool) Note {
	c = Class(((int(c) % 12) + 12) % 12)
	table := sharpNames
	if preferFlat {
		table = flatNames
	}
	entry := table[c]
	return Note{Letter: entry.Letter, Accidental: entry.Acc, Class: c}
}

// Add transposes a pitch class by an interval, wrapping into 0-11.
func (c Class) Add(i Interval) Class {
	return Class((((int(c) + int(i)) % 12) + 12) % 12)
}

// Sub returns the signed interval from c to other going up (0-11 range
// collapsed to the shortest ascending distance).
func (c Class) Sub(other Class) Interval {
	return Interval((((int(other) - int(c)) % 12) + 12) % 12)
}

// Set is a small pitch-class set with set semantics, used by the scale
// analyzer and by chord/scale containment checks.
type Set map[Class]struct{}

// NewSet builds a Set from a list of classes.
func NewSet(classes ...Class) Set {
	s := make(Set, len(classes))
	for _, c := range classes {
		s[c] = struct{}{}
	}
	return s
}

// Contains reports whether c is a member.
func (s Set) Contains(c Class) bool {
	_, ok := s[c]
	return ok
}

// IsSubsetOf reports whether every member of s is also in other.
func (s Set) IsSubsetOf(other Set) bool {
	for c := range s {
		if !other.Contains(c) {
			return false
		}
	}
	return true
}

// Equal reports whether two sets contain exactly the same pitch classes.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	return s.IsSubsetOf(other)
}
