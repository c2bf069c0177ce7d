// Package chordparse implements the chord-symbol grammar from spec §4.B:
// parse(symbol) -> Chord, or an error when the symbol is not recognized.
// The parser is a small hand-rolled longest-match tokenizer, in the style
// of the teacher's agents/arranger/chord_to_midi.go (parseRootNote,
// parseChordQuality, parseExtensions) rather than a generated grammar —
// ako-backing-tracks/theory/theory.go and jhump-chords/chords.go were
// also consulted for note-lexing and enharmonic-reduction conventions,
// but this package does not reuse jhump-chords' yacc-generated grammar.
package chordparse

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Conceptual-Machines/tonal-analysis-go/pitch"
	"github.com/Conceptual-Machines/tonal-analysis-go/theory"
)

// ErrEmptyInput is returned when the symbol is empty after trimming.
var ErrEmptyInput = errors.New("empty input")

// InvalidChordError names the unparsable symbol and why, per spec §4.B.
type InvalidChordError struct {
	Symbol string
	Reason string
}

func (e *InvalidChordError) Error() string {
	return fmt.Sprintf("invalid chord %q: %s", e.Symbol, e.Reason)
}

func invalid(symbol, reason string) error {
	return &InvalidChordError{Symbol: symbol, Reason: reason}
}

type qualityToken struct {
	token   string
	quality theory.ChordQuality
	seventh theory.Seventh
}

// qualityTokens lists every recognized quality(+seventh) spelling. Order
// here is irrelevant — matchQualityToken always tries candidates longest
// first, which is what spec §4.B's tie-break rule 1 requires ("maj7"
// beats "maj"; "sus4" beats "sus" then "4"). "7sus4"/"7sus2" are included
// as single tokens because the conventional spelling places the "7"
// before "sus" (e.g. the spec's own "G7sus4" example), not after it.
var qualityTokens = []qualityToken{
	{"maj7", theory.QualityMajor, theory.SeventhMajor},
	{"Maj7", theory.QualityMajor, theory.SeventhMajor},
	{"M7", theory.QualityMajor, theory.SeventhMajor},
	{"m7b5", theory.QualityDiminished, theory.SeventhHalfDiminished},
	{"dim7", theory.QualityDiminished, theory.SeventhDiminished},
	{"°7", theory.QualityDiminished, theory.SeventhDiminished},
	{"ø7", theory.QualityDiminished, theory.SeventhHalfDiminished},
	{"7sus4", theory.QualitySus4, theory.SeventhMinor},
	{"7sus2", theory.QualitySus2, theory.SeventhMinor},
	{"sus4", theory.QualitySus4, theory.SeventhNone},
	{"sus2", theory.QualitySus2, theory.SeventhNone},
	{"min", theory.QualityMinor, theory.SeventhNone},
	{"dim", theory.QualityDiminished, theory.SeventhNone},
	{"maj", theory.QualityMajor, theory.SeventhNone},
	{"aug", theory.QualityAugmented, theory.SeventhNone},
	{"ø", theory.QualityDiminished, theory.SeventhHalfDiminished},
	{"°", theory.QualityDiminished, theory.SeventhNone},
	{"M", theory.QualityMajor, theory.SeventhNone},
	{"m", theory.QualityMinor, theory.SeventhNone},
	{"+", theory.QualityAugmented, theory.SeventhNone},
	{"-", theory.QualityMinor, theory.SeventhNone},
	{"5", theory.QualityPower, theory.SeventhNone},
}

func sortedQualityTokens() []qualityToken {
	out := append([]qualityToken(nil), qualityTokens...)
	sort.SliceStable(out, func(i, j int) bool { return len(out[i].token) > len(out[j].token) })
	return out
}

var orderedQualityTokens = sortedQualityTokens()

// matchQualityToken finds the longest recognized quality token that
// prefixes s, returning its consumed length, or ok=false for a bare root
// (no quality token at all — spec §4.B rule 3: "A bare uppercase root
// with no quality is major").
func matchQualityToken(s string) (qualityToken, int, bool) {
	for _, qt := range orderedQualityTokens {
		if strings.HasPrefix(s, qt.token) {
			return qt, len(qt.token), true
		}
	}
	return qualityToken{}, 0, false
}

// parseRootToken parses the leading root-note token of a chord symbol
// (Parse also uses it for a slash-chord bass token). Per spec §4.B's grammar,
// root letters must be uppercase A-G; lowercase triggers InvalidChord
// (rule 3 — lowercase Roman numerals are a separate domain).
func parseRootToken(s string) (pitch.Note, int, error) {
	if len(s) == 0 {
		return pitch.Note{}, 0, fmt.Errorf("missing root")
	}
	letter := s[0]
	if letter < 'A' || letter > 'G' {
		return pitch.Note{}, 0, fmt.Errorf("root must be A-G, got %q", s)
	}
	consumed := 1
	acc := pitch.Natural
	if len(s) > 1 {
		switch s[1] {
		case '#':
			acc = pitch.Sharp
			consumed = 2
		case 'b':
			acc = pitch.Flat
			consumed = 2
		}
	}
	class := pitch.Class((int(letterBase(letter)) + accOffset(acc) + 12) % 12)
	return pitch.Note{Letter: letter, Accidental: acc, Class: class}, consumed, nil
}

func letterBase(letter byte) pitch.Class {
	switch letter {
	case 'C':
		return 0
	case 'D':
		return 2
	case 'E':
		return 4
	case 'F':
		return 5
	case 'G':
		return 7
	case 'A':
		return 9
	case 'B':
		return 11
	default:
		return 0
	}
}

var extensionTokens = []struct {
	token string
	ext   Extension
}{
	{"13", Ext13},
	{"11", Ext11},
	{"9", Ext9},
}

var alterationTokens = []struct {
	token string
	acc   pitch.Accidental
	deg   int
}{
	{"b13", pitch.Flat, 13}, {"#13", pitch.Sharp, 13},
	{"b11", pitch.Flat, 11}, {"#11", pitch.Sharp, 11},
	{"b9", pitch.Flat, 9}, {"#9", pitch.Sharp, 9},
	{"b5", pitch.Flat, 5}, {"#5", pitch.Sharp, 5},
}

// Parse parses a chord symbol into a structured Chord, per spec §4.B.
func Parse(symbol string) (Chord, error) {
	trimmed := strings.TrimSpace(symbol)
	if trimmed == "" {
		return Chord{}, ErrEmptyInput
	}

	body := trimmed
	bassText := ""
	if idx := strings.Index(trimmed, "/"); idx != -1 {
		body = trimmed[:idx]
		bassText = trimmed[idx+1:]
	}

	root, consumed, err := parseRootToken(body)
	if err != nil {
		return Chord{}, invalid(symbol, err.Error())
	}
	rest := body[consumed:]

	quality := theory.QualityMajor
	seventh := theory.SeventhNone
	if qt, n, ok := matchQualityToken(rest); ok {
		quality = qt.quality
		seventh = qt.seventh
		rest = rest[n:]
	}

	// Bare "7" immediately following a quality token that didn't already
	// consume one (spec grammar: quality? seventh?).
	if seventh == theory.SeventhNone && strings.HasPrefix(rest, "7") {
		rest = rest[1:]
		switch quality {
		case theory.QualityDiminished:
			seventh = theory.SeventhDiminished
		case theory.QualityPower:
			// power chords don't take sevenths; ignore gracefully by
			// falling through with SeventhNone would be wrong since we
			// already consumed the "7" — treat as invalid instead.
			return Chord{}, invalid(symbol, "power chord cannot take a seventh")
		default:
			seventh = theory.SeventhMinor
		}
	}

	var extensions []Extension
	for {
		matched := false
		for _, et := range extensionTokens {
			if strings.HasPrefix(rest, et.token) {
				extensions = append(extensions, et.ext)
				rest = rest[len(et.token):]
				matched = true
				break
			}
		}
		if !matched {
			break
		}
	}
	if len(extensions) > 0 && seventh == theory.SeventhNone && quality != theory.QualityPower {
		// An upper extension with no explicit seventh implies one
		// (C9 = dominant 9th = 1-3-5-b7-9; Cm9 = minor 9th = 1-b3-5-b7-9).
		seventh = theory.SeventhMinor
	}

	var alterations []Alteration
	for {
		matched := false
		for _, at := range alterationTokens {
			if strings.HasPrefix(rest, at.token) {
				alterations = append(alterations, Alteration{Degree: at.deg, Accidental: at.acc})
				rest = rest[len(at.token):]
				matched = true
				break
			}
		}
		if !matched {
			break
		}
	}

	if rest != "" {
		return Chord{}, invalid(symbol, fmt.Sprintf("unrecognized trailing text %q", rest))
	}

	var bass *pitch.Note
	if bassText != "" {
		bassNote, n, err := parseRootToken(bassText)
		if err != nil || n != len(bassText) {
			return Chord{}, invalid(symbol, fmt.Sprintf("invalid bass note %q", bassText))
		}
		if bassNote.Class != root.Class {
			bass = &bassNote
		}
		// spec §4.B rule 5: a slash bass equal to the root is normalized
		// away (bass left nil) rather than retained as a redundant slash.
	}

	return Chord{
		Root:        root,
		Quality:     quality,
		Seventh:     seventh,
		Extensions:  extensions,
		Alterations: alterations,
		Bass:        bass,
		Symbol:      symbol,
	}, nil
}

// Normalize produces a canonical form of a chord symbol (uppercase root,
// flat-preferred accidentals, trimmed whitespace) for cache-key hashing
// and round-trip testing, per spec §4.I and §8.1.
func Normalize(symbol string) (string, error) {
	c, err := Parse(symbol)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}
