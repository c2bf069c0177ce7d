package suggestion

import (
	"github.com/Conceptual-Machines/tonal-analysis-go/keytheory"
	"github.com/Conceptual-Machines/tonal-analysis-go/pitch"
)

// closestRelatedKeys computes the up-to-6 closest related candidate
// keys for a given key — fifth up, fifth down, relative, and parallel —
// per spec §4.H. It is a pure function over keytheory.Key with no
// analyzer dependency, so it can be unit-tested independently of the
// interpretation pipeline.
func closestRelatedKeys(key keytheory.Key) []keytheory.Key {
	var candidates []keytheory.Key
	seen := map[string]bool{key.String(): true}

	add := func(k keytheory.Key) {
		s := k.String()
		if seen[s] {
			return
		}
		seen[s] = true
		candidates = append(candidates, k)
	}

	fifthUp := pitch.NoteFromClass(key.Tonic.Class.Add(7), key.Tonic.Accidental == pitch.Flat)
	fifthDown := pitch.NoteFromClass(key.Tonic.Class.Add(-7), key.Tonic.Accidental == pitch.Flat)

	if key.IsMinor() {
		relativeMajorTonic := pitch.NoteFromClass(key.Tonic.Class.Add(3), key.Tonic.Accidental == pitch.Flat)
		add(keytheory.NewMinor(fifthUp))
		add(keytheory.NewMinor(fifthDown))
		add(keytheory.NewMajor(relativeMajorTonic))
		add(keytheory.NewMajor(key.Tonic))
	} else {
		add(keytheory.NewMajor(fifthUp))
		add(keytheory.NewMajor(fifthDown))
		add(keytheory.NewMinor(keytheory.RelativeMinorTonic(key.Tonic)))
		add(keytheory.NewMinor(key.Tonic))
	}

	return candidates
}

// allTwelveMajorMinor enumerates every major and minor key, used when
// the caller supplied no parent key at all: every key is a candidate
// for an add_key suggestion (spec §4.H).
func allTwelveMajorMinor() []keytheory.Key {
	var keys []keytheory.Key
	for class := pitch.Class(0); class < 12; class++ {
		tonic := pitch.NoteFromClass(class, false)
		keys = append(keys, keytheory.NewMajor(tonic), keytheory.NewMinor(tonic))
	}
	return keys
}
