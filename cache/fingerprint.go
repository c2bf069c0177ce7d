package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Fingerprint computes a stable cache key for a request: the normalized
// chord symbols, the parent key text (if any), and the options that
// affect the result shape (pedagogical level, threshold, max
// alternatives), per spec §4.I. Chord symbols must already be
// normalized by the caller (chordparse.Normalize) so that "Cmaj7" and
// "CMaj7" collide in the cache.
func Fingerprint(normalizedChords []string, parentKey string, pedagogicalLevel string, threshold float64, maxAlternatives int) string {
	var b strings.Builder
	b.WriteString(strings.Join(normalizedChords, "|"))
	b.WriteByte('\x00')
	b.WriteString(parentKey)
	b.WriteByte('\x00')
	b.WriteString(pedagogicalLevel)
	b.WriteByte('\x00')
	fmt.Fprintf(&b, "%.4f", threshold)
	b.WriteByte('\x00')
	fmt.Fprintf(&b, "%d", maxAlternatives)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
