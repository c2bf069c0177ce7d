// Package errs defines the error taxonomy used across the tonal analysis
// engine: InputError (caller's fault, short-circuits before analysis) and
// InternalInconsistency (a bug, never expected in normal operation).
// AnalysisDegraded has no error type here: a weak or failed analyzer
// surfaces only as a low-confidence interpretation built by the
// interpretation service.
package errs

import "fmt"

// InputKind enumerates the caller-facing input errors from spec §7.
type InputKind string

const (
	KindEmptyProgression InputKind = "empty_progression"
	KindUnparsableChord  InputKind = "unparsable_chord"
	KindUnparsableNote   InputKind = "unparsable_note"
	KindInvalidKey       InputKind = "invalid_key"
)

// InputError is returned whenever a request cannot be analyzed at all.
// Callers can type-assert with errors.As to recover Kind, Symbol, and
// Position rather than string-matching Error().
type InputError struct {
	Kind     InputKind
	Symbol   string // the offending chord/note/key text, when applicable
	Position int     // 0-based index into the input sequence, -1 if n/a
}

func (e *InputError) Error() string {
	switch e.Kind {
	case KindEmptyProgression:
		return "progression is empty"
	case KindUnparsableChord:
		return fmt.Sprintf("unparsable chord %q at position %d", e.Symbol, e.Position)
	case KindUnparsableNote:
		return fmt.Sprintf("unparsable note %q", e.Symbol)
	case KindInvalidKey:
		return fmt.Sprintf("invalid key %q", e.Symbol)
	default:
		return fmt.Sprintf("input error: %s", e.Kind)
	}
}

// EmptyProgression builds the canonical empty-input error.
func EmptyProgression() *InputError {
	return &InputError{Kind: KindEmptyProgression, Position: -1}
}

// UnparsableChord builds an error naming the offending chord and its
// position in the progression, per §7's user-visible failure behavior.
func UnparsableChord(symbol string, position int) *InputError {
	return &InputError{Kind: KindUnparsableChord, Symbol: symbol, Position: position}
}

// UnparsableNote builds an error for a malformed note token (scale/melody input).
func UnparsableNote(token string) *InputError {
	return &InputError{Kind: KindUnparsableNote, Symbol: token, Position: -1}
}

// InvalidKey builds an error for a parent_key option that could not be parsed.
func InvalidKey(text string) *InputError {
	return &InputError{Kind: KindInvalidKey, Symbol: text, Position: -1}
}

// InternalInconsistency signals that an invariant from the data model (§3)
// was violated mid-pipeline. This should only ever fire in the presence of
// a bug; it is never produced by valid input, however pathological.
type InternalInconsistency struct {
	Where string // component/function that detected the violation
	What  string // which invariant was violated
}

func (e *InternalInconsistency) Error() string {
	return fmt.Sprintf("internal inconsistency in %s: %s", e.Where, e.What)
}

// NewInternalInconsistency constructs an InternalInconsistency with enough
// context to locate the bug, per §7's "SHOULD surface this with enough
// context" guidance.
func NewInternalInconsistency(where, what string) *InternalInconsistency {
	return &InternalInconsistency{Where: where, What: what}
}
