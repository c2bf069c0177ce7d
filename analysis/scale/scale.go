// Package scale implements the Scale / Melody Analyzer (component F):
// finding parent scales for a note collection, naming each scale degree
// as a local tonic (modal labeling), classifying the result, and — for
// melodies — inferring a likely tonic by positional and frequency
// emphasis.
package scale

import (
	"context"
	"sort"

	"github.com/Conceptual-Machines/tonal-analysis-go/analysis/modal"
	"github.com/Conceptual-Machines/tonal-analysis-go/errs"
	"github.com/Conceptual-Machines/tonal-analysis-go/keytheory"
	"github.com/Conceptual-Machines/tonal-analysis-go/pitch"
	"github.com/Conceptual-Machines/tonal-analysis-go/theory"
)

// Result is the Scale analysis result from spec §3.1.
type Result struct {
	ParentScales   []keytheory.Key
	ModalLabels    map[pitch.Class]theory.ModeName
	Classification modal.Classification
}

// MelodyResult extends Result with the inferred tonic, per spec §3.1.
type MelodyResult struct {
	Result
	SuggestedTonic  *pitch.Note
	TonicConfidence float64
}

// AnalyzeScale runs the scale analysis described in spec §4.F. Note
// order in the input set is irrelevant.
func AnalyzeScale(ctx context.Context, notes []pitch.Note) (Result, error) {
	if len(notes) == 0 {
		return Result{}, errs.EmptyProgression()
	}

	input := pitch.NewSet()
	for _, n := range notes {
		input[n.Class] = struct{}{}
	}

	var parents []keytheory.Key
	for class := pitch.Class(0); class < 12; class++ {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		key := keytheory.NewMajor(pitch.NoteFromClass(class, false))
		if input.IsSubsetOf(key.DiatonicSet()) {
			parents = append(parents, key)
		}
	}

	labels := map[pitch.Class]theory.ModeName{}
	for _, parent := range parents {
		for degree := 1; degree <= 7; degree++ {
			mode := modeForDegree(degree)
			localTonic := theory.LocalTonicForMode(parent.Tonic.Class, mode)
			labels[localTonic] = mode
		}
	}

	classification := modal.ClassificationModalCandidate
	switch {
	case len(parents) == 1:
		classification = modal.ClassificationDiatonic
	case len(parents) > 1:
		classification = modal.ClassificationModalBorrowing
	}

	return Result{ParentScales: parents, ModalLabels: labels, Classification: classification}, nil
}

func modeForDegree(degree int) theory.ModeName {
	switch degree {
	case 1:
		return theory.Ionian
	case 2:
		return theory.Dorian
	case 3:
		return theory.Phrygian
	case 4:
		return theory.Lydian
	case 5:
		return theory.Mixolydian
	case 6:
		return theory.Aeolian
	default:
		return theory.Locrian
	}
}

// AnalyzeMelody runs the scale analysis over the note set and additionally
// infers a likely tonic via the scoring function in spec §4.F.
func AnalyzeMelody(ctx context.Context, notes []pitch.Note) (MelodyResult, error) {
	base, err := AnalyzeScale(ctx, notes)
	if err != nil {
		return MelodyResult{}, err
	}
	tonic, confidence := scoreTonic(notes)
	return MelodyResult{Result: base, SuggestedTonic: &tonic, TonicConfidence: confidence}, nil
}

// scoreTonic implements spec §4.F's melody tonic-scoring function.
func scoreTonic(notes []pitch.Note) (pitch.Note, float64) {
	scores := map[pitch.Class]float64{}
	for _, n := range notes {
		scores[n.Class] += 1
	}
	scores[notes[0].Class] += 2
	scores[notes[len(notes)-1].Class] += 3

	peak := map[pitch.Class]bool{}
	valley := map[pitch.Class]bool{}
	for i := 1; i < len(notes)-1; i++ {
		if notes[i].Class > notes[i-1].Class && notes[i].Class > notes[i+1].Class {
			peak[notes[i].Class] = true
		}
		if notes[i].Class < notes[i-1].Class && notes[i].Class < notes[i+1].Class {
			valley[notes[i].Class] = true
		}
	}
	for class := range peak {
		if valley[class] {
			scores[class] += 2
		}
	}

	type scored struct {
		class pitch.Class
		score float64
	}
	ranked := make([]scored, 0, len(scores))
	for class, s := range scores {
		ranked = append(ranked, scored{class, s})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].class < ranked[j].class
	})

	winner := ranked[0]
	second := 0.0
	if len(ranked) > 1 {
		second = ranked[1].score
	}

	confidence := 0.0
	if winner.score > 0 {
		confidence = (winner.score - second) / winner.score
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	if winner.score == second {
		confidence = 0.3
	}

	tonicNote := noteForClass(notes, winner.class)
	return tonicNote, confidence
}

// noteForClass recovers the original spelling for a scored pitch class
// from the input sequence, so enharmonic spelling the caller used is
// preserved rather than re-derived.
func noteForClass(notes []pitch.Note, class pitch.Class) pitch.Note {
	for _, n := range notes {
		if n.Class == class {
			return n
		}
	}
	return pitch.NoteFromClass(class, false)
}
