// Package types provides shared type definitions for the chord identification server.
//
// This package defines the value types that flow through the identification
// pipeline, from parsed pitch classes to ranked chord candidates.
//
// # Core Types
//
// PitchClass is a semitone position within the octave, always reduced modulo 12:
//
//	c := types.NewPitchClass(0)   // C
//	eb := types.NewPitchClass(-9) // Eb (3)
//	eb.Name(true)                 // "Eb"
//
// PitchClassSet keeps first-seen order, which drives candidate-root iteration.
// IntervalSet is the sorted, deduplicated set of offsets from a candidate root:
//
//	types.NewIntervalSet(7, 4, 0, 4) // [0 4 7]
//
// # Candidates
//
// MatchCandidate pairs a root with a quality name, a display suffix and the
// add-tone offsets not covered by the base shape. RankedCandidate adds the
// 1-based rank and the ranking score.
//
// # Identification
//
// Identification is the complete answer to one request: the outcome
// (matched, unmatched, insufficient_notes, no_notes), the top candidates,
// the slash-chord hint and the rendered text.
//
// # Validation
//
// Domain types implement Validate methods:
//
//	if err := candidate.Validate(); err != nil {
//	    return err
//	}
package types
