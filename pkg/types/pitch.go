package types

import (
	"strconv"
	"strings"
)

// SemitonesPerOctave is the size of the pitch-class space
const SemitonesPerOctave = 12

var (
	sharpNames = [SemitonesPerOctave]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	flatNames  = [SemitonesPerOctave]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}
)

// PitchClass is a semitone position within an octave (C=0 ... B=11)
type PitchClass int

// NewPitchClass reduces any integer into the [0,11] range
func NewPitchClass(n int) PitchClass {
	n %= SemitonesPerOctave
	if n < 0 {
		n += SemitonesPerOctave
	}
	return PitchClass(n)
}

// Validate checks that the pitch class is already reduced modulo 12
func (p PitchClass) Validate() error {
	if p < 0 || p >= SemitonesPerOctave {
		return ErrInvalidPitchClass
	}
	return nil
}

// Name spells the pitch class with sharps, or flats when preferFlats is set
func (p PitchClass) Name(preferFlats bool) string {
	pc := NewPitchClass(int(p))
	if preferFlats {
		return flatNames[pc]
	}
	return sharpNames[pc]
}

// PitchClassSet is an ordered-unique sequence of pitch classes in first-seen order
type PitchClassSet []PitchClass

// Contains reports whether p is a member of the set
func (s PitchClassSet) Contains(p PitchClass) bool {
	for _, q := range s {
		if q == p {
			return true
		}
	}
	return false
}

// Lowest returns the numerically lowest pitch class (C is lowest).
// The second return value is false for an empty set.
func (s PitchClassSet) Lowest() (PitchClass, bool) {
	if len(s) == 0 {
		return 0, false
	}
	lowest := s[0]
	for _, p := range s[1:] {
		if p < lowest {
			lowest = p
		}
	}
	return lowest, true
}

// Sorted returns a copy of the set in ascending pitch-class order
func (s PitchClassSet) Sorted() PitchClassSet {
	var mask uint16
	for _, p := range s {
		mask |= 1 << uint(NewPitchClass(int(p)))
	}
	out := make(PitchClassSet, 0, len(s))
	for pc := 0; pc < SemitonesPerOctave; pc++ {
		if mask&(1<<uint(pc)) != 0 {
			out = append(out, PitchClass(pc))
		}
	}
	return out
}

// Spell renders the set in ascending order, comma separated
func (s PitchClassSet) Spell(preferFlats bool) string {
	sorted := s.Sorted()
	names := make([]string, len(sorted))
	for i, p := range sorted {
		names[i] = p.Name(preferFlats)
	}
	return strings.Join(names, ", ")
}

// String renders the raw integers, e.g. "0,4,7"
func (s PitchClassSet) String() string {
	parts := make([]string, len(s))
	for i, p := range s {
		parts[i] = strconv.Itoa(int(p))
	}
	return strings.Join(parts, ",")
}

// IntervalSet is a sorted, deduplicated set of semitone offsets from a root.
// A valid set always contains 0.
type IntervalSet []int

// NewIntervalSet builds a canonical interval set from arbitrary offsets
func NewIntervalSet(offsets ...int) IntervalSet {
	return intervalSetFromMask(maskOf(offsets) | 1)
}

func maskOf(offsets []int) uint16 {
	var mask uint16
	for _, o := range offsets {
		mask |= 1 << uint(NewPitchClass(o))
	}
	return mask
}

func intervalSetFromMask(mask uint16) IntervalSet {
	out := make(IntervalSet, 0, SemitonesPerOctave)
	for i := 0; i < SemitonesPerOctave; i++ {
		if mask&(1<<uint(i)) != 0 {
			out = append(out, i)
		}
	}
	return out
}

// Mask returns the set as a 12-bit membership mask
func (s IntervalSet) Mask() uint16 {
	return maskOf(s)
}

// Contains reports whether offset is a member
func (s IntervalSet) Contains(offset int) bool {
	return s.Mask()&(1<<uint(NewPitchClass(offset))) != 0
}

// Equal reports set equality
func (s IntervalSet) Equal(other IntervalSet) bool {
	return s.Mask() == other.Mask()
}

// IsSubsetOf reports whether every offset of s is in other
func (s IntervalSet) IsSubsetOf(other IntervalSet) bool {
	m := s.Mask()
	return m&other.Mask() == m
}

// Minus returns the sorted offsets of s that are not in other.
// The result may be empty and is not a valid IntervalSet on its own.
func (s IntervalSet) Minus(other IntervalSet) []int {
	diff := s.Mask() &^ other.Mask()
	out := []int{}
	for i := 0; i < SemitonesPerOctave; i++ {
		if diff&(1<<uint(i)) != 0 {
			out = append(out, i)
		}
	}
	return out
}

// Validate checks the canonical form invariants
func (s IntervalSet) Validate() error {
	if len(s) == 0 || s[0] != 0 {
		return ErrMissingRootOffset
	}
	for i := 1; i < len(s); i++ {
		if s[i] <= s[i-1] || s[i] >= SemitonesPerOctave {
			return ErrUnsortedIntervals
		}
	}
	return nil
}

// String renders the offsets, e.g. "0,4,7"
func (s IntervalSet) String() string {
	parts := make([]string, len(s))
	for i, o := range s {
		parts[i] = strconv.Itoa(o)
	}
	return strings.Join(parts, ",")
}
