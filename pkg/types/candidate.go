package types

// MatchCandidate is one possible identification produced by the matcher
type MatchCandidate struct {
	Root    PitchClass
	Quality string // e.g. "major triad", "sus2 with add9"
	Suffix  string // e.g. "", "m7", "sus2(add9)"
	Extras  []int  // Offsets not covered by the base shape, ascending
}

// Symbol renders the chord symbol, e.g. "Dm7" or "Ebmaj7"
func (c MatchCandidate) Symbol(preferFlats bool) string {
	return c.Root.Name(preferFlats) + c.Suffix
}

// IsExact reports whether the candidate matched a template without add-tones
func (c MatchCandidate) IsExact() bool {
	return len(c.Extras) == 0
}

// Validate checks that the candidate is well formed
func (c MatchCandidate) Validate() error {
	if err := c.Root.Validate(); err != nil {
		return err
	}
	if c.Quality == "" {
		return ErrEmptyQuality
	}
	return nil
}

// RankedCandidate is a candidate positioned in the ranked output
type RankedCandidate struct {
	MatchCandidate
	Rank  int     // Position in result set (1-based)
	Score float64 // Ranking score, higher first
}

// Validate checks if the ranked candidate is valid
func (rc RankedCandidate) Validate() error {
	if rc.Rank < 1 {
		return ErrInvalidRank
	}
	return rc.MatchCandidate.Validate()
}
