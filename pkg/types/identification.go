package types

import "time"

// Outcome classifies how an identification request resolved
type Outcome string

const (
	OutcomeMatched      Outcome = "matched"            // At least one candidate
	OutcomeUnmatched    Outcome = "unmatched"          // Interval-set fallback
	OutcomeInsufficient Outcome = "insufficient_notes" // Fewer than 3 distinct pitch classes
	OutcomeNoNotes      Outcome = "no_notes"           // No note tokens at all
)

// Validate checks that the outcome is one of the known values
func (o Outcome) Validate() error {
	switch o {
	case OutcomeMatched, OutcomeUnmatched, OutcomeInsufficient, OutcomeNoNotes:
		return nil
	default:
		return ErrUnknownOutcome
	}
}

// Identification is the full result of identifying one note collection
type Identification struct {
	// Request
	ID    string // Assigned when the request is recorded in history
	Input string

	// Normalized input
	Tokens       []string
	PitchClasses PitchClassSet
	PreferFlats  bool

	// Matching
	Outcome         Outcome
	Candidates      []RankedCandidate // Top candidates, at most MaxCandidates
	TotalCandidates int               // Candidates produced before truncation
	Intervals       IntervalSet       // From the lowest pitch class; set for every outcome with notes

	// Presentation
	SlashChord string // "Root/Bass" when the top root is not the lowest pitch class
	Text       string

	// Metadata
	CacheHit bool
	Duration time.Duration
}

// Top returns the best candidate, if any
func (id *Identification) Top() (RankedCandidate, bool) {
	if len(id.Candidates) == 0 {
		return RankedCandidate{}, false
	}
	return id.Candidates[0], true
}

// Symbol returns the top chord symbol, or "" when nothing matched
func (id *Identification) Symbol() string {
	top, ok := id.Top()
	if !ok {
		return ""
	}
	return top.Symbol(id.PreferFlats)
}

// Clone returns a deep copy safe to hand out from a shared cache
func (id *Identification) Clone() *Identification {
	if id == nil {
		return nil
	}
	dst := *id
	dst.Tokens = append([]string(nil), id.Tokens...)
	dst.PitchClasses = append(PitchClassSet(nil), id.PitchClasses...)
	dst.Intervals = append(IntervalSet(nil), id.Intervals...)
	dst.Candidates = make([]RankedCandidate, len(id.Candidates))
	for i, c := range id.Candidates {
		c.Extras = append([]int(nil), c.Extras...)
		dst.Candidates[i] = c
	}
	return &dst
}
