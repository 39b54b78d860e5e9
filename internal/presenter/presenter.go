package presenter

import (
	"fmt"
	"strings"

	"github.com/dshills/chordid-mcp/pkg/types"
)

// Guidance messages
const (
	NoNotesMessage = "Tell me 3+ notes (e.g., 'C E G' or 'Db, F, Ab, C'). " +
		"I support #/b and unicode ♯/♭."
	InsufficientNotesMessage = "Please provide at least 3 distinct note names (e.g., C E G or C, Eb, G)."
	spellingHint             = "Try removing extensions/duplicates or check note spelling (sharps vs flats)."
)

// Render produces the user-facing text for an identification
func Render(id *types.Identification) string {
	switch id.Outcome {
	case types.OutcomeNoNotes:
		return NoNotesMessage
	case types.OutcomeInsufficient:
		return InsufficientNotesMessage
	case types.OutcomeUnmatched:
		lowest, _ := id.PitchClasses.Lowest()
		return Unmatched(lowest, id.Intervals, id.PreferFlats)
	default:
		return Matches(id.Candidates, id.PitchClasses, id.PreferFlats, id.SlashChord)
	}
}

// Matches renders one numbered line per candidate. slash, when set, is
// appended to the first line as the inversion hint.
func Matches(ranked []types.RankedCandidate, pcs types.PitchClassSet, preferFlats bool, slash string) string {
	spelled := pcs.Spell(preferFlats)
	lines := make([]string, len(ranked))
	for i, c := range ranked {
		lines[i] = fmt.Sprintf("%d. %s  — %s (notes: %s)", i+1, c.Symbol(preferFlats), c.Quality, spelled)
	}
	if slash != "" && len(lines) > 0 {
		lines[0] += "  — likely " + slash
	}
	return strings.Join(lines, "\n")
}

// SlashChord returns "Root/Bass" when the top root is not the lowest input
// pitch class, and "" otherwise
func SlashChord(top types.RankedCandidate, lowest types.PitchClass, preferFlats bool) string {
	if top.Root == lowest {
		return ""
	}
	return top.Root.Name(preferFlats) + "/" + lowest.Name(preferFlats)
}

// Unmatched renders the interval-set fallback anchored at lowest. intervals
// are the offsets of every input pitch class from lowest.
func Unmatched(lowest types.PitchClass, intervals types.IntervalSet, preferFlats bool) string {
	return fmt.Sprintf("I couldn't confidently name that chord. Interval set from %s: %s.\n%s",
		lowest.Name(preferFlats), intervals, spellingHint)
}
