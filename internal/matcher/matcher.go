package matcher

import (
	"strings"

	"github.com/dshills/chordid-mcp/internal/catalog"
	"github.com/dshills/chordid-mcp/pkg/types"
)

// MinDistinctNotes is the smallest pitch-class set the matcher will name
const MinDistinctNotes = 3

// MatchAll tries every pitch class in pcs as the root, in input order, and
// collects every qualifying candidate. Duplicates across roots and branches
// are kept. An empty, nil-error result means nothing matched.
func MatchAll(pcs types.PitchClassSet) ([]types.MatchCandidate, error) {
	if len(pcs) < MinDistinctNotes {
		return nil, types.ErrInsufficientNotes
	}

	var matches []types.MatchCandidate
	for _, root := range pcs {
		matches = append(matches, matchRoot(pcs, root)...)
	}
	return matches, nil
}

// matchRoot runs the three branches for a single candidate root
func matchRoot(pcs types.PitchClassSet, root types.PitchClass) []types.MatchCandidate {
	base := IntervalsFromRoot(pcs, root)

	// An exact template match ends the search for this root
	if t, ok := catalog.Lookup(base); ok {
		return []types.MatchCandidate{{
			Root:    root,
			Quality: t.Quality,
			Suffix:  t.Suffix,
			Extras:  []int{},
		}}
	}

	var out []types.MatchCandidate

	// Triad plus add-tones: every extra must have a label
	for _, triad := range catalog.TriadBases() {
		if !triad.Intervals.IsSubsetOf(base) {
			continue
		}
		extras := base.Minus(triad.Intervals)
		labels, complete := addToneLabels(extras)
		if len(extras) == 0 || !complete {
			continue
		}
		out = append(out, annotate(root, triad, extras, labels))
	}

	// Sus plus add-tones: always emitted, unlabeled extras are still recorded
	for _, sus := range catalog.SusBases() {
		if !sus.Intervals.IsSubsetOf(base) {
			continue
		}
		extras := base.Minus(sus.Intervals)
		labels, _ := addToneLabels(extras)
		out = append(out, annotate(root, sus, extras, labels))
	}

	return out
}

// addToneLabels labels each extra it can; complete is false if any had no rule
func addToneLabels(extras []int) (labels []string, complete bool) {
	complete = true
	for _, e := range extras {
		label, ok := catalog.AddTone(e)
		if !ok {
			complete = false
			continue
		}
		labels = append(labels, label)
	}
	return labels, complete
}

// annotate builds "<quality> with add9/add11" and "<suffix>(add9 add11)"
func annotate(root types.PitchClass, base catalog.Template, extras []int, labels []string) types.MatchCandidate {
	c := types.MatchCandidate{
		Root:    root,
		Quality: base.Quality,
		Suffix:  base.Suffix,
		Extras:  extras,
	}
	if len(labels) > 0 {
		c.Quality += " with " + strings.Join(labels, "/")
		c.Suffix += "(" + strings.Join(labels, " ") + ")"
	}
	return c
}
