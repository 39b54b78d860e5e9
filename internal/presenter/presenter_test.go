package presenter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/chordid-mcp/pkg/types"
)

func ranked(root types.PitchClass, quality, suffix string, rank int) types.RankedCandidate {
	return types.RankedCandidate{
		MatchCandidate: types.MatchCandidate{Root: root, Quality: quality, Suffix: suffix},
		Rank:           rank,
	}
}

func TestMatches(t *testing.T) {
	got := Matches(
		[]types.RankedCandidate{ranked(0, "minor 7th", "m7", 1), ranked(3, "major 6th", "6", 2)},
		types.PitchClassSet{0, 3, 7, 10},
		true,
		"",
	)
	want := "1. Cm7  — minor 7th (notes: C, Eb, G, Bb)\n" +
		"2. Eb6  — major 6th (notes: C, Eb, G, Bb)"
	assert.Equal(t, want, got)
}

func TestMatches_SlashHintOnFirstLineOnly(t *testing.T) {
	got := Matches(
		[]types.RankedCandidate{ranked(2, "dominant 7th", "7", 1), ranked(0, "x", "", 2)},
		types.PitchClassSet{2, 6, 9, 0},
		false,
		"D/C",
	)
	want := "1. D7  — dominant 7th (notes: C, D, F#, A)  — likely D/C\n" +
		"2. C  — x (notes: C, D, F#, A)"
	assert.Equal(t, want, got)
}

func TestSlashChord(t *testing.T) {
	assert.Equal(t, "D/C", SlashChord(ranked(2, "dominant 7th", "7", 1), 0, false))
	assert.Equal(t, "Eb/C", SlashChord(ranked(3, "major 6th", "6", 1), 0, true))
	assert.Equal(t, "", SlashChord(ranked(0, "major triad", "", 1), 0, false))
}

func TestUnmatched(t *testing.T) {
	got := Unmatched(0, types.IntervalSet{0, 1, 2}, false)
	assert.Equal(t,
		"I couldn't confidently name that chord. Interval set from C: 0,1,2.\n"+
			"Try removing extensions/duplicates or check note spelling (sharps vs flats).",
		got)
}

func TestRender(t *testing.T) {
	assert.Equal(t, NoNotesMessage, Render(&types.Identification{Outcome: types.OutcomeNoNotes}))
	assert.Equal(t, InsufficientNotesMessage, Render(&types.Identification{Outcome: types.OutcomeInsufficient}))
	assert.Contains(t,
		Render(&types.Identification{
			Outcome:      types.OutcomeUnmatched,
			PitchClasses: types.PitchClassSet{3, 2, 4},
			Intervals:    types.IntervalSet{0, 1, 2},
			PreferFlats:  true,
		}),
		"Interval set from D: 0,1,2.")
	assert.Equal(t,
		"1. C  — major triad (notes: C, E, G)",
		Render(&types.Identification{
			Outcome:      types.OutcomeMatched,
			PitchClasses: types.PitchClassSet{4, 7, 0},
			Candidates:   []types.RankedCandidate{ranked(0, "major triad", "", 1)},
		}))
}
