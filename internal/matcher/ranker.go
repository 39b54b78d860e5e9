package matcher

import (
	"sort"
	"strings"

	"github.com/dshills/chordid-mcp/pkg/types"
)

// MaxCandidates is how many ranked candidates are presented
const MaxCandidates = 3

// Scoring weights
const (
	scoreSeventhOrSixth = 2.0
	scoreExact          = 1.0
	scoreRootPosition   = 0.5
)

// Score rates a candidate; higher is better. lowest is the lowest pitch class
// of the input.
func Score(c types.MatchCandidate, lowest types.PitchClass) float64 {
	score := 0.0
	if strings.ContainsAny(c.Suffix, "76") {
		score += scoreSeventhOrSixth
	}
	if c.IsExact() {
		score += scoreExact
	}
	if c.Root == lowest {
		score += scoreRootPosition
	}
	return score
}

// Rank orders candidates by Score, keeping generation order on ties, and
// returns at most limit of them with 1-based ranks. limit <= 0 keeps all.
func Rank(candidates []types.MatchCandidate, lowest types.PitchClass, limit int) []types.RankedCandidate {
	ranked := make([]types.RankedCandidate, len(candidates))
	for i, c := range candidates {
		ranked[i] = types.RankedCandidate{MatchCandidate: c, Score: Score(c, lowest)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
