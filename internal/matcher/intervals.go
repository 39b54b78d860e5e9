package matcher

import (
	"github.com/dshills/chordid-mcp/pkg/types"
)

// IntervalsFromRoot computes the sorted, deduplicated offsets of every pitch
// class from root. 0 is always present, even when root is not in pcs.
func IntervalsFromRoot(pcs types.PitchClassSet, root types.PitchClass) types.IntervalSet {
	offsets := make([]int, 0, len(pcs)+1)
	offsets = append(offsets, 0)
	for _, p := range pcs {
		offsets = append(offsets, int(p)-int(root))
	}
	return types.NewIntervalSet(offsets...)
}
