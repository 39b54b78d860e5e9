package catalog

import (
	"github.com/dshills/chordid-mcp/pkg/types"
)

// Voicing is one catalog shape transposed to a concrete root
type Voicing struct {
	Root         types.PitchClass
	Shape        Shape
	Name         string              // Sharp-spelled chord symbol, e.g. "C#m7"
	PitchClasses types.PitchClassSet // Chord tones in interval order from the root
}

// Voicings lists every shape on every root: roots ascending, shapes in catalog order
func Voicings() []Voicing {
	out := make([]Voicing, 0, types.SemitonesPerOctave*int(numShapes))
	for root := 0; root < types.SemitonesPerOctave; root++ {
		out = append(out, VoicingsForRoot(types.PitchClass(root))...)
	}
	return out
}

// VoicingsForRoot lists every shape on a single root
func VoicingsForRoot(root types.PitchClass) []Voicing {
	root = types.NewPitchClass(int(root))
	out := make([]Voicing, 0, numShapes)
	for _, t := range templates {
		pcs := make(types.PitchClassSet, len(t.Intervals))
		for i, offset := range t.Intervals {
			pcs[i] = types.NewPitchClass(int(root) + offset)
		}
		out = append(out, Voicing{
			Root:         root,
			Shape:        t.Shape,
			Name:         root.Name(false) + t.Suffix,
			PitchClasses: pcs,
		})
	}
	return out
}
