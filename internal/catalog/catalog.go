package catalog

import (
	"github.com/dshills/chordid-mcp/pkg/types"
)

// Shape enumerates every chord shape the catalog recognizes exactly
type Shape int

const (
	ShapeMajor Shape = iota
	ShapeMinor
	ShapeDiminished
	ShapeAugmented
	ShapeSus2
	ShapeSus4
	ShapeDominant7
	ShapeMajor7
	ShapeMinor7
	ShapeHalfDiminished
	ShapeDiminished7
	ShapeMinorMajor7
	ShapeMajor6
	ShapeMinor6

	numShapes
)

// Template is one fixed catalog entry
type Template struct {
	Shape     Shape
	Intervals types.IntervalSet
	Quality   string
	Suffix    string
}

// templates is indexed by Shape; order is the catalog's canonical order
var templates = [numShapes]Template{
	ShapeMajor:          {ShapeMajor, types.IntervalSet{0, 4, 7}, "major triad", ""},
	ShapeMinor:          {ShapeMinor, types.IntervalSet{0, 3, 7}, "minor triad", "m"},
	ShapeDiminished:     {ShapeDiminished, types.IntervalSet{0, 3, 6}, "diminished triad", "dim"},
	ShapeAugmented:      {ShapeAugmented, types.IntervalSet{0, 4, 8}, "augmented triad", "+"},
	ShapeSus2:           {ShapeSus2, types.IntervalSet{0, 2, 7}, "sus2", "sus2"},
	ShapeSus4:           {ShapeSus4, types.IntervalSet{0, 5, 7}, "sus4", "sus4"},
	ShapeDominant7:      {ShapeDominant7, types.IntervalSet{0, 4, 7, 10}, "dominant 7th", "7"},
	ShapeMajor7:         {ShapeMajor7, types.IntervalSet{0, 4, 7, 11}, "major 7th", "maj7"},
	ShapeMinor7:         {ShapeMinor7, types.IntervalSet{0, 3, 7, 10}, "minor 7th", "m7"},
	ShapeHalfDiminished: {ShapeHalfDiminished, types.IntervalSet{0, 3, 6, 10}, "half-diminished (m7♭5)", "m7b5"},
	ShapeDiminished7:    {ShapeDiminished7, types.IntervalSet{0, 3, 6, 9}, "diminished 7th", "dim7"},
	ShapeMinorMajor7:    {ShapeMinorMajor7, types.IntervalSet{0, 3, 7, 11}, "minor major 7th", "m(maj7)"},
	ShapeMajor6:         {ShapeMajor6, types.IntervalSet{0, 4, 7, 9}, "major 6th", "6"},
	ShapeMinor6:         {ShapeMinor6, types.IntervalSet{0, 3, 7, 9}, "minor 6th", "m6"},
}

// byMask indexes templates by interval mask for exact lookup
var byMask = func() map[uint16]Shape {
	m := make(map[uint16]Shape, numShapes)
	for _, t := range templates {
		m[t.Intervals.Mask()] = t.Shape
	}
	return m
}()

// addTones labels a single extra offset beyond a triad or sus base.
// 2 and 9 both read as add9.
var addTones = map[int]string{
	2:  "add9",
	9:  "add9",
	11: "add11",
	6:  "add13",
}

var (
	triadBases = [...]Shape{ShapeMajor, ShapeMinor, ShapeDiminished, ShapeAugmented}
	susBases   = [...]Shape{ShapeSus2, ShapeSus4}
)

// String returns the quality name
func (s Shape) String() string {
	if !s.Valid() {
		return "unknown"
	}
	return templates[s].Quality
}

// Valid reports whether s names a catalog entry
func (s Shape) Valid() bool {
	return s >= 0 && s < numShapes
}

// Template returns the catalog entry for s
func (s Shape) Template() Template {
	return templates[s]
}

// Templates returns every catalog entry in canonical order
func Templates() []Template {
	out := make([]Template, numShapes)
	copy(out, templates[:])
	return out
}

// Lookup finds the template whose interval set equals set exactly
func Lookup(set types.IntervalSet) (Template, bool) {
	shape, ok := byMask[set.Mask()]
	if !ok {
		return Template{}, false
	}
	return templates[shape], true
}

// AddTone returns the add-tone label for an extra offset
func AddTone(offset int) (string, bool) {
	label, ok := addTones[offset]
	return label, ok
}

// TriadBases returns the triad shapes searched for add-tone matches, in order
func TriadBases() []Template {
	out := make([]Template, len(triadBases))
	for i, s := range triadBases {
		out[i] = templates[s]
	}
	return out
}

// SusBases returns the sus shapes searched for overlap matches, in order
func SusBases() []Template {
	out := make([]Template, len(susBases))
	for i, s := range susBases {
		out[i] = templates[s]
	}
	return out
}
