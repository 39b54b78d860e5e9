package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/chordid-mcp/pkg/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        types.PitchClassSet
		preferFlats bool
		tokens      []string
	}{
		{
			name:   "spaces",
			input:  "C E G",
			want:   types.PitchClassSet{0, 4, 7},
			tokens: []string{"C", "E", "G"},
		},
		{
			name:        "commas and flats",
			input:       "Db, F, Ab, C",
			want:        types.PitchClassSet{1, 5, 8, 0},
			preferFlats: true,
			tokens:      []string{"Db", "F", "Ab", "C"},
		},
		{
			name:   "dashes",
			input:  "G-B-D-F",
			want:   types.PitchClassSet{7, 11, 2, 5},
			tokens: []string{"G", "B", "D", "F"},
		},
		{
			name:   "lowercase letters",
			input:  "d f# a c",
			want:   types.PitchClassSet{2, 6, 9, 0},
			tokens: []string{"D", "F#", "A", "C"},
		},
		{
			name:        "unicode accidentals",
			input:       "C♯ E♭ G",
			want:        types.PitchClassSet{1, 3, 7},
			preferFlats: true,
			tokens:      []string{"C#", "Eb", "G"},
		},
		{
			name:   "duplicates keep first-seen order",
			input:  "E G C E C",
			want:   types.PitchClassSet{4, 7, 0},
			tokens: []string{"E", "G", "C", "E", "C"},
		},
		{
			name:   "enharmonic duplicates collapse",
			input:  "C# Db E",
			want:   types.PitchClassSet{1, 4},
			tokens: []string{"C#", "Db", "E"},
			// Db is recognized and flat
			preferFlats: true,
		},
		{
			name:   "unknown names are dropped",
			input:  "Cb E# G",
			want:   types.PitchClassSet{7},
			tokens: []string{"Cb", "E#", "G"},
		},
		{
			name:   "bare B is not a flat",
			input:  "B D F#",
			want:   types.PitchClassSet{11, 2, 6},
			tokens: []string{"B", "D", "F#"},
		},
		{
			name:   "full-width forms fold to ASCII",
			input:  "Ｃ Ｅ Ｇ",
			want:   types.PitchClassSet{0, 4, 7},
			tokens: []string{"C", "E", "G"},
		},
		{
			name:   "no notes",
			input:  "hmm, 123 !!",
			want:   types.PitchClassSet{},
			tokens: []string{},
		},
		{
			name:   "empty",
			input:  "",
			want:   types.PitchClassSet{},
			tokens: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			assert.Equal(t, tt.want, got.PitchClasses)
			assert.Equal(t, tt.preferFlats, got.PreferFlats)
			assert.Equal(t, tt.tokens, got.Tokens)
		})
	}
}

func TestParse_FlatPreferenceOnlyFromRecognizedTokens(t *testing.T) {
	// Fb is not in the name table, so it cannot set the preference
	got := Parse("Fb A C# E")
	assert.False(t, got.PreferFlats)
	assert.Equal(t, types.PitchClassSet{9, 1, 4}, got.PitchClasses)
}

func TestNormalizeToken(t *testing.T) {
	assert.Equal(t, "Eb", NormalizeToken("e♭"))
	assert.Equal(t, "F#", NormalizeToken("f♯"))
	assert.Equal(t, "Bb", NormalizeToken("bb"))
	assert.Equal(t, "A", NormalizeToken("a"))
	assert.Equal(t, "", NormalizeToken(""))
}

func TestLookup(t *testing.T) {
	pc, ok := Lookup("bb")
	assert.True(t, ok)
	assert.Equal(t, types.PitchClass(10), pc)

	_, ok = Lookup("Cb")
	assert.False(t, ok)
}

func BenchmarkParse(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Parse("Db, F, Ab, C, Eb, G♭")
	}
}
