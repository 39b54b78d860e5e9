package parser

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/dshills/chordid-mcp/pkg/types"
)

// noteToken matches a note letter optionally followed by one accidental.
// Everything else in the input acts as a separator.
var noteToken = regexp.MustCompile(`[A-Ga-g](?:#|b|♯|♭)?`)

// nameToPitchClass maps canonical note names to pitch classes.
// Both enharmonic spellings are present; Cb, Fb, E# and B# are not.
var nameToPitchClass = map[string]types.PitchClass{
	// naturals
	"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11,
	// sharps
	"C#": 1, "D#": 3, "F#": 6, "G#": 8, "A#": 10,
	// flats
	"Db": 1, "Eb": 3, "Gb": 6, "Ab": 8, "Bb": 10,
}

// Result is the normalized form of one note collection
type Result struct {
	PitchClasses types.PitchClassSet // Unique, first-seen order
	PreferFlats  bool                // A recognized token used a flat marker
	Tokens       []string            // Every normalized token, recognized or not
}

// Fold applies NFKC so full-width and compatibility forms tokenize like ASCII
func Fold(text string) string {
	return norm.NFKC.String(text)
}

// Parse extracts pitch classes from free-form text. It never fails:
// unknown tokens are dropped and an empty input yields an empty Result.
func Parse(text string) Result {
	raw := noteToken.FindAllString(Fold(text), -1)

	result := Result{
		PitchClasses: make(types.PitchClassSet, 0, len(raw)),
		Tokens:       make([]string, 0, len(raw)),
	}
	seen := make(map[types.PitchClass]bool, len(raw))

	for _, r := range raw {
		tok := NormalizeToken(r)
		result.Tokens = append(result.Tokens, tok)

		pc, ok := nameToPitchClass[tok]
		if !ok {
			continue
		}
		if strings.HasSuffix(tok, "b") {
			result.PreferFlats = true
		}
		if !seen[pc] {
			seen[pc] = true
			result.PitchClasses = append(result.PitchClasses, pc)
		}
	}

	return result
}

// NormalizeToken uppercases the letter and maps Unicode accidentals to # and b
func NormalizeToken(tok string) string {
	if tok == "" {
		return ""
	}
	letter := strings.ToUpper(tok[:1])
	accidental := tok[1:]
	switch accidental {
	case "♯":
		accidental = "#"
	case "♭":
		accidental = "b"
	}
	return letter + accidental
}

// Lookup returns the pitch class for a normalized note name
func Lookup(name string) (types.PitchClass, bool) {
	pc, ok := nameToPitchClass[NormalizeToken(name)]
	return pc, ok
}
