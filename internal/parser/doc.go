// Package parser normalizes free-form note text into pitch classes.
//
// The parser scans for note-letter tokens (A-G, case-insensitive) optionally
// followed by one accidental: '#', 'b', or the Unicode '♯' and '♭'. Commas,
// dashes, whitespace and any other characters are separators.
//
// # Basic Usage
//
//	res := parser.Parse("Db, F, Ab, C")
//	res.PitchClasses // [1 5 8 0]
//	res.PreferFlats  // true
//
// # Normalization
//
// Input is NFKC-folded first, so full-width letters and signs behave like
// their ASCII forms. Each token becomes an uppercase letter plus an ASCII
// accidental and is looked up in a fixed name table. Names outside the table
// (Cb, Fb, E#, B#) are dropped silently.
//
// # Flat Preference
//
// PreferFlats is set when any recognized token carries a flat marker. It only
// affects how pitch classes are spelled in rendered output, never matching.
package parser
