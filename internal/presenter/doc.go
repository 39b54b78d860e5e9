// Package presenter renders identifications as chat text.
//
// Matched results become numbered lines of the form
//
//	1. D7  — dominant 7th (notes: C, D, F#, A)  — likely D/C
//
// where the trailing slash-chord hint appears only on the first line and
// only when the top candidate's root differs from the lowest input pitch
// class. Unmatched input gets the interval set from the lowest pitch class
// and a spelling hint; short input gets a guidance message.
package presenter
