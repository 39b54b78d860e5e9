// Package catalog holds the fixed chord-shape tables used for matching.
//
// Every table is built once at package initialization and never mutated,
// so lookups are safe from any number of goroutines without locking.
//
// # Shapes
//
// Shape is a closed enumeration of the fourteen recognized shapes: four
// triads, two sus chords, six sevenths and two sixths. Each maps to a
// canonical interval set, a quality name and a display suffix:
//
//	t, ok := catalog.Lookup(types.NewIntervalSet(0, 4, 7, 10))
//	// t.Quality == "dominant 7th", t.Suffix == "7"
//
// # Add-Tones
//
// AddTone labels one extra offset beyond a triad or sus base: 2 and 9 as
// add9, 11 as add11, 6 as add13. TriadBases and SusBases list the base
// shapes the matcher searches when no exact template applies.
//
// # Voicings
//
// Voicings enumerates every shape on all twelve roots, which is useful for
// listing the catalog and for exhaustive round-trip checks.
package catalog
