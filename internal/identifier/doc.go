// Package identifier turns free-form note text into a ranked chord
// identification.
//
// Analyze is the pure pipeline: parse note names, match every pitch class as
// a candidate root against the chord catalog, rank the candidates and render
// the reply text. Identifier wraps it with an LRU cache keyed by the sha256 of
// the NFKC-folded input and optional history recording.
//
//	id, err := identifier.New(identifier.Options{CacheSize: 1000, History: store})
//	if err != nil {
//	    return err
//	}
//	result, err := id.Identify(ctx, "D F# A C")
//	fmt.Println(result.Text)
//	// 1. D7  — dominant 7th (notes: C, D, F#, A)  — likely D/C
//
// Answer is the single-call entry point for chat front ends.
package identifier
