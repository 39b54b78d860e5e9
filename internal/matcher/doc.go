// Package matcher derives interval sets, matches them against the chord
// catalog and ranks the resulting candidates.
//
// Every function is pure: inputs are request-scoped values and the only
// shared state is the immutable catalog.
//
// # Matching
//
// MatchAll treats each input pitch class as a candidate root, in input order.
// For each root it computes the interval set and runs three branches:
//
//  1. Exact: the set equals a catalog template. The other branches are skipped.
//  2. Triad + add-tones: a base triad is a subset and every extra offset has an
//     add-tone label. Triads with unlabeled extras produce nothing.
//  3. Sus + add-tones: a sus shape is a subset. The candidate is always
//     emitted; labeled extras are annotated, unlabeled ones only recorded.
//
// The triad/sus asymmetry is intentional and must be preserved.
//
// # Ranking
//
// Score adds 2 for a suffix containing "7" or "6", 1 for a candidate without
// extras, and 0.5 when the root is the lowest input pitch class. Rank sorts
// stably by score so ties keep root order, then branch order.
//
//	cands, err := matcher.MatchAll(pcs)
//	lowest, _ := pcs.Lowest()
//	top := matcher.Rank(cands, lowest, matcher.MaxCandidates)
package matcher
