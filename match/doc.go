// Package match implements greedy 1:1 nearest-neighbour matching on a scalar
// score with a caliper, without replacement.
//
// # Algorithm
//
// Treated units are visited once, in original table order (never sorted by
// score). Each takes the nearest control that has not been consumed yet. The
// pair is accepted when its distance |Δscore| is within the caliper, and the
// control is then consumed for good. A treated unit whose nearest unused
// control lies beyond the caliper, or that finds none, is excluded. There is
// no backtracking: later exclusions never disturb earlier matches.
//
// The result is greedy and order dependent. It is not the minimum total
// distance assignment.
//
// # Tie-break
//
// Among unused controls at exactly the same distance, the one that appears
// first in control table order wins. Both index kinds apply this rule, so
// IndexFlat and IndexSorted return identical results.
//
// # Index kinds
//
//   - IndexSorted (default): binary search over score-sorted controls with
//     path-compressed skip links over consumed entries.
//   - IndexFlat: linear scan, O(n) per treated unit. Useful as a reference.
//
// # Usage
//
//	m, err := match.New(0.2)
//	res, err := m.Match(ctx, tbl.Partition(scores))
//	ds := res.Dataset(tbl)
package match
