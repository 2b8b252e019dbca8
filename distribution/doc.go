// Package distribution compares a modelled trip matrix against an observed
// trip-length distribution.
//
// The observed distribution arrives as ordered cost bands
// [Start, End) (contiguous, non-overlapping, increasing) with the final
// band unbounded above. Compare sums the trip matrix into those bands by
// cost, normalizes both sides to shares summing to 1 (so shape is compared
// independent of matrix grand total), and reports:
//
//   - SquaredError — Σ(observed share − modelled share)², the objective
//     minimized by the gravity model's self-calibration loop;
//   - RSquared     — goodness of fit between the two share vectors,
//     floored at 0 (a fit worse than the observed mean reports 0).
//
// A calibration sub-area can be supplied via WithMask: only zone pairs with
// a positive mask value contribute to the modelled bands, which lets the
// calibration loop score against the area the observed distribution was
// surveyed in.
package distribution
