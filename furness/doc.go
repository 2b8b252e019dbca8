// Package furness implements matrix factoring and iterative proportional
// fitting (IPF, "furnessing"): rescaling a seed matrix so that its row
// and/or column totals match target trip ends.
//
// Two constraint modes exist:
//
//	Single — one elementwise scaling pass against a single target vector
//	         (rows or columns); used for origin/destination bush segments
//	         where only one side has trip-end control.
//	Double — classic IPF: alternately scale rows to the row targets and
//	         columns to the column targets until the largest absolute
//	         marginal residual drops below Options.Tolerance, the
//	         iteration cap is hit, or the residual stops improving.
//
// Hitting the cap (or stalling) is not an error: the partially-converged
// matrix is still returned, with Result.Converged=false and the final
// residual in Result.Residual; the caller decides whether that is
// acceptable. Zones that cannot be filled at all (zero seed mass but a
// positive target) are reported per-line in Result.UnreachableRows /
// UnreachableCols and left at zero.
//
// The caller's seed matrix is never mutated; every call works on a copy.
package furness
