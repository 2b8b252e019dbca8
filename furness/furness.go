package furness

import (
	"fmt"
	"math"

	"github.com/freightflow/gravmod/matrix"
)

// stallEpsilon bounds how much residuals may differ and still count as
// "not improving" for the StallLimit check.
const stallEpsilon = 1e-9

// Single factors seed once so that its totals along the given axis match
// target. The unconstrained axis keeps the seed's relative proportions.
// Lines with zero seed mass cannot be filled: they stay at zero and, when
// their target is positive, are flagged unreachable in the Result.
//
// Complexity: O(N²) time, O(N²) memory for the returned matrix.
func Single(seed *matrix.Dense, target []float64, axis Axis) (*matrix.Dense, Result, error) {
	if axis != Rows && axis != Cols {
		return nil, Result{}, ErrBadAxis
	}
	if err := checkInputs(seed, target); err != nil {
		return nil, Result{}, err
	}

	m := seed.Clone()
	res := Result{Constraint: ConstraintSingle, Iterations: 1, Converged: true}

	unreachable := factorAxis(m, target, axis)
	if axis == Rows {
		res.UnreachableRows = unreachable
	} else {
		res.UnreachableCols = unreachable
	}

	// Residual on the constrained axis: zero unless lines were unreachable.
	var sums []float64
	if axis == Rows {
		sums = m.RowSums()
	} else {
		sums = m.ColSums()
	}
	for i, s := range sums {
		if d := math.Abs(s - target[i]); d > res.Residual {
			res.Residual = d
		}
	}
	res.History = []float64{res.Residual}
	res.Message = fmt.Sprintf("matrix factored to target totals on %s", axis)

	return m, res, nil
}

// Double runs the doubly-constrained furness: each loop scales rows to
// rowTargets then columns to colTargets, until the maximum absolute
// marginal residual is within opts.Tolerance, opts.MaxIterations loops
// have run, the residual stalls, or the matrix goes non-finite. All of
// the non-converged outcomes return the best-effort matrix with
// Result.Converged=false, never an error.
//
// Complexity: O(loops · N²) time, O(N²) memory.
func Double(seed *matrix.Dense, rowTargets, colTargets []float64, opts Options) (*matrix.Dense, Result, error) {
	opts.normalize()
	if err := checkInputs(seed, rowTargets); err != nil {
		return nil, Result{}, err
	}
	if err := checkInputs(seed, colTargets); err != nil {
		return nil, Result{}, err
	}

	m := seed.Clone()
	res := Result{Constraint: ConstraintDouble}
	res.UnreachableRows = unreachableLines(m.RowSums(), rowTargets)
	res.UnreachableCols = unreachableLines(m.ColSums(), colTargets)

	res.Residual = maxResidual(m, rowTargets, colTargets)
	res.History = append(res.History, res.Residual)

	for loop := 1; loop <= opts.MaxIterations; loop++ {
		factorAxis(m, rowTargets, Rows)
		factorAxis(m, colTargets, Cols)

		res.Iterations = loop
		res.Residual = maxResidual(m, rowTargets, colTargets)
		res.History = append(res.History, res.Residual)

		if err := m.CheckFinite(); err != nil {
			res.Message = fmt.Sprintf("matrix contains non-finite values, stopping furness on loop %d", loop)

			return m, res, nil
		}
		if res.Residual <= opts.Tolerance {
			res.Converged = true
			res.Message = fmt.Sprintf("furness converged on loop %d with max residual %.2e", loop, res.Residual)

			return m, res, nil
		}
		if stalled(res.History, opts.StallLimit) {
			res.Message = fmt.Sprintf("residual %.2e has not improved for %d loops, stopping on loop %d",
				res.Residual, opts.StallLimit, loop)

			return m, res, nil
		}
	}

	res.Message = fmt.Sprintf("reached maximum number of loops (%d) with max residual %.2e",
		opts.MaxIterations, res.Residual)

	return m, res, nil
}

// checkInputs validates the seed/target pairing shared by Single and Double.
func checkInputs(seed *matrix.Dense, target []float64) error {
	if seed == nil {
		return matrix.ErrNilMatrix
	}
	if err := seed.CheckSquare(); err != nil {
		return err
	}
	if len(target) != seed.Rows() {
		return fmt.Errorf("target length %d, matrix dimension %d: %w",
			len(target), seed.Rows(), matrix.ErrDimensionMismatch)
	}
	for i, v := range target {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("target[%d] = %g: %w", i, v, matrix.ErrNaNInf)
		}
		if v < 0 {
			return fmt.Errorf("target[%d] = %g: %w", i, v, ErrNegativeTarget)
		}
	}

	return seed.CheckNonNegative()
}

// factorAxis scales each line of m along axis so its total matches the
// target. Lines whose current total is zero are left untouched (a zero
// line cannot be scaled into existence); indices of such lines with a
// positive target are returned.
func factorAxis(m *matrix.Dense, targets []float64, axis Axis) []int {
	var sums []float64
	if axis == Rows {
		sums = m.RowSums()
	} else {
		sums = m.ColSums()
	}

	var unreachable []int
	for i, cur := range sums {
		if cur == 0 {
			if targets[i] > 0 {
				unreachable = append(unreachable, i)
			}
			continue
		}
		if axis == Rows {
			m.ScaleRow(i, targets[i]/cur)
		} else {
			m.ScaleCol(i, targets[i]/cur)
		}
	}

	return unreachable
}

// maxResidual returns the largest absolute difference between m's marginal
// totals and the given targets, across both axes.
func maxResidual(m *matrix.Dense, rowTargets, colTargets []float64) float64 {
	var worst float64
	for i, s := range m.RowSums() {
		if d := math.Abs(s - rowTargets[i]); d > worst {
			worst = d
		}
	}
	for j, s := range m.ColSums() {
		if d := math.Abs(s - colTargets[j]); d > worst {
			worst = d
		}
	}

	return worst
}

// unreachableLines returns indices with zero current mass but positive target.
func unreachableLines(sums, targets []float64) []int {
	var idx []int
	for i, s := range sums {
		if s == 0 && targets[i] > 0 {
			idx = append(idx, i)
		}
	}

	return idx
}

// stalled reports whether the last `limit` residuals are effectively equal.
// History includes the pre-loop residual, so at least limit+1 entries are
// required before the check can fire.
func stalled(history []float64, limit int) bool {
	if limit <= 0 || len(history) <= limit {
		return false
	}
	window := history[len(history)-limit:]
	first := window[0]
	scale := math.Max(1, math.Abs(first))
	for _, r := range window[1:] {
		if math.Abs(r-first) > stallEpsilon*scale {
			return false
		}
	}

	return true
}
