package gravity

import (
	"fmt"
	"math"

	"github.com/freightflow/gravmod/costfunc"
	"github.com/freightflow/gravmod/distribution"
	"github.com/freightflow/gravmod/furness"
	"github.com/freightflow/gravmod/matrix"
)

// stage is the driver's explicit state. Transitions run strictly forward:
// seeded → furnessed → compared → done; Calibrate re-enters at seeded with
// adjusted parameters.
type stage int

const (
	stageSeeded stage = iota
	stageFurnessed
	stageCompared
	stageDone
)

// Run executes one gravity-model pass for a segment. When
// cfg.SelfCalibrate is set it delegates to Calibrate and returns the
// best pass found (the full search record is available via Calibrate).
//
// The returned matrix is freshly allocated; in never aliases it.
func Run(in Inputs, cfg Config) (*RunResult, error) {
	if cfg.SelfCalibrate {
		cal, err := Calibrate(in, cfg)
		if err != nil {
			return nil, err
		}

		return cal.Run, nil
	}

	return runOnce(in, cfg)
}

// runOnce is one SEEDED→FURNESSED→COMPARED→DONE traversal.
func runOnce(in Inputs, cfg Config) (*RunResult, error) {
	if err := validate(in, cfg); err != nil {
		return nil, err
	}

	res := &RunResult{}
	var seed *matrix.Dense
	var err error

	for st := stageSeeded; st != stageDone; {
		switch st {
		case stageSeeded:
			seed, err = buildSeed(in, cfg)
			if err != nil {
				return nil, err
			}
			st = stageFurnessed

		case stageFurnessed:
			if err = applyFurness(in, cfg, seed, res); err != nil {
				return nil, err
			}
			st = stageCompared

		case stageCompared:
			var opts []distribution.CompareOption
			if in.Mask != nil {
				opts = append(opts, distribution.WithMask(in.Mask))
			}
			res.Comparison, err = distribution.Compare(res.Trips, in.Costs, in.Bands, opts...)
			if err != nil {
				return nil, err
			}
			st = stageDone
		}
	}

	return res, nil
}

// buildSeed evaluates the deterrence function over the cost matrix and
// multiplies in the calibration adjustment when present.
func buildSeed(in Inputs, cfg Config) (*matrix.Dense, error) {
	seed, err := costfunc.Evaluate(cfg.Function, in.Costs)
	if err != nil {
		return nil, err
	}
	if in.Calibration != nil {
		if err = in.Calibration.CheckNonNegative(); err != nil {
			return nil, fmt.Errorf("calibration matrix: %w", err)
		}
		if err = seed.MulElem(in.Calibration); err != nil {
			return nil, fmt.Errorf("calibration matrix: %w", err)
		}
	}

	return seed, nil
}

// applyFurness runs the configured constraint mode and converts the
// furnessing diagnostics into run warnings.
func applyFurness(in Inputs, cfg Config, seed *matrix.Dense, res *RunResult) error {
	var err error
	switch cfg.Constraint {
	case furness.ConstraintSingle:
		target := in.RowTargets
		if cfg.Axis == furness.Cols {
			target = in.ColTargets
		}
		res.Trips, res.Furness, err = furness.Single(seed, target, cfg.Axis)

	case furness.ConstraintDouble:
		checkTripEndTotals(in, cfg, res)
		res.Trips, res.Furness, err = furness.Double(seed, in.RowTargets, in.ColTargets, cfg.Furness)

	default:
		return fmt.Errorf("got %d: %w", cfg.Constraint, ErrBadConstraint)
	}
	if err != nil {
		return err
	}

	if !res.Furness.Converged && cfg.Constraint == furness.ConstraintDouble {
		res.warn(WarnNotConverged, 0, "furnessing did not converge: %s", res.Furness.Message)
	}
	for _, i := range res.Furness.UnreachableRows {
		res.warn(WarnUnreachableDemand, in.Zones[i],
			"zone %d has row target %g but no seed mass; left at zero", in.Zones[i], in.RowTargets[i])
	}
	for _, j := range res.Furness.UnreachableCols {
		res.warn(WarnUnreachableDemand, in.Zones[j],
			"zone %d has column target %g but no seed mass; left at zero", in.Zones[j], in.ColTargets[j])
	}

	return nil
}

// checkTripEndTotals warns when the row/column grand totals disagree by
// more than the configured relative tolerance. The targets are used as
// given: double furnessing toward two inconsistent totals is bounded by
// the iteration cap and tolerance, and that is reported, not hidden.
func checkTripEndTotals(in Inputs, cfg Config, res *RunResult) {
	tol := cfg.TripEndTolerance
	if tol <= 0 {
		tol = DefaultTripEndTolerance
	}
	var rows, cols float64
	for _, v := range in.RowTargets {
		rows += v
	}
	for _, v := range in.ColTargets {
		cols += v
	}
	scale := math.Max(math.Abs(rows), math.Abs(cols))
	if scale == 0 {
		return
	}
	if math.Abs(rows-cols)/scale > tol {
		res.warn(WarnTripEndMismatch, 0,
			"trip-end grand totals differ by %.2f%% (rows %.6g, cols %.6g); furnessing proceeds without rescaling",
			100*math.Abs(rows-cols)/scale, rows, cols)
	}
}

// validate performs the fatal configuration and data checks up front, so
// the state machine only ever sees consistent inputs.
func validate(in Inputs, cfg Config) error {
	if cfg.Function == nil {
		return ErrNoFunction
	}
	if err := cfg.Function.Validate(); err != nil {
		return err
	}
	if cfg.Constraint != furness.ConstraintSingle && cfg.Constraint != furness.ConstraintDouble {
		return fmt.Errorf("got %d: %w", cfg.Constraint, ErrBadConstraint)
	}
	if in.Costs == nil {
		return fmt.Errorf("cost matrix: %w", matrix.ErrNilMatrix)
	}
	if err := in.Costs.CheckSquare(); err != nil {
		return err
	}

	n := in.Costs.Rows()
	if len(in.Zones) == 0 {
		return ErrNoZones
	}
	if len(in.Zones) != n {
		return fmt.Errorf("%d zones for a %dx%d cost matrix: %w",
			len(in.Zones), n, n, matrix.ErrDimensionMismatch)
	}
	seen := make(map[int]struct{}, n)
	for _, z := range in.Zones {
		if _, dup := seen[z]; dup {
			return fmt.Errorf("zone %d: %w", z, ErrDuplicateZone)
		}
		seen[z] = struct{}{}
	}

	needRows := cfg.Constraint == furness.ConstraintDouble || cfg.Axis == furness.Rows
	needCols := cfg.Constraint == furness.ConstraintDouble || cfg.Axis == furness.Cols
	if needRows && len(in.RowTargets) == 0 || needCols && len(in.ColTargets) == 0 {
		return ErrMissingTargets
	}
	if needRows && len(in.RowTargets) != n || needCols && len(in.ColTargets) != n {
		return fmt.Errorf("trip-end vector length vs %d zones: %w", n, matrix.ErrDimensionMismatch)
	}

	return distribution.ValidateBands(in.Bands)
}
