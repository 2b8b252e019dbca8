package gravity_test

import (
	"context"
	"math"
	"testing"

	"github.com/freightflow/gravmod/costfunc"
	"github.com/freightflow/gravmod/furness"
	"github.com/freightflow/gravmod/gravity"
	"github.com/freightflow/gravmod/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// calibrationInputs builds a synthetic segment whose observed distribution
// was generated by a known Tanner parameterization, so the search has a
// reachable optimum.
func calibrationInputs(t *testing.T, target costfunc.CostFunction) gravity.Inputs {
	t.Helper()
	in := fourZoneInputs(t)

	ref, err := gravity.Run(in, gravity.Config{
		Function:   target,
		Constraint: furness.ConstraintDouble,
	})
	require.NoError(t, err)

	// Replace the observed bands with the reference model's distribution.
	for i := range in.Bands {
		in.Bands[i].Observed = ref.Comparison.Modelled[i]
	}

	return in
}

// TestCalibrate_ImprovesOnInitialParameters: the search must never end
// worse than it started, and on this synthetic case it must actually
// improve toward the known optimum.
func TestCalibrate_ImprovesOnInitialParameters(t *testing.T) {
	in := calibrationInputs(t, costfunc.Tanner{Alpha: 1.2, Beta: -0.15})

	cfg := gravity.Config{
		Function:    costfunc.Tanner{Alpha: 1, Beta: -1},
		Constraint:  furness.ConstraintDouble,
		Calibration: gravity.CalibrationOptions{MaxEvaluations: 80, ImprovementTol: 1e-10},
	}

	cal, err := gravity.Calibrate(in, cfg)
	require.NoError(t, err)
	require.NotNil(t, cal.Run)
	require.NotEmpty(t, cal.Trace)

	initial := cal.Trace[0].Score
	best := cal.Run.Comparison.SquaredError
	assert.LessOrEqual(t, best, initial, "calibration must never worsen the fit")
	assert.Less(t, best, initial, "this synthetic case has a strictly better optimum nearby")
	assert.Equal(t, "tanner", cal.Best.Name())
	assert.GreaterOrEqual(t, cal.RSquared, cal.Trace[0].RSquared)
	assert.LessOrEqual(t, cal.Evaluations, 80)
	assert.Len(t, cal.Trace, cal.Evaluations)
}

// TestCalibrate_BestMatchesTraceMinimum: the reported best run is the
// lowest-scoring evaluation of the whole trace.
func TestCalibrate_BestMatchesTraceMinimum(t *testing.T) {
	in := calibrationInputs(t, costfunc.Tanner{Alpha: 1.1, Beta: -0.2})

	cfg := gravity.Config{
		Function:    costfunc.Tanner{Alpha: 0.8, Beta: -0.6},
		Constraint:  furness.ConstraintDouble,
		Calibration: gravity.CalibrationOptions{MaxEvaluations: 40},
	}
	cal, err := gravity.Calibrate(in, cfg)
	require.NoError(t, err)

	minScore := math.Inf(1)
	for _, e := range cal.Trace {
		if e.Score < minScore {
			minScore = e.Score
		}
	}
	assert.Equal(t, minScore, cal.Run.Comparison.SquaredError)

	p1, p2 := cal.Best.Params()
	var foundAtBest bool
	for _, e := range cal.Trace {
		if e.P1 == p1 && e.P2 == p2 && e.Score == minScore {
			foundAtBest = true
		}
	}
	assert.True(t, foundAtBest, "Best's parameters must appear in the trace with the minimum score")
}

// TestCalibrate_EvaluationCap stops at the budget and flags the run.
func TestCalibrate_EvaluationCap(t *testing.T) {
	in := calibrationInputs(t, costfunc.Tanner{Alpha: 1.2, Beta: -0.15})

	cfg := gravity.Config{
		Function:    costfunc.Tanner{Alpha: 1, Beta: -1},
		Constraint:  furness.ConstraintDouble,
		Calibration: gravity.CalibrationOptions{MaxEvaluations: 4, ImprovementTol: 1e-12},
	}
	cal, err := gravity.Calibrate(in, cfg)
	require.NoError(t, err)

	assert.False(t, cal.Converged)
	assert.Equal(t, 4, cal.Evaluations)

	var capped bool
	for _, w := range cal.Run.Warnings {
		if w.Kind == gravity.WarnCalibrationCap {
			capped = true
		}
	}
	assert.True(t, capped, "the capped search must be flagged on the output run")
}

// TestCalibrate_Cancellation: a cancelled context aborts between
// evaluations, returning the context error.
func TestCalibrate_Cancellation(t *testing.T) {
	in := calibrationInputs(t, costfunc.Tanner{Alpha: 1.2, Beta: -0.15})

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel up front: the very first evaluation must not run

	cfg := gravity.Config{
		Function:    costfunc.Tanner{Alpha: 1, Beta: -1},
		Constraint:  furness.ConstraintDouble,
		Calibration: gravity.CalibrationOptions{Ctx: ctx},
	}
	cal, err := gravity.Calibrate(in, cfg)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, cal)
	assert.Zero(t, cal.Evaluations)
	assert.Nil(t, cal.Run)
}

// TestCalibrate_LogNormalStaysInDomain: the simplex may probe σ ≤ 0; those
// evaluations score +Inf and the returned best parameters remain valid.
func TestCalibrate_LogNormalStaysInDomain(t *testing.T) {
	in := calibrationInputs(t, costfunc.LogNormal{Sigma: 0.8, Mu: 2})

	cfg := gravity.Config{
		Function:    costfunc.LogNormal{Sigma: 0.4, Mu: 1.5},
		Constraint:  furness.ConstraintDouble,
		Calibration: gravity.CalibrationOptions{MaxEvaluations: 60},
	}
	cal, err := gravity.Calibrate(in, cfg)
	require.NoError(t, err)
	require.NotNil(t, cal.Run)

	sigma, _ := cal.Best.Params()
	assert.Greater(t, sigma, 0.0, "best parameters must be inside the valid domain")
	assert.Equal(t, "log_normal", cal.Best.Name())
}

// TestRun_SelfCalibrateDelegates: Run with SelfCalibrate returns the
// calibrated best pass.
func TestRun_SelfCalibrateDelegates(t *testing.T) {
	in := calibrationInputs(t, costfunc.Tanner{Alpha: 1.2, Beta: -0.15})

	cfg := gravity.Config{
		Function:      costfunc.Tanner{Alpha: 1, Beta: -1},
		Constraint:    furness.ConstraintDouble,
		SelfCalibrate: true,
		Calibration:   gravity.CalibrationOptions{MaxEvaluations: 40},
	}
	res, err := gravity.Run(in, cfg)
	require.NoError(t, err)
	require.NotNil(t, res.Trips)

	plain, err := gravity.Run(in, gravity.Config{
		Function:   costfunc.Tanner{Alpha: 1, Beta: -1},
		Constraint: furness.ConstraintDouble,
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, res.Comparison.SquaredError, plain.Comparison.SquaredError)
}

// TestCalibrate_InitialConfigurationErrorIsFatal: a starting point that
// cannot run at all aborts the search.
func TestCalibrate_InitialConfigurationErrorIsFatal(t *testing.T) {
	in := calibrationInputs(t, costfunc.Tanner{Alpha: 1.2, Beta: -0.15})

	cfg := gravity.Config{
		Function:   costfunc.LogNormal{Sigma: -1, Mu: 0},
		Constraint: furness.ConstraintDouble,
	}
	_, err := gravity.Calibrate(in, cfg)
	assert.ErrorIs(t, err, costfunc.ErrNonPositiveSigma)

	bad := in
	bad.Costs = nil
	cfg.Function = costfunc.DefaultTanner()
	_, err = gravity.Calibrate(bad, cfg)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}
