package gravity_test

import (
	"math"
	"testing"

	"github.com/freightflow/gravmod/costfunc"
	"github.com/freightflow/gravmod/distribution"
	"github.com/freightflow/gravmod/furness"
	"github.com/freightflow/gravmod/gravity"
	"github.com/freightflow/gravmod/matrix"
)

// benchInputs builds an n-zone segment with distance-like costs and
// consistent trip ends.
func benchInputs(b *testing.B, n int) gravity.Inputs {
	b.Helper()
	costs, err := matrix.NewDense(n, n)
	if err != nil {
		b.Fatalf("NewDense: %v", err)
	}
	for i := 0; i < n; i++ {
		row := costs.Row(i)
		for j := range row {
			row[j] = 1 + math.Abs(float64(i-j))/2
		}
	}
	zones := make([]int, n)
	targets := make([]float64, n)
	for i := range zones {
		zones[i] = i + 1
		targets[i] = 100
	}

	return gravity.Inputs{
		Zones:      zones,
		Costs:      costs,
		RowTargets: targets,
		ColTargets: append([]float64(nil), targets...),
		Bands: []distribution.Band{
			{Start: 0, End: 10, Observed: 40},
			{Start: 10, End: 30, Observed: 35},
			{Start: 30, End: math.Inf(1), Observed: 25},
		},
	}
}

// benchmarkRun times one full seed→furness→compare pass.
func benchmarkRun(b *testing.B, n int) {
	in := benchInputs(b, n)
	cfg := gravity.Config{
		Function:   costfunc.Tanner{Alpha: 1, Beta: -0.05},
		Constraint: furness.ConstraintDouble,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := gravity.Run(in, cfg); err != nil {
			b.Fatalf("Run failed: %v", err)
		}
	}
}

// BenchmarkRun_Small benchmarks a 50-zone pass.
func BenchmarkRun_Small(b *testing.B) { benchmarkRun(b, 50) }

// BenchmarkRun_Medium benchmarks a 200-zone pass.
func BenchmarkRun_Medium(b *testing.B) { benchmarkRun(b, 200) }

// BenchmarkCalibrate_Small benchmarks a budget-capped parameter search on
// 30 zones: every evaluation is a full pass, so this is the end-to-end
// calibration cost.
func BenchmarkCalibrate_Small(b *testing.B) {
	in := benchInputs(b, 30)
	cfg := gravity.Config{
		Function:    costfunc.Tanner{Alpha: 1, Beta: -0.1},
		Constraint:  furness.ConstraintDouble,
		Calibration: gravity.CalibrationOptions{MaxEvaluations: 20},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := gravity.Calibrate(in, cfg); err != nil {
			b.Fatalf("Calibrate failed: %v", err)
		}
	}
}
