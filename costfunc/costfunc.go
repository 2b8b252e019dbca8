package costfunc

import (
	"fmt"
	"math"

	"github.com/freightflow/gravmod/matrix"
)

// invSqrt2Pi = 1/√(2π), the log-normal normalization constant.
var invSqrt2Pi = 1 / math.Sqrt(2*math.Pi)

// Name implements CostFunction.
func (Tanner) Name() string { return "tanner" }

// Params implements CostFunction.
func (f Tanner) Params() (float64, float64) { return f.Alpha, f.Beta }

// With implements CostFunction.
func (f Tanner) With(p1, p2 float64) CostFunction { return Tanner{Alpha: p1, Beta: p2} }

// Validate implements CostFunction. Any finite (α, β) pair is acceptable.
func (f Tanner) Validate() error {
	if math.IsNaN(f.Alpha) || math.IsInf(f.Alpha, 0) || math.IsNaN(f.Beta) || math.IsInf(f.Beta, 0) {
		return fmt.Errorf("costfunc: tanner parameters must be finite, got (%g, %g)", f.Alpha, f.Beta)
	}

	return nil
}

// Deterrence implements CostFunction.
// Zero cost maps to zero: 0^α is undefined for α<0 and a zero-cost pair
// must not generate synthetic demand. Overflow is reported as zero too,
// keeping the seed matrix finite.
func (f Tanner) Deterrence(cost float64) float64 {
	if cost == 0 {
		return 0
	}
	v := math.Pow(cost, f.Alpha) * math.Exp(f.Beta*cost)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return v
}

func (Tanner) sealed() {}

// Name implements CostFunction.
func (LogNormal) Name() string { return "log_normal" }

// Params implements CostFunction.
func (f LogNormal) Params() (float64, float64) { return f.Sigma, f.Mu }

// With implements CostFunction.
func (f LogNormal) With(p1, p2 float64) CostFunction { return LogNormal{Sigma: p1, Mu: p2} }

// Validate implements CostFunction: σ must be strictly positive.
func (f LogNormal) Validate() error {
	if math.IsNaN(f.Sigma) || f.Sigma <= 0 {
		return fmt.Errorf("got %g: %w", f.Sigma, ErrNonPositiveSigma)
	}
	if math.IsNaN(f.Mu) || math.IsInf(f.Mu, 0) {
		return fmt.Errorf("costfunc: log_normal mu must be finite, got %g", f.Mu)
	}

	return nil
}

// Deterrence implements CostFunction. Zero cost maps to zero, avoiding
// ln(0) and division by zero.
func (f LogNormal) Deterrence(cost float64) float64 {
	if cost == 0 {
		return 0
	}
	d := math.Log(cost) - f.Mu
	v := invSqrt2Pi / (cost * f.Sigma) * math.Exp(-d*d/(2*f.Sigma*f.Sigma))
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return v
}

func (LogNormal) sealed() {}

// Evaluate applies fn to every cell of costs, producing the deterrence
// matrix used as the gravity-model seed. The cost matrix is not modified.
//
// Errors:
//   - fn.Validate() failures (configuration errors) are surfaced first;
//   - ErrNegativeCost (wrapping the offending cell) when any cost is < 0;
//   - matrix.ErrNaNInf when the cost matrix contains non-finite values.
//
// Complexity: O(N²) time, O(N²) memory for the result.
func Evaluate(fn CostFunction, costs *matrix.Dense) (*matrix.Dense, error) {
	if costs == nil {
		return nil, matrix.ErrNilMatrix
	}
	if err := fn.Validate(); err != nil {
		return nil, err
	}
	if err := costs.CheckFinite(); err != nil {
		return nil, err
	}
	if err := costs.CheckNonNegative(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrNegativeCost)
	}

	out, err := matrix.NewDense(costs.Rows(), costs.Cols())
	if err != nil {
		return nil, err
	}
	for i := 0; i < costs.Rows(); i++ {
		src, dst := costs.Row(i), out.Row(i)
		for j, c := range src {
			dst[j] = fn.Deterrence(c)
		}
	}

	return out, nil
}
