package distribution

import (
	"fmt"
	"sort"

	"github.com/freightflow/gravmod/matrix"
)

// CompareOption configures a Compare call.
type CompareOption func(*compareConfig)

type compareConfig struct {
	mask *matrix.Dense
}

// WithMask restricts the modelled banding to the calibration sub-area:
// only cells where mask > 0 contribute. The mask must have the same shape
// as the trip and cost matrices.
func WithMask(mask *matrix.Dense) CompareOption {
	return func(c *compareConfig) { c.mask = mask }
}

// Compare bins the trip matrix by cost into the observed bands and scores
// the fit. trips and costs must share the same shape; bands must pass
// ValidateBands.
//
// Complexity: O(N² · log B + B) time for N zones and B bands.
func Compare(trips, costs *matrix.Dense, bands []Band, opts ...CompareOption) (Comparison, error) {
	var cfg compareConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if trips == nil || costs == nil {
		return Comparison{}, matrix.ErrNilMatrix
	}
	if trips.Rows() != costs.Rows() || trips.Cols() != costs.Cols() {
		return Comparison{}, fmt.Errorf("trips %dx%d vs costs %dx%d: %w",
			trips.Rows(), trips.Cols(), costs.Rows(), costs.Cols(), matrix.ErrDimensionMismatch)
	}
	if cfg.mask != nil && (cfg.mask.Rows() != trips.Rows() || cfg.mask.Cols() != trips.Cols()) {
		return Comparison{}, fmt.Errorf("mask %dx%d vs trips %dx%d: %w",
			cfg.mask.Rows(), cfg.mask.Cols(), trips.Rows(), trips.Cols(), matrix.ErrDimensionMismatch)
	}
	if err := ValidateBands(bands); err != nil {
		return Comparison{}, err
	}

	cmp := Comparison{
		Observed: make([]float64, len(bands)),
		Modelled: make([]float64, len(bands)),
	}
	var observedTotal float64
	starts := make([]float64, len(bands))
	for i, b := range bands {
		cmp.Observed[i] = b.Observed
		observedTotal += b.Observed
		starts[i] = b.Start
	}
	if observedTotal == 0 {
		return Comparison{}, ErrZeroObserved
	}

	// Bin every (masked) cell: the band is the last one whose Start ≤ cost.
	// Costs below the first band's Start fall outside the distribution and
	// are not counted; the final band is unbounded above.
	var modelledTotal float64
	for i := 0; i < trips.Rows(); i++ {
		tRow, cRow := trips.Row(i), costs.Row(i)
		var mRow []float64
		if cfg.mask != nil {
			mRow = cfg.mask.Row(i)
		}
		for j, trip := range tRow {
			if mRow != nil && mRow[j] <= 0 {
				continue
			}
			cost := cRow[j]
			k := sort.SearchFloat64s(starts, cost)
			if k < len(starts) && starts[k] == cost {
				k++ // Start is inclusive
			}
			if k == 0 {
				continue // below the first band
			}
			cmp.Modelled[k-1] += trip
			modelledTotal += trip
		}
	}

	cmp.ObservedShare = normalize(cmp.Observed, observedTotal)
	cmp.ModelledShare = normalize(cmp.Modelled, modelledTotal)

	for i := range bands {
		d := cmp.ObservedShare[i] - cmp.ModelledShare[i]
		cmp.SquaredError += d * d
	}
	cmp.RSquared = rSquared(cmp.ObservedShare, cmp.ModelledShare)

	return cmp, nil
}

// normalize divides values by total; a zero total yields all zeros.
func normalize(values []float64, total float64) []float64 {
	out := make([]float64, len(values))
	if total == 0 {
		return out
	}
	for i, v := range values {
		out[i] = v / total
	}

	return out
}

// rSquared computes R² = 1 − SSres/SStot between observed (y) and modelled
// (f) vectors, floored at 0. When the observed values have no variance,
// the result is 1 for an exact match and 0 otherwise.
func rSquared(observed, modelled []float64) float64 {
	var mean float64
	for _, y := range observed {
		mean += y
	}
	mean /= float64(len(observed))

	var ssRes, ssTot float64
	for i, y := range observed {
		d := y - modelled[i]
		ssRes += d * d
		m := y - mean
		ssTot += m * m
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}

		return 0
	}
	r2 := 1 - ssRes/ssTot
	if r2 < 0 {
		return 0
	}

	return r2
}
