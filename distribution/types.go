package distribution

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNoBands is returned when the band slice is empty.
	ErrNoBands = errors.New("distribution: no bands supplied")

	// ErrBandOrder is returned when a band's End is not above its Start.
	ErrBandOrder = errors.New("distribution: band end must be greater than start")

	// ErrBandGap is returned when consecutive bands leave uncovered cost space.
	ErrBandGap = errors.New("distribution: gap between bands")

	// ErrBandOverlap is returned when consecutive bands overlap.
	ErrBandOverlap = errors.New("distribution: overlapping bands")

	// ErrNegativeObserved is returned when a band's observed trips are negative.
	ErrNegativeObserved = errors.New("distribution: negative observed trips")

	// ErrZeroObserved is returned when every band's observed trips are zero,
	// leaving nothing to normalize against.
	ErrZeroObserved = errors.New("distribution: observed trips sum to zero")
)

// Band is one interval of the observed trip-length distribution: trips
// whose cost falls in [Start, End), with the observed total and the average
// cost of the band. The final band's End is treated as unbounded: every
// cost at or above its Start lands there.
type Band struct {
	Start, End float64

	// Observed is the surveyed trip total for this band.
	Observed float64

	// AvgCost is the representative cost of the band, carried through to
	// the run report (not used in the fit itself).
	AvgCost float64
}

// ValidateBands checks that bands are non-empty, internally ordered,
// contiguous and non-overlapping, with non-negative observed totals.
func ValidateBands(bands []Band) error {
	if len(bands) == 0 {
		return ErrNoBands
	}
	for i, b := range bands {
		if math.IsNaN(b.Start) || math.IsNaN(b.End) {
			return fmt.Errorf("band %d [%g, %g): %w", i, b.Start, b.End, ErrBandOrder)
		}
		if b.End <= b.Start {
			return fmt.Errorf("band %d [%g, %g): %w", i, b.Start, b.End, ErrBandOrder)
		}
		if b.Observed < 0 || math.IsNaN(b.Observed) {
			return fmt.Errorf("band %d observed %g: %w", i, b.Observed, ErrNegativeObserved)
		}
		if i == 0 {
			continue
		}
		prev := bands[i-1]
		if b.Start > prev.End {
			return fmt.Errorf("band %d starts at %g, band %d ends at %g: %w",
				i, b.Start, i-1, prev.End, ErrBandGap)
		}
		if b.Start < prev.End {
			return fmt.Errorf("band %d starts at %g, band %d ends at %g: %w",
				i, b.Start, i-1, prev.End, ErrBandOverlap)
		}
	}

	return nil
}

// Comparison is the bin-level observed-vs-modelled table plus the two
// goodness-of-fit scalars. Slices are indexed like the input bands.
type Comparison struct {
	// Observed and Modelled are the raw trip totals per band.
	Observed []float64
	Modelled []float64

	// ObservedShare and ModelledShare are the totals normalized to sum to 1.
	// When the modelled matrix holds no trips at all, ModelledShare is all
	// zeros (there is no shape to compare).
	ObservedShare []float64
	ModelledShare []float64

	// SquaredError is Σ(ObservedShare−ModelledShare)².
	SquaredError float64

	// RSquared is the share-level R², floored at 0.
	RSquared float64
}
