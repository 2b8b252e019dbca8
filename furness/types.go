package furness

import "errors"

var (
	// ErrNegativeTarget is returned when a target vector contains a negative total.
	ErrNegativeTarget = errors.New("furness: negative target total")

	// ErrBadAxis is returned when an Axis other than Rows or Cols is supplied.
	ErrBadAxis = errors.New("furness: axis must be Rows or Cols")
)

// Constraint identifies the furnessing/factoring mode of a segment.
type Constraint int

const (
	// ConstraintSingle factors the seed once against one target vector.
	ConstraintSingle Constraint = iota + 1

	// ConstraintDouble runs the doubly-constrained iterative fit.
	ConstraintDouble
)

// String implements fmt.Stringer.
func (c Constraint) String() string {
	switch c {
	case ConstraintSingle:
		return "SINGLE"
	case ConstraintDouble:
		return "DOUBLE"
	default:
		return "UNKNOWN"
	}
}

// Axis selects which marginal a single-constrained factoring matches.
type Axis int

const (
	// Rows matches row totals (production/origin control).
	Rows Axis = iota

	// Cols matches column totals (attraction/destination control).
	Cols
)

// String implements fmt.Stringer.
func (a Axis) String() string {
	if a == Rows {
		return "rows"
	}

	return "cols"
}

// Options tunes the doubly-constrained loop. The zero value is usable:
// non-positive fields fall back to the defaults below, so callers can set
// only what they care about.
type Options struct {
	// MaxIterations caps the number of row+column scaling loops (default 1000).
	MaxIterations int

	// Tolerance is the convergence cutoff on the maximum absolute difference
	// between achieved and target marginal totals, in trip units (default 1e-3).
	Tolerance float64

	// StallLimit stops the loop early when the residual has not changed for
	// this many consecutive loops (default 10). Negative disables the check.
	StallLimit int
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{MaxIterations: 1000, Tolerance: 1e-3, StallLimit: 10}
}

// normalize fills unset fields with defaults.
func (o *Options) normalize() {
	d := DefaultOptions()
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	if o.StallLimit == 0 {
		o.StallLimit = d.StallLimit
	}
}

// Result reports what a factoring/furnessing call did. It is attached to
// the gravity-model run record so the surrounding application can log the
// full residual history.
type Result struct {
	// Constraint is the mode that produced this result.
	Constraint Constraint

	// Converged is true when the residual reached Tolerance (Double) or the
	// single pass matched every reachable line (Single).
	Converged bool

	// Iterations is the number of row+column loops used (Double) or 1 (Single).
	Iterations int

	// Residual is the final maximum absolute marginal difference.
	Residual float64

	// History holds the residual before the first loop and after each loop.
	History []float64

	// UnreachableRows / UnreachableCols list line indices with a positive
	// target but zero seed mass; those lines stay at zero.
	UnreachableRows []int
	UnreachableCols []int

	// Message is a human-readable summary for the run log.
	Message string
}

// Unreachable reports whether any line had demand that could not be filled.
func (r Result) Unreachable() bool {
	return len(r.UnreachableRows) > 0 || len(r.UnreachableCols) > 0
}
