package gravity

import (
	"context"
	"errors"
	"fmt"

	"github.com/freightflow/gravmod/costfunc"
	"github.com/freightflow/gravmod/distribution"
	"github.com/freightflow/gravmod/furness"
	"github.com/freightflow/gravmod/matrix"
)

var (
	// ErrNoFunction is returned when Config.Function is nil.
	ErrNoFunction = errors.New("gravity: no cost function configured")

	// ErrBadConstraint is returned for a Constraint other than SINGLE or DOUBLE.
	ErrBadConstraint = errors.New("gravity: constraint must be SINGLE or DOUBLE")

	// ErrNoZones is returned when Inputs.Zones is empty.
	ErrNoZones = errors.New("gravity: no zones supplied")

	// ErrDuplicateZone is returned when Inputs.Zones contains a repeated id.
	ErrDuplicateZone = errors.New("gravity: duplicate zone id")

	// ErrMissingTargets is returned when the constraint mode needs a target
	// vector that was not supplied.
	ErrMissingTargets = errors.New("gravity: missing trip-end targets")
)

// DefaultTripEndTolerance is the relative row/column grand-total mismatch
// above which a TripEndMismatch warning is raised before double furnessing.
const DefaultTripEndTolerance = 0.01

// WarningKind classifies the non-fatal conditions a run can report.
type WarningKind int

const (
	// WarnTripEndMismatch: row and column trip-end grand totals differ by
	// more than Config.TripEndTolerance. The targets are used as given,
	// with no rescaling, so double furnessing converges only as far as the
	// iteration cap and tolerance allow.
	WarnTripEndMismatch WarningKind = iota + 1

	// WarnNotConverged: furnessing stopped at its iteration cap or stalled
	// before reaching tolerance.
	WarnNotConverged

	// WarnUnreachableDemand: a zone has a positive target but zero seed
	// mass; its line stays at zero.
	WarnUnreachableDemand

	// WarnCalibrationCap: the self-calibration search used its full
	// evaluation budget before the objective stopped improving.
	WarnCalibrationCap
)

// String implements fmt.Stringer.
func (k WarningKind) String() string {
	switch k {
	case WarnTripEndMismatch:
		return "TRIP_END_MISMATCH"
	case WarnNotConverged:
		return "NOT_CONVERGED"
	case WarnUnreachableDemand:
		return "UNREACHABLE_DEMAND"
	case WarnCalibrationCap:
		return "CALIBRATION_CAP"
	default:
		return "UNKNOWN"
	}
}

// Warning is one non-fatal condition attached to a run's output. Warnings
// never abort a run; the surrounding application renders them into its log.
type Warning struct {
	Kind WarningKind

	// Zone is the affected zone id for WarnUnreachableDemand, 0 otherwise.
	Zone int

	Message string
}

// Inputs carries the fully materialized data for one segment's run. All
// matrices are N×N over the same ordered zone set; the run never mutates
// them.
type Inputs struct {
	// Zones is the ordered set of unique zone ids defining the matrix
	// dimension N; warnings reference these ids.
	Zones []int

	// Costs is the dense N×N travel cost matrix (non-negative).
	Costs *matrix.Dense

	// Calibration optionally adjusts the seed matrix elementwise before
	// furnessing (nominal domain 0–2). Nil means no adjustment.
	Calibration *matrix.Dense

	// RowTargets / ColTargets are the trip-end totals per zone:
	// productions/origins control rows, attractions/destinations columns.
	// A SINGLE-constrained segment needs only the vector on its Axis.
	RowTargets []float64
	ColTargets []float64

	// Bands is the observed trip-length distribution.
	Bands []distribution.Band

	// Mask optionally restricts the distribution comparison to a
	// calibration sub-area (cells with Mask > 0).
	Mask *matrix.Dense
}

// Config is the per-segment run configuration. There is no shared or
// global state: two runs with equal Inputs and Config produce equal output.
type Config struct {
	// Function is the deterrence function (with its current parameters).
	Function costfunc.CostFunction

	// Constraint selects single-pass factoring or the doubly-constrained furness.
	Constraint furness.Constraint

	// Axis selects the controlled marginal for SINGLE segments (ignored for DOUBLE).
	Axis furness.Axis

	// Furness tunes the doubly-constrained loop; the zero value uses
	// furness.DefaultOptions.
	Furness furness.Options

	// TripEndTolerance is the relative grand-total mismatch that triggers
	// WarnTripEndMismatch (non-positive means DefaultTripEndTolerance).
	TripEndTolerance float64

	// SelfCalibrate hands control to the calibration loop after the first
	// comparison instead of finishing.
	SelfCalibrate bool

	// Calibration tunes the self-calibration search.
	Calibration CalibrationOptions
}

// RunResult is the structured record of one gravity-model pass. Trips is
// freshly allocated and owned by the caller.
type RunResult struct {
	Trips      *matrix.Dense
	Furness    furness.Result
	Comparison distribution.Comparison
	Warnings   []Warning
}

// CalibrationOptions tunes the Nelder–Mead parameter search. The zero
// value is usable; non-positive fields fall back to defaults.
type CalibrationOptions struct {
	// MaxEvaluations caps the number of gravity-model passes (default 100).
	MaxEvaluations int

	// ImprovementTol stops the search once the simplex's objective spread
	// falls below it (default 1e-6).
	ImprovementTol float64

	// Step is the initial simplex offset applied to each parameter (default 0.5).
	Step float64

	// Ctx is checked between evaluations; nil means context.Background().
	// On cancellation the best result found so far is returned together
	// with the context's error.
	Ctx context.Context
}

// DefaultCalibrationOptions returns the documented defaults.
func DefaultCalibrationOptions() CalibrationOptions {
	return CalibrationOptions{MaxEvaluations: 100, ImprovementTol: 1e-6, Step: 0.5}
}

func (o *CalibrationOptions) normalize() {
	d := DefaultCalibrationOptions()
	if o.MaxEvaluations <= 0 {
		o.MaxEvaluations = d.MaxEvaluations
	}
	if o.ImprovementTol <= 0 {
		o.ImprovementTol = d.ImprovementTol
	}
	if o.Step <= 0 {
		o.Step = d.Step
	}
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
}

// Evaluation is one entry of the calibration trace: the parameters tried
// and the scores they produced.
type Evaluation struct {
	P1, P2   float64
	Score    float64 // squared share error (the minimized objective)
	RSquared float64
}

// CalibrationResult reports the outcome of a self-calibration search.
type CalibrationResult struct {
	// Best is the cost function carrying the best parameters found.
	Best costfunc.CostFunction

	// Evaluations is the number of full gravity-model passes performed.
	Evaluations int

	// RSquared is the fit achieved by Best.
	RSquared float64

	// Trace lists every evaluation in order, for the run log.
	Trace []Evaluation

	// Converged is false when the evaluation budget ran out first.
	Converged bool

	// Run is the full result of the best-scoring pass.
	Run *RunResult
}

func (r *RunResult) warn(kind WarningKind, zone int, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{Kind: kind, Zone: zone, Message: fmt.Sprintf(format, args...)})
}
