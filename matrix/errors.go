package matrix

import "errors"

// Sentinel errors for the matrix package. Algorithms return these (wrapped
// with fmt.Errorf("...: %w", Err) where cell context is useful) and callers
// match them via errors.Is.
var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible shapes between operands,
	// e.g. MulElem on matrices of different sizes or a marginal vector whose
	// length differs from the matrix dimension.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNegativeValue signals a negative entry where non-negative values are
	// required (costs, trips, calibration factors).
	ErrNegativeValue = errors.New("matrix: negative value encountered")

	// ErrRaggedRows indicates that NewDenseFromRows received rows of unequal length.
	ErrRaggedRows = errors.New("matrix: ragged rows")

	// ErrNilMatrix indicates that a nil *Dense was passed where a matrix is required.
	ErrNilMatrix = errors.New("matrix: nil matrix")
)
