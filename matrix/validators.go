package matrix

import (
	"fmt"
	"math"
)

// CheckFinite returns ErrNaNInf (with the offending cell) when any entry
// is NaN or ±Inf. Complexity: O(r*c).
func (m *Dense) CheckFinite() error {
	for i, v := range m.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("cell (%d,%d) = %g: %w", i/m.c, i%m.c, v, ErrNaNInf)
		}
	}

	return nil
}

// CheckNonNegative returns ErrNegativeValue (with the offending cell) when
// any entry is < 0. NaN entries are reported via ErrNaNInf first.
func (m *Dense) CheckNonNegative() error {
	for i, v := range m.data {
		if math.IsNaN(v) {
			return fmt.Errorf("cell (%d,%d) = NaN: %w", i/m.c, i%m.c, ErrNaNInf)
		}
		if v < 0 {
			return fmt.Errorf("cell (%d,%d) = %g: %w", i/m.c, i%m.c, v, ErrNegativeValue)
		}
	}

	return nil
}

// CheckSquare returns ErrNonSquare when rows != cols.
func (m *Dense) CheckSquare() error {
	if m.r != m.c {
		return fmt.Errorf("shape %dx%d: %w", m.r, m.c, ErrNonSquare)
	}

	return nil
}
