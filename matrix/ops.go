package matrix

import "fmt"

// MulElem multiplies the receiver elementwise by other, in place.
// Shapes must match exactly.
func (m *Dense) MulElem(other *Dense) error {
	if other == nil {
		return ErrNilMatrix
	}
	if m.r != other.r || m.c != other.c {
		return fmt.Errorf("%dx%d vs %dx%d: %w", m.r, m.c, other.r, other.c, ErrDimensionMismatch)
	}
	for i, v := range other.data {
		m.data[i] *= v
	}

	return nil
}

// Scale multiplies every cell by factor, in place.
func (m *Dense) Scale(factor float64) {
	for i := range m.data {
		m.data[i] *= factor
	}
}

// ScaleRow multiplies every cell of row i by factor, in place.
// Out-of-range rows are a no-op; furnessing controls its own indices.
func (m *Dense) ScaleRow(i int, factor float64) {
	if i < 0 || i >= m.r {
		return
	}
	row := m.data[i*m.c : (i+1)*m.c]
	for j := range row {
		row[j] *= factor
	}
}

// ScaleCol multiplies every cell of column j by factor, in place.
func (m *Dense) ScaleCol(j int, factor float64) {
	if j < 0 || j >= m.c {
		return
	}
	for i := 0; i < m.r; i++ {
		m.data[i*m.c+j] *= factor
	}
}
