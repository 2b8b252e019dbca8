package matrix_test

import (
	"math"
	"testing"

	"github.com/freightflow/gravmod/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewDense_InvalidDimensions verifies zero or negative shapes are rejected.
func TestNewDense_InvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 3)
	assert.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewDense(3, -1)
	assert.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestNewDenseFromRows_Ragged verifies unequal row lengths are rejected.
func TestNewDenseFromRows_Ragged(t *testing.T) {
	_, err := matrix.NewDenseFromRows([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, matrix.ErrRaggedRows)
}

// TestDense_AtSet exercises bounds-checked access.
func TestDense_AtSet(t *testing.T) {
	m, err := matrix.NewDense(2, 3)
	require.NoError(t, err)

	require.NoError(t, m.Set(1, 2, 4.5))
	v, err := m.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 4.5, v)

	_, err = m.At(2, 0)
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)
	assert.ErrorIs(t, m.Set(0, 3, 1), matrix.ErrOutOfRange)
}

// TestDense_CloneIndependence verifies Clone copies the backing storage.
func TestDense_CloneIndependence(t *testing.T) {
	m, err := matrix.NewDenseFromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)

	cp := m.Clone()
	require.NoError(t, cp.Set(0, 0, 99))

	orig, err := m.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, orig, "mutating the clone must not touch the original")
}

// TestDense_Sums checks RowSums, ColSums and Total agree.
func TestDense_Sums(t *testing.T) {
	m, err := matrix.NewDenseFromRows([][]float64{
		{1, 2, 3},
		{4, 5, 6},
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{6, 15}, m.RowSums())
	assert.Equal(t, []float64{5, 7, 9}, m.ColSums())
	assert.Equal(t, 21.0, m.Total())
}

// TestDense_MulElem verifies elementwise product and shape checking.
func TestDense_MulElem(t *testing.T) {
	a, err := matrix.NewDenseFromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	b, err := matrix.NewDenseFromRows([][]float64{{2, 0.5}, {1, 2}})
	require.NoError(t, err)

	require.NoError(t, a.MulElem(b))
	assert.Equal(t, []float64{2, 1}, a.Row(0))
	assert.Equal(t, []float64{3, 8}, a.Row(1))

	c, err := matrix.NewDense(3, 2)
	require.NoError(t, err)
	assert.ErrorIs(t, a.MulElem(c), matrix.ErrDimensionMismatch)
	assert.ErrorIs(t, a.MulElem(nil), matrix.ErrNilMatrix)
}

// TestDense_ScaleRowCol verifies in-place row/column scaling.
func TestDense_ScaleRowCol(t *testing.T) {
	m, err := matrix.NewDenseFromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)

	m.ScaleRow(0, 10)
	assert.Equal(t, []float64{10, 20}, m.Row(0))
	assert.Equal(t, []float64{3, 4}, m.Row(1))

	m.ScaleCol(1, 0.5)
	assert.Equal(t, []float64{10, 10}, m.Row(0))
	assert.Equal(t, []float64{3, 2}, m.Row(1))
}

// TestDense_Validators covers the finite / non-negative / square checks.
func TestDense_Validators(t *testing.T) {
	m, err := matrix.NewDenseFromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	assert.NoError(t, m.CheckFinite())
	assert.NoError(t, m.CheckNonNegative())
	assert.NoError(t, m.CheckSquare())

	require.NoError(t, m.Set(1, 0, math.Inf(1)))
	assert.ErrorIs(t, m.CheckFinite(), matrix.ErrNaNInf)

	require.NoError(t, m.Set(1, 0, -1))
	assert.ErrorIs(t, m.CheckNonNegative(), matrix.ErrNegativeValue)

	rect, err := matrix.NewDense(2, 3)
	require.NoError(t, err)
	assert.ErrorIs(t, rect.CheckSquare(), matrix.ErrNonSquare)
}

// TestConstant verifies the uniform-fill constructor.
func TestConstant(t *testing.T) {
	m, err := matrix.Constant(2, 2, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 4.0, m.Total())
}
