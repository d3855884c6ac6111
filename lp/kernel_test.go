package lp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScatterColumnAStructural(t *testing.T) {
	p, err := FromSource(minimizeXPlusY())
	require.NoError(t, err)
	y := NewHVector(p.NumRows)
	p.ScatterColumnA(0, 2.0, y)
	assert.Equal(t, 2.0, y.Get(0))
}

func TestScatterColumnALogical(t *testing.T) {
	p, err := FromSource(minimizeXPlusY())
	require.NoError(t, err)
	y := NewHVector(p.NumRows)
	p.ScatterColumnA(p.NumCols, 1.0, y) // logical for row 0
	assert.Equal(t, -1.0, y.Get(0))
}

func TestSparseDotColumn(t *testing.T) {
	p, err := FromSource(minimizeXPlusY())
	require.NoError(t, err)
	x := []float64{5}
	assert.Equal(t, 5.0, p.SparseDotColumn(0, x))
	assert.Equal(t, -5.0, p.SparseDotColumn(p.NumCols, x))
}

func TestSparseDotColumnDenseMatchesSparse(t *testing.T) {
	p, err := FromSource(minimizeXPlusY())
	require.NoError(t, err)
	x := []float64{7}
	scratch := make([]float64, p.NumRows)
	assert.Equal(t, p.SparseDotColumn(0, x), p.SparseDotColumnDense(0, x, scratch))
}

func TestColumnMaxAbs(t *testing.T) {
	p, err := FromSource(minimizeXPlusY())
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.ColumnMaxAbs(0))
	assert.Equal(t, 1.0, p.ColumnMaxAbs(p.NumCols))
}

func TestScaleColumnsAndRows(t *testing.T) {
	p, err := FromSource(minimizeXPlusY())
	require.NoError(t, err)
	p.ScaleColumns([]float64{2, 1})
	assert.Equal(t, 2.0, p.ColValue[0])
	assert.Equal(t, 2.0, p.Cost[0])
	p.ScaleRows([]float64{0.5})
	assert.Equal(t, 1.0, p.ColValue[0])
}
