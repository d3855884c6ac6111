package lp

import (
	"testing"

	"github.com/go-lp/lpcore/collaborators"
	"github.com/go-lp/lpcore/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSourceValid(t *testing.T) {
	p, err := FromSource(minimizeXPlusY())
	require.NoError(t, err)
	assert.Equal(t, 2, p.NumCols)
	assert.Equal(t, 1, p.NumRows)
	assert.Equal(t, 3, p.NumVars())
	assert.True(t, p.IsLogical(2))
	assert.False(t, p.IsLogical(1))
}

func TestValidateDetectsBoundInconsistency(t *testing.T) {
	src := minimizeXPlusY()
	src.colLower[0] = 5
	src.colUpper[0] = 1
	_, err := FromSource(src)
	require.Error(t, err)
	assert.Equal(t, errs.BoundInconsistent, errs.KindOf(err))
}

func TestValidateDetectsBadColStart(t *testing.T) {
	src := minimizeXPlusY()
	src.colStart = []int{0, 2, 1}
	_, err := FromSource(src)
	require.Error(t, err)
	assert.Equal(t, errs.InvalidInput, errs.KindOf(err))
}

func TestValidateDetectsDuplicateRowIndex(t *testing.T) {
	src := minimizeXPlusY()
	src.colStart = []int{0, 2, 2}
	src.colIndex = []int{0, 0}
	src.colValue = []float64{1, 1}
	_, err := FromSource(src)
	require.Error(t, err)
	assert.Equal(t, errs.InvalidInput, errs.KindOf(err))
}

func TestVarBoundsAndCost(t *testing.T) {
	p, err := FromSource(minimizeXPlusY())
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.VarLower(0))
	assert.Equal(t, 10.0, p.VarUpper(0))
	assert.Equal(t, 1.0, p.VarCost(0))
	assert.Equal(t, 0.0, p.VarCost(2)) // logical has zero cost
	assert.Equal(t, 2.0, p.VarLower(2))
}

func TestFromSourceNegatesCostForMaximize(t *testing.T) {
	src := minimizeXPlusY()
	src.sense = collaborators.Maximize
	p, err := FromSource(src)
	require.NoError(t, err)
	assert.Equal(t, -1.0, p.VarCost(0))
	assert.Equal(t, -1.0, p.VarCost(1))
	assert.Equal(t, collaborators.Maximize, p.Sense)
}
