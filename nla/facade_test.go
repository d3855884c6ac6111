package nla

import (
	"math"
	"testing"

	"github.com/go-lp/lpcore/basis"
	"github.com/go-lp/lpcore/collaborators"
	"github.com/go-lp/lpcore/lp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type toySource struct{}

func (toySource) NumCols() int        { return 2 }
func (toySource) NumRows() int        { return 2 }
func (toySource) ColStart() []int     { return []int{0, 1, 2} }
func (toySource) ColIndex() []int     { return []int{0, 1} }
func (toySource) ColValue() []float64 { return []float64{2, 3} }
func (toySource) Cost() []float64     { return []float64{1, 1} }
func (toySource) ColLower() []float64 { return []float64{0, 0} }
func (toySource) ColUpper() []float64 { return []float64{10, 10} }
func (toySource) RowLower() []float64 { return []float64{0, 0} }
func (toySource) RowUpper() []float64 { return []float64{math.Inf(1), math.Inf(1)} }
func (toySource) Sense() collaborators.Sense { return collaborators.Minimize }
func (toySource) Integrality() []collaborators.VarKind {
	return []collaborators.VarKind{collaborators.Continuous, collaborators.Continuous}
}

func newTestFacade(t *testing.T) (*Facade, *lp.Problem, *basis.Basis) {
	p, err := lp.FromSource(toySource{})
	require.NoError(t, err)
	opts := collaborators.DefaultOptions()
	f := NewFacade(p, opts, collaborators.NoopLogger{})
	b := basis.NewAllLogical(p)
	// Put the two structural columns into the basis for a nontrivial B.
	b.SwapBasic(0, 0, basis.MoveNone)
	b.SwapBasic(1, 1, basis.MoveNone)
	require.NoError(t, f.Invert(b))
	return f, p, b
}

func TestFacadeInvertAndFTRAN(t *testing.T) {
	f, _, _ := newTestFacade(t)
	r := lp.NewHVector(2)
	r.Set(0, 4)
	r.Set(1, 9)
	require.NoError(t, f.FTRAN(r))
	assert.InDelta(t, 2, r.Get(0), 1e-9)
	assert.InDelta(t, 3, r.Get(1), 1e-9)
}

func TestFacadeResidualCheckPasses(t *testing.T) {
	f, _, b := newTestFacade(t)
	r := lp.NewHVector(2)
	r.Set(0, 4)
	r.Set(1, 9)
	x := lp.NewHVector(2)
	x.CopyFrom(r)
	require.NoError(t, f.FTRAN(x))
	require.NoError(t, f.CheckResidual(b, r, x, 1e-7))
}

func TestFreezeUnfreezeRoundTrip(t *testing.T) {
	f, _, b := newTestFacade(t)
	id := f.Freeze(b)

	b.SwapBasic(0, 2, basis.MoveLower) // mutate live basis

	restored, err := f.Unfreeze(id)
	require.NoError(t, err)
	assert.True(t, restored.IsBasic(0))
	assert.True(t, restored.IsBasic(1))
}

func TestUnfreezeInteriorDiscardsLater(t *testing.T) {
	f, _, b := newTestFacade(t)
	id1 := f.Freeze(b)
	b2 := b.Clone()
	b2.SwapBasic(0, 2, basis.MoveLower)
	f.Freeze(b2)
	b3 := b2.Clone()
	f.Freeze(b3)

	_, err := f.Unfreeze(id1)
	require.NoError(t, err)
	assert.Equal(t, 1, len(f.arena.entries))
}

func TestUnfreezeUnknownID(t *testing.T) {
	f, _, _ := newTestFacade(t)
	_, err := f.Unfreeze(999)
	require.Error(t, err)
}
