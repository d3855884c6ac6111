package branch

import (
	"context"
	"math"
	"testing"

	"github.com/go-lp/lpcore/collaborators"
	"github.com/go-lp/lpcore/lp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// knapsackSource is "minimize -x-y s.t. x+2y<=8, 2x+y<=8, x,y>=0 integer"
// (spec §8 scenario 5), rewritten into row form with a finite row upper
// bound and an implicit lower bound of -Inf (<=) per the unified row-
// activity convention the rest of the core uses. The rows mirror each
// other under x<->y, which is what makes (2,3) and (3,2) a genuine tie.
type knapsackSource struct{}

func (knapsackSource) NumCols() int        { return 2 }
func (knapsackSource) NumRows() int        { return 2 }
func (knapsackSource) ColStart() []int     { return []int{0, 2, 4} }
func (knapsackSource) ColIndex() []int     { return []int{0, 1, 0, 1} }
func (knapsackSource) ColValue() []float64 { return []float64{1, 2, 2, 1} }
func (knapsackSource) Cost() []float64     { return []float64{-1, -1} }
func (knapsackSource) ColLower() []float64 { return []float64{0, 0} }
func (knapsackSource) ColUpper() []float64 { return []float64{math.Inf(1), math.Inf(1)} }
func (knapsackSource) RowLower() []float64 { return []float64{math.Inf(-1), math.Inf(-1)} }
func (knapsackSource) RowUpper() []float64 { return []float64{8, 8} }
func (knapsackSource) Sense() collaborators.Sense { return collaborators.Minimize }
func (knapsackSource) Integrality() []collaborators.VarKind {
	return []collaborators.VarKind{collaborators.Integer, collaborators.Integer}
}

func TestDriverSolvesKnapsackMIP(t *testing.T) {
	p, err := lp.FromSource(knapsackSource{})
	require.NoError(t, err)

	opts := collaborators.DefaultOptions()
	d := NewDriver(p, opts, collaborators.NoopLogger{}, collaborators.NewFakeClock())
	result, err := d.Solve(context.Background())
	require.NoError(t, err)

	require.Equal(t, StatusOptimal, result.Status)
	assert.InDelta(t, -5.0, result.Objective, 1e-6)

	x, y := result.ColValue[0], result.ColValue[1]
	assert.InDelta(t, math.Round(x), x, 1e-6)
	assert.InDelta(t, math.Round(y), y, 1e-6)
	assert.InDelta(t, 5.0, x+y, 1e-6)
}

// allIntegerAtRootSource is "minimize x+y s.t. x+y>=2, 0<=x,y<=10" with
// both columns declared integer: the LP relaxation's optimum is already
// integral, so spec §8's "no branching occurs" boundary behavior applies.
type allIntegerAtRootSource struct{}

func (allIntegerAtRootSource) NumCols() int        { return 2 }
func (allIntegerAtRootSource) NumRows() int        { return 1 }
func (allIntegerAtRootSource) ColStart() []int     { return []int{0, 1, 2} }
func (allIntegerAtRootSource) ColIndex() []int     { return []int{0, 0} }
func (allIntegerAtRootSource) ColValue() []float64 { return []float64{1, 1} }
func (allIntegerAtRootSource) Cost() []float64     { return []float64{1, 1} }
func (allIntegerAtRootSource) ColLower() []float64 { return []float64{0, 0} }
func (allIntegerAtRootSource) ColUpper() []float64 { return []float64{10, 10} }
func (allIntegerAtRootSource) RowLower() []float64 { return []float64{2} }
func (allIntegerAtRootSource) RowUpper() []float64 { return []float64{math.Inf(1)} }
func (allIntegerAtRootSource) Sense() collaborators.Sense { return collaborators.Minimize }
func (allIntegerAtRootSource) Integrality() []collaborators.VarKind {
	return []collaborators.VarKind{collaborators.Integer, collaborators.Integer}
}

func TestDriverNoBranchingWhenRootIsIntegral(t *testing.T) {
	p, err := lp.FromSource(allIntegerAtRootSource{})
	require.NoError(t, err)

	opts := collaborators.DefaultOptions()
	d := NewDriver(p, opts, collaborators.NoopLogger{}, collaborators.NewFakeClock())
	result, err := d.Solve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusOptimal, result.Status)
	assert.InDelta(t, 2.0, result.Objective, 1e-6)
	assert.Equal(t, 1, result.NodesSeen, "an integral root relaxation should need exactly one node")
}

func TestDriverReportsInfeasible(t *testing.T) {
	// x integer, 0.2 <= x <= 0.8: continuous-feasible, integer-infeasible.
	p := &lp.Problem{
		NumCols:     1,
		NumRows:     0,
		ColStart:    []int{0, 0},
		ColIndex:    []int{},
		ColValue:    []float64{},
		Cost:        []float64{1},
		ColLower:    []float64{0.2},
		ColUpper:    []float64{0.8},
		RowLower:    []float64{},
		RowUpper:    []float64{},
		Sense:       collaborators.Minimize,
		Integrality: []collaborators.VarKind{collaborators.Integer},
	}

	opts := collaborators.DefaultOptions()
	d := NewDriver(p, opts, collaborators.NoopLogger{}, collaborators.NewFakeClock())
	result, err := d.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, result.Status)
}

func TestDriverCancellation(t *testing.T) {
	p, err := lp.FromSource(knapsackSource{})
	require.NoError(t, err)

	opts := collaborators.DefaultOptions()
	d := NewDriver(p, opts, collaborators.NoopLogger{}, collaborators.NewFakeClock())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := d.Solve(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, result.Status)
}
