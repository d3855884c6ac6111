package simplex

import (
	"context"
	"math"
	"testing"

	"github.com/go-lp/lpcore/basis"
	"github.com/go-lp/lpcore/collaborators"
	"github.com/go-lp/lpcore/lp"
	"github.com/go-lp/lpcore/nla"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boundedGESource is minimize sum(cost[j]*x[j]) subject to x0+x1 >= 1,
// 0 <= x_j <= 10 — the smallest LP that forces exactly one dual simplex
// pivot off the all-logical starting basis.
type boundedGESource struct{}

func (boundedGESource) NumCols() int        { return 2 }
func (boundedGESource) NumRows() int        { return 1 }
func (boundedGESource) ColStart() []int     { return []int{0, 1, 2} }
func (boundedGESource) ColIndex() []int     { return []int{0, 0} }
func (boundedGESource) ColValue() []float64 { return []float64{1, 1} }
func (boundedGESource) Cost() []float64     { return []float64{1, 2} }
func (boundedGESource) ColLower() []float64 { return []float64{0, 0} }
func (boundedGESource) ColUpper() []float64 { return []float64{10, 10} }
func (boundedGESource) RowLower() []float64 { return []float64{1} }
func (boundedGESource) RowUpper() []float64 { return []float64{math.Inf(1)} }
func (boundedGESource) Sense() collaborators.Sense { return collaborators.Minimize }
func (boundedGESource) Integrality() []collaborators.VarKind {
	return []collaborators.VarKind{collaborators.Continuous, collaborators.Continuous}
}

// boundedLESource is minimize -x subject to x<=5, x>=0 — the all-logical
// start is already primal-feasible (slack=x=0 sits within [-inf,5]), so
// chuzr alone has nothing to dual-pivot on; only a Phase I primal step
// (primalRepairStep) can move off the origin.
type boundedLESource struct{}

func (boundedLESource) NumCols() int        { return 1 }
func (boundedLESource) NumRows() int        { return 1 }
func (boundedLESource) ColStart() []int     { return []int{0, 1} }
func (boundedLESource) ColIndex() []int     { return []int{0} }
func (boundedLESource) ColValue() []float64 { return []float64{1} }
func (boundedLESource) Cost() []float64     { return []float64{-1} }
func (boundedLESource) ColLower() []float64 { return []float64{0} }
func (boundedLESource) ColUpper() []float64 { return []float64{math.Inf(1)} }
func (boundedLESource) RowLower() []float64 { return []float64{math.Inf(-1)} }
func (boundedLESource) RowUpper() []float64 { return []float64{5} }
func (boundedLESource) Sense() collaborators.Sense { return collaborators.Minimize }
func (boundedLESource) Integrality() []collaborators.VarKind {
	return []collaborators.VarKind{collaborators.Continuous}
}

// rowCappedColumnSource is minimize -x subject to x+y<=5, x,y>=0 — x has
// no upper bound of its own, but the row caps x+y, so the true optimum
// is finite (x=5, y=0) even though x alone is dual-infeasible at the
// all-logical start.
type rowCappedColumnSource struct{}

func (rowCappedColumnSource) NumCols() int        { return 2 }
func (rowCappedColumnSource) NumRows() int        { return 1 }
func (rowCappedColumnSource) ColStart() []int     { return []int{0, 1, 2} }
func (rowCappedColumnSource) ColIndex() []int     { return []int{0, 0} }
func (rowCappedColumnSource) ColValue() []float64 { return []float64{1, 1} }
func (rowCappedColumnSource) Cost() []float64     { return []float64{-1, 0} }
func (rowCappedColumnSource) ColLower() []float64 { return []float64{0, 0} }
func (rowCappedColumnSource) ColUpper() []float64 { return []float64{math.Inf(1), math.Inf(1)} }
func (rowCappedColumnSource) RowLower() []float64 { return []float64{math.Inf(-1)} }
func (rowCappedColumnSource) RowUpper() []float64 { return []float64{5} }
func (rowCappedColumnSource) Sense() collaborators.Sense { return collaborators.Minimize }
func (rowCappedColumnSource) Integrality() []collaborators.VarKind {
	return []collaborators.VarKind{collaborators.Continuous, collaborators.Continuous}
}

// trulyUnboundedSource is minimize -x-y subject to x-y<=5, x,y>=0: the
// row never caps x+y together, so the objective can be driven to -inf.
type trulyUnboundedSource struct{}

func (trulyUnboundedSource) NumCols() int        { return 2 }
func (trulyUnboundedSource) NumRows() int        { return 1 }
func (trulyUnboundedSource) ColStart() []int     { return []int{0, 1, 2} }
func (trulyUnboundedSource) ColIndex() []int     { return []int{0, 0} }
func (trulyUnboundedSource) ColValue() []float64 { return []float64{1, -1} }
func (trulyUnboundedSource) Cost() []float64     { return []float64{-1, -1} }
func (trulyUnboundedSource) ColLower() []float64 { return []float64{0, 0} }
func (trulyUnboundedSource) ColUpper() []float64 { return []float64{math.Inf(1), math.Inf(1)} }
func (trulyUnboundedSource) RowLower() []float64 { return []float64{math.Inf(-1)} }
func (trulyUnboundedSource) RowUpper() []float64 { return []float64{5} }
func (trulyUnboundedSource) Sense() collaborators.Sense { return collaborators.Minimize }
func (trulyUnboundedSource) Integrality() []collaborators.VarKind {
	return []collaborators.VarKind{collaborators.Continuous, collaborators.Continuous}
}

func newTestEngine(t *testing.T, src collaborators.LpSource) (*Engine, *lp.Problem) {
	p, err := lp.FromSource(src)
	require.NoError(t, err)
	opts := collaborators.DefaultOptions()
	b := basis.NewAllLogical(p)
	facade := nla.NewFacade(p, opts, collaborators.NoopLogger{})
	require.NoError(t, facade.Invert(b))
	e, err := NewEngine(p, b, facade, opts, collaborators.NoopLogger{}, collaborators.NewFakeClock())
	require.NoError(t, err)
	return e, p
}

func TestEngineSolvesSimpleCoverConstraint(t *testing.T) {
	e, _ := newTestEngine(t, boundedGESource{})
	result, err := e.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, result.Status)
	assert.InDelta(t, 1.0, e.Objective(), 1e-6)

	sol := e.PrimalSolution()
	assert.InDelta(t, 1.0, sol[0]+sol[1], 1e-6)
}

func TestEngineCancellation(t *testing.T) {
	e, _ := newTestEngine(t, boundedGESource{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := e.Solve(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, result.Status)
}

func TestEngineIterationLimit(t *testing.T) {
	e, _ := newTestEngine(t, boundedGESource{})
	e.opts.IterationLimit = 0
	result, err := e.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusIterationLimit, result.Status)
}

// TestEngineSolvesPrimalFeasibleDualInfeasibleStart is the shape
// boundedGESource never exercises: the all-logical start already sits
// inside every bound, so chuzr alone has nothing to dual-pivot on and
// only primalRepairStep can move off the origin.
func TestEngineSolvesPrimalFeasibleDualInfeasibleStart(t *testing.T) {
	e, _ := newTestEngine(t, boundedLESource{})
	result, err := e.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, result.Status)
	assert.InDelta(t, -5.0, e.Objective(), 1e-6)
	assert.InDelta(t, 5.0, e.PrimalSolution()[0], 1e-6)
}

func TestEngineSolvesPrimalFeasibleDualInfeasibleStartWithRowCap(t *testing.T) {
	e, _ := newTestEngine(t, rowCappedColumnSource{})
	result, err := e.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, result.Status)
	assert.InDelta(t, -5.0, e.Objective(), 1e-6)
	sol := e.PrimalSolution()
	assert.InDelta(t, 5.0, sol[0], 1e-6)
	assert.InDelta(t, 0.0, sol[1], 1e-6)
}

// TestEngineReportsUnboundedFromPrimalFeasibleStart covers the ratio-test
// dead end primalRepairStep must recognize: every repair candidate's own
// direction of improvement is unbounded in every row, so there is no
// finite step to take.
func TestEngineReportsUnboundedFromPrimalFeasibleStart(t *testing.T) {
	e, _ := newTestEngine(t, trulyUnboundedSource{})
	result, err := e.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusUnbounded, result.Status)
}
