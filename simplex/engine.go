// Package simplex is the dual simplex engine: the iterative basis-exchange
// loop that prices reduced costs, chooses a leaving variable by
// steepest-edge CHUZR, runs CHUZC/BFRT to choose an entering variable (or a
// batch of bound flips), and applies the result through the NLA facade.
//
// The loop is revised-simplex and update-based: it maintains a product-form
// factorization across pivots rather than re-deriving a dense tableau from
// scratch on every iteration.
package simplex

import (
	"context"
	"math"

	"github.com/go-lp/lpcore/basis"
	"github.com/go-lp/lpcore/collaborators"
	"github.com/go-lp/lpcore/errs"
	"github.com/go-lp/lpcore/lp"
	"github.com/go-lp/lpcore/nla"
)

// Status is the terminating condition of a Solve call.
type Status int

const (
	StatusOptimal Status = iota
	StatusPrimalInfeasible
	StatusUnbounded
	StatusIterationLimit
	StatusTimeLimit
	StatusCancelled
	StatusNumericalFailure
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusPrimalInfeasible:
		return "primal-infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusIterationLimit:
		return "iteration-limit"
	case StatusTimeLimit:
		return "time-limit"
	case StatusCancelled:
		return "cancelled"
	default:
		return "numerical-failure"
	}
}

// Result is what Solve reports on termination.
type Result struct {
	Status     Status
	Iterations int
}

// Engine owns one simplex run's mutable state: the live basis, reduced
// costs, DSE weights, and the primal values of the basic variables. It
// touches linear algebra only through nla.Facade.
type Engine struct {
	problem *lp.Problem
	basis   *basis.Basis
	facade  *nla.Facade
	opts    collaborators.Options
	logger  collaborators.Logger
	clock   collaborators.Clock

	duals    []float64 // reduced cost per variable; meaningful only when nonbasic
	rowDuals []float64 // y = cB·B⁻¹, length NumRows
	weights  []float64 // DSE reference weight per basic position
	primal   []float64 // value of the basic variable at each position
	shift    []float64 // phase I composite-objective cost per variable

	phase int // 1 or 2

	expand   *expandState
	free     *freeSet
	tieOrder []int

	updatesSinceRefactor int
	iterations           int
}

// NewEngine builds an Engine over problem's basis b, already INVERTed
// against facade. It runs Phase I's composite-objective setup and an
// initial dual/primal computation before returning.
func NewEngine(p *lp.Problem, b *basis.Basis, facade *nla.Facade, opts collaborators.Options, logger collaborators.Logger, clock collaborators.Clock) (*Engine, error) {
	if logger == nil {
		logger = collaborators.NoopLogger{}
	}
	if clock == nil {
		clock = collaborators.SystemClock{}
	}
	n := b.NumVars()
	e := &Engine{
		problem:  p,
		basis:    b,
		facade:   facade,
		opts:     opts,
		logger:   logger,
		clock:    clock,
		duals:    make([]float64, n),
		rowDuals: make([]float64, p.NumRows),
		weights:  make([]float64, b.Size()),
		primal:   make([]float64, b.Size()),
		shift:    make([]float64, n),
		phase:    1,
		expand:   newExpandState(opts.DualFeasibilityTolerance, opts.ExpandResetPeriod),
		free:     newFreeSet(p),
		tieOrder: stableTieOrder(n),
	}
	for i := range e.weights {
		e.weights[i] = 1
	}
	if err := e.recomputePrimal(); err != nil {
		return nil, err
	}
	e.setPhaseOneCosts()
	if err := e.recomputeDuals(); err != nil {
		return nil, err
	}
	return e, nil
}

// stableTieOrder returns the identity permutation used to break CHUZC
// ratio ties deterministically. A fixed ordering is sufficient since only
// consistency across a single run's sort calls is required, not
// unpredictability.
func stableTieOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// costOf returns the active objective coefficient of variable v: the
// Phase I composite cost while phase == 1, the true cost otherwise.
func (e *Engine) costOf(v int) float64 {
	if e.phase == 1 {
		return e.shift[v]
	}
	return e.problem.VarCost(v)
}

// setPhaseOneCosts assigns every nonbasic variable a composite cost with
// the same sign as its own nonbasicMove, so the starting basis is
// trivially dual-feasible under the composite objective. Phase I minimizes
// the sum of dual infeasibilities using these shifted costs; basic
// variables and free nonbasics get zero.
func (e *Engine) setPhaseOneCosts() {
	for v := 0; v < e.basis.NumVars(); v++ {
		if e.basis.IsBasic(v) || e.free.Contains(v) {
			e.shift[v] = 0
			continue
		}
		switch e.basis.NonbasicMove[v] {
		case basis.MoveLower:
			e.shift[v] = 1
		case basis.MoveUpper:
			e.shift[v] = -1
		default:
			e.shift[v] = 0
		}
	}
}

// nonbasicValue returns the value a nonbasic variable currently sits at.
func (e *Engine) nonbasicValue(v int) float64 {
	switch e.basis.NonbasicMove[v] {
	case basis.MoveLower:
		return e.problem.VarLower(v)
	case basis.MoveUpper:
		return e.problem.VarUpper(v)
	default:
		return 0
	}
}

// recomputePrimal solves B·x_B = -Σ_{j nonbasic} x_j·A_j from scratch via
// FTRAN. Recomputing rather than taking an incremental theta step keeps
// the engine simple and self-correcting at the cost of one FTRAN per
// iteration, acceptable since FTRAN is already the per-iteration unit of
// work the façade is built around.
func (e *Engine) recomputePrimal() error {
	rhs := lp.NewHVector(e.problem.NumRows)
	for v := 0; v < e.basis.NumVars(); v++ {
		if e.basis.IsBasic(v) {
			continue
		}
		x := e.nonbasicValue(v)
		if x == 0 {
			continue
		}
		e.problem.ScatterColumnA(v, x, rhs)
	}
	for _, i := range rhs.Index[:rhs.Count] {
		rhs.Array[i] = -rhs.Array[i]
	}
	if err := e.facade.FTRAN(rhs); err != nil {
		return err
	}
	for p := 0; p < e.basis.Size(); p++ {
		e.primal[p] = rhs.Get(p)
	}
	return nil
}

// recomputeDuals computes y = cB·B⁻¹ via BTRAN on the active cost vector,
// then every nonbasic variable's reduced cost d_j = c_j - Aᵀ_j·y.
func (e *Engine) recomputeDuals() error {
	cB := lp.NewHVector(e.problem.NumRows)
	for p, v := range e.basis.BasicIndex {
		cB.Set(p, e.costOf(v))
	}
	if err := e.facade.BTRAN(cB); err != nil {
		return err
	}
	copy(e.rowDuals, cB.Array)
	for v := 0; v < e.basis.NumVars(); v++ {
		if e.basis.IsBasic(v) {
			e.duals[v] = 0
			continue
		}
		e.duals[v] = e.costOf(v) - e.problem.SparseDotColumn(v, cB.Array)
	}
	return nil
}

// dualFeasibleUnderTrueCosts reports whether every nonbasic variable's
// reduced cost, computed under the TRUE objective rather than the Phase I
// composite one, already satisfies dual feasibility. This is the
// condition that switches the engine from Phase I to Phase II.
func (e *Engine) dualFeasibleUnderTrueCosts() (bool, error) {
	cB := lp.NewHVector(e.problem.NumRows)
	for p, v := range e.basis.BasicIndex {
		cB.Set(p, e.problem.VarCost(v))
	}
	if err := e.facade.BTRAN(cB); err != nil {
		return false, err
	}
	tol := e.opts.DualFeasibilityTolerance
	for v := 0; v < e.basis.NumVars(); v++ {
		if e.basis.IsBasic(v) || e.free.Contains(v) {
			continue
		}
		d := e.problem.VarCost(v) - e.problem.SparseDotColumn(v, cB.Array)
		move := float64(e.basis.NonbasicMove[v])
		if d*move < -tol {
			return false, nil
		}
	}
	return true, nil
}

// primalRepairStep runs one primal-simplex pivot out of the current vertex
// when chuzr finds no primal infeasibility to dual-pivot on but the basis
// is still dual-infeasible under the true objective. This is the common
// case of an all-logical start that is already primal-feasible, where the
// Phase I cost shift alone gives chuzr nothing to do. It enters the most
// dual-infeasible nonbasic column and ratio-tests every basic variable,
// plus the entering column's own opposite bound, for the largest step that
// keeps everything feasible. The result is either a bound flip (no basis
// change) or an ordinary basis swap, after which Phase I's composite costs
// and the primal/dual vectors are refreshed exactly as after a normal
// dual-simplex pivot. It reports progressed == false only if it is called
// with no dual infeasibility left to repair, and returns an Unbounded
// error if the ratio test finds no finite limit in either the basic
// variables or the entering column's own range.
func (e *Engine) primalRepairStep() (progressed bool, err error) {
	cB := lp.NewHVector(e.problem.NumRows)
	for p, v := range e.basis.BasicIndex {
		cB.Set(p, e.problem.VarCost(v))
	}
	if err := e.facade.BTRAN(cB); err != nil {
		return false, err
	}

	tol := e.opts.DualFeasibilityTolerance
	enter := -1
	worst := tol
	for v := 0; v < e.basis.NumVars(); v++ {
		if e.basis.IsBasic(v) || e.free.Contains(v) {
			continue
		}
		d := e.problem.VarCost(v) - e.problem.SparseDotColumn(v, cB.Array)
		move := float64(e.basis.NonbasicMove[v])
		viol := -(d * move)
		if viol > worst {
			worst = viol
			enter = v
		}
	}
	if enter == -1 {
		return false, nil
	}

	sign := 1.0
	if e.basis.NonbasicMove[enter] == basis.MoveUpper {
		sign = -1
	}

	alpha := lp.NewHVector(e.problem.NumRows)
	e.problem.ScatterColumnA(enter, 1, alpha)
	if err := e.facade.FTRAN(alpha); err != nil {
		return false, err
	}

	theta := math.Inf(1)
	leavingPos := -1
	leavingMove := basis.MoveLower
	if rng := e.problem.VarUpper(enter) - e.problem.VarLower(enter); !math.IsInf(rng, 1) {
		theta = rng
	}

	for _, p := range alpha.Index[:alpha.Count] {
		a := alpha.Get(p) * sign
		if a == 0 {
			continue
		}
		v := e.basis.BasicIndex[p]
		lower, upper := e.problem.VarLower(v), e.problem.VarUpper(v)
		x := e.primal[p]

		var lim float64
		var move basis.Move
		if a > 0 {
			if math.IsInf(lower, -1) {
				continue
			}
			lim = (x - lower) / a
			move = basis.MoveLower
		} else {
			if math.IsInf(upper, 1) {
				continue
			}
			lim = (x - upper) / a
			move = basis.MoveUpper
		}
		if lim < 0 {
			lim = 0
		}
		if lim < theta {
			theta = lim
			leavingPos = p
			leavingMove = move
		}
	}

	if math.IsInf(theta, 1) {
		return false, errs.New(errs.Unbounded, "simplex: no finite ratio-test limit restoring dual feasibility")
	}

	if leavingPos == -1 {
		e.flipBound(enter)
	} else {
		e.basis.SwapBasic(leavingPos, enter, leavingMove)
		if err := e.facade.Update(leavingPos, alpha); err != nil {
			return false, err
		}
		// This pivot is a primal step, not a dual one, so the DSE
		// recurrence of updateWeights (derived for the dual ratio test)
		// does not apply; reset the new basic position's weight to the
		// same neutral value NewEngine starts every position at.
		e.weights[leavingPos] = 1
		e.updatesSinceRefactor++
	}

	e.setPhaseOneCosts()
	if err := e.recomputePrimal(); err != nil {
		return false, err
	}
	if err := e.recomputeDuals(); err != nil {
		return false, err
	}
	return true, nil
}

// possibilityTolerance is CHUZC phase A's magnitude tolerance, which
// grows coarser the more product-form updates have accumulated since the
// last refactorization.
func (e *Engine) possibilityTolerance() float64 {
	switch {
	case e.updatesSinceRefactor < 10:
		return 1e-9
	case e.updatesSinceRefactor < 20:
		return 3e-8
	default:
		return 1e-6
	}
}

func (e *Engine) flipBound(v int) {
	switch e.basis.NonbasicMove[v] {
	case basis.MoveLower:
		e.basis.FlipNonbasic(v, basis.MoveUpper)
	case basis.MoveUpper:
		e.basis.FlipNonbasic(v, basis.MoveLower)
	}
}

// recoverFromPivotFailure refactorizes and retries on the two errors the
// facade's Update can legitimately raise. A numerical failure escalates
// to refactor and retry, then to abandon with error; any other error is
// returned unchanged for the caller to abandon on.
func (e *Engine) recoverFromPivotFailure(err error) error {
	kind := errs.KindOf(err)
	if kind != errs.Unstable && kind != errs.Singular {
		return err
	}
	e.logger.Warnf("simplex: pivot failure (%s), refactorizing and retrying", kind)
	if ierr := e.facade.Invert(e.basis); ierr != nil {
		return ierr
	}
	e.updatesSinceRefactor = 0
	if perr := e.recomputePrimal(); perr != nil {
		return perr
	}
	return e.recomputeDuals()
}

// Solve runs the dual simplex loop to completion, switching Phase I to
// Phase II once the true reduced costs become dual feasible, polling ctx
// for cancellation between iterations.
func (e *Engine) Solve(ctx context.Context) (Result, error) {
	deadline := math.Inf(1)
	if !math.IsInf(e.opts.TimeLimitSeconds, 1) {
		deadline = e.clock.Now() + e.opts.TimeLimitSeconds
	}

	// retried is set once a pivot failure has been recovered by
	// refactorizing; a second failure in a row abandons the solve.
	retried := false
	for {
		if ctx.Err() != nil {
			return Result{Status: StatusCancelled, Iterations: e.iterations}, nil
		}
		if e.iterations >= e.opts.IterationLimit {
			return Result{Status: StatusIterationLimit, Iterations: e.iterations}, nil
		}
		if e.clock.Now() >= deadline {
			return Result{Status: StatusTimeLimit, Iterations: e.iterations}, nil
		}

		if e.phase == 1 {
			feasible, err := e.dualFeasibleUnderTrueCosts()
			if err != nil {
				return Result{Status: StatusNumericalFailure, Iterations: e.iterations}, err
			}
			if feasible {
				e.phase = 2
				for i := range e.shift {
					e.shift[i] = 0
				}
				if err := e.recomputeDuals(); err != nil {
					return Result{Status: StatusNumericalFailure, Iterations: e.iterations}, err
				}
				e.logger.Debugf("simplex: phase I complete at iteration %d", e.iterations)
			}
		}

		pos, delta := e.chuzr(e.opts.PrimalFeasibilityTolerance)
		if pos == -1 {
			if e.phase == 2 {
				return Result{Status: StatusOptimal, Iterations: e.iterations}, nil
			}

			// Phase I and primal-feasible already (the common case for an
			// all-logical start), but dualFeasibleUnderTrueCosts said the
			// true costs are not yet dual-feasible. The composite cost
			// shift alone gives chuzr nothing to pivot on, so take a
			// primal step out of this vertex instead.
			progressed, rerr := e.primalRepairStep()
			if rerr != nil {
				if errs.Is(rerr, errs.Unbounded) {
					return Result{Status: StatusUnbounded, Iterations: e.iterations}, nil
				}
				if retried {
					return Result{Status: StatusNumericalFailure, Iterations: e.iterations}, errs.Wrap(errs.Internal, rerr)
				}
				if recErr := e.recoverFromPivotFailure(rerr); recErr != nil {
					return Result{Status: StatusNumericalFailure, Iterations: e.iterations}, recErr
				}
				retried = true
				continue
			}
			retried = false
			if !progressed {
				// No dual infeasibility left to repair after all;
				// dualFeasibleUnderTrueCosts will confirm this at the top
				// of the next iteration and switch to Phase II.
				continue
			}
			e.iterations++
			e.expand.advance()
			continue
		}

		ok, err := e.iterate(pos, delta)
		if err != nil {
			if retried {
				return Result{Status: StatusNumericalFailure, Iterations: e.iterations}, errs.Wrap(errs.Internal, err)
			}
			if rerr := e.recoverFromPivotFailure(err); rerr != nil {
				return Result{Status: StatusNumericalFailure, Iterations: e.iterations}, rerr
			}
			retried = true
			continue
		}
		retried = false
		if !ok {
			return Result{Status: StatusPrimalInfeasible, Iterations: e.iterations}, nil
		}

		e.iterations++
		e.expand.advance()

		if e.facade.NeedsRefactor() {
			if err := e.facade.Invert(e.basis); err != nil {
				return Result{Status: StatusNumericalFailure, Iterations: e.iterations}, err
			}
			e.updatesSinceRefactor = 0
			if err := e.recomputePrimal(); err != nil {
				return Result{Status: StatusNumericalFailure, Iterations: e.iterations}, err
			}
			if err := e.recomputeDuals(); err != nil {
				return Result{Status: StatusNumericalFailure, Iterations: e.iterations}, err
			}
		}
	}
}

// iterate runs CHUZC and the pivot for the leaving position pos with
// primal infeasibility delta. It returns ok == false when CHUZC finds no
// candidate even for the freelist-widened search: dual-unbounded, which
// the caller reports as primal infeasibility.
func (e *Engine) iterate(pos int, delta float64) (bool, error) {
	rowEp, err := e.computePivotRow(pos)
	if err != nil {
		return false, err
	}

	ta := e.possibilityTolerance()
	td := e.expand.tolerance()

	// moveOut encodes which bound the leaving variable settles at: -1 when
	// resolving a lower-bound violation (delta<0), +1 for an upper-bound
	// violation, chosen so that alpha_j>0 means entering j moves x_B[pos]
	// toward feasibility.
	moveOut := -1.0
	if delta > 0 {
		moveOut = 1.0
	}

	var cands []chuzcCandidate
	for j := 0; j < e.basis.NumVars(); j++ {
		if e.basis.IsBasic(j) {
			continue
		}
		move := float64(e.basis.NonbasicMove[j])
		raw := e.rowValue(rowEp, j)
		if e.free.Contains(j) {
			// A free variable may move either way: take the direction in
			// which its alpha is positive.
			move = 1
			if raw*moveOut < 0 {
				move = -1
			}
		}
		alpha := raw * moveOut * move
		if alpha <= ta {
			continue
		}
		d := e.duals[j]
		ratio := (d*move + td) / alpha
		if ratio < 0 {
			ratio = 0
		}
		rng := e.problem.VarUpper(j) - e.problem.VarLower(j)
		if math.IsInf(rng, 1) || e.free.Contains(j) {
			rng = 0
		}
		cands = append(cands, chuzcCandidate{col: j, alpha: alpha, ratio: ratio, rng: rng})
	}

	result, err := chuzc(cands, delta, e.opts.ChuzcStrategy, e.opts.ChuzcHeapThreshold, e.tieOrder)
	if err != nil {
		if errs.Is(err, errs.ChuzcFail) {
			return false, nil
		}
		return false, err
	}

	alpha := lp.NewHVector(e.problem.NumRows)
	e.problem.ScatterColumnA(result.enteringCol, 1, alpha)
	if err := e.facade.FTRAN(alpha); err != nil {
		return false, err
	}

	for _, j := range result.flips {
		e.flipBound(j)
	}

	leavingMove := basis.MoveLower
	if delta > 0 {
		leavingMove = basis.MoveUpper
	}

	e.basis.SwapBasic(pos, result.enteringCol, leavingMove)

	if err := e.facade.Update(pos, alpha); err != nil {
		return false, err
	}
	e.updateWeights(pos, alpha, rowEp)
	e.updatesSinceRefactor++

	if err := e.recomputePrimal(); err != nil {
		return false, err
	}
	if err := e.recomputeDuals(); err != nil {
		return false, err
	}
	return true, nil
}

// Objective returns the current c·x, recomputed from live values rather
// than tracked incrementally.
func (e *Engine) Objective() float64 {
	sum := 0.0
	for p, v := range e.basis.BasicIndex {
		sum += e.problem.VarCost(v) * e.primal[p]
	}
	for v := 0; v < e.basis.NumVars(); v++ {
		if e.basis.IsBasic(v) {
			continue
		}
		sum += e.problem.VarCost(v) * e.nonbasicValue(v)
	}
	return sum
}

// PrimalSolution returns the value of every structural variable 0..n-1.
func (e *Engine) PrimalSolution() []float64 {
	out := make([]float64, e.problem.NumCols)
	for j := 0; j < e.problem.NumCols; j++ {
		if e.basis.IsBasic(j) {
			out[j] = e.primal[e.basis.PositionOf(j)]
		} else {
			out[j] = e.nonbasicValue(j)
		}
	}
	return out
}

// RowDuals returns y = cB·B⁻¹, one value per row.
func (e *Engine) RowDuals() []float64 {
	return append([]float64(nil), e.rowDuals...)
}

// ReducedCosts returns d_j = c_j - Aᵀ_j·y for every structural column
// 0..n-1, zero for a basic column.
func (e *Engine) ReducedCosts() []float64 {
	out := make([]float64, e.problem.NumCols)
	for j := 0; j < e.problem.NumCols; j++ {
		out[j] = e.duals[j]
	}
	return out
}

// Basis exposes the engine's live basis, used by branch to snapshot and
// warm-start child nodes.
func (e *Engine) Basis() *basis.Basis { return e.basis }

// Iterations returns the number of pivots performed so far.
func (e *Engine) Iterations() int { return e.iterations }
