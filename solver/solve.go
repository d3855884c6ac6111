package solver

import (
	"context"
	"math"

	"github.com/go-lp/lpcore/basis"
	"github.com/go-lp/lpcore/branch"
	"github.com/go-lp/lpcore/collaborators"
	"github.com/go-lp/lpcore/errs"
	"github.com/go-lp/lpcore/lp"
	"github.com/go-lp/lpcore/nla"
	"github.com/go-lp/lpcore/simplex"
)

// Solve is the single entry point of the core: it takes ownership of src
// via lp.FromSource, dispatches to the LP engine or the branch-and-bound
// driver, and reports a Solution. A non-nil error, returned with an empty
// Solution, means either that the source failed validation for a reason
// other than an infeasible bound (a programming error at the caller's
// boundary), or that INVERT, engine setup, the simplex run or the
// branch-and-bound run failed with an error it could not recover from.
// Every other terminating condition, including infeasibility, is reported
// through Solution.Status with a nil error.
func Solve(ctx context.Context, src collaborators.LpSource, opts collaborators.Options, logger collaborators.Logger, clock collaborators.Clock) (Solution, error) {
	opts = opts.Clamp()

	if src.NumCols() == 0 {
		// An LP with no columns is trivially optimal with objective zero,
		// unconditional and independent of row bounds.
		return emptySolution(src.NumRows()), nil
	}

	p, err := lp.FromSource(src)
	if err != nil {
		if errs.Is(err, errs.BoundInconsistent) {
			return Solution{Status: StatusInfeasible}, nil
		}
		return Solution{}, err
	}

	if p.NumRows == 0 && !isMIP(p) {
		return boundMinimizerSolution(p), nil
	}

	if isMIP(p) {
		return solveMIP(ctx, p, opts, logger, clock)
	}
	return solveLP(ctx, p, opts, logger, clock)
}

func isMIP(p *lp.Problem) bool {
	for _, k := range p.Integrality {
		if k != collaborators.Continuous {
			return true
		}
	}
	return false
}

// emptySolution builds the n=0 boundary-behavior Solution: no structural
// variables, every logical trivially basic, objective zero.
func emptySolution(numRows int) Solution {
	rowValue := make([]float64, numRows)
	rowDual := make([]float64, numRows)
	rowStatus := make([]basis.Status, numRows)
	for r := range rowStatus {
		rowStatus[r] = basis.StatusBasic
	}
	return Solution{
		ColValue:  []float64{},
		ColDual:   []float64{},
		RowValue:  rowValue,
		RowDual:   rowDual,
		Objective: 0,
		Status:    StatusOptimal,
		ColStatus: []basis.Status{},
		RowStatus: rowStatus,
	}
}

// boundMinimizerSolution handles an LP with no rows (n>0, m=0) directly
// off the cost and bound vectors, with no factorization or simplex
// iteration: a positive cost pushes its column to its lower bound, a
// negative cost to its upper bound, either one unbounded if the
// corresponding bound is infinite; a zero cost may sit anywhere feasible
// and is reported at its lower bound if finite, else at its upper bound if
// finite, else at zero (free).
func boundMinimizerSolution(p *lp.Problem) Solution {
	n := p.NumCols
	colValue := make([]float64, n)
	colDual := make([]float64, n)
	colStatus := make([]basis.Status, n)

	obj := 0.0
	for j := 0; j < n; j++ {
		c, lo, hi := p.Cost[j], p.ColLower[j], p.ColUpper[j]
		colDual[j] = c
		switch {
		case c > 0:
			if math.IsInf(lo, -1) {
				return Solution{Status: StatusUnbounded}
			}
			colValue[j] = lo
			colStatus[j] = boundStatus(lo, hi, true)
		case c < 0:
			if math.IsInf(hi, 1) {
				return Solution{Status: StatusUnbounded}
			}
			colValue[j] = hi
			colStatus[j] = boundStatus(lo, hi, false)
		default:
			switch {
			case !math.IsInf(lo, -1):
				colValue[j] = lo
				colStatus[j] = boundStatus(lo, hi, true)
			case !math.IsInf(hi, 1):
				colValue[j] = hi
				colStatus[j] = boundStatus(lo, hi, false)
			default:
				colValue[j] = 0
				colStatus[j] = basis.StatusZero
			}
		}
		obj += c * colValue[j]
	}

	if p.Sense == collaborators.Maximize {
		obj = -obj
		for j := range colDual {
			colDual[j] = -colDual[j]
		}
	}

	return Solution{
		ColValue:  colValue,
		ColDual:   colDual,
		RowValue:  []float64{},
		RowDual:   []float64{},
		Objective: obj,
		Status:    StatusOptimal,
		ColStatus: colStatus,
		RowStatus: []basis.Status{},
	}
}

// boundStatus reports which bound a variable is resting at for the
// basis-file encoding, preferring Zero when both bounds happen to
// coincide (a fixed variable).
func boundStatus(lo, hi float64, atLower bool) basis.Status {
	if !math.IsInf(lo, -1) && !math.IsInf(hi, 1) && lo == hi {
		return basis.StatusZero
	}
	if atLower {
		return basis.StatusLower
	}
	return basis.StatusUpper
}

// solveLP runs the revised dual simplex engine to completion and maps its
// terminating Status and live basis into a Solution.
func solveLP(ctx context.Context, p *lp.Problem, opts collaborators.Options, logger collaborators.Logger, clock collaborators.Clock) (Solution, error) {
	b := basis.NewAllLogical(p)
	facade := nla.NewFacade(p, opts, logger)
	if err := facade.Invert(b); err != nil {
		return Solution{}, err
	}

	engine, err := simplex.NewEngine(p, b, facade, opts, logger, clock)
	if err != nil {
		return Solution{}, err
	}

	result, err := engine.Solve(ctx)
	if err != nil {
		return Solution{}, err
	}

	switch result.Status {
	case simplex.StatusOptimal:
		return lpSolution(p, engine), nil
	case simplex.StatusPrimalInfeasible:
		return Solution{Status: StatusInfeasible}, nil
	case simplex.StatusUnbounded:
		return Solution{Status: StatusUnbounded}, nil
	case simplex.StatusIterationLimit:
		return Solution{Status: StatusIterationLimit}, nil
	case simplex.StatusTimeLimit:
		return Solution{Status: StatusTimeLimit}, nil
	default: // StatusCancelled, StatusNumericalFailure
		return Solution{Status: StatusError}, nil
	}
}

// lpSolution reads every field of a Solution off a converged Engine,
// undoing the Maximize→minimize(-c) normalization lp.FromSource applied
// at ingestion.
func lpSolution(p *lp.Problem, engine *simplex.Engine) Solution {
	colValue := engine.PrimalSolution()
	colDual := engine.ReducedCosts()
	rowDual := engine.RowDuals()
	obj := engine.Objective()

	if p.Sense == collaborators.Maximize {
		obj = -obj
		negateInPlace(colDual)
		negateInPlace(rowDual)
	}

	b := engine.Basis()
	colStatus := make([]basis.Status, p.NumCols)
	for j := range colStatus {
		colStatus[j] = b.StatusOf(j)
	}
	rowStatus := make([]basis.Status, p.NumRows)
	for r := range rowStatus {
		rowStatus[r] = b.StatusOf(p.NumCols + r)
	}

	return Solution{
		ColValue:  colValue,
		ColDual:   colDual,
		RowValue:  p.RowActivity(colValue),
		RowDual:   rowDual,
		Objective: obj,
		Status:    StatusOptimal,
		ColStatus: colStatus,
		RowStatus: rowStatus,
	}
}

// solveMIP runs branch-and-bound to completion and maps its Result into a
// Solution. A MIP's terminating basis belongs to whichever relaxation
// produced the incumbent, which the driver does not expose, so ColDual,
// RowDual and the basis statuses are left empty; only ColValue, RowValue
// and Objective are populated.
func solveMIP(ctx context.Context, p *lp.Problem, opts collaborators.Options, logger collaborators.Logger, clock collaborators.Clock) (Solution, error) {
	driver := branch.NewDriver(p, opts, logger, clock)
	result, err := driver.Solve(ctx)
	if err != nil {
		return Solution{}, err
	}

	switch result.Status {
	case branch.StatusOptimal:
		return mipSolution(p, result), nil
	case branch.StatusInfeasible:
		return Solution{Status: StatusInfeasible}, nil
	case branch.StatusTimeLimit:
		return Solution{Status: StatusTimeLimit}, nil
	case branch.StatusNodeLimit:
		return Solution{Status: StatusIterationLimit}, nil
	default: // StatusCancelled
		return Solution{Status: StatusError}, nil
	}
}

func mipSolution(p *lp.Problem, result branch.Result) Solution {
	obj := result.Objective
	if p.Sense == collaborators.Maximize {
		obj = -obj
	}
	return Solution{
		ColValue:  result.ColValue,
		RowValue:  p.RowActivity(result.ColValue),
		Objective: obj,
		Status:    StatusOptimal,
	}
}

func negateInPlace(x []float64) {
	for i := range x {
		x[i] = -x[i]
	}
}
