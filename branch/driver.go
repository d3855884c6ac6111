package branch

import (
	"container/heap"
	"context"
	"math"

	"github.com/go-lp/lpcore/basis"
	"github.com/go-lp/lpcore/collaborators"
	"github.com/go-lp/lpcore/lp"
	"github.com/go-lp/lpcore/nla"
	"github.com/go-lp/lpcore/pseudocost"
	"github.com/go-lp/lpcore/simplex"
)

// Status is the terminating condition of a Driver.Solve call.
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusTimeLimit
	StatusCancelled
	StatusNodeLimit
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusTimeLimit:
		return "time-limit"
	case StatusCancelled:
		return "cancelled"
	default:
		return "node-limit"
	}
}

// Result is what Driver.Solve reports on termination.
type Result struct {
	Status    Status
	Objective float64
	ColValue  []float64
	NodesSeen int
}

// boundsConsistent reports whether every column's lower bound does not
// exceed its upper bound; a node can violate this only as the direct
// result of a branch's own tightening.
func boundsConsistent(p *lp.Problem) bool {
	for j := 0; j < p.NumCols; j++ {
		lo, hi := p.ColLower[j], p.ColUpper[j]
		if !math.IsInf(lo, 0) && !math.IsInf(hi, 0) && lo > hi {
			return false
		}
	}
	return true
}

// integerFeasTol is how close a value must be to an integer to count as
// integral; distinct from the LP's own primal feasibility tolerance since
// it governs a combinatorial decision (branch or accept), not numerical
// residual.
const integerFeasTol = 1e-6

// Driver owns one MIP solve's search state: the open-node queue, the
// incumbent, and the pseudocost store every node's branching decision and
// outcome feeds.
type Driver struct {
	problem     *lp.Problem
	opts        collaborators.Options
	logger      collaborators.Logger
	clock       collaborators.Clock
	integerCols []int
	pseudo      *pseudocost.Store
}

// NewDriver builds a Driver over problem; integer columns are read from
// problem.Integrality.
func NewDriver(p *lp.Problem, opts collaborators.Options, logger collaborators.Logger, clock collaborators.Clock) *Driver {
	if logger == nil {
		logger = collaborators.NoopLogger{}
	}
	if clock == nil {
		clock = collaborators.SystemClock{}
	}
	var intCols []int
	for j := 0; j < p.NumCols; j++ {
		if p.Integrality[j] != collaborators.Continuous {
			intCols = append(intCols, j)
		}
	}
	return &Driver{
		problem:     p,
		opts:        opts,
		logger:      logger,
		clock:       clock,
		integerCols: intCols,
		pseudo:      pseudocost.NewStore(p.NumCols),
	}
}

// Solve runs best-bound branch-and-bound to completion, polling ctx
// before dequeuing each node.
func (d *Driver) Solve(ctx context.Context) (Result, error) {
	deadline := math.Inf(1)
	if !math.IsInf(d.opts.TimeLimitSeconds, 1) {
		deadline = d.clock.Now() + d.opts.TimeLimitSeconds
	}

	queue := nodeQueue{}
	pool := &nodePool{}
	pool.push(&queue, newRootNode(d.problem))

	incumbentObj := math.Inf(1)
	var incumbentSol []float64
	nodesSeen := 0

	for queue.Len() > 0 {
		if ctx.Err() != nil {
			return d.result(StatusCancelled, incumbentObj, incumbentSol, nodesSeen), nil
		}
		if d.clock.Now() >= deadline {
			return d.result(StatusTimeLimit, incumbentObj, incumbentSol, nodesSeen), nil
		}
		if d.opts.NodeLimit > 0 && nodesSeen >= d.opts.NodeLimit {
			return d.result(StatusNodeLimit, incumbentObj, incumbentSol, nodesSeen), nil
		}

		n := heap.Pop(&queue).(*node)
		nodesSeen++

		if !boundsConsistent(n.problem) {
			// A branch that tightened lower above upper witnesses
			// infeasibility directly, without invoking the simplex engine
			// at all.
			d.recordCutoff(n)
			continue
		}

		if d.isCutoff(n, incumbentObj) {
			d.recordCutoff(n)
			continue
		}

		engine, err := d.solveRelaxation(n)
		if err != nil {
			return Result{}, err
		}
		if engine == nil {
			// Primal-infeasible or numerically abandoned relaxation: prune.
			d.recordCutoff(n)
			continue
		}

		obj := engine.Objective()
		d.recordGain(n, obj)

		if !math.IsInf(incumbentObj, 1) && obj >= incumbentObj-d.gapTolerance(incumbentObj) {
			continue
		}

		sol := engine.PrimalSolution()
		branchCol, _, fractional := d.mostPromisingFractionalColumn(sol)
		if !fractional {
			incumbentObj = obj
			incumbentSol = sol
			d.logger.Debugf("branch: new incumbent %g at node %d", obj, n.id)
			continue
		}

		warmStart := engine.Basis().Clone()
		down, up := n.children(branchCol, sol[branchCol], warmStart, obj)
		pool.push(&queue, down)
		pool.push(&queue, up)
	}

	if math.IsInf(incumbentObj, 1) {
		return d.result(StatusInfeasible, incumbentObj, incumbentSol, nodesSeen), nil
	}
	return d.result(StatusOptimal, incumbentObj, incumbentSol, nodesSeen), nil
}

func (d *Driver) result(status Status, obj float64, sol []float64, nodes int) Result {
	return Result{Status: status, Objective: obj, ColValue: sol, NodesSeen: nodes}
}

// gapTolerance is the absolute tolerance a candidate bound must clear the
// incumbent by to remain worth exploring, combining the configured
// absolute and relative MIP gaps.
func (d *Driver) gapTolerance(incumbentObj float64) float64 {
	return math.Max(d.opts.MipAbsGap, d.opts.MipRelGap*math.Abs(incumbentObj))
}

// isCutoff prunes without even solving the relaxation when the node's
// inherited parent bound already fails the incumbent gap test, the
// cheapest possible prune.
func (d *Driver) isCutoff(n *node, incumbentObj float64) bool {
	if n.branchVar < 0 || math.IsInf(incumbentObj, 1) {
		return false
	}
	return n.bound >= incumbentObj-d.gapTolerance(incumbentObj)
}

func (d *Driver) recordCutoff(n *node) {
	if n.branchVar < 0 {
		return
	}
	d.pseudo.ObserveCutoff(n.branchVar, n.branchDir, 1.0)
}

func (d *Driver) recordGain(n *node, objective float64) {
	if n.branchVar < 0 {
		return
	}
	gain := objective - n.parentObjective
	if gain < 0 {
		gain = 0
	}
	d.pseudo.Observe(n.branchVar, n.branchDir, n.branchFrac, gain)
}

// solveRelaxation builds a fresh Facade/Engine over n's per-node problem,
// warm-starting from n.startBasis when present, and solves it. A nil
// Engine with a nil error means the relaxation is primal-infeasible or
// was abandoned after a numerical failure; either way it prunes.
func (d *Driver) solveRelaxation(n *node) (*simplex.Engine, error) {
	var b *basis.Basis
	if n.startBasis != nil {
		b = n.startBasis.Clone()
	} else {
		b = basis.NewAllLogical(n.problem)
	}

	facade := nla.NewFacade(n.problem, d.opts, d.logger)
	if err := facade.Invert(b); err != nil {
		d.logger.Warnf("branch: node %d INVERT failed: %v", n.id, err)
		return nil, nil
	}

	engine, err := simplex.NewEngine(n.problem, b, facade, d.opts, d.logger, d.clock)
	if err != nil {
		d.logger.Warnf("branch: node %d engine setup failed: %v", n.id, err)
		return nil, nil
	}

	result, err := engine.Solve(context.Background())
	if err != nil {
		return nil, err
	}
	switch result.Status {
	case simplex.StatusOptimal:
		return engine, nil
	case simplex.StatusPrimalInfeasible, simplex.StatusNumericalFailure, simplex.StatusIterationLimit:
		return nil, nil
	default:
		return nil, nil
	}
}

// mostPromisingFractionalColumn selects the branching variable via
// pseudocost's reliability-branching score among the fractional integer
// columns. Columns below the reliability threshold still get a score,
// since pseudocost blends them toward the global mean rather than
// refusing to rank them, so this always picks something once fracValues
// is non-empty.
func (d *Driver) mostPromisingFractionalColumn(sol []float64) (col int, frac float64, ok bool) {
	fracValues := make(map[int]float64)
	for _, j := range d.integerCols {
		f := sol[j] - math.Floor(sol[j])
		if f > integerFeasTol && f < 1-integerFeasTol {
			fracValues[j] = sol[j]
		}
	}
	if len(fracValues) == 0 {
		return 0, 0, false
	}

	best, _ := d.pseudo.BestBranchingColumn(fracValues, d.opts.PseudocostReliability, 1e-6)
	x := fracValues[best]
	return best, x - math.Floor(x), true
}
