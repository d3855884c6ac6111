// Package branch is the branch-and-bound driver: best-bound node
// selection over LP relaxations solved by simplex, warm-started from the
// parent's optimal basis, with branching variable choice delegated to
// pseudocost.
package branch

import (
	"math"

	"github.com/go-lp/lpcore/basis"
	"github.com/go-lp/lpcore/lp"
	"github.com/go-lp/lpcore/pseudocost"
)

var negInf = math.Inf(-1)

// node is one open subproblem: a per-node LP relaxation (the master LP
// with one column's bound tightened, chained off the parent's own
// tightening, applied to a per-node delta list rather than by mutating
// the master LP) plus enough of the parent's result to warm-start the
// simplex engine and, once solved, to feed pseudocost an observation.
type node struct {
	id    int64
	depth int

	problem *lp.Problem

	// startBasis seeds the child's simplex run. It is always dual
	// feasible for the child: branching only tightens a variable's
	// bound, never its cost, and reduced costs depend on cost and basis
	// alone. The parent's optimal basis therefore needs no Phase I
	// rework here, only primal repair, the entire point of using dual
	// simplex for branch-and-bound. nil for the root, which starts from
	// basis.NewAllLogical.
	startBasis *basis.Basis

	// bound is the parent relaxation's objective value, a valid lower
	// bound on this subtree (tightening bounds can only raise the
	// minimum of a minimization LP). -Inf for the root.
	bound float64

	// branchVar/branchDir/branchFrac/parentObjective are empty (branchVar
	// == -1) for the root; for every other node they identify the C5
	// observation to record once this node's own relaxation is solved.
	branchVar       int
	branchDir       pseudocost.Direction
	branchFrac      float64
	parentObjective float64
}

func newRootNode(p *lp.Problem) *node {
	return &node{
		problem:   p,
		bound:     negInf,
		branchVar: -1,
	}
}

func (n *node) colLower(j int) float64 { return n.problem.ColLower[j] }
func (n *node) colUpper(j int) float64 { return n.problem.ColUpper[j] }

// children returns the two subproblems produced by branching on column j
// at fractional value x in n's relaxation: the "down" child tightens j's
// upper bound to floor(x), the "up" child tightens j's lower bound to
// ceil(x). Both inherit n's own optimal basis as their warm start.
func (n *node) children(j int, xFrac float64, warmStart *basis.Basis, objective float64) (down, up *node) {
	floor, ceil := math.Floor(xFrac), math.Ceil(xFrac)
	f := xFrac - floor

	base := &node{
		depth:           n.depth + 1,
		startBasis:      warmStart,
		bound:           objective,
		branchVar:       j,
		parentObjective: objective,
	}

	downNode := *base
	downNode.problem = n.problem.WithColBound(j, n.colLower(j), floor)
	downNode.branchDir = pseudocost.Down
	downNode.branchFrac = f

	upNode := *base
	upNode.problem = n.problem.WithColBound(j, ceil, n.colUpper(j))
	upNode.branchDir = pseudocost.Up
	upNode.branchFrac = 1 - f

	return &downNode, &upNode
}
