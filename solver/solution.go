// Package solver is the top-level orchestration layer: it wires lp, basis,
// nla, simplex and, for MIPs, branch into one Solve entry point and owns
// the basis-file codec.
package solver

import "github.com/go-lp/lpcore/basis"

// Status is the terminating condition reported in a Solution: one of
// optimal, infeasible, unbounded, iteration_limit, time_limit, or error.
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
	StatusIterationLimit
	StatusTimeLimit
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusIterationLimit:
		return "iteration_limit"
	case StatusTimeLimit:
		return "time_limit"
	default:
		return "error"
	}
}

// Solution is the output bundle of a solve: primal/dual values for every
// column and row, the objective, a terminating Status, and the basis
// status of every variable.
type Solution struct {
	ColValue []float64
	ColDual  []float64
	RowValue []float64
	RowDual  []float64

	Objective float64
	Status    Status

	ColStatus []basis.Status
	RowStatus []basis.Status
}
