// Command lpsolve is a minimal demo of the lpcore library: it builds a
// handful of representative end-to-end scenarios as lp.Problem values
// directly (no MPS/LP file reader; that remains an external collaborator,
// see DESIGN.md) and prints the resulting Solution.
//
// The demo follows a build, solve, print shape: each scenario is an
// in-memory LpSource fixture passed straight to lpcore's Solve entry
// point, with no intermediate file format.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/go-lp/lpcore/basis"
	"github.com/go-lp/lpcore/collaborators"
	"github.com/go-lp/lpcore/lp"
	"github.com/go-lp/lpcore/nla"
	"github.com/go-lp/lpcore/simplex"
	"github.com/go-lp/lpcore/solver"
	"github.com/sirupsen/logrus"
)

func main() {
	name := flag.String("scenario", "all", "scenario to run: 1-6, warmstart, or all")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	base := logrus.New()
	if *verbose {
		base.SetLevel(logrus.DebugLevel)
	} else {
		base.SetLevel(logrus.WarnLevel)
	}
	logger := collaborators.NewLogrusLogger(base, "lpsolve")

	scenarios := map[string]func(collaborators.Logger){
		"1":         scenarioOneTwoVariableCover,
		"2":         scenarioTwoSingleVariableBound,
		"3":         scenarioThreeInconsistentBounds,
		"4":         scenarioFourUnbounded,
		"5":         scenarioFiveKnapsackMIP,
		"6":         scenarioSixInfeasible,
		"warmstart": scenarioWarmStart,
	}

	if *name == "all" {
		for _, key := range []string{"1", "2", "3", "4", "5", "6", "warmstart"} {
			fmt.Printf("=== scenario %s ===\n", key)
			scenarios[key](logger)
		}
		return
	}

	run, ok := scenarios[*name]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown scenario %q\n", *name)
		os.Exit(1)
	}
	run(logger)
}

func printSolution(sol solver.Solution) {
	fmt.Printf("status = %s\n", sol.Status)
	if sol.Status != solver.StatusOptimal {
		return
	}
	fmt.Printf("objective = %g\n", sol.Objective)
	fmt.Printf("x = %v\n", sol.ColValue)
}

// coverSource is minimize x+y s.t. x+y>=2, 0<=x,y<=10.
type coverSource struct{}

func (coverSource) NumCols() int        { return 2 }
func (coverSource) NumRows() int        { return 1 }
func (coverSource) ColStart() []int     { return []int{0, 1, 2} }
func (coverSource) ColIndex() []int     { return []int{0, 0} }
func (coverSource) ColValue() []float64 { return []float64{1, 1} }
func (coverSource) Cost() []float64     { return []float64{1, 1} }
func (coverSource) ColLower() []float64 { return []float64{0, 0} }
func (coverSource) ColUpper() []float64 { return []float64{10, 10} }
func (coverSource) RowLower() []float64 { return []float64{2} }
func (coverSource) RowUpper() []float64 { return []float64{math.Inf(1)} }
func (coverSource) Sense() collaborators.Sense { return collaborators.Minimize }
func (coverSource) Integrality() []collaborators.VarKind {
	return []collaborators.VarKind{collaborators.Continuous, collaborators.Continuous}
}

func scenarioOneTwoVariableCover(logger collaborators.Logger) {
	sol, err := solver.Solve(context.Background(), coverSource{}, collaborators.DefaultOptions(), logger, nil)
	must(err)
	printSolution(sol)
}

// boundedMaxSource is minimize -x s.t. x<=5, x>=0.
type boundedMaxSource struct{}

func (boundedMaxSource) NumCols() int        { return 1 }
func (boundedMaxSource) NumRows() int        { return 1 }
func (boundedMaxSource) ColStart() []int     { return []int{0, 1} }
func (boundedMaxSource) ColIndex() []int     { return []int{0} }
func (boundedMaxSource) ColValue() []float64 { return []float64{1} }
func (boundedMaxSource) Cost() []float64     { return []float64{-1} }
func (boundedMaxSource) ColLower() []float64 { return []float64{0} }
func (boundedMaxSource) ColUpper() []float64 { return []float64{math.Inf(1)} }
func (boundedMaxSource) RowLower() []float64 { return []float64{math.Inf(-1)} }
func (boundedMaxSource) RowUpper() []float64 { return []float64{5} }
func (boundedMaxSource) Sense() collaborators.Sense { return collaborators.Minimize }
func (boundedMaxSource) Integrality() []collaborators.VarKind {
	return []collaborators.VarKind{collaborators.Continuous}
}

func scenarioTwoSingleVariableBound(logger collaborators.Logger) {
	sol, err := solver.Solve(context.Background(), boundedMaxSource{}, collaborators.DefaultOptions(), logger, nil)
	must(err)
	printSolution(sol)
}

// inconsistentBoundSource is minimize x s.t. x>=1, x<=0.
type inconsistentBoundSource struct{}

func (inconsistentBoundSource) NumCols() int        { return 1 }
func (inconsistentBoundSource) NumRows() int        { return 0 }
func (inconsistentBoundSource) ColStart() []int     { return []int{0, 0} }
func (inconsistentBoundSource) ColIndex() []int     { return []int{} }
func (inconsistentBoundSource) ColValue() []float64 { return []float64{} }
func (inconsistentBoundSource) Cost() []float64     { return []float64{1} }
func (inconsistentBoundSource) ColLower() []float64 { return []float64{1} }
func (inconsistentBoundSource) ColUpper() []float64 { return []float64{0} }
func (inconsistentBoundSource) RowLower() []float64 { return []float64{} }
func (inconsistentBoundSource) RowUpper() []float64 { return []float64{} }
func (inconsistentBoundSource) Sense() collaborators.Sense { return collaborators.Minimize }
func (inconsistentBoundSource) Integrality() []collaborators.VarKind {
	return []collaborators.VarKind{collaborators.Continuous}
}

func scenarioThreeInconsistentBounds(logger collaborators.Logger) {
	sol, err := solver.Solve(context.Background(), inconsistentBoundSource{}, collaborators.DefaultOptions(), logger, nil)
	must(err)
	printSolution(sol)
}

// unboundedSource is minimize -x s.t. x>=0, no rows.
type unboundedSource struct{}

func (unboundedSource) NumCols() int        { return 1 }
func (unboundedSource) NumRows() int        { return 0 }
func (unboundedSource) ColStart() []int     { return []int{0, 0} }
func (unboundedSource) ColIndex() []int     { return []int{} }
func (unboundedSource) ColValue() []float64 { return []float64{} }
func (unboundedSource) Cost() []float64     { return []float64{-1} }
func (unboundedSource) ColLower() []float64 { return []float64{0} }
func (unboundedSource) ColUpper() []float64 { return []float64{math.Inf(1)} }
func (unboundedSource) RowLower() []float64 { return []float64{} }
func (unboundedSource) RowUpper() []float64 { return []float64{} }
func (unboundedSource) Sense() collaborators.Sense { return collaborators.Minimize }
func (unboundedSource) Integrality() []collaborators.VarKind {
	return []collaborators.VarKind{collaborators.Continuous}
}

func scenarioFourUnbounded(logger collaborators.Logger) {
	sol, err := solver.Solve(context.Background(), unboundedSource{}, collaborators.DefaultOptions(), logger, nil)
	must(err)
	printSolution(sol)
}

// knapsackSource is minimize -x-y s.t. x+2y<=8, 2x+y<=8, x,y>=0 integer.
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

func scenarioFiveKnapsackMIP(logger collaborators.Logger) {
	sol, err := solver.Solve(context.Background(), knapsackSource{}, collaborators.DefaultOptions(), logger, nil)
	must(err)
	printSolution(sol)
}

// integerInfeasibleSource is a MIP whose LP relaxation is feasible but
// whose only integer column has no integer value in its bounds.
type integerInfeasibleSource struct{}

func (integerInfeasibleSource) NumCols() int        { return 1 }
func (integerInfeasibleSource) NumRows() int        { return 0 }
func (integerInfeasibleSource) ColStart() []int     { return []int{0, 0} }
func (integerInfeasibleSource) ColIndex() []int     { return []int{} }
func (integerInfeasibleSource) ColValue() []float64 { return []float64{} }
func (integerInfeasibleSource) Cost() []float64     { return []float64{1} }
func (integerInfeasibleSource) ColLower() []float64 { return []float64{0.2} }
func (integerInfeasibleSource) ColUpper() []float64 { return []float64{0.8} }
func (integerInfeasibleSource) RowLower() []float64 { return []float64{} }
func (integerInfeasibleSource) RowUpper() []float64 { return []float64{} }
func (integerInfeasibleSource) Sense() collaborators.Sense { return collaborators.Minimize }
func (integerInfeasibleSource) Integrality() []collaborators.VarKind {
	return []collaborators.VarKind{collaborators.Integer}
}

func scenarioSixInfeasible(logger collaborators.Logger) {
	sol, err := solver.Solve(context.Background(), integerInfeasibleSource{}, collaborators.DefaultOptions(), logger, nil)
	must(err)
	printSolution(sol)
}

// scenarioWarmStart solves LP1, clones its optimal basis, perturbs a cost
// coefficient by 1e-3, then solves LP2 starting from the cloned basis and
// reports how many iterations each took.
func scenarioWarmStart(logger collaborators.Logger) {
	opts := collaborators.DefaultOptions()
	clock := collaborators.SystemClock{}

	p1, err := lp.FromSource(coverSource{})
	must(err)

	b1 := basis.NewAllLogical(p1)
	facade1 := nla.NewFacade(p1, opts, logger)
	must(facade1.Invert(b1))
	engine1, err := simplex.NewEngine(p1, b1, facade1, opts, logger, clock)
	must(err)
	result1, err := engine1.Solve(context.Background())
	must(err)
	fmt.Printf("cold start: status=%s iterations=%d objective=%g\n", result1.Status, engine1.Iterations(), engine1.Objective())

	p2, err := lp.FromSource(coverSource{})
	must(err)
	p2.Cost[0] += 1e-3

	warmBasis := engine1.Basis().Clone()
	facade2 := nla.NewFacade(p2, opts, logger)
	must(facade2.Invert(warmBasis))
	engine2, err := simplex.NewEngine(p2, warmBasis, facade2, opts, logger, clock)
	must(err)
	result2, err := engine2.Solve(context.Background())
	must(err)
	fmt.Printf("warm start: status=%s iterations=%d objective=%g\n", result2.Status, engine2.Iterations(), engine2.Objective())
}

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
