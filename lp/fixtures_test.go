package lp

import (
	"math"

	"github.com/go-lp/lpcore/collaborators"
)

// fixtureSource is a minimal in-memory collaborators.LpSource for tests,
// replacing the teacher's go-glpk/MPS reader (dropped, see DESIGN.md).
type fixtureSource struct {
	n, m                           int
	colStart, colIndex             []int
	colValue, cost                 []float64
	colLower, colUpper              []float64
	rowLower, rowUpper              []float64
	sense                          collaborators.Sense
	integrality                    []collaborators.VarKind
}

func (f *fixtureSource) NumCols() int                            { return f.n }
func (f *fixtureSource) NumRows() int                             { return f.m }
func (f *fixtureSource) ColStart() []int                          { return f.colStart }
func (f *fixtureSource) ColIndex() []int                          { return f.colIndex }
func (f *fixtureSource) ColValue() []float64                      { return f.colValue }
func (f *fixtureSource) Cost() []float64                          { return f.cost }
func (f *fixtureSource) ColLower() []float64                      { return f.colLower }
func (f *fixtureSource) ColUpper() []float64                      { return f.colUpper }
func (f *fixtureSource) RowLower() []float64                      { return f.rowLower }
func (f *fixtureSource) RowUpper() []float64                      { return f.rowUpper }
func (f *fixtureSource) Sense() collaborators.Sense               { return f.sense }
func (f *fixtureSource) Integrality() []collaborators.VarKind     { return f.integrality }

// minimizeXPlusY builds: minimize x+y s.t. x+y >= 2, 0<=x,y<=10 (spec §8
// scenario 1).
func minimizeXPlusY() *fixtureSource {
	return &fixtureSource{
		n: 2, m: 1,
		colStart: []int{0, 1, 2},
		colIndex: []int{0, 0},
		colValue: []float64{1, 1},
		cost:     []float64{1, 1},
		colLower: []float64{0, 0},
		colUpper: []float64{10, 10},
		rowLower: []float64{2},
		rowUpper: []float64{math.Inf(1)},
		sense:    collaborators.Minimize,
		integrality: []collaborators.VarKind{collaborators.Continuous, collaborators.Continuous},
	}
}
