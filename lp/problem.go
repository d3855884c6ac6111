// Package lp holds the LP data model and the sparse vector/matrix kernel:
// compressed sparse column storage, working vectors, and the
// scatter/gather primitives the rest of the core builds on.
package lp

import (
	"math"

	"github.com/go-lp/lpcore/collaborators"
	"github.com/go-lp/lpcore/errs"
)

// Problem is an in-memory, mutation-free snapshot of an LpSource: n
// columns, m rows, A in column-major compressed sparse form, a cost
// vector, column/row bounds allowing ±∞, a sense, and per-column
// integrality. It is the concrete type every component in this module
// operates on; collaborators.LpSource is the interface external callers
// implement to produce one.
type Problem struct {
	NumCols int
	NumRows int

	// ColStart has length NumCols+1; ColStart[NumCols] equals len(ColIndex).
	ColStart []int
	ColIndex []int
	ColValue []float64

	Cost []float64

	ColLower []float64
	ColUpper []float64
	RowLower []float64
	RowUpper []float64

	Sense       collaborators.Sense
	Integrality []collaborators.VarKind
}

// FromSource copies an LpSource into a Problem, the one point at which the
// core takes ownership of input data. The core may assume a Problem is
// immutable for the duration of a solve, and copying removes any
// dependency on the source data staying unchanged after construction.
func FromSource(src collaborators.LpSource) (*Problem, error) {
	n, m := src.NumCols(), src.NumRows()
	p := &Problem{
		NumCols:     n,
		NumRows:     m,
		ColStart:    append([]int(nil), src.ColStart()...),
		ColIndex:    append([]int(nil), src.ColIndex()...),
		ColValue:    append([]float64(nil), src.ColValue()...),
		Cost:        append([]float64(nil), src.Cost()...),
		ColLower:    append([]float64(nil), src.ColLower()...),
		ColUpper:    append([]float64(nil), src.ColUpper()...),
		RowLower:    append([]float64(nil), src.RowLower()...),
		RowUpper:    append([]float64(nil), src.RowUpper()...),
		Sense:       src.Sense(),
		Integrality: append([]collaborators.VarKind(nil), src.Integrality()...),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	// The rest of the core (CHUZC's dual-feasibility sign convention
	// above all) is written against minimization alone; a maximize
	// source is normalized to minimize -c here, once, at ingestion. Sense
	// itself is kept on Problem only so callers reporting results back
	// out can negate the objective and duals a second time.
	if p.Sense == collaborators.Maximize {
		for j := range p.Cost {
			p.Cost[j] = -p.Cost[j]
		}
	}
	return p, nil
}

// Validate checks the structural invariants: ColStart is non-decreasing
// and ends at the nonzero count, each column's row indices are distinct,
// and l <= u wherever both bounds are finite. Inconsistent bounds are
// reported as errs.BoundInconsistent, a valid infeasibility witness, not
// a programming error; everything else as InvalidInput.
func (p *Problem) Validate() error {
	if p.NumCols < 0 || p.NumRows < 0 {
		return errs.New(errs.InvalidInput, "negative dimensions")
	}
	if len(p.ColStart) != p.NumCols+1 {
		return errs.Newf(errs.InvalidInput, "ColStart length %d, want %d", len(p.ColStart), p.NumCols+1)
	}
	for j := 0; j < p.NumCols; j++ {
		if p.ColStart[j] > p.ColStart[j+1] {
			return errs.Newf(errs.InvalidInput, "ColStart not non-decreasing at column %d", j)
		}
	}
	if p.ColStart[p.NumCols] != len(p.ColIndex) || len(p.ColIndex) != len(p.ColValue) {
		return errs.New(errs.InvalidInput, "ColStart[n] must equal the nonzero count")
	}
	seen := make(map[int]struct{})
	for j := 0; j < p.NumCols; j++ {
		for k := range seen {
			delete(seen, k)
		}
		for _, idx := range p.ColIndex[p.ColStart[j]:p.ColStart[j+1]] {
			if idx < 0 || idx >= p.NumRows {
				return errs.Newf(errs.InvalidInput, "row index %d out of range in column %d", idx, j)
			}
			if _, dup := seen[idx]; dup {
				return errs.Newf(errs.InvalidInput, "duplicate row index %d in column %d", idx, j)
			}
			seen[idx] = struct{}{}
		}
	}
	if len(p.Cost) != p.NumCols || len(p.ColLower) != p.NumCols || len(p.ColUpper) != p.NumCols {
		return errs.New(errs.InvalidInput, "cost/bound vector length mismatch with NumCols")
	}
	if len(p.RowLower) != p.NumRows || len(p.RowUpper) != p.NumRows {
		return errs.New(errs.InvalidInput, "row bound vector length mismatch with NumRows")
	}
	if len(p.Integrality) != p.NumCols {
		return errs.New(errs.InvalidInput, "integrality length mismatch with NumCols")
	}
	for j := 0; j < p.NumCols; j++ {
		if isFinite(p.ColLower[j]) && isFinite(p.ColUpper[j]) && p.ColLower[j] > p.ColUpper[j] {
			return errs.Newf(errs.BoundInconsistent, "column %d: lower %g > upper %g", j, p.ColLower[j], p.ColUpper[j])
		}
	}
	for r := 0; r < p.NumRows; r++ {
		if isFinite(p.RowLower[r]) && isFinite(p.RowUpper[r]) && p.RowLower[r] > p.RowUpper[r] {
			return errs.Newf(errs.BoundInconsistent, "row %d: lower %g > upper %g", r, p.RowLower[r], p.RowUpper[r])
		}
	}
	return nil
}

func isFinite(x float64) bool { return !math.IsInf(x, 0) }

// NumLogical returns the number of logical (slack) variables, one per
// row: basic-index space is columns 0..NumCols-1 followed by logicals
// NumCols..NumCols+NumRows-1.
func (p *Problem) NumLogical() int { return p.NumRows }

// NumVars is the total variable count, structural plus logical.
func (p *Problem) NumVars() int { return p.NumCols + p.NumRows }

// IsLogical reports whether variable index refers to a row's logical
// slack rather than a structural column.
func (p *Problem) IsLogical(v int) bool { return v >= p.NumCols }

// VarLower and VarUpper return the bound of variable v in the unified
// structural+logical index space. A logical's bounds are its row's
// activity bounds, unchanged: the logical column is -I (see
// ScatterColumnA), so the slack for row r equals a_r·x, and bounding the
// slack the same as the row enforces lR[r] ≤ a_r·x ≤ uR[r].
func (p *Problem) VarLower(v int) float64 {
	if p.IsLogical(v) {
		return p.RowLower[v-p.NumCols]
	}
	return p.ColLower[v]
}

func (p *Problem) VarUpper(v int) float64 {
	if p.IsLogical(v) {
		return p.RowUpper[v-p.NumCols]
	}
	return p.ColUpper[v]
}

// VarCost returns the objective coefficient of variable v (zero for
// logicals, which never appear in the cost vector).
func (p *Problem) VarCost(v int) float64 {
	if p.IsLogical(v) {
		return 0
	}
	return p.Cost[v]
}
