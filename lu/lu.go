// Package lu maintains the LU decomposition of a basis matrix: INVERT
// from scratch via Markowitz-style pivoting, FTRAN/BTRAN sparse
// triangular solves, and product-form updates between refactorizations.
// Updates accumulate as a list of etas replayed after the factored solve,
// so the factorization only needs rebuilding once enough of them pile up
// or the estimated growth in B^-1 gets too large.
package lu

import "github.com/go-lp/lpcore/errs"

// Column is a sparse column as a row→value map, the unit the caller
// assembles from lp.Problem.ScatterColumnA before calling Invert.
type Column map[int]float64

// Factorization holds L·U = Pᵗ·B·Q for the current basis, where P, Q are
// represented by RowPerm/ColPerm (pivot-order index → original index) and
// their inverses, plus the product-form eta list of updates applied since
// the last Invert.
type Factorization struct {
	dim int

	// lRows/lCols and uRows/uCols store the strictly-triangular part of L
	// (unit diagonal, not stored) and the full triangular part of U
	// (diagonal stored), indexed in pivot-order space: entry lRows[k][i]
	// is L[k][i] for i<k; lCols[k][i] is the same entry accessed by
	// column; symmetrically for U.
	lRows []map[int]float64
	lCols []map[int]float64
	uRows []map[int]float64
	uCols []map[int]float64
	uDiag []float64

	// RowPerm[k]/ColPerm[k] are the original row / basis-position chosen
	// at pivot step k; *Inv are their inverses.
	RowPerm, RowPermInv []int
	ColPerm, ColPermInv []int

	etas []eta

	PivotThreshold float64
	RefactorLimit  int

	growth float64
}

// Dim returns m, the basis dimension.
func (f *Factorization) Dim() int { return f.dim }

// EtaCount returns the number of product-form updates applied since the
// last Invert, compared against RefactorLimit by the simplex engine to
// decide when a fresh INVERT is due.
func (f *Factorization) EtaCount() int { return len(f.etas) }

// GrowthEstimate returns the cheap running estimate of ||B^-1|| growth
// accumulated by product-form updates.
func (f *Factorization) GrowthEstimate() float64 { return f.growth }

// NeedsRefactor reports whether the eta count or growth estimate has
// crossed the configured trust bounds.
func (f *Factorization) NeedsRefactor(growthBound float64) bool {
	return len(f.etas) >= f.RefactorLimit || f.growth > growthBound
}

func newFactorization(dim int, pivotThreshold float64, refactorLimit int) *Factorization {
	return &Factorization{
		dim:            dim,
		lRows:          make([]map[int]float64, dim),
		lCols:          make([]map[int]float64, dim),
		uRows:          make([]map[int]float64, dim),
		uCols:          make([]map[int]float64, dim),
		uDiag:          make([]float64, dim),
		RowPerm:        make([]int, dim),
		RowPermInv:     make([]int, dim),
		ColPerm:        make([]int, dim),
		ColPermInv:     make([]int, dim),
		PivotThreshold: pivotThreshold,
		RefactorLimit:  refactorLimit,
		growth:         1,
	}
}

func newSingular(format string, args ...any) error {
	return errs.Newf(errs.Singular, format, args...)
}

func newUnstable(format string, args ...any) error {
	return errs.Newf(errs.Unstable, format, args...)
}
