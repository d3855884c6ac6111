// Package nla is the numerical linear algebra facade: the only path by
// which the simplex touches linear algebra. It wraps a lu.Factorization
// with basis scaling and frozen-basis snapshots, and provides a dense
// residual check (CheckResidual) that no solve path calls; only the tests
// do.
package nla

import (
	"github.com/go-lp/lpcore/basis"
	"github.com/go-lp/lpcore/collaborators"
	"github.com/go-lp/lpcore/errs"
	"github.com/go-lp/lpcore/lp"
	"github.com/go-lp/lpcore/lu"
)

// GrowthBound is the ||B^-1|| growth estimate above which Update reports
// Unstable so the caller refactorizes.
const GrowthBound = 1e10

// Facade owns the live factorization, the column/row scaling currently
// applied to Problem, and the frozen-snapshot arena.
type Facade struct {
	problem *lp.Problem
	fact    *lu.Factorization
	basis   *basis.Basis
	logger  collaborators.Logger

	colScale, rowScale []float64
	scaled             bool

	arena *snapshotArena

	pivotThreshold float64
	refactorLimit  int
}

// NewFacade builds a facade over problem, not yet factorized. Call
// Invert before any FTRAN/BTRAN.
func NewFacade(p *lp.Problem, opts collaborators.Options, logger collaborators.Logger) *Facade {
	if logger == nil {
		logger = collaborators.NoopLogger{}
	}
	return &Facade{
		problem:        p,
		logger:         logger,
		arena:          newSnapshotArena(opts.FrozenSnapshotLimit),
		pivotThreshold: opts.PivotThreshold,
		refactorLimit:  opts.RefactorLimit,
	}
}

// Invert performs INVERT (C2) against the current basis, replacing the
// live factorization. It is called on every refactorization, whether
// triggered by the eta/growth limits or by a failed Update.
func (f *Facade) Invert(b *basis.Basis) error {
	cols := make([]lu.Column, b.Size())
	for pos, v := range b.BasicIndex {
		col := lu.Column{}
		y := lp.NewHVector(f.problem.NumRows)
		f.problem.ScatterColumnA(v, 1, y)
		for _, r := range y.Index[:y.Count] {
			col[r] = y.Get(r)
		}
		cols[pos] = col
	}
	fact, err := lu.Invert(cols, b.Size(), f.pivotThreshold, f.refactorLimit)
	if err != nil {
		f.logger.Warnf("nla: INVERT failed: %v", err)
		return err
	}
	f.fact = fact
	f.basis = b
	f.logger.Debugf("nla: INVERT complete, dim=%d", b.Size())
	return nil
}

// NeedsRefactor reports whether the live factorization's eta count or
// growth estimate has crossed its trust bound.
func (f *Facade) NeedsRefactor() bool {
	return f.fact == nil || f.fact.NeedsRefactor(GrowthBound)
}

// FTRAN solves B·x = r through the live factorization. It applies no
// scaling of its own: any scaling from ApplyScaling is already part of the
// problem the factorization was built from, and x is not unscaled.
func (f *Facade) FTRAN(rhs *lp.HVector) error {
	if f.fact == nil {
		return errs.New(errs.Internal, "nla: FTRAN before INVERT")
	}
	return f.fact.FTRAN(rhs)
}

// BTRAN solves Bᵗ·y = c through the live factorization.
func (f *Facade) BTRAN(rhs *lp.HVector) error {
	if f.fact == nil {
		return errs.New(errs.Internal, "nla: BTRAN before INVERT")
	}
	return f.fact.BTRAN(rhs)
}

// Update applies a product-form basis update and reports Unstable if the
// resulting growth estimate crosses GrowthBound, so the simplex engine
// knows to refactorize and retry.
func (f *Facade) Update(pivotPos int, alpha *lp.HVector) error {
	if err := f.fact.Update(pivotPos, alpha); err != nil {
		return err
	}
	if f.fact.GrowthEstimate() > GrowthBound {
		return errs.Newf(errs.Unstable, "growth estimate %g exceeds bound %g", f.fact.GrowthEstimate(), GrowthBound)
	}
	return nil
}

// EtaCount exposes the live factorization's pending update count, used by
// the simplex loop to decide whether a refactor is due.
func (f *Facade) EtaCount() int {
	if f.fact == nil {
		return 0
	}
	return f.fact.EtaCount()
}
