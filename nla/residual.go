package nla

import (
	"math"

	"github.com/go-lp/lpcore/basis"
	"github.com/go-lp/lpcore/errs"
	"github.com/go-lp/lpcore/lp"
	"gonum.org/v1/gonum/mat"
)

// CheckResidual materializes the current basis matrix densely and
// verifies ||B*x - r||_inf <= tol*(1+||r||_inf) for the probe r and its
// solution x. It is never called on the FTRAN/BTRAN hot path or by any
// other solve path, only by tests, so a dense gonum.org/v1/gonum/mat
// materialization of an m*m matrix is an acceptable cost here, the one
// place this package exercises a dense linear-algebra library.
func (f *Facade) CheckResidual(b *basis.Basis, r, x *lp.HVector, tol float64) error {
	m := b.Size()
	dense := mat.NewDense(m, m, nil)
	for pos, v := range b.BasicIndex {
		col := lp.NewHVector(f.problem.NumRows)
		f.problem.ScatterColumnA(v, 1, col)
		for _, row := range col.Index[:col.Count] {
			dense.Set(row, pos, col.Get(row))
		}
	}

	xVec := mat.NewVecDense(m, nil)
	for i := 0; i < m; i++ {
		xVec.SetVec(i, x.Get(i))
	}
	var bx mat.VecDense
	bx.MulVec(dense, xVec)

	residInf, rInf := 0.0, 0.0
	for i := 0; i < m; i++ {
		d := math.Abs(bx.AtVec(i) - r.Get(i))
		if d > residInf {
			residInf = d
		}
		if v := math.Abs(r.Get(i)); v > rInf {
			rInf = v
		}
	}

	if residInf > tol*(1+rInf) {
		return errs.Newf(errs.Internal, "residual check failed: ‖Bx-r‖∞=%g exceeds tol·(1+‖r‖∞)=%g", residInf, tol*(1+rInf))
	}
	f.logger.Debugf("nla: residual check ok, ‖Bx-r‖∞=%g", residInf)
	return nil
}
