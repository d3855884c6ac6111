package lu

import "github.com/go-lp/lpcore/lp"

// BTRAN solves B^t*y = c in place on rhs, first replaying etas in
// reverse, then iterating U then L in transposed order. A basis update
// changes both B and B^t, so the eta's transpose contribution must be
// undone in the opposite order FTRAN applies it.
func (f *Factorization) BTRAN(rhs *lp.HVector) error {
	for i := len(f.etas) - 1; i >= 0; i-- {
		f.etas[i].applyTranspose(rhs)
	}

	dim := f.dim
	cPrime := make([]float64, dim)
	for k := 0; k < dim; k++ {
		cPrime[k] = rhs.Get(f.ColPerm[k])
	}

	w := make([]float64, dim)
	for k := 0; k < dim; k++ {
		sum := cPrime[k]
		for i, val := range f.uCols[k] {
			if i < k {
				sum -= val * w[i]
			}
		}
		if f.uDiag[k] == 0 {
			return newSingular("zero pivot at step %d during BTRAN forward-substitution", k)
		}
		w[k] = sum / f.uDiag[k]
	}

	v := make([]float64, dim)
	for k := dim - 1; k >= 0; k-- {
		sum := w[k]
		for i, val := range f.lCols[k] {
			sum -= val * v[i]
		}
		v[k] = sum
	}

	rhs.Clear()
	for k := 0; k < dim; k++ {
		rhs.Set(f.RowPerm[k], v[k])
	}
	return nil
}
