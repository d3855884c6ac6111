package lu

import "github.com/go-lp/lpcore/lp"

// FTRAN solves B·x = r in place on rhs, consuming rhs's current contents
// as r and leaving the solution in rhs, replaying any product-form etas
// recorded since the last Invert in order after the factored solve.
func (f *Factorization) FTRAN(rhs *lp.HVector) error {
	dim := f.dim
	rPrime := make([]float64, dim)
	for k := 0; k < dim; k++ {
		rPrime[k] = rhs.Get(f.RowPerm[k])
	}

	y := make([]float64, dim)
	for k := 0; k < dim; k++ {
		sum := rPrime[k]
		for i, val := range f.lRows[k] {
			sum -= val * y[i]
		}
		y[k] = sum
	}

	z := make([]float64, dim)
	for k := dim - 1; k >= 0; k-- {
		sum := y[k]
		for i, val := range f.uRows[k] {
			if i > k {
				sum -= val * z[i]
			}
		}
		if f.uDiag[k] == 0 {
			return newSingular("zero pivot at step %d during FTRAN back-substitution", k)
		}
		z[k] = sum / f.uDiag[k]
	}

	rhs.Clear()
	for k := 0; k < dim; k++ {
		rhs.Set(f.ColPerm[k], z[k])
	}

	for _, e := range f.etas {
		e.applyForward(rhs)
	}
	return nil
}
