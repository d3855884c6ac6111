package lp

import "gonum.org/v1/gonum/floats"

// ScatterColumnA adds alpha * A[:,j] into y. Column j of A is structural
// if j < NumCols, or the unit logical column -e_{j-NumCols} otherwise:
// logicals are identity columns in the unified basis space, conventionally
// signed negative so that a logical's own bound tracks its row's
// activity bound. See nla for how the sign is consumed.
func (p *Problem) ScatterColumnA(j int, alpha float64, y *HVector) {
	if p.IsLogical(j) {
		r := j - p.NumCols
		y.Add(r, -alpha)
		return
	}
	for k := p.ColStart[j]; k < p.ColStart[j+1]; k++ {
		y.Add(p.ColIndex[k], alpha*p.ColValue[k])
	}
}

// SparseDotColumn computes Aᵗ_j · x, a sparse dot product against a
// dense slice x of length NumRows.
func (p *Problem) SparseDotColumn(j int, x []float64) float64 {
	if p.IsLogical(j) {
		return -x[j-p.NumCols]
	}
	sum := 0.0
	for k := p.ColStart[j]; k < p.ColStart[j+1]; k++ {
		sum += p.ColValue[k] * x[p.ColIndex[k]]
	}
	return sum
}

// SparseDotColumnDense is the gonum-backed counterpart of SparseDotColumn:
// it gathers the column into a dense scratch slice and delegates to
// floats.Dot, returning the same value. No code in the module switches to
// it by HVector.UseSparse; the simplex engine calls SparseDotColumn.
func (p *Problem) SparseDotColumnDense(j int, x []float64, scratch []float64) float64 {
	if p.IsLogical(j) {
		return -x[j-p.NumCols]
	}
	for i := range scratch {
		scratch[i] = 0
	}
	for k := p.ColStart[j]; k < p.ColStart[j+1]; k++ {
		scratch[p.ColIndex[k]] = p.ColValue[k]
	}
	return floats.Dot(scratch, x)
}

// ColumnMaxAbs returns the largest-magnitude entry of column j, used by
// LU's Markowitz pivot-acceptance test: a candidate pivot must be at
// least threshold times this value.
func (p *Problem) ColumnMaxAbs(j int) float64 {
	if p.IsLogical(j) {
		return 1
	}
	max := 0.0
	for k := p.ColStart[j]; k < p.ColStart[j+1]; k++ {
		v := p.ColValue[k]
		if v < 0 {
			v = -v
		}
		if v > max {
			max = v
		}
	}
	return max
}

// RowActivity computes A·colValue, the row-activity vector reported in a
// Solution's RowValue. colValue has length NumCols.
func (p *Problem) RowActivity(colValue []float64) []float64 {
	y := NewHVector(p.NumRows)
	for j := 0; j < p.NumCols; j++ {
		if colValue[j] == 0 {
			continue
		}
		p.ScatterColumnA(j, colValue[j], y)
	}
	out := make([]float64, p.NumRows)
	for i := range out {
		out[i] = y.Get(i)
	}
	return out
}

// ScaleColumns multiplies every structural entry of column j (and its
// cost) by factor[j], and ScaleRows every entry of a row by factor[row];
// nla.Facade.ApplyScaling and UnapplyScaling call both. Neither rescales
// the column or row bounds.
func (p *Problem) ScaleColumns(factor []float64) {
	for j := 0; j < p.NumCols; j++ {
		f := factor[j]
		for k := p.ColStart[j]; k < p.ColStart[j+1]; k++ {
			p.ColValue[k] *= f
		}
		p.Cost[j] *= f
	}
}

func (p *Problem) ScaleRows(factor []float64) {
	for j := 0; j < p.NumCols; j++ {
		for k := p.ColStart[j]; k < p.ColStart[j+1]; k++ {
			p.ColValue[k] *= factor[p.ColIndex[k]]
		}
	}
}
