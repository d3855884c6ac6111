package nla

import "math"

// ComputeScaleFactors derives geometric-mean column scale factors for
// problem, the simplest scaling scheme that still improves pivot stability
// without needing an iterative (Curtis-Reid) refinement. Every row scale
// factor it returns is 1; no row scaling is derived.
func (f *Facade) ComputeScaleFactors() (colScale, rowScale []float64) {
	p := f.problem
	colScale = make([]float64, p.NumCols)
	rowScale = make([]float64, p.NumRows)
	for j := 0; j < p.NumCols; j++ {
		colScale[j] = 1
	}
	for r := 0; r < p.NumRows; r++ {
		rowScale[r] = 1
	}

	for j := 0; j < p.NumCols; j++ {
		min, max := math.Inf(1), 0.0
		for k := p.ColStart[j]; k < p.ColStart[j+1]; k++ {
			v := math.Abs(p.ColValue[k])
			if v == 0 {
				continue
			}
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		if max > 0 {
			colScale[j] = 1 / math.Sqrt(min*max)
		}
	}
	return colScale, rowScale
}

// ApplyScaling scales the underlying problem in place by colScale/
// rowScale and remembers them so UnapplyScaling can reverse the effect
// exactly. Calling it twice without an intervening UnapplyScaling panics,
// since scaling is not idempotent and double-applying would silently
// corrupt the problem.
func (f *Facade) ApplyScaling(colScale, rowScale []float64) {
	if f.scaled {
		panic("lpcore/nla: ApplyScaling called while already scaled")
	}
	f.problem.ScaleColumns(colScale)
	f.problem.ScaleRows(rowScale)
	f.colScale = colScale
	f.rowScale = rowScale
	f.scaled = true
}

// UnapplyScaling reverses the most recent ApplyScaling.
func (f *Facade) UnapplyScaling() {
	if !f.scaled {
		return
	}
	invCol := reciprocal(f.colScale)
	invRow := reciprocal(f.rowScale)
	f.problem.ScaleColumns(invCol)
	f.problem.ScaleRows(invRow)
	f.scaled = false
}

func reciprocal(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		if x == 0 {
			out[i] = 0
			continue
		}
		out[i] = 1 / x
	}
	return out
}
