package lu

import "math"

// Invert builds a fresh LU factorization of the basis matrix assembled
// from cols (one sparse column per basis position). It performs
// Markowitz-style pivot selection: among entries passing the stability
// test (|pivot| >= pivotThreshold*maxInColumn), it prefers the one
// introducing the least fill (Markowitz count = (rowNNZ-1)*(colNNZ-1)),
// breaking ties by the lowest (row, column) for determinism.
//
// The active submatrix is tracked densely during elimination (dim is the
// basis size, not the nonzero count, so this stays small relative to the
// sparse column-major A it is drawn from); only the triangular factors
// are retained sparsely, which is what FTRAN/BTRAN actually walk.
func Invert(cols []Column, dim int, pivotThreshold float64, refactorLimit int) (*Factorization, error) {
	m := make([][]float64, dim)
	for i := range m {
		m[i] = make([]float64, dim)
	}
	for c, col := range cols {
		for r, v := range col {
			m[r][c] = v
		}
	}

	rowAlive := make([]bool, dim)
	colAlive := make([]bool, dim)
	for i := range rowAlive {
		rowAlive[i] = true
		colAlive[i] = true
	}

	f := newFactorization(dim, pivotThreshold, refactorLimit)
	for i := range f.RowPermInv {
		f.RowPermInv[i] = -1
		f.ColPermInv[i] = -1
	}

	type lEntry struct {
		origRow, step int
		value         float64
	}
	type uEntry struct {
		step, origCol int
		value         float64
	}
	var lEntries []lEntry
	var uEntries []uEntry

	for step := 0; step < dim; step++ {
		r, c, err := choosePivot(m, rowAlive, colAlive, pivotThreshold)
		if err != nil {
			return nil, err
		}
		f.RowPerm[step] = r
		f.ColPerm[step] = c
		rowAlive[r] = false
		colAlive[c] = false

		piv := m[r][c]
		for c2 := 0; c2 < dim; c2++ {
			if !colAlive[c2] && c2 != c {
				continue
			}
			if v := m[r][c2]; v != 0 {
				uEntries = append(uEntries, uEntry{step: step, origCol: c2, value: v})
			}
		}

		for r2 := 0; r2 < dim; r2++ {
			if !rowAlive[r2] {
				continue
			}
			factor := m[r2][c]
			if factor == 0 {
				continue
			}
			mult := factor / piv
			lEntries = append(lEntries, lEntry{origRow: r2, step: step, value: mult})
			for c2 := 0; c2 < dim; c2++ {
				if !colAlive[c2] {
					continue
				}
				m[r2][c2] -= mult * m[r][c2]
			}
		}
	}

	for step, r := range f.RowPerm {
		f.RowPermInv[r] = step
	}
	for step, c := range f.ColPerm {
		f.ColPermInv[c] = step
	}

	for i := 0; i < dim; i++ {
		f.lRows[i] = map[int]float64{}
		f.lCols[i] = map[int]float64{}
		f.uRows[i] = map[int]float64{}
		f.uCols[i] = map[int]float64{}
	}
	for _, e := range lEntries {
		k2 := f.RowPermInv[e.origRow]
		f.lRows[k2][e.step] = e.value
		f.lCols[e.step][k2] = e.value
	}
	for _, e := range uEntries {
		k2 := f.ColPermInv[e.origCol]
		f.uRows[e.step][k2] = e.value
		f.uCols[k2][e.step] = e.value
		if k2 == e.step {
			f.uDiag[e.step] = e.value
		}
	}

	return f, nil
}

// choosePivot scans the alive active submatrix for the Markowitz-minimal
// acceptable pivot. Acceptability requires |m[r][c]| >= threshold times
// the largest-magnitude alive entry in column c.
func choosePivot(m [][]float64, rowAlive, colAlive []bool, threshold float64) (int, int, error) {
	dim := len(m)

	colMax := make([]float64, dim)
	for c := 0; c < dim; c++ {
		if !colAlive[c] {
			continue
		}
		max := 0.0
		for r := 0; r < dim; r++ {
			if !rowAlive[r] {
				continue
			}
			if v := math.Abs(m[r][c]); v > max {
				max = v
			}
		}
		colMax[c] = max
	}

	rowCount := make([]int, dim)
	colCount := make([]int, dim)
	for r := 0; r < dim; r++ {
		if !rowAlive[r] {
			continue
		}
		for c := 0; c < dim; c++ {
			if !colAlive[c] {
				continue
			}
			if m[r][c] != 0 {
				rowCount[r]++
				colCount[c]++
			}
		}
	}

	bestMarkowitz := -1
	bestR, bestC := -1, -1
	for r := 0; r < dim; r++ {
		if !rowAlive[r] {
			continue
		}
		for c := 0; c < dim; c++ {
			if !colAlive[c] {
				continue
			}
			v := m[r][c]
			if v == 0 {
				continue
			}
			if colMax[c] > 0 && math.Abs(v) < threshold*colMax[c] {
				continue
			}
			mw := (rowCount[r] - 1) * (colCount[c] - 1)
			if bestMarkowitz == -1 || mw < bestMarkowitz ||
				(mw == bestMarkowitz && (r < bestR || (r == bestR && c < bestC))) {
				bestMarkowitz = mw
				bestR, bestC = r, c
			}
		}
	}
	if bestR == -1 {
		return 0, 0, newSingular("no acceptable pivot in remaining %d×%d submatrix", dim, dim)
	}
	return bestR, bestC, nil
}
