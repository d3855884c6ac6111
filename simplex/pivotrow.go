package simplex

import "github.com/go-lp/lpcore/lp"

// computePivotRow runs BTRAN on e_p, yielding row p of B^-1 as a
// length-m vector indexed by basic position.
func (e *Engine) computePivotRow(p int) (*lp.HVector, error) {
	rowEp := lp.NewHVector(e.problem.NumRows)
	rowEp.Set(p, 1)
	if err := e.facade.BTRAN(rowEp); err != nil {
		return nil, err
	}
	return rowEp, nil
}

// rowValue returns (row_ep·A)_j, the pivotal-row entry at column j.
func (e *Engine) rowValue(rowEp *lp.HVector, j int) float64 {
	return e.problem.SparseDotColumn(j, rowEp.Array)
}
