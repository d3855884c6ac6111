package simplex

import "github.com/go-lp/lpcore/lp"

// weightFloor keeps a DSE reference weight from collapsing to zero or
// going negative under floating-point error, which would otherwise make
// CHUZR's score = infeasibility²/weight blow up.
const weightFloor = 1e-10

// updateWeights applies the steepest-edge reference-weight recurrence:
// w_p <- w_p/a_p^2, w_i <- w_i - 2(a_i/a_p)*g + (a_i/a_p)^2*w_p
// for every other basic row i, where g is the pivotal row's dot product
// with the reference weights before the update. alpha is the FTRAN'd
// entering column (B⁻¹A_q); rowEp is the BTRAN'd e_p used to form the
// pivotal row.
func (e *Engine) updateWeights(pivotPos int, alpha *lp.HVector, rowEp *lp.HVector) {
	ap := alpha.Get(pivotPos)
	if ap == 0 {
		return
	}

	gamma := 0.0
	for i := 0; i < len(e.weights); i++ {
		gamma += rowEp.Get(i) * e.weights[i]
	}

	wp := e.weights[pivotPos]
	for _, i := range alpha.Index[:alpha.Count] {
		if i == pivotPos {
			continue
		}
		ai := alpha.Get(i)
		if ai == 0 {
			continue
		}
		ratio := ai / ap
		w := e.weights[i] - 2*ratio*gamma + ratio*ratio*wp
		if w < weightFloor {
			w = weightFloor
		}
		e.weights[i] = w
	}

	w := wp / (ap * ap)
	if w < weightFloor {
		w = weightFloor
	}
	e.weights[pivotPos] = w
}
