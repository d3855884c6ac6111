package simplex

// chuzr selects the leaving variable: the basic position maximizing
// primal-infeasibility squared divided by weight (steepest-edge
// CHUZR). It returns pos == -1 if every basic variable is within
// tolerance of its bounds. delta is x_B[pos]-lower (negative, violates
// lower) or x_B[pos]-upper (positive, violates upper).
func (e *Engine) chuzr(tol float64) (pos int, delta float64) {
	best := -1
	bestScore := 0.0
	bestDelta := 0.0
	for p := 0; p < e.basis.Size(); p++ {
		v := e.basis.BasicIndex[p]
		x := e.primal[p]
		lower, upper := e.problem.VarLower(v), e.problem.VarUpper(v)

		var d float64
		switch {
		case x < lower-tol:
			d = x - lower
		case x > upper+tol:
			d = x - upper
		default:
			continue
		}

		score := d * d / e.weights[p]
		if score > bestScore {
			bestScore = score
			best = p
			bestDelta = d
		}
	}
	return best, bestDelta
}
