// Package pseudocost is the branching-statistics component: online
// per-column, per-direction means of objective change per unit
// fractionality, blended toward a global mean until a column has enough
// samples to be trusted, feeding the reliability-branching score.
package pseudocost

// runningMean is Welford's incremental mean (psi <- psi + (x-psi)/n),
// the single accumulator shape every statistic in this package reuses.
type runningMean struct {
	mean  float64
	count int
}

func (m *runningMean) update(x float64) {
	m.count++
	m.mean += (x - m.mean) / float64(m.count)
}
