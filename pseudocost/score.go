package pseudocost

import (
	"math"
)

const scoreEpsilon = 1e-6

// mScore maps a non-negative real onto [0,1) via M(s) = 1 - 1/(1+s).
func mScore(s float64) float64 {
	if s < 0 {
		s = 0
	}
	return 1 - 1/(1+s)
}

// BranchingScore computes the score for column j at fractional value x̃
// with offset added to both directions' gains before the geometric mean.
// The offset keeps the score from collapsing to zero when one direction
// has never been observed.
func (s *Store) BranchingScore(j int, xFrac float64, kRel int, offset float64) float64 {
	f := xFrac - math.Floor(xFrac)
	upGain := (1 - f) * (offset + s.effectiveUp(j, kRel))
	downGain := f * (offset + s.effectiveDown(j, kRel))

	avg := (upGain + downGain) / 2
	denom := math.Max(scoreEpsilon, avg)
	geo := math.Sqrt(math.Max(0, upGain*downGain))

	rec := &s.records[j]
	inferenceScore := math.Sqrt(math.Max(0, rec.inferenceUp.mean*rec.inferenceDown.mean))
	cutoffScore := math.Sqrt(math.Max(0, rec.cutoffUp.mean*rec.cutoffDown.mean))

	terms := [3]float64{geo / denom, inferenceScore, cutoffScore}
	for i, t := range terms {
		terms[i] = mScore(t)
	}

	return terms[0] + 1e-4*(terms[1]+terms[2])
}

// BestBranchingColumn returns the fractional integer column of maximum
// score among fracValues, which maps a candidate column to its current LP
// relaxation value; non-fractional entries are ignored.
func (s *Store) BestBranchingColumn(fracValues map[int]float64, kRel int, offset float64) (int, bool) {
	best := -1
	bestScore := -1.0
	for j, x := range fracValues {
		f := x - math.Floor(x)
		if f < 1e-9 || f > 1-1e-9 {
			continue
		}
		if score := s.BranchingScore(j, x, kRel, offset); score > bestScore {
			bestScore = score
			best = j
		}
	}
	return best, best != -1
}
