package simplex

import (
	"container/heap"

	"github.com/go-lp/lpcore/collaborators"
	"github.com/go-lp/lpcore/errs"
)

// chuzcCandidate is one nonbasic column surviving CHUZC's phase A filter.
// alpha is the signed pivotal-row entry, ratio is the dual degradation per
// unit of bound-flip, and rng is the column's finite bound range used by
// phase B's cumulative flip sum.
type chuzcCandidate struct {
	col   int
	alpha float64
	ratio float64
	rng   float64
}

// chuzcResult is CHUZC's output: the entering column and the set of
// columns that fully flip bounds rather than entering the basis.
type chuzcResult struct {
	enteringCol int
	flips       []int
}

const groupGrowthEpsilon = 1e-12

// chuzc runs the possibility-filtered candidates cands through CHUZC/BFRT
// phases B-D; phase A's alpha/ratio filter is applied by the caller before
// cands reaches here. delta is the magnitude of the primal infeasibility
// CHUZR is resolving. It dispatches to chuzcQuadSort or chuzcHeapSort by strategy
// and heapThreshold; both sort paths must yield the same candidate order
// and therefore the same selection.
func chuzc(cands []chuzcCandidate, delta float64, strategy collaborators.ChuzcStrategy, heapThreshold int, tieOrder []int) (chuzcResult, error) {
	if len(cands) == 0 {
		return chuzcResult{}, errs.New(errs.ChuzcFail, "no CHUZC candidate survived the possibility filter")
	}
	if delta < 0 {
		delta = -delta
	}

	useHeap := strategy == collaborators.ChuzcHeap ||
		(strategy == collaborators.ChuzcAuto && len(cands) >= heapThreshold)

	var sorted []chuzcCandidate
	if useHeap {
		sorted = chuzcHeapSort(cands, tieOrder)
	} else {
		sorted = chuzcQuadSort(cands, tieOrder)
	}

	gathered := groupByGrowingTheta(sorted, delta)
	return pickEntering(gathered)
}

func lessCandidate(a, b chuzcCandidate, tieOrder []int) bool {
	if a.ratio != b.ratio {
		return a.ratio < b.ratio
	}
	return tieOrder[a.col] < tieOrder[b.col]
}

// chuzcQuadSort sorts cands by ascending ratio via an in-place selection
// sort, the quadratic path used for small candidate counts.
func chuzcQuadSort(cands []chuzcCandidate, tieOrder []int) []chuzcCandidate {
	sorted := append([]chuzcCandidate(nil), cands...)
	n := len(sorted)
	for i := 0; i < n-1; i++ {
		min := i
		for j := i + 1; j < n; j++ {
			if lessCandidate(sorted[j], sorted[min], tieOrder) {
				min = j
			}
		}
		sorted[i], sorted[min] = sorted[min], sorted[i]
	}
	return sorted
}

// candidateHeap is the container/heap backing for chuzcHeapSort.
type candidateHeap struct {
	items    []chuzcCandidate
	tieOrder []int
}

func (h candidateHeap) Len() int            { return len(h.items) }
func (h candidateHeap) Less(i, j int) bool  { return lessCandidate(h.items[i], h.items[j], h.tieOrder) }
func (h candidateHeap) Swap(i, j int)       { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *candidateHeap) Push(x interface{}) { h.items = append(h.items, x.(chuzcCandidate)) }
func (h *candidateHeap) Pop() interface{} {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

// chuzcHeapSort sorts cands by ascending ratio via container/heap, the
// heap-sort path used for large candidate counts.
func chuzcHeapSort(cands []chuzcCandidate, tieOrder []int) []chuzcCandidate {
	h := &candidateHeap{items: append([]chuzcCandidate(nil), cands...), tieOrder: tieOrder}
	heap.Init(h)
	sorted := make([]chuzcCandidate, 0, len(cands))
	for h.Len() > 0 {
		sorted = append(sorted, heap.Pop(h).(chuzcCandidate))
	}
	return sorted
}

// groupByGrowingTheta partitions sorted (already ascending by ratio) into
// ordered groups by geometrically enlarging a selectTheta threshold until
// the cumulative bound-flip capacity meets delta.
func groupByGrowingTheta(sorted []chuzcCandidate, delta float64) [][]chuzcCandidate {
	var groups [][]chuzcCandidate
	selectTheta := 10*sorted[0].ratio + groupGrowthEpsilon
	cumulative := 0.0
	covered := 0
	for covered < len(sorted) {
		start := covered
		for covered < len(sorted) && sorted[covered].ratio <= selectTheta {
			cumulative += sorted[covered].alpha * sorted[covered].rng
			covered++
		}
		if covered > start {
			groups = append(groups, sorted[start:covered])
		}
		if cumulative >= delta || covered >= len(sorted) {
			break
		}
		selectTheta *= 10
	}
	return groups
}

// pickEntering is CHUZC phase D: walk groups from largest-ratio to
// smallest, within each taking the max-|alpha| candidate for pivot
// stability, and stop at the first group whose max exceeds 10% of the
// overall max (capped at 1.0). Every gathered candidate with a strictly
// smaller ratio than the chosen entering column is a full bound-flip; it
// was consumed reaching the breakpoint rather than becoming the pivot.
func pickEntering(groups [][]chuzcCandidate) (chuzcResult, error) {
	if len(groups) == 0 {
		return chuzcResult{}, errs.New(errs.ChuzcFail, "CHUZC grouping made no progress")
	}

	overallMax := 0.0
	for _, g := range groups {
		for _, c := range g {
			if a := absf(c.alpha); a > overallMax {
				overallMax = a
			}
		}
	}
	required := 0.1 * overallMax
	if required > 1.0 {
		required = 1.0
	}

	for gi := len(groups) - 1; gi >= 0; gi-- {
		g := groups[gi]
		best := 0
		for i := 1; i < len(g); i++ {
			if absf(g[i].alpha) > absf(g[best].alpha) {
				best = i
			}
		}
		if absf(g[best].alpha) <= required {
			continue
		}

		entering := g[best]
		result := chuzcResult{enteringCol: entering.col}
		for gj := 0; gj <= gi; gj++ {
			for i, c := range groups[gj] {
				if gj == gi && i == best {
					continue
				}
				if c.ratio < entering.ratio {
					result.flips = append(result.flips, c.col)
				}
			}
		}
		return result, nil
	}

	return chuzcResult{}, errs.New(errs.ChuzcFail, "no CHUZC group met the pivot stability bar")
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
