package simplex

import (
	"math"

	"github.com/go-lp/lpcore/lp"
)

// freeSet is the freelist of variables free at both bounds (+-infinity),
// maintained once at construction since a variable's bound-finiteness
// never changes over a solve. Free variables are always CHUZC-eligible and
// move in either direction, bypassing the finite-range bound-flip logic
// other candidates go through.
type freeSet struct {
	isFree []bool
}

func newFreeSet(p *lp.Problem) *freeSet {
	fs := &freeSet{isFree: make([]bool, p.NumVars())}
	for v := 0; v < p.NumVars(); v++ {
		lower, upper := p.VarLower(v), p.VarUpper(v)
		fs.isFree[v] = math.IsInf(lower, -1) && math.IsInf(upper, 1)
	}
	return fs
}

// Contains reports whether variable v is free.
func (f *freeSet) Contains(v int) bool { return f.isFree[v] }
