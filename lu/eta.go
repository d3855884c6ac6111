package lu

import (
	"math"

	"github.com/go-lp/lpcore/lp"
)

// eta is one product-form update: basis position pivotPos replaced its
// previous column with one whose B⁻¹-image is alpha; pivotValue is
// alpha[pivotPos] before the replacement, and w is {alpha -
// pivotValue·e_pivotPos} / pivotValue.
type eta struct {
	pivotPos   int
	pivotValue float64
	w          map[int]float64 // excludes pivotPos, which is implicitly 0
}

// stabilityThreshold below which a pivot value is rejected as producing
// an unreliable update: the update fails with Singular if |α_p| falls
// below this threshold.
const stabilityThreshold = 1e-10

// Update applies a product-form basis update: position pivotPos now holds
// the variable whose B⁻¹A_q column is alpha, already computed by the
// simplex's own FTRAN. It records the eta so that subsequent FTRAN/BTRAN
// calls replay it, and refreshes the growth estimate used by
// NeedsRefactor.
func (f *Factorization) Update(pivotPos int, alpha *lp.HVector) error {
	pivotValue := alpha.Get(pivotPos)
	if math.Abs(pivotValue) < stabilityThreshold {
		return newSingular("pivot value %g below stability threshold at position %d", pivotValue, pivotPos)
	}

	w := make(map[int]float64, alpha.Count)
	maxW := 0.0
	for _, i := range alpha.Index[:alpha.Count] {
		if i == pivotPos {
			continue
		}
		v := alpha.Get(i) / pivotValue
		if v == 0 {
			continue
		}
		w[i] = v
		if a := math.Abs(v); a > maxW {
			maxW = a
		}
	}
	f.etas = append(f.etas, eta{pivotPos: pivotPos, pivotValue: pivotValue, w: w})

	// Cheap growth estimate: the product-form update can amplify a
	// component of B⁻¹ by at most the largest multiplier introduced,
	// 1/|pivotValue| included, compounded multiplicatively across etas.
	step := math.Max(maxW, 1/math.Abs(pivotValue))
	if step < 1 {
		step = 1
	}
	f.growth *= step

	return nil
}

// applyForward implements x ← E_p⁻¹ x, the replay direction used by
// FTRAN: x[p] ← x[p]/pivotValue, x[i] ← x[i] - w[i]·x[p] for i≠p, using
// the pre-update value of x[p].
func (e eta) applyForward(x *lp.HVector) {
	xp := x.Get(e.pivotPos)
	for i, wi := range e.w {
		x.Add(i, -wi*xp)
	}
	x.Set(e.pivotPos, xp/e.pivotValue)
}

// applyTranspose implements c ← E_p⁻ᵗ c, used by BTRAN: every entry
// except pivotPos is unchanged; pivotPos becomes
// c[p]/pivotValue − Σ_{i≠p} w[i]·c[i].
func (e eta) applyTranspose(c *lp.HVector) {
	cp := c.Get(e.pivotPos)
	sum := cp / e.pivotValue
	for i, wi := range e.w {
		sum -= wi * c.Get(i)
	}
	c.Set(e.pivotPos, sum)
}

// EtaSnapshot is an opaque deep copy of a Factorization's pending eta
// list, taken by nla.Facade when freezing a basis and handed back to
// RestoreEtas on unfreeze.
type EtaSnapshot struct {
	etas   []eta
	growth float64
}

// SnapshotEtas deep-copies the current eta list and growth estimate.
func (f *Factorization) SnapshotEtas() EtaSnapshot {
	cp := make([]eta, len(f.etas))
	for i, e := range f.etas {
		w := make(map[int]float64, len(e.w))
		for k, v := range e.w {
			w[k] = v
		}
		cp[i] = eta{pivotPos: e.pivotPos, pivotValue: e.pivotValue, w: w}
	}
	return EtaSnapshot{etas: cp, growth: f.growth}
}

// RestoreEtas replaces the current eta list and growth estimate with a
// previously taken snapshot. It does not restore L/U: the caller (nla)
// is only expected to restore etas taken since the Factorization's last
// Invert, since crossing a refactor invalidates any earlier snapshot's
// factorization reference entirely; unfreezing an interior id discards
// all later snapshots at a higher level to handle that invalidation.
func (f *Factorization) RestoreEtas(s EtaSnapshot) {
	cp := make([]eta, len(s.etas))
	for i, e := range s.etas {
		w := make(map[int]float64, len(e.w))
		for k, v := range e.w {
			w[k] = v
		}
		cp[i] = eta{pivotPos: e.pivotPos, pivotValue: e.pivotValue, w: w}
	}
	f.etas = cp
	f.growth = s.growth
}
