package lp

// HVector is a length-N dense array paired with a compact list of the
// indices of its structural nonzeros. The contract is one-directional:
// Array[i] may be nonzero only if i appears in Index[:Count]. Index is
// permitted to list positions that have since been zeroed by
// cancellation, since re-deriving an exact nonzero set after every
// arithmetic op would defeat the point of tracking it incrementally.
//
// Two traversal modes are supported: Sparse iterates Index[:Count],
// Dense iterates 0..N. UseSparse picks between them by a density
// heuristic, count/dim against a configurable threshold.
type HVector struct {
	Array []float64
	Index []int
	Count int

	// seen avoids re-appending an index already present in Index during a
	// scatter; it is reset lazily (Clear) rather than on every op.
	seen []bool
}

// NewHVector allocates a zeroed working vector of dimension n.
func NewHVector(n int) *HVector {
	return &HVector{
		Array: make([]float64, n),
		Index: make([]int, 0, n),
		seen:  make([]bool, n),
	}
}

// Dim returns the vector's dimension N.
func (v *HVector) Dim() int { return len(v.Array) }

// Clear zero-sweeps the vector, resetting it to all-zero with an empty
// index list. Only touched positions are swept, not the full array.
func (v *HVector) Clear() {
	for _, i := range v.Index[:v.Count] {
		v.Array[i] = 0
		v.seen[i] = false
	}
	v.Index = v.Index[:0]
	v.Count = 0
}

// Set stores value at position i, appending i to the index list if it is
// not already tracked as a structural nonzero.
func (v *HVector) Set(i int, value float64) {
	if !v.seen[i] {
		v.seen[i] = true
		v.Index = append(v.Index, i)
		v.Count++
	}
	v.Array[i] = value
}

// Add accumulates delta into position i, tracking i as a new nonzero if
// it wasn't already (the "scatter" half of scatter/gather).
func (v *HVector) Add(i int, delta float64) {
	if !v.seen[i] {
		v.seen[i] = true
		v.Index = append(v.Index, i)
		v.Count++
	}
	v.Array[i] += delta
}

// Get reads position i without affecting the index list.
func (v *HVector) Get(i int) float64 { return v.Array[i] }

// Density returns Count/Dim, the figure UseSparse compares against a
// threshold.
func (v *HVector) Density() float64 {
	if len(v.Array) == 0 {
		return 0
	}
	return float64(v.Count) / float64(len(v.Array))
}

// UseSparse reports whether sparse traversal (iterate Index[:Count]) is
// preferred over dense traversal (iterate 0..N) for the vector's current
// occupancy, given threshold (typically around 0.1).
func (v *HVector) UseSparse(threshold float64) bool {
	return v.Density() <= threshold
}

// CopyFrom overwrites v's contents with src's, reusing v's backing arrays
// where capacity allows, so the working-vector pool avoids reallocating
// per iteration.
func (v *HVector) CopyFrom(src *HVector) {
	v.Clear()
	if cap(v.Array) < len(src.Array) {
		v.Array = make([]float64, len(src.Array))
		v.seen = make([]bool, len(src.Array))
	} else {
		v.Array = v.Array[:len(src.Array)]
		v.seen = v.seen[:len(src.Array)]
	}
	for _, i := range src.Index[:src.Count] {
		v.Set(i, src.Array[i])
	}
}

// Dot computes the dense/sparse dot product of v with a plain slice,
// choosing traversal by UseSparse against threshold.
func (v *HVector) Dot(other []float64, threshold float64) float64 {
	sum := 0.0
	if v.UseSparse(threshold) {
		for _, i := range v.Index[:v.Count] {
			sum += v.Array[i] * other[i]
		}
		return sum
	}
	for i, val := range v.Array {
		sum += val * other[i]
	}
	return sum
}
