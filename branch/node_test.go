package branch

import (
	"container/heap"
	"testing"

	"github.com/go-lp/lpcore/basis"
	"github.com/go-lp/lpcore/collaborators"
	"github.com/go-lp/lpcore/lp"
	"github.com/go-lp/lpcore/pseudocost"
	"github.com/stretchr/testify/assert"
)

func simpleColProblem(lo, hi float64) *lp.Problem {
	return &lp.Problem{
		NumCols:     1,
		NumRows:     0,
		ColStart:    []int{0, 0},
		ColIndex:    []int{},
		ColValue:    []float64{},
		Cost:        []float64{1},
		ColLower:    []float64{lo},
		ColUpper:    []float64{hi},
		RowLower:    []float64{},
		RowUpper:    []float64{},
		Sense:       collaborators.Minimize,
		Integrality: []collaborators.VarKind{collaborators.Integer},
	}
}

func TestChildrenSplitBoundsAroundFractionalValue(t *testing.T) {
	root := newRootNode(simpleColProblem(0, 10))
	warm := basis.NewAllLogical(root.problem)

	down, up := root.children(0, 2.3, warm, 2.3)

	assert.InDelta(t, 0.0, down.problem.ColLower[0], 1e-12)
	assert.InDelta(t, 2.0, down.problem.ColUpper[0], 1e-12)
	assert.InDelta(t, 3.0, up.problem.ColLower[0], 1e-12)
	assert.InDelta(t, 10.0, up.problem.ColUpper[0], 1e-12)

	assert.Equal(t, pseudocost.Down, down.branchDir)
	assert.Equal(t, pseudocost.Up, up.branchDir)
	assert.InDelta(t, 0.3, down.branchFrac, 1e-12)
	assert.InDelta(t, 0.7, up.branchFrac, 1e-12)

	// the master problem itself must be untouched.
	assert.InDelta(t, 0.0, root.problem.ColLower[0], 1e-12)
	assert.InDelta(t, 10.0, root.problem.ColUpper[0], 1e-12)
}

func TestNodeQueueOrdersByBoundThenID(t *testing.T) {
	q := nodeQueue{}
	pool := &nodePool{}
	pool.push(&q, &node{bound: 5})
	pool.push(&q, &node{bound: 1})
	pool.push(&q, &node{bound: 1})
	pool.push(&q, &node{bound: 3})

	var bounds []float64
	var ids []int64
	for q.Len() > 0 {
		n := heap.Pop(&q).(*node)
		bounds = append(bounds, n.bound)
		ids = append(ids, n.id)
	}
	assert.Equal(t, []float64{1, 1, 3, 5}, bounds)
	assert.Equal(t, []int64{1, 2, 3, 0}, ids)
}
