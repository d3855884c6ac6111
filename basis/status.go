package basis

import "github.com/go-lp/lpcore/errs"

// Status is the per-variable basis-file encoding: n integers
// {basic=0, lower=1, upper=2, zero=3, nonbasic=4} for the structural
// columns, then m integers with the same encoding for the rows' logicals.
type Status int

const (
	StatusBasic    Status = 0
	StatusLower    Status = 1
	StatusUpper    Status = 2
	StatusZero     Status = 3
	StatusNonbasic Status = 4
)

// StatusOf returns v's basis-file status code.
func (b *Basis) StatusOf(v int) Status {
	if b.IsBasic(v) {
		return StatusBasic
	}
	switch b.NonbasicMove[v] {
	case MoveLower:
		return StatusLower
	case MoveUpper:
		return StatusUpper
	default:
		return StatusZero
	}
}

// NewFromStatus rebuilds a Basis from n+m status codes read back from a
// basis file, so that writing then reading reproduces the basis exactly.
// Variable order within BasicIndex follows the order basic codes appear
// in status, which Invert does not depend on since any permutation of
// the same basic set factorizes to the same L/U.
func NewFromStatus(n, m int, status []Status) (*Basis, error) {
	if len(status) != n+m {
		return nil, errs.Newf(errs.InvalidInput, "basis file: got %d statuses, want %d", len(status), n+m)
	}
	b := &Basis{
		NonbasicFlag: make([]bool, n+m),
		NonbasicMove: make([]Move, n+m),
		basicPos:     make([]int, n+m),
	}
	for v, s := range status {
		switch s {
		case StatusBasic:
			b.basicPos[v] = len(b.BasicIndex)
			b.BasicIndex = append(b.BasicIndex, v)
			b.NonbasicFlag[v] = false
		case StatusLower:
			b.NonbasicFlag[v] = true
			b.NonbasicMove[v] = MoveLower
			b.basicPos[v] = -1
		case StatusUpper:
			b.NonbasicFlag[v] = true
			b.NonbasicMove[v] = MoveUpper
			b.basicPos[v] = -1
		case StatusZero, StatusNonbasic:
			b.NonbasicFlag[v] = true
			b.NonbasicMove[v] = MoveNone
			b.basicPos[v] = -1
		default:
			return nil, errs.Newf(errs.InvalidInput, "basis file: unrecognized status code %d for variable %d", s, v)
		}
	}
	if len(b.BasicIndex) != m {
		return nil, errs.Newf(errs.InvalidInput, "basis file: %d basic variables, want %d", len(b.BasicIndex), m)
	}
	return b, nil
}
