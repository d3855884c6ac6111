// Package basis holds the Basis type: the current set of basic variables
// and, for every nonbasic variable, which bound it sits at.
package basis

import (
	"math"

	"github.com/go-lp/lpcore/errs"
	"github.com/go-lp/lpcore/lp"
)

// Move encodes which side of a nonbasic variable's bounds it currently
// occupies. A basic variable's Move entry is meaningless and left at
// MoveNone.
type Move int8

const (
	MoveNone  Move = 0  // basic, or free/fixed and irrelevant
	MoveLower Move = 1  // sitting at its lower bound
	MoveUpper Move = -1 // sitting at its upper bound
)

// Basis is a length-m array of distinct variable identifiers, plus, for
// every nonbasic variable, a flag and a move. A variable is a structural
// column 0..n-1 or a logical n..n+m-1.
type Basis struct {
	BasicIndex   []int
	NonbasicFlag []bool
	NonbasicMove []Move

	// basicPos maps a variable to its row position in BasicIndex, or -1
	// if it is nonbasic. Maintained incrementally by SwapBasic.
	basicPos []int
}

// NewAllLogical builds the standard starting basis: every logical is
// basic, every structural column nonbasic at its lower bound if that is
// finite, else at its upper bound if that is finite, else free (neither
// bound finite). This is the conventional slack basis every simplex
// implementation starts its dual-feasible scan from.
func NewAllLogical(p *lp.Problem) *Basis {
	n, m := p.NumCols, p.NumRows
	b := &Basis{
		BasicIndex:   make([]int, m),
		NonbasicFlag: make([]bool, n+m),
		NonbasicMove: make([]Move, n+m),
		basicPos:     make([]int, n+m),
	}
	for v := 0; v < n+m; v++ {
		b.basicPos[v] = -1
	}
	for r := 0; r < m; r++ {
		v := n + r
		b.BasicIndex[r] = v
		b.basicPos[v] = r
	}
	for j := 0; j < n; j++ {
		b.NonbasicFlag[j] = true
		b.NonbasicMove[j] = defaultMove(p.VarLower(j), p.VarUpper(j))
	}
	for r := 0; r < m; r++ {
		b.NonbasicFlag[n+r] = false
	}
	return b
}

func defaultMove(lower, upper float64) Move {
	loFinite := !math.IsInf(lower, -1)
	upFinite := !math.IsInf(upper, 1)
	switch {
	case loFinite:
		return MoveLower
	case upFinite:
		return MoveUpper
	default:
		return MoveNone // free
	}
}

// IsBasic reports whether variable v currently occupies a basic slot.
func (b *Basis) IsBasic(v int) bool { return !b.NonbasicFlag[v] }

// PositionOf returns v's row position in BasicIndex, or -1 if nonbasic.
func (b *Basis) PositionOf(v int) int { return b.basicPos[v] }

// NumVars returns n+m, the size of the unified variable index space.
func (b *Basis) NumVars() int { return len(b.NonbasicFlag) }

// Size returns m, the number of basic slots.
func (b *Basis) Size() int { return len(b.BasicIndex) }

// SwapBasic replaces the variable at basic row position p with entering,
// marking the previously-basic variable (leaving) nonbasic at leavingMove.
// It is the single point of mutation for basis membership, and the only
// place where exactly one variable changes basic/nonbasic status per
// call.
func (b *Basis) SwapBasic(p int, entering int, leavingMove Move) {
	leaving := b.BasicIndex[p]
	b.NonbasicFlag[leaving] = true
	b.NonbasicMove[leaving] = leavingMove
	b.basicPos[leaving] = -1

	b.BasicIndex[p] = entering
	b.NonbasicFlag[entering] = false
	b.NonbasicMove[entering] = MoveNone
	b.basicPos[entering] = p
}

// FlipNonbasic toggles a nonbasic variable between its bounds without any
// basis-membership change; this is a BFRT bound flip.
func (b *Basis) FlipNonbasic(v int, move Move) {
	if !b.NonbasicFlag[v] {
		panic("lpcore/basis: FlipNonbasic called on a basic variable")
	}
	b.NonbasicMove[v] = move
}

// Clone deep-copies the basis, used by nla.Facade.Freeze to take a frozen
// snapshot that shares no storage with the live basis and stays valid
// until explicitly unfrozen.
func (b *Basis) Clone() *Basis {
	return &Basis{
		BasicIndex:   append([]int(nil), b.BasicIndex...),
		NonbasicFlag: append([]bool(nil), b.NonbasicFlag...),
		NonbasicMove: append([]Move(nil), b.NonbasicMove...),
		basicPos:     append([]int(nil), b.basicPos...),
	}
}

// Validate checks the basis invariants: |BasicIndex|=m, all entries
// distinct, every variable is either basic or nonbasic exactly once.
func (b *Basis) Validate() error {
	seen := make(map[int]struct{}, len(b.BasicIndex))
	for _, v := range b.BasicIndex {
		if _, dup := seen[v]; dup {
			return errs.Newf(errs.Internal, "duplicate basic variable %d", v)
		}
		seen[v] = struct{}{}
	}
	for v := 0; v < len(b.NonbasicFlag); v++ {
		_, basic := seen[v]
		if basic == b.NonbasicFlag[v] {
			return errs.Newf(errs.Internal, "variable %d basic/nonbasic flag inconsistent", v)
		}
	}
	return nil
}
