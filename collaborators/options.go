package collaborators

import "math"

// ChuzcStrategy selects which CHUZC implementation simplex uses: quadratic
// sort, heap sort, or a size-based choice between them.
type ChuzcStrategy int

const (
	// ChuzcAuto applies the size heuristic: quadratic sort below
	// ChuzcHeapThreshold candidates, heap sort at or above it.
	ChuzcAuto ChuzcStrategy = iota
	ChuzcQuad
	ChuzcHeap
)

// SimplexStrategy names the active LP algorithm. Only the dual simplex is
// currently recognized; it is kept as an enum rather than a bare string
// so Options.Clamp can validate it.
type SimplexStrategy int

const (
	StrategyDual SimplexStrategy = iota
)

// Options holds every tunable knob the solver core recognizes. All fields
// are advisory: Clamp replaces pathological values with defaults rather
// than erroring, since the core must never fail a solve over a tuning
// knob.
type Options struct {
	PrimalFeasibilityTolerance float64
	DualFeasibilityTolerance   float64
	PivotThreshold             float64
	RefactorLimit              int
	IterationLimit             int
	TimeLimitSeconds           float64
	Presolve                   bool
	SimplexStrategy            SimplexStrategy
	MipRelGap                  float64
	MipAbsGap                  float64
	PseudocostReliability      int
	RandomSeed                 int64

	// DensityThreshold is a dense vs sparse HVector traversal threshold. No
	// component reads it; HVector methods take their threshold as an
	// argument.
	DensityThreshold float64
	// ChuzcStrategy and ChuzcHeapThreshold select and size-tune which
	// CHUZC sort implementation the engine uses.
	ChuzcStrategy      ChuzcStrategy
	ChuzcHeapThreshold int
	// ExpandResetPeriod is the EXPAND anti-cycling reset period K.
	ExpandResetPeriod int
	// FrozenSnapshotLimit bounds the number of live NLA freezes; beyond
	// it, the oldest snapshot is aged out.
	FrozenSnapshotLimit int
	// NodeLimit bounds B&B node expansions; zero means unbounded.
	NodeLimit int
}

// DefaultOptions returns Options populated with the solver core's defaults.
func DefaultOptions() Options {
	return Options{
		PrimalFeasibilityTolerance: 1e-7,
		DualFeasibilityTolerance:   1e-7,
		PivotThreshold:             0.1,
		RefactorLimit:              100,
		IterationLimit:             math.MaxInt32,
		TimeLimitSeconds:           math.Inf(1),
		Presolve:                   true,
		SimplexStrategy:            StrategyDual,
		MipRelGap:                  1e-4,
		MipAbsGap:                  1e-6,
		PseudocostReliability:      8,
		RandomSeed:                 0,
		DensityThreshold:           0.1,
		ChuzcStrategy:              ChuzcAuto,
		ChuzcHeapThreshold:         100,
		ExpandResetPeriod:          1000,
		FrozenSnapshotLimit:        64,
		NodeLimit:                  0,
	}
}

// WithDefaults returns a copy of o with every zero-valued field replaced
// by the default, useful when callers build Options with a struct literal
// that only sets the fields they care about.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.PrimalFeasibilityTolerance == 0 {
		o.PrimalFeasibilityTolerance = d.PrimalFeasibilityTolerance
	}
	if o.DualFeasibilityTolerance == 0 {
		o.DualFeasibilityTolerance = d.DualFeasibilityTolerance
	}
	if o.PivotThreshold == 0 {
		o.PivotThreshold = d.PivotThreshold
	}
	if o.RefactorLimit == 0 {
		o.RefactorLimit = d.RefactorLimit
	}
	if o.IterationLimit == 0 {
		o.IterationLimit = d.IterationLimit
	}
	if o.TimeLimitSeconds == 0 {
		o.TimeLimitSeconds = d.TimeLimitSeconds
	}
	if o.MipRelGap == 0 {
		o.MipRelGap = d.MipRelGap
	}
	if o.MipAbsGap == 0 {
		o.MipAbsGap = d.MipAbsGap
	}
	if o.PseudocostReliability == 0 {
		o.PseudocostReliability = d.PseudocostReliability
	}
	if o.DensityThreshold == 0 {
		o.DensityThreshold = d.DensityThreshold
	}
	if o.ChuzcHeapThreshold == 0 {
		o.ChuzcHeapThreshold = d.ChuzcHeapThreshold
	}
	if o.ExpandResetPeriod == 0 {
		o.ExpandResetPeriod = d.ExpandResetPeriod
	}
	if o.FrozenSnapshotLimit == 0 {
		o.FrozenSnapshotLimit = d.FrozenSnapshotLimit
	}
	return o
}

// Clamp replaces pathological values (negative tolerances, non-positive
// limits that should mean "unbounded" but were zeroed by accident) with
// defaults. Options are advisory: the core clamps rather than rejecting
// a solve over a tuning knob.
func (o Options) Clamp() Options {
	d := DefaultOptions()
	if o.PrimalFeasibilityTolerance <= 0 {
		o.PrimalFeasibilityTolerance = d.PrimalFeasibilityTolerance
	}
	if o.DualFeasibilityTolerance <= 0 {
		o.DualFeasibilityTolerance = d.DualFeasibilityTolerance
	}
	if o.PivotThreshold <= 0 || o.PivotThreshold > 1 {
		o.PivotThreshold = d.PivotThreshold
	}
	if o.RefactorLimit <= 0 {
		o.RefactorLimit = d.RefactorLimit
	}
	if o.IterationLimit <= 0 {
		o.IterationLimit = d.IterationLimit
	}
	if o.TimeLimitSeconds <= 0 {
		o.TimeLimitSeconds = d.TimeLimitSeconds
	}
	if o.MipRelGap < 0 {
		o.MipRelGap = d.MipRelGap
	}
	if o.MipAbsGap < 0 {
		o.MipAbsGap = d.MipAbsGap
	}
	if o.PseudocostReliability <= 0 {
		o.PseudocostReliability = d.PseudocostReliability
	}
	if o.DensityThreshold <= 0 || o.DensityThreshold > 1 {
		o.DensityThreshold = d.DensityThreshold
	}
	if o.ChuzcHeapThreshold <= 0 {
		o.ChuzcHeapThreshold = d.ChuzcHeapThreshold
	}
	if o.ExpandResetPeriod <= 0 {
		o.ExpandResetPeriod = d.ExpandResetPeriod
	}
	if o.FrozenSnapshotLimit <= 0 {
		o.FrozenSnapshotLimit = d.FrozenSnapshotLimit
	}
	if o.NodeLimit < 0 {
		o.NodeLimit = 0
	}
	return o
}
