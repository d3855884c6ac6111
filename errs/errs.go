// Package errs defines the error kinds exchanged across the component
// boundaries of the solver core.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a solver-internal failure. Kinds are matched on by
// calling code to decide whether to retry, refactorize, or give up.
type Kind int

const (
	// Internal marks a failure with no more specific kind, or one that
	// survived a retry and must now be surfaced to the caller.
	Internal Kind = iota
	// Singular means no acceptable pivot existed for some column (C2).
	Singular
	// Unstable means the estimated growth of the factorization exceeded
	// the trust bound after a product-form update (C2).
	Unstable
	// ChuzcFail means CHUZC found no entering-variable candidate (C4).
	ChuzcFail
	// BoundInconsistent means l > u for some column or row, a valid
	// infeasibility witness rather than a bug.
	BoundInconsistent
	// TimeLimit means the configured time budget was exhausted.
	TimeLimit
	// IterationLimit means the configured iteration budget was exhausted.
	IterationLimit
	// CancelRequested means the caller's context was cancelled.
	CancelRequested
	// InvalidInput means the LpSource failed validation before any
	// mutation occurred.
	InvalidInput
	// Unbounded means a primal step out of a dual-infeasible vertex found
	// no finite ratio-test limit in any direction (C4 Phase I).
	Unbounded
)

func (k Kind) String() string {
	switch k {
	case Singular:
		return "singular"
	case Unstable:
		return "unstable"
	case ChuzcFail:
		return "chuzc-fail"
	case BoundInconsistent:
		return "bound-inconsistent"
	case TimeLimit:
		return "time-limit"
	case IterationLimit:
		return "iteration-limit"
	case CancelRequested:
		return "cancel-requested"
	case InvalidInput:
		return "invalid-input"
	case Unbounded:
		return "unbounded"
	default:
		return "internal"
	}
}

// SolverError is the concrete error value returned across every
// component boundary in the solver core. It carries a Kind and, where
// applicable, a wrapped cause recoverable via errors.Cause/errors.Unwrap.
type SolverError struct {
	Kind  Kind
	Cause error
}

func (e *SolverError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("lpcore: %s", e.Kind)
	}
	return fmt.Sprintf("lpcore: %s: %v", e.Kind, e.Cause)
}

func (e *SolverError) Unwrap() error { return e.Cause }

// New builds a SolverError of the given kind whose cause is a plain error
// carrying msg.
func New(kind Kind, msg string) *SolverError {
	return &SolverError{Kind: kind, Cause: errors.New(msg)}
}

// Newf builds a SolverError of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *SolverError {
	return &SolverError{Kind: kind, Cause: errors.Errorf(format, args...)}
}

// Wrap attaches kind to an existing error, preserving it as the cause.
func Wrap(kind Kind, cause error) *SolverError {
	if cause == nil {
		return nil
	}
	return &SolverError{Kind: kind, Cause: errors.WithStack(cause)}
}

// KindOf extracts the Kind of err if it is (or wraps) a *SolverError,
// otherwise returns Internal.
func KindOf(err error) Kind {
	var se *SolverError
	if errors.As(err, &se) {
		return se.Kind
	}
	return Internal
}

// Is reports whether err is a *SolverError of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
