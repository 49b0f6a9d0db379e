// Package sgpioerr defines the error-kind taxonomy every package in
// this module reports through: a small discriminated Kind instead of a
// zoo of sentinel values, so callers can branch on category
// (errors.Is) while still getting a descriptive message.
package sgpioerr

import "fmt"

// Kind discriminates the category of failure. New Kinds are added
// rarely and deliberately — callers switch on these, so the set is
// meant to stay small and stable.
type Kind int

const (
	// InvalidArgument: a caller-supplied value is outside its documented
	// domain (e.g. a bus width not in {1,2,4,8}).
	InvalidArgument Kind = iota
	// InvalidPinMapping: a requested pin/function combination has no
	// entry in the fixed SCU/slice mapping tables.
	InvalidPinMapping
	// Busy: the operation was rejected because the context (or a
	// resource it needs) is already running or claimed.
	Busy
	// CannotMeetShiftLimit: the planner could not find a buffer-depth
	// assignment satisfying every function's shift-cycle budget.
	CannotMeetShiftLimit
	// TimingInfeasible: no clock-divisor/source combination reaches the
	// requested frequency within the tolerance the caller allowed.
	TimingInfeasible
	// Timeout: a bounded hardware bring-up wait (PLL lock, XTAL settle,
	// DMA abort) exceeded its retry budget.
	Timeout
	// Unsupported: the request is well-formed but this component
	// deliberately does not implement it (e.g. a non-core peripheral
	// left interface-only).
	Unsupported
	// OutOfMemory: a fixed-size pool (slices, ISR template slots,
	// interrupt vector table entries) has no room left.
	OutOfMemory
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case InvalidPinMapping:
		return "invalid pin mapping"
	case Busy:
		return "busy"
	case CannotMeetShiftLimit:
		return "cannot meet shift limit"
	case TimingInfeasible:
		return "timing infeasible"
	case Timeout:
		return "timeout"
	case Unsupported:
		return "unsupported"
	case OutOfMemory:
		return "out of memory"
	default:
		return "unknown error kind"
	}
}

// Error is the concrete error type returned across package boundaries.
// Op names the failing operation (e.g. "sgpio.SetUpFunctions"); Kind
// categorizes the failure; Err, if non-nil, wraps an underlying cause.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, sgpioerr.New("", sgpioerr.Busy, nil)) or more
// idiomatically compare via HasKind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an *Error. err may be nil.
func New(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// HasKind reports whether err is (or wraps) an *Error of the given Kind.
func HasKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind == kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
