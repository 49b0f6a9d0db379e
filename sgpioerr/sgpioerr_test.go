package sgpioerr

import (
	"errors"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	e := New("sgpio.Run", Busy, nil)
	want := "sgpio.Run: busy"
	if e.Error() != want {
		t.Fatalf("Error() = %q, want %q", e.Error(), want)
	}
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("underlying")
	e := New("clockgraph.BringUpPLL", Timeout, cause)
	if errors.Is(e, errors.New("unrelated")) {
		t.Fatal("expected Is to not match an unrelated sentinel")
	}
	if errors.Unwrap(e) != cause {
		t.Fatalf("Unwrap() = %v, want %v", errors.Unwrap(e), cause)
	}
}

func TestErrorIsMatchesSameKind(t *testing.T) {
	a := New("sgpio.Run", Busy, nil)
	b := New("irqctl.SetHandler", Busy, nil)
	if !errors.Is(a, b) {
		t.Fatal("expected two *Error values with the same Kind to match via errors.Is")
	}
}

func TestHasKind(t *testing.T) {
	e := New("sgpio.SetUpFunctions", CannotMeetShiftLimit, nil)
	if !HasKind(e, CannotMeetShiftLimit) {
		t.Fatal("expected HasKind to match")
	}
	if HasKind(e, Busy) {
		t.Fatal("expected HasKind to not match a different kind")
	}
	if HasKind(nil, Busy) {
		t.Fatal("expected HasKind(nil, ...) to be false")
	}
}

func TestKindString(t *testing.T) {
	if InvalidArgument.String() != "invalid argument" {
		t.Fatalf("unexpected String(): %s", InvalidArgument.String())
	}
}
