// Package sgpio is the public surface of the SGPIO driver: the planner
// that turns a caller's declared Functions into a concrete slice
// layout, the data-shuttle routines that keep the double-buffered
// hardware registers fed, and the small set of entry points
// (SetUpFunctions/Run/Halt/...) everything else is reached through.
package sgpio

import (
	"github.com/lpc43xx/sgpio/clockgraph"
	"github.com/lpc43xx/sgpio/diag"
	"github.com/lpc43xx/sgpio/internal/lpcregs"
	"github.com/lpc43xx/sgpio/irqctl"
	"github.com/lpc43xx/sgpio/ringbuffer"
)

// Mode names which of the five function disciplines a bus implements.
// Unlike a plain input/output/bidirectional flag, Mode also separates
// the two output disciplines: STREAM_OUT keeps refilling from a ring
// buffer on every swap, FIXED_OUT loads its pattern once and repeats
// it, and CLOCK_GEN drives no data at all, just a clock edge.
type Mode int

const (
	ModeStreamIn Mode = iota
	ModeStreamOut
	ModeFixedOut
	ModeBidirectional
	ModeClockGen
)

func (m Mode) String() string {
	switch m {
	case ModeStreamIn:
		return "stream-in"
	case ModeStreamOut:
		return "stream-out"
	case ModeFixedOut:
		return "fixed-out"
	case ModeBidirectional:
		return "bidirectional"
	case ModeClockGen:
		return "clock-gen"
	default:
		return "unknown-mode"
	}
}

// consumesInput reports whether m ever needs shifted-in data captured
// into a ring buffer.
func (m Mode) consumesInput() bool {
	return m == ModeStreamIn || m == ModeBidirectional
}

// producesOutput reports whether m ever needs a ring buffer's contents
// shifted out onto pins.
func (m Mode) producesOutput() bool {
	return m == ModeStreamOut || m == ModeFixedOut || m == ModeBidirectional
}

// ClockSelector names where a function's shift clock originates.
type ClockSelector int

const (
	// ClockLocal generates the shift clock from the I/O slice's own
	// cycles-per-shift counter, divided from the SGPIO branch clock.
	ClockLocal ClockSelector = iota
	// ClockPin qualifies shifts from an externally driven SGPIO pin
	// (SGPIO08..SGPIO11 are the four pins wired to accept this).
	ClockPin
	// ClockSlice qualifies shifts from another slice's own clock output
	// (one of D, H, O, P).
	ClockSlice
)

// ClockEdge selects which shift-clock transition advances a slice.
type ClockEdge int

const (
	EdgeRising ClockEdge = iota
	EdgeFalling
)

// ClockSource describes where a function's slice clock comes from.
type ClockSource struct {
	Selector ClockSelector
	// Pin is the logical SGPIO pin supplying the clock when Selector is
	// ClockPin.
	Pin int
	// Slice is the clock-gen slice letter supplying the clock when
	// Selector is ClockSlice.
	Slice byte
	Edge  ClockEdge
	// TargetHz is the desired local shift-clock rate when Selector is
	// ClockLocal; 0 means "as fast as possible" (divisor 1). Ignored
	// for the other selectors.
	TargetHz uint32
}

// LocalClock is the convenience constructor for a locally-generated
// clock at targetHz (0 = maximum rate).
func LocalClock(targetHz uint32) ClockSource {
	return ClockSource{Selector: ClockLocal, TargetHz: targetHz}
}

// PinClock qualifies shifts from an externally driven pin rather than
// generating a local clock.
func PinClock(pin int) ClockSource {
	return ClockSource{Selector: ClockPin, Pin: pin}
}

// SliceClock qualifies shifts from another slice's clock output.
func SliceClock(letter byte) ClockSource {
	return ClockSource{Selector: ClockSlice, Slice: letter}
}

// QualifierMode names what, besides the clock edge, gates a shift.
type QualifierMode int

const (
	QualifierAlways QualifierMode = iota
	QualifierNever
	QualifierSlice
	QualifierPin
)

// Qualifier gates shifting in addition to the clock edge.
type Qualifier struct {
	Mode QualifierMode
	// Pin is consulted when Mode is QualifierPin.
	Pin int
	// Slice is consulted when Mode is QualifierSlice.
	Slice byte
	// Polarity selects which level/edge of the qualifier source is
	// "active".
	Polarity bool
}

// Function is a caller-constructed description of one logical SGPIO
// use: a set of pins moving data together at one rate, matching the
// teacher's plain-struct-to-Init configuration convention
// (StateMachineConfig). SetUpFunctions writes its derived fields back
// into the same struct the caller passed a pointer to, the way the
// hardware's own sgpio_function_t is filled in by reference.
type Function struct {
	Name string
	Mode Mode

	// Pins lists the logical SGPIO pin indices (0..15) carrying this
	// function's bus, LSB first, ascending and contiguous from a first
	// pin divisible by BusWidth. Ignored (beyond Pins[0], the clock
	// pin) for ModeClockGen.
	Pins []int

	// BusWidth is the caller-requested lane count. 3/5/6/7 are valid
	// inputs: SetUpFunctions promotes them to 4/8 and writes the
	// promoted value back here.
	BusWidth int

	Clock     ClockSource
	Qualifier Qualifier

	// ClockOutputPin, if >= 0, additionally mirrors this function's
	// shift clock onto a pin via a clock-gen slice.
	ClockOutputPin int

	// Buffer is the ring buffer the data shuttle moves bytes through.
	// Required for every mode except ModeClockGen.
	Buffer *ringbuffer.RingBuffer
	// DirectionBuffer optionally supplies the per-shift direction
	// (output-enable) pattern for a ModeBidirectional function. Nil
	// means the direction slice is held tristated.
	DirectionBuffer *ringbuffer.RingBuffer

	// ShiftCountLimit, if non-zero, stops shifting after exactly this
	// many shifts instead of running indefinitely. Must fit within one
	// full chain span (chain_length native words' worth of shifts) or
	// SetUpFunctions fails with sgpioerr.CannotMeetShiftLimit.
	ShiftCountLimit uint32

	// SuppressISR forces "no ISR" even if the planned chain would
	// otherwise need software refill; the caller accepts whatever data
	// loss that implies. The only override bit this driver defines.
	SuppressISR bool

	// Derived fields, written back by SetUpFunctions.
	IOSlice             byte
	DirectionSlice      byte
	HasDirectionSlice   bool
	BufferDepthOrder    int // log2(chain depth)
	DirectionBufferDepthOrder int
	PositionInBuffer    uint32
	DataInBuffer        uint32
	ShiftClockFrequency uint32
}

// SliceView is a read-only snapshot of one slice's planned assignment,
// returned by SgpioContext.Slice for introspection/diagnostics.
type SliceView struct {
	Letter              byte
	InUse               bool
	Function            string
	ChainRoot           byte
	ChainLen            int
	BufferBits          int
	IsDirection         bool
	LocalDivisor        uint32
	ParallelMode        uint32
	EnableConcatenation bool
	ConcatenationOrder  int
	ShiftsPerBufferSwap uint32
	ShiftsRemaining     uint32
	StopOnSwap          bool
}

type sliceState struct {
	letter      byte
	inUse       bool
	function    string
	fn          *Function
	chainRoot   byte
	chainNext   byte // 0 = end of chain
	chainLen    int
	bufferBits  int
	isDirection bool
	divisor     uint32

	mode                Mode
	busWidth            int
	clockSelector       ClockSelector
	clockSelVal         uint32
	clockEdge           ClockEdge
	qualMode            QualifierMode
	qualPolarity        bool
	qualSelVal          uint32
	parallelMode        uint32
	enableConcatenation bool
	concatenationOrder  int
	shiftsPerBufferSwap uint32
	shiftsRemaining     uint32
	stopOnSwap          bool
}

// SgpioContext is the live driver instance: one per SGPIO block (the
// part has exactly one, but tests construct independent contexts over
// the simulated register window).
type SgpioContext struct {
	regs  *lpcregs.SGPIORegs
	clock *clockgraph.Graph
	irq   *irqctl.Controller
	sink  diag.Sink

	slices    [16]sliceState
	functions map[string]*Function
	funcOrder []string

	// started records whether Run has been called without a matching
	// Halt; it gates re-entrancy (Run/Halt bookkeeping), but is
	// deliberately not what Running() reports — that is computed fresh
	// from per-slice hardware state.
	started bool
	isr     []uint16
}

const sliceOrder = "ABCDEFGHIJKLMNOP"

func sliceIndex(letter byte) int {
	for i := 0; i < len(sliceOrder); i++ {
		if sliceOrder[i] == letter {
			return i
		}
	}
	return -1
}
