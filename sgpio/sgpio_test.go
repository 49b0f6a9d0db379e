package sgpio

import (
	"testing"

	"github.com/lpc43xx/sgpio/clockgraph"
	"github.com/lpc43xx/sgpio/internal/lpcregs"
	"github.com/lpc43xx/sgpio/irqctl"
	"github.com/lpc43xx/sgpio/mcupin"
	"github.com/lpc43xx/sgpio/ringbuffer"
)

func newTestContext(t *testing.T) *SgpioContext {
	t.Helper()
	lpcregs.ResetSimRegisters()
	clock := clockgraph.New(12_000_000, nil)
	if err := clock.SelectBaseSource(clockgraph.BaseSGPIO, clockgraph.SourceXtal); err != nil {
		t.Fatal(err)
	}
	if err := clock.EnableBase(clockgraph.BaseSGPIO); err != nil {
		t.Fatal(err)
	}
	if err := clock.EnableBranch(clockgraph.BranchSGPIO, clockgraph.BaseSGPIO, 1); err != nil {
		t.Fatal(err)
	}
	return New(clock, irqctl.New(), nil)
}

func simpleOutputFunction(name string, pin int) *Function {
	return &Function{
		Name:     name,
		Pins:     []int{pin},
		BusWidth: 1,
		Mode:     ModeFixedOut,
		Clock:    LocalClock(1_000_000),
		Buffer:   ringbuffer.New(4),
	}
}

func TestSetUpFunctionsPlacesSlice(t *testing.T) {
	ctx := newTestContext(t)
	if err := ctx.SetUpFunctions([]*Function{simpleOutputFunction("f0", 0)}); err != nil {
		t.Fatal(err)
	}
	view, ok := ctx.Slice(mcupin.IOSlice(0))
	if !ok {
		t.Fatal("expected a valid slice view")
	}
	if !view.InUse || view.Function != "f0" {
		t.Fatalf("unexpected slice view: %+v", view)
	}
}

func TestSetUpFunctionsRejectsMismatchedPinCount(t *testing.T) {
	ctx := newTestContext(t)
	f := simpleOutputFunction("bad", 0)
	f.BusWidth = 4
	if err := ctx.SetUpFunctions([]*Function{f}); err == nil {
		t.Fatal("expected an error when len(Pins) != BusWidth")
	}
}

func TestSetUpFunctionsRejectsDuplicateSliceUse(t *testing.T) {
	ctx := newTestContext(t)
	f0 := simpleOutputFunction("f0", 0)
	f1 := simpleOutputFunction("f1", 0) // same pin -> same I/O slice
	if err := ctx.SetUpFunctions([]*Function{f0, f1}); err == nil {
		t.Fatal("expected a Busy error for two functions claiming the same slice")
	}
}

func TestSetUpFunctionsIsIdempotentAcrossCalls(t *testing.T) {
	ctx := newTestContext(t)
	if err := ctx.SetUpFunctions([]*Function{simpleOutputFunction("f0", 0)}); err != nil {
		t.Fatal(err)
	}
	if err := ctx.SetUpFunctions([]*Function{simpleOutputFunction("f1", 1)}); err != nil {
		t.Fatal(err)
	}
	if len(ctx.Functions()) != 1 || ctx.Functions()[0].Name != "f1" {
		t.Fatalf("expected only the second call's functions to remain, got %+v", ctx.Functions())
	}
	view, _ := ctx.Slice(mcupin.IOSlice(0))
	if view.InUse {
		t.Fatal("expected the first call's slice to be released by the second SetUpFunctions")
	}
}

func TestSetUpFunctionsPromotesUnsupportedBusWidth(t *testing.T) {
	ctx := newTestContext(t)
	f := &Function{
		Name:     "odd",
		Pins:     []int{0, 1, 2},
		BusWidth: 3,
		Mode:     ModeFixedOut,
		Clock:    LocalClock(1_000_000),
		Buffer:   ringbuffer.New(4),
	}
	if err := ctx.SetUpFunctions([]*Function{f}); err != nil {
		t.Fatal(err)
	}
	if f.BusWidth != 4 {
		t.Fatalf("expected bus_width 3 promoted to 4, got %d", f.BusWidth)
	}
}

func TestRunEnablesShiftClockForUsedSlices(t *testing.T) {
	ctx := newTestContext(t)
	if err := ctx.SetUpFunctions([]*Function{simpleOutputFunction("f0", 0)}); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Run(); err != nil {
		t.Fatal(err)
	}
	if !ctx.Running() {
		t.Fatal("expected Running() true after Run")
	}
	idx := sliceIndex(mcupin.IOSlice(0))
	mask := ctx.Registers().ShiftClockEn.Get()
	if mask&(1<<uint(idx)) == 0 {
		t.Fatal("expected the placed slice's shift-clock-enable bit set")
	}
}

func TestRunRejectsWhenAlreadyRunning(t *testing.T) {
	ctx := newTestContext(t)
	_ = ctx.SetUpFunctions([]*Function{simpleOutputFunction("f0", 0)})
	if err := ctx.Run(); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Run(); err == nil {
		t.Fatal("expected Busy error on second Run")
	}
}

func TestHaltStopsShiftingAndIsIdempotent(t *testing.T) {
	ctx := newTestContext(t)
	_ = ctx.SetUpFunctions([]*Function{simpleOutputFunction("f0", 0)})
	_ = ctx.Run()
	if err := ctx.Halt(); err != nil {
		t.Fatal(err)
	}
	if ctx.Running() {
		t.Fatal("expected Running() false after Halt")
	}
	if ctx.Registers().ShiftClockEn.Get() != 0 {
		t.Fatal("expected shift clock enable cleared after Halt")
	}
	if err := ctx.Halt(); err != nil {
		t.Fatal("expected a second Halt to be a no-op, not an error")
	}
}

func TestResetClearsEverything(t *testing.T) {
	ctx := newTestContext(t)
	_ = ctx.SetUpFunctions([]*Function{simpleOutputFunction("f0", 0)})
	_ = ctx.Run()
	ctx.Reset()
	if ctx.Running() {
		t.Fatal("expected Running() false after Reset")
	}
	if len(ctx.Functions()) != 0 {
		t.Fatal("expected no functions after Reset")
	}
	view, _ := ctx.Slice(mcupin.IOSlice(0))
	if view.InUse {
		t.Fatal("expected every slice released after Reset")
	}
}

func TestBidirectionalFunctionClaimsDirectionSlice(t *testing.T) {
	ctx := newTestContext(t)
	f := &Function{
		Name:     "bidir",
		Pins:     []int{0, 1, 2, 3},
		BusWidth: 4,
		Mode:     ModeBidirectional,
		Clock:    LocalClock(1_000_000),
		Buffer:   ringbuffer.New(4),
	}
	if err := ctx.SetUpFunctions([]*Function{f}); err != nil {
		t.Fatal(err)
	}
	if !f.HasDirectionSlice {
		t.Fatal("expected HasDirectionSlice written back true for a bidirectional function")
	}
	found := false
	for _, letter := range []byte("ABCDEFGHIJKLMNOP") {
		v, _ := ctx.Slice(letter)
		if v.InUse && v.IsDirection && v.Function == "bidir" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a direction slice to be claimed for the bidirectional function")
	}
}

func TestDeepBufferGrowsChainAndNeedsISR(t *testing.T) {
	ctx := newTestContext(t)
	f := simpleOutputFunction("deep", 0)
	f.Mode = ModeStreamOut
	f.Buffer = ringbuffer.New(32) // 8 native words' worth
	if err := ctx.SetUpFunctions([]*Function{f}); err != nil {
		t.Fatal(err)
	}
	view, _ := ctx.Slice(mcupin.IOSlice(0))
	if view.BufferBits < 64 {
		t.Fatalf("expected buffer depth to reach at least 64 bits, got %d", view.BufferBits)
	}
	if f.BufferDepthOrder == 0 {
		t.Fatal("expected BufferDepthOrder written back above zero for a grown chain")
	}
	if len(ctx.isr) == 0 {
		t.Fatal("expected an ISR to be generated for a deep STREAM_OUT chain")
	}
}

func TestShiftCountLimitWithinOneChainSpanSucceeds(t *testing.T) {
	ctx := newTestContext(t)
	f := simpleOutputFunction("limited", 0)
	f.ShiftCountLimit = 20
	if err := ctx.SetUpFunctions([]*Function{f}); err != nil {
		t.Fatal(err)
	}
}

func TestShiftCountLimitBeyondChainSpanFails(t *testing.T) {
	ctx := newTestContext(t)
	f := simpleOutputFunction("toolong", 0)
	f.ShiftCountLimit = 1000
	if err := ctx.SetUpFunctions([]*Function{f}); err == nil {
		t.Fatal("expected CannotMeetShiftLimit for a limit beyond one chain span")
	}
}

func TestPrepopulateFillsDataAndShadowRegisters(t *testing.T) {
	ctx := newTestContext(t)
	f := simpleOutputFunction("fill", 0)
	f.Buffer.Enqueue(0x11)
	f.Buffer.Enqueue(0x22)
	f.Buffer.Enqueue(0x33)
	f.Buffer.Enqueue(0x44)
	if err := ctx.SetUpFunctions([]*Function{f}); err != nil {
		t.Fatal(err)
	}
	ctx.Prepopulate()
	idx := sliceIndex(mcupin.IOSlice(0))
	want := uint32(0x11223344)
	if got := ctx.Registers().OutReg[idx].Get(); got != want {
		t.Fatalf("OutReg = %#x, want %#x", got, want)
	}
	if got := ctx.Registers().ShadowReg[idx].Get(); got != want {
		t.Fatalf("ShadowReg = %#x, want %#x", got, want)
	}
}

func TestCaptureRemainingEnqueuesResidualBytesOnShiftLimitHalt(t *testing.T) {
	ctx := newTestContext(t)
	f := &Function{
		Name:            "capture",
		Pins:            []int{0},
		BusWidth:        1,
		Mode:            ModeStreamIn,
		Clock:           LocalClock(1_000_000),
		Buffer:          ringbuffer.New(4),
		ShiftCountLimit: 16, // exactly 2 bytes at bus_width 1
	}
	if err := ctx.SetUpFunctions([]*Function{f}); err != nil {
		t.Fatal(err)
	}
	idx := sliceIndex(mcupin.IOSlice(0))
	ctx.Registers().ShadowReg[idx].Set(0xAABBCCDD)
	ctx.Registers().Count[idx].Set(0) // simulate the hardware having already stopped itself
	ctx.CaptureRemaining()
	if f.Buffer.Len() != 2 {
		t.Fatalf("expected 2 captured bytes, got %d", f.Buffer.Len())
	}
	b0, _ := f.Buffer.Dequeue()
	b1, _ := f.Buffer.Dequeue()
	if b0 != 0xAA || b1 != 0xBB {
		t.Fatalf("unexpected captured bytes: %#x %#x", b0, b1)
	}
}

func TestPrepopulateAndCaptureRemainingDoNotPanic(t *testing.T) {
	ctx := newTestContext(t)
	_ = ctx.SetUpFunctions([]*Function{simpleOutputFunction("f0", 0)})
	ctx.Prepopulate()
	ctx.CaptureRemaining()
}
