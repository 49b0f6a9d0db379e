package sgpio

import (
	"github.com/lpc43xx/sgpio/clockgraph"
	"github.com/lpc43xx/sgpio/diag"
	"github.com/lpc43xx/sgpio/internal/lpcregs"
	"github.com/lpc43xx/sgpio/irqctl"
	"github.com/lpc43xx/sgpio/sgpioerr"
)

// SGPIOIRQNumber is this part's fixed SGPIO interrupt line.
const SGPIOIRQNumber = 3 * 32

// New constructs an SgpioContext over the live register blocks and the
// given clock graph / interrupt controller, and immediately resets it
// to the safe state (step 1 of the planner).
func New(clock *clockgraph.Graph, irq *irqctl.Controller, sink diag.Sink) *SgpioContext {
	if sink == nil {
		sink = diag.Default
	}
	if irq == nil {
		irq = irqctl.Default
	}
	c := &SgpioContext{
		regs:      lpcregs.SGPIO(),
		clock:     clock,
		irq:       irq,
		sink:      sink,
		functions: make(map[string]*Function),
	}
	c.Reset()
	return c
}

// Reset idempotently returns the context to the safe state of planner
// step 1: every slice's shift clock disabled, every slice unassigned,
// every pin direction input, no ISR installed. Safe to call whether or
// not SetUpFunctions has ever run.
func (c *SgpioContext) Reset() {
	if c.started {
		_ = c.Halt()
	}
	c.regs.ShiftClockEn.Set(0)
	c.regs.ExchangeIEn.Set(0)
	c.regs.ExchangeStat.Set(0xFFFFFFFF) // write-1-to-clear every pending exchange flag
	c.regs.IRQGate.Set(0)
	for i := range c.regs.PinMuxCfg {
		c.regs.PinMuxCfg[i].Set(0) // direction source defaults to GPIO input
	}
	for i := range c.slices {
		c.slices[i] = sliceState{letter: sliceOrder[i]}
	}
	c.functions = make(map[string]*Function)
	c.funcOrder = nil
	c.isr = nil
	if c.irq.IsEnabled(SGPIOIRQNumber) {
		_ = c.irq.Disable(SGPIOIRQNumber)
	}
}

// Running reports whether the hardware is actually shifting right now:
// at least one used, non-direction slice has its shift_clock_enable bit
// set, and either that slice's function never terminates on its own
// (no shift_count_limit) or its Count register shows it hasn't yet run
// out of cycles. This is computed fresh from register/slice state each
// call rather than cached, since a STREAM_IN function with a
// shift_count_limit can stop itself without anyone calling Halt.
func (c *SgpioContext) Running() bool {
	mask := c.regs.ShiftClockEn.Get()
	for i, s := range c.slices {
		if !s.inUse || s.isDirection {
			continue
		}
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		if s.fn == nil || s.fn.ShiftCountLimit == 0 {
			return true // non-terminating
		}
		if c.regs.Count[i].Get() != 0 {
			return true
		}
	}
	return false
}

// Registers exposes the raw register block for callers that need
// direct access beyond this package's surface (diagnostics, advanced
// bring-up sequences).
func (c *SgpioContext) Registers() *lpcregs.SGPIORegs { return c.regs }

// Functions returns the functions currently configured, in the order
// SetUpFunctions placed them. The returned slice holds the same
// pointers the caller passed to SetUpFunctions, so derived fields
// written back by the planner and the data shuttle are visible through
// it without a second lookup.
func (c *SgpioContext) Functions() []*Function {
	out := make([]*Function, 0, len(c.funcOrder))
	for _, name := range c.funcOrder {
		out = append(out, c.functions[name])
	}
	return out
}

// Slice returns a read-only view of the named slice's current plan.
// ok is false if letter is not one of 'A'..'P'.
func (c *SgpioContext) Slice(letter byte) (SliceView, bool) {
	idx := sliceIndex(letter)
	if idx < 0 {
		return SliceView{}, false
	}
	s := c.slices[idx]
	return SliceView{
		Letter:              s.letter,
		InUse:               s.inUse,
		Function:            s.function,
		ChainRoot:           s.chainRoot,
		ChainLen:            s.chainLen,
		BufferBits:          s.bufferBits,
		IsDirection:         s.isDirection,
		LocalDivisor:        s.divisor,
		ParallelMode:        s.parallelMode,
		EnableConcatenation: s.enableConcatenation,
		ConcatenationOrder:  s.concatenationOrder,
		ShiftsPerBufferSwap: s.shiftsPerBufferSwap,
		ShiftsRemaining:     s.shiftsRemaining,
		StopOnSwap:          s.stopOnSwap,
	}, true
}

// Run arms the first buffer swap, enables the shift clock for every
// slice SetUpFunctions placed, and unmasks the SGPIO interrupt line if
// an ISR was generated. Priming via Prepopulate before enabling the
// clock matters: without it the first swap would shift out whatever
// was left in the shadow register from a previous run (or zero, at
// reset), not the caller's actual first word.
func (c *SgpioContext) Run() error {
	if c.started {
		return sgpioerr.New("sgpio.Run", sgpioerr.Busy, nil)
	}
	c.regs.ShiftClockEn.Set(0)
	c.Prepopulate()
	var mask uint32
	for i, s := range c.slices {
		if s.inUse && !s.isDirection {
			mask |= 1 << uint(i)
		}
	}
	if len(c.isr) > 0 {
		if err := c.irq.Enable(SGPIOIRQNumber); err != nil {
			return sgpioerr.New("sgpio.Run", sgpioerr.Busy, err)
		}
	}
	c.regs.ShiftClockEn.SetBits(mask)
	c.started = true
	return nil
}

// Halt stops shifting on every slice in use, captures whatever data
// the hardware had not yet handed to software (see shuttle.go's
// CaptureRemaining), and masks the SGPIO interrupt line.
func (c *SgpioContext) Halt() error {
	if !c.started {
		return nil
	}
	c.regs.ShiftClockEn.Set(0)
	if c.irq.IsEnabled(SGPIOIRQNumber) {
		_ = c.irq.Disable(SGPIOIRQNumber)
	}
	c.CaptureRemaining()
	c.started = false
	return nil
}

// DumpConfiguration writes a human-readable summary of every function
// and slice assignment through sink, gated at LevelInfo — diagnostic
// only, never consulted by the planner or the data shuttle.
func (c *SgpioContext) DumpConfiguration(sink diag.Sink) {
	if sink == nil {
		sink = c.sink
	}
	for _, name := range c.funcOrder {
		f := c.functions[name]
		sink.Logf(diag.LevelInfo, "sgpio.dump.function",
			"name", f.Name, "pins", f.Pins, "width", f.BusWidth, "mode", f.Mode.String())
	}
	for _, s := range c.slices {
		if !s.inUse {
			continue
		}
		sink.Logf(diag.LevelInfo, "sgpio.dump.slice",
			"letter", string(s.letter), "function", s.function, "chain_root", string(s.chainRoot),
			"chain_len", s.chainLen, "buffer_bits", s.bufferBits, "is_direction", s.isDirection,
			"divisor", s.divisor)
	}
}
