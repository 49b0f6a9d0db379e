package sgpio

import (
	"github.com/lpc43xx/sgpio/clockgraph"
	"github.com/lpc43xx/sgpio/diag"
	"github.com/lpc43xx/sgpio/internal/mathx"
	"github.com/lpc43xx/sgpio/mcupin"
	"github.com/lpc43xx/sgpio/sgpio/internal/isagen"
	"github.com/lpc43xx/sgpio/sgpioerr"
)

const nativeSliceBits = 32
const nativeSliceBytes = 4

// maxChainDepthFor bounds concatenation growth per mode: a clock-gen
// function never chains, a unidirectional function may chain up to 8
// slices deep, and a bidirectional function may chain up to 8 when its
// I/O slice is in the low half (A..H) but only 4 when it is in the
// high half (I..P), since the high-half direction-slice table has
// fewer neighbours to spare.
func maxChainDepthFor(mode Mode, ioSlice byte) int {
	switch mode {
	case ModeClockGen:
		return 1
	case ModeBidirectional:
		if ioSlice >= 'I' {
			return 4
		}
		return 8
	default:
		return 8
	}
}

// promoteBusWidth maps the three non-power-of-two widths this hardware
// accepts onto the nearest supported lane count, per §3/§8's "3/5/6/7
// silently promoted with a warning".
func promoteBusWidth(width int) int {
	switch width {
	case 3:
		return 4
	case 5, 6, 7:
		return 8
	default:
		return width
	}
}

// SetUpFunctions runs the full planner: reset to the safe state,
// validate and place every function's pins onto slices and physical
// pins, grow buffer depth by concatenation where requested and room
// allows, program each chain's clock/qualifier/topology/shift-limit
// fields, and (if any chain needs software refill) synthesize the
// single ISR this context is allowed to have.
//
// Functions are taken by pointer because several fields (IOSlice,
// BufferDepthOrder, the achieved ShiftClockFrequency, the promoted
// BusWidth, ...) are written back into the caller's own struct, the
// same way the hardware's sgpio_function_t is filled in by reference.
//
// SetUpFunctions always starts from Reset, so calling it twice with
// different function sets is safe and does not require an intervening
// Halt.
func (c *SgpioContext) SetUpFunctions(functions []*Function) error {
	c.Reset()

	for _, f := range functions {
		if err := c.validateFunction(f); err != nil {
			return err
		}
	}

	for _, f := range functions {
		if err := c.placeFunction(f); err != nil {
			c.Reset()
			return err
		}
		c.functions[f.Name] = f
		c.funcOrder = append(c.funcOrder, f.Name)
	}

	if err := c.applyShiftLimits(functions); err != nil {
		c.Reset()
		return err
	}

	var chainsNeedingISR []isagen.ChainSpec
	for _, f := range functions {
		root := &c.slices[sliceIndex(f.IOSlice)]
		if !functionNeedsISR(f, root.chainLen+1) {
			continue
		}
		dir := isagen.DirOut
		if f.Mode == ModeStreamIn {
			dir = isagen.DirStreamIn
		}
		chainsNeedingISR = append(chainsNeedingISR, isagen.ChainSpec{
			RootSlice: root.letter,
			ChainLen:  root.chainLen + 1,
			Direction: dir,
		})
	}

	if len(chainsNeedingISR) > 0 {
		code, err := isagen.Generate(chainsNeedingISR)
		if err != nil {
			c.Reset()
			if sgpioerr.HasKind(err, sgpioerr.Unsupported) {
				return sgpioerr.New("sgpio.SetUpFunctions", sgpioerr.Unsupported, err)
			}
			return sgpioerr.New("sgpio.SetUpFunctions", sgpioerr.CannotMeetShiftLimit, err)
		}
		c.isr = code
		if err := c.irq.SetHandler(SGPIOIRQNumber, c.isrEntry); err != nil {
			c.Reset()
			return sgpioerr.New("sgpio.SetUpFunctions", sgpioerr.Busy, err)
		}
	}

	return nil
}

// functionNeedsISR is the §4.E "ISR needed" predicate: CLOCK_GEN never
// needs one; a FIXED_OUT pattern that fits entirely across data+shadow
// (chainWords*8 bytes, since both halves can be preloaded once and
// never refilled) needs none; a STREAM_IN whose shift limit yields at
// most one chain span of bytes needs none (the chain alone holds the
// whole capture); everything else does.
func functionNeedsISR(f *Function, chainWords int) bool {
	if f.SuppressISR {
		return false
	}
	switch f.Mode {
	case ModeClockGen:
		return false
	case ModeFixedOut:
		if f.Buffer != nil && f.Buffer.Cap() <= chainWords*nativeSliceBytes*2 {
			return false
		}
		return true
	case ModeStreamIn:
		if f.ShiftCountLimit != 0 {
			limitBytes := int((f.ShiftCountLimit * uint32(f.BusWidth)) / 8)
			if limitBytes <= chainWords*nativeSliceBytes {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func (c *SgpioContext) validateFunction(f *Function) error {
	if f.Name == "" {
		return sgpioerr.New("sgpio.SetUpFunctions", sgpioerr.InvalidArgument, nil)
	}
	if f.Mode < ModeStreamIn || f.Mode > ModeClockGen {
		return sgpioerr.New("sgpio.SetUpFunctions", sgpioerr.InvalidArgument, nil)
	}
	if f.Mode == ModeClockGen {
		if len(f.Pins) != 1 {
			return sgpioerr.New("sgpio.SetUpFunctions", sgpioerr.InvalidArgument, nil)
		}
	} else {
		switch f.BusWidth {
		case 1, 2, 3, 4, 5, 6, 7, 8:
		default:
			return sgpioerr.New("sgpio.SetUpFunctions", sgpioerr.InvalidArgument, nil)
		}
		if len(f.Pins) != f.BusWidth {
			return sgpioerr.New("sgpio.SetUpFunctions", sgpioerr.InvalidArgument, nil)
		}
		if f.BusWidth > 1 && f.Pins[0]%f.BusWidth != 0 {
			return sgpioerr.New("sgpio.SetUpFunctions", sgpioerr.InvalidArgument, nil)
		}
		for i := 1; i < len(f.Pins); i++ {
			if f.Pins[i] != f.Pins[i-1]+1 {
				return sgpioerr.New("sgpio.SetUpFunctions", sgpioerr.InvalidArgument, nil)
			}
		}
		if f.Mode != ModeClockGen && f.Buffer == nil {
			return sgpioerr.New("sgpio.SetUpFunctions", sgpioerr.InvalidArgument, nil)
		}
	}
	for _, p := range f.Pins {
		if p < 0 || p > 15 {
			return sgpioerr.New("sgpio.SetUpFunctions", sgpioerr.InvalidPinMapping, nil)
		}
	}
	if f.Clock.Selector == ClockPin && (f.Clock.Pin < 0 || f.Clock.Pin > 15) {
		return sgpioerr.New("sgpio.SetUpFunctions", sgpioerr.InvalidPinMapping, nil)
	}
	if f.Qualifier.Mode == QualifierPin && (f.Qualifier.Pin < 0 || f.Qualifier.Pin > 15) {
		return sgpioerr.New("sgpio.SetUpFunctions", sgpioerr.InvalidPinMapping, nil)
	}

	// Boundary behavior: 3/5/6/7 are promoted, not rejected. Writing
	// the promotion back here (rather than only inside placeFunction)
	// keeps every later step — chain growth, topology programming —
	// working against the final width.
	if f.Mode != ModeClockGen {
		if promoted := promoteBusWidth(f.BusWidth); promoted != f.BusWidth {
			c.sink.Logf(diag.LevelWarn, "sgpio.bus_width.promoted",
				"function", f.Name, "requested", f.BusWidth, "promoted_to", promoted)
			f.BusWidth = promoted
		}
	}
	return nil
}

// placeFunction is planner step 2 for one function: pin multiplexing,
// I/O slice and direction slice assignment, clock source and
// qualifier programming, bus topology, then iterative chain growth.
func (c *SgpioContext) placeFunction(f *Function) error {
	for _, pin := range f.Pins {
		if err := c.routePin(pin, f.Mode); err != nil {
			return err
		}
	}

	ioLetter := mcupin.IOSlice(f.Pins[0])
	if f.Mode == ModeClockGen {
		ioLetter = mcupin.ClockSlice(f.Pins[0])
	}
	idx := sliceIndex(ioLetter)
	if c.slices[idx].inUse {
		return sgpioerr.New("sgpio.SetUpFunctions", sgpioerr.Busy, nil)
	}
	s := &c.slices[idx]
	s.inUse = true
	s.function = f.Name
	s.fn = f
	s.chainRoot = ioLetter
	s.bufferBits = nativeSliceBits
	s.mode = f.Mode
	s.busWidth = f.BusWidth
	f.IOSlice = ioLetter

	if f.Mode == ModeBidirectional {
		dirLetter, ok := mcupin.DirectionSlice(f.Pins[0], ioLetter, f.BusWidth)
		if !ok {
			return sgpioerr.New("sgpio.SetUpFunctions", sgpioerr.InvalidArgument, nil)
		}
		dIdx := sliceIndex(dirLetter)
		if c.slices[dIdx].inUse {
			return sgpioerr.New("sgpio.SetUpFunctions", sgpioerr.Busy, nil)
		}
		ds := &c.slices[dIdx]
		ds.inUse = true
		ds.isDirection = true
		ds.function = f.Name
		ds.fn = f
		ds.chainRoot = dirLetter
		ds.bufferBits = nativeSliceBits
		ds.mode = f.Mode
		ds.busWidth = f.BusWidth
		f.DirectionSlice = dirLetter
		f.HasDirectionSlice = true
	}

	if err := c.configureClock(f, s); err != nil {
		return err
	}
	configureQualifier(s, f.Qualifier)
	if f.Qualifier.Mode == QualifierPin {
		if err := c.routePin(f.Qualifier.Pin, ModeStreamIn); err != nil {
			return err
		}
	}

	// Bus topology (step 2's "parallel_mode to match bus_width";
	// concatenation starts disabled on the I/O slice; invariant #6's
	// no-limit swap-control formula at chain depth 1).
	s.parallelMode = parallelModeForWidth(f.BusWidth)
	s.enableConcatenation = false
	s.concatenationOrder = 0
	programSwapControl(s, f.BusWidth, 1)
	c.regs.SliceMuxCfg[idx].Set(packSliceMuxCfg(s))
	c.regs.Mask[idx].Set(qualifierPatternMask(f.Qualifier))

	if f.Mode == ModeBidirectional {
		ds := &c.slices[sliceIndex(f.DirectionSlice)]
		configureQualifier(ds, f.Qualifier)
		ds.parallelMode = parallelModeForWidth(f.BusWidth)
		if f.BusWidth > 1 {
			ds.parallelMode = parallel2Bit
		}
		ds.enableConcatenation = true
		ds.concatenationOrder = 0
		programSwapControl(ds, f.BusWidth, 1)
		c.regs.SliceMuxCfg[sliceIndex(f.DirectionSlice)].Set(packSliceMuxCfg(ds))
		// Direction chains never grow past one native word (only the
		// data chain concatenates), so their depth order, log2 of one
		// slice, is always 0 here — tracked as its own field rather
		// than reusing BufferDepthOrder.
		f.DirectionBufferDepthOrder = 0
	}

	c.growBufferDepth(f, s)
	c.programOutputPins(f, s)
	if err := c.configureClockOutputPin(f, s); err != nil {
		return err
	}

	return nil
}

// routePin programs the SCU mux for one logical SGPIO pin, picking the
// first available route from the fixed mapping table. The per-pin
// output-bus mode and direction source are finished in
// programOutputPins, once the function's full chain (and hence its
// final bus_width) is known.
func (c *SgpioContext) routePin(pin int, mode Mode) error {
	routes := mcupin.RoutesFor(pin)
	if len(routes) == 0 {
		return sgpioerr.New("sgpio.routePin", sgpioerr.InvalidPinMapping, nil)
	}
	r := routes[0]
	r.Pin.Configure(r.Function, mcupinPullFor(mode), true)
	return nil
}

func mcupinPullFor(mode Mode) int {
	if mode == ModeStreamIn {
		return 3 // SCUPullNone: let the external driver set the level
	}
	return 1 // SCUPullDown: defined idle state for output-capable pins
}

// configureClock programs the clock source feeding s: LOCAL computes
// and writes a divisor off the SGPIO branch clock (divisor 1 for the
// "as fast as possible" TargetHz==0 case); PIN/SLICE just record the
// external selector, since no local divisor applies.
func (c *SgpioContext) configureClock(f *Function, s *sliceState) error {
	idx := sliceIndex(s.letter)
	s.clockSelector = f.Clock.Selector
	s.clockEdge = f.Clock.Edge
	switch f.Clock.Selector {
	case ClockPin:
		s.clockSelVal = uint32(f.Clock.Pin)
		f.ShiftClockFrequency = 0
		return nil
	case ClockSlice:
		s.clockSelVal = uint32(sliceIndex(f.Clock.Slice))
		f.ShiftClockFrequency = 0
		return nil
	default:
		if c.clock == nil {
			return sgpioerr.New("sgpio.configureClock", sgpioerr.Unsupported, nil)
		}
		branchHz, err := c.clock.GetBranchFrequency(clockgraph.BranchSGPIO)
		if err != nil {
			return sgpioerr.New("sgpio.configureClock", sgpioerr.TimingInfeasible, err)
		}
		if branchHz == 0 {
			return sgpioerr.New("sgpio.configureClock", sgpioerr.TimingInfeasible, nil)
		}
		if f.Clock.TargetHz > 0 && f.Clock.TargetHz > branchHz {
			return sgpioerr.New("sgpio.configureClock", sgpioerr.TimingInfeasible, nil)
		}
		var divisor uint32 = 1
		if f.Clock.TargetHz > 0 {
			// Each shift cycle toggles the slice clock twice (the
			// divisor program's native unit), hence the factor of 2.
			divisor = mathx.Clamp(branchHz/(2*f.Clock.TargetHz), 1, 0xFFF)
		}
		c.regs.Preset[idx].Set(divisor - 1)
		s.divisor = divisor
		f.ShiftClockFrequency = branchHz / (2 * divisor)
		return nil
	}
}

// configureQualifier records a function's shift qualifier into its I/O
// slice's software state; only one of Pin/Slice is consulted by the
// hardware depending on Mode, matching §4.D step 2's "set both the pin
// and slice selector fields (only one is consulted)".
func configureQualifier(s *sliceState, q Qualifier) {
	s.qualMode = q.Mode
	s.qualPolarity = q.Polarity
	switch q.Mode {
	case QualifierPin:
		s.qualSelVal = uint32(q.Pin)
	case QualifierSlice:
		s.qualSelVal = uint32(sliceIndex(q.Slice))
	}
}

func qualifierPatternMask(q Qualifier) uint32 {
	switch q.Mode {
	case QualifierNever:
		return 0
	case QualifierAlways:
		return 0xFFFFFFFF
	default:
		if q.Polarity {
			return 0xFFFFFFFF
		}
		return 0
	}
}

// growBufferDepth attempts to extend f's chain by concatenation,
// doubling the span each round, up to maxChainDepthFor(f.Mode,
// f.IOSlice), the ring buffer's own capacity in native words, and (for
// FIXED_OUT without a shift limit) half that — since data and shadow
// can each hold a full chain's worth of pattern and neither ever needs
// a mid-run refill.
func (c *SgpioContext) growBufferDepth(f *Function, root *sliceState) {
	if f.Buffer == nil {
		return
	}
	maxDepth := maxChainDepthFor(f.Mode, f.IOSlice)
	bufferWords := f.Buffer.Cap() / nativeSliceBytes
	if f.Mode == ModeFixedOut && f.ShiftCountLimit == 0 {
		bufferWords /= 2
	}
	if bufferWords < 1 {
		bufferWords = 1
	}
	targetDepth := bufferWords
	if targetDepth > maxDepth {
		targetDepth = maxDepth
	}

	rootIdx := sliceIndex(root.letter)
	depth := 1
	cur := rootIdx
	for depth < targetDepth {
		next := (cur + 1) % 16
		if c.slices[next].inUse {
			c.sink.Logf(diag.LevelWarn, "sgpio.buffer_depth.truncated",
				"function", f.Name, "achieved_depth", depth, "target_depth", targetDepth)
			break
		}
		ns := &c.slices[next]
		ns.inUse = true
		ns.function = f.Name
		ns.fn = f
		ns.chainRoot = root.letter
		ns.mode = f.Mode
		ns.busWidth = f.BusWidth
		ns.parallelMode = root.parallelMode
		ns.clockSelector = root.clockSelector
		ns.clockSelVal = root.clockSelVal
		ns.clockEdge = root.clockEdge
		ns.qualMode = root.qualMode
		ns.qualPolarity = root.qualPolarity
		ns.qualSelVal = root.qualSelVal
		ns.enableConcatenation = true
		root.chainNext = ns.letter
		root.bufferBits += nativeSliceBits
		root.chainLen++
		depth++
		cur = next
	}

	order := mathx.Log2Floor(uint32(depth))
	root.concatenationOrder = order
	if depth > 1 {
		root.enableConcatenation = false // the input boundary always stays disabled
		for i, cur := 1, rootIdx; i < depth; i++ {
			cur = (cur + 1) % 16
			c.slices[cur].concatenationOrder = order
			c.slices[cur].enableConcatenation = true
		}
	}
	f.BufferDepthOrder = order
	programSwapControl(root, f.BusWidth, depth)
	c.regs.SliceMuxCfg[rootIdx].Set(packSliceMuxCfg(root))
	for i, cur := 1, rootIdx; i < depth; i++ {
		cur = (cur + 1) % 16
		programSwapControl(&c.slices[cur], f.BusWidth, depth)
		c.regs.SliceMuxCfg[cur].Set(packSliceMuxCfg(&c.slices[cur]))
	}
}

// programSwapControl implements invariant #6: without a shift limit,
// every slice in the chain gets shifts_per_buffer_swap ==
// shifts_remaining == (32*depth)/bus_width - 1 and no stop-on-swap bit.
// applyShiftLimits overwrites this afterward for functions that
// requested a limit (invariant #5).
func programSwapControl(s *sliceState, busWidth, depth int) {
	shiftsPerSwap := uint32(0)
	if busWidth > 0 {
		shiftsPerSwap = uint32(nativeSliceBits*depth/busWidth) - 1
	}
	s.shiftsPerBufferSwap = shiftsPerSwap
	s.shiftsRemaining = shiftsPerSwap
	s.stopOnSwap = false
}

// applyShiftLimits is planner step 5: for every function that
// requested shift_count_limit, program shifts_per_buffer_swap=0,
// shifts_remaining=limit-1 and set the stop-on-swap bit across its
// whole chain (and direction chain), or fail if the limit does not fit
// within one chain span.
func (c *SgpioContext) applyShiftLimits(functions []*Function) error {
	for _, f := range functions {
		if f.ShiftCountLimit == 0 {
			continue
		}
		rootIdx := sliceIndex(f.IOSlice)
		root := &c.slices[rootIdx]
		depth := root.chainLen + 1
		shiftsPerSwap := uint32(nativeSliceBits*depth/f.BusWidth) - 1
		if f.ShiftCountLimit > shiftsPerSwap+1 {
			return sgpioerr.New("sgpio.SetUpFunctions", sgpioerr.CannotMeetShiftLimit, nil)
		}
		cur := rootIdx
		for i := 0; i < depth; i++ {
			s := &c.slices[cur]
			s.shiftsPerBufferSwap = 0
			s.shiftsRemaining = f.ShiftCountLimit - 1
			s.stopOnSwap = true
			c.regs.Pos[cur].Set(packSwapPosition(0, f.ShiftCountLimit-1, true))
			cur = (cur + 1) % 16
		}
		if f.HasDirectionSlice {
			d := sliceIndex(f.DirectionSlice)
			ds := &c.slices[d]
			ds.shiftsPerBufferSwap = 0
			ds.shiftsRemaining = f.ShiftCountLimit - 1
			ds.stopOnSwap = true
			c.regs.Pos[d].Set(packSwapPosition(0, f.ShiftCountLimit-1, true))
		}
	}
	// No-limit functions keep the programSwapControl values written
	// during placement/growth; push them to the register now that the
	// final chain length is settled.
	for _, f := range functions {
		if f.ShiftCountLimit != 0 {
			continue
		}
		rootIdx := sliceIndex(f.IOSlice)
		root := &c.slices[rootIdx]
		depth := root.chainLen + 1
		cur := rootIdx
		for i := 0; i < depth; i++ {
			s := &c.slices[cur]
			c.regs.Pos[cur].Set(packSwapPosition(s.shiftsPerBufferSwap, s.shiftsRemaining, s.stopOnSwap))
			cur = (cur + 1) % 16
		}
		if f.HasDirectionSlice {
			d := sliceIndex(f.DirectionSlice)
			ds := &c.slices[d]
			c.regs.Pos[d].Set(packSwapPosition(ds.shiftsPerBufferSwap, ds.shiftsRemaining, ds.stopOnSwap))
		}
	}
	return nil
}

// programOutputPins is planner step 4: program each used pin's
// output-bus mode and direction source per mode.
func (c *SgpioContext) programOutputPins(f *Function, s *sliceState) {
	var outputBusMode, dirSource uint32
	switch f.Mode {
	case ModeStreamIn:
		outputBusMode, dirSource = outputBusGPIO, dirSourcePinRegister
	case ModeStreamOut, ModeFixedOut:
		outputBusMode, dirSource = outputBusModeForWidth(f.BusWidth), dirSourceAlwaysOut
	case ModeClockGen:
		outputBusMode, dirSource = outputBusClockOut, dirSourceAlwaysOut
	case ModeBidirectional:
		outputBusMode, dirSource = outputBusModeForWidth(f.BusWidth), directionSourceForWidth(f.BusWidth)
		// Pre-tristate the output until the first prepopulate.
		c.regs.OutReg[sliceIndex(f.DirectionSlice)].Set(0)
	}
	for _, pin := range f.Pins {
		c.regs.PinMuxCfg[pin].Set(packPinMuxCfg(outputBusMode, dirSource))
	}
}

// configureClockOutputPin implements the optional shift-clock-output
// mirror from step 4: reuse an already-matching clock-gen slice, claim
// an unused one and copy the I/O slice's clock config into it, or fail
// with Busy if neither is possible.
func (c *SgpioContext) configureClockOutputPin(f *Function, s *sliceState) error {
	if f.ClockOutputPin < 0 {
		return nil
	}
	clockLetter := mcupin.ClockSlice(f.ClockOutputPin)
	cIdx := sliceIndex(clockLetter)
	cs := &c.slices[cIdx]
	if cs.inUse {
		if cs.divisor != s.divisor || cs.function != f.Name {
			return sgpioerr.New("sgpio.SetUpFunctions", sgpioerr.Busy, nil)
		}
	} else {
		cs.inUse = true
		cs.function = f.Name
		cs.fn = f
		cs.chainRoot = clockLetter
		cs.divisor = s.divisor
		cs.mode = ModeClockGen
		c.regs.Preset[cIdx].Set(c.regs.Preset[sliceIndex(s.letter)].Get())
	}
	if err := c.routePin(f.ClockOutputPin, ModeClockGen); err != nil {
		return err
	}
	c.regs.PinMuxCfg[f.ClockOutputPin].Set(packPinMuxCfg(outputBusClockOut, dirSourceAlwaysOut))
	return nil
}

// isrEntry is installed as the SGPIO IRQ handler once a chain needs
// software refill; it defers to the data-shuttle routines.
func (c *SgpioContext) isrEntry() {
	c.regs.ExchangeStat.Set(c.regs.ExchangeStat.Get())
	c.Prepopulate()
}
