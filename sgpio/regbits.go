package sgpio

// Bit layouts for the packed SGPIO configuration registers. These are
// this driver's own encoding of the fields the datasheet describes in
// prose (clock source/edge, qualifier mode/polarity, concatenation,
// parallel mode, output-bus mode, direction source, swap-position) —
// SliceView and the planner's software-side sliceState are the source
// of truth for introspection; the packed words exist so run() is
// programming real register state, not just bookkeeping.

const (
	muxClockSelShift    = 0
	muxClockSelMask     = 0x3
	muxClockEdgeShift    = 2
	muxClockEdgeMask     = 0x1
	muxClockSelValShift  = 3
	muxClockSelValMask   = 0xF // pin index or slice index, 0..15
	muxQualModeShift     = 7
	muxQualModeMask      = 0x3
	muxQualPolarityShift = 9
	muxQualPolarityMask  = 0x1
	muxQualSelValShift   = 10
	muxQualSelValMask    = 0xF
	muxConcatEnShift     = 14
	muxConcatEnMask      = 0x1
	muxConcatOrderShift  = 15
	muxConcatOrderMask   = 0x3
	muxParallelShift     = 17
	muxParallelMask      = 0x3
)

func packSliceMuxCfg(s *sliceState) uint32 {
	var v uint32
	v |= (uint32(s.clockSelector) & muxClockSelMask) << muxClockSelShift
	if s.clockEdge == EdgeFalling {
		v |= muxClockEdgeMask << muxClockEdgeShift
	}
	v |= (s.clockSelVal & muxClockSelValMask) << muxClockSelValShift
	v |= (uint32(s.qualMode) & muxQualModeMask) << muxQualModeShift
	if s.qualPolarity {
		v |= muxQualPolarityMask << muxQualPolarityShift
	}
	v |= (s.qualSelVal & muxQualSelValMask) << muxQualSelValShift
	if s.enableConcatenation {
		v |= muxConcatEnMask << muxConcatEnShift
	}
	v |= (uint32(s.concatenationOrder) & muxConcatOrderMask) << muxConcatOrderShift
	v |= (s.parallelMode & muxParallelMask) << muxParallelShift
	return v
}

// parallel_mode encodings (step 4.D-2's "bus topology").
const (
	parallelSerial = 0
	parallel2Bit   = 1
	parallel4Bit   = 2
	parallel8Bit   = 3
)

func parallelModeForWidth(width int) uint32 {
	switch width {
	case 2:
		return parallel2Bit
	case 4:
		return parallel4Bit
	case 8:
		return parallel8Bit
	default:
		return parallelSerial
	}
}

// output-bus mode encodings (step 4.D-4).
const (
	outputBusGPIO      = 0
	outputBus1BitA     = 1
	outputBus2BitA     = 2
	outputBus4BitA     = 3
	outputBus8BitA     = 4
	outputBusClockOut  = 5
)

func outputBusModeForWidth(width int) uint32 {
	switch width {
	case 2:
		return outputBus2BitA
	case 4:
		return outputBus4BitA
	case 8:
		return outputBus8BitA
	default:
		return outputBus1BitA
	}
}

// direction-source encodings: where a pin's output-enable bit comes
// from.
const (
	dirSourcePinRegister = 0 // plain GPIO-style direction register, fixed input
	dirSourceAlwaysOut   = 1 // STREAM_OUT / FIXED_OUT / CLOCK_GEN: always driven
	dirSource1Bit        = 2
	dirSource2Bit        = 3
	dirSource4Bit        = 4
	dirSource8Bit        = 5
)

func directionSourceForWidth(width int) uint32 {
	switch width {
	case 2:
		return dirSource2Bit
	case 4:
		return dirSource4Bit
	case 8:
		return dirSource8Bit
	default:
		return dirSource1Bit
	}
}

func packPinMuxCfg(outputBusMode, dirSource uint32) uint32 {
	return (outputBusMode & 0x7) | (dirSource&0x7)<<3
}

// Swap-position register (Pos[]): shifts_per_buffer_swap in the low
// 12 bits, shifts_remaining in the next 12, and the stop-on-swap flag
// in bit 31.
const (
	swapShiftsPerSwapMask    = 0xFFF
	swapShiftsRemainingShift = 12
	swapShiftsRemainingMask  = 0xFFF
	swapStopOnSwapBit        = 1 << 31
)

func packSwapPosition(shiftsPerSwap, shiftsRemaining uint32, stopOnSwap bool) uint32 {
	v := shiftsPerSwap & swapShiftsPerSwapMask
	v |= (shiftsRemaining & swapShiftsRemainingMask) << swapShiftsRemainingShift
	if stopOnSwap {
		v |= swapStopOnSwapBit
	}
	return v
}
