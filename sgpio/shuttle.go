package sgpio

import "github.com/lpc43xx/sgpio/ringbuffer"

// Prepopulate refills every chain root's data and shadow registers from
// its function's backing ring buffer, called from the exchange-clock
// ISR (isrEntry) each time hardware reports a buffer swap. It is also
// safe to call manually (e.g. immediately after SetUpFunctions, to arm
// the first swap before Run enables shifting): both registers are
// primed identically so the first swap has real data on both sides,
// not whatever happened to be sitting in the shadow register at reset.
//
// For a function whose bus is bidirectional, the direction slice's
// chain is refilled the same way from DirectionBuffer, tristating
// (writing zero) when the caller hasn't supplied one.
func (c *SgpioContext) Prepopulate() {
	for i := range c.slices {
		s := &c.slices[i]
		if !s.inUse || s.chainRoot != s.letter {
			continue // only chain roots drive a refill; followers are fed by concatenation
		}
		f := s.fn
		if f == nil {
			continue
		}
		if s.isDirection {
			c.refillDirectionChain(i, f)
			continue
		}
		if !f.Mode.producesOutput() {
			continue
		}
		c.refillChain(i, s.chainLen+1, f.Buffer, &f.PositionInBuffer)
		if f.Buffer != nil {
			f.DataInBuffer = uint32(f.Buffer.Len())
		}
	}
}

// refillChain copies chainLen native words out of buf into both the
// data and shadow registers of the chain rooted at slice index root,
// high slice first, matching the order the shift hardware drains a
// concatenated chain. Each word is built from 4 bytes read off buf
// (oldest byte in the most significant position, so the first byte
// dequeued is the first bit shifted out), and buf's own read cursor
// becomes position_in_buffer once the whole chain is primed.
func (c *SgpioContext) refillChain(root, chainLen int, buf *ringbuffer.RingBuffer, posField *uint32) {
	if buf == nil {
		return
	}
	for i := chainLen - 1; i >= 0; i-- {
		idx := (root + i) % 16
		var word uint32
		for b := 0; b < nativeSliceBytes; b++ {
			v, ok := buf.Dequeue()
			if !ok {
				break
			}
			word = word<<8 | uint32(v)
		}
		c.regs.OutReg[idx].Set(word)
		c.regs.ShadowReg[idx].Set(word)
	}
	*posField = buf.Position()
}

// refillDirectionChain primes a bidirectional function's direction
// slice the same way refillChain primes a data chain, but from
// DirectionBuffer and tristated (all zero) when the caller hasn't
// supplied one.
func (c *SgpioContext) refillDirectionChain(root int, f *Function) {
	idx := root
	if f.DirectionBuffer == nil {
		c.regs.OutReg[idx].Set(0)
		c.regs.ShadowReg[idx].Set(0)
		return
	}
	c.refillChain(root, 1, f.DirectionBuffer, &f.PositionInBuffer)
}

// CaptureRemaining reads back the residual bytes left shifted-in but
// not yet handed to software, for every chain whose function consumes
// input (STREAM_IN, BIDIRECTIONAL), and is called automatically by
// Halt.
//
// A chain only yields a well-defined residual when it stopped itself:
// shift_count_limit programmed the stop-on-swap bit and the chain's
// Count register has already run out. In that case the exact number
// of valid bytes is (shift_count_limit*bus_width)/8, and each one is
// extracted from the shadow register at slice_in_chain = byte/4,
// byte_within_slice = 3-(byte mod 4) — the same big-endian-within-word
// layout refillChain writes on the way out.
//
// When halting is caller-initiated instead (no shift_count_limit, or
// one that hasn't yet been reached), the in-flight partial word at the
// moment of halt is not captured: the slice's Count register would
// need to be cross-referenced against Pos to compute a partial-word
// byte count, and this driver's data model doesn't otherwise need that
// reconciliation. This is a known, deliberate gap rather than
// something silently patched over here.
func (c *SgpioContext) CaptureRemaining() {
	for i := range c.slices {
		s := &c.slices[i]
		if !s.inUse || s.chainRoot != s.letter || s.isDirection {
			continue
		}
		f := s.fn
		if f == nil || s.letter != f.IOSlice || !f.Mode.consumesInput() {
			continue // a clock-output slice is not the function's data chain
		}
		terminatedByShiftLimit := f.ShiftCountLimit != 0 &&
			s.shiftsPerBufferSwap == 0 &&
			c.regs.Count[i].Get() == 0
		if !terminatedByShiftLimit {
			continue // manual halt: see the no-partial-capture note above
		}
		totalBytes := int((f.ShiftCountLimit * uint32(f.BusWidth)) / 8)
		for b := 0; b < totalBytes; b++ {
			sliceInChain := b / nativeSliceBytes
			byteWithinSlice := 3 - (b % nativeSliceBytes)
			idx := (i + sliceInChain) % 16
			word := c.regs.ShadowReg[idx].Get()
			value := byte(word >> uint(byteWithinSlice*8))
			if f.Buffer != nil {
				f.Buffer.EnqueueOverwrite(value)
			}
		}
		if f.Buffer != nil {
			f.PositionInBuffer = f.Buffer.Position()
			f.DataInBuffer = uint32(f.Buffer.Len())
		}
	}
}
