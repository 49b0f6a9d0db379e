// Package irqctl wraps the NVIC register block and owns the one shared
// vector table a Cortex-M4 image has. Handler installation is only
// permitted while the target IRQ is disabled — enforced here, not just
// documented — the same claim/unclaim ownership discipline applied to
// IRQ lines instead of state-machine resources.
package irqctl

import (
	"github.com/lpc43xx/sgpio/internal/lpcregs"
	"github.com/lpc43xx/sgpio/sgpioerr"
)

// NumIRQs bounds the vector table this controller manages (matches the
// NVICRegs register arrays: 8 words x 32 bits).
const NumIRQs = 8 * 32

// Handler is a zero-argument ISR entry point.
type Handler func()

// Controller owns the NVIC register block and the in-image vector
// table. There is exactly one NVIC on this part, so Controller is
// meant to be used as a process-wide singleton (see Default).
type Controller struct {
	nvic     *lpcregs.NVICRegs
	handlers [NumIRQs]Handler
	claimed  [NumIRQs]bool
}

// New constructs a Controller over the live NVIC register block.
func New() *Controller {
	return &Controller{nvic: lpcregs.NVIC()}
}

// Default is the process-wide controller instance. Bare-metal images
// have exactly one NVIC, so unlike clockgraph.Graph (which could in
// principle be constructed per test), most callers just use this.
var Default = New()

func wordBit(irq int) (word int, bit uint32) {
	return irq / 32, 1 << uint(irq%32)
}

// IsEnabled reports whether irq currently has interrupts unmasked.
func (c *Controller) IsEnabled(irq int) bool {
	w, b := wordBit(irq)
	return c.nvic.ISER[w].Get()&b != 0
}

// Enable unmasks irq.
func (c *Controller) Enable(irq int) error {
	if irq < 0 || irq >= NumIRQs {
		return sgpioerr.New("irqctl.Enable", sgpioerr.InvalidArgument, nil)
	}
	w, b := wordBit(irq)
	c.nvic.ISER[w].Set(b)
	return nil
}

// Disable masks irq. Handler installation requires this first.
func (c *Controller) Disable(irq int) error {
	if irq < 0 || irq >= NumIRQs {
		return sgpioerr.New("irqctl.Disable", sgpioerr.InvalidArgument, nil)
	}
	w, b := wordBit(irq)
	c.nvic.ICER[w].Set(b)
	return nil
}

// MarkPending forces irq's pending bit, useful for testing an ISR path
// without the real stimulus.
func (c *Controller) MarkPending(irq int) error {
	if irq < 0 || irq >= NumIRQs {
		return sgpioerr.New("irqctl.MarkPending", sgpioerr.InvalidArgument, nil)
	}
	w, b := wordBit(irq)
	c.nvic.ISPR[w].Set(b)
	return nil
}

// MarkServiced clears irq's pending bit, acknowledging it.
func (c *Controller) MarkServiced(irq int) error {
	if irq < 0 || irq >= NumIRQs {
		return sgpioerr.New("irqctl.MarkServiced", sgpioerr.InvalidArgument, nil)
	}
	w, b := wordBit(irq)
	c.nvic.ICPR[w].Set(b)
	return nil
}

// IsPending reports irq's pending bit.
func (c *Controller) IsPending(irq int) bool {
	w, b := wordBit(irq)
	return c.nvic.ISPR[w].Get()&b != 0
}

// SetPriority sets irq's priority (0 = highest). The real NVIC encodes
// priority one byte per IRQ; IPR here is modeled word-wise, four IRQs
// per Reg32, matching the register façade.
func (c *Controller) SetPriority(irq int, priority uint8) error {
	if irq < 0 || irq >= NumIRQs {
		return sgpioerr.New("irqctl.SetPriority", sgpioerr.InvalidArgument, nil)
	}
	word := irq / 4
	shift := uint8(irq%4) * 8
	c.nvic.IPR[word].ReplaceBits(uint32(priority), 0xff, shift)
	return nil
}

// SetHandler installs handler for irq. Returns a Busy error if irq is
// currently enabled — the invariant this package exists to enforce:
// you disable, then install, then (if you want it live) enable.
func (c *Controller) SetHandler(irq int, handler Handler) error {
	if irq < 0 || irq >= NumIRQs {
		return sgpioerr.New("irqctl.SetHandler", sgpioerr.InvalidArgument, nil)
	}
	if c.IsEnabled(irq) {
		return sgpioerr.New("irqctl.SetHandler", sgpioerr.Busy, nil)
	}
	c.handlers[irq] = handler
	c.claimed[irq] = handler != nil
	return nil
}

// Dispatch invokes irq's installed handler, if any. Called from the
// part's real vector table entries; a nil handler is a silent no-op
// rather than a panic, since a stray interrupt reaching here before
// SetHandler runs is a hardware race, not a programming error this
// layer should escalate.
func (c *Controller) Dispatch(irq int) {
	if irq < 0 || irq >= NumIRQs {
		return
	}
	if h := c.handlers[irq]; h != nil {
		h()
	}
}

// IsClaimed reports whether irq currently has a handler installed.
func (c *Controller) IsClaimed(irq int) bool {
	if irq < 0 || irq >= NumIRQs {
		return false
	}
	return c.claimed[irq]
}
