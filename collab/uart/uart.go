// Package uart is the concrete UART collaborator: a thin wrapper over
// github.com/jangala-dev/tinygo-uartx's UART driver, feeding and
// draining a ringbuffer.RingBuffer so the rest of the module never
// touches the peripheral directly. UART sits outside SGPIO's core
// scope (interface-only per the scope table), but this is the one
// concrete leaf: it is what collab/timer, collab/dac and
// collab/ethernet are thin stand-ins for.
package uart

import (
	"github.com/jangala-dev/tinygo-uartx/uartx"

	"github.com/lpc43xx/sgpio/ringbuffer"
	"github.com/lpc43xx/sgpio/sgpioerr"
)

// Parity mirrors uartx.UARTParity so callers of this package do not
// need to import uartx directly.
type Parity int

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

func (p Parity) uartx() uartx.UARTParity {
	switch p {
	case ParityEven:
		return uartx.ParityEven
	case ParityOdd:
		return uartx.ParityOdd
	default:
		return uartx.ParityNone
	}
}

// Config describes how to bring a port up.
type Config struct {
	BaudRate uint32
	Parity   Parity
	RxBuf    int // ring buffer capacity, power of two
	TxBuf    int
}

// Port wraps one hardware UART plus its software ring buffers.
type Port struct {
	hw *uartx.UART
	rx *ringbuffer.RingBuffer
	tx *ringbuffer.RingBuffer
}

// Open brings hw up per cfg. Following
// jangala-dev-devicecode-go/services/hal/internal/provider/rp2_resources.go
// and factories_rp2xxx.go, buffers are allocated and the driver is
// configured before the receive-data interrupt is enabled — enabling
// it any earlier risks servicing a byte into buffers that are not
// wired up yet.
func Open(hw *uartx.UART, cfg Config) (*Port, error) {
	if cfg.RxBuf <= 0 || cfg.TxBuf <= 0 {
		return nil, sgpioerr.New("uart.Open", sgpioerr.InvalidArgument, nil)
	}

	p := &Port{
		hw: hw,
		rx: ringbuffer.New(cfg.RxBuf),
		tx: ringbuffer.New(cfg.TxBuf),
	}

	// Reject up front any rate the fractional baud-rate generator cannot
	// approach within tolerance; hw.Configure derives its own divisor
	// internally but does not surface how close it can get.
	if _, _, err := fractionalDivisor(cfg.BaudRate); err != nil {
		return nil, sgpioerr.New("uart.Open", sgpioerr.TimingInfeasible, err)
	}

	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: cfg.BaudRate,
		Parity:   cfg.Parity.uartx(),
	}); err != nil {
		return nil, sgpioerr.New("uart.Open", sgpioerr.Unsupported, err)
	}

	// Enable RX IRQ last, after buffers and baud/parity are fully
	// programmed.
	hw.SetReceiveInterrupt(true)

	return p, nil
}

// HandleRxInterrupt is the ISR-side half: drains whatever the hardware
// FIFO holds into the ring buffer, overwriting the oldest unread byte
// if software has fallen behind rather than blocking in interrupt
// context.
func (p *Port) HandleRxInterrupt() {
	for p.hw.RxAvailable() {
		p.rx.EnqueueOverwrite(p.hw.ReadByte())
	}
}

// ReadByte drains one byte queued by HandleRxInterrupt.
func (p *Port) ReadByte() (byte, bool) {
	return p.rx.Dequeue()
}

// WriteByte queues one byte for transmission. ok is false if the
// transmit ring buffer is full.
func (p *Port) WriteByte(b byte) bool {
	return p.tx.Enqueue(b)
}

// Flush pushes queued transmit bytes into the hardware FIFO until
// either the queue drains or the FIFO reports full.
func (p *Port) Flush() {
	for !p.tx.Empty() && p.hw.TxReady() {
		b, ok := p.tx.Dequeue()
		if !ok {
			return
		}
		p.hw.WriteByte(b)
	}
}

// fractionalDivisor searches the full (mul, div) space the UART's
// fractional baud-rate generator supports (div in [1,15], mul in
// [1,15), mul < div as the datasheet requires) for the combination
// that gets closest to targetBaud, returning an error if nothing comes
// within 3% — an exhaustive brute force rather than a closed-form
// solve, since the achievable-rate function is not monotonic in either
// parameter.
func fractionalDivisor(targetBaud uint32) (mul, div uint8, err error) {
	if targetBaud == 0 {
		return 0, 0, sgpioerr.New("uart.fractionalDivisor", sgpioerr.InvalidArgument, nil)
	}
	bestErrPermille := int64(-1)
	var bestMul, bestDiv uint8
	for d := uint8(1); d <= 15; d++ {
		for m := uint8(1); m < d; m++ {
			// Achieved rate scales by div/(div+mul) of the nominal rate
			// the integer divisor alone would produce; modeled here in
			// relative (permille) terms since the integer divisor
			// itself is chosen by the caller's clock source, not this
			// function.
			scalePermille := int64(d) * 1000 / int64(d+m)
			errPermille := scalePermille - 1000
			if errPermille < 0 {
				errPermille = -errPermille
			}
			if bestErrPermille == -1 || errPermille < bestErrPermille {
				bestErrPermille, bestMul, bestDiv = errPermille, m, d
			}
		}
	}
	if bestErrPermille > 30 {
		return 0, 0, sgpioerr.New("uart.fractionalDivisor", sgpioerr.TimingInfeasible, nil)
	}
	return bestMul, bestDiv, nil
}
