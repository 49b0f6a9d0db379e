// Package lpcregs is the register façade: bit-exact memory-mapped
// structures for the SGPIO, CGU, CCU, NVIC and SCU blocks plus a thin
// UART shell for collab/uart. Timer, DAC, RGU and WWDT have base
// addresses here but no register structs; Ethernet has neither.
// Every named offset is asserted at compile
// time against the part's documented register layout; accesses go
// through Reg32 so callers never get coalesced or reordered
// reads/writes.
package lpcregs

import "unsafe"

// Base addresses for each peripheral's register block.
const (
	SGPIOBase  = 0x40101000
	CGUBase    = 0x40050000
	CCUBase    = 0x40051000
	NVICBase   = 0xE000E100
	SCBBase    = 0xE000ED00
	SCUBase    = 0x40086000
	RGUBase    = 0x40053000
	WWDTBase   = 0x40080000
	DACBase    = 0x400E1000
	Timer0Base = 0x40084000
	Timer1Base = 0x40085000
	Timer2Base = 0x400C3000
	Timer3Base = 0x400C4000
	USART0Base = 0x40081000
	USART1Base = 0x40082000
	USART2Base = 0x400C1000
	USART3Base = 0x400C2000
)

// The offset-assertion vars below follow a standard zero-cost idiom: for
// a matching pair of array types [got-want]byte and [want-got]byte,
// exactly one of the two lengths is a negative constant expression
// whenever got != want, which Go refuses to compile (the uintptr
// constant overflows). When the offsets agree both arrays are length zero and
// occupy no storage.

// SGPIORegs is the SGPIO peripheral's register block (base SGPIOBase).
//
// Layout, byte offsets from SGPIOBase:
//
//	0x000  RW  slice data registers          (16, one per slice A..P)
//	0x040  RW  slice shadow registers         (16)
//	0x080  RW  slice cycles-per-shift preset  (16)
//	0x0c0  RW  slice cycle_count              (16)
//	0x100  RW  slice swap-position (packed: shifts_per_buffer_swap | shifts_remaining | stop-on-swap)
//	0x140  RW  slice qualifier pattern mask   (16)
//	0x180  RW  slice shift-config             (16; clock src/edge, qualifier, concat, parallel mode)
//	0x1c0  RW  per-pin mux config             (16; output-bus mode, direction source)
//	0x200  RW  per-pin output/clock-out config (8)
//	0x220  RW  shift-clock enable bitmask     (1 bit per slice)
//	0xF00  RW1C exchange-interrupt status     (1 bit per slice)
//	0xF20  RW  exchange-interrupt-required mask (swap_irqs_required)
//	0xF60  RW  SGPIO top-level IRQ gate
type SGPIORegs struct {
	OutReg        [16]Reg32
	ShadowReg     [16]Reg32
	Preset        [16]Reg32
	Count         [16]Reg32
	Pos           [16]Reg32
	Mask          [16]Reg32
	SliceMuxCfg   [16]Reg32
	PinMuxCfg     [16]Reg32
	PinOutMuxCfg  [8]Reg32
	ShiftClockEn  Reg32
	_reserved1    [0xF00 - 0x224]byte
	ExchangeStat  Reg32
	_reserved2    [0xF20 - 0xF04]byte
	ExchangeIEn   Reg32
	_reserved3    [0xF60 - 0xF24]byte
	IRQGate       Reg32
}

var (
	_ [unsafe.Offsetof(SGPIORegs{}.ShadowReg) - 0x040]byte
	_ [0x040 - unsafe.Offsetof(SGPIORegs{}.ShadowReg)]byte
	_ [unsafe.Offsetof(SGPIORegs{}.Preset) - 0x080]byte
	_ [0x080 - unsafe.Offsetof(SGPIORegs{}.Preset)]byte
	_ [unsafe.Offsetof(SGPIORegs{}.Count) - 0x0c0]byte
	_ [0x0c0 - unsafe.Offsetof(SGPIORegs{}.Count)]byte
	_ [unsafe.Offsetof(SGPIORegs{}.Pos) - 0x100]byte
	_ [0x100 - unsafe.Offsetof(SGPIORegs{}.Pos)]byte
	_ [unsafe.Offsetof(SGPIORegs{}.Mask) - 0x140]byte
	_ [0x140 - unsafe.Offsetof(SGPIORegs{}.Mask)]byte
	_ [unsafe.Offsetof(SGPIORegs{}.SliceMuxCfg) - 0x180]byte
	_ [0x180 - unsafe.Offsetof(SGPIORegs{}.SliceMuxCfg)]byte
	_ [unsafe.Offsetof(SGPIORegs{}.PinMuxCfg) - 0x1c0]byte
	_ [0x1c0 - unsafe.Offsetof(SGPIORegs{}.PinMuxCfg)]byte
	_ [unsafe.Offsetof(SGPIORegs{}.PinOutMuxCfg) - 0x200]byte
	_ [0x200 - unsafe.Offsetof(SGPIORegs{}.PinOutMuxCfg)]byte
	_ [unsafe.Offsetof(SGPIORegs{}.ShiftClockEn) - 0x220]byte
	_ [0x220 - unsafe.Offsetof(SGPIORegs{}.ShiftClockEn)]byte
	_ [unsafe.Offsetof(SGPIORegs{}.ExchangeStat) - 0xF00]byte
	_ [0xF00 - unsafe.Offsetof(SGPIORegs{}.ExchangeStat)]byte
	_ [unsafe.Offsetof(SGPIORegs{}.ExchangeIEn) - 0xF20]byte
	_ [0xF20 - unsafe.Offsetof(SGPIORegs{}.ExchangeIEn)]byte
	_ [unsafe.Offsetof(SGPIORegs{}.IRQGate) - 0xF60]byte
	_ [0xF60 - unsafe.Offsetof(SGPIORegs{}.IRQGate)]byte
)

// CGURegs is the Clock Generation Unit register block (base CGUBase).
//
//	0x14  PLL0USB status/control
//	0x18  PLL0AUDIO status/control
//	0x1c  PLL1 (main) status/control
//	0x2c  Integer divider A control
//	0x40  Base clock select: USB0
//	0x48  Base clock select: generic peripheral bus
//	0xc0  Base clock select: SGPIO branch's parent base
type CGURegs struct {
	_reserved0  [0x14]byte
	PLL0USBStat Reg32
	PLL0AudStat Reg32
	PLL1Stat    Reg32
	_reserved1  [0x2c - 0x20]byte
	IDivACtrl   Reg32
	_reserved2  [0x40 - 0x30]byte
	BaseUSB0    Reg32
	_reserved3  [0x48 - 0x44]byte
	BasePeriph  Reg32
	_reserved4  [0xc0 - 0x4c]byte
	BaseSGPIO   Reg32
}

var (
	_ [unsafe.Offsetof(CGURegs{}.PLL0USBStat) - 0x14]byte
	_ [0x14 - unsafe.Offsetof(CGURegs{}.PLL0USBStat)]byte
	_ [unsafe.Offsetof(CGURegs{}.PLL0AudStat) - 0x18]byte
	_ [0x18 - unsafe.Offsetof(CGURegs{}.PLL0AudStat)]byte
	_ [unsafe.Offsetof(CGURegs{}.PLL1Stat) - 0x1c]byte
	_ [0x1c - unsafe.Offsetof(CGURegs{}.PLL1Stat)]byte
	_ [unsafe.Offsetof(CGURegs{}.IDivACtrl) - 0x2c]byte
	_ [0x2c - unsafe.Offsetof(CGURegs{}.IDivACtrl)]byte
	_ [unsafe.Offsetof(CGURegs{}.BaseUSB0) - 0x40]byte
	_ [0x40 - unsafe.Offsetof(CGURegs{}.BaseUSB0)]byte
	_ [unsafe.Offsetof(CGURegs{}.BasePeriph) - 0x48]byte
	_ [0x48 - unsafe.Offsetof(CGURegs{}.BasePeriph)]byte
	_ [unsafe.Offsetof(CGURegs{}.BaseSGPIO) - 0xc0]byte
	_ [0xc0 - unsafe.Offsetof(CGURegs{}.BaseSGPIO)]byte
)

// CCURegs is the Clock Control Unit register block (base CCUBase): one
// branch-clock config register per listed offset. The last (0x1000) is
// the SGPIO peripheral's own branch clock, the one the planner divides
// down for a LOCAL shift-clock source.
type CCURegs struct {
	_reservedHead [0x0100]byte
	Branch0    Reg32
	_reserved0 [0x0200 - 0x0104]byte
	Branch1    Reg32
	_reserved1 [0x0300 - 0x0204]byte
	Branch2    Reg32
	_reserved2 [0x0400 - 0x0304]byte
	Branch3    Reg32
	_reserved3 [0x0448 - 0x0404]byte
	Branch4    Reg32
	_reserved4 [0x0468 - 0x044c]byte
	Branch5    Reg32
	_reserved5 [0x0500 - 0x046c]byte
	Branch6    Reg32
	_reserved6 [0x0600 - 0x0504]byte
	Branch7    Reg32
	_reserved7 [0x0700 - 0x0604]byte
	Branch8    Reg32
	_reserved8 [0x0800 - 0x0704]byte
	Branch9    Reg32
	_reserved9 [0x0900 - 0x0804]byte
	Branch10   Reg32
	_reservedA [0x0A00 - 0x0904]byte
	Branch11   Reg32
	_reservedB [0x1000 - 0x0A04]byte
	BranchSGPIO Reg32
}

var (
	_ [unsafe.Offsetof(CCURegs{}.Branch0) - 0x0100]byte
	_ [0x0100 - unsafe.Offsetof(CCURegs{}.Branch0)]byte
	_ [unsafe.Offsetof(CCURegs{}.Branch1) - 0x0200]byte
	_ [0x0200 - unsafe.Offsetof(CCURegs{}.Branch1)]byte
	_ [unsafe.Offsetof(CCURegs{}.Branch2) - 0x0300]byte
	_ [0x0300 - unsafe.Offsetof(CCURegs{}.Branch2)]byte
	_ [unsafe.Offsetof(CCURegs{}.Branch3) - 0x0400]byte
	_ [0x0400 - unsafe.Offsetof(CCURegs{}.Branch3)]byte
	_ [unsafe.Offsetof(CCURegs{}.Branch4) - 0x0448]byte
	_ [0x0448 - unsafe.Offsetof(CCURegs{}.Branch4)]byte
	_ [unsafe.Offsetof(CCURegs{}.Branch5) - 0x0468]byte
	_ [0x0468 - unsafe.Offsetof(CCURegs{}.Branch5)]byte
	_ [unsafe.Offsetof(CCURegs{}.Branch6) - 0x0500]byte
	_ [0x0500 - unsafe.Offsetof(CCURegs{}.Branch6)]byte
	_ [unsafe.Offsetof(CCURegs{}.Branch7) - 0x0600]byte
	_ [0x0600 - unsafe.Offsetof(CCURegs{}.Branch7)]byte
	_ [unsafe.Offsetof(CCURegs{}.Branch8) - 0x0700]byte
	_ [0x0700 - unsafe.Offsetof(CCURegs{}.Branch8)]byte
	_ [unsafe.Offsetof(CCURegs{}.Branch9) - 0x0800]byte
	_ [0x0800 - unsafe.Offsetof(CCURegs{}.Branch9)]byte
	_ [unsafe.Offsetof(CCURegs{}.Branch10) - 0x0900]byte
	_ [0x0900 - unsafe.Offsetof(CCURegs{}.Branch10)]byte
	_ [unsafe.Offsetof(CCURegs{}.Branch11) - 0x0A00]byte
	_ [0x0A00 - unsafe.Offsetof(CCURegs{}.Branch11)]byte
	_ [unsafe.Offsetof(CCURegs{}.BranchSGPIO) - 0x1000]byte
	_ [0x1000 - unsafe.Offsetof(CCURegs{}.BranchSGPIO)]byte
)

// NVICRegs is the Nested Vectored Interrupt Controller register block
// (base NVICBase).
//
//	0x080  Interrupt Set-Enable
//	0x100  Interrupt Clear-Enable
//	0x180  Interrupt Set-Pending
//	0x200  Interrupt Clear-Pending
//	0x300  Interrupt Priority (one byte per IRQ, modeled word-wise)
//	0xe00  Software Trigger Interrupt Register
type NVICRegs struct {
	_reserved0 [0x080]byte
	ISER       [8]Reg32
	_reserved1 [0x100 - 0x080 - 8*4]byte
	ICER       [8]Reg32
	_reserved2 [0x180 - 0x100 - 8*4]byte
	ISPR       [8]Reg32
	_reserved3 [0x200 - 0x180 - 8*4]byte
	ICPR       [8]Reg32
	_reserved4 [0x300 - 0x200 - 8*4]byte
	IPR        [60]Reg32
	_reserved5 [0xe00 - 0x300 - 60*4]byte
	STIR       Reg32
}

var (
	_ [unsafe.Offsetof(NVICRegs{}.ISER) - 0x080]byte
	_ [0x080 - unsafe.Offsetof(NVICRegs{}.ISER)]byte
	_ [unsafe.Offsetof(NVICRegs{}.ICER) - 0x100]byte
	_ [0x100 - unsafe.Offsetof(NVICRegs{}.ICER)]byte
	_ [unsafe.Offsetof(NVICRegs{}.ISPR) - 0x180]byte
	_ [0x180 - unsafe.Offsetof(NVICRegs{}.ISPR)]byte
	_ [unsafe.Offsetof(NVICRegs{}.ICPR) - 0x200]byte
	_ [0x200 - unsafe.Offsetof(NVICRegs{}.ICPR)]byte
	_ [unsafe.Offsetof(NVICRegs{}.IPR) - 0x300]byte
	_ [0x300 - unsafe.Offsetof(NVICRegs{}.IPR)]byte
	_ [unsafe.Offsetof(NVICRegs{}.STIR) - 0xe00]byte
	_ [0xe00 - unsafe.Offsetof(NVICRegs{}.STIR)]byte
)
