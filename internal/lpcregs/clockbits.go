package lpcregs

// Bit layout of a CGU base-clock select register (CGURegs.BaseUSB0,
// BasePeriph, BaseSGPIO). Named the way google-periph/host/bcm283x's
// clock.go names its clockCtl/clockDiv bit positions: plain constants,
// no hidden behavior — the read-modify-write sequencing lives in
// package clockgraph, not here.
const (
	BaseClkSelMask  = 0x1f // bits 4:0, clock source index
	BaseClkSelShift = 0
	BaseAutoblock   = 1 << 11 // glitch-free switch handshake enable
	BaseClkSelStat  = 1 << 23 // read-only: switch in progress
	BaseClkPowerDn  = 1 << 24 // write 1 to power the base clock down
)

// Bit layout of a CCU branch-clock config register (CCURegs.BranchN).
const (
	BranchRun      = 1 << 0 // enables the branch clock output
	BranchAuto     = 1 << 1 // auto clock-gate when peripheral idle
	BranchWakeup   = 1 << 2 // wake-up clock-gate mode
	BranchDivMask  = 0x3 << 4
	BranchDivShift = 4
	BranchDivStat  = 1 << 27 // read-only: divider change pending
	BranchClkStat  = 1 << 31 // read-only: branch clock currently running
)

// Bit layout of a CGU PLL status/control register (PLL0USBStat,
// PLL0AudStat, PLL1Stat).
const (
	PLLEnable   = 1 << 0
	PLLBypass   = 1 << 1
	PLLDirect   = 1 << 7
	PLLFBSelMask  = 0xff << 8
	PLLFBSelShift = 8
	PLLNSelMask   = 0xff << 16
	PLLNSelShift  = 16
	PLLLock     = 1 << 31 // read-only: PLL reports lock
)
