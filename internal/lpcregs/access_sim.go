//go:build !lpc43xx

package lpcregs

// Host-side register windows: plain Go structs standing in for the real
// MMIO blocks, reset to their zero value at package init like real
// hardware coming out of reset. Tests can reach these directly (e.g.
// lpcregs.SGPIO().OutReg[0].Set(...)) the same way
// google-periph/host/bcm283x's tests poke gpioMemory directly.
var (
	sgpioSim SGPIORegs
	cguSim   CGURegs
	ccuSim   CCURegs
	nvicSim  NVICRegs
	scuSim   SCURegs
	uartSim  [4]UARTRegs
)

func SGPIO() *SGPIORegs { return &sgpioSim }
func CGU() *CGURegs     { return &cguSim }
func CCU() *CCURegs     { return &ccuSim }
func NVIC() *NVICRegs   { return &nvicSim }
func SCU() *SCURegs     { return &scuSim }

// UART returns the simulated register window for USARTn, n in 0..3.
func UART(n int) *UARTRegs { return &uartSim[n] }

// ResetSimRegisters restores all simulated register windows to their
// zero value. Test-only: lets table-driven tests start each case from a
// clean reset state without reconstructing the package.
func ResetSimRegisters() {
	sgpioSim = SGPIORegs{}
	cguSim = CGURegs{}
	ccuSim = CCURegs{}
	nvicSim = NVICRegs{}
	scuSim = SCURegs{}
	uartSim = [4]UARTRegs{}
}
