//go:build lpc43xx

package lpcregs

import "unsafe"

// SGPIO returns the SGPIO register block at its fixed physical address.
func SGPIO() *SGPIORegs { return (*SGPIORegs)(unsafe.Pointer(uintptr(SGPIOBase))) }

// CGU returns the Clock Generation Unit register block.
func CGU() *CGURegs { return (*CGURegs)(unsafe.Pointer(uintptr(CGUBase))) }

// CCU returns the Clock Control Unit register block.
func CCU() *CCURegs { return (*CCURegs)(unsafe.Pointer(uintptr(CCUBase))) }

// NVIC returns the Nested Vectored Interrupt Controller register block.
func NVIC() *NVICRegs { return (*NVICRegs)(unsafe.Pointer(uintptr(NVICBase))) }

// SCU returns the System Control Unit's pin-mux register block.
func SCU() *SCURegs { return (*SCURegs)(unsafe.Pointer(uintptr(SCUBase))) }

// UART returns the USARTn register block for n in 0..3.
func UART(n int) *UARTRegs {
	bases := [4]uintptr{USART0Base, USART1Base, USART2Base, USART3Base}
	return (*UARTRegs)(unsafe.Pointer(bases[n]))
}
