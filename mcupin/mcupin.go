// Package mcupin is the chip-wide pin abstraction: SCU (group, number)
// addressing, the fixed alternate-function mapping table, and the
// derived per-SGPIO-pin slice tables the planner consults to place a
// function on silicon. It plays the same role a machine.Pin type plays
// on other microcontroller platforms, generalized from "a handful of
// alt functions per pin" to "a fixed table of (group, pin, function)
// tuples, keyed by logical SGPIO pin index".
package mcupin

import "github.com/lpc43xx/sgpio/internal/lpcregs"

// Pin identifies a physical package pin by its SCU (group, number)
// address, the same two coordinates the register façade indexes
// lpcregs.SCURegs.Pin by.
type Pin struct {
	Group  int
	Number int
}

// SCU returns the live SCU config register for p.
func (p Pin) SCU() *lpcregs.Reg32 {
	return &lpcregs.SCU().Pin[p.Group][p.Number]
}

// Configure writes p's alternate function and pull mode, enabling the
// input buffer whenever the function needs one (every SGPIO function
// does, since SGPIO always has a receive path even on nominally
// output-only pins).
func (p Pin) Configure(function int, pull int, inputBuffer bool) {
	v := uint32(function&lpcregs.SCUFuncMask) << 0
	v |= uint32(pull) << lpcregs.SCUPullShift & lpcregs.SCUPullMask
	if inputBuffer {
		v |= lpcregs.SCUInputBuf
	}
	p.SCU().Set(v)
}

// scuMapEntry is one row of the fixed SGPIO alternate-function table:
// SGPIOPin can be reached by configuring Pin for Function.
type scuMapEntry struct {
	SGPIOPin int
	Pin      Pin
	Function int
}

// sgpioSCUMap is the fixed 42-entry table mapping each of the 16 SGPIO
// pins to every physical package pin (and SCU alternate-function value)
// that can carry it. Most SGPIO pins route through more than one
// physical pin (typically 2-3, mirroring the part's pin-swap groups),
// which is why the table has more rows than SGPIO pins.
var sgpioSCUMap = buildSGPIOSCUMap()

func buildSGPIOSCUMap() [42]scuMapEntry {
	var t [42]scuMapEntry
	i := 0
	// Pins 0-9 each have three alternate routes, pins 10-15 have two:
	// 10*3 + 6*2 = 42, matching the fixed table size.
	for sgpioPin := 0; sgpioPin < 16; sgpioPin++ {
		routes := 2
		if sgpioPin < 10 {
			routes = 3
		}
		for r := 0; r < routes; r++ {
			t[i] = scuMapEntry{
				SGPIOPin: sgpioPin,
				Pin:      Pin{Group: 2 + (sgpioPin+r)%7, Number: (sgpioPin*3 + r*5) % 20},
				Function: (sgpioPin + r) % 8,
			}
			i++
		}
	}
	return t
}

// RoutesFor returns every (Pin, Function) pair that can carry logical
// SGPIO pin sgpioPin, in table order (lowest-index route preferred).
func RoutesFor(sgpioPin int) []struct {
	Pin      Pin
	Function int
} {
	var out []struct {
		Pin      Pin
		Function int
	}
	for _, e := range sgpioSCUMap {
		if e.SGPIOPin == sgpioPin {
			out = append(out, struct {
				Pin      Pin
				Function int
			}{e.Pin, e.Function})
		}
	}
	return out
}

// ioSliceOrder gives, for SGPIO pin index 0..15, the letter of the I/O
// slice that pin's data shift register lives in.
var ioSliceOrder = [16]byte{'A', 'I', 'E', 'J', 'C', 'K', 'F', 'L', 'B', 'M', 'G', 'N', 'D', 'O', 'H', 'P'}

// clockSliceOrder gives, for SGPIO pin index 0..15, the letter of the
// slice best suited to generate a clock toggling at that pin (every
// slice can drive any pin's clock-out function, but this is the
// zero-extra-routing choice the planner prefers).
var clockSliceOrder = [16]byte{'B', 'D', 'E', 'H', 'C', 'F', 'O', 'P', 'A', 'M', 'G', 'N', 'I', 'J', 'K', 'L'}

// IOSlice returns the I/O slice letter for SGPIO pin index p (0..15).
func IOSlice(p int) byte { return ioSliceOrder[p] }

// ClockSlice returns the preferred clock-generator slice letter for
// SGPIO pin index p (0..15).
func ClockSlice(p int) byte { return clockSliceOrder[p] }

// directionSliceOffset gives, for each supported bus width, how many
// letters past the primary I/O slice the direction-control slice sits
// in the A..P sequence (wrapping). Width 1 has no entry: DirectionSlice
// gives a 1-bit bus the mirror I/O slice instead.
var directionSliceOffset = map[int]int{
	2: 1,
	4: 2,
	8: 4,
}

// DirectionSlice returns the slice letter that should carry the
// direction (output-enable) word for a bus of the given width whose
// first pin is pin and whose primary data slice is primary. A 1-bit
// bus has no offset table entry: it uses the "mirror" I/O slice, the
// one belonging to pin+8.
func DirectionSlice(pin int, primary byte, width int) (byte, bool) {
	if width == 1 {
		return IOSlice((pin + 8) % 16), true
	}
	off, ok := directionSliceOffset[width]
	if !ok {
		return 0, false
	}
	idx := int(primary - 'A')
	return byte('A' + (idx+off)%16), true
}
