// Package dac is an interface-only stand-in for the LPC43xx DAC: the
// concrete peripheral driver lives elsewhere, present only so other
// packages can name "a DAC" without importing a concrete chip driver.
package dac

// Output is the minimal surface a collaborator needs: write one sample.
type Output interface {
	WriteSample(value uint16) error
}
