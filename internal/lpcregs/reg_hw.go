//go:build lpc43xx

package lpcregs

import "runtime/volatile"

// Reg32 is a single memory-mapped 32-bit register. On the lpc43xx build
// it is runtime/volatile's Register32: every access goes through an
// explicit load/store the compiler cannot reorder or coalesce with
// neighboring accesses.
type Reg32 = volatile.Register32
