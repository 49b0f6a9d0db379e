//go:build !lpc43xx

package lpcregs

import "testing"

func TestSimRegisterReadWrite(t *testing.T) {
	ResetSimRegisters()
	s := SGPIO()
	s.OutReg[0].Set(0xdeadbeef)
	if got := s.OutReg[0].Get(); got != 0xdeadbeef {
		t.Fatalf("Get() = %#x, want 0xdeadbeef", got)
	}
}

func TestSimRegisterSetClearBits(t *testing.T) {
	ResetSimRegisters()
	r := &SGPIO().ShiftClockEn
	r.SetBits(0x3)
	if got := r.Get(); got != 0x3 {
		t.Fatalf("after SetBits(0x3): got %#x, want 0x3", got)
	}
	r.ClearBits(0x1)
	if got := r.Get(); got != 0x2 {
		t.Fatalf("after ClearBits(0x1): got %#x, want 0x2", got)
	}
}

func TestSimRegisterReplaceBits(t *testing.T) {
	ResetSimRegisters()
	r := &SGPIO().Pos[0]
	r.Set(0xffffffff)
	r.ReplaceBits(0x5, 0xf, 8)
	if got := r.Get(); got != 0xfffff5ff {
		t.Fatalf("ReplaceBits result = %#x, want 0xfffff5ff", got)
	}
}

func TestResetSimRegistersZeroesEverything(t *testing.T) {
	SGPIO().OutReg[0].Set(1)
	CGU().BaseSGPIO.Set(1)
	CCU().BranchSGPIO.Set(1)
	NVIC().ISER[0].Set(1)
	ResetSimRegisters()
	if SGPIO().OutReg[0].Get() != 0 || CGU().BaseSGPIO.Get() != 0 ||
		CCU().BranchSGPIO.Get() != 0 || NVIC().ISER[0].Get() != 0 {
		t.Fatal("expected ResetSimRegisters to zero every block")
	}
}

func TestDistinctSlicesDoNotAlias(t *testing.T) {
	ResetSimRegisters()
	SGPIO().OutReg[0].Set(0x11)
	SGPIO().ShadowReg[0].Set(0x22)
	if SGPIO().OutReg[0].Get() == SGPIO().ShadowReg[0].Get() {
		t.Fatal("OutReg and ShadowReg must not alias the same storage")
	}
}
