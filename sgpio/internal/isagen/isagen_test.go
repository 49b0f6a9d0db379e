package isagen

import "testing"

func TestNeedsISR(t *testing.T) {
	if NeedsISR([]ChainSpec{{RootSlice: 'A', ChainLen: 1}}) {
		t.Fatal("a single native-width chain should not need an ISR")
	}
	if !NeedsISR([]ChainSpec{{RootSlice: 'A', ChainLen: 2}}) {
		t.Fatal("a two-slice chain should need an ISR")
	}
}

func TestGenerateRejectsEmpty(t *testing.T) {
	if _, err := Generate(nil); err == nil {
		t.Fatal("expected an error for an empty chain list")
	}
}

func TestGenerateRejectsSecondChain(t *testing.T) {
	_, err := Generate([]ChainSpec{
		{RootSlice: 'A', ChainLen: 2},
		{RootSlice: 'I', ChainLen: 2},
	})
	if err == nil {
		t.Fatal("expected an error for a second ISR-requiring chain in one context")
	}
}

func TestGenerateRejectsOversizedChain(t *testing.T) {
	if _, err := Generate([]ChainSpec{{RootSlice: 'A', ChainLen: 9}}); err == nil {
		t.Fatal("expected an error for a chain longer than the 8-slice maximum")
	}
}

func TestGenerateProducesNonEmptyCodeWithinBudget(t *testing.T) {
	code, err := Generate([]ChainSpec{{RootSlice: 'A', ChainLen: 2, Direction: DirStreamIn}})
	if err != nil {
		t.Fatal(err)
	}
	if len(code) == 0 {
		t.Fatal("expected non-empty generated code")
	}
	if len(code) > MaxInstructions {
		t.Fatalf("generated %d instructions, exceeds MaxInstructions %d", len(code), MaxInstructions)
	}
}

func TestGenerateDeeperChainProducesMoreCode(t *testing.T) {
	shallow, err := Generate([]ChainSpec{{RootSlice: 'A', ChainLen: 2, Direction: DirStreamIn}})
	if err != nil {
		t.Fatal(err)
	}
	deep, err := Generate([]ChainSpec{{RootSlice: 'A', ChainLen: 4, Direction: DirStreamIn}})
	if err != nil {
		t.Fatal(err)
	}
	if len(deep) <= len(shallow) {
		t.Fatalf("expected a 4-slice chain (%d instrs) to produce more code than a 2-slice chain (%d instrs)", len(deep), len(shallow))
	}
}

func TestGenerateEmitsLoadStorePairPerSlice(t *testing.T) {
	code, err := Generate([]ChainSpec{{RootSlice: 'A', ChainLen: 3, Direction: DirOut}})
	if err != nil {
		t.Fatal(err)
	}
	var loads, stores int
	for _, w := range code {
		switch w & 0xF800 {
		case thumbLDRImm:
			loads++
		case thumbSTRImm:
			stores++
		}
	}
	// 3 chain slices contribute 3 ldr/str pairs; the position-advance
	// sequence contributes one more store.
	if loads < 3 || stores < 3 {
		t.Fatalf("expected at least 3 ldr/str pairs for a 3-slice chain, got loads=%d stores=%d", loads, stores)
	}
}

func TestEncodersStayWithin16Bits(t *testing.T) {
	// Every Thumb instruction word in this template is 16 bits; the
	// encoders must never set a bit above that regardless of input.
	got := encLDRImm(0xff, 0xff, 0xff)
	if got > 0xffff {
		t.Fatalf("encLDRImm overflowed 16 bits: %#x", got)
	}
}
