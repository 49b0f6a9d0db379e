package clockgraph

import (
	"testing"

	"github.com/lpc43xx/sgpio/internal/lpcregs"
)

func newTestGraph() *Graph {
	lpcregs.ResetSimRegisters()
	return New(12_000_000, nil)
}

func TestDefaultSourceIsIRC(t *testing.T) {
	g := newTestGraph()
	if g.PrimarySource() != SourceIRC {
		t.Fatalf("PrimarySource() = %v, want SourceIRC", g.PrimarySource())
	}
}

func TestSelectBaseSourceXtal(t *testing.T) {
	g := newTestGraph()
	if err := g.SelectBaseSource(BaseSGPIO, SourceXtal); err != nil {
		t.Fatalf("SelectBaseSource: %v", err)
	}
	hz, err := g.GetBaseFrequency(BaseSGPIO)
	if err != nil {
		t.Fatalf("GetBaseFrequency: %v", err)
	}
	if hz != 12_000_000 {
		t.Fatalf("GetBaseFrequency() = %d, want 12000000", hz)
	}
}

func TestEnableBranchDivides(t *testing.T) {
	g := newTestGraph()
	if err := g.SelectBaseSource(BaseSGPIO, SourceXtal); err != nil {
		t.Fatal(err)
	}
	if err := g.EnableBase(BaseSGPIO); err != nil {
		t.Fatal(err)
	}
	if err := g.EnableBranch(BranchSGPIO, BaseSGPIO, 4); err != nil {
		t.Fatal(err)
	}
	hz, err := g.GetBranchFrequency(BranchSGPIO)
	if err != nil {
		t.Fatal(err)
	}
	if hz != 3_000_000 {
		t.Fatalf("GetBranchFrequency() = %d, want 3000000", hz)
	}
}

func TestEnableBranchRejectsBadDivisor(t *testing.T) {
	g := newTestGraph()
	if err := g.EnableBranch(BranchSGPIO, BaseSGPIO, 3); err == nil {
		t.Fatal("expected an error for a non power-of-two divisor")
	}
}

func TestDisableBaseIfUnusedKeepsBaseOnWhileBranchActive(t *testing.T) {
	g := newTestGraph()
	_ = g.EnableBase(BaseSGPIO)
	_ = g.EnableBranch(BranchSGPIO, BaseSGPIO, 1)
	if err := g.DisableBaseIfUnused(BaseSGPIO); err != nil {
		t.Fatal(err)
	}
	if !g.bases[BaseSGPIO].on {
		t.Fatal("expected base to remain on while an enabled branch still depends on it")
	}
}

func TestDisableBaseIfUnusedPowersDownWhenNoBranchDepends(t *testing.T) {
	g := newTestGraph()
	_ = g.EnableBase(BaseSGPIO)
	if err := g.DisableBaseIfUnused(BaseSGPIO); err != nil {
		t.Fatal(err)
	}
	if g.bases[BaseSGPIO].on {
		t.Fatal("expected base to power down when no branch depends on it")
	}
}

func TestBringUpPLLInfeasibleTarget(t *testing.T) {
	g := newTestGraph()
	if err := g.BringUpPLL(SourcePLL1, 0); err == nil {
		t.Fatal("expected an error for a zero target frequency")
	}
}

func TestBringUpPLLRejectsNonPLLSource(t *testing.T) {
	g := newTestGraph()
	if err := g.BringUpPLL(SourceXtal, 100_000_000); err == nil {
		t.Fatal("expected an error for a non-PLL source")
	}
}

func TestFrequenciesSnapshotIncludesXtalAndIRC(t *testing.T) {
	g := newTestGraph()
	freqs := g.Frequencies()
	if freqs[SourceXtal] != 12_000_000 {
		t.Fatalf("Frequencies()[SourceXtal] = %d, want 12000000", freqs[SourceXtal])
	}
	if freqs[SourceIRC] != IRCFrequencyHz {
		t.Fatalf("Frequencies()[SourceIRC] = %d, want %d", freqs[SourceIRC], IRCFrequencyHz)
	}
}
