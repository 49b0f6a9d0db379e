// Package clockgraph is the Clock Graph (CGU sources, CGU base clocks,
// CCU branch clocks): PLL bring-up, base-clock source selection, branch
// enable/disable, and frequency-change propagation down to whichever
// branch feeds the SGPIO block's local shift clock. The bring-up
// sequencing (disable, reprogram, bounded-retry poll for lock, restart)
// is a bounded busy-wait in the same shape used elsewhere in this
// module for hardware handshakes that must not spin forever.
package clockgraph

import (
	"github.com/lpc43xx/sgpio/diag"
	"github.com/lpc43xx/sgpio/internal/lpcregs"
	"github.com/lpc43xx/sgpio/internal/mathx"
	"github.com/lpc43xx/sgpio/sgpioerr"
)

// SourceID names a clock source feeding the base-clock muxes.
type SourceID int

const (
	SourceXtal SourceID = iota
	SourceIRC
	SourcePLL1
	SourcePLL0USB
	SourcePLL0Audio
)

func (s SourceID) String() string {
	switch s {
	case SourceXtal:
		return "xtal"
	case SourceIRC:
		return "irc"
	case SourcePLL1:
		return "pll1"
	case SourcePLL0USB:
		return "pll0usb"
	case SourcePLL0Audio:
		return "pll0audio"
	default:
		return "unknown-source"
	}
}

// BaseID names a CGU base clock mux. Only the bases the register façade
// models are exposed; the rest of the real part's ~20 bases have no
// role in this driver's scope.
type BaseID int

const (
	BaseUSB0 BaseID = iota
	BasePeriph
	BaseSGPIO
)

// BranchID names a CCU branch clock gate.
type BranchID int

const (
	Branch0 BranchID = iota
	Branch1
	Branch2
	Branch3
	Branch4
	Branch5
	Branch6
	Branch7
	Branch8
	Branch9
	Branch10
	Branch11
	BranchSGPIO
)

// IRCFrequencyHz is the internal RC oscillator's nominal frequency: the
// fallback every base clock can always reach without a PLL.
const IRCFrequencyHz = 12_000_000

// MaxBringupAttempts bounds how many times a PLL bring-up may retry
// lock acquisition before BringUpPLL gives up with a Timeout error,
// per the bounded-retry convention borrowed from
// piolib/dma.go's push32/abort.
const MaxBringupAttempts = 8

const lockPollRetries = 50_000

type baseState struct {
	reg    *lpcregs.Reg32
	source SourceID
	hz     uint32
	on     bool
}

type branchState struct {
	reg  *lpcregs.Reg32
	base BaseID
	div  int
	on   bool
	hz   uint32 // cached base_hz/div, refreshed by propagate whenever the base changes
}

// Graph is the live clock graph: one instance wraps the CGU/CCU
// register blocks and tracks the software-side model of what is
// currently selected, since several fields (PLL target frequency,
// "unused" bookkeeping for DisableBaseIfUnused) have no hardware
// read-back.
type Graph struct {
	sink diag.Sink

	xtalHz uint32

	pllHz map[SourceID]uint32

	bases   map[BaseID]*baseState
	branches map[BranchID]*branchState

	bringupAttempts map[SourceID]int
}

// New constructs a Graph. xtalHz is the crystal frequency attached to
// the part (board-specific, so it is not a compile-time constant).
func New(xtalHz uint32, sink diag.Sink) *Graph {
	if sink == nil {
		sink = diag.Default
	}
	g := &Graph{
		sink:            sink,
		xtalHz:          xtalHz,
		pllHz:           make(map[SourceID]uint32),
		bases:           make(map[BaseID]*baseState),
		branches:        make(map[BranchID]*branchState),
		bringupAttempts: make(map[SourceID]int),
	}
	cgu := lpcregs.CGU()
	g.bases[BaseUSB0] = &baseState{reg: &cgu.BaseUSB0, source: SourceIRC}
	g.bases[BasePeriph] = &baseState{reg: &cgu.BasePeriph, source: SourceIRC}
	g.bases[BaseSGPIO] = &baseState{reg: &cgu.BaseSGPIO, source: SourceIRC}

	ccu := lpcregs.CCU()
	g.branches[Branch0] = &branchState{reg: &ccu.Branch0, base: BasePeriph}
	g.branches[Branch1] = &branchState{reg: &ccu.Branch1, base: BasePeriph}
	g.branches[Branch2] = &branchState{reg: &ccu.Branch2, base: BasePeriph}
	g.branches[Branch3] = &branchState{reg: &ccu.Branch3, base: BasePeriph}
	g.branches[Branch4] = &branchState{reg: &ccu.Branch4, base: BasePeriph}
	g.branches[Branch5] = &branchState{reg: &ccu.Branch5, base: BasePeriph}
	g.branches[Branch6] = &branchState{reg: &ccu.Branch6, base: BasePeriph}
	g.branches[Branch7] = &branchState{reg: &ccu.Branch7, base: BasePeriph}
	g.branches[Branch8] = &branchState{reg: &ccu.Branch8, base: BasePeriph}
	g.branches[Branch9] = &branchState{reg: &ccu.Branch9, base: BasePeriph}
	g.branches[Branch10] = &branchState{reg: &ccu.Branch10, base: BasePeriph}
	g.branches[Branch11] = &branchState{reg: &ccu.Branch11, base: BasePeriph}
	g.branches[BranchSGPIO] = &branchState{reg: &ccu.BranchSGPIO, base: BaseSGPIO}
	return g
}

// PrimaryInput returns the crystal source: the graph's one externally
// supplied reference, everything else is derived from it or from the
// IRC.
func (g *Graph) PrimaryInput() SourceID { return SourceXtal }

// PrimarySource returns the source currently driving BaseSGPIO, the
// base clock this driver cares most about.
func (g *Graph) PrimarySource() SourceID {
	return g.bases[BaseSGPIO].source
}

// GetSourceFrequency returns src's frequency. A PLL source reports the
// target BringUpPLL locked it to; a PLL that has not been brought up
// successfully yields an InvalidArgument error. It never starts a PLL
// itself and never substitutes the IRC.
func (g *Graph) GetSourceFrequency(src SourceID) (uint32, error) {
	switch src {
	case SourceXtal:
		return g.xtalHz, nil
	case SourceIRC:
		return IRCFrequencyHz, nil
	case SourcePLL1, SourcePLL0USB, SourcePLL0Audio:
		if hz, ok := g.pllHz[src]; ok {
			return hz, nil
		}
		return 0, sgpioerr.New("clockgraph.GetSourceFrequency", sgpioerr.InvalidArgument, nil)
	default:
		return 0, sgpioerr.New("clockgraph.GetSourceFrequency", sgpioerr.InvalidArgument, nil)
	}
}

// BringUpPLL attempts to lock src (one of the PLL sources) onto
// targetHz, retrying the M/N search and lock poll up to
// MaxBringupAttempts times before returning a Timeout error. The
// attempt count is reset only by a successful lock, so once it is
// used up later calls fail at once. It does not switch any base clock
// to the IRC; the "clockgraph.pll.fallback_rc" event is only logged.
func (g *Graph) BringUpPLL(src SourceID, targetHz uint32) error {
	if src != SourcePLL1 && src != SourcePLL0USB && src != SourcePLL0Audio {
		return sgpioerr.New("clockgraph.BringUpPLL", sgpioerr.InvalidArgument, nil)
	}
	reg := g.pllRegister(src)

	for g.bringupAttempts[src] < MaxBringupAttempts {
		g.bringupAttempts[src]++
		msel, nsel, ok := findPLLDividers(g.xtalHz, targetHz)
		if !ok {
			g.sink.Logf(diag.LevelWarn, "clockgraph.pll.infeasible", "source", src.String(), "target_hz", targetHz)
			return sgpioerr.New("clockgraph.BringUpPLL", sgpioerr.TimingInfeasible, nil)
		}

		reg.Set(0) // power down / clear while reprogramming, mirrors Init's SetEnabled(false) step
		v := (uint32(msel) << lpcregs.PLLFBSelShift) & lpcregs.PLLFBSelMask
		v |= (uint32(nsel) << lpcregs.PLLNSelShift) & lpcregs.PLLNSelMask
		v |= lpcregs.PLLEnable
		reg.Set(v)

		locked := false
		for retries := lockPollRetries; retries > 0; retries-- {
			if reg.Get()&lpcregs.PLLLock != 0 {
				locked = true
				break
			}
		}
		if locked {
			g.pllHz[src] = targetHz
			g.bringupAttempts[src] = 0
			return nil
		}
		g.sink.Logf(diag.LevelWarn, "clockgraph.pll.lock_timeout", "source", src.String(), "attempt", g.bringupAttempts[src])
	}

	g.sink.Logf(diag.LevelWarn, "clockgraph.pll.fallback_rc", "source", src.String())
	return sgpioerr.New("clockgraph.BringUpPLL", sgpioerr.Timeout, nil)
}

func (g *Graph) pllRegister(src SourceID) *lpcregs.Reg32 {
	cgu := lpcregs.CGU()
	switch src {
	case SourcePLL1:
		return &cgu.PLL1Stat
	case SourcePLL0USB:
		return &cgu.PLL0USBStat
	default:
		return &cgu.PLL0AudStat
	}
}

// findPLLDividers tries each nsel in [1,256] with msel =
// targetHz*nsel/xtalHz rounded down and clamped to [1,256], keeps the
// pair minimizing |xtalHz*msel/nsel - targetHz|, and returns ok=false
// if that best pair is not within 0.1% of targetHz.
func findPLLDividers(xtalHz, targetHz uint32) (msel, nsel int, ok bool) {
	if xtalHz == 0 || targetHz == 0 {
		return 0, 0, false
	}
	bestErr := int64(-1)
	for n := 1; n <= 256; n++ {
		m := int(mathx.Clamp(uint64(targetHz)*uint64(n)/uint64(xtalHz), 1, 256))
		got := uint32(uint64(xtalHz) * uint64(m) / uint64(n))
		diff := int64(got) - int64(targetHz)
		if diff < 0 {
			diff = -diff
		}
		if bestErr == -1 || diff < bestErr {
			bestErr, msel, nsel, ok = diff, m, n, true
		}
	}
	if ok && uint64(bestErr)*1000 > uint64(targetHz) {
		return 0, 0, false
	}
	return msel, nsel, ok
}

// SelectBaseSource points base at src. If src is a PLL that has not
// been brought up yet, callers must call BringUpPLL first;
// SelectBaseSource itself never blocks.
func (g *Graph) SelectBaseSource(base BaseID, src SourceID) error {
	b, ok := g.bases[base]
	if !ok {
		return sgpioerr.New("clockgraph.SelectBaseSource", sgpioerr.InvalidArgument, nil)
	}
	hz, err := g.GetSourceFrequency(src)
	if err != nil {
		return err
	}
	b.reg.ReplaceBits(uint32(src), lpcregs.BaseClkSelMask, lpcregs.BaseClkSelShift)
	b.source = src
	b.hz = hz
	g.propagate(base)
	return nil
}

// EnableBase powers base up.
func (g *Graph) EnableBase(base BaseID) error {
	b, ok := g.bases[base]
	if !ok {
		return sgpioerr.New("clockgraph.EnableBase", sgpioerr.InvalidArgument, nil)
	}
	b.reg.ClearBits(lpcregs.BaseClkPowerDn)
	b.on = true
	return nil
}

// DisableBaseIfUnused powers base down, but only if no enabled branch
// still depends on it — callers do not have to track fan-out
// themselves.
func (g *Graph) DisableBaseIfUnused(base BaseID) error {
	b, ok := g.bases[base]
	if !ok {
		return sgpioerr.New("clockgraph.DisableBaseIfUnused", sgpioerr.InvalidArgument, nil)
	}
	for _, br := range g.branches {
		if br.on && br.base == base {
			return nil
		}
	}
	b.reg.SetBits(lpcregs.BaseClkPowerDn)
	b.on = false
	return nil
}

// EnableBranch gates branch on, sourced from base, divided by div (1,
// 2, 4 or 8).
func (g *Graph) EnableBranch(branch BranchID, base BaseID, div int) error {
	br, ok := g.branches[branch]
	if !ok {
		return sgpioerr.New("clockgraph.EnableBranch", sgpioerr.InvalidArgument, nil)
	}
	if div != 1 && div != 2 && div != 4 && div != 8 {
		return sgpioerr.New("clockgraph.EnableBranch", sgpioerr.InvalidArgument, nil)
	}
	if _, ok := g.bases[base]; !ok {
		return sgpioerr.New("clockgraph.EnableBranch", sgpioerr.InvalidArgument, nil)
	}
	divSel := map[int]uint32{1: 0, 2: 1, 4: 2, 8: 3}[div]
	br.reg.ReplaceBits(divSel, lpcregs.BranchDivMask>>lpcregs.BranchDivShift, lpcregs.BranchDivShift)
	br.reg.SetBits(lpcregs.BranchRun)
	br.base = base
	br.div = div
	br.on = true
	g.propagate(base)
	return nil
}

// DisableBranch gates branch off.
func (g *Graph) DisableBranch(branch BranchID) error {
	br, ok := g.branches[branch]
	if !ok {
		return sgpioerr.New("clockgraph.DisableBranch", sgpioerr.InvalidArgument, nil)
	}
	br.reg.ClearBits(lpcregs.BranchRun)
	br.on = false
	return nil
}

// GetBaseFrequency returns base's current output frequency.
func (g *Graph) GetBaseFrequency(base BaseID) (uint32, error) {
	b, ok := g.bases[base]
	if !ok {
		return 0, sgpioerr.New("clockgraph.GetBaseFrequency", sgpioerr.InvalidArgument, nil)
	}
	return b.hz, nil
}

// GetBranchFrequency returns branch's cached output frequency (base
// frequency divided by the branch's divisor, refreshed by propagate
// whenever the upstream base last changed). This is what the SGPIO
// planner calls to learn BranchSGPIO's rate before computing a local
// shift-clock divisor.
func (g *Graph) GetBranchFrequency(branch BranchID) (uint32, error) {
	br, ok := g.branches[branch]
	if !ok {
		return 0, sgpioerr.New("clockgraph.GetBranchFrequency", sgpioerr.InvalidArgument, nil)
	}
	return br.hz, nil
}

// propagate recomputes the cached frequency of every branch fed by base
// after base's source or rate changes. The branch IDs are collected in
// map iteration order and passed through mathx.StableTopoSort with no
// dependency edges, so the visit order is that map order. This is
// sound because every branch depends on a base directly and nothing
// depends on another branch.
func (g *Graph) propagate(base BaseID) {
	ids := make([]BranchID, 0, len(g.branches))
	for id := range g.branches {
		ids = append(ids, id)
	}
	order := mathx.StableTopoSort(len(ids), func(a, b int) bool { return false })
	for _, idx := range order {
		id := ids[idx]
		br := g.branches[id]
		if br.base != base {
			continue
		}
		baseHz, err := g.GetBaseFrequency(br.base)
		if err != nil {
			continue
		}
		if br.div == 0 {
			br.hz = baseHz
			continue
		}
		br.hz = baseHz / uint32(br.div)
	}
}

// DetectSourceFrequency returns the rate the graph already knows for
// src (see GetSourceFrequency), wrapping any failure as Unsupported. It
// does not drive the CGU frequency monitor, so it measures nothing: the
// crystal reports the xtalHz passed to New.
func (g *Graph) DetectSourceFrequency(src SourceID) (uint32, error) {
	hz, err := g.GetSourceFrequency(src)
	if err != nil {
		return 0, sgpioerr.New("clockgraph.DetectSourceFrequency", sgpioerr.Unsupported, err)
	}
	return hz, nil
}

// Frequencies snapshots every source this graph has resolved, for
// diagnostics (dump_configuration and similar).
func (g *Graph) Frequencies() map[SourceID]uint32 {
	out := map[SourceID]uint32{
		SourceXtal: g.xtalHz,
		SourceIRC:  IRCFrequencyHz,
	}
	for src, hz := range g.pllHz {
		out[src] = hz
	}
	return out
}
