// Command sgpioconfig is not a CLI — it takes no flags and reads no
// files. It exists purely as a compiled, runnable example of
// wiring one SGPIO function end to end, the bare-metal image's main()
// in miniature: build the clock graph, bring up the SGPIO branch
// clock, describe one function, hand it to sgpio.SetUpFunctions, and
// run the cooperative scheduler forever.
package main

import (
	"github.com/lpc43xx/sgpio/clockgraph"
	"github.com/lpc43xx/sgpio/irqctl"
	"github.com/lpc43xx/sgpio/ringbuffer"
	"github.com/lpc43xx/sgpio/sched"
	"github.com/lpc43xx/sgpio/sgpio"
)

const boardXtalHz = 12_000_000

func main() {
	clock := clockgraph.New(boardXtalHz, nil)
	if err := clock.SelectBaseSource(clockgraph.BaseSGPIO, clockgraph.SourceIRC); err != nil {
		panic(err)
	}
	if err := clock.EnableBase(clockgraph.BaseSGPIO); err != nil {
		panic(err)
	}
	if err := clock.EnableBranch(clockgraph.BranchSGPIO, clockgraph.BaseSGPIO, 1); err != nil {
		panic(err)
	}

	ctx := sgpio.New(clock, irqctl.Default, nil)

	err := ctx.SetUpFunctions([]*sgpio.Function{
		{
			Name:     "spi-like-output",
			Pins:     []int{0},
			BusWidth: 1,
			Mode:     sgpio.ModeFixedOut,
			Clock:    sgpio.LocalClock(1_000_000),
			Buffer:   ringbuffer.New(4),
		},
	})
	if err != nil {
		panic(err)
	}

	if err := ctx.Run(); err != nil {
		panic(err)
	}

	runner := sched.New(func() {
		// Foreground work goes here; the ISR (if one was generated)
		// keeps the hardware fed independently.
	})
	runner.Run()
}
