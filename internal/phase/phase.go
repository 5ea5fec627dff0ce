// Package phase owns the process-wide construction/serving phase indicator
// and the signal coordinator that gives the interrupt signal its two
// phase-dependent meanings.
package phase

import (
	"os"
	"os/signal"
	"sync/atomic"

	"cammini/pkg/logger"
)

// Phase values for the atomic indicator.
const (
	Construction int32 = iota
	Serving
)

// Indicator is a process-wide atomic phase flag, written only by the main
// goroutine at the two phase transitions and read by the signal coordinator
// and the admin health service.
type Indicator struct {
	value atomic.Int32
}

// NewIndicator returns an Indicator starting in Construction.
func NewIndicator() *Indicator {
	return &Indicator{}
}

// Set publishes a phase transition.
func (i *Indicator) Set(p int32) {
	i.value.Store(p)
}

// Get returns the current phase.
func (i *Indicator) Get() int32 {
	return i.value.Load()
}

// Coordinator owns interrupt disposition. It installs a single signal.Notify
// channel for os.Interrupt (the idiomatic Go equivalent of masking the
// signal on every other goroutine and handling it on one dedicated
// goroutine) and gives the interrupt its two phase-dependent meanings:
// during construction it's informational, during serving it triggers
// shutdown by writing one byte to wake's write end.
type Coordinator struct {
	indicator *Indicator
	sigCh     chan os.Signal
	wakeRead  *os.File
	wakeWrite *os.File
}

// NewCoordinator creates a Coordinator and its self-wakeup pipe. Call Start
// to begin handling interrupts.
func NewCoordinator(indicator *Indicator) (*Coordinator, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &Coordinator{
		indicator: indicator,
		sigCh:     make(chan os.Signal, 1),
		wakeRead:  r,
		wakeWrite: w,
	}, nil
}

// WakeFD returns the read end of the self-wakeup pipe, for the dispatcher's
// unix.Select multiplex.
func (c *Coordinator) WakeFD() *os.File {
	return c.wakeRead
}

// Start installs the interrupt handler and launches the coordinator
// goroutine. It returns immediately.
func (c *Coordinator) Start() {
	signal.Notify(c.sigCh, os.Interrupt)
	go c.run()
}

func (c *Coordinator) run() {
	for range c.sigCh {
		if c.indicator.Get() == Serving {
			var dummy [1]byte
			dummy[0] = 'q'
			if _, err := c.wakeWrite.Write(dummy[:]); err != nil {
				logger.Warn("failed to write self-wakeup byte", "error", err)
			}
			return
		}
		// Construction phase: the interrupt is purely informational.
		os.Stdout.WriteString("Costruzione del grafo in corso\n")
	}
}

// Close releases the self-wakeup pipe and stops receiving signals.
func (c *Coordinator) Close() {
	signal.Stop(c.sigCh)
	c.wakeRead.Close()
	c.wakeWrite.Close()
}
