package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"

	"cammini/internal/graph"
	"cammini/internal/phase"
	"cammini/pkg/audit"
	"cammini/pkg/cache"
	"cammini/pkg/logger"
)

// DefaultGracePeriod is the interval the dispatcher waits, after accepting
// shutdown, for in-flight workers to finish before the process exits, used
// when the caller passes a non-positive grace period to New.
const DefaultGracePeriod = 20 * time.Second

// Dispatcher multiplexes the request FIFO and the signal coordinator's
// self-wakeup channel, spawning a detached BFS worker per accepted request.
type Dispatcher struct {
	table       *graph.Table
	pipe        *requestPipe
	coordinator *phase.Coordinator
	pathCache   *cache.PathCache
	auditLogger audit.Logger
	gracePeriod time.Duration

	inFlight    sync.WaitGroup
	liveWorkers atomic.Int64
}

// New creates a Dispatcher over the given node table, recreating the named
// request FIFO at pipePath. pathCache and auditLogger may be nil, in which
// case their respective features are simply skipped. gracePeriod defaults
// to DefaultGracePeriod when non-positive.
func New(table *graph.Table, pipePath string, coordinator *phase.Coordinator, pathCache *cache.PathCache, auditLogger audit.Logger, gracePeriod time.Duration) (*Dispatcher, error) {
	p, err := openRequestPipe(pipePath)
	if err != nil {
		return nil, err
	}
	if gracePeriod <= 0 {
		gracePeriod = DefaultGracePeriod
	}
	return &Dispatcher{
		table:       table,
		pipe:        p,
		coordinator: coordinator,
		pathCache:   pathCache,
		auditLogger: auditLogger,
		gracePeriod: gracePeriod,
	}, nil
}

// Run multiplexes the request pipe and the coordinator's wakeup channel
// until shutdown is signaled, then sleeps the grace period before
// returning. It blocks the calling goroutine for the server's entire
// serving lifetime.
func (d *Dispatcher) Run(ctx context.Context) {
	defer d.pipe.close()

	pipeFD := d.pipe.fd
	wakeFD := int(d.coordinator.WakeFD().Fd())

	for {
		rfds := &unix.FdSet{}
		fdSet(rfds, pipeFD)
		fdSet(rfds, wakeFD)

		maxFD := pipeFD
		if wakeFD > maxFD {
			maxFD = wakeFD
		}

		n, err := unix.Select(maxFD+1, rfds, nil, nil, nil)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			logger.Error("select failed on dispatch loop", "error", err)
			break
		}
		if n == 0 {
			continue
		}

		if fdIsSet(rfds, wakeFD) {
			logger.Info("shutdown signal received, exiting dispatch loop")
			break
		}

		if fdIsSet(rfds, pipeFD) {
			d.handlePipeReadable(ctx)
		}
	}

	d.shutdown()
}

// handlePipeReadable drains one read attempt from the request FIFO and
// reacts to it: reopening on EOF, ignoring EAGAIN, spawning a worker on a
// complete request, and discarding partial reads.
func (d *Dispatcher) handlePipeReadable(ctx context.Context) {
	buf, eof, err := d.pipe.read()
	if err != nil {
		logger.Warn("request pipe read failed", "error", err)
		return
	}
	if eof {
		if rerr := d.pipe.reopen(); rerr != nil {
			logger.Error("failed to reopen request pipe", "error", rerr)
		}
		return
	}
	if buf == nil {
		return // would block
	}

	req, ok := decodeRequest(buf)
	if !ok {
		logger.Warn("ignoring partial request", "bytes", len(buf))
		return
	}

	d.inFlight.Add(1)
	d.liveWorkers.Add(1)
	go func() {
		defer d.liveWorkers.Add(-1)
		d.runWorker(ctx, req)
	}()
}

// shutdown logs the in-flight worker count and sleeps the grace period,
// giving detached workers a window to finish their output files before the
// process exits. It does not wait on the WaitGroup: in-flight workers are
// observed, not joined.
func (d *Dispatcher) shutdown() {
	logger.Info("entering shutdown grace period",
		"grace_period", d.gracePeriod.String(),
		"workers_in_flight", d.liveWorkers.Load())
	time.Sleep(d.gracePeriod)
}

func fdSet(set *unix.FdSet, fd int) {
	set.Bits[fd/64] |= 1 << (uint(fd) % 64)
}

func fdIsSet(set *unix.FdSet, fd int) bool {
	return set.Bits[fd/64]&(1<<(uint(fd)%64)) != 0
}
