package dispatch

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"cammini/internal/graph"
	"cammini/pkg/apperror"
	"cammini/pkg/audit"
	"cammini/pkg/cache"
	"cammini/pkg/logger"
	"cammini/pkg/metrics"
	"cammini/pkg/telemetry"
)

// worker answers one BFS request: it consults the path cache, falls back to
// a fresh BFS on a miss, writes the per-request output file, prints the
// fixed-format summary line to standard output, records metrics, and emits
// one audit entry. It is fire-and-forget: the dispatcher does not join it,
// only counts it via its live-worker counter for the grace-period log line.
func (d *Dispatcher) runWorker(ctx context.Context, req Request) {
	defer d.inFlight.Done()
	metrics.Get().WorkersInFlight.Inc()
	defer metrics.Get().WorkersInFlight.Dec()

	requestID := uuid.NewString()
	log := logger.WithRequestID(requestID)

	ctx, span := telemetry.StartSpan(ctx, "graph.bfs.worker",
		telemetry.WithAttributes(telemetry.RequestAttributes(requestID, req.StartCode, req.EndCode)...))
	defer span.End()

	cpuStart := processCPUTime()

	outcome, cacheHit, err := d.resolve(ctx, req)
	if err != nil {
		d.reportOutputError(req, cpuStart)
		log.Error("failed to resolve request", "error", err)
		return
	}

	elapsed := processCPUTime() - cpuStart

	if err := d.writeOutputFile(req, outcome); err != nil {
		d.reportOutputError(req, cpuStart)
		log.Error("failed to write output file", "error", err)
		return
	}

	d.printSummary(req, outcome, elapsed)

	result := "found"
	if !outcome.Found {
		if outcome.Invalid {
			result = "invalid"
		} else {
			result = "no_path"
		}
	}
	metrics.Get().RecordRequest(result, elapsed)
	if cacheHit {
		metrics.Get().RecordCacheHit()
	} else if d.pathCache != nil {
		metrics.Get().RecordCacheMiss()
	}
	telemetry.SetAttributes(ctx, telemetry.OutcomeAttributes(outcome.Found, len(outcome.Path)-1, cacheHit)...)

	d.recordAudit(ctx, requestID, req, outcome, cacheHit, elapsed)
}

// requestOutcome is the internal, cache-round-trippable shape of one
// resolved request: either a found path, a definitive no-path, or an
// invalid-endpoint result.
type requestOutcome struct {
	Found       bool
	Path        []graph.Node
	Invalid     bool
	InvalidCode int32
}

// resolve consults the path cache before falling back to a fresh BFS.
func (d *Dispatcher) resolve(ctx context.Context, req Request) (requestOutcome, bool, error) {
	if d.pathCache != nil {
		cached, hit, err := d.pathCache.Get(ctx, req.StartCode, req.EndCode)
		if err != nil {
			logger.Warn("path cache get failed, treating as miss", "error", err)
		} else if hit {
			return outcomeFromCache(d.table, cached), true, nil
		}
	}

	result, err := graph.BFS(d.table, req.StartCode, req.EndCode)
	if err != nil {
		return requestOutcome{}, false, err
	}

	outcome := requestOutcome{
		Found:       result.Found,
		Path:        result.Path,
		Invalid:     result.Invalid,
		InvalidCode: result.InvalidCode,
	}

	// Only definitive, endpoint-valid outcomes (found or no-path) are worth
	// caching; an invalid-endpoint result is cheap to recompute and endpoint
	// validity can't drift, so there's nothing gained by caching it.
	if d.pathCache != nil && !outcome.Invalid {
		cached := outcomeToCache(outcome)
		if err := d.pathCache.Set(ctx, req.StartCode, req.EndCode, cached, 0); err != nil {
			logger.Warn("path cache set failed", "error", err)
		}
	}

	return outcome, false, nil
}

func outcomeToCache(o requestOutcome) *cache.CachedPathResult {
	codes := make([]int32, len(o.Path))
	for i, n := range o.Path {
		codes[i] = n.Code
	}
	return &cache.CachedPathResult{
		Found:  o.Found,
		Path:   codes,
		Length: len(codes) - 1,
	}
}

func outcomeFromCache(table *graph.Table, cached *cache.CachedPathResult) requestOutcome {
	if !cached.Found {
		return requestOutcome{Found: false}
	}
	path := make([]graph.Node, 0, len(cached.Path))
	for _, code := range cached.Path {
		if n := table.Lookup(code); n != nil {
			path = append(path, *n)
		}
	}
	return requestOutcome{Found: true, Path: path}
}

// writeOutputFile renders outcome into "<start>.<end>" per the fixed
// contract: a path listing, an invalid-endpoint message, or a no-path
// message.
func (d *Dispatcher) writeOutputFile(req Request, outcome requestOutcome) error {
	path := fmt.Sprintf("%d.%d", req.StartCode, req.EndCode)
	f, err := os.Create(path)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeOutputWrite, "failed to create output file").WithField(path)
	}
	defer f.Close()

	var b strings.Builder
	switch {
	case outcome.Invalid:
		fmt.Fprintf(&b, "codice %d non valido\n", outcome.InvalidCode)
	case outcome.Found:
		for _, n := range outcome.Path {
			fmt.Fprintf(&b, "%s\n", n.String())
		}
	default:
		fmt.Fprintf(&b, "non esistono cammini da %d a %d\n", req.StartCode, req.EndCode)
	}

	_, err = f.WriteString(b.String())
	return err
}

// printSummary writes the found or no-path timing line to standard output
// with a single Printf call, so the write is atomic with respect to other
// workers' summary lines. The output-error line is printed by
// reportOutputError instead.
func (d *Dispatcher) printSummary(req Request, outcome requestOutcome, elapsed time.Duration) {
	secs := elapsed.Seconds()
	switch {
	case outcome.Invalid:
		// An invalid endpoint is reported only in the output file; none of
		// the fixed standard-output formats covers it, so nothing is
		// printed here.
		return
	case outcome.Found:
		fmt.Printf("%d.%d: Lunghezza minima %d. Tempo di elaborazione %.2f secondi\n",
			req.StartCode, req.EndCode, len(outcome.Path)-1, secs)
	default:
		fmt.Printf("%d.%d: Nessun cammino. Tempo di elaborazione %.2f secondi\n",
			req.StartCode, req.EndCode, secs)
	}
}

// reportOutputError prints the fixed output-file-creation-failure line.
func (d *Dispatcher) reportOutputError(req Request, cpuStart time.Duration) {
	_ = cpuStart
	fmt.Printf("%d.%d: Errore creazione file output. Tempo di elaborazione 0.00 secondi\n",
		req.StartCode, req.EndCode)
	metrics.Get().RecordRequest("output_error", 0)
}

func (d *Dispatcher) recordAudit(ctx context.Context, requestID string, req Request, outcome requestOutcome, cacheHit bool, elapsed time.Duration) {
	if d.auditLogger == nil {
		return
	}

	out := audit.OutcomeNoPath
	pathLength := 0
	switch {
	case outcome.Invalid:
		out = audit.OutcomeInvalidEndpoint
	case outcome.Found:
		out = audit.OutcomeFound
		pathLength = len(outcome.Path) - 1
	}

	entry := audit.NewEntry().
		Action(audit.ActionSolve).
		Outcome(out).
		RequestID(requestID).
		Endpoints(req.StartCode, req.EndCode).
		PathLength(pathLength).
		CacheHit(cacheHit).
		Duration(elapsed).
		Build()

	if err := d.auditLogger.Log(ctx, entry); err != nil {
		logger.Warn("failed to write audit entry", "error", err)
	}
}
