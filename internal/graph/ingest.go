package graph

import (
	"bufio"
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"cammini/pkg/apperror"
	"cammini/pkg/logger"
	"cammini/pkg/metrics"
	"cammini/pkg/telemetry"
)

// IngestStats summarizes one construction-phase run, for logging and the
// "graph.nodes"/"graph.lines_total" span attributes.
type IngestStats struct {
	LinesConsumed int
	LinesSkipped  int
}

// Ingest reads graphPath on the calling goroutine and fans lines out to
// numConsumers consumer goroutines through a bounded lineBuffer, each of
// which parses one adjacency list and installs it onto table. It blocks
// until every line has been produced, consumed, and every consumer has
// returned.
func Ingest(ctx context.Context, table *Table, graphPath string, numConsumers, bufferPerConsumer int) (IngestStats, error) {
	ctx, span := telemetry.StartSpan(ctx, "graph.ingest")
	defer span.End()

	start := time.Now()
	m := metrics.Get()

	f, err := os.Open(graphPath)
	if err != nil {
		telemetry.SetError(ctx, err)
		return IngestStats{}, apperror.Wrap(err, apperror.CodeInvalidGraphFile, "failed to open graph file").WithField(graphPath)
	}
	defer f.Close()

	if bufferPerConsumer <= 0 {
		bufferPerConsumer = 10
	}
	lb := newLineBuffer(numConsumers * bufferPerConsumer)

	stats := make([]IngestStats, numConsumers)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < numConsumers; i++ {
		consumerID := i
		g.Go(func() error {
			stats[consumerID] = runConsumer(gctx, table, lb, consumerID)
			return nil
		})
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if dropped := lb.put(line); dropped {
			logger.Warn("line buffer full, dropping graph-file line")
		}
	}
	scanErr := scanner.Err()
	lb.markDone()

	if err := g.Wait(); err != nil {
		telemetry.SetError(ctx, err)
		return IngestStats{}, err
	}
	if scanErr != nil {
		return IngestStats{}, apperror.Wrap(scanErr, apperror.CodeInvalidGraphFile, "failed reading graph file")
	}

	var total IngestStats
	for _, s := range stats {
		total.LinesConsumed += s.LinesConsumed
		total.LinesSkipped += s.LinesSkipped
	}

	m.RecordIngestDuration(time.Since(start))
	m.GraphNodesObserved.Set(float64(table.Len()))
	telemetry.SetAttributes(ctx, telemetry.GraphAttributes(table.Len(), total.LinesConsumed+total.LinesSkipped)...)

	return total, nil
}

// runConsumer drains lb until the producer is done and the buffer is empty,
// tokenizing each line and installing the parsed adjacency list directly
// into the node table. The node table's skeleton (codes, names, years) is
// already fully populated before any consumer starts, so this never writes
// to an uninitialized record.
func runConsumer(ctx context.Context, table *Table, lb *lineBuffer, consumerID int) IngestStats {
	_, span := telemetry.StartSpan(ctx, "graph.ingest.consumer",
		telemetry.WithAttributes(telemetry.ConsumerAttributes(consumerID)...))
	defer span.End()

	m := metrics.Get()
	var stats IngestStats

	for {
		line, ok := lb.get()
		if !ok {
			return stats
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			logger.Warn("skipping graph-file line with no tokens")
			stats.LinesSkipped++
			m.RecordIngestLine("skipped")
			continue
		}

		headCode, err := strconv.ParseInt(fields[0], 10, 32)
		if err != nil {
			logger.Warn("skipping graph-file line with malformed head code", "token", fields[0])
			stats.LinesSkipped++
			m.RecordIngestLine("skipped")
			continue
		}

		idx := table.index(int32(headCode))
		if idx < 0 {
			logger.Warn("graph-file head code not found in names file", "code", headCode)
			stats.LinesSkipped++
			m.RecordIngestLine("skipped")
			continue
		}

		neighbors := make([]int32, 0, 8)
		for _, tok := range fields[1:] {
			n, err := strconv.ParseInt(tok, 10, 32)
			if err != nil {
				continue
			}
			neighbors = append(neighbors, int32(n))
		}

		table.nodeAt(idx).Neighbors = neighbors
		stats.LinesConsumed++
		m.RecordIngestLine("consumed")
	}
}
