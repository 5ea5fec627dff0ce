// Command cammini-server ingests an actor co-appearance graph and answers
// shortest-path queries over a named pipe.
//
// Usage:
//
//	cammini-server <names_file> <graph_file> <num_consumers>
//
// The three positional arguments are mandatory and always take priority
// over any ambient configuration loaded from config.yaml or the CAMMINI_
// environment prefix; the ambient config governs only logging, metrics,
// tracing, caching, audit, and the optional admin health surface.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"cammini/internal/dispatch"
	"cammini/internal/graph"
	"cammini/internal/healthsrv"
	"cammini/internal/phase"
	"cammini/pkg/audit"
	"cammini/pkg/cache"
	"cammini/pkg/config"
	"cammini/pkg/logger"
	"cammini/pkg/metrics"
	"cammini/pkg/telemetry"
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) != 4 {
		fmt.Fprintf(os.Stderr, "usage: %s <names_file> <graph_file> <num_consumers>\n", os.Args[0])
		return 1
	}
	namesPath := os.Args[1]
	graphPath := os.Args[2]
	numConsumers, err := strconv.Atoi(os.Args[3])
	if err != nil || numConsumers < 1 || numConsumers > 1024 {
		fmt.Fprintln(os.Stderr, "num_consumers must be an integer between 1 and 1024")
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})

	metrics.InitMetrics(cfg.Metrics.Namespace, "")
	prometheus.MustRegister(metrics.NewRuntimeCollector(cfg.Metrics.Namespace, ""))
	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.StartMetricsServer(cfg.Metrics.Port); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	ctx := context.Background()

	if cfg.Tracing.Enabled {
		tp, err := telemetry.Init(ctx, telemetry.Config{
			Enabled:     cfg.Tracing.Enabled,
			Endpoint:    cfg.Tracing.Endpoint,
			ServiceName: cfg.Tracing.ServiceName,
			Version:     cfg.App.Version,
			Environment: cfg.App.Environment,
			SampleRate:  cfg.Tracing.SampleRate,
		})
		if err != nil {
			logger.Warn("failed to init telemetry, continuing without it", "error", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = tp.Shutdown(shutdownCtx)
			}()
		}
	}

	var pathCache *cache.PathCache
	if cfg.Cache.Enabled {
		backend, err := cache.New(cache.FromConfig(&cfg.Cache))
		if err != nil {
			logger.Warn("failed to create cache, continuing without it", "error", err)
		} else {
			pathCache = cache.NewPathCache(backend, cfg.Cache.DefaultTTL)
		}
	}

	var auditLogger audit.Logger
	if cfg.Audit.Enabled {
		auditLogger, err = audit.New(&audit.Config{
			Enabled:  cfg.Audit.Enabled,
			Backend:  cfg.Audit.Backend,
			FilePath: cfg.Audit.FilePath,
		})
		if err != nil {
			logger.Warn("failed to create audit logger, continuing without it", "error", err)
			auditLogger = nil
		}
	}

	indicator := phase.NewIndicator()

	var health *healthsrv.Server
	if cfg.GRPC.Enabled {
		health = healthsrv.New(cfg.App.Name, indicator)
		go func() {
			if err := health.Serve(cfg.GRPC.Port); err != nil {
				logger.Error("admin health server failed", "error", err)
			}
		}()
	}

	// The coordinator must be live before construction starts: an interrupt
	// during construction is informational only (it prints a status line
	// instead of triggering shutdown), and that requires indicator still
	// reading Construction with someone already listening for the signal.
	coordinator, err := phase.NewCoordinator(indicator)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create signal coordinator: %v\n", err)
		return 1
	}
	coordinator.Start()
	defer coordinator.Close()

	fmt.Println(os.Getpid())

	logger.Info("constructing graph", "names_file", namesPath, "graph_file", graphPath, "num_consumers", numConsumers)

	ingestStart := time.Now()
	table, err := graph.BuildTable(namesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read names file: %v\n", err)
		return 1
	}

	stats, err := graph.Ingest(ctx, table, graphPath, numConsumers, cfg.Ingest.LineBufferPerCons)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to ingest graph file: %v\n", err)
		return 1
	}
	metrics.Get().RecordIngestDuration(time.Since(ingestStart))
	logger.Info("graph construction complete",
		"nodes", table.Len(),
		"lines_consumed", stats.LinesConsumed,
		"lines_skipped", stats.LinesSkipped,
		"elapsed", time.Since(ingestStart).String(),
	)

	indicator.Set(phase.Serving)
	if health != nil {
		health.Sync()
	}

	dispatcher, err := dispatch.New(table, cfg.Pipe.Path, coordinator, pathCache, auditLogger, cfg.Pipe.GracePeriod)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start request dispatcher: %v\n", err)
		return 1
	}

	dispatcher.Run(ctx)

	if auditLogger != nil {
		_ = auditLogger.Close()
	}
	if health != nil {
		health.GracefulStop()
	}

	return 0
}
