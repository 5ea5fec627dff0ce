// Package config defines the ambient configuration surface for cammini-server.
//
// The three positional command-line arguments (names file, graph file, consumer
// count) are parsed separately by cmd/cammini-server and always take priority over
// anything loaded here; this package only governs the ambient concerns — logging,
// metrics, tracing, caching, audit, and the optional admin gRPC health surface.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root ambient configuration structure.
type Config struct {
	App     AppConfig     `koanf:"app"`
	Ingest  IngestConfig  `koanf:"ingest"`
	Pipe    PipeConfig    `koanf:"pipe"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
	Tracing TracingConfig `koanf:"tracing"`
	Cache   CacheConfig   `koanf:"cache"`
	Audit   AuditConfig   `koanf:"audit"`
	GRPC    GRPCConfig    `koanf:"grpc"`
}

// AppConfig carries application identity, surfaced in logs and traces.
type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

// IngestConfig tunes the construction-phase bounded buffer. NumConsumers is not
// read by cmd/cammini-server, which always takes the consumer count from its
// mandatory third positional argument.
type IngestConfig struct {
	NumConsumers      int `koanf:"num_consumers"`
	LineBufferPerCons int `koanf:"line_buffer_per_consumer"`
}

// PipeConfig controls the request FIFO and the shutdown grace period.
type PipeConfig struct {
	Path        string        `koanf:"path"`
	GracePeriod time.Duration `koanf:"grace_period"`
}

// LogConfig mirrors the corpus's slog + lumberjack logging setup.
type LogConfig struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	Output     string `koanf:"output"`
	FilePath   string `koanf:"file_path"`
	MaxSize    int    `koanf:"max_size"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAge     int    `koanf:"max_age"`
	Compress   bool   `koanf:"compress"`
}

// MetricsConfig controls the optional Prometheus /metrics endpoint.
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Port      int    `koanf:"port"`
	Path      string `koanf:"path"`
	Namespace string `koanf:"namespace"`
}

// TracingConfig controls the optional OpenTelemetry exporter.
type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// CacheConfig controls the optional path-result cache.
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Driver     string        `koanf:"driver"` // memory, redis
	Host       string        `koanf:"host"`
	Port       int           `koanf:"port"`
	Password   string        `koanf:"password"`
	DB         int           `koanf:"db"`
	DefaultTTL time.Duration `koanf:"default_ttl"`
	MaxEntries int           `koanf:"max_entries"`
}

// Address returns the cache backend's network address.
func (c CacheConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuditConfig controls the per-request audit trail.
type AuditConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Backend  string `koanf:"backend"` // stdout, file, discard
	FilePath string `koanf:"file_path"`
}

// GRPCConfig controls the optional admin health service.
type GRPCConfig struct {
	Enabled bool `koanf:"enabled"`
	Port    int  `koanf:"port"`
}

// Validate rejects nonsensical ambient configuration. CLI-argument validity
// (file paths, consumer count bounds) is checked separately by the caller.
func (c *Config) Validate() error {
	var errs []string

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level must be one of debug,info,warn,error, got %s", c.Log.Level))
	}

	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		errs = append(errs, fmt.Sprintf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port))
	}

	if c.GRPC.Enabled && (c.GRPC.Port <= 0 || c.GRPC.Port > 65535) {
		errs = append(errs, fmt.Sprintf("grpc.port must be between 1 and 65535, got %d", c.GRPC.Port))
	}

	validCacheDrivers := map[string]bool{"memory": true, "redis": true}
	if c.Cache.Enabled && !validCacheDrivers[strings.ToLower(c.Cache.Driver)] {
		errs = append(errs, fmt.Sprintf("cache.driver must be memory or redis, got %s", c.Cache.Driver))
	}

	validAuditBackends := map[string]bool{"stdout": true, "file": true, "discard": true}
	if c.Audit.Enabled && !validAuditBackends[strings.ToLower(c.Audit.Backend)] {
		errs = append(errs, fmt.Sprintf("audit.backend must be stdout, file or discard, got %s", c.Audit.Backend))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
