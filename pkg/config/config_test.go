package config

import (
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				Log: LogConfig{Level: "info"},
			},
			wantErr: false,
		},
		{
			name: "invalid log level",
			cfg: Config{
				Log: LogConfig{Level: "verbose"},
			},
			wantErr: true,
		},
		{
			name: "empty log level defaults to info",
			cfg: Config{
				Log: LogConfig{},
			},
			wantErr: false,
		},
		{
			name: "metrics enabled with invalid port",
			cfg: Config{
				Log:     LogConfig{Level: "info"},
				Metrics: MetricsConfig{Enabled: true, Port: 0},
			},
			wantErr: true,
		},
		{
			name: "metrics enabled with valid port",
			cfg: Config{
				Log:     LogConfig{Level: "info"},
				Metrics: MetricsConfig{Enabled: true, Port: 9090},
			},
			wantErr: false,
		},
		{
			name: "metrics disabled ignores bad port",
			cfg: Config{
				Log:     LogConfig{Level: "info"},
				Metrics: MetricsConfig{Enabled: false, Port: -1},
			},
			wantErr: false,
		},
		{
			name: "grpc enabled with port too high",
			cfg: Config{
				Log:  LogConfig{Level: "info"},
				GRPC: GRPCConfig{Enabled: true, Port: 70000},
			},
			wantErr: true,
		},
		{
			name: "cache enabled with unknown driver",
			cfg: Config{
				Log:   LogConfig{Level: "info"},
				Cache: CacheConfig{Enabled: true, Driver: "memcached"},
			},
			wantErr: true,
		},
		{
			name: "cache enabled with redis driver",
			cfg: Config{
				Log:   LogConfig{Level: "info"},
				Cache: CacheConfig{Enabled: true, Driver: "redis"},
			},
			wantErr: false,
		},
		{
			name: "audit enabled with unknown backend",
			cfg: Config{
				Log:   LogConfig{Level: "info"},
				Audit: AuditConfig{Enabled: true, Backend: "syslog"},
			},
			wantErr: true,
		},
		{
			name: "audit enabled with file backend",
			cfg: Config{
				Log:   LogConfig{Level: "info"},
				Audit: AuditConfig{Enabled: true, Backend: "file"},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCacheConfig_Address(t *testing.T) {
	cfg := CacheConfig{
		Host: "redis.local",
		Port: 6379,
	}

	addr := cfg.Address()
	if addr != "redis.local:6379" {
		t.Errorf("expected 'redis.local:6379', got %s", addr)
	}
}

func TestIngestConfig_Defaults(t *testing.T) {
	cfg := IngestConfig{
		NumConsumers:      4,
		LineBufferPerCons: 10,
	}

	if cfg.NumConsumers != 4 {
		t.Errorf("expected 4 consumers, got %d", cfg.NumConsumers)
	}
	if cfg.LineBufferPerCons != 10 {
		t.Errorf("expected buffer of 10, got %d", cfg.LineBufferPerCons)
	}
}

func TestPipeConfig_GracePeriod(t *testing.T) {
	cfg := PipeConfig{
		Path:        "cammini.pipe",
		GracePeriod: 20 * time.Second,
	}

	if cfg.GracePeriod != 20*time.Second {
		t.Errorf("expected 20s grace period, got %v", cfg.GracePeriod)
	}
}
