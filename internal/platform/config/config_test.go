package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Addr:           ":8080",
		BackendBaseURL: "http://localhost:8000",
		SessionSecret:  DevSessionSecret,
		SessionTTL:     12 * time.Hour,
		Environment:    "development",
		PollInterval:   30 * time.Second,
		BackendTimeout: 10 * time.Second,
		MaxBodyBytes:   1 << 20,
		MaxUploadBytes: 8 << 20,
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.BackendBaseURL != "http://localhost:8000" {
		t.Errorf("BackendBaseURL = %q, want http://localhost:8000", cfg.BackendBaseURL)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Errorf("PollInterval = %v, want 30s", cfg.PollInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "https://api.internal:9000")
	t.Setenv("POLL_INTERVAL", "45s")
	t.Setenv("MAX_BODY_BYTES", "2048")

	cfg := Load()
	if cfg.BackendBaseURL != "https://api.internal:9000" {
		t.Errorf("BackendBaseURL = %q", cfg.BackendBaseURL)
	}
	if cfg.PollInterval != 45*time.Second {
		t.Errorf("PollInterval = %v, want 45s", cfg.PollInterval)
	}
	if cfg.MaxBodyBytes != 2048 {
		t.Errorf("MaxBodyBytes = %d, want 2048", cfg.MaxBodyBytes)
	}
}

func TestMalformedEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "soon")
	t.Setenv("MAX_BODY_BYTES", "lots")

	cfg := Load()
	if cfg.PollInterval != 30*time.Second {
		t.Errorf("PollInterval = %v, want default 30s", cfg.PollInterval)
	}
	if cfg.MaxBodyBytes != 1<<20 {
		t.Errorf("MaxBodyBytes = %d, want default 1MiB", cfg.MaxBodyBytes)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "relative backend URL",
			mutate:  func(c *Config) { c.BackendBaseURL = "/api" },
			wantErr: "BACKEND_BASE_URL",
		},
		{
			name: "dev secret in production",
			mutate: func(c *Config) {
				c.Environment = "production"
			},
			wantErr: "SESSION_SECRET",
		},
		{
			name:    "zero poll interval",
			mutate:  func(c *Config) { c.PollInterval = 0 },
			wantErr: "POLL_INTERVAL",
		},
		{
			name:    "tiny body limit",
			mutate:  func(c *Config) { c.MaxBodyBytes = 100 },
			wantErr: "MAX_BODY_BYTES",
		},
		{
			name:    "upload limit below body limit",
			mutate:  func(c *Config) { c.MaxUploadBytes = c.MaxBodyBytes - 1 },
			wantErr: "MAX_UPLOAD_BYTES",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %s", err, tc.wantErr)
			}
		})
	}
}

func TestProductionAcceptsStrongSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Environment = "production"
	cfg.SessionSecret = "a-long-random-production-secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
