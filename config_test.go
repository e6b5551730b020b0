package gatekit

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig([]byte("a-secret"), []byte("r-secret"))
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.JWT.AccessTTL != 15*time.Minute {
		t.Fatalf("access TTL = %v", cfg.JWT.AccessTTL)
	}
	if cfg.JWT.RefreshTTL != 7*24*time.Hour {
		t.Fatalf("refresh TTL = %v", cfg.JWT.RefreshTTL)
	}
	if cfg.Audit.Buffer != DefaultAuditBuffer {
		t.Fatalf("audit buffer = %d", cfg.Audit.Buffer)
	}
}

func TestConfigValidate(t *testing.T) {
	base := func() Config { return DefaultConfig([]byte("a-secret"), []byte("r-secret")) }

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty access secret", func(c *Config) { c.JWT.AccessSecret = nil }},
		{"empty refresh secret", func(c *Config) { c.JWT.RefreshSecret = nil }},
		{"equal secrets", func(c *Config) { c.JWT.RefreshSecret = c.JWT.AccessSecret }},
		{"zero access TTL", func(c *Config) { c.JWT.AccessTTL = 0 }},
		{"negative refresh TTL", func(c *Config) { c.JWT.RefreshTTL = -time.Hour }},
		{"excessive leeway", func(c *Config) { c.JWT.Leeway = 3 * time.Minute }},
		{"negative sweep interval", func(c *Config) { c.Revocation.SweepInterval = -time.Second }},
		{"negative audit buffer", func(c *Config) { c.Audit.Buffer = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gatekit.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
jwt:
  access_secret: file-access-secret
  refresh_secret: file-refresh-secret
  access_ttl: 30m
  refresh_ttl: 48h
  issuer: gatekit-test
  leeway: 10s
revocation:
  sweep_interval: 1m
  redis_key_prefix: custom:rvk
audit:
  buffer: 64
metrics: true
`)

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if string(cfg.JWT.AccessSecret) != "file-access-secret" {
		t.Fatalf("access secret = %q", cfg.JWT.AccessSecret)
	}
	if cfg.JWT.AccessTTL != 30*time.Minute || cfg.JWT.RefreshTTL != 48*time.Hour {
		t.Fatalf("ttls = %v / %v", cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	}
	if cfg.JWT.Issuer != "gatekit-test" || cfg.JWT.Leeway != 10*time.Second {
		t.Fatalf("issuer/leeway = %q / %v", cfg.JWT.Issuer, cfg.JWT.Leeway)
	}
	if cfg.Revocation.SweepInterval != time.Minute || cfg.Revocation.RedisKeyPrefix != "custom:rvk" {
		t.Fatalf("revocation = %+v", cfg.Revocation)
	}
	if cfg.Audit.Buffer != 64 || !cfg.Metrics {
		t.Fatalf("audit/metrics = %+v / %v", cfg.Audit, cfg.Metrics)
	}
}

func TestLoadConfigFileDefaults(t *testing.T) {
	path := writeConfig(t, `
jwt:
  access_secret: a
  refresh_secret: b
`)

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if cfg.JWT.AccessTTL != DefaultAccessTTL || cfg.JWT.RefreshTTL != DefaultRefreshTTL {
		t.Fatalf("ttl defaults not applied: %v / %v", cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	}
}

func TestLoadConfigFileEnvOverridesSecrets(t *testing.T) {
	path := writeConfig(t, `
jwt:
  access_secret: file-a
  refresh_secret: file-b
`)
	t.Setenv(EnvAccessSecret, "env-a")
	t.Setenv(EnvRefreshSecret, "env-b")

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if string(cfg.JWT.AccessSecret) != "env-a" || string(cfg.JWT.RefreshSecret) != "env-b" {
		t.Fatalf("env overrides not applied: %q / %q", cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret)
	}
}

func TestLoadConfigFileRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, `
jwt:
  access_secret: a
  refresh_secret: b
  access_ttl: soon
`)

	if _, err := LoadConfigFile(path); err == nil {
		t.Fatal("expected error for bad duration")
	}
}

func TestBuilderRequiresConfigAndStore(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Fatal("expected error without config")
	}
	if _, err := New().WithConfig(DefaultConfig([]byte("a"), []byte("b"))).Build(); err == nil {
		t.Fatal("expected error without user store")
	}
}
