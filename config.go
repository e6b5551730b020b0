package gatekit

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default token lifetimes. Access tokens are short-lived; refresh tokens
// carry the session.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// DefaultAuditBuffer is the capacity of the async audit queue.
const DefaultAuditBuffer = 256

// JWTConfig holds the signing material and lifetimes for both token
// families. The two secrets must differ so an access token can never be
// replayed as a refresh token or vice versa.
type JWTConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte

	// PreviousAccessSecrets and PreviousRefreshSecrets are retired signing
	// keys still accepted for verification during rotation.
	PreviousAccessSecrets  [][]byte
	PreviousRefreshSecrets [][]byte

	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Issuer, when set, is stamped into every token and enforced on
	// verification.
	Issuer string

	// Leeway tolerates small clock skew on expiry checks. Zero disables
	// it; values above two minutes are rejected.
	Leeway time.Duration
}

// RevocationConfig tunes the logout blacklist.
type RevocationConfig struct {
	// SweepInterval controls how often expired in-memory entries are
	// evicted. Zero disables the background sweeper.
	SweepInterval time.Duration

	// RedisKeyPrefix namespaces blacklist keys when a Redis backend is
	// used. Empty selects the package default.
	RedisKeyPrefix string
}

// AuditConfig tunes the async audit dispatcher.
type AuditConfig struct {
	// Buffer is the queue capacity. Zero selects DefaultAuditBuffer.
	Buffer int
}

// Config is the root configuration consumed by the Builder.
type Config struct {
	JWT        JWTConfig
	Revocation RevocationConfig
	Audit      AuditConfig

	// Metrics enables the internal counters. Disabled counters cost one
	// atomic load per event.
	Metrics bool
}

// DefaultConfig returns a Config with production lifetimes. Secrets must
// still be supplied by the caller.
func DefaultConfig(accessSecret, refreshSecret []byte) Config {
	return Config{
		JWT: JWTConfig{
			AccessSecret:  accessSecret,
			RefreshSecret: refreshSecret,
			AccessTTL:     DefaultAccessTTL,
			RefreshTTL:    DefaultRefreshTTL,
		},
		Audit:   AuditConfig{Buffer: DefaultAuditBuffer},
		Metrics: true,
	}
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if len(c.JWT.AccessSecret) == 0 {
		return errors.New("config: access secret is empty")
	}
	if len(c.JWT.RefreshSecret) == 0 {
		return errors.New("config: refresh secret is empty")
	}
	if string(c.JWT.AccessSecret) == string(c.JWT.RefreshSecret) {
		return errors.New("config: access and refresh secrets must differ")
	}
	if c.JWT.AccessTTL <= 0 {
		return errors.New("config: access TTL must be positive")
	}
	if c.JWT.RefreshTTL <= 0 {
		return errors.New("config: refresh TTL must be positive")
	}
	if c.JWT.Leeway < 0 || c.JWT.Leeway > 2*time.Minute {
		return errors.New("config: leeway must be between 0 and 2m")
	}
	if c.Revocation.SweepInterval < 0 {
		return errors.New("config: sweep interval must not be negative")
	}
	if c.Audit.Buffer < 0 {
		return errors.New("config: audit buffer must not be negative")
	}
	return nil
}

// fileConfig is the YAML shape of a config file. Durations are strings in
// time.ParseDuration syntax.
type fileConfig struct {
	JWT struct {
		AccessSecret  string `yaml:"access_secret"`
		RefreshSecret string `yaml:"refresh_secret"`
		AccessTTL     string `yaml:"access_ttl"`
		RefreshTTL    string `yaml:"refresh_ttl"`
		Issuer        string `yaml:"issuer"`
		Leeway        string `yaml:"leeway"`
	} `yaml:"jwt"`
	Revocation struct {
		SweepInterval  string `yaml:"sweep_interval"`
		RedisKeyPrefix string `yaml:"redis_key_prefix"`
	} `yaml:"revocation"`
	Audit struct {
		Buffer int `yaml:"buffer"`
	} `yaml:"audit"`
	Metrics bool `yaml:"metrics"`
}

// Environment variables overriding the file-provided secrets, so config
// files can be committed without signing material.
const (
	EnvAccessSecret  = "GATEKIT_ACCESS_SECRET"
	EnvRefreshSecret = "GATEKIT_REFRESH_SECRET"
)

// LoadConfigFile reads a YAML config file. Fields left empty fall back to
// the DefaultConfig values; EnvAccessSecret and EnvRefreshSecret, when
// set, take precedence over the file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	if v := os.Getenv(EnvAccessSecret); v != "" {
		fc.JWT.AccessSecret = v
	}
	if v := os.Getenv(EnvRefreshSecret); v != "" {
		fc.JWT.RefreshSecret = v
	}

	cfg := DefaultConfig([]byte(fc.JWT.AccessSecret), []byte(fc.JWT.RefreshSecret))
	cfg.JWT.Issuer = fc.JWT.Issuer
	cfg.Revocation.RedisKeyPrefix = fc.Revocation.RedisKeyPrefix
	cfg.Metrics = fc.Metrics
	if fc.Audit.Buffer > 0 {
		cfg.Audit.Buffer = fc.Audit.Buffer
	}

	durs := []struct {
		raw  string
		name string
		dst  *time.Duration
	}{
		{fc.JWT.AccessTTL, "jwt.access_ttl", &cfg.JWT.AccessTTL},
		{fc.JWT.RefreshTTL, "jwt.refresh_ttl", &cfg.JWT.RefreshTTL},
		{fc.JWT.Leeway, "jwt.leeway", &cfg.JWT.Leeway},
		{fc.Revocation.SweepInterval, "revocation.sweep_interval", &cfg.Revocation.SweepInterval},
	}
	for _, d := range durs {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return Config{}, fmt.Errorf("config field %s: %w", d.name, err)
		}
		*d.dst = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
