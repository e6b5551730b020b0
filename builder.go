package gatekit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dkrylov/gatekit/internal/audit"
	"github.com/dkrylov/gatekit/password"
	"github.com/dkrylov/gatekit/revocation"
	"github.com/dkrylov/gatekit/token"
	"github.com/dkrylov/gatekit/userstore"
)

// Builder assembles an Engine. Obtain one with New, chain the With
// methods, then call Build.
type Builder struct {
	cfg       Config
	hasCfg    bool
	redis     redis.UniversalClient
	users     userstore.Store
	hasher    password.Hasher
	auditSink audit.Sink
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

// WithConfig sets the engine configuration. Required.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cfg
	b.hasCfg = true
	return b
}

// WithRedis selects the Redis-backed revocation registry. Without it the
// engine uses the in-memory registry.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithUserStore sets the credential store. Required.
func (b *Builder) WithUserStore(store userstore.Store) *Builder {
	b.users = store
	return b
}

// WithHasher sets the password verifier. Defaults to bcrypt.
func (b *Builder) WithHasher(h password.Hasher) *Builder {
	b.hasher = h
	return b
}

// WithAuditSink enables audit dispatching to the given sink.
func (b *Builder) WithAuditSink(sink audit.Sink) *Builder {
	b.auditSink = sink
	return b
}

// Build validates the configuration and returns a ready Engine. The
// caller owns the engine and must Close it.
func (b *Builder) Build() (*Engine, error) {
	if !b.hasCfg {
		return nil, fmt.Errorf("%w: no config", ErrEngineNotReady)
	}
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}
	if b.users == nil {
		return nil, fmt.Errorf("%w: no user store", ErrEngineNotReady)
	}

	codec, err := token.NewCodec(token.Config{
		AccessSecret:           b.cfg.JWT.AccessSecret,
		RefreshSecret:          b.cfg.JWT.RefreshSecret,
		PreviousAccessSecrets:  b.cfg.JWT.PreviousAccessSecrets,
		PreviousRefreshSecrets: b.cfg.JWT.PreviousRefreshSecrets,
		Issuer:                 b.cfg.JWT.Issuer,
		Leeway:                 b.cfg.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	hasher := b.hasher
	if hasher == nil {
		hasher = password.Bcrypt{}
	}

	e := &Engine{
		cfg:     b.cfg,
		codec:   codec,
		users:   b.users,
		hasher:  hasher,
		metrics: newCounters(b.cfg.Metrics),
	}

	if b.redis != nil {
		e.registry = revocation.NewRedis(b.redis, b.cfg.Revocation.RedisKeyPrefix)
	} else {
		mem := revocation.NewMemory()
		e.registry = mem
		if b.cfg.Revocation.SweepInterval > 0 {
			ctx, cancel := context.WithCancel(context.Background())
			e.sweepStop = cancel
			revocation.StartSweeper(ctx, mem, b.cfg.Revocation.SweepInterval, func(evicted int) {
				e.metrics.add(MetricSweepEvicted, uint64(evicted))
			})
		}
	}

	if b.auditSink != nil {
		e.auditor = audit.NewDispatcher(b.cfg.Audit.Buffer, true, b.auditSink)
	}

	return e, nil
}
