// Package revocation tracks invalidated access tokens until their natural
// expiry. Entries are keyed by token ID, so revoking an already-revoked
// token is a no-op, and an entry may safely be evicted once the token it
// names would fail expiry validation anyway.
package revocation

import (
	"context"
	"sync"
	"time"
)

// Registry is the shared mutable state behind the logout flow. All methods
// must be safe for concurrent use from many request handlers.
type Registry interface {
	// Revoke records the token ID as invalid until expiresAt. Idempotent.
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	// IsRevoked reports whether the token ID has been revoked.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	// Sweep evicts entries whose expiry has passed, bounding memory.
	// Safe to run concurrently with Revoke and IsRevoked; an entry swept
	// late causes no incorrect acceptance because the underlying token
	// independently fails the expiry check.
	Sweep(now time.Time) int
}

// Memory is a mutex-guarded in-process Registry.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

// NewMemory returns an empty in-process registry.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]time.Time)}
}

// Revoke implements Registry.
func (m *Memory) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.entries[tokenID]; ok && existing.After(expiresAt) {
		return nil
	}
	m.entries[tokenID] = expiresAt
	return nil
}

// IsRevoked implements Registry.
func (m *Memory) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[tokenID]
	return ok, nil
}

// Sweep implements Registry. It returns the number of evicted entries.
func (m *Memory) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, expiresAt := range m.entries {
		if !expiresAt.After(now) {
			delete(m.entries, id)
			evicted++
		}
	}
	return evicted
}

// Len returns the current number of tracked entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// StartSweeper launches a goroutine that sweeps the registry every
// interval until ctx is cancelled. onEvict, when non-nil, receives the
// eviction count after each pass.
func StartSweeper(ctx context.Context, registry Registry, interval time.Duration, onEvict func(int)) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				evicted := registry.Sweep(now)
				if onEvict != nil {
					onEvict(evicted)
				}
			}
		}
	}()
}
