package revocation

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryRevokeAndLookup(t *testing.T) {
	ctx := context.Background()
	reg := NewMemory()
	expiry := time.Now().Add(time.Hour)

	revoked, err := reg.IsRevoked(ctx, "t1")
	if err != nil {
		t.Fatalf("IsRevoked failed: %v", err)
	}
	if revoked {
		t.Fatal("fresh registry must not report t1 revoked")
	}

	if err := reg.Revoke(ctx, "t1", expiry); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		revoked, err = reg.IsRevoked(ctx, "t1")
		if err != nil {
			t.Fatalf("IsRevoked failed: %v", err)
		}
		if !revoked {
			t.Fatal("t1 must stay revoked")
		}
	}
}

func TestMemoryRevokeIdempotent(t *testing.T) {
	ctx := context.Background()
	reg := NewMemory()
	expiry := time.Now().Add(time.Hour)

	if err := reg.Revoke(ctx, "t1", expiry); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if err := reg.Revoke(ctx, "t1", expiry); err != nil {
		t.Fatalf("second Revoke failed: %v", err)
	}

	if got := reg.Len(); got != 1 {
		t.Fatalf("Len = %d, want 1", got)
	}
}

func TestMemorySweepEvictsExpiredOnly(t *testing.T) {
	ctx := context.Background()
	reg := NewMemory()
	now := time.Now()

	if err := reg.Revoke(ctx, "expired", now.Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if err := reg.Revoke(ctx, "live", now.Add(time.Hour)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	if evicted := reg.Sweep(now); evicted != 1 {
		t.Fatalf("Sweep evicted %d entries, want 1", evicted)
	}

	revoked, err := reg.IsRevoked(ctx, "live")
	if err != nil {
		t.Fatalf("IsRevoked failed: %v", err)
	}
	if !revoked {
		t.Fatal("live entry must survive the sweep")
	}

	revoked, err = reg.IsRevoked(ctx, "expired")
	if err != nil {
		t.Fatalf("IsRevoked failed: %v", err)
	}
	if revoked {
		t.Fatal("expired entry must be evicted")
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	reg := NewMemory()
	expiry := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id byte) {
			defer wg.Done()
			tokenID := string([]byte{'t', id})
			for j := 0; j < 100; j++ {
				_ = reg.Revoke(ctx, tokenID, expiry)
				_, _ = reg.IsRevoked(ctx, tokenID)
				reg.Sweep(time.Now())
			}
		}(byte('0' + i))
	}
	wg.Wait()

	if got := reg.Len(); got != 8 {
		t.Fatalf("Len = %d, want 8", got)
	}
}

func TestStartSweeper(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := NewMemory()
	if err := reg.Revoke(ctx, "expired", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	evictions := make(chan int, 1)
	StartSweeper(ctx, reg, 10*time.Millisecond, func(n int) {
		if n > 0 {
			select {
			case evictions <- n:
			default:
			}
		}
	})

	select {
	case n := <-evictions:
		if n != 1 {
			t.Fatalf("sweeper evicted %d entries, want 1", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper never evicted the expired entry")
	}
}
