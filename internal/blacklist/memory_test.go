package blacklist

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_SetThenGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Set(ctx, "jti-1", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	ok, err := s.Get(ctx, "jti-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Error("jti-1 should be blacklisted")
	}

	ok, err = s.Get(ctx, "jti-other")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("jti-other should not be blacklisted")
	}
}

func TestMemoryStore_EntryExpires(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	now := time.Now().UTC()
	s.nowF = func() time.Time { return now }

	if err := s.Set(ctx, "jti-1", 15*time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ok, _ := s.Get(ctx, "jti-1"); !ok {
		t.Fatal("entry should be present before TTL elapses")
	}

	now = now.Add(15*time.Minute + time.Second)
	if ok, _ := s.Get(ctx, "jti-1"); ok {
		t.Error("entry should be gone after TTL elapses")
	}
	// Lazy deletion removed the key entirely.
	s.mu.RLock()
	_, present := s.m[keyPrefix+"jti-1"]
	s.mu.RUnlock()
	if present {
		t.Error("expired entry should be deleted on read")
	}
}

func TestMemoryStore_NonPositiveTTLIsNoop(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Set(ctx, "jti-1", 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "jti-2", -time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ok, _ := s.Get(ctx, "jti-1"); ok {
		t.Error("zero TTL should not create an entry")
	}
	if ok, _ := s.Get(ctx, "jti-2"); ok {
		t.Error("negative TTL should not create an entry")
	}
}
