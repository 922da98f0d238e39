package cache

import (
	"context"
	"testing"
	"time"
)

type sample struct {
	Team   string `json:"team"`
	Amount int64  `json:"amount"`
}

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.SetJSON(ctx, "pending:123", sample{Team: "Lakers", Amount: 50}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got sample
	ok, err := m.GetJSON(ctx, "pending:123", &got)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Team != "Lakers" || got.Amount != 50 {
		t.Errorf("got %+v", got)
	}
}

func TestMemoryMiss(t *testing.T) {
	m := NewMemory()
	var got sample
	ok, err := m.GetJSON(context.Background(), "absent", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("expected miss")
	}
}

func TestMemoryCorruptedValueIsMiss(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	m.setRaw("pending:123", []byte("{not json"))

	var got sample
	ok, err := m.GetJSON(ctx, "pending:123", &got)
	if err != nil {
		t.Fatalf("corrupted value must not surface an error, got %v", err)
	}
	if ok {
		t.Error("corrupted value must read as a miss")
	}

	// The corrupted entry is dropped, so the TTL probe sees no key.
	if ttl, _ := m.TTL(ctx, "pending:123"); ttl != TTLMissing {
		t.Errorf("ttl after corrupted read = %v, want %v", ttl, TTLMissing)
	}
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	now := time.Now()
	m.now = func() time.Time { return now }

	if err := m.SetJSON(ctx, "k", sample{Team: "Celtics"}, 30*time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}

	if ttl, _ := m.TTL(ctx, "k"); ttl != 30*time.Second {
		t.Errorf("ttl = %v, want 30s", ttl)
	}

	now = now.Add(31 * time.Second)
	var got sample
	ok, _ := m.GetJSON(ctx, "k", &got)
	if ok {
		t.Error("expired entry must read as a miss")
	}
}

func TestMemoryOverwrite(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_ = m.SetJSON(ctx, "pending:A", sample{Team: "Lakers", Amount: 50}, time.Minute)
	_ = m.SetJSON(ctx, "pending:A", sample{Team: "Celtics", Amount: 75}, time.Minute)

	var got sample
	ok, _ := m.GetJSON(ctx, "pending:A", &got)
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Team != "Celtics" || got.Amount != 75 {
		t.Errorf("overwrite leaked old data: %+v", got)
	}
}

func TestMemoryRemoveIdempotent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_ = m.SetJSON(ctx, "k", sample{}, 0)
	if err := m.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := m.Remove(ctx, "k"); err != nil {
		t.Errorf("removing an absent key must not fail: %v", err)
	}
	if ttl, _ := m.TTL(ctx, "k"); ttl != TTLMissing {
		t.Errorf("ttl = %v, want missing", ttl)
	}
}
