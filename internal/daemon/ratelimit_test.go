package daemon

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(2, time.Hour)
	defer rl.Stop()

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("third request should be limited")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatal("other clients have their own bucket")
	}
}

func TestRateLimiter_Refill(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)
	defer rl.Stop()

	if !rl.Allow("c") {
		t.Fatal("first request should pass")
	}
	if rl.Allow("c") {
		t.Fatal("bucket should be empty")
	}
	time.Sleep(20 * time.Millisecond)
	if !rl.Allow("c") {
		t.Fatal("bucket should refill after the window")
	}
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(1, time.Second)
	rl.Stop()
	rl.Stop()
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("empty cache returned a value")
	}
	if err := c.Set(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}
	if v, ok := c.Get(ctx, "k"); !ok || v != "v" {
		t.Fatalf("Get = %q %v", v, ok)
	}

	for i := 0; i < memoryCacheLimit; i++ {
		_ = c.Set(ctx, fmt.Sprintf("fill-%d", i), "x")
	}
	if n := len(c.data); n > memoryCacheLimit {
		t.Fatalf("cache grew to %d entries, limit %d", n, memoryCacheLimit)
	}
}

func TestNewResultCache_FallsBackToMemory(t *testing.T) {
	// Port 1 on localhost refuses connections.
	c := NewResultCache("127.0.0.1:1", quietLogger())
	defer func() { _ = c.Close() }()
	if c.Name() != "memory" {
		t.Fatalf("Name() = %q, want memory", c.Name())
	}
}

func TestSimulationKey(t *testing.T) {
	a := simulationKey("debt", []byte(`{"x":1}`))
	b := simulationKey("debt", []byte(`{"x":1}`))
	c := simulationKey("fire", []byte(`{"x":1}`))
	if a != b {
		t.Error("key should be deterministic")
	}
	if a == c {
		t.Error("kinds should not collide")
	}
}
