package cache

import (
	"testing"
	"time"
)

func TestSetAndGet(t *testing.T) {
	c := New[string](time.Second, 10)
	c.Set("key1", "value1")
	val, ok := c.Get("key1")
	if !ok || val != "value1" {
		t.Fatalf("expected value1, got %v, exists=%v", val, ok)
	}
}

func TestExpiration(t *testing.T) {
	now := time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC)
	c := New[int](time.Minute, 10)
	c.now = func() time.Time { return now }
	c.Set("key1", 1)

	now = now.Add(59 * time.Second)
	if _, ok := c.Get("key1"); !ok {
		t.Fatal("expected key to be live before ttl")
	}
	now = now.Add(2 * time.Second)
	if _, ok := c.Get("key1"); ok {
		t.Fatal("expected expired key to return false")
	}
}

func TestDelete(t *testing.T) {
	c := New[string](time.Second, 10)
	c.Set("key1", "value1")
	c.remove("key1")
	if _, ok := c.Get("key1"); ok {
		t.Fatal("expected deleted key to return false")
	}
}

func TestSizeBound(t *testing.T) {
	now := time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC)
	c := New[int](time.Minute, 2)
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	now = now.Add(2 * time.Minute)
	c.Set("b", 2)
	c.Set("c", 3)
	if c.size() != 2 {
		t.Fatalf("expected expired entry to be evicted, len=%d", c.size())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("a should be gone")
	}

	c.Set("d", 4)
	if c.size() != 1 {
		t.Fatalf("expected reset when full of live entries, len=%d", c.size())
	}
	if v, ok := c.Get("d"); !ok || v != 4 {
		t.Fatalf("d = %v %v", v, ok)
	}
}
