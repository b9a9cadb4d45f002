package cache

import (
	"context"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, ok, _ := c.Get(ctx, "missing"); ok {
		t.Error("unexpected hit for missing key")
	}

	if err := c.Set(ctx, "k", []byte("payload"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(data) != "payload" {
		t.Errorf("data = %q, want payload", data)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("hit after delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set(ctx, "k", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("expired entry served")
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()

	if err := c.Set(ctx, "k", []byte("x"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("null cache stored a value")
	}
}

func TestHashStable(t *testing.T) {
	a := Hash([]byte("graph"))
	b := Hash([]byte("graph"))
	if a != b {
		t.Error("hash not stable")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64", len(a))
	}
	if Hash([]byte("other")) == a {
		t.Error("distinct inputs collided")
	}
}

func TestKeys(t *testing.T) {
	if got := LayoutKey("abc"); got != "layout:abc" {
		t.Errorf("LayoutKey = %q", got)
	}
	if got := ArtifactKey("abc", "svg"); got != "artifact:svg:abc" {
		t.Errorf("ArtifactKey = %q", got)
	}
}
