package cache

import (
	"context"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Errorf("Get(missing) = hit=%v err=%v, want miss", hit, err)
	}

	if err := c.Set(ctx, "k1", []byte("payload"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k1")
	if err != nil || !hit {
		t.Fatalf("Get(k1) = hit=%v err=%v, want hit", hit, err)
	}
	if string(data) != "payload" {
		t.Errorf("data = %q, want payload", data)
	}

	if err := c.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k1"); hit {
		t.Error("entry survived Delete")
	}
}

func TestFileCacheExpiration(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "short", []byte("x"), time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry returned as hit")
	}
}

func TestFileCacheDeleteMissing(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if err := c.Delete(context.Background(), "never-set"); err != nil {
		t.Errorf("Delete(missing) = %v, want nil", err)
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("null cache stored a value")
	}
}

func TestKeyerDistinguishesInputs(t *testing.T) {
	k := NewDefaultKeyer()

	base := k.CanvasKey("hash-a", CanvasKeyOpts{RowHeight: 36})
	if k.CanvasKey("hash-a", CanvasKeyOpts{RowHeight: 36}) != base {
		t.Error("identical inputs produced different keys")
	}
	if k.CanvasKey("hash-b", CanvasKeyOpts{RowHeight: 36}) == base {
		t.Error("different tree hash produced the same key")
	}
	if k.CanvasKey("hash-a", CanvasKeyOpts{RowHeight: 40}) == base {
		t.Error("different geometry produced the same key")
	}

	art := k.ArtifactKey("hash-a", ArtifactKeyOpts{Format: "svg"})
	if k.ArtifactKey("hash-a", ArtifactKeyOpts{Format: "json"}) == art {
		t.Error("different format produced the same key")
	}
}

func TestHash(t *testing.T) {
	a := Hash([]byte("data"))
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64", len(a))
	}
	if a != Hash([]byte("data")) {
		t.Error("hash not deterministic")
	}
	if a == Hash([]byte("other")) {
		t.Error("distinct inputs collided")
	}
}
