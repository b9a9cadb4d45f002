package observability

import (
	"context"
	"testing"
	"time"
)

type countingStoreHooks struct {
	actions int
	loads   int
	saves   int
}

func (h *countingStoreHooks) OnAction(context.Context, string, int) { h.actions++ }
func (h *countingStoreHooks) OnLoadComplete(context.Context, int, time.Duration, error) {
	h.loads++
}
func (h *countingStoreHooks) OnSaveComplete(context.Context, int, time.Duration, error) {
	h.saves++
}

type countingCacheHooks struct {
	hits, misses, sets int
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *countingCacheHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *countingCacheHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	// Must not panic.
	Store().OnAction(ctx, "upsertPerson", 1)
	Layout().OnLayoutStart(ctx, 10)
	Layout().OnRenderComplete(ctx, "svg", 1024, time.Millisecond, nil)
	Cache().OnCacheMiss(ctx, "layout")
}

func TestSetAndRetrieveHooks(t *testing.T) {
	t.Cleanup(Reset)
	ctx := context.Background()

	sh := &countingStoreHooks{}
	ch := &countingCacheHooks{}
	SetStoreHooks(sh)
	SetCacheHooks(ch)

	Store().OnAction(ctx, "linkSpouse", 2)
	Store().OnAction(ctx, "deletePerson", 1)
	Cache().OnCacheHit(ctx, "layout")
	Cache().OnCacheSet(ctx, "artifact", 512)

	if sh.actions != 2 {
		t.Errorf("actions = %d, want 2", sh.actions)
	}
	if ch.hits != 1 || ch.sets != 1 {
		t.Errorf("cache counts = %+v", ch)
	}
}

func TestSetNilKeepsExisting(t *testing.T) {
	t.Cleanup(Reset)

	sh := &countingStoreHooks{}
	SetStoreHooks(sh)
	SetStoreHooks(nil)

	Store().OnAction(context.Background(), "setRootPerson", 1)
	if sh.actions != 1 {
		t.Error("nil registration replaced existing hooks")
	}
}

func TestResetRestoresNoops(t *testing.T) {
	sh := &countingStoreHooks{}
	SetStoreHooks(sh)
	Reset()

	Store().OnAction(context.Background(), "replaceGraph", 0)
	if sh.actions != 0 {
		t.Error("Reset did not restore no-op hooks")
	}
}
