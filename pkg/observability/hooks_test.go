package observability

import (
	"context"
	"testing"
	"time"
)

type countingSyncHooks struct {
	starts, completes, resets int
}

func (h *countingSyncHooks) OnSyncStart(context.Context, int64) { h.starts++ }
func (h *countingSyncHooks) OnSyncComplete(context.Context, int, int, time.Duration, error) {
	h.completes++
}
func (h *countingSyncHooks) OnFeedReset(context.Context) { h.resets++ }

func TestSetSyncHooks(t *testing.T) {
	defer Reset()

	h := &countingSyncHooks{}
	SetSyncHooks(h)

	ctx := context.Background()
	Sync().OnSyncStart(ctx, 0)
	Sync().OnSyncComplete(ctx, 10, 2, time.Millisecond, nil)
	Sync().OnFeedReset(ctx)

	if h.starts != 1 || h.completes != 1 || h.resets != 1 {
		t.Errorf("hooks not invoked: %+v", h)
	}
}

func TestSetNilHooksKeepsDefaults(t *testing.T) {
	defer Reset()

	SetSyncHooks(nil)
	SetCacheHooks(nil)
	SetHTTPHooks(nil)

	if _, ok := Sync().(NoopSyncHooks); !ok {
		t.Error("nil registration should keep no-op sync hooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("nil registration should keep no-op cache hooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("nil registration should keep no-op HTTP hooks")
	}
}

func TestReset(t *testing.T) {
	SetSyncHooks(&countingSyncHooks{})
	Reset()

	if _, ok := Sync().(NoopSyncHooks); !ok {
		t.Error("Reset should restore no-op sync hooks")
	}
}
