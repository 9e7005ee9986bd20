package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestLogHooksCountFetches(t *testing.T) {
	var buf bytes.Buffer
	h := newLogHooks(newLogger(&buf, log.DebugLevel))

	var mu sync.Mutex
	var last string
	h.progress = func(s string) {
		mu.Lock()
		last = s
		mu.Unlock()
	}

	ctx := context.Background()
	h.OnResolveStart(ctx, "run-1", "app", 2)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.OnFetch(ctx, "pkg", 1, "ok", time.Millisecond, nil)
		}()
	}
	wg.Wait()
	h.OnFetch(ctx, "ghost", 2, "not found", time.Millisecond, errors.New("missing"))

	if got := h.fetches(); got != 11 {
		t.Errorf("fetches() = %d, want 11", got)
	}
	if !strings.Contains(last, "ghost") || !strings.Contains(last, "11 fetched") {
		t.Errorf("last progress = %q", last)
	}

	h.OnResolveComplete(ctx, "run-1", "app", 11, 10, time.Second, nil)
	if !strings.Contains(buf.String(), "failed=1") {
		t.Errorf("completion log missing failure count:\n%s", buf.String())
	}

	h.OnResolveStart(ctx, "run-2", "app", 2)
	if got := h.fetches(); got != 0 {
		t.Errorf("fetches() = %d after a new run started, want 0", got)
	}
}

func TestLogHooksHTTPEvents(t *testing.T) {
	var buf bytes.Buffer
	h := newLogHooks(newLogger(&buf, log.DebugLevel))
	ctx := context.Background()

	h.OnRequest(ctx, "GET", "registry.npmjs.org", "/react")
	h.OnResponse(ctx, "GET", "registry.npmjs.org", "/react", 200, 30*time.Millisecond)
	h.OnError(ctx, "GET", "registry.npmjs.org", "/react", errors.New("reset"))

	out := buf.String()
	for _, want := range []string{"http request", "status=200", "http error", "err=reset"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	h := newLogHooks(newLogger(&buf, log.InfoLevel))
	h.OnFetch(context.Background(), "pkg", 0, "ok", time.Millisecond, nil)
	if buf.Len() != 0 {
		t.Errorf("debug events logged at info level: %q", buf.String())
	}
}
