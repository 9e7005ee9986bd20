package cli

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks binds resolver and registry HTTP events to the CLI logger.
// OnFetch runs on resolver worker goroutines, so all state is atomic.
type logHooks struct {
	logger  *log.Logger
	fetched atomic.Int64
	failed  atomic.Int64

	// progress, when set, receives a one-line status after every fetch.
	progress func(string)
}

func newLogHooks(logger *log.Logger) *logHooks {
	return &logHooks{logger: logger}
}

func (h *logHooks) OnResolveStart(_ context.Context, runID, root string, maxDepth int) {
	h.fetched.Store(0)
	h.failed.Store(0)
	h.logger.Debug("resolve started", "run", runID, "root", root, "max_depth", maxDepth)
}

func (h *logHooks) OnFetch(_ context.Context, pkg string, depth int, outcome string, d time.Duration, err error) {
	n := h.fetched.Add(1)
	if err != nil {
		h.failed.Add(1)
		h.logger.Debug("fetch", "package", pkg, "depth", depth, "outcome", outcome, "took", d.Round(time.Millisecond), "err", err)
	} else {
		h.logger.Debug("fetch", "package", pkg, "depth", depth, "outcome", outcome, "took", d.Round(time.Millisecond))
	}
	if h.progress != nil {
		h.progress(fmt.Sprintf("Resolving %s (depth %d, %d fetched)", pkg, depth, n))
	}
}

func (h *logHooks) OnResolveComplete(_ context.Context, runID, root string, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("resolve aborted", "run", runID, "root", root, "err", err)
		return
	}
	h.logger.Debug("resolve complete", "run", runID, "root", root,
		"nodes", nodes, "edges", edges, "failed", h.failed.Load(), "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}

// fetches returns the number of fetches seen since the last run started.
func (h *logHooks) fetches() int64 { return h.fetched.Load() }
