package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. It implements
// all hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnStageStart(_ context.Context, stage Stage) {
	h.logger.Debug("stage started", "stage", stage)
}

func (h *LogHooks) OnStageComplete(_ context.Context, stage Stage, items int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("stage failed", "stage", stage, "duration", d, "err", err)
		return
	}
	h.logger.Debug("stage done", "stage", stage, "items", items, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, backend string) {
	h.logger.Debug("cache hit", "backend", backend)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, backend string) {
	h.logger.Debug("cache miss", "backend", backend)
}

func (h *LogHooks) OnCacheSet(_ context.Context, backend string, size int) {
	h.logger.Debug("cache set", "backend", backend, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
