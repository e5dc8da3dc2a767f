package library

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/booknotes/pkg/metrics"
)

// writeHooks runs after every committed write: count it, drop cached
// views and announce the change. Failures here are logged only.
type writeHooks struct {
	cache  ViewCache
	events EventPublisher
	logger *zap.Logger
}

func newWriteHooks(cache ViewCache, events EventPublisher, logger *zap.Logger) writeHooks {
	if cache == nil {
		cache = NopCache{}
	}
	if events == nil {
		events = NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return writeHooks{cache: cache, events: events, logger: logger}
}

func (h writeHooks) committed(ctx context.Context, eventType string, bookID, entityID uint) {
	metrics.IncCatalogWrite(eventType)

	if err := h.cache.InvalidateAll(ctx); err != nil {
		h.logger.Warn("view cache invalidation failed", zap.String("event", eventType), zap.Error(err))
	}

	evt := Event{
		Type:       eventType,
		BookID:     bookID,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	}
	if err := h.events.Publish(ctx, eventType, evt); err != nil {
		h.logger.Warn("event publish failed", zap.String("event", eventType), zap.Error(err))
	}
}
