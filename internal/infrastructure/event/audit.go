package event

import (
	"context"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// AuditHandler logs every domain event and counts it by entity and action
type AuditHandler struct {
	logger  *zap.Logger
	metrics *telemetry.DomainEvents
}

// NewAuditHandler creates the wildcard audit subscriber. metrics may be nil.
func NewAuditHandler(log *zap.Logger, metrics *telemetry.DomainEvents) *AuditHandler {
	return &AuditHandler{logger: log.Named("audit"), metrics: metrics}
}

// Handle implements shared.EventHandler
func (h *AuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	logger.Enrich(ctx, h.logger).Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	if h.metrics != nil {
		h.metrics.Record(ctx, event.AggregateType(), eventAction(event))
	}
	return nil
}

// EventTypes implements shared.EventHandler
func (h *AuditHandler) EventTypes() []string {
	return nil
}

// eventAction strips the aggregate prefix: RegionCountryAdded -> CountryAdded
func eventAction(event shared.DomainEvent) string {
	if action := strings.TrimPrefix(event.EventType(), event.AggregateType()); action != "" {
		return action
	}
	return event.EventType()
}
