package location

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant for Location
const AggregateTypeLocation = "StockLocation"

// Event type constants for Location
const (
	EventTypeLocationCreated = "StockLocationCreated"
	EventTypeLocationUpdated = "StockLocationUpdated"
	EventTypeLocationDeleted = "StockLocationDeleted"
)

// LocationEvent is published on every stock location lifecycle change
type LocationEvent struct {
	shared.BaseDomainEvent
	LocationID uuid.UUID `json:"location_id"`
	Name       string    `json:"name"`
}

// NewLocationEvent creates a LocationEvent of the given type
func NewLocationEvent(eventType string, l *Location) *LocationEvent {
	return &LocationEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeLocation, l.ID),
		LocationID:      l.ID,
		Name:            l.Name,
	}
}
