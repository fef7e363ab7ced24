package store

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant for Store
const AggregateTypeStore = "Store"

// EventTypeStoreUpdated is published whenever store settings change
const EventTypeStoreUpdated = "StoreUpdated"

// StoreUpdatedEvent carries the store settings after a change
type StoreUpdatedEvent struct {
	shared.BaseDomainEvent
	StoreID             uuid.UUID `json:"store_id"`
	Name                string    `json:"name"`
	DefaultCurrencyCode string    `json:"default_currency_code"`
	Currencies          []string  `json:"currencies"`
}

// NewStoreUpdatedEvent creates a new StoreUpdatedEvent
func NewStoreUpdatedEvent(s *Store) *StoreUpdatedEvent {
	return &StoreUpdatedEvent{
		BaseDomainEvent:     shared.NewBaseDomainEvent(EventTypeStoreUpdated, AggregateTypeStore, s.ID),
		StoreID:             s.ID,
		Name:                s.Name,
		DefaultCurrencyCode: s.DefaultCurrencyCode,
		Currencies:          s.CurrencyCodes(),
	}
}
