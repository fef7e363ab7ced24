package region

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant for Region
const AggregateTypeRegion = "Region"

// Event type constants for Region
const (
	EventTypeRegionCreated        = "RegionCreated"
	EventTypeRegionUpdated        = "RegionUpdated"
	EventTypeRegionDeleted        = "RegionDeleted"
	EventTypeRegionCountryAdded   = "RegionCountryAdded"
	EventTypeRegionCountryRemoved = "RegionCountryRemoved"
)

// RegionCreatedEvent is published when a new region is created
type RegionCreatedEvent struct {
	shared.BaseDomainEvent
	RegionID     uuid.UUID `json:"region_id"`
	Name         string    `json:"name"`
	CurrencyCode string    `json:"currency_code"`
}

// NewRegionCreatedEvent creates a new RegionCreatedEvent
func NewRegionCreatedEvent(r *Region) *RegionCreatedEvent {
	return &RegionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRegionCreated, AggregateTypeRegion, r.ID),
		RegionID:        r.ID,
		Name:            r.Name,
		CurrencyCode:    r.CurrencyCode,
	}
}

// RegionUpdatedEvent is published when region fields change
type RegionUpdatedEvent struct {
	shared.BaseDomainEvent
	RegionID  uuid.UUID `json:"region_id"`
	Name      string    `json:"name"`
	Countries []string  `json:"countries"`
}

// NewRegionUpdatedEvent creates a new RegionUpdatedEvent
func NewRegionUpdatedEvent(r *Region) *RegionUpdatedEvent {
	return &RegionUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRegionUpdated, AggregateTypeRegion, r.ID),
		RegionID:        r.ID,
		Name:            r.Name,
		Countries:       r.CountryCodes(),
	}
}

// RegionDeletedEvent is published when a region is deleted
type RegionDeletedEvent struct {
	shared.BaseDomainEvent
	RegionID uuid.UUID `json:"region_id"`
}

// NewRegionDeletedEvent creates a new RegionDeletedEvent
func NewRegionDeletedEvent(r *Region) *RegionDeletedEvent {
	return &RegionDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRegionDeleted, AggregateTypeRegion, r.ID),
		RegionID:        r.ID,
	}
}

// RegionCountryAddedEvent is published when a country joins a region
type RegionCountryAddedEvent struct {
	shared.BaseDomainEvent
	RegionID    uuid.UUID `json:"region_id"`
	CountryCode string    `json:"country_code"`
}

// NewRegionCountryAddedEvent creates a new RegionCountryAddedEvent
func NewRegionCountryAddedEvent(r *Region, iso2 string) *RegionCountryAddedEvent {
	return &RegionCountryAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRegionCountryAdded, AggregateTypeRegion, r.ID),
		RegionID:        r.ID,
		CountryCode:     iso2,
	}
}

// RegionCountryRemovedEvent is published when a country leaves a region
type RegionCountryRemovedEvent struct {
	shared.BaseDomainEvent
	RegionID    uuid.UUID `json:"region_id"`
	CountryCode string    `json:"country_code"`
}

// NewRegionCountryRemovedEvent creates a new RegionCountryRemovedEvent
func NewRegionCountryRemovedEvent(r *Region, iso2 string) *RegionCountryRemovedEvent {
	return &RegionCountryRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRegionCountryRemoved, AggregateTypeRegion, r.ID),
		RegionID:        r.ID,
		CountryCode:     iso2,
	}
}
