package models

import (
	"github.com/storefront/backend/internal/domain/location"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// LocationModel is the persistence model for stock locations
type LocationModel struct {
	SoftDeleteModel
	Name     string              `gorm:"type:varchar(200);not null"`
	Address  valueobject.Address `gorm:"type:jsonb"`
	Metadata JSONMap             `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (LocationModel) TableName() string {
	return "stock_locations"
}

// ToDomain converts the model to a domain Location
func (m *LocationModel) ToDomain() *location.Location {
	return &location.Location{
		BaseAggregateRoot: m.ToDomainSoftDelete(),
		Name:              m.Name,
		Address:           m.Address,
		Metadata:          MetadataToDomain(m.Metadata),
	}
}

// LocationModelFromDomain converts a domain Location to its model
func LocationModelFromDomain(l *location.Location) *LocationModel {
	m := &LocationModel{
		Name:     l.Name,
		Address:  l.Address,
		Metadata: MetadataToModel(l.Metadata),
	}
	m.FromDomainSoftDelete(l.BaseAggregateRoot)
	return m
}
