package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/region"
)

// RegionModel is the persistence model for the Region aggregate
type RegionModel struct {
	SoftDeleteModel
	Name             string          `gorm:"type:varchar(200);not null"`
	CurrencyCode     string          `gorm:"type:varchar(3);not null"`
	TaxRate          decimal.Decimal `gorm:"type:numeric(5,4);not null;default:0"`
	TaxCode          string          `gorm:"type:varchar(100)"`
	GiftCardsTaxable bool            `gorm:"not null;default:true"`
	AutomaticTaxes   bool            `gorm:"not null;default:true"`
	IncludesTax      bool            `gorm:"not null;default:false"`
	Metadata         JSONMap         `gorm:"type:jsonb"`
	Countries        []CountryModel  `gorm:"foreignKey:RegionID"`
}

// TableName returns the table name for GORM
func (RegionModel) TableName() string {
	return "regions"
}

// ToDomain converts the model and its preloaded countries to a domain Region
func (m *RegionModel) ToDomain() *region.Region {
	r := &region.Region{
		BaseAggregateRoot: m.ToDomainSoftDelete(),
		Name:              m.Name,
		CurrencyCode:      m.CurrencyCode,
		TaxRate:           m.TaxRate,
		TaxCode:           m.TaxCode,
		GiftCardsTaxable:  m.GiftCardsTaxable,
		AutomaticTaxes:    m.AutomaticTaxes,
		IncludesTax:       m.IncludesTax,
		Metadata:          MetadataToDomain(m.Metadata),
		Countries:         make([]region.Country, 0, len(m.Countries)),
	}
	for i := range m.Countries {
		r.Countries = append(r.Countries, *m.Countries[i].ToDomain())
	}
	return r
}

// RegionModelFromDomain builds a model without countries; country ownership
// is written separately by the repository.
func RegionModelFromDomain(r *region.Region) *RegionModel {
	m := &RegionModel{
		Name:             r.Name,
		CurrencyCode:     r.CurrencyCode,
		TaxRate:          r.TaxRate,
		TaxCode:          r.TaxCode,
		GiftCardsTaxable: r.GiftCardsTaxable,
		AutomaticTaxes:   r.AutomaticTaxes,
		IncludesTax:      r.IncludesTax,
		Metadata:         MetadataToModel(r.Metadata),
	}
	m.FromDomainSoftDelete(r.BaseAggregateRoot)
	return m
}

// CountryModel is ISO 3166-1 reference data
type CountryModel struct {
	ID          int        `gorm:"primaryKey;autoIncrement"`
	ISO2        string     `gorm:"column:iso_2;type:varchar(2);not null;uniqueIndex"`
	ISO3        string     `gorm:"column:iso_3;type:varchar(3);not null"`
	NumCode     int        `gorm:"not null"`
	Name        string     `gorm:"type:varchar(100);not null"`
	DisplayName string     `gorm:"type:varchar(100);not null"`
	RegionID    *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (CountryModel) TableName() string {
	return "countries"
}

// ToDomain converts the model to a domain Country
func (m *CountryModel) ToDomain() *region.Country {
	return &region.Country{
		ID:          m.ID,
		ISO2:        m.ISO2,
		ISO3:        m.ISO3,
		NumCode:     m.NumCode,
		Name:        m.Name,
		DisplayName: m.DisplayName,
		RegionID:    m.RegionID,
	}
}

// CountryModelFromDomain converts a domain Country to its model
func CountryModelFromDomain(c region.Country) *CountryModel {
	return &CountryModel{
		ID:          c.ID,
		ISO2:        region.NormalizeISO2(c.ISO2),
		ISO3:        c.ISO3,
		NumCode:     c.NumCode,
		Name:        c.Name,
		DisplayName: c.DisplayName,
		RegionID:    c.RegionID,
	}
}
