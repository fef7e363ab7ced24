package models

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/store"
)

// CurrencyModel is ISO 4217 reference data
type CurrencyModel struct {
	Code         string `gorm:"type:varchar(3);primaryKey"`
	Symbol       string `gorm:"type:varchar(16);not null"`
	SymbolNative string `gorm:"type:varchar(16);not null"`
	Name         string `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (CurrencyModel) TableName() string {
	return "currencies"
}

// ToDomain converts the model to a domain Currency
func (m *CurrencyModel) ToDomain() store.Currency {
	return store.Currency{
		Code:         m.Code,
		Symbol:       m.Symbol,
		SymbolNative: m.SymbolNative,
		Name:         m.Name,
	}
}

// CurrencyModelFromDomain converts a domain Currency to its model
func CurrencyModelFromDomain(c store.Currency) *CurrencyModel {
	return &CurrencyModel{
		Code:         c.Code,
		Symbol:       c.Symbol,
		SymbolNative: c.SymbolNative,
		Name:         c.Name,
	}
}

// StoreModel is the persistence model for the Store aggregate
type StoreModel struct {
	AggregateModel
	Name                string     `gorm:"type:varchar(200);not null"`
	DefaultCurrencyCode string     `gorm:"type:varchar(3);not null"`
	DefaultRegionID     *uuid.UUID `gorm:"type:uuid"`
	DefaultLocationID   *uuid.UUID `gorm:"type:uuid"`
	SwapLinkTemplate    string     `gorm:"type:text"`
	PaymentLinkTemplate string     `gorm:"type:text"`
	InviteLinkTemplate  string     `gorm:"type:text"`
	Metadata            JSONMap    `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (StoreModel) TableName() string {
	return "store"
}

// ToDomain converts the model to a domain Store. Currencies are loaded
// separately by the repository.
func (m *StoreModel) ToDomain(currencies []CurrencyModel) *store.Store {
	s := &store.Store{
		BaseAggregateRoot:   m.ToDomainAggregateRoot(),
		Name:                m.Name,
		DefaultCurrencyCode: m.DefaultCurrencyCode,
		Currencies:          make([]store.Currency, 0, len(currencies)),
		DefaultRegionID:     m.DefaultRegionID,
		DefaultLocationID:   m.DefaultLocationID,
		SwapLinkTemplate:    m.SwapLinkTemplate,
		PaymentLinkTemplate: m.PaymentLinkTemplate,
		InviteLinkTemplate:  m.InviteLinkTemplate,
		Metadata:            MetadataToDomain(m.Metadata),
	}
	for i := range currencies {
		s.Currencies = append(s.Currencies, currencies[i].ToDomain())
	}
	return s
}

// StoreModelFromDomain converts a domain Store to its model
func StoreModelFromDomain(s *store.Store) *StoreModel {
	m := &StoreModel{
		Name:                s.Name,
		DefaultCurrencyCode: s.DefaultCurrencyCode,
		DefaultRegionID:     s.DefaultRegionID,
		DefaultLocationID:   s.DefaultLocationID,
		SwapLinkTemplate:    s.SwapLinkTemplate,
		PaymentLinkTemplate: s.PaymentLinkTemplate,
		InviteLinkTemplate:  s.InviteLinkTemplate,
		Metadata:            MetadataToModel(s.Metadata),
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}

// StoreCurrencyModel links the store to the currencies it accepts
type StoreCurrencyModel struct {
	StoreID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	CurrencyCode string    `gorm:"type:varchar(3);primaryKey"`
}

// TableName returns the table name for GORM
func (StoreCurrencyModel) TableName() string {
	return "store_currencies"
}
