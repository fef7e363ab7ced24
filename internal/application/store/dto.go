package store

import (
	"time"

	"github.com/google/uuid"
	appshared "github.com/storefront/backend/internal/application/shared"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/store"
)

// UpdateStoreRequest represents a request to update the store settings.
// Currencies replaces the whole currency set.
type UpdateStoreRequest struct {
	Name                *string         `json:"name" binding:"omitempty,min=1,max=200"`
	DefaultCurrencyCode *string         `json:"default_currency_code" binding:"omitempty,currency_code"`
	Currencies          *[]string       `json:"currencies" binding:"omitempty,min=1,dive,currency_code"`
	DefaultRegionID     *uuid.UUID      `json:"default_region_id"`
	DefaultLocationID   *uuid.UUID      `json:"default_location_id"`
	SwapLinkTemplate    *string         `json:"swap_link_template" binding:"omitempty,max=500"`
	PaymentLinkTemplate *string         `json:"payment_link_template" binding:"omitempty,max=500"`
	InviteLinkTemplate  *string         `json:"invite_link_template" binding:"omitempty,max=500"`
	Metadata            shared.Metadata `json:"metadata"`
}

// CurrencyListFilter holds the query parameters of the currency list
type CurrencyListFilter struct {
	appshared.ListParams
}

// CurrencyResponse represents a currency in API responses
type CurrencyResponse struct {
	Code         string `json:"code"`
	Symbol       string `json:"symbol"`
	SymbolNative string `json:"symbol_native"`
	Name         string `json:"name"`
}

// StoreResponse represents the store in API responses
type StoreResponse struct {
	ID                  uuid.UUID          `json:"id"`
	Name                string             `json:"name"`
	DefaultCurrencyCode string             `json:"default_currency_code"`
	DefaultCurrency     *CurrencyResponse  `json:"default_currency"`
	Currencies          []CurrencyResponse `json:"currencies"`
	DefaultRegionID     *uuid.UUID         `json:"default_region_id"`
	DefaultLocationID   *uuid.UUID         `json:"default_location_id"`
	SwapLinkTemplate    string             `json:"swap_link_template"`
	PaymentLinkTemplate string             `json:"payment_link_template"`
	InviteLinkTemplate  string             `json:"invite_link_template"`
	Metadata            shared.Metadata    `json:"metadata"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// ToCurrencyResponse converts a domain Currency to CurrencyResponse
func ToCurrencyResponse(c store.Currency) CurrencyResponse {
	return CurrencyResponse{
		Code:         c.Code,
		Symbol:       c.Symbol,
		SymbolNative: c.SymbolNative,
		Name:         c.Name,
	}
}

// ToStoreResponse converts the domain Store to StoreResponse
func ToStoreResponse(s *store.Store) *StoreResponse {
	resp := &StoreResponse{
		ID:                  s.ID,
		Name:                s.Name,
		DefaultCurrencyCode: s.DefaultCurrencyCode,
		Currencies:          make([]CurrencyResponse, 0, len(s.Currencies)),
		DefaultRegionID:     s.DefaultRegionID,
		DefaultLocationID:   s.DefaultLocationID,
		SwapLinkTemplate:    s.SwapLinkTemplate,
		PaymentLinkTemplate: s.PaymentLinkTemplate,
		InviteLinkTemplate:  s.InviteLinkTemplate,
		Metadata:            s.Metadata,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
	if resp.Metadata == nil {
		resp.Metadata = shared.Metadata{}
	}
	for _, c := range s.Currencies {
		cr := ToCurrencyResponse(c)
		resp.Currencies = append(resp.Currencies, cr)
		if c.Code == s.DefaultCurrencyCode {
			resp.DefaultCurrency = &cr
		}
	}
	return resp
}
