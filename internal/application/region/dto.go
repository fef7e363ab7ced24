package region

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appshared "github.com/storefront/backend/internal/application/shared"
	"github.com/storefront/backend/internal/domain/region"
	"github.com/storefront/backend/internal/domain/shared"
)

// CreateRegionRequest represents a request to create a region
type CreateRegionRequest struct {
	Name             string          `json:"name" binding:"required,min=1,max=200"`
	CurrencyCode     string          `json:"currency_code" binding:"required,currency_code"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	TaxCode          string          `json:"tax_code" binding:"max=100"`
	GiftCardsTaxable *bool           `json:"gift_cards_taxable"`
	AutomaticTaxes   *bool           `json:"automatic_taxes"`
	IncludesTax      *bool           `json:"includes_tax"`
	Countries        []string        `json:"countries" binding:"dive,country_code"`
	Metadata         shared.Metadata `json:"metadata"`
}

// UpdateRegionRequest represents a request to update a region. Absent
// fields are left unchanged; Countries replaces the country list.
type UpdateRegionRequest struct {
	Name             *string          `json:"name" binding:"omitempty,min=1,max=200"`
	CurrencyCode     *string          `json:"currency_code" binding:"omitempty,currency_code"`
	TaxRate          *decimal.Decimal `json:"tax_rate"`
	TaxCode          *string          `json:"tax_code" binding:"omitempty,max=100"`
	GiftCardsTaxable *bool            `json:"gift_cards_taxable"`
	AutomaticTaxes   *bool            `json:"automatic_taxes"`
	IncludesTax      *bool            `json:"includes_tax"`
	Countries        *[]string        `json:"countries" binding:"omitempty,dive,country_code"`
	Metadata         shared.Metadata  `json:"metadata"`
}

// AddCountryRequest is the body of POST /admin/regions/{id}/countries
type AddCountryRequest struct {
	CountryCode string `json:"country_code" binding:"required,country_code"`
}

// RegionListFilter holds the query parameters of the region list
type RegionListFilter struct {
	appshared.ListParams
	CurrencyCode string `form:"currency_code" binding:"omitempty,currency_code"`
}

// CountryListFilter holds the query parameters of the country list
type CountryListFilter struct {
	appshared.ListParams
	RegionID string `form:"region_id" binding:"omitempty,uuid"`
}

// CountryResponse represents a country in API responses
type CountryResponse struct {
	ID          int        `json:"id"`
	ISO2        string     `json:"iso_2"`
	ISO3        string     `json:"iso_3"`
	NumCode     int        `json:"num_code"`
	Name        string     `json:"name"`
	DisplayName string     `json:"display_name"`
	RegionID    *uuid.UUID `json:"region_id"`
}

// RegionResponse represents a region in API responses
type RegionResponse struct {
	ID               uuid.UUID         `json:"id"`
	Name             string            `json:"name"`
	CurrencyCode     string            `json:"currency_code"`
	TaxRate          decimal.Decimal   `json:"tax_rate"`
	TaxCode          string            `json:"tax_code"`
	GiftCardsTaxable bool              `json:"gift_cards_taxable"`
	AutomaticTaxes   bool              `json:"automatic_taxes"`
	IncludesTax      bool              `json:"includes_tax"`
	Countries        []CountryResponse `json:"countries"`
	Metadata         shared.Metadata   `json:"metadata"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// ToCountryResponse converts a domain Country to CountryResponse
func ToCountryResponse(c region.Country) CountryResponse {
	return CountryResponse{
		ID:          c.ID,
		ISO2:        c.ISO2,
		ISO3:        c.ISO3,
		NumCode:     c.NumCode,
		Name:        c.Name,
		DisplayName: c.DisplayName,
		RegionID:    c.RegionID,
	}
}

// ToRegionResponse converts a domain Region to RegionResponse
func ToRegionResponse(r *region.Region) *RegionResponse {
	countries := make([]CountryResponse, 0, len(r.Countries))
	for _, c := range r.Countries {
		countries = append(countries, ToCountryResponse(c))
	}
	metadata := r.Metadata
	if metadata == nil {
		metadata = shared.Metadata{}
	}
	return &RegionResponse{
		ID:               r.ID,
		Name:             r.Name,
		CurrencyCode:     r.CurrencyCode,
		TaxRate:          r.TaxRate,
		TaxCode:          r.TaxCode,
		GiftCardsTaxable: r.GiftCardsTaxable,
		AutomaticTaxes:   r.AutomaticTaxes,
		IncludesTax:      r.IncludesTax,
		Countries:        countries,
		Metadata:         metadata,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
