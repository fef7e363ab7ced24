package handler

import (
	"github.com/gin-gonic/gin"
	regionapp "github.com/storefront/backend/internal/application/region"
	storeapp "github.com/storefront/backend/internal/application/store"
)

// CountryListEnvelope wraps a page of countries
type CountryListEnvelope struct {
	Countries []regionapp.CountryResponse `json:"countries"`
}

// CurrencyListEnvelope wraps a page of currencies
type CurrencyListEnvelope struct {
	Currencies []storeapp.CurrencyResponse `json:"currencies"`
}

// ReferenceDataHandler serves the country and currency reference lists
type ReferenceDataHandler struct {
	BaseHandler
	countryService  *regionapp.CountryService
	currencyService *storeapp.CurrencyService
}

// NewReferenceDataHandler creates a new ReferenceDataHandler
func NewReferenceDataHandler(countryService *regionapp.CountryService, currencyService *storeapp.CurrencyService) *ReferenceDataHandler {
	return &ReferenceDataHandler{
		countryService:  countryService,
		currencyService: currencyService,
	}
}

// ListCountries godoc
// @ID           listCountries
//
//	@Summary		List countries
//	@Description	List ISO 3166 countries, optionally filtered by name or code or by region
//	@Tags			countries
//	@Produce		json
//	@Param			q			query		string	false	"Search by name or ISO code"
//	@Param			region_id	query		string	false	"Only countries of this region"	format(uuid)
//	@Param			offset		query		int		false	"Number of countries to skip"	default(0)
//	@Param			limit		query		int		false	"Page size"						default(50)
//	@Success		200			{object}	APIResponse[CountryListEnvelope]
//	@Failure		400			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/countries [get]
func (h *ReferenceDataHandler) ListCountries(c *gin.Context) {
	var filter regionapp.CountryListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	countries, count, err := h.countryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, CountryListEnvelope{Countries: countries}, count, filter.ListParams)
}

// ListCurrencies godoc
// @ID           listCurrencies
//
//	@Summary		List currencies
//	@Tags			currencies
//	@Produce		json
//	@Param			q		query		string	false	"Search by code or name"
//	@Param			offset	query		int		false	"Number of currencies to skip"	default(0)
//	@Param			limit	query		int		false	"Page size"						default(50)
//	@Success		200		{object}	APIResponse[CurrencyListEnvelope]
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/currencies [get]
func (h *ReferenceDataHandler) ListCurrencies(c *gin.Context) {
	var filter storeapp.CurrencyListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	currencies, count, err := h.currencyService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, CurrencyListEnvelope{Currencies: currencies}, count, filter.ListParams)
}
