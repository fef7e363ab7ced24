package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	regionapp "github.com/storefront/backend/internal/application/region"
)

// RegionEnvelope wraps a single region
// @Description Response payload carrying one region
type RegionEnvelope struct {
	Region *regionapp.RegionResponse `json:"region"`
}

// RegionListEnvelope wraps a page of regions
// @Description Response payload carrying a page of regions
type RegionListEnvelope struct {
	Regions []regionapp.RegionResponse `json:"regions"`
}

// RegionHandler handles region endpoints of the admin and store surfaces
type RegionHandler struct {
	BaseHandler
	regionService *regionapp.RegionService
}

// NewRegionHandler creates a new RegionHandler
func NewRegionHandler(regionService *regionapp.RegionService) *RegionHandler {
	return &RegionHandler{regionService: regionService}
}

// List godoc
// @ID           listRegions
//
//	@Summary		List regions
//	@Description	List regions with their countries. Supports name search, paging and ordering.
//	@Tags			regions
//	@Produce		json
//	@Param			q				query		string	false	"Search by name"
//	@Param			currency_code	query		string	false	"Filter by currency"
//	@Param			offset			query		int		false	"Number of regions to skip"	default(0)
//	@Param			limit			query		int		false	"Page size"					default(50)
//	@Param			order			query		string	false	"Sort field, prefix with - for descending"
//	@Success		200				{object}	APIResponse[RegionListEnvelope]
//	@Failure		400				{object}	ErrorResponse
//	@Failure		401				{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/regions [get]
func (h *RegionHandler) List(c *gin.Context) {
	var filter regionapp.RegionListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	regions, count, err := h.regionService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, RegionListEnvelope{Regions: regions}, count, filter.ListParams)
}

// Retrieve godoc
// @ID           getRegion
//
//	@Summary		Get a region
//	@Tags			regions
//	@Produce		json
//	@Param			id	path		string	true	"Region ID"	format(uuid)
//	@Success		200	{object}	APIResponse[RegionEnvelope]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/regions/{id} [get]
func (h *RegionHandler) Retrieve(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "region")
	if !ok {
		return
	}

	region, err := h.regionService.Retrieve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, RegionEnvelope{Region: region})
}

// Create godoc
// @ID           createRegion
//
//	@Summary		Create a region
//	@Description	Create a region. The currency must be one of the store's currencies and every country must be unassigned.
//	@Tags			regions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		regionapp.CreateRegionRequest	true	"Region"
//	@Success		200		{object}	APIResponse[RegionEnvelope]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/regions [post]
func (h *RegionHandler) Create(c *gin.Context) {
	var req regionapp.CreateRegionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	region, err := h.regionService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, RegionEnvelope{Region: region})
}

// Update godoc
// @ID           updateRegion
//
//	@Summary		Update a region
//	@Description	Update the fields present in the body. countries replaces the country list.
//	@Tags			regions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Region ID"	format(uuid)
//	@Param			request	body		regionapp.UpdateRegionRequest	true	"Region fields"
//	@Success		200		{object}	APIResponse[RegionEnvelope]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/regions/{id} [post]
func (h *RegionHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "region")
	if !ok {
		return
	}
	var req regionapp.UpdateRegionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	region, err := h.regionService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, RegionEnvelope{Region: region})
}

// Delete godoc
// @ID           deleteRegion
//
//	@Summary		Delete a region
//	@Description	Soft delete a region and release its countries. Deleting a missing region succeeds.
//	@Tags			regions
//	@Produce		json
//	@Param			id	path		string	true	"Region ID"	format(uuid)
//	@Success		200	{object}	appshared.DeleteResponse
//	@Failure		400	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/regions/{id} [delete]
func (h *RegionHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "region")
	if !ok {
		return
	}

	resp, err := h.regionService.Delete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddCountry godoc
// @ID           addRegionCountry
//
//	@Summary		Add a country to a region
//	@Description	Attach a country by ISO 3166-1 alpha-2 code. Adding a country the region already has is a no-op.
//	@Tags			regions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Region ID"	format(uuid)
//	@Param			request	body		regionapp.AddCountryRequest	true	"Country code"
//	@Success		200		{object}	APIResponse[RegionEnvelope]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/regions/{id}/countries [post]
func (h *RegionHandler) AddCountry(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "region")
	if !ok {
		return
	}
	var req regionapp.AddCountryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	region, err := h.regionService.AddCountry(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, RegionEnvelope{Region: region})
}

// RemoveCountry godoc
// @ID           removeRegionCountry
//
//	@Summary		Remove a country from a region
//	@Tags			regions
//	@Produce		json
//	@Param			id				path		string	true	"Region ID"	format(uuid)
//	@Param			country_code	path		string	true	"ISO 3166-1 alpha-2 code"
//	@Success		200				{object}	APIResponse[RegionEnvelope]
//	@Failure		400				{object}	ErrorResponse
//	@Failure		404				{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/regions/{id}/countries/{country_code} [delete]
func (h *RegionHandler) RemoveCountry(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "region")
	if !ok {
		return
	}

	region, err := h.regionService.RemoveCountry(c.Request.Context(), id, strings.TrimSpace(c.Param("country_code")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, RegionEnvelope{Region: region})
}

// StoreList godoc
// @ID           listStoreRegions
//
//	@Summary		List regions for the storefront
//	@Tags			store
//	@Produce		json
//	@Param			offset	query		int	false	"Number of regions to skip"	default(0)
//	@Param			limit	query		int	false	"Page size"					default(50)
//	@Success		200		{object}	APIResponse[RegionListEnvelope]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		429		{object}	ErrorResponse
//	@Router			/store/regions [get]
func (h *RegionHandler) StoreList(c *gin.Context) {
	var filter regionapp.RegionListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	regions, count, err := h.regionService.StoreList(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, RegionListEnvelope{Regions: regions}, count, filter.ListParams)
}

// StoreRetrieve godoc
// @ID           getStoreRegion
//
//	@Summary		Get a region for the storefront
//	@Tags			store
//	@Produce		json
//	@Param			id	path		string	true	"Region ID"	format(uuid)
//	@Success		200	{object}	APIResponse[RegionEnvelope]
//	@Failure		404	{object}	ErrorResponse
//	@Router			/store/regions/{id} [get]
func (h *RegionHandler) StoreRetrieve(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "region")
	if !ok {
		return
	}

	region, err := h.regionService.StoreRetrieve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, RegionEnvelope{Region: region})
}
