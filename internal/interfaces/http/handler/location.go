package handler

import (
	"github.com/gin-gonic/gin"
	locationapp "github.com/storefront/backend/internal/application/location"
)

// LocationEnvelope wraps a single stock location
type LocationEnvelope struct {
	StockLocation *locationapp.LocationResponse `json:"stock_location"`
}

// LocationListEnvelope wraps a page of stock locations
type LocationListEnvelope struct {
	StockLocations []locationapp.LocationResponse `json:"stock_locations"`
}

// LocationHandler handles stock location endpoints
type LocationHandler struct {
	BaseHandler
	locationService *locationapp.LocationService
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(locationService *locationapp.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// List godoc
// @ID           listStockLocations
//
//	@Summary		List stock locations
//	@Tags			stock-locations
//	@Produce		json
//	@Param			q		query		string	false	"Search by name"
//	@Param			offset	query		int		false	"Number of locations to skip"	default(0)
//	@Param			limit	query		int		false	"Page size"						default(50)
//	@Success		200		{object}	APIResponse[LocationListEnvelope]
//	@Security		BearerAuth
//	@Router			/admin/stock-locations [get]
func (h *LocationHandler) List(c *gin.Context) {
	var filter locationapp.LocationListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	locations, count, err := h.locationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, LocationListEnvelope{StockLocations: locations}, count, filter.ListParams)
}

// Retrieve godoc
// @ID           getStockLocation
//
//	@Summary		Get a stock location
//	@Tags			stock-locations
//	@Produce		json
//	@Param			id	path		string	true	"Stock location ID"	format(uuid)
//	@Success		200	{object}	APIResponse[LocationEnvelope]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/stock-locations/{id} [get]
func (h *LocationHandler) Retrieve(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "stock location")
	if !ok {
		return
	}

	loc, err := h.locationService.Retrieve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, LocationEnvelope{StockLocation: loc})
}

// Create godoc
// @ID           createStockLocation
//
//	@Summary		Create a stock location
//	@Tags			stock-locations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		locationapp.CreateLocationRequest	true	"Stock location"
//	@Success		200		{object}	APIResponse[LocationEnvelope]
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/stock-locations [post]
func (h *LocationHandler) Create(c *gin.Context) {
	var req locationapp.CreateLocationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	loc, err := h.locationService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, LocationEnvelope{StockLocation: loc})
}

// Update godoc
// @ID           updateStockLocation
//
//	@Summary		Update a stock location
//	@Tags			stock-locations
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Stock location ID"	format(uuid)
//	@Param			request	body		locationapp.UpdateLocationRequest	true	"Stock location fields"
//	@Success		200		{object}	APIResponse[LocationEnvelope]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/stock-locations/{id} [post]
func (h *LocationHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "stock location")
	if !ok {
		return
	}
	var req locationapp.UpdateLocationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	loc, err := h.locationService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, LocationEnvelope{StockLocation: loc})
}

// Delete godoc
// @ID           deleteStockLocation
//
//	@Summary		Delete a stock location
//	@Description	Soft delete. Clears the store's default location when it pointed here.
//	@Tags			stock-locations
//	@Produce		json
//	@Param			id	path		string	true	"Stock location ID"	format(uuid)
//	@Success		200	{object}	appshared.DeleteResponse
//	@Security		BearerAuth
//	@Router			/admin/stock-locations/{id} [delete]
func (h *LocationHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "stock location")
	if !ok {
		return
	}

	resp, err := h.locationService.Delete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
