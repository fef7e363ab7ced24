package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	storeapp "github.com/storefront/backend/internal/application/store"
)

// StoreEnvelope wraps the store settings
type StoreEnvelope struct {
	Store *storeapp.StoreResponse `json:"store"`
}

// StoreHandler handles the store settings endpoints
type StoreHandler struct {
	BaseHandler
	storeService *storeapp.StoreService
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(storeService *storeapp.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// Retrieve godoc
// @ID           getStore
//
//	@Summary		Get the store settings
//	@Tags			store-settings
//	@Produce		json
//	@Success		200	{object}	APIResponse[StoreEnvelope]
//	@Failure		401	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/store [get]
func (h *StoreHandler) Retrieve(c *gin.Context) {
	st, err := h.storeService.Retrieve(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, StoreEnvelope{Store: st})
}

// Update godoc
// @ID           updateStore
//
//	@Summary		Update the store settings
//	@Description	The default currency must be one of the store currencies. currencies replaces the set.
//	@Tags			store-settings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		storeapp.UpdateStoreRequest	true	"Store fields"
//	@Success		200		{object}	APIResponse[StoreEnvelope]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/store [post]
func (h *StoreHandler) Update(c *gin.Context) {
	var req storeapp.UpdateStoreRequest
	if !h.BindJSON(c, &req) {
		return
	}

	st, err := h.storeService.Update(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, StoreEnvelope{Store: st})
}

// AddCurrency godoc
// @ID           addStoreCurrency
//
//	@Summary		Add a currency to the store
//	@Tags			store-settings
//	@Produce		json
//	@Param			code	path		string	true	"ISO 4217 code"
//	@Success		200		{object}	APIResponse[StoreEnvelope]
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/store/currencies/{code} [post]
func (h *StoreHandler) AddCurrency(c *gin.Context) {
	st, err := h.storeService.AddCurrency(c.Request.Context(), strings.TrimSpace(c.Param("code")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, StoreEnvelope{Store: st})
}

// RemoveCurrency godoc
// @ID           removeStoreCurrency
//
//	@Summary		Remove a currency from the store
//	@Description	The default currency cannot be removed
//	@Tags			store-settings
//	@Produce		json
//	@Param			code	path		string	true	"ISO 4217 code"
//	@Success		200		{object}	APIResponse[StoreEnvelope]
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/store/currencies/{code} [delete]
func (h *StoreHandler) RemoveCurrency(c *gin.Context) {
	st, err := h.storeService.RemoveCurrency(c.Request.Context(), strings.TrimSpace(c.Param("code")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, StoreEnvelope{Store: st})
}
