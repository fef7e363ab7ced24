package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/storefront/backend/internal/application/identity"
)

// InviteEnvelope wraps a single invite
type InviteEnvelope struct {
	Invite *identityapp.InviteResponse `json:"invite"`
}

// InviteListEnvelope wraps a page of invites
type InviteListEnvelope struct {
	Invites []identityapp.InviteResponse `json:"invites"`
}

// InviteHandler handles admin invites
type InviteHandler struct {
	BaseHandler
	inviteService *identityapp.InviteService
}

// NewInviteHandler creates a new InviteHandler
func NewInviteHandler(inviteService *identityapp.InviteService) *InviteHandler {
	return &InviteHandler{inviteService: inviteService}
}

// Create godoc
// @ID           createInvite
//
//	@Summary		Invite an admin user
//	@Description	Create an invite, or refresh the pending invite of the same email
//	@Tags			invites
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identityapp.CreateInviteRequest	true	"Invite"
//	@Success		200		{object}	APIResponse[InviteEnvelope]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/invites [post]
func (h *InviteHandler) Create(c *gin.Context) {
	var req identityapp.CreateInviteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	invite, err := h.inviteService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, InviteEnvelope{Invite: invite})
}

// List godoc
// @ID           listInvites
//
//	@Summary		List invites
//	@Tags			invites
//	@Produce		json
//	@Param			offset	query		int	false	"Number of invites to skip"	default(0)
//	@Param			limit	query		int	false	"Page size"					default(50)
//	@Success		200		{object}	APIResponse[InviteListEnvelope]
//	@Security		BearerAuth
//	@Router			/admin/invites [get]
func (h *InviteHandler) List(c *gin.Context) {
	var filter identityapp.InviteListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	invites, count, err := h.inviteService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, InviteListEnvelope{Invites: invites}, count, filter.ListParams)
}

// Delete godoc
// @ID           deleteInvite
//
//	@Summary		Delete an invite
//	@Tags			invites
//	@Produce		json
//	@Param			id	path		string	true	"Invite ID"	format(uuid)
//	@Success		200	{object}	appshared.DeleteResponse
//	@Security		BearerAuth
//	@Router			/admin/invites/{id} [delete]
func (h *InviteHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "invite")
	if !ok {
		return
	}

	resp, err := h.inviteService.Delete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Resend godoc
// @ID           resendInvite
//
//	@Summary		Resend an invite
//	@Description	Issue a fresh token and expiry for a pending invite
//	@Tags			invites
//	@Produce		json
//	@Param			id	path		string	true	"Invite ID"	format(uuid)
//	@Success		200	{object}	APIResponse[InviteEnvelope]
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/invites/{id}/resend [post]
func (h *InviteHandler) Resend(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "invite")
	if !ok {
		return
	}

	invite, err := h.inviteService.Resend(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, InviteEnvelope{Invite: invite})
}

// Accept godoc
// @ID           acceptInvite
//
//	@Summary		Accept an invite
//	@Description	Create the invited user from an invite token
//	@Tags			invites
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identityapp.AcceptInviteRequest	true	"Token and user details"
//	@Success		200		{object}	APIResponse[UserEnvelope]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/admin/invites/accept [post]
func (h *InviteHandler) Accept(c *gin.Context) {
	var req identityapp.AcceptInviteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.inviteService.Accept(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, UserEnvelope{User: user})
}
