package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// UserListEnvelope wraps a page of users
type UserListEnvelope struct {
	Users []identityapp.UserResponse `json:"users"`
}

// UserHandler handles admin user management
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// actor builds the acting user from the JWT claims
func (h *UserHandler) actor(c *gin.Context) (identityapp.Actor, bool) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return identityapp.Actor{}, false
	}
	return identityapp.Actor{UserID: userID, Role: identity.UserRole(middleware.GetJWTRole(c))}, true
}

// List godoc
// @ID           listUsers
//
//	@Summary		List admin users
//	@Tags			users
//	@Produce		json
//	@Param			q		query		string	false	"Search by email or name"
//	@Param			role	query		string	false	"Filter by role"	Enums(admin, member, developer)
//	@Param			offset	query		int		false	"Number of users to skip"	default(0)
//	@Param			limit	query		int		false	"Page size"					default(50)
//	@Success		200		{object}	APIResponse[UserListEnvelope]
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	var filter identityapp.UserListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	users, count, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, UserListEnvelope{Users: users}, count, filter.ListParams)
}

// Retrieve godoc
// @ID           getUser
//
//	@Summary		Get an admin user
//	@Tags			users
//	@Produce		json
//	@Param			id	path		string	true	"User ID"	format(uuid)
//	@Success		200	{object}	APIResponse[UserEnvelope]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/users/{id} [get]
func (h *UserHandler) Retrieve(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, UserEnvelope{User: user})
}

// Create godoc
// @ID           createUser
//
//	@Summary		Create an admin user
//	@Description	Admin only
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identityapp.CreateUserRequest	true	"User"
//	@Success		200		{object}	APIResponse[UserEnvelope]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req identityapp.CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, UserEnvelope{User: user})
}

// Update godoc
// @ID           updateUser
//
//	@Summary		Update an admin user
//	@Description	Members may only edit their own names and metadata. Changing roles is admin only.
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"User ID"	format(uuid)
//	@Param			request	body		identityapp.UpdateUserRequest	true	"User fields"
//	@Success		200		{object}	APIResponse[UserEnvelope]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/users/{id} [post]
func (h *UserHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.ParseID(c, "id", "user")
	if !ok {
		return
	}
	var req identityapp.UpdateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, UserEnvelope{User: user})
}

// Delete godoc
// @ID           deleteUser
//
//	@Summary		Delete an admin user
//	@Description	Admin only. Revokes the user's sessions.
//	@Tags			users
//	@Produce		json
//	@Param			id	path		string	true	"User ID"	format(uuid)
//	@Success		200	{object}	appshared.DeleteResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.ParseID(c, "id", "user")
	if !ok {
		return
	}

	resp, err := h.userService.Delete(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
