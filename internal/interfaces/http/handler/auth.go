package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// UserEnvelope wraps a single user
type UserEnvelope struct {
	User *identityapp.UserResponse `json:"user"`
}

// AuthHandler handles admin session endpoints
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// @ID           login
//
//	@Summary		Log in
//	@Description	Authenticate with email and password and receive an access and refresh token pair
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identityapp.LoginInput	true	"Credentials"
//	@Success		200		{object}	APIResponse[identityapp.LoginResult]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		423		{object}	ErrorResponse
//	@Router			/admin/auth [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input identityapp.LoginInput
	if !h.BindJSON(c, &input) {
		return
	}
	input.IP = c.ClientIP()

	result, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Refresh godoc
// @ID           refreshToken
//
//	@Summary		Refresh the session
//	@Description	Exchange a refresh token for a new token pair
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identityapp.RefreshTokenInput	true	"Refresh token"
//	@Success		200		{object}	APIResponse[identityapp.RefreshTokenResult]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/admin/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var input identityapp.RefreshTokenInput
	if !h.BindJSON(c, &input) {
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetSession godoc
// @ID           getSession
//
//	@Summary		Get the current session
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	APIResponse[UserEnvelope]
//	@Failure		401	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/auth [get]
func (h *AuthHandler) GetSession(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, UserEnvelope{User: user})
}

// Logout godoc
// @ID           logout
//
//	@Summary		Log out
//	@Description	Revoke the access token used for this request
//	@Tags			auth
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/auth [delete]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	userID, err := claims.UserUUID()
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	err = h.authService.Logout(c.Request.Context(), identityapp.LogoutInput{
		UserID:   userID,
		TokenJTI: claims.ID,
		TokenTTL: claims.RemainingTTL(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
