package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInviteRouter(t *testing.T) (*gin.Engine, *services) {
	t.Helper()
	s := newServices(t)
	adminID := s.createUser(t, "admin@storefront.test", "supersecret", "admin")
	h := NewInviteHandler(s.invites)

	router := newAdminRouter(adminID, "admin")
	router.POST("/admin/invites", h.Create)
	router.GET("/admin/invites", h.List)
	router.DELETE("/admin/invites/:id", h.Delete)
	router.POST("/admin/invites/:id/resend", h.Resend)
	router.POST("/admin/invites/accept", h.Accept)
	router.POST("/admin/auth", NewAuthHandler(s.auth).Login)
	return router, s
}

func createInvite(t *testing.T, router http.Handler, email, role string) InviteEnvelope {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/admin/invites", map[string]string{"user": email, "role": role})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env, _ := decodeData[InviteEnvelope](t, w)
	return env
}

func acceptBody(token string) map[string]any {
	return map[string]any{
		"token": token,
		"user": map[string]string{
			"first_name": "Anthony",
			"last_name":  "Davis",
			"password":   "supersecret",
		},
	}
}

func TestInviteHandler_CreateAndList(t *testing.T) {
	router, _ := newInviteRouter(t)

	env := createInvite(t, router, "New@Storefront.test", "developer")
	assert.Equal(t, "new@storefront.test", env.Invite.UserEmail)
	assert.Equal(t, "developer", env.Invite.Role)
	assert.NotEmpty(t, env.Invite.Token)
	assert.False(t, env.Invite.Accepted)

	t.Run("inviting the same address again reissues the invite", func(t *testing.T) {
		again := createInvite(t, router, "new@storefront.test", "member")
		assert.Equal(t, env.Invite.ID, again.Invite.ID)
		assert.Equal(t, "member", again.Invite.Role)

		w := doJSON(router, http.MethodGet, "/admin/invites", nil)
		require.Equal(t, http.StatusOK, w.Code)
		list, meta := decodeData[InviteListEnvelope](t, w)
		assert.Equal(t, int64(1), meta.Count)
		require.Len(t, list.Invites, 1)
	})

	t.Run("existing user", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/admin/invites", map[string]string{"user": "admin@storefront.test"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeAlreadyExists, errorCodeOf(t, w))
	})

	t.Run("invalid email", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/admin/invites", map[string]string{"user": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestInviteHandler_Accept(t *testing.T) {
	router, s := newInviteRouter(t)
	env := createInvite(t, router, "new@storefront.test", "member")

	w := doJSON(router, http.MethodPost, "/admin/invites/accept", acceptBody(env.Invite.Token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user, _ := decodeData[UserEnvelope](t, w)
	assert.Equal(t, "new@storefront.test", user.User.Email)
	assert.Equal(t, "member", user.User.Role)
	assert.Equal(t, "Davis", user.User.LastName)
	assert.Contains(t, s.events.HandledTypes(), identity.EventTypeUserCreated)

	w = doJSON(router, http.MethodPost, "/admin/auth",
		map[string]string{"email": "new@storefront.test", "password": "supersecret"})
	assert.Equal(t, http.StatusOK, w.Code)

	t.Run("an invite is accepted once", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/admin/invites/accept", acceptBody(env.Invite.Token))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("accepted invites cannot be resent", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/admin/invites/"+env.Invite.ID.String()+"/resend", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/admin/invites/accept", acceptBody("not-a-token"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, errorCodeOf(t, w))
	})

	t.Run("missing user details", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/admin/invites/accept", map[string]any{"token": env.Invite.Token})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestInviteHandler_ResendReplacesToken(t *testing.T) {
	router, _ := newInviteRouter(t)
	env := createInvite(t, router, "new@storefront.test", "member")

	w := doJSON(router, http.MethodPost, "/admin/invites/"+env.Invite.ID.String()+"/resend", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resent, _ := decodeData[InviteEnvelope](t, w)
	assert.NotEqual(t, env.Invite.Token, resent.Invite.Token)
	assert.False(t, resent.Invite.ExpiresAt.Before(env.Invite.ExpiresAt))

	w = doJSON(router, http.MethodPost, "/admin/invites/accept", acceptBody(env.Invite.Token))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPost, "/admin/invites/accept", acceptBody(resent.Invite.Token))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(router, http.MethodPost, "/admin/invites/"+uuid.NewString()+"/resend", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInviteHandler_Delete(t *testing.T) {
	router, _ := newInviteRouter(t)
	env := createInvite(t, router, "new@storefront.test", "member")
	path := "/admin/invites/" + env.Invite.ID.String()

	w := doJSON(router, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, "/admin/invites/accept", acceptBody(env.Invite.Token))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.Equal(t, http.StatusOK, doJSON(router, http.MethodDelete, path, nil).Code)
}
