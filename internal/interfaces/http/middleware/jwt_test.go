package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "storefront-test",
		MaxRefreshCount:        3,
	})
}

func newTestTokenPair(t *testing.T, svc *auth.JWTService, role string) (*auth.TokenPair, auth.Subject) {
	t.Helper()
	subject := auth.Subject{UserID: uuid.New(), Email: "admin@storefront.test", Role: role}
	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)
	return pair, subject
}

func doRequest(router http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWTService()
	blacklist := auth.NewMemoryTokenBlacklist()

	router := gin.New()
	router.Use(RequestID(), JWTAuthMiddleware(svc, blacklist))
	router.GET("/admin/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": GetJWTUserID(c),
			"email":   GetJWTEmail(c),
			"role":    GetJWTRole(c),
			"actor":   logger.GetActorID(c.Request.Context()),
		})
	})

	t.Run("valid token exposes claims", func(t *testing.T) {
		pair, subject := newTestTokenPair(t, svc, "admin")
		w := doRequest(router, http.MethodGet, "/admin/me", pair.AccessToken)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, subject.UserID.String(), body["user_id"])
		assert.Equal(t, subject.Email, body["email"])
		assert.Equal(t, "admin", body["role"])
		assert.Equal(t, subject.UserID.String(), body["actor"])
	})

	t.Run("missing header", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/admin/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, errorCode(t, w))
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/admin/me", "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenInvalid, errorCode(t, w))
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		pair, _ := newTestTokenPair(t, svc, "admin")
		w := doRequest(router, http.MethodGet, "/admin/me", pair.RefreshToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenInvalid, errorCode(t, w))
	})

	t.Run("blacklisted token", func(t *testing.T) {
		pair, _ := newTestTokenPair(t, svc, "admin")
		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Minute))

		w := doRequest(router, http.MethodGet, "/admin/me", pair.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, w))
	})

	t.Run("invalidated user", func(t *testing.T) {
		pair, subject := newTestTokenPair(t, svc, "member")
		require.NoError(t, blacklist.InvalidateUser(context.Background(), subject.UserID.String(), time.Minute))

		w := doRequest(router, http.MethodGet, "/admin/me", pair.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, w))
	})
}

type stubAPITokens map[string]*auth.Claims

func (s stubAPITokens) AuthenticateAPIToken(_ context.Context, token string) (*auth.Claims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, auth.ErrInvalidToken
}

func TestJWTAuthMiddleware_APIToken(t *testing.T) {
	userID := uuid.New().String()
	blacklist := auth.NewMemoryTokenBlacklist()

	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
		JWTService:     newTestJWTService(),
		TokenBlacklist: blacklist,
		APITokens: stubAPITokens{
			"integration-token": {UserID: userID, Email: "ci@storefront.test", Role: "developer", TokenType: auth.TokenTypeAPI},
		},
	}))
	router.GET("/admin/regions", func(c *gin.Context) {
		c.String(http.StatusOK, GetJWTUserID(c)+" "+GetJWTRole(c))
	})

	request := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/admin/regions", nil)
		req.Header.Set(APITokenHeader, token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("known token authenticates its owner", func(t *testing.T) {
		w := request("integration-token")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID+" developer", w.Body.String())
	})

	t.Run("unknown token is rejected", func(t *testing.T) {
		w := request("guess")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenInvalid, errorCode(t, w))
	})

	t.Run("user invalidation does not apply to API tokens", func(t *testing.T) {
		require.NoError(t, blacklist.InvalidateUser(context.Background(), userID, time.Minute))
		assert.Equal(t, http.StatusOK, request("integration-token").Code)
	})

	t.Run("ignored without an authenticator", func(t *testing.T) {
		plain := gin.New()
		plain.Use(JWTAuthMiddleware(newTestJWTService(), nil))
		plain.GET("/admin/regions", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/admin/regions", nil)
		req.Header.Set(APITokenHeader, "integration-token")
		w := httptest.NewRecorder()
		plain.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
		JWTService: newTestJWTService(),
		SkipPaths:  []string{"/admin/auth"},
	}))
	router.POST("/admin/auth", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/admin/users", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodPost, "/admin/auth", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, http.MethodGet, "/admin/users", "").Code)
}

func TestOptionalJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWTService()

	router := gin.New()
	router.Use(OptionalJWTAuthMiddleware(svc, nil))
	router.GET("/store/regions", func(c *gin.Context) {
		c.String(http.StatusOK, GetJWTUserID(c))
	})

	w := doRequest(router, http.MethodGet, "/store/regions", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = doRequest(router, http.MethodGet, "/store/regions", "garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	pair, subject := newTestTokenPair(t, svc, "member")
	w = doRequest(router, http.MethodGet, "/store/regions", pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, subject.UserID.String(), w.Body.String())
}

func TestRequireRole(t *testing.T) {
	svc := newTestJWTService()

	router := gin.New()
	router.Use(JWTAuthMiddleware(svc, nil))
	router.DELETE("/admin/users/:id", RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	admin, _ := newTestTokenPair(t, svc, "admin")
	member, _ := newTestTokenPair(t, svc, "member")

	assert.Equal(t, http.StatusNoContent, doRequest(router, http.MethodDelete, "/admin/users/1", admin.AccessToken).Code)

	w := doRequest(router, http.MethodDelete, "/admin/users/1", member.AccessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrCodeForbidden, errorCode(t, w))
}

func TestRequireRole_WithoutAuthentication(t *testing.T) {
	router := gin.New()
	router.GET("/admin/users", RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doRequest(router, http.MethodGet, "/admin/users", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
