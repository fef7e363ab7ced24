package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByAPIToken(ctx context.Context, token string) (*identity.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockInviteRepository is a mock implementation of identity.InviteRepository
type MockInviteRepository struct {
	mock.Mock
}

func (m *MockInviteRepository) Save(ctx context.Context, invite *identity.Invite) error {
	args := m.Called(ctx, invite)
	return args.Error(0)
}

func (m *MockInviteRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Invite, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Invite), args.Error(1)
}

func (m *MockInviteRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Invite, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.Invite), args.Get(1).(int64), args.Error(2)
}

func (m *MockInviteRepository) FindPendingByEmail(ctx context.Context, email string) (*identity.Invite, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Invite), args.Error(1)
}

func (m *MockInviteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInviteRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
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

func newTestUser(t *testing.T, role identity.UserRole) *identity.User {
	t.Helper()
	user, err := identity.NewUser("admin@storefront.test", "secret123", role)
	require.NoError(t, err)
	user.ClearDomainEvents()
	return user
}

func codeOf(err error) string {
	if de, ok := err.(*shared.DomainError); ok {
		return de.Code
	}
	return ""
}

func newTestAuthService(t *testing.T, users *MockUserRepository, blacklist auth.TokenBlacklist) *AuthService {
	return NewAuthService(users, newTestJWTService(), blacklist, AuthServiceConfig{
		MaxLoginAttempts: 3,
		LockDuration:     time.Minute,
	}, zaptest.NewLogger(t))
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, identity.UserRoleAdmin)

	users := new(MockUserRepository)
	users.On("FindByEmail", mock.Anything, "admin@storefront.test").Return(user, nil)
	users.On("Update", mock.Anything, user).Return(nil)
	svc := newTestAuthService(t, users, auth.NewMemoryTokenBlacklist())

	result, err := svc.Login(ctx, LoginInput{Email: " Admin@Storefront.test ", Password: "secret123", IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotNil(t, user.LastLoginAt)
}

func TestAuthService_LoginFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, shared.ErrNotFound)
		svc := newTestAuthService(t, users, nil)

		_, err := svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret123"})
		assert.Equal(t, "INVALID_CREDENTIALS", codeOf(err))
	})

	t.Run("wrong password locks after max attempts", func(t *testing.T) {
		user := newTestUser(t, identity.UserRoleMember)
		users := new(MockUserRepository)
		users.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)
		users.On("Update", mock.Anything, user).Return(nil)
		svc := newTestAuthService(t, users, nil)

		for i := 0; i < 2; i++ {
			_, err := svc.Login(ctx, LoginInput{Email: user.Email, Password: "wrong-pass1"})
			assert.Equal(t, "INVALID_CREDENTIALS", codeOf(err))
		}
		_, err := svc.Login(ctx, LoginInput{Email: user.Email, Password: "wrong-pass1"})
		assert.Equal(t, "ACCOUNT_LOCKED", codeOf(err))

		// the right password no longer helps while locked
		_, err = svc.Login(ctx, LoginInput{Email: user.Email, Password: "secret123"})
		assert.Equal(t, "ACCOUNT_LOCKED", codeOf(err))
		users.AssertNumberOfCalls(t, "Update", 3)
	})
}

func TestAuthService_RefreshRotatesToken(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, identity.UserRoleAdmin)
	users := new(MockUserRepository)
	users.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)
	users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	users.On("Update", mock.Anything, user).Return(nil)
	svc := newTestAuthService(t, users, auth.NewMemoryTokenBlacklist())

	login, err := svc.Login(ctx, LoginInput{Email: user.Email, Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// replaying the rotated token fails
	_, err = svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: login.RefreshToken})
	assert.Equal(t, "TOKEN_REVOKED", codeOf(err))

	_, err = svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: "not-a-token"})
	assert.Equal(t, "TOKEN_INVALID", codeOf(err))
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	blacklist := auth.NewMemoryTokenBlacklist()
	svc := newTestAuthService(t, new(MockUserRepository), blacklist)

	require.NoError(t, svc.Logout(ctx, LogoutInput{UserID: uuid.New(), TokenJTI: "jti-1", TokenTTL: time.Minute}))
	revoked, err := blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// nothing to revoke
	assert.NoError(t, svc.Logout(ctx, LogoutInput{UserID: uuid.New()}))
}

func TestAuthService_AuthenticateAPIToken(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, identity.UserRoleDeveloper)
	user.SetAPIToken("ci-token")
	locked := newTestUser(t, identity.UserRoleAdmin)
	locked.RecordLoginFailure(1, time.Hour)

	users := new(MockUserRepository)
	users.On("FindByAPIToken", mock.Anything, "ci-token").Return(user, nil)
	users.On("FindByAPIToken", mock.Anything, "locked-token").Return(locked, nil)
	users.On("FindByAPIToken", mock.Anything, "unknown").Return(nil, shared.ErrNotFound)
	svc := newTestAuthService(t, users, nil)

	claims, err := svc.AuthenticateAPIToken(ctx, "ci-token")
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "developer", claims.Role)
	assert.Equal(t, auth.TokenTypeAPI, claims.TokenType)
	assert.Empty(t, claims.ID)

	_, err = svc.AuthenticateAPIToken(ctx, "unknown")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = svc.AuthenticateAPIToken(ctx, "locked-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_GetCurrentUser(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, identity.UserRoleDeveloper)
	users := new(MockUserRepository)
	users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	missing := uuid.New()
	users.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)
	svc := newTestAuthService(t, users, nil)

	resp, err := svc.GetCurrentUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "developer", resp.Role)

	_, err = svc.GetCurrentUser(ctx, missing)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
