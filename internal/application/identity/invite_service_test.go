package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	appshared "github.com/storefront/backend/internal/application/shared"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type inviteFixture struct {
	users   *MockUserRepository
	invites *MockInviteRepository
	svc     *InviteService
}

func newInviteFixture(t *testing.T) *inviteFixture {
	users := new(MockUserRepository)
	invites := new(MockInviteRepository)
	scope := &appshared.NoOpTransactionScope{Users: users, Invites: invites}
	return &inviteFixture{
		users:   users,
		invites: invites,
		svc:     NewInviteService(invites, scope, newTestJWTService(), nil, time.Hour, zaptest.NewLogger(t)),
	}
}

func TestInviteService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("new invite", func(t *testing.T) {
		f := newInviteFixture(t)
		f.users.On("ExistsByEmail", mock.Anything, "new@example.com").Return(false, nil)
		f.invites.On("FindPendingByEmail", mock.Anything, "new@example.com").Return(nil, shared.ErrNotFound)
		f.invites.On("Save", mock.Anything, mock.AnythingOfType("*identity.Invite")).Return(nil)

		resp, err := f.svc.Create(ctx, CreateInviteRequest{Email: "new@example.com", Role: "developer"})
		require.NoError(t, err)
		assert.Equal(t, "developer", resp.Role)
		assert.NotEmpty(t, resp.Token)
		assert.False(t, resp.Accepted)
		assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, 5*time.Second)
	})

	t.Run("existing user", func(t *testing.T) {
		f := newInviteFixture(t)
		f.users.On("ExistsByEmail", mock.Anything, "taken@example.com").Return(true, nil)

		_, err := f.svc.Create(ctx, CreateInviteRequest{Email: "taken@example.com"})
		assert.Equal(t, "ALREADY_EXISTS", codeOf(err))
		f.invites.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("pending invite is re-issued", func(t *testing.T) {
		f := newInviteFixture(t)
		pending, err := identity.NewInvite("new@example.com", identity.UserRoleMember, time.Minute)
		require.NoError(t, err)
		pending.AttachToken("old-token")

		f.users.On("ExistsByEmail", mock.Anything, "new@example.com").Return(false, nil)
		f.invites.On("FindPendingByEmail", mock.Anything, "new@example.com").Return(pending, nil)
		f.invites.On("Save", mock.Anything, pending).Return(nil)

		resp, err := f.svc.Create(ctx, CreateInviteRequest{Email: "new@example.com", Role: "admin"})
		require.NoError(t, err)
		assert.Equal(t, pending.ID, resp.ID)
		assert.Equal(t, "admin", resp.Role)
		assert.NotEqual(t, "old-token", resp.Token)
	})
}

func TestInviteService_Accept(t *testing.T) {
	ctx := context.Background()

	issue := func(t *testing.T, f *inviteFixture) *identity.Invite {
		inv, err := identity.NewInvite("invited@example.com", identity.UserRoleMember, time.Hour)
		require.NoError(t, err)
		token, err := newTestJWTService().GenerateInviteToken(inv.ID, inv.UserEmail, string(inv.Role), inv.ExpiresAt)
		require.NoError(t, err)
		inv.AttachToken(token)
		f.invites.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
		return inv
	}
	body := func(token string) AcceptInviteRequest {
		return AcceptInviteRequest{
			Token: token,
			User:  AcceptInviteUser{FirstName: "Grace", LastName: "Hopper", Password: "password1"},
		}
	}

	t.Run("creates the user", func(t *testing.T) {
		f := newInviteFixture(t)
		inv := issue(t, f)
		f.users.On("ExistsByEmail", mock.Anything, inv.UserEmail).Return(false, nil)
		f.users.On("Create", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)
		f.invites.On("Save", mock.Anything, inv).Return(nil)

		user, err := f.svc.Accept(ctx, body(inv.Token))
		require.NoError(t, err)
		assert.Equal(t, "invited@example.com", user.Email)
		assert.Equal(t, "member", user.Role)
		assert.Equal(t, "Grace", user.FirstName)
		assert.True(t, inv.Accepted)
	})

	t.Run("accepted twice", func(t *testing.T) {
		f := newInviteFixture(t)
		inv := issue(t, f)
		inv.Accepted = true

		_, err := f.svc.Accept(ctx, body(inv.Token))
		assert.Equal(t, "CONFLICT", codeOf(err))
		f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("superseded token", func(t *testing.T) {
		f := newInviteFixture(t)
		inv := issue(t, f)
		stale := inv.Token
		inv.AttachToken("re-issued")

		_, err := f.svc.Accept(ctx, body(stale))
		assert.Equal(t, "UNAUTHORIZED", codeOf(err))
	})

	t.Run("garbage token", func(t *testing.T) {
		f := newInviteFixture(t)
		_, err := f.svc.Accept(ctx, body("not-a-token"))
		assert.Equal(t, "UNAUTHORIZED", codeOf(err))
	})

	t.Run("expired token", func(t *testing.T) {
		f := newInviteFixture(t)
		token, err := newTestJWTService().GenerateInviteToken(uuid.New(), "late@example.com", "member", time.Now().Add(-time.Minute))
		require.NoError(t, err)

		_, err = f.svc.Accept(ctx, body(token))
		require.Error(t, err)
		assert.Equal(t, "Invite has expired", err.Error())
	})
}

func TestInviteService_ResendAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newInviteFixture(t)

	inv, err := identity.NewInvite("resend@example.com", identity.UserRoleMember, time.Minute)
	require.NoError(t, err)
	inv.AttachToken("first")
	f.invites.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	f.invites.On("Save", mock.Anything, inv).Return(nil)

	resp, err := f.svc.Resend(ctx, inv.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "first", resp.Token)
	assert.True(t, resp.ExpiresAt.After(time.Now().Add(30*time.Minute)))

	missing := uuid.New()
	f.invites.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)
	_, err = f.svc.Resend(ctx, missing)
	assert.Equal(t, "NOT_FOUND", codeOf(err))

	f.invites.On("Delete", mock.Anything, missing).Return(shared.ErrNotFound)
	deleted, err := f.svc.Delete(ctx, missing)
	require.NoError(t, err)
	assert.Equal(t, "invite", deleted.Object)
}

func TestInviteService_PurgeExpired(t *testing.T) {
	f := newInviteFixture(t)
	f.invites.On("DeleteExpired", mock.Anything, mock.MatchedBy(func(before time.Time) bool {
		return before.Before(time.Now().Add(-23 * time.Hour))
	})).Return(int64(3), nil)

	n, err := f.svc.PurgeExpired(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	f.invites.AssertExpectations(t)
}
