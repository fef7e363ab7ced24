package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenBlacklist_JTI(t *testing.T) {
	blacklist := NewMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-1", time.Hour))
	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-short", time.Millisecond))

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	time.Sleep(10 * time.Millisecond)
	revoked, err = blacklist.IsBlacklisted(ctx, "jti-short")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryTokenBlacklist_User(t *testing.T) {
	blacklist := NewMemoryTokenBlacklist()
	ctx := context.Background()

	issuedBefore := time.Now().Add(-time.Minute)
	require.NoError(t, blacklist.InvalidateUser(ctx, "user-1", time.Hour))

	invalid, err := blacklist.IsUserInvalidated(ctx, "user-1", issuedBefore)
	require.NoError(t, err)
	assert.True(t, invalid)

	invalid, err = blacklist.IsUserInvalidated(ctx, "user-1", time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, invalid)

	invalid, err = blacklist.IsUserInvalidated(ctx, "user-2", issuedBefore)
	require.NoError(t, err)
	assert.False(t, invalid)
}

func TestMemoryTokenBlacklist_UserSameSecond(t *testing.T) {
	blacklist := NewMemoryTokenBlacklist()
	ctx := context.Background()
	svc := newTestJWTService()
	subject := testSubject()
	userID := subject.UserID.String()

	before, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)
	require.NoError(t, blacklist.InvalidateUser(ctx, userID, time.Hour))
	after, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)

	oldClaims, err := svc.ValidateAccessToken(before.AccessToken)
	require.NoError(t, err)
	newClaims, err := svc.ValidateAccessToken(after.AccessToken)
	require.NoError(t, err)

	invalid, err := blacklist.IsUserInvalidated(ctx, userID, oldClaims.IssuedAtTime())
	require.NoError(t, err)
	assert.True(t, invalid)

	invalid, err = blacklist.IsUserInvalidated(ctx, userID, newClaims.IssuedAtTime())
	require.NoError(t, err)
	assert.False(t, invalid, "a session started right after the revocation stays valid")
}
