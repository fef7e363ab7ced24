package identity

import (
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// DefaultInviteTTL is how long an invite token stays valid
const DefaultInviteTTL = 7 * 24 * time.Hour

// Invite is a pending invitation for a new admin user. The token is a
// signed credential issued by the auth infrastructure.
type Invite struct {
	shared.BaseAggregateRoot
	UserEmail string
	Role      UserRole
	Token     string
	Accepted  bool
	ExpiresAt time.Time
	Metadata  shared.Metadata
}

// NewInvite creates an invite for an email address
func NewInvite(email string, role UserRole, ttl time.Duration) (*Invite, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateRole(role); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultInviteTTL
	}
	inv := &Invite{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserEmail:         email,
		Role:              role,
		ExpiresAt:         time.Now().Add(ttl),
		Metadata:          shared.Metadata{},
	}
	inv.AddDomainEvent(NewInviteCreatedEvent(inv))
	return inv, nil
}

// AttachToken stores the signed token issued for the invite
func (i *Invite) AttachToken(token string) {
	i.Token = token
	i.UpdatedAt = time.Now()
}

// Resend extends the expiry and records a resend event. The caller issues
// and attaches a fresh token.
func (i *Invite) Resend(ttl time.Duration) error {
	if i.Accepted {
		return shared.NewDomainError("INVALID_STATE", "Invite has already been accepted")
	}
	if ttl <= 0 {
		ttl = DefaultInviteTTL
	}
	i.ExpiresAt = time.Now().Add(ttl)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	i.AddDomainEvent(NewInviteResentEvent(i))
	return nil
}

// IsExpired reports whether the invite can no longer be accepted
func (i *Invite) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// Accept marks the invite as used
func (i *Invite) Accept() error {
	if i.Accepted {
		return shared.NewDomainError("CONFLICT", "Invite has already been accepted")
	}
	if i.IsExpired() {
		return shared.NewDomainError("UNAUTHORIZED", "Invite has expired")
	}
	i.Accepted = true
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}
