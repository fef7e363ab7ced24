package identity

import (
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeUser   = "User"
	AggregateTypeInvite = "Invite"
)

// Identity domain event types
const (
	EventTypeUserCreated     = "UserCreated"
	EventTypeUserRoleChanged = "UserRoleChanged"
	EventTypeUserDeleted     = "UserDeleted"
	EventTypeInviteCreated   = "InviteCreated"
	EventTypeInviteResent    = "InviteResent"
)

// UserCreatedEvent is published when a user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, user.ID),
		Email:           user.Email,
		Role:            user.Role,
	}
}

// UserRoleChangedEvent is published when a user's role changes
type UserRoleChangedEvent struct {
	shared.BaseDomainEvent
	Email   string   `json:"email"`
	OldRole UserRole `json:"old_role"`
	NewRole UserRole `json:"new_role"`
}

// NewUserRoleChangedEvent creates a new UserRoleChangedEvent
func NewUserRoleChangedEvent(user *User, old UserRole) *UserRoleChangedEvent {
	return &UserRoleChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRoleChanged, AggregateTypeUser, user.ID),
		Email:           user.Email,
		OldRole:         old,
		NewRole:         user.Role,
	}
}

// UserDeletedEvent is published when a user is deleted
type UserDeletedEvent struct {
	shared.BaseDomainEvent
	Email     string    `json:"email"`
	DeletedAt time.Time `json:"deleted_at"`
}

// NewUserDeletedEvent creates a new UserDeletedEvent
func NewUserDeletedEvent(user *User) *UserDeletedEvent {
	e := &UserDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserDeleted, AggregateTypeUser, user.ID),
		Email:           user.Email,
	}
	if user.DeletedAt != nil {
		e.DeletedAt = *user.DeletedAt
	}
	return e
}

// InviteCreatedEvent is published when an invite is created
type InviteCreatedEvent struct {
	shared.BaseDomainEvent
	UserEmail string   `json:"user_email"`
	Role      UserRole `json:"role"`
}

// NewInviteCreatedEvent creates a new InviteCreatedEvent
func NewInviteCreatedEvent(inv *Invite) *InviteCreatedEvent {
	return &InviteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInviteCreated, AggregateTypeInvite, inv.ID),
		UserEmail:       inv.UserEmail,
		Role:            inv.Role,
	}
}

// InviteResentEvent is published when an invite token is reissued
type InviteResentEvent struct {
	shared.BaseDomainEvent
	UserEmail string `json:"user_email"`
}

// NewInviteResentEvent creates a new InviteResentEvent
func NewInviteResentEvent(inv *Invite) *InviteResentEvent {
	return &InviteResentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInviteResent, AggregateTypeInvite, inv.ID),
		UserEmail:       inv.UserEmail,
	}
}
