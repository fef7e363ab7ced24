package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// Update updates an existing user
	Update(ctx context.Context, user *User) error

	// Delete soft deletes a user
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a non-deleted user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a non-deleted user by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByAPIToken finds the non-deleted user owning a static API token
	FindByAPIToken(ctx context.Context, token string) (*User, error)

	// FindAll finds users matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]User, int64, error)

	// ExistsByEmail checks if a non-deleted user uses the email
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// InviteRepository defines the interface for invite persistence
type InviteRepository interface {
	Save(ctx context.Context, invite *Invite) error
	FindByID(ctx context.Context, id uuid.UUID) (*Invite, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Invite, int64, error)
	FindPendingByEmail(ctx context.Context, email string) (*Invite, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes unaccepted invites that expired before the cutoff
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
