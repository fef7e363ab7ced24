package identity

import (
	"time"

	"github.com/google/uuid"
	appshared "github.com/storefront/backend/internal/application/shared"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	IP       string `json:"-"` // client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string        `json:"access_token"`
	RefreshToken          string        `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time     `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time     `json:"refresh_token_expires_at"`
	TokenType             string        `json:"token_type"`
	User                  *UserResponse `json:"user"`
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string        // access token ID to revoke
	TokenTTL time.Duration // remaining lifetime of the access token
}

// CreateUserRequest represents a request to create an admin user
type CreateUserRequest struct {
	Email     string          `json:"email" binding:"required,email,max=200"`
	Password  string          `json:"password" binding:"required,min=8,max=72"`
	FirstName string          `json:"first_name" binding:"max=100"`
	LastName  string          `json:"last_name" binding:"max=100"`
	Role      string          `json:"role" binding:"omitempty,oneof=admin member developer"`
	Metadata  shared.Metadata `json:"metadata"`
}

// UpdateUserRequest represents a request to update a user
type UpdateUserRequest struct {
	FirstName *string         `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string         `json:"last_name" binding:"omitempty,max=100"`
	Role      *string         `json:"role" binding:"omitempty,oneof=admin member developer"`
	APIToken  *string         `json:"api_token" binding:"omitempty,max=200"`
	Metadata  shared.Metadata `json:"metadata"`
}

// UserListFilter holds the query parameters of the user list
type UserListFilter struct {
	appshared.ListParams
	Role string `form:"role" binding:"omitempty,oneof=admin member developer"`
}

// UserResponse represents a user in API responses. The password hash and
// API token are never serialized.
type UserResponse struct {
	ID          uuid.UUID       `json:"id"`
	Email       string          `json:"email"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Role        string          `json:"role"`
	Metadata    shared.Metadata `json:"metadata"`
	LastLoginAt *time.Time      `json:"last_login_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) *UserResponse {
	metadata := u.Metadata
	if metadata == nil {
		metadata = shared.Metadata{}
	}
	return &UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        string(u.Role),
		Metadata:    metadata,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// CreateInviteRequest represents a request to invite a new admin user
type CreateInviteRequest struct {
	Email string `json:"user" binding:"required,email,max=200"`
	Role  string `json:"role" binding:"omitempty,oneof=admin member developer"`
}

// AcceptInviteRequest is the body of POST /admin/invites/accept
type AcceptInviteRequest struct {
	Token string           `json:"token" binding:"required"`
	User  AcceptInviteUser `json:"user" binding:"required"`
}

// AcceptInviteUser holds the details of the account created from an invite
type AcceptInviteUser struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
}

// InviteListFilter holds the query parameters of the invite list
type InviteListFilter struct {
	appshared.ListParams
}

// InviteResponse represents an invite in API responses
type InviteResponse struct {
	ID        uuid.UUID       `json:"id"`
	UserEmail string          `json:"user_email"`
	Role      string          `json:"role"`
	Token     string          `json:"token"`
	Accepted  bool            `json:"accepted"`
	ExpiresAt time.Time       `json:"expires_at"`
	Metadata  shared.Metadata `json:"metadata"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToInviteResponse converts a domain Invite to InviteResponse
func ToInviteResponse(i *identity.Invite) *InviteResponse {
	metadata := i.Metadata
	if metadata == nil {
		metadata = shared.Metadata{}
	}
	return &InviteResponse{
		ID:        i.ID,
		UserEmail: i.UserEmail,
		Role:      string(i.Role),
		Token:     i.Token,
		Accepted:  i.Accepted,
		ExpiresAt: i.ExpiresAt,
		Metadata:  metadata,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}
