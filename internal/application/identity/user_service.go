package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	appshared "github.com/storefront/backend/internal/application/shared"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// Actor is the authenticated user performing an operation
type Actor struct {
	UserID uuid.UUID
	Role   identity.UserRole
}

// IsAdmin reports whether the actor has the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == identity.UserRoleAdmin
}

// UserService handles user management operations
type UserService struct {
	userRepo  identity.UserRepository
	blacklist auth.TokenBlacklist
	events    shared.EventPublisher
	// sessionTTL bounds how long revoked sessions must be remembered
	sessionTTL time.Duration
	logger     *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	blacklist auth.TokenBlacklist,
	events shared.EventPublisher,
	sessionTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		userRepo:   userRepo,
		blacklist:  blacklist,
		events:     events,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Create creates a new user. Role defaults to member.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A user with the same email already exists")
	}

	role := identity.UserRoleMember
	if req.Role != "" {
		role = identity.UserRole(req.Role)
	}
	user, err := identity.NewUser(req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}
	if err := user.SetName(req.FirstName, req.LastName); err != nil {
		return nil, err
	}
	if req.Metadata != nil {
		user.MergeMetadata(req.Metadata)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.publish(ctx, user)

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	return ToUserResponse(user), nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// List returns a page of users and the total count
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserResponse, int64, error) {
	f := filter.ToFilter()
	if filter.Role != "" {
		f.Filters["role"] = filter.Role
	}

	users, total, err := s.userRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *ToUserResponse(&users[i]))
	}
	return out, total, nil
}

// Update changes a user's names, role, API token or metadata. Only admins
// may change roles or edit other users.
func (s *UserService) Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	if !actor.IsAdmin() && (actor.UserID != id || req.Role != nil) {
		return nil, shared.NewDomainError("FORBIDDEN", "Only admins can change roles or update other users")
	}

	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	oldRole := user.Role

	if req.FirstName != nil || req.LastName != nil {
		first, last := user.FirstName, user.LastName
		if req.FirstName != nil {
			first = *req.FirstName
		}
		if req.LastName != nil {
			last = *req.LastName
		}
		if err := user.SetName(first, last); err != nil {
			return nil, err
		}
	}
	if req.Role != nil {
		if actor.UserID == id && identity.UserRole(*req.Role) != identity.UserRoleAdmin {
			return nil, shared.NewDomainError("INVALID_STATE", "You cannot remove your own admin role")
		}
		if err := user.ChangeRole(identity.UserRole(*req.Role)); err != nil {
			return nil, err
		}
	}
	if req.APIToken != nil {
		token := strings.TrimSpace(*req.APIToken)
		if token != "" && token != user.APIToken {
			owner, err := s.userRepo.FindByAPIToken(ctx, token)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
			if owner != nil {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "API token is already in use")
			}
		}
		user.SetAPIToken(token)
	}
	if req.Metadata != nil {
		user.MergeMetadata(req.Metadata)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.publish(ctx, user)

	if user.Role != oldRole {
		// sessions carry the role claim
		s.revokeSessions(ctx, user.ID)
	}
	return ToUserResponse(user), nil
}

// Delete soft deletes a user and revokes their sessions
func (s *UserService) Delete(ctx context.Context, actor Actor, id uuid.UUID) (*appshared.DeleteResponse, error) {
	if actor.UserID == id {
		return nil, shared.NewDomainError("INVALID_STATE", "You cannot delete your own account")
	}

	user, err := s.find(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return appshared.NewDeleteResponse(id.String(), "user"), nil
		}
		return nil, err
	}

	user.Delete()
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.publish(ctx, user)
	s.revokeSessions(ctx, id)

	s.logger.Info("User deleted",
		zap.String("user_id", id.String()),
		zap.String("deleted_by", actor.UserID.String()))
	return appshared.NewDeleteResponse(id.String(), "user"), nil
}

func (s *UserService) find(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NotFoundError("User", id.String())
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) revokeSessions(ctx context.Context, id uuid.UUID) {
	if s.blacklist == nil {
		return
	}
	if err := s.blacklist.InvalidateUser(ctx, id.String(), s.sessionTTL); err != nil {
		s.logger.Warn("Failed to revoke user sessions", zap.String("user_id", id.String()), zap.Error(err))
	}
}

func (s *UserService) publish(ctx context.Context, user *identity.User) {
	if err := shared.PublishAndClear(ctx, s.events, user); err != nil {
		s.logger.Warn("Failed to publish user events", zap.Error(err))
	}
}
