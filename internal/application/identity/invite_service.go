package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	appshared "github.com/storefront/backend/internal/application/shared"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

var errInvalidInvite = shared.NewDomainError("UNAUTHORIZED", "Invalid invite token")

// InviteService issues and redeems admin invites
type InviteService struct {
	invites    identity.InviteRepository
	txScope    appshared.TransactionScope
	jwtService *auth.JWTService
	events     shared.EventPublisher
	ttl        time.Duration
	logger     *zap.Logger
}

// NewInviteService creates a new InviteService. A non-positive ttl uses
// identity.DefaultInviteTTL.
func NewInviteService(
	invites identity.InviteRepository,
	txScope appshared.TransactionScope,
	jwtService *auth.JWTService,
	events shared.EventPublisher,
	ttl time.Duration,
	logger *zap.Logger,
) *InviteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = identity.DefaultInviteTTL
	}
	return &InviteService{
		invites:    invites,
		txScope:    txScope,
		jwtService: jwtService,
		events:     events,
		ttl:        ttl,
		logger:     logger,
	}
}

// Create invites an email address. A pending invite for the same address
// is re-issued with the new role instead of duplicated.
func (s *InviteService) Create(ctx context.Context, req CreateInviteRequest) (*InviteResponse, error) {
	role := identity.UserRoleMember
	if req.Role != "" {
		role = identity.UserRole(req.Role)
	}

	var inv *identity.Invite
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		exists, err := repos.UserRepo().ExistsByEmail(ctx, req.Email)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS", "A user with the same email already exists")
		}

		inv, err = repos.InviteRepo().FindPendingByEmail(ctx, req.Email)
		switch {
		case err == nil:
			inv.Role = role
			if err := inv.Resend(s.ttl); err != nil {
				return err
			}
		case errors.Is(err, shared.ErrNotFound):
			inv, err = identity.NewInvite(req.Email, role, s.ttl)
			if err != nil {
				return err
			}
		default:
			return err
		}

		if err := s.sign(inv); err != nil {
			return err
		}
		return repos.InviteRepo().Save(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, inv)
	s.logger.Info("Invite issued", zap.String("invite_id", inv.ID.String()), zap.String("role", string(inv.Role)))
	return ToInviteResponse(inv), nil
}

// List returns a page of invites and the total count
func (s *InviteService) List(ctx context.Context, filter InviteListFilter) ([]InviteResponse, int64, error) {
	invites, total, err := s.invites.FindAll(ctx, filter.ToFilter())
	if err != nil {
		return nil, 0, err
	}
	out := make([]InviteResponse, 0, len(invites))
	for i := range invites {
		out = append(out, *ToInviteResponse(&invites[i]))
	}
	return out, total, nil
}

// Delete removes an invite. Deleting a missing invite succeeds.
func (s *InviteService) Delete(ctx context.Context, id uuid.UUID) (*appshared.DeleteResponse, error) {
	if err := s.invites.Delete(ctx, id); err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return appshared.NewDeleteResponse(id.String(), "invite"), nil
}

// PurgeExpired removes unaccepted invites that expired more than grace ago
// and returns how many were removed
func (s *InviteService) PurgeExpired(ctx context.Context, grace time.Duration) (int64, error) {
	n, err := s.invites.DeleteExpired(ctx, time.Now().Add(-grace))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("Purged expired invites", zap.Int64("count", n))
	}
	return n, nil
}

// Resend extends a pending invite and issues a fresh token
func (s *InviteService) Resend(ctx context.Context, id uuid.UUID) (*InviteResponse, error) {
	inv, err := s.invites.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NotFoundError("Invite", id.String())
		}
		return nil, err
	}
	if err := inv.Resend(s.ttl); err != nil {
		return nil, err
	}
	if err := s.sign(inv); err != nil {
		return nil, err
	}
	if err := s.invites.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.publish(ctx, inv)
	return ToInviteResponse(inv), nil
}

// Accept redeems an invite token and creates the invited user. The invite
// and the new user are written in one transaction.
func (s *InviteService) Accept(ctx context.Context, req AcceptInviteRequest) (*UserResponse, error) {
	claims, err := s.jwtService.ValidateInviteToken(req.Token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, shared.NewDomainError("UNAUTHORIZED", "Invite has expired")
		}
		return nil, errInvalidInvite
	}
	inviteID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errInvalidInvite
	}

	var user *identity.User
	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		inv, err := repos.InviteRepo().FindByID(ctx, inviteID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return errInvalidInvite
			}
			return err
		}
		// a resend replaces the token; older links stop working
		if inv.Token != req.Token {
			return errInvalidInvite
		}
		if err := inv.Accept(); err != nil {
			return err
		}

		exists, err := repos.UserRepo().ExistsByEmail(ctx, inv.UserEmail)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS", "A user with the same email already exists")
		}

		user, err = identity.NewUser(inv.UserEmail, req.User.Password, inv.Role)
		if err != nil {
			return err
		}
		if err := user.SetName(req.User.FirstName, req.User.LastName); err != nil {
			return err
		}
		if err := repos.UserRepo().Create(ctx, user); err != nil {
			return err
		}
		return repos.InviteRepo().Save(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	if err := shared.PublishAndClear(ctx, s.events, user); err != nil {
		s.logger.Warn("Failed to publish user events", zap.Error(err))
	}
	s.logger.Info("Invite accepted",
		zap.String("invite_id", inviteID.String()),
		zap.String("user_id", user.ID.String()))
	return ToUserResponse(user), nil
}

func (s *InviteService) sign(inv *identity.Invite) error {
	token, err := s.jwtService.GenerateInviteToken(inv.ID, inv.UserEmail, string(inv.Role), inv.ExpiresAt)
	if err != nil {
		return err
	}
	inv.AttachToken(token)
	return nil
}

func (s *InviteService) publish(ctx context.Context, inv *identity.Invite) {
	if err := shared.PublishAndClear(ctx, s.events, inv); err != nil {
		s.logger.Warn("Failed to publish invite events", zap.Error(err))
	}
}
