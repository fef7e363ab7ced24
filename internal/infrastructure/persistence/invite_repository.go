package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInviteRepository implements InviteRepository using GORM
type GormInviteRepository struct {
	db *gorm.DB
}

// NewGormInviteRepository creates a new GormInviteRepository
func NewGormInviteRepository(db *gorm.DB) *GormInviteRepository {
	return &GormInviteRepository{db: db}
}

// WithTx returns a new repository instance with the given transaction
func (r *GormInviteRepository) WithTx(tx *gorm.DB) *GormInviteRepository {
	return &GormInviteRepository{db: tx}
}

// Save creates or updates an invite
func (r *GormInviteRepository) Save(ctx context.Context, invite *identity.Invite) error {
	return translateError(r.db.WithContext(ctx).Save(models.InviteModelFromDomain(invite)).Error)
}

// FindByID finds an invite by ID
func (r *GormInviteRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Invite, error) {
	var model models.InviteModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists invites, newest first by default
func (r *GormInviteRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Invite, int64, error) {
	var inviteModels []models.InviteModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.InviteModel{})
	if filter.Search != "" {
		query = query.Where(likeCond("user_email"), likePattern(filter.Search))
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, InviteSortFields, "created_at", "id"))
	if err := paginate(query, filter).Find(&inviteModels).Error; err != nil {
		return nil, 0, err
	}

	invites := make([]identity.Invite, len(inviteModels))
	for i := range inviteModels {
		invites[i] = *inviteModels[i].ToDomain()
	}
	return invites, total, nil
}

// FindPendingByEmail returns the newest unaccepted invite for an email
func (r *GormInviteRepository) FindPendingByEmail(ctx context.Context, email string) (*identity.Invite, error) {
	var model models.InviteModel
	if err := r.db.WithContext(ctx).
		Where("user_email = ? AND accepted = ?", identity.NormalizeEmail(email), false).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Delete removes an invite
func (r *GormInviteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.InviteModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteExpired hard deletes unaccepted invites whose expiry is before the cutoff
func (r *GormInviteRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("accepted = ? AND expires_at < ?", false, before).
		Delete(&models.InviteModel{})
	return result.RowsAffected, result.Error
}

// Ensure GormInviteRepository implements InviteRepository
var _ identity.InviteRepository = (*GormInviteRepository)(nil)
