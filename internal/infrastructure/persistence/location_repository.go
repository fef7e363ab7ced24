package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/location"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLocationRepository implements LocationRepository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// FindByID finds a non-deleted stock location
func (r *GormLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*location.Location, error) {
	var model models.LocationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists stock locations
func (r *GormLocationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]location.Location, error) {
	var locationModels []models.LocationModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.LocationModel{}), filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, LocationSortFields, "created_at", "id"))
	if err := paginate(query, filter).Find(&locationModels).Error; err != nil {
		return nil, err
	}

	locations := make([]location.Location, len(locationModels))
	for i := range locationModels {
		locations[i] = *locationModels[i].ToDomain()
	}
	return locations, nil
}

// Count counts stock locations matching the filter
func (r *GormLocationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var total int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.LocationModel{}), filter).Count(&total).Error
	return total, err
}

func (r *GormLocationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where(likeCond("name"), likePattern(filter.Search))
	}
	return query
}

// Save creates or updates a stock location
func (r *GormLocationRepository) Save(ctx context.Context, loc *location.Location) error {
	return translateError(r.db.WithContext(ctx).Save(models.LocationModelFromDomain(loc)).Error)
}

// Delete soft deletes a stock location
func (r *GormLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.LocationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormLocationRepository implements LocationRepository
var _ location.LocationRepository = (*GormLocationRepository)(nil)
