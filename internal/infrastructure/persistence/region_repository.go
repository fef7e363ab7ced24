package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/region"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRegionRepository implements RegionRepository using GORM
type GormRegionRepository struct {
	db *gorm.DB
}

// NewGormRegionRepository creates a new GormRegionRepository
func NewGormRegionRepository(db *gorm.DB) *GormRegionRepository {
	return &GormRegionRepository{db: db}
}

// WithTx returns a new repository instance with the given transaction
func (r *GormRegionRepository) WithTx(tx *gorm.DB) *GormRegionRepository {
	return &GormRegionRepository{db: tx}
}

func preloadCountries(db *gorm.DB) *gorm.DB {
	return db.Preload("Countries", func(db *gorm.DB) *gorm.DB {
		return db.Order("iso_2 ASC")
	})
}

// FindByID finds a non-deleted region with its countries
func (r *GormRegionRepository) FindByID(ctx context.Context, id uuid.UUID) (*region.Region, error) {
	var model models.RegionModel
	if err := preloadCountries(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds regions matching the filter, each with its countries
func (r *GormRegionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]region.Region, error) {
	var regionModels []models.RegionModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.RegionModel{}), filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, RegionSortFields, "created_at", "id"))
	query = paginate(query, filter)

	if err := preloadCountries(query).Find(&regionModels).Error; err != nil {
		return nil, err
	}

	regions := make([]region.Region, len(regionModels))
	for i := range regionModels {
		regions[i] = *regionModels[i].ToDomain()
	}
	return regions, nil
}

// Count counts regions matching the filter
func (r *GormRegionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var total int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.RegionModel{}), filter).Count(&total).Error
	return total, err
}

func (r *GormRegionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where(likeCond("name"), likePattern(filter.Search))
	}
	if code, ok := stringFilter(filter, "currency_code"); ok {
		query = query.Where("currency_code = ?", code)
	}
	return query
}

// Save upserts the region row and makes the countries table agree with
// region.Countries in the same transaction.
func (r *GormRegionRepository) Save(ctx context.Context, reg *region.Region) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.RegionModelFromDomain(reg)
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return translateError(err)
		}

		codes := reg.CountryCodes()
		detach := tx.Model(&models.CountryModel{}).Where("region_id = ?", reg.ID)
		if len(codes) > 0 {
			detach = detach.Where("iso_2 NOT IN ?", codes)
		}
		if err := detach.Update("region_id", nil).Error; err != nil {
			return err
		}
		if len(codes) == 0 {
			return nil
		}

		attach := tx.Model(&models.CountryModel{}).
			Where("iso_2 IN ?", codes).
			Where("(region_id IS NULL OR region_id = ?)", reg.ID).
			Update("region_id", reg.ID)
		if attach.Error != nil {
			return attach.Error
		}
		if attach.RowsAffected != int64(len(codes)) {
			return shared.NewDomainErrorf("CONFLICT",
				"one of the countries %v is missing or already belongs to another region", codes)
		}
		return nil
	})
}

// Delete soft deletes a region and detaches its countries
func (r *GormRegionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.CountryModel{}).
			Where("region_id = ?", id).
			Update("region_id", nil).Error; err != nil {
			return fmt.Errorf("detach countries: %w", err)
		}
		result := tx.Delete(&models.RegionModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormRegionRepository implements RegionRepository
var _ region.RegionRepository = (*GormRegionRepository)(nil)
