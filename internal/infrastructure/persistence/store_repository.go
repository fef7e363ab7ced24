package persistence

import (
	"context"

	"github.com/storefront/backend/internal/domain/store"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStoreRepository implements StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// WithTx returns a new repository instance with the given transaction
func (r *GormStoreRepository) WithTx(tx *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: tx}
}

// Get returns the oldest store row with its currencies
func (r *GormStoreRepository) Get(ctx context.Context) (*store.Store, error) {
	db := r.db.WithContext(ctx)

	var model models.StoreModel
	if err := db.Order("created_at ASC").First(&model).Error; err != nil {
		return nil, translateError(err)
	}

	var currencies []models.CurrencyModel
	if err := db.Model(&models.CurrencyModel{}).
		Joins("JOIN store_currencies ON store_currencies.currency_code = currencies.code").
		Where("store_currencies.store_id = ?", model.ID).
		Order("currencies.code ASC").
		Find(&currencies).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(currencies), nil
}

// Save upserts the store row and replaces its currency links
func (r *GormStoreRepository) Save(ctx context.Context, s *store.Store) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(models.StoreModelFromDomain(s)).Error; err != nil {
			return translateError(err)
		}
		if err := tx.Where("store_id = ?", s.ID).Delete(&models.StoreCurrencyModel{}).Error; err != nil {
			return err
		}
		codes := s.CurrencyCodes()
		if len(codes) == 0 {
			return nil
		}
		links := make([]models.StoreCurrencyModel, len(codes))
		for i, code := range codes {
			links[i] = models.StoreCurrencyModel{StoreID: s.ID, CurrencyCode: code}
		}
		return tx.Create(&links).Error
	})
}

// Ensure GormStoreRepository implements StoreRepository
var _ store.StoreRepository = (*GormStoreRepository)(nil)
