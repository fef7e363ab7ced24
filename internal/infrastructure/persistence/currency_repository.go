package persistence

import (
	"context"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/store"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCurrencyRepository implements CurrencyRepository using GORM
type GormCurrencyRepository struct {
	db *gorm.DB
}

// NewGormCurrencyRepository creates a new GormCurrencyRepository
func NewGormCurrencyRepository(db *gorm.DB) *GormCurrencyRepository {
	return &GormCurrencyRepository{db: db}
}

// FindByCode finds a currency by its ISO 4217 code
func (r *GormCurrencyRepository) FindByCode(ctx context.Context, code string) (*store.Currency, error) {
	var model models.CurrencyModel
	if err := r.db.WithContext(ctx).First(&model, "code = ?", strings.ToLower(code)).Error; err != nil {
		return nil, translateError(err)
	}
	c := model.ToDomain()
	return &c, nil
}

// FindByCodes returns the known currencies among codes
func (r *GormCurrencyRepository) FindByCodes(ctx context.Context, codes []string) ([]store.Currency, error) {
	if len(codes) == 0 {
		return []store.Currency{}, nil
	}
	lowered := make([]string, len(codes))
	for i, c := range codes {
		lowered[i] = strings.ToLower(c)
	}
	var currencyModels []models.CurrencyModel
	if err := r.db.WithContext(ctx).Where("code IN ?", lowered).Order("code ASC").Find(&currencyModels).Error; err != nil {
		return nil, err
	}
	return currenciesToDomain(currencyModels), nil
}

// FindAll lists currencies
func (r *GormCurrencyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]store.Currency, error) {
	var currencyModels []models.CurrencyModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CurrencyModel{}), filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, CurrencySortFields, "code", "code"))
	if err := paginate(query, filter).Find(&currencyModels).Error; err != nil {
		return nil, err
	}
	return currenciesToDomain(currencyModels), nil
}

// Count counts currencies matching the filter
func (r *GormCurrencyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var total int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.CurrencyModel{}), filter).Count(&total).Error
	return total, err
}

// Upsert inserts currencies that are missing
func (r *GormCurrencyRepository) Upsert(ctx context.Context, currencies []store.Currency) (int, error) {
	if len(currencies) == 0 {
		return 0, nil
	}
	rows := make([]*models.CurrencyModel, len(currencies))
	for i, c := range currencies {
		c.Code = strings.ToLower(c.Code)
		rows[i] = models.CurrencyModelFromDomain(c)
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(rows)
	return int(result.RowsAffected), result.Error
}

func (r *GormCurrencyRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("("+likeCond("name")+" OR code = ?)",
			likePattern(filter.Search), strings.ToLower(strings.TrimSpace(filter.Search)))
	}
	return query
}

func currenciesToDomain(currencyModels []models.CurrencyModel) []store.Currency {
	out := make([]store.Currency, len(currencyModels))
	for i := range currencyModels {
		out[i] = currencyModels[i].ToDomain()
	}
	return out
}

// Ensure GormCurrencyRepository implements CurrencyRepository
var _ store.CurrencyRepository = (*GormCurrencyRepository)(nil)
