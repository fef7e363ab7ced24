package persistence

import (
	"context"

	"github.com/storefront/backend/internal/domain/region"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCountryRepository implements CountryRepository using GORM
type GormCountryRepository struct {
	db *gorm.DB
}

// NewGormCountryRepository creates a new GormCountryRepository
func NewGormCountryRepository(db *gorm.DB) *GormCountryRepository {
	return &GormCountryRepository{db: db}
}

// WithTx returns a new repository instance with the given transaction
func (r *GormCountryRepository) WithTx(tx *gorm.DB) *GormCountryRepository {
	return &GormCountryRepository{db: tx}
}

// FindByISO2 finds a country by its alpha-2 code
func (r *GormCountryRepository) FindByISO2(ctx context.Context, iso2 string) (*region.Country, error) {
	var model models.CountryModel
	if err := r.db.WithContext(ctx).First(&model, "iso_2 = ?", region.NormalizeISO2(iso2)).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByISO2s finds the countries for the given codes; unknown codes are skipped
func (r *GormCountryRepository) FindByISO2s(ctx context.Context, codes []string) ([]region.Country, error) {
	if len(codes) == 0 {
		return []region.Country{}, nil
	}
	normalized := make([]string, len(codes))
	for i, c := range codes {
		normalized[i] = region.NormalizeISO2(c)
	}

	var countryModels []models.CountryModel
	if err := r.db.WithContext(ctx).
		Where("iso_2 IN ?", normalized).
		Order("iso_2 ASC").
		Find(&countryModels).Error; err != nil {
		return nil, err
	}
	return countriesToDomain(countryModels), nil
}

// FindAll lists countries
func (r *GormCountryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]region.Country, error) {
	var countryModels []models.CountryModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CountryModel{}), filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, CountrySortFields, "iso_2", "id"))
	if err := paginate(query, filter).Find(&countryModels).Error; err != nil {
		return nil, err
	}
	return countriesToDomain(countryModels), nil
}

// Count counts countries matching the filter
func (r *GormCountryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var total int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.CountryModel{}), filter).Count(&total).Error
	return total, err
}

func (r *GormCountryRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("("+likeCond("display_name")+" OR iso_2 = ? OR iso_3 = ?)",
			pattern, region.NormalizeISO2(filter.Search), region.NormalizeISO2(filter.Search))
	}
	if regionID, ok := stringFilter(filter, "region_id"); ok {
		query = query.Where("region_id = ?", regionID)
	}
	return query
}

// Upsert inserts missing reference rows and returns how many were added
func (r *GormCountryRepository) Upsert(ctx context.Context, countries []region.Country) (int, error) {
	if len(countries) == 0 {
		return 0, nil
	}
	rows := make([]*models.CountryModel, len(countries))
	for i, c := range countries {
		m := models.CountryModelFromDomain(c)
		m.ID = 0
		m.RegionID = nil
		rows[i] = m
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "iso_2"}}, DoNothing: true}).
		CreateInBatches(rows, 100)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

func countriesToDomain(countryModels []models.CountryModel) []region.Country {
	countries := make([]region.Country, len(countryModels))
	for i := range countryModels {
		countries[i] = *countryModels[i].ToDomain()
	}
	return countries
}

// Ensure GormCountryRepository implements CountryRepository
var _ region.CountryRepository = (*GormCountryRepository)(nil)
