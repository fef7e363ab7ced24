package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/file"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormFileRepository implements FileRepository using GORM
type GormFileRepository struct {
	db *gorm.DB
}

// NewGormFileRepository creates a new GormFileRepository
func NewGormFileRepository(db *gorm.DB) *GormFileRepository {
	return &GormFileRepository{db: db}
}

// Save creates or updates a file record
func (r *GormFileRepository) Save(ctx context.Context, f *file.File) error {
	return translateError(r.db.WithContext(ctx).Save(models.FileModelFromDomain(f)).Error)
}

// FindByID finds a file record by ID
func (r *GormFileRepository) FindByID(ctx context.Context, id uuid.UUID) (*file.File, error) {
	var model models.FileModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByKey finds a file record by storage key
func (r *GormFileRepository) FindByKey(ctx context.Context, key string) (*file.File, error) {
	var model models.FileModel
	if err := r.db.WithContext(ctx).First(&model, "key = ?", key).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists file records
func (r *GormFileRepository) FindAll(ctx context.Context, filter shared.Filter) ([]file.File, int64, error) {
	var fileModels []models.FileModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.FileModel{})
	if filter.Search != "" {
		query = query.Where(likeCond("original_name"), likePattern(filter.Search))
	}
	if acl, ok := stringFilter(filter, "acl"); ok {
		query = query.Where("acl = ?", acl)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, FileSortFields, "created_at", "id"))
	if err := paginate(query, filter).Find(&fileModels).Error; err != nil {
		return nil, 0, err
	}

	files := make([]file.File, len(fileModels))
	for i := range fileModels {
		files[i] = *fileModels[i].ToDomain()
	}
	return files, total, nil
}

// DeleteByKey removes the record for a storage key
func (r *GormFileRepository) DeleteByKey(ctx context.Context, key string) error {
	result := r.db.WithContext(ctx).Unscoped().Delete(&models.FileModel{}, "key = ?", key)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormFileRepository implements FileRepository
var _ file.FileRepository = (*GormFileRepository)(nil)
