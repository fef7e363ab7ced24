package file

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// FileRepository persists file records
type FileRepository interface {
	Save(ctx context.Context, f *File) error
	FindByID(ctx context.Context, id uuid.UUID) (*File, error)
	FindByKey(ctx context.Context, key string) (*File, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]File, int64, error)
	DeleteByKey(ctx context.Context, key string) error
}
