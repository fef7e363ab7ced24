package location

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// LocationRepository defines the interface for stock location persistence
type LocationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Location, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Location, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, location *Location) error
	Delete(ctx context.Context, id uuid.UUID) error
}
