package region

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// RegionRepository defines the interface for region persistence.
// Regions are always loaded with their countries.
type RegionRepository interface {
	// FindByID finds a non-deleted region by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Region, error)

	// FindAll finds regions matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Region, error)

	// Count counts regions matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a region and syncs country ownership:
	// countries listed on the region point at it, others it owned are detached.
	Save(ctx context.Context, region *Region) error

	// Delete soft deletes a region and detaches its countries
	Delete(ctx context.Context, id uuid.UUID) error
}

// CountryRepository defines read access to country reference data
type CountryRepository interface {
	// FindByISO2 finds a country by its alpha-2 code (case insensitive)
	FindByISO2(ctx context.Context, iso2 string) (*Country, error)

	// FindByISO2s finds countries for a list of alpha-2 codes
	FindByISO2s(ctx context.Context, codes []string) ([]Country, error)

	// FindAll lists countries, filtered by Search on name or code
	FindAll(ctx context.Context, filter shared.Filter) ([]Country, error)

	// Count counts countries matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Upsert inserts reference rows that are missing, keyed by ISO2.
	// Existing rows keep their region assignment.
	Upsert(ctx context.Context, countries []Country) (int, error)
}
