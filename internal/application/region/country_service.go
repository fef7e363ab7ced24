package region

import (
	"context"
	"strings"

	"github.com/storefront/backend/internal/domain/region"
	"go.uber.org/zap"
)

// CountryService serves country reference data
type CountryService struct {
	countries region.CountryRepository
	logger    *zap.Logger
}

// NewCountryService creates a new CountryService
func NewCountryService(countries region.CountryRepository, logger *zap.Logger) *CountryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CountryService{countries: countries, logger: logger}
}

// EnsureCountries inserts the ISO 3166 reference rows that are missing.
// It is safe to run on every boot.
func (s *CountryService) EnsureCountries(ctx context.Context) (int, error) {
	inserted, err := s.countries.Upsert(ctx, region.ReferenceCountries())
	if err != nil {
		return 0, err
	}
	if inserted > 0 {
		s.logger.Info("Seeded countries", zap.Int("inserted", inserted))
	}
	return inserted, nil
}

// List returns a page of countries and the total count
func (s *CountryService) List(ctx context.Context, filter CountryListFilter) ([]CountryResponse, int64, error) {
	f := filter.ToFilter()
	if filter.RegionID != "" {
		f.Filters["region_id"] = strings.ToLower(filter.RegionID)
	}

	countries, err := s.countries.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.countries.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	out := make([]CountryResponse, 0, len(countries))
	for _, c := range countries {
		out = append(out, ToCountryResponse(c))
	}
	return out, total, nil
}
