package region

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	appshared "github.com/storefront/backend/internal/application/shared"
	"github.com/storefront/backend/internal/domain/region"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"go.uber.org/zap"
)

// storeCachePrefix prefixes every cached store-facing region read
const storeCachePrefix = "regions:"

// RegionService handles region operations for the admin and store surfaces
type RegionService struct {
	regions  region.RegionRepository
	txScope  appshared.TransactionScope
	events   shared.EventPublisher
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewRegionService creates a new RegionService. cache may be nil, in which
// case store reads go straight to the repository.
func NewRegionService(
	regions region.RegionRepository,
	txScope appshared.TransactionScope,
	events shared.EventPublisher,
	c cache.Cache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *RegionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegionService{
		regions:  regions,
		txScope:  txScope,
		events:   events,
		cache:    c,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Create creates a region with its countries in one transaction
func (s *RegionService) Create(ctx context.Context, req CreateRegionRequest) (*RegionResponse, error) {
	var created *region.Region
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		if err := validateStoreCurrency(ctx, repos, req.CurrencyCode); err != nil {
			return err
		}

		r, err := region.NewRegion(req.Name, req.CurrencyCode, req.TaxRate)
		if err != nil {
			return err
		}
		r.SetTaxSettings(req.TaxCode,
			boolOr(req.GiftCardsTaxable, r.GiftCardsTaxable),
			boolOr(req.AutomaticTaxes, r.AutomaticTaxes),
			boolOr(req.IncludesTax, r.IncludesTax))
		if req.Metadata != nil {
			r.MergeMetadata(req.Metadata)
		}

		if err := attachCountries(ctx, repos.CountryRepo(), r, req.Countries); err != nil {
			return err
		}
		if err := repos.RegionRepo().Save(ctx, r); err != nil {
			return err
		}
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, created)
	s.logger.Info("Region created",
		zap.String("region_id", created.ID.String()),
		zap.Strings("countries", created.CountryCodes()))
	return s.Retrieve(ctx, created.ID)
}

// Update applies the fields present in req
func (s *RegionService) Update(ctx context.Context, id uuid.UUID, req UpdateRegionRequest) (*RegionResponse, error) {
	var updated *region.Region
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		r, err := repos.RegionRepo().FindByID(ctx, id)
		if err != nil {
			return notFound(err, id)
		}

		if req.Name != nil {
			if err := r.Rename(*req.Name); err != nil {
				return err
			}
		}
		if req.CurrencyCode != nil {
			if err := validateStoreCurrency(ctx, repos, *req.CurrencyCode); err != nil {
				return err
			}
			if err := r.ChangeCurrency(*req.CurrencyCode); err != nil {
				return err
			}
		}
		if req.TaxRate != nil {
			if err := r.ChangeTaxRate(*req.TaxRate); err != nil {
				return err
			}
		}
		if req.TaxCode != nil || req.GiftCardsTaxable != nil || req.AutomaticTaxes != nil || req.IncludesTax != nil {
			taxCode := r.TaxCode
			if req.TaxCode != nil {
				taxCode = *req.TaxCode
			}
			r.SetTaxSettings(taxCode,
				boolOr(req.GiftCardsTaxable, r.GiftCardsTaxable),
				boolOr(req.AutomaticTaxes, r.AutomaticTaxes),
				boolOr(req.IncludesTax, r.IncludesTax))
		}
		if req.Metadata != nil {
			r.MergeMetadata(req.Metadata)
		}
		if req.Countries != nil {
			if err := replaceCountries(ctx, repos.CountryRepo(), r, *req.Countries); err != nil {
				return err
			}
		}

		r.MarkUpdated()
		if err := repos.RegionRepo().Save(ctx, r); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, updated)
	return s.Retrieve(ctx, id)
}

// Delete soft deletes a region. Deleting a missing region succeeds.
func (s *RegionService) Delete(ctx context.Context, id uuid.UUID) (*appshared.DeleteResponse, error) {
	var deleted *region.Region
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		r, err := repos.RegionRepo().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil
			}
			return err
		}

		r.Delete()
		if err := repos.RegionRepo().Delete(ctx, id); err != nil {
			return err
		}

		st, err := repos.StoreRepo().Get(ctx)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				deleted = r
				return nil
			}
			return err
		}
		if st.DefaultRegionID != nil && *st.DefaultRegionID == id {
			st.SetDefaultRegion(nil)
			st.MarkUpdated()
			if err := repos.StoreRepo().Save(ctx, st); err != nil {
				return err
			}
		}
		deleted = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if deleted != nil {
		s.afterWrite(ctx, deleted)
		s.logger.Info("Region deleted", zap.String("region_id", id.String()))
	}
	return appshared.NewDeleteResponse(id.String(), "region"), nil
}

// Retrieve returns a region with its countries
func (s *RegionService) Retrieve(ctx context.Context, id uuid.UUID) (*RegionResponse, error) {
	r, err := s.regions.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	return ToRegionResponse(r), nil
}

// List returns a page of regions and the total count
func (s *RegionService) List(ctx context.Context, filter RegionListFilter) ([]RegionResponse, int64, error) {
	f := filter.ToFilter()
	if filter.CurrencyCode != "" {
		f.Filters["currency_code"] = strings.ToLower(filter.CurrencyCode)
	}

	regions, err := s.regions.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.regions.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	out := make([]RegionResponse, 0, len(regions))
	for i := range regions {
		out = append(out, *ToRegionResponse(&regions[i]))
	}
	return out, total, nil
}

// AddCountry attaches a country to a region. Adding a country the region
// already has returns the region unchanged; a country owned by another
// region is a conflict.
func (s *RegionService) AddCountry(ctx context.Context, id uuid.UUID, req AddCountryRequest) (*RegionResponse, error) {
	var changed *region.Region
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		r, err := repos.RegionRepo().FindByID(ctx, id)
		if err != nil {
			return notFound(err, id)
		}

		country, err := repos.CountryRepo().FindByISO2(ctx, req.CountryCode)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return unknownCountry(req.CountryCode)
			}
			return err
		}

		added, err := r.AddCountry(*country)
		if err != nil || !added {
			return err
		}
		if err := repos.RegionRepo().Save(ctx, r); err != nil {
			return err
		}
		changed = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed != nil {
		s.afterWrite(ctx, changed)
	}
	return s.Retrieve(ctx, id)
}

// RemoveCountry detaches a country from a region. Removing a country the
// region does not have returns the region unchanged.
func (s *RegionService) RemoveCountry(ctx context.Context, id uuid.UUID, countryCode string) (*RegionResponse, error) {
	var changed *region.Region
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		r, err := repos.RegionRepo().FindByID(ctx, id)
		if err != nil {
			return notFound(err, id)
		}
		if _, removed := r.RemoveCountry(region.NormalizeISO2(countryCode)); !removed {
			return nil
		}
		if err := repos.RegionRepo().Save(ctx, r); err != nil {
			return err
		}
		changed = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed != nil {
		s.afterWrite(ctx, changed)
	}
	return s.Retrieve(ctx, id)
}

// StoreList is List for the store surface, served from the read cache
func (s *RegionService) StoreList(ctx context.Context, filter RegionListFilter) ([]RegionResponse, int64, error) {
	if s.cache == nil {
		return s.List(ctx, filter)
	}
	key := fmt.Sprintf("%slist:%s:%d:%d:%s:%s", storeCachePrefix,
		filter.Q, filter.Offset, filter.EffectiveLimit(), filter.Order, strings.ToLower(filter.CurrencyCode))

	page, err := cache.GetOrLoad(ctx, s.cache, key, s.cacheTTL, func(ctx context.Context) (regionPage, error) {
		items, total, err := s.List(ctx, filter)
		return regionPage{Items: items, Total: total}, err
	})
	if err != nil {
		return nil, 0, err
	}
	return page.Items, page.Total, nil
}

// StoreRetrieve is Retrieve for the store surface, served from the read cache
func (s *RegionService) StoreRetrieve(ctx context.Context, id uuid.UUID) (*RegionResponse, error) {
	if s.cache == nil {
		return s.Retrieve(ctx, id)
	}
	return cache.GetOrLoad(ctx, s.cache, storeCachePrefix+"id:"+id.String(), s.cacheTTL, func(ctx context.Context) (*RegionResponse, error) {
		return s.Retrieve(ctx, id)
	})
}

// regionPage is the cached form of a store region list
type regionPage struct {
	Items []RegionResponse `json:"items"`
	Total int64            `json:"total"`
}

// afterWrite publishes the region's pending events and drops cached reads
func (s *RegionService) afterWrite(ctx context.Context, r *region.Region) {
	if err := shared.PublishAndClear(ctx, s.events, r); err != nil {
		s.logger.Warn("Failed to publish region events",
			zap.String("region_id", r.ID.String()), zap.Error(err))
	}
	if s.cache != nil {
		if err := s.cache.DeletePrefix(ctx, storeCachePrefix); err != nil {
			s.logger.Warn("Failed to invalidate region cache", zap.Error(err))
		}
	}
}

// validateStoreCurrency checks that the store accepts the currency
func validateStoreCurrency(ctx context.Context, repos appshared.TransactionalRepositories, code string) error {
	st, err := repos.StoreRepo().Get(ctx)
	if err != nil {
		return err
	}
	if !st.HasCurrency(code) {
		return shared.NewDomainErrorf("INVALID_INPUT",
			"Currency %s is not enabled for the store", strings.ToLower(code))
	}
	return nil
}

// attachCountries looks codes up and attaches them to r
func attachCountries(ctx context.Context, countries region.CountryRepository, r *region.Region, codes []string) error {
	if len(codes) == 0 {
		return nil
	}
	found, err := lookupCountries(ctx, countries, codes)
	if err != nil {
		return err
	}
	for _, c := range found {
		if _, err := r.AddCountry(c); err != nil {
			return err
		}
	}
	return nil
}

// replaceCountries makes the region's country list equal to codes
func replaceCountries(ctx context.Context, countries region.CountryRepository, r *region.Region, codes []string) error {
	wanted := make(map[string]bool, len(codes))
	for _, code := range codes {
		wanted[region.NormalizeISO2(code)] = true
	}
	for _, code := range r.CountryCodes() {
		if !wanted[code] {
			r.RemoveCountry(code)
		}
	}
	return attachCountries(ctx, countries, r, codes)
}

func lookupCountries(ctx context.Context, countries region.CountryRepository, codes []string) ([]region.Country, error) {
	normalized := make([]string, 0, len(codes))
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		code = region.NormalizeISO2(code)
		if !seen[code] {
			seen[code] = true
			normalized = append(normalized, code)
		}
	}

	found, err := countries.FindByISO2s(ctx, normalized)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]region.Country, len(found))
	for _, c := range found {
		byCode[c.ISO2] = c
	}

	out := make([]region.Country, 0, len(normalized))
	for _, code := range normalized {
		c, ok := byCode[code]
		if !ok {
			return nil, unknownCountry(code)
		}
		out = append(out, c)
	}
	return out, nil
}

func unknownCountry(code string) error {
	return shared.NewDomainErrorf("INVALID_INPUT", "Country with iso2 %s not found", region.NormalizeISO2(code))
}

func notFound(err error, id uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NotFoundError("Region", id.String())
	}
	return err
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
