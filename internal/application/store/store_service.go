package store

import (
	"context"
	"errors"
	"strings"

	appshared "github.com/storefront/backend/internal/application/shared"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/store"
	"go.uber.org/zap"
)

// StoreService manages the store settings singleton
type StoreService struct {
	stores     store.StoreRepository
	currencies store.CurrencyRepository
	txScope    appshared.TransactionScope
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewStoreService creates a new StoreService
func NewStoreService(
	stores store.StoreRepository,
	currencies store.CurrencyRepository,
	txScope appshared.TransactionScope,
	events shared.EventPublisher,
	logger *zap.Logger,
) *StoreService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreService{
		stores:     stores,
		currencies: currencies,
		txScope:    txScope,
		events:     events,
		logger:     logger,
	}
}

// EnsureStore creates the store with default settings if none exists
func (s *StoreService) EnsureStore(ctx context.Context) (*StoreResponse, error) {
	existing, err := s.stores.Get(ctx)
	if err == nil {
		return ToStoreResponse(existing), nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	currency, err := s.currencies.FindByCode(ctx, store.DefaultCurrencyCode)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		currency = &store.Currency{Code: store.DefaultCurrencyCode}
	}

	st, err := store.NewStore(store.DefaultStoreName, *currency)
	if err != nil {
		return nil, err
	}
	if err := s.stores.Save(ctx, st); err != nil {
		return nil, err
	}
	s.publish(ctx, st)
	s.logger.Info("Created default store", zap.String("store_id", st.ID.String()))
	return ToStoreResponse(st), nil
}

// Retrieve returns the store
func (s *StoreService) Retrieve(ctx context.Context) (*StoreResponse, error) {
	st, err := s.stores.Get(ctx)
	if err != nil {
		return nil, err
	}
	return ToStoreResponse(st), nil
}

// Update applies the fields present in req
func (s *StoreService) Update(ctx context.Context, req UpdateStoreRequest) (*StoreResponse, error) {
	var updated *store.Store
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		st, err := repos.StoreRepo().Get(ctx)
		if err != nil {
			return err
		}

		if req.Name != nil {
			if err := st.Rename(*req.Name); err != nil {
				return err
			}
		}
		if err := s.applyCurrencies(ctx, st, req.Currencies, req.DefaultCurrencyCode); err != nil {
			return err
		}
		if req.DefaultRegionID != nil {
			if _, err := repos.RegionRepo().FindByID(ctx, *req.DefaultRegionID); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NotFoundError("Region", req.DefaultRegionID.String())
				}
				return err
			}
			st.SetDefaultRegion(req.DefaultRegionID)
		}
		if req.DefaultLocationID != nil {
			if _, err := repos.LocationRepo().FindByID(ctx, *req.DefaultLocationID); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NotFoundError("Stock location", req.DefaultLocationID.String())
				}
				return err
			}
			st.SetDefaultLocation(req.DefaultLocationID)
		}
		if req.SwapLinkTemplate != nil || req.PaymentLinkTemplate != nil || req.InviteLinkTemplate != nil {
			st.SetLinkTemplates(req.SwapLinkTemplate, req.PaymentLinkTemplate, req.InviteLinkTemplate)
		}
		if req.Metadata != nil {
			st.MergeMetadata(req.Metadata)
		}

		st.MarkUpdated()
		if err := repos.StoreRepo().Save(ctx, st); err != nil {
			return err
		}
		updated = st
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, updated)
	return ToStoreResponse(updated), nil
}

// applyCurrencies replaces the currency set and/or the default currency.
// The default currency must be part of the resulting set.
func (s *StoreService) applyCurrencies(ctx context.Context, st *store.Store, codes *[]string, defaultCode *string) error {
	if codes == nil {
		if defaultCode == nil {
			return nil
		}
		return st.SetDefaultCurrency(*defaultCode)
	}

	next, err := s.resolveCurrencies(ctx, *codes)
	if err != nil {
		return err
	}

	target := st.DefaultCurrencyCode
	if defaultCode != nil {
		target = strings.ToLower(*defaultCode)
	}
	for _, c := range next {
		st.AddCurrency(c)
	}
	if err := st.SetDefaultCurrency(target); err != nil {
		return err
	}
	return st.ReplaceCurrencies(next)
}

func (s *StoreService) resolveCurrencies(ctx context.Context, codes []string) ([]store.Currency, error) {
	normalized := make([]string, 0, len(codes))
	for _, code := range codes {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(code)))
	}
	found, err := s.currencies.FindByCodes(ctx, normalized)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]store.Currency, len(found))
	for _, c := range found {
		byCode[c.Code] = c
	}
	out := make([]store.Currency, 0, len(normalized))
	for _, code := range normalized {
		c, ok := byCode[code]
		if !ok {
			return nil, shared.NewDomainErrorf("NOT_FOUND", "Currency with code %s does not exist", code)
		}
		out = append(out, c)
	}
	return out, nil
}

// AddCurrency adds a currency to the store. Adding a present currency is a no-op.
func (s *StoreService) AddCurrency(ctx context.Context, code string) (*StoreResponse, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	currency, err := s.currencies.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainErrorf("NOT_FOUND", "Currency with code %s does not exist", code)
		}
		return nil, err
	}

	var st *store.Store
	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		st, err = repos.StoreRepo().Get(ctx)
		if err != nil {
			return err
		}
		if !st.AddCurrency(*currency) {
			return nil
		}
		st.MarkUpdated()
		return repos.StoreRepo().Save(ctx, st)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, st)
	return ToStoreResponse(st), nil
}

// RemoveCurrency removes a currency from the store. The default currency
// cannot be removed.
func (s *StoreService) RemoveCurrency(ctx context.Context, code string) (*StoreResponse, error) {
	code = strings.ToLower(strings.TrimSpace(code))

	var st *store.Store
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		st, err = repos.StoreRepo().Get(ctx)
		if err != nil {
			return err
		}
		if !st.HasCurrency(code) {
			return nil
		}
		if err := st.RemoveCurrency(code); err != nil {
			return err
		}
		st.MarkUpdated()
		return repos.StoreRepo().Save(ctx, st)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, st)
	return ToStoreResponse(st), nil
}

func (s *StoreService) publish(ctx context.Context, st *store.Store) {
	if err := shared.PublishAndClear(ctx, s.events, st); err != nil {
		s.logger.Warn("Failed to publish store events", zap.Error(err))
	}
}
