package store

import (
	"context"

	"github.com/storefront/backend/internal/domain/store"
)

// CurrencyService serves currency reference data
type CurrencyService struct {
	currencies store.CurrencyRepository
}

// NewCurrencyService creates a new CurrencyService
func NewCurrencyService(currencies store.CurrencyRepository) *CurrencyService {
	return &CurrencyService{currencies: currencies}
}

// List returns a page of currencies and the total count
func (s *CurrencyService) List(ctx context.Context, filter CurrencyListFilter) ([]CurrencyResponse, int64, error) {
	f := filter.ToFilter()
	currencies, err := s.currencies.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.currencies.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]CurrencyResponse, 0, len(currencies))
	for _, c := range currencies {
		out = append(out, ToCurrencyResponse(c))
	}
	return out, total, nil
}
