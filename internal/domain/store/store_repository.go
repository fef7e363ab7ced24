package store

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
)

// StoreRepository persists the store singleton
type StoreRepository interface {
	// Get returns the store with its currencies, or ErrNotFound if none exists
	Get(ctx context.Context) (*Store, error)

	// Save creates or updates the store and its currency set
	Save(ctx context.Context, store *Store) error
}

// CurrencyRepository reads currency reference data
type CurrencyRepository interface {
	FindByCode(ctx context.Context, code string) (*Currency, error)
	FindByCodes(ctx context.Context, codes []string) ([]Currency, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Currency, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
