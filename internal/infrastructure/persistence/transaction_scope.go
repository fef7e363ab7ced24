package persistence

import (
	"context"

	appshared "github.com/storefront/backend/internal/application/shared"
	"github.com/storefront/backend/internal/domain/file"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/location"
	"github.com/storefront/backend/internal/domain/region"
	"github.com/storefront/backend/internal/domain/store"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appshared.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) RegionRepo() region.RegionRepository {
	return NewGormRegionRepository(r.tx)
}

func (r *gormTransactionalRepositories) CountryRepo() region.CountryRepository {
	return NewGormCountryRepository(r.tx)
}

func (r *gormTransactionalRepositories) StoreRepo() store.StoreRepository {
	return NewGormStoreRepository(r.tx)
}

func (r *gormTransactionalRepositories) UserRepo() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

func (r *gormTransactionalRepositories) InviteRepo() identity.InviteRepository {
	return NewGormInviteRepository(r.tx)
}

func (r *gormTransactionalRepositories) LocationRepo() location.LocationRepository {
	return NewGormLocationRepository(r.tx)
}

func (r *gormTransactionalRepositories) FileRepo() file.FileRepository {
	return NewGormFileRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appshared.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appshared.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
