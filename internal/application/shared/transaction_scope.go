package shared

import (
	"context"

	"github.com/storefront/backend/internal/domain/file"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/location"
	"github.com/storefront/backend/internal/domain/region"
	"github.com/storefront/backend/internal/domain/store"
)

// TransactionScope runs a unit of work in one database transaction.
// If fn returns an error the transaction is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to repositories that share the
// scope's transaction. Only aggregates that are written together are exposed.
type TransactionalRepositories interface {
	RegionRepo() region.RegionRepository
	CountryRepo() region.CountryRepository
	StoreRepo() store.StoreRepository
	UserRepo() identity.UserRepository
	InviteRepo() identity.InviteRepository
	LocationRepo() location.LocationRepository
	FileRepo() file.FileRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	Regions   region.RegionRepository
	Countries region.CountryRepository
	Stores    store.StoreRepository
	Users     identity.UserRepository
	Invites   identity.InviteRepository
	Locations location.LocationRepository
	Files     file.FileRepository
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// RegionRepo returns the region repository
func (s *NoOpTransactionScope) RegionRepo() region.RegionRepository { return s.Regions }

// CountryRepo returns the country repository
func (s *NoOpTransactionScope) CountryRepo() region.CountryRepository { return s.Countries }

// StoreRepo returns the store repository
func (s *NoOpTransactionScope) StoreRepo() store.StoreRepository { return s.Stores }

// UserRepo returns the user repository
func (s *NoOpTransactionScope) UserRepo() identity.UserRepository { return s.Users }

// InviteRepo returns the invite repository
func (s *NoOpTransactionScope) InviteRepo() identity.InviteRepository { return s.Invites }

// LocationRepo returns the location repository
func (s *NoOpTransactionScope) LocationRepo() location.LocationRepository { return s.Locations }

// FileRepo returns the file repository
func (s *NoOpTransactionScope) FileRepo() file.FileRepository { return s.Files }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
