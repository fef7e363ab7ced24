package region

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/region"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/store"
	"github.com/stretchr/testify/mock"
)

// MockRegionRepository is a mock implementation of RegionRepository
type MockRegionRepository struct {
	mock.Mock
}

func (m *MockRegionRepository) FindByID(ctx context.Context, id uuid.UUID) (*region.Region, error) {
	args := m.Called(ctx, id)
	if fn, ok := args.Get(0).(func(context.Context, uuid.UUID) *region.Region); ok {
		return fn(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*region.Region), args.Error(1)
}

func (m *MockRegionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]region.Region, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]region.Region), args.Error(1)
}

func (m *MockRegionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRegionRepository) Save(ctx context.Context, r *region.Region) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRegionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCountryRepository is a mock implementation of CountryRepository
type MockCountryRepository struct {
	mock.Mock
}

func (m *MockCountryRepository) FindByISO2(ctx context.Context, iso2 string) (*region.Country, error) {
	args := m.Called(ctx, iso2)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*region.Country), args.Error(1)
}

func (m *MockCountryRepository) FindByISO2s(ctx context.Context, codes []string) ([]region.Country, error) {
	args := m.Called(ctx, codes)
	return args.Get(0).([]region.Country), args.Error(1)
}

func (m *MockCountryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]region.Country, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]region.Country), args.Error(1)
}

func (m *MockCountryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCountryRepository) Upsert(ctx context.Context, countries []region.Country) (int, error) {
	args := m.Called(ctx, countries)
	return args.Int(0), args.Error(1)
}

// MockStoreRepository is a mock implementation of StoreRepository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) Get(ctx context.Context) (*store.Store, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Store), args.Error(1)
}

func (m *MockStoreRepository) Save(ctx context.Context, s *store.Store) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// recordingPublisher collects published events
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}
