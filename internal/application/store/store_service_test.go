package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appshared "github.com/storefront/backend/internal/application/shared"
	"github.com/storefront/backend/internal/domain/location"
	"github.com/storefront/backend/internal/domain/region"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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
	return m.Called(ctx, s).Error(0)
}

type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) FindByCode(ctx context.Context, code string) (*store.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) FindByCodes(ctx context.Context, codes []string) ([]store.Currency, error) {
	args := m.Called(ctx, codes)
	return args.Get(0).([]store.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]store.Currency, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]store.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockRegionRepository struct {
	mock.Mock
	region.RegionRepository
}

func (m *MockRegionRepository) FindByID(ctx context.Context, id uuid.UUID) (*region.Region, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*region.Region), args.Error(1)
}

type MockLocationRepository struct {
	mock.Mock
	location.LocationRepository
}

func (m *MockLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*location.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*location.Location), args.Error(1)
}

type storeFixture struct {
	stores     *MockStoreRepository
	currencies *MockCurrencyRepository
	regions    *MockRegionRepository
	locations  *MockLocationRepository
	service    *StoreService
}

func newStoreFixture() *storeFixture {
	f := &storeFixture{
		stores:     new(MockStoreRepository),
		currencies: new(MockCurrencyRepository),
		regions:    new(MockRegionRepository),
		locations:  new(MockLocationRepository),
	}
	scope := &appshared.NoOpTransactionScope{Stores: f.stores, Regions: f.regions, Locations: f.locations}
	f.service = NewStoreService(f.stores, f.currencies, scope, nil, nil)
	return f
}

var (
	usd = store.Currency{Code: "usd", Symbol: "$", SymbolNative: "$", Name: "US Dollar"}
	eur = store.Currency{Code: "eur", Symbol: "€", SymbolNative: "€", Name: "Euro"}
	gbp = store.Currency{Code: "gbp", Symbol: "£", SymbolNative: "£", Name: "British Pound"}
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.NewStore("Storefront", usd)
	require.NoError(t, err)
	st.AddCurrency(eur)
	return st
}

func codeOf(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func TestStoreService_EnsureStore(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the default store", func(t *testing.T) {
		f := newStoreFixture()
		f.stores.On("Get", mock.Anything).Return(nil, shared.ErrNotFound)
		f.currencies.On("FindByCode", mock.Anything, "usd").Return(&usd, nil)
		f.stores.On("Save", mock.Anything, mock.AnythingOfType("*store.Store")).Return(nil)

		resp, err := f.service.EnsureStore(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Storefront", resp.Name)
		assert.Equal(t, "usd", resp.DefaultCurrencyCode)
		require.NotNil(t, resp.DefaultCurrency)
		assert.Equal(t, "US Dollar", resp.DefaultCurrency.Name)
		f.stores.AssertExpectations(t)
	})

	t.Run("keeps an existing store", func(t *testing.T) {
		f := newStoreFixture()
		st := newTestStore(t)
		f.stores.On("Get", mock.Anything).Return(st, nil)

		resp, err := f.service.EnsureStore(ctx)
		require.NoError(t, err)
		assert.Equal(t, st.ID, resp.ID)
		f.stores.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestStoreService_UpdateCurrencies(t *testing.T) {
	ctx := context.Background()

	t.Run("replace set and default together", func(t *testing.T) {
		f := newStoreFixture()
		st := newTestStore(t)
		f.stores.On("Get", mock.Anything).Return(st, nil)
		f.stores.On("Save", mock.Anything, st).Return(nil)
		f.currencies.On("FindByCodes", mock.Anything, []string{"eur", "gbp"}).Return([]store.Currency{eur, gbp}, nil)

		codes := []string{"EUR", "gbp"}
		def := "gbp"
		resp, err := f.service.Update(ctx, UpdateStoreRequest{Currencies: &codes, DefaultCurrencyCode: &def})
		require.NoError(t, err)
		assert.Equal(t, "gbp", resp.DefaultCurrencyCode)
		assert.Len(t, resp.Currencies, 2)
	})

	t.Run("dropping the default is rejected", func(t *testing.T) {
		f := newStoreFixture()
		st := newTestStore(t)
		f.stores.On("Get", mock.Anything).Return(st, nil)
		f.currencies.On("FindByCodes", mock.Anything, []string{"eur"}).Return([]store.Currency{eur}, nil)

		codes := []string{"eur"}
		_, err := f.service.Update(ctx, UpdateStoreRequest{Currencies: &codes})
		assert.Equal(t, "BUSINESS_RULE", codeOf(err))
		f.stores.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown currency", func(t *testing.T) {
		f := newStoreFixture()
		f.stores.On("Get", mock.Anything).Return(newTestStore(t), nil)
		f.currencies.On("FindByCodes", mock.Anything, mock.Anything).Return([]store.Currency{usd}, nil)

		codes := []string{"usd", "xyz"}
		_, err := f.service.Update(ctx, UpdateStoreRequest{Currencies: &codes})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("default must be a store currency", func(t *testing.T) {
		f := newStoreFixture()
		f.stores.On("Get", mock.Anything).Return(newTestStore(t), nil)

		def := "gbp"
		_, err := f.service.Update(ctx, UpdateStoreRequest{DefaultCurrencyCode: &def})
		assert.Equal(t, "BUSINESS_RULE", codeOf(err))
	})
}

func TestStoreService_UpdateDefaults(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture()
	st := newTestStore(t)
	f.stores.On("Get", mock.Anything).Return(st, nil)
	f.stores.On("Save", mock.Anything, st).Return(nil)

	r, err := region.NewRegion("NA", "usd", decimal.Zero)
	require.NoError(t, err)
	f.regions.On("FindByID", mock.Anything, r.ID).Return(r, nil)
	missing := uuid.New()
	f.locations.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)

	name := "Outlet"
	invite := "https://admin.example/invite?token={invite_token}"
	resp, err := f.service.Update(ctx, UpdateStoreRequest{
		Name:               &name,
		DefaultRegionID:    &r.ID,
		InviteLinkTemplate: &invite,
		Metadata:           shared.Metadata{"theme": "dark"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Outlet", resp.Name)
	assert.Equal(t, &r.ID, resp.DefaultRegionID)
	assert.Equal(t, invite, resp.InviteLinkTemplate)
	assert.Equal(t, "dark", resp.Metadata["theme"])

	_, err = f.service.Update(ctx, UpdateStoreRequest{DefaultLocationID: &missing})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestStoreService_AddRemoveCurrency(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture()
	st := newTestStore(t)
	f.stores.On("Get", mock.Anything).Return(st, nil)
	f.stores.On("Save", mock.Anything, st).Return(nil)
	f.currencies.On("FindByCode", mock.Anything, "gbp").Return(&gbp, nil)
	f.currencies.On("FindByCode", mock.Anything, "xyz").Return(nil, shared.ErrNotFound)

	resp, err := f.service.AddCurrency(ctx, "GBP")
	require.NoError(t, err)
	assert.Len(t, resp.Currencies, 3)

	// idempotent
	_, err = f.service.AddCurrency(ctx, "gbp")
	require.NoError(t, err)
	f.stores.AssertNumberOfCalls(t, "Save", 1)

	_, err = f.service.AddCurrency(ctx, "xyz")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	resp, err = f.service.RemoveCurrency(ctx, "eur")
	require.NoError(t, err)
	assert.Len(t, resp.Currencies, 2)

	_, err = f.service.RemoveCurrency(ctx, "usd")
	assert.Equal(t, "BUSINESS_RULE", codeOf(err))
}

func TestCurrencyService_List(t *testing.T) {
	currencies := new(MockCurrencyRepository)
	currencies.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool { return f.Search == "eur" })).
		Return([]store.Currency{eur}, nil)
	currencies.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

	items, total, err := NewCurrencyService(currencies).List(context.Background(), CurrencyListFilter{
		ListParams: appshared.ListParams{Q: "eur"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Euro", items[0].Name)
}
