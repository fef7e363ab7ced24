package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/region"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegionWithCountries(t *testing.T, ctx context.Context, countries *GormCountryRepository, name string, codes ...string) *region.Region {
	t.Helper()
	r, err := region.NewRegion(name, "eur", decimal.RequireFromString("0.25"))
	require.NoError(t, err)
	found, err := countries.FindByISO2s(ctx, codes)
	require.NoError(t, err)
	for _, c := range found {
		_, err := r.AddCountry(c)
		require.NoError(t, err)
	}
	return r
}

func TestGormRegionRepository_SaveAndFind(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.SeedCountries(t, db, "dk", "se", "de")
	ctx := context.Background()
	repo := NewGormRegionRepository(db)
	countries := NewGormCountryRepository(db)

	r := newRegionWithCountries(t, ctx, countries, "Nordics", "dk", "se")
	r.MergeMetadata(shared.Metadata{"source": "test"})
	require.NoError(t, repo.Save(ctx, r))

	t.Run("loads region with countries", func(t *testing.T) {
		got, err := repo.FindByID(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, "Nordics", got.Name)
		assert.True(t, got.TaxRate.Equal(decimal.RequireFromString("0.25")))
		assert.Equal(t, []string{"dk", "se"}, got.CountryCodes())
		assert.Equal(t, "test", got.Metadata["source"])
	})

	t.Run("countries point at the region", func(t *testing.T) {
		dk, err := countries.FindByISO2(ctx, "DK")
		require.NoError(t, err)
		assert.True(t, dk.BelongsTo(r.ID))
	})

	t.Run("update detaches removed countries", func(t *testing.T) {
		got, err := repo.FindByID(ctx, r.ID)
		require.NoError(t, err)
		_, ok := got.RemoveCountry("se")
		require.True(t, ok)
		require.NoError(t, got.Rename("Denmark only"))
		require.NoError(t, repo.Save(ctx, got))

		se, err := countries.FindByISO2(ctx, "se")
		require.NoError(t, err)
		assert.Nil(t, se.RegionID)

		reloaded, err := repo.FindByID(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, "Denmark only", reloaded.Name)
		assert.Equal(t, []string{"dk"}, reloaded.CountryCodes())
	})

	t.Run("rejects a country owned by another region", func(t *testing.T) {
		other, err := region.NewRegion("Other", "eur", decimal.Zero)
		require.NoError(t, err)
		// Bypass the aggregate check to exercise the storage guard.
		other.Countries = []region.Country{{ISO2: "dk"}}

		err = repo.Save(ctx, other)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrConflict)

		_, err = repo.FindByID(ctx, other.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("missing region", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormRegionRepository_FindAll(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.SeedCountries(t, db, "dk", "us")
	ctx := context.Background()
	repo := NewGormRegionRepository(db)
	countries := NewGormCountryRepository(db)

	for _, name := range []string{"Alpha", "Beta", "Gamma"} {
		require.NoError(t, repo.Save(ctx, newRegionWithCountries(t, ctx, countries, name)))
	}
	eu := newRegionWithCountries(t, ctx, countries, "Europe", "dk")
	require.NoError(t, repo.Save(ctx, eu))

	filter := shared.Filter{PageSize: 2, OrderBy: "name", OrderDir: "asc"}
	page, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Alpha", page[0].Name)
	assert.Equal(t, "Beta", page[1].Name)

	filter.Skip = 2
	page, err = repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Europe", page[0].Name)
	assert.Equal(t, []string{"dk"}, page[0].CountryCodes())

	total, err := repo.Count(ctx, shared.Filter{Search: "ALP"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	t.Run("ignores unknown sort columns", func(t *testing.T) {
		_, err := repo.FindAll(ctx, shared.Filter{OrderBy: "name; DROP TABLE regions"})
		require.NoError(t, err)
	})
}

func TestGormRegionRepository_Delete(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.SeedCountries(t, db, "dk")
	ctx := context.Background()
	repo := NewGormRegionRepository(db)
	countries := NewGormCountryRepository(db)

	r := newRegionWithCountries(t, ctx, countries, "Europe", "dk")
	require.NoError(t, repo.Save(ctx, r))

	require.NoError(t, repo.Delete(ctx, r.ID))

	_, err := repo.FindByID(ctx, r.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	dk, err := countries.FindByISO2(ctx, "dk")
	require.NoError(t, err)
	assert.Nil(t, dk.RegionID)

	var raw models.RegionModel
	require.NoError(t, db.Unscoped().First(&raw, "id = ?", r.ID).Error)
	assert.True(t, raw.DeletedAt.Valid)

	assert.ErrorIs(t, repo.Delete(ctx, r.ID), shared.ErrNotFound)
}

func TestGormCountryRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	repo := NewGormCountryRepository(db)

	reference := region.ReferenceCountries()
	added, err := repo.Upsert(ctx, reference)
	require.NoError(t, err)
	assert.Equal(t, len(reference), added)

	t.Run("upsert is idempotent", func(t *testing.T) {
		added, err := repo.Upsert(ctx, reference)
		require.NoError(t, err)
		assert.Zero(t, added)
	})

	t.Run("finds by code", func(t *testing.T) {
		dk, err := repo.FindByISO2(ctx, "DK")
		require.NoError(t, err)
		assert.Equal(t, "Denmark", dk.DisplayName)
		assert.Equal(t, "dnk", dk.ISO3)

		_, err = repo.FindByISO2(ctx, "zz")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("finds a subset and skips unknown codes", func(t *testing.T) {
		found, err := repo.FindByISO2s(ctx, []string{"se", "DK", "zz"})
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "dk", found[0].ISO2)
	})

	t.Run("searches by name", func(t *testing.T) {
		total, err := repo.Count(ctx, shared.Filter{Search: "denm"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)

		list, err := repo.FindAll(ctx, shared.Filter{Search: "us", PageSize: 50})
		require.NoError(t, err)
		assert.NotEmpty(t, list)
	})
}
