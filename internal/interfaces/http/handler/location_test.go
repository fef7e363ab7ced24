package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	storeapp "github.com/storefront/backend/internal/application/store"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocationRouter(t *testing.T) (*gin.Engine, *services) {
	t.Helper()
	s := newServices(t)
	h := NewLocationHandler(s.locations)

	router := newAdminRouter(uuid.New(), "admin")
	router.GET("/admin/stock-locations", h.List)
	router.POST("/admin/stock-locations", h.Create)
	router.GET("/admin/stock-locations/:id", h.Retrieve)
	router.POST("/admin/stock-locations/:id", h.Update)
	router.DELETE("/admin/stock-locations/:id", h.Delete)
	return router, s
}

func createLocation(t *testing.T, router http.Handler, name string) LocationEnvelope {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/admin/stock-locations", map[string]any{
		"name": name,
		"address": map[string]string{
			"address_1":    "Vesterbrogade 1",
			"city":         "Copenhagen",
			"country_code": "DK",
			"postal_code":  "1620",
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env, _ := decodeData[LocationEnvelope](t, w)
	return env
}

func TestLocationHandler_Create(t *testing.T) {
	router, _ := newLocationRouter(t)

	env := createLocation(t, router, "Copenhagen warehouse")
	require.NotNil(t, env.StockLocation)
	assert.Equal(t, "Copenhagen warehouse", env.StockLocation.Name)
	require.NotNil(t, env.StockLocation.Address)
	assert.Equal(t, "dk", env.StockLocation.Address.CountryCode)
	assert.Equal(t, "Copenhagen", env.StockLocation.Address.City)

	t.Run("without an address", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/admin/stock-locations", map[string]any{"name": "Virtual"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		env, _ := decodeData[LocationEnvelope](t, w)
		assert.Nil(t, env.StockLocation.Address)
	})

	t.Run("address without country", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/admin/stock-locations", map[string]any{
			"name":    "Broken",
			"address": map[string]string{"address_1": "Somewhere 1"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, errorCodeOf(t, w))
	})

	t.Run("missing name", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/admin/stock-locations", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLocationHandler_ListRetrieveUpdate(t *testing.T) {
	router, _ := newLocationRouter(t)
	cph := createLocation(t, router, "Copenhagen warehouse")
	createLocation(t, router, "Aarhus store")

	w := doJSON(router, http.MethodGet, "/admin/stock-locations?q=warehouse", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list, meta := decodeData[LocationListEnvelope](t, w)
	assert.Equal(t, int64(1), meta.Count)
	require.Len(t, list.StockLocations, 1)
	assert.Equal(t, cph.StockLocation.ID, list.StockLocations[0].ID)

	path := "/admin/stock-locations/" + cph.StockLocation.ID.String()
	w = doJSON(router, http.MethodPost, path, map[string]any{
		"name":     "Copenhagen hub",
		"metadata": map[string]any{"dock_doors": 4},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated, _ := decodeData[LocationEnvelope](t, w)
	assert.Equal(t, "Copenhagen hub", updated.StockLocation.Name)
	assert.EqualValues(t, 4, updated.StockLocation.Metadata["dock_doors"])
	require.NotNil(t, updated.StockLocation.Address)
	assert.Equal(t, "Vesterbrogade 1", updated.StockLocation.Address.Address1)

	w = doJSON(router, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got, _ := decodeData[LocationEnvelope](t, w)
	assert.Equal(t, "Copenhagen hub", got.StockLocation.Name)

	assert.Equal(t, http.StatusNotFound,
		doJSON(router, http.MethodGet, "/admin/stock-locations/"+uuid.NewString(), nil).Code)
	assert.Equal(t, http.StatusNotFound,
		doJSON(router, http.MethodPost, "/admin/stock-locations/"+uuid.NewString(), map[string]any{"name": "x"}).Code)
}

func TestLocationHandler_DeleteClearsStoreDefault(t *testing.T) {
	router, s := newLocationRouter(t)
	env := createLocation(t, router, "Copenhagen warehouse")
	id := env.StockLocation.ID

	_, err := s.store.Update(context.Background(), storeapp.UpdateStoreRequest{DefaultLocationID: &id})
	require.NoError(t, err)

	w := doJSON(router, http.MethodDelete, "/admin/stock-locations/"+id.String(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	st, err := s.store.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Nil(t, st.DefaultLocationID)

	assert.Equal(t, http.StatusNotFound, doJSON(router, http.MethodGet, "/admin/stock-locations/"+id.String(), nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(router, http.MethodDelete, "/admin/stock-locations/"+id.String(), nil).Code)
}
