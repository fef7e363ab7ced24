package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	fileapp "github.com/storefront/backend/internal/application/file"
	identityapp "github.com/storefront/backend/internal/application/identity"
	locationapp "github.com/storefront/backend/internal/application/location"
	regionapp "github.com/storefront/backend/internal/application/region"
	storeapp "github.com/storefront/backend/internal/application/store"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// services wires the real application services over an in-memory SQLite
// database, the in-process event bus and a local storage directory
type services struct {
	db        *gorm.DB
	jwt       *auth.JWTService
	blacklist *auth.MemoryTokenBlacklist
	events    *testutil.MockEventHandler
	files     *storage.LocalFileService

	regions    *regionapp.RegionService
	countries  *regionapp.CountryService
	currencies *storeapp.CurrencyService
	store      *storeapp.StoreService
	auth       *identityapp.AuthService
	users      *identityapp.UserService
	invites    *identityapp.InviteService
	locations  *locationapp.LocationService
	uploads    *fileapp.UploadService
}

func newServices(t *testing.T) *services {
	t.Helper()
	log := zaptest.NewLogger(t)

	db := testutil.NewSQLiteDB(t)
	testutil.SeedCurrencies(t, db, "usd", "eur", "dkk")
	testutil.SeedCountries(t, db, "dk", "se", "de", "us")

	bus := event.NewInMemoryEventBus(log)
	recorder := testutil.NewMockEventHandler()
	bus.Subscribe(recorder)
	require.NoError(t, bus.Start(context.Background()))

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "handler-test-secret-at-least-32-characters",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "storefront-test",
		MaxRefreshCount:        3,
	})
	blacklist := auth.NewMemoryTokenBlacklist()

	files, err := storage.NewLocalFileService(config.LocalStorageConfig{
		Dir:     t.TempDir(),
		BaseURL: "http://localhost:9000/uploads",
	}, "download-signing-secret", time.Minute, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = files.Close() })

	txScope := persistence.NewGormTransactionScope(db)
	userRepo := persistence.NewGormUserRepository(db)
	currencyRepo := persistence.NewGormCurrencyRepository(db)

	s := &services{
		db:        db,
		jwt:       jwtService,
		blacklist: blacklist,
		events:    recorder,
		files:     files,

		regions: regionapp.NewRegionService(
			persistence.NewGormRegionRepository(db), txScope, bus,
			cache.NewMemoryCache(time.Minute), time.Minute, log),
		countries:  regionapp.NewCountryService(persistence.NewGormCountryRepository(db), log),
		currencies: storeapp.NewCurrencyService(currencyRepo),
		store: storeapp.NewStoreService(
			persistence.NewGormStoreRepository(db), currencyRepo, txScope, bus, log),
		auth: identityapp.NewAuthService(userRepo, jwtService, blacklist,
			identityapp.DefaultAuthServiceConfig(), log),
		users: identityapp.NewUserService(userRepo, blacklist, bus, jwtService.AccessTokenExpiration(), log),
		invites: identityapp.NewInviteService(
			persistence.NewGormInviteRepository(db), txScope, jwtService, bus, 24*time.Hour, log),
		locations: locationapp.NewLocationService(
			persistence.NewGormLocationRepository(db), txScope, bus, log),
		uploads: fileapp.NewUploadService(files, persistence.NewGormFileRepository(db), bus, log),
	}

	_, err = s.store.EnsureStore(context.Background())
	require.NoError(t, err)
	return s
}

// createUser stores a user through the user service and returns its ID
func (s *services) createUser(t *testing.T, email, password, role string) uuid.UUID {
	t.Helper()
	user, err := s.users.Create(context.Background(), identityapp.CreateUserRequest{
		Email:    email,
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)
	return user.ID
}

// newAdminRouter returns an engine whose requests run as an authenticated user
func newAdminRouter(userID uuid.UUID, role string) *gin.Engine {
	router := gin.New()
	router.Use(authenticate(userID, role))
	return router
}

func doJSON(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// errorCodeOf returns the error code of an error envelope
func errorCodeOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decode(t, w)
	require.NotNil(t, resp.Error, w.Body.String())
	return resp.Error.Code
}
