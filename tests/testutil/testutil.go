// Package testutil provides common test utilities for the storefront backend:
// database fixtures, an event recorder and HTTP table test helpers.
package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockDB wraps a GORM database with sqlmock for testing.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB opens a GORM postgres dialect over sqlmock. Pings are monitored,
// so tests must expect every ping after the one GORM sends on open. The
// connection is closed on cleanup.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err, "Failed to create sqlmock")
	t.Cleanup(func() { _ = mockDB.Close() })
	mock.ExpectPing()

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err, "Failed to open GORM connection")

	return &MockDB{
		DB:    gormDB,
		Mock:  mock,
		SqlDB: mockDB,
	}
}

// NewSQLiteDB opens an in-memory SQLite database private to the test with
// every storefront model migrated. The connection is closed on cleanup.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "Failed to open SQLite database")

	require.NoError(t, db.AutoMigrate(models.All()...), "Failed to migrate models")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// SeedCountries inserts minimal country rows for the given ISO 2 codes
func SeedCountries(t *testing.T, db *gorm.DB, codes ...string) {
	t.Helper()
	for i, code := range codes {
		require.NoError(t, db.Create(&models.CountryModel{
			ISO2: code, ISO3: code + "x", NumCode: i + 1, Name: code, DisplayName: code,
		}).Error)
	}
}

// SeedCurrencies inserts minimal currency rows for the given codes
func SeedCurrencies(t *testing.T, db *gorm.DB, codes ...string) {
	t.Helper()
	for _, code := range codes {
		require.NoError(t, db.Create(&models.CurrencyModel{
			Code: code, Symbol: code, SymbolNative: code, Name: "Currency " + code,
		}).Error)
	}
}
