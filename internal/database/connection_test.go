package database

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/keebmarket-backend/internal/config"
	"github.com/javajoker/keebmarket-backend/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Initialize(config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		MaxLifetime:  300,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })

	require.NoError(t, RunMigrations(db))
	return db
}

func TestRunMigrationsCreatesTables(t *testing.T) {
	db := openTestDB(t)

	for _, model := range []interface{}{&models.User{}, &models.Listing{}, &models.Report{}} {
		assert.True(t, db.Migrator().HasTable(model))
	}
}

func TestSeedInitialDataIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, SeedInitialData(db))
	require.NoError(t, SeedInitialData(db))

	var listings []models.Listing
	require.NoError(t, db.Find(&listings).Error)
	assert.Len(t, listings, 4)
	assert.Equal(t, DemoSellerUUID, listings[0].SellerUUID)
	assert.Equal(t, models.StringArray{}, listings[0].Images)

	var sellers int64
	require.NoError(t, db.Model(&models.User{}).Count(&sellers).Error)
	assert.Equal(t, int64(1), sellers)
}

func TestWithTransactionRollsBack(t *testing.T) {
	db := openTestDB(t)

	err := WithTransaction(db, func(tx *gorm.DB) error {
		if err := tx.Create(&models.Report{ListingID: 1, URL: "https://example.com/item/1"}).Error; err != nil {
			return err
		}
		return fmt.Errorf("boom")
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Report{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestStringArrayRoundTrip(t *testing.T) {
	db := openTestDB(t)

	username := "roundtrip"
	user := &models.User{
		UUID:           DemoSellerUUID,
		Username:       &username,
		PaymentMethods: models.StringArray{"PayPal", "Cash App", `with "quotes"`},
	}
	require.NoError(t, db.Create(user).Error)

	var loaded models.User
	require.NoError(t, db.First(&loaded, user.ID).Error)
	assert.Equal(t, user.PaymentMethods, loaded.PaymentMethods)
	assert.Equal(t, "roundtrip", loaded.DisplayName())
}
