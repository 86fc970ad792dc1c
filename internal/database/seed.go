// internal/database/seed.go
package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/keebmarket-backend/internal/models"
)

// DemoSellerUUID owns the listings created by SeedInitialData.
var DemoSellerUUID = uuid.MustParse("00000000-0000-4000-8000-000000000001")

const demoShipping = `[{"isGlobal":true,"cost":"$25"},{"isGlobal":false,"countryId":233,"region":"United States of America","cost":"$8"}]`

// SeedInitialData creates a demo seller with a handful of listings when the
// listings table is empty.
func SeedInitialData(db *gorm.DB) error {
	logrus.Info("Seeding initial data...")

	var listingCount int64
	if err := db.Model(&models.Listing{}).Count(&listingCount).Error; err != nil {
		return fmt.Errorf("failed to count listings: %w", err)
	}
	if listingCount > 0 {
		logrus.Info("Listings already present, skipping seed")
		return nil
	}

	username := "keebdemo"
	seller := &models.User{
		UUID:              DemoSellerUUID,
		Username:          &username,
		Discord:           "keebdemo",
		PaymentMethods:    models.StringArray{"PayPal", "Zelle"},
		ShippingLocations: models.ShippingJSON(demoShipping),
	}

	return WithTransaction(db, func(tx *gorm.DB) error {
		if err := tx.Where("uuid = ?", seller.UUID).FirstOrCreate(seller).Error; err != nil {
			return fmt.Errorf("failed to create demo seller: %w", err)
		}

		now := time.Now().UTC()
		listings := []models.Listing{
			{Title: "Q1 Pro", Brand: "Keychron", ProductType: models.ProductTypeKeyboards, Condition: "New", PriceCents: 19900,
				Description: "Wireless 75% board with gateron jupiter browns."},
			{Title: "Gateron Oil Kings (x70)", Brand: "Gateron", ProductType: models.ProductTypeSwitches, Condition: "New", PriceCents: 4500,
				Description: "Factory lubed linears, unused."},
			{Title: "GMK Olivia++ base", Brand: "GMK", ProductType: models.ProductTypeKeycaps, Condition: "Good", PriceCents: 13000,
				Description: "Mounted once, no shine."},
			{Title: "Coiled aviator cable", Brand: "Kono", ProductType: models.ProductTypeAccessories, Condition: "New", PriceCents: 3500,
				Description: "USB-C to USB-A, 1.5m."},
		}

		for i := range listings {
			listings[i].Images = models.StringArray{}
			listings[i].SellerUUID = seller.UUID
			listings[i].SellerUsername = username
			listings[i].ShippingLocations = models.ShippingJSON(demoShipping)
			listings[i].CreatedAt = now.Add(-time.Duration(i) * time.Hour)
		}

		if err := tx.Create(&listings).Error; err != nil {
			return fmt.Errorf("failed to create demo listings: %w", err)
		}

		logrus.WithField("count", len(listings)).Info("Initial data seeding completed")
		return nil
	})
}
