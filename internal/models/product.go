// internal/models/product.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Listing is a single sellable item posted by a seller.
type Listing struct {
	ID                uint         `json:"id" gorm:"primaryKey"`
	Title             string       `json:"title" gorm:"size:255;not null"`
	PriceCents        int64        `json:"price_cents" gorm:"not null;index"`
	Description       string       `json:"description" gorm:"type:text"`
	ProductType       string       `json:"product_type" gorm:"size:50;index"`
	Brand             string       `json:"brand" gorm:"size:100"`
	Condition         string       `json:"condition" gorm:"size:20"`
	Images            StringArray  `json:"images"`
	SellerUUID        uuid.UUID    `json:"seller_uuid" gorm:"type:uuid;not null;index"`
	SellerUsername    string       `json:"seller_username" gorm:"size:50;not null"`
	ShippingLocations ShippingJSON `json:"-"`
	CreatedAt         time.Time    `json:"created_at" gorm:"index"`
}

// Report flags a listing for moderation.
type Report struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ListingID uint      `json:"listing_id" gorm:"not null;index"`
	URL       string    `json:"url" gorm:"size:2048;not null"`
	CreatedAt time.Time `json:"created_at"`
}
