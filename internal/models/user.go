// internal/models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the seller profile of one authenticated identity.
type User struct {
	ID                uint         `json:"id" gorm:"primaryKey"`
	UUID              uuid.UUID    `json:"uuid" gorm:"type:uuid;uniqueIndex;not null"`
	Username          *string      `json:"username" gorm:"uniqueIndex;size:50"`
	Email             string       `json:"email" gorm:"size:255"`
	Phone             string       `json:"phone" gorm:"size:32"`
	Reddit            string       `json:"reddit" gorm:"size:100"`
	Discord           string       `json:"discord" gorm:"size:100"`
	PaymentMethods    StringArray  `json:"payment_methods"`
	ShippingLocations ShippingJSON `json:"-"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// DisplayName returns the username or an empty string when onboarding is incomplete.
func (u *User) DisplayName() string {
	if u.Username == nil {
		return ""
	}
	return *u.Username
}

// HasContactMethod reports whether at least one way to reach the seller is set.
func (u *User) HasContactMethod() bool {
	return HasContactMethod(u.Email, u.Phone, u.Reddit, u.Discord)
}
