// internal/models/views.go
package models

import (
	"strings"
	"time"
	"unicode"
)

// ShippingLocation is one shipping entry as stored on a profile or listing.
type ShippingLocation struct {
	IsGlobal  bool   `json:"isGlobal"`
	CountryID *int   `json:"countryId,omitempty"`
	StateID   *int   `json:"stateId,omitempty"`
	CityID    *int   `json:"cityId,omitempty"`
	Region    string `json:"region,omitempty"`
	Cost      string `json:"cost"`
}

// ShippingOption is the minimal shipping shape exposed on listing views.
type ShippingOption struct {
	Cost      string `json:"cost"`
	IsGlobal  bool   `json:"isGlobal"`
	CountryID *int   `json:"countryId,omitempty"`
	StateID   *int   `json:"stateId,omitempty"`
}

// ListingView is the client-facing shape of a listing.
type ListingView struct {
	ID               uint             `json:"id"`
	Name             string           `json:"name"`
	Price            float64          `json:"price"`
	PriceCents       int64            `json:"price_cents"`
	Description      string           `json:"description"`
	ProductType      string           `json:"product_type"`
	Brand            string           `json:"brand"`
	Condition        string           `json:"condition"`
	Images           []string         `json:"images"`
	Username         string           `json:"username"`
	SellerID         string           `json:"seller_id"`
	CreatedAt        time.Time        `json:"created_at"`
	IsGlobalShipping bool             `json:"isGlobalShipping"`
	ShippingOptions  []ShippingOption `json:"shippingOptions"`
}

// ListingQuery holds the search, filter, sort and paging inputs of a listing search.
type ListingQuery struct {
	Search   string  `json:"search,omitempty"`
	Category string  `json:"productType,omitempty"`
	Region   string  `json:"region,omitempty"`
	IsGlobal bool    `json:"isGlobal,omitempty"`
	SortBy   SortKey `json:"sortBy,omitempty"`
	Page     int     `json:"page"`
	Limit    int     `json:"limit"`
}

// HasShippingFilter reports whether the query needs the in-memory shipping pass.
func (q ListingQuery) HasShippingFilter() bool {
	return q.Region != "" || q.IsGlobal
}

// ProfileView is the caller's own seller profile.
type ProfileView struct {
	UUID              string             `json:"uuid"`
	Username          string             `json:"username"`
	Email             string             `json:"email"`
	Phone             string             `json:"phone"`
	Reddit            string             `json:"reddit"`
	Discord           string             `json:"discord"`
	PaymentMethods    []string           `json:"paymentMethods"`
	ShippingLocations []ShippingLocation `json:"shippingLocations"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// SellerView is the public contact card shown on a listing page.
type SellerView struct {
	UUID           string   `json:"uuid"`
	Username       string   `json:"username"`
	Email          string   `json:"email,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	Reddit         string   `json:"reddit,omitempty"`
	Discord        string   `json:"discord,omitempty"`
	PaymentMethods []string `json:"paymentMethods"`
}

// MinPhoneDigits is the shortest phone number accepted as a contact method.
const MinPhoneDigits = 5

// HasContactMethod reports whether any of the contact fields is usable.
func HasContactMethod(email, phone, reddit, discord string) bool {
	return strings.TrimSpace(email) != "" ||
		PhoneDigits(phone) >= MinPhoneDigits ||
		strings.TrimSpace(reddit) != "" ||
		strings.TrimSpace(discord) != ""
}

// PhoneDigits counts the digits of the subscriber part of a phone number.
// A leading "+<code> " calling-code prefix is not counted.
func PhoneDigits(phone string) int {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "+") {
		if i := strings.IndexByte(phone, ' '); i >= 0 {
			phone = phone[i+1:]
		}
	}
	n := 0
	for _, r := range phone {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
