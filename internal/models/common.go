// internal/models/common.go
package models

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringArray is an ordered list of strings stored as a postgres text[].
// Other dialects keep the same array literal in a text column.
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	return pq.StringArray(a).Value()
}

func (a *StringArray) Scan(value interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(value); err != nil {
		return fmt.Errorf("failed to scan string array: %w", err)
	}
	*a = StringArray(arr)
	return nil
}

func (StringArray) GormDataType() string {
	return "text[]"
}

func (StringArray) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// ShippingJSON holds the raw shipping_locations column. Rows written by older
// clients may contain a JSON string wrapping the array, so the bytes are kept
// untouched here and decoded by the shipping package.
type ShippingJSON []byte

func (j ShippingJSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *ShippingJSON) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = ShippingJSON(v)
	default:
		return errors.New("unsupported type for shipping_locations")
	}
	return nil
}

func (ShippingJSON) GormDataType() string {
	return "jsonb"
}

func (ShippingJSON) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}

// Product categories accepted for listings.
const (
	ProductTypeKeyboards     = "Keyboards"
	ProductTypeSwitches      = "Switches"
	ProductTypeKeycaps       = "Keycaps"
	ProductTypeAccessories   = "Accessories"
	ProductTypeMiscellaneous = "Miscellaneous"
)

var ProductTypes = []string{
	ProductTypeKeyboards,
	ProductTypeSwitches,
	ProductTypeKeycaps,
	ProductTypeAccessories,
	ProductTypeMiscellaneous,
}

// SortKey orders listing query results.
type SortKey string

const (
	SortPriceLowHigh SortKey = "price-low-high"
	SortPriceHighLow SortKey = "price-high-low"
	SortNewestFirst  SortKey = "newest-first"
	SortOldestFirst  SortKey = "oldest-first"
)

// ParseSortKey maps unknown or empty input to SortNewestFirst.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPriceLowHigh, SortPriceHighLow, SortNewestFirst, SortOldestFirst:
		return SortKey(s)
	default:
		return SortNewestFirst
	}
}

// PaymentMethod is one entry of the payment method catalog. Profiles store the Name.
type PaymentMethod struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var PaymentMethods = []PaymentMethod{
	{ID: "paypal", Name: "PayPal"},
	{ID: "credit_card", Name: "Credit Card"},
	{ID: "bank_transfer", Name: "Bank Transfer"},
	{ID: "venmo", Name: "Venmo"},
	{ID: "cash_app", Name: "Cash App"},
	{ID: "zelle", Name: "Zelle"},
	{ID: "crypto", Name: "Cryptocurrency"},
	{ID: "apple_pay", Name: "Apple Pay"},
	{ID: "google_pay", Name: "Google Pay"},
	{ID: "check", Name: "Check"},
	{ID: "money_order", Name: "Money Order"},
}

// LookupPaymentMethod finds a catalog entry by id.
func LookupPaymentMethod(id string) (PaymentMethod, bool) {
	for _, m := range PaymentMethods {
		if m.ID == id {
			return m, true
		}
	}
	return PaymentMethod{}, false
}

// IsPaymentMethodName reports whether name is a catalog display name.
func IsPaymentMethodName(name string) bool {
	for _, m := range PaymentMethods {
		if m.Name == name {
			return true
		}
	}
	return false
}
