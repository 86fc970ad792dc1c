// Package shipping decodes and evaluates the shipping entries attached to
// seller profiles and listings.
package shipping

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/javajoker/keebmarket-backend/internal/models"
)

var (
	ErrGlobalWithGeography = errors.New("global shipping entry must not carry a country or state")
	ErrMissingCountry      = errors.New("regional shipping entry requires a country")
	ErrMissingCost         = errors.New("shipping entry requires a cost")
)

// Result is the outcome of decoding a shipping column. Malformed is set when the
// stored value could not be decoded into valid entries; Err carries the reason.
type Result struct {
	Locations []models.ShippingLocation
	Malformed bool
	Err       error
}

// Parse decodes raw shipping data. The stored value is either a JSON array or a
// JSON string whose content is the array. An empty or null value yields no entries.
func Parse(raw []byte) Result {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Result{}
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return malformed(fmt.Errorf("decode wrapped shipping data: %w", err))
		}
		raw = bytes.TrimSpace([]byte(inner))
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			return Result{}
		}
	}

	if raw[0] != '[' {
		return malformed(errors.New("shipping data is not an array"))
	}

	var locations []models.ShippingLocation
	if err := json.Unmarshal(raw, &locations); err != nil {
		return malformed(fmt.Errorf("decode shipping data: %w", err))
	}

	for i, loc := range locations {
		if err := ValidateShape(loc); err != nil {
			return malformed(fmt.Errorf("entry %d: %w", i, err))
		}
	}

	return Result{Locations: locations}
}

func malformed(err error) Result {
	return Result{Malformed: true, Err: err}
}

// ValidateShape checks the geography invariant of a single entry.
func ValidateShape(loc models.ShippingLocation) error {
	if loc.IsGlobal {
		if loc.CountryID != nil || loc.StateID != nil {
			return ErrGlobalWithGeography
		}
		return nil
	}
	if loc.CountryID == nil {
		return ErrMissingCountry
	}
	return nil
}

// Validate checks an entry submitted by a seller: shape plus a parseable cost.
func Validate(loc models.ShippingLocation) error {
	if err := ValidateShape(loc); err != nil {
		return err
	}
	if _, err := ParseUSD(loc.Cost); err != nil {
		return ErrMissingCost
	}
	return nil
}

// Encode normalizes entries for storage. Global entries lose any geography and
// every cost is reformatted as a USD display string.
func Encode(locations []models.ShippingLocation) (models.ShippingJSON, error) {
	normalized := make([]models.ShippingLocation, 0, len(locations))
	for _, loc := range locations {
		if loc.IsGlobal {
			loc.CountryID, loc.StateID, loc.CityID = nil, nil, nil
		}
		loc.Cost = FormatUSD(loc.Cost)
		normalized = append(normalized, loc)
	}

	data, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("encode shipping data: %w", err)
	}
	return models.ShippingJSON(data), nil
}

// HasGlobal reports whether any entry ships worldwide.
func HasGlobal(locations []models.ShippingLocation) bool {
	for _, loc := range locations {
		if loc.IsGlobal {
			return true
		}
	}
	return false
}

// ShipsTo reports whether some entry is global or scoped to region. An entry
// is scoped to a region when its region label matches case-insensitively or
// its country id equals the region value.
func ShipsTo(locations []models.ShippingLocation, region string) bool {
	region = strings.TrimSpace(region)
	for _, loc := range locations {
		if loc.IsGlobal {
			return true
		}
		if loc.Region != "" && strings.EqualFold(loc.Region, region) {
			return true
		}
		if loc.CountryID != nil && strconv.Itoa(*loc.CountryID) == region {
			return true
		}
	}
	return false
}

// Matches applies the region and global-only filters. Both must hold when set.
func Matches(locations []models.ShippingLocation, region string, globalOnly bool) bool {
	if globalOnly && !HasGlobal(locations) {
		return false
	}
	if region != "" && !ShipsTo(locations, region) {
		return false
	}
	return true
}

// Project reduces entries to the shape exposed on listing views.
func Project(locations []models.ShippingLocation) []models.ShippingOption {
	options := make([]models.ShippingOption, 0, len(locations))
	for _, loc := range locations {
		options = append(options, models.ShippingOption{
			Cost:      loc.Cost,
			IsGlobal:  loc.IsGlobal,
			CountryID: loc.CountryID,
			StateID:   loc.StateID,
		})
	}
	return options
}
