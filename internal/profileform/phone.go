// internal/profileform/phone.go
package profileform

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/nyaruka/phonenumbers"
)

const DefaultCallingCode = "+1"

// CallingCode is one entry of the calling-code selector.
type CallingCode struct {
	Region string `json:"region"`
	Code   string `json:"code"`
}

var (
	callingCodesOnce sync.Once
	callingCodes     []CallingCode
	knownCodes       map[string]bool
)

// CallingCodes lists every region known to libphonenumber with its calling
// code, ordered by region.
func CallingCodes() []CallingCode {
	callingCodesOnce.Do(func() {
		knownCodes = make(map[string]bool)
		for region := range phonenumbers.GetSupportedRegions() {
			code := phonenumbers.GetCountryCodeForRegion(region)
			if code == 0 {
				continue
			}
			entry := CallingCode{Region: region, Code: "+" + strconv.Itoa(code)}
			callingCodes = append(callingCodes, entry)
			knownCodes[entry.Code] = true
		}
		sort.Slice(callingCodes, func(i, j int) bool {
			return callingCodes[i].Region < callingCodes[j].Region
		})
	})
	return callingCodes
}

// IsCallingCode reports whether code (e.g. "+44") belongs to some region.
func IsCallingCode(code string) bool {
	CallingCodes()
	return knownCodes[code]
}

// FormatPhoneNumber keeps the digits of value and groups them 3-3-4. Digits
// past the tenth are dropped.
func FormatPhoneNumber(value string) string {
	digits := make([]rune, 0, len(value))
	for _, r := range value {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	if len(digits) > 10 {
		digits = digits[:10]
	}

	switch {
	case len(digits) <= 3:
		return string(digits)
	case len(digits) <= 6:
		return string(digits[:3]) + "-" + string(digits[3:])
	default:
		return string(digits[:3]) + "-" + string(digits[3:6]) + "-" + string(digits[6:])
	}
}

// ComposePhone joins a calling code and a formatted number. An empty number
// yields an empty phone.
func ComposePhone(code, number string) string {
	if number == "" {
		return ""
	}
	return code + " " + number
}

// SplitPhone recovers the calling code and formatted number from a stored
// phone value. The longest matching calling code wins; values without one
// fall back to DefaultCallingCode.
func SplitPhone(stored string) (code, number string) {
	stored = strings.TrimSpace(stored)
	if stored == "" {
		return DefaultCallingCode, ""
	}
	if !strings.HasPrefix(stored, "+") {
		return DefaultCallingCode, FormatPhoneNumber(stored)
	}

	if i := strings.IndexByte(stored, ' '); i > 0 && IsCallingCode(stored[:i]) {
		return stored[:i], FormatPhoneNumber(stored[i+1:])
	}

	// Calling codes are at most three digits
	for n := 4; n >= 2; n-- {
		if len(stored) >= n && IsCallingCode(stored[:n]) {
			return stored[:n], FormatPhoneNumber(stored[n:])
		}
	}
	return DefaultCallingCode, FormatPhoneNumber(stored[1:])
}
