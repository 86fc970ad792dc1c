package shipping

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUSD(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abc", ""},
		{"15", "$15"},
		{"$15", "$15"},
		{"15.5", "$15.5"},
		{"15.567", "$15.56"},
		{"1,200.00", "$1200.00"},
		{"15.", "$15."},
		{"1.2.3", "$1.2"},
		{"USD 9.99", "$9.99"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatUSD(tc.in), "input %q", tc.in)
	}
}

func TestFormatUSDIsIdempotent(t *testing.T) {
	for _, in := range []string{"15", "$0.5", "12.345", "$1200", "7.", "x1y2.3z4"} {
		once := FormatUSD(in)
		assert.Equal(t, once, FormatUSD(once), "input %q", in)
	}
}

func TestParseUSD(t *testing.T) {
	amount, err := ParseUSD("$15.50")
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("15.5")))

	amount, err = ParseUSD(".5")
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("0.5")))

	_, err = ParseUSD("$")
	assert.ErrorIs(t, err, ErrEmptyAmount)

	_, err = ParseUSD("")
	assert.ErrorIs(t, err, ErrEmptyAmount)
}

func TestCentsConversions(t *testing.T) {
	assert.Equal(t, int64(1999), DollarsToCents(decimal.RequireFromString("19.99")))
	assert.Equal(t, int64(1000), DollarsToCents(decimal.RequireFromString("9.995")))
	assert.Equal(t, "12.5", CentsToDollars(1250).String())
}
