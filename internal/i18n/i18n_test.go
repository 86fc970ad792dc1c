package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslations(t *testing.T) {
	require.NoError(t, Initialize("/nonexistent/locales", "en"))

	assert.Equal(t, "Listing not found", T("en", KeyListingNotFound))
	assert.Equal(t, "找不到商品", T("zh_TW", KeyListingNotFound))
	assert.Equal(t, "Listing not found", T("fr", KeyListingNotFound))
	assert.Equal(t, "Invalid listing id", T("en", KeyListingInvalidID))
	assert.Equal(t, "Invalid page", T("en", KeyValidationInvalid, "page"))
	assert.Equal(t, "no.such.key", T("en", "no.such.key"))

	assert.True(t, IsSupported("zh_TW"))
	assert.False(t, IsSupported("fr"))
	assert.ElementsMatch(t, []string{"en", "zh_TW"}, GetSupportedLanguages())
}
