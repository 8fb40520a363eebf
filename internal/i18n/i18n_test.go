package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslations(t *testing.T) {
	require.NoError(t, Initialize("en"))

	assert.Equal(t, "Work not found", T("en", KeyWorkNotFound))
	assert.Equal(t, "रचना नहीं मिली", T("hi", KeyWorkNotFound))
	assert.Equal(t, "title is required", T("en", KeyValidationRequired, "title"))
	assert.Equal(t, "content must be at least 50 characters", T("en", KeyValidationTooShort, "content", 50))

	// unknown languages fall back to the default, unknown keys to the key
	assert.Equal(t, "License not found", T("fr", KeyLicenseNotFound))
	assert.Equal(t, "no.such.key", T("en", "no.such.key"))

	assert.True(t, IsSupported("hi"))
	assert.False(t, IsSupported("fr"))
	assert.ElementsMatch(t, []string{"en", "hi"}, GetSupportedLanguages())
}
