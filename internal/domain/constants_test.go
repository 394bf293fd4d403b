package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategory(t *testing.T) {
	assert.True(t, CategoryIPTV.Valid())
	assert.True(t, CategoryAndroidBox.Valid())
	assert.False(t, Category("iptv").Valid())
	assert.False(t, Category("").Valid())

	assert.Equal(t, "IPTV Service", CategoryIPTV.Label())
	assert.Equal(t, "Android Box", CategoryAndroidBox.Label())
}

func TestRecognizedSetting(t *testing.T) {
	assert.True(t, RecognizedSetting(SettingIPTVDownloadLink))
	assert.True(t, RecognizedSetting(SettingFeaturedMessage))
	assert.False(t, RecognizedSetting("jwt_secret"))
}
