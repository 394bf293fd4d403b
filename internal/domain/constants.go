package domain

// Category is the fixed product taxonomy.
type Category string

const (
	CategoryIPTV       Category = "IPTV"
	CategoryAndroidBox Category = "Android_Box"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryIPTV, CategoryAndroidBox}

func (c Category) Valid() bool {
	return c == CategoryIPTV || c == CategoryAndroidBox
}

// Label is the customer-facing name of the category.
func (c Category) Label() string {
	switch c {
	case CategoryIPTV:
		return "IPTV Service"
	case CategoryAndroidBox:
		return "Android Box"
	}
	return string(c)
}

// Recognized app_settings keys. The backend does not enforce this set.
const (
	SettingIPTVDownloadLink = "iptv_app_download_link"
	SettingFeaturedMessage  = "featured_message"
)

// RecognizedSetting reports whether key is one the storefront reads.
func RecognizedSetting(key string) bool {
	return key == SettingIPTVDownloadLink || key == SettingFeaturedMessage
}

const (
	DefaultPlaceholderImage = "https://images.pexels.com/photos/1201996/pexels-photo-1201996.jpeg"
	DefaultCurrency         = "TND"
)

// IPTVHighlights are shown under every IPTV product card.
var IPTVHighlights = []string{"HD Quality", "24/7 Support", "Multi-Device"}
