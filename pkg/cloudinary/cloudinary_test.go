package cloudinary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicIDFromURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://res.cloudinary.com/shop/image/upload/v1712/techsat/products/img_ab12.jpg", "techsat/products/img_ab12"},
		{"https://res.cloudinary.com/shop/image/upload/q_auto,f_auto,w_800,c_fill/v1/techsat/products/img_ab12.webp", "techsat/products/img_ab12"},
		{"https://res.cloudinary.com/shop/image/upload/techsat/products/img_ab12", "techsat/products/img_ab12"},
	}
	for _, tc := range cases {
		got, err := PublicIDFromURL("shop", "techsat/products", tc.url)
		require.NoError(t, err, tc.url)
		assert.Equal(t, tc.want, got)
	}
}

func TestPublicIDFromForeignURL(t *testing.T) {
	for _, raw := range []string{
		"https://images.pexels.com/photos/1/x.jpg",
		"https://res.cloudinary.com/other/image/upload/v1/techsat/products/a.jpg",
		"https://res.cloudinary.com/shop/image/upload/v1/other/a.jpg",
		"https://res.cloudinary.com/shop/image/upload/v1/mytechsat/products/a.jpg",
		"https://res.cloudinary.com/shop/image/upload/v1/techsat/products/",
		"::",
	} {
		_, err := PublicIDFromURL("shop", "techsat/products", raw)
		assert.ErrorIs(t, err, ErrForeignURL, raw)
	}
}

func TestBuildOptimizedImageURL(t *testing.T) {
	assert.Equal(t, "https://res.cloudinary.com/shop/image/upload/q_auto,f_auto,w_800,c_fill/techsat/products/a",
		BuildOptimizedImageURL("shop", "techsat/products/a", 0))
	assert.Contains(t, BuildOptimizedImageURL("shop", "a", ThumbWidth), "w_200")
}

func TestNewClientFromParams(t *testing.T) {
	c, err := NewClientFromParams("shop", "key", "secret", "/techsat/products/")
	require.NoError(t, err)
	assert.Equal(t, "techsat/products", c.(*clientImpl).folder)
}
