package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// Client uploads and removes product images.
type Client interface {
	UploadImage(ctx context.Context, file io.Reader, publicID string) (url, thumbnailURL string, err error)
	DeleteByURL(ctx context.Context, url string) error
}

// Optimized image params for fast storefront loading
const (
	ImageWidth = 800
	ThumbWidth = 200
)

const imageEager = "q_auto,f_auto,w_800,c_fill"

var eagerAsyncFalse = false

// ErrForeignURL is returned by DeleteByURL for URLs outside this cloud and folder.
var ErrForeignURL = errors.New("image is not managed by this store")

// BuildOptimizedImageURL returns a Cloudinary URL with transformations for optimized delivery.
func BuildOptimizedImageURL(cloudName, publicID string, width int) string {
	if width <= 0 {
		width = ImageWidth
	}
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/q_auto,f_auto,w_%d,c_fill/%s",
		cloudName, width, publicID)
}

type clientImpl struct {
	cloudName string
	folder    string
	uploader  *uploader.API
}

// UploadImage uploads a product image into the configured folder with eager optimizations.
func (c *clientImpl) UploadImage(ctx context.Context, file io.Reader, publicID string) (url, thumbnailURL string, err error) {
	result, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:     c.folder,
		PublicID:   publicID,
		Eager:      imageEager,
		EagerAsync: &eagerAsyncFalse,
	})
	if err != nil {
		return "", "", err
	}
	if result.Error.Message != "" {
		return "", "", errors.New(result.Error.Message)
	}
	url = result.SecureURL
	if len(result.Eager) > 0 {
		thumbnailURL = result.Eager[0].SecureURL
	}
	if thumbnailURL == "" {
		thumbnailURL = BuildOptimizedImageURL(c.cloudName, result.PublicID, ThumbWidth)
	}
	return url, thumbnailURL, nil
}

// DeleteByURL destroys the asset behind a delivery URL produced by UploadImage.
func (c *clientImpl) DeleteByURL(ctx context.Context, rawURL string) error {
	publicID, err := PublicIDFromURL(c.cloudName, c.folder, rawURL)
	if err != nil {
		return err
	}
	result, err := c.uploader.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return err
	}
	if result.Error.Message != "" {
		return errors.New(result.Error.Message)
	}
	return nil
}

// PublicIDFromURL extracts the public id from
// https://res.cloudinary.com/<cloud>/image/upload/[<transforms>/][v<version>/]<folder>/<name>.<ext>
// and rejects anything outside cloudName and folder.
func PublicIDFromURL(cloudName, folder, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host != "res.cloudinary.com" {
		return "", ErrForeignURL
	}
	prefix := "/" + cloudName + "/image/upload/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", ErrForeignURL
	}
	rest := strings.TrimPrefix(u.Path, prefix)
	folder = strings.Trim(folder, "/")
	idx := strings.Index(rest, folder+"/")
	if folder == "" || idx < 0 || (idx > 0 && rest[idx-1] != '/') {
		return "", ErrForeignURL
	}
	id := rest[idx:]
	id = strings.TrimSuffix(id, path.Ext(id))
	if id == folder+"/" || strings.HasSuffix(id, "/") {
		return "", ErrForeignURL
	}
	return id, nil
}

// NewClientFromParams builds a Client from Cloudinary cloud name, API key, secret and upload folder.
func NewClientFromParams(cloudName, apiKey, apiSecret, folder string) (Client, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &clientImpl{
		cloudName: cloudName,
		folder:    strings.Trim(folder, "/"),
		uploader:  up,
	}, nil
}
