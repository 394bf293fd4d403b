package handler

import (
	"context"
	"net/http"
	"time"

	"techsat/internal/domain"
	"techsat/internal/models"
	"techsat/internal/presenter"
	"techsat/internal/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProductCatalog is the read side of the product repository.
type ProductCatalog interface {
	ListAll(ctx context.Context) ([]models.Product, error)
	ListByCategory(ctx context.Context, category domain.Category) ([]models.Product, error)
	ListFeatured(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
}

type SettingReader interface {
	Get(ctx context.Context, key string) (string, error)
}

type StorefrontHandler struct {
	products ProductCatalog
	settings SettingReader
	present  *presenter.Presenter
	log      *zap.Logger
}

func NewStorefrontHandler(products ProductCatalog, settings SettingReader, present *presenter.Presenter, log *zap.Logger) *StorefrontHandler {
	return &StorefrontHandler{products: products, settings: settings, present: present, log: log}
}

func (h *StorefrontHandler) page(title, active string) web.Page {
	return web.Page{
		Title:       title,
		Active:      active,
		Store:       h.present.Config(),
		Tagline:     h.present.Tagline(""),
		GeneralLink: h.present.GeneralInquiryLink(),
		IPTVLink:    h.present.IPTVInquiryLink(),
		BoxLink:     h.present.BoxInquiryLink(),
		CallLink:    h.present.CallLink(),
		Year:        time.Now().Year(),
	}
}

// load runs both reads concurrently. A failed read is logged and leaves its
// part of the page empty.
func (h *StorefrontHandler) load(ctx context.Context, page string,
	list func(context.Context) ([]models.Product, error), key string,
) ([]presenter.Display, string) {
	var (
		products []models.Product
		value    string
		g        errgroup.Group
	)
	g.Go(func() error {
		var err error
		if products, err = list(ctx); err != nil {
			h.log.Error("storefront products load failed", zap.String("page", page), zap.Error(err))
		}
		return nil
	})
	if key != "" {
		g.Go(func() error {
			var err error
			if value, err = h.settings.Get(ctx, key); err != nil {
				h.log.Error("storefront setting load failed", zap.String("page", page), zap.String("key", key), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
	return h.present.ToDisplayList(products), value
}

// Home handles GET /.
func (h *StorefrontHandler) Home(c *gin.Context) {
	p := h.page("Home", "home")
	var message string
	p.Products, message = h.load(c.Request.Context(), "home", h.products.ListFeatured, domain.SettingFeaturedMessage)
	p.Tagline = h.present.Tagline(message)
	c.HTML(http.StatusOK, "home.tmpl", p)
}

// IPTV handles GET /iptv.
func (h *StorefrontHandler) IPTV(c *gin.Context) {
	p := h.page("IPTV", "iptv")
	p.Products, p.DownloadLink = h.load(c.Request.Context(), "iptv", h.byCategory(domain.CategoryIPTV), domain.SettingIPTVDownloadLink)
	c.HTML(http.StatusOK, "iptv.tmpl", p)
}

// AndroidBoxes handles GET /android-boxes.
func (h *StorefrontHandler) AndroidBoxes(c *gin.Context) {
	p := h.page("Android Boxes", "android-boxes")
	p.Products, _ = h.load(c.Request.Context(), "android-boxes", h.byCategory(domain.CategoryAndroidBox), "")
	c.HTML(http.StatusOK, "android_boxes.tmpl", p)
}

func (h *StorefrontHandler) byCategory(category domain.Category) func(context.Context) ([]models.Product, error) {
	return func(ctx context.Context) ([]models.Product, error) {
		return h.products.ListByCategory(ctx, category)
	}
}

// ListProducts handles GET /api/v1/products?category=&featured=true.
func (h *StorefrontHandler) ListProducts(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		list []models.Product
		err  error
	)
	switch {
	case c.Query("featured") == "true":
		list, err = h.products.ListFeatured(ctx)
	case c.Query("category") != "":
		list, err = h.products.ListByCategory(ctx, domain.Category(c.Query("category")))
	default:
		list, err = h.products.ListAll(ctx)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.present.ToDisplayList(list)})
}

// GetProduct handles GET /api/v1/products/:id.
func (h *StorefrontHandler) GetProduct(c *gin.Context) {
	p, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.present.ToDisplay(*p))
}

// Purchase handles GET /api/v1/products/:id/purchase by redirecting to WhatsApp.
func (h *StorefrontHandler) Purchase(c *gin.Context) {
	p, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Redirect(http.StatusFound, h.present.BuildPurchaseLink(*p))
}

// GetSetting handles GET /api/v1/settings/:key for the public keys.
func (h *StorefrontHandler) GetSetting(c *gin.Context) {
	key := c.Param("key")
	if !domain.RecognizedSetting(key) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown setting"})
		return
	}
	value, err := h.settings.Get(c.Request.Context(), key)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": value})
}
