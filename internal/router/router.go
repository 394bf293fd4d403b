package router

import (
	"net/http"
	"time"

	"techsat/config"
	"techsat/internal/admin"
	"techsat/internal/auth"
	"techsat/internal/handler"
	"techsat/internal/middleware"
	"techsat/internal/presenter"
	"techsat/internal/repository"
	"techsat/internal/web"
	"techsat/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the long-lived collaborators the router wires into handlers.
// The rate limiters are owned by the caller, which stops them on shutdown.
type Deps struct {
	DB           *gorm.DB
	Cloud        cloudinary.Client
	Logger       *zap.Logger
	Sessions     *admin.Sessions
	Limiter      *middleware.InMemoryRateLimiter
	LoginLimiter *middleware.InMemoryRateLimiter
}

func Setup(cfg *config.Config, deps Deps) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	log := deps.Logger

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	if deps.Limiter != nil {
		r.Use(middleware.RateLimit(deps.Limiter))
	}
	r.SetHTMLTemplate(tmpl)

	// Repositories
	policy := repository.NewCallPolicy(&cfg.Backend, log)
	productRepo := repository.NewProductRepository(deps.DB, policy)
	settingRepo := repository.NewSettingRepository(deps.DB, policy)
	adminUserRepo := repository.NewAdminUserRepository(deps.DB, policy)

	authn, err := auth.NewAuthenticator(cfg.Admin, adminUserRepo)
	if err != nil {
		return nil, err
	}
	present := presenter.New(cfg.Storefront)
	ctrl := admin.NewController(productRepo, settingRepo, authn, log)

	// Handlers
	storefront := handler.NewStorefrontHandler(productRepo, settingRepo, present, log)
	adminHandler := handler.NewAdminHandler(ctrl, deps.Sessions, &cfg.JWT, cfg.Storefront.FlashTTL, log)
	uploadHandler := handler.NewUploadHandler(deps.Cloud, log)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})

	r.GET("/", storefront.Home)
	r.GET("/iptv", storefront.IPTV)
	r.GET("/android-boxes", storefront.AndroidBoxes)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/products", storefront.ListProducts)
		v1.GET("/products/:id", storefront.GetProduct)
		v1.GET("/products/:id/purchase", storefront.Purchase)
		v1.GET("/settings/:key", storefront.GetSetting)
	}

	adminGroup := v1.Group("/admin")
	login := []gin.HandlerFunc{adminHandler.Login}
	if deps.LoginLimiter != nil {
		login = append([]gin.HandlerFunc{middleware.RateLimit(deps.LoginLimiter)}, login...)
	}
	adminGroup.POST("/login", login...)

	protected := adminGroup.Group("")
	protected.Use(middleware.AdminRequired(&cfg.JWT))
	{
		protected.POST("/logout", adminHandler.Logout)
		protected.GET("/dashboard", adminHandler.Dashboard)
		protected.POST("/dashboard/reload", adminHandler.Reload)
		protected.POST("/products/new", adminHandler.StartCreate)
		protected.POST("/products/:id/edit", adminHandler.StartEdit)
		protected.DELETE("/products/:id", adminHandler.Remove)
		protected.POST("/form/cancel", adminHandler.Cancel)
		protected.POST("/form/save", adminHandler.Save)
		protected.PUT("/settings/download-link", adminHandler.UpdateDownloadLink)
		protected.PUT("/settings/featured-message", adminHandler.UpdateFeaturedMessage)
		protected.POST("/uploads/image", uploadHandler.UploadProductImage)
		protected.DELETE("/uploads/image", uploadHandler.DeleteProductImage)
	}

	return r, nil
}
