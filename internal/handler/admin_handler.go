package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"techsat/config"
	"techsat/internal/admin"
	"techsat/internal/auth"
	"techsat/internal/middleware"
	"techsat/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionView is what every admin response carries.
type SessionView struct {
	Username        string           `json:"username"`
	Ready           bool             `json:"ready"`
	Mode            admin.Mode       `json:"mode"`
	EditingID       string           `json:"editing_id,omitempty"`
	Form            admin.Form       `json:"form"`
	Products        []models.Product `json:"products"`
	DownloadLink    string           `json:"download_link"`
	FeaturedMessage string           `json:"featured_message"`
	Flash           *admin.Flash     `json:"flash,omitempty"`
}

type AdminHandler struct {
	ctrl     *admin.Controller
	sessions *admin.Sessions
	jwtCfg   *config.JWTConfig
	flashTTL time.Duration
	log      *zap.Logger
	now      func() time.Time
}

func NewAdminHandler(
	ctrl *admin.Controller,
	sessions *admin.Sessions,
	jwtCfg *config.JWTConfig,
	flashTTL time.Duration,
	log *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		ctrl:     ctrl,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		flashTTL: flashTTL,
		log:      log,
		now:      time.Now,
	}
}

func (h *AdminHandler) view(s admin.Session) SessionView {
	products := s.Products
	if products == nil {
		products = []models.Product{}
	}
	return SessionView{
		Username:        s.Username,
		Ready:           s.Ready,
		Mode:            s.Mode,
		EditingID:       s.EditingID,
		Form:            s.Form,
		Products:        products,
		DownloadLink:    s.DownloadLink,
		FeaturedMessage: s.FeaturedMessage,
		Flash:           s.ActiveFlash(h.now(), h.flashTTL),
	}
}

func (h *AdminHandler) respond(c *gin.Context, s admin.Session, err error) {
	body := gin.H{"session": h.view(s)}
	if err != nil {
		_ = c.Error(err)
		body["error"] = err.Error()
		if s.Flash != nil && s.Flash.Kind == admin.FlashError {
			body["error"] = s.Flash.Text
		}
	}
	c.JSON(statusFor(err), body)
}

// run holds the session's busy flag for the whole of fn so a second write
// on the same session is refused until the first resolves.
func (h *AdminHandler) run(c *gin.Context, fn func(ctx context.Context, s admin.Session) (admin.Session, error)) {
	s, err := h.sessions.Begin(middleware.GetSessionID(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	next, err := fn(c.Request.Context(), s)
	h.sessions.End(next)
	h.respond(c, next, err)
}

// Login handles POST /api/v1/admin/login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}
	s := h.sessions.New()
	s, err := h.ctrl.Login(c.Request.Context(), s, req.Username, req.Password)
	if err != nil {
		h.sessions.Delete(s.ID)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		abortWithError(c, err)
		return
	}
	token, err := auth.GenerateAdminToken(h.jwtCfg, s.ID, s.Username)
	if err != nil {
		h.sessions.Delete(s.ID)
		h.log.Error("sign admin token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign token"})
		return
	}
	h.sessions.End(s)
	h.log.Info("admin logged in", zap.String("username", s.Username))
	c.JSON(http.StatusOK, gin.H{"token": token, "session": h.view(s)})
}

// Logout handles POST /api/v1/admin/logout.
func (h *AdminHandler) Logout(c *gin.Context) {
	h.sessions.Delete(middleware.GetSessionID(c))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Dashboard handles GET /api/v1/admin/dashboard.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	s, ok := h.sessions.Get(middleware.GetSessionID(c))
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": admin.ErrNotAuthenticated.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": h.view(s)})
}

// Reload handles POST /api/v1/admin/dashboard/reload.
func (h *AdminHandler) Reload(c *gin.Context) {
	h.run(c, h.ctrl.Load)
}

// StartCreate handles POST /api/v1/admin/products/new.
func (h *AdminHandler) StartCreate(c *gin.Context) {
	h.run(c, func(_ context.Context, s admin.Session) (admin.Session, error) {
		return h.ctrl.StartCreate(s)
	})
}

// StartEdit handles POST /api/v1/admin/products/:id/edit.
func (h *AdminHandler) StartEdit(c *gin.Context) {
	id := c.Param("id")
	h.run(c, func(ctx context.Context, s admin.Session) (admin.Session, error) {
		return h.ctrl.StartEditID(ctx, s, id)
	})
}

// Cancel handles POST /api/v1/admin/form/cancel.
func (h *AdminHandler) Cancel(c *gin.Context) {
	h.run(c, func(_ context.Context, s admin.Session) (admin.Session, error) {
		return h.ctrl.Cancel(s)
	})
}

// Save handles POST /api/v1/admin/form/save.
func (h *AdminHandler) Save(c *gin.Context) {
	var form admin.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form"})
		return
	}
	h.run(c, func(ctx context.Context, s admin.Session) (admin.Session, error) {
		return h.ctrl.Save(ctx, s, form)
	})
}

// Remove handles DELETE /api/v1/admin/products/:id?confirm=true.
func (h *AdminHandler) Remove(c *gin.Context) {
	id := c.Param("id")
	confirmed := c.Query("confirm") == "true"
	h.run(c, func(ctx context.Context, s admin.Session) (admin.Session, error) {
		return h.ctrl.Remove(ctx, s, id, confirmed)
	})
}

type settingRequest struct {
	Value string `json:"value"`
}

// UpdateDownloadLink handles PUT /api/v1/admin/settings/download-link.
func (h *AdminHandler) UpdateDownloadLink(c *gin.Context) {
	var req settingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value required"})
		return
	}
	h.run(c, func(ctx context.Context, s admin.Session) (admin.Session, error) {
		return h.ctrl.UpdateDownloadLink(ctx, s, req.Value)
	})
}

// UpdateFeaturedMessage handles PUT /api/v1/admin/settings/featured-message.
func (h *AdminHandler) UpdateFeaturedMessage(c *gin.Context) {
	var req settingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value required"})
		return
	}
	h.run(c, func(ctx context.Context, s admin.Session) (admin.Session, error) {
		return h.ctrl.UpdateFeaturedMessage(ctx, s, req.Value)
	})
}
