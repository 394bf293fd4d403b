package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"techsat/internal/auth"
	"techsat/internal/domain"
	"techsat/internal/models"
	"techsat/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotAuthenticated     = errors.New("login required")
	ErrNotEditing           = errors.New("no product form is open")
	ErrConfirmationRequired = errors.New("deletion must be confirmed")
	ErrBusy                 = errors.New("another change is still in progress")
)

// ProductStore is the product repository as seen by the admin workflow.
type ProductStore interface {
	ListAll(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, in repository.ProductInput) (*models.Product, error)
	Update(ctx context.Context, id string, patch repository.ProductPatch) error
	Remove(ctx context.Context, id string) error
}

type SettingStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Controller drives admin sessions through login, dashboard loading and the
// product form. It holds no per-session state.
type Controller struct {
	products ProductStore
	settings SettingStore
	authn    auth.Authenticator
	log      *zap.Logger
	now      func() time.Time
}

func NewController(products ProductStore, settings SettingStore, authn auth.Authenticator, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{products: products, settings: settings, authn: authn, log: log, now: time.Now}
}

func (c *Controller) success(s Session, text string) Session {
	s.Flash = &Flash{Kind: FlashSuccess, Text: text, At: c.now()}
	return s
}

func (c *Controller) failure(s Session, prefix string, err error) Session {
	text := prefix
	if err != nil {
		text = prefix + ": " + err.Error()
	}
	s.Flash = &Flash{Kind: FlashError, Text: text, At: c.now()}
	return s
}

func (c *Controller) loginRequired(s Session) (Session, error) {
	return c.failure(s, "Please log in", nil), ErrNotAuthenticated
}

// Login moves a logged-out session to logged in and loads the dashboard.
// A failed load is reported in the flash but keeps the session logged in.
func (c *Controller) Login(ctx context.Context, s Session, username, password string) (Session, error) {
	if s.LoggedIn {
		return s, nil
	}
	ok, err := c.authn.Authenticate(ctx, username, password)
	if err != nil {
		c.log.Error("admin login check failed", zap.Error(err))
		return c.failure(s, "Login failed", nil), err
	}
	if !ok {
		c.log.Info("admin login rejected")
		return c.failure(s, "Invalid credentials", nil), auth.ErrInvalidCredentials
	}
	s.LoggedIn = true
	s.Username = username
	s.Flash = nil
	s = s.resetForm()
	s, _ = c.Load(ctx, s)
	return s, nil
}

// Load reads products and both settings in parallel and waits for all of
// them. Each value that loaded replaces the previous one.
func (c *Controller) Load(ctx context.Context, s Session) (Session, error) {
	if !s.LoggedIn {
		return c.loginRequired(s)
	}
	var (
		products                         []models.Product
		link, message                    string
		productsErr, linkErr, messageErr error
		g                                errgroup.Group
	)
	g.Go(func() error {
		products, productsErr = c.products.ListAll(ctx)
		return productsErr
	})
	g.Go(func() error {
		link, linkErr = c.settings.Get(ctx, domain.SettingIPTVDownloadLink)
		return linkErr
	})
	g.Go(func() error {
		message, messageErr = c.settings.Get(ctx, domain.SettingFeaturedMessage)
		return messageErr
	})
	err := g.Wait()

	if productsErr == nil {
		s.Products = products
	}
	if linkErr == nil {
		s.DownloadLink = link
	}
	if messageErr == nil {
		s.FeaturedMessage = message
	}
	s.Ready = err == nil
	if err != nil {
		return c.failure(s, "Error loading data", err), err
	}
	return s, nil
}

func (c *Controller) StartCreate(s Session) (Session, error) {
	if !s.LoggedIn {
		return c.loginRequired(s)
	}
	s = s.resetForm()
	s.Mode = ModeEditing
	return s, nil
}

func (c *Controller) StartEdit(s Session, p models.Product) (Session, error) {
	if !s.LoggedIn {
		return c.loginRequired(s)
	}
	s.Mode = ModeEditing
	s.EditingID = p.ID
	s.Form = formFrom(p)
	return s, nil
}

// StartEditID opens the form for the product with the given id, taking it
// from the loaded list when present and from the store otherwise.
func (c *Controller) StartEditID(ctx context.Context, s Session, id string) (Session, error) {
	if !s.LoggedIn {
		return c.loginRequired(s)
	}
	for _, p := range s.Products {
		if p.ID == id {
			return c.StartEdit(s, p)
		}
	}
	p, err := c.products.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.failure(s, "Error loading product", errors.New("product not found")), err
	}
	if err != nil {
		return c.failure(s, "Error loading product", err), err
	}
	return c.StartEdit(s, *p)
}

func (c *Controller) Cancel(s Session) (Session, error) {
	if !s.LoggedIn {
		return c.loginRequired(s)
	}
	return s.resetForm(), nil
}

// Save validates the submitted form, then creates or updates, re-reads the
// list and returns to viewing. On failure the form stays open.
func (c *Controller) Save(ctx context.Context, s Session, form Form) (Session, error) {
	if !s.LoggedIn {
		return c.loginRequired(s)
	}
	if s.Mode != ModeEditing {
		return c.failure(s, "Error saving product", ErrNotEditing), ErrNotEditing
	}
	s.Form = form
	in, err := form.input()
	if err != nil {
		return c.failure(s, "Error saving product", err), err
	}

	creating := s.Creating()
	if creating {
		_, err = c.products.Create(ctx, in)
	} else {
		err = c.products.Update(ctx, s.EditingID, repository.FullPatch(in))
	}
	if errors.Is(err, repository.ErrNotFound) {
		return c.failure(s, "Error saving product", errors.New("product no longer exists")), err
	}
	if err != nil {
		return c.failure(s, "Error saving product", err), err
	}

	if creating {
		s = c.success(s, "Product added successfully!")
	} else {
		s = c.success(s, "Product updated successfully!")
	}
	s = s.resetForm()
	return c.reload(ctx, s), nil
}

// Remove deletes a product after explicit confirmation and re-reads the list.
func (c *Controller) Remove(ctx context.Context, s Session, id string, confirmed bool) (Session, error) {
	if !s.LoggedIn {
		return c.loginRequired(s)
	}
	if !confirmed {
		return c.failure(s, "Please confirm you want to delete this product", nil), ErrConfirmationRequired
	}
	if err := c.products.Remove(ctx, id); err != nil {
		return c.failure(s, "Error deleting product", err), err
	}
	if s.EditingID == id {
		s = s.resetForm()
	}
	s = c.success(s, "Product deleted successfully!")
	return c.reload(ctx, s), nil
}

func (c *Controller) UpdateDownloadLink(ctx context.Context, s Session, value string) (Session, error) {
	return c.updateSetting(ctx, s, domain.SettingIPTVDownloadLink, value, "App download link")
}

func (c *Controller) UpdateFeaturedMessage(ctx context.Context, s Session, value string) (Session, error) {
	return c.updateSetting(ctx, s, domain.SettingFeaturedMessage, value, "Featured message")
}

func (c *Controller) updateSetting(ctx context.Context, s Session, key, value, label string) (Session, error) {
	if !s.LoggedIn {
		return c.loginRequired(s)
	}
	value = strings.TrimSpace(value)
	if err := c.settings.Set(ctx, key, value); err != nil {
		return c.failure(s, "Error updating "+strings.ToLower(label), err), err
	}
	switch key {
	case domain.SettingIPTVDownloadLink:
		s.DownloadLink = value
	case domain.SettingFeaturedMessage:
		s.FeaturedMessage = value
	}
	return c.success(s, label+" updated successfully!"), nil
}

// reload re-reads the product list after a write. A failed read keeps the
// previous list and replaces the success message with the error.
func (c *Controller) reload(ctx context.Context, s Session) Session {
	list, err := c.products.ListAll(ctx)
	if err != nil {
		return c.failure(s, "Error loading data", err)
	}
	s.Products = list
	return s
}

func (f Form) input() (repository.ProductInput, error) {
	raw := strings.TrimSpace(f.Price)
	price, err := decimal.NewFromString(raw)
	if raw == "" || err != nil {
		return repository.ProductInput{}, &repository.ValidationError{Field: "price", Reason: "must be a number"}
	}
	in := repository.ProductInput{
		Name:        f.Name,
		Description: f.Description,
		Price:       price,
		ImageURL:    f.ImageURL,
		Category:    f.Category,
		Featured:    f.Featured,
	}
	return in, in.Validate()
}
