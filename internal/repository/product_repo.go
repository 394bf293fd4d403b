package repository

import (
	"context"
	"errors"
	"strings"

	"techsat/internal/domain"
	"techsat/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductInput carries every client-writable product field.
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Category    domain.Category `json:"category"`
	Featured    bool            `json:"featured"`
}

func (in ProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if in.Price.IsNegative() {
		return &ValidationError{Field: "price", Reason: "must be >= 0"}
	}
	if !in.Category.Valid() {
		return &ValidationError{Field: "category", Reason: "must be IPTV or Android_Box"}
	}
	return nil
}

// ProductPatch is a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url"`
	Category    *domain.Category `json:"category"`
	Featured    *bool            `json:"featured"`
}

// FullPatch returns a patch that overwrites every writable field with in.
func FullPatch(in ProductInput) ProductPatch {
	return ProductPatch{
		Name:        &in.Name,
		Description: &in.Description,
		Price:       &in.Price,
		ImageURL:    &in.ImageURL,
		Category:    &in.Category,
		Featured:    &in.Featured,
	}
}

func (p ProductPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if p.Price != nil && p.Price.IsNegative() {
		return &ValidationError{Field: "price", Reason: "must be >= 0"}
	}
	if p.Category != nil && !p.Category.Valid() {
		return &ValidationError{Field: "category", Reason: "must be IPTV or Android_Box"}
	}
	if len(p.columns()) == 0 {
		return &ValidationError{Field: "patch", Reason: "has no fields to update"}
	}
	return nil
}

// columns uses a map so false and empty values are written too.
func (p ProductPatch) columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.Name != nil {
		cols["name"] = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Price != nil {
		cols["price"] = *p.Price
	}
	if p.ImageURL != nil {
		cols["image_url"] = strings.TrimSpace(*p.ImageURL)
	}
	if p.Category != nil {
		cols["category"] = *p.Category
	}
	if p.Featured != nil {
		cols["featured"] = *p.Featured
	}
	return cols
}

type ProductRepository struct {
	db     *gorm.DB
	policy CallPolicy
}

func NewProductRepository(db *gorm.DB, policy CallPolicy) *ProductRepository {
	return &ProductRepository{db: db, policy: policy}
}

// ListAll returns every product, newest first.
func (r *ProductRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	return r.list(ctx, "list products", nil)
}

func (r *ProductRepository) ListByCategory(ctx context.Context, category domain.Category) ([]models.Product, error) {
	if !category.Valid() {
		return nil, &ValidationError{Field: "category", Reason: "must be IPTV or Android_Box"}
	}
	return r.list(ctx, "list products by category", func(tx *gorm.DB) *gorm.DB {
		return tx.Where("category = ?", category)
	})
}

func (r *ProductRepository) ListFeatured(ctx context.Context) ([]models.Product, error) {
	return r.list(ctx, "list featured products", func(tx *gorm.DB) *gorm.DB {
		return tx.Where("featured = ?", true)
	})
}

func (r *ProductRepository) list(ctx context.Context, op string, scope func(*gorm.DB) *gorm.DB) ([]models.Product, error) {
	list := make([]models.Product, 0)
	err := r.policy.do(ctx, op, func(ctx context.Context) error {
		list = list[:0]
		tx := r.db.WithContext(ctx).Model(&models.Product{})
		if scope != nil {
			tx = scope(tx)
		}
		return tx.Order("created_at DESC").Order("id DESC").Find(&list).Error
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Get returns a single product or ErrNotFound.
func (r *ProductRepository) Get(ctx context.Context, id string) (*models.Product, error) {
	var list []models.Product
	err := r.policy.do(ctx, "get product", func(ctx context.Context) error {
		return r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&list).Error
	})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return &list[0], nil
}

// Create inserts a product with a client-assigned id so a retried insert
// that already landed is recognised by its duplicate key.
func (r *ProductRepository) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p := &models.Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Category:    in.Category,
		Featured:    in.Featured,
	}
	attempts := 0
	err := r.policy.do(ctx, "create product", func(ctx context.Context) error {
		attempts++
		err := r.db.WithContext(ctx).Create(p).Error
		if attempts > 1 && errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Update applies only the fields set in patch. A missing id yields ErrNotFound.
func (r *ProductRepository) Update(ctx context.Context, id string, patch ProductPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	cols := patch.columns()
	return r.policy.do(ctx, "update product", func(ctx context.Context) error {
		tx := r.db.WithContext(ctx)
		res := tx.Model(&models.Product{}).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		// Some drivers report zero rows when the values did not change.
		var n int64
		if err := tx.Model(&models.Product{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Remove deletes by id. Deleting a missing id succeeds.
func (r *ProductRepository) Remove(ctx context.Context, id string) error {
	return r.policy.do(ctx, "delete product", func(ctx context.Context) error {
		return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
	})
}
