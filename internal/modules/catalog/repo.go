package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

type ListParams struct {
	CategoryID       string
	SubscriptionType string
	IncludeInactive  bool // admin listing
	Page             int
	PageSize         int
}

type ListResult struct {
	Items []Product
	Total int64
}

func (r *Repo) List(ctx context.Context, in ListParams) (ListResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.PageSize
	if size < 1 || size > 100 {
		size = 24
	}

	q := r.db.WithContext(ctx).Model(&Product{})
	if !in.IncludeInactive {
		q = q.Where("active = ?", true)
	}
	if c := strings.TrimSpace(in.CategoryID); c != "" {
		q = q.Where("category_id = ?", c)
	}
	if st := strings.TrimSpace(in.SubscriptionType); st != "" {
		q = q.Where("subscription_type = ?", st)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return ListResult{}, err
	}

	var items []Product
	if err := q.
		Order("updated_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&items).Error; err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: items, Total: total}, nil
}

func (r *Repo) Get(ctx context.Context, id string) (Product, error) {
	var p Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Product{}, ErrProductNotFound
	}
	return p, err
}

// PricesByID is the checkout batch lookup: one query for every product id the
// order references. Missing ids simply don't appear in the result; the
// pricing validator treats absence as fatal.
func (r *Repo) PricesByID(ctx context.Context, ids []string) (map[string]Product, error) {
	if len(ids) == 0 {
		return map[string]Product{}, nil
	}
	var rows []Product
	if err := r.db.WithContext(ctx).
		Select("id", "title", "price", "sale_price", "currency", "in_stock", "active").
		Find(&rows, "id IN ?", ids).Error; err != nil {
		return nil, err
	}
	out := make(map[string]Product, len(rows))
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

type ProductInput struct {
	Title            string
	TitleBn          string
	Description      string
	Price            int
	SalePrice        *int
	SubscriptionType string
	CategoryID       *string
	InStock          bool
	Active           bool
}

func (r *Repo) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	now := time.Now()
	p := Product{
		ID:               uuid.NewString(),
		Title:            in.Title,
		TitleI18n:        titleJSON(in.Title, in.TitleBn),
		Description:      in.Description,
		Price:            in.Price,
		SalePrice:        in.SalePrice,
		Currency:         "BDT",
		SubscriptionType: in.SubscriptionType,
		CategoryID:       in.CategoryID,
		InStock:          in.InStock,
		Active:           in.Active,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *Repo) UpdateProduct(ctx context.Context, id string, in ProductInput) error {
	res := r.db.WithContext(ctx).Model(&Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"title":             in.Title,
			"title_i18n":        titleJSON(in.Title, in.TitleBn),
			"description":       in.Description,
			"price":             in.Price,
			"sale_price":        in.SalePrice,
			"subscription_type": in.SubscriptionType,
			"category_id":       in.CategoryID,
			"in_stock":          in.InStock,
			"active":            in.Active,
			"updated_at":        time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *Repo) SetImageURL(ctx context.Context, id, url string) error {
	return r.db.WithContext(ctx).Model(&Product{}).
		Where("id = ?", id).
		Updates(map[string]any{"image_url": url, "updated_at": time.Now()}).Error
}

// DeleteProduct refuses to remove a product that still appears in any order
// snapshot; those rows must stay resolvable for support.
func (r *Repo) DeleteProduct(ctx context.Context, id string) error {
	var n int64
	if err := r.db.WithContext(ctx).Table("orders").
		Where("JSON_CONTAINS(items, JSON_OBJECT('product_id', ?))", id).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrProductReferenced
	}

	res := r.db.WithContext(ctx).Delete(&Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	var items []Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

func titleJSON(en, bn string) datatypes.JSON {
	if bn == "" {
		bn = en
	}
	b, _ := json.Marshal(map[string]string{"en": en, "bn": bn})
	return datatypes.JSON(b)
}
