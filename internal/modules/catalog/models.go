package catalog

import (
	"time"

	"gorm.io/datatypes"
)

// Subscription types carried on products. Free-form in the DB; these are the
// values the storefront filter knows about.
const (
	SubMonthly  = "monthly"
	SubYearly   = "yearly"
	SubLifetime = "lifetime"
	SubShared   = "shared"
)

type Product struct {
	ID          string `gorm:"type:char(36);primaryKey"`
	Title       string `gorm:"type:varchar(255);not null"`
	// {"en": "...", "bn": "..."} — the client picks the locale
	TitleI18n        datatypes.JSON `gorm:"type:json"`
	Description      string         `gorm:"type:text"`
	Price            int            `gorm:"not null"`
	SalePrice        *int           `gorm:""`
	Currency         string         `gorm:"type:char(3);not null;default:'BDT'"`
	SubscriptionType string         `gorm:"type:varchar(32);not null;index:ix_products_sub_type"`
	ImageURL         string         `gorm:"type:varchar(512)"`
	CategoryID       *string        `gorm:"type:char(36);index:ix_products_category_id"`
	InStock          bool           `gorm:"not null;default:true"`
	Active           bool           `gorm:"not null;default:true;index:ix_products_active"`
	CreatedAt        time.Time      `gorm:"type:datetime(3);not null"`
	UpdatedAt        time.Time      `gorm:"type:datetime(3);not null"`
}

func (Product) TableName() string { return "products" }

// EffectivePrice is the unit price checkout charges: sale price when one is
// set and positive, list price otherwise.
func (p Product) EffectivePrice() int {
	if p.SalePrice != nil && *p.SalePrice > 0 {
		return *p.SalePrice
	}
	return p.Price
}

type Category struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	Name      string    `gorm:"type:varchar(128);not null"`
	NameBn    string    `gorm:"type:varchar(128)"`
	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Category) TableName() string { return "categories" }
