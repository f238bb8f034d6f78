package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a row of the storefront catalog.
type Product struct {
	ID              string          `gorm:"column:id;primaryKey"`
	Position        int             `gorm:"column:position;not null;default:0;index"`
	Name            string          `gorm:"column:name;not null"`
	Description     string          `gorm:"column:description;not null;default:''"`
	Image           string          `gorm:"column:image;not null;default:''"`
	Category        string          `gorm:"column:category;not null;default:'';index"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Rating          float64         `gorm:"column:rating;not null;default:0"`
	Reviews         int             `gorm:"column:reviews;not null;default:0"`
	DiscountPercent *int            `gorm:"column:discount_percent"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}
