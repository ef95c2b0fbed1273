package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is the read side of the products table owned by the catalog
// service. Settlement and reporting never write it.
type Product struct {
	ID           string          `gorm:"type:uuid;primary_key" json:"id"`
	CreatorID    string          `gorm:"type:uuid;not null;index" json:"creator_id"`
	Title        string          `gorm:"not null" json:"title"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	IsFree       bool            `gorm:"not null;default:false" json:"is_free"`
	ProductType  string          `gorm:"type:varchar(20);not null" json:"product_type"`
	AssetPath    string          `gorm:"not null" json:"-"`
	ThumbnailURL string          `json:"thumbnail_url"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

func (Product) TableName() string { return "products" }
