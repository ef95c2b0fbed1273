package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductModel struct {
	ID           string          `gorm:"type:uuid;primary_key" json:"id"`
	CreatorID    string          `gorm:"type:uuid;not null;index" json:"creator_id"`
	Title        string          `gorm:"type:varchar(255);not null" json:"title"`
	Description  string          `gorm:"type:text" json:"description"`
	Price        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	IsFree       bool            `gorm:"not null" json:"is_free"`
	ProductType  string          `gorm:"type:varchar(20);not null" json:"product_type"`
	AssetPath    string          `gorm:"type:varchar(500);not null" json:"asset_path"`
	ThumbnailURL string          `gorm:"type:varchar(500)" json:"thumbnail_url"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (ProductModel) TableName() string {
	return "products"
}

func (p *ProductModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
