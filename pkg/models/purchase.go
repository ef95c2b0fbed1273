package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseBuyerProductIndex enforces one purchase per buyer per product.
const PurchaseBuyerProductIndex = "purchases_video_id_buyer_id_key"

type Purchase struct {
	ID        string          `gorm:"type:uuid;primary_key" json:"id"`
	VideoID   string          `gorm:"type:uuid;not null;uniqueIndex:purchases_video_id_buyer_id_key,priority:1" json:"video_id"`
	BuyerID   string          `gorm:"type:uuid;not null;uniqueIndex:purchases_video_id_buyer_id_key,priority:2;index" json:"buyer_id"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

func (Purchase) TableName() string { return "purchases" }

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// Earning is the creator's share of one paid purchase.
type Earning struct {
	ID          string          `gorm:"type:uuid;primary_key" json:"id"`
	PurchaseID  string          `gorm:"type:uuid;not null;uniqueIndex" json:"purchase_id"`
	CreatorID   string          `gorm:"type:uuid;not null;index" json:"creator_id"`
	VideoID     string          `gorm:"type:uuid;not null;index" json:"video_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	PlatformFee decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"platform_fee"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (Earning) TableName() string { return "earnings" }

func (e *Earning) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
