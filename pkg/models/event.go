package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseSettled is the payload of the purchase.settled event.
type PurchaseSettled struct {
	PurchaseID   string          `json:"purchase_id"`
	VideoID      string          `json:"video_id"`
	BuyerID      string          `json:"buyer_id"`
	CreatorID    string          `json:"creator_id"`
	Amount       decimal.Decimal `json:"amount"`
	CreatorShare decimal.Decimal `json:"creator_share"`
	PlatformFee  decimal.Decimal `json:"platform_fee"`
	SettledAt    time.Time       `json:"settled_at"`
}
