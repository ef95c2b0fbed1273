package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleRow is a purchase joined with the title of the product it bought.
type SaleRow struct {
	PurchaseID string
	VideoID    string
	Title      string
	BuyerID    string
	Amount     decimal.Decimal
	CreatedAt  time.Time
}

type TotalRow struct {
	Total decimal.Decimal
}
