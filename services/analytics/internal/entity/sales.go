package entity

import (
	"sort"
	"time"

	"creator-market/pkg/money"

	"github.com/shopspring/decimal"
)

const DefaultRecentSales = 10

// Sale is one paid purchase of a creator's product.
type Sale struct {
	PurchaseID string
	VideoID    string
	Title      string
	BuyerID    string
	Amount     decimal.Decimal
	CreatedAt  time.Time
}

type ProductSales struct {
	Title        string          `json:"title"`
	Count        int             `json:"count"`
	Amount       decimal.Decimal `json:"amount"`
	CreatorShare decimal.Decimal `json:"creator_share"`
}

type RecentSale struct {
	PurchaseID   string          `json:"purchase_id"`
	VideoID      string          `json:"video_id"`
	Title        string          `json:"title"`
	Amount       decimal.Decimal `json:"amount"`
	PlatformFee  decimal.Decimal `json:"platform_fee"`
	CreatorShare decimal.Decimal `json:"creator_share"`
	CreatedAt    time.Time       `json:"created_at"`
}

type SalesSummary struct {
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	PlatformFees        decimal.Decimal `json:"platform_fees"`
	CreatorEarnings     decimal.Decimal `json:"creator_earnings"`
	WithdrawableBalance decimal.Decimal `json:"withdrawable_balance"`
	FeeRate             float64         `json:"fee_rate"`
	SalesCount          int             `json:"sales_count"`
	PerProduct          []ProductSales  `json:"per_product"`
	RecentSales         []RecentSale    `json:"recent_sales"`
	GeneratedAt         time.Time       `json:"generated_at"`
}

// Summarize folds sales into totals. Every sale is split with money.Split,
// the same rounding settlement used for the earnings row, so
// CreatorEarnings + PlatformFees == TotalRevenue to the cent. Sales are
// expected newest first; per-product rows are grouped by title.
func Summarize(sales []Sale, feeRate float64, recentLimit int) SalesSummary {
	summary := SalesSummary{
		TotalRevenue:    money.Zero(),
		PlatformFees:    money.Zero(),
		CreatorEarnings: money.Zero(),
		FeeRate:         feeRate,
		SalesCount:      len(sales),
		PerProduct:      []ProductSales{},
		RecentSales:     []RecentSale{},
	}

	byTitle := make(map[string]*ProductSales)
	var titles []string

	for i, sale := range sales {
		fee, share := money.Split(sale.Amount, feeRate)
		amount := fee.Add(share)

		summary.TotalRevenue = summary.TotalRevenue.Add(amount)
		summary.PlatformFees = summary.PlatformFees.Add(fee)
		summary.CreatorEarnings = summary.CreatorEarnings.Add(share)

		group, ok := byTitle[sale.Title]
		if !ok {
			group = &ProductSales{Title: sale.Title, Amount: money.Zero(), CreatorShare: money.Zero()}
			byTitle[sale.Title] = group
			titles = append(titles, sale.Title)
		}
		group.Count++
		group.Amount = group.Amount.Add(amount)
		group.CreatorShare = group.CreatorShare.Add(share)

		if i < recentLimit {
			summary.RecentSales = append(summary.RecentSales, RecentSale{
				PurchaseID:   sale.PurchaseID,
				VideoID:      sale.VideoID,
				Title:        sale.Title,
				Amount:       amount,
				PlatformFee:  fee,
				CreatorShare: share,
				CreatedAt:    sale.CreatedAt,
			})
		}
	}

	for _, title := range titles {
		summary.PerProduct = append(summary.PerProduct, *byTitle[title])
	}
	sort.SliceStable(summary.PerProduct, func(i, j int) bool {
		return summary.PerProduct[i].Amount.GreaterThan(summary.PerProduct[j].Amount)
	})

	// Payouts are not tracked, so everything earned is withdrawable.
	summary.WithdrawableBalance = summary.CreatorEarnings
	return summary
}
