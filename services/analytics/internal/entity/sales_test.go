package entity

import (
	"fmt"
	"testing"
	"time"

	"creator-market/pkg/money"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sale(id, title, amount string) Sale {
	return Sale{PurchaseID: id, VideoID: "v-" + title, Title: title, Amount: decimal.RequireFromString(amount), CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestSummarize_SinglePaidSale(t *testing.T) {
	summary := Summarize([]Sale{sale("p1", "Course", "100")}, money.DefaultPlatformFeeRate, DefaultRecentSales)

	assert.Equal(t, "100.00", summary.TotalRevenue.StringFixed(2))
	assert.Equal(t, "6.00", summary.PlatformFees.StringFixed(2))
	assert.Equal(t, "94.00", summary.CreatorEarnings.StringFixed(2))
	assert.Equal(t, "94.00", summary.WithdrawableBalance.StringFixed(2))
	assert.Equal(t, 1, summary.SalesCount)
	require.Len(t, summary.RecentSales, 1)
	assert.Equal(t, "6.00", summary.RecentSales[0].PlatformFee.StringFixed(2))
}

func TestSummarize_NoSales(t *testing.T) {
	summary := Summarize(nil, money.DefaultPlatformFeeRate, DefaultRecentSales)

	assert.True(t, summary.TotalRevenue.IsZero())
	assert.True(t, summary.PlatformFees.IsZero())
	assert.True(t, summary.CreatorEarnings.IsZero())
	assert.NotNil(t, summary.PerProduct)
	assert.NotNil(t, summary.RecentSales)
}

func TestSummarize_FeesAndEarningsAddUp(t *testing.T) {
	sales := []Sale{
		sale("p1", "A", "0.01"),
		sale("p2", "A", "0.99"),
		sale("p3", "B", "19.99"),
		sale("p4", "C", "333.33"),
		sale("p5", "B", "1.17"),
		sale("p6", "D", "0.08"),
	}

	summary := Summarize(sales, 0.3, DefaultRecentSales)

	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.Amount)
	}
	assert.True(t, summary.TotalRevenue.Equal(total))
	assert.True(t, summary.PlatformFees.Add(summary.CreatorEarnings).Equal(summary.TotalRevenue))
}

func TestSummarize_FeesAreRoundedPerSale(t *testing.T) {
	sales := make([]Sale, 100)
	for i := range sales {
		sales[i] = sale(fmt.Sprintf("p%d", i), "Sticker", "0.25")
	}

	summary := Summarize(sales, money.DefaultPlatformFeeRate, DefaultRecentSales)

	assert.Equal(t, "25.00", summary.TotalRevenue.StringFixed(2))
	assert.Equal(t, "2.00", summary.PlatformFees.StringFixed(2))
	assert.Equal(t, "23.00", summary.CreatorEarnings.StringFixed(2))
	assert.Equal(t, "1.50", summary.TotalRevenue.Mul(decimal.NewFromFloat(money.DefaultPlatformFeeRate)).StringFixed(2))
}

func TestSummarize_GroupsByTitle(t *testing.T) {
	sales := []Sale{
		sale("p1", "Course", "10"),
		sale("p2", "Preset", "50"),
		sale("p3", "Course", "10"),
	}

	summary := Summarize(sales, money.DefaultPlatformFeeRate, DefaultRecentSales)

	require.Len(t, summary.PerProduct, 2)
	assert.Equal(t, "Preset", summary.PerProduct[0].Title)
	assert.Equal(t, "Course", summary.PerProduct[1].Title)
	assert.Equal(t, 2, summary.PerProduct[1].Count)
	assert.Equal(t, "20.00", summary.PerProduct[1].Amount.StringFixed(2))
	assert.Equal(t, "18.80", summary.PerProduct[1].CreatorShare.StringFixed(2))
}

func TestSummarize_RecentLimit(t *testing.T) {
	var sales []Sale
	for i := 0; i < 15; i++ {
		sales = append(sales, sale("p", "Course", "1"))
	}

	summary := Summarize(sales, money.DefaultPlatformFeeRate, 5)

	assert.Len(t, summary.RecentSales, 5)
	assert.Equal(t, 15, summary.SalesCount)
}
