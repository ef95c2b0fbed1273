package persistent

import (
	"context"

	"creator-market/services/analytics/internal/entity"
	"creator-market/services/analytics/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SalesRepository interface {
	ListSales(ctx context.Context, creatorID string) ([]entity.Sale, error)
	SumEarnings(ctx context.Context, creatorID string) (decimal.Decimal, error)
}

type salesRepository struct {
	db *gorm.DB
}

func NewSalesRepository(db *gorm.DB) SalesRepository {
	return &salesRepository{db: db}
}

// ListSales returns paid purchases of the creator's products, newest first.
// Deleted products are included because their sales still happened.
func (r *salesRepository) ListSales(ctx context.Context, creatorID string) ([]entity.Sale, error) {
	var rows []model.SaleRow
	err := r.db.WithContext(ctx).
		Table("purchases AS p").
		Select("p.id AS purchase_id, p.video_id, v.title, p.buyer_id, p.amount, p.created_at").
		Joins("JOIN products AS v ON v.id = p.video_id").
		Where("v.creator_id = ? AND p.amount > 0", creatorID).
		Order("p.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return ToSaleEntities(rows), nil
}

func (r *salesRepository) SumEarnings(ctx context.Context, creatorID string) (decimal.Decimal, error) {
	var row model.TotalRow
	err := r.db.WithContext(ctx).
		Table("earnings").
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("creator_id = ?", creatorID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}
