package persistent

import (
	"creator-market/services/analytics/internal/entity"
	"creator-market/services/analytics/internal/model"
)

func ToSaleEntity(m *model.SaleRow) entity.Sale {
	return entity.Sale{
		PurchaseID: m.PurchaseID,
		VideoID:    m.VideoID,
		Title:      m.Title,
		BuyerID:    m.BuyerID,
		Amount:     m.Amount,
		CreatedAt:  m.CreatedAt,
	}
}

func ToSaleEntities(rows []model.SaleRow) []entity.Sale {
	sales := make([]entity.Sale, len(rows))
	for i := range rows {
		sales[i] = ToSaleEntity(&rows[i])
	}
	return sales
}
