package persistent

import (
	"creator-market/pkg/models"
	"creator-market/services/purchase/internal/entity"
)

func ToProductEntity(m *models.Product) *entity.Product {
	if m == nil {
		return nil
	}

	return &entity.Product{
		ID:           m.ID,
		CreatorID:    m.CreatorID,
		Title:        m.Title,
		Price:        m.Price,
		IsFree:       m.IsFree,
		ProductType:  m.ProductType,
		AssetPath:    m.AssetPath,
		ThumbnailURL: m.ThumbnailURL,
		Deleted:      m.DeletedAt.Valid,
	}
}

func ToPurchaseEntity(m *models.Purchase) *entity.Purchase {
	if m == nil {
		return nil
	}

	return &entity.Purchase{
		ID:        m.ID,
		VideoID:   m.VideoID,
		BuyerID:   m.BuyerID,
		Amount:    m.Amount,
		CreatedAt: m.CreatedAt,
	}
}

func ToPurchaseModel(e *entity.Purchase) *models.Purchase {
	if e == nil {
		return nil
	}

	return &models.Purchase{
		ID:        e.ID,
		VideoID:   e.VideoID,
		BuyerID:   e.BuyerID,
		Amount:    e.Amount,
		CreatedAt: e.CreatedAt,
	}
}

func ToEarningEntity(m *models.Earning) *entity.Earning {
	if m == nil {
		return nil
	}

	return &entity.Earning{
		ID:          m.ID,
		PurchaseID:  m.PurchaseID,
		CreatorID:   m.CreatorID,
		VideoID:     m.VideoID,
		Amount:      m.Amount,
		PlatformFee: m.PlatformFee,
		CreatedAt:   m.CreatedAt,
	}
}

func ToEarningModel(e *entity.Earning) *models.Earning {
	if e == nil {
		return nil
	}

	return &models.Earning{
		ID:          e.ID,
		PurchaseID:  e.PurchaseID,
		CreatorID:   e.CreatorID,
		VideoID:     e.VideoID,
		Amount:      e.Amount,
		PlatformFee: e.PlatformFee,
		CreatedAt:   e.CreatedAt,
	}
}

// ToSettledEvent builds the broker payload for a paid settlement.
func ToSettledEvent(s *entity.Settlement) models.PurchaseSettled {
	return models.PurchaseSettled{
		PurchaseID:   s.Purchase.ID,
		VideoID:      s.Purchase.VideoID,
		BuyerID:      s.Purchase.BuyerID,
		CreatorID:    s.Earning.CreatorID,
		Amount:       s.Purchase.Amount,
		CreatorShare: s.Earning.Amount,
		PlatformFee:  s.Earning.PlatformFee,
		SettledAt:    s.Purchase.CreatedAt,
	}
}
