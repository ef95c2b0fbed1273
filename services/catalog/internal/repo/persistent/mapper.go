package persistent

import (
	"creator-market/services/catalog/internal/entity"
	"creator-market/services/catalog/internal/model"
)

func ToProductEntity(m *model.ProductModel) *entity.Product {
	if m == nil {
		return nil
	}

	product := &entity.Product{
		ID:           m.ID,
		CreatorID:    m.CreatorID,
		Title:        m.Title,
		Description:  m.Description,
		Price:        m.Price,
		IsFree:       m.IsFree,
		ProductType:  entity.ProductType(m.ProductType),
		AssetPath:    m.AssetPath,
		ThumbnailURL: m.ThumbnailURL,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}

	if m.DeletedAt.Valid {
		deletedAt := m.DeletedAt.Time
		product.DeletedAt = &deletedAt
	}

	return product
}

func ToProductModel(e *entity.Product) *model.ProductModel {
	if e == nil {
		return nil
	}

	return &model.ProductModel{
		ID:           e.ID,
		CreatorID:    e.CreatorID,
		Title:        e.Title,
		Description:  e.Description,
		Price:        e.Price,
		IsFree:       e.IsFree,
		ProductType:  string(e.ProductType),
		AssetPath:    e.AssetPath,
		ThumbnailURL: e.ThumbnailURL,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func ToRatingEntity(m *model.RatingModel) *entity.Rating {
	if m == nil {
		return nil
	}

	return &entity.Rating{
		ID:        m.ID,
		VideoID:   m.VideoID,
		BuyerID:   m.BuyerID,
		Rating:    m.Rating,
		Review:    m.Review,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToRatingModel(e *entity.Rating) *model.RatingModel {
	if e == nil {
		return nil
	}

	return &model.RatingModel{
		ID:        e.ID,
		VideoID:   e.VideoID,
		BuyerID:   e.BuyerID,
		Rating:    e.Rating,
		Review:    e.Review,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
