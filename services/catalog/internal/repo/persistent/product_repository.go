package persistent

import (
	"context"
	"strings"

	"creator-market/services/catalog/internal/entity"
	"creator-market/services/catalog/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByIDUnscoped(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, query string, limit, offset int) ([]*entity.Product, error)
	ListByCreator(ctx context.Context, creatorID string, limit, offset int) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	SoftDelete(ctx context.Context, id string) error
	CountPurchases(ctx context.Context, productID string) (int64, error)
	HasPurchase(ctx context.Context, productID, buyerID string) (bool, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productModel := ToProductModel(product)
	if err := r.db.WithContext(ctx).Create(productModel).Error; err != nil {
		return err
	}
	*product = *ToProductEntity(productModel)
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var productModel model.ProductModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&productModel).Error; err != nil {
		return nil, err
	}
	return ToProductEntity(&productModel), nil
}

// GetByIDUnscoped also finds soft-deleted products, which their buyers still own.
func (r *productRepository) GetByIDUnscoped(ctx context.Context, id string) (*entity.Product, error) {
	var productModel model.ProductModel
	if err := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).First(&productModel).Error; err != nil {
		return nil, err
	}
	return ToProductEntity(&productModel), nil
}

// List is the discovery feed, newest first, optionally filtered by a
// case-insensitive title match.
func (r *productRepository) List(ctx context.Context, query string, limit, offset int) ([]*entity.Product, error) {
	db := r.db.WithContext(ctx).Model(&model.ProductModel{})
	if query = strings.TrimSpace(query); query != "" {
		db = db.Where("title ILIKE ?", "%"+escapeLike(query)+"%")
	}

	var productModels []model.ProductModel
	if err := db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&productModels).Error; err != nil {
		return nil, err
	}
	return toProductEntities(productModels), nil
}

func (r *productRepository) ListByCreator(ctx context.Context, creatorID string, limit, offset int) ([]*entity.Product, error) {
	var productModels []model.ProductModel
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&productModels).Error
	if err != nil {
		return nil, err
	}
	return toProductEntities(productModels), nil
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	result := r.db.WithContext(ctx).Model(&model.ProductModel{ID: product.ID}).Updates(map[string]interface{}{
		"title":       product.Title,
		"description": product.Description,
		"price":       product.Price,
		"is_free":     product.IsFree,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepository) SoftDelete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&model.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepository) CountPurchases(ctx context.Context, productID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("purchases").Where("video_id = ?", productID).Count(&count).Error
	return count, err
}

func (r *productRepository) HasPurchase(ctx context.Context, productID, buyerID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("purchases").
		Where("video_id = ? AND buyer_id = ?", productID, buyerID).
		Count(&count).Error
	return count > 0, err
}

func toProductEntities(models []model.ProductModel) []*entity.Product {
	products := make([]*entity.Product, 0, len(models))
	for i := range models {
		products = append(products, ToProductEntity(&models[i]))
	}
	return products
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
