package persistent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"creator-market/pkg/database"
	"creator-market/pkg/models"
	"creator-market/pkg/queue"
	"creator-market/services/purchase/internal/entity"

	"gorm.io/gorm"
)

// ErrAlreadyOwned is returned by Settle when the buyer already holds a
// purchase for the product. Nothing is written in that case.
var ErrAlreadyOwned = errors.New("product already owned")

type PurchaseRepository interface {
	GetProduct(ctx context.Context, productID string) (*entity.Product, error)
	FindPurchase(ctx context.Context, productID, buyerID string) (*entity.Purchase, error)
	Settle(ctx context.Context, settlement *entity.Settlement) error
	ListOwned(ctx context.Context, buyerID string, limit, offset int) ([]*entity.OwnedProduct, error)
}

type purchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

// GetProduct loads a product even after the creator deleted it, so buyers
// keep their downloads. Callers decide what a deleted product allows.
func (r *purchaseRepository) GetProduct(ctx context.Context, productID string) (*entity.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Unscoped().Where("id = ?", productID).First(&product).Error; err != nil {
		return nil, err
	}
	return ToProductEntity(&product), nil
}

func (r *purchaseRepository) FindPurchase(ctx context.Context, productID, buyerID string) (*entity.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.WithContext(ctx).Where("video_id = ? AND buyer_id = ?", productID, buyerID).First(&purchase).Error; err != nil {
		return nil, err
	}
	return ToPurchaseEntity(&purchase), nil
}

// Settle writes the purchase, the creator earning and the purchase.settled
// outbox event in one transaction. Either all rows exist afterwards or none.
func (r *purchaseRepository) Settle(ctx context.Context, settlement *entity.Settlement) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		purchaseModel := ToPurchaseModel(settlement.Purchase)
		if err := tx.Create(purchaseModel).Error; err != nil {
			return err
		}
		*settlement.Purchase = *ToPurchaseEntity(purchaseModel)

		if settlement.Earning == nil {
			return nil
		}

		settlement.Earning.PurchaseID = purchaseModel.ID
		earningModel := ToEarningModel(settlement.Earning)
		if err := tx.Create(earningModel).Error; err != nil {
			return fmt.Errorf("failed to record earning: %w", err)
		}
		*settlement.Earning = *ToEarningEntity(earningModel)

		payload, err := json.Marshal(ToSettledEvent(settlement))
		if err != nil {
			return fmt.Errorf("failed to encode settlement event: %w", err)
		}
		event := &models.OutboxEvent{
			AggregateID: purchaseModel.ID,
			EventType:   queue.RoutingKeyPurchaseSettled,
			Payload:     payload,
		}
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("failed to enqueue settlement event: %w", err)
		}
		return nil
	})

	if database.IsUniqueViolation(err, models.PurchaseBuyerProductIndex) {
		return ErrAlreadyOwned
	}
	return err
}

func (r *purchaseRepository) ListOwned(ctx context.Context, buyerID string, limit, offset int) ([]*entity.OwnedProduct, error) {
	var purchases []models.Purchase
	query := r.db.WithContext(ctx).Where("buyer_id = ?", buyerID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&purchases).Error; err != nil {
		return nil, err
	}
	if len(purchases) == 0 {
		return []*entity.OwnedProduct{}, nil
	}

	productIDs := make([]string, len(purchases))
	for i := range purchases {
		productIDs[i] = purchases[i].VideoID
	}

	var products []models.Product
	if err := r.db.WithContext(ctx).Unscoped().Where("id IN ?", productIDs).Find(&products).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Product, len(products))
	for i := range products {
		byID[products[i].ID] = ToProductEntity(&products[i])
	}

	owned := make([]*entity.OwnedProduct, 0, len(purchases))
	for i := range purchases {
		owned = append(owned, &entity.OwnedProduct{
			Purchase: ToPurchaseEntity(&purchases[i]),
			Product:  byID[purchases[i].VideoID],
		})
	}
	return owned, nil
}
