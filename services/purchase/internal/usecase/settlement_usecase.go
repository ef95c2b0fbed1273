package usecase

import (
	"context"
	"errors"
	"time"

	"creator-market/pkg/apperr"
	"creator-market/pkg/logger"
	"creator-market/pkg/metrics"
	"creator-market/pkg/money"
	"creator-market/services/purchase/internal/entity"
	"creator-market/services/purchase/internal/repo/persistent"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound = apperr.NotFound("product not found")
	ErrNotPurchased    = apperr.Forbidden("purchase this product to download it")
	ErrNoSession       = apperr.Unauthorized("sign in to continue")
)

// DownloadSigner issues time-limited links to private objects.
type DownloadSigner interface {
	SignedURL(key string, ttl time.Duration) (string, error)
}

type SettlementUseCase interface {
	Purchase(ctx context.Context, productID, buyerID string) (*entity.Receipt, error)
	ListPurchases(ctx context.Context, buyerID string, limit, offset int) ([]*entity.OwnedProduct, error)
	HasAccess(ctx context.Context, productID, buyerID string) (bool, error)
	GrantDownload(ctx context.Context, productID, buyerID string) (*entity.DownloadGrant, error)
}

type settlementUseCase struct {
	repo        persistent.PurchaseRepository
	signer      DownloadSigner
	feeRate     float64
	downloadTTL time.Duration
	logger      *logger.Logger
	now         func() time.Time
}

func NewSettlementUseCase(repo persistent.PurchaseRepository, signer DownloadSigner, feeRate float64, downloadTTL time.Duration, logger *logger.Logger) SettlementUseCase {
	return &settlementUseCase{
		repo:        repo,
		signer:      signer,
		feeRate:     feeRate,
		downloadTTL: downloadTTL,
		logger:      logger,
		now:         time.Now,
	}
}

// Purchase settles a sale for the signed-in buyer. A buyer owns a product at
// most once: repeating the call returns the original purchase unchanged.
func (uc *settlementUseCase) Purchase(ctx context.Context, productID, buyerID string) (*entity.Receipt, error) {
	if buyerID == "" {
		return nil, ErrNoSession
	}

	product, err := uc.repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		uc.logger.Error("Failed to load product %s: %v", productID, err)
		metrics.RecordSettlement(string(entity.ResultFailed))
		return nil, apperr.Internal("failed to load product", err)
	}
	if product.Deleted {
		return nil, ErrProductNotFound
	}

	if existing, err := uc.findPurchase(ctx, productID, buyerID); err != nil {
		metrics.RecordSettlement(string(entity.ResultFailed))
		return nil, err
	} else if existing != nil {
		metrics.RecordSettlement(string(entity.ResultAlreadyOwned))
		return &entity.Receipt{Result: entity.ResultAlreadyOwned, Purchase: existing}, nil
	}

	now := uc.now().UTC()
	settlement := &entity.Settlement{
		Purchase: &entity.Purchase{
			VideoID:   product.ID,
			BuyerID:   buyerID,
			Amount:    money.Zero(),
			CreatedAt: now,
		},
	}
	result := entity.ResultFree

	if !product.IsFree {
		fee, share := money.Split(product.Price, uc.feeRate)
		settlement.Purchase.Amount = product.Price.Round(money.Scale)
		settlement.Earning = &entity.Earning{
			CreatorID:   product.CreatorID,
			VideoID:     product.ID,
			Amount:      share,
			PlatformFee: fee,
			CreatedAt:   now,
		}
		result = entity.ResultSettled
	}

	if err := uc.repo.Settle(ctx, settlement); err != nil {
		if errors.Is(err, persistent.ErrAlreadyOwned) {
			// Lost a race with a concurrent purchase of the same product.
			existing, findErr := uc.findPurchase(ctx, productID, buyerID)
			if findErr == nil && existing != nil {
				metrics.RecordSettlement(string(entity.ResultAlreadyOwned))
				return &entity.Receipt{Result: entity.ResultAlreadyOwned, Purchase: existing}, nil
			}
		}
		uc.logger.Error("Failed to settle purchase of %s by %s: %v", productID, buyerID, err)
		metrics.RecordSettlement(string(entity.ResultFailed))
		return nil, apperr.Internal("failed to complete purchase", err)
	}

	metrics.RecordSettlement(string(result))
	if settlement.Earning != nil {
		uc.logger.Info("Purchase %s settled: product=%s buyer=%s amount=%s creator_share=%s fee=%s",
			settlement.Purchase.ID, product.ID, buyerID,
			settlement.Purchase.Amount.StringFixed(money.Scale),
			settlement.Earning.Amount.StringFixed(money.Scale),
			settlement.Earning.PlatformFee.StringFixed(money.Scale))
	} else {
		uc.logger.Info("Free product %s claimed by %s", product.ID, buyerID)
	}

	return &entity.Receipt{
		Result:   result,
		Purchase: settlement.Purchase,
		Earning:  settlement.Earning,
	}, nil
}

func (uc *settlementUseCase) ListPurchases(ctx context.Context, buyerID string, limit, offset int) ([]*entity.OwnedProduct, error) {
	owned, err := uc.repo.ListOwned(ctx, buyerID, limit, offset)
	if err != nil {
		uc.logger.Error("Failed to list purchases of %s: %v", buyerID, err)
		return nil, apperr.Internal("failed to list purchases", err)
	}
	return owned, nil
}

func (uc *settlementUseCase) HasAccess(ctx context.Context, productID, buyerID string) (bool, error) {
	purchase, err := uc.findPurchase(ctx, productID, buyerID)
	if err != nil {
		return false, err
	}
	return purchase != nil, nil
}

// GrantDownload signs a link to the product file for a buyer who owns it.
// Deleted products stay downloadable for their buyers.
func (uc *settlementUseCase) GrantDownload(ctx context.Context, productID, buyerID string) (*entity.DownloadGrant, error) {
	purchase, err := uc.findPurchase(ctx, productID, buyerID)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, ErrNotPurchased
	}

	product, err := uc.repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		uc.logger.Error("Failed to load product %s: %v", productID, err)
		return nil, apperr.Internal("failed to load product", err)
	}

	issuedAt := uc.now().UTC()
	url, err := uc.signer.SignedURL(product.AssetPath, uc.downloadTTL)
	if err != nil {
		uc.logger.Error("Failed to sign download of %s for %s: %v", productID, buyerID, err)
		return nil, apperr.Internal("failed to prepare download", err)
	}

	return &entity.DownloadGrant{
		URL:       url,
		ExpiresAt: issuedAt.Add(uc.downloadTTL),
	}, nil
}

func (uc *settlementUseCase) findPurchase(ctx context.Context, productID, buyerID string) (*entity.Purchase, error) {
	purchase, err := uc.repo.FindPurchase(ctx, productID, buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		uc.logger.Error("Failed to check purchase of %s by %s: %v", productID, buyerID, err)
		return nil, apperr.Internal("failed to check purchase", err)
	}
	return purchase, nil
}
