package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"creator-market/pkg/apperr"
	"creator-market/pkg/logger"
	"creator-market/pkg/s3"
	"creator-market/services/catalog/internal/entity"
	"creator-market/services/catalog/internal/repo/persistent"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxTitleLength = 255

var (
	ErrProductNotFound = apperr.NotFound("product not found")
	ErrNotOwner        = apperr.Forbidden("only the creator can change this product")
	ErrNotPurchased    = apperr.Forbidden("purchase this product before rating it")
	ErrInvalidRating   = apperr.Validation("rating must be between 1 and 5")
)

// ObjectStore is the subset of the S3 client the catalog needs.
type ObjectStore interface {
	Put(key string, body io.ReadSeeker, contentType string) error
	Delete(key string) error
	PublicURL(key string) string
}

type CreateProductInput struct {
	Title       string
	Description string
	Price       decimal.Decimal
	IsFree      bool
	ProductType entity.ProductType
}

type CatalogUseCase interface {
	CreateProduct(ctx context.Context, creatorID string, input CreateProductInput, asset entity.Upload, thumbnail *entity.Upload) (*entity.Product, error)
	GetProduct(ctx context.Context, productID string) (*entity.Product, error)
	ListProducts(ctx context.Context, query string, limit, offset int) ([]*entity.Product, error)
	ListCreatorProducts(ctx context.Context, creatorID string, limit, offset int) ([]*entity.Product, error)
	UpdateProduct(ctx context.Context, productID, userID string, update entity.ProductUpdate) (*entity.Product, error)
	DeleteProduct(ctx context.Context, productID, userID string) error
	RateProduct(ctx context.Context, productID, buyerID string, rating int, review string) (*entity.Rating, error)
	GetMyRating(ctx context.Context, productID, buyerID string) (*entity.Rating, error)
	GetRatings(ctx context.Context, productID string) (*entity.RatingSummary, error)
}

type catalogUseCase struct {
	productRepo persistent.ProductRepository
	ratingRepo  persistent.RatingRepository
	assetStore  ObjectStore
	mediaStore  ObjectStore
	logger      *logger.Logger
	now         func() time.Time
}

func NewCatalogUseCase(productRepo persistent.ProductRepository, ratingRepo persistent.RatingRepository, assetStore, mediaStore ObjectStore, logger *logger.Logger) CatalogUseCase {
	return &catalogUseCase{
		productRepo: productRepo,
		ratingRepo:  ratingRepo,
		assetStore:  assetStore,
		mediaStore:  mediaStore,
		logger:      logger,
		now:         time.Now,
	}
}

func (uc *catalogUseCase) CreateProduct(ctx context.Context, creatorID string, input CreateProductInput, asset entity.Upload, thumbnail *entity.Upload) (*entity.Product, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	if len(title) > maxTitleLength {
		return nil, apperr.Validation("title is too long")
	}
	if !input.ProductType.Valid() {
		return nil, apperr.Validation("product_type must be video or digital")
	}
	if err := entity.ValidatePricing(input.Price, input.IsFree); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if asset.Body == nil || asset.Filename == "" {
		return nil, apperr.Validation("product file is required")
	}

	now := uc.now()
	product := &entity.Product{
		CreatorID:   creatorID,
		Title:       title,
		Description: input.Description,
		Price:       input.Price.Round(2),
		IsFree:      input.IsFree,
		ProductType: input.ProductType,
		AssetPath:   s3.ProductAssetKey(string(input.ProductType), creatorID, now, asset.Filename),
	}

	if err := uc.assetStore.Put(product.AssetPath, asset.Body, asset.ContentType); err != nil {
		uc.logger.Error("Failed to upload product file for %s: %v", creatorID, err)
		return nil, apperr.Internal("failed to upload product file", err)
	}

	var thumbnailKey string
	if thumbnail != nil && thumbnail.Body != nil {
		thumbnailKey = s3.ThumbnailKey(creatorID, now, thumbnail.Filename)
		if err := uc.mediaStore.Put(thumbnailKey, thumbnail.Body, thumbnail.ContentType); err != nil {
			uc.logger.Error("Failed to upload thumbnail for %s: %v", creatorID, err)
			uc.removeObjects(product.AssetPath, "")
			return nil, apperr.Internal("failed to upload thumbnail", err)
		}
		product.ThumbnailURL = uc.mediaStore.PublicURL(thumbnailKey)
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		uc.logger.Error("Failed to create product for %s: %v", creatorID, err)
		uc.removeObjects(product.AssetPath, thumbnailKey)
		return nil, apperr.Internal("failed to create product", err)
	}

	uc.logger.Info("Product %s created by %s (%s, price %s)", product.ID, creatorID, product.ProductType, product.Price.StringFixed(2))
	return product, nil
}

func (uc *catalogUseCase) GetProduct(ctx context.Context, productID string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		uc.logger.Error("Failed to load product %s: %v", productID, err)
		return nil, apperr.Internal("failed to load product", err)
	}
	return product, nil
}

func (uc *catalogUseCase) ListProducts(ctx context.Context, query string, limit, offset int) ([]*entity.Product, error) {
	products, err := uc.productRepo.List(ctx, query, limit, offset)
	if err != nil {
		uc.logger.Error("Failed to list products: %v", err)
		return nil, apperr.Internal("failed to list products", err)
	}
	return products, nil
}

func (uc *catalogUseCase) ListCreatorProducts(ctx context.Context, creatorID string, limit, offset int) ([]*entity.Product, error) {
	products, err := uc.productRepo.ListByCreator(ctx, creatorID, limit, offset)
	if err != nil {
		uc.logger.Error("Failed to list products of %s: %v", creatorID, err)
		return nil, apperr.Internal("failed to list products", err)
	}
	return products, nil
}

func (uc *catalogUseCase) UpdateProduct(ctx context.Context, productID, userID string, update entity.ProductUpdate) (*entity.Product, error) {
	product, err := uc.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.CreatorID != userID {
		return nil, ErrNotOwner
	}

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, apperr.Validation("title is required")
		}
		if len(title) > maxTitleLength {
			return nil, apperr.Validation("title is too long")
		}
		product.Title = title
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.IsFree != nil {
		product.IsFree = *update.IsFree
		if product.IsFree && update.Price == nil {
			product.Price = decimal.Zero
		}
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if err := entity.ValidatePricing(product.Price, product.IsFree); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	if err := uc.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		uc.logger.Error("Failed to update product %s: %v", productID, err)
		return nil, apperr.Internal("failed to update product", err)
	}

	return uc.GetProduct(ctx, productID)
}

// DeleteProduct hides the product from discovery. Buyers keep their access,
// so the stored file is only removed when nobody has bought it.
func (uc *catalogUseCase) DeleteProduct(ctx context.Context, productID, userID string) error {
	product, err := uc.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if product.CreatorID != userID {
		return ErrNotOwner
	}

	if err := uc.productRepo.SoftDelete(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		uc.logger.Error("Failed to delete product %s: %v", productID, err)
		return apperr.Internal("failed to delete product", err)
	}

	purchases, err := uc.productRepo.CountPurchases(ctx, productID)
	if err != nil {
		uc.logger.Warn("Keeping files of deleted product %s, purchase count failed: %v", productID, err)
		return nil
	}
	if purchases == 0 {
		uc.removeObjects(product.AssetPath, "")
	}

	uc.logger.Info("Product %s deleted by %s (%d purchases)", productID, userID, purchases)
	return nil
}

func (uc *catalogUseCase) RateProduct(ctx context.Context, productID, buyerID string, rating int, review string) (*entity.Rating, error) {
	if rating < entity.MinRating || rating > entity.MaxRating {
		return nil, ErrInvalidRating
	}

	// Buyers keep rating rights after the creator deletes the product.
	if _, err := uc.productRepo.GetByIDUnscoped(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		uc.logger.Error("Failed to load product %s: %v", productID, err)
		return nil, apperr.Internal("failed to load product", err)
	}

	purchased, err := uc.productRepo.HasPurchase(ctx, productID, buyerID)
	if err != nil {
		uc.logger.Error("Failed to check purchase of %s by %s: %v", productID, buyerID, err)
		return nil, apperr.Internal("failed to check purchase", err)
	}
	if !purchased {
		return nil, ErrNotPurchased
	}

	stored := &entity.Rating{
		VideoID: productID,
		BuyerID: buyerID,
		Rating:  rating,
		Review:  strings.TrimSpace(review),
	}
	if err := uc.ratingRepo.Upsert(ctx, stored); err != nil {
		uc.logger.Error("Failed to save rating of %s by %s: %v", productID, buyerID, err)
		return nil, apperr.Internal("failed to save rating", err)
	}

	return stored, nil
}

func (uc *catalogUseCase) GetMyRating(ctx context.Context, productID, buyerID string) (*entity.Rating, error) {
	rating, err := uc.ratingRepo.GetByBuyer(ctx, productID, buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		uc.logger.Error("Failed to load rating of %s by %s: %v", productID, buyerID, err)
		return nil, apperr.Internal("failed to load rating", err)
	}
	return rating, nil
}

func (uc *catalogUseCase) GetRatings(ctx context.Context, productID string) (*entity.RatingSummary, error) {
	counts, err := uc.ratingRepo.CountByStar(ctx, productID)
	if err != nil {
		uc.logger.Error("Failed to load ratings of %s: %v", productID, err)
		return nil, apperr.Internal("failed to load ratings", err)
	}
	summary := entity.SummarizeRatings(counts)
	return &summary, nil
}

func (uc *catalogUseCase) removeObjects(assetKey, thumbnailKey string) {
	if assetKey != "" {
		if err := uc.assetStore.Delete(assetKey); err != nil {
			uc.logger.Warn("Failed to remove product file %s: %v", assetKey, err)
		}
	}
	if thumbnailKey != "" {
		if err := uc.mediaStore.Delete(thumbnailKey); err != nil {
			uc.logger.Warn("Failed to remove thumbnail %s: %v", thumbnailKey, err)
		}
	}
}
