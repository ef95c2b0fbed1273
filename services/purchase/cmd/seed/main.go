package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"creator-market/pkg/config"
	"creator-market/pkg/database"
	"creator-market/pkg/logger"
	"creator-market/pkg/models"
	"creator-market/pkg/s3"
	"creator-market/services/purchase/internal/repo/persistent"
	"creator-market/services/purchase/internal/usecase"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type seedUser struct {
	id       string
	username string
	fullName string
}

type seedProduct struct {
	id          string
	creatorID   string
	title       string
	price       string
	productType string
}

var users = []seedUser{
	{"0b6f9b3e-1c1a-4f5e-9a51-6a0c1f3d2e01", "alice_makes", "Alice Maker"},
	{"0b6f9b3e-1c1a-4f5e-9a51-6a0c1f3d2e02", "bob_buys", "Bob Buyer"},
	{"0b6f9b3e-1c1a-4f5e-9a51-6a0c1f3d2e03", "carol_films", "Carol Films"},
}

var products = []seedProduct{
	{"7d2c4e1a-5b3f-4a6d-8e9c-0f1a2b3c4d01", users[0].id, "Watercolor Brush Pack", "9.99", "digital"},
	{"7d2c4e1a-5b3f-4a6d-8e9c-0f1a2b3c4d02", users[0].id, "Free Palette Guide", "0", "digital"},
	{"7d2c4e1a-5b3f-4a6d-8e9c-0f1a2b3c4d03", users[2].id, "Lighting Masterclass", "100", "video"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New().With("service", "seed")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	assetStore, err := s3.NewClient(cfg, cfg.S3BucketName)
	if err != nil {
		log.Error("Failed to create S3 client: %v", err)
		panic(err)
	}

	mediaStore, err := s3.NewClient(cfg, cfg.S3PublicBucketName)
	if err != nil {
		log.Error("Failed to create S3 client: %v", err)
		panic(err)
	}

	settlement := usecase.NewSettlementUseCase(
		persistent.NewPurchaseRepository(db),
		assetStore,
		cfg.PlatformFeeRate,
		cfg.DownloadURLTTL,
		log,
	)

	if err := seedDatabase(context.Background(), db, assetStore, mediaStore, settlement, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(ctx context.Context, db *gorm.DB, assetStore, mediaStore *s3.Client, settlement usecase.SettlementUseCase, log *logger.Logger) error {
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	for _, u := range users {
		err := db.WithContext(ctx).Table("profiles").
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(map[string]interface{}{
				"id":          u.id,
				"username":    u.username,
				"full_name":   u.fullName,
				"about_links": "[]",
				"created_at":  time.Now(),
				"updated_at":  time.Now(),
			}).Error
		if err != nil {
			return fmt.Errorf("failed to create profile %s: %w", u.username, err)
		}
		log.Info("Profile ready: %s", u.username)
	}

	for i, p := range products {
		var existing models.Product
		if err := db.WithContext(ctx).Unscoped().Where("id = ?", p.id).First(&existing).Error; err == nil {
			log.Info("Product %s already exists, skipping", p.title)
			continue
		}

		if err := createProduct(ctx, db, assetStore, mediaStore, httpClient, p, i, log); err != nil {
			log.Error("Failed to create product %s: %v", p.title, err)
			continue
		}
	}

	// Bob buys everything so every settlement path has a row
	buyer := users[1].id
	for _, p := range products {
		receipt, err := settlement.Purchase(ctx, p.id, buyer)
		if err != nil {
			log.Error("Failed to purchase %s: %v", p.title, err)
			continue
		}
		log.Info("Purchase of %s: %s", p.title, receipt.Result)
	}

	return nil
}

func createProduct(ctx context.Context, db *gorm.DB, assetStore, mediaStore *s3.Client, httpClient *http.Client, p seedProduct, index int, log *logger.Logger) error {
	now := time.Now()
	filename := s3.SanitizeFilename(p.title) + ".txt"
	assetKey := s3.ProductAssetKey(p.productType, p.creatorID, now, filename)

	asset := bytes.NewReader([]byte(fmt.Sprintf("%s\nSeeded sample content.\n", p.title)))
	if err := assetStore.Put(assetKey, asset, "text/plain"); err != nil {
		return fmt.Errorf("failed to upload asset: %w", err)
	}

	thumbnailURL, err := uploadThumbnail(mediaStore, httpClient, p, now, log)
	if err != nil {
		// Products are usable without a thumbnail
		log.Warn("No thumbnail for %s: %v", p.title, err)
	}

	price := decimal.RequireFromString(p.price)
	product := &models.Product{
		ID:           p.id,
		CreatorID:    p.creatorID,
		Title:        p.title,
		Description:  fmt.Sprintf("Sample product #%d", index+1),
		Price:        price,
		IsFree:       price.IsZero(),
		ProductType:  p.productType,
		AssetPath:    assetKey,
		ThumbnailURL: thumbnailURL,
	}

	if err := db.WithContext(ctx).Create(product).Error; err != nil {
		_ = assetStore.Delete(assetKey)
		return fmt.Errorf("failed to create product: %w", err)
	}

	log.Info("Created product: %s (%s)", p.title, price.StringFixed(2))
	return nil
}

func uploadThumbnail(mediaStore *s3.Client, httpClient *http.Client, p seedProduct, now time.Time, log *logger.Logger) (string, error) {
	imageURL := "https://picsum.photos/seed/" + p.id + "/640/360"

	log.Info("Fetching thumbnail from %s", imageURL)
	resp, err := httpClient.Get(imageURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image host returned status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read image data: %w", err)
	}
	if len(imageData) == 0 {
		return "", fmt.Errorf("received empty image data")
	}

	key := s3.ThumbnailKey(p.creatorID, now, "thumb.jpg")
	if err := mediaStore.Put(key, bytes.NewReader(imageData), "image/jpeg"); err != nil {
		return "", fmt.Errorf("failed to upload thumbnail: %w", err)
	}
	return mediaStore.PublicURL(key), nil
}
